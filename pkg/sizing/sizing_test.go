package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cablemoment/pkg/errors"
)

func TestTablesAligned(t *testing.T) {
	assert.Len(t, Ampacities, len(CrossSections))
	assert.IsIncreasing(t, CrossSections)
	assert.IsIncreasing(t, Ampacities)
	assert.IsIncreasing(t, Breakers)
}

func TestCurrent(t *testing.T) {
	// 10 kW at 380 V, cos φ 0.9: 10000 / (1.732 * 380 * 0.9) ≈ 16.88 A.
	assert.InDelta(t, 16.88, Current(10, Options{}), 0.01)
	// 2 kW single-phase at 220 V, cos φ 1.
	assert.InDelta(t, 9.09, Current(2, Options{System: SinglePhase, CosPhi: 1}), 0.01)
}

func TestDrop(t *testing.T) {
	assert.InDelta(t, 1.0, Drop(72*2.5, 2.5, Options{}), 1e-12)
	assert.InDelta(t, 1.0, Drop(12*4, 4, Options{System: SinglePhase}), 1e-12)
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		moment  float64
		power   float64
		opts    Options
		section float64
		breaker float64
	}{
		// 1.5 mm²: drop 0.9/108 ≈ 0.008 %, 16.9 A fits 21 A with a 20 A breaker.
		{"small load", 0.9, 10, Options{}, 1.5, 20},
		// 2.4 % on 72·s needs s ≥ 500/172.8 ≈ 2.9 → 4 mm².
		{"drop bound", 500, 5, Options{}, 4, 10},
		// 60 kW ≈ 101 A needs 25 mm² (112 A) but no breaker sits in [101, 112]; 35 mm² takes 125 A.
		{"breaker bound", 1, 60, Options{}, 35, 125},
		{"single phase", 100, 2, Options{System: SinglePhase}, 4, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := Select(tt.moment, tt.power, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.section, sel.CrossSection)
			assert.Equal(t, tt.breaker, sel.Breaker)
			assert.LessOrEqual(t, sel.Drop, DefaultMaxDrop)
			assert.GreaterOrEqual(t, sel.Ampacity, sel.Current)
		})
	}
}

func TestSelectNothingFits(t *testing.T) {
	_, err := Select(1e6, 10, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNoConductor))

	_, err = Select(1, 1000, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeNoConductor))
}

func TestSelectInvalid(t *testing.T) {
	_, err := Select(-1, 10, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = Select(1, 1, Options{System: "dc"})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))

	_, err = Select(1, 1, Options{CosPhi: 1.5})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
