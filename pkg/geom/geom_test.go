package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/cablemoment/pkg/errors"
)

const eps = 1e-9

func TestDistance(t *testing.T) {
	assert.InDelta(t, 5.0, Distance(Pt(0, 0), Pt(3, 4)), eps)
	assert.InDelta(t, 0.0, Distance(Pt(7, -2), Pt(7, -2)), eps)
}

func TestSegmentEndpoints(t *testing.T) {
	s := NewSegment("a", Pt(0, 0), Pt(100, 0), Pt(100, 50))

	assert.Equal(t, Pt(0, 0), s.Start())
	assert.Equal(t, Pt(100, 50), s.End())
	assert.InDelta(t, 150.0, s.Length(), eps)
}

func TestClosestPoint(t *testing.T) {
	s := NewSegment("a", Pt(0, 0), Pt(100, 0), Pt(100, 50))

	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{"on first leg", Pt(40, 0), Pt(40, 0)},
		{"above first leg", Pt(40, 7), Pt(40, 0)},
		{"before start is clamped", Pt(-20, 3), Pt(0, 0)},
		{"beside second leg", Pt(108, 20), Pt(100, 20)},
		{"past end is clamped", Pt(100, 90), Pt(100, 50)},
		{"corner", Pt(105, -5), Pt(100, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.ClosestPoint(tt.p)
			assert.InDelta(t, tt.want[0], got[0], eps)
			assert.InDelta(t, tt.want[1], got[1], eps)
		})
	}
}

func TestOffsetAt(t *testing.T) {
	s := NewSegment("a", Pt(0, 0), Pt(100, 0), Pt(100, 50))

	assert.InDelta(t, 0.0, s.OffsetAt(Pt(0, 0)), eps)
	assert.InDelta(t, 50.0, s.OffsetAt(Pt(50, 0)), eps)
	assert.InDelta(t, 100.0, s.OffsetAt(Pt(100, 0)), eps)
	assert.InDelta(t, 125.0, s.OffsetAt(Pt(100, 25)), eps)
	assert.InDelta(t, 150.0, s.OffsetAt(Pt(100, 50)), eps)
	// Off-line points are measured at their projection.
	assert.InDelta(t, 125.0, s.OffsetAt(Pt(103, 25)), eps)
}

func TestReverse(t *testing.T) {
	s := NewSegment("a", Pt(0, 0), Pt(100, 0), Pt(100, 50))
	s.Reverse()

	assert.Equal(t, Pt(100, 50), s.Start())
	assert.Equal(t, Pt(0, 0), s.End())
	assert.InDelta(t, 0.0, s.OffsetAt(Pt(100, 50)), eps)
	assert.InDelta(t, 150.0, s.OffsetAt(Pt(0, 0)), eps)
	assert.InDelta(t, 100.0, s.OffsetAt(Pt(50, 0)), eps)
}

func TestReverseTwiceRestoresOffsets(t *testing.T) {
	s := NewSegment("a", Pt(0, 0), Pt(30, 40), Pt(90, 40), Pt(90, -10))
	points := []Point{Pt(0, 0), Pt(15, 20), Pt(60, 40), Pt(90, 0), Pt(90, -10)}

	before := make([]float64, len(points))
	for i, p := range points {
		before[i] = s.OffsetAt(p)
	}

	s.Reverse()
	s.Reverse()

	for i, p := range points {
		assert.InDelta(t, before[i], s.OffsetAt(p), eps, "point %v", p)
	}
}

func TestClone(t *testing.T) {
	s := NewSegment("a", Pt(0, 0), Pt(10, 0))
	c := s.Clone()
	c.Reverse()

	assert.Equal(t, Pt(0, 0), s.Start(), "reversing the clone must not touch the original")
	assert.Equal(t, Pt(10, 0), c.Start())
	assert.Equal(t, "a", c.ID)
}

func TestDegenerateLeg(t *testing.T) {
	s := NewSegment("a", Pt(0, 0), Pt(0, 0), Pt(10, 0))

	assert.InDelta(t, 5.0, s.OffsetAt(Pt(5, 1)), eps)
	assert.Equal(t, Pt(0, 0), s.ClosestPoint(Pt(-3, 0)))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		seg     *Segment
		wantErr bool
	}{
		{"valid", NewSegment("a", Pt(0, 0), Pt(1, 0)), false},
		{"missing id", NewSegment("", Pt(0, 0), Pt(1, 0)), true},
		{"single point", NewSegment("a", Pt(0, 0)), true},
		{"nan", NewSegment("a", Pt(0, 0), Pt(math.NaN(), 0)), true},
		{"inf", NewSegment("a", Pt(math.Inf(1), 0), Pt(1, 0)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.seg.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidSegment) || errors.Is(err, errors.ErrCodeInvalidInput))
		})
	}
}
