// Package sizing selects a copper conductor and protective breaker for a
// network from its feed-point moment and power.
//
// The voltage drop check uses the moment method: ΔU% = M / (C·s), with M in
// kW·m, s in mm² and C the material/system coefficient (72 for copper on a
// 380/220 V three-phase system, 12 for copper at 220 V single-phase). A
// cross-section passes when its drop stays within the limit, its ampacity
// covers the design current, and a standard breaker fits between the two.
package sizing

import (
	"math"

	"github.com/matzehuels/cablemoment/pkg/errors"
)

// System is the supply arrangement.
type System string

const (
	ThreePhase  System = "three-phase"
	SinglePhase System = "single-phase"
)

// Defaults.
const (
	DefaultMaxDrop = 2.4 // percent
	DefaultCosPhi  = 0.9
)

// CrossSections are the standard copper cross-sections in mm².
var CrossSections = []float64{1.5, 2.5, 4, 6, 10, 16, 25, 35, 50, 70, 95, 120, 150, 185, 240}

// Ampacities are the continuous current ratings in A, indexed like CrossSections.
var Ampacities = []float64{21, 27, 36, 46, 63, 84, 112, 137, 167, 211, 261, 302, 346, 397, 472}

// Breakers are the standard breaker ratings in A.
var Breakers = []float64{6, 10, 16, 20, 25, 32, 40, 50, 63, 80, 100, 125, 160, 250, 400, 630, 800, 1000}

// Options configures conductor selection. The zero value selects for a
// 380 V three-phase system with cos φ 0.9 and a 2.4 % drop limit.
type Options struct {
	System      System  `toml:"system" json:"system,omitempty"`
	Voltage     float64 `toml:"voltage" json:"voltage,omitempty"`         // Line voltage in V
	CosPhi      float64 `toml:"cos_phi" json:"cos_phi,omitempty"`         // Power factor
	MaxDrop     float64 `toml:"max_drop" json:"max_drop,omitempty"`       // Voltage drop limit in percent
	Coefficient float64 `toml:"coefficient" json:"coefficient,omitempty"` // C; zero picks the copper value for System
}

// WithDefaults returns a copy of o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.System == "" {
		o.System = ThreePhase
	}
	if o.Voltage == 0 {
		o.Voltage = 380
		if o.System == SinglePhase {
			o.Voltage = 220
		}
	}
	if o.CosPhi == 0 {
		o.CosPhi = DefaultCosPhi
	}
	if o.MaxDrop == 0 {
		o.MaxDrop = DefaultMaxDrop
	}
	if o.Coefficient == 0 {
		o.Coefficient = 72
		if o.System == SinglePhase {
			o.Coefficient = 12
		}
	}
	return o
}

// Validate checks the options after defaults have been applied.
func (o Options) Validate() error {
	o = o.WithDefaults()
	if o.System != ThreePhase && o.System != SinglePhase {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown system %q", o.System)
	}
	if o.Voltage <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "voltage must be positive, got %v", o.Voltage)
	}
	if o.CosPhi <= 0 || o.CosPhi > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "cos phi must be in (0, 1], got %v", o.CosPhi)
	}
	if o.MaxDrop <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max drop must be positive, got %v", o.MaxDrop)
	}
	if o.Coefficient <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "coefficient must be positive, got %v", o.Coefficient)
	}
	return nil
}

// Selection is the chosen conductor and breaker.
type Selection struct {
	CrossSection float64 `json:"cross_section" bson:"cross_section"` // mm²
	Ampacity     float64 `json:"ampacity" bson:"ampacity"`           // A
	Breaker      float64 `json:"breaker" bson:"breaker"`             // A
	Current      float64 `json:"current" bson:"current"`             // Design current in A
	Drop         float64 `json:"drop" bson:"drop"`                   // Voltage drop in percent
}

// Current returns the design current in amperes for a power in kW.
func Current(powerKW float64, opts Options) float64 {
	opts = opts.WithDefaults()
	watts := powerKW * 1000
	if opts.System == SinglePhase {
		return watts / (opts.Voltage * opts.CosPhi)
	}
	return watts / (math.Sqrt(3) * opts.Voltage * opts.CosPhi)
}

// Drop returns the voltage drop in percent for a moment in kW·m carried by
// cross-section s mm².
func Drop(moment, s float64, opts Options) float64 {
	opts = opts.WithDefaults()
	return moment / (opts.Coefficient * s)
}

// Select returns the smallest standard cross-section that satisfies the drop
// limit and the current, together with the smallest breaker rated between
// the design current and the cable's ampacity.
func Select(moment, powerKW float64, opts Options) (Selection, error) {
	if err := opts.Validate(); err != nil {
		return Selection{}, err
	}
	opts = opts.WithDefaults()
	if moment < 0 || powerKW < 0 || math.IsNaN(moment) || math.IsNaN(powerKW) {
		return Selection{}, errors.New(errors.ErrCodeInvalidInput, "moment and power must be non-negative")
	}

	current := Current(powerKW, opts)
	for i, s := range CrossSections {
		drop := Drop(moment, s, opts)
		if drop > opts.MaxDrop || Ampacities[i] < current {
			continue
		}
		breaker, ok := pickBreaker(current, Ampacities[i])
		if !ok {
			continue
		}
		return Selection{
			CrossSection: s,
			Ampacity:     Ampacities[i],
			Breaker:      breaker,
			Current:      current,
			Drop:         drop,
		}, nil
	}
	return Selection{}, errors.New(errors.ErrCodeNoConductor,
		"no standard cross-section carries %.1f A with a drop within %.1f%% (moment %.3f kW·m)",
		current, opts.MaxDrop, moment)
}

func pickBreaker(current, ampacity float64) (float64, bool) {
	for _, b := range Breakers {
		if b >= current && b <= ampacity {
			return b, true
		}
	}
	return 0, false
}
