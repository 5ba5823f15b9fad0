package audio

import (
	"math"
	"time"
)

// EasingKind selects the interpolation curve applied over a [Tween]'s
// duration. Names mirror the curve families modders can reference from
// manifest settings and script-originated dilation updates.
type EasingKind int

const (
	// Linear interpolates at a constant rate.
	Linear EasingKind = iota
	// InPowf eases in with an exponent, slow start.
	InPowf
	// OutPowf eases out with an exponent, slow finish.
	OutPowf
	// InOutPowf eases in then out with an exponent.
	InOutPowf
)

// String returns the human-readable name of the easing kind.
func (e EasingKind) String() string {
	switch e {
	case Linear:
		return "Linear"
	case InPowf:
		return "InPowf"
	case OutPowf:
		return "OutPowf"
	case InOutPowf:
		return "InOutPowf"
	default:
		return "Unknown"
	}
}

// Easing pairs an [EasingKind] with the exponent argument the Powf family
// requires. Linear ignores Value.
type Easing struct {
	Kind  EasingKind
	Value float64
}

// At returns the eased progress (0..1) for linear progress t (0..1).
func (e Easing) At(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	switch e.Kind {
	case InPowf:
		return math.Pow(t, e.Value)
	case OutPowf:
		return 1 - math.Pow(1-t, e.Value)
	case InOutPowf:
		if t < 0.5 {
			return math.Pow(2*t, e.Value) / 2
		}
		return 1 - math.Pow(2*(1-t), e.Value)/2
	default:
		return t
	}
}

// Tween describes a timed interpolation: an optional start delay, a duration,
// and an easing curve. Non-finite values clamp to 0, matching the source
// manifest format's tolerance for malformed modder input.
type Tween struct {
	StartDelay time.Duration
	Duration   time.Duration
	Easing     Easing
}

// Immediately is the zero-duration linear tween used for hard cuts (e.g.
// on_emitter_dies, stop(immediate) on streaming handle drop).
var Immediately = Tween{Easing: Easing{Kind: Linear}}

// Sanitize clamps negative timing fields and non-finite easing exponents to
// zero, matching the manifest loader's defensive handling of malformed
// modder-authored tweens.
func (t Tween) Sanitize() Tween {
	if t.StartDelay < 0 {
		t.StartDelay = 0
	}
	if t.Duration < 0 {
		t.Duration = 0
	}
	if !isFinite(t.Easing.Value) {
		t.Easing.Value = 0
	}
	return t
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Decibels converts a linear amplitude (0.0-1.0+) to decibels, with a floor
// at [Silence] to avoid -Inf for zero/negative amplitude. Mirrors the mixer
// graph's volume-modulator conversion: amp -> 20*log10(amp).
func Decibels(amplitude float64) float64 {
	if amplitude <= 0 {
		return Silence
	}
	db := 20 * math.Log10(amplitude)
	if db < Silence {
		return Silence
	}
	return db
}

// Silence is the decibel floor applied to volume modulators; amplitudes at or
// below zero clamp to this value rather than producing -Inf.
const Silence = -80.0
