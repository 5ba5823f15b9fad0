package mixer

import "math"

// Preset selects a track's equalizer configuration. Mirrors the three
// presets the original engine exposes to scripts: no filtering, a phone
// call's band-pass, and underwater muffling.
type Preset int

const (
	PresetNone Preset = iota
	PresetUnderwater
	PresetOnThePhone
)

// String returns the human-readable name logged when a preset is applied.
func (p Preset) String() string {
	switch p {
	case PresetNone:
		return "no preset"
	case PresetUnderwater:
		return "underwater preset"
	case PresetOnThePhone:
		return "holocall preset"
	default:
		return "unknown preset"
	}
}

// EQ cutoff/resonance constants, carried over from the original engine's
// filter tuning.
const (
	lowPassPhoneCutoff      = 5_000.0
	highPassPhoneCutoff     = 500.0
	resonance               = 6.0
	lowPassUnderwaterCutoff = 500.0
)

// onePole is a single-pole IIR low-pass or high-pass filter operating on
// int16 PCM samples. mix blends the filtered signal back with the dry
// signal (0 = bypass, 1 = fully filtered), matching the original engine's
// per-filter "mix" parameter used to enable/disable each stage smoothly.
type onePole struct {
	highPass bool
	cutoff   float64
	mix      float64
	sampleRt float64
	prevIn   float64
	prevOut  float64
}

func newOnePole(highPass bool, sampleRate int) *onePole {
	return &onePole{highPass: highPass, sampleRt: float64(sampleRate)}
}

func (f *onePole) setCutoffResonance(cutoff, _ float64) {
	f.cutoff = cutoff
}

func (f *onePole) setMix(mix float64) {
	f.mix = mix
}

// alpha computes the filter's smoothing coefficient from the configured
// cutoff frequency and sample rate.
func (f *onePole) alpha() float64 {
	if f.cutoff <= 0 || f.sampleRt <= 0 {
		return 1
	}
	rc := 1.0 / (2 * math.Pi * f.cutoff)
	dt := 1.0 / f.sampleRt
	return dt / (rc + dt)
}

// process filters one sample, blending dry/wet by f.mix.
func (f *onePole) process(in float64) float64 {
	if f.mix <= 0 {
		f.prevIn, f.prevOut = in, in
		return in
	}
	a := f.alpha()
	var wet float64
	if f.highPass {
		wet = a * (f.prevOut + in - f.prevIn)
	} else {
		wet = f.prevOut + a*(in-f.prevOut)
	}
	f.prevIn = in
	f.prevOut = wet
	return in + (wet-in)*f.mix
}

// EQ is a low-pass plus high-pass filter pair applied to one track, switched
// between presets as a unit.
type EQ struct {
	lowpass  *onePole
	highpass *onePole
	current  Preset
}

// NewEQ returns an [EQ] bypassed (PresetNone) for PCM at sampleRate.
func NewEQ(sampleRate int) *EQ {
	return &EQ{
		lowpass:  newOnePole(false, sampleRate),
		highpass: newOnePole(true, sampleRate),
	}
}

// SetPreset switches the filter pair to preset, matching the original
// engine's per-preset cutoff/resonance/mix table.
func (e *EQ) SetPreset(preset Preset) {
	e.current = preset
	switch preset {
	case PresetNone:
		e.lowpass.setMix(0)
		e.highpass.setMix(0)
	case PresetOnThePhone:
		e.lowpass.setCutoffResonance(lowPassPhoneCutoff, resonance)
		e.lowpass.setMix(1)
		e.highpass.setCutoffResonance(highPassPhoneCutoff, resonance)
		e.highpass.setMix(1)
	case PresetUnderwater:
		e.lowpass.setCutoffResonance(lowPassUnderwaterCutoff, resonance)
		e.lowpass.setMix(1)
		e.highpass.setMix(0)
	}
}

// Preset returns the currently applied preset.
func (e *EQ) Preset() Preset {
	return e.current
}

// Process filters one interleaved int16 PCM buffer in place.
func (e *EQ) Process(pcm []byte) {
	if e.current == PresetNone {
		return
	}
	for i := 0; i+1 < len(pcm); i += 2 {
		sample := int16(uint16(pcm[i]) | uint16(pcm[i+1])<<8)
		v := float64(sample)
		v = e.highpass.process(v)
		v = e.lowpass.process(v)
		v = clampSample(v)
		out := int16(v)
		pcm[i] = byte(out)
		pcm[i+1] = byte(out >> 8)
	}
}

func clampSample(v float64) float64 {
	const max = float64(1<<15 - 1)
	const min = -float64(1 << 15)
	if v > max {
		return max
	}
	if v < min {
		return min
	}
	return v
}
