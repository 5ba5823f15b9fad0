// Package mixer implements the fixed track graph PCM frames flow through
// between a bank entry and the host output callback: per-track volume
// modulators, EQ presets, and the send/route topology connecting sfx,
// radioport, music, dialogue, car_radio, V (vocal/mental/emissive),
// holocall and the shared reverb/ambience buses.
package mixer

import "github.com/silverlode-studios/soundrig/pkg/audio"

// VolumeModulator maps a normalized 0..1 gain (as set by script calls or
// settings) to decibels using the same OutPowf(3) curve the original engine
// ties to its kira volume modulators — fast drop-off near zero, natural
// taper near unity, rather than a linear gain.
type VolumeModulator struct {
	easing audio.Easing
	gain   float64 // 0..1 linear input
}

// NewVolumeModulator returns a modulator initialized to full volume (gain=1).
func NewVolumeModulator() *VolumeModulator {
	return &VolumeModulator{easing: audio.Easing{Kind: audio.OutPowf, Value: 3.0}, gain: 1.0}
}

// Set updates the linear gain (0..1, clamped) the modulator maps to decibels.
func (m *VolumeModulator) Set(gain float64) {
	switch {
	case gain < 0:
		gain = 0
	case gain > 1:
		gain = 1
	}
	m.gain = gain
}

// Decibels returns the current gain converted to decibels through the
// configured easing curve, floored at [audio.Silence].
func (m *VolumeModulator) Decibels() float64 {
	eased := m.easing.At(m.gain)
	return audio.Decibels(eased)
}

// Amplitude returns the current gain as a linear sample-multiplier, derived
// from the same eased curve as [VolumeModulator.Decibels] so the two stay
// consistent.
func (m *VolumeModulator) Amplitude() float64 {
	return m.easing.At(m.gain)
}
