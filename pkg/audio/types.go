package audio

import "time"

// AudioFrame represents a single frame of PCM audio data flowing through the
// mixer graph. Frames are the atomic unit of audio transport — decoded from
// bank entries, streamed from on-demand sources, and pushed through tracks,
// sends, and modulators to the final output callback.
type AudioFrame struct {
	// PCM audio data, interleaved little-endian int16 samples.
	Data []byte

	// SampleRate in Hz (e.g., 48000).
	SampleRate int

	// Channels: 1 for mono, 2 for stereo.
	Channels int

	// Timestamp marks when this frame should play, relative to segment start.
	Timestamp time.Duration
}
