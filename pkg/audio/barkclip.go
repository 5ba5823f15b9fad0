package audio

import (
	"sync/atomic"
	"time"
)

// InterruptReason identifies why a queued [VoiceClip] was cut short before it
// finished playing naturally.
type InterruptReason int

const (
	// Preempted means a higher-priority clip took over; the rest of the
	// queue for that emitter is preserved.
	Preempted InterruptReason = iota

	// Cleared means the queue itself is being torn down — the owning
	// emitter died or was explicitly stopped — and all queued clips are
	// dropped along with the one currently playing.
	Cleared
)

// String returns the human-readable name of the interrupt reason.
func (r InterruptReason) String() string {
	switch r {
	case Preempted:
		return "PREEMPTED"
	case Cleared:
		return "CLEARED"
	default:
		return "UNKNOWN"
	}
}

// VoiceClip is a single line of dialogue or ono submitted to a [BarkQueue] for
// an emitter. Audio is streamed — PCM chunks arrive incrementally on the
// Audio channel — so playback can begin before decoding finishes.
type VoiceClip struct {
	// EmitterKey identifies the emitter sub-track this clip belongs to, so
	// the queue can be looked up and torn down when the emitter dies.
	EmitterKey string

	// Audio is a read-only channel of PCM chunks. The producer closes it
	// when the clip ends or a mid-stream decode error occurs. After the
	// channel closes, call [VoiceClip.Err] to check for a mid-stream error.
	Audio <-chan []byte

	// SampleRate is the sample rate in Hz of the PCM data (e.g. 48000).
	SampleRate int

	// Channels is 1 for mono, 2 for stereo.
	Channels int

	// Priority controls ordering when multiple clips are queued for the
	// same emitter. Higher values preempt lower ones; equal priority plays
	// in FIFO order.
	Priority int

	streamErr atomic.Pointer[error]
}

// Err returns the error that caused the Audio channel to close prematurely,
// or nil if the stream completed cleanly. Check after the channel closes.
func (c *VoiceClip) Err() error {
	if p := c.streamErr.Load(); p != nil {
		return *p
	}
	return nil
}

// SetStreamErr records a mid-stream decode error. Call before closing Audio
// so a [BarkQueue] can distinguish a clean finish from a failure.
func (c *VoiceClip) SetStreamErr(err error) {
	c.streamErr.Store(&err)
}

// BarkQueue serializes [VoiceClip] playback for a single emitter sub-track:
// at most one clip plays at a time, higher-priority clips preempt lower ones,
// and a configurable gap is inserted between consecutive clips so back-to-back
// barks don't sound clipped together.
//
// Implementations must be safe for concurrent use.
type BarkQueue interface {
	// Enqueue schedules clip for playback at the given priority, overriding
	// clip.Priority so call-site context can elevate or demote a clip
	// without mutating it.
	//
	// If a clip is already playing and the new one outranks it, the current
	// clip is interrupted with [Preempted] and the new one starts immediately.
	Enqueue(clip *VoiceClip, priority int)

	// Interrupt stops whatever is currently playing for the given reason
	// and advances to the next queued clip, if any. A no-op if nothing is
	// playing.
	Interrupt(reason InterruptReason)

	// Clear interrupts the current clip with [Cleared] and drops every
	// queued clip. Used when the owning emitter dies or is stopped.
	Clear()

	// SetGap configures the silence duration inserted between consecutive
	// clips. Zero plays clips back-to-back. Takes effect before the next
	// clip starts.
	SetGap(d time.Duration)
}
