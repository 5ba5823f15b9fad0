package main

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/silverlode-studios/soundrig/internal/bank"
	"github.com/silverlode-studios/soundrig/internal/handles"
	"github.com/silverlode-studios/soundrig/internal/mixer"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// chunkDuration is how much PCM simPlayback feeds to its destination track
// per tick, matching a typical audio callback period.
const chunkDuration = 20 * time.Millisecond

// simPlayer is a host-free stand-in for a real decode/output backend: it
// paces a bank entry's PCM into the mixer graph on a wall-clock ticker
// instead of driving actual hardware or a voice connection.
type simPlayer struct {
	log *slog.Logger
}

func newSimPlayer(log *slog.Logger) *simPlayer {
	return &simPlayer{log: log}
}

// Play starts pb.run in its own goroutine and returns immediately with a
// handle the caller can Pause/Resume/Stop.
func (p *simPlayer) Play(data bank.Data, dest *mixer.Track) (handles.Playback, error) {
	pb := &simPlayback{data: data, dest: dest, log: p.log}
	pb.state.Store(int32(handles.StatePlaying))
	go pb.run()
	return pb, nil
}

// simPlayback walks one bank.Data's PCM in chunkDuration slices, submitting
// each to dest, and tracks play/pause/stop state the way a real streaming
// handle would.
type simPlayback struct {
	data bank.Data
	dest *mixer.Track
	log  *slog.Logger

	state  atomic.Int32
	stopAt atomic.Value // time.Time; set only once Stop has a tween duration
	rate   atomic.Value // float64, defaults to 1.0
}

func (pb *simPlayback) State() handles.PlaybackState {
	return handles.PlaybackState(pb.state.Load())
}

func (pb *simPlayback) Pause() {
	pb.state.CompareAndSwap(int32(handles.StatePlaying), int32(handles.StatePausing))
}

func (pb *simPlayback) Resume() {
	if pb.state.CompareAndSwap(int32(handles.StatePausing), int32(handles.StatePlaying)) {
		return
	}
	pb.state.CompareAndSwap(int32(handles.StatePaused), int32(handles.StatePlaying))
}

// Stop transitions pb to StateStopping; run() flips it to StateStopped once
// tween's duration has elapsed (or immediately, for a zero-duration tween).
func (pb *simPlayback) Stop(tween audio.Tween) {
	tween = tween.Sanitize()
	pb.state.Store(int32(handles.StateStopping))
	if tween.Duration <= 0 {
		pb.state.Store(int32(handles.StateStopped))
		return
	}
	pb.stopAt.Store(time.Now().Add(tween.StartDelay + tween.Duration))
}

// SetRate stores the new playback-rate multiplier; run reads it on its next
// tick to decide how many PCM bytes to advance by. curve is unused since
// this sim player steps in fixed ticks rather than a continuously tweened
// clock.
func (pb *simPlayback) SetRate(rate float64, curve audio.Tween) {
	pb.rate.Store(rate)
}

func (pb *simPlayback) currentRate() float64 {
	rate, ok := pb.rate.Load().(float64)
	if !ok || rate <= 0 {
		return 1.0
	}
	return rate
}

func (pb *simPlayback) run() {
	frameBytes := frameSize(pb.data.Format, chunkDuration)
	if frameBytes <= 0 {
		if pb.log != nil {
			pb.log.Warn("simPlayback: unplayable format, stopping immediately", "format", pb.data.Format)
		}
		pb.state.Store(int32(handles.StateStopped))
		return
	}

	ticker := time.NewTicker(chunkDuration)
	defer ticker.Stop()

	offset := 0
	for range ticker.C {
		switch pb.State() {
		case handles.StateStopped:
			return
		case handles.StateStopping:
			at, ok := pb.stopAt.Load().(time.Time)
			if ok && !at.IsZero() && !time.Now().Before(at) {
				pb.state.Store(int32(handles.StateStopped))
				return
			}
			continue
		case handles.StatePausing:
			pb.state.CompareAndSwap(int32(handles.StatePausing), int32(handles.StatePaused))
			continue
		case handles.StatePaused:
			continue
		}

		if offset >= len(pb.data.PCM) {
			offset = 0
		}
		step := int(float64(frameBytes) * pb.currentRate())
		end := min(offset+step, len(pb.data.PCM))
		pb.dest.Submit(pb.data.PCM[offset:end])
		offset = end
	}
}

// frameSize returns the byte length of d worth of int16 PCM at format's
// sample rate and channel count.
func frameSize(format audio.Format, d time.Duration) int {
	if format.SampleRate <= 0 || format.Channels <= 0 {
		return 0
	}
	samples := int(float64(format.SampleRate) * d.Seconds())
	return samples * format.Channels * 2
}
