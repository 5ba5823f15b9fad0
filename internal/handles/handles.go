// Package handles tracks every in-flight sound instance the engine has
// started, indexed by a process-unique instance ID, and exposes the bulk
// operations (stop/pause/resume/reclaim) the engine tick and lifecycle
// events drive against that set.
package handles

import (
	"sync"

	"github.com/google/uuid"

	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// PlaybackState mirrors the handful of states a live sound can report,
// independent of whatever decoder/output backend produced the handle.
type PlaybackState int

const (
	StatePlaying PlaybackState = iota
	StatePausing
	StatePaused
	StateStopping
	StateStopped
)

// Playback is the minimal surface a started sound instance must expose for
// the handle store to manage it. Concrete players (streaming decode
// pipeline, one-shot static buffer) implement this independent of the
// handle store itself.
type Playback interface {
	State() PlaybackState
	Pause()
	Resume()
	Stop(tween audio.Tween)
	SetRate(rate float64, curve audio.Tween)
}

// Emitter identifies the spatial emitter a handle is attached to, when any.
type Emitter struct {
	EntityID uint64
	TagName  string
}

// ID is a process-unique handle instance identifier.
type ID uuid.UUID

// Entry is one tracked sound instance.
type Entry struct {
	ID                     ID
	Playback               Playback
	EventName              string
	Emitter                *Emitter
	Spatial                bool
	Streaming              bool
	AffectedByTimeDilation bool
}

// Store owns every live handle. All methods are safe for concurrent use; the
// engine tick is the only expected mutator in practice, but host-boundary
// queries (EmittersCount-style counts) may read concurrently.
type Store struct {
	mu      sync.RWMutex
	entries map[ID]*Entry
}

// New returns an empty handle store.
func New() *Store {
	return &Store{entries: make(map[ID]*Entry)}
}

// Store registers a started playback instance and returns its new ID.
func (s *Store) Store(playback Playback, eventName string, emitter *Emitter, spatial, streaming, affectedByTimeDilation bool) ID {
	id := ID(uuid.New())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &Entry{
		ID:                     id,
		Playback:               playback,
		EventName:              eventName,
		Emitter:                emitter,
		Spatial:                spatial,
		Streaming:              streaming,
		AffectedByTimeDilation: affectedByTimeDilation,
	}
	return id
}

// Get returns the entry for id, if still tracked.
func (s *Store) Get(id ID) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

// Len reports the number of tracked handles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Reclaim drops every handle whose playback has reached [StateStopped].
// As with [Store.Drop], a streaming handle gets Stop(Immediately) as it is
// dropped, whatever its state; this is the `retain(state != Stopped)` pass
// of `handles.rs`, run on the engine's ~60s timer.
func (s *Store) Reclaim() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.Playback.State() == StateStopped {
			if e.Streaming {
				e.Playback.Stop(audio.Immediately)
			}
			delete(s.entries, id)
		}
	}
}

// PauseAll pauses every handle currently playing.
func (s *Store) PauseAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.Playback.State() == StatePlaying {
			e.Playback.Pause()
		}
	}
}

// ResumeAll resumes every handle currently paused or pausing.
func (s *Store) ResumeAll() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		switch e.Playback.State() {
		case StatePaused, StatePausing:
			e.Playback.Resume()
		}
	}
}

// StopAll stops every tracked handle with tween, per the Session stop-all
// lifecycle transition.
func (s *Store) StopAll(tween audio.Tween) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		e.Playback.Stop(tween)
	}
}

// StopBy stops every handle whose (eventName, emitter) tuple matches — a nil
// emitter only matches handles with no emitter.
func (s *Store) StopBy(eventName string, emitter *Emitter, tween audio.Tween) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.EventName == eventName && emittersEqual(e.Emitter, emitter) {
			e.Playback.Stop(tween)
		}
	}
}

func emittersEqual(a, b *Emitter) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// StopFor stops every handle attached to entityID, regardless of event
// name, with tween.
func (s *Store) StopFor(entityID uint64, tween audio.Tween) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.Emitter != nil && e.Emitter.EntityID == entityID {
			e.Playback.Stop(tween)
		}
	}
}

// OnEmitterDies force-stops every handle attached to entityID immediately
// and drops them from the store right away, rather than waiting for the
// next reclaim sweep — matching `on_emitter_dies`'s eager retain+stop.
func (s *Store) OnEmitterDies(entityID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.Emitter != nil && e.Emitter.EntityID == entityID {
			e.Playback.Stop(audio.Immediately)
			delete(s.entries, id)
		}
	}
}

// AnyPlaying reports whether any handle attached to (entityID, tagName) is
// not yet stopped. Intended as the [scene.ReclaimFunc] callback.
func (s *Store) AnyPlaying(entityID uint64, tagName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.Emitter == nil || e.Emitter.EntityID != entityID || e.Emitter.TagName != tagName {
			continue
		}
		if e.Playback.State() != StateStopped {
			return true
		}
	}
	return false
}

// SyncDilation re-applies affected-by-time-dilation handles' playback rate
// whenever the owning track's dilation factor changes. apply is called once
// per affected handle with its entry; the caller decides how the rate is
// actually communicated to the backend.
func (s *Store) SyncDilation(apply func(*Entry)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.AffectedByTimeDilation {
			apply(e)
		}
	}
}

// Drop removes id from the store outright. Per spec, streaming handles
// always stop immediately when dropped rather than left to ring out.
func (s *Store) Drop(id ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return
	}
	if e.Streaming {
		e.Playback.Stop(audio.Immediately)
	}
	delete(s.entries, id)
}

// Clear force-drops every tracked handle without stopping its playback.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[ID]*Entry)
}
