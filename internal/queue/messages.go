package queue

import (
	"github.com/silverlode-studios/soundrig/internal/scene"
	"github.com/silverlode-studios/soundrig/internal/state"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// Lifecycle messages: applied before any Command in the same tick.

// RegisterEmitter requests a new scene emitter registration. Ack, if
// non-nil, receives the result (true on success) — the engine closes it
// after writing exactly one value.
type RegisterEmitter struct {
	EntityID scene.EntityID
	TagName  string
	Name     *string
	Settings *scene.Settings
	Ack      chan<- bool
}

func (RegisterEmitter) isLifecycle() {}

// UnregisterEmitter requests removal of an (entity, tag) scene registration.
type UnregisterEmitter struct {
	EntityID scene.EntityID
	TagName  string
	Ack      chan<- bool
}

func (UnregisterEmitter) isLifecycle() {}

// EntityDeathKind distinguishes the three ways an entity can stop existing
// in the host's simulation, each with slightly different handle-store
// fallout.
type EntityDeathKind int

const (
	EntityDied EntityDeathKind = iota
	EntityIncapacitated
	EntityDefeated
)

// OnEntityLifecycleEnd reports that entityID died, was incapacitated, or
// was defeated — all three drive Scene/Handle-store teardown the same way.
type OnEntityLifecycleEnd struct {
	EntityID scene.EntityID
	Kind     EntityDeathKind
}

func (OnEntityLifecycleEnd) isLifecycle() {}

// SessionTransition reports a host save/session boundary crossing.
type SessionTransition struct {
	Phase audio.SessionPhase
}

func (SessionTransition) isLifecycle() {}

// SetVolume updates a named bus or category gain.
type SetVolume struct {
	Bus   string
	Value float64
}

func (SetVolume) isLifecycle() {}

// SetMuteInBackground updates the mute-on-unfocus flag.
type SetMuteInBackground struct {
	Value bool
}

func (SetMuteInBackground) isLifecycle() {}

// DilationTarget selects whether a dilation update applies to the listener
// as a whole or to one emitter.
type DilationTarget int

const (
	DilationListener DilationTarget = iota
	DilationEmitter
)

// SetDilation applies (or clears, when Unset is true) a time-dilation
// factor to the listener or to one emitter.
type SetDilation struct {
	Target   DilationTarget
	EntityID scene.EntityID // only meaningful when Target == DilationEmitter
	Factor   float64
	Unset    bool
}

func (SetDilation) isLifecycle() {}

// SyncScene requests the listener and every emitter's position be
// resynced from the host, fired on the ~20ms timer.
type SyncScene struct {
	Listener scene.Position
	Emitters map[scene.EntityID]EntityPositionUpdate
}

func (SyncScene) isLifecycle() {}

// EntityPositionUpdate is one entity's freshly-read transform, attachment
// status, gender, and in-workspot flag, supplied by the host on every
// SyncScene tick. Gender's zero value is GenderFemale, not GenderUnset —
// a caller with no gender reading for this entity must set
// Gender: audio.GenderUnset explicitly rather than leave the field unset.
type EntityPositionUpdate struct {
	Status   audio.EntityStatus
	Position scene.Position
	Gender   audio.Gender
	Busy     bool
}

// Reclaim requests the ~60s stopped-handle and dead-emitter sweep.
type Reclaim struct{}

func (Reclaim) isLifecycle() {}

// ReportInitialization requests a formatted bank summary be emitted (e.g.
// to the log), used by the host to confirm successful plugin attach.
type ReportInitialization struct{}

func (ReportInitialization) isLifecycle() {}

// Terminate requests the engine loop exit after draining queued shutdown
// work. Always delivered, never dropped — see [Queues.SendLifecycle].
type Terminate struct{}

func (Terminate) isLifecycle() {}

// Commands: drained after Lifecycle, up to CommandsPerTick per tick.

// PlayVanilla forwards an unregistered event name straight to the host
// audio adapter.
type PlayVanilla struct {
	EventName string
	EntityID  *scene.EntityID
	Emitter   *string
}

func (PlayVanilla) isCommand() {}

// StopVanilla forwards a stop for an unregistered event name to the host.
type StopVanilla struct {
	EventName string
	EntityID  *scene.EntityID
	Emitter   *string
	Tween     audio.Tween
}

func (StopVanilla) isCommand() {}

// SwitchVanilla forwards a vanilla-to-vanilla switch to the host.
type SwitchVanilla struct {
	PrevEventName string
	NextEventName string
	EntityID      *scene.EntityID
	Emitter       *string
	SwitchTween   audio.Tween
}

func (SwitchVanilla) isCommand() {}

// Play resolves eventName against the bank for the current spoken locale
// and (if relevant) gender, then starts playback.
type Play struct {
	EventName string
	EntityID  *scene.EntityID
	Emitter   *string
	LineType  string
	Tween     audio.Tween
}

func (Play) isCommand() {}

// PlayOnEmitter requires (EntityID, TagName) to already be a registered
// scene emitter; playback routes to that emitter's spatial sub-track.
type PlayOnEmitter struct {
	EventName string
	EntityID  scene.EntityID
	TagName   string
	Tween     audio.Tween
}

func (PlayOnEmitter) isCommand() {}

// PlayOverThePhone routes playback to the holocall bus with an explicit
// gender (the holocall caller is not necessarily the player).
type PlayOverThePhone struct {
	EventName string
	Emitter   string
	Gender    audio.Gender
}

func (PlayOverThePhone) isCommand() {}

// Stop stops handles exactly matching the (event, entity, emitter) tuple.
type Stop struct {
	EventName string
	EntityID  *scene.EntityID
	Emitter   *string
	Tween     audio.Tween
}

func (Stop) isCommand() {}

// StopOnEmitter stops playback on a specific registered emitter.
type StopOnEmitter struct {
	EventName string
	EntityID  scene.EntityID
	TagName   string
	Tween     audio.Tween
}

func (StopOnEmitter) isCommand() {}

// StopFor stops every handle tagged with entityID, regardless of event
// name.
type StopFor struct {
	EntityID scene.EntityID
	Tween    audio.Tween
}

func (StopFor) isCommand() {}

// Pause pauses handles matching the (event, entity, emitter) tuple.
type Pause struct {
	EventName string
	EntityID  *scene.EntityID
	Emitter   *string
	Tween     audio.Tween
}

func (Pause) isCommand() {}

// Resume resumes handles matching the (event, entity, emitter) tuple.
type Resume struct {
	EventName string
	EntityID  *scene.EntityID
	Emitter   *string
	Tween     audio.Tween
}

func (Resume) isCommand() {}

// Switch stops PrevEventName (on the engine if known, else forwarded to the
// host) and starts NextEventName (same mixed dispatch), preserving the
// original's mixed host/engine switch semantics.
type Switch struct {
	PrevEventName string
	NextEventName string
	EntityID      *scene.EntityID
	Emitter       *string
	SwitchTween   audio.Tween
}

func (Switch) isCommand() {}

// MuteEvent mutes or unmutes an event name, optionally restricted to one
// hook kind. Delivered as a Lifecycle in the original engine (via
// Replacement notifications); kept here since it mutates [state.MuteSet]
// the same way Lifecycle handlers mutate Scene.
type MuteEvent struct {
	EventName string
	Hook      state.HookKind
	Specific  bool
	Unmute    bool
}

func (MuteEvent) isLifecycle() {}
