// Package host is the boundary between the owning game/application process
// and the engine: it bifurcates every Play/Stop/Switch call between the
// registered-name engine path and the vanilla host-audio fallback, and
// serves the handful of synchronous queries the host needs without ever
// touching the engine's owning goroutine.
package host

import (
	"github.com/silverlode-studios/soundrig/internal/bank"
	"github.com/silverlode-studios/soundrig/internal/queue"
	"github.com/silverlode-studios/soundrig/internal/scene"
	"github.com/silverlode-studios/soundrig/internal/state"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// Adapter bridges registered Play/Stop/Switch calls from the host into the
// engine's queues, and serves synchronous read-only queries directly
// against the bank/scene/state snapshots — never through the engine's
// owning goroutine.
type Adapter struct {
	Bank   *bank.Registry
	Scene  *scene.Scene
	State  *state.State
	Queues *queue.Queues
}

// New returns an Adapter wired to the given bank, scene, state, and queues.
func New(b *bank.Registry, sc *scene.Scene, st *state.State, q *queue.Queues) *Adapter {
	return &Adapter{Bank: b, Scene: sc, State: st, Queues: q}
}

// Play bifurcates a host Play call: a registered event name becomes a
// [queue.Play] Command; anything else becomes [queue.PlayVanilla].
func (a *Adapter) Play(eventName string, entityID *scene.EntityID, emitter *string, tween audio.Tween) {
	if a.Bank.ExistsForName(eventName) {
		a.Queues.SendCommand(queue.Play{EventName: eventName, EntityID: entityID, Emitter: emitter, Tween: tween})
		return
	}
	a.Queues.SendCommand(queue.PlayVanilla{EventName: eventName, EntityID: entityID, Emitter: emitter})
}

// Stop bifurcates a host Stop call the same way Play does.
func (a *Adapter) Stop(eventName string, entityID *scene.EntityID, emitter *string, tween audio.Tween) {
	if a.Bank.ExistsForName(eventName) {
		a.Queues.SendCommand(queue.Stop{EventName: eventName, EntityID: entityID, Emitter: emitter, Tween: tween})
		return
	}
	a.Queues.SendCommand(queue.StopVanilla{EventName: eventName, EntityID: entityID, Emitter: emitter, Tween: tween})
}

// Switch bifurcates a host Switch call per-side: prev/next are each routed
// to the engine or host fallback independently, so a switch between a
// registered event and a vanilla one still ends up split correctly.
func (a *Adapter) Switch(prevEventName, nextEventName string, entityID *scene.EntityID, emitter *string, tween audio.Tween) {
	prevKnown := a.Bank.ExistsForName(prevEventName)
	nextKnown := a.Bank.ExistsForName(nextEventName)

	switch {
	case prevKnown && nextKnown:
		a.Queues.SendCommand(queue.Switch{PrevEventName: prevEventName, NextEventName: nextEventName, EntityID: entityID, Emitter: emitter, SwitchTween: tween})
	case prevKnown && !nextKnown:
		a.Queues.SendCommand(queue.Stop{EventName: prevEventName, EntityID: entityID, Emitter: emitter, Tween: tween})
		a.Queues.SendCommand(queue.PlayVanilla{EventName: nextEventName, EntityID: entityID, Emitter: emitter})
	case !prevKnown && nextKnown:
		a.Queues.SendCommand(queue.StopVanilla{EventName: prevEventName, EntityID: entityID, Emitter: emitter, Tween: tween})
		a.Queues.SendCommand(queue.Play{EventName: nextEventName, EntityID: entityID, Emitter: emitter, Tween: tween})
	default:
		a.Queues.SendCommand(queue.SwitchVanilla{PrevEventName: prevEventName, NextEventName: nextEventName, EntityID: entityID, Emitter: emitter, SwitchTween: tween})
	}
}

// ExistsFor reports whether eventName is a registered bank event.
func (a *Adapter) ExistsFor(eventName string) bool {
	return a.Bank.ExistsForName(eventName)
}

// IsRegisteredEmitter reports whether entityID has at least one scene
// emitter tag registered.
func (a *Adapter) IsRegisteredEmitter(entityID scene.EntityID) bool {
	return a.Scene.IsRegisteredEmitter(entityID)
}

// EmittersCount returns the number of distinct entities with a registered
// emitter.
func (a *Adapter) EmittersCount() int {
	return a.Scene.EmittersCount()
}

// SubtitlesFor returns every (event name) -> (female, male) subtitle pair
// known for writtenLocale.
func (a *Adapter) SubtitlesFor(writtenLocale audio.Locale) map[string][2]string {
	return a.Bank.Subtitles(writtenLocale)
}

// SubtitleFor looks up a single event's subtitle text at the host's current
// written locale and player gender, for callers that only need one line
// rather than the bulk [Adapter.SubtitlesFor] snapshot.
func (a *Adapter) SubtitleFor(eventName string) (bank.DialogLine, error) {
	gender := a.State.PlayerGender()
	return a.Bank.SubtitleFor(eventName, a.State.WrittenLocale(), gender, gender != audio.GenderUnset)
}

// IsSpecificMuted reports whether eventName is muted for hook.
func (a *Adapter) IsSpecificMuted(eventName string, hook state.HookKind) bool {
	return a.State.Mutes.IsSpecificMuted(eventName, hook)
}

// Mute requests eventName be muted for every hook, via the Lifecycle queue
// so the mutation still happens on the engine's owning goroutine.
func (a *Adapter) Mute(eventName string) {
	a.Queues.SendLifecycle(queue.MuteEvent{EventName: eventName})
}

// MuteSpecific requests eventName be muted for hook only.
func (a *Adapter) MuteSpecific(eventName string, hook state.HookKind) {
	a.Queues.SendLifecycle(queue.MuteEvent{EventName: eventName, Hook: hook, Specific: true})
}

// Unmute requests eventName's mute entry be cleared entirely.
func (a *Adapter) Unmute(eventName string) {
	a.Queues.SendLifecycle(queue.MuteEvent{EventName: eventName, Unmute: true})
}

// UnmuteSpecific requests hook be cleared from eventName's muted set.
func (a *Adapter) UnmuteSpecific(eventName string, hook state.HookKind) {
	a.Queues.SendLifecycle(queue.MuteEvent{EventName: eventName, Hook: hook, Specific: true, Unmute: true})
}

// RegisterEmitter requests a new scene emitter registration via the
// Lifecycle queue and blocks for the engine's acknowledgment.
func (a *Adapter) RegisterEmitter(entityID scene.EntityID, tagName string, name *string, settings *scene.Settings) bool {
	ack := make(chan bool, 1)
	a.Queues.SendLifecycle(queue.RegisterEmitter{EntityID: entityID, TagName: tagName, Name: name, Settings: settings, Ack: ack})
	return <-ack
}

// UnregisterEmitter requests removal of an (entity, tag) scene registration
// and blocks for the engine's acknowledgment.
func (a *Adapter) UnregisterEmitter(entityID scene.EntityID, tagName string) bool {
	ack := make(chan bool, 1)
	a.Queues.SendLifecycle(queue.UnregisterEmitter{EntityID: entityID, TagName: tagName, Ack: ack})
	return <-ack
}
