// Package engine owns the single cooperative tick loop that applies every
// Lifecycle and Command message to the bank, mixer, scene, handle store,
// and state store. No other package mutates those five pieces once an
// [Engine] is running.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/silverlode-studios/soundrig/internal/bank"
	"github.com/silverlode-studios/soundrig/internal/handles"
	"github.com/silverlode-studios/soundrig/internal/mixer"
	"github.com/silverlode-studios/soundrig/internal/queue"
	"github.com/silverlode-studios/soundrig/internal/scene"
	"github.com/silverlode-studios/soundrig/internal/state"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// Host is the vanilla-audio fallback adapter: commands for event names the
// bank doesn't recognize are forwarded here instead.
type Host interface {
	PlayVanilla(eventName string, entityID *scene.EntityID, emitter *string)
	StopVanilla(eventName string, entityID *scene.EntityID, emitter *string, tween audio.Tween)
	SwitchVanilla(prevEventName, nextEventName string, entityID *scene.EntityID, emitter *string, tween audio.Tween)
}

// Player starts a resolved bank entry playing on dest and returns a handle
// the engine can track. Concrete decode/output wiring lives outside this
// package; the engine only needs the [handles.Playback] contract.
type Player interface {
	Play(data bank.Data, dest *mixer.Track) (handles.Playback, error)
}

// Engine wires bank, mixer, scene, handles, and state together behind a
// single-owner tick loop: no other package mutates those pieces once an
// Engine is running.
type Engine struct {
	Bank    *bank.Registry
	Graph   *mixer.Graph
	Scene   *scene.Scene
	Handles *handles.Store
	State   *state.State
	Queues  *queue.Queues

	Host   Host
	Player Player

	log *slog.Logger
}

// New wires an Engine from its component pieces. host and player may be
// nil in tests that never exercise the vanilla fallback or real playback
// start.
func New(b *bank.Registry, graph *mixer.Graph, sc *scene.Scene, hs *handles.Store, st *state.State, q *queue.Queues, host Host, player Player, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{Bank: b, Graph: graph, Scene: sc, Handles: hs, State: st, Queues: q, Host: host, Player: player, log: log}
}

// Run drives the tick loop until ctx is canceled or a Terminate lifecycle
// message is observed, plus two timer goroutines that post [queue.SyncScene]
// and [queue.Reclaim] lifecycle messages on their respective cadences —
// mutation itself still only happens inside the tick loop when those
// messages are drained, preserving the single-owner invariant while still
// using errgroup to coordinate the timers' shutdown.
func (e *Engine) Run(ctx context.Context, tickInterval time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(scene.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				e.Queues.SendLifecycle(queue.SyncScene{Listener: e.Scene.Listener()})
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(scene.ReclaimInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				e.Queues.SendLifecycle(queue.Reclaim{})
			}
		}
	})

	g.Go(func() error {
		ticker := time.NewTicker(tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if e.Tick() {
					return nil
				}
			}
		}
	})

	return g.Wait()
}

// Tick runs one iteration of the engine's per-tick loop: drain Lifecycle
// fully, then up to [queue.CommandsPerTick] Commands. Returns true if a
// Terminate was observed and the caller should stop ticking.
func (e *Engine) Tick() bool {
	if e.Queues.Terminated() {
		e.log.Info("engine terminating")
		return true
	}

	e.Queues.DrainLifecycle(e.applyLifecycle)
	e.Queues.DrainCommands(e.applyCommand)
	return false
}

func (e *Engine) applyLifecycle(msg queue.Lifecycle) {
	switch m := msg.(type) {
	case queue.RegisterEmitter:
		err := e.Scene.RegisterEmitter(m.EntityID, m.TagName, m.Name, m.Settings)
		if m.Ack != nil {
			m.Ack <- err == nil
			close(m.Ack)
		}
		if err != nil {
			e.log.Warn("register emitter failed", "entity", m.EntityID, "tag", m.TagName, "err", err)
		}

	case queue.UnregisterEmitter:
		err := e.Scene.UnregisterEmitter(m.EntityID, m.TagName)
		if m.Ack != nil {
			m.Ack <- err == nil
			close(m.Ack)
		}

	case queue.OnEntityLifecycleEnd:
		e.Handles.OnEmitterDies(uint64(m.EntityID))
		e.Scene.SyncEmitterPosition(m.EntityID, audio.EntityDetached, scene.Identity)

	case queue.SessionTransition:
		switch m.Phase {
		case audio.SessionBeforeStart:
			e.Handles.PauseAll()
		case audio.SessionStart, audio.SessionReady, audio.SessionResume:
			e.Handles.ResumeAll()
		case audio.SessionPause, audio.SessionBeforeEnd, audio.SessionEnd:
			e.Handles.StopAll(audio.Immediately)
		}
		e.State.SetSessionPhase(m.Phase)

	case queue.SetVolume:
		if t := e.Graph.ByName(mixer.Name(m.Bus)); t != nil {
			t.Volume.Set(m.Value)
		}

	case queue.SetMuteInBackground:
		e.State.SetMuteInBackground(m.Value)

	case queue.SetDilation:
		switch m.Target {
		case queue.DilationListener:
			var update audio.DilationUpdate
			if m.Unset {
				update = audio.UnsetDilation("listener", audio.Tween{})
				e.State.Dilation.SetFactor(audio.DilationIdentity)
			} else {
				update = audio.SetDilation("listener", m.Factor, audio.Tween{})
				e.State.Dilation.SetFactor(m.Factor)
			}
			rate := e.State.Dilation.Factor()
			e.Handles.SyncDilation(func(entry *handles.Entry) {
				entry.Playback.SetRate(rate, update.Curve)
			})

		case queue.DilationEmitter:
			var update audio.DilationUpdate
			if m.Unset {
				update = audio.UnsetDilation("emitter", audio.Tween{})
			} else {
				update = audio.SetDilation("emitter", m.Factor, audio.Tween{})
			}
			e.Scene.SetEmitterDilation(m.EntityID, update)
			rate := e.Scene.EmitterDilation(m.EntityID).Value
			e.Handles.SyncDilation(func(entry *handles.Entry) {
				if entry.Emitter != nil && entry.Emitter.EntityID == uint64(m.EntityID) {
					entry.Playback.SetRate(rate, update.Curve)
				}
			})
		}

	case queue.ReportInitialization:
		rep := e.Bank.BuildReport(0)
		e.log.Info("bank report", "summary", rep.String())

	case queue.SyncScene:
		e.Scene.SyncListener(m.Listener)
		for id, upd := range m.Emitters {
			e.Scene.SyncEmitterPosition(id, upd.Status, upd.Position)
			e.Scene.SyncEmitterInfo(id, upd.Gender, upd.Busy)
		}

	case queue.Reclaim:
		e.Scene.Reclaim(e.Handles.AnyPlaying, e.Handles.StopFor)
		e.Handles.Reclaim()

	case queue.MuteEvent:
		switch {
		case m.Unmute && m.Specific:
			e.State.Mutes.UnmuteSpecific(m.EventName, m.Hook)
		case m.Unmute:
			e.State.Mutes.Unmute(m.EventName)
		case m.Specific:
			e.State.Mutes.MuteSpecific(m.EventName, m.Hook)
		default:
			e.State.Mutes.Mute(m.EventName)
		}

	case queue.Terminate:
		// Handled in Tick before Lifecycle is drained.
	}
}

func (e *Engine) applyCommand(cmd queue.Command) {
	switch c := cmd.(type) {
	case queue.PlayVanilla:
		if e.Host != nil {
			e.Host.PlayVanilla(c.EventName, c.EntityID, c.Emitter)
		}

	case queue.StopVanilla:
		if e.Host != nil {
			e.Host.StopVanilla(c.EventName, c.EntityID, c.Emitter, c.Tween)
		}

	case queue.SwitchVanilla:
		if e.Host != nil {
			e.Host.SwitchVanilla(c.PrevEventName, c.NextEventName, c.EntityID, c.Emitter, c.SwitchTween)
		}

	case queue.Play:
		e.play(c.EventName)

	case queue.PlayOnEmitter:
		dest, _, ok := e.Scene.EmitterTrack(c.EntityID, c.TagName)
		if !ok {
			e.log.Warn("play on emitter: not registered", "entity", c.EntityID, "tag", c.TagName)
			return
		}
		e.startOnEmitter(c.EventName, dest, c.EntityID, c.TagName)

	case queue.PlayOverThePhone:
		e.startOn(c.EventName, e.Graph.Holocall)

	case queue.Stop:
		e.Handles.StopBy(c.EventName, toHandlesEmitter(c.EntityID, c.Emitter), c.Tween)

	case queue.StopOnEmitter:
		e.Handles.StopBy(c.EventName, &handles.Emitter{EntityID: uint64(c.EntityID), TagName: c.TagName}, c.Tween)

	case queue.StopFor:
		e.Handles.StopFor(uint64(c.EntityID), c.Tween)

	case queue.Pause:
		e.Handles.PauseAll()

	case queue.Resume:
		e.Handles.ResumeAll()

	case queue.Switch:
		e.Handles.StopBy(c.PrevEventName, toHandlesEmitter(c.EntityID, c.Emitter), c.SwitchTween)
		e.play(c.NextEventName)
	}
}

// play resolves eventName against the bank using the current spoken locale
// and player gender, then starts it on the sfx bus; the entry's source
// category does not select a different bus. Any miss
// falls through to the vanilla host path, per the engine's uniform
// resolution-order rule; which sentinel caused the miss (require-gender,
// missing spoken locale, or a plain not-found) is distinguished only for
// logging here, since the fallback itself doesn't branch on it.
func (e *Engine) play(eventName string) {
	gender := e.State.PlayerGender()
	genderKnown := gender != audio.GenderUnset
	id, err := e.Bank.Resolve(eventName, e.State.SpokenLocale(), gender, genderKnown)
	if err != nil {
		switch {
		case errors.Is(err, bank.ErrRequireGender):
			e.log.Debug("play: gender required, falling through to vanilla", "event", eventName)
		case errors.Is(err, bank.ErrMissingSpokenLocale):
			e.log.Debug("play: no entry at spoken locale, falling through to vanilla", "event", eventName)
		default:
			e.log.Debug("play: not found in bank, falling through to vanilla", "event", eventName)
		}
		if e.Host != nil {
			e.Host.PlayVanilla(eventName, nil, nil)
		}
		return
	}
	data, ok := e.Bank.Data(id)
	if !ok {
		e.log.Warn("resolved id has no audio data", "id", id)
		return
	}
	e.startData(eventName, data, e.Graph.SFX)
}

func (e *Engine) startOn(eventName string, dest *mixer.Track) {
	gender := e.State.PlayerGender()
	genderKnown := gender != audio.GenderUnset
	id, err := e.Bank.Resolve(eventName, e.State.SpokenLocale(), gender, genderKnown)
	if err != nil {
		e.log.Warn("resolve failed", "event", eventName, "err", err)
		return
	}
	data, ok := e.Bank.Data(id)
	if !ok {
		return
	}
	e.startData(eventName, data, dest)
}

// startOnEmitter is [Engine.startOn], but prefers entityID's own
// host-synced gender-derived default over the global player gender when the
// emitter's gender is known (e.g. an NPC emitter speaking its own gendered
// barks rather than the player's), and routes an ono-sourced resolve through
// the emitter's bark queue instead of starting it directly, so overlapping
// onos on one entity serialize rather than clutter.
func (e *Engine) startOnEmitter(eventName string, dest *mixer.Track, entityID scene.EntityID, tagName string) {
	gender, genderKnown := e.Scene.EmitterGender(entityID)
	if !genderKnown {
		gender = e.State.PlayerGender()
		genderKnown = gender != audio.GenderUnset
	}
	id, err := e.Bank.Resolve(eventName, e.State.SpokenLocale(), gender, genderKnown)
	if err != nil {
		e.log.Warn("resolve failed", "event", eventName, "err", err)
		return
	}
	data, ok := e.Bank.Data(id)
	if !ok {
		return
	}
	if id.Source == bank.SourceOno {
		e.playOno(eventName, data, entityID, tagName)
		return
	}
	e.startData(eventName, data, dest)
}

// playOno submits data's PCM as a single-chunk [audio.VoiceClip] to
// entityID's bark queue, which serializes it against any other ono already
// playing or queued for that entity.
func (e *Engine) playOno(eventName string, data bank.Data, entityID scene.EntityID, tagName string) {
	ch := make(chan []byte, 1)
	ch <- data.PCM
	close(ch)
	clip := &audio.VoiceClip{
		EmitterKey: fmt.Sprintf("%d:%s", entityID, tagName),
		Audio:      ch,
		SampleRate: data.Format.SampleRate,
		Channels:   data.Format.Channels,
	}
	if !e.Scene.EnqueueOno(entityID, tagName, clip, clip.Priority) {
		e.log.Warn("ono enqueue failed: emitter not registered", "event", eventName, "entity", entityID, "tag", tagName)
	}
}

func (e *Engine) startData(eventName string, data bank.Data, dest *mixer.Track) {
	if e.Player == nil {
		return
	}
	playback, err := e.Player.Play(data, dest)
	if err != nil {
		e.log.Warn("play failed", "event", eventName, "err", err)
		return
	}
	e.Handles.Store(playback, eventName, nil, false, false, false)
}

func toHandlesEmitter(entityID *scene.EntityID, emitter *string) *handles.Emitter {
	if entityID == nil || emitter == nil {
		return nil
	}
	return &handles.Emitter{EntityID: uint64(*entityID), TagName: *emitter}
}
