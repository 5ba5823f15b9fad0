package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/silverlode-studios/soundrig/internal/bank"
	"github.com/silverlode-studios/soundrig/internal/engine"
	"github.com/silverlode-studios/soundrig/internal/handles"
	"github.com/silverlode-studios/soundrig/internal/manifest"
	"github.com/silverlode-studios/soundrig/internal/mixer"
	"github.com/silverlode-studios/soundrig/internal/queue"
	"github.com/silverlode-studios/soundrig/internal/scene"
	"github.com/silverlode-studios/soundrig/internal/state"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

type fakeHost struct {
	vanillaPlays []string
}

func (h *fakeHost) PlayVanilla(eventName string, entityID *scene.EntityID, emitter *string) {
	h.vanillaPlays = append(h.vanillaPlays, eventName)
}
func (h *fakeHost) StopVanilla(string, *scene.EntityID, *string, audio.Tween)           {}
func (h *fakeHost) SwitchVanilla(string, string, *scene.EntityID, *string, audio.Tween) {}

type fakePlayback struct {
	state handles.PlaybackState
	rate  float64
}

func (f *fakePlayback) State() handles.PlaybackState { return f.state }
func (f *fakePlayback) Pause()                       { f.state = handles.StatePaused }
func (f *fakePlayback) Resume()                      { f.state = handles.StatePlaying }
func (f *fakePlayback) Stop(audio.Tween)             { f.state = handles.StateStopped }
func (f *fakePlayback) SetRate(rate float64, _ audio.Tween) {
	f.rate = rate
}

type fakePlayer struct {
	started  []string
	playback []*fakePlayback
}

func (p *fakePlayer) Play(data bank.Data, dest *mixer.Track) (handles.Playback, error) {
	p.started = append(p.started, dest.Name)
	pb := &fakePlayback{state: handles.StatePlaying}
	p.playback = append(p.playback, pb)
	return pb, nil
}

func newTestEngine(t *testing.T) (*engine.Engine, *fakeHost, *fakePlayer) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "door.wav")
	if err := os.WriteFile(path, []byte{0, 1, 2, 3}, 0o644); err != nil {
		t.Fatalf("write fake audio: %v", err)
	}

	b := bank.New()
	if err := b.Insert(bank.NewUniqueKey("door_creak"), bank.SourceSFX, true, bank.UsageStatic, path, &manifest.Settings{}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	graph := mixer.NewGraph(48000, func(mixer.Name, []byte) {})
	sc := scene.New(graph, 48000)
	hs := handles.New()
	st := state.New()
	q := queue.New(0, nil)
	host := &fakeHost{}
	player := &fakePlayer{}

	return engine.New(b, graph, sc, hs, st, q, host, player, nil), host, player
}

func TestEngine_Tick_DrainsLifecycleBeforeCommands(t *testing.T) {
	t.Parallel()
	e, _, _ := newTestEngine(t)

	ack := make(chan bool, 1)
	e.Queues.SendLifecycle(queue.RegisterEmitter{EntityID: 1, TagName: "engine_loop", Ack: ack})
	e.Queues.SendCommand(queue.PlayOnEmitter{EventName: "door_creak", EntityID: 1, TagName: "engine_loop"})

	done := e.Tick()
	if done {
		t.Fatal("unexpected terminate")
	}

	select {
	case ok := <-ack:
		if !ok {
			t.Fatal("expected register to succeed")
		}
	default:
		t.Fatal("expected ack to be delivered within the same tick")
	}

	if !e.Scene.IsRegisteredEmitter(1) {
		t.Fatal("expected emitter registered before command processed")
	}
}

func TestEngine_Tick_PlayResolvesAndStartsPlayback(t *testing.T) {
	t.Parallel()
	e, host, player := newTestEngine(t)

	e.Queues.SendCommand(queue.Play{EventName: "door_creak"})
	e.Tick()

	if len(player.started) != 1 {
		t.Fatalf("player.started = %v, want 1 call", player.started)
	}
	if len(host.vanillaPlays) != 0 {
		t.Fatalf("expected no vanilla fallback, got %v", host.vanillaPlays)
	}
	if e.Handles.Len() != 1 {
		t.Fatalf("Handles.Len() = %d, want 1", e.Handles.Len())
	}
}

func TestEngine_Tick_UnknownEventFallsBackToVanilla(t *testing.T) {
	t.Parallel()
	e, host, player := newTestEngine(t)

	e.Queues.SendCommand(queue.Play{EventName: "totally_unregistered"})
	e.Tick()

	if len(player.started) != 0 {
		t.Fatalf("expected no playback started, got %v", player.started)
	}
	if len(host.vanillaPlays) != 1 || host.vanillaPlays[0] != "totally_unregistered" {
		t.Fatalf("host.vanillaPlays = %v", host.vanillaPlays)
	}
}

func TestEngine_Tick_RequireGenderMissFallsThroughToVanilla(t *testing.T) {
	t.Parallel()
	e, host, player := newTestEngine(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "vline.wav")
	if err := os.WriteFile(path, []byte{0, 1, 2, 3}, 0o644); err != nil {
		t.Fatalf("write fake audio: %v", err)
	}
	if err := e.Bank.Insert(bank.NewGenderKey("vline", audio.GenderFemale), bank.SourceVoice, true, bank.UsageStatic, path, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}

	e.Queues.SendCommand(queue.Play{EventName: "vline"})
	e.Tick()

	if len(player.started) != 0 {
		t.Fatalf("expected no playback started for require-gender miss, got %v", player.started)
	}
	if len(host.vanillaPlays) != 1 || host.vanillaPlays[0] != "vline" {
		t.Fatalf("expected vanilla fallback per the uniform resolution-order rule, got %v", host.vanillaPlays)
	}
}

func TestEngine_Tick_SetDilation_ListenerAppliesRateToAffectedHandles(t *testing.T) {
	t.Parallel()
	e, _, _ := newTestEngine(t)

	affected := &fakePlayback{state: handles.StatePlaying}
	unaffected := &fakePlayback{state: handles.StatePlaying}
	e.Handles.Store(affected, "a", nil, false, false, true)
	e.Handles.Store(unaffected, "b", nil, false, false, false)

	e.Queues.SendLifecycle(queue.SetDilation{Target: queue.DilationListener, Factor: 0.5})
	e.Tick()

	if affected.rate != 0.5 {
		t.Errorf("affected.rate = %v, want 0.5", affected.rate)
	}
	if unaffected.rate != 0 {
		t.Errorf("unaffected.rate = %v, want untouched (0)", unaffected.rate)
	}
}

func TestEngine_Tick_SetDilation_EmitterAppliesOnlyToMatchingEntity(t *testing.T) {
	t.Parallel()
	e, _, _ := newTestEngine(t)

	matching := &fakePlayback{state: handles.StatePlaying}
	other := &fakePlayback{state: handles.StatePlaying}
	e.Handles.Store(matching, "a", &handles.Emitter{EntityID: 1, TagName: "engine_loop"}, true, false, true)
	e.Handles.Store(other, "b", &handles.Emitter{EntityID: 2, TagName: "engine_loop"}, true, false, true)

	e.Queues.SendLifecycle(queue.RegisterEmitter{EntityID: 1, TagName: "engine_loop"})
	e.Queues.SendLifecycle(queue.SetDilation{Target: queue.DilationEmitter, EntityID: 1, Factor: 0.25})
	e.Tick()

	if matching.rate != 0.25 {
		t.Errorf("matching.rate = %v, want 0.25", matching.rate)
	}
	if other.rate != 0 {
		t.Errorf("other.rate = %v, want untouched (0)", other.rate)
	}
	if got := e.Scene.EmitterDilation(1).Value; got != 0.25 {
		t.Errorf("Scene.EmitterDilation(1).Value = %v, want 0.25", got)
	}
}

func TestEngine_Tick_OnEntityLifecycleEnd_DetachesSceneEmitter(t *testing.T) {
	t.Parallel()
	e, _, _ := newTestEngine(t)

	e.Queues.SendLifecycle(queue.RegisterEmitter{EntityID: 1, TagName: "engine_loop"})
	e.Queues.SendLifecycle(queue.SyncScene{Emitters: map[scene.EntityID]queue.EntityPositionUpdate{
		1: {Status: audio.EntityAttached, Position: scene.Position{X: 5, QW: 1}},
	}})
	e.Tick()

	if got := e.Scene.EmitterPosition(1); got == scene.Identity {
		t.Fatal("expected emitter to be attached with a non-identity position before death")
	}

	e.Queues.SendLifecycle(queue.OnEntityLifecycleEnd{EntityID: 1, Kind: queue.EntityDied})
	e.Tick()

	if got := e.Scene.EmitterPosition(1); got != scene.Identity {
		t.Errorf("EmitterPosition(1) after death = %+v, want Identity", got)
	}
}

func TestEngine_Tick_PlayOnEmitter_OnoRoutesThroughBarkQueueNotPlayer(t *testing.T) {
	t.Parallel()
	e, _, player := newTestEngine(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "ono.wav")
	if err := os.WriteFile(path, []byte{0, 1, 2, 3}, 0o644); err != nil {
		t.Fatalf("write fake audio: %v", err)
	}
	if err := e.Bank.Insert(bank.NewUniqueKey("ono_surprise"), bank.SourceOno, true, bank.UsageStatic, path, nil); err != nil {
		t.Fatalf("insert: %v", err)
	}

	e.Queues.SendLifecycle(queue.RegisterEmitter{EntityID: 1, TagName: "engine_loop"})
	e.Queues.SendCommand(queue.PlayOnEmitter{EventName: "ono_surprise", EntityID: 1, TagName: "engine_loop"})
	e.Tick()

	if len(player.started) != 0 {
		t.Fatalf("expected an ono to bypass the direct player path and serialize through the emitter's bark queue, got %v", player.started)
	}
}

func TestEngine_Tick_PlayOnEmitterRequiresRegistration(t *testing.T) {
	t.Parallel()
	e, _, player := newTestEngine(t)

	e.Queues.SendCommand(queue.PlayOnEmitter{EventName: "door_creak", EntityID: 99, TagName: "unregistered"})
	e.Tick()

	if len(player.started) != 0 {
		t.Fatalf("expected no playback for unregistered emitter, got %v", player.started)
	}
}

func TestEngine_Tick_SessionBeforeStartPausesHandles(t *testing.T) {
	t.Parallel()
	e, _, player := newTestEngine(t)
	e.Queues.SendCommand(queue.Play{EventName: "door_creak"})
	e.Tick()

	e.Queues.SendLifecycle(queue.SessionTransition{Phase: audio.SessionBeforeStart})
	e.Tick()

	if e.State.SessionPhase() != audio.SessionBeforeStart {
		t.Fatalf("SessionPhase() = %v, want BeforeStart", e.State.SessionPhase())
	}
	if len(player.playback) != 1 || player.playback[0].state != handles.StatePaused {
		t.Fatalf("expected the one started handle to be paused, got %d handles", len(player.playback))
	}
}

func TestEngine_Tick_TerminateStopsLoop(t *testing.T) {
	t.Parallel()
	e, _, _ := newTestEngine(t)
	e.Queues.SendLifecycle(queue.Terminate{})

	if !e.Tick() {
		t.Fatal("expected Tick to report terminate")
	}
}

func TestEngine_Run_StopsOnContextCancel(t *testing.T) {
	t.Parallel()
	e, _, _ := newTestEngine(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := e.Run(ctx, time.Millisecond); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}
