package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/silverlode-studios/soundrig/internal/host"
	"github.com/silverlode-studios/soundrig/internal/scene"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// demoEntityID is the scene entity the walkthrough below registers an
// emitter on; it has no meaning beyond this one demo sequence.
const demoEntityID scene.EntityID = 1

// runDemo exercises Play/Stop and emitter registration through adapter so a
// freshly started process produces visible engine activity even with no
// real host driving it. It does nothing beyond log once no bank names are
// available to play, and returns promptly if ctx is canceled.
func runDemo(ctx context.Context, adapter *host.Adapter, log *slog.Logger) {
	names := adapter.Bank.Names()
	if len(names) == 0 {
		log.Info("demo: no bank entries to play")
		return
	}

	select {
	case <-ctx.Done():
		return
	case <-time.After(500 * time.Millisecond):
	}

	tag := "demo_emitter"
	if ok := adapter.RegisterEmitter(demoEntityID, tag, nil, nil); !ok {
		log.Warn("demo: failed to register emitter")
		return
	}
	defer adapter.UnregisterEmitter(demoEntityID, tag)

	eventName := names[0]
	log.Info("demo: playing", "event", eventName)
	adapter.Play(eventName, nil, nil, audio.Immediately)

	select {
	case <-ctx.Done():
		return
	case <-time.After(3 * time.Second):
	}

	log.Info("demo: stopping", "event", eventName)
	adapter.Stop(eventName, nil, nil, audio.Tween{Duration: 250 * time.Millisecond})
}
