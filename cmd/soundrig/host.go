package main

import (
	"log/slog"

	"github.com/silverlode-studios/soundrig/internal/scene"
	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// demoHost is a logging-only vanilla-audio fallback: a real integration
// would forward these calls into the host engine's own sound system, but
// this demo has no such system to forward into.
type demoHost struct {
	log *slog.Logger
}

func (h *demoHost) PlayVanilla(eventName string, entityID *scene.EntityID, emitter *string) {
	h.log.Info("vanilla play", "event", eventName, "entity", entityID, "emitter", emitter)
}

func (h *demoHost) StopVanilla(eventName string, entityID *scene.EntityID, emitter *string, tween audio.Tween) {
	h.log.Info("vanilla stop", "event", eventName, "entity", entityID, "emitter", emitter)
}

func (h *demoHost) SwitchVanilla(prevEventName, nextEventName string, entityID *scene.EntityID, emitter *string, tween audio.Tween) {
	h.log.Info("vanilla switch", "prev", prevEventName, "next", nextEventName, "entity", entityID)
}
