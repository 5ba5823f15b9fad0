// Package introspect serves a debug WebSocket feed of bank summaries and
// live engine counters to a connected tool — the Go-native analogue of the
// original engine's red4ext log debug channel, for operators who want to
// watch queue depths and active handle/emitter counts without attaching a
// debugger.
package introspect

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/silverlode-studios/soundrig/internal/bank"
	"github.com/silverlode-studios/soundrig/internal/handles"
	"github.com/silverlode-studios/soundrig/internal/queue"
	"github.com/silverlode-studios/soundrig/internal/scene"
)

// DefaultInterval is how often a connected client receives a fresh Snapshot
// absent an explicit interval on [New].
const DefaultInterval = time.Second

// Snapshot is one point-in-time engine summary streamed to a connected
// client as a JSON text frame.
type Snapshot struct {
	Bank           bank.Report `json:"bank"`
	ActiveHandles  int         `json:"active_handles"`
	ActiveEmitters int         `json:"active_emitters"`
	LifecycleDepth int         `json:"lifecycle_depth"`
	CommandDepth   int         `json:"command_depth"`
}

// Server streams [Snapshot] values over WebSocket to any connected client,
// one per Interval, until the client disconnects or the request context is
// canceled.
type Server struct {
	Bank    *bank.Registry
	Scene   *scene.Scene
	Handles *handles.Store
	Queues  *queue.Queues

	// Interval is the delay between snapshots. Defaults to DefaultInterval
	// when zero.
	Interval time.Duration

	log *slog.Logger
}

// New wires a Server from its component pieces.
func New(b *bank.Registry, sc *scene.Scene, hs *handles.Store, q *queue.Queues, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{Bank: b, Scene: sc, Handles: hs, Queues: q, log: log}
}

// Snapshot builds the current engine summary.
func (s *Server) Snapshot() Snapshot {
	lifecycleDepth, commandDepth := s.Queues.Depths()
	return Snapshot{
		Bank:           s.Bank.BuildReport(0),
		ActiveHandles:  s.Handles.Len(),
		ActiveEmitters: s.Scene.EmittersCount(),
		LifecycleDepth: lifecycleDepth,
		CommandDepth:   commandDepth,
	}
}

// Handler upgrades the request to a WebSocket connection and streams a
// [Snapshot] every Interval until the connection closes or the request
// context is done.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			s.log.Warn("introspect: accept failed", "err", err)
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "server closing")

		interval := s.Interval
		if interval <= 0 {
			interval = DefaultInterval
		}

		ctx := r.Context()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if err := s.writeSnapshot(ctx, conn); err != nil {
				s.log.Debug("introspect: write failed, closing", "err", err)
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	})
}

func (s *Server) writeSnapshot(ctx context.Context, conn *websocket.Conn) error {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

// Register adds the introspection WebSocket route to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.Handle("GET /introspect", s.Handler())
}
