// Command soundrig hosts the audio engine standalone: it discovers mod
// manifests in the depots found three levels above the -depot directory,
// ingests them into a sound bank, wires
// the mixer/scene/handles/state pieces together behind the engine's tick
// loop, and serves health and introspection endpoints over HTTP while a
// simulated player paces PCM into the mixer graph in place of real game
// audio hardware.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/silverlode-studios/soundrig/internal/bank"
	"github.com/silverlode-studios/soundrig/internal/engine"
	"github.com/silverlode-studios/soundrig/internal/engineconfig"
	"github.com/silverlode-studios/soundrig/internal/handles"
	"github.com/silverlode-studios/soundrig/internal/health"
	"github.com/silverlode-studios/soundrig/internal/host"
	"github.com/silverlode-studios/soundrig/internal/introspect"
	"github.com/silverlode-studios/soundrig/internal/manifest"
	"github.com/silverlode-studios/soundrig/internal/mixer"
	"github.com/silverlode-studios/soundrig/internal/observe"
	"github.com/silverlode-studios/soundrig/internal/queue"
	"github.com/silverlode-studios/soundrig/internal/scene"
	"github.com/silverlode-studios/soundrig/internal/state"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ────────────────────────────────────────────────────────
	depotPath := flag.String("depot", ".", "bin/x64-style directory; the mods/ and r6/audioware/ depots are looked up three levels above it")
	iniPath := flag.String("ini", "settings.ini", "path to the ModSettings-style buffer size ini file")
	addr := flag.String("addr", ":8099", "HTTP listen address for health and introspection endpoints")
	sampleRate := flag.Int("sample-rate", 48000, "PCM sample rate the mixer graph runs at")
	tickInterval := flag.Duration("tick", 16*time.Millisecond, "engine tick interval")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	bufSize := engineconfig.Load(*iniPath)
	logger.Info("soundrig starting",
		"depot", *depotPath,
		"addr", *addr,
		"sample_rate", *sampleRate,
		"buffer_size", bufSize,
	)

	// ── Bank ─────────────────────────────────────────────────────────────
	start := time.Now()
	loadedManifests, err := manifest.LoadAll(*depotPath)
	if err != nil {
		logger.Warn("some manifests failed to load", "err", err)
	}

	b := bank.New()
	var ingestErrs []error
	for _, loaded := range loadedManifests {
		if err := bank.Ingest(b, loaded); err != nil {
			ingestErrs = append(ingestErrs, err)
		}
	}
	if err := errors.Join(ingestErrs...); err != nil {
		logger.Warn("some bank entries failed to ingest", "err", err)
	}
	bank.LogReport(b.BuildReport(time.Since(start)))

	// ── Telemetry ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "soundrig",
		ServiceVersion: version,
	})
	if err != nil {
		logger.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	metrics := observe.DefaultMetrics()

	// ── Engine wiring ────────────────────────────────────────────────────
	graph := mixer.NewGraph(*sampleRate, func(bus mixer.Name, pcm []byte) {
		logger.Debug("mixer output", "bus", bus, "bytes", len(pcm))
	})
	sc := scene.New(graph, *sampleRate)
	hs := handles.New()
	st := state.New()
	q := queue.New(queue.DefaultCommandCapacity, logger)

	vanillaHost := &demoHost{log: logger}
	player := newSimPlayer(logger)
	eng := engine.New(b, graph, sc, hs, st, q, vanillaHost, player, logger)
	adapter := host.New(b, sc, st, q)

	healthHandler := health.New(health.Checker{
		Name: "bank",
		Check: func(context.Context) error {
			if b.BuildReport(0).Total == 0 {
				return fmt.Errorf("no bank entries loaded from %q", *depotPath)
			}
			return nil
		},
	})
	introspectSrv := introspect.New(b, sc, hs, q, logger)

	mux := http.NewServeMux()
	healthHandler.Register(mux)
	introspectSrv.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: observe.Middleware(metrics)(mux),
	}

	// ── Run ──────────────────────────────────────────────────────────────
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return eng.Run(gctx, *tickInterval)
	})

	g.Go(func() error {
		logger.Info("http server listening", "addr", *addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		runDemo(gctx, adapter, logger)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	logger.Info("soundrig ready — press Ctrl+C to shut down")
	if err := g.Wait(); err != nil {
		logger.Error("run error", "err", err)
		return 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown error", "err", err)
		return 1
	}

	logger.Info("goodbye")
	return 0
}

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
