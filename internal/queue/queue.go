// Package queue provides the two bounded, non-blocking channels that feed
// the engine's single owning goroutine: Lifecycle (drained first, every
// tick, in full) and Command (drained up to a per-tick cap). Both channels
// are Go's native buffered channels — the closest real idiom in the corpus
// to "one goroutine owns all mutation, consumes a priority source fully,
// then a bounded number of lower-priority items" is the bark queue's
// notify/done dispatch loop in [github.com/silverlode-studios/soundrig/
// pkg/audio/barkqueue]; this package generalizes that same shape to two
// independently-capped sources instead of one.
package queue

import (
	"fmt"
	"log/slog"
)

// LifecycleCapacity is the default bound on the Lifecycle channel.
const LifecycleCapacity = 32

// DefaultCommandCapacity is the default bound on the Command channel,
// overridable from mixer/engine config.
const DefaultCommandCapacity = 128

// CommandsPerTick is the maximum number of Commands drained in one engine
// tick, bounding per-tick latency once Lifecycle is fully drained.
const CommandsPerTick = 8

// Lifecycle is a host/script-originated event the engine thread must apply
// before any Command in the same tick: emitter registration, session phase
// transitions, volume/dilation updates, and shutdown.
type Lifecycle interface {
	isLifecycle()
}

// Command is a playback request or control operation the engine thread
// processes up to [CommandsPerTick] times per tick, after Lifecycle is
// fully drained.
type Command interface {
	isCommand()
}

// Queues owns the Lifecycle and Command channels and performs never-block
// sends for producers: try_send, with a log and drop on failure — except
// Terminate, which must never be dropped, so Queues flushes it through a
// dedicated single-slot channel instead of the bounded Lifecycle channel.
type Queues struct {
	lifecycle chan Lifecycle
	command   chan Command
	terminate chan struct{}

	log *slog.Logger
}

// New returns a Queues with the given Command channel capacity (Lifecycle
// is always capacity [LifecycleCapacity]).
func New(commandCapacity int, log *slog.Logger) *Queues {
	if commandCapacity <= 0 {
		commandCapacity = DefaultCommandCapacity
	}
	if log == nil {
		log = slog.Default()
	}
	return &Queues{
		lifecycle: make(chan Lifecycle, LifecycleCapacity),
		command:   make(chan Command, commandCapacity),
		terminate: make(chan struct{}, 1),
		log:       log,
	}
}

// SendLifecycle attempts a non-blocking send. On a full channel it logs and
// drops the message — except for [Terminate], which always succeeds via a
// dedicated channel that the engine checks first.
func (q *Queues) SendLifecycle(msg Lifecycle) {
	if _, ok := msg.(Terminate); ok {
		select {
		case q.terminate <- struct{}{}:
		default:
		}
		return
	}
	select {
	case q.lifecycle <- msg:
	default:
		q.log.Warn("lifecycle queue full, dropping message", "type", typeName(msg))
	}
}

// SendCommand attempts a non-blocking send, logging and dropping on a full
// channel.
func (q *Queues) SendCommand(cmd Command) {
	select {
	case q.command <- cmd:
	default:
		q.log.Warn("command queue full, dropping message", "type", typeName(cmd))
	}
}

// Terminated reports whether a Terminate has been requested.
func (q *Queues) Terminated() bool {
	select {
	case <-q.terminate:
		return true
	default:
		return false
	}
}

// DrainLifecycle fully drains the Lifecycle channel, invoking handle for
// each message in FIFO arrival order, per the engine tick's "drain fully
// before any Command" rule.
func (q *Queues) DrainLifecycle(handle func(Lifecycle)) {
	for {
		select {
		case msg := <-q.lifecycle:
			handle(msg)
		default:
			return
		}
	}
}

// DrainCommands processes up to [CommandsPerTick] Commands, invoking handle
// for each in FIFO arrival order, and returns the number actually
// processed.
func (q *Queues) DrainCommands(handle func(Command)) int {
	n := 0
	for n < CommandsPerTick {
		select {
		case cmd := <-q.command:
			handle(cmd)
			n++
		default:
			return n
		}
	}
	return n
}

// Depths returns the number of messages currently buffered in the Lifecycle
// and Command channels, for introspection/metrics snapshots. The values are
// inherently racy against concurrent sends and drains; callers should treat
// them as approximate.
func (q *Queues) Depths() (lifecycle, command int) {
	return len(q.lifecycle), len(q.command)
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
