package barkqueue

import (
	"container/heap"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/silverlode-studios/soundrig/pkg/audio"
)

// Compile-time interface assertion.
var _ audio.BarkQueue = (*Queue)(nil)

const (
	// DefaultGap is the base silence duration inserted between consecutive
	// clips when no explicit gap is configured via [WithGap].
	DefaultGap = 300 * time.Millisecond

	// defaultQueueCap is the initial capacity hint for the priority queue.
	defaultQueueCap = 8
)

// Option configures a [Queue] during construction.
type Option func(*Queue)

// WithGap sets the base silence gap inserted between consecutive clips.
// Jitter of ±1/6 of the gap is applied automatically. A gap of zero disables
// inter-clip silence entirely.
func WithGap(d time.Duration) Option {
	return func(q *Queue) {
		q.gap = d
	}
}

// WithQueueCapacity sets the initial capacity hint for the internal priority
// queue. This does not impose a hard limit — the queue grows as needed.
func WithQueueCapacity(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.queue = make(clipHeap, 0, n)
		}
	}
}

// Queue is a concrete [audio.BarkQueue] that schedules [audio.VoiceClip]
// playback for one emitter using a priority queue backed by [container/heap].
//
// Higher-priority clips preempt lower-priority ones currently playing.
// Equal-priority clips play in FIFO order. A configurable silence gap (with
// jitter) is inserted between consecutive clips.
//
// All exported methods are safe for concurrent use.
type Queue struct {
	output func([]byte) // callback that receives PCM chunks for playback

	mu            sync.Mutex
	queue         clipHeap
	seq           uint64           // monotonic counter for FIFO ordering
	gap           time.Duration    // base silence gap between clips
	playing       *audio.VoiceClip // currently playing clip, or nil
	playingPri    int              // priority of the currently playing clip
	cancelPlaying chan struct{}    // closed to interrupt the current clip

	notify chan struct{} // signalled when a new clip is enqueued or interrupt fires
	done   chan struct{} // closed by Close to stop the dispatch goroutine
	closed bool
}

// New creates a [Queue] that delivers PCM chunks to the output callback. The
// queue starts a background dispatch goroutine immediately.
//
// output must not be nil; it is called sequentially from the dispatch
// goroutine and must not block for extended periods.
//
// Call [Queue.Close] to stop the background goroutine and release resources.
func New(output func([]byte), opts ...Option) *Queue {
	q := &Queue{
		output: output,
		queue:  make(clipHeap, 0, defaultQueueCap),
		gap:    DefaultGap,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	heap.Init(&q.queue)
	go q.dispatch()
	return q
}

// Enqueue schedules clip for playback at the given priority. If clip
// outranks the one currently playing, the current clip is interrupted with
// [audio.Preempted] and the new clip begins immediately.
func (q *Queue) Enqueue(clip *audio.VoiceClip, priority int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.seq++
	heap.Push(&q.queue, entry{
		clip:     clip,
		priority: priority,
		seq:      q.seq,
	})

	if q.playing != nil && priority > q.playingPri {
		q.interruptLocked(audio.Preempted, false)
	}

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Interrupt immediately stops the currently playing clip for the given
// reason and advances to the next queued clip, if any.
func (q *Queue) Interrupt(reason audio.InterruptReason) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.interruptLocked(reason, reason == audio.Cleared)
}

// Clear stops the current clip with [audio.Cleared] and drops every queued
// clip. Used when the owning emitter dies or is stopped.
func (q *Queue) Clear() {
	q.Interrupt(audio.Cleared)
}

// SetGap configures the base silence duration inserted between consecutive
// clips. Jitter of ±1/6 of the gap is applied automatically. Changes take
// effect before the next clip starts.
func (q *Queue) SetGap(d time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.gap = d
}

// Close stops the background dispatch goroutine, drains any remaining queued
// clips, and releases resources. Close is idempotent.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true

	if q.playing != nil {
		q.interruptLocked(audio.Cleared, true)
	}

	for q.queue.Len() > 0 {
		e := heap.Pop(&q.queue).(entry)
		go audio.Drain(e.clip.Audio)
	}
	q.mu.Unlock()

	close(q.done)
	return nil
}

// interruptLocked cancels the currently playing clip and optionally clears
// the queue. Must be called with q.mu held.
func (q *Queue) interruptLocked(reason audio.InterruptReason, clearQueue bool) {
	_ = reason // reserved for reason-specific behaviour (e.g. fade-out)

	if q.cancelPlaying != nil {
		close(q.cancelPlaying)
		q.cancelPlaying = nil
	}
	q.playing = nil

	if clearQueue {
		for q.queue.Len() > 0 {
			e := heap.Pop(&q.queue).(entry)
			go audio.Drain(e.clip.Audio)
		}
	}
}

// dispatch is the background goroutine that pulls clips from the queue and
// streams their PCM chunks to the output callback. It runs until [Close] is
// called.
func (q *Queue) dispatch() {
	var lastPlayed bool // true if a clip was just played (for gap insertion)

	gapTimer := time.NewTimer(0)
	if !gapTimer.Stop() {
		<-gapTimer.C
	}
	defer gapTimer.Stop()

	for {
		select {
		case <-q.done:
			return
		case <-q.notify:
		}

		for {
			clip, _, cancel, ok := q.dequeue()
			if !ok {
				break
			}

			if lastPlayed {
				gapDur := q.gapWithJitter()
				if gapDur > 0 {
					gapTimer.Reset(gapDur)
					select {
					case <-q.done:
						if !gapTimer.Stop() {
							<-gapTimer.C
						}
						go audio.Drain(clip.Audio)
						return
					case <-cancel:
						if !gapTimer.Stop() {
							<-gapTimer.C
						}
						go audio.Drain(clip.Audio)
						continue
					case <-gapTimer.C:
					}
				}
			}

			q.play(clip, cancel)
			lastPlayed = true

			q.mu.Lock()
			if q.playing == clip {
				q.playing = nil
				q.cancelPlaying = nil
			}
			q.mu.Unlock()
		}
	}
}

// dequeue pops the highest-priority clip from the queue and marks it as
// currently playing. Returns ok=false if the queue is empty.
func (q *Queue) dequeue() (clip *audio.VoiceClip, _ int, cancel chan struct{}, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.queue.Len() == 0 {
		return nil, 0, nil, false
	}

	e := heap.Pop(&q.queue).(entry)
	cancel = make(chan struct{})
	q.playing = e.clip
	q.playingPri = e.priority
	q.cancelPlaying = cancel
	return e.clip, e.priority, cancel, true
}

// play streams PCM chunks from clip to the output callback until the clip
// ends or cancel is closed (interrupt).
func (q *Queue) play(clip *audio.VoiceClip, cancel chan struct{}) {
	for {
		select {
		case <-q.done:
			go audio.Drain(clip.Audio)
			return
		case <-cancel:
			go audio.Drain(clip.Audio)
			return
		case chunk, ok := <-clip.Audio:
			if !ok {
				return // clip finished naturally
			}
			q.output(chunk)
		}
	}
}

// gapWithJitter returns the configured gap duration with ±1/6 jitter applied.
// Returns zero if the base gap is zero.
func (q *Queue) gapWithJitter() time.Duration {
	q.mu.Lock()
	base := q.gap
	q.mu.Unlock()

	if base <= 0 {
		return 0
	}

	jitterRange := base / 6
	if jitterRange <= 0 {
		return base
	}

	jitter := time.Duration(rand.Int64N(int64(2*jitterRange+1))) - jitterRange
	return base + jitter
}
