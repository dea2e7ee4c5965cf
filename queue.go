package hub

import (
	"context"
	"sync/atomic"

	"github.com/hedzr/go-ringbuf/v2/mpmc"

	"github.com/kildom/dongle-hub/internal/worker"
)

// FrameQueue is the bounded, capacity-8 FIFO the protocol coroutine uses
// to hand decoded frames to the aggregation worker. It wraps the plain
// (non-overlapped) ring buffer, whose Enqueue rejects when full, so an
// overflow drops the newest frame rather than evicting the oldest.
type FrameQueue struct {
	buffer   mpmc.RingBuffer[InboundRadioFrame]
	notify   chan struct{}
	overflow uint64
	count    int32 // frames currently queued; Push rejects at frameQueueCapacity
}

const frameQueueCapacity = 8

// NewFrameQueue builds an empty frame queue.
func NewFrameQueue() *FrameQueue {
	// The ring buffer keeps one slot free, so it is sized past the capacity
	// and count enforces the bound of frameQueueCapacity frames.
	return &FrameQueue{
		buffer: mpmc.New[InboundRadioFrame](2 * frameQueueCapacity),
		notify: make(chan struct{}, 1),
	}
}

// Push enqueues frame, dropping it and counting an overflow if the queue is
// full. Safe to call from the aggregation producer side only (single
// producer: the coroutine, via its worker handoff).
func (q *FrameQueue) Push(frame InboundRadioFrame) error {
	if atomic.LoadInt32(&q.count) >= frameQueueCapacity || q.buffer.Enqueue(frame) != nil {
		atomic.AddUint64(&q.overflow, 1)
		globalLogger.Warn("aggregation queue full, dropping frame")
		return ErrQueueOverflow
	}
	atomic.AddInt32(&q.count, 1)
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

// Pop removes and returns the oldest frame, or ok == false if empty.
func (q *FrameQueue) Pop() (frame InboundRadioFrame, ok bool) {
	if q.buffer.IsEmpty() {
		return InboundRadioFrame{}, false
	}
	frame, err := q.buffer.Dequeue()
	if err != nil {
		return InboundRadioFrame{}, false
	}
	atomic.AddInt32(&q.count, -1)
	return frame, true
}

// Overflow returns the number of frames dropped for a full queue so far.
func (q *FrameQueue) Overflow() uint64 {
	return atomic.LoadUint64(&q.overflow)
}

// Accept implements PacketSink by pushing onto the queue, so the
// coroutine hands frames off without knowing about queueing at all.
func (q *FrameQueue) Accept(frame InboundRadioFrame) {
	_ = q.Push(frame)
}

// Serve starts a worker goroutine draining the queue into observe and
// returns immediately. The worker runs until ctx is cancelled. Pushes are
// cheap wakeups, so observe runs strictly on the worker, never on the
// pushing context.
func (q *FrameQueue) Serve(ctx context.Context, observe func(InboundRadioFrame)) {
	worker.Go(ctx, "aggregation", func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case <-q.notify:
			}
			for {
				frame, ok := q.Pop()
				if !ok {
					break
				}
				observe(frame)
			}
		}
	})
}
