package sink

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/north-cloud/richlog/encoding"
	"github.com/north-cloud/richlog/level"
)

var (
	// ErrBufferFull is returned when the async buffer is full and the
	// entry was dropped.
	ErrBufferFull = errors.New("async sink buffer full, entry dropped")
	// ErrSinkClosed is returned when emitting to a closed sink.
	ErrSinkClosed = errors.New("sink is closed")
)

// DefaultAsyncBuffer is the default async queue capacity.
const DefaultAsyncBuffer = 256

// Async decouples emit latency from a slow inner sink with a bounded
// queue and a single worker goroutine. A full queue drops the entry and
// counts the drop; the emit path never blocks.
type Async struct {
	inner Sink
	ch    chan *encoding.Entry
	flush chan chan error
	done  chan struct{}

	mu     sync.RWMutex
	closed bool

	dropped atomic.Uint64
	// OnError receives inner-sink emit errors, which cannot be returned
	// to the caller once the entry is queued. Nil discards them.
	OnError func(error)

	closeOnce sync.Once
	closeErr  error
}

// NewAsync wraps a sink with an async queue. A non-positive buffer size
// uses the default.
func NewAsync(inner Sink, buffer int) *Async {
	if buffer <= 0 {
		buffer = DefaultAsyncBuffer
	}
	a := &Async{
		inner: inner,
		ch:    make(chan *encoding.Entry, buffer),
		flush: make(chan chan error),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// run drains the queue until the channel is closed.
func (a *Async) run() {
	defer close(a.done)

	for {
		select {
		case e, ok := <-a.ch:
			if !ok {
				return
			}
			a.emit(e)
		case ack := <-a.flush:
			a.drain()
			ack <- a.inner.Sync()
		}
	}
}

// drain consumes queued entries without blocking.
func (a *Async) drain() {
	for {
		select {
		case e, ok := <-a.ch:
			if !ok {
				return
			}
			a.emit(e)
		default:
			return
		}
	}
}

func (a *Async) emit(e *encoding.Entry) {
	if err := a.inner.Emit(e); err != nil && a.OnError != nil {
		a.OnError(err)
	}
}

// Emit queues the entry. A full queue drops it and returns ErrBufferFull.
func (a *Async) Emit(e *encoding.Entry) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrSinkClosed
	}

	select {
	case a.ch <- e:
		return nil
	default:
		a.dropped.Add(1)
		return ErrBufferFull
	}
}

// Dropped returns the number of entries dropped due to a full buffer.
func (a *Async) Dropped() uint64 { return a.dropped.Load() }

// MinLevel returns the inner sink's threshold.
func (a *Async) MinLevel() level.Level { return a.inner.MinLevel() }

// Sync drains the queue and syncs the inner sink.
func (a *Async) Sync() error {
	a.mu.RLock()
	if a.closed {
		a.mu.RUnlock()
		return nil
	}
	a.mu.RUnlock()

	ack := make(chan error, 1)
	select {
	case a.flush <- ack:
		return <-ack
	case <-a.done:
		return nil
	}
}

// Close stops the worker, drains remaining entries and closes the inner
// sink. Safe to call more than once.
func (a *Async) Close() error {
	a.closeOnce.Do(func() {
		a.mu.Lock()
		a.closed = true
		close(a.ch)
		a.mu.Unlock()

		<-a.done
		a.closeErr = a.inner.Close()
	})
	return a.closeErr
}
