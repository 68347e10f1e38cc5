package intcode

import (
	"context"
	"errors"
	"sync"
)

// Reader is the input channel of a Machine.
//
// ReadInt returns the next input value, blocking until one is available.
// It returns an error wrapping ErrInputExhausted if no more values will
// ever be available.
type Reader interface {
	ReadInt() (int64, error)
}

// Writer is the output channel of a Machine.
type Writer interface {
	WriteInt(v int64) error
}

// ErrInputExhausted is returned by a Reader that has no more values.
var ErrInputExhausted = errors.New("input exhausted")

// Values is a Reader that yields a fixed sequence of values.
type Values []int64

// ReadInt implements Reader.
func (vs *Values) ReadInt() (int64, error) {
	if len(*vs) == 0 {
		return 0, ErrInputExhausted
	}
	v := (*vs)[0]
	*vs = (*vs)[1:]
	return v, nil
}

// Buffer is a Writer that records every value written to it.
// It is safe for concurrent use.
type Buffer struct {
	mu   sync.Mutex
	vals []int64
}

// WriteInt implements Writer.
func (b *Buffer) WriteInt(v int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vals = append(b.vals, v)
	return nil
}

// Values returns a copy of the values written so far.
func (b *Buffer) Values() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int64(nil), b.vals...)
}

// Last returns the most recently written value and reports whether
// any value has been written.
func (b *Buffer) Last() (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.vals) == 0 {
		return 0, false
	}
	return b.vals[len(b.vals)-1], true
}

// Pipe is a bounded, channel-backed queue of values that may be used as
// the Writer of one Machine and the Reader of another.
// Reads block while the pipe is empty and writes block while it is full,
// until the pipe is closed or stopped or its context is done.
type Pipe struct {
	ctx  context.Context
	c    chan int64
	once sync.Once

	done     chan struct{}
	stopOnce sync.Once
}

// NewPipe returns a Pipe that buffers up to size values and that gives up
// blocking reads and writes once ctx is done.
func NewPipe(ctx context.Context, size int) *Pipe {
	return &Pipe{ctx: ctx, c: make(chan int64, size), done: make(chan struct{})}
}

// ReadInt implements Reader. It returns ErrInputExhausted once the pipe
// is closed and drained, and the context's error if it is done first.
func (p *Pipe) ReadInt() (int64, error) {
	select {
	case v, ok := <-p.c:
		if !ok {
			return 0, ErrInputExhausted
		}
		return v, nil
	case <-p.ctx.Done():
		return 0, p.ctx.Err()
	}
}

// WriteInt implements Writer.
// It must not be called after Close.
// Once p is stopped, v may be discarded rather than queued.
func (p *Pipe) WriteInt(v int64) error {
	select {
	case p.c <- v:
		return nil
	case <-p.done:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// Close marks the end of the values written to p.
// Values already buffered may still be read.
func (p *Pipe) Close() {
	p.once.Do(func() { close(p.c) })
}

// Stop marks that nothing will read from p again.
// Writes blocked on a full pipe return, and later writes never block.
func (p *Pipe) Stop() {
	p.stopOnce.Do(func() { close(p.done) })
}

// Tee is a Writer that writes each value to every one of its Writers,
// stopping at the first error.
type Tee []Writer

// WriteInt implements Writer.
func (t Tee) WriteInt(v int64) error {
	for _, w := range t {
		if err := w.WriteInt(v); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ Reader = (*Values)(nil)
	_ Writer = (*Buffer)(nil)
	_ Reader = (*Pipe)(nil)
	_ Writer = (*Pipe)(nil)
	_ Writer = Tee(nil)
)
