package hw

import (
	"sync/atomic"
)

// Flag is a boolean shared between an interrupt-like producer and the poll
// loop.
type Flag struct {
	v atomic.Bool
}

func (f *Flag) Set(v bool) { f.v.Store(v) }

func (f *Flag) Get() bool { return f.v.Load() }

// Waker nudges a sleeping poll loop. Wakes coalesce; a nil Waker is a no-op.
type Waker struct {
	c chan struct{}
}

func NewWaker() *Waker {
	return &Waker{c: make(chan struct{}, 1)}
}

func (w *Waker) Wake() {
	if w == nil {
		return
	}
	select {
	case w.c <- struct{}{}:
	default:
	}
}

func (w *Waker) C() <-chan struct{} {
	return w.c
}
