/*
 * clock.go
 *
 * Millisecond time bases. SysTick is stepped by hand and drives the
 * simulator and the tests, WallClock follows real time.
 */
package hw

import (
	"sync"
	"time"
)

type Timer interface {
	Stop() bool
}

type Clock interface {
	Now() uint32
	AfterFunc(ms uint32, f func()) Timer
}

type SysTick struct {
	mu     sync.Mutex
	now    uint32
	timers []*tickTimer
}

type tickTimer struct {
	st *SysTick
	at uint32
	f  func()
}

// Stop reports whether the timer was still pending.
func (t *tickTimer) Stop() bool {
	t.st.mu.Lock()
	defer t.st.mu.Unlock()
	for i, tt := range t.st.timers {
		if tt == t {
			t.st.timers = append(t.st.timers[:i], t.st.timers[i+1:]...)
			return true
		}
	}
	return false
}

func NewSysTick(start uint32) *SysTick {
	return &SysTick{now: start}
}

func (s *SysTick) Now() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *SysTick) AfterFunc(ms uint32, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &tickTimer{st: s, at: s.now + ms, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward one millisecond at a time, running every
// timer that falls due on the way. Timer callbacks run without the lock held.
func (s *SysTick) Advance(ms uint32) {
	for i := uint32(0); i < ms; i++ {
		s.mu.Lock()
		s.now++
		var due []func()
		pending := s.timers[:0]
		for _, t := range s.timers {
			if t.at <= s.now {
				due = append(due, t.f)
				continue
			}
			pending = append(pending, t)
		}
		s.timers = pending
		s.mu.Unlock()

		for _, f := range due {
			f()
		}
	}
}

type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (w *WallClock) Now() uint32 {
	return uint32(time.Since(w.start).Milliseconds())
}

func (w *WallClock) AfterFunc(ms uint32, f func()) Timer {
	return time.AfterFunc(time.Duration(ms)*time.Millisecond, f)
}
