package hw

import (
	"testing"
	"time"
)

func TestSysTick(t *testing.T) {
	st := NewSysTick(10)
	var fired []uint32
	st.AfterFunc(5, func() { fired = append(fired, st.Now()) })
	stopped := st.AfterFunc(3, func() { t.Errorf("stopped timer fired") })
	st.AfterFunc(0, func() { fired = append(fired, st.Now()) })

	if !stopped.Stop() {
		t.Errorf("got false wanted true stopping a pending timer")
	}
	st.Advance(4)
	if len(fired) != 1 || fired[0] != 11 {
		t.Errorf("got %v wanted [11]", fired)
	}
	st.Advance(1)
	if len(fired) != 2 || fired[1] != 15 {
		t.Errorf("got %v wanted [11 15]", fired)
	}
	if st.Now() != 15 {
		t.Errorf("got %d wanted 15", st.Now())
	}
	if stopped.Stop() {
		t.Errorf("got true wanted false stopping twice")
	}
}

func TestSysTickRearmFromCallback(t *testing.T) {
	st := NewSysTick(0)
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			st.AfterFunc(2, tick)
		}
	}
	st.AfterFunc(2, tick)
	st.Advance(10)
	if count != 3 {
		t.Errorf("got %d wanted 3", count)
	}
}

func TestWaker(t *testing.T) {
	w := NewWaker()
	w.Wake()
	w.Wake()
	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatalf("got no wake up")
	}
	select {
	case <-w.C():
		t.Errorf("got a second wake up wanted them coalesced")
	default:
	}

	var nw *Waker
	nw.Wake()
}

func TestWallClock(t *testing.T) {
	wc := NewWallClock()
	done := make(chan uint32, 1)
	wc.AfterFunc(5, func() { done <- wc.Now() })
	select {
	case at := <-done:
		if at < 5 {
			t.Errorf("got %d wanted at least 5", at)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timer never fired")
	}
}
