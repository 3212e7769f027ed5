/*
 * buzzer.go
 *
 * Tone generator plus the one-shot note timer behind the tone player.
 */
package hw

import (
	"sync"
)

// Sounder makes the actual noise.
type Sounder interface {
	Tone(freq, volume float64)
	Silence()
}

type NullSounder struct{}

func (NullSounder) Tone(float64, float64) {}
func (NullSounder) Silence()              {}

type Buzzer struct {
	mu      sync.Mutex
	clock   Clock
	sounder Sounder
	timer   Timer
	timeout Flag
	freq    float64
	volume  float64
	waker   *Waker
}

func NewBuzzer(clock Clock, s Sounder, w *Waker) *Buzzer {
	if s == nil {
		s = NullSounder{}
	}
	return &Buzzer{clock: clock, sounder: s, waker: w}
}

// SetNote starts sounding freq. A zero frequency is a rest.
func (b *Buzzer) SetNote(freq, volume float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.freq = freq
	b.volume = volume
	if freq <= 0 {
		b.sounder.Silence()
		return
	}
	b.sounder.Tone(freq, volume)
}

// SetDuration arms the note timer. NoteTimeout goes true once it expires.
func (b *Buzzer) SetDuration(ms uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.timeout.Set(false)
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = b.clock.AfterFunc(ms, func() {
		b.timeout.Set(true)
		b.waker.Wake()
	})
}

func (b *Buzzer) NoteTimeout() bool {
	return b.timeout.Get()
}

func (b *Buzzer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.freq = 0
	b.sounder.Silence()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// Frequency is the frequency currently sounding, 0 when silent.
func (b *Buzzer) Frequency() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.freq
}
