/*
 * speaker.go
 *
 * Sounder on the host sound card.
 */
package hw

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// squareWave is an endless square wave. Frequency zero is silence.
type squareWave struct {
	sr     beep.SampleRate
	freq   float64
	volume float64
	phase  float64
}

func (s *squareWave) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := 0.0
		if s.freq > 0 {
			if s.phase < 0.5 {
				v = s.volume
			} else {
				v = -s.volume
			}
			s.phase += s.freq / float64(s.sr)
			s.phase -= math.Floor(s.phase)
		}
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (s *squareWave) Err() error { return nil }

type Speaker struct {
	wave *squareWave
}

func NewSpeaker(sampleRate int) (*Speaker, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(time.Millisecond*50)); err != nil {
		return nil, fmt.Errorf("NewSpeaker: error from speaker.Init: %w", err)
	}
	s := &Speaker{wave: &squareWave{sr: sr}}
	speaker.Play(s.wave)
	return s, nil
}

func (s *Speaker) Tone(freq, volume float64) {
	speaker.Lock()
	s.wave.freq = freq
	s.wave.volume = volume
	speaker.Unlock()
}

func (s *Speaker) Silence() {
	speaker.Lock()
	s.wave.freq = 0
	speaker.Unlock()
}

func (s *Speaker) Close() {
	speaker.Clear()
}
