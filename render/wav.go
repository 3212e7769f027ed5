/*
 * wav.go
 *
 * Renders a melody to a mono 16 bit WAV file using the same square wave
 * as the buzzer.
 */
package render

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/sdg2-jukebox/jukebox/machines"
)

const (
	DefaultSampleRate = 44100
	bitDepth          = 16
	pcmFormat         = 1
)

type WAVOptions struct {
	SampleRate int
	Speed      float64
	Volume     float64
}

func (o *WAVOptions) defaults() {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Speed <= 0 {
		o.Speed = machines.DefaultSpeed
	}
	switch {
	case o.Volume <= 0:
		o.Volume = machines.DefaultVolume
	case o.Volume > machines.MaxVolume:
		o.Volume = machines.MaxVolume
	}
}

// Samples is the number of samples a melody renders to.
func Samples(m *machines.Melody, opts WAVOptions) int {
	opts.defaults()
	total := 0
	for _, n := range m.Notes {
		total += noteSamples(n, opts)
	}
	return total
}

func noteSamples(n machines.Note, opts WAVOptions) int {
	return int(scaled(n.Duration, opts.Speed) * float64(opts.SampleRate) / 1000)
}

func WAV(w io.WriteSeeker, m *machines.Melody, opts WAVOptions) error {
	if m.Len() == 0 {
		return fmt.Errorf("WAV: melody has no notes")
	}
	opts.defaults()

	enc := wav.NewEncoder(w, opts.SampleRate, bitDepth, 1, pcmFormat)
	amp := opts.Volume * math.MaxInt16

	for _, n := range m.Notes {
		count := noteSamples(n, opts)
		data := make([]int, count)
		if n.Freq > 0 {
			period := float64(opts.SampleRate) / n.Freq
			for i := range data {
				if math.Mod(float64(i), period) < period/2 {
					data[i] = int(amp)
				} else {
					data[i] = -int(amp)
				}
			}
		}
		buf := &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: opts.SampleRate},
			Data:           data,
			SourceBitDepth: bitDepth,
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("WAV: error writing %s: %w", m.Name, err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("WAV: error closing encoder: %w", err)
	}
	return nil
}
