/*
 * midi.go
 *
 * Exports a melody as a single track standard MIDI file.
 */
package render

import (
	"fmt"
	"io"
	"math"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/sdg2-jukebox/jukebox/machines"
)

const (
	TicksPerQuarter = 960
	TempoBPM        = 120
	Velocity        = 100
)

// FreqToKey returns the nearest MIDI key for a frequency, A4 = 69.
func FreqToKey(freq float64) uint8 {
	if freq <= 0 {
		return 0
	}
	k := math.Round(69 + 12*math.Log2(freq/440))
	if k < 0 {
		k = 0
	}
	if k > 127 {
		k = 127
	}
	return uint8(k)
}

// msToTicks converts a duration at TempoBPM into ticks.
func msToTicks(ms float64) uint32 {
	quarterMs := 60000.0 / TempoBPM
	return uint32(math.Round(ms * TicksPerQuarter / quarterMs))
}

func scaled(d uint32, speed float64) float64 {
	if speed <= 0 {
		speed = machines.DefaultSpeed
	}
	return float64(d) / speed
}

// MIDI writes m to w. Rests become gaps between notes.
func MIDI(w io.Writer, m *machines.Melody, speed float64) error {
	if m.Len() == 0 {
		return fmt.Errorf("MIDI: melody has no notes")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(m.Name))
	tr.Add(0, smf.MetaTempo(TempoBPM))

	var gap uint32
	for _, n := range m.Notes {
		ticks := msToTicks(scaled(n.Duration, speed))
		if n.Freq <= 0 {
			gap += ticks
			continue
		}
		key := FreqToKey(n.Freq)
		tr.Add(gap, midi.NoteOn(0, key, Velocity))
		tr.Add(ticks, midi.NoteOff(0, key))
		gap = 0
	}
	tr.Close(gap)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("MIDI: error adding track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("MIDI: error writing %s: %w", m.Name, err)
	}
	return nil
}
