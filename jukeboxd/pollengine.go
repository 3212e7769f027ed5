/*
 * pollengine.go
 *
 * Runs the device: one pass over all machines per iteration, backing off
 * while nothing happens and blocking while the jukebox sleeps until a
 * peripheral wakes it.
 */
package main

import (
	"log"
	"sync"
	"time"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
	"github.com/sdg2-jukebox/jukebox/fsm"
	"github.com/sdg2-jukebox/jukebox/hw"
	"github.com/sdg2-jukebox/jukebox/machines"
)

// NewInterval doubles the interval while nothing fires and snaps back to
// target as soon as something does.
func NewInterval(current, target, mininterval, maxinterval, count int) int {
	if count == 0 {
		if current < maxinterval {
			current = current * 2
		}
		if current > maxinterval {
			current = maxinterval
		}
		return current
	}
	current = target
	if current < mininterval {
		current = mininterval
	}
	return current
}

type PollEngine struct {
	dev     *machines.Device
	hw      *Hardware
	updateC chan<- jukebox.JournalUpdate
	verbose bool

	mininterval int
	maxinterval int

	// sim is set when the device runs on a SysTick; time then only moves
	// when the engine advances it.
	sim *hw.SysTick

	// last journalled rule per machine; repeats of it are not journalled
	last map[string]string

	mu      sync.Mutex
	snap    machines.Snapshot
	outbox  []string
	polls   uint64
	fired   uint64
	lastSeq uint64
	started time.Time
}

func NewPollEngine(conf *Config, h *Hardware) *PollEngine {
	pe := &PollEngine{
		dev:         machines.NewDevice(conf.DeviceConfig(), h.Ports()),
		hw:          h,
		updateC:     conf.Internal.UpdateC,
		verbose:     conf.Common.Verbose,
		mininterval: conf.Poll.Intervals.Minimum,
		maxinterval: conf.Poll.Intervals.Maximum,
		started:     time.Now(),
		last:        map[string]string{},
	}
	if pe.mininterval <= 0 {
		pe.mininterval = 1
	}
	if pe.maxinterval < pe.mininterval {
		pe.maxinterval = pe.mininterval
	}
	if st, ok := h.Clock.(*hw.SysTick); ok {
		pe.sim = st
	}
	pe.dev.SetObserver(pe.observe)
	pe.snap = pe.dev.Snapshot()
	return pe
}

func (pe *PollEngine) observe(machine string, from, to fsm.State, description string) {
	if pe.verbose {
		log.Printf("PollEngine: %s: %s -> %s (%s)", machine, from, to, description)
	}
	key := string(from) + "|" + string(to) + "|" + description
	if pe.last[machine] == key {
		return
	}
	pe.last[machine] = key
	pe.journal(jukebox.JournalUpdate{
		Type:        jukebox.JournalTransition,
		Time:        time.Now(),
		Machine:     machine,
		From:        string(from),
		To:          string(to),
		Description: description,
	})
}

// journal never blocks the poll loop. A full queue drops the entry.
func (pe *PollEngine) journal(u jukebox.JournalUpdate) {
	if pe.updateC == nil {
		return
	}
	select {
	case pe.updateC <- u:
	default:
		log.Printf("PollEngine: journal queue full, dropping %s entry", u.Type)
	}
}

// Step polls every machine once and returns the number of rules fired.
func (pe *PollEngine) Step() int {
	fired := pe.dev.Poll()

	pe.mu.Lock()
	pe.polls++
	pe.fired += uint64(fired)
	if fired > 0 {
		pe.snap = pe.dev.Snapshot()
		pe.outbox = pe.dev.Jukebox.Pending()
	}
	pe.mu.Unlock()

	for _, l := range pe.hw.UART.Lines(pe.lastSeq) {
		pe.journal(jukebox.JournalUpdate{
			Type:      jukebox.JournalMessage,
			Time:      l.Time,
			Direction: "tx",
			Text:      l.Text,
		})
		pe.lastSeq = l.Seq
	}
	return fired
}

func (pe *PollEngine) Run(stopch chan struct{}) {
	current := pe.mininterval
	log.Printf("Starting Poll Engine (interval %d to %d ms)", pe.mininterval, pe.maxinterval)

	for {
		fired := pe.Step()
		sleeping := pe.hw.Power.TakeSleep()
		if sleeping {
			current = pe.maxinterval
		} else {
			ni := NewInterval(current, pe.mininterval, pe.mininterval, pe.maxinterval, fired)
			if ni != current && pe.verbose {
				log.Printf("Poll Engine: changing poll interval from %d to %d ms", current, ni)
			}
			current = ni
		}

		if !pe.wait(current, sleeping, stopch) {
			log.Println("Poll Engine: stop signal received.")
			return
		}
	}
}

// wait sleeps for ms or until a peripheral raises a wake up. A sleeping
// device only wakes on the latter. It returns false when the engine should
// stop.
func (pe *PollEngine) wait(ms int, sleeping bool, stopch chan struct{}) bool {
	if pe.sim != nil {
		pe.sim.Advance(uint32(ms))
		select {
		case <-pe.hw.Waker.C():
		default:
		}
		select {
		case <-stopch:
			return false
		case <-time.After(50 * time.Microsecond):
			return true
		}
	}

	if sleeping {
		select {
		case <-pe.hw.Waker.C():
			return true
		case <-stopch:
			return false
		}
	}

	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-pe.hw.Waker.C():
	case <-stopch:
		return false
	}
	return true
}

// Status combines the last snapshot with what the peripherals show now.
func (pe *PollEngine) Status() jukebox.DeviceStatus {
	pe.mu.Lock()
	snap := pe.snap
	states := make(map[string]string, len(snap.States))
	for k, v := range snap.States {
		states[k] = v
	}
	ds := jukebox.DeviceStatus{
		States:      states,
		Melody:      snap.Melody,
		MelodyIndex: snap.MelodyIndex,
		NoteIndex:   snap.NoteIndex,
		Action:      snap.Action,
		Speed:       snap.Speed,
		Volume:      snap.Volume,
		Gaming:      snap.Gaming,
		Sleeping:    snap.Sleeping,
		Outbox:      append([]string(nil), pe.outbox...),
		Polls:       pe.polls,
		Fired:       pe.fired,
	}
	pe.mu.Unlock()

	ds.Display = pe.hw.LCD.Lines()
	ds.Backlight = pe.hw.LCD.BacklightOn()
	ds.Tone = pe.hw.Buzzer.Frequency()
	ds.RxEnabled = pe.hw.UART.RxEnabled()
	ds.Sleeps = pe.hw.Power.Sleeps()
	ds.Uptime = time.Since(pe.started).Truncate(time.Second).String()
	return ds
}
