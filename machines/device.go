/*
 * device.go
 *
 * Assembly of the machines that make up one jukebox and the fixed order in
 * which the poll loop advances them.
 */
package machines

import (
	"github.com/sdg2-jukebox/jukebox/fsm"
)

type Ports struct {
	Clock   Clock
	Button  ButtonInput
	Tone    ToneService
	UART    UART
	IR      IRReceiver // optional
	Display Display    // optional
	Power   Power      // optional
}

type DeviceConfig struct {
	DebounceMs uint32
	Jukebox    JukeboxConfig
	Library    *Library // nil means DefaultLibrary
}

// Device owns every machine. The jukebox only borrows the others.
type Device struct {
	Button  *Button
	Link    *SerialLink
	Player  *TonePlayer
	Remote  *IRDecoder
	Jukebox *Jukebox

	order []fsm.Machine
}

type nopDisplay struct{}

func (nopDisplay) Clear()            {}
func (nopDisplay) Print(int, string) {}
func (nopDisplay) Backlight(bool)    {}

type nopPower struct{}

func (nopPower) Sleep() {}

func NewDevice(conf DeviceConfig, p Ports) *Device {
	display := p.Display
	if display == nil {
		display = nopDisplay{}
	}
	power := p.Power
	if power == nil {
		power = nopPower{}
	}

	d := &Device{
		Button: NewButton(0, conf.DebounceMs, p.Button, p.Clock),
		Link:   NewSerialLink(0, p.UART),
		Player: NewTonePlayer(0, p.Tone),
	}
	d.Jukebox = NewJukebox(conf.Jukebox, conf.Library, d.Button, d.Link, d.Player,
		display, power)

	d.order = []fsm.Machine{d.Button, d.Link, d.Player}
	if p.IR != nil {
		d.Remote = NewIRDecoder(0, p.IR)
		d.Jukebox.AttachRemote(d.Remote)
		d.order = append(d.order, d.Remote)
	}
	d.order = append(d.order, d.Jukebox)
	return d
}

// Poll advances every machine once, in order, and returns how many fired.
func (d *Device) Poll() int {
	fired := 0
	for _, m := range d.order {
		if m.Fire() {
			fired++
		}
	}
	return fired
}

// Machines returns the machines in poll order.
func (d *Device) Machines() []fsm.Machine {
	return append([]fsm.Machine(nil), d.order...)
}

func (d *Device) SetObserver(o fsm.Observer) {
	d.Button.SetObserver(o)
	d.Link.SetObserver(o)
	d.Player.SetObserver(o)
	if d.Remote != nil {
		d.Remote.SetObserver(o)
	}
	d.Jukebox.SetObserver(o)
}

func (d *Device) Sleeping() bool {
	return d.Jukebox.Sleeping()
}

// Snapshot is a copy of the observable state of every machine.
type Snapshot struct {
	States         map[string]string
	IDs            map[string]int
	Melody         string
	MelodyIndex    int
	NoteIndex      int
	Action         string
	Speed          float64
	Volume         float64
	PlayerSpeed    float64
	PlayerVolume   float64
	Gaming         bool
	ButtonDuration uint32
	Sleeping       bool
}

func (d *Device) Snapshot() Snapshot {
	s := Snapshot{
		States:         map[string]string{},
		IDs:            map[string]int{},
		Melody:         d.Jukebox.MelodyName(),
		MelodyIndex:    d.Jukebox.MelodyIndex(),
		NoteIndex:      d.Player.NoteIndex(),
		Action:         d.Player.Action().String(),
		Speed:          d.Jukebox.Speed(),
		Volume:         d.Jukebox.Volume(),
		PlayerSpeed:    d.Player.Speed(),
		PlayerVolume:   d.Player.Volume(),
		Gaming:         d.Jukebox.Game() == Gaming,
		ButtonDuration: d.Button.Duration(),
		Sleeping:       d.Jukebox.Sleeping(),
	}
	s.IDs[d.Button.Name()] = d.Button.ID()
	s.IDs[d.Link.Name()] = d.Link.ID()
	s.IDs[d.Player.Name()] = d.Player.ID()
	if d.Remote != nil {
		s.IDs[d.Remote.Name()] = d.Remote.ID()
	}
	for _, m := range d.order {
		s.States[m.Name()] = string(m.Current())
	}
	return s
}
