package machines

import (
	"bytes"
	"testing"
)

type fakeClock struct {
	now uint32
}

func (c *fakeClock) Now() uint32 { return c.now }

type fakeInput struct {
	pressed bool
}

func (i *fakeInput) Pressed() bool { return i.pressed }

// fakeTone times notes against the fake clock.
type fakeTone struct {
	clock     *fakeClock
	freqs     []float64
	durations []uint32
	volume    float64
	deadline  uint32
	armed     bool
	stops     int
}

func (f *fakeTone) SetNote(freq, volume float64) {
	f.freqs = append(f.freqs, freq)
	f.volume = volume
}

func (f *fakeTone) SetDuration(ms uint32) {
	f.durations = append(f.durations, ms)
	f.deadline = f.clock.now + ms
	f.armed = true
}

func (f *fakeTone) NoteTimeout() bool {
	return f.armed && f.clock.now >= f.deadline
}

func (f *fakeTone) Stop() {
	f.stops++
}

type fakeUART struct {
	rxDone    bool
	input     [InputBufferLen]byte
	output    [OutputBufferLen]byte
	txDone    bool
	writing   bool
	rxEnabled bool
	txEnabled bool
	sent      []string
}

func (u *fakeUART) RxDone() bool { return u.rxDone }

func (u *fakeUART) GetFromInput(dst []byte) { copy(dst, u.input[:]) }

func (u *fakeUART) ResetInput() {
	u.input = [InputBufferLen]byte{}
	u.rxDone = false
}

func (u *fakeUART) ResetOutput() {
	u.output = [OutputBufferLen]byte{}
	u.txDone = false
}

func (u *fakeUART) CopyToOutput(src []byte) { copy(u.output[:], src) }

func (u *fakeUART) WriteData() { u.writing = true }

func (u *fakeUART) TxDone() bool { return u.txDone }

func (u *fakeUART) EnableRx()  { u.rxEnabled = true }
func (u *fakeUART) DisableRx() { u.rxEnabled = false }

func (u *fakeUART) EnableTx() {
	u.txEnabled = true
	if !u.writing {
		return
	}
	b := u.output[:]
	if i := bytes.IndexByte(b, EndChar); i >= 0 {
		b = b[:i+1]
	}
	u.sent = append(u.sent, string(b))
	u.writing = false
	u.txDone = true
	u.txEnabled = false
}

func (u *fakeUART) DisableTx() { u.txEnabled = false }

// receive plays the role of the rx interrupt for a whole line.
func (u *fakeUART) receive(line string) {
	if !u.rxEnabled {
		return
	}
	u.input = [InputBufferLen]byte{}
	copy(u.input[:], line)
	u.rxDone = true
}

type fakeIR struct {
	event    bool
	leader   bool
	decoding bool
	done     bool
	message  uint32
}

func (f *fakeIR) Event() bool         { return f.event }
func (f *fakeIR) SetEvent(v bool)     { f.event = v }
func (f *fakeIR) LeaderTimeout() bool { return f.leader }
func (f *fakeIR) DecodeDone() bool    { return f.decoding && f.done }
func (f *fakeIR) Message() uint32     { return f.message }

func (f *fakeIR) SetDecoding(v bool) {
	f.decoding = v
	if !v {
		f.done = false
		f.leader = false
	}
}

type fakeDisplay struct {
	lines     [2]string
	backlight bool
}

func (d *fakeDisplay) Clear() { d.lines = [2]string{} }

func (d *fakeDisplay) Print(row int, text string) {
	if row >= 0 && row < 2 {
		d.lines[row] = text
	}
}

func (d *fakeDisplay) Backlight(on bool) { d.backlight = on }

type fakePower struct {
	sleeps int
}

func (p *fakePower) Sleep() { p.sleeps++ }

// rig is a complete device on fakes, advanced one millisecond per poll.
type rig struct {
	t       *testing.T
	clock   *fakeClock
	input   *fakeInput
	tone    *fakeTone
	uart    *fakeUART
	ir      *fakeIR
	display *fakeDisplay
	power   *fakePower
	dev     *Device
}

const rigDebounce = 10

func newRig(t *testing.T, jconf JukeboxConfig, withIR bool) *rig {
	clock := &fakeClock{now: 1}
	r := &rig{
		t:       t,
		clock:   clock,
		input:   &fakeInput{},
		tone:    &fakeTone{clock: clock},
		uart:    &fakeUART{},
		display: &fakeDisplay{},
		power:   &fakePower{},
	}
	ports := Ports{
		Clock:   r.clock,
		Button:  r.input,
		Tone:    r.tone,
		UART:    r.uart,
		Display: r.display,
		Power:   r.power,
	}
	if withIR {
		r.ir = &fakeIR{}
		ports.IR = r.ir
	}
	r.dev = NewDevice(DeviceConfig{DebounceMs: rigDebounce, Jukebox: jconf}, ports)
	return r
}

func (r *rig) tick(ms int) {
	for i := 0; i < ms; i++ {
		r.clock.now++
		r.dev.Poll()
	}
}

// hold presses the button for exactly ms milliseconds, as measured by the
// button machine, and lets the release debounce.
func (r *rig) hold(ms int) {
	r.input.pressed = true
	r.dev.Poll()
	r.tick(ms)
	r.input.pressed = false
	r.dev.Poll()
	r.tick(rigDebounce + 5)
}

func (r *rig) command(line string) {
	r.uart.receive(line)
	r.tick(10)
}

// powerOn brings the device from off to wait-command.
func (r *rig) powerOn() {
	r.hold(DefaultPowerToggleMs + 1)
	for i := 0; i < 10000 && r.dev.Jukebox.Current() != JukeboxWaitCommand; i++ {
		r.tick(1)
	}
	if r.dev.Jukebox.Current() != JukeboxWaitCommand {
		r.t.Fatalf("got %s wanted %s", r.dev.Jukebox.Current(), JukeboxWaitCommand)
	}
	r.tick(10)
	r.uart.sent = nil
}

func (r *rig) lastSent() string {
	if len(r.uart.sent) == 0 {
		return ""
	}
	return r.uart.sent[len(r.uart.sent)-1]
}
