/*
 * ports.go
 *
 * Services the machines call on the hardware boundary. Everything here is
 * implemented by package hw for the daemon and by fakes in the tests.
 */
package machines

// Clock is the monotonic millisecond tick counter.
type Clock interface {
	Now() uint32
}

type ButtonInput interface {
	Pressed() bool
}

// ToneService drives one square-wave buzzer.
type ToneService interface {
	SetNote(freq, volume float64)
	SetDuration(ms uint32)
	NoteTimeout() bool
	Stop()
}

// UART is the byte level side of a serial link. Reception assembles bytes
// until the terminator and raises RxDone; transmission sends the output
// buffer until the terminator and raises TxDone.
type UART interface {
	RxDone() bool
	GetFromInput(dst []byte)
	ResetInput()
	ResetOutput()
	CopyToOutput(src []byte)
	WriteData()
	TxDone() bool
	EnableRx()
	DisableRx()
	EnableTx()
	DisableTx()
}

// IRReceiver owns the raw edge timing of an NEC receiver. The decoder machine
// only interprets its flags.
type IRReceiver interface {
	Event() bool
	SetEvent(v bool)
	LeaderTimeout() bool
	SetDecoding(v bool)
	DecodeDone() bool
	Message() uint32
}

// Display is a two line character display.
type Display interface {
	Clear()
	Print(row int, text string)
	Backlight(on bool)
}

type Power interface {
	Sleep()
}
