/*
 * uart.go
 *
 * Line oriented UART with one input and one output buffer. Receive is the
 * rx interrupt, one byte at a time. Transmission runs until the end of line
 * character and lands in the sink and in a short history of sent lines.
 */
package hw

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/sdg2-jukebox/jukebox/machines"
)

const MaxOutputHistory = 256

var (
	ErrRxDisabled = errors.New("uart receiver is disabled")
	ErrRxBusy     = errors.New("uart receiver holds an unread line")
)

type OutputLine struct {
	Seq  uint64
	Time time.Time
	Text string
}

type UART struct {
	mu sync.Mutex

	in        [machines.InputBufferLen]byte
	inIdx     int
	rxDone    bool
	rxEnabled bool

	out       [machines.OutputBufferLen]byte
	writing   bool
	txDone    bool
	txEnabled bool

	sink    io.Writer
	history []OutputLine
	seq     uint64

	waker   *Waker
	Verbose bool
}

func NewUART(w *Waker) *UART {
	return &UART{waker: w}
}

// SetSink sets where transmitted lines are written, e.g. a serial port.
func (u *UART) SetSink(w io.Writer) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sink = w
}

// Receive takes one byte off the wire. Bytes arriving while the receiver
// is disabled are dropped. A full buffer wraps around. A line starting
// while the previous one is still unread replaces it.
func (u *UART) Receive(b byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.receive(b)
}

func (u *UART) receive(b byte) bool {
	if !u.rxEnabled {
		return false
	}
	if u.rxDone && u.inIdx == 0 && b != machines.EndChar && b != '\r' {
		u.in = [machines.InputBufferLen]byte{}
		u.rxDone = false
	}
	switch b {
	case machines.EndChar:
		u.rxDone = true
		u.inIdx = 0
		u.waker.Wake()
	case '\r':
	default:
		u.in[u.inIdx] = b
		u.inIdx = (u.inIdx + 1) % len(u.in)
	}
	return true
}

// Inject delivers a whole line as if typed on the terminal. It fails with
// ErrRxBusy while the previous line has not been read.
func (u *UART) Inject(line string) error {
	if len(line) >= machines.InputBufferLen {
		return fmt.Errorf("line too long: %d bytes, max %d", len(line), machines.InputBufferLen-1)
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.rxEnabled {
		return ErrRxDisabled
	}
	if u.rxDone {
		return ErrRxBusy
	}
	for i := 0; i < len(line); i++ {
		u.receive(line[i])
	}
	u.receive(machines.EndChar)
	return nil
}

func (u *UART) RxDone() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rxDone
}

func (u *UART) GetFromInput(dst []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	copy(dst, u.in[:])
}

func (u *UART) ResetInput() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.in = [machines.InputBufferLen]byte{}
	u.inIdx = 0
	u.rxDone = false
}

func (u *UART) ResetOutput() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.out = [machines.OutputBufferLen]byte{}
	u.txDone = false
}

func (u *UART) CopyToOutput(src []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	copy(u.out[:], src)
}

func (u *UART) WriteData() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.writing = true
}

func (u *UART) TxDone() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.txDone
}

func (u *UART) EnableRx() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rxEnabled = true
}

func (u *UART) DisableRx() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rxEnabled = false
}

func (u *UART) RxEnabled() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rxEnabled
}

// EnableTx starts transmission of the output buffer. The transfer stops
// after the end of line character or at the end of the buffer.
func (u *UART) EnableTx() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.txEnabled = true
	if !u.writing {
		return
	}

	b := u.out[:]
	if i := bytes.IndexByte(b, machines.EndChar); i >= 0 {
		b = b[:i+1]
	} else if i := bytes.IndexByte(b, machines.EmptyByte); i >= 0 {
		b = b[:i]
	}
	text := string(b)

	if u.sink != nil {
		if _, err := io.WriteString(u.sink, text); err != nil {
			log.Printf("UART: error writing to sink: %v", err)
		}
	}
	if u.Verbose {
		log.Printf("UART tx: %q", text)
	}

	u.seq++
	u.history = append(u.history, OutputLine{Seq: u.seq, Time: time.Now(), Text: text})
	if len(u.history) > MaxOutputHistory {
		u.history = u.history[len(u.history)-MaxOutputHistory:]
	}

	u.writing = false
	u.txDone = true
	u.txEnabled = false
	u.waker.Wake()
}

func (u *UART) DisableTx() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.txEnabled = false
}

// Lines returns the transmitted lines with a sequence number above since.
func (u *UART) Lines(since uint64) []OutputLine {
	u.mu.Lock()
	defer u.mu.Unlock()
	var res []OutputLine
	for _, l := range u.history {
		if l.Seq > since {
			res = append(res, l)
		}
	}
	return res
}

// LastSeq is the sequence number of the most recently transmitted line.
func (u *UART) LastSeq() uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.seq
}
