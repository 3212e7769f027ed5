/*
 * seriallink.go
 */
package machines

import (
	"bytes"

	"github.com/sdg2-jukebox/jukebox/fsm"
)

const (
	LinkWaitData fsm.State = "wait-data"
	LinkSendData fsm.State = "send-data"
)

const (
	InputBufferLen  = 32
	OutputBufferLen = 100
	EmptyByte       = byte(0x00)
	EndChar         = byte('\n')
)

// SerialLink exchanges newline terminated text messages over a UART, one
// direction at a time.
type SerialLink struct {
	fsm.FSM[*SerialLink]
	id           int
	dataReceived bool
	inData       [InputBufferLen]byte
	outData      [OutputBufferLen]byte
	uart         UART
}

var linkTransitions = []fsm.Transition[*SerialLink]{
	{
		Description: "output pending, start transmission",
		From:        LinkWaitData,
		Criteria:    (*SerialLink).checkDataTx,
		To:          LinkSendData,
		Action:      (*SerialLink).doSetDataTx,
	},
	{
		Description: "message received",
		From:        LinkWaitData,
		Criteria:    (*SerialLink).checkDataRx,
		To:          LinkWaitData,
		Action:      (*SerialLink).doGetDataRx,
	},
	{
		Description: "transmission complete",
		From:        LinkSendData,
		Criteria:    (*SerialLink).checkTxEnd,
		To:          LinkWaitData,
		Action:      (*SerialLink).doTxEnd,
	},
}

func NewSerialLink(id int, uart UART) *SerialLink {
	l := &SerialLink{
		id:   id,
		uart: uart,
	}
	l.Init("seriallink", l, linkTransitions, LinkWaitData)
	return l
}

func (l *SerialLink) checkDataRx() bool {
	return l.uart.RxDone()
}

func (l *SerialLink) checkDataTx() bool {
	return l.outData[0] != EmptyByte
}

func (l *SerialLink) checkTxEnd() bool {
	return l.uart.TxDone()
}

func (l *SerialLink) doGetDataRx() {
	l.uart.GetFromInput(l.inData[:])
	l.uart.ResetInput()
	l.dataReceived = true
}

func (l *SerialLink) doSetDataTx() {
	l.uart.ResetOutput()
	l.uart.CopyToOutput(l.outData[:])
	l.uart.WriteData()
	l.uart.EnableTx()
}

func (l *SerialLink) doTxEnd() {
	l.uart.ResetOutput()
	clear(l.outData[:])
}

func (l *SerialLink) ID() int {
	return l.id
}

// SetOutData replaces the whole output buffer with msg. Anything beyond the
// buffer capacity is dropped.
func (l *SerialLink) SetOutData(msg string) {
	clear(l.outData[:])
	copy(l.outData[:], msg)
}

// OutPending reports whether a message is waiting in or being sent from the
// output buffer.
func (l *SerialLink) OutPending() bool {
	return l.outData[0] != EmptyByte || l.Current() == LinkSendData
}

// InData returns a copy of the raw input buffer.
func (l *SerialLink) InData() [InputBufferLen]byte {
	return l.inData
}

// InText is the input buffer up to the first empty byte.
func (l *SerialLink) InText() string {
	b := l.inData[:]
	if i := bytes.IndexByte(b, EmptyByte); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func (l *SerialLink) CheckDataReceived() bool {
	return l.dataReceived
}

func (l *SerialLink) ResetInputData() {
	clear(l.inData[:])
	l.dataReceived = false
}

func (l *SerialLink) EnableRx() {
	l.uart.EnableRx()
}

func (l *SerialLink) DisableRx() {
	l.uart.DisableRx()
}

func (l *SerialLink) EnableTx() {
	l.uart.EnableTx()
}

func (l *SerialLink) DisableTx() {
	l.uart.DisableTx()
}

func (l *SerialLink) CheckActivity() bool {
	return l.Current() == LinkSendData || l.dataReceived
}
