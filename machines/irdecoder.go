/*
 * irdecoder.go
 *
 * NEC pulse distance decoder. The receiver latches edges and the leader
 * space timeout; this machine sequences them and collects the 32 bit code.
 */
package machines

import (
	"github.com/sdg2-jukebox/jukebox/fsm"
)

const (
	IRWait   fsm.State = "wait"
	IRStart  fsm.State = "start"
	IRHold   fsm.State = "hold"
	IRDecode fsm.State = "decode"
)

type IRDecoder struct {
	fsm.FSM[*IRDecoder]
	id      int
	message uint32
	decoded bool
	rx      IRReceiver
}

var irTransitions = []fsm.Transition[*IRDecoder]{
	{
		Description: "leader burst edge",
		From:        IRWait,
		Criteria:    (*IRDecoder).checkEvent,
		To:          IRStart,
		Action:      (*IRDecoder).doWait,
	},
	{
		Description: "leader space edge",
		From:        IRStart,
		Criteria:    (*IRDecoder).checkEvent,
		To:          IRHold,
		Action:      (*IRDecoder).doWait,
	},
	{
		Description: "leader timed out, decode bits",
		From:        IRHold,
		Criteria:    (*IRDecoder).checkLeaderEvent,
		To:          IRDecode,
		Action:      (*IRDecoder).doDecode,
	},
	{
		Description: "no leader, resync",
		From:        IRHold,
		Criteria:    (*IRDecoder).checkEvent,
		To:          IRWait,
		Action:      (*IRDecoder).doWait,
	},
	{
		Description: "frame complete",
		From:        IRDecode,
		Criteria:    (*IRDecoder).checkDecodeDone,
		To:          IRWait,
		Action:      (*IRDecoder).doStore,
	},
}

func NewIRDecoder(id int, rx IRReceiver) *IRDecoder {
	d := &IRDecoder{
		id: id,
		rx: rx,
	}
	d.Init("irdecoder", d, irTransitions, IRWait)
	return d
}

func (d *IRDecoder) checkEvent() bool {
	return d.rx.Event()
}

func (d *IRDecoder) checkLeaderEvent() bool {
	return d.rx.Event() && d.rx.LeaderTimeout()
}

func (d *IRDecoder) checkDecodeDone() bool {
	return d.rx.DecodeDone()
}

func (d *IRDecoder) doWait() {
	d.rx.SetEvent(false)
}

func (d *IRDecoder) doDecode() {
	d.rx.SetEvent(false)
	d.rx.SetDecoding(true)
}

func (d *IRDecoder) doStore() {
	d.message = d.rx.Message()
	d.rx.SetDecoding(false)
	d.rx.SetEvent(false)
	d.decoded = true
}

func (d *IRDecoder) ID() int {
	return d.id
}

// Message returns the last decoded code and consumes it.
func (d *IRDecoder) Message() uint32 {
	d.decoded = false
	return d.message
}

func (d *IRDecoder) CheckActivity() bool {
	return d.decoded
}
