/*
 * nec.go
 *
 * NEC infrared receiver. Edge is the falling edge interrupt of the IR
 * sensor, timestamped in microseconds. A frame is a 9ms+4.5ms leader
 * followed by 32 bits, least significant first, told apart by the gap
 * between consecutive falling edges.
 */
package hw

import (
	"sync"
	"time"
)

const (
	NECLeaderMin = 12 * time.Millisecond
	NECLeaderMax = 15 * time.Millisecond
	NECZeroGap   = 1125 * time.Microsecond
	NECOneGap    = 2250 * time.Microsecond
	NECLeaderGap = 13500 * time.Microsecond
	NECBits      = 32

	necBitThreshold = 1690 * time.Microsecond
	necFrameSpacing = 110 * time.Millisecond
)

type NECReceiver struct {
	mu sync.Mutex

	event    bool
	leader   bool
	decoding bool
	complete bool

	last     time.Duration
	haveLast bool
	bits     int
	code     uint32

	waker *Waker
}

func NewNECReceiver(w *Waker) *NECReceiver {
	return &NECReceiver{waker: w}
}

// Edge registers a falling edge at the given receiver time.
func (n *NECReceiver) Edge(at time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.event = true
	if n.haveLast {
		gap := at - n.last
		switch {
		case gap >= NECLeaderMin && gap <= NECLeaderMax:
			n.leader = true
			n.complete = false
			n.bits = 0
			n.code = 0
		case gap > NECLeaderMax:
			// idle line, whatever was in progress is gone
			n.leader = false
			n.bits = 0
		case n.leader && !n.complete:
			if gap > necBitThreshold {
				n.code |= 1 << uint(n.bits)
			}
			n.bits++
			if n.bits == NECBits {
				n.complete = true
			}
		}
	}
	n.last = at
	n.haveLast = true
	n.waker.Wake()
}

func (n *NECReceiver) Event() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.event
}

func (n *NECReceiver) SetEvent(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.event = v
}

func (n *NECReceiver) LeaderTimeout() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.leader
}

// SetDecoding(false) also discards the current frame.
func (n *NECReceiver) SetDecoding(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.decoding = v
	if !v {
		n.leader = false
		n.complete = false
		n.bits = 0
		n.code = 0
	}
}

func (n *NECReceiver) DecodeDone() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.decoding && n.complete
}

func (n *NECReceiver) Message() uint32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.code
}

// NECFrame returns the falling edge times of one frame carrying code,
// relative to the first edge.
func NECFrame(code uint32) []time.Duration {
	edges := make([]time.Duration, 0, NECBits+2)
	at := time.Duration(0)
	edges = append(edges, at)
	at += NECLeaderGap
	edges = append(edges, at)
	for i := 0; i < NECBits; i++ {
		if code&(1<<uint(i)) != 0 {
			at += NECOneGap
		} else {
			at += NECZeroGap
		}
		edges = append(edges, at)
	}
	return edges
}

// Replay sends one frame as if from a remote control. Edges carry the
// frame's own timestamps but are delivered pace apart in real time so a
// poll loop can follow. Replay blocks until the frame is sent.
func (n *NECReceiver) Replay(code uint32, pace time.Duration) {
	n.mu.Lock()
	base := n.last + necFrameSpacing
	n.mu.Unlock()

	for _, off := range NECFrame(code) {
		n.Edge(base + off)
		if pace > 0 {
			time.Sleep(pace)
		}
	}
}
