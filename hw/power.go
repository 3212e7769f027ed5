package hw

import (
	"sync/atomic"
)

// Power records low power requests. The poll engine takes them and blocks
// until the next wake up instead of spinning.
type Power struct {
	sleeps  atomic.Uint64
	pending atomic.Bool
}

func (p *Power) Sleep() {
	p.sleeps.Add(1)
	p.pending.Store(true)
}

// TakeSleep reports whether a sleep was requested since the last call.
func (p *Power) TakeSleep() bool {
	return p.pending.Swap(false)
}

func (p *Power) Sleeps() uint64 {
	return p.sleeps.Load()
}
