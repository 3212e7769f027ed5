/*
 * button.go
 */
package machines

import (
	"github.com/sdg2-jukebox/jukebox/fsm"
)

const (
	ButtonReleased     fsm.State = "released"
	ButtonPressedWait  fsm.State = "pressed-wait"
	ButtonPressed      fsm.State = "pressed"
	ButtonReleasedWait fsm.State = "released-wait"
)

// Button debounces a digital input and measures how long it was held.
type Button struct {
	fsm.FSM[*Button]
	id          int
	debounce    uint32
	tickPressed uint32
	duration    uint32
	nextTimeout uint32
	input       ButtonInput
	clock       Clock
}

var buttonTransitions = []fsm.Transition[*Button]{
	{
		Description: "input asserted, start debounce",
		From:        ButtonReleased,
		Criteria:    (*Button).isPressed,
		To:          ButtonPressedWait,
		Action:      (*Button).storeTickPressed,
	},
	{
		Description: "press debounced",
		From:        ButtonPressedWait,
		Criteria:    (*Button).debounceElapsed,
		To:          ButtonPressed,
	},
	{
		Description: "input released, measure duration",
		From:        ButtonPressed,
		Criteria:    (*Button).isReleased,
		To:          ButtonReleasedWait,
		Action:      (*Button).storeDuration,
	},
	{
		Description: "release debounced",
		From:        ButtonReleasedWait,
		Criteria:    (*Button).debounceElapsed,
		To:          ButtonReleased,
	},
}

func NewButton(id int, debounceMs uint32, input ButtonInput, clock Clock) *Button {
	b := &Button{
		id:       id,
		debounce: debounceMs,
		input:    input,
		clock:    clock,
	}
	b.Init("button", b, buttonTransitions, ButtonReleased)
	return b
}

func (b *Button) isPressed() bool {
	return b.input.Pressed()
}

func (b *Button) isReleased() bool {
	return !b.input.Pressed()
}

func (b *Button) debounceElapsed() bool {
	return b.clock.Now() > b.nextTimeout
}

func (b *Button) storeTickPressed() {
	b.tickPressed = b.clock.Now()
	b.nextTimeout = b.tickPressed + b.debounce
}

func (b *Button) storeDuration() {
	now := b.clock.Now()
	b.duration = now - b.tickPressed
	b.nextTimeout = now + b.debounce
}

func (b *Button) ID() int {
	return b.id
}

// Duration is the length of the last completed press in ms, 0 if none is
// pending.
func (b *Button) Duration() uint32 {
	return b.duration
}

func (b *Button) ResetDuration() {
	b.duration = 0
}

// CheckActivity is true while a press is in progress or a measured duration
// has not been consumed.
func (b *Button) CheckActivity() bool {
	return b.Current() != ButtonReleased || b.duration > 0
}
