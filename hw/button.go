package hw

// Button is a push button line. Press and Release play the part of the
// edge interrupt.
type Button struct {
	pressed Flag
	waker   *Waker
}

func NewButton(w *Waker) *Button {
	return &Button{waker: w}
}

func (b *Button) Press() {
	b.pressed.Set(true)
	b.waker.Wake()
}

func (b *Button) Release() {
	b.pressed.Set(false)
	b.waker.Wake()
}

func (b *Button) Pressed() bool {
	return b.pressed.Get()
}
