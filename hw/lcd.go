package hw

import (
	"sync"
)

const (
	LCDColumns = 16
	LCDRows    = 2
)

// LCD is a 16x2 character display with a backlight.
type LCD struct {
	mu        sync.Mutex
	lines     [LCDRows]string
	backlight bool
}

func NewLCD() *LCD {
	return &LCD{}
}

func (l *LCD) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = [LCDRows]string{}
}

// Print replaces a row. Text beyond the last column is cut off.
func (l *LCD) Print(row int, text string) {
	if row < 0 || row >= LCDRows {
		return
	}
	if len(text) > LCDColumns {
		text = text[:LCDColumns]
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[row] = text
}

func (l *LCD) Backlight(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.backlight = on
}

func (l *LCD) Lines() [LCDRows]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lines
}

func (l *LCD) BacklightOn() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.backlight
}
