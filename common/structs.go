package jukebox

import (
	"time"
)

type CliConfig struct {
	Debug   bool
	Verbose bool
}

const (
	JournalTransition = "TRANSITION"
	JournalMessage    = "MESSAGE"
)

// JournalUpdate is queued by the poll engine and written by the db updater.
type JournalUpdate struct {
	Type        string
	Time        time.Time
	Machine     string
	From        string
	To          string
	Description string
	Direction   string // "rx" | "tx"
	Text        string
}
