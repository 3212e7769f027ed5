/*
 * apistructs.go
 *
 * Request and response bodies shared by jukeboxd and jukebox-cli.
 */
package jukebox

import (
	"net/http"
	"time"
)

type APIstatus struct {
	Status  int
	Message string
}

type PingPost struct {
	Message string
	Pings   int
}

type PingResponse struct {
	Time    time.Time
	Client  string
	Message string
	Pings   int
	Pongs   int
}

// CommandPost carries one line for the serial link, without the newline.
type CommandPost struct {
	Command string
	WaitMs  int // how long to collect device output, 0 means the default
}

type OutputLine struct {
	Seq  uint64
	Time time.Time
	Text string
}

type CommandResponse struct {
	Time     time.Time
	Status   int
	Client   string
	Error    bool
	ErrorMsg string
	Msg      string
	Output   []OutputLine
}

// ButtonPost actions are "press", "release" and "click". A click holds the
// button for HoldMs.
type ButtonPost struct {
	Action string
	HoldMs int
}

type ButtonResponse struct {
	Time     time.Time
	Status   int
	Error    bool
	ErrorMsg string
	Msg      string
}

// RemotePost sends one NEC frame. Key is looked up in the keymap when Code
// is zero.
type RemotePost struct {
	Code uint32
	Key  string
}

type RemoteResponse struct {
	Time     time.Time
	Status   int
	Error    bool
	ErrorMsg string
	Msg      string
}

type StatusPost struct {
	Command string
}

type DeviceStatus struct {
	States      map[string]string
	Melody      string
	MelodyIndex int
	NoteIndex   int
	Action      string
	Speed       float64
	Volume      float64
	Gaming      bool
	Sleeping    bool
	Display     [2]string
	Backlight   bool
	Tone        float64
	RxEnabled   bool
	Outbox      []string
	Polls       uint64
	Fired       uint64
	Sleeps      uint64
	Uptime      string
}

type StatusResponse struct {
	Time     time.Time
	Status   int
	Client   string
	Error    bool
	ErrorMsg string
	Msg      string
	Device   DeviceStatus
}

type JournalPost struct {
	Command string // "transitions" | "messages"
	Limit   int
	Machine string
}

type JournalEntry struct {
	ID          int
	Time        time.Time
	Machine     string
	From        string
	To          string
	Description string
}

type MessageEntry struct {
	ID        int
	Time      time.Time
	Direction string
	Text      string
}

type JournalResponse struct {
	Time        time.Time
	Status      int
	Client      string
	Error       bool
	ErrorMsg    string
	Msg         string
	Transitions []JournalEntry
	Messages    []MessageEntry
}

type Api struct {
	Client     *http.Client
	Apiurl     string
	apiKey     string
	Authmethod string
	Verbose    bool
	Debug      bool
}
