/*
 * toneplayer.go
 */
package machines

import (
	"github.com/sdg2-jukebox/jukebox/fsm"
)

const (
	PlayerWaitStart  fsm.State = "wait-start"
	PlayerWaitNote   fsm.State = "wait-note"
	PlayerPlayNote   fsm.State = "play-note"
	PlayerPauseNote  fsm.State = "pause-note"
	PlayerWaitMelody fsm.State = "wait-melody"
)

type PlayerAction int

const (
	Stop PlayerAction = iota
	Play
	Pause
)

func (a PlayerAction) String() string {
	switch a {
	case Play:
		return "play"
	case Pause:
		return "pause"
	}
	return "stop"
}

const (
	DefaultSpeed  = 1.0
	DefaultVolume = 0.5
	MaxVolume     = 0.95
	MinVolume     = 0.01
)

// TonePlayer sequences the notes of a borrowed melody into tone commands.
type TonePlayer struct {
	fsm.FSM[*TonePlayer]
	id        int
	melody    *Melody
	noteIndex int
	action    PlayerAction
	speed     float64
	volume    float64
	tone      ToneService
}

var playerTransitions = []fsm.Transition[*TonePlayer]{
	{
		Description: "melody armed and play requested",
		From:        PlayerWaitStart,
		Criteria:    (*TonePlayer).checkPlayerStart,
		To:          PlayerWaitNote,
		Action:      (*TonePlayer).doPlayerStart,
	},
	{
		Description: "note duration elapsed",
		From:        PlayerWaitNote,
		Criteria:    (*TonePlayer).checkNoteEnd,
		To:          PlayerPlayNote,
		Action:      (*TonePlayer).doNoteEnd,
	},
	{
		Description: "stop requested",
		From:        PlayerPlayNote,
		Criteria:    (*TonePlayer).checkStop,
		To:          PlayerWaitStart,
		Action:      (*TonePlayer).doPlayerStop,
	},
	{
		Description: "play next note",
		From:        PlayerPlayNote,
		Criteria:    (*TonePlayer).checkPlayNote,
		To:          PlayerWaitNote,
		Action:      (*TonePlayer).doPlayNote,
	},
	{
		Description: "pause requested",
		From:        PlayerPlayNote,
		Criteria:    (*TonePlayer).checkPause,
		To:          PlayerPauseNote,
		Action:      (*TonePlayer).doPause,
	},
	{
		Description: "end of melody",
		From:        PlayerPlayNote,
		Criteria:    (*TonePlayer).checkEndMelody,
		To:          PlayerWaitMelody,
		Action:      (*TonePlayer).doEndMelody,
	},
	{
		Description: "resume",
		From:        PlayerPauseNote,
		Criteria:    (*TonePlayer).checkResume,
		To:          PlayerPlayNote,
	},
	{
		Description: "stop while paused",
		From:        PlayerPauseNote,
		Criteria:    (*TonePlayer).checkStop,
		To:          PlayerWaitStart,
		Action:      (*TonePlayer).doPlayerStop,
	},
	{
		Description: "melody armed after end of melody",
		From:        PlayerWaitMelody,
		Criteria:    (*TonePlayer).checkPlayerStart,
		To:          PlayerWaitNote,
		Action:      (*TonePlayer).doPlayerStart,
	},
}

func NewTonePlayer(id int, tone ToneService) *TonePlayer {
	p := &TonePlayer{
		id:     id,
		action: Stop,
		speed:  DefaultSpeed,
		volume: DefaultVolume,
		tone:   tone,
	}
	p.Init("toneplayer", p, playerTransitions, PlayerWaitStart)
	return p
}

func (p *TonePlayer) startNote(i int) {
	n := p.melody.Notes[i]
	p.tone.SetNote(n.Freq, p.volume)
	p.tone.SetDuration(uint32(float64(n.Duration) / p.speed))
}

func (p *TonePlayer) checkPlayerStart() bool {
	return p.melody.Len() > 0 && p.action == Play
}

func (p *TonePlayer) checkNoteEnd() bool {
	return p.tone.NoteTimeout()
}

func (p *TonePlayer) checkStop() bool {
	return p.action == Stop
}

func (p *TonePlayer) checkPlayNote() bool {
	return p.action == Play && p.noteIndex < p.melody.Len()
}

func (p *TonePlayer) checkPause() bool {
	return p.action == Pause
}

func (p *TonePlayer) checkResume() bool {
	return p.action == Play
}

func (p *TonePlayer) checkEndMelody() bool {
	return p.noteIndex >= p.melody.Len()
}

func (p *TonePlayer) doPlayerStart() {
	p.noteIndex = 0
	p.startNote(0)
	p.noteIndex++
}

func (p *TonePlayer) doNoteEnd() {
	p.tone.Stop()
}

func (p *TonePlayer) doPlayerStop() {
	p.tone.Stop()
	p.noteIndex = 0
}

func (p *TonePlayer) doPlayNote() {
	p.startNote(p.noteIndex)
	p.noteIndex++
}

func (p *TonePlayer) doPause() {
	p.tone.Stop()
}

func (p *TonePlayer) doEndMelody() {
	p.tone.Stop()
	p.noteIndex = 0
	p.action = Stop
}

func (p *TonePlayer) ID() int {
	return p.id
}

// SetMelody arms a melody. The player keeps the pointer, it never copies.
func (p *TonePlayer) SetMelody(m *Melody) {
	p.melody = m
	p.noteIndex = 0
}

func (p *TonePlayer) Melody() *Melody {
	return p.melody
}

func (p *TonePlayer) NoteIndex() int {
	return p.noteIndex
}

// SetSpeed sets the playback speed multiplier. Non-positive values are
// ignored.
func (p *TonePlayer) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	p.speed = speed
}

func (p *TonePlayer) Speed() float64 {
	return p.speed
}

// SetVolume clamps to (0, MaxVolume]. Full scale saturates the buzzer PWM.
func (p *TonePlayer) SetVolume(volume float64) {
	switch {
	case volume > MaxVolume:
		volume = MaxVolume
	case volume <= 0:
		volume = MinVolume
	}
	p.volume = volume
}

func (p *TonePlayer) Volume() float64 {
	return p.volume
}

func (p *TonePlayer) SetAction(a PlayerAction) {
	p.action = a
	if a == Stop {
		p.noteIndex = 0
	}
}

func (p *TonePlayer) Action() PlayerAction {
	return p.action
}

func (p *TonePlayer) CheckActivity() bool {
	return p.action == Play
}
