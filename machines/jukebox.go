/*
 * jukebox.go
 *
 * Top level machine. Borrows a button, a serial link, a tone player and
 * optionally an IR decoder and turns them into a jukebox.
 */
package machines

import (
	"fmt"
	"math/rand"

	"github.com/sdg2-jukebox/jukebox/fsm"
)

const (
	JukeboxOff           fsm.State = "off"
	JukeboxStartUp       fsm.State = "start-up"
	JukeboxWaitCommand   fsm.State = "wait-command"
	JukeboxSleepWhileOn  fsm.State = "sleep-while-on"
	JukeboxSleepWhileOff fsm.State = "sleep-while-off"
	JukeboxShutOff       fsm.State = "shut-off"
)

type GameState int

const (
	Waiting GameState = iota
	Gaming
)

const (
	DefaultPowerToggleMs = 1000
	DefaultNextSongMs    = 500
	DefaultGameSlots     = 4
	MinSpeed             = 0.1
	MaxVolumeRequest     = 1.0
)

type JukeboxConfig struct {
	PowerToggleMs uint32
	NextSongMs    uint32
	FarewellSlot  int
	GameSlots     int
	Seed          int64
	// Keymap maps decoded remote codes to text commands.
	Keymap map[uint32]string
}

func DefaultJukeboxConfig() JukeboxConfig {
	return JukeboxConfig{
		PowerToggleMs: DefaultPowerToggleMs,
		NextSongMs:    DefaultNextSongMs,
		FarewellSlot:  FarewellSlot,
		GameSlots:     DefaultGameSlots,
		Seed:          1,
	}
}

type Jukebox struct {
	fsm.FSM[*Jukebox]

	button *Button
	link   *SerialLink
	player *TonePlayer
	remote *IRDecoder

	melodies      *Library
	melodyIdx     int
	melodyName    string
	powerToggleMs uint32
	nextSongMs    uint32
	farewellSlot  int
	gameSlots     int
	speed         float64
	volume        float64
	game          GameState
	keymap        map[uint32]string
	rng           *rand.Rand
	outbox        []string

	display Display
	power   Power
}

var jukeboxTransitions = []fsm.Transition[*Jukebox]{
	{
		Description: "idle while off",
		From:        JukeboxOff,
		Criteria:    (*Jukebox).checkNoActivity,
		To:          JukeboxSleepWhileOff,
		Action:      (*Jukebox).doSleep,
	},
	{
		Description: "still idle while off",
		From:        JukeboxSleepWhileOff,
		Criteria:    (*Jukebox).checkNoActivity,
		To:          JukeboxSleepWhileOff,
		Action:      (*Jukebox).doSleep,
	},
	{
		Description: "wake while off",
		From:        JukeboxSleepWhileOff,
		Criteria:    (*Jukebox).checkActivity,
		To:          JukeboxOff,
	},
	{
		Description: "long press, power on",
		From:        JukeboxOff,
		Criteria:    (*Jukebox).checkOnOff,
		To:          JukeboxStartUp,
		Action:      (*Jukebox).doStartUp,
	},
	{
		Description: "short press while off",
		From:        JukeboxOff,
		Criteria:    (*Jukebox).checkPressPending,
		To:          JukeboxOff,
		Action:      (*Jukebox).doDiscardPress,
	},
	{
		Description: "remote code while off",
		From:        JukeboxOff,
		Criteria:    (*Jukebox).checkRemoteReceived,
		To:          JukeboxOff,
		Action:      (*Jukebox).doDiscardRemote,
	},
	{
		Description: "send queued message",
		From:        JukeboxStartUp,
		Criteria:    (*Jukebox).checkOutboxReady,
		To:          JukeboxStartUp,
		Action:      (*Jukebox).doFlushOutbox,
	},
	{
		Description: "start-up melody finished",
		From:        JukeboxStartUp,
		Criteria:    (*Jukebox).checkMelodyFinished,
		To:          JukeboxWaitCommand,
		Action:      (*Jukebox).doStartJukebox,
	},
	{
		Description: "send queued message",
		From:        JukeboxWaitCommand,
		Criteria:    (*Jukebox).checkOutboxReady,
		To:          JukeboxWaitCommand,
		Action:      (*Jukebox).doFlushOutbox,
	},
	{
		Description: "long press, power off",
		From:        JukeboxWaitCommand,
		Criteria:    (*Jukebox).checkOnOff,
		To:          JukeboxShutOff,
		Action:      (*Jukebox).doShutOff,
	},
	{
		Description: "medium press, next song",
		From:        JukeboxWaitCommand,
		Criteria:    (*Jukebox).checkNextSong,
		To:          JukeboxWaitCommand,
		Action:      (*Jukebox).doLoadNextSong,
	},
	{
		Description: "command received",
		From:        JukeboxWaitCommand,
		Criteria:    (*Jukebox).checkCommandReceived,
		To:          JukeboxWaitCommand,
		Action:      (*Jukebox).doReadCommand,
	},
	{
		Description: "remote code received",
		From:        JukeboxWaitCommand,
		Criteria:    (*Jukebox).checkRemoteReceived,
		To:          JukeboxWaitCommand,
		Action:      (*Jukebox).doReadRemote,
	},
	{
		Description: "short press ignored",
		From:        JukeboxWaitCommand,
		Criteria:    (*Jukebox).checkPressPending,
		To:          JukeboxWaitCommand,
		Action:      (*Jukebox).doDiscardPress,
	},
	{
		Description: "idle while on",
		From:        JukeboxWaitCommand,
		Criteria:    (*Jukebox).checkNoActivity,
		To:          JukeboxSleepWhileOn,
		Action:      (*Jukebox).doSleepWaitCommand,
	},
	{
		Description: "still idle while on",
		From:        JukeboxSleepWhileOn,
		Criteria:    (*Jukebox).checkNoActivity,
		To:          JukeboxSleepWhileOn,
		Action:      (*Jukebox).doSleep,
	},
	{
		Description: "wake while on",
		From:        JukeboxSleepWhileOn,
		Criteria:    (*Jukebox).checkActivity,
		To:          JukeboxWaitCommand,
		Action:      (*Jukebox).doWakeUp,
	},
	{
		Description: "send queued message",
		From:        JukeboxShutOff,
		Criteria:    (*Jukebox).checkOutboxReady,
		To:          JukeboxShutOff,
		Action:      (*Jukebox).doFlushOutbox,
	},
	{
		Description: "farewell melody finished",
		From:        JukeboxShutOff,
		Criteria:    (*Jukebox).checkMelodyFinished,
		To:          JukeboxOff,
		Action:      (*Jukebox).doStopJukebox,
	},
}

func NewJukebox(conf JukeboxConfig, melodies *Library, button *Button, link *SerialLink,
	player *TonePlayer, display Display, power Power) *Jukebox {
	if melodies == nil {
		melodies = DefaultLibrary()
	}
	if conf.GameSlots <= 0 || conf.GameSlots > LibrarySize {
		conf.GameSlots = DefaultGameSlots
	}
	j := &Jukebox{
		button:        button,
		link:          link,
		player:        player,
		melodies:      melodies,
		powerToggleMs: conf.PowerToggleMs,
		nextSongMs:    conf.NextSongMs,
		farewellSlot:  conf.FarewellSlot,
		gameSlots:     conf.GameSlots,
		speed:         DefaultSpeed,
		volume:        player.Volume(),
		game:          Waiting,
		keymap:        conf.Keymap,
		rng:           rand.New(rand.NewSource(conf.Seed)),
		display:       display,
		power:         power,
	}
	if m := melodies.Get(0); m != nil {
		j.melodyName = m.Name
	}
	j.Init("jukebox", j, jukeboxTransitions, JukeboxOff)
	return j
}

// AttachRemote lets the jukebox take commands from a decoded IR remote.
func (j *Jukebox) AttachRemote(d *IRDecoder) {
	j.remote = d
}

// Guards

func (j *Jukebox) checkOnOff() bool {
	d := j.button.Duration()
	return d > 0 && d > j.powerToggleMs
}

func (j *Jukebox) checkNextSong() bool {
	d := j.button.Duration()
	return d > 0 && d > j.nextSongMs && d < j.powerToggleMs
}

func (j *Jukebox) checkPressPending() bool {
	return j.button.Duration() > 0
}

func (j *Jukebox) checkMelodyFinished() bool {
	return j.player.Action() == Stop
}

func (j *Jukebox) checkCommandReceived() bool {
	return j.link.CheckDataReceived()
}

func (j *Jukebox) checkRemoteReceived() bool {
	return j.remote != nil && j.remote.CheckActivity()
}

func (j *Jukebox) checkOutboxReady() bool {
	return len(j.outbox) > 0 && !j.link.OutPending()
}

func (j *Jukebox) checkActivity() bool {
	return j.button.CheckActivity() ||
		j.link.CheckActivity() ||
		j.player.CheckActivity() ||
		(j.remote != nil && j.remote.CheckActivity()) ||
		len(j.outbox) > 0
}

func (j *Jukebox) checkNoActivity() bool {
	return !j.checkActivity()
}

// Actions

func (j *Jukebox) doStartUp() {
	j.button.ResetDuration()
	j.link.EnableRx()
	j.send("Jukebox ON :) \n")
	j.speed = DefaultSpeed
	j.player.SetSpeed(DefaultSpeed)
	j.game = Waiting
	j.playSlot(0)
	j.display.Clear()
	j.display.Print(0, "JUKEBOX ON")
	j.display.Print(1, ":D")
	j.display.Backlight(true)
}

func (j *Jukebox) doStartJukebox() {
	j.melodyIdx = 0
	if m := j.melodies.Get(0); m != nil {
		j.melodyName = m.Name
	}
	j.playSlot(0)
	j.showSong()
}

func (j *Jukebox) doShutOff() {
	j.button.ResetDuration()
	j.send("Jukebox OFF :( \n")
	j.speed = DefaultSpeed
	j.player.SetSpeed(DefaultSpeed)
	j.melodyIdx = 0
	j.game = Waiting
	j.playSlot(j.farewellSlot)
	j.display.Clear()
	j.display.Print(0, "JUKEBOX OFF")
	j.display.Print(1, ":(")
	j.display.Backlight(true)
}

func (j *Jukebox) doStopJukebox() {
	j.button.ResetDuration()
	j.link.DisableRx()
	j.link.DisableTx()
	j.link.ResetInputData()
	j.outbox = nil
	j.display.Clear()
	j.display.Backlight(false)
	j.player.SetAction(Stop)
}

func (j *Jukebox) doLoadNextSong() {
	j.setNextSong()
	j.button.ResetDuration()
}

func (j *Jukebox) doReadCommand() {
	msg := j.link.InText()
	j.link.ResetInputData()
	if cmd, param, ok := parseMessage(msg); ok {
		j.executeCommand(cmd, param)
	}
}

func (j *Jukebox) doReadRemote() {
	code := j.remote.Message()
	line, ok := j.keymap[code]
	if !ok {
		return
	}
	if cmd, param, ok := parseMessage(line); ok {
		j.executeCommand(cmd, param)
	}
}

func (j *Jukebox) doDiscardPress() {
	j.button.ResetDuration()
}

func (j *Jukebox) doDiscardRemote() {
	j.remote.Message()
}

func (j *Jukebox) doFlushOutbox() {
	j.link.SetOutData(j.outbox[0])
	j.outbox = j.outbox[1:]
}

func (j *Jukebox) doSleep() {
	j.power.Sleep()
}

func (j *Jukebox) doSleepWaitCommand() {
	j.display.Clear()
	j.display.Print(0, "Zzz")
}

func (j *Jukebox) doWakeUp() {
	j.showSong()
}

// playSlot arms the melody in slot i and starts it. An unused slot leaves
// the player stopped.
func (j *Jukebox) playSlot(i int) {
	j.player.SetAction(Stop)
	if !j.melodies.Valid(i) {
		return
	}
	j.player.SetMelody(j.melodies.Get(i))
	j.player.SetAction(Play)
}

func (j *Jukebox) selectSlot(i int) {
	j.melodyIdx = i
	j.melodyName = j.melodies.Get(i).Name
	j.playSlot(i)
}

func (j *Jukebox) setNextSong() {
	j.selectSlot(j.melodies.Next(j.melodyIdx))
	j.send(fmt.Sprintf("Now playing: %s :) \n", j.melodyName))
	j.showSong()
}

// send queues a message for the serial link. Messages go out one at a time
// since the link holds a single output buffer.
func (j *Jukebox) send(msg string) {
	j.outbox = append(j.outbox, msg)
}

func (j *Jukebox) showSong() {
	j.display.Clear()
	j.display.Print(0, "NOW PLAYING:")
	j.display.Print(1, j.melodyName)
}

func (j *Jukebox) showState(state string) {
	j.display.Clear()
	j.display.Print(0, state)
}

func (j *Jukebox) showVolume(pct int) {
	j.display.Clear()
	j.display.Print(0, "VOLUME:")
	j.display.Print(1, fmt.Sprintf("%d%%", pct))
}

// Accessors used for status reporting.

func (j *Jukebox) MelodyIndex() int {
	return j.melodyIdx
}

func (j *Jukebox) MelodyName() string {
	return j.melodyName
}

func (j *Jukebox) Speed() float64 {
	return j.speed
}

func (j *Jukebox) Volume() float64 {
	return j.volume
}

func (j *Jukebox) Game() GameState {
	return j.game
}

func (j *Jukebox) Pending() []string {
	return append([]string(nil), j.outbox...)
}

// Sleeping is true in either of the sleep sub-states.
func (j *Jukebox) Sleeping() bool {
	s := j.Current()
	return s == JukeboxSleepWhileOn || s == JukeboxSleepWhileOff
}
