package machines

import (
	"strings"
	"testing"
)

func TestPowerToggleThreshold(t *testing.T) {
	r := newRig(t, DefaultJukeboxConfig(), false)
	r.tick(5)
	if r.dev.Jukebox.Current() != JukeboxSleepWhileOff {
		t.Fatalf("got %s wanted %s", r.dev.Jukebox.Current(), JukeboxSleepWhileOff)
	}
	if r.power.sleeps == 0 {
		t.Errorf("got no sleep requests while off")
	}

	t.Run("Exactly the threshold does not toggle", func(t *testing.T) {
		r.hold(DefaultPowerToggleMs)
		s := r.dev.Jukebox.Current()
		if s != JukeboxOff && s != JukeboxSleepWhileOff {
			t.Errorf("got %s wanted off", s)
		}
		if r.dev.Button.Duration() != 0 {
			t.Errorf("got duration %d wanted 0 after the press was consumed", r.dev.Button.Duration())
		}
		r.tick(5)
		if r.dev.Jukebox.Current() != JukeboxSleepWhileOff {
			t.Errorf("got %s wanted %s", r.dev.Jukebox.Current(), JukeboxSleepWhileOff)
		}
	})

	t.Run("Above the threshold powers on", func(t *testing.T) {
		r.hold(DefaultPowerToggleMs + 1)
		if r.dev.Jukebox.Current() != JukeboxStartUp {
			t.Errorf("got %s wanted %s", r.dev.Jukebox.Current(), JukeboxStartUp)
		}
		if len(r.uart.sent) != 1 || r.uart.sent[0] != "Jukebox ON :) \n" {
			t.Errorf("got %q wanted [\"Jukebox ON :) \\n\"]", r.uart.sent)
		}
		if !r.uart.rxEnabled {
			t.Errorf("got rx disabled wanted enabled")
		}
		if r.display.lines[0] != "JUKEBOX ON" || !r.display.backlight {
			t.Errorf("got %q backlight %t wanted JUKEBOX ON with backlight", r.display.lines, r.display.backlight)
		}
	})
}

func TestStartUpStopAndSleep(t *testing.T) {
	r := newRig(t, DefaultJukeboxConfig(), false)
	r.powerOn()

	j := r.dev.Jukebox
	if r.dev.Player.Melody() != &ScaleMelody {
		t.Errorf("got %v wanted the slot 0 melody armed", r.dev.Player.Melody())
	}
	if r.dev.Player.Action() != Play {
		t.Errorf("got %s wanted play", r.dev.Player.Action())
	}
	if j.MelodyIndex() != 0 || j.MelodyName() != "scale" {
		t.Errorf("got %d/%s wanted 0/scale", j.MelodyIndex(), j.MelodyName())
	}
	if r.display.lines[0] != "NOW PLAYING:" || r.display.lines[1] != "scale" {
		t.Errorf("got %q wanted now playing scale", r.display.lines)
	}

	r.uart.receive("stop")
	r.tick(1)
	if j.Current() != JukeboxWaitCommand {
		t.Errorf("got %s wanted %s", j.Current(), JukeboxWaitCommand)
	}
	if r.dev.Player.CheckActivity() {
		t.Errorf("got tone activity wanted none after stop")
	}

	sleeps := r.power.sleeps
	r.tick(1)
	if j.Current() != JukeboxSleepWhileOn {
		t.Fatalf("got %s wanted %s", j.Current(), JukeboxSleepWhileOn)
	}
	if r.display.lines[0] != "Zzz" {
		t.Errorf("got %q wanted Zzz", r.display.lines[0])
	}
	r.tick(3)
	if r.power.sleeps <= sleeps {
		t.Errorf("got %d sleeps wanted more than %d", r.power.sleeps, sleeps)
	}

	r.input.pressed = true
	r.tick(1)
	if j.Current() != JukeboxWaitCommand {
		t.Errorf("got %s wanted %s right after the press", j.Current(), JukeboxWaitCommand)
	}
}

func TestNextSongBand(t *testing.T) {
	r := newRig(t, DefaultJukeboxConfig(), false)
	r.powerOn()
	j := r.dev.Jukebox

	cases := []struct {
		held    int
		advance bool
	}{
		{100, false},
		{DefaultNextSongMs, false},
		{DefaultNextSongMs + 1, true},
		{DefaultPowerToggleMs - 1, true},
		{DefaultPowerToggleMs, false},
	}
	for _, c := range cases {
		before := j.MelodyIndex()
		r.uart.sent = nil
		r.hold(c.held)
		advanced := j.MelodyIndex() != before
		if advanced != c.advance {
			t.Errorf("held %d: got advanced %t wanted %t", c.held, advanced, c.advance)
		}
		if j.Current() != JukeboxWaitCommand {
			t.Errorf("held %d: got %s wanted %s", c.held, j.Current(), JukeboxWaitCommand)
		}
		if r.dev.Button.Duration() != 0 {
			t.Errorf("held %d: got duration %d wanted it consumed", c.held, r.dev.Button.Duration())
		}
		if c.advance {
			want := "Now playing: " + j.MelodyName() + " :) \n"
			if r.lastSent() != want {
				t.Errorf("held %d: got %q wanted %q", c.held, r.lastSent(), want)
			}
			if j.MelodyIndex() != before+1 {
				t.Errorf("held %d: got slot %d wanted %d", c.held, j.MelodyIndex(), before+1)
			}
		}
	}

	t.Run("Wraps past the last occupied slot", func(t *testing.T) {
		r.command("select 7")
		if j.MelodyIndex() != 7 {
			t.Fatalf("got %d wanted 7", j.MelodyIndex())
		}
		r.hold(DefaultNextSongMs + 100)
		if j.MelodyIndex() != 0 {
			t.Errorf("got %d wanted 0", j.MelodyIndex())
		}
		if r.lastSent() != "Now playing: scale :) \n" {
			t.Errorf("got %q wanted the scale announcement", r.lastSent())
		}
	})
}

func TestCommands(t *testing.T) {
	r := newRig(t, DefaultJukeboxConfig(), false)
	r.powerOn()
	j := r.dev.Jukebox
	p := r.dev.Player

	t.Run("volume", func(t *testing.T) {
		r.command("volume 0.5")
		if r.lastSent() != "Current volume: 50%\n" {
			t.Errorf("got %q wanted %q", r.lastSent(), "Current volume: 50%\n")
		}
		if p.Volume() != 0.5 || j.Volume() != 0.5 {
			t.Errorf("got %v/%v wanted 0.5", p.Volume(), j.Volume())
		}
		if r.display.lines[0] != "VOLUME:" || r.display.lines[1] != "50%" {
			t.Errorf("got %q wanted VOLUME: 50%%", r.display.lines)
		}
		r.command("volume 3")
		if r.lastSent() != "Current volume: 100%\n" {
			t.Errorf("got %q wanted %q", r.lastSent(), "Current volume: 100%\n")
		}
		if p.Volume() != MaxVolume {
			t.Errorf("got %v wanted %v", p.Volume(), MaxVolume)
		}
	})

	t.Run("speed", func(t *testing.T) {
		r.command("speed 0.01")
		if j.Speed() != MinSpeed || p.Speed() != MinSpeed {
			t.Errorf("got %v/%v wanted %v", j.Speed(), p.Speed(), MinSpeed)
		}
		r.command("speed 2")
		if j.Speed() != 2 || p.Speed() != 2 {
			t.Errorf("got %v/%v wanted 2", j.Speed(), p.Speed())
		}
		if len(r.uart.sent) != 0 && strings.HasPrefix(r.lastSent(), "Error") {
			t.Errorf("got %q wanted no error", r.lastSent())
		}
	})

	t.Run("pause and play", func(t *testing.T) {
		r.uart.receive("pause")
		r.tick(1)
		if p.Action() != Pause || r.display.lines[0] != "PAUSE" {
			t.Errorf("got %s/%q wanted pause", p.Action(), r.display.lines[0])
		}
		r.tick(10)
		r.command("play")
		if p.Action() != Play || r.display.lines[0] != "NOW PLAYING:" {
			t.Errorf("got %s/%q wanted play", p.Action(), r.display.lines[0])
		}
		r.uart.receive("stop")
		r.tick(1)
		if p.Action() != Stop || r.display.lines[0] != "STOP" {
			t.Errorf("got %s/%q wanted stop", p.Action(), r.display.lines[0])
		}
		r.tick(10)
	})

	t.Run("select", func(t *testing.T) {
		r.command("select 2")
		if j.MelodyIndex() != 2 || p.Melody() != &TetrisMelody || p.Action() != Play {
			t.Errorf("got slot %d action %s wanted tetris playing", j.MelodyIndex(), p.Action())
		}
		for _, bad := range []string{"select 99", "select 8", "select -1", "select tetris", "select"} {
			r.uart.sent = nil
			r.command(bad)
			if r.lastSent() != MsgMelodyNotFound {
				t.Errorf("%s: got %q wanted %q", bad, r.lastSent(), MsgMelodyNotFound)
			}
			if j.MelodyIndex() != 2 || p.Melody() != &TetrisMelody {
				t.Errorf("%s: got slot %d wanted 2 unchanged", bad, j.MelodyIndex())
			}
		}
	})

	t.Run("next", func(t *testing.T) {
		r.command("next")
		if j.MelodyIndex() != 3 {
			t.Errorf("got %d wanted 3", j.MelodyIndex())
		}
		if r.lastSent() != "Now playing: mario :) \n" {
			t.Errorf("got %q wanted the mario announcement", r.lastSent())
		}
	})

	t.Run("info", func(t *testing.T) {
		r.command("info")
		if r.lastSent() != "Playing: mario\n" {
			t.Errorf("got %q wanted %q", r.lastSent(), "Playing: mario\n")
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		r.command("dance now")
		if r.lastSent() != MsgCommandNotFound {
			t.Errorf("got %q wanted %q", r.lastSent(), MsgCommandNotFound)
		}
		if r.dev.Link.CheckDataReceived() {
			t.Errorf("got unread input wanted it reset")
		}
	})

	t.Run("commands are case sensitive", func(t *testing.T) {
		r.command("PLAY")
		if r.lastSent() != MsgCommandNotFound {
			t.Errorf("got %q wanted %q", r.lastSent(), MsgCommandNotFound)
		}
	})

	t.Run("empty message is ignored", func(t *testing.T) {
		r.uart.sent = nil
		r.command("   ")
		if len(r.uart.sent) != 0 {
			t.Errorf("got %q wanted no response", r.uart.sent)
		}
		if r.dev.Link.CheckDataReceived() {
			t.Errorf("got unread input wanted it reset")
		}
	})

	t.Run("give up outside a game", func(t *testing.T) {
		r.command("give up")
		if r.lastSent() != MsgCommandNotFound {
			t.Errorf("got %q wanted %q", r.lastSent(), MsgCommandNotFound)
		}
	})
}

func TestGame(t *testing.T) {
	r := newRig(t, DefaultJukeboxConfig(), false)
	r.powerOn()
	j := r.dev.Jukebox

	r.command("game")
	if len(r.uart.sent) == 0 || r.uart.sent[0] != "Gaming\n" {
		t.Fatalf("got %q wanted Gaming first", r.uart.sent)
	}
	if j.Game() != Gaming {
		t.Fatalf("got %v wanted gaming", j.Game())
	}
	if j.MelodyIndex() < 0 || j.MelodyIndex() >= DefaultGameSlots {
		t.Errorf("got slot %d wanted one of the first %d", j.MelodyIndex(), DefaultGameSlots)
	}
	if r.dev.Player.Action() != Play {
		t.Errorf("got %s wanted play", r.dev.Player.Action())
	}
	answer := j.MelodyName()

	t.Run("Wrong guess keeps the game going", func(t *testing.T) {
		r.uart.sent = nil
		r.command("definitely_not_a_song")
		want := []string{
			"The correct answer was " + answer + "\n",
			"So your guess is incorrect! :(\n",
			"Remember you can give up at any time with the command <<GIVE UP>>\n",
		}
		if len(r.uart.sent) != len(want) {
			t.Fatalf("got %q wanted %q", r.uart.sent, want)
		}
		for i := range want {
			if r.uart.sent[i] != want[i] {
				t.Errorf("got %q wanted %q", r.uart.sent[i], want[i])
			}
		}
		if j.Game() != Gaming {
			t.Errorf("got %v wanted still gaming", j.Game())
		}
	})

	t.Run("Other commands still work while gaming", func(t *testing.T) {
		r.command("volume 0.2")
		if r.lastSent() != "Current volume: 20%\n" {
			t.Errorf("got %q wanted the volume echo", r.lastSent())
		}
	})

	t.Run("Correct guess ends the round", func(t *testing.T) {
		r.uart.sent = nil
		r.command(answer)
		if r.lastSent() != "So your guess is correct! :)\n" {
			t.Errorf("got %q wanted the correct message", r.lastSent())
		}
		if j.Game() != Waiting {
			t.Errorf("got %v wanted waiting", j.Game())
		}
	})

	t.Run("Give up", func(t *testing.T) {
		r.command("game")
		answer := j.MelodyName()
		r.uart.sent = nil
		r.command("give up")
		want := []string{
			"The correct answer was " + answer + "\n",
			"Im dissapointed in you for not keeping on trying :(\n",
		}
		if len(r.uart.sent) != len(want) || r.uart.sent[0] != want[0] || r.uart.sent[1] != want[1] {
			t.Errorf("got %q wanted %q", r.uart.sent, want)
		}
		if j.Game() != Waiting {
			t.Errorf("got %v wanted waiting", j.Game())
		}
	})
}

func TestShutOff(t *testing.T) {
	r := newRig(t, DefaultJukeboxConfig(), false)
	r.powerOn()
	j := r.dev.Jukebox

	r.hold(DefaultPowerToggleMs + 1)
	if j.Current() != JukeboxShutOff {
		t.Fatalf("got %s wanted %s", j.Current(), JukeboxShutOff)
	}
	if r.lastSent() != "Jukebox OFF :( \n" {
		t.Errorf("got %q wanted the off announcement", r.lastSent())
	}
	if r.dev.Player.Melody() != &InverseScaleMelody {
		t.Errorf("got %v wanted the farewell melody", r.dev.Player.Melody())
	}

	for i := 0; i < 5000 && j.Current() == JukeboxShutOff; i++ {
		r.tick(1)
	}
	s := j.Current()
	if s != JukeboxOff && s != JukeboxSleepWhileOff {
		t.Fatalf("got %s wanted off", s)
	}
	if r.uart.rxEnabled {
		t.Errorf("got rx enabled wanted disabled")
	}
	if r.display.backlight {
		t.Errorf("got backlight on wanted off")
	}

	r.uart.sent = nil
	r.command("play")
	if len(r.uart.sent) != 0 || r.dev.Player.Action() != Stop {
		t.Errorf("got %q/%s wanted commands ignored while off", r.uart.sent, r.dev.Player.Action())
	}
}

func TestEmptyFarewellSlot(t *testing.T) {
	conf := DefaultJukeboxConfig()
	conf.FarewellSlot = 9
	r := newRig(t, conf, false)
	r.powerOn()
	r.hold(DefaultPowerToggleMs + 1)
	r.tick(20)
	s := r.dev.Jukebox.Current()
	if s != JukeboxOff && s != JukeboxSleepWhileOff {
		t.Errorf("got %s wanted off", s)
	}
}

func TestRemote(t *testing.T) {
	const nextKey = 0xF708FB04
	conf := DefaultJukeboxConfig()
	conf.Keymap = map[uint32]string{nextKey: "next", 0xF40BFB04: "volume 0.3"}
	r := newRig(t, conf, true)
	r.powerOn()
	j := r.dev.Jukebox

	press := func(code uint32) {
		r.ir.event = true
		r.tick(1)
		r.ir.event = true
		r.ir.leader = true
		r.tick(1)
		r.ir.event = true
		r.tick(1)
		r.ir.done = true
		r.ir.message = code
		r.tick(10)
	}

	press(nextKey)
	if j.MelodyIndex() != 1 {
		t.Errorf("got %d wanted 1", j.MelodyIndex())
	}
	if r.lastSent() != "Now playing: happy_birthday :) \n" {
		t.Errorf("got %q wanted the next announcement", r.lastSent())
	}

	press(0xF40BFB04)
	if r.lastSent() != "Current volume: 30%\n" {
		t.Errorf("got %q wanted the volume echo", r.lastSent())
	}

	r.uart.sent = nil
	press(0x12345678)
	if len(r.uart.sent) != 0 {
		t.Errorf("got %q wanted unknown codes ignored", r.uart.sent)
	}
	if r.dev.Remote.CheckActivity() {
		t.Errorf("got an unread code wanted it consumed")
	}
}

func TestSnapshot(t *testing.T) {
	r := newRig(t, DefaultJukeboxConfig(), true)
	s := r.dev.Snapshot()
	if len(s.States) != 5 {
		t.Errorf("got %d states wanted 5", len(s.States))
	}
	if s.States["jukebox"] != string(JukeboxOff) {
		t.Errorf("got %s wanted %s", s.States["jukebox"], JukeboxOff)
	}
	if s.Melody != "scale" || s.Action != "stop" {
		t.Errorf("got %s/%s wanted scale/stop", s.Melody, s.Action)
	}
	for _, m := range []string{"button", "seriallink", "toneplayer", "irdecoder"} {
		if id, ok := s.IDs[m]; !ok || id != 0 {
			t.Errorf("got id %d (%t) for %s wanted 0", id, ok, m)
		}
	}
	names := []string{}
	for _, m := range r.dev.Machines() {
		names = append(names, m.Name())
	}
	want := "button seriallink toneplayer irdecoder jukebox"
	if strings.Join(names, " ") != want {
		t.Errorf("got %q wanted %q", strings.Join(names, " "), want)
	}
}
