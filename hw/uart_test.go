package hw

import (
	"bytes"
	"testing"

	"github.com/sdg2-jukebox/jukebox/machines"
)

func TestUARTReceive(t *testing.T) {
	w := NewWaker()
	u := NewUART(w)

	t.Run("Disabled receiver drops input", func(t *testing.T) {
		if err := u.Inject("play"); err != ErrRxDisabled {
			t.Errorf("got %v wanted %v", err, ErrRxDisabled)
		}
		u.Receive('x')
		u.Receive('\n')
		if u.RxDone() {
			t.Errorf("got rxDone wanted nothing received")
		}
	})

	u.EnableRx()

	t.Run("Line sets rx done", func(t *testing.T) {
		if err := u.Inject("volume 0.5"); err != nil {
			t.Fatalf("got %v wanted nil", err)
		}
		if !u.RxDone() {
			t.Errorf("got false wanted true")
		}
		buf := make([]byte, machines.InputBufferLen)
		u.GetFromInput(buf)
		if got := string(bytes.TrimRight(buf, "\x00")); got != "volume 0.5" {
			t.Errorf("got %q wanted %q", got, "volume 0.5")
		}
		select {
		case <-w.C():
		default:
			t.Errorf("got no wake up on end of line")
		}
		u.ResetInput()
		if u.RxDone() {
			t.Errorf("got true wanted false after reset")
		}
	})

	t.Run("Carriage return ignored", func(t *testing.T) {
		for _, b := range []byte("info\r\n") {
			u.Receive(b)
		}
		buf := make([]byte, machines.InputBufferLen)
		u.GetFromInput(buf)
		if got := string(bytes.TrimRight(buf, "\x00")); got != "info" {
			t.Errorf("got %q wanted %q", got, "info")
		}
		u.ResetInput()
	})

	t.Run("Unread line", func(t *testing.T) {
		if err := u.Inject("volume 0.5"); err != nil {
			t.Fatalf("got %v wanted nil", err)
		}
		if err := u.Inject("info"); err != ErrRxBusy {
			t.Errorf("got %v wanted %v", err, ErrRxBusy)
		}
		buf := make([]byte, machines.InputBufferLen)
		u.GetFromInput(buf)
		if got := string(bytes.TrimRight(buf, "\x00")); got != "volume 0.5" {
			t.Errorf("got %q wanted %q", got, "volume 0.5")
		}

		for _, b := range []byte("info\n") {
			u.Receive(b)
		}
		if !u.RxDone() {
			t.Errorf("got false wanted true")
		}
		u.GetFromInput(buf)
		if got := string(bytes.TrimRight(buf, "\x00")); got != "info" {
			t.Errorf("got %q wanted %q", got, "info")
		}
		u.ResetInput()

		if err := u.Inject("info"); err != nil {
			t.Errorf("got %v wanted nil once the line was read", err)
		}
		u.ResetInput()
	})

	t.Run("Overlong line rejected", func(t *testing.T) {
		long := string(bytes.Repeat([]byte("a"), machines.InputBufferLen))
		if err := u.Inject(long); err == nil {
			t.Errorf("got nil wanted an error")
		}
	})
}

func TestUARTTransmit(t *testing.T) {
	u := NewUART(nil)
	var sink bytes.Buffer
	u.SetSink(&sink)

	send := func(msg string) {
		u.ResetOutput()
		u.CopyToOutput([]byte(msg))
		u.WriteData()
		u.EnableTx()
	}

	send("Jukebox ON :) \n")
	if !u.TxDone() {
		t.Errorf("got false wanted true")
	}
	u.ResetOutput()
	if u.TxDone() {
		t.Errorf("got true wanted false after reset")
	}

	send("two\nlines\n")
	if sink.String() != "Jukebox ON :) \ntwo\n" {
		t.Errorf("got %q wanted transmission to stop at the first newline", sink.String())
	}

	lines := u.Lines(0)
	if len(lines) != 2 || lines[1].Text != "two\n" || lines[1].Seq != 2 {
		t.Errorf("got %+v wanted two lines", lines)
	}
	if got := u.Lines(1); len(got) != 1 || got[0].Seq != 2 {
		t.Errorf("got %+v wanted the second line only", got)
	}
	if u.LastSeq() != 2 {
		t.Errorf("got %d wanted 2", u.LastSeq())
	}

	t.Run("Enable without data sends nothing", func(t *testing.T) {
		u.EnableTx()
		if u.LastSeq() != 2 {
			t.Errorf("got %d wanted 2", u.LastSeq())
		}
	})

	t.Run("History is bounded", func(t *testing.T) {
		for i := 0; i < MaxOutputHistory+10; i++ {
			send("x\n")
		}
		if n := len(u.Lines(0)); n != MaxOutputHistory {
			t.Errorf("got %d wanted %d", n, MaxOutputHistory)
		}
	})
}
