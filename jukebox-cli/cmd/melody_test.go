package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sdg2-jukebox/jukebox/machines"
)

func TestMelodyTable(t *testing.T) {
	out := MelodyTable(machines.DefaultLibrary())
	if len(out) != machines.LibrarySize {
		t.Fatalf("got %d rows wanted %d", len(out), machines.LibrarySize)
	}
	if !strings.HasPrefix(out[2], "2|tetris|") {
		t.Errorf("got %q wanted tetris in slot 2", out[2])
	}
	if out[9] != "9|---|0|0 ms" {
		t.Errorf("got %q wanted an empty slot", out[9])
	}
}

func TestExportMelody(t *testing.T) {
	lib := machines.DefaultLibrary()
	dir := t.TempDir()

	cases := []struct {
		format string
		magic  string
	}{
		{"midi", "MThd"},
		{"MID", "MThd"},
		{"wav", "RIFF"},
	}
	for _, c := range cases {
		t.Run(c.format, func(t *testing.T) {
			path := filepath.Join(dir, "tetris-"+c.format)
			got, err := ExportMelody(lib, 2, c.format, path, 1.5, 0.5, 8000)
			if err != nil {
				t.Fatalf("got %v wanted nil", err)
			}
			if got != path {
				t.Errorf("got %s wanted %s", got, path)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if !bytes.HasPrefix(data, []byte(c.magic)) {
				t.Errorf("got %q wanted a %s header", data[:4], c.magic)
			}
		})
	}

	t.Run("errors", func(t *testing.T) {
		if _, err := ExportMelody(lib, 9, "midi", filepath.Join(dir, "empty.mid"), 1, 0.5, 0); err == nil {
			t.Errorf("got nil wanted an error for an empty slot")
		}
		if _, err := ExportMelody(lib, 42, "midi", filepath.Join(dir, "nowhere.mid"), 1, 0.5, 0); err == nil {
			t.Errorf("got nil wanted an error for a bad slot")
		}
		bad := filepath.Join(dir, "tetris.ogg")
		if _, err := ExportMelody(lib, 2, "ogg", bad, 1, 0.5, 0); err == nil {
			t.Errorf("got nil wanted an error for an unknown format")
		}
		if _, err := os.Stat(bad); !os.IsNotExist(err) {
			t.Errorf("got %v wanted no file left behind", err)
		}
	})
}
