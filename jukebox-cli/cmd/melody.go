/*
 * melody.go
 *
 * The melody library is compiled into the jukebox, so listing and
 * exporting work without jukeboxd.
 */
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	"github.com/sdg2-jukebox/jukebox/machines"
	"github.com/sdg2-jukebox/jukebox/render"
)

var exportFormat, exportFile string
var exportSpeed, exportVolume float64
var exportRate int

var melodyCmd = &cobra.Command{
	Use:   "melody",
	Short: "Inspect the melodies compiled into the jukebox",
}

var melodyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the melody slots",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s\n", columnize.SimpleFormat(MelodyTable(machines.DefaultLibrary())))
	},
}

var melodyExportCmd = &cobra.Command{
	Use:   "export <slot>",
	Short: "Render a melody to a MIDI or WAV file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		slot, err := strconv.Atoi(args[0])
		if err != nil {
			log.Fatalf("melody export: slot must be a number: %q", args[0])
		}
		path, err := ExportMelody(machines.DefaultLibrary(), slot, exportFormat, exportFile,
			exportSpeed, exportVolume, exportRate)
		if err != nil {
			log.Fatalf("melody export: %v", err)
		}
		fmt.Printf("Wrote %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(melodyCmd)
	melodyCmd.AddCommand(melodyListCmd, melodyExportCmd)

	melodyExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "midi", "output format: midi or wav")
	melodyExportCmd.Flags().StringVarP(&exportFile, "output", "o", "", "output file (default is <melody>.mid or <melody>.wav)")
	melodyExportCmd.Flags().Float64VarP(&exportSpeed, "speed", "", machines.DefaultSpeed, "playback speed")
	melodyExportCmd.Flags().Float64VarP(&exportVolume, "volume", "", machines.DefaultVolume, "volume, wav only")
	melodyExportCmd.Flags().IntVarP(&exportRate, "samplerate", "", render.DefaultSampleRate, "sample rate, wav only")
}

func MelodyTable(lib *machines.Library) []string {
	var out []string
	if cliconf.Verbose || showheaders {
		out = append(out, "Slot|Melody|Notes|Length")
	}
	for i := 0; i < machines.LibrarySize; i++ {
		if !lib.Valid(i) {
			out = append(out, fmt.Sprintf("%d|---|0|0 ms", i))
			continue
		}
		m := lib.Get(i)
		var total uint32
		for _, n := range m.Notes {
			total += n.Duration
		}
		out = append(out, fmt.Sprintf("%d|%s|%d|%d ms", i, m.Name, m.Len(), total))
	}
	return out
}

// ExportMelody writes slot to path, or to a file named after the melody
// when path is empty. It returns the path written.
func ExportMelody(lib *machines.Library, slot int, format, path string, speed, volume float64, rate int) (string, error) {
	if !lib.Valid(slot) {
		return "", fmt.Errorf("no melody in slot %d", slot)
	}
	m := lib.Get(slot)

	format = strings.ToLower(format)
	var ext string
	switch format {
	case "midi", "mid":
		ext = ".mid"
	case "wav":
		ext = ".wav"
	default:
		return "", fmt.Errorf("unknown format %q, use midi or wav", format)
	}
	if path == "" {
		path = m.Name + ext
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	if ext == ".mid" {
		err = render.MIDI(f, m, speed)
	} else {
		err = render.WAV(f, m, render.WAVOptions{SampleRate: rate, Speed: speed, Volume: volume})
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
