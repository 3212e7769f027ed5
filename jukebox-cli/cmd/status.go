/*
 * status.go
 */
package cmd

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of every machine and what the jukebox is doing",
	Run: func(cmd *cobra.Command, args []string) {
		ds, err := FetchStatus()
		if err != nil {
			log.Fatalf("status: %v", err)
		}
		PrintStatus(ds)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func FetchStatus() (jukebox.DeviceStatus, error) {
	var sr jukebox.StatusResponse
	if _, err := SendRequest("/status", jukebox.StatusPost{}, &sr); err != nil {
		return jukebox.DeviceStatus{}, err
	}
	if sr.Error {
		return jukebox.DeviceStatus{}, fmt.Errorf("%s", sr.ErrorMsg)
	}
	return sr.Device, nil
}

func PrintStatus(ds jukebox.DeviceStatus) {
	var out []string
	if cliconf.Verbose || showheaders {
		out = append(out, "Machine|State")
	}
	machines := make([]string, 0, len(ds.States))
	for m := range ds.States {
		machines = append(machines, m)
	}
	sort.Strings(machines)
	for _, m := range machines {
		out = append(out, fmt.Sprintf("%s|%s", m, ds.States[m]))
	}
	fmt.Printf("%s\n\n", columnize.SimpleFormat(out))

	melody := ds.Melody
	if melody == "" {
		melody = "---"
	}
	out = []string{
		fmt.Sprintf("Melody|%s (slot %d, note %d)", melody, ds.MelodyIndex, ds.NoteIndex),
		fmt.Sprintf("Player|%s, speed %.2f, volume %.0f%%", ds.Action, ds.Speed, ds.Volume*100),
		fmt.Sprintf("Tone|%.1f Hz", ds.Tone),
		fmt.Sprintf("Display|%q %q (backlight %t)", ds.Display[0], ds.Display[1], ds.Backlight),
		fmt.Sprintf("Serial rx|%t", ds.RxEnabled),
		fmt.Sprintf("Game|%t", ds.Gaming),
		fmt.Sprintf("Sleeping|%t (%d sleeps)", ds.Sleeping, ds.Sleeps),
		fmt.Sprintf("Polls|%d (%d rules fired)", ds.Polls, ds.Fired),
		fmt.Sprintf("Uptime|%s", ds.Uptime),
	}
	if len(ds.Outbox) > 0 {
		out = append(out, fmt.Sprintf("Outbox|%s", strings.Join(quoteAll(ds.Outbox), " ")))
	}
	fmt.Printf("%s\n", columnize.SimpleFormat(out))
}

func quoteAll(in []string) []string {
	res := make([]string, len(in))
	for i, s := range in {
		res[i] = fmt.Sprintf("%q", s)
	}
	return res
}
