/*
 * journal.go
 */
package cmd

import (
	"fmt"
	"log"

	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
)

var journalLimit int
var journalMachine string
var journalMessages bool

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recent machine transitions or serial messages from the jukeboxd journal",
	Run: func(cmd *cobra.Command, args []string) {
		jp := jukebox.JournalPost{
			Command: "transitions",
			Limit:   journalLimit,
			Machine: journalMachine,
		}
		if journalMessages {
			jp.Command = "messages"
		}

		var jr jukebox.JournalResponse
		if _, err := SendRequest("/journal", jp, &jr); err != nil {
			log.Fatalf("journal: %v", err)
		}
		PrintErrors(jr.Error, jr.ErrorMsg, jr.Msg)
		if jr.Error {
			return
		}
		if journalMessages {
			PrintMessages(jr.Messages)
		} else {
			PrintTransitions(jr.Transitions)
		}
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "l", jukebox.DefaultJournalLimit, "number of entries to show")
	journalCmd.Flags().StringVarP(&journalMachine, "machine", "m", "", "only show transitions of this machine")
	journalCmd.Flags().BoolVarP(&journalMessages, "messages", "M", false, "show serial messages instead of transitions")
}

const timeLayout = "15:04:05.000"

// Entries come newest first, they are printed oldest first.
func PrintTransitions(entries []jukebox.JournalEntry) {
	var out []string
	if cliconf.Verbose || showheaders {
		out = append(out, "Time|Machine|From|To|Rule")
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		out = append(out, fmt.Sprintf("%s|%s|%s|%s|%s", e.Time.Format(timeLayout),
			e.Machine, e.From, e.To, e.Description))
	}
	fmt.Printf("%s\n", columnize.SimpleFormat(out))
}

func PrintMessages(entries []jukebox.MessageEntry) {
	var out []string
	if cliconf.Verbose || showheaders {
		out = append(out, "Time|Dir|Text")
	}
	for i := len(entries) - 1; i >= 0; i-- {
		m := entries[i]
		out = append(out, fmt.Sprintf("%s|%s|%q", m.Time.Format(timeLayout), m.Direction, m.Text))
	}
	fmt.Printf("%s\n", columnize.SimpleFormat(out))
}
