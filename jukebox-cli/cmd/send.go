/*
 * send.go
 */
package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
)

var waitms int

var sendCmd = &cobra.Command{
	Use:   "send <command words...>",
	Short: "Type a command line into the jukebox serial link",
	Long: `Sends one line to the jukebox as if typed on its serial terminal and
prints what the jukebox answers, e.g.

  jukebox-cli send select 3
  jukebox-cli send volume 0.4`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cr, err := SendCommand(strings.Join(args, " "))
		if err != nil {
			log.Fatalf("send: %v", err)
		}
		PrintCommandResponse(cr)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().IntVarP(&waitms, "wait", "w", 0, "ms to wait for output (default is the server default)")
}

func SendCommand(line string) (jukebox.CommandResponse, error) {
	var cr jukebox.CommandResponse
	_, err := SendRequest("/command", jukebox.CommandPost{Command: line, WaitMs: waitms}, &cr)
	return cr, err
}

func PrintCommandResponse(cr jukebox.CommandResponse) {
	PrintErrors(cr.Error, cr.ErrorMsg, cr.Msg)
	for _, l := range cr.Output {
		fmt.Print(l.Text)
		if !strings.HasSuffix(l.Text, "\n") {
			fmt.Println()
		}
	}
}
