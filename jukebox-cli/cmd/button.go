/*
 * button.go
 */
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
)

var holdms int

var buttonCmd = &cobra.Command{
	Use:       "button click|press|release",
	Short:     "Operate the jukebox push button",
	Long:      `A click holds the button for --hold ms. Over 1000 ms toggles power, 500 to 1000 ms skips to the next melody.`,
	Args:      cobra.ExactValidArgs(1),
	ValidArgs: []string{"click", "press", "release"},
	Run: func(cmd *cobra.Command, args []string) {
		br, err := SendButton(args[0], holdms)
		if err != nil {
			log.Fatalf("button: %v", err)
		}
		PrintErrors(br.Error, br.ErrorMsg, br.Msg)
		if !br.Error && !cliconf.Verbose {
			fmt.Println(br.Msg)
		}
	},
}

func init() {
	rootCmd.AddCommand(buttonCmd)
	buttonCmd.Flags().IntVarP(&holdms, "hold", "", 100, "ms to hold the button for a click")
}

func SendButton(action string, hold int) (jukebox.ButtonResponse, error) {
	var br jukebox.ButtonResponse
	_, err := SendRequest("/button", jukebox.ButtonPost{Action: action, HoldMs: hold}, &br)
	return br, err
}
