/*
 * remote.go
 */
package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
)

var remoteCmd = &cobra.Command{
	Use:   "remote <code|key>",
	Short: "Send an infrared remote control code to the jukebox",
	Long: `The argument is either a NEC code (0xF708FB04 or decimal) or the command a
code is mapped to in the jukeboxd keymap, e.g. "next".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rp := jukebox.RemotePost{}
		if code, err := strconv.ParseUint(args[0], 0, 32); err == nil {
			rp.Code = uint32(code)
		} else {
			rp.Key = args[0]
		}

		var rr jukebox.RemoteResponse
		if _, err := SendRequest("/remote", rp, &rr); err != nil {
			log.Fatalf("remote: %v", err)
		}
		PrintErrors(rr.Error, rr.ErrorMsg, rr.Msg)
		if !rr.Error && !cliconf.Verbose {
			fmt.Println(rr.Msg)
		}
	},
}

func init() {
	rootCmd.AddCommand(remoteCmd)
}
