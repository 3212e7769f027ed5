/*
 * ping.go
 */
package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	jukebox "github.com/sdg2-jukebox/jukebox/common"
)

var pings int

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "send a ping request to the jukeboxd server, used for debugging",
	Run: func(cmd *cobra.Command, args []string) {
		PingJukeboxdServer()
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
	pingCmd.Flags().IntVarP(&pings, "count", "c", 1, "ping counter to send to server")
}

func PingJukeboxdServer() {
	var pr jukebox.PingResponse
	status, err := SendRequest("/ping", jukebox.PingPost{Pings: pings}, &pr)
	if err != nil {
		log.Println("Error from Api Post:", err)
		return
	}
	if cliconf.Verbose {
		fmt.Printf("Status: %d\n", status)
	}
	fmt.Printf("Pings: %d Pongs: %d Message: %s\n", pr.Pings, pr.Pongs, pr.Message)
}
