/*
 * console.go
 *
 * Interactive serial terminal: every line typed goes to /command.
 */
package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive terminal on the jukebox serial link",
	Run: func(cmd *cobra.Command, args []string) {
		RunConsole()
	},
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func consoleCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("play"),
		readline.PcItem("pause"),
		readline.PcItem("stop"),
		readline.PcItem("next"),
		readline.PcItem("info"),
		readline.PcItem("game"),
		readline.PcItem("give", readline.PcItem("up")),
		readline.PcItem("select"),
		readline.PcItem("speed"),
		readline.PcItem("volume"),
		readline.PcItem("status"),
		readline.PcItem("quit"),
	)
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".jukebox-cli_history")
}

func RunConsole() {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "jukebox> ",
		HistoryFile:     historyFile(),
		AutoComplete:    consoleCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		log.Fatalf("console: %v", err)
	}
	defer rl.Close()

	fmt.Println("Type jukebox commands, \"status\" for the device status, \"quit\" to leave.")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return
		} else if err != nil {
			log.Printf("console: %v", err)
			return
		}

		if !consoleLine(strings.TrimSpace(line)) {
			return
		}
	}
}

// consoleLine handles one line and reports whether to keep going.
func consoleLine(line string) bool {
	switch line {
	case "":
		return true
	case "quit", "exit":
		return false
	case "status":
		ds, err := FetchStatus()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return true
		}
		PrintStatus(ds)
		return true
	}

	cr, err := SendCommand(line)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return true
	}
	PrintCommandResponse(cr)
	return true
}
