package main

import "github.com/sdg2-jukebox/jukebox/jukebox-cli/cmd"

func main() {
	cmd.Execute()
}
