/*
 * commands.go
 *
 * Text command protocol: "command [param]", whitespace separated.
 */
package machines

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MsgCommandNotFound = "Error: Command not found :(\n"
	MsgMelodyNotFound  = "Error: Melody not found :(\n"
)

// parseMessage splits a message into a command and an optional single
// parameter. An empty message is not a command.
func parseMessage(msg string) (cmd, param string, ok bool) {
	fields := strings.Fields(msg)
	if len(fields) == 0 {
		return "", "", false
	}
	cmd = fields[0]
	if len(fields) > 1 {
		param = fields[1]
	}
	return cmd, param, true
}

// atof mirrors C atof: anything unparsable is 0.
func atof(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func (j *Jukebox) executeCommand(cmd, param string) {
	switch cmd {
	case "play":
		j.player.SetAction(Play)
		j.showSong()
		return

	case "stop":
		j.player.SetAction(Stop)
		j.showState("STOP")
		return

	case "pause":
		j.player.SetAction(Pause)
		j.showState("PAUSE")
		return

	case "speed":
		speed := atof(param)
		if speed < MinSpeed {
			speed = MinSpeed
		}
		j.player.SetSpeed(speed)
		j.speed = speed
		return

	case "volume":
		volume := atof(param)
		if volume > MaxVolumeRequest {
			volume = MaxVolumeRequest
		}
		if volume < 0 {
			volume = 0
		}
		j.player.SetVolume(volume)
		j.volume = volume
		pct := int(volume * 100)
		j.showVolume(pct)
		j.send(fmt.Sprintf("Current volume: %d%%\n", pct))
		return

	case "next":
		j.setNextSong()
		return

	case "select":
		i, err := strconv.Atoi(param)
		if err != nil || !j.melodies.Valid(i) {
			j.send(MsgMelodyNotFound)
			return
		}
		j.selectSlot(i)
		j.showSong()
		return

	case "info":
		j.send(fmt.Sprintf("Playing: %s\n", j.melodyName))
		return

	case "game":
		j.startGame()
		return
	}

	// "give up" is only a command during a game. Outside one it falls
	// through to command not found.
	if j.game == Gaming {
		if cmd == "give" && param == "up" {
			j.game = Waiting
			j.send(fmt.Sprintf("The correct answer was %s\n", j.melodyName))
			j.send("Im dissapointed in you for not keeping on trying :(\n")
			return
		}
		j.send(fmt.Sprintf("The correct answer was %s\n", j.melodyName))
		if cmd == j.melodyName {
			j.game = Waiting
			j.send("So your guess is correct! :)\n")
			return
		}
		j.send("So your guess is incorrect! :(\n")
		j.send("Remember you can give up at any time with the command <<GIVE UP>>\n")
		return
	}

	j.send(MsgCommandNotFound)
	j.link.ResetInputData()
}

// startGame plays a random melody from the first few slots without naming
// it and waits for guesses.
func (j *Jukebox) startGame() {
	j.send("Gaming\n")
	var candidates []int
	for i := 0; i < j.gameSlots; i++ {
		if j.melodies.Valid(i) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return
	}
	j.selectSlot(candidates[j.rng.Intn(len(candidates))])
	j.game = Gaming
	j.showState("GUESS THE SONG")
}
