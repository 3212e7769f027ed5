/*
 * melodies.go
 */
package machines

// LibrarySize is the number of melody slots in a jukebox.
const LibrarySize = 10

// Note frequencies in Hz. Rest is silence.
const (
	Rest = 0.0
	C4   = 261.63
	CS4  = 277.18
	D4   = 293.66
	E4   = 329.63
	F4   = 349.23
	FS4  = 369.99
	G4   = 392.00
	GS4  = 415.30
	A4   = 440.00
	AS4  = 466.16
	B4   = 493.88
	C5   = 523.25
	D5   = 587.33
	E5   = 659.25
	F5   = 698.46
	G5   = 783.99
	A5   = 880.00
	C6   = 1046.50
	E6   = 1318.51
	G6   = 1567.98
	G3   = 196.00
	A3   = 220.00
	B3   = 246.94
	E3   = 164.81
)

type Note struct {
	Freq     float64
	Duration uint32 // ms
}

// Melody is immutable once compiled in. The tone player only ever borrows it.
type Melody struct {
	Name  string
	Notes []Note
}

func (m *Melody) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Notes)
}

// Library holds the melodies of a jukebox. A zero length entry is an unused
// slot.
type Library [LibrarySize]*Melody

// Valid reports whether slot i holds a playable melody.
func (l *Library) Valid(i int) bool {
	return i >= 0 && i < LibrarySize && l[i].Len() > 0
}

func (l *Library) Get(i int) *Melody {
	if i < 0 || i >= LibrarySize {
		return nil
	}
	return l[i]
}

// Next returns the first valid slot after i, wrapping around. If no other
// slot is valid it returns i if that one is, else 0.
func (l *Library) Next(i int) int {
	for k := 1; k <= LibrarySize; k++ {
		j := (i + k) % LibrarySize
		if j < 0 {
			j += LibrarySize
		}
		if l.Valid(j) {
			return j
		}
	}
	return 0
}

func notes(seq ...float64) []Note {
	out := make([]Note, 0, len(seq)/2)
	for i := 0; i+1 < len(seq); i += 2 {
		out = append(out, Note{Freq: seq[i], Duration: uint32(seq[i+1])})
	}
	return out
}

var ScaleMelody = Melody{
	Name:  "scale",
	Notes: notes(C4, 250, D4, 250, E4, 250, F4, 250, G4, 250, A4, 250, B4, 250, C5, 250),
}

var HappyBirthdayMelody = Melody{
	Name: "happy_birthday",
	Notes: notes(
		C4, 300, C4, 100, D4, 400, C4, 400, F4, 400, E4, 800,
		C4, 300, C4, 100, D4, 400, C4, 400, G4, 400, F4, 800,
		C4, 300, C4, 100, C5, 400, A4, 400, F4, 400, E4, 400, D4, 800,
		AS4, 300, AS4, 100, A4, 400, F4, 400, G4, 400, F4, 800,
	),
}

var TetrisMelody = Melody{
	Name: "tetris",
	Notes: notes(
		E5, 400, B4, 200, C5, 200, D5, 400, C5, 200, B4, 200,
		A4, 400, A4, 200, C5, 200, E5, 400, D5, 200, C5, 200,
		B4, 600, C5, 200, D5, 400, E5, 400,
		C5, 400, A4, 400, A4, 400, Rest, 400,
	),
}

var MarioMelody = Melody{
	Name: "mario",
	Notes: notes(
		E5, 150, E5, 150, Rest, 150, E5, 150, Rest, 150, C5, 150, E5, 300,
		G5, 300, Rest, 300, G4, 300, Rest, 300,
		C5, 450, G4, 150, Rest, 300, E4, 450, A4, 300, B4, 300, AS4, 150, A4, 300,
	),
}

var OdeToJoyMelody = Melody{
	Name: "ode_to_joy",
	Notes: notes(
		E4, 400, E4, 400, F4, 400, G4, 400, G4, 400, F4, 400, E4, 400, D4, 400,
		C4, 400, C4, 400, D4, 400, E4, 400, E4, 600, D4, 200, D4, 800,
	),
}

var JingleBellsMelody = Melody{
	Name: "jingle_bells",
	Notes: notes(
		E4, 250, E4, 250, E4, 500, E4, 250, E4, 250, E4, 500,
		E4, 250, G4, 250, C4, 375, D4, 125, E4, 1000,
	),
}

var TwinkleMelody = Melody{
	Name: "twinkle",
	Notes: notes(
		C4, 400, C4, 400, G4, 400, G4, 400, A4, 400, A4, 400, G4, 800,
		F4, 400, F4, 400, E4, 400, E4, 400, D4, 400, D4, 400, C4, 800,
	),
}

// InverseScaleMelody is played when the jukebox powers off.
var InverseScaleMelody = Melody{
	Name:  "iscale",
	Notes: notes(C5, 250, B4, 250, A4, 250, G4, 250, F4, 250, E4, 250, D4, 250, C4, 250),
}

// FarewellSlot is where DefaultLibrary puts the power-off melody.
const FarewellSlot = 7

// DefaultLibrary returns the compiled-in melodies.
func DefaultLibrary() *Library {
	return &Library{
		0: &ScaleMelody,
		1: &HappyBirthdayMelody,
		2: &TetrisMelody,
		3: &MarioMelody,
		4: &OdeToJoyMelody,
		5: &JingleBellsMelody,
		6: &TwinkleMelody,
		FarewellSlot: &InverseScaleMelody,
	}
}
