package machines

import "testing"

func TestDefaultLibrary(t *testing.T) {
	lib := DefaultLibrary()
	want := []string{"scale", "happy_birthday", "tetris", "mario", "ode_to_joy",
		"jingle_bells", "twinkle", "iscale", "", ""}
	for i, name := range want {
		if name == "" {
			if lib.Valid(i) {
				t.Errorf("slot %d: got %s wanted empty", i, lib.Get(i).Name)
			}
			continue
		}
		if !lib.Valid(i) || lib.Get(i).Name != name {
			t.Errorf("slot %d: got %v wanted %s", i, lib.Get(i), name)
		}
	}
	if lib.Get(FarewellSlot).Name != "iscale" {
		t.Errorf("got %s wanted iscale in the farewell slot", lib.Get(FarewellSlot).Name)
	}
	if lib.Next(6) != 7 || lib.Next(7) != 0 {
		t.Errorf("got %d, %d wanted 7, 0", lib.Next(6), lib.Next(7))
	}
}
