package fsm

import (
	"testing"
)

type lamp struct {
	FSM[*lamp]
	switched bool
	broken   bool
	actions  []string
}

const (
	lampOff State = "off"
	lampOn  State = "on"
)

func newLamp() *lamp {
	l := &lamp{}
	l.Init("lamp", l, []Transition[*lamp]{
		{
			Description: "broken lamp stays off",
			From:        lampOff,
			Criteria:    func(l *lamp) bool { return l.broken },
			To:          lampOff,
			Action:      func(l *lamp) { l.actions = append(l.actions, "broken") },
		},
		{
			Description: "switch on",
			From:        lampOff,
			Criteria:    func(l *lamp) bool { return l.switched },
			To:          lampOn,
			Action:      func(l *lamp) { l.actions = append(l.actions, "on") },
		},
		{
			Description: "switch off",
			From:        lampOn,
			Criteria:    func(l *lamp) bool { return !l.switched },
			To:          lampOff,
		},
	}, lampOff)
	return l
}

func TestFire(t *testing.T) {
	t.Run("No matching rule leaves state alone", func(t *testing.T) {
		l := newLamp()
		if l.Fire() {
			t.Errorf("got true wanted false")
		}
		if l.Current() != lampOff {
			t.Errorf("got %s wanted %s", l.Current(), lampOff)
		}
		if len(l.actions) != 0 {
			t.Errorf("got %v wanted no actions", l.actions)
		}
	})

	t.Run("Matching rule runs action then moves", func(t *testing.T) {
		l := newLamp()
		l.switched = true
		if !l.Fire() {
			t.Errorf("got false wanted true")
		}
		if l.Current() != lampOn {
			t.Errorf("got %s wanted %s", l.Current(), lampOn)
		}
		if len(l.actions) != 1 || l.actions[0] != "on" {
			t.Errorf("got %v wanted [on]", l.actions)
		}
	})

	t.Run("Only the first true rule fires", func(t *testing.T) {
		l := newLamp()
		l.switched = true
		l.broken = true
		l.Fire()
		if l.Current() != lampOff {
			t.Errorf("got %s wanted %s", l.Current(), lampOff)
		}
		if len(l.actions) != 1 || l.actions[0] != "broken" {
			t.Errorf("got %v wanted [broken]", l.actions)
		}
	})

	t.Run("One step per call", func(t *testing.T) {
		l := newLamp()
		l.switched = true
		l.Fire()
		l.switched = false
		l.Fire()
		if l.Current() != lampOff {
			t.Errorf("got %s wanted %s", l.Current(), lampOff)
		}
	})
}

func TestObserver(t *testing.T) {
	l := newLamp()
	var seen []string
	l.SetObserver(func(machine string, from, to State, desc string) {
		seen = append(seen, machine+":"+string(from)+"->"+string(to)+":"+desc)
	})
	l.switched = true
	l.Fire()
	l.Fire()

	want := "lamp:off->on:switch on"
	if len(seen) != 1 || seen[0] != want {
		t.Errorf("got %v wanted [%s]", seen, want)
	}

	var m Machine = l
	if m.Name() != "lamp" {
		t.Errorf("got %s wanted lamp", m.Name())
	}
}
