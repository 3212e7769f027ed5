/*
 * fsm.go
 *
 * Generic guard/action transition table dispatcher shared by every
 * machine in the jukebox.
 */
package fsm

// State is one value of the small closed enumeration each machine defines.
type State string

// Transition is a single rule in a transition table. Rules are evaluated in
// table order and only the first rule whose origin matches the current state
// and whose Criteria returns true fires.
type Transition[T any] struct {
	Description string
	From        State
	Criteria    func(owner T) bool
	To          State
	Action      func(owner T)
}

// Observer is called after every fired transition.
type Observer func(machine string, from, to State, description string)

// Machine is what the poll loop and the device assembly see of a concrete
// state machine.
type Machine interface {
	Fire() bool
	Current() State
	Name() string
}

type FSM[T any] struct {
	name     string
	owner    T
	table    []Transition[T]
	current  State
	observer Observer
}

// Init binds the transition table and the owner handed to guards and actions,
// and sets the initial state.
func (f *FSM[T]) Init(name string, owner T, table []Transition[T], initial State) {
	f.name = name
	f.owner = owner
	f.table = table
	f.current = initial
}

// Fire advances the machine at most one step. It returns true if a rule fired.
func (f *FSM[T]) Fire() bool {
	for i := range f.table {
		t := &f.table[i]
		if t.From != f.current {
			continue
		}
		if t.Criteria != nil && !t.Criteria(f.owner) {
			continue
		}
		from := f.current
		if t.Action != nil {
			t.Action(f.owner)
		}
		f.current = t.To
		if f.observer != nil {
			f.observer(f.name, from, t.To, t.Description)
		}
		return true
	}
	return false
}

func (f *FSM[T]) Current() State {
	return f.current
}

func (f *FSM[T]) Name() string {
	return f.name
}

func (f *FSM[T]) SetObserver(o Observer) {
	f.observer = o
}
