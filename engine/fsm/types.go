package fsm

import "strconv"

// StateID is a unique identifier for a state
type StateID int

// Stimulus is a discrete event identifier fed into the machine
type Stimulus int

const (
	StateNone StateID = 0

	// StateLast is the first value free for concrete machines
	StateLast StateID = 1
)

const (
	StimulusNone Stimulus = 0

	// StimulusAuto is the reserved auto-advance stimulus used for internal chaining
	StimulusAuto Stimulus = 1

	// StimulusLast is the first value free for concrete machines
	StimulusLast Stimulus = 2
)

// MaxChain bounds the number of steps a single Dispatch may take
// A chain longer than this is a table bug (entry functions re-injecting in a cycle)
const MaxChain = 32

// Transition maps (State, Stimulus) to Target
// Tables are ordered; first match wins
type Transition struct {
	State    StateID
	Stimulus Stimulus
	Target   StateID
}

// EntryFunc runs on entering a state
// The returned stimulus is dispatched next; StimulusNone ends the chain
type EntryFunc[T any] func(ctx T) Stimulus

// Binding attaches an entry function to a state
type Binding[T any] struct {
	State StateID
	Entry EntryFunc[T]
}

// Definition supplies the static tables to a generic machine
type Definition[T any] interface {
	InitialState() StateID
	Transitions() []Transition
	Bindings() []Binding[T]
}

// Namer is optionally implemented by a Definition to name states and stimuli in logs and panics
type Namer interface {
	StateName(StateID) string
	StimulusName(Stimulus) string
}

// Step describes one transition taken by the machine
type Step struct {
	From     StateID
	Stimulus Stimulus
	To       StateID
}

// defaultNamer prints raw numbers, plus the reserved values
type defaultNamer struct{}

func (defaultNamer) StateName(s StateID) string {
	if s == StateNone {
		return "None"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

func (defaultNamer) StimulusName(s Stimulus) string {
	switch s {
	case StimulusNone:
		return "None"
	case StimulusAuto:
		return "Auto"
	}
	return "Stimulus(" + strconv.Itoa(int(s)) + ")"
}
