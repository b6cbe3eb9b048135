package fsm

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownInitial      = errors.New("initial state is not defined")
	ErrDuplicateTransition = errors.New("duplicate transition key")
	ErrDuplicateBinding    = errors.New("duplicate entry binding")
	ErrMissingBinding      = errors.New("reachable state has no entry binding")
	ErrReservedValue       = errors.New("transition uses a reserved value")
)

// NewMachine creates a machine from a definition
// Tables are validated once here; the runtime trusts them afterwards
func NewMachine[T any](def Definition[T]) (*Machine[T], error) {
	m := &Machine[T]{
		initial:     def.InitialState(),
		transitions: def.Transitions(),
		entries:     make(map[StateID]EntryFunc[T]),
		names:       defaultNamer{},
	}
	if n, ok := def.(Namer); ok {
		m.names = n
	}

	bindings := def.Bindings()
	for _, b := range bindings {
		m.entries[b.State] = b.Entry
	}

	if err := Validate(m.initial, m.transitions, bindings, m.names); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks table integrity:
//   - initial state is set
//   - no row keyed on StimulusNone or naming StateNone
//   - no duplicate (state, stimulus) keys
//   - at most one binding per state
//   - every state reachable from initial has exactly one binding
//
// All problems are reported together
func Validate[T any](initial StateID, transitions []Transition, bindings []Binding[T], names Namer) error {
	if names == nil {
		names = defaultNamer{}
	}
	var errs []error

	if initial == StateNone {
		errs = append(errs, ErrUnknownInitial)
	}

	type key struct {
		state    StateID
		stimulus Stimulus
	}
	seen := make(map[key]int, len(transitions))
	for i, t := range transitions {
		// a StimulusNone row would match Dispatch but never be taken by the chain loop
		if t.Stimulus == StimulusNone || t.State == StateNone || t.Target == StateNone {
			errs = append(errs, fmt.Errorf("%w: row %d (%s, %s) -> %s", ErrReservedValue, i,
				names.StateName(t.State), names.StimulusName(t.Stimulus), names.StateName(t.Target)))
			continue
		}
		k := key{t.State, t.Stimulus}
		if first, ok := seen[k]; ok {
			errs = append(errs, fmt.Errorf("%w: (%s, %s) at rows %d and %d",
				ErrDuplicateTransition, names.StateName(t.State), names.StimulusName(t.Stimulus), first, i))
			continue
		}
		seen[k] = i
	}

	bound := make(map[StateID]bool, len(bindings))
	for _, b := range bindings {
		if bound[b.State] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateBinding, names.StateName(b.State)))
		}
		bound[b.State] = b.Entry != nil
	}

	for _, s := range Reachable(initial, transitions) {
		if !bound[s] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingBinding, names.StateName(s)))
		}
	}

	return errors.Join(errs...)
}

// Reachable returns every state reachable from initial, initial first, in discovery order
func Reachable(initial StateID, transitions []Transition) []StateID {
	if initial == StateNone {
		return nil
	}
	visited := map[StateID]bool{initial: true}
	order := []StateID{initial}

	for i := 0; i < len(order); i++ {
		curr := order[i]
		for _, t := range transitions {
			if t.State == curr && !visited[t.Target] {
				visited[t.Target] = true
				order = append(order, t.Target)
			}
		}
	}
	return order
}
