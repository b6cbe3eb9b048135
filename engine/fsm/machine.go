package fsm

import (
	"fmt"
	"strings"
)

// Machine is the generic table-driven Finite State Machine runtime
// T is the context type passed to entry functions (e.g., *gui.Context)
//
// Thread-Safety: none. Exactly one goroutine may drive a Machine;
// concurrent Dispatch calls corrupt the current state
type Machine[T any] struct {
	// Table Data (Immutable after NewMachine)
	initial     StateID
	transitions []Transition
	entries     map[StateID]EntryFunc[T]
	names       Namer

	// Runtime State
	current StateID
	ctx     T
	steps   uint64

	observers []func(Step)
}

// OnTransition registers an observer called after each step, in registration order
// Observers run inside Dispatch and must not call Dispatch
func (m *Machine[T]) OnTransition(fn func(Step)) {
	m.observers = append(m.observers, fn)
}

// Init stores the context, enters the initial state and runs its entry function
// Any stimulus the initial entry re-injects is followed like a normal Dispatch
func (m *Machine[T]) Init(ctx T) {
	m.ctx = ctx
	m.current = m.initial
	m.steps = 0

	entry := m.entry(m.initial)
	m.notify(Step{From: StateNone, Stimulus: StimulusAuto, To: m.initial})
	m.run(entry(m.ctx))
}

// Dispatch feeds a stimulus into the machine
// Returns false, with no effect, if (current, stimulus) is not in the table
// On a match the state is updated before the entry function runs, and any
// re-injected stimulus is processed iteratively before Dispatch returns
func (m *Machine[T]) Dispatch(s Stimulus) bool {
	if s == StimulusNone {
		return false
	}
	if _, ok := m.lookup(m.current, s); !ok {
		return false
	}
	m.run(s)
	return true
}

// run is the trampoline: follow stimuli until an entry returns StimulusNone or a lookup misses
func (m *Machine[T]) run(s Stimulus) {
	var chain []Step

	for s != StimulusNone {
		target, ok := m.lookup(m.current, s)
		if !ok {
			return
		}

		step := Step{From: m.current, Stimulus: s, To: target}
		chain = append(chain, step)
		if len(chain) > MaxChain {
			panic(fmt.Sprintf("FSM: dispatch chain exceeded %d steps: %s", MaxChain, m.formatChain(chain)))
		}

		entry := m.entry(target)
		m.current = target
		m.steps++
		m.notify(step)

		s = entry(m.ctx)
	}
}

// lookup is a linear scan; first match is authoritative
func (m *Machine[T]) lookup(state StateID, s Stimulus) (StateID, bool) {
	for _, t := range m.transitions {
		if t.State == state && t.Stimulus == s {
			return t.Target, true
		}
	}
	return StateNone, false
}

func (m *Machine[T]) entry(state StateID) EntryFunc[T] {
	fn, ok := m.entries[state]
	if !ok || fn == nil {
		panic(fmt.Sprintf("FSM: no entry function bound to state %s", m.names.StateName(state)))
	}
	return fn
}

func (m *Machine[T]) notify(step Step) {
	for _, fn := range m.observers {
		fn(step)
	}
}

func (m *Machine[T]) formatChain(chain []Step) string {
	var b strings.Builder
	b.WriteString(m.names.StateName(chain[0].From))
	for _, st := range chain {
		b.WriteString(" -")
		b.WriteString(m.names.StimulusName(st.Stimulus))
		b.WriteString("-> ")
		b.WriteString(m.names.StateName(st.To))
	}
	return b.String()
}

// Current returns the current state
func (m *Machine[T]) Current() StateID {
	return m.current
}

// Context returns the context supplied to Init
func (m *Machine[T]) Context() T {
	return m.ctx
}

// Steps returns the number of transitions taken since Init, excluding entering the initial state
func (m *Machine[T]) Steps() uint64 {
	return m.steps
}

// StateName formats a state with the definition's names
func (m *Machine[T]) StateName(s StateID) string {
	return m.names.StateName(s)
}

// StimulusName formats a stimulus with the definition's names
func (m *Machine[T]) StimulusName(s Stimulus) string {
	return m.names.StimulusName(s)
}
