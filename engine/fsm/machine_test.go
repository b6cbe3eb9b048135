package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stIdle StateID = StateLast + iota
	stBoot
	stBusy
	stLoopA
	stLoopB
)

const (
	stimGo Stimulus = StimulusLast + iota
	stimLoop
	stimUnused
)

// recorder is the test context; entries append the state they observed
type recorder struct {
	seen []StateID
	m    *Machine[*recorder]
}

type testDef struct {
	initial     StateID
	transitions []Transition
	bindings    []Binding[*recorder]
}

func (d testDef) InitialState() StateID          { return d.initial }
func (d testDef) Transitions() []Transition      { return d.transitions }
func (d testDef) Bindings() []Binding[*recorder] { return d.bindings }

func record(next Stimulus) EntryFunc[*recorder] {
	return func(r *recorder) Stimulus {
		r.seen = append(r.seen, r.m.Current())
		return next
	}
}

func passThroughDef() testDef {
	return testDef{
		initial: stBoot,
		transitions: []Transition{
			{stBoot, StimulusAuto, stIdle},
			{stIdle, stimGo, stBusy},
			{stBusy, StimulusAuto, stIdle},
		},
		bindings: []Binding[*recorder]{
			{stBoot, record(StimulusAuto)},
			{stIdle, record(StimulusNone)},
			{stBusy, record(StimulusAuto)},
		},
	}
}

func newTestMachine(t *testing.T, def testDef) (*Machine[*recorder], *recorder) {
	t.Helper()
	m, err := NewMachine[*recorder](def)
	require.NoError(t, err)
	r := &recorder{m: m}
	m.Init(r)
	return m, r
}

func TestInit_RunsInitialEntryAndAutoAdvances(t *testing.T) {
	m, r := newTestMachine(t, passThroughDef())

	assert.Equal(t, stIdle, m.Current())
	assert.Equal(t, []StateID{stBoot, stIdle}, r.seen)
	assert.Equal(t, uint64(1), m.Steps())
	assert.Same(t, r, m.Context())
}

func TestDispatch_PassThroughReturnsToIdle(t *testing.T) {
	m, r := newTestMachine(t, passThroughDef())
	r.seen = nil

	assert.True(t, m.Dispatch(stimGo))
	assert.Equal(t, stIdle, m.Current())
	// Each entry saw the state it was bound to, i.e. current was updated first
	assert.Equal(t, []StateID{stBusy, stIdle}, r.seen)
}

func TestDispatch_TableMissIsNoOp(t *testing.T) {
	m, r := newTestMachine(t, passThroughDef())
	r.seen = nil
	steps := m.Steps()

	for _, s := range []Stimulus{StimulusNone, StimulusAuto, stimUnused, Stimulus(999)} {
		assert.False(t, m.Dispatch(s), "stimulus %d", s)
		assert.Equal(t, stIdle, m.Current())
	}
	assert.Empty(t, r.seen)
	assert.Equal(t, steps, m.Steps())
}

func TestDispatch_FirstMatchWins(t *testing.T) {
	def := passThroughDef()
	// Duplicate key appended; lookup stops at the first row
	transitions := append([]Transition{}, def.transitions...)
	transitions = append(transitions, Transition{stIdle, stimGo, stBoot})

	m := &Machine[*recorder]{transitions: transitions}
	target, ok := m.lookup(stIdle, stimGo)
	require.True(t, ok)
	assert.Equal(t, stBusy, target)
}

func TestDispatch_ChainCapPanics(t *testing.T) {
	def := testDef{
		initial: stIdle,
		transitions: []Transition{
			{stIdle, stimLoop, stLoopA},
			{stLoopA, StimulusAuto, stLoopB},
			{stLoopB, StimulusAuto, stLoopA},
		},
		bindings: []Binding[*recorder]{
			{stIdle, record(StimulusNone)},
			{stLoopA, record(StimulusAuto)},
			{stLoopB, record(StimulusAuto)},
		},
	}
	m, r := newTestMachine(t, def)

	assert.Panics(t, func() { m.Dispatch(stimLoop) })
	assert.Len(t, r.seen, 1+MaxChain)
}

func TestOnTransition_SeesEveryStep(t *testing.T) {
	m, err := NewMachine[*recorder](passThroughDef())
	require.NoError(t, err)

	var steps []Step
	m.OnTransition(func(s Step) { steps = append(steps, s) })
	m.Init(&recorder{m: m})

	require.True(t, m.Dispatch(stimGo))

	assert.Equal(t, []Step{
		{StateNone, StimulusAuto, stBoot},
		{stBoot, StimulusAuto, stIdle},
		{stIdle, stimGo, stBusy},
		{stBusy, StimulusAuto, stIdle},
	}, steps)
}

func TestInit_ResetsMachine(t *testing.T) {
	m, _ := newTestMachine(t, passThroughDef())
	m.Dispatch(stimGo)

	r := &recorder{m: m}
	m.Init(r)
	assert.Equal(t, stIdle, m.Current())
	assert.Equal(t, uint64(1), m.Steps())
	assert.Same(t, r, m.Context())
}

func TestDefaultNamer(t *testing.T) {
	n := defaultNamer{}
	assert.Equal(t, "None", n.StateName(StateNone))
	assert.Equal(t, "State(7)", n.StateName(7))
	assert.Equal(t, "Auto", n.StimulusName(StimulusAuto))
	assert.Equal(t, "Stimulus(9)", n.StimulusName(9))
}
