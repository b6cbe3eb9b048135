// Package gui implements the status display state machine on top of engine/fsm
package gui

import (
	"log/slog"

	"github.com/lixenwraith/mdstatus/engine/fsm"
	"github.com/lixenwraith/mdstatus/microdrive"
)

// Renderer receives the status every time the display returns to ShowStatus
// The call is one-way; nothing flows back into the machine
type Renderer interface {
	DrawStatus(Status)
}

// NopRenderer discards every status
type NopRenderer struct{}

func (NopRenderer) DrawStatus(Status) {}

// Context is the per-machine state threaded through the entry functions
type Context struct {
	Live     microdrive.Source
	Renderer Renderer
	Status   Status
}

// Machine is the status display FSM
// Dispatch must be called from one goroutine only; see event.Pump
type Machine struct {
	fsm *fsm.Machine[*Context]
	ctx *Context
	log *slog.Logger
}

// Option configures a Machine
type Option func(*Machine)

// WithLogger sets the logger used for step tracing; the default is slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

// WithObserver registers a step observer before the machine boots, so it also sees Init
func WithObserver(fn func(fsm.Step)) Option {
	return func(m *Machine) { m.fsm.OnTransition(fn) }
}

// New builds the machine, boots it and draws the first status
// live must outlive the machine
func New(live microdrive.Source, r Renderer, opts ...Option) (*Machine, error) {
	fm, err := fsm.NewMachine[*Context](definition{})
	if err != nil {
		return nil, err
	}
	if r == nil {
		r = NopRenderer{}
	}

	m := &Machine{
		fsm: fm,
		ctx: &Context{Live: live, Renderer: r},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	fm.OnTransition(func(s fsm.Step) {
		m.log.Debug("gui step",
			"from", fm.StateName(s.From),
			"stimulus", fm.StimulusName(s.Stimulus),
			"to", fm.StateName(s.To))
	})

	fm.Init(m.ctx)
	return m, nil
}

// Dispatch feeds an external stimulus; unsupported stimuli are ignored and return false
func (m *Machine) Dispatch(s fsm.Stimulus) bool {
	handled := m.fsm.Dispatch(s)
	if !handled {
		m.log.Debug("gui stimulus ignored",
			"state", m.fsm.StateName(m.fsm.Current()),
			"stimulus", m.fsm.StimulusName(s))
	}
	return handled
}

// State returns the current state
func (m *Machine) State() fsm.StateID {
	return m.fsm.Current()
}

// Status returns a copy of the current projection
func (m *Machine) Status() Status {
	return m.ctx.Status
}

// Steps returns the number of transitions taken since boot
func (m *Machine) Steps() uint64 {
	return m.fsm.Steps()
}

// StateName formats a state of this machine
func StateName(s fsm.StateID) string {
	return definition{}.StateName(s)
}

// StimulusName formats a stimulus of this machine
func StimulusName(s fsm.Stimulus) string {
	return definition{}.StimulusName(s)
}

// === Entry functions ===

func enterInit(c *Context) fsm.Stimulus {
	c.Status.Selected = 0
	c.Status.SavingDrive = microdrive.SavingNone
	return fsm.StimulusAuto
}

// enterShowStatus is the only place the projection is rebuilt from live data
// Live data is read without coordinating with the writer beyond per-read locking;
// a stale frame is corrected on the next refresh
func enterShowStatus(c *Context) fsm.Stimulus {
	c.Status = Project(c.Status, c.Live)
	c.Renderer.DrawStatus(c.Status)
	return fsm.StimulusNone
}

// Insert states only exist so ShowStatus re-reads the live data the emulation core just changed
func enterInserting(c *Context) fsm.Stimulus {
	return fsm.StimulusAuto
}

func enterInserted(c *Context) fsm.Stimulus {
	return fsm.StimulusAuto
}

// Selection changes alone; details follow on the next ShowStatus
func enterSelectingNext(c *Context) fsm.Stimulus {
	c.Status.Selected = nextDrive(c.Status.Selected)
	return fsm.StimulusAuto
}

func enterSelectingPrevious(c *Context) fsm.Stimulus {
	c.Status.Selected = previousDrive(c.Status.Selected)
	return fsm.StimulusAuto
}

func enterRequestingStatus(c *Context) fsm.Stimulus {
	c.Status.RequestingStatus = true
	return fsm.StimulusAuto
}

func enterRequestingStatusDone(c *Context) fsm.Stimulus {
	c.Status.RequestingStatus = false
	return fsm.StimulusAuto
}

func enterRequestingDataToSave(c *Context) fsm.Stimulus {
	c.Status.SavingDrive = c.Live.SavingTo()
	return fsm.StimulusAuto
}

// enterDataSaved expects the emulation core to have reset the saving index to SavingNone already
func enterDataSaved(c *Context) fsm.Stimulus {
	c.Status.SavingDrive = c.Live.SavingTo()
	return fsm.StimulusAuto
}
