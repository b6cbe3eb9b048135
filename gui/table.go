package gui

import "github.com/lixenwraith/mdstatus/engine/fsm"

// definition supplies the status display tables to the generic engine
type definition struct{}

var _ fsm.Definition[*Context] = definition{}
var _ fsm.Namer = definition{}

func (definition) InitialState() fsm.StateID {
	return StateInit
}

// Every transient state auto-advances back to ShowStatus
var transitions = []fsm.Transition{
	{State: StateInit, Stimulus: fsm.StimulusAuto, Target: StateShowStatus},

	{State: StateShowStatus, Stimulus: InsertBegin, Target: StateInserting},
	{State: StateShowStatus, Stimulus: InsertDone, Target: StateInserted},
	{State: StateInserting, Stimulus: fsm.StimulusAuto, Target: StateShowStatus},
	{State: StateInserted, Stimulus: fsm.StimulusAuto, Target: StateShowStatus},

	{State: StateShowStatus, Stimulus: RotateForward, Target: StateSelectingNext},
	{State: StateShowStatus, Stimulus: RotateBackward, Target: StateSelectingPrevious},
	{State: StateSelectingNext, Stimulus: fsm.StimulusAuto, Target: StateShowStatus},
	{State: StateSelectingPrevious, Stimulus: fsm.StimulusAuto, Target: StateShowStatus},

	{State: StateShowStatus, Stimulus: StatusRequested, Target: StateRequestingStatus},
	{State: StateShowStatus, Stimulus: StatusDone, Target: StateRequestingStatusDone},
	{State: StateRequestingStatus, Stimulus: fsm.StimulusAuto, Target: StateShowStatus},
	{State: StateRequestingStatusDone, Stimulus: fsm.StimulusAuto, Target: StateShowStatus},

	{State: StateShowStatus, Stimulus: SaveRequested, Target: StateRequestingDataToSave},
	{State: StateShowStatus, Stimulus: SaveDone, Target: StateDataSaved},
	{State: StateRequestingDataToSave, Stimulus: fsm.StimulusAuto, Target: StateShowStatus},
	{State: StateDataSaved, Stimulus: fsm.StimulusAuto, Target: StateShowStatus},
}

var bindings = []fsm.Binding[*Context]{
	{State: StateInit, Entry: enterInit},
	{State: StateShowStatus, Entry: enterShowStatus},
	{State: StateRequestingStatus, Entry: enterRequestingStatus},
	{State: StateRequestingStatusDone, Entry: enterRequestingStatusDone},
	{State: StateRequestingDataToSave, Entry: enterRequestingDataToSave},
	{State: StateDataSaved, Entry: enterDataSaved},
	{State: StateInserting, Entry: enterInserting},
	{State: StateInserted, Entry: enterInserted},
	{State: StateSelectingNext, Entry: enterSelectingNext},
	{State: StateSelectingPrevious, Entry: enterSelectingPrevious},
}

func (definition) Transitions() []fsm.Transition {
	return transitions
}

func (definition) Bindings() []fsm.Binding[*Context] {
	return bindings
}
