package gui

import (
	"fmt"

	"github.com/lixenwraith/mdstatus/engine/fsm"
)

// States of the status display
// ShowStatus is the resting state; all others except Init are pass-through
const (
	StateInit fsm.StateID = fsm.StateLast + iota
	StateShowStatus
	StateRequestingStatus
	StateRequestingStatusDone
	StateRequestingDataToSave
	StateDataSaved
	StateInserting
	StateInserted
	StateSelectingNext
	StateSelectingPrevious
)

// External stimuli accepted while showing status
const (
	InsertBegin fsm.Stimulus = fsm.StimulusLast + iota
	InsertDone
	RotateForward
	RotateBackward
	StatusRequested
	StatusDone
	SaveRequested
	SaveDone
)

var stateNames = map[fsm.StateID]string{
	fsm.StateNone:             "None",
	StateInit:                 "Init",
	StateShowStatus:           "ShowStatus",
	StateRequestingStatus:     "RequestingStatus",
	StateRequestingStatusDone: "RequestingStatusDone",
	StateRequestingDataToSave: "RequestingDataToSave",
	StateDataSaved:            "DataSaved",
	StateInserting:            "Inserting",
	StateInserted:             "Inserted",
	StateSelectingNext:        "SelectingNext",
	StateSelectingPrevious:    "SelectingPrevious",
}

var stimulusNames = map[fsm.Stimulus]string{
	fsm.StimulusNone: "None",
	fsm.StimulusAuto: "Auto",
	InsertBegin:      "InsertBegin",
	InsertDone:       "InsertDone",
	RotateForward:    "RotateForward",
	RotateBackward:   "RotateBackward",
	StatusRequested:  "StatusRequested",
	StatusDone:       "StatusDone",
	SaveRequested:    "SaveRequested",
	SaveDone:         "SaveDone",
}

// StateName implements fsm.Namer
func (definition) StateName(s fsm.StateID) string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StimulusName implements fsm.Namer
func (definition) StimulusName(s fsm.Stimulus) string {
	if n, ok := stimulusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Stimulus(%d)", int(s))
}

// StimulusByName resolves an external stimulus name, as used in config key bindings
// The reserved stimuli are not resolvable
func StimulusByName(name string) (fsm.Stimulus, bool) {
	for s, n := range stimulusNames {
		if n == name && s >= fsm.StimulusLast {
			return s, true
		}
	}
	return fsm.StimulusNone, false
}

// ExternalStimuli lists the stimuli accepted from outside, in declaration order
func ExternalStimuli() []fsm.Stimulus {
	return []fsm.Stimulus{
		InsertBegin, InsertDone,
		RotateForward, RotateBackward,
		StatusRequested, StatusDone,
		SaveRequested, SaveDone,
	}
}
