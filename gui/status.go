package gui

import "github.com/lixenwraith/mdstatus/microdrive"

// Status is the display-ready projection of the live data plus local selection state
// Detail fields (Filename, Blocks, WriteProtected, Inserting) describe the selected drive only
type Status struct {
	Selected int
	Inserted [microdrive.NumDrives]bool

	Inserting      bool
	Filename       string
	Blocks         int
	WriteProtected bool

	RequestingStatus bool
	SavingDrive      int // microdrive.SavingNone when idle
}

// HasCartridge reports whether the selected drive holds a completed cartridge
// An inserted cartridge may have an empty name
func (s Status) HasCartridge() bool {
	if s.Selected < 0 || s.Selected >= microdrive.NumDrives {
		return false
	}
	return s.Inserted[s.Selected]
}

// Project rebuilds the status from the live data
// prev supplies the selection, the request flags and, while the selected drive is
// still inserting, its previous detail fields, which stay visible until insertion completes
func Project(prev Status, src microdrive.Source) Status {
	next := prev

	for i := 0; i < microdrive.NumDrives; i++ {
		next.Inserted[i] = src.Drive(i).Status == microdrive.Inserted
	}

	drive := src.Drive(prev.Selected)
	switch drive.Status {
	case microdrive.NoCartridge:
		next.Filename = ""
		next.Blocks = 0
		next.WriteProtected = false
		next.Inserting = false
	case microdrive.Inserting:
		next.Inserting = true
	case microdrive.Inserted:
		next.Filename = drive.Filename
		next.Blocks = drive.Blocks()
		next.WriteProtected = drive.WriteProtected
		next.Inserting = false
	}

	return next
}

// nextDrive advances the selection, wrapping past the last drive to 0
func nextDrive(selected int) int {
	selected++
	if selected >= microdrive.NumDrives {
		selected = 0
	}
	return selected
}

// previousDrive moves the selection back, wrapping below 0 to the last drive
func previousDrive(selected int) int {
	selected--
	if selected < 0 {
		selected = microdrive.NumDrives - 1
	}
	return selected
}
