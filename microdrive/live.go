// Package microdrive holds the live per-drive cartridge data shared between
// the emulation core (writer) and the status display (reader)
package microdrive

import (
	"fmt"
	"sync"
)

const (
	// NumDrives is the number of Microdrives on one Interface 1 chain
	NumDrives = 8

	// Sector layout: header + record header + data + checksum
	HeadLen  = 15
	DataLen  = 512
	BlockLen = HeadLen + HeadLen + DataLen + 1 // 543

	// BlockMax is the largest cartridge, in blocks
	BlockMax = 254

	// CartridgeLen is the byte size of a full-length cartridge image
	CartridgeLen = BlockMax * BlockLen

	// SavingNone marks that no drive is being saved to storage
	SavingNone = -1
)

// Status describes what a drive currently holds
type Status uint8

const (
	NoCartridge Status = iota
	Inserting
	Inserted
)

func (s Status) String() string {
	switch s {
	case NoCartridge:
		return "NoCartridge"
	case Inserting:
		return "Inserting"
	case Inserted:
		return "Inserted"
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

// Drive is a value copy of one drive's live record
// Filename, DataLength and WriteProtected are meaningful only when Status is Inserted
type Drive struct {
	Status         Status
	Filename       string
	DataLength     uint32
	WriteProtected bool
}

// Blocks returns the number of whole blocks in the cartridge image
// A trailing partial block is not counted
func (d Drive) Blocks() int {
	return int(d.DataLength / BlockLen)
}

// Source is the read-only view the display consumes
type Source interface {
	Drive(index int) Drive
	SavingTo() int
}

// LiveData is the shared structure mutated by the emulation core
// Thread-Safety: all methods are safe for concurrent use
// Each read observes one consistent drive record; reads of different drives
// may interleave with writes, which the display tolerates
type LiveData struct {
	mu       sync.RWMutex
	drives   [NumDrives]Drive
	savingTo int
}

// NewLiveData creates live data with every drive empty and no save in progress
func NewLiveData() *LiveData {
	return &LiveData{savingTo: SavingNone}
}

func checkIndex(index int) {
	if index < 0 || index >= NumDrives {
		panic(fmt.Sprintf("microdrive: drive index %d out of range [0,%d)", index, NumDrives))
	}
}

// Drive returns a copy of the drive record
func (l *LiveData) Drive(index int) Drive {
	checkIndex(index)
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.drives[index]
}

// SavingTo returns the index of the drive being saved, or SavingNone
func (l *LiveData) SavingTo() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.savingTo
}

// BeginInsert marks a drive as receiving a cartridge image
// Previous details are kept until Insert replaces them
func (l *LiveData) BeginInsert(index int) {
	checkIndex(index)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.drives[index].Status = Inserting
}

// Insert completes an insertion
func (l *LiveData) Insert(index int, filename string, dataLength uint32, writeProtected bool) {
	checkIndex(index)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.drives[index] = Drive{
		Status:         Inserted,
		Filename:       filename,
		DataLength:     dataLength,
		WriteProtected: writeProtected,
	}
}

// Eject empties a drive
func (l *LiveData) Eject(index int) {
	checkIndex(index)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.drives[index] = Drive{}
}

// SetSaving records which drive is being saved; SavingNone clears it
func (l *LiveData) SetSaving(index int) {
	if index != SavingNone {
		checkIndex(index)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.savingTo = index
}
