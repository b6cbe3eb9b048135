package gui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lixenwraith/mdstatus/microdrive"
)

// fixedSource is a Source with fixed contents
type fixedSource struct {
	drives   [microdrive.NumDrives]microdrive.Drive
	savingTo int
}

func (f *fixedSource) Drive(i int) microdrive.Drive { return f.drives[i] }
func (f *fixedSource) SavingTo() int                { return f.savingTo }

func TestProject_NoCartridgeClearsDetails(t *testing.T) {
	prev := Status{
		Selected:       3,
		Inserting:      true,
		Filename:       "stale.mdr",
		Blocks:         12,
		WriteProtected: true,
	}
	got := Project(prev, &fixedSource{})

	assert.Equal(t, 3, got.Selected)
	assert.Equal(t, "", got.Filename)
	assert.Equal(t, 0, got.Blocks)
	assert.False(t, got.WriteProtected)
	assert.False(t, got.Inserting)
}

func TestProject_InsertedComputesBlocks(t *testing.T) {
	tests := []struct {
		name   string
		length uint32
		blocks int
	}{
		{"exact", microdrive.BlockLen * 180, 180},
		{"truncated partial block", microdrive.BlockLen*180 + microdrive.BlockLen - 1, 180},
		{"less than one block", 100, 0},
		{"full cartridge", microdrive.CartridgeLen, microdrive.BlockMax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fixedSource{}
			src.drives[0] = microdrive.Drive{
				Status:         microdrive.Inserted,
				Filename:       "a.mdr",
				DataLength:     tt.length,
				WriteProtected: true,
			}
			got := Project(Status{Inserting: true}, src)
			assert.Equal(t, tt.blocks, got.Blocks)
			assert.Equal(t, "a.mdr", got.Filename)
			assert.True(t, got.WriteProtected)
			assert.False(t, got.Inserting)
		})
	}
}

func TestProject_InsertingOnlySetsFlag(t *testing.T) {
	src := &fixedSource{}
	src.drives[0].Status = microdrive.Inserting
	prev := Status{Filename: "old.mdr", Blocks: 7}

	got := Project(prev, src)
	assert.True(t, got.Inserting)
	assert.Equal(t, "old.mdr", got.Filename)
	assert.Equal(t, 7, got.Blocks)
	assert.False(t, got.Inserted[0], "inserting is not inserted")
}

func TestProject_KeepsLocalFlags(t *testing.T) {
	src := &fixedSource{savingTo: 6}
	prev := Status{RequestingStatus: true, SavingDrive: 2}

	got := Project(prev, src)
	assert.True(t, got.RequestingStatus)
	assert.Equal(t, 2, got.SavingDrive, "only the save states copy the saving index")
}

func TestProject_InsertedFlagsCoverAllDrives(t *testing.T) {
	src := &fixedSource{}
	src.drives[2].Status = microdrive.Inserted
	src.drives[7].Status = microdrive.Inserted
	src.drives[4].Status = microdrive.Inserting

	got := Project(Status{}, src)
	assert.Equal(t, [microdrive.NumDrives]bool{2: true, 7: true}, got.Inserted)
}

func TestSelectionHelpers(t *testing.T) {
	assert.Equal(t, 1, nextDrive(0))
	assert.Equal(t, 0, nextDrive(microdrive.NumDrives-1))
	assert.Equal(t, microdrive.NumDrives-1, previousDrive(0))
	assert.Equal(t, 2, previousDrive(3))
}
