package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/mdstatus/gui"
	"github.com/lixenwraith/mdstatus/microdrive"
)

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(Width+4, Height+2)
	t.Cleanup(screen.Fini)
	return screen
}

// row returns the panel row as text, trailing blanks trimmed
func row(screen tcell.Screen, originX, originY, y int) string {
	var b strings.Builder
	for x := 0; x < Width; x++ {
		ch, _, _, _ := screen.GetContent(originX+x, originY+y)
		b.WriteRune(ch)
	}
	return strings.TrimRight(b.String(), " ")
}

func emptyStatus() gui.Status {
	return gui.Status{SavingDrive: microdrive.SavingNone}
}

func TestDrawStatus_NoCartridge(t *testing.T) {
	screen := newTestScreen(t)
	r := NewStatusScreen(screen, 0, 0)

	r.DrawStatus(emptyStatus())

	assert.Equal(t, "[8] [7] [6] [5] [4] [3] [2] [1]", row(screen, 0, 0, rowDrives))
	assert.Equal(t, strings.Repeat(" ", DriveColumn(0))+"▔▔▔", row(screen, 0, 0, rowSelector))
	assert.Equal(t, textNoCartridge, row(screen, 0, 0, rowFilename))
	assert.Equal(t, "", row(screen, 0, 0, rowBlocks))
	assert.Equal(t, "", row(screen, 0, 0, rowProtect))
	assert.Equal(t, "", row(screen, 0, 0, rowMessage))
}

func TestDrawStatus_InsertedSelected(t *testing.T) {
	screen := newTestScreen(t)
	r := NewStatusScreen(screen, 0, 0)

	st := emptyStatus()
	st.Selected = 2
	st.Inserted[2] = true
	st.Filename = "games.mdr"
	st.Blocks = 180
	st.WriteProtected = true
	r.DrawStatus(st)

	x := DriveColumn(2)
	ch, _, style, _ := screen.GetContent(x+1, rowDrives)
	assert.Equal(t, '3', ch)
	_, _, attrs := style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrReverse, "inserted drive drawn inverted")

	assert.Equal(t, strings.Repeat(" ", x)+"▔▔▔", row(screen, 0, 0, rowSelector))
	assert.Equal(t, "games.mdr", row(screen, 0, 0, rowFilename))
	assert.Equal(t, "180 blocks", row(screen, 0, 0, rowBlocks))
	assert.Equal(t, "Write protected", row(screen, 0, 0, rowProtect))
}

func TestDrawStatus_NotWriteProtected(t *testing.T) {
	screen := newTestScreen(t)
	r := NewStatusScreen(screen, 0, 0)

	st := emptyStatus()
	st.Inserted[0] = true
	st.Filename = "work.mdr"
	r.DrawStatus(st)

	assert.Equal(t, "Not write protected", row(screen, 0, 0, rowProtect))
	assert.Equal(t, "", row(screen, 0, 0, rowBlocks), "zero blocks not shown")
}

func TestDrawStatus_InsertedWithEmptyName(t *testing.T) {
	screen := newTestScreen(t)
	r := NewStatusScreen(screen, 0, 0)

	st := emptyStatus()
	st.Selected = 1
	st.Inserted[1] = true
	st.Blocks = 3
	r.DrawStatus(st)

	assert.Equal(t, "", row(screen, 0, 0, rowFilename), "unnamed cartridge is not shown as missing")
	assert.Equal(t, "3 blocks", row(screen, 0, 0, rowBlocks))
	assert.Equal(t, "Not write protected", row(screen, 0, 0, rowProtect))
}

func TestDrawStatus_InsertingHidesDetails(t *testing.T) {
	screen := newTestScreen(t)
	r := NewStatusScreen(screen, 0, 0)

	st := emptyStatus()
	st.Inserting = true
	st.Filename = "old.mdr"
	st.Blocks = 5
	r.DrawStatus(st)

	assert.Equal(t, textInserting, row(screen, 0, 0, rowFilename))
	assert.Equal(t, "", row(screen, 0, 0, rowBlocks))
	assert.Equal(t, "", row(screen, 0, 0, rowProtect))
}

func TestDrawStatus_Messages(t *testing.T) {
	screen := newTestScreen(t)
	r := NewStatusScreen(screen, 0, 0)

	st := emptyStatus()
	st.SavingDrive = 3
	st.RequestingStatus = true
	r.DrawStatus(st)

	got := row(screen, 0, 0, rowMessage)
	assert.True(t, strings.HasPrefix(got, "Saving MD4 to SD card"), got)
	assert.True(t, strings.HasSuffix(got, string(busyIndicator)), got)

	// Next frame clears both
	r.DrawStatus(emptyStatus())
	assert.Equal(t, "", row(screen, 0, 0, rowMessage))
}

func TestDrawStatus_Origin(t *testing.T) {
	screen := newTestScreen(t)
	r := NewStatusScreen(screen, 2, 1)

	r.DrawStatus(emptyStatus())
	assert.Equal(t, textNoCartridge, row(screen, 2, 1, rowFilename))

	ch, _, _, _ := screen.GetContent(0, 0)
	assert.Equal(t, ' ', ch, "nothing drawn outside the panel")
}

func TestDrawStatus_ClipsLongFilename(t *testing.T) {
	screen := newTestScreen(t)
	r := NewStatusScreen(screen, 0, 0)

	st := emptyStatus()
	st.Inserted[0] = true
	st.Filename = strings.Repeat("x", Width+10)
	r.DrawStatus(st)

	assert.Equal(t, strings.Repeat("x", Width), row(screen, 0, 0, rowFilename))
	ch, _, _, _ := screen.GetContent(Width, rowFilename)
	assert.Equal(t, ' ', ch)
}

func TestDriveColumn(t *testing.T) {
	assert.Equal(t, Width-4, DriveColumn(0))
	assert.Equal(t, 0, DriveColumn(microdrive.NumDrives-1))
}
