// Package render draws the status display onto a tcell screen
package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/mdstatus/gui"
	"github.com/lixenwraith/mdstatus/microdrive"
)

// Layout, in cells; mirrors the 128x64 panel at 4x8 pixels per cell
const (
	Width  = 32
	Height = 8

	driveCellWidth = 4

	rowDrives   = 0
	rowSelector = 1
	rowFilename = 2
	rowBlocks   = 3
	rowProtect  = 4
	rowMessage  = 7

	busyIndicator = '■'
)

const (
	textNoCartridge = "<No cartridge>"
	textInserting   = "<Inserting...>"
)

// Styles used by the status screen
type Styles struct {
	Normal   tcell.Style
	Inserted tcell.Style
	Selector tcell.Style
	Message  tcell.Style
}

// DefaultStyles renders like the monochrome panel
func DefaultStyles() Styles {
	base := tcell.StyleDefault
	return Styles{
		Normal:   base,
		Inserted: base.Reverse(true),
		Selector: base.Bold(true),
		Message:  base.Foreground(tcell.ColorYellow),
	}
}

// StatusScreen implements gui.Renderer on a tcell screen
// The origin offsets the panel so it can be placed anywhere in the terminal
type StatusScreen struct {
	screen           tcell.Screen
	styles           Styles
	originX, originY int
}

var _ gui.Renderer = (*StatusScreen)(nil)

// NewStatusScreen creates a renderer drawing at (x, y)
func NewStatusScreen(screen tcell.Screen, x, y int) *StatusScreen {
	return &StatusScreen{
		screen:  screen,
		styles:  DefaultStyles(),
		originX: x,
		originY: y,
	}
}

// SetStyles replaces the styles
func (r *StatusScreen) SetStyles(s Styles) {
	r.styles = s
}

// DrawStatus redraws the whole panel and shows it
func (r *StatusScreen) DrawStatus(st gui.Status) {
	r.clear()

	for i := 0; i < microdrive.NumDrives; i++ {
		r.drawDrive(i, st.Inserted[i], i == st.Selected)
	}

	if st.Inserting {
		r.text(0, rowFilename, textInserting, r.styles.Normal)
	} else {
		if st.HasCartridge() {
			r.text(0, rowFilename, st.Filename, r.styles.Normal)
		} else {
			r.text(0, rowFilename, textNoCartridge, r.styles.Normal)
		}
		if st.Blocks != 0 {
			r.text(0, rowBlocks, fmt.Sprintf("%d blocks", st.Blocks), r.styles.Normal)
		}
		if st.HasCartridge() {
			if st.WriteProtected {
				r.text(0, rowProtect, "Write protected", r.styles.Normal)
			} else {
				r.text(0, rowProtect, "Not write protected", r.styles.Normal)
			}
		}
	}

	if st.SavingDrive != microdrive.SavingNone {
		r.text(0, rowMessage, fmt.Sprintf("Saving MD%d to SD card", st.SavingDrive+1), r.styles.Message)
	}
	if st.RequestingStatus {
		r.set(Width-1, rowMessage, busyIndicator, r.styles.Message)
	}

	r.screen.Show()
}

// DriveColumn returns the left column of a drive's box
// Drive 1 is rightmost, as on the hardware panel
func DriveColumn(index int) int {
	return Width - (index+1)*driveCellWidth
}

func (r *StatusScreen) drawDrive(index int, inserted, selected bool) {
	x := DriveColumn(index)
	label := rune('1' + index)

	if inserted {
		r.set(x, rowDrives, ' ', r.styles.Inserted)
		r.set(x+1, rowDrives, label, r.styles.Inserted)
		r.set(x+2, rowDrives, ' ', r.styles.Inserted)
	} else {
		r.set(x, rowDrives, '[', r.styles.Normal)
		r.set(x+1, rowDrives, label, r.styles.Normal)
		r.set(x+2, rowDrives, ']', r.styles.Normal)
	}

	if selected {
		for dx := 0; dx < 3; dx++ {
			r.set(x+dx, rowSelector, '▔', r.styles.Selector)
		}
	}
}

func (r *StatusScreen) clear() {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			r.set(x, y, ' ', r.styles.Normal)
		}
	}
}

// text draws s clipped to the panel width
func (r *StatusScreen) text(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		if x >= Width {
			return
		}
		r.set(x, y, ch, style)
		x++
	}
}

func (r *StatusScreen) set(x, y int, ch rune, style tcell.Style) {
	r.screen.SetContent(r.originX+x, r.originY+y, ch, nil, style)
}
