package main

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/mdstatus/engine/fsm"
	"github.com/lixenwraith/mdstatus/gui"
	"github.com/lixenwraith/mdstatus/render"
)

// panel draws the status and remembers the selected drive for the input goroutine
type panel struct {
	*render.StatusScreen
	selected atomic.Int32
}

func (p *panel) DrawStatus(st gui.Status) {
	p.selected.Store(int32(st.Selected))
	p.StatusScreen.DrawStatus(st)
}

// helpLine lists the key bindings, sorted by key
func helpLine(keys map[rune]fsm.Stimulus) string {
	runes := make([]rune, 0, len(keys))
	for r := range keys {
		runes = append(runes, r)
	}
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })

	parts := make([]string, 0, len(runes)+2)
	for _, r := range runes {
		parts = append(parts, fmt.Sprintf("%c:%s", r, gui.StimulusName(keys[r])))
	}
	parts = append(parts, fmt.Sprintf("%c:Eject", ejectKey), "Esc:Quit")
	return strings.Join(parts, "  ")
}

func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// emergencyReset restores a sane terminal after a crash without going through tcell
func emergencyReset(w io.Writer) {
	// cursor on, main screen, SGR reset, auto wrap on
	io.WriteString(w, "\x1b[?25h")
	io.WriteString(w, "\x1b[?1049l")
	io.WriteString(w, "\x1b[0m")
	io.WriteString(w, "\x1b[?7h")
	if f, ok := w.(*os.File); ok {
		f.Sync()
	}
}

// guarded wraps a goroutine body so a panic first releases the screen with fini,
// then goes to onPanic instead of leaving the terminal raw
func guarded(where string, fini func(), onPanic func(string, any), fn func() error) func() error {
	return func() error {
		defer func() {
			if r := recover(); r != nil {
				fini()
				onPanic(where, r)
			}
		}()
		return fn()
	}
}

// crash resets the terminal, prints the panic and exits
// \r\n keeps the trace readable if the tty is still raw
func crash(where string, r any) {
	emergencyReset(os.Stdout)
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31m%s CRASHED: %v\x1b[0m\r\n", where, r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Exit(1)
}
