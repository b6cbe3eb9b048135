package main

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/mdstatus/config"
	"github.com/lixenwraith/mdstatus/engine/fsm"
	"github.com/lixenwraith/mdstatus/event"
	"github.com/lixenwraith/mdstatus/gui"
	"github.com/lixenwraith/mdstatus/microdrive"
)

// bay stands in for the emulation core: it owns the live drive data and
// reports what it did through the queue, the way the core signals the front end
type bay struct {
	live     *microdrive.LiveData
	queue    *event.Queue
	selected *atomic.Int32

	insertDelay time.Duration
	saveDelay   time.Duration
	log         *slog.Logger

	mu      sync.Mutex
	pending [microdrive.NumDrives]*time.Timer // inserts not yet completed
	gen     [microdrive.NumDrives]uint64      // bumped per insert and per cancel
}

func newBay(live *microdrive.LiveData, q *event.Queue, selected *atomic.Int32) *bay {
	return &bay{
		live:        live,
		queue:       q,
		selected:    selected,
		insertDelay: 400 * time.Millisecond,
		saveDelay:   800 * time.Millisecond,
		log:         slog.Default(),
	}
}

// seedDrives inserts the configured cartridges before the display boots
func seedDrives(live *microdrive.LiveData, drives []config.DriveConfig) {
	for _, d := range drives {
		live.Insert(d.Index-1, d.Name, uint32(d.Blocks*microdrive.BlockLen), d.WriteProtected)
	}
}

// handle acts on a key-bound stimulus
// Insert and save run on the live data first and complete after a delay
func (b *bay) handle(s fsm.Stimulus) {
	drive := int(b.selected.Load())

	switch s {
	case gui.InsertBegin:
		if b.live.Drive(drive).Status != microdrive.NoCartridge {
			b.log.Debug("insert refused", "drive", drive+1, "status", b.live.Drive(drive).Status)
			return
		}
		b.live.BeginInsert(drive)
		b.queue.Push(gui.InsertBegin)

		b.mu.Lock()
		b.gen[drive]++
		gen := b.gen[drive]
		b.pending[drive] = time.AfterFunc(b.insertDelay, func() { b.completeInsert(drive, gen) })
		b.mu.Unlock()

	case gui.SaveRequested:
		if b.live.SavingTo() != microdrive.SavingNone {
			return
		}
		if b.live.Drive(drive).Status != microdrive.Inserted {
			b.log.Debug("save refused", "drive", drive+1)
			return
		}
		b.live.SetSaving(drive)
		b.queue.Push(gui.SaveRequested)
		time.AfterFunc(b.saveDelay, func() {
			b.live.SetSaving(microdrive.SavingNone)
			b.queue.Push(gui.SaveDone)
		})

	default:
		b.queue.Push(s)
	}
}

// completeInsert finishes insert generation gen, unless an eject cancelled it
func (b *bay) completeInsert(drive int, gen uint64) {
	b.mu.Lock()
	if b.gen[drive] != gen || b.pending[drive] == nil {
		b.mu.Unlock()
		return
	}
	b.pending[drive] = nil
	name := fmt.Sprintf("cartridge%d.mdr", drive+1)
	b.live.Insert(drive, name, uint32(microdrive.BlockMax*microdrive.BlockLen), false)
	b.mu.Unlock()

	b.queue.Push(gui.InsertDone)
}

// eject removes the cartridge from the selected drive, cancelling an insert in progress
func (b *bay) eject() {
	drive := int(b.selected.Load())

	b.mu.Lock()
	if t := b.pending[drive]; t != nil {
		t.Stop()
		b.pending[drive] = nil
		b.gen[drive]++
	}
	if b.live.Drive(drive).Status == microdrive.NoCartridge {
		b.mu.Unlock()
		return
	}
	b.live.Eject(drive)
	b.mu.Unlock()

	b.queue.Push(gui.InsertDone)
}
