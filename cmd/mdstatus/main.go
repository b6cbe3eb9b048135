package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/mdstatus/audio"
	"github.com/lixenwraith/mdstatus/config"
	"github.com/lixenwraith/mdstatus/engine/fsm"
	"github.com/lixenwraith/mdstatus/event"
	"github.com/lixenwraith/mdstatus/gui"
	"github.com/lixenwraith/mdstatus/microdrive"
	"github.com/lixenwraith/mdstatus/render"
)

const ejectKey = 'e'

var (
	configFlag = flag.String("config", "", "Path to TOML config file")
	debugFlag  = flag.Bool("debug", false, "Write debug log to the log directory")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			crash("MDSTATUS", r)
		}
	}()

	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *debugFlag {
		cfg.Log.Debug = true
	}

	if logFile := setupLogging(cfg.Log); logFile != nil {
		defer logFile.Close()
	}

	if err := run(cfg); err != nil {
		slog.Error("exit", "err", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	keys, err := cfg.KeyMap()
	if err != nil {
		return err
	}
	if s, clash := keys[ejectKey]; clash {
		return fmt.Errorf("%w: %q is the eject key, cannot bind %s", config.ErrBadKey, ejectKey, gui.StimulusName(s))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.Clear()
	drawText(screen, 1, render.Height+2, helpLine(keys), tcell.StyleDefault.Dim(true))

	live := microdrive.NewLiveData()
	seedDrives(live, cfg.Drives)

	p := &panel{StatusScreen: render.NewStatusScreen(screen, 1, 1)}

	opts := []gui.Option{gui.WithLogger(slog.Default())}
	if cfg.Audio.Enabled {
		fb := audio.NewFeedback(cfg.Audio.Volume)
		if err := fb.Initialize(); err != nil {
			slog.Warn("audio unavailable, continuing without sound", "err", err)
		} else {
			defer fb.Cleanup()
			opts = append(opts, gui.WithObserver(fb.Observe))
		}
	}

	m, err := gui.New(live, p, opts...)
	if err != nil {
		return fmt.Errorf("failed to build status display: %w", err)
	}

	queue := event.NewQueue(gui.StatusRequested)
	pump := event.NewPump(queue, m, slog.Default())
	b := newBay(live, queue, &p.selected)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	// The status fetch blocks the pump like the core's status exchange; polls arriving meanwhile collapse
	response := time.Duration(cfg.Status.ResponseMs) * time.Millisecond
	pump.Reply(gui.StatusRequested, gui.StatusDone, func() { time.Sleep(response) })

	g.Go(guarded("PUMP", screen.Fini, crash, func() error { return pump.Run(gctx) }))

	if cfg.Status.PollMs > 0 {
		poller := &event.StatusPoller{
			Queue:     queue,
			Interval:  time.Duration(cfg.Status.PollMs) * time.Millisecond,
			Requested: gui.StatusRequested,
		}
		g.Go(func() error { return poller.Run(gctx) })
	}

	// PollEvent blocks; an interrupt event wakes it on shutdown
	g.Go(func() error {
		<-gctx.Done()
		screen.PostEvent(tcell.NewEventInterrupt(nil))
		return nil
	})

	g.Go(guarded("INPUT", screen.Fini, crash, func() error { return inputLoop(gctx, screen, keys, b) }))

	err = g.Wait()
	slog.Info("status display stopped", "state", gui.StateName(m.State()), "steps", m.Steps(),
		"handled", pump.Handled(), "ignored", pump.Ignored(), "collapsed", queue.Dropped())
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

var errQuit = errors.New("quit")

// inputLoop maps keys to stimuli until Esc, Ctrl-C or shutdown
// Returning errQuit cancels the group
func inputLoop(ctx context.Context, screen tcell.Screen, keys map[rune]fsm.Stimulus, b *bay) error {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return errQuit
			}
			if ev.Key() != tcell.KeyRune {
				continue
			}
			if ev.Rune() == ejectKey {
				b.eject()
				continue
			}
			if s, ok := keys[ev.Rune()]; ok {
				b.handle(s)
			}
		}
	}
}
