package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/lixenwraith/mdstatus/engine/fsm"
)

// Dispatcher is the single-writer side of a state machine
type Dispatcher interface {
	Dispatch(fsm.Stimulus) bool
}

// DefaultPollInterval bounds the latency of a stimulus whose notify signal was coalesced
const DefaultPollInterval = 50 * time.Millisecond

// Pump drains a Queue into a Dispatcher from one goroutine
// It is the only caller of Dispatch, which makes the FSM single-writer
type Pump struct {
	queue    *Queue
	target   Dispatcher
	interval time.Duration
	log      *slog.Logger

	replies map[fsm.Stimulus]reply

	handled uint64
	ignored uint64
}

// reply is the consumer-side answer to a request stimulus
type reply struct {
	done fsm.Stimulus
	work func()
}

// NewPump creates a pump; a nil logger uses slog.Default()
func NewPump(q *Queue, target Dispatcher, log *slog.Logger) *Pump {
	if log == nil {
		log = slog.Default()
	}
	return &Pump{
		queue:    q,
		target:   target,
		interval: DefaultPollInterval,
		log:      log,
		replies:  make(map[fsm.Stimulus]reply),
	}
}

// Reply makes the pump answer request: after dispatching it, work runs on the pump
// goroutine and done is pushed back onto the queue
// While work runs nothing is consumed, so repeated requests queue up and collapse
// Must be called before Run
func (p *Pump) Reply(request, done fsm.Stimulus, work func()) {
	p.replies[request] = reply{done: done, work: work}
}

// Run dispatches queued stimuli until ctx is cancelled
// Stimuli still queued at cancellation are dispatched before returning
func (p *Pump) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Drain()
			p.log.Debug("pump stopped", "handled", p.handled, "ignored", p.ignored, "collapsed", p.queue.Dropped())
			return nil
		case <-p.queue.Notify():
		case <-ticker.C:
		}
		p.Drain()
	}
}

// Drain dispatches everything currently queued and returns the number handled
// Must only be called from the goroutine that owns the Dispatcher
func (p *Pump) Drain() int {
	n := 0
	for _, s := range p.queue.Consume() {
		if p.target.Dispatch(s) {
			p.handled++
			n++
		} else {
			p.ignored++
		}
		if r, ok := p.replies[s]; ok {
			if r.work != nil {
				r.work()
			}
			p.queue.Push(r.done)
		}
	}
	return n
}

// Handled returns the number of stimuli that caused a transition
// Only valid from the pump goroutine or after Run returns
func (p *Pump) Handled() uint64 {
	return p.handled
}

// Ignored returns the number of stimuli the machine did not accept
func (p *Pump) Ignored() uint64 {
	return p.ignored
}

// StatusPoller periodically asks for drive status, like the timer feeding the emulation core
// It only requests; the matching done comes from the consumer (see Pump.Reply)
type StatusPoller struct {
	Queue     *Queue
	Interval  time.Duration
	Requested fsm.Stimulus
}

// Run polls until ctx is cancelled
func (s *StatusPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Queue.Push(s.Requested)
		}
	}
}
