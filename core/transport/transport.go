// Package transport runs a pattern scheduler on its own goroutine against
// an engine clock.
package transport

import (
	"context"
	"sync"
	"time"

	"github.com/SamSeenX/BeatR/core/beat"
	"github.com/SamSeenX/BeatR/core/model"
	"github.com/SamSeenX/BeatR/internal/audio"
	beatr_log "github.com/SamSeenX/BeatR/internal/log"
)

// Event reports a scheduled step.
type Event struct {
	Step int
	At   float64
}

const tickInterval = 25 * time.Millisecond

// startDelay leaves the engine a moment to adopt the first hits.
const startDelay = 0.05

// Clock is the audio clock the transport schedules against.
type Clock interface {
	CurrentTime() float64
}

// Player triggers an instrument at a clock time.
type Player interface {
	Play(inst audio.Instrument, at float64)
}

// Transport owns a scheduler and ticks it until closed.
type Transport struct {
	Events chan Event

	mu     sync.Mutex
	sched  *beat.Scheduler
	cancel context.CancelFunc
	done   chan struct{}
}

// New starts the run loop. *audio.Engine is both the clock and the player.
func New(p *model.Pattern, clock Clock, player Player, logger *beatr_log.Logger) *Transport {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Transport{
		Events: make(chan Event, 16),
		sched:  beat.NewScheduler(p, clock.CurrentTime, logger),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	t.sched.StartDelay = startDelay
	t.sched.OnStep = func(step int, at float64) {
		for _, inst := range t.sched.Pattern.Hits(step) {
			player.Play(inst, at)
		}
		select {
		case t.Events <- Event{Step: step, At: at}:
		default:
		}
	}
	go t.run(ctx)
	return t
}

func (t *Transport) run(ctx context.Context) {
	defer close(t.done)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.mu.Lock()
			t.sched.Tick()
			t.mu.Unlock()
		case <-ctx.Done():
			return
		}
	}
}

func (t *Transport) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sched.Start()
}

func (t *Transport) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sched.Stop()
}

func (t *Transport) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sched.Running()
}

func (t *Transport) SetBPM(bpm int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sched.SetBPM(bpm)
}

func (t *Transport) BPM() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sched.BPM
}

// SetPattern swaps the pattern. The step position carries over, wrapped to
// the new length on the next step.
func (t *Transport) SetPattern(p *model.Pattern) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sched.Pattern = p
}

// Close stops the run loop and waits for it to exit.
func (t *Transport) Close() {
	t.cancel()
	<-t.done
}
