package beat

import (
	"github.com/SamSeenX/BeatR/core/model"
	beatr_log "github.com/SamSeenX/BeatR/internal/log"
)

const (
	// StepsPerBeat makes every step a sixteenth note.
	StepsPerBeat = 4

	DefaultBPM       = 120
	DefaultLookahead = 0.1
)

// Scheduler walks a pattern on the audio clock. Each Tick hands every step
// due before now+Lookahead to OnStep with its exact clock time, so steps
// land sample accurately however late the tick runs. It is not safe for
// concurrent use.
type Scheduler struct {
	Pattern   *model.Pattern
	BPM       int
	Lookahead float64
	// StartDelay offsets the first step from the clock time at Start.
	StartDelay float64
	OnStep     func(step int, at float64)

	now     func() float64
	logger  *beatr_log.Logger
	running bool
	step    int
	next    float64
}

// NewScheduler reads time from now, normally the engine's CurrentTime.
func NewScheduler(p *model.Pattern, now func() float64, logger *beatr_log.Logger) *Scheduler {
	return &Scheduler{
		Pattern:   p,
		BPM:       DefaultBPM,
		Lookahead: DefaultLookahead,
		now:       now,
		logger:    beatr_log.OrDiscard(logger),
	}
}

// StepDuration is the length of one step in seconds, or 0 when stopped by
// a non-positive tempo.
func (s *Scheduler) StepDuration() float64 {
	if s.BPM <= 0 {
		return 0
	}
	return 60 / float64(s.BPM) / StepsPerBeat
}

// Start rewinds to step 0 and schedules whatever is already due.
func (s *Scheduler) Start() {
	s.running = true
	s.step = 0
	s.next = s.now() + s.StartDelay
	s.logger.Debugf("[BEAT] start at %.3fs, %d bpm", s.next, s.BPM)
	s.Tick()
}

func (s *Scheduler) Stop() {
	s.running = false
	s.logger.Debugf("[BEAT] stop at step %d", s.step)
}

func (s *Scheduler) Running() bool { return s.running }

// SetBPM changes the tempo from the next unscheduled step on.
func (s *Scheduler) SetBPM(bpm int) { s.BPM = bpm }

// Step is the index of the next step to schedule.
func (s *Scheduler) Step() int { return s.step }

func (s *Scheduler) Tick() {
	if !s.running {
		return
	}
	now := s.now()
	d := s.StepDuration()
	if d > 0 && s.next < now-d {
		// The clock ran ahead of us, for example while suspended: skip the
		// missed steps instead of firing them all at once.
		s.logger.Warnf("[BEAT] behind by %.3fs, resyncing", now-s.next)
		s.next = now
	}
	s.Until(now + s.Lookahead)
}

// Until schedules every step that starts before t. A non-positive tempo
// schedules nothing.
func (s *Scheduler) Until(t float64) {
	d := s.StepDuration()
	if !s.running || d == 0 || s.Pattern == nil {
		return
	}
	for s.next < t {
		if s.OnStep != nil {
			s.OnStep(s.step, s.next)
		}
		s.step = (s.step + 1) % s.Pattern.Steps()
		s.next += d
	}
}
