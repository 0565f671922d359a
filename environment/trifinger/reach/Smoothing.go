package reach

import (
	"fmt"
	"math"
)

// Smoothing configures the schedule of the action smoothing coefficient.
// The coefficient starts at 0 and grows linearly to FinalAlpha between
// episode NumEpisodes*StartAfter and episode NumEpisodes*StopAfter, after
// which it stays at FinalAlpha. If IsTest is set, FinalAlpha is used from
// the first episode.
type Smoothing struct {
	NumEpisodes int
	StartAfter  float64
	StopAfter   float64
	FinalAlpha  float64
	IsTest      bool
}

// schedule computes the smoothing coefficient of each episode
type schedule struct {
	start int
	stop  int
	final float64
	test  bool
}

func newSchedule(s Smoothing) (*schedule, error) {
	if s.FinalAlpha < 0 || s.FinalAlpha > 1 {
		return nil, fmt.Errorf("newSchedule: final alpha must be in [0, 1], "+
			"got %v", s.FinalAlpha)
	}
	if s.IsTest {
		return &schedule{final: s.FinalAlpha, test: true}, nil
	}
	if s.NumEpisodes < 0 {
		return nil, fmt.Errorf("newSchedule: number of episodes must be "+
			"non-negative, got %v", s.NumEpisodes)
	}
	if s.StartAfter < 0 || s.StopAfter < 0 {
		return nil, fmt.Errorf("newSchedule: start and stop fractions must "+
			"be non-negative, got %v and %v", s.StartAfter, s.StopAfter)
	}

	return &schedule{
		start: int(math.Floor(float64(s.NumEpisodes) * s.StartAfter)),
		stop:  int(math.Floor(float64(s.NumEpisodes) * s.StopAfter)),
		final: s.FinalAlpha,
	}, nil
}

// alpha returns the coefficient used in the episode which starts after
// episode resets have already happened. The coefficient is increased
// once per reset in [start, stop), so it equals the final value exactly
// from the reset of episode stop-1 on.
func (s *schedule) alpha(episode int) float64 {
	if s.test {
		return s.final
	}

	increments := s.stop - s.start
	done := episode - s.start + 1
	switch {
	case done <= 0:
		return 0
	case increments <= 0 || done >= increments:
		return s.final
	default:
		return s.final * float64(done) / float64(increments)
	}
}
