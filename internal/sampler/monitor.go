package sampler

import (
	"context"
	"time"

	"github.com/fanwhy/fanwhy/internal/model"
)

// Monitor repeats measurement cycles over a bounded window. Cycles run
// back-to-back: each sample's window starts where the previous one ended.
type Monitor struct {
	Sampler  *Sampler
	Interval time.Duration

	// MaxSamples bounds the run by count; MaxDuration by elapsed time.
	// Count wins when both are set. Neither set means a single sample.
	MaxSamples  int
	MaxDuration time.Duration

	// OnSample, when set, is invoked after each completed cycle with the
	// 1-based sample number. It must not retain the sample's slices.
	OnSample func(n int, s model.Sample)
}

// Run executes the monitoring window. A reader failure aborts the run and
// returns the error with no partial result. Context cancellation lets the
// in-flight cycle finish, then stops with the samples collected so far.
func (m *Monitor) Run(ctx context.Context) (model.MonitorResult, error) {
	var res model.MonitorResult
	start := time.Now()
	for n := 0; m.more(n, start); n++ {
		select {
		case <-ctx.Done():
			res.Interrupted = true
			return res, nil
		default:
		}
		s, err := m.Sampler.TakeSample(ctx, m.Interval)
		if err != nil {
			return model.MonitorResult{}, err
		}
		res.Samples = append(res.Samples, s)
		if m.OnSample != nil {
			m.OnSample(n+1, s)
		}
	}
	return res, nil
}

func (m *Monitor) more(taken int, start time.Time) bool {
	switch {
	case m.MaxSamples > 0:
		return taken < m.MaxSamples
	case m.MaxDuration > 0:
		return time.Since(start) < m.MaxDuration
	default:
		return taken < 1
	}
}
