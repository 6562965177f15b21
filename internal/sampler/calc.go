package sampler

import (
	"github.com/fanwhy/fanwhy/internal/model"
)

// Config carries the normalization constants for percentage computation.
// Both values are host properties that are captured once at startup so
// test fixtures can vary them independently.
type Config struct {
	Cores          int     // logical CPU count
	TicksPerSecond float64 // USER_HZ; Linux reports 100 to userspace
}

func (c Config) withDefaults() Config {
	if c.Cores <= 0 {
		c.Cores = 1
	}
	if c.TicksPerSecond <= 0 {
		c.TicksPerSecond = 100
	}
	return c
}

// Calc turns pairs of time-separated snapshots into CPU percentages.
type Calc struct {
	cfg Config
}

func NewCalc(cfg Config) *Calc {
	return &Calc{cfg: cfg.withDefaults()}
}

// OverallPercent returns the aggregate busy share over the interval on a
// 0-100 scale. A zero total delta means no elapsed work and yields 0, as
// does a non-advancing capture timestamp (clock anomaly).
func (c *Calc) OverallPercent(prev, curr model.CPUCounters) float64 {
	if !curr.Taken.After(prev.Taken) {
		return 0
	}
	prevTotal, currTotal := prev.Total(), curr.Total()
	if currTotal <= prevTotal {
		return 0
	}
	prevBusy, currBusy := prev.Busy(), curr.Busy()
	if currBusy <= prevBusy {
		return 0
	}
	pct := float64(currBusy-prevBusy) / float64(currTotal-prevTotal) * 100
	return clamp(pct, 100)
}

// PerProcessPercent computes the usage of every pid present in both
// snapshots, on a single-core scale like top's default: a process
// saturating one core reads 100. Values are clamped to [0, 100*cores].
// Pids present in only one snapshot are excluded, as are pids whose
// counter moved backwards (pid reuse).
func (c *Calc) PerProcessPercent(prev, curr model.ProcessSnapshot) map[int]float64 {
	out := make(map[int]float64)
	elapsed := curr.Taken.Sub(prev.Taken).Seconds()
	if elapsed <= 0 {
		return out
	}
	for pid, cur := range curr.Procs {
		old, ok := prev.Procs[pid]
		if !ok || cur.Ticks < old.Ticks {
			continue
		}
		seconds := float64(cur.Ticks-old.Ticks) / c.cfg.TicksPerSecond
		out[pid] = clamp(seconds/elapsed*100, 100*float64(c.cfg.Cores))
	}
	return out
}

func clamp(v, hi float64) float64 {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
