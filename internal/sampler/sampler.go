package sampler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/fanwhy/fanwhy/internal/model"
)

// MinInterval is the floor applied to the wait between the two captures of
// one measurement cycle, keeping the elapsed-time divisor away from zero.
const MinInterval = 100 * time.Millisecond

// StatReader supplies system-wide and per-process CPU accounting.
// *procfs.Reader is the production implementation.
type StatReader interface {
	System() (model.CPUCounters, error)
	Processes() (model.ProcessSnapshot, error)
}

// TempReader supplies an optional point-in-time temperature.
type TempReader interface {
	Capture(ctx context.Context) model.TempReading
}

// Sampler runs one full measurement cycle: capture both stat sources, wait
// a fixed interval, capture again, reduce to a Sample. A nil Temps reader
// disables temperature capture.
type Sampler struct {
	Stats StatReader
	Temps TempReader
	Calc  *Calc
}

func New(stats StatReader, temps TempReader, calc *Calc) *Sampler {
	return &Sampler{Stats: stats, Temps: temps, Calc: calc}
}

// TakeSample blocks for at least the given interval. Once the cycle has
// begun it runs to completion; cancellation is handled between cycles by
// the Monitor. Reader failures abort the sample with the source error.
func (s *Sampler) TakeSample(ctx context.Context, interval time.Duration) (model.Sample, error) {
	if interval < MinInterval {
		interval = MinInterval
	}

	sysPrev, err := s.Stats.System()
	if err != nil {
		return model.Sample{}, fmt.Errorf("cpu stats: %w", err)
	}
	procPrev, err := s.Stats.Processes()
	if err != nil {
		return model.Sample{}, fmt.Errorf("process stats: %w", err)
	}

	time.Sleep(interval)

	sysCurr, err := s.Stats.System()
	if err != nil {
		return model.Sample{}, fmt.Errorf("cpu stats: %w", err)
	}
	procCurr, err := s.Stats.Processes()
	if err != nil {
		return model.Sample{}, fmt.Errorf("process stats: %w", err)
	}

	sample := model.Sample{
		Timestamp:  sysCurr.Taken,
		Interval:   sysCurr.Taken.Sub(sysPrev.Taken),
		CPUPercent: s.Calc.OverallPercent(sysPrev, sysCurr),
		Processes:  rank(procCurr, s.Calc.PerProcessPercent(procPrev, procCurr)),
	}
	if s.Temps != nil {
		sample.Temp = s.Temps.Capture(ctx)
	}
	if avg, err := load.Avg(); err == nil {
		sample.Load1, sample.Load5, sample.Load15 = avg.Load1, avg.Load5, avg.Load15
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		sample.MemPercent = vm.UsedPercent
	}
	return sample, nil
}

// rank orders the per-process percentages descending, breaking ties by
// ascending pid so repeated runs over identical data agree.
func rank(snap model.ProcessSnapshot, pcts map[int]float64) []model.ProcessUsage {
	ranked := make([]model.ProcessUsage, 0, len(pcts))
	for pid, pct := range pcts {
		ranked = append(ranked, model.ProcessUsage{
			PID:  pid,
			Name: snap.Procs[pid].Name,
			User: snap.Procs[pid].User,
			CPU:  pct,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CPU != ranked[j].CPU {
			return ranked[i].CPU > ranked[j].CPU
		}
		return ranked[i].PID < ranked[j].PID
	})
	return ranked
}
