package sampler

import (
	"testing"
	"time"

	"github.com/fanwhy/fanwhy/internal/assert"
	"github.com/fanwhy/fanwhy/internal/model"
)

var t0 = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func countersAt(user, idle uint64, at time.Time) model.CPUCounters {
	return model.CPUCounters{User: user, Idle: idle, Taken: at}
}

func TestOverallPercentQuarterBusy(t *testing.T) {
	c := NewCalc(Config{Cores: 1, TicksPerSecond: 100})
	prev := countersAt(0, 0, t0)
	curr := countersAt(250, 750, t0.Add(time.Second))
	assert.InDelta(t, c.OverallPercent(prev, curr), 25.0, 0.001)
}

func TestOverallPercentFullyBusy(t *testing.T) {
	c := NewCalc(Config{})
	prev := countersAt(100, 500, t0)
	curr := countersAt(1100, 500, t0.Add(time.Second))
	assert.InDelta(t, c.OverallPercent(prev, curr), 100.0, 0.001)
}

func TestOverallPercentZeroTotalDelta(t *testing.T) {
	c := NewCalc(Config{})
	prev := countersAt(100, 500, t0)
	curr := countersAt(100, 500, t0.Add(time.Second))
	assert.Equal(t, c.OverallPercent(prev, curr), 0.0)
}

func TestOverallPercentClockAnomaly(t *testing.T) {
	c := NewCalc(Config{})
	prev := countersAt(0, 0, t0)
	curr := countersAt(250, 750, t0) // same capture time
	assert.Equal(t, c.OverallPercent(prev, curr), 0.0)

	curr.Taken = t0.Add(-time.Second) // curr before prev
	assert.Equal(t, c.OverallPercent(prev, curr), 0.0)
}

func TestOverallPercentCounterRegression(t *testing.T) {
	c := NewCalc(Config{})
	prev := countersAt(500, 500, t0)
	curr := countersAt(100, 200, t0.Add(time.Second))
	assert.Equal(t, c.OverallPercent(prev, curr), 0.0)
}

func TestOverallPercentRange(t *testing.T) {
	c := NewCalc(Config{})
	pairs := [][4]uint64{
		{0, 0, 10, 990},
		{100, 900, 600, 900},
		{0, 0, 1000, 0},
		{50, 50, 51, 10050},
	}
	for _, p := range pairs {
		prev := countersAt(p[0], p[1], t0)
		curr := countersAt(p[2], p[3], t0.Add(time.Second))
		got := c.OverallPercent(prev, curr)
		assert.True(t, got >= 0 && got <= 100, "percent within [0,100]")
	}
}

func snapshotAt(at time.Time, procs ...model.ProcessStat) model.ProcessSnapshot {
	snap := model.ProcessSnapshot{Procs: make(map[int]model.ProcessStat), Taken: at}
	for _, p := range procs {
		snap.Procs[p.PID] = p
	}
	return snap
}

func TestPerProcessPercentExcludesChurn(t *testing.T) {
	c := NewCalc(Config{Cores: 4, TicksPerSecond: 100})
	prev := snapshotAt(t0,
		model.ProcessStat{PID: 10, Name: "stress", Ticks: 100},
		model.ProcessStat{PID: 30, Name: "gone", Ticks: 40},
	)
	curr := snapshotAt(t0.Add(time.Second),
		model.ProcessStat{PID: 10, Name: "stress", Ticks: 150},
		model.ProcessStat{PID: 20, Name: "fresh", Ticks: 5},
	)

	got := c.PerProcessPercent(prev, curr)
	assert.Equal(t, len(got), 1)
	assert.InDelta(t, got[10], 50.0, 0.001)
}

func TestPerProcessPercentPidReuse(t *testing.T) {
	c := NewCalc(Config{Cores: 1, TicksPerSecond: 100})
	prev := snapshotAt(t0, model.ProcessStat{PID: 7, Ticks: 900})
	curr := snapshotAt(t0.Add(time.Second), model.ProcessStat{PID: 7, Ticks: 10})

	got := c.PerProcessPercent(prev, curr)
	_, present := got[7]
	assert.True(t, !present, "reused pid excluded")
}

func TestPerProcessPercentClampedToCores(t *testing.T) {
	c := NewCalc(Config{Cores: 2, TicksPerSecond: 100})
	prev := snapshotAt(t0, model.ProcessStat{PID: 1, Ticks: 0})
	curr := snapshotAt(t0.Add(time.Second), model.ProcessStat{PID: 1, Ticks: 100000})

	got := c.PerProcessPercent(prev, curr)
	assert.InDelta(t, got[1], 200.0, 0.001)
}

func TestPerProcessPercentNoElapsedTime(t *testing.T) {
	c := NewCalc(Config{})
	prev := snapshotAt(t0, model.ProcessStat{PID: 1, Ticks: 0})
	curr := snapshotAt(t0, model.ProcessStat{PID: 1, Ticks: 100})
	assert.Equal(t, len(c.PerProcessPercent(prev, curr)), 0)
}
