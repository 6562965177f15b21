package model

import "time"

// CPUCounters is a snapshot of the cumulative system-wide CPU tick counters
// from the aggregate line of /proc/stat.
type CPUCounters struct {
	User      uint64
	Nice      uint64
	System    uint64
	Idle      uint64
	Iowait    uint64
	IRQ       uint64
	SoftIRQ   uint64
	Steal     uint64
	Guest     uint64
	GuestNice uint64
	Taken     time.Time
}

// Total returns the sum of all time-in-state counters.
func (c CPUCounters) Total() uint64 {
	return c.User + c.Nice + c.System + c.Idle + c.Iowait +
		c.IRQ + c.SoftIRQ + c.Steal + c.Guest + c.GuestNice
}

// Busy returns total time minus idle and iowait.
func (c CPUCounters) Busy() uint64 {
	return c.Total() - c.Idle - c.Iowait
}

// ProcessStat holds one process's identity and cumulative CPU ticks
// (utime+stime) at capture time. User is the owning username, or the
// numeric uid when no passwd entry resolves it.
type ProcessStat struct {
	PID   int
	Name  string
	User  string
	Ticks uint64
}

// ProcessSnapshot maps pid to its stat record for every process visible at
// one point in time. PIDs may be reused by the kernel after process exit;
// two snapshots are only comparable pid-by-pid over a short interval.
type ProcessSnapshot struct {
	Procs map[int]ProcessStat
	Taken time.Time
}

// TempReading is an optional temperature in degrees Celsius. A zero
// TempReading (Valid false) means no sensor was accessible, which is a
// normal state, not an error.
type TempReading struct {
	Celsius float64
	Valid   bool
}

// ProcessUsage is one ranked entry in a Sample.
type ProcessUsage struct {
	PID  int
	Name string
	User string
	CPU  float64 // percent, single-core scale
}

// Sample is one completed measurement cycle: two stat captures an interval
// apart, reduced to percentages, plus point-in-time secondary signals.
// Samples are immutable once produced.
type Sample struct {
	Timestamp  time.Time
	Interval   time.Duration
	CPUPercent float64        // aggregate 0-100
	Processes  []ProcessUsage // sorted by CPU desc, pid asc on ties
	Temp       TempReading
	Load1      float64
	Load5      float64
	Load15     float64
	MemPercent float64
}

// TopN returns the first n ranked processes (all of them when n exceeds
// the ranking length).
func (s Sample) TopN(n int) []ProcessUsage {
	if n < 0 {
		n = 0
	}
	if n > len(s.Processes) {
		n = len(s.Processes)
	}
	return s.Processes[:n]
}

// MonitorResult is the outcome of one bounded monitoring window.
type MonitorResult struct {
	Samples []Sample
	// Interrupted is set when the window ended early because the run
	// context was cancelled; the current sample was still completed.
	Interrupted bool
}

// ProcessAggregate accumulates one process name across samples.
type ProcessAggregate struct {
	Name   string
	User   string
	Count  int     // samples in which the name appeared in the top-N
	AvgCPU float64 // mean share over those samples
}

// Summary is the reduction of a sample sequence. AvgTemp/MaxTemp are only
// valid when at least one sample carried a temperature reading.
type Summary struct {
	Samples   int
	AvgCPU    float64
	MaxCPU    float64
	AvgTemp   TempReading
	MaxTemp   TempReading
	Processes []ProcessAggregate // sorted by Count desc, AvgCPU desc
}
