package report

import (
	"strings"
	"testing"

	"github.com/fanwhy/fanwhy/internal/assert"
	"github.com/fanwhy/fanwhy/internal/model"
)

func TestFormatTemp(t *testing.T) {
	assert.Equal(t, FormatTemp(model.TempReading{Celsius: 61.54, Valid: true}), "61.5°C")
	assert.Equal(t, FormatTemp(model.TempReading{}), "unavailable")
}

func TestVerdictNamesHotProcesses(t *testing.T) {
	one := sample(60, nil, model.ProcessUsage{PID: 1, Name: "ffmpeg", CPU: 90})
	assert.Equal(t, Verdict(one, 5),
		"High CPU usage from process 'ffmpeg' is likely causing the fan to ramp up.")

	two := sample(60, nil,
		model.ProcessUsage{PID: 1, Name: "ffmpeg", CPU: 90},
		model.ProcessUsage{PID: 2, Name: "chromium", CPU: 30},
	)
	got := Verdict(two, 5)
	assert.True(t, strings.Contains(got, "'ffmpeg' and 'chromium'"), got)

	many := sample(60, nil,
		model.ProcessUsage{PID: 1, Name: "a", CPU: 90},
		model.ProcessUsage{PID: 2, Name: "b", CPU: 30},
		model.ProcessUsage{PID: 3, Name: "c", CPU: 20},
	)
	got = Verdict(many, 5)
	assert.True(t, strings.Contains(got, "and others"), got)
}

func TestVerdictFallbacks(t *testing.T) {
	assert.Equal(t, Verdict(sample(80, nil), 5),
		"High overall CPU usage is likely causing the fan to ramp up.")
	got := Verdict(sample(10, deg(85)), 5)
	assert.True(t, strings.Contains(got, "High temperature"), got)
	assert.Equal(t, Verdict(sample(10, deg(45)), 5),
		"CPU usage and temperature appear normal.")
	assert.Equal(t, Verdict(sample(10, nil), 5),
		"CPU usage appears normal. Temperature data unavailable.")
}

func TestVerdictRespectsTopN(t *testing.T) {
	// A hot process outside the displayed top-N must not drive the verdict.
	s := sample(10, deg(40),
		model.ProcessUsage{PID: 1, Name: "visible", CPU: 3},
		model.ProcessUsage{PID: 2, Name: "hidden", CPU: 50},
	)
	got := Verdict(s, 1)
	assert.True(t, !strings.Contains(got, "hidden"), got)
}

func TestRawSnapshot(t *testing.T) {
	s := sample(42.34, deg(61.5),
		model.ProcessUsage{PID: 314, Name: "stress-ng", User: "dan", CPU: 99.9},
	)
	got := RawSnapshot(s, 5)
	assert.True(t, strings.Contains(got, "CPU: 42.3%\n"), got)
	assert.True(t, strings.Contains(got, "Temperature: 61.5°C\n"), got)
	assert.True(t, strings.Contains(got, "314\tstress-ng\tdan\t99.9\n"), got)

	noTemp := RawSnapshot(sample(10, nil), 5)
	assert.True(t, !strings.Contains(noTemp, "Temperature"), noTemp)
}

func TestSnapshotShowsProcessOwner(t *testing.T) {
	s := sample(60, nil,
		model.ProcessUsage{PID: 7, Name: "ffmpeg", User: "render", CPU: 80},
	)
	got := Snapshot(s, 5)
	assert.True(t, strings.Contains(got, "User"), got)
	assert.True(t, strings.Contains(got, "render"), got)
}

func TestMonitorSummaryShowsProcessOwner(t *testing.T) {
	res := model.MonitorResult{Samples: []model.Sample{
		sample(50, nil, model.ProcessUsage{PID: 7, Name: "ffmpeg", User: "render", CPU: 80}),
	}}
	got := MonitorSummary(res, Summarize(res.Samples, 5), 5)
	assert.True(t, strings.Contains(got, "render"), got)
}

func TestSnapshotRendersUnavailableTemperature(t *testing.T) {
	got := Snapshot(sample(12, nil), 5)
	assert.True(t, strings.Contains(got, "unavailable"), "degraded summary still complete")
	assert.True(t, strings.Contains(got, "no processes measured"), got)
}

func TestMonitorSummaryDegradedWithoutTemps(t *testing.T) {
	res := model.MonitorResult{Samples: []model.Sample{sample(10, nil), sample(50, nil), sample(30, nil)}}
	sum := Summarize(res.Samples, 5)
	got := MonitorSummary(res, sum, 5)
	assert.True(t, strings.Contains(got, "Average CPU usage:   30.0%"), got)
	assert.True(t, strings.Contains(got, "Maximum CPU usage:   50.0%"), got)
	assert.True(t, strings.Contains(got, "Average temperature: unavailable"), got)
}

func TestMonitorSummaryMarksInterruption(t *testing.T) {
	res := model.MonitorResult{Samples: []model.Sample{sample(10, nil)}, Interrupted: true}
	got := MonitorSummary(res, Summarize(res.Samples, 5), 5)
	assert.True(t, strings.Contains(got, "interrupted"), got)
}

func TestProgressLine(t *testing.T) {
	withTemp := ProgressLine(2, sample(33.3, deg(55)))
	assert.Equal(t, withTemp, "[2] CPU: 33.3% | Temp: 55.0°C")
	assert.Equal(t, ProgressLine(1, sample(10, nil)), "[1] CPU: 10.0%")
}
