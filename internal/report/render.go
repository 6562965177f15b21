package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fanwhy/fanwhy/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	verdictStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213"))
)

// FormatTemp renders a reading as "61.5°C" or "unavailable".
func FormatTemp(t model.TempReading) string {
	if !t.Valid {
		return "unavailable"
	}
	return fmt.Sprintf("%.1f°C", t.Celsius)
}

// Snapshot renders a single-sample report.
func Snapshot(s model.Sample, topN int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("=== System Load Snapshot ===") + "\n\n")
	fmt.Fprintf(&b, "%s %.1f%%  (load %.2f %.2f %.2f, mem %.0f%%)\n",
		labelStyle.Render("Overall CPU:"), s.CPUPercent, s.Load1, s.Load5, s.Load15, s.MemPercent)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Highest temperature:"), FormatTemp(s.Temp))

	top := s.TopN(topN)
	fmt.Fprintf(&b, "\n%s\n", labelStyle.Render(fmt.Sprintf("Top %d CPU processes:", len(top))))
	b.WriteString(processTable(top))

	b.WriteString("\n" + verdictStyle.Render(Verdict(s, topN)) + "\n")
	return b.String()
}

// RawSnapshot is the scripting-friendly form: no styling, tab-separated
// process lines.
func RawSnapshot(s model.Sample, topN int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CPU: %.1f%%\n", s.CPUPercent)
	if s.Temp.Valid {
		fmt.Fprintf(&b, "Temperature: %s\n", FormatTemp(s.Temp))
	}
	for _, p := range s.TopN(topN) {
		fmt.Fprintf(&b, "%d\t%s\t%s\t%.1f\n", p.PID, p.Name, p.User, p.CPU)
	}
	return b.String()
}

// ProgressLine is one monitor-mode status line per completed sample.
func ProgressLine(n int, s model.Sample) string {
	line := fmt.Sprintf("[%d] CPU: %.1f%%", n, s.CPUPercent)
	if s.Temp.Valid {
		line += fmt.Sprintf(" | Temp: %s", FormatTemp(s.Temp))
	}
	return line
}

// MonitorSummary renders the end-of-window report.
func MonitorSummary(res model.MonitorResult, sum model.Summary, topN int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("=== Monitoring Summary ===") + "\n\n")
	if res.Interrupted {
		b.WriteString(subtleStyle.Render("(window interrupted; partial results)") + "\n")
	}
	fmt.Fprintf(&b, "Samples:             %d\n", sum.Samples)
	fmt.Fprintf(&b, "Average CPU usage:   %.1f%%\n", sum.AvgCPU)
	fmt.Fprintf(&b, "Maximum CPU usage:   %.1f%%\n", sum.MaxCPU)
	fmt.Fprintf(&b, "Average temperature: %s\n", FormatTemp(sum.AvgTemp))
	fmt.Fprintf(&b, "Maximum temperature: %s\n", FormatTemp(sum.MaxTemp))

	if len(sum.Processes) > 0 {
		fmt.Fprintf(&b, "\n%s\n", labelStyle.Render("Most frequently hot processes:"))
		fmt.Fprintf(&b, "  %-28s %-12s %8s %9s\n", "Process", "User", "Samples", "Avg CPU%")
		limit := len(sum.Processes)
		if topN > 0 && topN < limit {
			limit = topN
		}
		for _, p := range sum.Processes[:limit] {
			fmt.Fprintf(&b, "  %-28s %-12s %8d %8.1f%%\n", truncate(p.Name, 28), truncate(p.User, 12), p.Count, p.AvgCPU)
		}
	}

	if len(res.Samples) > 0 {
		last := res.Samples[len(res.Samples)-1]
		b.WriteString("\n" + verdictStyle.Render(Verdict(last, topN)) + "\n")
	}
	return b.String()
}

// Verdict names the suspected cause of fan activity for one sample. The
// thresholds follow a simple heuristic: individual processes above 5% are
// called out, then high overall CPU, then high temperature.
func Verdict(s model.Sample, topN int) string {
	var hot []string
	for _, p := range s.TopN(topN) {
		if p.CPU > 5.0 {
			hot = append(hot, p.Name)
		}
		if len(hot) == 3 {
			break
		}
	}
	switch len(hot) {
	case 0:
	case 1:
		return fmt.Sprintf("High CPU usage from process '%s' is likely causing the fan to ramp up.", hot[0])
	case 2:
		return fmt.Sprintf("High CPU usage from processes '%s' and '%s' is likely causing the fan to ramp up.", hot[0], hot[1])
	default:
		return fmt.Sprintf("High CPU usage from processes '%s', '%s', and others is likely causing the fan to ramp up.", hot[0], hot[1])
	}

	if s.CPUPercent > 50.0 {
		return "High overall CPU usage is likely causing the fan to ramp up."
	}
	if s.Temp.Valid {
		if s.Temp.Celsius > 70.0 {
			return fmt.Sprintf("High temperature (%s) is likely causing the fan to ramp up.", FormatTemp(s.Temp))
		}
		return "CPU usage and temperature appear normal."
	}
	return "CPU usage appears normal. Temperature data unavailable."
}

func processTable(procs []model.ProcessUsage) string {
	if len(procs) == 0 {
		return "  (no processes measured)\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "  %-7s %-28s %-12s %8s\n", "PID", "Process", "User", "CPU%")
	for _, p := range procs {
		fmt.Fprintf(&b, "  %-7d %-28s %-12s %7.1f%%\n", p.PID, truncate(p.Name, 28), truncate(p.User, 12), p.CPU)
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
