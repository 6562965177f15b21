package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fanwhy/fanwhy/internal/config"
	"github.com/fanwhy/fanwhy/internal/model"
	"github.com/fanwhy/fanwhy/internal/report"
	"github.com/fanwhy/fanwhy/internal/sampler"
)

// outcome carries the finished run back from the monitor goroutine.
type outcome struct {
	res model.MonitorResult
	err error
}

// Model renders live samples while a bounded monitor run proceeds.
type Model struct {
	cfg     config.Config
	latest  model.Sample
	taken   int
	started time.Time
	stream  <-chan model.Sample
	done    <-chan outcome
	cancel  context.CancelFunc
	result  *outcome
	width   int
}

// Messages
type tickMsg struct{}

func tickCmd() tea.Cmd { return tea.Tick(time.Second/5, func(time.Time) tea.Msg { return tickMsg{} }) }

func (m *Model) Init() tea.Cmd { return tickCmd() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// The in-flight sample still completes; quit on the outcome.
			m.cancel()
		}
	case tickMsg:
		for {
			select {
			case s, ok := <-m.stream:
				if ok {
					m.latest = s
					m.taken++
					continue
				}
			default:
			}
			break
		}
		select {
		case out := <-m.done:
			m.result = &out
			return m, tea.Quit
		default:
		}
		return m, tickCmd()
	}
	return m, nil
}

// Styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	gaugeFill   = "█"
	gaugeEmpty  = "░"
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1).
			MarginRight(1)
)

func (m *Model) View() string {
	s := m.latest
	header := titleStyle.Render("fanwhy — monitoring") + "  " + subtleStyle.Render(m.progress())

	cpuCard := card("CPU",
		fmt.Sprintf("%s  load %.2f %.2f %.2f",
			gaugeBar(s.CPUPercent, 28), s.Load1, s.Load5, s.Load15))

	memCard := card("Memory", gaugeBar(s.MemPercent, 20))

	tempCard := card("Temperature", report.FormatTemp(s.Temp))

	topCard := card(fmt.Sprintf("Top %d CPU", m.cfg.TopN), renderTable(s.TopN(m.cfg.TopN)))

	line1 := lipgloss.JoinHorizontal(lipgloss.Top, cpuCard, memCard, tempCard)
	return lipgloss.JoinVertical(lipgloss.Left, header, line1, topCard,
		subtleStyle.Render("q to stop after the current sample"))
}

func (m *Model) progress() string {
	switch {
	case m.cfg.Samples > 0:
		return fmt.Sprintf("sample %d/%d", m.taken, m.cfg.Samples)
	case m.cfg.Duration > 0:
		return fmt.Sprintf("%s elapsed of %s", time.Since(m.started).Round(time.Second), m.cfg.Duration)
	default:
		return fmt.Sprintf("sample %d", m.taken)
	}
}

// Helpers
func gaugeBar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int((pct / 100) * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %5.1f%%",
		strings.Repeat(gaugeFill, filled),
		strings.Repeat(gaugeEmpty, width-filled),
		pct)
}

func card(title, body string) string {
	return cardStyle.Render(labelStyle.Render(title) + "\n" + body)
}

func renderTable(rows []model.ProcessUsage) string {
	if len(rows) == 0 {
		return "(measuring…)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-7s %-24s %-10s %7s\n", "pid", "name", "user", "cpu")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-7d %-24s %-10s %6.1f%%\n", r.PID, truncate(r.Name, 24), truncate(r.User, 10), r.CPU)
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Run drives a monitor window under a live Bubble Tea view and returns its
// result once the window closes.
func Run(ctx context.Context, cfg config.Config, mon *sampler.Monitor) (model.MonitorResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := make(chan model.Sample, 16)
	done := make(chan outcome, 1)
	mon.OnSample = func(_ int, s model.Sample) {
		select {
		case stream <- s:
		default:
		}
	}
	go func() {
		res, err := mon.Run(ctx)
		close(stream)
		done <- outcome{res: res, err: err}
	}()

	m := &Model{
		cfg:     cfg,
		started: time.Now(),
		stream:  stream,
		done:    done,
		cancel:  cancel,
		width:   120,
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		cancel()
		out := <-done
		if out.err != nil {
			return model.MonitorResult{}, out.err
		}
		return out.res, err
	}
	if m.result == nil {
		// Program ended without an outcome (e.g. tea.Quit from a kill);
		// collect the run before returning.
		cancel()
		out := <-done
		m.result = &out
	}
	return m.result.res, m.result.err
}
