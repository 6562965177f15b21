package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fanwhy/fanwhy/internal/config"
	"github.com/fanwhy/fanwhy/internal/model"
	"github.com/fanwhy/fanwhy/internal/procfs"
	"github.com/fanwhy/fanwhy/internal/report"
	"github.com/fanwhy/fanwhy/internal/sampler"
	"github.com/fanwhy/fanwhy/internal/thermal"
	"github.com/fanwhy/fanwhy/internal/ui"
)

func main() {
	cfg, err := config.FromFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "fanwhy: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	calc := sampler.NewCalc(sampler.Config{Cores: procfs.LogicalCores()})
	var temps sampler.TempReader
	if !cfg.NoTemps {
		temps = thermal.NewReader()
	}
	engine := sampler.New(procfs.NewReader(), temps, calc)

	if !cfg.Monitor {
		snap, err := engine.TakeSample(ctx, cfg.Interval)
		if err != nil {
			fail(err)
		}
		if cfg.Raw {
			fmt.Print(report.RawSnapshot(snap, cfg.TopN))
		} else {
			fmt.Print(report.Snapshot(snap, cfg.TopN))
		}
		return
	}

	mon := &sampler.Monitor{
		Sampler:     engine,
		Interval:    cfg.Interval,
		MaxSamples:  cfg.Samples,
		MaxDuration: cfg.Duration,
	}

	var res model.MonitorResult
	if cfg.Live {
		res, err = ui.Run(ctx, cfg, mon)
	} else {
		mon.OnSample = func(n int, s model.Sample) {
			if cfg.Raw {
				fmt.Printf("%d\t%.1f\n", s.Timestamp.Unix(), s.CPUPercent)
			} else {
				fmt.Println(report.ProgressLine(n, s))
			}
		}
		res, err = mon.Run(ctx)
	}
	if err != nil {
		fail(err)
	}

	if !cfg.Raw {
		sum := report.Summarize(res.Samples, cfg.TopN)
		fmt.Print("\n" + report.MonitorSummary(res, sum, cfg.TopN))
	}
	if res.Interrupted {
		// Partial results were still rendered; exit like an
		// interrupted shell command.
		os.Exit(130)
	}
}

// fail reports an engine failure and exits. The wrapped errors already say
// which source was lost (cpu stats vs process stats) and why.
func fail(err error) {
	fmt.Fprintf(os.Stderr, "fanwhy: %v\n", err)
	os.Exit(1)
}
