package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Config carries runtime options for fanwhy.
type Config struct {
	Interval time.Duration // wait between the two captures of one cycle
	Duration time.Duration // monitor window bound; 0 when unset
	Samples  int           // monitor sample bound; 0 when unset
	TopN     int           // processes shown by the reporter
	NoTemps  bool
	Raw      bool
	Live     bool
	Monitor  bool // derived: any monitor option given
}

func Default() Config {
	return Config{
		Interval: time.Second,
		TopN:     5,
	}
}

// FromFlags parses flags and environment overrides. Giving any of
// -interval, -duration, or -samples selects monitor mode; otherwise a
// single snapshot is taken.
func FromFlags(args []string) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("fanwhy", flag.ContinueOnError)
	interval := fs.Duration("interval", 0, "sampling interval for monitor mode (default 5s)")
	fs.DurationVar(&cfg.Duration, "duration", 0, "total duration for monitor mode")
	fs.IntVar(&cfg.Samples, "samples", 0, "number of samples for monitor mode")
	fs.IntVar(&cfg.TopN, "top", cfg.TopN, "number of top processes to show")
	fs.BoolVar(&cfg.NoTemps, "no-temps", cfg.NoTemps, "suppress temperature readings")
	fs.BoolVar(&cfg.Raw, "raw", cfg.Raw, "raw output for scripting")
	fs.BoolVar(&cfg.Live, "live", cfg.Live, "live view during monitor runs")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("FANWHY_INTERVAL"); v != "" && *interval == 0 {
		if parsed, err := time.ParseDuration(v); err == nil {
			*interval = parsed
		} else if parsed, err2 := time.ParseDuration(v + "s"); err2 == nil {
			*interval = parsed
		}
	}
	if os.Getenv("FANWHY_NO_TEMPS") == "1" {
		cfg.NoTemps = true
	}

	if *interval < 0 || cfg.Duration < 0 {
		return Config{}, fmt.Errorf("interval and duration must be positive")
	}
	if cfg.Samples < 0 {
		return Config{}, fmt.Errorf("samples must be positive")
	}
	if cfg.TopN <= 0 {
		return Config{}, fmt.Errorf("top must be positive")
	}

	cfg.Monitor = *interval > 0 || cfg.Duration > 0 || cfg.Samples > 0
	if cfg.Monitor {
		cfg.Interval = *interval
		if cfg.Interval == 0 {
			cfg.Interval = 5 * time.Second
		}
		if cfg.Duration == 0 && cfg.Samples == 0 {
			cfg.Duration = time.Minute
		}
	}
	return cfg, nil
}
