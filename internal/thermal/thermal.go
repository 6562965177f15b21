package thermal

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fanwhy/fanwhy/internal/model"
)

const defaultZoneGlob = "/sys/class/thermal/thermal_zone*/temp"

// Reader captures a representative (highest) temperature. Sysfs thermal
// zones are tried first; the sensors command is only consulted when no
// zone file yields a reading. Absence is a valid result, never an error.
type Reader struct {
	ZoneGlob   string        // default /sys/class/thermal/thermal_zone*/temp
	SensorsCmd string        // default "sensors"
	CmdTimeout time.Duration // default 2s
}

func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) zoneGlob() string {
	if r.ZoneGlob == "" {
		return defaultZoneGlob
	}
	return r.ZoneGlob
}

// Capture returns the highest available temperature, or an invalid reading
// when no source is accessible.
func (r *Reader) Capture(ctx context.Context) model.TempReading {
	if t, ok := r.sysfsMax(); ok {
		return model.TempReading{Celsius: t, Valid: true}
	}
	if t, ok := r.sensorsMax(ctx); ok {
		return model.TempReading{Celsius: t, Valid: true}
	}
	return model.TempReading{}
}

// sysfsMax reads every thermal zone temp file. Values are millidegrees
// Celsius; unreadable or implausible files are skipped.
func (r *Reader) sysfsMax() (float64, bool) {
	paths, _ := filepath.Glob(r.zoneGlob())
	best, found := 0.0, false
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		raw, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
		if err != nil {
			continue
		}
		val := raw / 1000
		if !plausible(val) {
			continue
		}
		if !found || val > best {
			best, found = val, true
		}
	}
	return best, found
}

func (r *Reader) sensorsMax(ctx context.Context) (float64, bool) {
	cmd := r.SensorsCmd
	if cmd == "" {
		cmd = "sensors"
	}
	timeout := r.CmdTimeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, cmd).Output()
	if err != nil {
		return 0, false
	}
	return MaxTemperature(string(out))
}
