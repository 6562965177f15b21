package thermal

import (
	"regexp"
	"strconv"
	"strings"
)

// degreeToken matches temperature quantities with a Celsius unit marker,
// covering the spellings lm-sensors emits: "+45.0°C", "45 C", "-12.5°C".
var degreeToken = regexp.MustCompile(`([+-]?[0-9]+(?:\.[0-9]+)?)\s*°?\s*C\b`)

// parenthesized strips "(high = +80.0°C, crit = +100.0°C)" annotations so
// threshold values are not mistaken for readings.
var parenthesized = regexp.MustCompile(`\([^)]*\)`)

// MaxTemperature scans free-form sensor-command output and returns the
// highest plausible temperature reading found. Lines without a parseable
// degree token are skipped.
func MaxTemperature(out string) (float64, bool) {
	best, found := 0.0, false
	for _, line := range strings.Split(out, "\n") {
		line = parenthesized.ReplaceAllString(line, "")
		for _, m := range degreeToken.FindAllStringSubmatch(line, -1) {
			val, err := strconv.ParseFloat(m[1], 64)
			if err != nil || !plausible(val) {
				continue
			}
			if !found || val > best {
				best, found = val, true
			}
		}
	}
	return best, found
}

// plausible bounds readings to a sane operating range for host sensors.
func plausible(v float64) bool {
	return v > -50 && v < 200
}
