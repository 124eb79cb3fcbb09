package measurement

import (
	"strconv"
	"strings"

	"cellroi/internal/models"
)

// PercentileName returns the measurement key for a percentile, e.g.
// "DAPI: Nucleus: Percentile: 95.0"
func PercentileName(channel string, c models.Compartment, p float64) string {
	return MeasurementName(channel, c, "Percentile: "+FormatPercentile(p))
}

// MeasurementName joins channel, compartment display name and statistic
// into a measurement key
func MeasurementName(channel string, c models.Compartment, statistic string) string {
	return channel + ": " + c.DisplayName() + ": " + statistic
}

// FormatPercentile writes p in its shortest exact decimal form with at
// least one fractional digit: 95 -> "95.0", 99.5 -> "99.5"
func FormatPercentile(p float64) string {
	s := strconv.FormatFloat(p, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
