package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// ParseClock parses a local "HH:MM" time into minutes since midnight.
func ParseClock(clock string) (int, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hours < 0 || hours > 23 || mins < 0 || mins > 59 {
		return 0, false
	}
	return hours*60 + mins, true
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// AddClockMinutes offsets a "HH:MM" time by a number of minutes, wrapping
// modulo 24 hours. An empty or unparseable clock yields an empty result.
func AddClockMinutes(clock string, offset int) string {
	base, ok := ParseClock(clock)
	if !ok {
		return ""
	}
	return FormatClock(base + offset)
}

// HoursToMinutes converts decimal hours to whole minutes, rounding to the
// nearest minute.
func HoursToMinutes(hours float64) int {
	return int(math.Round(hours * 60))
}
