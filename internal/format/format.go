// Package format holds the small display helpers used all over the UI:
// byte counts, durations, timestamps and the text progress bar.
package format

import (
	"fmt"
	"strings"
	"time"
)

var byteUnits = [...]string{"B", "KB", "MB", "GB", "TB"}

// Bytes renders a byte count with two decimals in the largest unit that
// keeps the value under 1024. Zero is special-cased to "0 B".
func Bytes(n uint64) string {
	size := float64(n)
	unit := 0
	for size >= 1024 && unit < len(byteUnits)-1 {
		size /= 1024
		unit++
	}
	if size == 0 {
		return "0 B"
	}
	return fmt.Sprintf("%.2f %s", size, byteUnits[unit])
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
	// Calendar-average month and year, so long durations read naturally.
	secondsPerMonth = 2_630_016  // 30.44 days
	secondsPerYear  = 31_557_600 // 365.25 days
)

// Seconds renders a duration in seconds as compact human text, e.g.
// "2m 1s", "7h 7m 54s", "3months 23days 40m 6s". Zero-valued components
// are skipped.
func Seconds(secs uint64) string {
	if secs == 0 {
		return "0s"
	}
	type unit struct {
		size     uint64
		singular string
		plural   string
	}
	units := []unit{
		{secondsPerYear, "year", "years"},
		{secondsPerMonth, "month", "months"},
		{secondsPerDay, "day", "days"},
		{secondsPerHour, "h", "h"},
		{secondsPerMinute, "m", "m"},
		{1, "s", "s"},
	}
	var parts []string
	for _, u := range units {
		if secs < u.size {
			continue
		}
		count := secs / u.size
		secs -= count * u.size
		name := u.singular
		if count != 1 {
			name = u.plural
		}
		parts = append(parts, fmt.Sprintf("%d%s", count, name))
	}
	return strings.Join(parts, " ")
}

// maxTimestamp is the last second of year 9999; anything later is junk
// from the API and rendered as "N/A".
const maxTimestamp = 253402300799

// Timestamp renders a unix timestamp as "2006-01-02 15:04:05" in UTC.
// The zero timestamp means "never happened" and renders as "-".
func Timestamp(ts uint64) string {
	if ts == 0 {
		return "-"
	}
	if ts > maxTimestamp {
		return "N/A"
	}
	return time.Unix(int64(ts), 0).UTC().Format("2006-01-02 15:04:05")
}

// ElapsedTime renders the time between start and finish, or between
// start and now when the task has not finished yet (finish == 0).
func ElapsedTime(start, finish uint64) string {
	if finish == 0 {
		now := uint64(time.Now().UTC().Unix())
		if now < start {
			return Seconds(0)
		}
		return Seconds(now - start)
	}
	if finish < start {
		return Seconds(0)
	}
	return Seconds(finish - start)
}

// ProgressBar renders a fixed-width bar with the percentage embedded in
// the middle, e.g. ProgressBar(50, 10) == "[███ 50%   ]". The total
// width is always width+2 including the brackets.
func ProgressBar(percentage uint64, width int) string {
	text := fmt.Sprintf("%3d%%", percentage)
	filled := int(percentage) * width / 100
	if filled > width {
		filled = width
	}
	start := (width - len(text)) / 2
	if start < 0 {
		start = 0
	}
	var bar strings.Builder
	for i := 0; i < width; i++ {
		if i >= start && i < start+len(text) {
			bar.WriteByte(text[i-start])
		} else if i < filled {
			bar.WriteRune('█')
		} else {
			bar.WriteByte(' ')
		}
	}
	return "[" + bar.String() + "]"
}
