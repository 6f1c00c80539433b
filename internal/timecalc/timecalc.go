package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the date half of a board timestamp "YYYY-MM-DD HH:MM".
const DateLayout = "2006-01-02"

// SplitStamp splits a board timestamp "YYYY-MM-DD HH:MM" at the first space.
// A stamp without a space is returned as the date with an empty clock.
func SplitStamp(stamp string) (date, clock string) {
	date, clock, _ = strings.Cut(stamp, " ")
	return date, clock
}

// JoinStamp combines a date and a clock time the way the add form does.
func JoinStamp(date, clock string) string {
	return date + " " + clock
}

// ParseHours parses a server aggregate like "12:30" or "1 day, 2:00" into
// seconds.
func ParseHours(s string) (int64, error) {
	s = strings.TrimSpace(s)
	var days int64
	if before, after, ok := strings.Cut(s, ","); ok {
		fields := strings.Fields(before)
		if len(fields) != 2 {
			return 0, fmt.Errorf("invalid hours %q", s)
		}
		d, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid hours %q: %w", s, err)
		}
		days = d
		s = strings.TrimSpace(after)
	}
	hStr, mStr, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid hours %q", s)
	}
	h, err := strconv.ParseInt(hStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q: %w", s, err)
	}
	m, err := strconv.ParseInt(mStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q: %w", s, err)
	}
	return days*86400 + h*3600 + m*60, nil
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// Today returns the current date in the add form's date format.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
