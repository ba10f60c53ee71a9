package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// DurationUnit is how a duration is typed into the album form.
type DurationUnit string

const (
	UnitSeconds DurationUnit = "seconds"
	UnitMinutes DurationUnit = "minutes"
)

func (u DurationUnit) Valid() bool {
	return u == UnitSeconds || u == UnitMinutes
}

// FormatDuration renders seconds for the given unit: "225" for seconds,
// "3:45" (or "3" on a whole minute) for minutes.
func FormatDuration(seconds int, unit DurationUnit) string {
	if seconds < 0 {
		seconds = 0
	}
	if unit != UnitMinutes {
		return strconv.Itoa(seconds)
	}
	m, s := seconds/60, seconds%60
	if s == 0 {
		return strconv.Itoa(m)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseDuration is the inverse of FormatDuration. Empty input is zero.
// In minutes mode "m:ss" and a bare "m" are accepted; ss must be below 60.
func ParseDuration(input string, unit DurationUnit) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	if unit != UnitMinutes {
		n, err := nonNegative(input)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", input, err)
		}
		return n, nil
	}

	minPart, secPart, hasSec := strings.Cut(input, ":")
	m, err := nonNegative(minPart)
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", input, err)
	}
	if !hasSec {
		return m * 60, nil
	}
	s, err := nonNegative(secPart)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds in %q: %w", input, err)
	}
	if s >= 60 {
		return 0, fmt.Errorf("invalid seconds in %q: must be below 60", input)
	}
	return m*60 + s, nil
}

// UnitFor picks the unit a stored duration is shown in when a form opens.
func UnitFor(seconds int) DurationUnit {
	if seconds >= 60 {
		return UnitMinutes
	}
	return UnitSeconds
}

// FormatMillis is the read-only "m:ss" preview shown next to a track's durationMs.
func FormatMillis(ms int) string {
	if ms <= 0 {
		return "0:00"
	}
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func nonNegative(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not a whole number")
	}
	if n < 0 {
		return 0, fmt.Errorf("cannot be negative")
	}
	return n, nil
}
