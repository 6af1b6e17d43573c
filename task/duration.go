package task

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ParsePostpone parses a postpone duration like "1d", "2w", "3h", "45m" or a
// combination ("1d12h"). A bare number is taken as days.
func ParsePostpone(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("duration must be positive")
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	var total time.Duration
	i := 0
	for i < len(s) {
		j := i
		for j < len(s) && unicode.IsDigit(rune(s[j])) {
			j++
		}
		if j == i || j == len(s) {
			return 0, fmt.Errorf("invalid duration %q (want e.g. 1d, 2w, 3h, 45m)", s)
		}

		n, err := strconv.Atoi(s[i:j])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}

		switch s[j] {
		case 'w':
			total += time.Duration(n) * 7 * 24 * time.Hour
		case 'd':
			total += time.Duration(n) * 24 * time.Hour
		case 'h':
			total += time.Duration(n) * time.Hour
		case 'm':
			total += time.Duration(n) * time.Minute
		default:
			return 0, fmt.Errorf("unknown unit %q in duration %q", string(s[j]), s)
		}
		i = j + 1
	}

	if total <= 0 {
		return 0, fmt.Errorf("duration must be positive")
	}
	return total, nil
}
