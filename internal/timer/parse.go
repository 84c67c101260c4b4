package timer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration accepts a bare number of seconds ("90") or a Go duration
// ("45s", "25m", "1h30m") and returns whole, positive seconds.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("%w: got %q", ErrInvalidDuration, s)
		}
		return n, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 || d%time.Second != 0 {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidDuration, s)
	}
	return int(d / time.Second), nil
}
