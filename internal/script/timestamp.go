package script

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts a timestamp string to seconds. Accepts "MM:SS" and
// "HH:MM:SS", with or without surrounding brackets.
func ParseTimestamp(ts string) (int, error) {
	trimmed := strings.Trim(strings.TrimSpace(ts), "[]")

	parts := strings.Split(trimmed, ":")
	switch len(parts) {
	case 2:
		min, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", ts)
		}
		sec, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", ts)
		}
		return min*60 + sec, nil
	case 3:
		hr, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", ts)
		}
		min, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", ts)
		}
		sec, err := strconv.Atoi(parts[2])
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", ts)
		}
		return hr*3600 + min*60 + sec, nil
	default:
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}
}
