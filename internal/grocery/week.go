package grocery

import (
	"fmt"
	"strings"
	"time"
)

const weekLayout = "2006-01-02"

// MondayOf returns the Monday starting the week containing t, as YYYY-MM-DD.
func MondayOf(t time.Time) string {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset).Format(weekLayout)
}

// ResolveWeek validates a YYYY-MM-DD date and snaps it to its Monday. An
// empty string means the current week.
func ResolveWeek(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MondayOf(now), nil
	}
	t, err := time.Parse(weekLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid week %q: want YYYY-MM-DD", s)
	}
	return MondayOf(t), nil
}
