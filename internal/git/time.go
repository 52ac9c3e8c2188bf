package git

import (
	"time"

	"github.com/dustin/go-humanize"
)

// relativeTime renders then relative to now, e.g. "3 hours ago".
func relativeTime(then, now time.Time) string {
	if then.IsZero() {
		return ""
	}
	if d := now.Sub(then); d >= 0 && d < time.Minute {
		return "just now"
	}
	return humanize.RelTime(then, now, "ago", "from now")
}
