package domain

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// UnknownVersionBadge is shown whenever the data version cannot be resolved.
const UnknownVersionBadge = "Data updated: unknown"

// VersionInfo describes the latest commit that touched the data file.
type VersionInfo struct {
	CommittedAt time.Time `json:"committed_at"`
	ShortSHA    string    `json:"sha"`
	URL         string    `json:"url"`
}

// Badge is the data-version readout. Info is nil when the lookup failed.
type Badge struct {
	Text string       `json:"text"`
	Info *VersionInfo `json:"info,omitempty"`
}

// UnknownBadge is the placeholder badge.
func UnknownBadge() Badge {
	return Badge{Text: UnknownVersionBadge}
}

// NewBadge formats a version as "Data updated: 2024-05-01 (3 days ago) · abc1234".
// A missing commit time degrades to the placeholder.
func NewBadge(info VersionInfo, now time.Time) Badge {
	if info.CommittedAt.IsZero() {
		return UnknownBadge()
	}
	text := fmt.Sprintf("Data updated: %s (%s)",
		info.CommittedAt.UTC().Format(time.DateOnly),
		RelativeTime(info.CommittedAt, now),
	)
	if info.ShortSHA != "" {
		text += " · " + info.ShortSHA
	}
	return Badge{Text: text, Info: &info}
}

var relativeUnits = []struct {
	name    string
	seconds int64
}{
	{"year", 31536000},
	{"month", 2592000},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
	{"second", 1},
}

// RelativeTime renders the age of then as "3 days ago", using the largest
// whole unit, or "just now" under a second (including future times).
func RelativeTime(then, now time.Time) string {
	secs := int64(now.Sub(then) / time.Second)
	for _, u := range relativeUnits {
		v := secs / u.seconds
		if v >= 1 {
			if v > 1 {
				return fmt.Sprintf("%d %ss ago", v, u.name)
			}
			return fmt.Sprintf("%d %s ago", v, u.name)
		}
	}
	return "just now"
}

// FormatCount renders a result count with thousands separators.
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
