// Package validate provides sanitization and limits for values that cross
// the engine's boundary: notification text and scheduler configuration.
package validate

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Limits and configuration
const (
	// MaxTitleLength is the maximum length for notification titles
	MaxTitleLength = 256

	// MaxBodyLength is the maximum length for notification bodies
	MaxBodyLength = 1024

	// MinPollInterval is the shortest allowed scheduler poll cadence
	MinPollInterval = time.Second

	// MaxPollInterval is the longest allowed scheduler poll cadence
	MaxPollInterval = time.Hour

	// MaxWindow is the longest allowed forward expansion window
	MaxWindow = 24 * time.Hour
)

// SanitizeTitle strips control characters (including newlines) from a
// notification title and truncates it to MaxTitleLength.
func SanitizeTitle(s string) string {
	return sanitize(s, MaxTitleLength, false)
}

// SanitizeBody strips control characters from a notification body and
// truncates it to MaxBodyLength. Newlines survive.
func SanitizeBody(s string) string {
	return sanitize(s, MaxBodyLength, true)
}

func sanitize(s string, limit int, keepNewlines bool) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r == '\n' && keepNewlines) || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}

	result := b.String()
	if utf8.RuneCountInString(result) > limit {
		runes := []rune(result)
		result = string(runes[:limit-3]) + "..."
	}
	return result
}

// ClampPollInterval keeps the poll cadence within [MinPollInterval, MaxPollInterval].
func ClampPollInterval(d time.Duration) time.Duration {
	if d < MinPollInterval {
		return MinPollInterval
	}
	if d > MaxPollInterval {
		return MaxPollInterval
	}
	return d
}

// ClampWindow keeps the forward expansion window within (0, MaxWindow].
func ClampWindow(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	if d > MaxWindow {
		return MaxWindow
	}
	return d
}
