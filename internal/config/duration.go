package config

import "time"

// DurationOrDefault parses a configured duration string, falling back
// when the value is empty or malformed.
func DurationOrDefault(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
