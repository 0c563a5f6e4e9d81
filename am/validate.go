package am

import (
	"slices"
	"strings"
	"unicode"

	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Mirror.Marker == "" {
		return errors.New("mirror.marker cannot be empty")
	}
	if !isIdentifier(c.Mirror.Marker) {
		return errors.Newf("mirror.marker must be an identifier, got %q", c.Mirror.Marker)
	}

	for i, d := range c.Mirror.Defaults {
		if strings.TrimSpace(d.Type) == "" {
			return errors.Newf("mirror.defaults[%d].type cannot be empty", i)
		}
		if d.Literal == "" {
			return errors.Newf("mirror.defaults[%d].literal cannot be empty (type %s)", i, d.Type)
		}
	}

	// 0 = fire on every event
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	// 0 = unlimited
	if c.Watch.MaxRunsPerMinute < 0 {
		return errors.Newf("watch.max_runs_per_minute must be >= 0, got %d", c.Watch.MaxRunsPerMinute)
	}

	if c.Log.Theme != "" && !slices.Contains(logger.Themes, c.Log.Theme) {
		return errors.WithHintf(
			errors.Newf("log.theme %q is not a known theme", c.Log.Theme),
			"use one of: %s", strings.Join(logger.Themes, ", "),
		)
	}

	return nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return s != ""
}
