package am

import "github.com/spf13/viper"

// Built-in values for every key SetDefaults knows about
const (
	DefaultMarker           = "JavaScript"
	DefaultDebounceMS       = 300
	DefaultMaxRunsPerMinute = 30
	DefaultLogTheme         = "everforest"
)

// SetDefaults registers the built-in value of every configuration key.
// Keys must be registered here for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mirror.marker", DefaultMarker)
	v.SetDefault("mirror.unfiltered", false)
	v.SetDefault("mirror.defaults", []DefaultLiteral{})

	v.SetDefault("output.path", "")   // stdout
	v.SetDefault("output.report", "") // no report file

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
	v.SetDefault("watch.max_runs_per_minute", DefaultMaxRunsPerMinute)
	v.SetDefault("watch.exec", "")

	v.SetDefault("lsp.address", "") // stdio
}

// GetLogTheme returns the log theme (default: everforest)
func (c *Config) GetLogTheme() string {
	if c.Log.Theme == "" {
		return DefaultLogTheme
	}
	return c.Log.Theme
}

// GetMarker returns the marker attribute name (default: JavaScript)
func (c *Config) GetMarker() string {
	if c.Mirror.Marker == "" {
		return DefaultMarker
	}
	return c.Mirror.Marker
}
