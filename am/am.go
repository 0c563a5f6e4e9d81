// Package am holds mirror's settings: which classes to translate, where
// output goes, and how the watch and language-server modes behave.
//
// Sources, lowest precedence first: built-in defaults, ~/.mirror/am.toml,
// the nearest mirror.toml above the working directory, MIRROR_* environment
// variables. Command-line flags override all of them.
package am

// Config represents the mirror configuration
type Config struct {
	Mirror MirrorConfig `mapstructure:"mirror" toml:"mirror" json:"mirror" yaml:"mirror"`
	Output OutputConfig `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	Log    LogConfig    `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
	Watch  WatchConfig  `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`
	LSP    LSPConfig    `mapstructure:"lsp" toml:"lsp" json:"lsp" yaml:"lsp"`
}

// MirrorConfig configures class selection and emission
type MirrorConfig struct {
	Marker     string `mapstructure:"marker" toml:"marker" json:"marker" yaml:"marker"`
	Unfiltered bool   `mapstructure:"unfiltered" toml:"unfiltered" json:"unfiltered" yaml:"unfiltered"`

	// Defaults extends the type -> default literal mapping. It is a list of
	// tables rather than a map because viper lower-cases map keys and type
	// names are case sensitive.
	Defaults []DefaultLiteral `mapstructure:"defaults" toml:"defaults" json:"defaults" yaml:"defaults"`
}

// DefaultLiteral maps one declared type name to its initial value
type DefaultLiteral struct {
	Type    string `mapstructure:"type" toml:"type" json:"type" yaml:"type"`
	Literal string `mapstructure:"literal" toml:"literal" json:"literal" yaml:"literal"`
}

// DefaultsMap returns the configured mappings keyed by type name.
// Later entries win over earlier ones for the same type.
func (c MirrorConfig) DefaultsMap() map[string]string {
	m := make(map[string]string, len(c.Defaults))
	for _, d := range c.Defaults {
		m[d.Type] = d.Literal
	}
	return m
}

// OutputConfig configures where generated modules and reports are written.
// An empty Path means stdout.
type OutputConfig struct {
	Path   string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
	Report string `mapstructure:"report" toml:"report" json:"report" yaml:"report"`
}

// LogConfig configures the logger
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // everforest, gruvbox
}

// WatchConfig configures `mirror watch`
type WatchConfig struct {
	DebounceMS       int    `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"`
	MaxRunsPerMinute int    `mapstructure:"max_runs_per_minute" toml:"max_runs_per_minute" json:"max_runs_per_minute" yaml:"max_runs_per_minute"` // 0 = unlimited
	Exec             string `mapstructure:"exec" toml:"exec" json:"exec" yaml:"exec"`                                                             // shell hook run after each successful build
}

// LSPConfig configures `mirror lsp`. An empty Address serves stdio.
type LSPConfig struct {
	Address string `mapstructure:"address" toml:"address" json:"address" yaml:"address"`
}

// File permission constants
const (
	DefaultDirPermissions  = 0750
	DefaultFilePermissions = 0644
)
