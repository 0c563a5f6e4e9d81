package am

import (
	"os"
	"sort"

	"github.com/spf13/viper"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceUser        ConfigSource = "user"        // ~/.mirror/am.toml
	SourceProject     ConfigSource = "project"     // nearest mirror.toml
	SourceEnvironment ConfigSource = "environment" // MIRROR_* env vars
)

// SourceInfo records the source of one key
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or env var name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key" toml:"key"`
	Value      interface{}  `json:"value" yaml:"value" toml:"value"`
	Source     ConfigSource `json:"source" yaml:"source" toml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty" toml:"source_path,omitempty"`
}

// ConfigIntrospection lists every active setting with its source
type ConfigIntrospection struct {
	Settings []SettingInfo `json:"settings" yaml:"settings" toml:"settings"`
}

// configSources is filled by initViper from the files it merged
var configSources map[string]SourceInfo

// GetConfigIntrospection describes the configuration Load would return
func GetConfigIntrospection() *ConfigIntrospection {
	v := GetViper()
	return Introspect(v, configSources)
}

// Introspect reports each key of v, sorted, with the source that set it.
// Keys absent from sources are defaults unless an environment variable
// overrides them.
func Introspect(v *viper.Viper, sources map[string]SourceInfo) *ConfigIntrospection {
	keys := v.AllKeys()
	sort.Strings(keys)

	introspection := &ConfigIntrospection{Settings: make([]SettingInfo, 0, len(keys))}
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sources[key]; ok {
			info = si
		}

		envKey := EnvKey(key)
		if _, ok := os.LookupEnv(envKey); ok {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return introspection
}

// CountBySource tallies settings per source
func (ci *ConfigIntrospection) CountBySource() map[ConfigSource]int {
	counts := map[ConfigSource]int{}
	for _, s := range ci.Settings {
		counts[s.Source]++
	}
	return counts
}
