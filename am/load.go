package am

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/mirror/errors"
)

const (
	// EnvPrefix prefixes every environment override: MIRROR_WATCH_DEBOUNCE_MS
	EnvPrefix = "MIRROR"

	// ProjectConfigName is looked up from the working directory upwards
	ProjectConfigName = "mirror.toml"

	// UserConfigName lives in ~/.mirror
	UserConfigName = "am.toml"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the mirror configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path.
// Environment variables are not consulted.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "config file %s", configPath)
		}
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	return LoadWithViper(v)
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
	configSources = nil
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()
	BindEnv(v)
	SetDefaults(v)
	configSources = mergeConfigFiles(v, configFiles())

	viperInstance = v
	return v
}

// BindEnv enables MIRROR_* overrides for every key known to v
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// EnvKey returns the environment variable that overrides key
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// UserConfigPath returns ~/.mirror/am.toml, or "" without a home directory
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mirror", UserConfigName)
}

// configFile is one TOML source merged over the defaults
type configFile struct {
	path   string
	source ConfigSource
}

// configFiles lists the config files in precedence order, lowest first
func configFiles() []configFile {
	var files []configFile
	if user := UserConfigPath(); user != "" {
		files = append(files, configFile{path: user, source: SourceUser})
	}
	if wd, err := os.Getwd(); err == nil {
		if project := FindProjectConfig(wd); project != "" {
			files = append(files, configFile{path: project, source: SourceProject})
		}
	}
	return files
}

// FindProjectConfig searches for mirror.toml starting at dir and walking up
// the directory tree. Returns "" if none is found.
func FindProjectConfig(dir string) string {
	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges each existing file into v's config layer, so
// environment variables still take precedence, and records which file set
// each key. Unreadable files are skipped.
func mergeConfigFiles(v *viper.Viper, files []configFile) map[string]SourceInfo {
	sources := make(map[string]SourceInfo)

	for _, file := range files {
		if _, err := os.Stat(file.path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(file.path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}

		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			continue
		}
		for _, key := range tempViper.AllKeys() {
			sources[key] = SourceInfo{Source: file.source, Path: file.path}
		}
	}

	return sources
}
