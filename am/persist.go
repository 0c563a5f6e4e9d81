package am

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
)

const projectConfigHeader = "# mirror configuration. See `mirror am show --sources` for effective values.\n\n"

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	// .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		// A stale backup never blocks a save
		logger.Warnw("Failed to delete old backup", logger.FieldFile, back3, logger.FieldError, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// WriteProjectConfig writes cfg as mirror.toml in dir, backing up any
// existing file first, and returns the written path.
func WriteProjectConfig(dir string, cfg *Config) (string, error) {
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", dir)
	}

	path := filepath.Join(dir, ProjectConfigName)
	if err := createBackup(path); err != nil {
		return "", errors.Wrap(err, "failed to back up existing config")
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal config")
	}

	var buf bytes.Buffer
	buf.WriteString(projectConfigHeader)
	buf.Write(data)

	if err := os.WriteFile(path, buf.Bytes(), DefaultFilePermissions); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}

	logger.Infow("Wrote config", logger.FieldFile, path)
	return path, nil
}

// DefaultConfig returns the configuration SetDefaults describes
func DefaultConfig() *Config {
	return &Config{
		Mirror: MirrorConfig{Marker: DefaultMarker, Defaults: []DefaultLiteral{}},
		Log:    LogConfig{Theme: DefaultLogTheme},
		Watch: WatchConfig{
			DebounceMS:       DefaultDebounceMS,
			MaxRunsPerMinute: DefaultMaxRunsPerMinute,
		},
	}
}
