// Package batch compiles several translation units described by one
// manifest file, mirror.batch.toml:
//
//	requires = ">= 0.3.0"
//
//	[[unit]]
//	name = "models"
//	input = "Models/ToDo.cs"
//	output = "wwwroot/js/models.js"
//
//	[[unit]]
//	input = "Scratch.cs"
//	output = "scratch.js"
//	unfiltered = true
//
// Relative paths are resolved against the manifest's directory.
package batch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/mirror/errors"
	"github.com/teranos/mirror/logger"
	"github.com/teranos/mirror/version"
)

// DefaultManifestName is used when `mirror batch` gets no path
const DefaultManifestName = "mirror.batch.toml"

// Manifest lists the units of a batch run
type Manifest struct {
	// Requires is an optional semver constraint on the mirror version
	Requires string `toml:"requires"`

	Units []Unit `toml:"unit"`

	// Path is the file the manifest was read from
	Path string `toml:"-"`
}

// Unit is one input file and where its modules go
type Unit struct {
	// Name identifies the unit in logs and results. Defaults to the input's base name.
	Name string `toml:"name"`

	Input string `toml:"input"`

	// Output is the generated file; empty writes to the runner's stdout
	Output string `toml:"output"`

	// Marker overrides the configured marker attribute for this unit
	Marker string `toml:"marker"`

	// Unfiltered translates every class, marked or not
	Unfiltered bool `toml:"unfiltered"`

	// Report, when set, receives the JSON compile report
	Report string `toml:"report"`
}

// LoadManifest reads and validates the manifest at path
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	md, err := toml.DecodeFile(path, &m)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "manifest %s", path)
		}
		return nil, errors.Wrapf(errors.ErrInvalidRequest, "failed to parse manifest %s: %s", path, err)
	}

	for _, key := range md.Undecoded() {
		logger.Warnw("Unknown manifest key", logger.FieldFile, path, "key", key.String())
	}

	m.Path = path
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate fills default unit names and rejects incomplete or ambiguous units
func (m *Manifest) Validate() error {
	if len(m.Units) == 0 {
		return errors.NewInvalidRequestError("manifest %s has no [[unit]] entries", m.Path)
	}

	seen := make(map[string]int, len(m.Units))
	for i := range m.Units {
		u := &m.Units[i]
		if strings.TrimSpace(u.Input) == "" {
			return errors.NewInvalidRequestError("unit %d has no input", i+1)
		}
		if u.Name == "" {
			u.Name = strings.TrimSuffix(filepath.Base(u.Input), filepath.Ext(u.Input))
		}
		if prev, ok := seen[u.Name]; ok {
			return errors.WithHint(
				errors.NewInvalidRequestError("units %d and %d are both named %q", prev+1, i+1, u.Name),
				"set a distinct name for each unit",
			)
		}
		seen[u.Name] = i
	}
	return nil
}

// CheckRequires verifies the running version satisfies Requires.
// Development builds satisfy every constraint.
func (m *Manifest) CheckRequires(info version.Info) error {
	if m.Requires == "" {
		return nil
	}

	constraint, err := semver.NewConstraint(m.Requires)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidRequest, "invalid version constraint %q: %s", m.Requires, err)
	}

	if info.IsDev() {
		logger.Debugw("Skipping version constraint for development build", "requires", m.Requires)
		return nil
	}

	current, err := info.Semver()
	if err != nil {
		return errors.Wrapf(err, "invalid mirror version %s", info.Version)
	}

	if !constraint.Check(current) {
		return errors.Newf("manifest requires mirror %s, but running %s", m.Requires, info.Version)
	}
	return nil
}

// Resolve returns p relative to the manifest's directory
func (m *Manifest) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || m.Path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(m.Path), p)
}
