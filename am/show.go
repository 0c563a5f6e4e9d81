package am

import (
	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/mirror/errors"
)

// Formats accepted by Render
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render serializes v, a *Config or *ConfigIntrospection, in format
func Render(v interface{}, format string) ([]byte, error) {
	switch format {
	case FormatTOML, "":
		data, err := toml.Marshal(v)
		return data, errors.Wrap(err, "failed to marshal toml")
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal json")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(v)
		return data, errors.Wrap(err, "failed to marshal yaml")
	default:
		return nil, errors.NewInvalidRequestError("unknown format %q (use toml, json or yaml)", format)
	}
}
