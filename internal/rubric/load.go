package rubric

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	delim       = "."
	ablationKey = "_ablation"
)

// Load reads a rubric file layered over the defaults. YAML files (.yaml, .yml) go through the
// koanf YAML parser; anything else is read as JSON. Keys the rubric does not define are rejected.
func Load(path string) (Config, error) {
	raw, err := ReadRaw(path)
	if err != nil {
		return Config{}, err
	}
	return Default().WithOverrides(raw)
}

// ReadRaw parses a rubric file into a plain map without applying defaults, for schema
// validation of the document as written.
func ReadRaw(path string) (map[string]any, error) {
	if path == "" {
		return nil, &ConfigError{Message: "rubric path is empty"}
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		k := koanf.New(delim)
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, &ConfigError{Message: fmt.Sprintf("failed to load rubric file %s", path), Cause: err}
		}
		raw = k.Raw()
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigError{Message: fmt.Sprintf("failed to read rubric file %s", path), Cause: err}
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &ConfigError{Message: "failed to parse rubric JSON", Cause: err}
		}
	}
	return raw, nil
}

// WithOverrides returns a new Config with the overrides merged in. Nested objects merge key by
// key; lists and scalars replace the existing value. The receiver is never modified.
func (c Config) WithOverrides(overrides map[string]any) (Config, error) {
	base, err := c.asMap()
	if err != nil {
		return Config{}, err
	}
	if err := checkKeys(base, overrides, ""); err != nil {
		return Config{}, err
	}

	k := koanf.New(delim)
	if err := k.Load(confmap.Provider(base, ""), nil); err != nil {
		return Config{}, &ConfigError{Message: "failed to load base configuration", Cause: err}
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, ""), nil); err != nil {
			return Config{}, &ConfigError{Message: "failed to merge overrides", Cause: err}
		}
	}

	var out Config
	if err := k.UnmarshalWithConf("", &out, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return Config{}, &ConfigError{Message: "failed to decode merged configuration", Cause: err}
	}
	if err := out.Validate(); err != nil {
		return Config{}, err
	}
	return out, nil
}

// ToMap renders the configuration in its JSON object shape
func (c Config) ToMap() (map[string]any, error) {
	return c.asMap()
}

func (c Config) asMap() (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, &ConfigError{Message: "failed to encode configuration", Cause: err}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &ConfigError{Message: "failed to decode configuration map", Cause: err}
	}
	return m, nil
}

// checkKeys rejects override keys that the base configuration does not define
func checkKeys(base, overrides map[string]any, path string) error {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if path == "" && key == ablationKey {
			continue
		}
		full := key
		if path != "" {
			full = path + delim + key
		}

		baseValue, ok := base[key]
		if !ok {
			return &ConfigError{Message: fmt.Sprintf("unknown configuration key %q", full)}
		}

		baseMap, isMap := baseValue.(map[string]any)
		if !isMap {
			continue
		}
		switch v := overrides[key].(type) {
		case map[string]any:
			if err := checkKeys(baseMap, v, full); err != nil {
				return err
			}
		case nil:
		default:
			return &ConfigError{Message: fmt.Sprintf("configuration key %q must be an object", full)}
		}
	}
	return nil
}
