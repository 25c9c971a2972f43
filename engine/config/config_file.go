package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileFormat selects the settings codec from a file extension.
type fileFormat int

const (
	formatTOML fileFormat = iota
	formatYAML
)

func formatFor(path string) (fileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("unsupported settings file extension %q", filepath.Ext(path))
}

func (c *config) Load(path string) error {
	values, err := c.readFile(path)
	if err != nil {
		return err
	}
	c.setMany(values)
	return nil
}

// readFile decodes a settings file into raw string values.
func (c *config) readFile(path string) (map[string]string, error) {
	format, err := formatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	decoded := make(map[string]any)
	switch format {
	case formatTOML:
		err = toml.Unmarshal(data, &decoded)
	case formatYAML:
		err = yaml.Unmarshal(data, &decoded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode settings file %s: %w", path, err)
	}

	values := make(map[string]string, len(decoded))
	for k, v := range decoded {
		s, err := rawString(v)
		if err != nil {
			return nil, fmt.Errorf("setting %q: %w", k, err)
		}
		values[k] = s
	}
	return values, nil
}

func (c *config) Save(path string) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}

	c.mu.RLock()
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = typedValue(c.defs[k], v)
	}
	c.mu.RUnlock()

	var data []byte
	switch format {
	case formatTOML:
		data, err = toml.Marshal(out)
	case formatYAML:
		data, err = yaml.Marshal(out)
	}
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// rawString converts a decoded TOML/YAML scalar into the store's string form.
func rawString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.Itoa(boolInt(t)), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}

// typedValue converts a stored string back to a native value for encoding.
// Values that do not parse as their declared kind are written as strings.
func typedValue(d Definition, s string) any {
	switch d.Kind {
	case KindInt:
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			return n
		}
	case KindBool:
		if b, ok := parseBool(s); ok {
			return b
		}
	case KindFloat:
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	}
	return s
}
