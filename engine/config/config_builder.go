package config

import "log"

// ConfigBuilderOption is a functional option for configuring a config store.
// Use the With* functions to create options.
type ConfigBuilderOption func(c *config)

// WithDefinitions registers additional key definitions.
//
// Parameters:
//   - defs: definitions to add or replace
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithDefinitions(defs ...Definition) ConfigBuilderOption {
	return func(c *config) {
		for _, d := range defs {
			c.defs[d.Key] = d
		}
	}
}

// WithValues seeds explicit values without notifying observers.
//
// Parameters:
//   - values: key/value pairs in raw string form
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithValues(values map[string]string) ConfigBuilderOption {
	return func(c *config) {
		for k, v := range values {
			c.values[k] = v
		}
	}
}

// WithSafeMode makes keys with a safe-mode value use it in place of their default.
//
// Parameters:
//   - enabled: true to enable safe mode
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithSafeMode(enabled bool) ConfigBuilderOption {
	return func(c *config) {
		c.safeMode = enabled
	}
}

// WithFile loads the given TOML or YAML file during construction.
// A missing or malformed file is logged and otherwise ignored.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithFile(path string) ConfigBuilderOption {
	return func(c *config) {
		if err := c.Load(path); err != nil {
			log.Printf("[Config] failed to load %s: %v", path, err)
		}
	}
}

// WithWatch reloads the given file whenever it changes on disk.
//
// Parameters:
//   - path: the settings file
//
// Returns:
//   - ConfigBuilderOption: option function to apply
func WithWatch(path string) ConfigBuilderOption {
	return func(c *config) {
		if err := c.Watch(path); err != nil {
			log.Printf("[Config] failed to watch %s: %v", path, err)
		}
	}
}
