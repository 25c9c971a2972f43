package config

import (
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Observer receives change notifications for subscribed keys.
// The value is the new raw string form of the setting.
type Observer func(key, value string)

// Config is a typed key/value settings store with change notification.
//
// Values are kept in string form and parsed by the Definition registered for the key.
// Integer and float values with a declared range are clamped on read.
type Config interface {
	// GetInt returns the integer value of key, or 0 if the key is unknown or malformed.
	//
	// Parameters:
	//   - key: the setting name
	//
	// Returns:
	//   - int: the parsed and clamped value
	GetInt(key string) int

	// GetBool returns the boolean value of key. "1" and "true" are true.
	//
	// Parameters:
	//   - key: the setting name
	//
	// Returns:
	//   - bool: the parsed value
	GetBool(key string) bool

	// GetFloat returns the float value of key, or 0 if the key is unknown or malformed.
	//
	// Parameters:
	//   - key: the setting name
	//
	// Returns:
	//   - float64: the parsed and clamped value
	GetFloat(key string) float64

	// GetString returns the raw string value of key.
	//
	// Parameters:
	//   - key: the setting name
	//
	// Returns:
	//   - string: the stored value, the default, or "" if unknown
	GetString(key string) string

	// SetInt stores an integer value and notifies observers if it changed.
	SetInt(key string, value int)

	// SetBool stores a boolean value and notifies observers if it changed.
	SetBool(key string, value bool)

	// SetFloat stores a float value and notifies observers if it changed.
	SetFloat(key string, value float64)

	// SetString stores a raw value and notifies observers if it changed.
	SetString(key string, value string)

	// IsSet reports whether key holds an explicit value rather than its default.
	IsSet(key string) bool

	// Define registers additional key definitions. Existing definitions are replaced.
	//
	// Parameters:
	//   - defs: the definitions to register
	Define(defs ...Definition)

	// Definition looks up the declaration of key.
	//
	// Returns:
	//   - Definition: the declaration
	//   - bool: false if the key was never defined
	Definition(key string) (Definition, bool)

	// Keys returns every defined key in sorted order.
	Keys() []string

	// Subscribe registers an observer for the given keys.
	//
	// Observers are invoked synchronously from the goroutine that changed the value,
	// with the store's observer lock held. An observer must not call any Set method,
	// Subscribe, or Unsubscribe; doing so deadlocks. Reading values is allowed.
	// Observers that need to act on a change should record it and apply it later.
	//
	// Parameters:
	//   - observer: the callback to invoke
	//   - keys: the keys to watch
	//
	// Returns:
	//   - int: a subscription id for Unsubscribe
	Subscribe(observer Observer, keys ...string) int

	// Unsubscribe removes a subscription created by Subscribe.
	Unsubscribe(id int)

	// Load reads settings from a TOML or YAML file, chosen by extension.
	// Observers are notified for every value that changed.
	//
	// Parameters:
	//   - path: the file to read
	//
	// Returns:
	//   - error: error if the file cannot be read or parsed
	Load(path string) error

	// Save writes every explicitly set value to a TOML or YAML file, chosen by extension.
	//
	// Parameters:
	//   - path: the file to write
	//
	// Returns:
	//   - error: error if the file cannot be encoded or written
	Save(path string) error

	// Watch reloads the given file whenever it changes on disk.
	// Reload errors are logged and the previous values are kept.
	//
	// Parameters:
	//   - path: the file to watch
	//
	// Returns:
	//   - error: error if the watcher cannot be created
	Watch(path string) error

	// Close stops the file watcher, if any.
	Close() error
}

type subscription struct {
	observer Observer
	keys     map[string]struct{}
}

// config is the implementation of the Config interface.
type config struct {
	mu     sync.RWMutex
	values map[string]string
	defs   map[string]Definition

	obsMu  sync.Mutex
	subs   map[int]*subscription
	nextID int

	safeMode bool

	watchMu   sync.Mutex
	watcher   *fsnotify.Watcher
	watchDone chan struct{}
}

var _ Config = &config{}

// NewConfig creates a Config populated with the renderer key definitions.
// Options are applied in order after the defaults are registered.
//
// Parameters:
//   - options: functional options to configure the store
//
// Returns:
//   - Config: the configured store
func NewConfig(options ...ConfigBuilderOption) Config {
	c := &config{
		values: make(map[string]string),
		defs:   make(map[string]Definition),
		subs:   make(map[int]*subscription),
	}
	c.Define(RenderingDefinitions()...)
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *config) Define(defs ...Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range defs {
		c.defs[d.Key] = d
	}
}

func (c *config) Definition(key string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.defs[key]
	return d, ok
}

func (c *config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.defs))
	for k := range c.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// raw returns the stored value or the applicable default. Callers hold mu.
func (c *config) raw(key string) string {
	if v, ok := c.values[key]; ok {
		return v
	}
	d, ok := c.defs[key]
	if !ok {
		return ""
	}
	if c.safeMode && d.SafeMode != "" {
		return d.SafeMode
	}
	return d.Default
}

func (c *config) GetString(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.raw(key)
}

func (c *config) GetInt(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.raw(key)
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		if b, ok := parseBool(s); ok {
			v = boolInt(b)
		} else {
			return 0
		}
	}
	if d, ok := c.defs[key]; ok && d.HasRange {
		v = max(int(d.Min), min(v, int(d.Max)))
	}
	return v
}

func (c *config) GetFloat(key string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, err := strconv.ParseFloat(strings.TrimSpace(c.raw(key)), 64)
	if err != nil {
		return 0
	}
	if d, ok := c.defs[key]; ok && d.HasRange {
		v = max(d.Min, min(v, d.Max))
	}
	return v
}

func (c *config) GetBool(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, _ := parseBool(c.raw(key))
	return b
}

func (c *config) IsSet(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.values[key]
	return ok
}

func (c *config) SetInt(key string, value int) {
	c.SetString(key, strconv.Itoa(value))
}

func (c *config) SetBool(key string, value bool) {
	c.SetString(key, strconv.Itoa(boolInt(value)))
}

func (c *config) SetFloat(key string, value float64) {
	c.SetString(key, strconv.FormatFloat(value, 'g', -1, 64))
}

func (c *config) SetString(key string, value string) {
	c.setMany(map[string]string{key: value})
}

// setMany stores all values and then notifies observers of the keys that changed,
// in sorted key order.
func (c *config) setMany(values map[string]string) {
	c.mu.Lock()
	changed := make([]string, 0, len(values))
	for k, v := range values {
		if old := c.raw(k); old == v {
			if _, explicit := c.values[k]; explicit {
				continue
			}
			c.values[k] = v
			continue
		}
		c.values[k] = v
		changed = append(changed, k)
	}
	c.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)

	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	for _, k := range changed {
		v := values[k]
		for _, id := range c.sortedSubIDs() {
			s := c.subs[id]
			if _, ok := s.keys[k]; ok {
				s.observer(k, v)
			}
		}
	}
}

func (c *config) sortedSubIDs() []int {
	ids := make([]int, 0, len(c.subs))
	for id := range c.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (c *config) Subscribe(observer Observer, keys ...string) int {
	if observer == nil {
		panic("config: nil observer")
	}
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	s := &subscription{observer: observer, keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	c.nextID++
	c.subs[c.nextID] = s
	return c.nextID
}

func (c *config) Unsubscribe(id int) {
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	delete(c.subs, id)
}

func (c *config) Close() error {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	if c.watcher == nil {
		return nil
	}
	close(c.watchDone)
	err := c.watcher.Close()
	c.watcher = nil
	if err != nil {
		log.Printf("[Config] failed to close watcher: %v", err)
	}
	return err
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off", "":
		return false, true
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n != 0, true
	}
	return false, false
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
