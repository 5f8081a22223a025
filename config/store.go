package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/grovetools/workon/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// TransientNamespaces are top-level keys held in memory only. They are never
// written to the backing file.
var TransientNamespaces = []string{"pkg", "work"}

// Store is the key/value capability the rest of workon consumes. Keys are
// dotted paths ("projects.demo.path").
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}) error
	Has(key string) bool
	Delete(key string) error
	Path() string
}

// FileStore is a Store persisted as a single YAML or TOML document. The whole
// file is rewritten on each mutation.
type FileStore struct {
	mu        sync.Mutex
	path      string
	format    string
	data      map[string]interface{}
	transient map[string]interface{}
}

var _ Store = (*FileStore)(nil)

// Open loads the store at path. A missing file yields an empty store; the
// file is created on first Set.
func Open(path string) (*FileStore, error) {
	s := &FileStore{
		path:      path,
		format:    formatFor(path),
		data:      make(map[string]interface{}),
		transient: make(map[string]interface{}),
	}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	if err := s.decode(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse config file").
			WithDetail("path", path)
	}
	return s, nil
}

// NewMemoryStore returns a store that is never persisted.
func NewMemoryStore(initial map[string]interface{}) *FileStore {
	s, _ := Open("")
	for k, v := range initial {
		s.data[k] = normalize(v)
	}
	return s
}

func formatFor(path string) string {
	if strings.HasSuffix(path, ".toml") {
		return "toml"
	}
	return "yaml"
}

func (s *FileStore) decode(raw []byte) error {
	var doc map[string]interface{}
	var err error
	switch s.format {
	case "toml":
		err = toml.Unmarshal(raw, &doc)
	default:
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return err
	}
	if doc != nil {
		s.data = normalize(doc).(map[string]interface{})
	}
	return nil
}

// Path returns the backing file, or "" for memory stores.
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the value at key.
func (s *FileStore) Get(key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lookup(s.rootFor(key), splitKey(key))
}

// GetString returns the value at key when it is a string, else def.
func (s *FileStore) GetString(key, def string) string {
	v, ok := s.Get(key)
	if !ok {
		return def
	}
	str, ok := v.(string)
	if !ok {
		return def
	}
	return str
}

// Has reports whether key is set.
func (s *FileStore) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set stores value at key, creating intermediate maps. A nil value removes
// the key.
func (s *FileStore) Set(key string, value interface{}) error {
	if value == nil {
		return s.Delete(key)
	}
	parts := splitKey(key)
	if len(parts) == 0 {
		return errors.InvalidInput("config key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.rootFor(key)
	for _, part := range parts[:len(parts)-1] {
		next, ok := node[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			node[part] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = normalize(value)

	if isTransient(key) {
		return nil
	}
	return s.save()
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileStore) Delete(key string) error {
	parts := splitKey(key)
	if len(parts) == 0 {
		return errors.InvalidInput("config key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.rootFor(key)
	for _, part := range parts[:len(parts)-1] {
		next, ok := node[part].(map[string]interface{})
		if !ok {
			return nil
		}
		node = next
	}
	delete(node, parts[len(parts)-1])

	if isTransient(key) {
		return nil
	}
	return s.save()
}

// Keys returns the persisted top-level keys in sorted order.
func (s *FileStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a deep copy of the persisted document.
func (s *FileStore) Snapshot() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DeepCopy(s.data).(map[string]interface{})
}

// UnmarshalKey decodes the value at key into target using yaml tags. A
// missing key leaves target untouched.
func (s *FileStore) UnmarshalKey(key string, target interface{}) error {
	v, ok := s.Get(key)
	if !ok {
		return nil
	}
	if err := Decode(v, target); err != nil {
		return fmt.Errorf("failed to decode config key '%s': %w", key, err)
	}
	return nil
}

func (s *FileStore) rootFor(key string) map[string]interface{} {
	if isTransient(key) {
		return s.transient
	}
	return s.data
}

// save writes the document atomically: temp file in the same directory,
// then rename.
func (s *FileStore) save() error {
	if s.path == "" {
		return nil
	}

	var out []byte
	var err error
	switch s.format {
	case "toml":
		out, err = toml.Marshal(s.data)
	default:
		out, err = yaml.Marshal(s.data)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}

func splitKey(key string) []string {
	var parts []string
	for _, p := range strings.Split(key, ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func isTransient(key string) bool {
	parts := splitKey(key)
	if len(parts) == 0 {
		return false
	}
	for _, ns := range TransientNamespaces {
		if parts[0] == ns {
			return true
		}
	}
	return false
}

func lookup(node map[string]interface{}, parts []string) (interface{}, bool) {
	if len(parts) == 0 {
		return nil, false
	}
	var cur interface{} = node
	for _, part := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
