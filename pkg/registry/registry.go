package registry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/grovetools/workon/command"
	"github.com/grovetools/workon/errors"
	"github.com/grovetools/workon/pkg/project"
	"github.com/sirupsen/logrus"
)

// Registry maps event names to descriptors. It is filled once by Initialize
// and read-only afterwards.
type Registry struct {
	catalogs []Catalog
	logger   *logrus.Entry

	once        sync.Once
	initialized atomic.Bool
	byName      map[string]*Descriptor
	order       []string
}

var _ project.EventValidator = (*Registry)(nil)

// New returns an uninitialized registry over the given catalogs, registered
// in argument order.
func New(logger *logrus.Entry, catalogs ...Catalog) *Registry {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Registry{catalogs: catalogs, logger: logger}
}

// Initialize registers every complete descriptor. Incomplete or duplicate
// descriptors are skipped with a warning. Calling it again does nothing.
func (r *Registry) Initialize() {
	r.once.Do(func() {
		r.byName = make(map[string]*Descriptor)
		sb := command.NewSafeBuilder()
		for _, cat := range r.catalogs {
			for i := range cat.Descriptors {
				d := cat.Descriptors[i]
				if !d.complete() || sb.Validate("eventName", d.Name) != nil {
					r.logger.WithField("catalog", cat.Name).
						Warnf("Skipping invalid command descriptor %q", d.Name)
					continue
				}
				if _, dup := r.byName[d.Name]; dup {
					r.logger.WithField("catalog", cat.Name).
						Warnf("Skipping duplicate command descriptor %q", d.Name)
					continue
				}
				r.byName[d.Name] = &d
				r.order = append(r.order, d.Name)
			}
			r.logger.WithField("catalog", cat.Name).Debug("Registered catalog")
		}
		r.initialized.Store(true)
	})
}

// Initialized reports whether Initialize has run.
func (r *Registry) Initialized() bool {
	return r.initialized.Load()
}

func (r *Registry) ensureInitialized() error {
	if !r.initialized.Load() {
		return errors.RegistryNotInitialized()
	}
	return nil
}

// ByName returns the descriptor for an event.
func (r *Registry) ByName(name string) (*Descriptor, error) {
	if err := r.ensureInitialized(); err != nil {
		return nil, err
	}
	d, ok := r.byName[name]
	if !ok {
		return nil, errors.EventNotFound(name)
	}
	return d, nil
}

// Names lists event names in registration order.
func (r *Registry) Names() ([]string, error) {
	if err := r.ensureInitialized(); err != nil {
		return nil, err
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out, nil
}

// TmuxEnabled returns descriptors with a tmux hint, highest priority first.
// Equal priorities keep registration order.
func (r *Registry) TmuxEnabled() ([]*Descriptor, error) {
	if err := r.ensureInitialized(); err != nil {
		return nil, err
	}
	var out []*Descriptor
	for _, name := range r.order {
		if d := r.byName[name]; d.Tmux != nil {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Tmux.Priority > out[j].Tmux.Priority
	})
	return out, nil
}

// UIEntry is one row of the management listing.
type UIEntry struct {
	Display     string `json:"display"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ForManageUI lists every event sorted by display name.
func (r *Registry) ForManageUI() ([]UIEntry, error) {
	if err := r.ensureInitialized(); err != nil {
		return nil, err
	}
	entries := make([]UIEntry, 0, len(r.order))
	for _, name := range r.order {
		d := r.byName[name]
		entries = append(entries, UIEntry{
			Display:     d.DisplayName,
			Name:        d.Name,
			Description: d.Description,
			Category:    d.Category,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Display < entries[j].Display })
	return entries, nil
}

// ValidateEvent checks an event's configuration value.
func (r *Registry) ValidateEvent(name string, value interface{}) error {
	d, err := r.ByName(name)
	if err != nil {
		return err
	}
	if err := d.Validate(value); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("%s: %v", name, err)).WithDetail("event", name)
	}
	return nil
}
