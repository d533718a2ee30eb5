// Package dispatch turns one free-text launcher query into a single action
// against the password store and returns the resulting rows.
package dispatch

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/matsen/alfpass/internal/alfred"
	"github.com/matsen/alfpass/internal/clipboard"
	"github.com/matsen/alfpass/internal/password"
)

// Store is the persistence the dispatcher acts on.
type Store interface {
	Save(label, secret string) error
	Get(label string) (string, error)
	List() ([]string, error)
	Delete(label string) (bool, error)
	Clear() (int, error)
}

// Generator returns a random password of the given length.
type Generator func(length int) (string, error)

// Dispatcher classifies queries and runs the matching action. It keeps no
// state between calls to Handle.
type Dispatcher struct {
	store         Store
	generate      Generator
	copier        clipboard.Copier
	copyEnabled   bool
	defaultLength int
	maxLength     int
	shortLabels   map[string]bool
	now           func() time.Time
	logger        *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithGenerator replaces the password generator.
func WithGenerator(g Generator) Option {
	return func(d *Dispatcher) { d.generate = g }
}

// WithCopier copies every secret the dispatcher hands back through c.
func WithCopier(c clipboard.Copier) Option {
	return func(d *Dispatcher) {
		d.copier = c
		d.copyEnabled = c != nil
	}
}

// WithLengths sets the regenerate default and the largest accepted length.
func WithLengths(defaultLength, maxLength int) Option {
	return func(d *Dispatcher) {
		d.defaultLength = defaultLength
		d.maxLength = maxLength
	}
}

// WithShortLabels exempts labels of one or two characters from the
// still-typing guard on "<length> <label>".
func WithShortLabels(labels []string) Option {
	return func(d *Dispatcher) {
		for _, l := range labels {
			d.shortLabels[l] = true
		}
	}
}

// WithClock overrides the clock used for placeholder labels.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithLogger sets the logger. Secrets are never logged.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// New returns a Dispatcher over store.
func New(store Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:         store,
		generate:      password.Generate,
		copier:        clipboard.Nop{},
		defaultLength: password.DefaultLength,
		maxLength:     512,
		shortLabels:   make(map[string]bool),
		now:           time.Now,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle classifies raw and runs exactly one action. It always returns at
// least one row; failures become error rows instead of escaping.
func (d *Dispatcher) Handle(raw string) (items []alfred.Item) {
	q := Parse(raw)
	r := d.classify(q)

	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("action panicked", "rule", r.name, "panic", p)
			items = []alfred.Item{alfred.Info(titleUnexpected, fmt.Sprintf("unexpected failure: %v", p))}
		}
	}()

	d.logger.Debug("dispatching query", "rule", r.name, "tokens", q.Len())

	items, err := r.run(d, q)
	if err != nil {
		d.logger.Error("action failed", "rule", r.name, "error", err)
		return []alfred.Item{alfred.Error(titleStorageError, fmt.Errorf("%s: %w", r.name, err))}
	}
	if len(items) == 0 {
		return []alfred.Item{alfred.Info(titleNotFound, notFoundHint)}
	}
	return items
}

// Rule returns the name of the rule raw is classified under.
func (d *Dispatcher) Rule(raw string) string {
	return d.classify(Parse(raw)).name
}
