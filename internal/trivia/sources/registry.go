// Package sources builds the configured question sources and keeps them in
// the order they are queried.
package sources

import (
	"fmt"

	"trivia/internal/platform/config"
	"trivia/internal/trivia/models"
	"trivia/internal/trivia/ports"
	"trivia/internal/trivia/sources/delimited"
	"trivia/internal/trivia/sources/document"
	"trivia/internal/trivia/sources/keyvalue"
	"trivia/internal/trivia/sources/relational"
)

// Registry maintains the registered sources in registration order.
type Registry struct {
	order   []models.SourceName
	sources map[models.SourceName]ports.Source
}

// NewRegistry creates a new empty registry
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[models.SourceName]ports.Source),
	}
}

// Register adds a source to the registry
func (r *Registry) Register(s ports.Source) error {
	name := s.Name()
	if !name.IsValid() {
		return fmt.Errorf("source %q is not a known store", name)
	}
	if _, exists := r.sources[name]; exists {
		return fmt.Errorf("source %s already registered", name)
	}
	r.sources[name] = s
	r.order = append(r.order, name)
	return nil
}

// Get retrieves a source by name
func (r *Registry) Get(name models.SourceName) (ports.Source, bool) {
	s, ok := r.sources[name]
	return s, ok
}

// All returns the sources in registration order.
func (r *Registry) All() []ports.Source {
	result := make([]ports.Source, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.sources[name])
	}
	return result
}

// Len reports how many sources are registered.
func (r *Registry) Len() int {
	return len(r.order)
}

// FromConfig builds one adapter per enabled source, in configured order.
func FromConfig(cfg *config.Config) (*Registry, error) {
	reg := NewRegistry()
	for _, sc := range cfg.EnabledSources() {
		src, err := build(cfg, sc)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", sc.Name, err)
		}
		if err := reg.Register(src); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func build(cfg *config.Config, sc config.Source) (ports.Source, error) {
	name, err := models.ParseSourceName(sc.Name)
	if err != nil {
		return nil, err
	}

	switch sc.Type {
	case config.SourceRelational:
		return relational.New(name, sc.Driver, sc.DSN)
	case config.SourceDelimited:
		return delimited.New(name, sc.DSN, sc.Table, sc.Column), nil
	case config.SourceDocument:
		return document.New(name, sc.DSN, sc.Database, sc.Collection,
			document.WithLanguage(sc.Language),
			document.WithSelectionTimeout(cfg.FetchTimeout),
		), nil
	case config.SourceKeyValue:
		return keyvalue.New(name, cfg.RedisConfig(sc), keyvalue.WithKeyPattern(sc.KeyPattern)), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", sc.Type)
	}
}
