// internal/platform/registry/source_registry.go
package registry

import (
	"fmt"
	"strings"
	"sync"

	"arlo/internal/core/domain"
	"arlo/internal/platform/logx"
	"arlo/internal/platform/validator"
)

// Entry describe una fuente configurable: nombre, plantilla de URL con
// {keyword} y si participa en las búsquedas.
type Entry struct {
	Name     string `yaml:"name"`
	Template string `yaml:"url"`
	Enabled  bool   `yaml:"enabled"`
}

// DefaultEntries retorna el catálogo por defecto: los tres proveedores del
// servicio público, todos habilitados, en este orden.
func DefaultEntries() []Entry {
	providers := []string{"rottentomatoes", "themoviedb", "thetvdb"}
	entries := make([]Entry, len(providers))
	for i, p := range providers {
		entries[i] = Entry{Name: p, Template: DefaultTemplate(p), Enabled: true}
	}
	return entries
}

// Catalog mantiene la lista ordenada de fuentes y construye las URLs concretas
// para cada búsqueda. Implementa ports.SourceCatalog.
//
// El orden de registro es significativo: define el orden de los resultados y,
// por tanto, qué fuente gana ante identificadores duplicados.
type Catalog struct {
	mu      sync.RWMutex
	entries []Entry
	index   map[string]int
	logger  logx.Logger
}

// NewCatalog crea un catálogo vacío.
func NewCatalog(logger logx.Logger) *Catalog {
	if logger == nil {
		logger = logx.NewNop()
	}
	return &Catalog{
		index:  make(map[string]int),
		logger: logger.With("component", "catalog"),
	}
}

// NewCatalogFromEntries crea un catálogo y registra entries en orden.
// Falla en la primera entrada inválida.
func NewCatalogFromEntries(entries []Entry, logger logx.Logger) (*Catalog, error) {
	c := NewCatalog(logger)
	for _, e := range entries {
		if err := c.Register(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register agrega una fuente al final del catálogo.
func (c *Catalog) Register(e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e.Name = strings.TrimSpace(e.Name)
	e.Template = strings.TrimSpace(e.Template)

	if e.Name == "" {
		return domain.ErrEmptySourceName
	}
	if !validator.IsSourceName(e.Name) {
		return fmt.Errorf("invalid source name %q", e.Name)
	}
	if _, exists := c.index[e.Name]; exists {
		return fmt.Errorf("source %s is already registered", e.Name)
	}
	if !validator.IsTemplate(e.Template) {
		return fmt.Errorf("source %s: url template %q must be an http(s) url containing %s",
			e.Name, e.Template, validator.Placeholder)
	}

	c.index[e.Name] = len(c.entries)
	c.entries = append(c.entries, e)
	c.logger.Debug("source registered", "name", e.Name, "enabled", e.Enabled)

	return nil
}

// Build construye las fuentes habilitadas para keyword, en orden de catálogo.
func (c *Catalog) Build(keyword string) ([]domain.Source, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if validator.IsEmpty(keyword) {
		return nil, domain.ErrEmptyKeyword
	}

	sources := make([]domain.Source, 0, len(c.entries))
	for _, e := range c.entries {
		if !e.Enabled {
			continue
		}
		src, err := domain.NewSource(e.Name, Expand(e.Template, keyword))
		if err != nil {
			return nil, fmt.Errorf("failed to build source %s: %w", e.Name, err)
		}
		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, domain.ErrNoSources
	}

	c.logger.Debug("sources built", "count", len(sources), "registered", len(c.entries))
	return sources, nil
}

// List retorna los nombres registrados en orden de catálogo.
func (c *Catalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

// Get retorna la entrada registrada con ese nombre.
func (c *Catalog) Get(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, exists := c.index[name]
	if !exists {
		return Entry{}, false
	}
	return c.entries[i], true
}

// IsRegistered verifica si una fuente está registrada.
func (c *Catalog) IsRegistered(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.index[name]
	return exists
}

// Enabled cuenta las fuentes que participarán en una búsqueda.
func (c *Catalog) Enabled() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, e := range c.entries {
		if e.Enabled {
			n++
		}
	}
	return n
}
