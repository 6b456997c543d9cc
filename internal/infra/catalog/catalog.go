package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fardannozami/finkidz/internal/domain"
)

const (
	Kind                   = "catalog"
	SupportedSchemaVersion = 1
)

//go:embed lessons.yaml
var defaultCatalog []byte

type document struct {
	Kind          string                `yaml:"kind"`
	SchemaVersion int                   `yaml:"schema_version"`
	Lessons       []domain.Lesson       `yaml:"lessons"`
	Links         []domain.ResourceLink `yaml:"links"`
}

// Catalog is an ordered, immutable lesson list plus its external resource links.
type Catalog struct {
	lessons []domain.Lesson
	index   map[string]int
	links   []domain.ResourceLink
}

var _ domain.Catalog = (*Catalog)(nil)

// Default returns the built-in lesson catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Parse(b []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != Kind {
		return nil, fmt.Errorf("kind must be %q, got %q", Kind, doc.Kind)
	}
	if doc.SchemaVersion != SupportedSchemaVersion {
		return nil, fmt.Errorf("unsupported schema_version %d", doc.SchemaVersion)
	}
	c, err := New(doc.Lessons)
	if err != nil {
		return nil, err
	}
	if err := c.setLinks(doc.Links); err != nil {
		return nil, err
	}
	return c, nil
}

// New validates lessons and builds a catalog preserving their order.
func New(lessons []domain.Lesson) (*Catalog, error) {
	c := &Catalog{
		lessons: make([]domain.Lesson, 0, len(lessons)),
		index:   make(map[string]int, len(lessons)),
	}
	for _, l := range lessons {
		if err := l.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[l.ID]; dup {
			return nil, fmt.Errorf("duplicate lesson id %q", l.ID)
		}
		c.index[l.ID] = len(c.lessons)
		c.lessons = append(c.lessons, l)
	}
	return c, nil
}

func (c *Catalog) setLinks(links []domain.ResourceLink) error {
	seen := make(map[string]bool, len(links))
	for _, l := range links {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.ID] {
			return fmt.Errorf("duplicate link id %q", l.ID)
		}
		seen[l.ID] = true
	}
	c.links = append([]domain.ResourceLink(nil), links...)
	return nil
}

// Links returns the resource links in catalog order.
func (c *Catalog) Links() []domain.ResourceLink {
	return append([]domain.ResourceLink(nil), c.links...)
}

func (c *Catalog) Lessons() []domain.Lesson {
	return append([]domain.Lesson(nil), c.lessons...)
}

func (c *Catalog) Count() int { return len(c.lessons) }

func (c *Catalog) Lookup(id string) (domain.Lesson, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Lesson{}, false
	}
	return c.lessons[i], true
}
