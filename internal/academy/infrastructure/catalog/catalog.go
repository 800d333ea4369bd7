// Package catalog loads the academy lesson catalog from YAML.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/strand/internal/academy/domain"
	"github.com/felixgeelhaar/strand/internal/shared/infrastructure/security"
)

//go:embed lessons.yaml
var defaultLessons []byte

// YAMLCatalog is an immutable in-memory catalog.
type YAMLCatalog struct {
	lessons []domain.Lesson
	byID    map[string]int
}

// Load returns the embedded catalog, or the file at path when path is set.
func Load(path string) (*YAMLCatalog, error) {
	data := defaultLessons
	if path != "" {
		var err error
		if data, err = security.SafeReadFile(path); err != nil {
			return nil, fmt.Errorf("read lesson catalog: %w", err)
		}
	}
	return Parse(data)
}

// Parse decodes a catalog document.
func Parse(data []byte) (*YAMLCatalog, error) {
	var doc struct {
		Lessons []domain.Lesson `yaml:"lessons"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse lesson catalog: %w", err)
	}

	c := &YAMLCatalog{byID: make(map[string]int, len(doc.Lessons))}
	for _, lesson := range doc.Lessons {
		if err := lesson.Normalize(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[lesson.ID]; dup {
			return nil, fmt.Errorf("duplicate lesson id %q", lesson.ID)
		}
		c.byID[lesson.ID] = len(c.lessons)
		c.lessons = append(c.lessons, lesson)
	}
	return c, nil
}

// List implements domain.Catalog.
func (c *YAMLCatalog) List() []domain.Lesson {
	return append([]domain.Lesson(nil), c.lessons...)
}

// Get implements domain.Catalog.
func (c *YAMLCatalog) Get(id string) (domain.Lesson, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Lesson{}, fmt.Errorf("%w: %s", domain.ErrLessonNotFound, id)
	}
	return c.lessons[i], nil
}
