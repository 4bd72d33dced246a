// Package filters decides which named objects are shown, by category.
package filters

import (
	"fmt"

	"github.com/gobwas/glob"
)

// CategoryTexture is the category consulted for material names.
const CategoryTexture = "texture"

// Rule shows or hides every name of a category matching a glob pattern.
type Rule struct {
	Category string
	Pattern  string
	Show     bool

	matcher glob.Glob
}

// System holds an ordered list of rules. The last matching rule decides;
// names no rule matches are visible.
type System struct {
	rules []Rule
}

func NewSystem() *System {
	return &System{}
}

// AddRule appends a rule. Patterns use '/' as separator, so "textures/*"
// does not match "textures/a/b" but "textures/**" does.
func (s *System) AddRule(category, pattern string, show bool) error {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return fmt.Errorf("filter pattern %q: %w", pattern, err)
	}
	s.rules = append(s.rules, Rule{
		Category: category,
		Pattern:  pattern,
		Show:     show,
		matcher:  g,
	})
	return nil
}

func (s *System) Rules() []Rule {
	return s.rules
}

func (s *System) Clear() {
	s.rules = nil
}

func (s *System) IsVisible(category, name string) bool {
	visible := true
	for _, r := range s.rules {
		if r.Category == category && r.matcher.Match(name) {
			visible = r.Show
		}
	}
	return visible
}
