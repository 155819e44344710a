// Package outline models the ordered section list composed before a project
// exists: hand-edited titles, inserts and removals that keep positions dense,
// and the service's outline suggestion call.
package outline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"draftline/internal/api"
)

// The service accepts outline suggestions of 3 to 15 items.
const (
	MinItems = 3
	MaxItems = 15
)

// Outline is an ordered list of section titles with dense 1..N positions.
type Outline struct {
	Items []api.SectionInput `yaml:"sections" json:"sections"`
}

// Default returns the starting outline offered by the creation wizard.
func Default() Outline {
	return Outline{Items: []api.SectionInput{
		{Title: "Overview", Position: 1},
		{Title: "Insights", Position: 2},
		{Title: "Next steps", Position: 3},
	}}
}

// FromTitles builds an outline with positions assigned in order.
func FromTitles(titles []string) Outline {
	var o Outline
	for i, t := range titles {
		o.Items = append(o.Items, api.SectionInput{Title: t, Position: i + 1})
	}
	return o
}

// Len returns the number of sections.
func (o Outline) Len() int { return len(o.Items) }

// Insert adds a section at index i (0-based) and renumbers. An index past the
// end appends.
func (o *Outline) Insert(i int, title string) {
	if i < 0 {
		i = 0
	}
	if i > len(o.Items) {
		i = len(o.Items)
	}
	o.Items = append(o.Items, api.SectionInput{})
	copy(o.Items[i+1:], o.Items[i:])
	o.Items[i] = api.SectionInput{Title: title}
	o.renumber()
}

// Append adds a section at the end.
func (o *Outline) Append(title string) {
	o.Insert(len(o.Items), title)
}

// Remove deletes the section at index i (0-based) and renumbers.
func (o *Outline) Remove(i int) error {
	if i < 0 || i >= len(o.Items) {
		return fmt.Errorf("no section at index %d", i)
	}
	o.Items = append(o.Items[:i], o.Items[i+1:]...)
	o.renumber()
	return nil
}

// SetTitle replaces the title of the section at index i.
func (o *Outline) SetTitle(i int, title string) error {
	if i < 0 || i >= len(o.Items) {
		return fmt.Errorf("no section at index %d", i)
	}
	o.Items[i].Title = title
	return nil
}

// Validate checks the outline is submittable: at least one section, no blank
// titles, dense positions.
func (o Outline) Validate() error {
	if len(o.Items) == 0 {
		return fmt.Errorf("outline needs at least one section")
	}
	for i, item := range o.Items {
		if strings.TrimSpace(item.Title) == "" {
			return fmt.Errorf("section %d has an empty title", i+1)
		}
		if item.Position != i+1 {
			return fmt.Errorf("section %q has position %d, want %d", item.Title, item.Position, i+1)
		}
	}
	return nil
}

func (o *Outline) renumber() {
	for i := range o.Items {
		o.Items[i].Position = i + 1
	}
}

// FromYAML parses an outline file. Positions in the file are ignored and
// reassigned from list order.
func FromYAML(data []byte) (Outline, error) {
	var o Outline
	if err := yaml.Unmarshal(data, &o); err != nil {
		return Outline{}, fmt.Errorf("invalid outline yaml: %w", err)
	}
	o.renumber()
	if err := o.Validate(); err != nil {
		return Outline{}, err
	}
	return o, nil
}

// FromFile reads an outline YAML file from the given path.
func FromFile(path string) (Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Outline{}, err
	}
	return FromYAML(data)
}

// ToYAML serializes the outline for saving next to a project.
func (o Outline) ToYAML() ([]byte, error) {
	return yaml.Marshal(o)
}

// Suggester is the slice of the service the helper needs.
type Suggester interface {
	SuggestOutline(ctx context.Context, topic, docType string, itemCount int) ([]string, error)
}

// Suggest asks the service for titles and returns a fresh outline. The item
// count is clamped to the range the service accepts.
func Suggest(ctx context.Context, svc Suggester, topic, docType string, itemCount int) (Outline, error) {
	if strings.TrimSpace(topic) == "" {
		return Outline{}, fmt.Errorf("topic is required for outline suggestion")
	}
	if itemCount < MinItems {
		itemCount = MinItems
	}
	if itemCount > MaxItems {
		itemCount = MaxItems
	}
	titles, err := svc.SuggestOutline(ctx, topic, docType, itemCount)
	if err != nil {
		return Outline{}, err
	}
	return FromTitles(titles), nil
}
