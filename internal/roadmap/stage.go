// Package roadmap holds the editable milestone document: the ordered stage
// list, its header text, the bounded undo history and the editor that ties
// mutations to history checkpoints.
package roadmap

import (
	"github.com/google/uuid"
)

const (
	DefaultStageTitle       = "New Milestone"
	DefaultStageDescription = "Describe what happens at this milestone."
	DefaultTitle            = "Project Roadmap"
	DefaultDescription      = "The journey from idea to launch, one milestone at a time."
)

// Palette is the fixed set of marker colors. New stages cycle through it by
// position.
var Palette = []string{
	"#3B82F6",
	"#10B981",
	"#F59E0B",
	"#EF4444",
	"#8B5CF6",
	"#EC4899",
	"#14B8A6",
	"#F97316",
}

// PaletteColor returns the palette entry for position i, wrapping around.
func PaletteColor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// Stage is one milestone on the road.
type Stage struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// Document is the editable unit: header text plus the ordered stages. Stage
// order is the timeline order and drives layout.
type Document struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Stages      []Stage `json:"stages"`
}

// NewID returns a fresh random stage identifier.
func NewID() string {
	return uuid.NewString()
}

// NewStage builds a stage with a generated id.
func NewStage(title, description, color string) Stage {
	return Stage{
		ID:          NewID(),
		Title:       title,
		Description: description,
		Color:       color,
	}
}

// DefaultDocument returns the built-in document used when nothing usable is
// persisted.
func DefaultDocument() *Document {
	seeds := []struct{ title, description string }{
		{"Discovery", "Interview users and map the problem space."},
		{"Design", "Sketch flows and agree on the scope of the first release."},
		{"Build", "Ship the core features behind a feature flag."},
		{"Beta", "Invite early adopters and collect feedback."},
		{"Launch", "Open the doors and celebrate with the team."},
	}
	doc := &Document{
		Title:       DefaultTitle,
		Description: DefaultDescription,
		Stages:      make([]Stage, 0, len(seeds)),
	}
	for i, s := range seeds {
		doc.Stages = append(doc.Stages, NewStage(s.title, s.description, PaletteColor(i)))
	}
	return doc
}

// Clone returns a deep copy that shares no memory with d.
func (d *Document) Clone() Document {
	out := Document{
		Title:       d.Title,
		Description: d.Description,
		Stages:      make([]Stage, len(d.Stages)),
	}
	copy(out.Stages, d.Stages)
	return out
}

// Equal reports whether both documents carry the same header and stages in
// the same order.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.Title != other.Title || d.Description != other.Description {
		return false
	}
	return StagesEqual(d.Stages, other.Stages)
}

// StagesEqual compares two stage lists field by field. A nil list equals an
// empty one.
func StagesEqual(a, b []Stage) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Normalize fills in what a hand-written or generated stage list may leave
// out: missing ids get a fresh id, missing colors get the palette entry for
// their position. Duplicate ids are replaced so ids stay unique.
func Normalize(stages []Stage) []Stage {
	out := make([]Stage, len(stages))
	seen := make(map[string]bool, len(stages))
	for i, s := range stages {
		if s.ID == "" || seen[s.ID] {
			s.ID = NewID()
		}
		if s.Color == "" {
			s.Color = PaletteColor(i)
		}
		seen[s.ID] = true
		out[i] = s
	}
	return out
}
