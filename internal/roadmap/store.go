package roadmap

// StagePatch carries the stage fields to overwrite. Nil fields are left alone.
type StagePatch struct {
	Title       *string
	Description *string
	Color       *string
}

// HeaderPatch carries the document header fields to overwrite.
type HeaderPatch struct {
	Title       *string
	Description *string
}

// String is a small helper for building patches.
func String(s string) *string {
	return &s
}

// The mutations below never fail. Unknown ids and out-of-range indices are
// no-ops: the UI can act on a stage that another control already removed.

// AddStage appends a stage with default text and the palette color for its
// position, and returns it.
func (d *Document) AddStage() Stage {
	s := NewStage(DefaultStageTitle, DefaultStageDescription, PaletteColor(len(d.Stages)))
	d.Stages = append(d.Stages, s)
	return s
}

// RemoveStage deletes the stage with the given id.
func (d *Document) RemoveStage(id string) {
	i := d.IndexOf(id)
	if i < 0 {
		return
	}
	d.Stages = append(d.Stages[:i], d.Stages[i+1:]...)
}

// UpdateStage merges patch into the stage with the given id.
func (d *Document) UpdateStage(id string, patch StagePatch) {
	i := d.IndexOf(id)
	if i < 0 {
		return
	}
	s := &d.Stages[i]
	if patch.Title != nil {
		s.Title = *patch.Title
	}
	if patch.Description != nil {
		s.Description = *patch.Description
	}
	if patch.Color != nil {
		s.Color = *patch.Color
	}
}

// Reorder moves the stage at from so that it ends up at index to.
func (d *Document) Reorder(from, to int) {
	n := len(d.Stages)
	if from == to || from < 0 || to < 0 || from >= n || to >= n {
		return
	}
	moved := d.Stages[from]
	if from < to {
		copy(d.Stages[from:to], d.Stages[from+1:to+1])
	} else {
		copy(d.Stages[to+1:from+1], d.Stages[to:from])
	}
	d.Stages[to] = moved
}

// UpdateHeader merges patch into the document title and description.
func (d *Document) UpdateHeader(patch HeaderPatch) {
	if patch.Title != nil {
		d.Title = *patch.Title
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
}

// ReplaceStages swaps the whole stage list. The header is kept.
func (d *Document) ReplaceStages(stages []Stage) {
	d.Stages = make([]Stage, len(stages))
	copy(d.Stages, stages)
}

// CycleColor advances the stage's color to the palette entry after its
// current one. Colors outside the palette restart at the first entry.
func (d *Document) CycleColor(id string) {
	i := d.IndexOf(id)
	if i < 0 {
		return
	}
	next := 0
	for p, c := range Palette {
		if c == d.Stages[i].Color {
			next = (p + 1) % len(Palette)
			break
		}
	}
	d.Stages[i].Color = Palette[next]
}

// IndexOf returns the position of the stage with the given id, or -1.
func (d *Document) IndexOf(id string) int {
	for i := range d.Stages {
		if d.Stages[i].ID == id {
			return i
		}
	}
	return -1
}

// Stage looks up a stage by id.
func (d *Document) Stage(id string) (Stage, bool) {
	i := d.IndexOf(id)
	if i < 0 {
		return Stage{}, false
	}
	return d.Stages[i], true
}
