package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeStageDoc() *Document {
	return &Document{
		Title: "Test",
		Stages: []Stage{
			{ID: "s0", Title: "Zero", Color: PaletteColor(0)},
			{ID: "s1", Title: "One", Color: PaletteColor(1)},
			{ID: "s2", Title: "Two", Color: PaletteColor(2)},
		},
	}
}

func stageIDs(doc *Document) []string {
	ids := make([]string, 0, len(doc.Stages))
	for _, s := range doc.Stages {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestAddStage_EmptyDocument(t *testing.T) {
	doc := &Document{}

	s := doc.AddStage()

	require.Len(t, doc.Stages, 1)
	assert.Equal(t, Palette[0], doc.Stages[0].Color)
	assert.Equal(t, "New Milestone", doc.Stages[0].Title)
	assert.Equal(t, s, doc.Stages[0])
	assert.NotEmpty(t, s.ID)
}

func TestAddStage_ColorsCycleByPosition(t *testing.T) {
	doc := &Document{}
	for i := 0; i < len(Palette)+2; i++ {
		doc.AddStage()
	}

	for i, s := range doc.Stages {
		assert.Equal(t, Palette[i%len(Palette)], s.Color, "stage %d", i)
	}
}

func TestAddStage_UniqueIDs(t *testing.T) {
	doc := &Document{}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		s := doc.AddStage()
		require.False(t, seen[s.ID], "duplicate id %s", s.ID)
		seen[s.ID] = true
	}
}

func TestRemoveStage(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want []string
	}{
		{"first", "s0", []string{"s1", "s2"}},
		{"middle", "s1", []string{"s0", "s2"}},
		{"last", "s2", []string{"s0", "s1"}},
		{"unknown id is a no-op", "nope", []string{"s0", "s1", "s2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := threeStageDoc()
			doc.RemoveStage(tt.id)
			assert.Equal(t, tt.want, stageIDs(doc))
		})
	}
}

func TestRemoveStage_Idempotent(t *testing.T) {
	once := threeStageDoc()
	once.RemoveStage("s1")

	twice := threeStageDoc()
	twice.RemoveStage("s1")
	twice.RemoveStage("s1")

	assert.True(t, once.Equal(twice))
}

func TestUpdateStage(t *testing.T) {
	doc := threeStageDoc()

	doc.UpdateStage("s1", StagePatch{Title: String("Renamed")})
	doc.UpdateStage("s2", StagePatch{Description: String("details"), Color: String("#000000")})
	doc.UpdateStage("missing", StagePatch{Title: String("ignored")})

	assert.Equal(t, "Renamed", doc.Stages[1].Title)
	assert.Equal(t, "", doc.Stages[1].Description)
	assert.Equal(t, "Two", doc.Stages[2].Title)
	assert.Equal(t, "details", doc.Stages[2].Description)
	assert.Equal(t, "#000000", doc.Stages[2].Color)
	assert.Equal(t, []string{"s0", "s1", "s2"}, stageIDs(doc))
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"first to last", 0, 2, []string{"s1", "s2", "s0"}},
		{"last to first", 2, 0, []string{"s2", "s0", "s1"}},
		{"adjacent forward", 0, 1, []string{"s1", "s0", "s2"}},
		{"adjacent backward", 2, 1, []string{"s0", "s2", "s1"}},
		{"same index", 1, 1, []string{"s0", "s1", "s2"}},
		{"from out of range", 5, 0, []string{"s0", "s1", "s2"}},
		{"to out of range", 0, 3, []string{"s0", "s1", "s2"}},
		{"negative", -1, 0, []string{"s0", "s1", "s2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := threeStageDoc()
			doc.Reorder(tt.from, tt.to)
			assert.Equal(t, tt.want, stageIDs(doc))
		})
	}
}

func TestReorder_ColorStaysWithStage(t *testing.T) {
	doc := threeStageDoc()

	doc.Reorder(0, 2)

	assert.Equal(t, []string{"s1", "s2", "s0"}, stageIDs(doc))
	assert.Equal(t, []string{PaletteColor(1), PaletteColor(2), PaletteColor(0)},
		[]string{doc.Stages[0].Color, doc.Stages[1].Color, doc.Stages[2].Color})
}

func TestUpdateHeader(t *testing.T) {
	doc := threeStageDoc()

	doc.UpdateHeader(HeaderPatch{Description: String("sub")})
	assert.Equal(t, "Test", doc.Title)
	assert.Equal(t, "sub", doc.Description)

	doc.UpdateHeader(HeaderPatch{Title: String("New")})
	assert.Equal(t, "New", doc.Title)
	assert.Equal(t, "sub", doc.Description)
}

func TestCycleColor(t *testing.T) {
	doc := threeStageDoc()
	doc.Stages[2].Color = Palette[len(Palette)-1]
	doc.Stages[1].Color = "#123456"

	doc.CycleColor("s0")
	doc.CycleColor("s1")
	doc.CycleColor("s2")
	doc.CycleColor("missing")

	assert.Equal(t, Palette[1], doc.Stages[0].Color)
	assert.Equal(t, Palette[0], doc.Stages[1].Color)
	assert.Equal(t, Palette[0], doc.Stages[2].Color)
}

func TestReplaceStages_CopiesInput(t *testing.T) {
	doc := threeStageDoc()
	in := []Stage{{ID: "x", Title: "X"}}

	doc.ReplaceStages(in)
	in[0].Title = "mutated"

	require.Len(t, doc.Stages, 1)
	assert.Equal(t, "X", doc.Stages[0].Title)
	assert.Equal(t, "Test", doc.Title)
}

func TestDefaultDocument(t *testing.T) {
	doc := DefaultDocument()

	assert.Equal(t, DefaultTitle, doc.Title)
	assert.Equal(t, DefaultDescription, doc.Description)
	require.Len(t, doc.Stages, 5)
	for i, s := range doc.Stages {
		assert.Equal(t, PaletteColor(i), s.Color)
		assert.NotEmpty(t, s.ID)
		assert.NotEmpty(t, s.Title)
	}
}

func TestNormalize(t *testing.T) {
	in := []Stage{
		{Title: "no id"},
		{ID: "dup", Title: "a", Color: "#111111"},
		{ID: "dup", Title: "b"},
	}

	out := Normalize(in)

	require.Len(t, out, 3)
	assert.NotEmpty(t, out[0].ID)
	assert.Equal(t, PaletteColor(0), out[0].Color)
	assert.Equal(t, "dup", out[1].ID)
	assert.Equal(t, "#111111", out[1].Color)
	assert.NotEqual(t, "dup", out[2].ID)
	assert.Equal(t, PaletteColor(2), out[2].Color)
	assert.Empty(t, in[0].ID, "input must not be modified")
}
