package roadmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_UndoEmptyIsNoop(t *testing.T) {
	h := NewHistory(0)

	_, ok := h.Undo()

	assert.False(t, ok)

	// a non-positive limit falls back to the default
	for i := 0; i < DefaultHistoryLimit+5; i++ {
		h.Snapshot(&Document{})
	}
	assert.Equal(t, DefaultHistoryLimit, h.Len())
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(5)
	h.Snapshot(threeStageDoc())
	h.Snapshot(threeStageDoc())

	h.Clear()
	assert.Equal(t, 0, h.Len())
	_, ok := h.Undo()
	assert.False(t, ok)
}

func TestHistory_SnapshotIsDeepCopy(t *testing.T) {
	h := NewHistory(5)
	doc := threeStageDoc()

	h.Snapshot(doc)
	doc.Stages[0].Title = "changed after snapshot"
	doc.Title = "changed"

	prev, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "Zero", prev.Stages[0].Title)
	assert.Equal(t, "Test", prev.Title)
}

func TestHistory_Bound(t *testing.T) {
	h := NewHistory(30)
	doc := &Document{}
	for i := 0; i < 45; i++ {
		h.Snapshot(doc)
		doc.AddStage()
	}

	assert.Equal(t, 30, h.Len())

	undos := 0
	for {
		prev, ok := h.Undo()
		if !ok {
			break
		}
		undos++
		// newest first: the 45th snapshot held 44 stages
		assert.Len(t, prev.Stages, 45-undos)
	}
	assert.Equal(t, 30, undos)

	_, ok := h.Undo()
	assert.False(t, ok)
}

func TestEditor_UndoRestoresPriorState(t *testing.T) {
	doc := threeStageDoc()
	d0 := doc.Clone()
	ed := NewEditor(doc, nil)

	ed.AddStage()
	require.Len(t, ed.Document().Stages, 4)

	require.True(t, ed.Undo())
	assert.True(t, ed.Document().Equal(&d0))

	assert.False(t, ed.Undo())
	assert.True(t, ed.Document().Equal(&d0))
}

func TestEditor_RemoveUnknownDoesNotCheckpoint(t *testing.T) {
	ed := NewEditor(threeStageDoc(), nil)

	ed.RemoveStage("missing")
	assert.Equal(t, 0, ed.History().Len())

	ed.RemoveStage("s1")
	ed.RemoveStage("s1")
	assert.Equal(t, 1, ed.History().Len())
	assert.Equal(t, []string{"s0", "s2"}, stageIDs(ed.Document()))
}

func TestEditor_FieldEditIsOneUndoStep(t *testing.T) {
	ed := NewEditor(threeStageDoc(), nil)

	ed.BeginFieldEdit("s0")
	for _, text := range []string{"Z", "Ze", "Zer", "Zero!"} {
		ed.UpdateStage("s0", StagePatch{Title: String(text)})
	}

	assert.Equal(t, 1, ed.History().Len())
	assert.Equal(t, "Zero!", ed.Document().Stages[0].Title)

	require.True(t, ed.Undo())
	assert.Equal(t, "Zero", ed.Document().Stages[0].Title)
}

func TestEditor_HeaderEdit(t *testing.T) {
	ed := NewEditor(threeStageDoc(), nil)

	ed.BeginHeaderEdit()
	ed.UpdateHeader(HeaderPatch{Title: String("Roadmap 2027")})
	assert.Equal(t, "Roadmap 2027", ed.Document().Title)

	require.True(t, ed.Undo())
	assert.Equal(t, "Test", ed.Document().Title)
}

func TestEditor_DragReordersOnEveryCrossing(t *testing.T) {
	ed := NewEditor(threeStageDoc(), nil)

	require.True(t, ed.BeginDrag("s0"))
	ed.DragOver(1)
	assert.Equal(t, []string{"s1", "s0", "s2"}, stageIDs(ed.Document()))
	ed.DragOver(2)
	assert.Equal(t, []string{"s1", "s2", "s0"}, stageIDs(ed.Document()))
	ed.EndDrag()

	assert.Equal(t, 1, ed.History().Len())
	require.True(t, ed.Undo())
	assert.Equal(t, []string{"s0", "s1", "s2"}, stageIDs(ed.Document()))
}

func TestEditor_DragOfRemovedStage(t *testing.T) {
	ed := NewEditor(threeStageDoc(), nil)

	require.True(t, ed.BeginDrag("s1"))
	ed.Document().RemoveStage("s1")
	ed.DragOver(0)

	assert.Equal(t, "", ed.Dragging())
	assert.Equal(t, []string{"s0", "s2"}, stageIDs(ed.Document()))
	assert.False(t, ed.BeginDrag("s1"))
}

func TestEditor_ReplaceStagesSingleStep(t *testing.T) {
	ed := NewEditor(threeStageDoc(), nil)

	ed.ReplaceStages([]Stage{{ID: "a", Title: "Plan"}, {ID: "b", Title: "Build"}})
	assert.Equal(t, []string{"a", "b"}, stageIDs(ed.Document()))
	assert.Equal(t, "Test", ed.Document().Title)

	require.True(t, ed.Undo())
	assert.Equal(t, []string{"s0", "s1", "s2"}, stageIDs(ed.Document()))
}
