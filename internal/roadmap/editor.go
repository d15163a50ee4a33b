package roadmap

// Editor applies user actions to a document, taking a history snapshot of the
// pre-change state before each undoable step.
type Editor struct {
	doc      *Document
	history  *History
	dragging string
}

func NewEditor(doc *Document, history *History) *Editor {
	if doc == nil {
		doc = DefaultDocument()
	}
	if history == nil {
		history = NewHistory(DefaultHistoryLimit)
	}
	return &Editor{doc: doc, history: history}
}

// Document returns the live document. Callers must not keep references to
// its stage slice across mutations.
func (e *Editor) Document() *Document {
	return e.doc
}

func (e *Editor) History() *History {
	return e.history
}

func (e *Editor) checkpoint() {
	e.history.Snapshot(e.doc)
}

func (e *Editor) AddStage() Stage {
	e.checkpoint()
	return e.doc.AddStage()
}

// RemoveStage only records an undo step when the stage still exists.
func (e *Editor) RemoveStage(id string) {
	if e.doc.IndexOf(id) < 0 {
		return
	}
	e.checkpoint()
	e.doc.RemoveStage(id)
}

// BeginFieldEdit marks focus entering a stage field. The snapshot is taken
// here once, so the keystrokes that follow through UpdateStage do not each
// become an undo step.
func (e *Editor) BeginFieldEdit(id string) {
	if e.doc.IndexOf(id) < 0 {
		return
	}
	e.checkpoint()
}

func (e *Editor) UpdateStage(id string, patch StagePatch) {
	e.doc.UpdateStage(id, patch)
}

// BeginHeaderEdit is the header counterpart of BeginFieldEdit.
func (e *Editor) BeginHeaderEdit() {
	e.checkpoint()
}

func (e *Editor) UpdateHeader(patch HeaderPatch) {
	e.doc.UpdateHeader(patch)
}

func (e *Editor) CycleColor(id string) {
	if e.doc.IndexOf(id) < 0 {
		return
	}
	e.checkpoint()
	e.doc.CycleColor(id)
}

// BeginDrag picks up a stage for reordering. The whole drag is one undo step.
func (e *Editor) BeginDrag(id string) bool {
	if e.doc.IndexOf(id) < 0 {
		return false
	}
	e.checkpoint()
	e.dragging = id
	return true
}

// DragOver moves the dragged stage to index as the pointer crosses into that
// slot. Every crossing reorders immediately.
func (e *Editor) DragOver(index int) {
	if e.dragging == "" {
		return
	}
	from := e.doc.IndexOf(e.dragging)
	if from < 0 {
		// removed while being dragged
		e.dragging = ""
		return
	}
	e.doc.Reorder(from, index)
}

func (e *Editor) EndDrag() {
	e.dragging = ""
}

// Dragging returns the id of the stage being dragged, if any.
func (e *Editor) Dragging() string {
	return e.dragging
}

// ReplaceStages swaps the stage list as a single undoable step.
func (e *Editor) ReplaceStages(stages []Stage) {
	e.checkpoint()
	e.doc.ReplaceStages(stages)
}

// Undo restores the newest snapshot. It reports false when history is empty.
func (e *Editor) Undo() bool {
	prev, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.dragging = ""
	*e.doc = prev
	return true
}
