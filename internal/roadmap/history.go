package roadmap

// DefaultHistoryLimit is how many undo steps are kept.
const DefaultHistoryLimit = 30

// History is a bounded stack of document snapshots. Undo pops; there is no
// redo.
type History struct {
	undoStack []Document
	limit     int
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		undoStack: make([]Document, 0, limit),
		limit:     limit,
	}
}

// Snapshot stores a deep copy of doc. The oldest entry is dropped once the
// stack is over its limit.
func (h *History) Snapshot(doc *Document) {
	if doc == nil {
		return
	}
	h.undoStack = append(h.undoStack, doc.Clone())
	if len(h.undoStack) > h.limit {
		h.undoStack = h.undoStack[len(h.undoStack)-h.limit:]
	}
}

// Undo pops the newest snapshot. ok is false when there is nothing to restore.
func (h *History) Undo() (doc Document, ok bool) {
	if len(h.undoStack) == 0 {
		return Document{}, false
	}
	lastIndex := len(h.undoStack) - 1
	doc = h.undoStack[lastIndex]
	h.undoStack[lastIndex] = Document{}
	h.undoStack = h.undoStack[:lastIndex]
	return doc, true
}

func (h *History) Len() int {
	return len(h.undoStack)
}

// Clear drops every snapshot.
func (h *History) Clear() {
	h.undoStack = h.undoStack[:0]
}
