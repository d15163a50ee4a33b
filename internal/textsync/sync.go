// Package textsync keeps an editable JSON text of the stage list in step with
// the live document. Programmatic changes regenerate the text unless the user
// is typing in it; keystrokes are parsed, validated and applied only when the
// result is valid and actually different.
package textsync

import (
	"bytes"
	"encoding/json"
	"fmt"

	"roadmap/internal/roadmap"
	"roadmap/internal/schemas"
)

// ParseError wraps malformed JSON in the text editor.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Applier receives a validated stage list. roadmap.Editor satisfies it and
// takes the history snapshot before replacing.
type Applier interface {
	Document() *roadmap.Document
	ReplaceStages(stages []roadmap.Stage)
}

type Sync struct {
	text      string
	focused   bool
	err       error
	validator *schemas.Validator
}

// New creates a Sync whose text mirrors doc.
func New(doc *roadmap.Document) *Sync {
	s := &Sync{validator: schemas.Stages()}
	s.Refresh(doc)
	return s
}

func (s *Sync) Text() string { return s.text }

// Err returns the last parse or validation failure, nil when the text is
// valid.
func (s *Sync) Err() error { return s.err }

func (s *Sync) Valid() bool { return s.err == nil }

func (s *Sync) Focused() bool { return s.focused }

// Focus marks the text editor as having input focus. While focused, Refresh
// leaves the text alone so in-progress typing is not clobbered.
func (s *Sync) Focus() {
	s.focused = true
}

// Blur releases focus and regenerates the text from doc.
func (s *Sync) Blur(doc *roadmap.Document) {
	s.focused = false
	s.Refresh(doc)
}

// Refresh regenerates the text from doc after an outside change.
func (s *Sync) Refresh(doc *roadmap.Document) {
	if s.focused || doc == nil {
		return
	}
	text, err := MarshalStages(doc.Stages)
	if err != nil {
		s.err = err
		return
	}
	s.text = text
	s.err = nil
}

// Edit takes the raw editor text after a keystroke. On a parse or schema
// failure the error state is set and the document is untouched. On success
// the stages replace the document's only when they differ. changed reports
// whether the document was replaced.
func (s *Sync) Edit(text string, target Applier) (changed bool, err error) {
	s.text = text
	stages, err := s.parse(text, target.Document().Stages)
	if err != nil {
		s.err = err
		return false, err
	}
	s.err = nil

	if roadmap.StagesEqual(stages, target.Document().Stages) {
		return false, nil
	}
	target.ReplaceStages(stages)
	return true, nil
}

func (s *Sync) parse(text string, current []roadmap.Stage) ([]roadmap.Stage, error) {
	data := []byte(text)
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Cause: err}
	}
	if err := s.validator.Validate(data); err != nil {
		return nil, err
	}

	var stages []roadmap.Stage
	if err := json.Unmarshal(data, &stages); err != nil {
		return nil, &ParseError{Cause: err}
	}
	return normalizeAgainst(stages, current), nil
}

// normalizeAgainst fills missing ids and colors. A stage typed without an id
// keeps the id of the current stage at the same position, when no other
// entry claims it, so repeated keystrokes do not mint new ids. Missing colors
// default to the palette entry for the position.
func normalizeAgainst(stages, current []roadmap.Stage) []roadmap.Stage {
	if stages == nil {
		return []roadmap.Stage{}
	}
	claimed := make(map[string]bool, len(stages))
	for _, st := range stages {
		if st.ID != "" {
			claimed[st.ID] = true
		}
	}
	filled := make([]roadmap.Stage, len(stages))
	for i, st := range stages {
		if st.ID == "" && i < len(current) && !claimed[current[i].ID] {
			st.ID = current[i].ID
			claimed[st.ID] = true
		}
		filled[i] = st
	}
	return roadmap.Normalize(filled)
}

// MarshalStages renders stages as the editor text: two-space indented JSON
// with fields in declaration order.
func MarshalStages(stages []roadmap.Stage) (string, error) {
	if stages == nil {
		stages = []roadmap.Stage{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stages); err != nil {
		return "", fmt.Errorf("encode stages: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// ParseStages validates and decodes editor text without touching any
// document.
func ParseStages(text string) ([]roadmap.Stage, error) {
	s := &Sync{validator: schemas.Stages()}
	return s.parse(text, nil)
}
