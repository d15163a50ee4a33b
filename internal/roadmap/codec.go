package roadmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrEmptyDocument  = errors.New("document data is empty")
	ErrMissingStages  = errors.New("document has no stages field")
	ErrUnknownPayload = errors.New("document must be a JSON object or array")
)

// EncodeDocument renders the document as indented JSON.
func EncodeDocument(doc *Document) ([]byte, error) {
	out := *doc
	if out.Stages == nil {
		out.Stages = []Stage{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

// DecodeDocument accepts both stored shapes: the full document object and
// the older bare stage array. A bare array, or an object without header
// fields, gets the default title and description. Stages are normalized.
func DecodeDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyDocument
	}

	switch trimmed[0] {
	case '[':
		var stages []Stage
		if err := json.Unmarshal(trimmed, &stages); err != nil {
			return nil, fmt.Errorf("decode stage array: %w", err)
		}
		return &Document{
			Title:       DefaultTitle,
			Description: DefaultDescription,
			Stages:      Normalize(stages),
		}, nil
	case '{':
		var raw struct {
			Title       *string  `json:"title"`
			Description *string  `json:"description"`
			Stages      *[]Stage `json:"stages"`
		}
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		if raw.Stages == nil {
			return nil, ErrMissingStages
		}
		doc := &Document{
			Title:       DefaultTitle,
			Description: DefaultDescription,
			Stages:      Normalize(*raw.Stages),
		}
		if raw.Title != nil {
			doc.Title = *raw.Title
		}
		if raw.Description != nil {
			doc.Description = *raw.Description
		}
		return doc, nil
	default:
		return nil, ErrUnknownPayload
	}
}
