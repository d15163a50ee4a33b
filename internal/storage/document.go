package storage

import (
	"context"
	"errors"
	"log/slog"

	"roadmap/internal/roadmap"
)

// DefaultKey is the slot the editor reads at startup and writes on save.
const DefaultKey = "roadmap-document"

// Origin says where a loaded document came from.
type Origin int

const (
	OriginStored Origin = iota
	OriginDefault
)

func (o Origin) String() string {
	if o == OriginStored {
		return "stored"
	}
	return "default"
}

// LoadDocument reads the document at key. Anything unusable (missing slot,
// read failure, malformed blob, no stages field) yields the built-in default
// document; it never fails.
func LoadDocument(ctx context.Context, store Store, key string, log *slog.Logger) (*roadmap.Document, Origin) {
	if log == nil {
		log = slog.Default()
	}
	data, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn("reading stored document failed, using default", "key", key, "error", err)
		}
		return roadmap.DefaultDocument(), OriginDefault
	}
	doc, err := roadmap.DecodeDocument(data)
	if err != nil {
		log.Warn("stored document unusable, using default", "key", key, "error", err)
		return roadmap.DefaultDocument(), OriginDefault
	}
	return doc, OriginStored
}

// SaveDocument overwrites the slot with the whole document.
func SaveDocument(ctx context.Context, store Store, key string, doc *roadmap.Document) error {
	data, err := roadmap.EncodeDocument(doc)
	if err != nil {
		return err
	}
	return store.Put(ctx, key, data)
}
