package storage

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap/internal/roadmap"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newStores(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	sqliteStore, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		BackendFile:   fileStore,
		BackendSQLite: sqliteStore,
	}
}

func TestStores_GetPut(t *testing.T) {
	ctx := context.Background()
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Put(ctx, "k", []byte("one")))
			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "one", string(got))

			require.NoError(t, store.Put(ctx, "k", []byte("two")))
			got, err = store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "two", string(got))
		})
	}
}

func TestFileStore_EscapesKeys(t *testing.T) {
	fsys := afero.NewMemMapFs()
	store, err := NewFileStore(fsys, "/data")
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "../escape", []byte("x")))

	exists, err := afero.Exists(fsys, "/escape.json")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = afero.Exists(fsys, "/data/..%2Fescape.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFileStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(BackendFile, dir)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(context.Background(), DefaultKey, []byte("{}")))
	got, err := store.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(got))
}

func TestSQLiteStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(BackendSQLite, dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, DefaultKey, []byte("persisted")))
	require.NoError(t, store.Close())

	reopened, err := Open(BackendSQLite, dir)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}

func TestLoadDocument(t *testing.T) {
	ctx := context.Background()
	log := quietLogger()

	tests := []struct {
		name       string
		stored     string
		wantOrigin Origin
		check      func(t *testing.T, doc *roadmap.Document)
	}{
		{
			name:       "absent",
			wantOrigin: OriginDefault,
			check: func(t *testing.T, doc *roadmap.Document) {
				assert.Equal(t, roadmap.DefaultTitle, doc.Title)
				assert.Len(t, doc.Stages, 5)
			},
		},
		{
			name:       "unparseable",
			stored:     "{ nope",
			wantOrigin: OriginDefault,
			check: func(t *testing.T, doc *roadmap.Document) {
				assert.Len(t, doc.Stages, 5)
			},
		},
		{
			name:       "missing stages",
			stored:     `{"title":"Mine"}`,
			wantOrigin: OriginDefault,
			check: func(t *testing.T, doc *roadmap.Document) {
				assert.Equal(t, roadmap.DefaultTitle, doc.Title)
			},
		},
		{
			name:       "bare array",
			stored:     `[{"id":"x","title":"Only","description":"","color":"#000"}]`,
			wantOrigin: OriginStored,
			check: func(t *testing.T, doc *roadmap.Document) {
				assert.Equal(t, roadmap.DefaultTitle, doc.Title)
				assert.Equal(t, roadmap.DefaultDescription, doc.Description)
				require.Len(t, doc.Stages, 1)
				assert.Equal(t, "Only", doc.Stages[0].Title)
			},
		},
		{
			name:       "full document",
			stored:     `{"title":"Mine","description":"d","stages":[]}`,
			wantOrigin: OriginStored,
			check: func(t *testing.T, doc *roadmap.Document) {
				assert.Equal(t, "Mine", doc.Title)
				assert.Empty(t, doc.Stages)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewFileStore(afero.NewMemMapFs(), "/data")
			require.NoError(t, err)
			if tt.stored != "" {
				require.NoError(t, store.Put(ctx, DefaultKey, []byte(tt.stored)))
			}

			doc, origin := LoadDocument(ctx, store, DefaultKey, log)
			assert.Equal(t, tt.wantOrigin, origin)
			tt.check(t, doc)
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			doc := roadmap.DefaultDocument()
			doc.AddStage()
			doc.RemoveStage(doc.Stages[0].ID)
			doc.UpdateHeader(roadmap.HeaderPatch{Title: roadmap.String("Saved")})

			require.NoError(t, SaveDocument(ctx, store, DefaultKey, doc))
			back, origin := LoadDocument(ctx, store, DefaultKey, quietLogger())

			assert.Equal(t, OriginStored, origin)
			assert.Equal(t, doc, back)
		})
	}
}
