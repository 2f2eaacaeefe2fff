package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoreleaf/scoreleaf/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "library.db"), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same directory must not re-run applied migrations.
	store, err = NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestLibraryStore_DocumentRoundTrip(t *testing.T) {
	store := newTestStore(t)
	docs := store.LibraryStore()
	ctx := context.Background()

	folderID := "folder-1"
	doc := &domain.Document{
		ID:           "doc-1",
		Name:         "sonata.pdf",
		Size:         2048,
		MediaType:    "application/pdf",
		Data:         []byte("%PDF-1.7 fake"),
		LastModified: 1700000000000,
		AddedAt:      time.Now().UTC().Truncate(time.Second),
		FolderID:     &folderID,
		PageCount:    4,
	}

	require.NoError(t, docs.SaveDocument(ctx, doc))

	saved, err := docs.GetDocument(ctx, doc.Key())
	require.NoError(t, err)
	assert.Equal(t, doc.ID, saved.ID)
	assert.Equal(t, doc.Name, saved.Name)
	assert.Equal(t, doc.Size, saved.Size)
	assert.Equal(t, doc.Data, saved.Data)
	assert.Equal(t, doc.LastModified, saved.LastModified)
	assert.Equal(t, doc.PageCount, saved.PageCount)
	require.NotNil(t, saved.FolderID)
	assert.Equal(t, folderID, *saved.FolderID)
}

func TestLibraryStore_GetDocument_NotFound(t *testing.T) {
	store := newTestStore(t)

	doc, err := store.LibraryStore().GetDocument(context.Background(), "missing-0-0")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, doc)
}

func TestLibraryStore_SaveDocument_Upsert(t *testing.T) {
	store := newTestStore(t)
	docs := store.LibraryStore()
	ctx := context.Background()

	doc := &domain.Document{ID: "doc-1", Name: "a.pdf", Size: 1, LastModified: 1, AddedAt: time.Now(), PageCount: 2}
	require.NoError(t, docs.SaveDocument(ctx, doc))

	doc.PageCount = 5
	require.NoError(t, docs.SaveDocument(ctx, doc))

	saved, err := docs.GetDocument(ctx, doc.Key())
	require.NoError(t, err)
	assert.Equal(t, 5, saved.PageCount)
}

func TestLibraryStore_ListDocuments_ArrivalOrder(t *testing.T) {
	store := newTestStore(t)
	docs := store.LibraryStore()
	ctx := context.Background()

	base := time.Now().UTC()
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		Name: "late.pdf", Size: 2, LastModified: 2, AddedAt: base.Add(time.Minute),
	}))
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		Name: "early.pdf", Size: 1, LastModified: 1, AddedAt: base,
	}))

	listed, err := docs.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "early.pdf", listed[0].Name)
	assert.Equal(t, "late.pdf", listed[1].Name)
}

func TestLibraryStore_FolderScoping(t *testing.T) {
	store := newTestStore(t)
	docs := store.LibraryStore()
	ctx := context.Background()

	folderID := "folder-1"
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		Name: "in.pdf", Size: 1, LastModified: 1, AddedAt: time.Now(), FolderID: &folderID,
	}))
	require.NoError(t, docs.SaveDocument(ctx, &domain.Document{
		Name: "out.pdf", Size: 2, LastModified: 2, AddedAt: time.Now(),
	}))

	inFolder, err := docs.ListDocumentsByFolder(ctx, folderID)
	require.NoError(t, err)
	require.Len(t, inFolder, 1)
	assert.Equal(t, "in.pdf", inFolder[0].Name)

	require.NoError(t, docs.ClearFolderRefs(ctx, folderID))

	inFolder, err = docs.ListDocumentsByFolder(ctx, folderID)
	require.NoError(t, err)
	assert.Empty(t, inFolder)
}

func TestFolderStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	folders := store.FolderStore()
	ctx := context.Background()

	created := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, folders.SaveFolder(ctx, &domain.Folder{ID: "f2", Name: "Romantic", CreatedAt: created, Order: 1}))
	require.NoError(t, folders.SaveFolder(ctx, &domain.Folder{ID: "f1", Name: "Baroque", CreatedAt: created, Order: 0}))

	got, err := folders.GetFolder(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "Baroque", got.Name)

	listed, err := folders.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Baroque", listed[0].Name)
	assert.Equal(t, "Romantic", listed[1].Name)

	require.NoError(t, folders.DeleteFolder(ctx, "f1"))
	_, err = folders.GetFolder(ctx, "f1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkerStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	markers := store.MarkerStore()
	ctx := context.Background()

	set := &domain.MarkerSet{
		ID:       "set-1",
		FileName: "sonata.pdf",
		Markers: []domain.Marker{
			{ID: "m1", View: 1, X: 0.2, Y: 0.3, TargetView: 3, TargetX: 0.7, TargetY: 0.8, ColorIndex: 0},
			{ID: "m2", View: 2, X: 0.4, Y: 0.5, TargetView: 5, TargetX: 0.6, TargetY: 0.1, ColorIndex: 1},
		},
		LastModified: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, markers.SaveMarkers(ctx, set))

	loaded, err := markers.LoadMarkers(ctx, "sonata.pdf")
	require.NoError(t, err)
	assert.Equal(t, set.ID, loaded.ID)
	assert.Equal(t, set.FileName, loaded.FileName)
	assert.Equal(t, set.Markers, loaded.Markers)

	_, err = markers.LoadMarkers(ctx, "other.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, markers.DeleteMarkers(ctx, "sonata.pdf"))
	_, err = markers.LoadMarkers(ctx, "sonata.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMarkerStore_SaveReplacesSet(t *testing.T) {
	store := newTestStore(t)
	markers := store.MarkerStore()
	ctx := context.Background()

	require.NoError(t, markers.SaveMarkers(ctx, &domain.MarkerSet{
		ID: "set-1", FileName: "sonata.pdf",
		Markers:      []domain.Marker{{ID: "m1"}, {ID: "m2"}},
		LastModified: time.Now(),
	}))
	require.NoError(t, markers.SaveMarkers(ctx, &domain.MarkerSet{
		ID: "set-1", FileName: "sonata.pdf",
		Markers:      []domain.Marker{{ID: "m3"}},
		LastModified: time.Now(),
	}))

	loaded, err := markers.LoadMarkers(ctx, "sonata.pdf")
	require.NoError(t, err)
	require.Len(t, loaded.Markers, 1)
	assert.Equal(t, "m3", loaded.Markers[0].ID)
}

func TestAnnotationStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	annotations := store.AnnotationStore()
	ctx := context.Background()

	set := &domain.AnnotationSet{
		ID:       "set-1",
		FileName: "etude.pdf",
		Annotations: []domain.Annotation{
			{ID: "a1", Type: domain.AnnotationOval, X: 0.5, Y: 0.5, Page: 2},
			{ID: "a2", Type: domain.AnnotationText, X: 0.1, Y: 0.9, Text: "rit.", Page: 4},
		},
		LastModified: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, annotations.SaveAnnotations(ctx, set))

	loaded, err := annotations.LoadAnnotations(ctx, "etude.pdf")
	require.NoError(t, err)
	assert.Equal(t, set.Annotations, loaded.Annotations)

	require.NoError(t, annotations.DeleteAnnotations(ctx, "etude.pdf"))
	_, err = annotations.LoadAnnotations(ctx, "etude.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportLegacy(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	legacyPath := filepath.Join(t.TempDir(), "store.json")
	legacy := `{
		"markers-sonata.pdf": "[{\"id\":\"m1\",\"page\":1,\"x\":0.2,\"y\":0.3,\"targetPage\":3,\"targetX\":0.7,\"targetY\":0.8,\"colorIndex\":0}]",
		"annotations-sonata.pdf": [{"id":"a1","type":"oval","x":0.5,"y":0.5,"page":2}],
		"markers-broken.pdf": "not json",
		"viewer-zoom": "1.5"
	}`
	require.NoError(t, os.WriteFile(legacyPath, []byte(legacy), 0600))

	require.NoError(t, store.ImportLegacy(ctx, legacyPath))

	markers, err := store.MarkerStore().LoadMarkers(ctx, "sonata.pdf")
	require.NoError(t, err)
	require.Len(t, markers.Markers, 1)
	assert.Equal(t, 1, markers.Markers[0].View)
	assert.Equal(t, 3, markers.Markers[0].TargetView)

	annotations, err := store.AnnotationStore().LoadAnnotations(ctx, "sonata.pdf")
	require.NoError(t, err)
	require.Len(t, annotations.Annotations, 1)
	assert.Equal(t, domain.AnnotationOval, annotations.Annotations[0].Type)

	// The broken entry is skipped, not fatal.
	_, err = store.MarkerStore().LoadMarkers(ctx, "broken.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The legacy file is retired so the import runs once.
	_, err = os.Stat(legacyPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(legacyPath + ".imported")
	assert.NoError(t, err)
}

func TestImportLegacy_DoesNotOverwriteExistingRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.MarkerStore().SaveMarkers(ctx, &domain.MarkerSet{
		ID: "set-1", FileName: "sonata.pdf",
		Markers:      []domain.Marker{{ID: "current"}},
		LastModified: time.Now(),
	}))

	legacyPath := filepath.Join(t.TempDir(), "store.json")
	legacy := `{"markers-sonata.pdf": [{"id":"stale","page":1,"x":0,"y":0,"targetPage":2,"targetX":0,"targetY":0,"colorIndex":0}]}`
	require.NoError(t, os.WriteFile(legacyPath, []byte(legacy), 0600))

	require.NoError(t, store.ImportLegacy(ctx, legacyPath))

	loaded, err := store.MarkerStore().LoadMarkers(ctx, "sonata.pdf")
	require.NoError(t, err)
	require.Len(t, loaded.Markers, 1)
	assert.Equal(t, "current", loaded.Markers[0].ID)
}

func TestImportLegacy_MissingFileIsNoop(t *testing.T) {
	store := newTestStore(t)

	err := store.ImportLegacy(context.Background(), filepath.Join(t.TempDir(), "nope.json"))

	assert.NoError(t, err)
}
