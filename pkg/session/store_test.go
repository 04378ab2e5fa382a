package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/session"
)

func TestStoreMonotonicMax(t *testing.T) {
	store := session.NewStore(t.TempDir())

	gt.Equal(t, store.MaxRelevance("websocket-testing"), 0.0)

	gt.NoError(t, store.RecordShown("websocket-testing", 0.40))
	gt.Equal(t, store.MaxRelevance("websocket-testing"), 0.40)

	// A lower relevance never decreases the stored maximum
	gt.NoError(t, store.RecordShown("websocket-testing", 0.30))
	gt.Equal(t, store.MaxRelevance("websocket-testing"), 0.40)

	gt.NoError(t, store.RecordShown("websocket-testing", 0.65))
	gt.Equal(t, store.MaxRelevance("websocket-testing"), 0.65)
}

func TestStoreSurvivesReload(t *testing.T) {
	dir := t.TempDir()

	store := session.NewStore(dir)
	gt.NoError(t, store.RecordShown("pdf-generation", 0.55))

	// A fresh store over the same directory sees the persisted state
	reloaded := session.NewStore(dir)
	gt.Equal(t, reloaded.MaxRelevance("pdf-generation"), 0.55)
}

func TestStoreReset(t *testing.T) {
	store := session.NewStore(t.TempDir())

	gt.NoError(t, store.RecordShown("a", 0.9))
	gt.NoError(t, store.RecordShown("b", 0.5))
	gt.NoError(t, store.Reset())

	gt.Equal(t, store.MaxRelevance("a"), 0.0)
	gt.Equal(t, store.MaxRelevance("b"), 0.0)
}

func TestStoreLegacyListFormat(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"shown_skills": ["old-skill", "other-skill"]}`
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "shown_skills.json"), []byte(legacy), 0o644))

	store := session.NewStore(dir)
	gt.Equal(t, store.MaxRelevance("old-skill"), 0.0)

	// Writing normalizes to the canonical map form
	gt.NoError(t, store.RecordShown("old-skill", 0.3))
	gt.Equal(t, store.MaxRelevance("old-skill"), 0.3)
	gt.Equal(t, store.MaxRelevance("other-skill"), 0.0)
}

func TestStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "shown_skills.json"), []byte("{not json"), 0o644))

	store := session.NewStore(dir)
	gt.Equal(t, store.MaxRelevance("anything"), 0.0)

	// The corrupted file is replaced on the next successful write
	gt.NoError(t, store.RecordShown("anything", 0.7))
	gt.Equal(t, store.MaxRelevance("anything"), 0.7)
}
