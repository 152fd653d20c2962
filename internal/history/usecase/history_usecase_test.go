package usecase

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"voiceclone-backend/internal/history/domain"
	"voiceclone-backend/internal/history/repository"
	"voiceclone-backend/pkg/storage"
)

// fakeStore keeps artifacts in memory and can simulate delete failures.
type fakeStore struct {
	files      map[string][]byte
	failDelete bool
	deleted    []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string][]byte{}}
}

func (f *fakeStore) Read(rel string) ([]byte, error) {
	data, ok := f.files[rel]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrFileNotFound, rel)
	}
	return data, nil
}

func (f *fakeStore) Delete(rel string) error {
	if f.failDelete {
		return errors.New("disk on fire")
	}
	f.deleted = append(f.deleted, rel)
	delete(f.files, rel)
	return nil
}

func newTestUsecase(t *testing.T) (HistoryUsecase, *fakeStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.HistoryRecord{}))

	store := newFakeStore()
	uc := NewHistoryUsecase(repository.NewGormHistoryRepository(db), store, zap.NewNop().Sugar())
	return uc, store
}

func TestAppendThenGet(t *testing.T) {
	uc, _ := newTestUsecase(t)

	rec, err := uc.Append("alice", "Xin chào", "vi", "voices/v1.wav", "out1.wav")
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	got, err := uc.GetForOwner("alice", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Xin chào", got.Text)
	assert.Equal(t, "vi", got.Language)
	assert.Equal(t, "voices/v1.wav", got.VoicePath)
	assert.Equal(t, "out1.wav", got.OutputPath)
}

func TestGetForOwnerHidesOtherUsers(t *testing.T) {
	uc, _ := newTestUsecase(t)

	rec, err := uc.Append("alice", "secret", "vi", "voices/v.wav", "out.wav")
	require.NoError(t, err)

	// Cross-user access reads as not found, not forbidden.
	_, err = uc.GetForOwner("bob", rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The true owner still sees it.
	_, err = uc.GetForOwner("alice", rec.ID)
	assert.NoError(t, err)
}

func TestListForIsolatesOwners(t *testing.T) {
	uc, _ := newTestUsecase(t)

	_, err := uc.Append("alice", "a", "vi", "voices/a.wav", "a.wav")
	require.NoError(t, err)
	_, err = uc.Append("bob", "b", "en", "voices/b.wav", "b.wav")
	require.NoError(t, err)

	for _, rec := range uc.ListFor("alice") {
		assert.Equal(t, "alice", rec.Owner)
	}
	assert.Len(t, uc.ListFor("alice"), 1)
	assert.Len(t, uc.ListFor("carol"), 0)
}

func TestDeleteRemovesRecordAndFiles(t *testing.T) {
	uc, store := newTestUsecase(t)
	store.files["voices/v.wav"] = []byte("v")
	store.files["out.wav"] = []byte("o")

	rec, err := uc.Append("alice", "bye", "vi", "voices/v.wav", "out.wav")
	require.NoError(t, err)

	require.NoError(t, uc.Delete("alice", rec.ID))
	assert.ElementsMatch(t, []string{"voices/v.wav", "out.wav"}, store.deleted)

	_, err = uc.GetForOwner("alice", rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSurvivesFileFailure(t *testing.T) {
	uc, store := newTestUsecase(t)
	store.failDelete = true

	rec, err := uc.Append("alice", "bye", "vi", "voices/v.wav", "out.wav")
	require.NoError(t, err)

	// File deletion is best-effort; the ledger row still goes away.
	require.NoError(t, uc.Delete("alice", rec.ID))
	assert.Empty(t, uc.ListFor("alice"))
}

func TestDeleteByNonOwner(t *testing.T) {
	uc, _ := newTestUsecase(t)

	rec, err := uc.Append("alice", "mine", "vi", "voices/v.wav", "out.wav")
	require.NoError(t, err)

	err = uc.Delete("bob", rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := uc.GetForOwner("alice", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Text)
}

func TestDeleteTwice(t *testing.T) {
	uc, _ := newTestUsecase(t)

	rec, err := uc.Append("alice", "bye", "vi", "voices/v.wav", "out.wav")
	require.NoError(t, err)

	require.NoError(t, uc.Delete("alice", rec.ID))
	assert.ErrorIs(t, uc.Delete("alice", rec.ID), domain.ErrNotFound)
	assert.Empty(t, uc.ListFor("alice"))
}

func TestReadOutputMissingFileKeepsRecord(t *testing.T) {
	uc, _ := newTestUsecase(t)

	rec, err := uc.Append("alice", "hello", "vi", "voices/v.wav", "out.wav")
	require.NoError(t, err)

	// The file was never written to the fake store: a removed artifact.
	data, got, err := uc.ReadOutput("alice", rec.ID)
	assert.Nil(t, data)
	assert.ErrorIs(t, err, storage.ErrFileNotFound)
	require.NotNil(t, got, "record must survive a missing file")
	assert.Equal(t, rec.ID, got.ID)

	// Still listable.
	assert.Len(t, uc.ListFor("alice"), 1)
}

func TestReadVoice(t *testing.T) {
	uc, store := newTestUsecase(t)
	store.files["voices/v.wav"] = []byte("sample-bytes")

	rec, err := uc.Append("alice", "hello", "vi", "voices/v.wav", "out.wav")
	require.NoError(t, err)

	data, _, err := uc.ReadVoice("alice", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "sample-bytes", string(data))

	_, _, err = uc.ReadVoice("bob", rec.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch(t *testing.T) {
	uc, _ := newTestUsecase(t)

	_, err := uc.Append("alice", "Xin chào thế giới", "vi", "voices/a.wav", "a.wav")
	require.NoError(t, err)
	_, err = uc.Append("alice", "good morning", "en", "voices/b.wav", "b.wav")
	require.NoError(t, err)

	hits := uc.Search("alice", "chao")
	require.Len(t, hits, 1)
	assert.Equal(t, "Xin chào thế giới", hits[0].Text)

	assert.Len(t, uc.Search("alice", ""), 2)
	assert.Empty(t, uc.Search("bob", "chao"))
}
