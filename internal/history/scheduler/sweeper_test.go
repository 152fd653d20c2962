package scheduler

import (
	"path/filepath"
	"testing"
	"time"

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

type fakeLister struct {
	entries []storage.Entry
	deleted []string
}

func (f *fakeLister) List() ([]storage.Entry, error) { return f.entries, nil }

func (f *fakeLister) Delete(rel string) error {
	f.deleted = append(f.deleted, rel)
	return nil
}

func testRepo(t *testing.T) repository.HistoryRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.HistoryRecord{}))
	return repository.NewGormHistoryRepository(db)
}

func TestSweepRemovesOnlyOrphans(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.Create(&domain.HistoryRecord{
		Owner:      "alice",
		Text:       "xin chào",
		Language:   "vi",
		VoicePath:  "voices/voice_kept.wav",
		OutputPath: "xtts_output_kept.wav",
	}))

	old := time.Now().Add(-48 * time.Hour)
	store := &fakeLister{entries: []storage.Entry{
		{Path: "voices/voice_kept.wav", ModTime: old},
		{Path: "xtts_output_kept.wav", ModTime: old},
		{Path: "voices/voice_orphan.wav", ModTime: old},
		{Path: "xtts_output_orphan.wav", ModTime: old},
	}}

	sweeper := NewOrphanSweeper(repo, store, 24*time.Hour, zap.NewNop().Sugar())
	removed, err := sweeper.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.ElementsMatch(t, []string{"voices/voice_orphan.wav", "xtts_output_orphan.wav"}, store.deleted)
}

func TestSweepSparesRecentFiles(t *testing.T) {
	repo := testRepo(t)
	store := &fakeLister{entries: []storage.Entry{
		{Path: "xtts_output_fresh.wav", ModTime: time.Now()},
	}}

	sweeper := NewOrphanSweeper(repo, store, 24*time.Hour, zap.NewNop().Sugar())
	removed, err := sweeper.Sweep()
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Empty(t, store.deleted)
}
