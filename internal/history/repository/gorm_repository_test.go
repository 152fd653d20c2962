package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"voiceclone-backend/internal/history/domain"
)

func testRepo(t *testing.T) HistoryRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.HistoryRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGormHistoryRepository(db)
}

func appendRecord(t *testing.T, repo HistoryRepository, owner, text, lang string) *domain.HistoryRecord {
	t.Helper()
	rec := &domain.HistoryRecord{
		Owner:      owner,
		Text:       text,
		Language:   lang,
		VoicePath:  "voices/v1.wav",
		OutputPath: "out1.wav",
	}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return rec
}

func TestCreateThenFindByID(t *testing.T) {
	repo := testRepo(t)

	rec := &domain.HistoryRecord{
		Owner:      "alice",
		Text:       "Xin chào",
		Language:   "vi",
		VoicePath:  "voices/v1.wav",
		OutputPath: "out1.wav",
	}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("Create did not assign an id")
	}
	if rec.CreatedAt.IsZero() {
		t.Fatal("Create did not assign a timestamp")
	}

	got, err := repo.FindByID(rec.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("FindByID returned nil for a fresh record")
	}
	if got.Owner != "alice" || got.Text != "Xin chào" || got.Language != "vi" ||
		got.VoicePath != "voices/v1.wav" || got.OutputPath != "out1.wav" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestCreateAssignsFreshIDs(t *testing.T) {
	repo := testRepo(t)

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		rec := appendRecord(t, repo, "alice", "text", "vi")
		if seen[rec.ID] {
			t.Fatalf("id %s assigned twice", rec.ID)
		}
		seen[rec.ID] = true
	}
}

func TestFindByOwnerIsScoped(t *testing.T) {
	repo := testRepo(t)

	mine := appendRecord(t, repo, "alice", "mine", "vi")
	appendRecord(t, repo, "bob", "theirs", "en")

	records, err := repo.FindByOwner("alice")
	if err != nil {
		t.Fatalf("FindByOwner: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID != mine.ID {
		t.Fatalf("expected %s, got %s", mine.ID, records[0].ID)
	}
}

func TestFindByOwnerNewestFirst(t *testing.T) {
	repo := testRepo(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		rec := &domain.HistoryRecord{
			Owner:     "alice",
			Text:      "t",
			Language:  "vi",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	records, err := repo.FindByOwner("alice")
	if err != nil {
		t.Fatalf("FindByOwner: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].CreatedAt.After(records[i-1].CreatedAt) {
			t.Fatalf("records out of order at %d: %v after %v",
				i, records[i].CreatedAt, records[i-1].CreatedAt)
		}
	}
}

func TestFindByOwnerEmpty(t *testing.T) {
	repo := testRepo(t)

	records, err := repo.FindByOwner("nobody")
	if err != nil {
		t.Fatalf("FindByOwner: %v", err)
	}
	if records == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}

func TestDeleteRequiresOwner(t *testing.T) {
	repo := testRepo(t)

	rec := appendRecord(t, repo, "alice", "keep me", "vi")

	deleted, err := repo.Delete("bob", rec.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted {
		t.Fatal("delete by non-owner must not remove the record")
	}

	got, err := repo.FindByID(rec.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got == nil {
		t.Fatal("record vanished after non-owner delete")
	}
	if got.Text != "keep me" {
		t.Fatalf("record changed: %+v", got)
	}
}

func TestDeleteTwice(t *testing.T) {
	repo := testRepo(t)

	rec := appendRecord(t, repo, "alice", "bye", "vi")

	deleted, err := repo.Delete("alice", rec.ID)
	if err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if !deleted {
		t.Fatal("first delete should succeed")
	}

	deleted, err = repo.Delete("alice", rec.ID)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Fatal("second delete should be a no-op")
	}

	records, err := repo.FindByOwner("alice")
	if err != nil {
		t.Fatalf("FindByOwner: %v", err)
	}
	for _, r := range records {
		if r.ID == rec.ID {
			t.Fatal("deleted record still listed")
		}
	}
}

func TestEndToEndLifecycle(t *testing.T) {
	repo := testRepo(t)

	rec := appendRecord(t, repo, "alice", "Xin chào", "vi")

	records, err := repo.FindByOwner("alice")
	if err != nil {
		t.Fatalf("FindByOwner: %v", err)
	}
	if len(records) != 1 || records[0].ID != rec.ID {
		t.Fatalf("expected [%s], got %+v", rec.ID, records)
	}

	deleted, err := repo.Delete("alice", rec.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, err)
	}

	records, err = repo.FindByOwner("alice")
	if err != nil {
		t.Fatalf("FindByOwner after delete: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty history, got %d records", len(records))
	}

	got, err := repo.FindByID(rec.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}

func TestAllPaths(t *testing.T) {
	repo := testRepo(t)

	a := &domain.HistoryRecord{Owner: "alice", VoicePath: "voices/a.wav", OutputPath: "out_a.wav"}
	b := &domain.HistoryRecord{Owner: "bob", VoicePath: "voices/b.wav", OutputPath: "out_b.wav"}
	for _, rec := range []*domain.HistoryRecord{a, b} {
		if err := repo.Create(rec); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	paths, err := repo.AllPaths()
	if err != nil {
		t.Fatalf("AllPaths: %v", err)
	}
	for _, want := range []string{"voices/a.wav", "out_a.wav", "voices/b.wav", "out_b.wav"} {
		if _, ok := paths[want]; !ok {
			t.Fatalf("AllPaths missing %s: %v", want, paths)
		}
	}
}
