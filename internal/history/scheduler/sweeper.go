// Package scheduler runs the periodic orphan artifact sweep. Record deletion
// removes files best-effort, so a failed unlink can strand a file on disk;
// the sweep reclaims anything no ledger row references anymore.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"voiceclone-backend/internal/history/repository"
	"voiceclone-backend/pkg/storage"
)

// ArtifactLister is the slice of the store the sweep needs.
type ArtifactLister interface {
	List() ([]storage.Entry, error)
	Delete(rel string) error
}

type OrphanSweeper struct {
	repo  repository.HistoryRepository
	store ArtifactLister
	grace time.Duration
	log   *zap.SugaredLogger
	cron  *cron.Cron
}

// NewOrphanSweeper builds a sweeper. grace protects freshly written files
// whose ledger row has not been committed yet.
func NewOrphanSweeper(repo repository.HistoryRepository, store ArtifactLister, grace time.Duration, log *zap.SugaredLogger) *OrphanSweeper {
	return &OrphanSweeper{
		repo:  repo,
		store: store,
		grace: grace,
		log:   log,
		cron:  cron.New(),
	}
}

// Start schedules the sweep with a cron spec (e.g. "@hourly").
func (s *OrphanSweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() {
		removed, err := s.Sweep()
		if err != nil {
			s.log.Errorw("orphan sweep failed", "error", err)
			return
		}
		if removed > 0 {
			s.log.Infow("orphan sweep finished", "removed", removed)
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("orphan sweep scheduled", "schedule", schedule, "grace", s.grace)
	return nil
}

func (s *OrphanSweeper) Stop() {
	s.cron.Stop()
}

// Sweep removes every stored file that no history record references and
// that is older than the grace window. Returns how many files were removed.
func (s *OrphanSweeper) Sweep() (int, error) {
	referenced, err := s.repo.AllPaths()
	if err != nil {
		return 0, err
	}
	entries, err := s.store.List()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-s.grace)
	removed := 0
	for _, entry := range entries {
		if _, ok := referenced[entry.Path]; ok {
			continue
		}
		if entry.ModTime.After(cutoff) {
			continue
		}
		if err := s.store.Delete(entry.Path); err != nil {
			s.log.Warnw("orphan delete failed", "path", entry.Path, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
