package usecase

import (
	"sort"

	"go.uber.org/zap"

	"voiceclone-backend/internal/history/domain"
	"voiceclone-backend/internal/history/repository"
	"voiceclone-backend/pkg/fuzzy"
)

type historyUsecase struct {
	repo  repository.HistoryRepository
	store ArtifactStore
	log   *zap.SugaredLogger
}

func NewHistoryUsecase(repo repository.HistoryRepository, store ArtifactStore, log *zap.SugaredLogger) HistoryUsecase {
	return &historyUsecase{repo: repo, store: store, log: log}
}

func (u *historyUsecase) Append(owner, text, language, voicePath, outputPath string) (*domain.HistoryRecord, error) {
	record := &domain.HistoryRecord{
		Owner:      owner,
		Text:       text,
		Language:   language,
		VoicePath:  voicePath,
		OutputPath: outputPath,
	}
	if err := u.repo.Create(record); err != nil {
		return nil, err
	}
	u.log.Infow("history record appended", "id", record.ID, "owner", owner, "language", language)
	return record, nil
}

func (u *historyUsecase) ListFor(owner string) []*domain.HistoryRecord {
	records, err := u.repo.FindByOwner(owner)
	if err != nil {
		// Degraded mode: an unreachable database shows an empty history
		// rather than a failed page.
		u.log.Errorw("history listing degraded to empty", "owner", owner, "error", err)
		return []*domain.HistoryRecord{}
	}
	return records
}

func (u *historyUsecase) GetForOwner(owner, id string) (*domain.HistoryRecord, error) {
	record, err := u.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if record == nil || record.Owner != owner {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

func (u *historyUsecase) Delete(owner, id string) error {
	record, err := u.GetForOwner(owner, id)
	if err != nil {
		return err
	}

	// Files first, best-effort. A dangling orphan file is a lesser problem
	// than a ledger entry that can never be removed.
	for _, path := range []string{record.VoicePath, record.OutputPath} {
		if path == "" {
			continue
		}
		if err := u.store.Delete(path); err != nil {
			u.log.Warnw("artifact delete failed, continuing", "id", id, "path", path, "error", err)
		}
	}

	deleted, err := u.repo.Delete(owner, id)
	if err != nil {
		return err
	}
	if !deleted {
		// Lost a race with a concurrent delete of the same record.
		return domain.ErrNotFound
	}
	u.log.Infow("history record deleted", "id", id, "owner", owner)
	return nil
}

func (u *historyUsecase) ReadOutput(owner, id string) ([]byte, *domain.HistoryRecord, error) {
	return u.readArtifact(owner, id, func(r *domain.HistoryRecord) string { return r.OutputPath })
}

func (u *historyUsecase) ReadVoice(owner, id string) ([]byte, *domain.HistoryRecord, error) {
	return u.readArtifact(owner, id, func(r *domain.HistoryRecord) string { return r.VoicePath })
}

func (u *historyUsecase) readArtifact(owner, id string, path func(*domain.HistoryRecord) string) ([]byte, *domain.HistoryRecord, error) {
	record, err := u.GetForOwner(owner, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := u.store.Read(path(record))
	if err != nil {
		// The record survives a missing file; the caller decides how to
		// present it.
		return nil, record, err
	}
	return data, record, nil
}

func (u *historyUsecase) Search(owner, query string) []*domain.HistoryRecord {
	records := u.ListFor(owner)
	if query == "" {
		return records
	}

	type scored struct {
		record *domain.HistoryRecord
		score  float64
	}
	var matches []scored
	for _, record := range records {
		if !fuzzy.Match(query, record.Text, 2) && query != record.Language {
			continue
		}
		matches = append(matches, scored{record, fuzzy.RelevanceScore(query, record.Text)})
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	result := make([]*domain.HistoryRecord, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.record)
	}
	return result
}
