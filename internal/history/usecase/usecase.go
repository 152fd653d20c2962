package usecase

import (
	"voiceclone-backend/internal/history/domain"
)

// ArtifactStore is the slice of the file store the ledger needs: reading
// referenced artifacts back and best-effort deleting them.
type ArtifactStore interface {
	Read(rel string) ([]byte, error)
	Delete(rel string) error
}

// HistoryUsecase exposes the per-user synthesis history.
type HistoryUsecase interface {
	// Append records a completed synthesis. Callers must only invoke it
	// after the output file exists; a failed synthesis leaves no record.
	Append(owner, text, language, voicePath, outputPath string) (*domain.HistoryRecord, error)

	// ListFor returns the owner's history, newest first. A storage failure
	// degrades to an empty list; listing never errors.
	ListFor(owner string) []*domain.HistoryRecord

	// GetForOwner fetches a record for edit-prefill. A record owned by
	// someone else is reported as not found.
	GetForOwner(owner, id string) (*domain.HistoryRecord, error)

	// Delete removes the record and best-effort deletes both referenced
	// files. File-deletion failures are logged, never propagated: the
	// ledger row is authoritative.
	Delete(owner, id string) error

	// ReadOutput and ReadVoice stream a record's artifacts. A missing file
	// yields storage.ErrFileNotFound while the record itself stays intact.
	ReadOutput(owner, id string) ([]byte, *domain.HistoryRecord, error)
	ReadVoice(owner, id string) ([]byte, *domain.HistoryRecord, error)

	// Search filters the owner's history by fuzzy text match.
	Search(owner, query string) []*domain.HistoryRecord
}
