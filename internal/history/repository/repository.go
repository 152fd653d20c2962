package repository

import (
	"voiceclone-backend/internal/history/domain"
)

// HistoryRepository is owner-scoped keyed CRUD over the history table.
type HistoryRepository interface {
	// Create inserts a new record, assigning a fresh id and timestamp when
	// unset. Fails only when the storage layer does.
	Create(record *domain.HistoryRecord) error

	// FindByOwner returns all of an owner's records, newest first. An owner
	// with no history gets an empty slice, not an error.
	FindByOwner(owner string) ([]*domain.HistoryRecord, error)

	// FindByID fetches by id regardless of owner; callers are responsible
	// for the ownership check before exposing the record. Missing -> nil.
	FindByID(id string) (*domain.HistoryRecord, error)

	// Delete removes the record only when both id and owner match. Returns
	// false when nothing was deleted.
	Delete(owner, id string) (bool, error)

	// AllPaths returns every voice and output path referenced by any record,
	// for the orphan sweep.
	AllPaths() (map[string]struct{}, error)
}
