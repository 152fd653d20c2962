package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"voiceclone-backend/internal/history/domain"
)

type gormHistoryRepository struct {
	db *gorm.DB
}

func NewGormHistoryRepository(db *gorm.DB) HistoryRepository {
	return &gormHistoryRepository{db: db}
}

func (r *gormHistoryRepository) Create(record *domain.HistoryRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *gormHistoryRepository) FindByOwner(owner string) ([]*domain.HistoryRecord, error) {
	records := []*domain.HistoryRecord{}
	err := r.db.Where("owner = ?", owner).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return records, nil
}

func (r *gormHistoryRepository) FindByID(id string) (*domain.HistoryRecord, error) {
	var record domain.HistoryRecord
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return &record, nil
}

func (r *gormHistoryRepository) Delete(owner, id string) (bool, error) {
	// Scoping by both id and owner means two users can never race on the
	// same row, and a repeat delete is a clean no-op.
	res := r.db.Where("id = ? AND owner = ?", id, owner).Delete(&domain.HistoryRecord{})
	if res.Error != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *gormHistoryRepository) AllPaths() (map[string]struct{}, error) {
	var rows []struct {
		VoicePath  string
		OutputPath string
	}
	err := r.db.Model(&domain.HistoryRecord{}).
		Select("voice_path", "output_path").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	paths := make(map[string]struct{}, len(rows)*2)
	for _, row := range rows {
		paths[row.VoicePath] = struct{}{}
		paths[row.OutputPath] = struct{}{}
	}
	return paths, nil
}
