package domain

import (
	"errors"
	"time"
)

var (
	// ErrNotFound covers both "no such record" and "record owned by someone
	// else". The two cases are indistinguishable to callers so a probing
	// client cannot learn that another user's record exists.
	ErrNotFound = errors.New("history record not found")

	// ErrStorageUnavailable wraps database failures. A caller seeing it must
	// not assume the operation was persisted.
	ErrStorageUnavailable = errors.New("history storage unavailable")

	ErrInvalidLanguage = errors.New("unsupported language code")
)

// SupportedLanguages is the fixed set of codes the synthesis model accepts.
var SupportedLanguages = []string{"vi", "en", "ja", "ko", "fr", "de", "es"}

func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}

// HistoryRecord is one completed synthesis request, owned by exactly one
// user. It references its artifact files by store-relative path but does not
// own their lifetime: the record is the source of truth that the synthesis
// happened, whether or not the files still exist on disk.
//
// Records are append-only. The "edit" feature duplicates an old record's
// text and language into a fresh request; the old record is never mutated.
type HistoryRecord struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Owner      string    `json:"owner" gorm:"index;not null"`
	Text       string    `json:"text" gorm:"type:text"`
	Language   string    `json:"language" gorm:"size:10"`
	VoicePath  string    `json:"voice_path"`
	OutputPath string    `json:"output_path"`
	CreatedAt  time.Time `json:"created_at"`
}

func (HistoryRecord) TableName() string { return "history" }
