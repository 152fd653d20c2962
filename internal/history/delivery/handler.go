package delivery

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"voiceclone-backend/internal/history/domain"
	"voiceclone-backend/internal/history/usecase"
	"voiceclone-backend/pkg/storage"
)

type HistoryHandler struct {
	historyUsecase usecase.HistoryUsecase
}

func NewHistoryHandler(historyUsecase usecase.HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{historyUsecase: historyUsecase}
}

// List returns the authenticated user's synthesis history, newest first
// GET /api/history
func (h *HistoryHandler) List(c *gin.Context) {
	owner := c.GetString("userID")

	records := h.historyUsecase.ListFor(owner)
	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   len(records),
	})
}

// Search filters the user's history by approximate text match
// GET /api/history/search?q=...
func (h *HistoryHandler) Search(c *gin.Context) {
	owner := c.GetString("userID")

	records := h.historyUsecase.Search(owner, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   len(records),
	})
}

// Get returns one record for edit-prefill. The UI loads the old text and
// language into a fresh form; submitting appends a new record.
// GET /api/history/:id
func (h *HistoryHandler) Get(c *gin.Context) {
	owner := c.GetString("userID")

	record, err := h.historyUsecase.GetForOwner(owner, c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Audio streams the generated waveform
// GET /api/history/:id/audio
func (h *HistoryHandler) Audio(c *gin.Context) {
	h.streamArtifact(c, h.historyUsecase.ReadOutput,
		func(r *domain.HistoryRecord) string { return r.OutputPath },
		"audio file was removed from disk")
}

// Voice streams the uploaded reference sample
// GET /api/history/:id/voice
func (h *HistoryHandler) Voice(c *gin.Context) {
	h.streamArtifact(c, h.historyUsecase.ReadVoice,
		func(r *domain.HistoryRecord) string { return r.VoicePath },
		"voice sample was removed from disk")
}

// Delete removes a record and best-effort deletes its files
// DELETE /api/history/:id
func (h *HistoryHandler) Delete(c *gin.Context) {
	owner := c.GetString("userID")

	if err := h.historyUsecase.Delete(owner, c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "record deleted"})
}

type artifactReader func(owner, id string) ([]byte, *domain.HistoryRecord, error)

func (h *HistoryHandler) streamArtifact(c *gin.Context, read artifactReader, path func(*domain.HistoryRecord) string, missingMsg string) {
	owner := c.GetString("userID")

	data, record, err := read(owner, c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			// The record is intact; only the file is gone. Soft notice.
			c.JSON(http.StatusNotFound, gin.H{"error": missingMsg, "record_id": record.ID})
			return
		}
		h.renderError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename="+filepath.Base(path(record)))
	c.Data(http.StatusOK, "audio/wav", data)
}

func (h *HistoryHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
