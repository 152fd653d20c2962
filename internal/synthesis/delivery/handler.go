package delivery

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	historydomain "voiceclone-backend/internal/history/domain"
	"voiceclone-backend/internal/synthesis/dto"
	"voiceclone-backend/internal/synthesis/usecase"
	"voiceclone-backend/pkg/tts"
)

// 10 MB is plenty for a few seconds of reference audio.
const maxVoiceSampleBytes = 10 << 20

type SynthesisHandler struct {
	synthesisUsecase usecase.SynthesisUsecase
}

func NewSynthesisHandler(synthesisUsecase usecase.SynthesisUsecase) *SynthesisHandler {
	return &SynthesisHandler{synthesisUsecase: synthesisUsecase}
}

// Synthesize accepts a multipart form (text, language, voice file), runs the
// voice-cloning model and streams the generated audio back. The completed job
// is recorded in the caller's history.
// POST /api/synthesize
func (h *SynthesisHandler) Synthesize(c *gin.Context) {
	owner := c.GetString("userID")

	file, err := c.FormFile("voice")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voice sample file is required"})
		return
	}
	if file.Size > maxVoiceSampleBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voice sample is too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read voice sample"})
		return
	}
	defer src.Close()
	voiceData, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read voice sample"})
		return
	}

	record, audio, err := h.synthesisUsecase.Synthesize(c.Request.Context(), owner, &dto.SynthesizeRequest{
		Text:      c.PostForm("text"),
		Language:  strings.ToLower(c.PostForm("language")),
		VoiceData: voiceData,
		VoiceExt:  filepath.Ext(file.Filename),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename="+filepath.Base(record.OutputPath))
	c.Header("X-Record-ID", record.ID)
	c.Data(http.StatusOK, "audio/wav", audio)
}

func (h *SynthesisHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tts.ErrTextEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must not be empty"})
	case errors.Is(err, historydomain.ErrInvalidLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language"})
	case errors.Is(err, historydomain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "speech generation failed: " + err.Error()})
	}
}
