package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"voiceclone-backend/pkg/tts"
)

// RuntimeConfig holds runtime-configurable settings
type RuntimeConfig struct {
	TTSBaseURL string `json:"tts_base_url"`
}

var (
	runtimeConfig     RuntimeConfig
	runtimeConfigLock sync.RWMutex
)

// InitRuntimeConfig initializes runtime config from static config
func InitRuntimeConfig(ttsBaseURL string) {
	runtimeConfigLock.Lock()
	defer runtimeConfigLock.Unlock()
	runtimeConfig = RuntimeConfig{TTSBaseURL: ttsBaseURL}
}

// GetRuntimeTTSBaseURL returns the current runtime TTS base URL
func GetRuntimeTTSBaseURL() string {
	runtimeConfigLock.RLock()
	defer runtimeConfigLock.RUnlock()
	return runtimeConfig.TTSBaseURL
}

// UpdateTTSSettingsRequest represents the request body for updating TTS settings
type UpdateTTSSettingsRequest struct {
	TTSBaseURL string `json:"tts_base_url" binding:"required"`
}

// GetTTSSettings returns the current TTS configuration
// GET /api/settings/tts
func GetTTSSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tts_base_url": GetRuntimeTTSBaseURL()})
}

// UpdateTTSSettings updates the TTS endpoint at runtime
// PUT /api/settings/tts
func UpdateTTSSettings(c *gin.Context) {
	var req UpdateTTSSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runtimeConfigLock.Lock()
	runtimeConfig.TTSBaseURL = req.TTSBaseURL
	runtimeConfigLock.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"message":      "TTS settings updated successfully",
		"tts_base_url": req.TTSBaseURL,
	})
}

// TestTTSConnection checks whether the TTS server is reachable and healthy
// POST /api/settings/tts/test
func TestTTSConnection(c *gin.Context) {
	var req struct {
		TTSBaseURL string `json:"tts_base_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		// If no body provided, use current config
		req.TTSBaseURL = GetRuntimeTTSBaseURL()
	}
	if req.TTSBaseURL == "" {
		req.TTSBaseURL = GetRuntimeTTSBaseURL()
	}

	target := req.TTSBaseURL
	client := tts.NewClientWithGetter(func() string { return target }, 10*time.Second)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	if err := client.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":    true,
		"tts_base_url": req.TTSBaseURL,
	})
}
