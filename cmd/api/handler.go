package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authUsecase "voiceclone-backend/internal/auth/usecase"
	historyDelivery "voiceclone-backend/internal/history/delivery"
	historyUsecasePkg "voiceclone-backend/internal/history/usecase"
	synthesisDelivery "voiceclone-backend/internal/synthesis/delivery"
	synthesisUsecasePkg "voiceclone-backend/internal/synthesis/usecase"
	"voiceclone-backend/pkg/config"
	"voiceclone-backend/pkg/storage"
	"voiceclone-backend/pkg/tts"
)

type Handler struct {
	authUsecase      authUsecase.AuthUsecase
	historyHandler   *historyDelivery.HistoryHandler
	synthesisHandler *synthesisDelivery.SynthesisHandler
	config           *config.Config
	log              *zap.SugaredLogger
}

func NewHandler(authUc authUsecase.AuthUsecase, historyUc historyUsecasePkg.HistoryUsecase, store *storage.Store, cfg *config.Config, log *zap.SugaredLogger) *Handler {
	// Runtime config backs the settings API; the TTS client resolves its
	// base URL through the getter so updates apply without a restart.
	InitRuntimeConfig(cfg.TTSBaseURL)
	ttsClient := tts.NewClientWithGetter(GetRuntimeTTSBaseURL, cfg.TTSTimeout)
	log.Infow("TTS client initialized", "base_url", cfg.TTSBaseURL, "timeout", cfg.TTSTimeout)

	synthesisUc := synthesisUsecasePkg.NewSynthesisUsecase(ttsClient, store, historyUc, log)

	return &Handler{
		authUsecase:      authUc,
		historyHandler:   historyDelivery.NewHistoryHandler(historyUc),
		synthesisHandler: synthesisDelivery.NewSynthesisHandler(synthesisUc),
		config:           cfg,
		log:              log,
	}
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(h.config.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	SetupRoutes(r, h.authUsecase, h.historyHandler, h.synthesisHandler)

	h.log.Infow("server listening", "addr", addr)
	return r.Run(addr)
}
