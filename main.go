package main

import (
	"log"

	api "voiceclone-backend/cmd/api"
	authdomain "voiceclone-backend/internal/auth/domain"
	authRepo "voiceclone-backend/internal/auth/repository"
	authUsecase "voiceclone-backend/internal/auth/usecase"
	historydomain "voiceclone-backend/internal/history/domain"
	historyRepo "voiceclone-backend/internal/history/repository"
	"voiceclone-backend/internal/history/scheduler"
	historyUsecase "voiceclone-backend/internal/history/usecase"
	"voiceclone-backend/pkg/config"
	"voiceclone-backend/pkg/database"
	"voiceclone-backend/pkg/logger"
	"voiceclone-backend/pkg/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(logger.Config{
		Mode:       cfg.LogMode,
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxAge:     cfg.LogMaxAge,
		MaxBackups: cfg.LogMaxBackups,
	})
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zlog.Sync()

	// Initialize database
	db, err := database.NewConnection(cfg)
	if err != nil {
		zlog.Fatalw("failed to connect to database", "error", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &historydomain.HistoryRecord{}); err != nil {
		zlog.Fatalw("failed to migrate database", "error", err)
	}

	// Initialize artifact store
	store, err := storage.New(cfg.OutputDir)
	if err != nil {
		zlog.Fatalw("failed to initialize artifact store", "error", err, "dir", cfg.OutputDir)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	historyRepository := historyRepo.NewGormHistoryRepository(db)

	// Initialize use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	historyUsecaseInstance := historyUsecase.NewHistoryUsecase(historyRepository, store, zlog)

	// Periodic sweep reclaims files no ledger record references anymore
	if cfg.SweepSchedule != "" {
		sweeper := scheduler.NewOrphanSweeper(historyRepository, store, cfg.SweepGrace, zlog)
		if err := sweeper.Start(cfg.SweepSchedule); err != nil {
			zlog.Errorw("failed to schedule orphan sweep", "error", err, "schedule", cfg.SweepSchedule)
		}
		defer sweeper.Stop()
	}

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, historyUsecaseInstance, store, cfg, zlog)

	zlog.Infow("server starting", "port", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		zlog.Fatalw("failed to start server", "error", err)
	}
}
