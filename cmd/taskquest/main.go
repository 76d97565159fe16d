package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskquest/internal/api"
	"taskquest/internal/auth"
	"taskquest/internal/config"
	"taskquest/internal/repository"
	"taskquest/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)

	tokens := auth.NewTokenManager(cfg.JWTSecret, 24*time.Hour)
	authSvc := auth.NewService(userRepo, tokens)
	registry := service.NewRegistry(taskRepo, statsRepo, achievementRepo, cfg.SyncDebounce)

	scheduler := service.NewScheduler(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.ScanInterval, func() {
		registry.ScanAll(time.Now())
	}); err != nil {
		log.Fatalf("schedule reconciler scans: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := api.NewServer(cfg.HTTPAddr, authSvc, registry)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Printf("TaskQuest listening on %s", cfg.HTTPAddr)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped with error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	registry.CloseAll(shutdownCtx)
	log.Println("Shutdown complete.")
}
