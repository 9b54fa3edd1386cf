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

	"github.com/gin-gonic/gin"

	"wellness-tracker/internal/api"
	"wellness-tracker/internal/bot"
	"wellness-tracker/internal/config"
	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/repository"
	"wellness-tracker/internal/service"
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
	categoryRepo := repository.NewCategoryRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	moodRepo := repository.NewMoodRepository(db)

	if err := categoryRepo.Seed(ctx, repository.DefaultCatalog()); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	progressLedger := ledger.New(repository.NewGateway(db), cfg.DailyGoal)
	activitySvc := service.NewActivityService(categoryRepo, favoriteRepo, progressLedger)
	moodSvc := service.NewMoodService(moodRepo, time.Now)
	sessions := service.NewSessionManager(progressLedger, activitySvc, moodSvc)
	reportSvc := service.NewReportService(time.Local)

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleDailyReset(cfg.ResetAt, sessions); err != nil {
		log.Fatalf("schedule reset: %v", err)
	}

	var telegramBot *bot.Bot
	if cfg.BotEnabled() {
		telegramBot, err = bot.New(cfg.TelegramToken, userRepo, sessions, activitySvc, moodSvc, reportSvc)
		if err != nil {
			log.Fatalf("bot: %v", err)
		}
		if _, err := scheduler.ScheduleInterval(cfg.ReportInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("report: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule reports: %v", err)
		}
	}

	scheduler.Start()
	defer scheduler.Stop()

	var httpServer *http.Server
	if cfg.HTTPEnabled() {
		gin.SetMode(gin.ReleaseMode)
		server := api.NewServer(userRepo, sessions, activitySvc, moodSvc, cfg.JWTSecret)
		httpServer = &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           server.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Printf("[info] http api listening on %s", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("http server: %v", err)
				stop()
			}
		}()
	}

	log.Println("Wellness tracker started.")
	if telegramBot != nil {
		if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("bot stopped with error: %v", err)
		}
	} else {
		<-ctx.Done()
	}

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}
	log.Println("Shutdown complete.")
}
