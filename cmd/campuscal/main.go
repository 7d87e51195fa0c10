package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/campus-cal/internal/canvas"
	"github.com/noah-isme/campus-cal/internal/cli"
	"github.com/noah-isme/campus-cal/internal/repository"
	"github.com/noah-isme/campus-cal/internal/service"
	"github.com/noah-isme/campus-cal/pkg/config"
	"github.com/noah-isme/campus-cal/pkg/database"
	"github.com/noah-isme/campus-cal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	importRepo := repository.NewImportRepository(db)

	validate := validator.New()
	authSvc := service.NewAuthService(userRepo, logr)
	userSvc := service.NewUserService(userRepo, validate, logr)
	eventSvc := service.NewEventService(eventRepo, validate, logr)
	importSvc := service.NewImportService(importRepo, canvas.NewClient(cfg.Canvas.Timeout), logr)

	repl := cli.New(os.Stdin, os.Stdout, authSvc, userSvc, eventSvc, importSvc, logr)
	if err := repl.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logr.Sugar().Fatalw("command loop failed", "error", err)
	}
}
