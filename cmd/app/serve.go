package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vietanh2810/basepoint-api/internal/api"
	v1 "github.com/vietanh2810/basepoint-api/internal/api/handler/v1"
	"github.com/vietanh2810/basepoint-api/internal/config"
	"github.com/vietanh2810/basepoint-api/internal/notify"
	"github.com/vietanh2810/basepoint-api/internal/repository"
	"github.com/vietanh2810/basepoint-api/internal/repository/dao"
	"github.com/vietanh2810/basepoint-api/internal/reward"
	"github.com/vietanh2810/basepoint-api/internal/service"
)

const shutdownTimeout = 15 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the reward scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	conf, gdb, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(gdb)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	userRepo := repository.NewUserRepository(dao.NewUserDAO(gdb))
	factionRepo := repository.NewFactionRepository(dao.NewFactionDAO(gdb))

	userSvc := service.NewUserService(userRepo)
	authSvc := service.NewAuthService(userRepo)
	factionSvc := service.NewFactionService(factionRepo, userRepo)

	feed := v1.NewFeedHub(userSvc, conf.API.AllowedCORSDomains)
	notifiers := notify.Multi{notify.NewLogNotifier(zap.L()), feed}
	if conf.Notify != nil && conf.Notify.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(conf.Notify.WebhookURL, conf.Notify.Timeout))
	}

	captureChannel := ""
	if conf.Notify != nil {
		captureChannel = conf.Notify.CaptureChannel
	}
	territorySvc := service.NewTerritoryService(
		repository.NewTerritoryRepository(dao.NewTerritoryDAO(gdb)),
		repository.NewSessionRepository(dao.NewSessionDAO(gdb)),
		factionRepo,
		notifiers,
		nil,
		captureChannel,
	)

	scheduler := reward.NewScheduler(reward.SettingsFromConfig(conf.Reward), reward.Options{
		Sessions:   territorySvc,
		Holdings:   territorySvc,
		Treasury:   factionSvc,
		Notifier:   notifiers,
		Logger:     zap.L(),
		Registerer: registry,
	})
	territorySvc.SetSessionWatcher(scheduler)

	config.Watch(configPath, func(c *config.AppConfig) {
		if err := scheduler.UpdateSettings(reward.SettingsFromConfig(c.Reward)); err != nil {
			zap.L().Warn("ignoring reward settings from reloaded config", zap.Error(err))
			return
		}
		zap.L().Info("reward settings reloaded",
			zap.Int("per_point", c.Reward.PerPoint),
			zap.Duration("cycle_interval", c.Reward.CycleInterval),
		)
	}, func(err error) {
		zap.L().Warn("config reload failed", zap.Error(err))
	})

	s := api.NewServer(conf, api.Services{
		Auth:      authSvc,
		Users:     userSvc,
		Territory: territorySvc,
		Factions:  factionSvc,
		Feed:      feed,
	}, registry)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go feed.Run(ctx)
	defer feed.Close()

	if err = scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start the reward scheduler -> %w", err)
	}
	defer scheduler.Close()

	srv := &http.Server{
		Addr:              ":" + conf.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
	case <-ctx.Done():
		zap.L().Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("srv.Shutdown -> %w", err)
	}

	return nil
}
