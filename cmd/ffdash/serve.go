package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/omarshaarawi/ffdash/internal/bot"
	"github.com/omarshaarawi/ffdash/internal/scheduler"
	"github.com/omarshaarawi/ffdash/internal/web"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard, API, scheduled refresh and optional Telegram bot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sendMessage func(string) error
	if a.cfg.TelegramBot.Token != "" {
		telegramBot, err := bot.NewTelegramBot(a.cfg.TelegramBot.Token, a.cfg.TelegramBot.ChatID, a.svc)
		if err != nil {
			return err
		}
		if a.cfg.TelegramBot.ChatID != 0 {
			sendMessage = telegramBot.SendMessage
		}

		go func() {
			if err := telegramBot.Start(ctx); err != nil {
				slog.Error("Error running telegram bot", "error", err)
			}
		}()
	}

	if a.cfg.Refresh.Enabled {
		sched, err := scheduler.NewScheduler(a.svc, a.cfg.Refresh.Location, sendMessage)
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				slog.Error("Error stopping scheduler", "error", err)
			}
		}()
	}

	server := web.NewServer(a.cfg.HTTP, a.svc)
	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
