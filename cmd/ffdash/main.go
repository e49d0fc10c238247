// Command ffdash serves the fantasy football dashboard.
//
// Usage:
//
//	ffdash serve
//	ffdash export --table team --format csv
//	ffdash export --table player --format json
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/omarshaarawi/ffdash/internal/api/espn"
	"github.com/omarshaarawi/ffdash/internal/api/fantasy"
	"github.com/omarshaarawi/ffdash/internal/config"
	"github.com/omarshaarawi/ffdash/internal/repository/memory"
	"github.com/omarshaarawi/ffdash/internal/repository/redis"
	"github.com/omarshaarawi/ffdash/internal/service"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	root := &cobra.Command{
		Use:           "ffdash",
		Short:         "Fantasy football league dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd())
	root.AddCommand(exportCmd())

	if err := root.Execute(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

type app struct {
	cfg     *config.Config
	svc     *service.DashboardService
	closers []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			slog.Error("Error closing resource", "error", err)
		}
	}
}

// newApp wires the ESPN client, fetcher, store and service from the
// environment. Redis backs the table store when REDIS_URL is set.
func newApp() (*app, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	espnClient := espn.NewClient(cfg.ESPNAPI)
	espnAPI := espn.NewAPI(espnClient)
	fantasyAPI := fantasy.NewAPI(espnAPI, cfg.Season.TotalWeeks)

	a := &app{cfg: cfg}
	sessions := memory.NewRepository()
	var store service.TableStore = sessions

	if cfg.Cache.RedisURL != "" {
		repo, err := redis.NewRepository(cfg.Cache.RedisURL, cfg.ESPNAPI.LeagueID, cfg.ESPNAPI.Year, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		slog.Info("Using redis table store")
		store = repo
		a.closers = append(a.closers, repo.Close)
	}

	a.svc = service.NewDashboardService(fantasyAPI, store, sessions)
	return a, nil
}
