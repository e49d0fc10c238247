package fantasy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/omarshaarawi/ffdash/internal/models"
)

const DefaultTotalWeeks = 12

var ErrWeekOutOfRange = errors.New("week out of range")

// LeagueSource is the provider the fetcher reads from. *espn.API satisfies it.
type LeagueSource interface {
	GetTeamNames(ctx context.Context) (map[int]string, error)
	GetBoxScores(ctx context.Context, week int, teamNames map[int]string) ([]models.BoxScore, error)
}

// API fetches box scores for weeks 1..TotalWeeks and never asks the provider
// for anything outside that range.
type API struct {
	source     LeagueSource
	totalWeeks int
}

func NewAPI(source LeagueSource, totalWeeks int) *API {
	if totalWeeks <= 0 {
		totalWeeks = DefaultTotalWeeks
	}
	return &API{source: source, totalWeeks: totalWeeks}
}

func (a *API) TotalWeeks() int {
	return a.totalWeeks
}

func (a *API) TeamNames(ctx context.Context) (map[int]string, error) {
	return a.source.GetTeamNames(ctx)
}

func (a *API) BoxScores(ctx context.Context, week int, teamNames map[int]string) ([]models.BoxScore, error) {
	if week < 1 || week > a.totalWeeks {
		return nil, fmt.Errorf("%w: %d not in [1, %d]", ErrWeekOutOfRange, week, a.totalWeeks)
	}
	return a.source.GetBoxScores(ctx, week, teamNames)
}

// FetchSeason resolves team names once, then requests every week in order.
// The first provider error aborts the load.
func (a *API) FetchSeason(ctx context.Context) ([]models.WeekBoxScores, error) {
	names, err := a.TeamNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("error fetching team names: %w", err)
	}

	weeks := make([]models.WeekBoxScores, 0, a.totalWeeks)
	for week := 1; week <= a.totalWeeks; week++ {
		boxScores, err := a.BoxScores(ctx, week, names)
		if err != nil {
			return nil, err
		}
		slog.Debug("Fetched week", "week", week, "matchups", len(boxScores))
		weeks = append(weeks, models.WeekBoxScores{Week: week, BoxScores: boxScores})
	}
	return weeks, nil
}
