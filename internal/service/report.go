package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/omarshaarawi/ffdash/internal/models"
	"github.com/omarshaarawi/ffdash/internal/present"
)

// LatestCompletedWeek is the highest week in which any team has scored.
func LatestCompletedWeek(rows []models.TeamWeekRecord) int {
	latest := 0
	for _, r := range rows {
		if r.ActualPoints > 0 && r.Week > latest {
			latest = r.Week
		}
	}
	return latest
}

// Digest summarizes the latest completed week in Telegram Markdown.
func (s *DashboardService) Digest(ctx context.Context) (string, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return "", fmt.Errorf("error loading tables: %w", err)
	}

	week := LatestCompletedWeek(tables.Teams)
	if week == 0 {
		return "📊 No completed weeks yet.", nil
	}

	var best, worst *models.TeamWeekRecord
	for i := range tables.Teams {
		r := &tables.Teams[i]
		if r.Week != week {
			continue
		}
		if best == nil || r.Difference() > best.Difference() {
			best = r
		}
		if worst == nil || r.Difference() < worst.Difference() {
			worst = r
		}
	}

	var top *models.PlayerWeekRecord
	for i := range tables.Players {
		p := &tables.Players[i]
		if p.Week == week && (top == nil || p.PointsScored > top.PointsScored) {
			top = p
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Week %d Digest*\n\n", week))
	sb.WriteString(fmt.Sprintf("Beat projection by most: *%s* (%+.2f)\n", best.Team, best.Difference()))
	sb.WriteString(fmt.Sprintf("Missed projection by most: *%s* (%+.2f)\n", worst.Team, worst.Difference()))
	if top != nil {
		sb.WriteString(fmt.Sprintf("Top scorer: *%s* (%s, %s) %.2f pts\n", top.PlayerName, top.Position, top.Team, top.PointsScored))
	}
	return sb.String(), nil
}

// WeekSummary lists every team's actual and projected points for week.
func (s *DashboardService) WeekSummary(ctx context.Context, week int) (string, error) {
	if week < 1 || week > s.TotalWeeks() {
		return "", fmt.Errorf("%w: week %d not in [1, %d]", ErrInvalidSelection, week, s.TotalWeeks())
	}
	tables, err := s.Tables(ctx)
	if err != nil {
		return "", fmt.Errorf("error loading tables: %w", err)
	}

	bars := present.WeekBars(tables.Teams, week)
	if len(bars) == 0 {
		return fmt.Sprintf("No data available for Week %d.", week), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏈 *Week %d: Actual vs Projected*\n\n", week))
	for _, b := range bars {
		marker := "🔴"
		if b.Color == present.ColorAbove {
			marker = "🟢"
		}
		sb.WriteString(fmt.Sprintf("%s *%s* %.2f (proj %.2f, %+.2f)\n",
			marker, b.Team, b.ActualPoints, b.ProjectedPoints, roundTo(b.ActualPoints-b.ProjectedPoints, 2)))
	}
	return sb.String(), nil
}

// TopPlayers formats the ranking for position over scope. startWeek and
// endWeek are only read for a range scope; other scopes rank over the season.
func (s *DashboardService) TopPlayers(ctx context.Context, position string, scope models.WeekScope, startWeek, endWeek int) (string, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return "", fmt.Errorf("error loading tables: %w", err)
	}

	for _, p := range present.PositionOptions(tables.Players) {
		if strings.EqualFold(p, position) {
			position = p
			break
		}
	}

	if scope.Kind != models.ScopeRange {
		startWeek, endWeek = 1, s.TotalWeeks()
	}
	sel := models.Selection{StartWeek: startWeek, EndWeek: endWeek, Position: position, Scope: scope}
	if err := s.ValidateSelection(sel); err != nil {
		return "", err
	}
	view := present.Build(tables, sel).Ranking
	if view.Notice != "" {
		return view.Notice, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 *%s*\n\n", view.Title))
	for _, p := range view.Players {
		sb.WriteString(fmt.Sprintf("%d. %s - %.2f pts\n", p.Rank, p.PlayerName, p.TotalPoints))
	}
	return sb.String(), nil
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
