// Package flatten turns fetched box scores into the team-week and player-week
// tables. Every function here is pure: the same input yields the same rows in
// the same order (week, then matchup, then home before away).
package flatten

import (
	"strconv"
	"time"

	"github.com/omarshaarawi/ffdash/internal/models"
)

func Build(weeks []models.WeekBoxScores, epoch uint64, loadedAt time.Time) *models.LeagueTables {
	return &models.LeagueTables{
		Epoch:    epoch,
		Teams:    TeamTable(weeks),
		Players:  PlayerTable(weeks),
		LoadedAt: loadedAt,
	}
}

func TeamTable(weeks []models.WeekBoxScores) []models.TeamWeekRecord {
	rows := make([]models.TeamWeekRecord, 0)
	for _, w := range weeks {
		for _, bs := range w.BoxScores {
			rows = append(rows,
				models.TeamWeekRecord{
					Team:            bs.HomeTeam,
					Week:            w.Week,
					ActualPoints:    bs.HomeScore,
					ProjectedPoints: projectedTotal(bs.HomeLineup),
				},
				models.TeamWeekRecord{
					Team:            bs.AwayTeam,
					Week:            w.Week,
					ActualPoints:    bs.AwayScore,
					ProjectedPoints: projectedTotal(bs.AwayLineup),
				},
			)
		}
	}
	return rows
}

func projectedTotal(lineup []models.LineupPlayer) float64 {
	var total float64
	for _, p := range lineup {
		total += valueOr(p.ProjectedPoints, 0)
	}
	return total
}

func PlayerTable(weeks []models.WeekBoxScores) []models.PlayerWeekRecord {
	rows := make([]models.PlayerWeekRecord, 0)
	for _, w := range weeks {
		for _, bs := range w.BoxScores {
			rows = appendPlayers(rows, bs.HomeTeam, w.Week, bs.HomeLineup)
			rows = appendPlayers(rows, bs.AwayTeam, w.Week, bs.AwayLineup)
		}
	}
	return rows
}

func appendPlayers(rows []models.PlayerWeekRecord, team string, week int, lineup []models.LineupPlayer) []models.PlayerWeekRecord {
	for _, p := range lineup {
		rows = append(rows, PlayerRecord(team, week, p))
	}
	return rows
}

// PlayerRecord applies the defaults for attributes the provider left out.
func PlayerRecord(team string, week int, p models.LineupPlayer) models.PlayerWeekRecord {
	rank := models.DefaultPositionRank
	if p.PositionRank != nil {
		rank = strconv.Itoa(*p.PositionRank)
	}
	return models.PlayerWeekRecord{
		Team:            team,
		PlayerName:      p.Name,
		Position:        valueOr(p.Position, models.DefaultPosition),
		Week:            week,
		PointsScored:    valueOr(p.Points, 0),
		ProjectedPoints: valueOr(p.ProjectedPoints, 0),
		PositionRank:    rank,
	}
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
