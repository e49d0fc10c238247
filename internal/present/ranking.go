package present

import (
	"sort"

	"github.com/omarshaarawi/ffdash/internal/models"
)

const TopN = 10

type RankedPlayer struct {
	Rank        int     `json:"rank"`
	PlayerName  string  `json:"playerName"`
	Position    string  `json:"position"`
	TotalPoints float64 `json:"totalPoints"`
}

type playerKey struct {
	name     string
	position string
}

// RankPlayers sums points per (player, position) over the weeks chosen by scope
// and returns the top ten, highest first. Equal totals keep the order in which
// the players first appear in rows.
func RankPlayers(rows []models.PlayerWeekRecord, position string, scope models.WeekScope, sel models.Selection) []RankedPlayer {
	totals := make(map[playerKey]int)
	ranked := make([]RankedPlayer, 0)
	for _, r := range rows {
		if r.Position != position || !inScope(r.Week, scope, sel) {
			continue
		}
		key := playerKey{name: r.PlayerName, position: r.Position}
		idx, ok := totals[key]
		if !ok {
			idx = len(ranked)
			totals[key] = idx
			ranked = append(ranked, RankedPlayer{PlayerName: r.PlayerName, Position: r.Position})
		}
		ranked[idx].TotalPoints += r.PointsScored
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

func inScope(week int, scope models.WeekScope, sel models.Selection) bool {
	switch scope.Kind {
	case models.ScopeWeek:
		return week == scope.Week
	case models.ScopeRange:
		return week >= sel.StartWeek && week <= sel.EndWeek
	default:
		return true
	}
}
