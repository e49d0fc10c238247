// Package present derives the dashboard views from the flattened tables and a
// filter selection. Nothing here holds state; every call recomputes from its
// arguments.
package present

import (
	"fmt"

	"github.com/omarshaarawi/ffdash/internal/models"
)

type HeatmapView struct {
	Grid   Heatmap `json:"grid"`
	Spec   Spec    `json:"spec,omitempty"`
	Notice string  `json:"notice,omitempty"`
}

type BarView struct {
	Week   int    `json:"week"`
	Bars   []Bar  `json:"bars"`
	Spec   Spec   `json:"spec,omitempty"`
	Notice string `json:"notice,omitempty"`
}

type RankingView struct {
	Position string         `json:"position"`
	Scope    string         `json:"scope"`
	Title    string         `json:"title"`
	Players  []RankedPlayer `json:"players"`
	Spec     Spec           `json:"spec,omitempty"`
	Notice   string         `json:"notice,omitempty"`
}

type Dashboard struct {
	Selection       models.Selection        `json:"selection"`
	TeamOptions     []string                `json:"teamOptions"`
	PositionOptions []string                `json:"positionOptions"`
	Rows            []models.TeamWeekRecord `json:"rows"`
	Heatmap         HeatmapView             `json:"heatmap"`
	Bars            BarView                 `json:"bars"`
	Ranking         RankingView             `json:"ranking"`
}

// Build renders every view for sel. A view whose filter leaves no rows gets a
// Notice and no Spec.
func Build(tables *models.LeagueTables, sel models.Selection) Dashboard {
	rows := FilterTeams(tables.Teams, sel)
	d := Dashboard{
		Selection:       sel,
		TeamOptions:     TeamOptions(tables.Teams),
		PositionOptions: PositionOptions(tables.Players),
		Rows:            rows,
	}

	if len(rows) == 0 {
		d.Heatmap = HeatmapView{Grid: Heatmap{}, Notice: "No data available for the selected teams and weeks."}
	} else {
		grid := Pivot(rows)
		d.Heatmap = HeatmapView{Grid: grid, Spec: HeatmapSpec(grid)}
	}

	bars := WeekBars(rows, sel.EndWeek)
	d.Bars = BarView{Week: sel.EndWeek, Bars: bars}
	if len(bars) == 0 {
		d.Bars.Notice = fmt.Sprintf("No data available for Week %d with the current team selection.", sel.EndWeek)
	} else {
		d.Bars.Spec = WeekBarsSpec(bars, sel.EndWeek)
	}

	label := scopeLabel(sel.Scope, sel)
	players := RankPlayers(tables.Players, sel.Position, sel.Scope, sel)
	d.Ranking = RankingView{
		Position: sel.Position,
		Scope:    sel.Scope.String(),
		Title:    fmt.Sprintf("Top %d %s for %s", TopN, sel.Position, label),
		Players:  players,
	}
	if len(players) == 0 {
		d.Ranking.Notice = fmt.Sprintf("No data available for %s in %s.", sel.Position, label)
	} else {
		d.Ranking.Spec = RankingSpec(players, sel.Position)
	}

	return d
}

// DefaultSelection mirrors the dashboard's initial widget state: every team,
// weeks 1-2, the first position seen, ranked over all weeks.
func DefaultSelection(tables *models.LeagueTables) models.Selection {
	sel := models.Selection{
		Teams:     TeamOptions(tables.Teams),
		StartWeek: 1,
		EndWeek:   2,
		Scope:     models.AllWeeks(),
	}
	if positions := PositionOptions(tables.Players); len(positions) > 0 {
		sel.Position = positions[0]
	}
	return sel
}
