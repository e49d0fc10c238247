package present

import (
	"fmt"

	"github.com/omarshaarawi/ffdash/internal/models"
)

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// Spec is a Vega-Lite chart specification.
type Spec map[string]any

func HeatmapSpec(h Heatmap) Spec {
	values := make([]map[string]any, 0)
	for i, team := range h.Teams {
		for j, week := range h.Weeks {
			if h.Cells[i][j] == nil {
				continue
			}
			values = append(values, map[string]any{
				"team":       team,
				"week":       week,
				"difference": *h.Cells[i][j],
			})
		}
	}

	encoding := map[string]any{
		"x": map[string]any{"field": "week", "type": "ordinal", "title": "Week", "sort": h.Weeks},
		"y": map[string]any{"field": "team", "type": "nominal", "title": "Team", "sort": h.Teams},
	}
	return Spec{
		"$schema":  vegaLiteSchema,
		"title":    "Weekly Performance Difference: Actual vs Projected",
		"width":    "container",
		"height":   40 * max(len(h.Teams), 1),
		"data":     map[string]any{"values": values},
		"encoding": encoding,
		"layer": []any{
			map[string]any{
				"mark": "rect",
				"encoding": map[string]any{
					"color": map[string]any{
						"field": "difference",
						"type":  "quantitative",
						"title": "Difference",
						"scale": map[string]any{"scheme": "redyellowgreen", "domainMid": 0},
					},
				},
			},
			map[string]any{
				"mark": map[string]any{"type": "text", "baseline": "middle"},
				"encoding": map[string]any{
					"text": map[string]any{"field": "difference", "type": "quantitative", "format": ".1f"},
				},
			},
		},
	}
}

func WeekBarsSpec(bars []Bar, week int) Spec {
	values := make([]map[string]any, 0, len(bars))
	for _, b := range bars {
		values = append(values, map[string]any{
			"team":            b.Team,
			"actualPoints":    b.ActualPoints,
			"projectedPoints": b.ProjectedPoints,
		})
	}
	return Spec{
		"$schema": vegaLiteSchema,
		"title":   fmt.Sprintf("Total Actual Points in Week %d", week),
		"width":   "container",
		"height":  400,
		"data":    map[string]any{"values": values},
		"mark":    "bar",
		"encoding": map[string]any{
			"x": map[string]any{"field": "team", "type": "nominal", "title": "Team"},
			"y": map[string]any{"field": "actualPoints", "type": "quantitative", "title": "Points Scored"},
			"color": map[string]any{
				"condition": map[string]any{"test": "datum.actualPoints > datum.projectedPoints", "value": ColorAbove},
				"value":     ColorBelow,
			},
			"tooltip": []any{
				map[string]any{"field": "team", "type": "nominal"},
				map[string]any{"field": "actualPoints", "type": "quantitative", "title": "Actual"},
				map[string]any{"field": "projectedPoints", "type": "quantitative", "title": "Projected"},
			},
		},
	}
}

func RankingSpec(players []RankedPlayer, position string) Spec {
	values := make([]map[string]any, 0, len(players))
	for _, p := range players {
		values = append(values, map[string]any{
			"playerName":  p.PlayerName,
			"totalPoints": p.TotalPoints,
		})
	}
	return Spec{
		"$schema": vegaLiteSchema,
		"title":   fmt.Sprintf("Top %d %s Players", TopN, position),
		"width":   "container",
		"height":  400,
		"data":    map[string]any{"values": values},
		"mark":    "bar",
		"encoding": map[string]any{
			"x":       map[string]any{"field": "playerName", "type": "nominal", "title": "Player", "sort": "-y"},
			"y":       map[string]any{"field": "totalPoints", "type": "quantitative", "title": "Total Points"},
			"tooltip": []any{map[string]any{"field": "playerName"}, map[string]any{"field": "totalPoints"}},
			"color":   map[string]any{"value": "orange"},
		},
	}
}

func scopeLabel(scope models.WeekScope, sel models.Selection) string {
	switch scope.Kind {
	case models.ScopeWeek:
		return fmt.Sprintf("Week %d", scope.Week)
	case models.ScopeRange:
		if sel.StartWeek == sel.EndWeek {
			return fmt.Sprintf("Week %d", sel.StartWeek)
		}
		return fmt.Sprintf("Weeks %d-%d", sel.StartWeek, sel.EndWeek)
	default:
		return "all weeks"
	}
}
