package present

import (
	"sort"

	"github.com/omarshaarawi/ffdash/internal/models"
)

// Heatmap is a team x week grid of differences. Cells[i][j] is nil when team
// Teams[i] has no row for week Weeks[j].
type Heatmap struct {
	Teams []string     `json:"teams"`
	Weeks []int        `json:"weeks"`
	Cells [][]*float64 `json:"cells"`
}

func (h Heatmap) Empty() bool {
	return len(h.Teams) == 0
}

// Pivot reshapes team rows into a Heatmap with teams sorted by name and weeks
// ascending. If a (team, week) pair repeats, the first row wins.
func Pivot(rows []models.TeamWeekRecord) Heatmap {
	teamIdx := make(map[string]int)
	weekIdx := make(map[int]int)
	var teams []string
	var weeks []int
	for _, r := range rows {
		if _, ok := teamIdx[r.Team]; !ok {
			teamIdx[r.Team] = 0
			teams = append(teams, r.Team)
		}
		if _, ok := weekIdx[r.Week]; !ok {
			weekIdx[r.Week] = 0
			weeks = append(weeks, r.Week)
		}
	}
	sort.Strings(teams)
	sort.Ints(weeks)
	for i, t := range teams {
		teamIdx[t] = i
	}
	for j, w := range weeks {
		weekIdx[w] = j
	}

	cells := make([][]*float64, len(teams))
	for i := range cells {
		cells[i] = make([]*float64, len(weeks))
	}
	for _, r := range rows {
		i, j := teamIdx[r.Team], weekIdx[r.Week]
		if cells[i][j] != nil {
			continue
		}
		diff := r.Difference()
		cells[i][j] = &diff
	}

	return Heatmap{Teams: teams, Weeks: weeks, Cells: cells}
}
