package present

import "github.com/omarshaarawi/ffdash/internal/models"

const (
	ColorAbove = "green"
	ColorBelow = "red"
)

type Bar struct {
	Team            string  `json:"team"`
	ActualPoints    float64 `json:"actualPoints"`
	ProjectedPoints float64 `json:"projectedPoints"`
	Color           string  `json:"color"`
}

// WeekBars selects the rows of a single week, colored green when the team beat
// its projection and red otherwise.
func WeekBars(rows []models.TeamWeekRecord, week int) []Bar {
	bars := make([]Bar, 0)
	for _, r := range rows {
		if r.Week != week {
			continue
		}
		color := ColorBelow
		if r.ActualPoints > r.ProjectedPoints {
			color = ColorAbove
		}
		bars = append(bars, Bar{
			Team:            r.Team,
			ActualPoints:    r.ActualPoints,
			ProjectedPoints: r.ProjectedPoints,
			Color:           color,
		})
	}
	return bars
}
