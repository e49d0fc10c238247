package web

import (
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/omarshaarawi/ffdash/internal/models"
	"github.com/omarshaarawi/ffdash/internal/present"
)

// ChartView is one chart section. SpecJSON is empty when Notice is shown.
type ChartView struct {
	ID       string
	Title    string
	SpecJSON string
	Notice   string
}

type PageData struct {
	Dashboard present.Dashboard
	Session   models.Session
	Weeks     []int
	Unmatched []string
	Query     string
	Charts    []ChartView
}

func NewPageData(d present.Dashboard, sess models.Session, totalWeeks int, unmatched []string, query string) (PageData, error) {
	p := PageData{
		Dashboard: d,
		Session:   sess,
		Unmatched: unmatched,
		Query:     query,
	}
	for w := 1; w <= totalWeeks; w++ {
		p.Weeks = append(p.Weeks, w)
	}

	sel := d.Selection
	charts := []struct {
		id, title string
		spec      present.Spec
		notice    string
	}{
		{"heatmap", fmt.Sprintf("Difference between actual and projected points, weeks %d-%d", sel.StartWeek, sel.EndWeek),
			d.Heatmap.Spec, d.Heatmap.Notice},
		{"week-bars", fmt.Sprintf("Week %d: actual vs projected", d.Bars.Week), d.Bars.Spec, d.Bars.Notice},
		{"ranking", d.Ranking.Title, d.Ranking.Spec, d.Ranking.Notice},
	}
	for _, c := range charts {
		view := ChartView{ID: c.id, Title: c.title, Notice: c.notice}
		if c.notice == "" && c.spec != nil {
			b, err := sonic.ConfigStd.Marshal(c.spec)
			if err != nil {
				return PageData{}, fmt.Errorf("error encoding chart %s: %w", c.id, err)
			}
			view.SpecJSON = string(b)
		}
		p.Charts = append(p.Charts, view)
	}
	return p, nil
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func scopeIs(scope models.WeekScope, kind models.ScopeKind) bool {
	return scope.Kind == kind
}

func scopeIsWeek(scope models.WeekScope, week int) bool {
	return scope.Kind == models.ScopeWeek && scope.Week == week
}
