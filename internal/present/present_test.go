package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/ffdash/internal/models"
)

func teamRows() []models.TeamWeekRecord {
	return []models.TeamWeekRecord{
		{Team: "Coach Dad", Week: 1, ActualPoints: 110, ProjectedPoints: 100},
		{Team: "UGF Pandas", Week: 1, ActualPoints: 90, ProjectedPoints: 95},
		{Team: "Beyond Cursed", Week: 1, ActualPoints: 87, ProjectedPoints: 87},
		{Team: "Stairway to Evans", Week: 1, ActualPoints: 121, ProjectedPoints: 104},
		{Team: "Coach Dad", Week: 2, ActualPoints: 80, ProjectedPoints: 100},
		{Team: "Beyond Cursed", Week: 2, ActualPoints: 99, ProjectedPoints: 90},
	}
}

func allTeams() []string {
	return []string{"Coach Dad", "UGF Pandas", "Beyond Cursed", "Stairway to Evans"}
}

func TestFilterTeams_AllTeamsSingleWeekReturnsEveryRow(t *testing.T) {
	rows := teamRows()[:4]
	got := FilterTeams(rows, models.Selection{Teams: allTeams(), StartWeek: 1, EndWeek: 1})
	assert.Equal(t, rows, got)
}

func TestFilterTeams_RangeAndTeams(t *testing.T) {
	got := FilterTeams(teamRows(), models.Selection{Teams: []string{"Coach Dad"}, StartWeek: 2, EndWeek: 2})
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].Week)
	assert.Equal(t, -20.0, got[0].Difference())
}

func TestFilterTeams_EmptySelection(t *testing.T) {
	got := FilterTeams(teamRows(), models.Selection{StartWeek: 1, EndWeek: 12})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestPivot_SortsAndLeavesMissingCellsBlank(t *testing.T) {
	h := Pivot(teamRows())

	assert.Equal(t, []string{"Beyond Cursed", "Coach Dad", "Stairway to Evans", "UGF Pandas"}, h.Teams)
	assert.Equal(t, []int{1, 2}, h.Weeks)
	require.Len(t, h.Cells, 4)

	require.NotNil(t, h.Cells[1][0])
	assert.Equal(t, 10.0, *h.Cells[1][0])
	require.NotNil(t, h.Cells[1][1])
	assert.Equal(t, -20.0, *h.Cells[1][1])

	assert.Nil(t, h.Cells[2][1], "Stairway to Evans has no week 2 row")
	assert.Nil(t, h.Cells[3][1], "UGF Pandas has no week 2 row")
}

func TestPivot_DuplicateCellKeepsFirst(t *testing.T) {
	rows := []models.TeamWeekRecord{
		{Team: "A", Week: 1, ActualPoints: 10, ProjectedPoints: 5},
		{Team: "A", Week: 1, ActualPoints: 50, ProjectedPoints: 5},
	}
	h := Pivot(rows)
	require.Len(t, h.Cells, 1)
	assert.Equal(t, 5.0, *h.Cells[0][0])
}

func TestPivot_Empty(t *testing.T) {
	h := Pivot(nil)
	assert.True(t, h.Empty())
	assert.Empty(t, h.Cells)
}

func TestWeekBars_Colors(t *testing.T) {
	bars := WeekBars(teamRows(), 1)
	require.Len(t, bars, 4)
	assert.Equal(t, ColorAbove, bars[0].Color)
	assert.Equal(t, ColorBelow, bars[1].Color)
	assert.Equal(t, ColorBelow, bars[2].Color, "meeting the projection is not beating it")
	assert.Equal(t, ColorAbove, bars[3].Color)
}

func playerRows() []models.PlayerWeekRecord {
	return []models.PlayerWeekRecord{
		{PlayerName: "Josh Allen", Position: "QB", Week: 1, PointsScored: 20},
		{PlayerName: "Lamar Jackson", Position: "QB", Week: 1, PointsScored: 25},
		{PlayerName: "Jalen Hurts", Position: "QB", Week: 1, PointsScored: 30},
		{PlayerName: "Saquon Barkley", Position: "RB", Week: 1, PointsScored: 40},
		{PlayerName: "Josh Allen", Position: "QB", Week: 2, PointsScored: 10},
		{PlayerName: "Lamar Jackson", Position: "QB", Week: 2, PointsScored: 5},
		{PlayerName: "Jalen Hurts", Position: "QB", Week: 3, PointsScored: 1},
	}
}

func TestRankPlayers_AllWeeksTiesKeepFirstAppearance(t *testing.T) {
	got := RankPlayers(playerRows(), "QB", models.AllWeeks(), models.Selection{})

	require.Len(t, got, 3)
	// Jalen 31, Josh 30, Lamar 30: Josh appears before Lamar.
	assert.Equal(t, "Jalen Hurts", got[0].PlayerName)
	assert.Equal(t, "Josh Allen", got[1].PlayerName)
	assert.Equal(t, "Lamar Jackson", got[2].PlayerName)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].Rank, got[1].Rank, got[2].Rank})

	for i := 0; i < 5; i++ {
		assert.Equal(t, got, RankPlayers(playerRows(), "QB", models.AllWeeks(), models.Selection{}))
	}
}

func TestRankPlayers_SingleWeekOneIsNotAllWeeks(t *testing.T) {
	got := RankPlayers(playerRows(), "QB", models.SingleWeek(1), models.Selection{})
	require.Len(t, got, 3)
	assert.Equal(t, "Jalen Hurts", got[0].PlayerName)
	assert.Equal(t, 30.0, got[0].TotalPoints)
	assert.Equal(t, "Lamar Jackson", got[1].PlayerName)
}

func TestRankPlayers_Range(t *testing.T) {
	got := RankPlayers(playerRows(), "QB", models.SelectedRange(), models.Selection{StartWeek: 2, EndWeek: 3})
	require.Len(t, got, 3)
	assert.Equal(t, "Josh Allen", got[0].PlayerName)
	assert.Equal(t, 10.0, got[0].TotalPoints)
}

func TestRankPlayers_TruncatesToTen(t *testing.T) {
	var rows []models.PlayerWeekRecord
	for i := 0; i < 15; i++ {
		rows = append(rows, models.PlayerWeekRecord{
			PlayerName:   string(rune('A' + i)),
			Position:     "WR",
			Week:         1,
			PointsScored: float64(i),
		})
	}
	got := RankPlayers(rows, "WR", models.AllWeeks(), models.Selection{})
	require.Len(t, got, TopN)
	assert.Equal(t, "O", got[0].PlayerName)
	assert.Equal(t, 10, got[9].Rank)
}

func TestBuild_EmptyTeamSelectionTakesNoticePath(t *testing.T) {
	tables := &models.LeagueTables{Teams: teamRows(), Players: playerRows()}
	d := Build(tables, models.Selection{StartWeek: 1, EndWeek: 2, Position: "QB", Scope: models.AllWeeks()})

	assert.Empty(t, d.Rows)
	assert.Equal(t, "No data available for the selected teams and weeks.", d.Heatmap.Notice)
	assert.Nil(t, d.Heatmap.Spec)
	assert.True(t, d.Heatmap.Grid.Empty())
	assert.Equal(t, "No data available for Week 2 with the current team selection.", d.Bars.Notice)
	assert.Nil(t, d.Bars.Spec)
	assert.Empty(t, d.Ranking.Notice, "ranking does not depend on team selection")
}

func TestBuild_FourTeamsOneWeek(t *testing.T) {
	tables := &models.LeagueTables{Teams: teamRows()[:4], Players: playerRows()}
	d := Build(tables, models.Selection{Teams: allTeams(), StartWeek: 1, EndWeek: 1, Position: "QB", Scope: models.SingleWeek(1)})

	assert.Len(t, d.Rows, 4)
	assert.Empty(t, d.Heatmap.Notice)
	assert.NotNil(t, d.Heatmap.Spec)
	assert.Len(t, d.Bars.Bars, 4)
	assert.Equal(t, "Top 10 QB for Week 1", d.Ranking.Title)
	assert.Equal(t, allTeams(), d.TeamOptions)
	assert.Equal(t, []string{"QB", "RB"}, d.PositionOptions)
}

func TestBuild_RankingNotice(t *testing.T) {
	tables := &models.LeagueTables{Teams: teamRows(), Players: playerRows()}
	d := Build(tables, models.Selection{Teams: allTeams(), StartWeek: 1, EndWeek: 1, Position: "K", Scope: models.AllWeeks()})
	assert.Equal(t, "No data available for K in all weeks.", d.Ranking.Notice)
	assert.Nil(t, d.Ranking.Spec)

	d = Build(tables, models.Selection{Teams: allTeams(), StartWeek: 1, EndWeek: 1, Position: "RB", Scope: models.SingleWeek(2)})
	assert.Equal(t, "No data available for RB in Week 2.", d.Ranking.Notice)
}

func TestDefaultSelection(t *testing.T) {
	tables := &models.LeagueTables{Teams: teamRows(), Players: playerRows()}
	sel := DefaultSelection(tables)
	assert.Equal(t, allTeams(), sel.Teams)
	assert.Equal(t, 1, sel.StartWeek)
	assert.Equal(t, 2, sel.EndWeek)
	assert.Equal(t, "QB", sel.Position)
	assert.Equal(t, models.AllWeeks(), sel.Scope)
}

func TestResolveTeams(t *testing.T) {
	known := allTeams()

	resolved, unmatched := ResolveTeams([]string{"coach dad", "UGF Panda", "Stairway 2 Evans", "Zebras", "Coach Dad", ""}, known)
	assert.Equal(t, []string{"Coach Dad", "UGF Pandas", "Stairway to Evans"}, resolved)
	assert.Equal(t, []string{"Zebras"}, unmatched)
}

func TestHeatmapSpec_SkipsBlankCells(t *testing.T) {
	h := Pivot(teamRows())
	spec := HeatmapSpec(h)
	data := spec["data"].(map[string]any)["values"].([]map[string]any)
	assert.Len(t, data, 6)
}
