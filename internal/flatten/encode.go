package flatten

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bytedance/sonic"

	"github.com/omarshaarawi/ffdash/internal/models"
)

var (
	teamHeader   = []string{"Team", "Week", "Actual Points", "Projected Points", "Difference"}
	playerHeader = []string{"Team", "Player Name", "Position", "Week", "Points Scored", "Projected Points", "Position Rank"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func WriteTeamCSV(w io.Writer, rows []models.TeamWeekRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(teamHeader); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Team,
			strconv.Itoa(r.Week),
			formatFloat(r.ActualPoints),
			formatFloat(r.ProjectedPoints),
			formatFloat(r.Difference()),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing team row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WritePlayerCSV(w io.Writer, rows []models.PlayerWeekRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(playerHeader); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Team,
			r.PlayerName,
			r.Position,
			strconv.Itoa(r.Week),
			formatFloat(r.PointsScored),
			formatFloat(r.ProjectedPoints),
			r.PositionRank,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("error writing player row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, v any) error {
	b, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding json: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
