package espn

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/omarshaarawi/ffdash/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) leagueEndpoint() string {
	return fmt.Sprintf("/seasons/%s/segments/0/leagues/%s", a.client.Config.Year, a.client.Config.LeagueID)
}

// GetTeamNames maps ESPN team ids to display names.
func (a *API) GetTeamNames(ctx context.Context) (map[int]string, error) {
	var leagueResponse models.LeagueResponse
	params := map[string]string{
		"view": "mTeam",
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, nil, &leagueResponse); err != nil {
		return nil, fmt.Errorf("fetching teams: %w", err)
	}

	names := make(map[int]string, len(leagueResponse.Teams))
	for _, team := range leagueResponse.Teams {
		names[team.ID] = teamDisplayName(team)
	}
	return names, nil
}

func teamDisplayName(team models.Team) string {
	if name := strings.TrimSpace(team.Name); name != "" {
		return name
	}
	if name := strings.TrimSpace(team.Location + " " + team.Nickname); name != "" {
		return name
	}
	if team.Abbreviation != "" {
		return team.Abbreviation
	}
	return fmt.Sprintf("Team %d", team.ID)
}

// GetBoxScores returns every matchup of the given week with both starting lineups.
func (a *API) GetBoxScores(ctx context.Context, week int, teamNames map[int]string) ([]models.BoxScore, error) {
	var scoreboardResponse models.ScoreboardResponse

	params := map[string]string{
		"view":            "mMatchupScore,mScoreboard",
		"scoringPeriodId": fmt.Sprintf("%d", week),
	}

	filters := map[string]any{
		"schedule": map[string]any{
			"filterMatchupPeriodIds": map[string]any{
				"value": []int{week},
			},
		},
	}

	filtersJSON, err := sonic.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("error marshalling filters: %w", err)
	}

	headers := map[string]string{
		"x-fantasy-filter": string(filtersJSON),
	}

	if err := a.client.Get(ctx, a.leagueEndpoint(), params, headers, &scoreboardResponse); err != nil {
		return nil, fmt.Errorf("fetching box scores for week %d: %w", week, err)
	}

	var boxScores []models.BoxScore
	for _, match := range scoreboardResponse.Schedule {
		if match.MatchupPeriodID != 0 && match.MatchupPeriodID != week {
			continue
		}
		// byes carry no opponent
		if match.Away == nil {
			continue
		}

		boxScores = append(boxScores, models.BoxScore{
			Week:       week,
			HomeTeam:   teamName(teamNames, match.Home.TeamID),
			AwayTeam:   teamName(teamNames, match.Away.TeamID),
			HomeScore:  getScore(match.Home),
			AwayScore:  getScore(*match.Away),
			HomeLineup: buildLineup(match.Home.RosterForCurrentScoringPeriod.Entries, week),
			AwayLineup: buildLineup(match.Away.RosterForCurrentScoringPeriod.Entries, week),
		})
	}
	return boxScores, nil
}

func teamName(names map[int]string, teamID int) string {
	if name, ok := names[teamID]; ok {
		return name
	}
	return fmt.Sprintf("Team %d", teamID)
}

func getScore(teamScore models.TeamScore) float64 {
	score := teamScore.TotalPointsLive
	if score == 0 {
		score = teamScore.TotalPoints
	}
	return math.Round(score*100) / 100
}

func buildLineup(entries []models.RosterEntry, week int) []models.LineupPlayer {
	lineup := make([]models.LineupPlayer, 0, len(entries))
	for _, entry := range entries {
		if !isStartingLineup(entry.LineupSlotID) {
			continue
		}
		player := entry.PlayerPoolEntry.Player
		points, projected := getPlayerPoints(player, week)

		lineup = append(lineup, models.LineupPlayer{
			Name:            player.FullName,
			Slot:            getLineupSlotString(entry.LineupSlotID),
			Position:        getPosition(player.DefaultPositionID),
			Points:          points,
			ProjectedPoints: projected,
			PositionRank:    getPositionRank(entry.PlayerPoolEntry),
		})
	}
	return lineup
}

// getPlayerPoints returns the actual (source 0) and projected (source 1) totals
// for week; either is nil when ESPN has no such stat line yet.
func getPlayerPoints(player models.Player, week int) (*float64, *float64) {
	var points, projected *float64
	for _, stat := range player.Stats {
		if stat.ScoringPeriodID != week {
			continue
		}
		total := stat.AppliedTotal
		switch stat.StatSourceID {
		case 0:
			if points == nil {
				points = &total
			}
		case 1:
			if projected == nil {
				projected = &total
			}
		}
	}
	return points, projected
}

func getPositionRank(entry models.PlayerPoolEntry) *int {
	rating, ok := entry.Ratings["0"]
	if !ok {
		return nil
	}
	return rating.PositionalRanking
}

var positions = map[int]string{
	1: "QB", 2: "RB", 3: "WR", 4: "TE", 5: "K", 16: "D/ST",
}

func getPosition(positionID *int) *string {
	if positionID == nil {
		return nil
	}
	if pos, ok := positions[*positionID]; ok {
		return &pos
	}
	return nil
}

func isStartingLineup(slotID int) bool {
	startingSlots := map[int]bool{
		0:  true,  // QB
		2:  true,  // RB
		3:  true,  // RB/WR
		4:  true,  // WR
		5:  true,  // WR/TE
		6:  true,  // TE
		7:  true,  // OP
		16: true,  // D/ST
		17: true,  // K
		20: false, // Bench
		21: false, // IR
		23: true,  // FLEX
	}
	return startingSlots[slotID]
}

func getLineupSlotString(slotID int) string {
	switch slotID {
	case 0:
		return "QB"
	case 2:
		return "RB"
	case 3:
		return "RB/WR"
	case 4:
		return "WR"
	case 5:
		return "WR/TE"
	case 6:
		return "TE"
	case 7:
		return "OP"
	case 16:
		return "D/ST"
	case 17:
		return "K"
	case 20:
		return "Bench"
	case 21:
		return "IR"
	case 23:
		return "FLEX"
	default:
		return "Unknown"
	}
}
