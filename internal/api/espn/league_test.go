package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/ffdash/internal/config"
)

const scoreboardFixture = `{
  "schedule": [
    {
      "id": 1,
      "matchupPeriodId": 3,
      "winner": "HOME",
      "home": {
        "teamId": 1,
        "totalPoints": 101.456,
        "rosterForCurrentScoringPeriod": {"entries": [
          {"lineupSlotId": 0, "playerPoolEntry": {
            "player": {"fullName": "Josh Allen", "defaultPositionId": 1,
              "stats": [
                {"statSourceId": 0, "scoringPeriodId": 3, "appliedTotal": 28.5},
                {"statSourceId": 1, "scoringPeriodId": 3, "appliedTotal": 22.1},
                {"statSourceId": 0, "scoringPeriodId": 2, "appliedTotal": 5}
              ]},
            "ratings": {"0": {"positionalRanking": 2}}
          }},
          {"lineupSlotId": 20, "playerPoolEntry": {
            "player": {"fullName": "Bench Guy", "defaultPositionId": 2, "stats": []}
          }},
          {"lineupSlotId": 23, "playerPoolEntry": {
            "player": {"fullName": "Mystery Flex", "stats": []}
          }}
        ]}
      },
      "away": {
        "teamId": 2,
        "totalPoints": 90,
        "totalPointsLive": 95.5,
        "rosterForCurrentScoringPeriod": {"entries": [
          {"lineupSlotId": 16, "playerPoolEntry": {
            "player": {"fullName": "Bills D/ST", "defaultPositionId": 16,
              "stats": [{"statSourceId": 1, "scoringPeriodId": 3, "appliedTotal": 7}]}
          }}
        ]}
      }
    },
    {
      "id": 2,
      "matchupPeriodId": 3,
      "home": {"teamId": 3, "totalPoints": 80}
    },
    {
      "id": 3,
      "matchupPeriodId": 4,
      "home": {"teamId": 1},
      "away": {"teamId": 2}
    }
  ]
}`

func newTestAPI(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.ESPNAPI{
		Year:     "2024",
		LeagueID: "1254749",
		SWID:     "{ABC}",
		ESPNS2:   "token",
		BaseURL:  srv.URL,
	})
	return NewAPI(client)
}

func TestGetBoxScores(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/seasons/2024/segments/0/leagues/1254749", r.URL.Path)
		assert.Equal(t, []string{"mMatchupScore", "mScoreboard"}, r.URL.Query()["view"])
		assert.Equal(t, "3", r.URL.Query().Get("scoringPeriodId"))
		assert.Equal(t, "SWID={ABC}; espn_s2=token", r.Header.Get("Cookie"))
		assert.JSONEq(t, `{"schedule":{"filterMatchupPeriodIds":{"value":[3]}}}`, r.Header.Get("x-fantasy-filter"))
		_, _ = w.Write([]byte(scoreboardFixture))
	})

	names := map[int]string{1: "Coach Dad", 2: "UGF Pandas"}
	boxScores, err := api.GetBoxScores(context.Background(), 3, names)
	require.NoError(t, err)
	require.Len(t, boxScores, 1)

	bs := boxScores[0]
	assert.Equal(t, 3, bs.Week)
	assert.Equal(t, "Coach Dad", bs.HomeTeam)
	assert.Equal(t, "UGF Pandas", bs.AwayTeam)
	assert.Equal(t, 101.46, bs.HomeScore)
	assert.Equal(t, 95.5, bs.AwayScore)

	require.Len(t, bs.HomeLineup, 2)
	allen := bs.HomeLineup[0]
	assert.Equal(t, "Josh Allen", allen.Name)
	assert.Equal(t, "QB", allen.Slot)
	require.NotNil(t, allen.Position)
	assert.Equal(t, "QB", *allen.Position)
	require.NotNil(t, allen.Points)
	assert.Equal(t, 28.5, *allen.Points)
	require.NotNil(t, allen.ProjectedPoints)
	assert.Equal(t, 22.1, *allen.ProjectedPoints)
	require.NotNil(t, allen.PositionRank)
	assert.Equal(t, 2, *allen.PositionRank)

	mystery := bs.HomeLineup[1]
	assert.Equal(t, "FLEX", mystery.Slot)
	assert.Nil(t, mystery.Position)
	assert.Nil(t, mystery.Points)
	assert.Nil(t, mystery.ProjectedPoints)
	assert.Nil(t, mystery.PositionRank)

	require.Len(t, bs.AwayLineup, 1)
	assert.Nil(t, bs.AwayLineup[0].Points)
	require.NotNil(t, bs.AwayLineup[0].ProjectedPoints)
	assert.Equal(t, 7.0, *bs.AwayLineup[0].ProjectedPoints)
}

func TestGetTeamNames(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mTeam", r.URL.Query().Get("view"))
		_, _ = w.Write([]byte(`{"teams":[
			{"id":1,"name":"Coach Dad","abbrev":"CD"},
			{"id":2,"location":"Beyond","nickname":"Cursed","abbrev":"BC"},
			{"id":3,"abbrev":"UGF"},
			{"id":4}
		]}`))
	})

	names, err := api.GetTeamNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int]string{
		1: "Coach Dad",
		2: "Beyond Cursed",
		3: "UGF",
		4: "Team 4",
	}, names)
}

func TestGet_Unauthorized(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := api.GetTeamNames(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestGet_UnexpectedStatus(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := api.GetBoxScores(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
}

func TestGet_MalformedBody(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>nope</html>`))
	})

	_, err := api.GetBoxScores(context.Background(), 1, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding response")
}
