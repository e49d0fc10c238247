package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPosition     = "Unknown"
	DefaultPositionRank = "N/A"
)

// LineupPlayer is one started player in a box score. Optional attributes are nil
// when the provider omits them; defaults are applied when the tables are built.
type LineupPlayer struct {
	Name            string   `json:"name"`
	Slot            string   `json:"slot"`
	Position        *string  `json:"position,omitempty"`
	Points          *float64 `json:"points,omitempty"`
	ProjectedPoints *float64 `json:"projectedPoints,omitempty"`
	PositionRank    *int     `json:"positionRank,omitempty"`
}

type BoxScore struct {
	Week       int            `json:"week"`
	HomeTeam   string         `json:"homeTeam"`
	AwayTeam   string         `json:"awayTeam"`
	HomeScore  float64        `json:"homeScore"`
	AwayScore  float64        `json:"awayScore"`
	HomeLineup []LineupPlayer `json:"homeLineup"`
	AwayLineup []LineupPlayer `json:"awayLineup"`
}

type WeekBoxScores struct {
	Week      int        `json:"week"`
	BoxScores []BoxScore `json:"boxScores"`
}

type TeamWeekRecord struct {
	Team            string  `json:"team"`
	Week            int     `json:"week"`
	ActualPoints    float64 `json:"actualPoints"`
	ProjectedPoints float64 `json:"projectedPoints"`
}

// Difference is recomputed from its inputs on every call.
func (r TeamWeekRecord) Difference() float64 {
	return r.ActualPoints - r.ProjectedPoints
}

func (r TeamWeekRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Team            string  `json:"team"`
		Week            int     `json:"week"`
		ActualPoints    float64 `json:"actualPoints"`
		ProjectedPoints float64 `json:"projectedPoints"`
		Difference      float64 `json:"difference"`
	}{r.Team, r.Week, r.ActualPoints, r.ProjectedPoints, r.Difference()})
}

type PlayerWeekRecord struct {
	Team            string  `json:"team"`
	PlayerName      string  `json:"playerName"`
	Position        string  `json:"position"`
	Week            int     `json:"week"`
	PointsScored    float64 `json:"pointsScored"`
	ProjectedPoints float64 `json:"projectedPoints"`
	PositionRank    string  `json:"positionRank"`
}

type LeagueTables struct {
	Epoch    uint64             `json:"epoch"`
	Teams    []TeamWeekRecord   `json:"teams"`
	Players  []PlayerWeekRecord `json:"players"`
	LoadedAt time.Time          `json:"loadedAt"`
}

type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeWeek
	ScopeRange
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "all"
	case ScopeWeek:
		return "week"
	case ScopeRange:
		return "range"
	default:
		return "unknown"
	}
}

// WeekScope selects which weeks feed the player ranking. Week is only read for
// ScopeWeek.
type WeekScope struct {
	Kind ScopeKind `json:"kind"`
	Week int       `json:"week,omitempty"`
}

func AllWeeks() WeekScope { return WeekScope{Kind: ScopeAll} }
func SingleWeek(w int) WeekScope { return WeekScope{Kind: ScopeWeek, Week: w} }
func SelectedRange() WeekScope { return WeekScope{Kind: ScopeRange} }

// ParseWeekScope accepts "all", "range" or a week number.
func ParseWeekScope(v string) (WeekScope, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all":
		return AllWeeks(), nil
	case "range":
		return SelectedRange(), nil
	}
	w, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || w < 1 {
		return WeekScope{}, fmt.Errorf("invalid week scope %q", v)
	}
	return SingleWeek(w), nil
}

func (s WeekScope) String() string {
	if s.Kind == ScopeWeek {
		return fmt.Sprintf("%d", s.Week)
	}
	return s.Kind.String()
}

// Selection is the filter state of one render pass.
type Selection struct {
	Teams     []string  `json:"teams"`
	StartWeek int       `json:"startWeek" validate:"min=1"`
	EndWeek   int       `json:"endWeek" validate:"min=1,gtefield=StartWeek"`
	Position  string    `json:"position"`
	Scope     WeekScope `json:"scope"`
}

type Session struct {
	ID        string `json:"id"`
	Epoch     uint64 `json:"epoch"`
	Refreshes int    `json:"refreshes"`
}
