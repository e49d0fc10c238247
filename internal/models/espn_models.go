package models

type LeagueResponse struct {
	ID              int      `json:"id"`
	ScoringPeriodID int      `json:"scoringPeriodId"`
	SeasonID        int      `json:"seasonId"`
	Status          Status   `json:"status"`
	Teams           []Team   `json:"teams"`
	Settings        Settings `json:"settings"`
}

type Settings struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type Status struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	FirstScoringPeriod   int  `json:"firstScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type Team struct {
	ID           int    `json:"id"`
	Abbreviation string `json:"abbrev"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Nickname     string `json:"nickname"`
}

type ScoreboardResponse struct {
	Schedule []MatchupScore `json:"schedule"`
}

// MatchupScore is one schedule entry. Away is nil on a bye.
type MatchupScore struct {
	ID              int        `json:"id"`
	MatchupPeriodID int        `json:"matchupPeriodId"`
	Home            TeamScore  `json:"home"`
	Away            *TeamScore `json:"away"`
	Winner          string     `json:"winner"`
}

type TeamScore struct {
	TeamID                        int             `json:"teamId"`
	TotalPoints                   float64         `json:"totalPoints"`
	TotalPointsLive               float64         `json:"totalPointsLive"`
	TotalProjectedPointsLive      float64         `json:"totalProjectedPointsLive"`
	RosterForCurrentScoringPeriod RosterForPeriod `json:"rosterForCurrentScoringPeriod"`
}

type RosterForPeriod struct {
	Entries []RosterEntry `json:"entries"`
}

type RosterEntry struct {
	PlayerID        int             `json:"playerId"`
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
	LineupSlotID    int             `json:"lineupSlotId"`
}

type PlayerPoolEntry struct {
	ID               int                     `json:"id"`
	OnTeamID         int                     `json:"onTeamId"`
	Player           Player                  `json:"player"`
	AppliedStatTotal float64                 `json:"appliedStatTotal"`
	Ratings          map[string]PlayerRating `json:"ratings"`
}

type PlayerRating struct {
	PositionalRanking *int    `json:"positionalRanking"`
	TotalRanking      *int    `json:"totalRanking"`
	TotalRating       float64 `json:"totalRating"`
}

type Player struct {
	ID                int    `json:"id"`
	FullName          string `json:"fullName"`
	DefaultPositionID *int   `json:"defaultPositionId"`
	ProTeamID         int    `json:"proTeamId"`
	Stats             []Stat `json:"stats"`
	InjuryStatus      string `json:"injuryStatus"`
}

type Stat struct {
	StatSourceID    int                `json:"statSourceId"`
	ScoringPeriodID int                `json:"scoringPeriodId"`
	AppliedTotal    float64            `json:"appliedTotal"`
	AppliedStats    map[string]float64 `json:"appliedStats"`
}
