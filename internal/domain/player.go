package domain

import "math"

// Stats is the raw numeric stat block shared by live ranking rows and stored
// snapshots. Both construction paths feed it through NewPlayer so derived
// values stay identical.
type Stats struct {
	Position   int     `json:"position"`
	Kills      int     `json:"kills"`
	Deaths     int     `json:"deaths"`
	TeamKills  int     `json:"team_kills"`
	Streak     int     `json:"streak"`
	Destroyed  int     `json:"destroyed"`
	Healed     int     `json:"healed"`
	Shots      int     `json:"shots"`
	Throws     int     `json:"throws"`
	DistanceKm float64 `json:"distance_km"`
	TimePlayed int     `json:"time_played"`
	XP         int     `json:"xp"`
}

// Field returns a named numeric stat, used by the history series endpoint to
// project a single column.
func (s Stats) Field(name string) (float64, bool) {
	switch name {
	case "position":
		return float64(s.Position), true
	case "kills":
		return float64(s.Kills), true
	case "deaths":
		return float64(s.Deaths), true
	case "team_kills":
		return float64(s.TeamKills), true
	case "streak":
		return float64(s.Streak), true
	case "destroyed":
		return float64(s.Destroyed), true
	case "healed":
		return float64(s.Healed), true
	case "shots":
		return float64(s.Shots), true
	case "throws":
		return float64(s.Throws), true
	case "distance_km":
		return s.DistanceKm, true
	case "time_played":
		return float64(s.TimePlayed), true
	case "xp":
		return float64(s.XP), true
	}
	return 0, false
}

type Player struct {
	Database Database `json:"database"`
	Username string   `json:"username"`
	Stats

	Score   int     `json:"score"`
	KDRatio float64 `json:"kd_ratio"`

	Rank     Rank     `json:"rank"`
	NextRank *Rank    `json:"next_rank,omitempty"`
	Progress Progress `json:"progress"`

	// PlayingOn is a transient join against the current server collection,
	// not owned by the player.
	PlayingOn *Server `json:"playing_on,omitempty"`
}

// NewPlayer populates all stat-derived fields at construction time. Rank
// resolution is applied separately by the rank calculator.
func NewPlayer(db Database, username string, stats Stats) *Player {
	return &Player{
		Database: db,
		Username: username,
		Stats:    stats,
		Score:    stats.Kills - stats.Deaths,
		KDRatio:  kdRatio(stats.Kills, stats.Deaths),
	}
}

func kdRatio(kills, deaths int) float64 {
	if deaths == 0 {
		return 0
	}
	return math.Round(float64(kills)/float64(deaths)*100) / 100
}
