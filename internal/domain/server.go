package domain

import "fmt"

type MapInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HasPreview  bool   `json:"has_preview"`
	HasOverview bool   `json:"has_overview"`
}

type Location struct {
	CountryCode   string `json:"country_code"`
	CountryName   string `json:"country_name"`
	ContinentCode string `json:"continent_code"`
	City          string `json:"city,omitempty"`
	Label         string `json:"label"`
}

type PlayerCounts struct {
	Current int `json:"current"`
	Max     int `json:"max"`
	Free    int `json:"free"`
}

// NewPlayerCounts clamps negative current counts (an observed upstream quirk)
// and derives the free slot count.
func NewPlayerCounts(current, max int) PlayerCounts {
	if current < 0 {
		current = 0
	}
	return PlayerCounts{Current: current, Max: max, Free: max - current}
}

// Server is a point-in-time projection of one upstream server node. It is
// rebuilt in full on every refresh and never persisted.
type Server struct {
	IP        string       `json:"ip"`
	Port      int          `json:"port"`
	Name      string       `json:"name"`
	GameType  string       `json:"game_type"`
	Map       MapInfo      `json:"map"`
	Players   PlayerCounts `json:"players"`
	Bots      int          `json:"bots"`
	Usernames []string     `json:"usernames"`
	Dedicated bool         `json:"dedicated"`
	Version   string       `json:"version"`
	Comment   string       `json:"comment,omitempty"`
	Website   string       `json:"website,omitempty"`
	Mode      string       `json:"mode"`
	Realm     string       `json:"realm"`
	Database  Database     `json:"database"`
	Official  bool         `json:"is_official"`
	Ranked    bool         `json:"is_ranked"`
	Location  *Location    `json:"location,omitempty"`
}

// Addr returns the (ip, port) identity of the server.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.IP, s.Port)
}
