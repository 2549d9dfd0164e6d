package upstream

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"frontline-tracker/internal/config"
	"frontline-tracker/internal/domain"
)

// columnLayout is the positional contract with the ranking HTML. The upstream
// renders two orderings: the list page, and the single-search page which moves
// team-kills behind the destroyed/healed pair. A format change upstream means
// editing these tables and nothing else.
type columnLayout struct {
	position   int
	rankImage  int
	username   int
	xp         int
	kills      int
	deaths     int
	teamKills  int
	destroyed  int
	healed     int
	streak     int
	shots      int
	throws     int
	distance   int
	timePlayed int
	count      int
}

var listColumns = columnLayout{
	position: 0, rankImage: 1, username: 2, xp: 3,
	kills: 4, deaths: 5, teamKills: 6, destroyed: 7, healed: 8,
	streak: 9, shots: 10, throws: 11, distance: 12, timePlayed: 13,
	count: 14,
}

var searchColumns = columnLayout{
	position: 0, rankImage: 1, username: 2, xp: 3,
	kills: 4, deaths: 5, destroyed: 6, healed: 7, teamKills: 8,
	streak: 9, shots: 10, throws: 11, distance: 12, timePlayed: 13,
	count: 14,
}

// Sorts are the ranking columns the upstream accepts as sort keys.
var Sorts = map[string]bool{
	"xp": true, "score": true, "kills": true, "deaths": true,
	"streak": true, "time": true, "distance": true,
}

var durationRe = regexp.MustCompile(`(?i)(?:(\d+)\s*h)?\s*(?:(\d+)\s*m(?:in)?)?\s*(?:(\d+)\s*s)?`)

type PlayerList struct {
	getter Getter
	cfg    *config.Config
	logger zerolog.Logger
}

func NewPlayerList(getter Getter, cfg *config.Config, logger zerolog.Logger) *PlayerList {
	return &PlayerList{getter: getter, cfg: cfg, logger: logger}
}

// Load fetches one ranking page and normalizes its rows. A non-empty target
// asks upstream to center the page on that username instead of the start
// cursor.
func (l *PlayerList) Load(ctx context.Context, db domain.Database, sort, target string, start, limit int) ([]*domain.Player, error) {
	params := map[string]string{
		"db":    string(db),
		"sort":  sort,
		"start": strconv.Itoa(start),
		"limit": strconv.Itoa(limit),
	}
	if target != "" {
		params["target"] = target
	}

	doc, err := l.page(ctx, params)
	if err != nil {
		return nil, err
	}

	players, err := l.parseRows(doc, listColumns, db)
	if err != nil {
		return nil, err
	}
	l.logger.Info().Str("db", string(db)).Str("sort", sort).Int("players", len(players)).Msg("player list loaded")
	return players, nil
}

// Search resolves a single username. A missing player is a nil result, not an
// error.
func (l *PlayerList) Search(ctx context.Context, db domain.Database, username string) (*domain.Player, error) {
	doc, err := l.page(ctx, map[string]string{"db": string(db), "search": username})
	if err != nil {
		return nil, err
	}

	players, err := l.parseRows(doc, searchColumns, db)
	if err != nil {
		return nil, err
	}
	if len(players) == 0 {
		l.logger.Debug().Str("db", string(db)).Str("username", username).Msg("player not found upstream")
		return nil, nil
	}
	return players[0], nil
}

// Exists short-circuits on the row count without constructing a Player.
func (l *PlayerList) Exists(ctx context.Context, db domain.Database, username string) (bool, error) {
	doc, err := l.page(ctx, map[string]string{"db": string(db), "search": username})
	if err != nil {
		return false, err
	}
	return doc.Find("table tr").Length() > 1, nil
}

func (l *PlayerList) page(ctx context.Context, params map[string]string) (*goquery.Document, error) {
	req := baseRequest(l.cfg, "/rankings", params)
	// usernames arrive in the game's legacy 8-bit charset
	req.LegacyEncoding = true
	return l.getter.HTML(ctx, req)
}

func (l *PlayerList) parseRows(doc *goquery.Document, cols columnLayout, db domain.Database) ([]*domain.Player, error) {
	var players []*domain.Player
	var rowErr error

	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || rowErr != nil {
			// header row is ignored
			return
		}
		p, err := parseRow(row, cols, db)
		if err != nil {
			rowErr = err
			return
		}
		players = append(players, p)
	})

	if rowErr != nil {
		return nil, rowErr
	}
	return players, nil
}

func parseRow(row *goquery.Selection, cols columnLayout, db domain.Database) (*domain.Player, error) {
	cells := row.Find("td")
	if cells.Length() < cols.count {
		return nil, &ParseError{Source: "playerlist", Detail: fmt.Sprintf("row has %d cells, want %d", cells.Length(), cols.count)}
	}

	cell := func(idx int) string {
		return strings.TrimSpace(cells.Eq(idx).Text())
	}
	var err error
	cellInt := func(idx int, field string) int {
		if err != nil {
			return 0
		}
		v, convErr := strconv.Atoi(cell(idx))
		if convErr != nil {
			err = &ParseError{Source: "playerlist", Detail: fmt.Sprintf("bad %s %q", field, cell(idx)), Err: convErr}
		}
		return v
	}

	stats := domain.Stats{
		Position:  cellInt(cols.position, "position"),
		XP:        cellInt(cols.xp, "xp"),
		Kills:     cellInt(cols.kills, "kills"),
		Deaths:    cellInt(cols.deaths, "deaths"),
		TeamKills: cellInt(cols.teamKills, "team_kills"),
		Destroyed: cellInt(cols.destroyed, "destroyed"),
		Healed:    cellInt(cols.healed, "healed"),
		Streak:    cellInt(cols.streak, "streak"),
		Shots:     cellInt(cols.shots, "shots"),
		Throws:    cellInt(cols.throws, "throws"),
	}
	if err != nil {
		return nil, err
	}

	if stats.DistanceKm, err = parseDistance(cell(cols.distance)); err != nil {
		return nil, err
	}
	if stats.TimePlayed, err = parseDuration(cell(cols.timePlayed)); err != nil {
		return nil, err
	}

	username := cell(cols.username)
	if username == "" {
		return nil, &ParseError{Source: "playerlist", Detail: "row has empty username"}
	}

	return domain.NewPlayer(db, username, stats), nil
}

// parseDuration sums the optional Hh / Mm (or Min) / Ss components of an
// upstream time-played string into seconds.
func parseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	m := durationRe.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0, &ParseError{Source: "playerlist", Detail: fmt.Sprintf("bad time played %q", s)}
	}
	seconds := 0
	for i, unit := range []int{3600, 60, 1} {
		if m[i+1] == "" {
			continue
		}
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, &ParseError{Source: "playerlist", Detail: fmt.Sprintf("bad time played %q", s), Err: err}
		}
		seconds += v * unit
	}
	return seconds, nil
}

func parseDistance(s string) (float64, error) {
	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "km"))
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, &ParseError{Source: "playerlist", Detail: fmt.Sprintf("bad distance %q", s), Err: err}
	}
	return v, nil
}
