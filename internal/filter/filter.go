// Package filter evaluates composable criteria over the normalized server
// collection. Criteria are AND-ed; `+`-joined values inside one criterion are
// OR-ed. An absent criterion is no constraint.
package filter

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"frontline-tracker/internal/domain"
)

// ValidationError rejects caller-supplied values outside the known
// enumerations before they reach the engine.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Field, e.Value)
}

type LocationKind string

const (
	LocationCountry   LocationKind = "country"
	LocationContinent LocationKind = "continent"
)

type LocationCriterion struct {
	Kind LocationKind
	Code string
}

type Criteria struct {
	Locations []LocationCriterion
	MapID     string
	Types     []string // prefix matched
	Mode      string
	Dedicated bool
	Official  bool
	Ranked    bool
	NotEmpty  bool
	NotFull   bool
	Database  domain.Database
	HasPlayer string

	// Limit truncates the result after filtering; it never changes which
	// servers match.
	Limit int
}

// Apply returns the servers matching every set criterion, preserving the
// input ordering.
func Apply(servers []domain.Server, c Criteria) []domain.Server {
	out := make([]domain.Server, 0, len(servers))
	for i := range servers {
		if matches(&servers[i], c) {
			out = append(out, servers[i])
		}
	}
	if c.Limit > 0 && len(out) > c.Limit {
		out = out[:c.Limit]
	}
	return out
}

func matches(s *domain.Server, c Criteria) bool {
	if len(c.Locations) > 0 && !matchesLocation(s, c.Locations) {
		return false
	}
	if c.MapID != "" && s.Map.ID != c.MapID {
		return false
	}
	if len(c.Types) > 0 && !matchesType(s.GameType, c.Types) {
		return false
	}
	if c.Mode != "" && s.Mode != c.Mode {
		return false
	}
	if c.Dedicated && !s.Dedicated {
		return false
	}
	if c.Official && !s.Official {
		return false
	}
	if c.Ranked && !s.Ranked {
		return false
	}
	if c.NotEmpty && s.Players.Current == 0 {
		return false
	}
	if c.NotFull && s.Players.Free <= 0 {
		return false
	}
	if c.Database != "" && s.Database != c.Database {
		return false
	}
	if c.HasPlayer != "" && !hasPlayer(s.Usernames, c.HasPlayer) {
		return false
	}
	return true
}

func matchesLocation(s *domain.Server, criteria []LocationCriterion) bool {
	if s.Location == nil {
		return false
	}
	for _, lc := range criteria {
		switch lc.Kind {
		case LocationCountry:
			if strings.EqualFold(s.Location.CountryCode, lc.Code) {
				return true
			}
		case LocationContinent:
			if strings.EqualFold(s.Location.ContinentCode, lc.Code) {
				return true
			}
		}
	}
	return false
}

func matchesType(gameType string, types []string) bool {
	for _, t := range types {
		if strings.HasPrefix(gameType, t) {
			return true
		}
	}
	return false
}

// hasPlayer relies on the normalizer sorting usernames ascending.
func hasPlayer(usernames []string, name string) bool {
	i := sort.SearchStrings(usernames, name)
	return i < len(usernames) && usernames[i] == name
}

// ParseCriteria builds Criteria from request query values, rejecting
// unknown enumeration values.
func ParseCriteria(values url.Values) (Criteria, error) {
	var c Criteria

	for _, part := range splitSet(values.Get("location")) {
		kind, code, ok := strings.Cut(part, ":")
		if !ok {
			return c, &ValidationError{Field: "location", Value: part}
		}
		lk := LocationKind(kind)
		if lk != LocationCountry && lk != LocationContinent {
			return c, &ValidationError{Field: "location", Value: part}
		}
		c.Locations = append(c.Locations, LocationCriterion{Kind: lk, Code: code})
	}

	c.MapID = values.Get("map")
	c.Types = splitSet(values.Get("type"))
	c.Mode = values.Get("mode")
	c.HasPlayer = values.Get("player")

	if db := values.Get("db"); db != "" {
		if !domain.Database(db).Valid() {
			return c, &ValidationError{Field: "db", Value: db}
		}
		c.Database = domain.Database(db)
	}

	var err error
	if c.Dedicated, err = parseFlag(values, "dedicated"); err != nil {
		return c, err
	}
	if c.Official, err = parseFlag(values, "official"); err != nil {
		return c, err
	}
	if c.Ranked, err = parseFlag(values, "ranked"); err != nil {
		return c, err
	}
	if c.NotEmpty, err = parseFlag(values, "not_empty"); err != nil {
		return c, err
	}
	if c.NotFull, err = parseFlag(values, "not_full"); err != nil {
		return c, err
	}

	if raw := values.Get("limit"); raw != "" {
		limit, convErr := strconv.Atoi(raw)
		if convErr != nil || limit < 0 {
			return c, &ValidationError{Field: "limit", Value: raw}
		}
		c.Limit = limit
	}

	return c, nil
}

// splitSet splits a `+`-joined OR set. Query decoding turns an unescaped `+`
// into a space, so both separators are accepted.
func splitSet(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.FieldsFunc(raw, func(r rune) bool {
		return r == '+' || r == ' '
	})
}

func parseFlag(values url.Values, key string) (bool, error) {
	raw := values.Get(key)
	switch strings.ToLower(raw) {
	case "":
		return false, nil
	case "1", "true", "yes":
		return true, nil
	case "0", "false", "no":
		return false, nil
	}
	return false, &ValidationError{Field: key, Value: raw}
}
