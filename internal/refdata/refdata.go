// Package refdata holds the static reference tables: per-database rank
// ladders, per-game-type map metadata, and the realm sets that drive the
// official/ranked classification. Loaded once at startup, read-only for the
// process lifetime.
package refdata

import (
	"go.uber.org/fx"

	"frontline-tracker/internal/domain"
)

type Tables struct {
	ranks          map[domain.Database][]domain.Rank
	maps           map[string]map[string]domain.MapInfo
	officialRealms map[string]struct{}
	rankedRealms   map[string]struct{}
	realmDatabase  map[string]domain.Database
}

func Load() *Tables {
	return &Tables{
		ranks: map[domain.Database][]domain.Rank{
			domain.DatabaseMain: mainRanks,
			domain.DatabasePro:  proRanks,
		},
		maps:           mapTables,
		officialRealms: toSet(officialRealms),
		rankedRealms:   toSet(rankedRealms),
		realmDatabase:  realmDatabases,
	}
}

// Ranks returns the ordered threshold table for a database. Callers must not
// mutate the returned slice.
func (t *Tables) Ranks(db domain.Database) []domain.Rank {
	return t.ranks[db]
}

func (t *Tables) MapInfo(gameType, mapID string) (domain.MapInfo, bool) {
	byID, ok := t.maps[gameType]
	if !ok {
		return domain.MapInfo{}, false
	}
	mi, ok := byID[mapID]
	return mi, ok
}

func (t *Tables) IsOfficial(realm string) bool {
	_, ok := t.officialRealms[realm]
	return ok
}

func (t *Tables) IsRanked(realm string) bool {
	_, ok := t.rankedRealms[realm]
	return ok
}

// DatabaseForRealm maps a server's realm to the stats universe it reports
// into. Community realms report into the main database.
func (t *Tables) DatabaseForRealm(realm string) domain.Database {
	if db, ok := t.realmDatabase[realm]; ok {
		return db
	}
	return domain.DatabaseMain
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

var Module = fx.Provide(Load)
