package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"frontline-tracker/internal/cache"
	"frontline-tracker/internal/constants"
	"frontline-tracker/internal/domain"
	"frontline-tracker/internal/filter"
	"frontline-tracker/internal/geo"
	"frontline-tracker/internal/rank"
	"frontline-tracker/internal/upstream"
)

// Tracker is the facade the outer layers consume: fetch, normalize, enrich
// and memoize, then answer filter queries over the result.
type Tracker struct {
	serverList *upstream.ServerList
	playerList *upstream.PlayerList
	locator    *geo.Locator
	calc       *rank.Calculator
	cache      cache.Cache
	logger     zerolog.Logger
}

func NewTracker(serverList *upstream.ServerList, playerList *upstream.PlayerList, locator *geo.Locator, calc *rank.Calculator, c cache.Cache, logger zerolog.Logger) *Tracker {
	return &Tracker{
		serverList: serverList,
		playerList: playerList,
		locator:    locator,
		calc:       calc,
		cache:      c,
		logger:     logger,
	}
}

// Servers returns the enriched server collection, served from cache within
// the TTL. A failed refresh fails the request; expired entries are never
// served as a fallback.
func (t *Tracker) Servers(ctx context.Context) ([]domain.Server, error) {
	key := cache.Key("servers")
	if v, ok := t.cache.Get(key); ok {
		return v.([]domain.Server), nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	servers, err := t.serverList.Load(ctx)
	if err != nil {
		return nil, err
	}
	t.locator.Annotate(servers)

	t.cache.Set(key, servers, constants.ServerListTTL)
	return servers, nil
}

// FilterServers evaluates the criteria conjunction over the cached
// collection.
func (t *Tracker) FilterServers(ctx context.Context, c filter.Criteria) ([]domain.Server, error) {
	servers, err := t.Servers(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(servers, c), nil
}

// InvalidateServers drops the server-list cache entry so the next read
// reflects operator-side changes immediately instead of waiting out the TTL.
func (t *Tracker) InvalidateServers() {
	t.cache.Delete(cache.Key("servers"))
	t.logger.Info().Msg("server list cache invalidated")
}

// Players returns one enriched leaderboard page. A non-empty target centers
// the page on that username upstream and keys the cache entry separately.
func (t *Tracker) Players(ctx context.Context, db domain.Database, sortBy, target string, start, limit int) ([]*domain.Player, error) {
	if !db.Valid() {
		return nil, &filter.ValidationError{Field: "db", Value: string(db)}
	}
	if sortBy == "" {
		sortBy = "xp"
	}
	if !upstream.Sorts[sortBy] {
		return nil, &filter.ValidationError{Field: "sort", Value: sortBy}
	}

	key := cache.Key("players", db, sortBy, target, start, limit)
	if v, ok := t.cache.Get(key); ok {
		return v.([]*domain.Player), nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	players, err := t.playerList.Load(ctx, db, sortBy, target, start, limit)
	if err != nil {
		return nil, err
	}
	t.enrich(ctx, players)

	t.cache.Set(key, players, constants.PlayerListTTL)
	return players, nil
}

// SearchPlayer resolves one username; an unknown player is nil, not an error.
// Misses are memoized like hits so a repeated search for an absent name does
// not re-fetch within the TTL.
func (t *Tracker) SearchPlayer(ctx context.Context, db domain.Database, username string) (*domain.Player, error) {
	if !db.Valid() {
		return nil, &filter.ValidationError{Field: "db", Value: string(db)}
	}

	key := cache.Key("search", db, username)
	if v, ok := t.cache.Get(key); ok {
		return v.(*domain.Player), nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	player, err := t.playerList.Search(ctx, db, username)
	if err != nil {
		return nil, err
	}
	if player != nil {
		t.enrich(ctx, []*domain.Player{player})
	}

	t.cache.Set(key, player, constants.PlayerSearchTTL)
	return player, nil
}

// PlayerExists is the lightweight existence probe; no Player is built.
func (t *Tracker) PlayerExists(ctx context.Context, db domain.Database, username string) (bool, error) {
	if !db.Valid() {
		return false, &filter.ValidationError{Field: "db", Value: string(db)}
	}

	key := cache.Key("exists", db, username)
	if v, ok := t.cache.Get(key); ok {
		return v.(bool), nil
	}

	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	exists, err := t.playerList.Exists(ctx, db, username)
	if err != nil {
		return false, err
	}

	t.cache.Set(key, exists, constants.PlayerSearchTTL)
	return exists, nil
}

// enrich resolves ranks and joins each player against the current server
// collection. The join is best-effort: a failed server refresh degrades to
// players without the playing-on reference.
func (t *Tracker) enrich(ctx context.Context, players []*domain.Player) {
	for _, p := range players {
		t.calc.Apply(p)
	}

	servers, err := t.Servers(ctx)
	if err != nil {
		t.logger.Warn().Err(err).Msg("server list unavailable, skipping playing-on join")
		return
	}

	for _, p := range players {
		for i := range servers {
			names := servers[i].Usernames
			j := sort.SearchStrings(names, p.Username)
			if j < len(names) && names[j] == p.Username {
				srv := servers[i]
				p.PlayingOn = &srv
				break
			}
		}
	}
}
