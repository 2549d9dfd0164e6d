package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontline-tracker/internal/domain"
)

func fixtureServers() []domain.Server {
	return []domain.Server{
		{
			Name: "Berlin Vanilla", GameType: "vanilla", Mode: "conquest",
			Map: domain.MapInfo{ID: "bridge"}, Players: domain.NewPlayerCounts(10, 32),
			Usernames: []string{"Anna", "Boris"}, Dedicated: true,
			Realm: "official", Database: domain.DatabaseMain, Official: true, Ranked: true,
			Location: &domain.Location{CountryCode: "DE", ContinentCode: "EU"},
		},
		{
			Name: "Paris Pro", GameType: "vanilla_pro", Mode: "conquest",
			Map: domain.MapInfo{ID: "canyon"}, Players: domain.NewPlayerCounts(32, 32),
			Usernames: []string{"Chloe"}, Dedicated: true,
			Realm: "pro", Database: domain.DatabasePro, Official: true, Ranked: true,
			Location: &domain.Location{CountryCode: "FR", ContinentCode: "EU"},
		},
		{
			Name: "Dallas CTF", GameType: "ctf", Mode: "flags",
			Map: domain.MapInfo{ID: "bridge"}, Players: domain.NewPlayerCounts(0, 16),
			Dedicated: false,
			Realm:     "community", Official: false, Ranked: false,
			Location: &domain.Location{CountryCode: "US", ContinentCode: "NA"},
		},
		{
			Name: "Unlocated Arena", GameType: "arena", Mode: "duel",
			Map: domain.MapInfo{ID: "pit"}, Players: domain.NewPlayerCounts(2, 8),
			Usernames: []string{"Dag", "Erik"}, Dedicated: true,
			Realm: "event", Official: true, Ranked: false,
		},
	}
}

func names(servers []domain.Server) []string {
	out := make([]string, len(servers))
	for i, s := range servers {
		out[i] = s.Name
	}
	return out
}

func TestApplyNoCriteriaKeepsOrder(t *testing.T) {
	servers := fixtureServers()
	got := Apply(servers, Criteria{})
	assert.Equal(t, names(servers), names(got))
}

func TestApplyAndsCriteria(t *testing.T) {
	got := Apply(fixtureServers(), Criteria{Types: []string{"vanilla"}, NotEmpty: true, NotFull: true})
	assert.Equal(t, []string{"Berlin Vanilla"}, names(got))
}

func TestApplyTypePrefixCoversProVariant(t *testing.T) {
	got := Apply(fixtureServers(), Criteria{Types: []string{"vanilla"}})
	assert.Equal(t, []string{"Berlin Vanilla", "Paris Pro"}, names(got))
}

func TestApplyLocationSetIsOr(t *testing.T) {
	got := Apply(fixtureServers(), Criteria{Locations: []LocationCriterion{
		{Kind: LocationCountry, Code: "us"},
		{Kind: LocationCountry, Code: "fr"},
	}})
	assert.Equal(t, []string{"Paris Pro", "Dallas CTF"}, names(got))
}

func TestApplyLocationSkipsUnlocatedServers(t *testing.T) {
	got := Apply(fixtureServers(), Criteria{Locations: []LocationCriterion{
		{Kind: LocationContinent, Code: "EU"},
	}})
	assert.Equal(t, []string{"Berlin Vanilla", "Paris Pro"}, names(got))
}

func TestApplyHasPlayer(t *testing.T) {
	got := Apply(fixtureServers(), Criteria{HasPlayer: "Chloe"})
	assert.Equal(t, []string{"Paris Pro"}, names(got))

	got = Apply(fixtureServers(), Criteria{HasPlayer: "Nobody"})
	assert.Empty(t, got)
}

func TestApplyFlagsAndDatabase(t *testing.T) {
	got := Apply(fixtureServers(), Criteria{Official: true, Ranked: true, Database: domain.DatabasePro})
	assert.Equal(t, []string{"Paris Pro"}, names(got))

	got = Apply(fixtureServers(), Criteria{Dedicated: true})
	assert.Equal(t, []string{"Berlin Vanilla", "Paris Pro", "Unlocated Arena"}, names(got))
}

func TestApplyLimitTruncatesAfterFiltering(t *testing.T) {
	got := Apply(fixtureServers(), Criteria{Official: true, Limit: 2})
	assert.Equal(t, []string{"Berlin Vanilla", "Paris Pro"}, names(got))
}

func TestParseCriteria(t *testing.T) {
	values, err := url.ParseQuery("location=country:de+continent:na&type=vanilla+ctf&map=bridge&mode=conquest&dedicated=1&official=true&not_empty=yes&db=main&player=Anna&limit=5")
	require.NoError(t, err)

	c, err := ParseCriteria(values)
	require.NoError(t, err)

	assert.Equal(t, []LocationCriterion{
		{Kind: LocationCountry, Code: "de"},
		{Kind: LocationContinent, Code: "na"},
	}, c.Locations)
	assert.Equal(t, []string{"vanilla", "ctf"}, c.Types)
	assert.Equal(t, "bridge", c.MapID)
	assert.Equal(t, "conquest", c.Mode)
	assert.True(t, c.Dedicated)
	assert.True(t, c.Official)
	assert.False(t, c.Ranked)
	assert.True(t, c.NotEmpty)
	assert.Equal(t, domain.DatabaseMain, c.Database)
	assert.Equal(t, "Anna", c.HasPlayer)
	assert.Equal(t, 5, c.Limit)
}

func TestParseCriteriaRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		query string
		field string
	}{
		{name: "unknown database", query: "db=hardcore", field: "db"},
		{name: "unknown location kind", query: "location=planet:mars", field: "location"},
		{name: "location without kind", query: "location=de", field: "location"},
		{name: "bad flag", query: "dedicated=maybe", field: "dedicated"},
		{name: "bad limit", query: "limit=-3", field: "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			_, err = ParseCriteria(values)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
