package service

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontline-tracker/internal/cache"
	"frontline-tracker/internal/config"
	"frontline-tracker/internal/domain"
	"frontline-tracker/internal/fetch"
	"frontline-tracker/internal/geo"
	"frontline-tracker/internal/rank"
	"frontline-tracker/internal/refdata"
	"frontline-tracker/internal/upstream"
)

// countingGetter serves a fixed ranking table and an empty server list,
// counting upstream round trips.
type countingGetter struct {
	html      string
	htmlCalls int
	xmlCalls  int
}

func (g *countingGetter) XML(_ context.Context, _ fetch.Request, v any) error {
	g.xmlCalls++
	return xml.Unmarshal([]byte("<serverlist></serverlist>"), v)
}

func (g *countingGetter) HTML(_ context.Context, _ fetch.Request) (*goquery.Document, error) {
	g.htmlCalls++
	return goquery.NewDocumentFromReader(strings.NewReader(g.html))
}

// rankingRow reads identically under both column layouts: the three counters
// the layouts reorder are all zero.
const rankingRow = `<tr>` +
	`<td>1</td><td><img src="/img/ranks/rank_6.png"></td><td>Viper</td><td>2500</td>` +
	`<td>10</td><td>4</td><td>0</td><td>0</td><td>0</td>` +
	`<td>5</td><td>100</td><td>2</td><td>1.5 km</td><td>2h</td>` +
	`</tr>`

func rankingTable(rows string) string {
	return "<html><body><table><tr><th>h</th></tr>" + rows + "</table></body></html>"
}

func newTestTracker(t *testing.T, g upstream.Getter) *Tracker {
	t.Helper()
	cfg := &config.Config{UpstreamBaseURL: "http://master.test"}
	locator, err := geo.NewLocator(cfg, zerolog.Nop())
	require.NoError(t, err)

	return NewTracker(
		upstream.NewServerList(g, cfg, refdata.Load(), zerolog.Nop()),
		upstream.NewPlayerList(g, cfg, zerolog.Nop()),
		locator,
		rank.NewCalculator(refdata.Load()),
		cache.NewMemory(),
		zerolog.Nop(),
	)
}

func TestSearchPlayerMemoizesMisses(t *testing.T) {
	g := &countingGetter{html: rankingTable("")}
	tracker := newTestTracker(t, g)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		p, err := tracker.SearchPlayer(ctx, domain.DatabaseMain, "Nobody")
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	assert.Equal(t, 1, g.htmlCalls, "repeat miss within the TTL must be served from cache")
}

func TestSearchPlayerMemoizesHits(t *testing.T) {
	g := &countingGetter{html: rankingTable(rankingRow)}
	tracker := newTestTracker(t, g)
	ctx := context.Background()

	first, err := tracker.SearchPlayer(ctx, domain.DatabaseMain, "Viper")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Viper", first.Username)
	assert.NotEmpty(t, first.Rank.Name)

	second, err := tracker.SearchPlayer(ctx, domain.DatabaseMain, "Viper")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.htmlCalls)
}

func TestPlayersCacheKeyIncludesTarget(t *testing.T) {
	g := &countingGetter{html: rankingTable(rankingRow)}
	tracker := newTestTracker(t, g)
	ctx := context.Background()

	_, err := tracker.Players(ctx, domain.DatabaseMain, "xp", "", 0, 50)
	require.NoError(t, err)
	_, err = tracker.Players(ctx, domain.DatabaseMain, "xp", "Viper", 0, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, g.htmlCalls, "distinct targets must not share a cache entry")

	_, err = tracker.Players(ctx, domain.DatabaseMain, "xp", "Viper", 0, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, g.htmlCalls)
}

func TestInvalidateServersForcesRefresh(t *testing.T) {
	g := &countingGetter{html: rankingTable("")}
	tracker := newTestTracker(t, g)
	ctx := context.Background()

	_, err := tracker.Servers(ctx)
	require.NoError(t, err)
	_, err = tracker.Servers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, g.xmlCalls)

	tracker.InvalidateServers()
	_, err = tracker.Servers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, g.xmlCalls)
}
