package upstream

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frontline-tracker/internal/refdata"
)

type nodeOpt func(*strings.Builder)

func withPlayers(names ...string) nodeOpt {
	return func(b *strings.Builder) {
		for _, n := range names {
			fmt.Fprintf(b, "<player>%s</player>", n)
		}
	}
}

func node(name, mapPath, realm string, current int, last bool, opts ...nodeOpt) string {
	var b strings.Builder
	if last {
		b.WriteString(`<server last="1">`)
	} else {
		b.WriteString("<server>")
	}
	fmt.Fprintf(&b, "<name>%s</name><address>192.0.2.10</address><port>27960</port>", name)
	fmt.Fprintf(&b, "<map_id>%s</map_id><bots>0</bots>", mapPath)
	fmt.Fprintf(&b, "<current_players>%d</current_players><max_players>16</max_players>", current)
	b.WriteString("<version>1.9</version><dedicated>1</dedicated><comment></comment>")
	fmt.Fprintf(&b, "<url></url><mode>obj</mode><realm>%s</realm>", realm)
	for _, opt := range opts {
		opt(&b)
	}
	b.WriteString("</server>")
	return b.String()
}

func page(nodes ...string) string {
	return "<serverlist>" + strings.Join(nodes, "") + "</serverlist>"
}

func newServerList(g *stubGetter) *ServerList {
	return NewServerList(g, testConfig(), refdata.Load(), zerolog.Nop())
}

func TestLoadPaginatesUntilLastMarker(t *testing.T) {
	first := make([]string, 100)
	for i := range first {
		first[i] = node(fmt.Sprintf("srv-%03d", i), "frontline/vanilla/maps/bridge", "official", i%16, false)
	}
	second := []string{
		node("tail-0", "frontline/vanilla/maps/depot", "official", 3, false),
		node("tail-1", "frontline/vanilla/maps/depot", "official", 1, false),
		node("tail-2", "frontline/vanilla/maps/depot", "official", 0, true),
	}

	g := &stubGetter{xmlPages: []string{page(first...), page(second...)}}
	servers, err := newServerList(g).Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, servers, 103)
	require.Len(t, g.requests, 2, "last marker must stop pagination")
	assert.Equal(t, "0", g.requests[0].Params["start"])
	assert.Equal(t, "100", g.requests[0].Params["size"])
	assert.Equal(t, "100", g.requests[1].Params["start"])

	// pre-sorted by population, highest first
	for i := 1; i < len(servers); i++ {
		assert.GreaterOrEqual(t, servers[i-1].Players.Current, servers[i].Players.Current)
	}
}

func TestLoadStopsOnEmptyPage(t *testing.T) {
	g := &stubGetter{xmlPages: []string{
		page(node("a", "frontline/vanilla/maps/bridge", "official", 2, false)),
		page(),
	}}
	servers, err := newServerList(g).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, servers, 1)
	assert.Len(t, g.requests, 2)
}

func TestNormalizeServerNode(t *testing.T) {
	g := &stubGetter{xmlPages: []string{page(
		node("Main Street", "frontline/vanilla/maps/bridge", "official", -2, true,
			withPlayers("  zeta ", "alpha", "", "Mike")),
	)}}
	servers, err := newServerList(g).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 1)
	s := servers[0]

	assert.Equal(t, "192.0.2.10", s.IP)
	assert.Equal(t, 27960, s.Port)
	assert.Equal(t, "192.0.2.10:27960", s.Addr())
	assert.Equal(t, "vanilla", s.GameType)
	assert.Equal(t, "The Bridge", s.Map.Name)
	assert.True(t, s.Map.HasPreview)

	// upstream sometimes reports negative populations
	assert.Equal(t, 0, s.Players.Current)
	assert.Equal(t, 16, s.Players.Free)

	assert.Equal(t, []string{"Mike", "alpha", "zeta"}, s.Usernames)
	assert.True(t, s.Dedicated)
	assert.True(t, s.Official)
	assert.True(t, s.Ranked)
}

func TestNormalizeRealmClassification(t *testing.T) {
	tests := []struct {
		realm        string
		official     bool
		ranked       bool
		wantDatabase string
	}{
		{realm: "official", official: true, ranked: true, wantDatabase: "main"},
		{realm: "pro", official: true, ranked: true, wantDatabase: "pro"},
		{realm: "event", official: true, ranked: false, wantDatabase: "main"},
		{realm: "clan-xyz", official: false, ranked: false, wantDatabase: "main"},
	}

	for _, tt := range tests {
		t.Run(tt.realm, func(t *testing.T) {
			g := &stubGetter{xmlPages: []string{page(node("s", "frontline/vanilla/maps/bridge", tt.realm, 1, true))}}
			servers, err := newServerList(g).Load(context.Background())
			require.NoError(t, err)
			require.Len(t, servers, 1)
			assert.Equal(t, tt.official, servers[0].Official)
			assert.Equal(t, tt.ranked, servers[0].Ranked)
			assert.Equal(t, tt.wantDatabase, string(servers[0].Database))
		})
	}
}

func TestNormalizeUnknownMapFallsBack(t *testing.T) {
	g := &stubGetter{xmlPages: []string{page(node("s", "frontline/vanilla/maps/secretmap", "official", 1, true))}}
	servers, err := newServerList(g).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 1)

	assert.Equal(t, "secretmap", servers[0].Map.ID)
	assert.Equal(t, "secretmap", servers[0].Map.Name)
	assert.False(t, servers[0].Map.HasPreview)
	assert.False(t, servers[0].Map.HasOverview)
}

func TestLoadFailsFastOnMalformedNode(t *testing.T) {
	good := node("ok", "frontline/vanilla/maps/bridge", "official", 1, false)
	bad := strings.Replace(
		node("broken", "frontline/vanilla/maps/bridge", "official", 1, true),
		"<port>27960</port>", "<port>not-a-port</port>", 1)

	g := &stubGetter{xmlPages: []string{page(good, bad)}}
	servers, err := newServerList(g).Load(context.Background())

	require.Error(t, err)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Nil(t, servers, "no partial server list on failure")
}

func TestLoadFailsOnBadMapPath(t *testing.T) {
	g := &stubGetter{xmlPages: []string{page(node("s", "garbage-without-maps-segment", "official", 1, true))}}
	_, err := newServerList(g).Load(context.Background())

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "map path")
}
