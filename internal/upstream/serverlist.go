package upstream

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"frontline-tracker/internal/config"
	"frontline-tracker/internal/constants"
	"frontline-tracker/internal/domain"
	"frontline-tracker/internal/refdata"
)

type serverListPage struct {
	XMLName xml.Name     `xml:"serverlist"`
	Servers []serverNode `xml:"server"`
}

// Numeric children are kept as strings so a malformed node can be reported
// with the offending field instead of silently zeroing.
type serverNode struct {
	Last           string   `xml:"last,attr"`
	Name           string   `xml:"name"`
	Address        string   `xml:"address"`
	Port           string   `xml:"port"`
	MapID          string   `xml:"map_id"`
	Bots           string   `xml:"bots"`
	CurrentPlayers string   `xml:"current_players"`
	MaxPlayers     string   `xml:"max_players"`
	Version        string   `xml:"version"`
	Dedicated      string   `xml:"dedicated"`
	Comment        string   `xml:"comment"`
	URL            string   `xml:"url"`
	Mode           string   `xml:"mode"`
	Realm          string   `xml:"realm"`
	Players        []string `xml:"player"`
}

// mapPathRe recovers (game_type, map_id) from the tail of the upstream map
// path, e.g. "frontline/vanilla/maps/bridge".
var mapPathRe = regexp.MustCompile(`([^/]+)/maps/([^/]+)/?$`)

type ServerList struct {
	getter Getter
	cfg    *config.Config
	tables *refdata.Tables
	logger zerolog.Logger
}

func NewServerList(getter Getter, cfg *config.Config, tables *refdata.Tables, logger zerolog.Logger) *ServerList {
	return &ServerList{getter: getter, cfg: cfg, tables: tables, logger: logger}
}

// Load walks the paginated feed until a page comes back empty or the terminal
// node carries the last marker. Any malformed node aborts the whole load; a
// partial server list is never returned.
func (l *ServerList) Load(ctx context.Context) ([]domain.Server, error) {
	var servers []domain.Server
	start := 0
	pages := 0

	for {
		var page serverListPage
		req := baseRequest(l.cfg, "/serverlist.xml", map[string]string{
			"start": strconv.Itoa(start),
			"size":  strconv.Itoa(constants.ServerListPageSize),
		})
		if err := l.getter.XML(ctx, req, &page); err != nil {
			return nil, err
		}
		pages++

		if len(page.Servers) == 0 {
			break
		}
		for i := range page.Servers {
			srv, err := l.normalize(page.Servers[i])
			if err != nil {
				return nil, err
			}
			servers = append(servers, *srv)
		}
		if page.Servers[len(page.Servers)-1].Last != "" {
			break
		}
		start += len(page.Servers)
	}

	sort.SliceStable(servers, func(i, j int) bool {
		return servers[i].Players.Current > servers[j].Players.Current
	})

	l.logger.Info().Int("servers", len(servers)).Int("pages", pages).Msg("server list loaded")
	return servers, nil
}

func (l *ServerList) normalize(node serverNode) (*domain.Server, error) {
	port, err := nodeInt(node, "port", node.Port)
	if err != nil {
		return nil, err
	}
	bots, err := nodeInt(node, "bots", node.Bots)
	if err != nil {
		return nil, err
	}
	current, err := nodeInt(node, "current_players", node.CurrentPlayers)
	if err != nil {
		return nil, err
	}
	max, err := nodeInt(node, "max_players", node.MaxPlayers)
	if err != nil {
		return nil, err
	}

	m := mapPathRe.FindStringSubmatch(node.MapID)
	if m == nil {
		return nil, &ParseError{Source: "serverlist", Detail: fmt.Sprintf("server %q: unexpected map path %q", node.Name, node.MapID)}
	}
	gameType, mapID := m[1], m[2]

	mi, known := l.tables.MapInfo(gameType, mapID)
	if !known {
		mi = domain.MapInfo{ID: mapID, Name: mapID}
	}

	usernames := make([]string, 0, len(node.Players))
	for _, p := range node.Players {
		if name := strings.TrimSpace(p); name != "" {
			usernames = append(usernames, name)
		}
	}
	sort.Strings(usernames)

	return &domain.Server{
		IP:        strings.TrimSpace(node.Address),
		Port:      port,
		Name:      strings.TrimSpace(node.Name),
		GameType:  gameType,
		Map:       mi,
		Players:   domain.NewPlayerCounts(current, max),
		Bots:      bots,
		Usernames: usernames,
		Dedicated: node.Dedicated == "1",
		Version:   strings.TrimSpace(node.Version),
		Comment:   strings.TrimSpace(node.Comment),
		Website:   strings.TrimSpace(node.URL),
		Mode:      node.Mode,
		Realm:     node.Realm,
		Database:  l.tables.DatabaseForRealm(node.Realm),
		Official:  l.tables.IsOfficial(node.Realm),
		Ranked:    l.tables.IsRanked(node.Realm),
	}, nil
}

func nodeInt(node serverNode, field, raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ParseError{Source: "serverlist", Detail: fmt.Sprintf("server %q: bad %s %q", node.Name, field, raw), Err: err}
	}
	return v, nil
}
