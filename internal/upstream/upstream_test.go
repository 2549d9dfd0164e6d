package upstream

import (
	"context"
	"encoding/xml"
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"frontline-tracker/internal/config"
	"frontline-tracker/internal/fetch"
)

// stubGetter replays canned documents and records the requests it saw.
type stubGetter struct {
	xmlPages []string
	html     string
	requests []fetch.Request
}

func (g *stubGetter) XML(_ context.Context, r fetch.Request, v any) error {
	g.requests = append(g.requests, r)
	idx := len(g.requests) - 1
	if idx >= len(g.xmlPages) {
		return errors.New("unexpected extra fetch")
	}
	return xml.Unmarshal([]byte(g.xmlPages[idx]), v)
}

func (g *stubGetter) HTML(_ context.Context, r fetch.Request) (*goquery.Document, error) {
	g.requests = append(g.requests, r)
	return goquery.NewDocumentFromReader(strings.NewReader(g.html))
}

func testConfig() *config.Config {
	return &config.Config{UpstreamBaseURL: "http://master.test"}
}
