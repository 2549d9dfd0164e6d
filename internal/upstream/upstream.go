// Package upstream normalizes the two feeds of the Frontline master service:
// the paginated XML server list and the HTML player-ranking pages. Both are
// positional, undocumented formats; all format knowledge lives here.
package upstream

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"frontline-tracker/internal/config"
	"frontline-tracker/internal/fetch"
)

// Getter is the slice of the fetch client this package needs; tests stub it
// with canned documents.
type Getter interface {
	XML(ctx context.Context, r fetch.Request, v any) error
	HTML(ctx context.Context, r fetch.Request) (*goquery.Document, error)
}

// ParseError reports an upstream document that did not match the expected
// shape. Format drift and transient corruption are indistinguishable here, so
// callers treat it like a fetch failure.
type ParseError struct {
	Source string
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Source, e.Detail, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Source, e.Detail)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func baseRequest(cfg *config.Config, path string, params map[string]string) fetch.Request {
	return fetch.Request{
		URL:           cfg.UpstreamBaseURL + path,
		Params:        params,
		BasicAuthUser: cfg.UpstreamUser,
		BasicAuthPass: cfg.UpstreamPass,
		InsecureTLS:   cfg.UpstreamInsecureTLS,
	}
}
