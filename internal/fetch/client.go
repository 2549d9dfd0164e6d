// Package fetch performs bounded-timeout GETs against the upstream master
// service and hands back decoded documents. Retry policy belongs to callers;
// this layer fails fast.
package fetch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"go.uber.org/fx"
	"golang.org/x/text/encoding/charmap"

	"frontline-tracker/internal/constants"
)

type Request struct {
	URL    string
	Params map[string]string

	BasicAuthUser string
	BasicAuthPass string

	InsecureTLS bool

	// LegacyEncoding re-decodes the response body from Windows-1252 before
	// parsing; the ranking pages still ship in the game's original charset.
	LegacyEncoding bool
}

type Client struct {
	client   *fasthttp.Client
	insecure *fasthttp.Client
	logger   zerolog.Logger
}

func NewClient(logger zerolog.Logger) *Client {
	return &Client{
		client:   newHTTPClient(false),
		insecure: newHTTPClient(true),
		logger:   logger,
	}
}

func newHTTPClient(insecureTLS bool) *fasthttp.Client {
	return &fasthttp.Client{
		MaxConnsPerHost:     100,
		ReadTimeout:         constants.FetchTimeout,
		WriteTimeout:        constants.FetchTimeout,
		MaxIdleConnDuration: 1 * time.Minute,
		TLSConfig:           &tls.Config{InsecureSkipVerify: insecureTLS},
	}
}

// XML fetches the request and decodes the body into v.
func (c *Client) XML(ctx context.Context, r Request, v any) error {
	body, err := c.get(ctx, r)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(body, v); err != nil {
		return &Error{URL: r.URL, Err: fmt.Errorf("decode xml: %w", err)}
	}
	return nil
}

// HTML fetches the request and parses the body into a document tree.
func (c *Client) HTML(ctx context.Context, r Request) (*goquery.Document, error) {
	body, err := c.get(ctx, r)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &Error{URL: r.URL, Err: fmt.Errorf("parse html: %w", err)}
	}
	return doc, nil
}

func (c *Client) get(ctx context.Context, r Request) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(requestURI(r))
	req.Header.SetMethod(fasthttp.MethodGet)
	if r.BasicAuthUser != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(r.BasicAuthUser + ":" + r.BasicAuthPass))
		req.Header.Set("Authorization", "Basic "+cred)
	}

	deadline := time.Now().Add(constants.FetchTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	client := c.client
	if r.InsecureTLS {
		client = c.insecure
	}

	start := time.Now()
	if err := client.DoDeadline(req, resp, deadline); err != nil {
		c.logger.Warn().Err(err).Str("url", r.URL).Msg("upstream request failed")
		return nil, &Error{URL: r.URL, Err: err}
	}

	if sc := resp.StatusCode(); sc < 200 || sc > 299 {
		c.logger.Warn().Int("status", sc).Str("url", r.URL).Msg("upstream returned non-2xx")
		return nil, &Error{URL: r.URL, StatusCode: sc, Err: fmt.Errorf("unexpected status %d", sc)}
	}

	body := append([]byte(nil), resp.Body()...)
	if r.LegacyEncoding {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(body)
		if err != nil {
			return nil, &Error{URL: r.URL, Err: fmt.Errorf("decode charset: %w", err)}
		}
		body = decoded
	}

	c.logger.Debug().
		Str("url", r.URL).
		Int("bytes", len(body)).
		Dur("duration", time.Since(start)).
		Msg("upstream fetch completed")

	return body, nil
}

func requestURI(r Request) string {
	if len(r.Params) == 0 {
		return r.URL
	}
	values := url.Values{}
	for k, v := range r.Params {
		values.Set(k, v)
	}
	return r.URL + "?" + values.Encode()
}

var Module = fx.Provide(NewClient)
