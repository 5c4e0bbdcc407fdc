// Package nfl scrapes pro-football-reference.com into teams, box scores
// and season schedules. All entity construction goes through the shared
// identity registry and every page-derived accessor is memoized, so each
// page is fetched and parsed at most once per process.
package nfl

import (
	"context"
	"fmt"
	"strings"

	"sportsref/lib/entity"
	"sportsref/lib/fetch"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("sportsref/nfl")

const DefaultBaseURL = "https://www.pro-football-reference.com"

const (
	KindTeam     = "nfl/team"
	KindBoxScore = "nfl/boxscore"
)

type Options struct {
	Fetch fetch.Fetcher
	// Registry may be shared with other sport clients; a fresh one is
	// created when nil.
	Registry *entity.Registry
	BaseURL  string
}

type Client struct {
	fetch    fetch.Fetcher
	registry *entity.Registry
	baseURL  string

	// memoizes the client-level operations: team directory, season
	// schedules
	store *entity.Store
}

func NewClient(opts Options) *Client {
	if opts.Registry == nil {
		opts.Registry = entity.NewRegistry()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	return &Client{
		fetch:    opts.Fetch,
		registry: opts.Registry,
		baseURL:  opts.BaseURL,
		store:    entity.NewStore(),
	}
}

func (c *Client) Registry() *entity.Registry {
	return c.registry
}

// document fetches a site-relative path and parses it into a goquery
// document.
func (c *Client) document(ctx context.Context, path string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "nfl:document")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	html, err := c.fetch.Fetch(ctx, c.baseURL+path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, fmt.Errorf("%w: %v", entity.ErrParseFailed, err)
	}
	return doc, nil
}
