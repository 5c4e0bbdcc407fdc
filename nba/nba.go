// Package nba scrapes basketball-reference.com. It shares the identity
// registry and memoization core with the nfl package; a second sport is
// mostly a second set of entity kinds and page layouts.
package nba

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

var tracer = otel.Tracer("sportsref/nba")

const DefaultBaseURL = "https://www.basketball-reference.com"

const KindTeam = "nba/team"

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
	}
}

func (c *Client) Registry() *entity.Registry {
	return c.registry
}

func (c *Client) document(ctx context.Context, path string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "nba:document")
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
