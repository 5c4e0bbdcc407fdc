// Package fetch is the HTTP collaborator behind every scraped page: a
// resty client with cloudflare bypass, polite throttling, and an
// optional sqlite-backed page cache. The cache here works at the HTTP
// layer and composes beneath the per-entity memoization in lib/entity.
package fetch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http/cookiejar"
	"sync"
	"time"

	"sportsref/lib/entity"
	fetchdb "sportsref/lib/fetch/db"
	"sportsref/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("sportsref/lib/fetch")

// Fetcher retrieves one URL as HTML text. Implementations own their
// retry and rate-limit policy; callers above treat any failure as
// entity.ErrFetchFailed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Options struct {
	// CacheDB is the page-cache database from lib/fetch/db.Open. nil
	// disables disk caching.
	CacheDB *sql.DB
	// CacheTTL defaults to 24h.
	CacheTTL time.Duration
	// Throttle is the minimum delay between outgoing requests.
	// sports-reference bans aggressive crawlers; defaults to 3s.
	Throttle time.Duration
	// Jitter is the maximum random delay added on top of Throttle.
	// Defaults to 1s; set negative to disable.
	Jitter    time.Duration
	UserAgent string
	Timeout   time.Duration
}

type Client struct {
	http     *resty.Client
	qry      *fetchdb.Queries
	ttl      time.Duration
	throttle time.Duration
	jitter   time.Duration

	mu   sync.Mutex
	next time.Time
}

func NewClient(opts Options) (*Client, error) {
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	if opts.Throttle == 0 {
		opts.Throttle = 3 * time.Second
	}
	if opts.Jitter == 0 {
		opts.Jitter = time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(2)
	client.SetRetryWaitTime(2 * time.Second)

	telemetry.InstrumentResty(client, "sportsref/lib/fetch/http")

	c := &Client{
		http:     client,
		ttl:      opts.CacheTTL,
		throttle: opts.Throttle,
		jitter:   opts.Jitter,
	}
	if opts.CacheDB != nil {
		c.qry = fetchdb.New(opts.CacheDB)
		err := c.qry.DeleteExpiredPages(context.Background(), time.Now().Unix())
		if err != nil {
			slog.Warn("failed to purge expired pages", "err", err)
		}
	}
	return c, nil
}

// Fetch returns the HTML body at url, preferring an unexpired cached
// copy. Transport errors, non-200 statuses and empty bodies all surface
// as entity.ErrFetchFailed.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	if c.qry != nil {
		page, err := c.qry.GetPage(ctx, url)
		if err == nil && time.Now().Unix() < page.ExpiresAt {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return page.Body, nil
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "failed to read page cache", "url", url, "err", err)
		}
	}
	span.SetAttributes(attribute.Bool("cache_hit", false))

	if err := c.wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrFetchFailed, err)
	}

	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return "", fmt.Errorf("%w: %v", entity.ErrFetchFailed, err)
	}
	if res.StatusCode() != 200 {
		span.SetStatus(codes.Error, "unexpected status")
		return "", fmt.Errorf("%w: status %d for %s", entity.ErrFetchFailed, res.StatusCode(), url)
	}
	body := res.String()
	if body == "" {
		span.SetStatus(codes.Error, "empty response body")
		return "", fmt.Errorf("%w: empty body for %s", entity.ErrFetchFailed, url)
	}

	if c.qry != nil {
		now := time.Now()
		err := c.qry.UpsertPage(ctx, fetchdb.UpsertPageParams{
			Url:       url,
			Body:      body,
			FetchedAt: now.Unix(),
			ExpiresAt: now.Add(c.ttl).Unix(),
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to write page cache", "url", url, "err", err)
		}
	}

	return body, nil
}

// wait enforces the throttle across goroutines. Each request reserves
// the next send slot, so concurrent fetches queue up instead of
// bursting.
func (c *Client) wait(ctx context.Context) error {
	delay := c.throttle
	if c.jitter > 0 {
		extraMs, err := random.IntRange(0, int(c.jitter.Milliseconds())+1)
		if err == nil {
			delay += time.Duration(extraMs) * time.Millisecond
		}
	}

	c.mu.Lock()
	now := time.Now()
	sendAt := c.next
	if sendAt.Before(now) {
		sendAt = now
	}
	c.next = sendAt.Add(delay)
	c.mu.Unlock()

	pause := time.Until(sendAt)
	if pause <= 0 {
		return nil
	}
	timer := time.NewTimer(pause)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
