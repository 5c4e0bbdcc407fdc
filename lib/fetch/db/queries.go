package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Page struct {
	Url       string
	Body      string
	FetchedAt int64
	ExpiresAt int64
}

const getPage = `
SELECT url, body, fetched_at, expires_at FROM pages WHERE url = ?
`

func (q *Queries) GetPage(ctx context.Context, url string) (Page, error) {
	var page Page
	err := q.db.QueryRowContext(ctx, getPage, url).Scan(
		&page.Url,
		&page.Body,
		&page.FetchedAt,
		&page.ExpiresAt,
	)
	return page, err
}

const upsertPage = `
INSERT INTO pages (url, body, fetched_at, expires_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (url) DO UPDATE SET
    body = excluded.body,
    fetched_at = excluded.fetched_at,
    expires_at = excluded.expires_at
`

type UpsertPageParams struct {
	Url       string
	Body      string
	FetchedAt int64
	ExpiresAt int64
}

func (q *Queries) UpsertPage(ctx context.Context, params UpsertPageParams) error {
	_, err := q.db.ExecContext(
		ctx,
		upsertPage,
		params.Url,
		params.Body,
		params.FetchedAt,
		params.ExpiresAt,
	)
	return err
}

const deletePage = `
DELETE FROM pages WHERE url = ?
`

func (q *Queries) DeletePage(ctx context.Context, url string) error {
	_, err := q.db.ExecContext(ctx, deletePage, url)
	return err
}

const deleteExpiredPages = `
DELETE FROM pages WHERE expires_at <= ?
`

func (q *Queries) DeleteExpiredPages(ctx context.Context, now int64) error {
	_, err := q.db.ExecContext(ctx, deleteExpiredPages, now)
	return err
}
