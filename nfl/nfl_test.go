package nfl

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"sportsref/lib/entity"
)

const testBaseURL = "https://pfr.test"

// fakeFetcher serves canned pages and counts hits per URL. Unknown URLs
// fail like a 404 would.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	hits  map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]string{}, hits: map[string]int{}}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[url]++
	body, ok := f.pages[url]
	if !ok {
		return "", fmt.Errorf("%w: status 404 for %s", entity.ErrFetchFailed, url)
	}
	return body, nil
}

func (f *fakeFetcher) hitCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[url]
}

func (f *fakeFetcher) set(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[testBaseURL+path] = body
}

func newTestClient(t *testing.T) (*Client, *fakeFetcher) {
	t.Helper()
	fetcher := newFakeFetcher()
	client := NewClient(Options{Fetch: fetcher, BaseURL: testBaseURL})
	return client, fetcher
}

const teamsDirectoryHTML = `<html><body>
<table id="teams_active"><thead><tr>
<th data-stat="team_id">Tm</th><th data-stat="year_min">From</th><th data-stat="year_max">To</th>
</tr></thead><tbody>
<tr><th data-stat="team_id"><a href="/teams/nwe/">New England Patriots</a></th><td data-stat="year_min">1960</td><td data-stat="year_max">2019</td></tr>
<tr class="partial_table"><th data-stat="team_id"><a href="/teams/nwe/">Boston Patriots</a></th><td data-stat="year_min">1960</td><td data-stat="year_max">1970</td></tr>
<tr><th data-stat="team_id"><a href="/teams/sea/">Seattle Seahawks</a></th><td data-stat="year_min">1976</td><td data-stat="year_max">2019</td></tr>
<tr><th data-stat="team_id"><a href="/teams/pit/">Pittsburgh Steelers</a></th><td data-stat="year_min">1933</td><td data-stat="year_max">2019</td></tr>
</tbody></table>
<table id="teams_inactive"><thead><tr>
<th data-stat="team_id">Tm</th><th data-stat="year_min">From</th><th data-stat="year_max">To</th>
</tr></thead><tbody>
<tr><th data-stat="team_id"><a href="/teams/cli/">Cleveland Indians</a></th><td data-stat="year_min">1931</td><td data-stat="year_max">1931</td></tr>
</tbody></table>
</body></html>`
