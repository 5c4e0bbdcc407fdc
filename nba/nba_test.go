package nba

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"sportsref/lib/entity"

	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://bbr.test"

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

const teamMainHTML = `<html><body>
<div id="info"><h1><span>Golden State Warriors</span></h1></div>
</body></html>`

const teamGamesHTML = `<html><body>
<table id="teams_games"><thead><tr>
<th data-stat="g">G</th><th data-stat="box_score_text"></th>
</tr></thead><tbody>
<tr><th data-stat="g">1</th><td data-stat="box_score_text"><a href="/boxscores/201410290GSW.html">Box Score</a></td></tr>
<tr><th data-stat="g">2</th><td data-stat="box_score_text"><a href="/boxscores/201410310LAL.html">Box Score</a></td></tr>
</tbody></table>
</body></html>`

func TestTeamName(t *testing.T) {
	ctx := context.Background()
	fetcher := newFakeFetcher()
	fetcher.pages[testBaseURL+"/teams/GSW/"] = teamMainHTML
	client := NewClient(Options{Fetch: fetcher, BaseURL: testBaseURL})

	team, err := client.Team("GSW")
	require.NoError(t, err)
	again, err := client.Team("GSW")
	require.NoError(t, err)
	require.Same(t, team, again)

	for i := 0; i < 3; i++ {
		name, err := team.Name(ctx)
		require.NoError(t, err)
		require.Equal(t, "Golden State Warriors", name)
	}
	require.Equal(t, 1, fetcher.hits[testBaseURL+"/teams/GSW/"])
}

func TestTeamInvalidID(t *testing.T) {
	client := NewClient(Options{Fetch: newFakeFetcher()})
	for _, id := range []string{"", "gsw", "GS", "GSWX"} {
		_, err := client.Team(id)
		require.ErrorIs(t, err, entity.ErrInvalidKey, "id %q", id)
	}
}

func TestBoxScoreIDs(t *testing.T) {
	ctx := context.Background()
	fetcher := newFakeFetcher()
	fetcher.pages[testBaseURL+"/teams/GSW/2015_games.html"] = teamGamesHTML
	client := NewClient(Options{Fetch: fetcher, BaseURL: testBaseURL})

	team, err := client.Team("GSW")
	require.NoError(t, err)

	ids, err := team.BoxScoreIDs(ctx, 2015)
	require.NoError(t, err)
	require.Equal(t, []string{"201410290GSW", "201410310LAL"}, ids)

	_, err = team.BoxScoreIDs(ctx, 2015)
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.hits[testBaseURL+"/teams/GSW/2015_games.html"])
}

func TestRegistrySharedAcrossSports(t *testing.T) {
	registry := entity.NewRegistry()
	client := NewClient(Options{Fetch: newFakeFetcher(), Registry: registry})

	_, err := client.Team("GSW")
	require.NoError(t, err)
	require.Equal(t, 1, registry.Len())
}
