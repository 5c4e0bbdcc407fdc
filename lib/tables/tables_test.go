package tables

import (
	"strings"
	"testing"

	"sportsref/lib/entity"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const gamesTable = `
<table id="games">
	<thead>
		<tr>
			<th data-stat="week_num">Week</th>
			<th data-stat="winner">Winner</th>
			<th data-stat="boxscore_word"></th>
		</tr>
	</thead>
	<tbody>
		<tr>
			<th data-stat="week_num">1</th>
			<td data-stat="winner"><a href="/teams/nwe/2015.htm">New England Patriots</a></td>
			<td data-stat="boxscore_word"><a href="/boxscores/201509100nwe.htm">boxscore</a></td>
		</tr>
		<tr class="thead">
			<td colspan="3">Week header spacer</td>
		</tr>
		<tr>
			<th data-stat="week_num">2</th>
			<td data-stat="winner"><a href="/teams/sea/2015.htm">Seattle Seahawks</a></td>
			<td data-stat="boxscore_word"><a href="/boxscores/201509200sea.htm">boxscore</a></td>
		</tr>
	</tbody>
</table>`

func docFrom(t *testing.T, fragment string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	require.NoError(t, err)
	return doc
}

func TestParse(t *testing.T) {
	doc := docFrom(t, gamesTable)

	rows, err := Parse(doc.Find("table#games"))
	require.NoError(t, err)

	expected := []Row{
		{"week_num": "1", "winner": "nwe", "boxscore_word": "201509100nwe"},
		{"week_num": "2", "winner": "sea", "boxscore_word": "201509200sea"},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestParseMissingTable(t *testing.T) {
	doc := docFrom(t, `<div>no tables here</div>`)

	_, err := Parse(doc.Find("table#games"))
	require.ErrorIs(t, err, entity.ErrParseFailed)
}

func TestParsePartialTableRows(t *testing.T) {
	doc := docFrom(t, `
<table id="teams_active">
	<thead><tr><th data-stat="team_id">Tm</th></tr></thead>
	<tbody>
		<tr><th data-stat="team_id"><a href="/teams/nwe/">NWE</a></th></tr>
		<tr class="partial_table"><th data-stat="team_id"><a href="/teams/bos/">BOS</a></th></tr>
	</tbody>
</table>`)

	rows, err := Parse(doc.Find("table#teams_active"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotContains(t, rows[0], PartialTableKey)
	require.Equal(t, "true", rows[1][PartialTableKey])
}

func TestParseInfo(t *testing.T) {
	doc := docFrom(t, `
<table id="game_info">
	<tr><th>Won Toss</th><td>Steelers</td></tr>
	<tr><th>Roof</th><td>outdoors</td></tr>
	<tr><th>Vegas Line</th><td>New England Patriots -7.0</td></tr>
	<tr><th>Over/Under</th><td>51.0 (over)</td></tr>
</table>`)

	info, err := ParseInfo(doc.Find("table#game_info"))
	require.NoError(t, err)

	require.Equal(t, "Steelers", info["won_toss"])
	require.Equal(t, "outdoors", info["roof"])
	require.Equal(t, "New England Patriots -7.0", info["vegas_line"])
	require.Equal(t, "51.0 (over)", info["over_under"])
}

func TestRelURLToID(t *testing.T) {
	testCases := []struct {
		href     string
		expected string
	}{
		{"/teams/nwe/2015.htm", "nwe"},
		{"/teams/sea/", "sea"},
		{"/boxscores/201509100nwe.htm", "201509100nwe"},
		{"/players/B/BradTo00.htm", "BradTo00"},
		{"/coaches/BeliBi0.htm", "BeliBi0"},
		{"/refs/TorbGe0r.htm", "TorbGe0r"},
		{"/stadiums/FOX00.htm", "FOX00"},
		{"/years/2015/games.htm", "2015"},
		{"/schools/michigan/", "michigan"},
		{"https://example.com/unrelated", ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, RelURLToID(test.href), "href: %s", test.href)
	}
}
