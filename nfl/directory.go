package nfl

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"sportsref/lib/entity"
	"sportsref/lib/tables"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
)

// TeamNames maps team ID to full franchise name for the teams active in
// a given season, e.g. "nwe" -> "New England Patriots". Covers both the
// active and inactive franchise tables.
func (c *Client) TeamNames(ctx context.Context, year int) (map[string]string, error) {
	return entity.Call(ctx, c.store, "team_names", []any{year}, func(ctx context.Context) (map[string]string, error) {
		doc, err := c.document(ctx, "/teams/")
		if err != nil {
			return nil, err
		}

		names := map[string]string{}
		for _, selector := range []string{"table#teams_active", "table#teams_inactive"} {
			table := doc.Find(selector)
			if table.Length() == 0 {
				continue
			}
			if err := collectFranchises(table, year, names); err != nil {
				return nil, err
			}
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: no franchise tables on /teams/", entity.ErrParseFailed)
		}
		return names, nil
	})
}

// collectFranchises walks one franchise table, keeping top-level rows
// (skipping `.partial_table` name-variant sub-rows) whose year range
// covers the requested season.
func collectFranchises(table *goquery.Selection, year int, out map[string]string) error {
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass("partial_table") || tr.HasClass("thead") {
			return
		}

		anchor := tr.Find("th[data-stat=team_id] a").First()
		if anchor.Length() == 0 {
			return
		}
		id := tables.RelURLToID(anchor.AttrOr("href", ""))
		if id == "" {
			return
		}

		yearMin, errMin := strconv.Atoi(tr.Find("td[data-stat=year_min]").Text())
		yearMax, errMax := strconv.Atoi(tr.Find("td[data-stat=year_max]").Text())
		if errMin != nil || errMax != nil {
			return
		}
		if year < yearMin || year > yearMax {
			return
		}

		out[id] = anchor.Text()
	})
	return nil
}

// TeamIDs is the inverse of TeamNames: full franchise name to team ID.
func (c *Client) TeamIDs(ctx context.Context, year int) (map[string]string, error) {
	return entity.Call(ctx, c.store, "team_ids", []any{year}, func(ctx context.Context) (map[string]string, error) {
		names, err := c.TeamNames(ctx, year)
		if err != nil {
			return nil, err
		}
		ids := make(map[string]string, len(names))
		for id, name := range names {
			ids[name] = id
		}
		return ids, nil
	})
}

// ListTeams returns the sorted team IDs active in a season.
func (c *Client) ListTeams(ctx context.Context, year int) ([]string, error) {
	return entity.Call(ctx, c.store, "list_teams", []any{year}, func(ctx context.Context) ([]string, error) {
		names, err := c.TeamNames(ctx, year)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(names))
		for id := range names {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return ids, nil
	})
}

// matches looser than this are considered noise
const minNameSimilarity = 0.8

// TeamByName resolves a franchise name to its Team entity. Exact matches
// win; otherwise the most similar name by Jaro-Winkler distance is used,
// so "Patriots" or a misspelling still resolves.
func (c *Client) TeamByName(ctx context.Context, name string, year int) (*Team, error) {
	ids, err := c.TeamIDs(ctx, year)
	if err != nil {
		return nil, err
	}
	if id, ok := ids[name]; ok {
		return c.Team(id)
	}

	var bestID string
	var bestSimilarity float64
	for candidate, id := range ids {
		similarity := matchr.JaroWinkler(name, candidate, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			bestID = id
		}
	}
	if bestSimilarity < minNameSimilarity {
		return nil, fmt.Errorf("no team resembling %q in %d", name, year)
	}
	return c.Team(bestID)
}
