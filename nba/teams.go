package nba

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"sportsref/lib/entity"
	"sportsref/lib/tables"

	"github.com/PuerkitoBio/goquery"
)

// basketball-reference team IDs are uppercase, e.g. GSW
var teamIDPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Team is one NBA franchise. Obtain instances through Client.Team.
type Team struct {
	id     string
	client *Client
	store  *entity.Store
}

func (t *Team) Kind() string { return KindTeam }
func (t *Team) Key() string  { return t.id }

func (t *Team) String() string { return fmt.Sprintf("Team(%s)", t.id) }

func (c *Client) Team(id string) (*Team, error) {
	return entity.GetOrCreate(c.registry, KindTeam, id, func(key string) (*Team, error) {
		if !teamIDPattern.MatchString(key) {
			return nil, fmt.Errorf("%w: team id %q", entity.ErrInvalidKey, key)
		}
		return &Team{id: key, client: c, store: entity.NewStore()}, nil
	})
}

// MainDoc is the franchise index page, fetched at most once.
func (t *Team) MainDoc(ctx context.Context) (*goquery.Document, error) {
	return entity.Call(ctx, t.store, "main_doc", nil, func(ctx context.Context) (*goquery.Document, error) {
		return t.client.document(ctx, fmt.Sprintf("/teams/%s/", t.id))
	})
}

// Name returns the franchise's full name, e.g. "Golden State Warriors".
func (t *Team) Name(ctx context.Context) (string, error) {
	return entity.Call(ctx, t.store, "name", nil, func(ctx context.Context) (string, error) {
		doc, err := t.MainDoc(ctx)
		if err != nil {
			return "", err
		}

		header := strings.TrimSpace(doc.Find("div#info h1 span").First().Text())
		if header == "" {
			header = strings.TrimSpace(doc.Find("h1").First().Text())
		}
		if header == "" {
			return "", fmt.Errorf("%w: no franchise header for team %s", entity.ErrParseFailed, t.id)
		}
		return strings.TrimSuffix(header, " Franchise Index"), nil
	})
}

// BoxScoreIDs lists the boxscore IDs of every game the team played in
// one season, in schedule order.
func (t *Team) BoxScoreIDs(ctx context.Context, year int) ([]string, error) {
	return entity.Call(ctx, t.store, "boxscore_ids", []any{year}, func(ctx context.Context) ([]string, error) {
		doc, err := t.client.document(ctx, fmt.Sprintf("/teams/%s/%d_games.html", t.id, year))
		if err != nil {
			return nil, err
		}
		rows, err := tables.Parse(doc.Find("table#teams_games"))
		if err != nil {
			return nil, err
		}

		var ids []string
		for _, row := range rows {
			if id := row["box_score_text"]; id != "" {
				ids = append(ids, id)
			}
		}
		return ids, nil
	})
}
