package nfl

import (
	"context"
	"fmt"
	"strconv"

	"sportsref/lib/entity"
	"sportsref/lib/tables"
)

// SeasonGame is one schedule entry from a season's games page.
type SeasonGame struct {
	Week       int
	BoxScoreID string
}

// playoff rounds are listed by label instead of week number
var playoffWeeks = map[string]int{
	"WildCard":  18,
	"Division":  19,
	"ConfChamp": 20,
	"SuperBowl": 21,
}

// SeasonBoxScoreIDs lists every game of a season in schedule order, with
// playoff round labels mapped onto week numbers 18-21.
func (c *Client) SeasonBoxScoreIDs(ctx context.Context, year int) ([]SeasonGame, error) {
	return entity.Call(ctx, c.store, "season_boxscore_ids", []any{year}, func(ctx context.Context) ([]SeasonGame, error) {
		doc, err := c.document(ctx, fmt.Sprintf("/years/%d/games.htm", year))
		if err != nil {
			return nil, err
		}
		rows, err := tables.Parse(doc.Find("table#games"))
		if err != nil {
			return nil, err
		}

		var games []SeasonGame
		for _, row := range rows {
			id := row["boxscore_word"]
			if id == "" {
				continue
			}

			weekText := row["week_num"]
			week, ok := playoffWeeks[weekText]
			if !ok {
				week, err = strconv.Atoi(weekText)
				if err != nil {
					return nil, fmt.Errorf("%w: unrecognized week %q", entity.ErrParseFailed, weekText)
				}
			}
			games = append(games, SeasonGame{Week: week, BoxScoreID: id})
		}
		return games, nil
	})
}
