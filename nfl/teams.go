package nfl

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"sportsref/lib/entity"
	"sportsref/lib/tables"

	"github.com/PuerkitoBio/goquery"
)

var teamIDPattern = regexp.MustCompile(`^[a-z]{2,3}$`)

// Team is one NFL franchise, identified by its sports-reference team ID
// ("nwe", "sea"). Obtain instances through Client.Team so repeated
// lookups share one page cache.
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

// YearDoc is one team-season page, e.g. page "2015" or "2015_roster".
func (t *Team) YearDoc(ctx context.Context, page string) (*goquery.Document, error) {
	return entity.Call(ctx, t.store, "year_doc", []any{page}, func(ctx context.Context) (*goquery.Document, error) {
		return t.client.document(ctx, fmt.Sprintf("/teams/%s/%s.htm", t.id, page))
	})
}

// Name returns the franchise's full name, e.g. "New England Patriots".
func (t *Team) Name(ctx context.Context) (string, error) {
	return entity.Call(ctx, t.store, "name", nil, func(ctx context.Context) (string, error) {
		doc, err := t.MainDoc(ctx)
		if err != nil {
			return "", err
		}

		header := doc.Find("div#meta h1").First().Text()
		words := strings.Fields(header)
		for i, word := range words {
			if word == "Franchise" {
				return strings.Join(words[:i], " "), nil
			}
		}
		return "", fmt.Errorf("%w: no franchise header for team %s", entity.ErrParseFailed, t.id)
	})
}

var rosterRenames = map[string]string{
	"pos":            "position",
	"uniform_number": "uniformNumber",
	"g":              "gamesPlayed",
	"gs":             "gamesStarted",
	"birth_date_mod": "birthDate",
	"av":             "pfrApproxValue",
	"college_id":     "college",
	"draft_info":     "draftInfo",
}

// Roster returns the roster table rows for one season.
func (t *Team) Roster(ctx context.Context, year int) ([]tables.Row, error) {
	return entity.Call(ctx, t.store, "roster", []any{year}, func(ctx context.Context) ([]tables.Row, error) {
		doc, err := t.YearDoc(ctx, fmt.Sprintf("%d_roster", year))
		if err != nil {
			return nil, err
		}
		rows, err := tables.Parse(doc.Find("table#games_played_team"))
		if err != nil {
			return nil, err
		}

		for _, row := range rows {
			for from, to := range rosterRenames {
				if v, ok := row[from]; ok {
					row[to] = v
					delete(row, from)
				}
			}
			row["season"] = strconv.Itoa(year)
			row["team"] = t.id
		}
		return rows, nil
	})
}

// BoxScores lists the boxscore IDs of every game the team played in one
// season, including playoffs.
func (t *Team) BoxScores(ctx context.Context, year int) ([]string, error) {
	return entity.Call(ctx, t.store, "boxscores", []any{year}, func(ctx context.Context) ([]string, error) {
		doc, err := t.YearDoc(ctx, strconv.Itoa(year))
		if err != nil {
			return nil, err
		}
		rows, err := tables.Parse(doc.Find("table#games"))
		if err != nil {
			return nil, err
		}

		var ids []string
		for _, row := range rows {
			if id := row["boxscore_word"]; id != "" {
				ids = append(ids, id)
			}
		}
		return ids, nil
	})
}

var coachTenurePattern = regexp.MustCompile(`(\S+?) \((\d+)-(\d+)-(\d+)\)`)

// HeadCoachesByGame returns one coach ID per game of the season, in game
// order. Teams that changed coaches mid-season produce a mixed list.
func (t *Team) HeadCoachesByGame(ctx context.Context, year int) ([]string, error) {
	return entity.Call(ctx, t.store, "head_coaches_by_game", []any{year}, func(ctx context.Context) ([]string, error) {
		doc, err := t.YearDoc(ctx, strconv.Itoa(year))
		if err != nil {
			return nil, err
		}

		blurb := metaParagraph(doc, "Coach:")
		if blurb == nil {
			return nil, fmt.Errorf("%w: no coach line for %s %d", entity.ErrParseFailed, t.id, year)
		}
		flattened := tables.FlattenLinks(blurb)

		// the meta line lists coaches most-recent-first; games are
		// reported oldest-first
		var coachIDs []string
		for _, m := range coachTenurePattern.FindAllStringSubmatch(flattened, -1) {
			wins, _ := strconv.Atoi(m[2])
			losses, _ := strconv.Atoi(m[3])
			ties, _ := strconv.Atoi(m[4])
			tenure := wins + losses + ties
			for i := 0; i < tenure; i++ {
				coachIDs = append(coachIDs, m[1])
			}
		}
		for i, j := 0, len(coachIDs)-1; i < j; i, j = i+1, j-1 {
			coachIDs[i], coachIDs[j] = coachIDs[j], coachIDs[i]
		}
		return coachIDs, nil
	})
}

var srsPattern = regexp.MustCompile(`SRS\s*?:\s*?(\S+)`)
var sosPattern = regexp.MustCompile(`SOS\s*?:\s*?(\S+)`)

// SRS is the team's Simple Rating System score for a season.
// ErrNotAvailable when the season page does not report one.
func (t *Team) SRS(ctx context.Context, year int) (float64, error) {
	return t.metaRating(ctx, "srs", year, srsPattern)
}

// SOS is the team's Strength of Schedule for a season. ErrNotAvailable
// when the season page does not report one.
func (t *Team) SOS(ctx context.Context, year int) (float64, error) {
	return t.metaRating(ctx, "sos", year, sosPattern)
}

func (t *Team) metaRating(ctx context.Context, op string, year int, pattern *regexp.Regexp) (float64, error) {
	return entity.Call(ctx, t.store, op, []any{year}, func(ctx context.Context) (float64, error) {
		doc, err := t.YearDoc(ctx, strconv.Itoa(year))
		if err != nil {
			return 0, err
		}

		blurb := metaParagraph(doc, strings.ToUpper(op))
		if blurb == nil {
			return 0, fmt.Errorf("%w: no %s for %s %d", entity.ErrNotAvailable, op, t.id, year)
		}
		m := pattern.FindStringSubmatch(blurb.Text())
		if m == nil {
			return 0, fmt.Errorf("%w: no %s for %s %d", entity.ErrNotAvailable, op, t.id, year)
		}
		// "SRS: 5.32, SOS: -1.37" leaves a trailing comma on the capture
		return strconv.ParseFloat(strings.TrimRight(m[1], ","), 64)
	})
}

// Stadium returns the stadium ID the team played in for a season.
func (t *Team) Stadium(ctx context.Context, year int) (string, error) {
	return entity.Call(ctx, t.store, "stadium", []any{year}, func(ctx context.Context) (string, error) {
		doc, err := t.YearDoc(ctx, strconv.Itoa(year))
		if err != nil {
			return "", err
		}

		blurb := metaParagraph(doc, "Stadium")
		if blurb == nil {
			return "", fmt.Errorf("%w: no stadium line for %s %d", entity.ErrParseFailed, t.id, year)
		}
		href := blurb.Find("a").First().AttrOr("href", "")
		id := tables.RelURLToID(href)
		if id == "" {
			return "", fmt.Errorf("%w: unrecognized stadium link %q", entity.ErrParseFailed, href)
		}
		return id, nil
	})
}

// TeamStats returns the "Team Stats" summary row from the team-season
// stats table.
func (t *Team) TeamStats(ctx context.Context, year int) (tables.Row, error) {
	return t.statsSummaryRow(ctx, "team_stats", year, "Team Stats")
}

// OppStats returns the "Opp. Stats" summary row from the team-season
// stats table.
func (t *Team) OppStats(ctx context.Context, year int) (tables.Row, error) {
	return t.statsSummaryRow(ctx, "opp_stats", year, "Opp. Stats")
}

func (t *Team) statsSummaryRow(ctx context.Context, op string, year int, label string) (tables.Row, error) {
	return entity.Call(ctx, t.store, op, []any{year}, func(ctx context.Context) (tables.Row, error) {
		doc, err := t.YearDoc(ctx, strconv.Itoa(year))
		if err != nil {
			return nil, err
		}
		rows, err := tables.Parse(doc.Find("table#team_stats"))
		if err != nil {
			return nil, err
		}

		for _, row := range rows {
			if row["player_id"] == label {
				return row, nil
			}
		}
		return nil, fmt.Errorf("%w: no %q row for %s %d", entity.ErrParseFailed, label, t.id, year)
	})
}

// Passing returns the team-season passing table.
func (t *Team) Passing(ctx context.Context, year int) ([]tables.Row, error) {
	return t.seasonTable(ctx, "passing", year, "table#passing")
}

// RushingAndReceiving returns the team-season rushing and receiving
// table.
func (t *Team) RushingAndReceiving(ctx context.Context, year int) ([]tables.Row, error) {
	return t.seasonTable(ctx, "rushing_and_receiving", year, "table#rushing_and_receiving")
}

func (t *Team) seasonTable(ctx context.Context, op string, year int, selector string) ([]tables.Row, error) {
	return entity.Call(ctx, t.store, op, []any{year}, func(ctx context.Context) ([]tables.Row, error) {
		doc, err := t.YearDoc(ctx, strconv.Itoa(year))
		if err != nil {
			return nil, err
		}
		return tables.Parse(doc.Find(selector))
	})
}

// InjuryStatus is one player's listed status for one week of a season.
type InjuryStatus struct {
	PlayerID string
	Week     int
	Status   string
	// DidNotPlay is set when the report cell is marked dnp, which can
	// happen independently of the listed status.
	DidNotPlay bool
}

var injuryStatusNames = map[string]string{
	"P":   "Probable",
	"Q":   "Questionable",
	"D":   "Doubtful",
	"O":   "Out",
	"PUP": "Physically Unable to Perform",
	"IR":  "Injured Reserve",
}

// InjuryStatuses returns every week a player appeared on the team's
// injury report for a season. Weeks where a listed player carries
// neither a status nor a dnp mark are omitted.
func (t *Team) InjuryStatuses(ctx context.Context, year int) ([]InjuryStatus, error) {
	return entity.Call(ctx, t.store, "injury_statuses", []any{year}, func(ctx context.Context) ([]InjuryStatus, error) {
		doc, err := t.YearDoc(ctx, fmt.Sprintf("%d_injuries", year))
		if err != nil {
			return nil, err
		}
		table := doc.Find("table#team_injuries")
		if table.Length() == 0 {
			return nil, fmt.Errorf("%w: no injury report for %s %d", entity.ErrParseFailed, t.id, year)
		}

		var statuses []InjuryStatus
		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			if tr.HasClass("thead") {
				return
			}
			anchor := tr.Find("th[data-stat=player] a").First()
			if anchor.Length() == 0 {
				return
			}
			playerID := tables.RelURLToID(anchor.AttrOr("href", ""))
			if playerID == "" {
				return
			}

			tr.Find("td").Each(func(_ int, td *goquery.Selection) {
				stat := td.AttrOr("data-stat", "")
				if !strings.HasPrefix(stat, "week_") {
					return
				}
				week, err := strconv.Atoi(strings.TrimPrefix(stat, "week_"))
				if err != nil {
					return
				}

				abbr := strings.TrimSpace(td.Text())
				didNotPlay := td.HasClass("dnp")
				if abbr == "" && !didNotPlay {
					return
				}
				status, ok := injuryStatusNames[abbr]
				switch {
				case ok:
				case abbr == "":
					status = "None"
				default:
					status = abbr
				}
				statuses = append(statuses, InjuryStatus{
					PlayerID:   playerID,
					Week:       week,
					Status:     status,
					DidNotPlay: didNotPlay,
				})
			})
		})
		return statuses, nil
	})
}

// metaParagraph finds the first paragraph in the page's meta box whose
// text mentions marker.
func metaParagraph(doc *goquery.Document, marker string) *goquery.Selection {
	var found *goquery.Selection
	doc.Find("div#meta p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if strings.Contains(p.Text(), marker) {
			found = p
			return false
		}
		return true
	})
	return found
}
