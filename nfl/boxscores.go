package nfl

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sportsref/lib/entity"
	"sportsref/lib/tables"

	"github.com/PuerkitoBio/goquery"
)

// boxscore IDs look like 201509100nwe: date, a zero, home team
var boxScoreIDPattern = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})0[a-z]{2,3}$`)

// BoxScore is one played game, identified by its sports-reference
// boxscore ID. Obtain instances through Client.BoxScore.
type BoxScore struct {
	id     string
	client *Client
	store  *entity.Store
}

func (b *BoxScore) Kind() string { return KindBoxScore }
func (b *BoxScore) Key() string  { return b.id }

func (b *BoxScore) String() string { return fmt.Sprintf("BoxScore(%s)", b.id) }

func (c *Client) BoxScore(id string) (*BoxScore, error) {
	return entity.GetOrCreate(c.registry, KindBoxScore, id, func(key string) (*BoxScore, error) {
		if !boxScoreIDPattern.MatchString(key) {
			return nil, fmt.Errorf("%w: boxscore id %q", entity.ErrInvalidKey, key)
		}
		return &BoxScore{id: key, client: c, store: entity.NewStore()}, nil
	})
}

// Doc is the boxscore page, fetched at most once.
func (b *BoxScore) Doc(ctx context.Context) (*goquery.Document, error) {
	return entity.Call(ctx, b.store, "doc", nil, func(ctx context.Context) (*goquery.Document, error) {
		return b.client.document(ctx, fmt.Sprintf("/boxscores/%s.htm", b.id))
	})
}

// Date is the calendar date of the game, derived from the boxscore ID.
func (b *BoxScore) Date(ctx context.Context) (time.Time, error) {
	return entity.Call(ctx, b.store, "date", nil, func(ctx context.Context) (time.Time, error) {
		m := boxScoreIDPattern.FindStringSubmatch(b.id)
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
	})
}

// Weekday names the day of the week the game was played on.
func (b *BoxScore) Weekday(ctx context.Context) (string, error) {
	date, err := b.Date(ctx)
	if err != nil {
		return "", err
	}
	return date.Weekday().String(), nil
}

// Season is the season year the game belongs to: January through March
// games count toward the previous year's season.
func (b *BoxScore) Season(ctx context.Context) (int, error) {
	date, err := b.Date(ctx)
	if err != nil {
		return 0, err
	}
	if date.Month() <= time.March {
		return date.Year() - 1, nil
	}
	return date.Year(), nil
}

// Week is the schedule week, 1-17 regular season, 18 wild card, 19
// divisional, 20 conference championship, 21 Super Bowl.
func (b *BoxScore) Week(ctx context.Context) (int, error) {
	return entity.Call(ctx, b.store, "week", nil, func(ctx context.Context) (int, error) {
		season, err := b.Season(ctx)
		if err != nil {
			return 0, err
		}
		doc, err := b.Doc(ctx)
		if err != nil {
			return 0, err
		}

		href := doc.Find("div#div_other_scores h2 a").First().AttrOr("href", "")
		weekPattern := regexp.MustCompile(fmt.Sprintf(`/years/%d/week_(\d+)\.htm`, season))
		if m := weekPattern.FindStringSubmatch(href); m != nil {
			return strconv.Atoi(m[1])
		}
		// the super bowl page has no week link
		return 21, nil
	})
}

// Home returns the home team's ID.
func (b *BoxScore) Home(ctx context.Context) (string, error) {
	return b.linescoreTeam(ctx, "home", 2)
}

// Away returns the away team's ID.
func (b *BoxScore) Away(ctx context.Context) (string, error) {
	return b.linescoreTeam(ctx, "away", 1)
}

// the linescore table has a header row, then away on row 1, home on row 2
func (b *BoxScore) linescoreTeam(ctx context.Context, op string, rowIdx int) (string, error) {
	return entity.Call(ctx, b.store, op, nil, func(ctx context.Context) (string, error) {
		doc, err := b.Doc(ctx)
		if err != nil {
			return "", err
		}

		row := doc.Find("table.linescore tr").Eq(rowIdx)
		if row.Length() == 0 {
			return "", fmt.Errorf("%w: no linescore row for %s", entity.ErrParseFailed, op)
		}

		var id string
		row.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if candidate := tables.RelURLToID(a.AttrOr("href", "")); candidate != "" {
				id = candidate
				return false
			}
			return true
		})
		if id == "" {
			return "", fmt.Errorf("%w: no team link in linescore row", entity.ErrParseFailed)
		}
		return id, nil
	})
}

// HomeScore returns the home team's final score.
func (b *BoxScore) HomeScore(ctx context.Context) (int, error) {
	return b.linescoreScore(ctx, "home_score", 2)
}

// AwayScore returns the away team's final score.
func (b *BoxScore) AwayScore(ctx context.Context) (int, error) {
	return b.linescoreScore(ctx, "away_score", 1)
}

func (b *BoxScore) linescoreScore(ctx context.Context, op string, rowIdx int) (int, error) {
	return entity.Call(ctx, b.store, op, nil, func(ctx context.Context) (int, error) {
		doc, err := b.Doc(ctx)
		if err != nil {
			return 0, err
		}

		cells := doc.Find("table.linescore tr").Eq(rowIdx).Find("td")
		if cells.Length() == 0 {
			return 0, fmt.Errorf("%w: no linescore cells for %s", entity.ErrParseFailed, op)
		}
		final := strings.TrimSpace(cells.Last().Text())
		score, err := strconv.Atoi(final)
		if err != nil {
			return 0, fmt.Errorf("%w: final score %q is not a number", entity.ErrParseFailed, final)
		}
		return score, nil
	})
}

// Winner returns the winning team's ID. Ties are ErrNotAvailable, a
// cached outcome rather than a failure.
func (b *BoxScore) Winner(ctx context.Context) (string, error) {
	return entity.Call(ctx, b.store, "winner", nil, func(ctx context.Context) (string, error) {
		homeScore, err := b.HomeScore(ctx)
		if err != nil {
			return "", err
		}
		awayScore, err := b.AwayScore(ctx)
		if err != nil {
			return "", err
		}
		switch {
		case homeScore > awayScore:
			return b.Home(ctx)
		case homeScore < awayScore:
			return b.Away(ctx)
		default:
			return "", fmt.Errorf("%w: %s ended in a tie", entity.ErrNotAvailable, b.id)
		}
	})
}

// Starter is one row of the home or away starters table.
type Starter struct {
	PlayerID   string
	PlayerName string
	Position   string
	Team       string
	Home       bool
	Offense    bool
}

// Starters lists both teams' starting lineups, away first. The first
// eleven rows of each table are the offensive starters.
func (b *BoxScore) Starters(ctx context.Context) ([]Starter, error) {
	return entity.Call(ctx, b.store, "starters", nil, func(ctx context.Context) ([]Starter, error) {
		doc, err := b.Doc(ctx)
		if err != nil {
			return nil, err
		}

		var starters []Starter
		for _, side := range []struct {
			selector string
			home     bool
		}{
			{"table#vis_starters", false},
			{"table#home_starters", true},
		} {
			team, err := b.Away(ctx)
			if side.home {
				team, err = b.Home(ctx)
			}
			if err != nil {
				return nil, err
			}

			doc.Find(side.selector + " tbody tr").Each(func(i int, tr *goquery.Selection) {
				anchor := tr.Find("a").First()
				if anchor.Length() == 0 {
					// rare blank rows in old starters tables
					return
				}
				starters = append(starters, Starter{
					PlayerID:   tables.RelURLToID(anchor.AttrOr("href", "")),
					PlayerName: strings.TrimSpace(tr.Find("th").Text()),
					Position:   strings.TrimSpace(tr.Find("td").Text()),
					Team:       team,
					Home:       side.home,
					Offense:    i <= 10,
				})
			})
		}
		return starters, nil
	})
}

// GameInfo returns the parsed "Game Info" table: vegas_line, roof,
// surface, weather and friends.
func (b *BoxScore) GameInfo(ctx context.Context) (map[string]string, error) {
	return entity.Call(ctx, b.store, "game_info", nil, func(ctx context.Context) (map[string]string, error) {
		doc, err := b.Doc(ctx)
		if err != nil {
			return nil, err
		}
		return tables.ParseInfo(doc.Find("table#game_info"))
	})
}

var vegasLinePattern = regexp.MustCompile(`(.+?) ([\-.\d]+)$`)

// Line returns the vegas line in home-team terms: negative means the
// home team was favored. Pick'em games return 0.
func (b *BoxScore) Line(ctx context.Context) (float64, error) {
	return entity.Call(ctx, b.store, "line", nil, func(ctx context.Context) (float64, error) {
		info, err := b.GameInfo(ctx)
		if err != nil {
			return 0, err
		}
		lineText, ok := info["vegas_line"]
		if !ok {
			return 0, fmt.Errorf("%w: no vegas line for %s", entity.ErrNotAvailable, b.id)
		}

		m := vegasLinePattern.FindStringSubmatch(lineText)
		if m == nil {
			// "Pick" means no favorite
			return 0, nil
		}
		line, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: vegas line %q", entity.ErrParseFailed, lineText)
		}

		season, err := b.Season(ctx)
		if err != nil {
			return 0, err
		}
		home, err := b.Home(ctx)
		if err != nil {
			return 0, err
		}
		names, err := b.client.TeamNames(ctx, season)
		if err != nil {
			return 0, err
		}
		if m[1] != names[home] {
			line = -line
		}
		return line, nil
	})
}

// Surface names the playing surface. ErrNotAvailable when the game info
// table omits it.
func (b *BoxScore) Surface(ctx context.Context) (string, error) {
	return b.gameInfoField(ctx, "surface")
}

// Roof describes the stadium roof. ErrNotAvailable when the game info
// table omits it.
func (b *BoxScore) Roof(ctx context.Context) (string, error) {
	return b.gameInfoField(ctx, "roof")
}

func (b *BoxScore) gameInfoField(ctx context.Context, field string) (string, error) {
	return entity.Call(ctx, b.store, field, nil, func(ctx context.Context) (string, error) {
		info, err := b.GameInfo(ctx)
		if err != nil {
			return "", err
		}
		value, ok := info[field]
		if !ok {
			return "", fmt.Errorf("%w: no %s for %s", entity.ErrNotAvailable, field, b.id)
		}
		return value, nil
	})
}

// OverUnder returns the total points line. ErrNotAvailable (cached) when
// the book published none.
func (b *BoxScore) OverUnder(ctx context.Context) (float64, error) {
	return entity.Call(ctx, b.store, "over_under", nil, func(ctx context.Context) (float64, error) {
		info, err := b.GameInfo(ctx)
		if err != nil {
			return 0, err
		}
		ou, ok := info["over_under"]
		if !ok {
			return 0, fmt.Errorf("%w: no over/under for %s", entity.ErrNotAvailable, b.id)
		}
		fields := strings.Fields(ou)
		if len(fields) == 0 {
			return 0, fmt.Errorf("%w: empty over/under for %s", entity.ErrNotAvailable, b.id)
		}
		total, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: over/under %q", entity.ErrParseFailed, ou)
		}
		return total, nil
	})
}

// Weather reports the conditions the game was played in.
type Weather struct {
	Temp        int
	WindChill   int
	RelHumidity int
	WindMPH     int
	// Dome is set when the page reports no weather, i.e. an indoor
	// game; the remaining fields hold indoor defaults.
	Dome bool
}

var weatherPattern = regexp.MustCompile(
	`(?:(?P<temp>\-?\d+) degrees,? )?` +
		`(?:relative humidity (?P<relHumidity>\d+)%, )?` +
		`(?:wind (?P<windMPH>\d+) mph, )?` +
		`(?:wind chill (?P<windChill>\-?\d+))?`,
)

// Weather parses the game-info weather line. Games with no weather line
// were played indoors and return the dome defaults, which cache like any
// other result.
func (b *BoxScore) Weather(ctx context.Context) (Weather, error) {
	return entity.Call(ctx, b.store, "weather", nil, func(ctx context.Context) (Weather, error) {
		info, err := b.GameInfo(ctx)
		if err != nil {
			return Weather{}, err
		}
		line, ok := info["weather"]
		if !ok {
			return Weather{Temp: 70, WindChill: 70, RelHumidity: -1, WindMPH: 0, Dome: true}, nil
		}

		m := weatherPattern.FindStringSubmatch(line)
		w := Weather{Temp: -1, WindChill: -1, RelHumidity: -1, WindMPH: -1}
		for i, name := range weatherPattern.SubexpNames() {
			if name == "" || i >= len(m) || m[i] == "" {
				continue
			}
			value, err := strconv.Atoi(m[i])
			if err != nil {
				continue
			}
			switch name {
			case "temp":
				w.Temp = value
			case "relHumidity":
				w.RelHumidity = value
			case "windMPH":
				w.WindMPH = value
			case "windChill":
				w.WindChill = value
			}
		}
		if w.WindChill == -1 {
			w.WindChill = w.Temp
		}
		if w.WindMPH == -1 {
			w.WindMPH = 0
		}
		return w, nil
	})
}

// RefInfo maps officiating positions to referee IDs.
func (b *BoxScore) RefInfo(ctx context.Context) (map[string]string, error) {
	return entity.Call(ctx, b.store, "ref_info", nil, func(ctx context.Context) (map[string]string, error) {
		doc, err := b.Doc(ctx)
		if err != nil {
			return nil, err
		}
		return tables.ParseInfo(doc.Find("table#officials"))
	})
}

// compound lines on the boxscore team stats table, split into one key
// per number: "Rush-Yds-TDs" "30-152-1" becomes rushAtt/rushYds/rushTds
var compoundStatSplits = map[string][]string{
	"Rush-Yds-TDs":      {"rushAtt", "rushYds", "rushTds"},
	"Cmp-Att-Yd-TD-INT": {"passCmp", "passAtt", "passYds", "passTds", "passInt"},
	"Sacked-Yards":      {"sacks", "sackYds"},
	"Fumbles-Lost":      {"fumbles", "fumblesLost"},
	"Penalties-Yards":   {"penalties", "penaltyYds"},
	"Third Down Conv.":  {"thirdDownConv", "thirdDownAtt"},
	"Fourth Down Conv.": {"fourthDownConv", "fourthDownAtt"},
}

func statKey(label string) string {
	label = strings.ToLower(strings.TrimSuffix(label, "."))
	return strings.ReplaceAll(label, " ", "_")
}

// TeamStatsSummary returns the boxscore-page team stats as one row per
// side, away first. Compound cells are split per compoundStatSplits;
// plain lines keep a snake-case form of their label ("First Downs"
// becomes "first_downs").
func (b *BoxScore) TeamStatsSummary(ctx context.Context) ([]tables.Row, error) {
	return entity.Call(ctx, b.store, "team_stats_summary", nil, func(ctx context.Context) ([]tables.Row, error) {
		doc, err := b.Doc(ctx)
		if err != nil {
			return nil, err
		}
		lines, err := tables.Parse(doc.Find("table#team_stats"))
		if err != nil {
			return nil, err
		}
		away, err := b.Away(ctx)
		if err != nil {
			return nil, err
		}
		home, err := b.Home(ctx)
		if err != nil {
			return nil, err
		}

		rows := []tables.Row{
			{"team": away, "home": "false"},
			{"team": home, "home": "true"},
		}
		for _, line := range lines {
			label := line["stat"]
			values := [2]string{line["vis_stat"], line["home_stat"]}
			for i, row := range rows {
				names, compound := compoundStatSplits[label]
				if !compound {
					row[statKey(label)] = values[i]
					continue
				}
				parts := strings.Split(values[i], "-")
				for j, name := range names {
					if j < len(parts) {
						row[name] = parts[j]
					}
				}
			}
		}
		return rows, nil
	})
}

var snapCountRenames = map[string]string{
	"pos":           "position",
	"offense":       "offSnaps",
	"off_pct":       "offSnapsPct",
	"defense":       "defSnaps",
	"def_pct":       "defSnapsPct",
	"special_teams": "stSnaps",
	"st_pct":        "stSnapsPct",
}

// SnapCounts returns both teams' per-player snap counts, home first.
// Snap counts were only published from 2012 on; earlier games are
// ErrNotAvailable, a cached outcome.
func (b *BoxScore) SnapCounts(ctx context.Context) ([]tables.Row, error) {
	return entity.Call(ctx, b.store, "snap_counts", nil, func(ctx context.Context) ([]tables.Row, error) {
		doc, err := b.Doc(ctx)
		if err != nil {
			return nil, err
		}

		var all []tables.Row
		for _, side := range []struct {
			selector string
			home     bool
		}{
			{"table#home_snap_counts", true},
			{"table#vis_snap_counts", false},
		} {
			team, err := b.Away(ctx)
			if side.home {
				team, err = b.Home(ctx)
			}
			if err != nil {
				return nil, err
			}

			rows, err := tables.Parse(doc.Find(side.selector))
			if err != nil {
				continue
			}
			for _, row := range rows {
				for from, to := range snapCountRenames {
					if v, ok := row[from]; ok {
						row[to] = v
						delete(row, from)
					}
				}
				row["team"] = team
				all = append(all, row)
			}
		}
		if len(all) == 0 {
			return nil, fmt.Errorf("%w: no snap count tables for %s", entity.ErrNotAvailable, b.id)
		}
		return all, nil
	})
}

// PassDirections returns the per-player receiving stats broken down by
// pass direction, with short and deep totals summed across left, middle
// and right. Games before the direction splits existed are
// ErrNotAvailable, a cached outcome.
func (b *BoxScore) PassDirections(ctx context.Context) ([]tables.Row, error) {
	return entity.Call(ctx, b.store, "pass_directions", nil, func(ctx context.Context) ([]tables.Row, error) {
		doc, err := b.Doc(ctx)
		if err != nil {
			return nil, err
		}
		rows, err := tables.Parse(doc.Find("table#targets_directions"))
		if err != nil {
			return nil, fmt.Errorf("%w: no pass direction table for %s", entity.ErrNotAvailable, b.id)
		}

		for _, row := range rows {
			if team, ok := row["team"]; ok {
				row["team"] = strings.ToLower(team)
			}
			row["rec_targets_s"] = sumCells(row, "rec_targets_sl", "rec_targets_sm", "rec_targets_sr")
			row["rec_targets_d"] = sumCells(row, "rec_targets_dl", "rec_targets_dm", "rec_targets_dr")
			row["rec_catches_s"] = sumCells(row, "rec_catches_sl", "rec_catches_sm", "rec_catches_sr")
			row["rec_catches_d"] = sumCells(row, "rec_catches_dl", "rec_catches_dm", "rec_catches_dr")
		}
		return rows, nil
	})
}

// blank direction cells count as zero
func sumCells(row tables.Row, keys ...string) string {
	total := 0
	for _, key := range keys {
		if n, err := strconv.Atoi(row[key]); err == nil {
			total += n
		}
	}
	return strconv.Itoa(total)
}

var playerStatTables = []string{"player_offense", "player_defense", "returns", "kicking"}

// PlayerStats concatenates the individual offense, defense, return and
// kicking stat tables into one row list.
func (b *BoxScore) PlayerStats(ctx context.Context) ([]tables.Row, error) {
	return entity.Call(ctx, b.store, "player_stats", nil, func(ctx context.Context) ([]tables.Row, error) {
		doc, err := b.Doc(ctx)
		if err != nil {
			return nil, err
		}

		var all []tables.Row
		for _, tableID := range playerStatTables {
			rows, err := tables.Parse(doc.Find("table#" + tableID))
			if err != nil {
				// not every game has every table
				continue
			}
			for _, row := range rows {
				if team, ok := row["team"]; ok {
					row["team"] = strings.ToLower(team)
				}
				all = append(all, row)
			}
		}
		if len(all) == 0 {
			return nil, fmt.Errorf("%w: no player stat tables for %s", entity.ErrParseFailed, b.id)
		}
		return all, nil
	})
}
