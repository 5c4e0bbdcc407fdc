package commands

import (
	"errors"
	"fmt"
	"os"

	"sportsref/lib/entity"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(boxscoreCmd)
}

var boxscoreCmd = &cobra.Command{
	Use:   "boxscore <id>",
	Short: "Prints one game's result, line and conditions.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		client := newNFLClient()
		box, err := client.BoxScore(args[0])
		if err != nil {
			Fatal("failed to resolve boxscore", err)
		}

		home, err := box.Home(ctx)
		if err != nil {
			Fatal("failed to fetch home team", err)
		}
		away, err := box.Away(ctx)
		if err != nil {
			Fatal("failed to fetch away team", err)
		}
		homeScore, err := box.HomeScore(ctx)
		if err != nil {
			Fatal("failed to fetch home score", err)
		}
		awayScore, err := box.AwayScore(ctx)
		if err != nil {
			Fatal("failed to fetch away score", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Field", "Value"})

		date, err := box.Date(ctx)
		if err != nil {
			Fatal("failed to derive date", err)
		}
		t.AppendRow(table.Row{"Date", date.Format("2006-01-02")})
		t.AppendRow(table.Row{"Score", fmt.Sprintf("%s %d - %s %d", away, awayScore, home, homeScore)})

		winner, err := box.Winner(ctx)
		switch {
		case err == nil:
			t.AppendRow(table.Row{"Winner", winner})
		case errors.Is(err, entity.ErrNotAvailable):
			t.AppendRow(table.Row{"Winner", "tie"})
		default:
			Fatal("failed to fetch winner", err)
		}

		if line, err := box.Line(ctx); err == nil {
			t.AppendRow(table.Row{"Line", line})
		}
		if overUnder, err := box.OverUnder(ctx); err == nil {
			t.AppendRow(table.Row{"Over/Under", overUnder})
		}

		weather, err := box.Weather(ctx)
		switch {
		case err != nil:
			Fatal("failed to fetch weather", err)
		case weather.Dome:
			t.AppendRow(table.Row{"Weather", "indoors"})
		default:
			t.AppendRow(table.Row{"Weather", fmt.Sprintf("%d°F, wind %d mph", weather.Temp, weather.WindMPH)})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
