package commands

import (
	"errors"
	"log/slog"
	"os"
	"strconv"

	"sportsref/lib/entity"
	"sportsref/nfl"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var teamRosterFlag *bool

func init() {
	teamRosterFlag = teamCmd.Flags().Bool("roster", false, "Also print the season roster.")
	rootCmd.AddCommand(teamCmd)
}

var teamCmd = &cobra.Command{
	Use:   "team <id> <year> [--roster]",
	Short: "Prints a team's season summary.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		year, err := strconv.Atoi(args[1])
		if err != nil {
			Fatal("invalid year", err)
		}

		client := newNFLClient()
		team, err := client.Team(args[0])
		if err != nil {
			Fatal("failed to resolve team", err)
		}

		name, err := team.Name(ctx)
		if err != nil {
			Fatal("failed to fetch team name", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Field", "Value"})
		t.AppendRow(table.Row{"Name", name})

		srs, err := team.SRS(ctx, year)
		switch {
		case err == nil:
			t.AppendRow(table.Row{"SRS", srs})
		case errors.Is(err, entity.ErrNotAvailable):
			t.AppendRow(table.Row{"SRS", "n/a"})
		default:
			Fatal("failed to fetch SRS", err)
		}

		sos, err := team.SOS(ctx, year)
		switch {
		case err == nil:
			t.AppendRow(table.Row{"SOS", sos})
		case errors.Is(err, entity.ErrNotAvailable):
			t.AppendRow(table.Row{"SOS", "n/a"})
		default:
			Fatal("failed to fetch SOS", err)
		}

		if stadium, err := team.Stadium(ctx, year); err == nil {
			t.AppendRow(table.Row{"Stadium", stadium})
		}

		boxes, err := team.BoxScores(ctx, year)
		if err != nil {
			Fatal("failed to fetch schedule", err)
		}
		t.AppendRow(table.Row{"Games", len(boxes)})

		t.SetStyle(table.StyleRounded)
		t.Render()

		if *teamRosterFlag {
			renderRoster(cmd, team, year)
		}
	},
}

func renderRoster(cmd *cobra.Command, team *nfl.Team, year int) {
	roster, err := team.Roster(cmd.Context(), year)
	if err != nil {
		Fatal("failed to fetch roster", err)
	}
	slog.Info("fetched roster", "players", len(roster))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Player", "Position", "Games"})
	for _, row := range roster {
		t.AppendRow(table.Row{row["player"], row["position"], row["gamesPlayed"]})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
