package commands

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seasonCmd)
}

var seasonCmd = &cobra.Command{
	Use:   "season <year>",
	Short: "Prints a season's schedule as boxscore IDs per week.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			Fatal("invalid year", err)
		}

		client := newNFLClient()
		games, err := client.SeasonBoxScoreIDs(cmd.Context(), year)
		if err != nil {
			Fatal("failed to fetch season schedule", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Week", "Box Score"})
		for _, game := range games {
			t.AppendRow(table.Row{game.Week, game.BoxScoreID})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
