package commands

import (
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(teamsCmd)
}

var teamsCmd = &cobra.Command{
	Use:   "teams <year>",
	Short: "Lists the franchises active in a season.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		year, err := strconv.Atoi(args[0])
		if err != nil {
			Fatal("invalid year", err)
		}

		client := newNFLClient()
		ids, err := client.ListTeams(ctx, year)
		if err != nil {
			Fatal("failed to list teams", err)
		}
		names, err := client.TeamNames(ctx, year)
		if err != nil {
			Fatal("failed to fetch team names", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Name"})
		for _, id := range ids {
			t.AppendRow(table.Row{id, names[id]})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
