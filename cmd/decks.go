package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "List stored decks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		_, st, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		decks, err := st.Decks().ListDecks(ctx)
		if err != nil {
			return err
		}
		if len(decks) == 0 {
			fmt.Println("No decks yet. Start one with: flashteacher drill <deck> --questions file.json")
			return nil
		}

		fmt.Printf("%-20s  %-8s  %-16s  %5s  %s\n", "Deck", "Source", "Updated", "Saves", "Properties")
		fmt.Println(strings.Repeat("─", 80))
		for _, d := range decks {
			n, err := st.Decks().HistoryCount(ctx, d.Name)
			if err != nil {
				return err
			}
			props := make([]string, 0, len(d.Props))
			for _, k := range slices.Sorted(maps.Keys(d.Props)) {
				props = append(props, k+"="+d.Props[k])
			}
			src := d.Source
			if src == "" {
				src = "-"
			}
			fmt.Printf("%-20s  %-8s  %-16s  %5d  %s\n",
				truncate(d.Name, 20), src,
				d.UpdatedAt.Local().Format("2006-01-02 15:04"),
				n, strings.Join(props, ", "))
		}
		return nil
	},
}
