package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset <deck>",
	Short: "Forget a deck and all of its drill history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, st, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		deck := args[0]
		d, err := st.Decks().GetDeck(cmd.Context(), deck)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("deck %q not found", deck)
		}
		if err := st.Decks().DeleteDeck(cmd.Context(), deck); err != nil {
			return err
		}
		fmt.Printf("Deck %q and its history were deleted.\n", deck)
		return nil
	},
}
