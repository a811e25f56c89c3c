package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ben-spiller/FlashTeacher/internal/app"
	"github.com/ben-spiller/FlashTeacher/internal/screen"
	"github.com/ben-spiller/FlashTeacher/internal/screens/home"
)

// runHome shows the deck picker and drills the chosen deck.
func runHome(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	stored, err := st.Decks().ListDecks(ctx)
	if err != nil {
		return err
	}
	decks := make([]home.Deck, 0, len(stored))
	for _, d := range stored {
		entry := home.Deck{Name: d.Name, Source: d.Source}
		recent, err := st.Sessions().RecentSessions(ctx, d.Name, 5)
		if err != nil {
			return err
		}
		for _, s := range recent {
			if s.EndedAt.Valid {
				entry.LastDrilled = s.StartedAt
				entry.Score = s.PercentKnown
				break
			}
		}
		decks = append(decks, entry)
	}

	o := newSessionOpener(ctx, cfg, st)
	defer o.close()

	byName := make(map[string]int, len(stored))
	for i, d := range stored {
		byName[d.Name] = i
	}
	open := func(name string) (screen.Screen, error) {
		d := stored[byName[name]]
		return o.open(d.Name, d.Source, d.Props)
	}
	return app.Run(home.New(decks, open, nil))
}
