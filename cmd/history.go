package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ben-spiller/FlashTeacher/internal/history"
)

var importCmd = &cobra.Command{
	Use:   "import <deck> <file.questionHistory>",
	Short: "Import a legacy XML question history into a deck",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		deck, path := args[0], args[1]

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		snap, err := history.DecodeXML(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		_, st, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Decks().SaveHistory(cmd.Context(), deck, snap); err != nil {
			return err
		}
		fmt.Printf("Imported %d question histories and %d knowledge samples into %q.\n",
			len(snap.Records), len(snap.KnowledgeIndex), deck)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <deck>",
	Short: "Export a deck's history in the legacy XML format",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deck := args[0]
		out, _ := cmd.Flags().GetString("out")

		_, st, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.Decks().LoadHistory(cmd.Context(), deck)
		if err != nil {
			return err
		}
		if snap == nil {
			return fmt.Errorf("deck %q has no history", deck)
		}

		var w io.Writer = os.Stdout
		if out != "" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}
		if err := history.EncodeXML(w, snap); err != nil {
			return fmt.Errorf("export %q: %w", deck, err)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "File to write (default stdout)")
}
