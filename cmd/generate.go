package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ben-spiller/FlashTeacher/internal/deckgen"
	"github.com/ben-spiller/FlashTeacher/internal/llm"
	"github.com/ben-spiller/FlashTeacher/internal/source"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a question file with an LLM",
	Long: `Draft a question file for the "file" source with the configured LLM provider.

The provider is chosen with FLASHTEACHER_LLM_PROVIDER (anthropic, openai, gemini
or mock) and its FLASHTEACHER_<PROVIDER>_API_KEY. Every request is logged and can
be inspected with "flashteacher llm".`,
	Example: `  flashteacher generate --topic "European capitals" --count 30 --out capitals.json
  flashteacher generate --topic "Spanish verbs" --append --out verbs.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		out, _ := cmd.Flags().GetString("out")
		instructions, _ := cmd.Flags().GetString("instructions")
		caseSensitive, _ := cmd.Flags().GetBool("case-sensitive")
		appendTo, _ := cmd.Flags().GetBool("append")

		cfg, st, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		req := deckgen.Request{
			Topic:         topic,
			Instructions:  instructions,
			Count:         count,
			CaseSensitive: caseSensitive,
		}
		if appendTo {
			existing, err := readDeck(out)
			if err != nil {
				return err
			}
			if existing != nil {
				req.Existing = existing.Questions
				if !cmd.Flags().Changed("case-sensitive") {
					req.CaseSensitive = existing.CaseSensitive
				}
			}
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LLM.Timeout)
		defer cancel()
		provider, err := llm.NewProvider(ctx, cfg.LLM, st.Events())
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		res, err := deckgen.New(provider, deckgen.DefaultConfig()).Generate(ctx, req)
		if err != nil {
			return err
		}
		if err := writeDeck(out, res.Deck); err != nil {
			return err
		}

		fmt.Printf("Wrote %d questions to %s (%d new, %d rejected, %d requests).\n",
			len(res.Deck.Questions), out, res.Added, len(res.Rejected), res.Requests)
		for _, r := range res.Rejected {
			fmt.Fprintf(os.Stderr, "warning: rejected %q: %s\n", r.Question, r.Reason)
		}
		if res.Added < count {
			fmt.Fprintf(os.Stderr, "warning: only %d of %d requested questions were generated\n", res.Added, count)
		}

		model := provider.ModelID()
		if c, ok := llm.LookupCost(model); ok {
			fmt.Printf("Tokens: %d in / %d out, estimated cost %s (%s)\n",
				res.Usage.InputTokens, res.Usage.OutputTokens,
				formatCost(c.Cost(res.Usage.InputTokens, res.Usage.OutputTokens)), model)
		} else {
			fmt.Printf("Tokens: %d in / %d out (%s)\n", res.Usage.InputTokens, res.Usage.OutputTokens, model)
		}
		return nil
	},
}

// readDeck reads a question file, returning nil if it does not exist.
func readDeck(path string) (*source.DeckFile, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	df, err := source.ReadDeckFile(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return df, nil
}

func writeDeck(path string, df *source.DeckFile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := source.WriteDeckFile(f, df); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func init() {
	generateCmd.Flags().String("topic", "", "What the questions should cover")
	generateCmd.Flags().IntP("count", "n", 20, "Number of new questions to generate")
	generateCmd.Flags().StringP("out", "o", "", "Question file to write")
	generateCmd.Flags().String("instructions", "", "Extra guidance for the model")
	generateCmd.Flags().Bool("case-sensitive", false, "Mark the deck's answers as case-sensitive")
	generateCmd.Flags().Bool("append", false, "Keep the questions already in --out and add new ones")
	_ = generateCmd.MarkFlagRequired("topic")
	_ = generateCmd.MarkFlagRequired("out")
}
