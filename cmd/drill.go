package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ben-spiller/FlashTeacher/internal/app"
	"github.com/ben-spiller/FlashTeacher/internal/config"
	"github.com/ben-spiller/FlashTeacher/internal/drill"
	"github.com/ben-spiller/FlashTeacher/internal/question"
	drillscreen "github.com/ben-spiller/FlashTeacher/internal/screens/drill"
	"github.com/ben-spiller/FlashTeacher/internal/source"
	"github.com/ben-spiller/FlashTeacher/internal/store"
)

var drillCmd = &cobra.Command{
	Use:   "drill <deck>",
	Short: "Start a drill session on a deck",
	Long: `Start a drill session on a deck.

The first time a deck is drilled its questions must be given with --questions
(a JSON question file) or --solfege (generated note sequences). Later sessions
reuse the stored source unless a new one is given.`,
	Example: `  flashteacher drill capitals --questions capitals.json
  flashteacher drill solfege --solfege "solfegeValues=do re me fa so,notesPerQuestion=3"
  flashteacher drill capitals`,
	Args: cobra.ExactArgs(1),
	RunE: runDrill,
}

func init() {
	addDrillFlags(drillCmd)
}

func addDrillFlags(c *cobra.Command) {
	c.Flags().String("questions", "", "JSON question file to drill")
	c.Flags().StringToString("solfege", nil, "Solfege source properties, e.g. solfegeValues=do re me,notesPerQuestion=3")
	c.Flags().Bool("case-sensitive", false, "Compare answers case-sensitively (question files only)")
	c.MarkFlagsMutuallyExclusive("questions", "solfege")
}

func runDrill(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	deck := args[0]

	cfg, st, err := setup(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	stored, err := st.Decks().GetDeck(ctx, deck)
	if err != nil {
		return err
	}
	srcName, props, err := deckSource(cmd, deck, stored)
	if err != nil {
		return err
	}

	o := newSessionOpener(ctx, cfg, st)
	defer o.close()
	o.onLoad = printReconciliation

	scr, err := o.open(deck, srcName, props)
	if err != nil {
		return err
	}
	return app.Run(scr)
}

// sessionOpener loads decks and starts drill sessions on them. Sources
// come from one registry that is shut down by close.
type sessionOpener struct {
	ctx      context.Context
	cfg      config.Config
	st       *store.Store
	registry *source.Registry

	// onLoad, if set, sees what happened to the prior history.
	onLoad func(drill.Reconciliation)
}

func newSessionOpener(ctx context.Context, cfg config.Config, st *store.Store) *sessionOpener {
	return &sessionOpener{ctx: ctx, cfg: cfg, st: st, registry: source.Builtin()}
}

func (o *sessionOpener) close() {
	if err := o.registry.ShutdownAll(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}

// open loads deck from the named source, merges its stored history and
// records the deck and a new session.
func (o *sessionOpener) open(deck, srcName string, props map[string]string) (*drillscreen.DrillScreen, error) {
	matcher, err := question.NewMatcher(o.cfg.Match)
	if err != nil {
		return nil, fmt.Errorf("answer matching: %w", err)
	}
	src, err := o.registry.Open(srcName)
	if err != nil {
		return nil, err
	}
	if fs, ok := src.(*source.FileSource); ok {
		fs.Matcher = matcher
	}
	questions, err := src.LoadQuestions(o.ctx, props)
	if err != nil {
		return nil, fmt.Errorf("load deck %q: %w", deck, err)
	}

	prior, err := o.st.Decks().LoadHistory(o.ctx, deck)
	if err != nil {
		return nil, err
	}
	mgr, err := drill.New(questions, prior, drill.Options{
		Config:      &o.cfg.Drill,
		Matcher:     matcher,
		Checker:     src,
		OnPresented: src.OnQuestionPresented,
	})
	if err != nil {
		return nil, fmt.Errorf("load deck %q: %w", deck, err)
	}
	if o.onLoad != nil {
		o.onLoad(mgr.Reconciliation())
	}

	if err := o.st.Decks().SaveDeck(o.ctx, deck, srcName, props); err != nil {
		return nil, err
	}
	sessionID, err := o.st.Sessions().StartSession(o.ctx, deck, mgr.StartTime())
	if err != nil {
		return nil, err
	}

	return drillscreen.New(mgr, drillscreen.Options{
		Deck:      deck,
		SessionID: sessionID,
		Answers:   o.st.Sessions(),
		Finish:    finisher(o.st),
	}), nil
}

// deckSource picks the source for deck from the flags, falling back to
// the one stored with the deck.
func deckSource(cmd *cobra.Command, deck string, stored *store.Deck) (string, map[string]string, error) {
	if path, _ := cmd.Flags().GetString("questions"); path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		props := map[string]string{"path": abs}
		if cmd.Flags().Changed("case-sensitive") {
			cs, _ := cmd.Flags().GetBool("case-sensitive")
			props["caseSensitive"] = strconv.FormatBool(cs)
		}
		return source.FileSourceName, props, nil
	}
	if cmd.Flags().Changed("solfege") {
		props, _ := cmd.Flags().GetStringToString("solfege")
		return source.SolfegeSourceName, props, nil
	}
	if stored == nil || stored.Source == "" {
		return "", nil, fmt.Errorf("deck %q has no questions yet: pass --questions or --solfege", deck)
	}
	return stored.Source, stored.Props, nil
}

func printReconciliation(r drill.Reconciliation) {
	if n := len(r.Removed); n > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d questions with history are no longer in the deck; their history is kept\n", n)
	}
	for _, q := range r.AnswerChanged {
		fmt.Fprintf(os.Stderr, "warning: answer changed for %q; its history was reset\n", q)
	}
	for _, q := range r.DuplicateHistory {
		fmt.Fprintf(os.Stderr, "warning: %q has more than one history record; only the first was used\n", q)
	}
}

// finisher saves the session's history and closes its session record.
func finisher(st *store.Store) drillscreen.Finisher {
	return func(ctx context.Context, o drillscreen.Outcome) error {
		var errs []error
		if o.Snapshot != nil {
			if err := st.Decks().SaveHistory(ctx, o.Deck, o.Snapshot); err != nil {
				errs = append(errs, err)
			}
		}
		res := store.SessionResult{
			EndedAt:           o.Ended,
			QuestionsAnswered: o.QuestionsAnswered,
			Duration:          o.Ended.Sub(o.Started),
			KnowledgeIndex:    o.Scores.KnowledgeIndexScore,
			PercentKnown:      int(math.Round(o.Scores.QuestionSetPercentScore)),
		}
		if err := st.Sessions().EndSession(ctx, o.SessionID, res); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}
}
