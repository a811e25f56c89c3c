package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ben-spiller/FlashTeacher/internal/drill"
	"github.com/ben-spiller/FlashTeacher/internal/knowledge"
	"github.com/ben-spiller/FlashTeacher/internal/screens/summary"
)

var statsCmd = &cobra.Command{
	Use:   "stats <deck>",
	Short: "Show drill statistics for a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deck := args[0]
		worst, _ := cmd.Flags().GetInt("worst")
		sessions, _ := cmd.Flags().GetInt("sessions")
		days, _ := cmd.Flags().GetInt("days")

		_, st, err := setup(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.Decks().LoadHistory(ctx, deck)
		if err != nil {
			return err
		}
		if snap == nil {
			fmt.Printf("No drill history for %q yet.\n", deck)
			return nil
		}
		review := drill.ReviewSnapshot(snap)
		sep := strings.Repeat("─", 72)

		fmt.Printf("Deck: %s\n\n", deck)
		fmt.Println("Scores after the last session")
		fmt.Println(sep)
		for _, d := range summary.Details(review.Scores, drill.QuestionSetScores{}) {
			fmt.Printf("%-28s  %s\n", d.Label, d.Value)
		}
		if n := len(review.Removed); n > 0 {
			fmt.Printf("%-28s  %d\n", "Retired questions", n)
		}

		printKnowledge(review.Knowledge, days, sep)

		if worst > 0 && len(review.Histories) > 0 {
			fmt.Println()
			fmt.Printf("Weakest %d questions\n", worst)
			fmt.Println(sep)
			fmt.Printf("%-30s  %5s  %7s  %5s  %s\n", "Question", "Score", "Avg", "Wrong", "Last wrong answer")
			for _, h := range summary.Hardest(review.Histories, worst) {
				fmt.Printf("%-30s  %4d%%  %6.1fs  %5d  %s\n",
					truncate(h.Question.Text(), 30),
					drill.ScoreOf(h),
					h.AverageTimeToAnswer.Seconds(),
					h.TotalWrongAnswers,
					h.LastWrongAnswer,
				)
			}
		}

		recent, err := st.Sessions().RecentSessions(ctx, deck, sessions)
		if err != nil {
			return err
		}
		if len(recent) > 0 {
			fmt.Println()
			fmt.Println("Recent sessions")
			fmt.Println(sep)
			fmt.Printf("%-16s  %8s  %8s  %9s  %6s\n", "Started", "Answered", "Length", "Knowledge", "Known")
			for _, s := range recent {
				if !s.EndedAt.Valid {
					fmt.Printf("%-16s  %8s\n", s.StartedAt.Local().Format("2006-01-02 15:04"), "(open)")
					continue
				}
				fmt.Printf("%-16s  %8d  %8s  %9.1f  %5d%%\n",
					s.StartedAt.Local().Format("2006-01-02 15:04"),
					s.QuestionsAnswered,
					summary.FormatDuration(s.Duration()),
					s.KnowledgeIndex,
					s.PercentKnown,
				)
			}
		}

		missed, err := st.Sessions().MostMissed(ctx, deck, worst)
		if err != nil {
			return err
		}
		if len(missed) > 0 {
			fmt.Println()
			fmt.Println("Most missed on the first attempt")
			fmt.Println(sep)
			for _, m := range missed {
				fmt.Printf("%-40s  %d of %d\n", truncate(m.Question, 40), m.Wrong, m.Total)
			}
		}
		return nil
	},
}

func printKnowledge(h *knowledge.History, days int, sep string) {
	if h.Len() == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Knowledge index")
	fmt.Println(sep)
	latest, _ := h.Latest()
	_, values := h.ChartArray()
	fmt.Printf("%-28s  %.1f  %s\n", "Current", latest.Value, summary.Sparkline(values))
	fmt.Printf("%-28s  %s\n", "Total time spent", summary.FormatDuration(h.TotalTimeSpent()))
	fmt.Printf("%-28s  %.1f\n",
		fmt.Sprintf("Minutes per day (%d days)", knowledge.DefaultWindowDays),
		h.AverageMinutesPerDay(time.Now(), knowledge.DefaultWindowDays))

	rollup := h.DailyMinutesRollup()
	if days > 0 && len(rollup) > days {
		rollup = rollup[len(rollup)-days:]
	}
	for _, d := range rollup {
		fmt.Printf("  %s  %4d min\n", d.Day.Format("2006-01-02"), d.Minutes)
	}
}

func init() {
	statsCmd.Flags().Int("worst", summary.HardestCount, "Number of weakest questions to list")
	statsCmd.Flags().Int("sessions", 5, "Number of recent sessions to list")
	statsCmd.Flags().Int("days", 14, "Number of days of the daily time rollup to show")
}
