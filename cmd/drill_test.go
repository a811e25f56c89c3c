package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ben-spiller/FlashTeacher/internal/drill"
	"github.com/ben-spiller/FlashTeacher/internal/history"
	drillscreen "github.com/ben-spiller/FlashTeacher/internal/screens/drill"
	"github.com/ben-spiller/FlashTeacher/internal/store"
)

func drillFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "drill"}
	addDrillFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestDeckSource(t *testing.T) {
	abs, err := filepath.Abs("capitals.json")
	require.NoError(t, err)
	stored := &store.Deck{Name: "capitals", Source: "file", Props: map[string]string{"path": "/decks/capitals.json"}}

	tests := []struct {
		name      string
		args      []string
		stored    *store.Deck
		wantSrc   string
		wantProps map[string]string
		wantErr   string
	}{
		{
			name:      "question file",
			args:      []string{"--questions", "capitals.json"},
			wantSrc:   "file",
			wantProps: map[string]string{"path": abs},
		},
		{
			name:      "case sensitivity override",
			args:      []string{"--questions", "capitals.json", "--case-sensitive"},
			wantSrc:   "file",
			wantProps: map[string]string{"path": abs, "caseSensitive": "true"},
		},
		{
			name:      "solfege",
			args:      []string{"--solfege", "solfegeValues=do re me,notesPerQuestion=2"},
			wantSrc:   "solfege",
			wantProps: map[string]string{"solfegeValues": "do re me", "notesPerQuestion": "2"},
		},
		{
			name:      "flags win over the stored deck",
			args:      []string{"--questions", "capitals.json"},
			stored:    stored,
			wantSrc:   "file",
			wantProps: map[string]string{"path": abs},
		},
		{
			name:      "stored deck",
			stored:    stored,
			wantSrc:   "file",
			wantProps: map[string]string{"path": "/decks/capitals.json"},
		},
		{
			name:    "nothing to drill",
			wantErr: "has no questions yet",
		},
		{
			name:    "stored deck without a source",
			stored:  &store.Deck{Name: "capitals"},
			wantErr: "has no questions yet",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, props, err := deckSource(drillFlags(t, tt.args...), "capitals", tt.stored)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSrc, src)
			assert.Equal(t, tt.wantProps, props)
		})
	}
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestFinisher(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	id, err := st.Sessions().StartSession(ctx, "capitals", started)
	require.NoError(t, err)

	snap := &history.Snapshot{
		FormatVersion: history.FormatVersion,
		Records: []history.Record{
			{QuestionText: "France", AnswerText: "Paris", PassModeCounter: 1},
		},
	}
	err = finisher(st)(ctx, drillscreen.Outcome{
		Deck:              "capitals",
		SessionID:         id,
		Attempts:          3,
		QuestionsAnswered: 2,
		Started:           started,
		Ended:             started.Add(4 * time.Minute),
		Scores:            drill.QuestionSetScores{KnowledgeIndexScore: 12.5, QuestionSetPercentScore: 66.6},
		Snapshot:          snap,
	})
	require.NoError(t, err)

	saved, err := st.Decks().LoadHistory(ctx, "capitals")
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Len(t, saved.Records, 1)
	assert.Equal(t, "France", saved.Records[0].QuestionText)

	sessions, err := st.Sessions().RecentSessions(ctx, "capitals", 1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].EndedAt.Valid)
	assert.Equal(t, 2, sessions[0].QuestionsAnswered)
	assert.Equal(t, 4*time.Minute, sessions[0].Duration())
	assert.Equal(t, 67, sessions[0].PercentKnown)
}

func TestFinisher_NothingAttempted(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	id, err := st.Sessions().StartSession(ctx, "capitals", started)
	require.NoError(t, err)

	err = finisher(st)(ctx, drillscreen.Outcome{
		Deck:      "capitals",
		SessionID: id,
		Started:   started,
		Ended:     started.Add(time.Minute),
	})
	require.NoError(t, err)

	saved, err := st.Decks().LoadHistory(ctx, "capitals")
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestFinisher_UnknownSession(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	err := finisher(st)(ctx, drillscreen.Outcome{
		Deck:      "capitals",
		SessionID: "missing",
		Attempts:  1,
		Started:   now,
		Ended:     now,
		Snapshot:  &history.Snapshot{FormatVersion: history.FormatVersion},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no session")

	saved, err := st.Decks().LoadHistory(ctx, "capitals")
	require.NoError(t, err)
	assert.NotNil(t, saved)
}
