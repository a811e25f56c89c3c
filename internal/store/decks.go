package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/ben-spiller/FlashTeacher/ent/migrate"
	"github.com/ben-spiller/FlashTeacher/internal/history"
)

// DefaultHistoryKeep is how many history snapshots are kept per deck.
const DefaultHistoryKeep = 10

// Deck is a named question source with the properties that load it.
type Deck struct {
	Name      string
	Source    string
	Props     map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DecksRepo stores decks and the drill history of each one. Every save
// adds a snapshot; older snapshots beyond Keep are pruned.
type DecksRepo struct {
	s    *Store
	Keep int
}

// SaveDeck inserts or updates a deck's source and properties.
func (r *DecksRepo) SaveDeck(ctx context.Context, name, src string, props map[string]string) error {
	if props == nil {
		props = map[string]string{}
	}
	encoded, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal deck props: %w", err)
	}
	now := time.Now().UTC()
	q := r.s.sql().Insert(migrate.DecksTable.Name).
		Columns("name", "source", "props", "created_at", "updated_at").
		Values(name, src, string(encoded), now, now).
		OnConflict(
			entsql.ConflictColumns("name"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("source")
				u.SetExcluded("props")
				u.SetExcluded("updated_at")
			}),
		)
	if _, err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("save deck %q: %w", name, err)
	}
	return nil
}

// GetDeck returns the deck or nil if it does not exist.
func (r *DecksRepo) GetDeck(ctx context.Context, name string) (*Deck, error) {
	decks, err := r.list(ctx, entsql.EQ("name", name))
	if err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return nil, nil
	}
	return &decks[0], nil
}

// ListDecks returns every deck ordered by name.
func (r *DecksRepo) ListDecks(ctx context.Context) ([]Deck, error) {
	return r.list(ctx, nil)
}

func (r *DecksRepo) list(ctx context.Context, where *entsql.Predicate) ([]Deck, error) {
	sel := r.s.sql().Select("name", "source", "props", "created_at", "updated_at").
		From(entsql.Table(migrate.DecksTable.Name)).
		OrderBy("name")
	if where != nil {
		sel.Where(where)
	}
	rows, err := r.s.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query decks: %w", err)
	}
	defer rows.Close()

	var decks []Deck
	for rows.Next() {
		var d Deck
		var props string
		if err := rows.Scan(&d.Name, &d.Source, &props, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		if err := json.Unmarshal([]byte(props), &d.Props); err != nil {
			return nil, fmt.Errorf("deck %q props: %w", d.Name, err)
		}
		decks = append(decks, d)
	}
	return decks, rows.Err()
}

// DeleteDeck removes a deck with its history, sessions and answers.
// Deleting a missing deck is not an error.
func (r *DecksRepo) DeleteDeck(ctx context.Context, name string) error {
	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{migrate.AnswerEventsTable.Name, migrate.SessionsTable.Name, migrate.DeckHistoriesTable.Name} {
		q, args := r.s.sql().Delete(table).Where(entsql.EQ("deck", name)).Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	q, args := r.s.sql().Delete(migrate.DecksTable.Name).Where(entsql.EQ("name", name)).Query()
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete deck %q: %w", name, err)
	}
	return tx.Commit()
}

// SaveHistory stores snap as the newest history of deck, creating the
// deck row if needed, and prunes old snapshots.
func (r *DecksRepo) SaveHistory(ctx context.Context, deck string, snap *history.Snapshot) error {
	data, err := history.MarshalJSON(snap)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	now := time.Now().UTC()

	ensure := r.s.sql().Insert(migrate.DecksTable.Name).
		Columns("name", "source", "props", "created_at", "updated_at").
		Values(deck, "", "{}", now, now).
		OnConflict(entsql.ConflictColumns("name"), entsql.ResolveWith(func(u *entsql.UpdateSet) {
			u.SetExcluded("updated_at")
		}))
	if _, err := r.s.exec(ctx, ensure); err != nil {
		return fmt.Errorf("touch deck %q: %w", deck, err)
	}

	ins := r.s.sql().Insert(migrate.DeckHistoriesTable.Name).
		Columns("deck", "taken_at", "format_version", "data").
		Values(deck, now, history.FormatVersion, string(data))
	if _, err := r.s.exec(ctx, ins); err != nil {
		return fmt.Errorf("save history for %q: %w", deck, err)
	}
	if r.Keep > 0 {
		return r.PruneHistory(ctx, deck, r.Keep)
	}
	return nil
}

// LoadHistory returns the newest history of deck, or nil if there is none.
func (r *DecksRepo) LoadHistory(ctx context.Context, deck string) (*history.Snapshot, error) {
	sel := r.s.sql().Select("data").
		From(entsql.Table(migrate.DeckHistoriesTable.Name)).
		Where(entsql.EQ("deck", deck)).
		OrderBy(entsql.Desc("id")).
		Limit(1)
	rows, err := r.s.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	var data string
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("scan history: %w", err)
	}
	snap, err := history.UnmarshalJSON([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("decode history for %q: %w", deck, err)
	}
	return snap, nil
}

// HistoryCount reports how many snapshots deck has.
func (r *DecksRepo) HistoryCount(ctx context.Context, deck string) (int, error) {
	sel := r.s.sql().Select(entsql.Count("*")).
		From(entsql.Table(migrate.DeckHistoriesTable.Name)).
		Where(entsql.EQ("deck", deck))
	rows, err := r.s.query(ctx, sel)
	if err != nil {
		return 0, fmt.Errorf("count history: %w", err)
	}
	defer rows.Close()
	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("scan count: %w", err)
		}
	}
	return n, rows.Err()
}

// PruneHistory deletes all but the keep newest snapshots of deck.
func (r *DecksRepo) PruneHistory(ctx context.Context, deck string, keep int) error {
	sel := r.s.sql().Select("id").
		From(entsql.Table(migrate.DeckHistoriesTable.Name)).
		Where(entsql.EQ("deck", deck)).
		OrderBy(entsql.Desc("id")).
		Offset(keep - 1).
		Limit(1)
	rows, err := r.s.query(ctx, sel)
	if err != nil {
		return fmt.Errorf("query history for prune: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		err = rows.Scan(&threshold)
	}
	rows.Close()
	if err != nil {
		return fmt.Errorf("scan prune threshold: %w", err)
	}
	if !found {
		return nil
	}

	del := r.s.sql().Delete(migrate.DeckHistoriesTable.Name).
		Where(entsql.And(entsql.EQ("deck", deck), entsql.LT("id", threshold)))
	if _, err := r.s.exec(ctx, del); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}
