// Package catalog implements the beer knowledge collaborator on SQLite:
// structured queries over the beer table and user rating write-back.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/llamale/server/internal/assistant/model"
	errx "github.com/llamale/server/internal/core/error"
	logx "github.com/llamale/server/pkg/logger"
)

const schema = `
CREATE TABLE IF NOT EXISTS beers (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	full_name    TEXT NOT NULL,
	style        TEXT NOT NULL,
	brewery      TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	abv          REAL NOT NULL,
	min_ibu      REAL NOT NULL,
	max_ibu      REAL NOT NULL,
	rating       REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS user_ratings (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	beer_id      INTEGER NOT NULL,
	score        REAL NOT NULL,
	comment      TEXT NOT NULL DEFAULT '',
	created_at   TEXT NOT NULL,
	FOREIGN KEY (beer_id) REFERENCES beers(id)
);
`

// queryLimit caps rows returned by any single lookup; the dialogue manager
// applies its own top-k on top of this.
const queryLimit = 25

// ABV bucket bounds in percent.
var abvBounds = map[string][2]float64{
	"low":    {0.0, 4.9},
	"medium": {5.0, 7.9},
	"high":   {8.0, 100.0},
}

// IBU bucket bounds; a beer matches when its IBU range overlaps the bucket.
var ibuBounds = map[string][2]float64{
	"low":    {0, 20},
	"medium": {21, 60},
	"high":   {61, 120},
}

// Store manages the beer catalog in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite catalog and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Query filters the catalog by the admitted slots of a satisfied goal.
// Results are ranked by rating descending so the first row is the primary
// entity of the action.
func (s *Store) Query(ctx context.Context, intent model.IntentType, slots map[string]model.Slot) ([]model.BeerRecord, error) {
	var (
		where []string
		args  []any
	)

	for name, slot := range slots {
		switch name {
		case model.SlotStyle:
			for _, token := range strings.Fields(strings.ToLower(slot.Value)) {
				where = append(where, "instr(lower(style), ?) > 0")
				args = append(args, token)
			}
		case model.SlotName:
			where = append(where, "instr(lower(name), ?) > 0")
			args = append(args, strings.ToLower(slot.Value))
		case model.SlotBrewery:
			where = append(where, "instr(lower(brewery), ?) > 0")
			args = append(args, strings.ToLower(slot.Value))
		case model.SlotABV:
			if b, ok := abvBounds[slot.Value]; ok {
				where = append(where, "abv BETWEEN ? AND ?")
				args = append(args, b[0], b[1])
			}
		case model.SlotIBU:
			if b, ok := ibuBounds[slot.Value]; ok {
				where = append(where, "max_ibu >= ? AND min_ibu <= ?")
				args = append(args, b[0], b[1])
			}
		case model.SlotRating:
			if min, err := strconv.ParseFloat(slot.Value, 64); err == nil {
				where = append(where, "rating >= ?")
				args = append(args, min)
			}
		}
	}

	q := "SELECT id, name, full_name, style, brewery, description, abv, min_ibu, max_ibu, rating FROM beers"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY rating DESC, id ASC LIMIT ?"
	args = append(args, queryLimit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errx.WrapCatalog(err)
	}
	defer rows.Close()

	var out []model.BeerRecord
	for rows.Next() {
		var b model.BeerRecord
		if err := rows.Scan(&b.ID, &b.Name, &b.FullName, &b.Style, &b.Brewery, &b.Description, &b.ABV, &b.MinIBU, &b.MaxIBU, &b.Rating); err != nil {
			return nil, errx.WrapCatalog(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapCatalog(err)
	}

	logx.Debug().
		Str("intent", string(intent)).
		Int("matches", len(out)).
		Msg("catalog query")
	return out, nil
}

// RecordRating writes a user rating for the referenced beer. A zero BeerID
// resolves the beer by name; an unmatched reference returns a nil receipt
// with no error, which the dialogue manager reports as no results.
func (s *Store) RecordRating(ctx context.Context, ref model.EntityRef, score float64, comment string) (*model.RatingReceipt, error) {
	beer, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if beer == nil {
		logx.Debug().Str("name", ref.Name).Msg("rating target not found in catalog")
		return nil, nil
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO user_ratings (beer_id, score, comment, created_at) VALUES (?, ?, ?, ?)",
		beer.ID, score, comment, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, errx.WrapCatalog(err)
	}

	return &model.RatingReceipt{
		BeerID:  beer.ID,
		Name:    beer.Name,
		Brewery: beer.Brewery,
		Score:   score,
		Comment: comment,
	}, nil
}

func (s *Store) resolve(ctx context.Context, ref model.EntityRef) (*model.BeerRecord, error) {
	var (
		row *sql.Row
	)
	switch {
	case ref.BeerID != 0:
		row = s.db.QueryRowContext(ctx,
			"SELECT id, name, brewery FROM beers WHERE id = ?", ref.BeerID)
	case ref.Name != "":
		// exact match first, then substring
		row = s.db.QueryRowContext(ctx,
			`SELECT id, name, brewery FROM beers
			 WHERE lower(name) = ? OR instr(lower(name), ?) > 0
			 ORDER BY lower(name) = ? DESC, rating DESC LIMIT 1`,
			strings.ToLower(ref.Name), strings.ToLower(ref.Name), strings.ToLower(ref.Name))
	default:
		return nil, nil
	}

	var b model.BeerRecord
	if err := row.Scan(&b.ID, &b.Name, &b.Brewery); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errx.WrapCatalog(err)
	}
	return &b, nil
}

var _ model.Knowledge = (*Store)(nil)
