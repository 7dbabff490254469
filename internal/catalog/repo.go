package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"vgmhub/pkg/models"
)

// Repo persists catalog entries keyed by (year_listened, game), with a
// secondary lookup by game. Track lists and extras live in JSON-text
// columns; the store treats them as opaque.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Add upserts the full entry.
func (r *Repo) Add(ctx context.Context, e models.Entry) error {
	tracksJSON, err := json.Marshal(e.Tracks)
	if err != nil {
		return fmt.Errorf("marshal tracks for %s: %w", e.Game, err)
	}
	extrasJSON, err := json.Marshal(e.Extras)
	if err != nil {
		return fmt.Errorf("marshal extras for %s: %w", e.Game, err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO entries (year_listened, game, catalog_num, rating, description, img, tracks, extras)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(year_listened, game) DO UPDATE SET
		  catalog_num = excluded.catalog_num,
		  rating = excluded.rating,
		  description = excluded.description,
		  img = excluded.img,
		  tracks = excluded.tracks,
		  extras = excluded.extras
	`, e.YearListened, e.Game, e.CatalogNum, e.Rating, e.Description, e.Img,
		string(tracksJSON), string(extrasJSON))
	if err != nil {
		return fmt.Errorf("exec upsert for %s: %w", e.Game, err)
	}
	return nil
}

// Update rewrites the metadata columns of an existing entry, leaving
// the stored track list alone.
func (r *Repo) Update(ctx context.Context, e models.Entry) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE entries
		SET catalog_num = ?, rating = ?, description = ?, img = ?
		WHERE year_listened = ? AND game = ?
	`, e.CatalogNum, e.Rating, e.Description, e.Img, e.YearListened, e.Game)
	if err != nil {
		return fmt.Errorf("exec update for %s: %w", e.Game, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an entry and reports whether it existed.
func (r *Repo) Delete(ctx context.Context, year int, game string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM entries WHERE year_listened = ? AND game = ?
	`, year, game)
	if err != nil {
		return false, fmt.Errorf("exec delete for %s: %w", game, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// QueryYear lists every entry for one listening year, without track
// lists (year views are summaries).
func (r *Repo) QueryYear(ctx context.Context, year int) ([]models.Entry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT year_listened, game, catalog_num, rating, description, img, extras
		FROM entries
		WHERE year_listened = ?
		ORDER BY game ASC
	`, year)
	if err != nil {
		return nil, fmt.Errorf("query year: %w", err)
	}
	defer rows.Close()

	out := make([]models.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows.Scan, false)
		if err != nil {
			return nil, fmt.Errorf("scan year row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// QueryGame returns the full entry for one game, or nil when none
// exists. If the same game is listed under several years, the most
// recent year wins.
func (r *Repo) QueryGame(ctx context.Context, game string) (*models.Entry, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT year_listened, game, catalog_num, rating, description, img, tracks, extras
		FROM entries
		WHERE game = ?
		ORDER BY year_listened DESC
		LIMIT 1
	`, game)

	e, err := scanEntry(row.Scan, true)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan game row: %w", err)
	}
	return &e, nil
}

func scanEntry(scan func(dest ...any) error, withTracks bool) (models.Entry, error) {
	var (
		e           models.Entry
		catalogNum  sql.NullString
		description sql.NullString
		img         sql.NullString
		tracksJSON  sql.NullString
		extrasJSON  sql.NullString
	)

	dest := []any{&e.YearListened, &e.Game, &catalogNum, &e.Rating, &description, &img}
	if withTracks {
		dest = append(dest, &tracksJSON)
	}
	dest = append(dest, &extrasJSON)

	if err := scan(dest...); err != nil {
		return models.Entry{}, err
	}

	e.CatalogNum = catalogNum.String
	e.Description = description.String
	e.Img = img.String
	if tracksJSON.Valid {
		_ = json.Unmarshal([]byte(tracksJSON.String), &e.Tracks)
	}
	if extrasJSON.Valid {
		_ = json.Unmarshal([]byte(extrasJSON.String), &e.Extras)
	}
	return e, nil
}
