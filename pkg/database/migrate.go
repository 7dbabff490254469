package database

import (
	"database/sql"
	"fmt"
)

// schema keys entries by (year_listened, game), with a secondary index
// on game for the lookup-by-title path. Track lists and extras are
// stored as JSON text, same as the rest of the variable-shape fields.
const schema = `
CREATE TABLE IF NOT EXISTS entries (
  year_listened INTEGER NOT NULL,
  game          TEXT    NOT NULL,
  catalog_num   TEXT,
  rating        INTEGER NOT NULL DEFAULT 0,
  description   TEXT,
  img           TEXT,
  tracks        TEXT, -- JSON array as text
  extras        TEXT, -- JSON array as text
  PRIMARY KEY (year_listened, game)
);

CREATE INDEX IF NOT EXISTS idx_entries_game ON entries (game);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
