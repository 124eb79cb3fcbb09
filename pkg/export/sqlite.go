// Package export writes measured cells to a SQLite feature table.
package export

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"cellroi/internal/models"
)

// DB is a feature-table database
type DB struct {
	*sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures
// the schema exists
func OpenSQLite(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS annotations (
			annotation_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT,
			width DOUBLE,
			height DOUBLE,
			cell_count INTEGER,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS cells (
			cell_id TEXT PRIMARY KEY,
			annotation_id INTEGER,
			cell_index INTEGER,
			nucleus_label INTEGER,
			estimated BOOLEAN,
			centroid_x DOUBLE,
			centroid_y DOUBLE,
			min_x DOUBLE,
			min_y DOUBLE,
			width DOUBLE,
			height DOUBLE,
			FOREIGN KEY(annotation_id) REFERENCES annotations(annotation_id)
		);
		CREATE TABLE IF NOT EXISTS measurements (
			cell_id TEXT,
			ordinal INTEGER,
			name TEXT,
			value DOUBLE,
			PRIMARY KEY(cell_id, ordinal),
			FOREIGN KEY(cell_id) REFERENCES cells(cell_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{db}, nil
}

// WriteCells stores a whole-image annotation followed by every cell and its
// measurements in a single transaction. Cell order and measurement order
// are preserved through the cell_index and ordinal columns. It returns the
// id of the image annotation.
func (db *DB) WriteCells(imageWidth, imageHeight int, cells []*models.PairedCell) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("INSERT INTO annotations (name, width, height, cell_count) VALUES (?, ?, ?, ?)",
		"Image", imageWidth, imageHeight, len(cells))
	if err != nil {
		return 0, fmt.Errorf("failed to insert image annotation: %w", err)
	}
	annotationID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	cellStmt, err := tx.Prepare(`INSERT INTO cells
		(cell_id, annotation_id, cell_index, nucleus_label, estimated, centroid_x, centroid_y, min_x, min_y, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer cellStmt.Close()

	measurementStmt, err := tx.Prepare("INSERT INTO measurements (cell_id, ordinal, name, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return 0, err
	}
	defer measurementStmt.Close()

	for i, c := range cells {
		label := 0
		if c.Nucleus != nil {
			label = c.Nucleus.Label()
		}
		centroid := c.Membrane.Centroid()
		bounds := c.Membrane.Bounds()

		if _, err := cellStmt.Exec(c.ID, annotationID, i, label, c.Estimated,
			centroid.X, centroid.Y, bounds.X, bounds.Y, bounds.Width, bounds.Height); err != nil {
			return 0, fmt.Errorf("failed to insert cell %s: %w", c.ID, err)
		}

		for ordinal, m := range c.Measurements.Entries() {
			if _, err := measurementStmt.Exec(c.ID, ordinal, m.Name, m.Value); err != nil {
				return 0, fmt.Errorf("failed to insert measurement %q of cell %s: %w", m.Name, c.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return annotationID, nil
}

// CellIDs returns the ids of the cells under an annotation in their
// original order
func (db *DB) CellIDs(annotationID int64) ([]string, error) {
	rows, err := db.Query("SELECT cell_id FROM cells WHERE annotation_id = ? ORDER BY cell_index", annotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReadMeasurements returns the measurements of one cell in insertion order
func (db *DB) ReadMeasurements(cellID string) ([]models.Measurement, error) {
	rows, err := db.Query("SELECT name, value FROM measurements WHERE cell_id = ? ORDER BY ordinal", cellID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Measurement
	for rows.Next() {
		var m models.Measurement
		if err := rows.Scan(&m.Name, &m.Value); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
