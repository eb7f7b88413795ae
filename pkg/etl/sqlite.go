package etl

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/pkg/errors"

	"github.com/askiada/go-recordpipe/pkg/record"
)

const recordsTable = `
CREATE TABLE IF NOT EXISTS records (
	batch_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	kind TEXT NOT NULL,
	payload BLOB NOT NULL,
	created_at DATETIME NOT NULL,
	PRIMARY KEY (batch_id, position)
);
`

// SQLiteLoader stores records in a SQLite database, msgpack encoded, one row per record.
type SQLiteLoader struct {
	db *sql.DB
}

// NewSQLiteLoader opens the database at path, creating the records table if needed.
func NewSQLiteLoader(ctx context.Context, path string) (*SQLiteLoader, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s", path)
	}

	_, err = db.ExecContext(ctx, recordsTable)
	if err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "unable to create records table")
	}

	return &SQLiteLoader{db: db}, nil
}

// Load inserts the records of a batch in one transaction.
func (l *SQLiteLoader) Load(ctx context.Context, batchID string, records []record.Record) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "unable to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck // no-op once committed

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (batch_id, position, kind, payload, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "unable to prepare insert")
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, rec := range records {
		payload, err := rec.Encode()
		if err != nil {
			return errors.Wrapf(err, "record %d", i)
		}
		_, err = stmt.ExecContext(ctx, batchID, i, rec.Kind().String(), payload, now)
		if err != nil {
			return errors.Wrapf(err, "unable to insert record %d", i)
		}
	}

	return errors.Wrap(tx.Commit(), "unable to commit batch")
}

// Records returns the records of a batch, in load order.
func (l *SQLiteLoader) Records(ctx context.Context, batchID string) ([]record.Record, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT payload FROM records WHERE batch_id = ? ORDER BY position`, batchID)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query records")
	}
	defer rows.Close()

	out := []record.Record{}
	for rows.Next() {
		var payload []byte
		err = rows.Scan(&payload)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan record")
		}
		rec, err := record.Decode(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, errors.Wrap(rows.Err(), "unable to read records")
}

// Batches returns the number of records of every stored batch.
func (l *SQLiteLoader) Batches(ctx context.Context) (map[string]int, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT batch_id, COUNT(*) FROM records GROUP BY batch_id`)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query batches")
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			id    string
			count int
		)
		err = rows.Scan(&id, &count)
		if err != nil {
			return nil, errors.Wrap(err, "unable to scan batch")
		}
		out[id] = count
	}

	return out, errors.Wrap(rows.Err(), "unable to read batches")
}

func (l *SQLiteLoader) Close() error {
	return l.db.Close()
}
