package repositories

import (
	"database/sql"
	"fmt"
)

// execer is satisfied by both [*sql.DB] and [*sql.Tx] so sequence generation can join an
// enclosing transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// scanner is satisfied by both [*sql.Row] and [*sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// NextSequence increments and returns the next sequence number for the given table.
//
// Pass a [*sql.Tx] to make the increment part of a larger write. Called with a [*sql.DB],
// the increment runs in a transaction of its own.
func NextSequence(q execer, table string) (int, error) {
	if db, ok := q.(*sql.DB); ok {
		tx, err := db.Begin()
		if err != nil {
			return 0, fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		sequence, err := NextSequence(tx, table)
		if err != nil {
			return 0, err
		}

		if err := tx.Commit(); err != nil {
			return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
		}
		return sequence, nil
	}

	sequenceTable := table + "_sequence"

	if _, err := q.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err := q.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	return sequence, nil
}

// checkAffected turns a zero row count into notFound.
func checkAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
