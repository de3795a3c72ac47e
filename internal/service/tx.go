// Package service holds the write paths that span several repositories.
// Every multi-row write (a dome with its seat rows, a reservation with its
// tickets) runs inside one transaction owned here: a failure at any step
// rolls back everything written before it.
package service

import (
	"context"
	"database/sql"
)

// withTx runs fn inside a transaction and commits when fn returns nil.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
