package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/satishbabariya/querycompiler/internal/debug"
)

// ErrNestedTransaction is returned when Begin is called on a transaction.
var ErrNestedTransaction = errors.New("transaction already in progress")

// Tx is an Executor whose statements run inside a database transaction.
// Its DB method returns nil.
type Tx struct {
	*Executor
	tx *sql.Tx
}

// Begin starts a transaction.
func (e *Executor) Begin(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	if e.db == nil {
		return nil, ErrNestedTransaction
	}

	tx, err := e.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{
		Executor: &Executor{conn: tx, compiler: e.compiler},
		tx:       tx,
	}, nil
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// Transaction runs fn inside a transaction. It commits when fn returns nil
// and rolls back on error or panic.
func (e *Executor) Transaction(ctx context.Context, fn func(tx *Tx) error) (err error) {
	tx, err := e.Begin(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			debug.Warn("rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
