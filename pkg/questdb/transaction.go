package questdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type contextKey string

const txKey contextKey = "questdb_transaction"

// Transaction is the context-carried TX implementation.
type Transaction struct {
	client QuestDBClient
}

var _ TX = (*Transaction)(nil)

// NewTransaction creates a Transaction bound to client.
func NewTransaction(client QuestDBClient) *Transaction {
	return &Transaction{client: client}
}

// Begin starts a transaction and returns context with embedded transaction
func (t *Transaction) Begin(ctx context.Context) (context.Context, error) {
	tx, err := t.client.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the transaction from context
func (t *Transaction) Commit(ctx context.Context) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return fmt.Errorf("no transaction found in context")
	}
	return tx.Commit(ctx)
}

// Rollback rolls back the transaction from context. Rolling back a committed
// transaction is a no-op.
func (t *Transaction) Rollback(ctx context.Context) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return fmt.Errorf("no transaction found in context")
	}
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// GetTx extracts transaction from context (helper function)
func GetTx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}
