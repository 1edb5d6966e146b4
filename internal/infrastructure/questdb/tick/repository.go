// Package tick stores assembled ticks in QuestDB.
package tick

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	tickv1 "github.com/muhammadchandra19/tickfeed/internal/domain/tick/v1"
	"github.com/muhammadchandra19/tickfeed/pkg/errors"
	"github.com/muhammadchandra19/tickfeed/pkg/logger"
	"github.com/muhammadchandra19/tickfeed/pkg/questdb"
	"github.com/muhammadchandra19/tickfeed/pkg/util"
)

const insertTickSQL = `INSERT INTO ticks (timestamp, session_id, symbol, side, quantity, price, sequence)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Repository writes ticks through a QuestDB client.
type Repository struct {
	client questdb.QuestDBClient
	tx     questdb.TX
	logger logger.Interface
	now    func() time.Time
}

// NewRepository creates a new tick repository.
func NewRepository(client questdb.QuestDBClient, tx questdb.TX, logger logger.Interface) *Repository {
	return &Repository{
		client: client,
		tx:     tx,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Name implements tickv1.Sink.
func (r *Repository) Name() string {
	return "questdb"
}

// Write implements tickv1.Sink.
func (r *Repository) Write(ctx context.Context, ticks []tickv1.Tick) error {
	return r.StoreBatch(ctx, ticks)
}

// StoreBatch inserts ticks in one batch inside a transaction. Every row of
// the batch carries the same ingestion timestamp and session id.
func (r *Repository) StoreBatch(ctx context.Context, ticks []tickv1.Tick) (err error) {
	if len(ticks) == 0 {
		return nil
	}

	txCtx, err := r.tx.Begin(ctx)
	if err != nil {
		return errors.NewErrorDetails("failed to begin tick batch", string(errors.QuestDBStoreError), "store").WithCause(err)
	}
	defer func() {
		if err != nil {
			if rbErr := r.tx.Rollback(txCtx); rbErr != nil {
				r.logger.ErrorContext(ctx, errors.TracerFromError(rbErr))
			}
		}
	}()

	ts := r.now()
	sessionID := util.GetSessionID(ctx)

	batch := &pgx.Batch{}
	for _, t := range ticks {
		row := NewRow(t, sessionID, ts)
		batch.Queue(insertTickSQL, row.Timestamp, row.SessionID, row.Symbol, row.Side, row.Quantity, row.Price, row.Sequence)
	}

	if err = r.execBatch(txCtx, batch); err != nil {
		return errors.NewErrorDetails("failed to store ticks", string(errors.QuestDBStoreError), "store").WithCause(err)
	}

	if err = r.tx.Commit(txCtx); err != nil {
		return errors.NewErrorDetails("failed to commit tick batch", string(errors.QuestDBStoreError), "store").WithCause(err)
	}

	r.logger.InfoContext(ctx, "ticks stored", logger.Field{Key: "rows", Value: len(ticks)})
	return nil
}

func (r *Repository) execBatch(ctx context.Context, batch *pgx.Batch) error {
	results := r.client.SendBatch(ctx, batch)
	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return err
		}
	}
	return results.Close()
}
