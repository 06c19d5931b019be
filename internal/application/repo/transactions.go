package repo

import (
	"context"
	"eventplanner/internal/application/entity"
	"eventplanner/pkg/config"
	"fmt"

	"go.uber.org/zap"
)

type Transactions interface {
	// WithinTransaction выполняет fn в одной транзакции; вызовы Repo с переданным ctx идут через неё
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	GetOperationsFromOutbox(ctx context.Context, c config.RelayConfig) ([]entity.OutboxEvent, error)
	MarkSent(ctx context.Context, outboxID int) error
}
type TransactionsImpl struct {
	repo   *RepoImpl
	logger *zap.SugaredLogger
}

func NewTransactions(repo *RepoImpl, logger *zap.SugaredLogger) *TransactionsImpl {
	return &TransactionsImpl{repo: repo, logger: logger}
}

func (t *TransactionsImpl) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.repo.db.WithinTransaction(ctx, fn)
}

func (t *TransactionsImpl) GetOperationsFromOutbox(ctx context.Context, c config.RelayConfig) ([]entity.OutboxEvent, error) {
	var events []entity.OutboxEvent
	err := t.repo.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		events, err = t.repo.ReserveOutboxBatch(txCtx, c.Lease, c.BatchSize, c.MaxAttempts)
		return err
	})
	if err != nil {
		t.logger.Errorw("reserve outbox batch failed", "err", err)
		return nil, err
	}
	return events, nil
}

func (t *TransactionsImpl) MarkSent(ctx context.Context, outboxID int) error {
	return t.repo.db.WithinTransaction(ctx, func(ctx context.Context) error {
		t.logger.Debugf("[ID %d] start transaction to mark outbox as sent", outboxID)
		result, err := t.repo.db.Exec(ctx, markSentSQL, outboxID, entity.OutboxSent)
		if err != nil {
			return fmt.Errorf("outbox mark sent: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("[ID %d] outbox not found", outboxID)
		}
		return nil
	})
}
