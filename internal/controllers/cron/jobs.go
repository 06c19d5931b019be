package cron

import (
	"context"

	"go.uber.org/zap"
)

type Retainer interface {
	DeleteOldEventsByYear(ctx context.Context)
}

// RetentionJob удаляет события, дата которых старше cron.daysToDelete дней
type RetentionJob struct {
	usecase Retainer
	logger  *zap.SugaredLogger
}

func NewRetentionJob(usecase Retainer, logger *zap.SugaredLogger) *RetentionJob {
	return &RetentionJob{usecase: usecase, logger: logger}
}

func (j *RetentionJob) Name() string { return "delete_old_events" }

func (j *RetentionJob) Run(ctx context.Context) {
	j.logger.Info("retention job started")
	j.usecase.DeleteOldEventsByYear(ctx)
}
