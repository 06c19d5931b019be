package cron

import (
	"context"
	"eventplanner/pkg/config"
	"fmt"

	"go.uber.org/zap"
)

const defaultSpec = "@every 1h"

type Controller struct {
	scheduler *Scheduler
	logger    *zap.SugaredLogger
}

func NewController(ctx context.Context, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		scheduler: NewScheduler(ctx, logger),
		logger:    logger,
	}
}

func (c *Controller) RegisterDeleteOldEventsJob(usecase Retainer, conf config.Cron) error {
	spec := jobSpec(conf)
	entryID, err := c.scheduler.Add(spec, NewRetentionJob(usecase, c.logger))
	if err != nil {
		return fmt.Errorf("register retention job %q: %w", spec, err)
	}

	c.logger.Infof("retention job registered: id=%d spec=%q daysToDelete=%d", entryID, spec, conf.DaysToDelete)
	return nil
}

// jobSpec Schedule приоритетнее Interval
func jobSpec(conf config.Cron) string {
	switch {
	case conf.Schedule != "":
		return conf.Schedule
	case conf.Interval != "":
		return conf.Interval
	default:
		return defaultSpec
	}
}

func (c *Controller) Start() {
	c.logger.Info("cron scheduler starting")
	c.scheduler.Start()
}

func (c *Controller) Stop() {
	c.scheduler.Stop()
	c.logger.Info("cron scheduler stopped")
}
