package service

import (
	"context"
	"eventplanner/internal/application/common"
	"eventplanner/internal/application/entity"
	"time"
)

func (s *ServiceImpl) RelayEventRun(ctx context.Context) {
	s.logger.Infow("relay started", "workers", s.cfg.Workers, "batch", s.cfg.BatchSize, "lease", s.cfg.Lease.String())

	jobs := make(chan entity.OutboxEvent, s.cfg.BatchSize*2)

	for i := 0; i < s.cfg.Workers; i++ {
		go s.worker(ctx, i, jobs)
	}

	ticker := time.NewTicker(s.cfg.PollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("relay stopping")
			return
		case <-ticker.C:
			events, err := s.transactions.GetOperationsFromOutbox(ctx, *s.cfg)
			if err != nil {
				s.logger.Errorw("get operations from outbox failed", "err", err)
				continue
			}
			if len(events) > 0 {
				s.logger.Debugf("reserved %d outbox records, queued jobs: %d", len(events), len(jobs))
			}

			for _, e := range events {
				select {
				case jobs <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

func (s *ServiceImpl) worker(ctx context.Context, id int, jobs <-chan entity.OutboxEvent) {
	if s.m != nil {
		g := s.m.Go.InternalGoroutines.WithLabelValues("relay_worker")
		g.Inc()
		defer g.Dec()
	}

	s.logger.Infow("worker started", "id", id)
	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("worker stopping", "id", id)
			return
		case e := <-jobs:
			s.ProcessOne(ctx, id, e)
		}
	}
}

// ProcessOne публикует одну запись outbox и фиксирует её статус
func (s *ServiceImpl) ProcessOne(ctx context.Context, wid int, e entity.OutboxEvent) {
	s.logger.Debugf("[outbox %d] %s for event %s picked by worker %d", e.ID, e.EventType, e.AggregateID, wid)

	if err := s.kafkaProducer.ProduceMessage(ctx, e); err != nil {
		s.logger.Errorf("[outbox %d] kafka send failed, err: %v", e.ID, err)
		// ctx воркера может быть уже отменён, статус фиксируем независимо от него
		if err := s.markOutboxFailedOrGaveUp(context.Background(), e.ID, e.Attempts, common.NextBackoffWithJitter(e.Attempts)); err != nil {
			s.logger.Errorf("[outbox %d] mark failed: %v", e.ID, err)
		}
		return
	}

	if err := s.transactions.MarkSent(ctx, e.ID); err != nil {
		// сообщение уже ушло, повторно слать нельзя
		s.logger.Errorf("[outbox %d] mark sent failed, err: %v", e.ID, err)
		_ = s.repo.MarkGaveUp(context.Background(), e.ID)
		return
	}

	s.logger.Infof("[outbox %d] relay-process completed", e.ID)
}

func (s *ServiceImpl) markOutboxFailedOrGaveUp(ctx context.Context, outboxID int, attempts int, backoff time.Duration) error {
	if attempts+1 >= s.cfg.MaxAttempts {
		s.logger.Warnf("[outbox %d] giving up after %d attempts", outboxID, attempts+1)
		return s.repo.MarkGaveUp(ctx, outboxID)
	}
	return s.repo.MarkFailedWithBackoff(ctx, outboxID, time.Now().UTC().Add(backoff))
}
