package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 10 * time.Minute

type Job interface {
	Name() string
	Run(ctx context.Context)
}

type Scheduler struct {
	c      *cron.Cron
	ctx    context.Context
	logger *zap.SugaredLogger
}

// NewScheduler принимает cron-выражения с секундами и без, а также дескрипторы (@every 1h, @daily)
func NewScheduler(ctx context.Context, logger *zap.SugaredLogger) *Scheduler {
	cl := cronLogger{logger.Named("cron")}
	c := cron.New(
		cron.WithParser(cron.NewParser(
			cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor,
		)),
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return &Scheduler{c: c, ctx: ctx, logger: logger}
}

func (s *Scheduler) Add(spec string, job Job) (cron.EntryID, error) {
	return s.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
		defer cancel()

		start := time.Now()
		job.Run(ctx)
		s.logger.Infof("cron job %s finished in %s", job.Name(), time.Since(start))
	})
}

func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop ждёт завершения выполняющихся задач
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

// cronLogger реализует cron.Logger поверх zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "err", err)...)
}
