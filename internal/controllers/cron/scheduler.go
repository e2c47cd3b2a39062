package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Job interface {
	Run(ctx context.Context)
}

type Scheduler struct {
	c       *cron.Cron
	ctx     context.Context
	timeout time.Duration
}

func NewScheduler(ctx context.Context, timeout time.Duration, logger *zap.SugaredLogger) *Scheduler {
	// Поддерживаем стандартный cron формат с секундами и интервалы (@every, @hourly, ...)
	l := cronLogger{logger}
	c := cron.New(
		cron.WithParser(cron.NewParser(
			cron.SecondOptional|cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor,
		)),
		cron.WithLogger(l),
		// медленный проход не должен накладываться на следующий
		cron.WithChain(cron.SkipIfStillRunning(l)),
	)
	if timeout <= 0 {
		timeout = 55 * time.Minute
	}
	return &Scheduler{c: c, ctx: ctx, timeout: timeout}
}

func (s *Scheduler) Add(spec string, job Job) (cron.EntryID, error) {
	return s.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		job.Run(ctx)
	})
}

func (s *Scheduler) Start() {
	s.c.Start()
}

func (s *Scheduler) Stop() {
	ctx := s.c.Stop()
	<-ctx.Done()
}

// cronLogger - cron.Logger поверх zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "err", err)...)
}
