package cron

import (
	"context"
	use_cases "wardflow/internal/application/use-cases"

	"go.uber.org/zap"
)

// SweepJob - проход по зависшим записям outbox
type SweepJob struct {
	usecase use_cases.UseCaser
	logger  *zap.SugaredLogger
}

func NewSweepJob(usecase use_cases.UseCaser, logger *zap.SugaredLogger) *SweepJob {
	return &SweepJob{
		usecase: usecase,
		logger:  logger,
	}
}

func (j *SweepJob) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			j.logger.Errorf("Паника при проходе по outbox: %v", r)
		}
	}()

	j.usecase.SweepOutbox(ctx)
}
