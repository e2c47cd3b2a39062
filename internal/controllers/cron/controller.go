package cron

import (
	"context"
	"fmt"
	use_cases "wardflow/internal/application/use-cases"
	"wardflow/pkg/config"

	"go.uber.org/zap"
)

const defaultSpec = "@every 1m"

type Controller struct {
	scheduler *Scheduler
	logger    *zap.SugaredLogger
}

func NewController(ctx context.Context, conf config.Cron, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		scheduler: NewScheduler(ctx, conf.ProcessingLease, logger),
		logger:    logger,
	}
}

// Spec выбирает расписание: Schedule (cron формат) приоритетнее Interval ("@every 1m")
func Spec(conf config.Cron) string {
	switch {
	case conf.Schedule != "":
		return conf.Schedule
	case conf.Interval != "":
		return conf.Interval
	default:
		return defaultSpec
	}
}

func (c *Controller) RegisterSweepJob(usecase use_cases.UseCaser, conf config.Cron) error {
	spec := Spec(conf)
	entryID, err := c.scheduler.Add(spec, NewSweepJob(usecase, c.logger))
	if err != nil {
		return fmt.Errorf("не удалось зарегистрировать проход по outbox (%q): %w", spec, err)
	}

	c.logger.Infof("Проход по outbox зарегистрирован с ID: %d, расписание: %s", entryID, spec)
	return nil
}

// Start запускает планировщик задач
func (c *Controller) Start() {
	c.logger.Info("Запуск планировщика cron задач")
	c.scheduler.Start()
}

// Stop останавливает планировщик и ждёт завершения текущих задач
func (c *Controller) Stop() {
	c.logger.Info("Остановка планировщика cron задач")
	c.scheduler.Stop()
	c.logger.Info("Планировщик cron задач остановлен")
}
