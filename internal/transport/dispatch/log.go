package dispatch

import (
	"context"
	"wardflow/internal/application/entity"
	"wardflow/pkg/config"

	"go.uber.org/zap"
)

// LogDispatcher пишет уведомление в лог. Канал по умолчанию для локального запуска.
type LogDispatcher struct {
	logger *zap.SugaredLogger
}

func NewLogDispatcher(logger *zap.SugaredLogger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Name() string { return config.ChannelLog }

func (d *LogDispatcher) Dispatch(ctx context.Context, n entity.Notification) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	d.logger.Infow("notification",
		"tenant", n.TenantID,
		"outboxEntryId", n.OutboxEntryID,
		"revision", n.Revision,
		"eventType", n.EventType,
		"subject", n.SubjectID,
		"payload", string(n.Payload),
	)
	return "", nil
}
