// Package dispatch - каналы доставки событий outbox потребителям.
package dispatch

import (
	"context"
	"fmt"
	"wardflow/internal/application/entity"
	"wardflow/internal/transport/producer"
	"wardflow/pkg/config"
	"wardflow/pkg/httpclient"

	"go.uber.org/zap"
)

const IdempotencyHeader = "Idempotency-Key"

// Dispatcher отправляет одно уведомление. ref - внешний идентификатор доставки, если канал его даёт.
type Dispatcher interface {
	Name() string
	Dispatch(ctx context.Context, n entity.Notification) (ref string, err error)
}

// New выбирает канал по delivery.channel
func New(conf config.Delivery, client httpclient.HTTPClient, p producer.Producer, eventsTopic string, logger *zap.SugaredLogger) (Dispatcher, error) {
	switch conf.Channel {
	case "", config.ChannelLog:
		return NewLogDispatcher(logger), nil
	case config.ChannelWebhook:
		if conf.WebhookURL == "" {
			return nil, fmt.Errorf("delivery.webhookURL is required for channel %q", conf.Channel)
		}
		return NewWebhookDispatcher(client, conf.WebhookURL, conf.WebhookSecret), nil
	case config.ChannelKafka:
		if p == nil {
			return nil, fmt.Errorf("kafka producer is required for channel %q", conf.Channel)
		}
		return NewKafkaDispatcher(p, eventsTopic), nil
	default:
		return nil, fmt.Errorf("unknown delivery channel %q", conf.Channel)
	}
}
