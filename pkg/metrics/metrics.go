package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wardflow"

type Metrics struct {
	Kafka    KafkaMetrics
	API      APIMetrics
	Delivery DeliveryMetrics
	Go       GoMetrics
}

type KafkaMetrics struct {
	// Producer
	ProducerAttemptLatencySeconds *prometheus.HistogramVec
	ProducerOperationsTotal       *prometheus.CounterVec
	ProducerSuccessAttempts       *prometheus.HistogramVec

	// Consumer
	ConsumerMessagesTotal   *prometheus.CounterVec
	ConsumerProcessDuration *prometheus.HistogramVec
	ConsumerRebalancesTotal *prometheus.CounterVec
	ConsumerInFlight        *prometheus.GaugeVec
}

type APIMetrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// DeliveryMetrics - конвейер outbox -> очередь -> канал доставки
type DeliveryMetrics struct {
	OutboxUpsertsTotal      *prometheus.CounterVec
	JobsEnqueuedTotal       *prometheus.CounterVec
	ClaimsTotal             *prometheus.CounterVec
	DeliveriesTotal         *prometheus.CounterVec
	DispatchDurationSeconds *prometheus.HistogramVec
	SweepRequeuedTotal      *prometheus.CounterVec
}

type GoMetrics struct {
	InternalGoroutines *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Kafka: KafkaMetrics{
			ProducerAttemptLatencySeconds: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "producer_attempt_latency_seconds",
				Help:      "Latency per single produce attempt.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"topic", "result"}), // ok|error

			ProducerOperationsTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "producer_operations_total",
				Help:      "Total produce operations (one call) by result.",
			}, []string{"topic", "result"}), // success|failed|permanent|canceled

			ProducerSuccessAttempts: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "producer_success_attempts",
				Help:      "Attempt number on which produce operation succeeded.",
				Buckets:   []float64{1, 2, 3, 4, 5},
			}, []string{"topic"}),

			ConsumerMessagesTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "consumer_messages_total",
				Help:      "Total consumed Kafka messages by topic.",
			}, []string{"topic"}),

			ConsumerProcessDuration: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "consumer_process_duration_seconds",
				Help:      "Kafka message processing duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"topic"}),

			ConsumerRebalancesTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "consumer_rebalances_total",
				Help:      "Consumer rebalance lifecycle events.",
			}, []string{"event"}),

			ConsumerInFlight: f.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "kafka",
				Name:      "consumer_inflight_messages",
				Help:      "Messages currently being processed.",
			}, []string{"topic"}),
		},

		API: APIMetrics{
			HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests by method, path and status.",
			}, []string{"method", "path", "status"}),

			HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "api",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency.",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			}, []string{"method", "path", "status"}),
		},

		Delivery: DeliveryMetrics{
			OutboxUpsertsTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "outbox",
				Name:      "upserts_total",
				Help:      "Outbox entries written by producing transactions.",
			}, []string{"event_type"}),

			JobsEnqueuedTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "delivery",
				Name:      "jobs_enqueued_total",
				Help:      "Delivery jobs handed to the queue channel by result.",
			}, []string{"queue", "result"}), // ok|error

			ClaimsTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "delivery",
				Name:      "claims_total",
				Help:      "Outbox claim attempts by result.",
			}, []string{"result"}), // claimed|empty|error

			DeliveriesTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "delivery",
				Name:      "deliveries_total",
				Help:      "Delivery attempts by channel and result (success, failure, reconciled, aborted).",
			}, []string{"channel", "result"}), // success|failure|reconciled

			DispatchDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "delivery",
				Name:      "dispatch_duration_seconds",
				Help:      "Duration of a single dispatch to the delivery channel.",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			}, []string{"channel", "result"}),

			SweepRequeuedTotal: f.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "outbox",
				Name:      "sweep_requeued_total",
				Help:      "Entries put back into the delivery flow by the sweeper.",
			}, []string{"reason"}), // stale_processing|stale_pending
		},

		Go: GoMetrics{
			InternalGoroutines: f.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "go",
				Name:      "internal_goroutines",
				Help:      "Number of running internal goroutines by name.",
			}, []string{"name"}),
		},
	}
}
