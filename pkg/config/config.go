package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       Server     `mapstructure:"server"`
	Postgres     Postgres   `mapstructure:"postgres"`
	Broker       Broker     `mapstructure:"broker"`
	Cron         Cron       `mapstructure:"cron"`
	Delivery     Delivery   `mapstructure:"delivery"`
	HTTPClient   HTTPClient `mapstructure:"httpClient"`
	LoggingLevel string     `mapstructure:"logging-level"`
}

type Server struct {
	Port          string `mapstructure:"port"`
	SwaggerUrl    string `mapstructure:"swagger_json"`
	SwaggerHost   string `mapstructure:"swagger_host"`
	SwaggerSchema string `mapstructure:"swagger_schema"`
	BodyLimit     int    `mapstructure:"body_limit"`
}

type Postgres struct {
	ConnString     string `mapstructure:"conn_string"`
	MaxConnections int32  `mapstructure:"max_connections"`
	MigrationsDir  string `mapstructure:"migrations_dir"`
}

type Broker struct {
	Kafka Kafka `mapstructure:"kafka"`
}

type Kafka struct {
	Brokers      string `mapstructure:"brokers"`
	JobsTopic    string `mapstructure:"jobsTopic"`   // очередь задач доставки {tenantId, outboxEntryId}
	EventsTopic  string `mapstructure:"eventsTopic"` // канал доставки событий (delivery.channel=kafka)
	GroupID      string `mapstructure:"groupID"`
	ReaderUsr    string `mapstructure:"readerUsr"`
	ReaderUsrPwd string `mapstructure:"readerUsrPwd"`
	WriterUsr    string `mapstructure:"writerUsr"`
	WriterUsrPwd string `mapstructure:"writerUsrPwd"`
	MaxAttempts  int    `mapstructure:"maxAttempts"`
}

// Enabled: kafka нужна только если через неё идёт очередь или канал доставки
func (k Kafka) Enabled() bool {
	return strings.TrimSpace(k.Brokers) != ""
}

type Cron struct {
	Schedule        string        `mapstructure:"schedule"`        // Расписание в формате cron (например, "0 */5 * * * *")
	Interval        string        `mapstructure:"interval"`        // Интервал в формате "@every 1m"
	ProcessingLease time.Duration `mapstructure:"processingLease"` // сколько запись может висеть в processing
	StaleAfter      time.Duration `mapstructure:"staleAfter"`      // pending старше этого переотправляются в очередь
	BatchSize       int           `mapstructure:"batchSize"`
	// Приоритет: если указан Schedule, используется он, иначе Interval
}

const (
	QueueLocal = "local"
	QueueKafka = "kafka"

	ChannelLog     = "log"
	ChannelWebhook = "webhook"
	ChannelKafka   = "kafka"
)

type Delivery struct {
	Queue           string        `mapstructure:"queue"`   // local | kafka
	Channel         string        `mapstructure:"channel"` // log | webhook | kafka
	Workers         int           `mapstructure:"workers"`
	QueueBuffer     int           `mapstructure:"queueBuffer"`
	DispatchTimeout time.Duration `mapstructure:"dispatchTimeout"`
	WebhookURL      string        `mapstructure:"webhookURL"`
	WebhookSecret   string        `mapstructure:"webhookSecret"`
}

type HTTPClient struct {
	//конфиг клиента
	ConnectTimeout        time.Duration `mapstructure:"connectTimeout"`        // TCP коннект
	TLSHandshakeTimeout   time.Duration `mapstructure:"TLSHandshakeTimeout"`   // TLS рукопожатие
	ResponseHeaderTimeout time.Duration `mapstructure:"responseHeaderTimeout"` // ожидание заголовков ответа
	ExpectContinueTimeout time.Duration `mapstructure:"expectContinueTimeout"` // 100-continue

	// Пул соединений
	IdleConnTimeout     time.Duration `mapstructure:"idleConnTimeout"`
	MaxIdleConns        int           `mapstructure:"maxIdleConns"`
	MaxIdleConnsPerHost int           `mapstructure:"maxIdleConnsPerHost"`
	MaxConnsPerHost     int           `mapstructure:"maxConnsPerHost"`
	KeepAlives          bool          `mapstructure:"keepAlives"`

	// Общий таймаут клиента. 0 - контролируем дедлайном через context.
	ClientTimeout time.Duration `mapstructure:"clientTimeout"`

	// Прочее
	UserAgent  string `mapstructure:"userAgent"`
	MaxRetries int    `mapstructure:"maxRetries"`

	// SSL/TLS настройки
	InsecureSkipVerify bool `mapstructure:"insecureSkipVerify"` // отключить проверку SSL сертификатов
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.body_limit", 4*1024*1024)
	v.SetDefault("postgres.conn_string", "")
	v.SetDefault("postgres.max_connections", 10)
	v.SetDefault("postgres.migrations_dir", "resources/migrations")

	v.SetDefault("broker.kafka.brokers", "")
	v.SetDefault("broker.kafka.jobsTopic", "wardflow.delivery-jobs")
	v.SetDefault("broker.kafka.eventsTopic", "wardflow.events")
	v.SetDefault("broker.kafka.groupID", "wardflow-delivery")
	v.SetDefault("broker.kafka.maxAttempts", 3)

	v.SetDefault("cron.schedule", "")
	v.SetDefault("cron.interval", "@every 1m")
	v.SetDefault("cron.processingLease", 5*time.Minute)
	v.SetDefault("cron.staleAfter", 2*time.Minute)
	v.SetDefault("cron.batchSize", 100)

	v.SetDefault("delivery.queue", QueueLocal)
	v.SetDefault("delivery.channel", ChannelLog)
	v.SetDefault("delivery.workers", 10)
	v.SetDefault("delivery.queueBuffer", 256)
	v.SetDefault("delivery.dispatchTimeout", 10*time.Second)
	v.SetDefault("delivery.webhookURL", "")
	v.SetDefault("delivery.webhookSecret", "")

	v.SetDefault("httpClient.connectTimeout", 3*time.Second)
	v.SetDefault("httpClient.TLSHandshakeTimeout", 3*time.Second)
	v.SetDefault("httpClient.responseHeaderTimeout", 5*time.Second)
	v.SetDefault("httpClient.expectContinueTimeout", time.Second)
	v.SetDefault("httpClient.idleConnTimeout", 90*time.Second)
	v.SetDefault("httpClient.maxIdleConns", 100)
	v.SetDefault("httpClient.maxIdleConnsPerHost", 10)
	v.SetDefault("httpClient.maxConnsPerHost", 20)
	v.SetDefault("httpClient.keepAlives", true)
	v.SetDefault("httpClient.clientTimeout", 0)
	v.SetDefault("httpClient.userAgent", "wardflow-delivery")
	v.SetDefault("httpClient.maxRetries", 1)
	v.SetDefault("httpClient.insecureSkipVerify", false)

	v.SetDefault("logging-level", "info")
}

func NewConfig() (Config, error) {
	v := viper.New()
	applyDefaults(v)

	v.AutomaticEnv()
	// Настраиваем замену точек и дефисов на подчеркивания для переменных окружения
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	var conf Config
	err := v.ReadInConfig()
	// Игнорируем ошибку, если файл не найден - используем только переменные окружения
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return conf, err
		}
	}

	err = v.Unmarshal(&conf)

	return conf, err
}
