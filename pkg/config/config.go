package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	OverlapScopeGlobal = "global"
	OverlapScopeOwner  = "owner"
)

type Config struct {
	Server       Server      `mapstructure:"server"`
	Postgres     Postgres    `mapstructure:"postgres"`
	Broker       Broker      `mapstructure:"broker"`
	Cron         Cron        `mapstructure:"cron"`
	Realay       RelayConfig `mapstructure:"relay"`
	HTTPClient   HTTPClient  `mapstructure:"httpClient"`
	Auth         Auth        `mapstructure:"auth"`
	Overlap      Overlap     `mapstructure:"overlap"`
	LoggingLevel string      `mapstructure:"logging-level"`
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
	ReaderTopic  string `mapstructure:"readerTopic"` // профили пользователей
	ReaderGroup  string `mapstructure:"readerGroup"`
	ReaderUsr    string `mapstructure:"readerUsr"`
	ReaderUsrPwd string `mapstructure:"readerUsrPwd"`
	WriterTopic  string `mapstructure:"writerTopic"` // изменения событий из outbox
	WriterUsr    string `mapstructure:"writerUsr"`
	WriterUsrPwd string `mapstructure:"writerUsrPwd"`
	MaxAttempts  int    `mapstructure:"maxAttempts"`
}

type Cron struct {
	DaysToDelete int    `mapstructure:"daysToDelete"` // события с датой старше N дней удаляются
	Schedule     string `mapstructure:"schedule"`     // cron формат, например "0 0 3 * * *"
	Interval     string `mapstructure:"interval"`     // "@every 1h"
	// Приоритет: если указан Schedule, используется он, иначе Interval
}

type RelayConfig struct {
	Workers     int           `mapstructure:"workers"`
	BatchSize   int           `mapstructure:"batchSize"`
	Lease       time.Duration `mapstructure:"lease"`
	PollPeriod  time.Duration `mapstructure:"pollPeriod"`
	MaxAttempts int           `mapstructure:"maxAttempts"`
}

type HTTPClient struct {
	// справочник пользователей: GET {UserDirectoryURL}/{id} -> {"id","name"}; пусто - не используется
	UserDirectoryURL string `mapstructure:"userDirectoryURL"`

	ConnectTimeout        time.Duration `mapstructure:"connectTimeout"`
	TLSHandshakeTimeout   time.Duration `mapstructure:"TLSHandshakeTimeout"`
	ResponseHeaderTimeout time.Duration `mapstructure:"responseHeaderTimeout"`
	ExpectContinueTimeout time.Duration `mapstructure:"expectContinueTimeout"`

	// Пул соединений
	IdleConnTimeout     time.Duration `mapstructure:"idleConnTimeout"`
	MaxIdleConns        int           `mapstructure:"maxIdleConns"`
	MaxIdleConnsPerHost int           `mapstructure:"maxIdleConnsPerHost"`
	MaxConnsPerHost     int           `mapstructure:"maxConnsPerHost"`
	KeepAlives          bool          `mapstructure:"keepAlives"`

	// Общий таймаут клиента. 0 - контролируем дедлайном через context.
	ClientTimeout time.Duration `mapstructure:"clientTimeout"`

	UserAgent  string `mapstructure:"userAgent"`
	MaxRetries int    `mapstructure:"maxRetries"`

	InsecureSkipVerify bool `mapstructure:"insecureSkipVerify"`
}

// Auth пользователя аутентифицирует шлюз, сервис только читает его идентификатор из заголовка
type Auth struct {
	UserHeader string `mapstructure:"userHeader"`
}

type Overlap struct {
	// global - пересечения запрещены между всеми событиями дня, owner - только между событиями одного автора
	Scope string `mapstructure:"scope"`
}

// setDefaults объявляет все ключи: AutomaticEnv подхватывает при Unmarshal только известные viper ключи
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.body_limit", 1024*1024)
	v.SetDefault("server.swagger_json", "")
	v.SetDefault("server.swagger_host", "")
	v.SetDefault("server.swagger_schema", "http")
	v.SetDefault("postgres.conn_string", "")
	v.SetDefault("postgres.max_connections", 5)
	v.SetDefault("postgres.migrations_dir", "resources/migrations")
	v.SetDefault("broker.kafka.brokers", "")
	v.SetDefault("broker.kafka.readerTopic", "users")
	v.SetDefault("broker.kafka.readerGroup", "eventplanner")
	v.SetDefault("broker.kafka.readerUsr", "")
	v.SetDefault("broker.kafka.readerUsrPwd", "")
	v.SetDefault("broker.kafka.writerTopic", "events")
	v.SetDefault("broker.kafka.writerUsr", "")
	v.SetDefault("broker.kafka.writerUsrPwd", "")
	v.SetDefault("broker.kafka.maxAttempts", 3)
	v.SetDefault("cron.daysToDelete", 365)
	v.SetDefault("cron.schedule", "")
	v.SetDefault("cron.interval", "@every 1h")
	v.SetDefault("relay.workers", 2)
	v.SetDefault("relay.batchSize", 100)
	v.SetDefault("relay.lease", 30*time.Second)
	v.SetDefault("relay.pollPeriod", time.Second)
	v.SetDefault("relay.maxAttempts", 10)
	v.SetDefault("httpClient.userDirectoryURL", "")
	v.SetDefault("httpClient.connectTimeout", 2*time.Second)
	v.SetDefault("httpClient.clientTimeout", 5*time.Second)
	v.SetDefault("httpClient.maxRetries", 3)
	v.SetDefault("auth.userHeader", "X-User-ID")
	v.SetDefault("overlap.scope", OverlapScopeGlobal)
	v.SetDefault("logging-level", "info")
}

func NewConfig() (Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, path string) (Config, error) {
	v.AutomaticEnv()
	// server.port -> SERVER_PORT, logging-level -> LOGGING_LEVEL
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(path)
	setDefaults(v)

	var conf Config
	err := v.ReadInConfig()
	// Файла может не быть - тогда работаем только на переменных окружения
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return conf, err
		}
	}

	err = v.Unmarshal(&conf)

	conf.Overlap.Scope = strings.ToLower(conf.Overlap.Scope)
	if conf.Overlap.Scope != OverlapScopeOwner {
		conf.Overlap.Scope = OverlapScopeGlobal
	}

	return conf, err
}
