package broker

import (
	"context"
	"eventplanner/pkg/config"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	_defaultConsumerGroup = "eventplanner"
)

type KafkaBroker struct {
	ConsumerTopic string
	ProducerTopic string
	ConsumerGroup sarama.ConsumerGroup
	SyncProducer  sarama.SyncProducer
	Brokers       []string
	conf          config.Kafka
	logger        *zap.SugaredLogger
}

func NewKafkaBroker(conf config.Kafka, logger *zap.SugaredLogger) (*KafkaBroker, error) {
	brokers := splitBrokers(conf.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are not configured")
	}

	logger.Debugf("creating consumer group for brokers: %v", brokers)
	consumerGroup, err := newConsumerGroup(brokers, conf)
	if err != nil {
		logger.Errorf("consumer group creation failed: %v", err)
		return nil, err
	}

	logger.Debugf("creating sync producer for brokers: %v", brokers)
	syncProducer, err := newSyncProducer(brokers, conf)
	if err != nil {
		logger.Errorf("producer creation failed: %v", err)
		_ = consumerGroup.Close()
		return nil, err
	}

	broker := &KafkaBroker{
		ConsumerTopic: conf.ReaderTopic,
		ProducerTopic: conf.WriterTopic,
		ConsumerGroup: consumerGroup,
		SyncProducer:  syncProducer,
		Brokers:       brokers,
		conf:          conf,
		logger:        logger,
	}
	logger.Infof("KafkaBroker created. Consumer topic: %s, Producer topic: %s", broker.ConsumerTopic, broker.ProducerTopic)
	return broker, nil
}

// HealthCheck проверяет, что producer и consumer group созданы и брокеры отвечают.
// client.Partitions() не используется: он требует Describe в ACL, которого у сервисных учёток может не быть.
func (kb *KafkaBroker) HealthCheck(ctx context.Context) error {
	if kb.SyncProducer == nil {
		return fmt.Errorf("kafka producer is not initialized")
	}
	if kb.ConsumerGroup == nil {
		return fmt.Errorf("kafka consumer group is not initialized")
	}

	cfg := sarama.NewConfig()
	cfg.Net.DialTimeout = 2 * time.Second
	cfg.Net.ReadTimeout = 2 * time.Second
	cfg.Net.WriteTimeout = 2 * time.Second
	cfg.Metadata.Timeout = 2 * time.Second
	cfg.Metadata.Retry.Max = 1
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 && d < cfg.Net.DialTimeout {
			cfg.Net.DialTimeout = d
		}
	}

	applySASLConfig(cfg, kb.conf, kb.conf.WriterUsr != "" && kb.conf.WriterUsrPwd != "")

	client, err := sarama.NewClient(kb.Brokers, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to kafka brokers: %w", err)
	}
	defer client.Close()

	if len(client.Brokers()) == 0 {
		return fmt.Errorf("no kafka brokers available")
	}
	return nil
}

func (kb *KafkaBroker) Close() error {
	var errs []string
	if kb.SyncProducer != nil {
		if err := kb.SyncProducer.Close(); err != nil {
			errs = append(errs, "producer: "+err.Error())
		}
	}
	if kb.ConsumerGroup != nil {
		if err := kb.ConsumerGroup.Close(); err != nil {
			errs = append(errs, "consumer group: "+err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close kafka broker: %s", strings.Join(errs, "; "))
	}
	return nil
}

// applySASLConfig writer=true - учётка продюсера, иначе консьюмера
func applySASLConfig(cfg *sarama.Config, conf config.Kafka, writer bool) {
	usr, pwd := conf.ReaderUsr, conf.ReaderUsrPwd
	if writer {
		usr, pwd = conf.WriterUsr, conf.WriterUsrPwd
	}
	if usr == "" || pwd == "" {
		return
	}
	cfg.Net.SASL.Enable = true
	cfg.Net.SASL.User = usr
	cfg.Net.SASL.Password = pwd
	cfg.Net.SASL.Mechanism = sarama.SASLTypePlaintext
}

func EnableSaramaZapLogs(base *zap.SugaredLogger) {
	logger := base.Named("sarama")
	sarama.Logger = &zapSarama{logger}
	logger.Info("sarama logger initialized")
}

type zapSarama struct{ l *zap.SugaredLogger }

func (z *zapSarama) Print(v ...interface{})                 { z.l.Debug(v...) }
func (z *zapSarama) Printf(format string, v ...interface{}) { z.l.Debugf(format, v...) }
func (z *zapSarama) Println(v ...interface{})               { z.l.Debug(v...) }

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func newConsumerGroup(brokers []string, conf config.Kafka) (sarama.ConsumerGroup, error) {
	kafkaConfig := sarama.NewConfig()
	// профили пользователей читаем с начала топика, иначе новый экземпляр не увидит старые имена
	kafkaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	applySASLConfig(kafkaConfig, conf, false)

	group := conf.ReaderGroup
	if group == "" {
		group = _defaultConsumerGroup
	}

	consumer, err := sarama.NewConsumerGroup(brokers, group, kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer group: %w", err)
	}
	return consumer, nil
}

func newSyncProducer(brokers []string, conf config.Kafka) (sarama.SyncProducer, error) {
	kafkaConfig := sarama.NewConfig()

	kafkaConfig.Net.DialTimeout = 10 * time.Second
	kafkaConfig.Net.ReadTimeout = 15 * time.Second
	kafkaConfig.Net.WriteTimeout = 15 * time.Second
	kafkaConfig.Net.KeepAlive = 30 * time.Second

	kafkaConfig.Metadata.Timeout = 10 * time.Second
	kafkaConfig.Metadata.Retry.Max = 1
	kafkaConfig.Metadata.Retry.Backoff = 1 * time.Second
	kafkaConfig.Metadata.RefreshFrequency = 1 * time.Minute

	kafkaConfig.Producer.RequiredAcks = sarama.WaitForAll
	kafkaConfig.Producer.Return.Successes = true
	kafkaConfig.Producer.Return.Errors = true
	// ретраи делает сам продюсер с backoff, встроенные отключены
	kafkaConfig.Producer.Retry.Max = 0
	kafkaConfig.Producer.Timeout = 10 * time.Second
	kafkaConfig.Producer.Partitioner = sarama.NewHashPartitioner
	kafkaConfig.Producer.Idempotent = false

	applySASLConfig(kafkaConfig, conf, true)

	producer, err := sarama.NewSyncProducer(brokers, kafkaConfig)
	if err != nil {
		return nil, fmt.Errorf("create kafka sync producer: %w", err)
	}
	return producer, nil
}
