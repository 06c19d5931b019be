package listener

import (
	"context"
	"eventplanner/pkg/metrics"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const messageTimeout = 5 * time.Second

// UserConsumer обработчик сообщений топика профилей пользователей
type UserConsumer interface {
	ConsumerMessage(ctx context.Context, msg []byte, msgTime time.Time) error
}

type KafkaBrokerConsumer struct {
	usecase UserConsumer
	logger  *zap.SugaredLogger
	m       *metrics.Metrics
}

func NewKafkaBrokerConsumer(usecase UserConsumer, logger *zap.SugaredLogger, m *metrics.Metrics) *KafkaBrokerConsumer {
	return &KafkaBrokerConsumer{
		logger:  logger,
		usecase: usecase,
		m:       m,
	}
}

func (k *KafkaBrokerConsumer) Setup(session sarama.ConsumerGroupSession) error {
	k.logger.Infow("kafka consumer session setup", "claims", session.Claims(), "generation", session.GenerationID())
	if k.m != nil {
		k.m.Kafka.ConsumerRebalancesTotal.WithLabelValues("setup").Inc()
	}
	return nil
}

func (k *KafkaBrokerConsumer) Cleanup(session sarama.ConsumerGroupSession) error {
	k.logger.Infow("kafka consumer session cleanup", "generation", session.GenerationID())
	if k.m != nil {
		k.m.Kafka.ConsumerRebalancesTotal.WithLabelValues("cleanup").Inc()
	}
	return nil
}

// ConsumeClaim некорректное сообщение логируется и коммитится, чтобы не блокировать партицию
func (k *KafkaBrokerConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case <-session.Context().Done():
			return nil
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			k.handle(session.Context(), msg)
			session.MarkMessage(msg, "")
		}
	}
}

func (k *KafkaBrokerConsumer) handle(ctx context.Context, msg *sarama.ConsumerMessage) {
	topic := msg.Topic
	if k.m != nil {
		k.m.Kafka.ConsumerInFlight.WithLabelValues(topic).Inc()
		defer k.m.Kafka.ConsumerInFlight.WithLabelValues(topic).Dec()
	}

	start := time.Now()
	k.logger.Debugf("message topic:%q partition:%d offset:%d", topic, msg.Partition, msg.Offset)

	ctx, cancel := context.WithTimeout(ctx, messageTimeout)
	defer cancel()

	result := "ok"
	if err := k.usecase.ConsumerMessage(ctx, msg.Value, msg.Timestamp); err != nil {
		result = "error"
		k.logger.Errorf("message topic:%q partition:%d offset:%d skipped: %v", topic, msg.Partition, msg.Offset, err)
	}

	if k.m != nil {
		k.m.Kafka.ConsumerMessagesTotal.WithLabelValues(topic, result).Inc()
		k.m.Kafka.ConsumerProcessDuration.WithLabelValues(topic).Observe(time.Since(start).Seconds())
	}
}
