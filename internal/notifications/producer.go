package notifications

import (
	"context"
	"fmt"
	"time"

	"branchdesk/pkg/logger"

	"github.com/IBM/sarama"
)

// Producer hands notifications off for delivery
type Producer interface {
	Publish(ctx context.Context, notification *Notification) error
	Close() error
	HealthCheck(ctx context.Context) error
}

type KafkaProducerConfig struct {
	Brokers           []string
	NotificationTopic string
	RetryMax          int
	Timeout           time.Duration
	RequiredAcks      sarama.RequiredAcks
	CompressionType   sarama.CompressionCodec
	IdempotentWrites  bool
	MaxMessageBytes   int
}

func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:           []string{"localhost:9092"},
		NotificationTopic: "branchdesk-notifications",
		RetryMax:          3,
		Timeout:           10 * time.Second,
		RequiredAcks:      sarama.WaitForAll,
		CompressionType:   sarama.CompressionSnappy,
		IdempotentWrites:  true,
		MaxMessageBytes:   1000000,
	}
}

// SaramaConfig builds the sarama client config for the producer
func (c *KafkaProducerConfig) SaramaConfig() *sarama.Config {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = c.RequiredAcks
	saramaConfig.Producer.Compression = c.CompressionType
	saramaConfig.Producer.Retry.Max = c.RetryMax
	saramaConfig.Producer.Timeout = c.Timeout
	saramaConfig.Producer.Idempotent = c.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = c.MaxMessageBytes

	// idempotent producers require a single in-flight request
	if c.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// messages for one recipient stay ordered on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	return saramaConfig
}

type KafkaProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

func NewKafkaProducer(config *KafkaProducerConfig, log *logger.Logger) (*KafkaProducer, error) {
	producer, err := sarama.NewSyncProducer(config.Brokers, config.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info("📤 Kafka notification producer created", "brokers", config.Brokers, "topic", config.NotificationTopic)
	return newKafkaProducer(producer, config, log), nil
}

func newKafkaProducer(producer sarama.SyncProducer, config *KafkaProducerConfig, log *logger.Logger) *KafkaProducer {
	return &KafkaProducer{producer: producer, config: config, log: log}
}

func (kp *KafkaProducer) Publish(ctx context.Context, notification *Notification) error {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     kp.config.NotificationTopic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(message)
	if err != nil {
		notification.MarkFailed(err)
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	kp.log.DebugContext(ctx, "📤 Notification published",
		"topic", kp.config.NotificationTopic,
		"partition", partition,
		"offset", offset,
		"type", notification.Type,
	)
	return nil
}

func createHeaders(notification *Notification) []sarama.RecordHeader {
	return []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(notification.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(notification.Type)},
		{Key: []byte("channel"), Value: []byte(notification.Channel)},
		{Key: []byte("priority"), Value: []byte(notification.Priority)},
	}
}

func (kp *KafkaProducer) Close() error {
	if err := kp.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

func (kp *KafkaProducer) HealthCheck(ctx context.Context) error {
	if kp.producer == nil {
		return fmt.Errorf("kafka producer not initialized")
	}
	return nil
}

// LocalProducer delivers notifications in-process when no broker is
// configured. Delivery happens synchronously through the dispatcher.
type LocalProducer struct {
	dispatcher *Dispatcher
}

func NewLocalProducer(dispatcher *Dispatcher) *LocalProducer {
	return &LocalProducer{dispatcher: dispatcher}
}

func (lp *LocalProducer) Publish(ctx context.Context, notification *Notification) error {
	notification.Status = NotificationStatusQueued
	notification.UpdatedAt = time.Now()
	return lp.dispatcher.Dispatch(ctx, notification)
}

func (lp *LocalProducer) Close() error {
	return nil
}

func (lp *LocalProducer) HealthCheck(ctx context.Context) error {
	return nil
}
