package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"branchdesk/pkg/logger"

	"github.com/IBM/sarama"
)

type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	SessionTimeout    time.Duration
	Heartbeat         time.Duration
	RetryBackoff      time.Duration
	MaxProcessingTime time.Duration
	OffsetOldest      bool
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:           []string{"localhost:9092"},
		GroupID:           "branchdesk-notification-workers",
		Topics:            []string{"branchdesk-notifications"},
		SessionTimeout:    30 * time.Second,
		Heartbeat:         3 * time.Second,
		RetryBackoff:      100 * time.Millisecond,
		MaxProcessingTime: time.Minute,
		OffsetOldest:      false,
	}
}

// KafkaConsumer reads notifications from Kafka and dispatches them
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	dispatcher    *Dispatcher
	log           *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewKafkaConsumer(config *ConsumerConfig, dispatcher *Dispatcher, log *logger.Logger) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = config.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = config.Heartbeat
	saramaConfig.Consumer.Retry.Backoff = config.RetryBackoff
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		dispatcher:    dispatcher,
		log:           log,
	}, nil
}

// Start launches numWorkers consumer loops; they run until Stop or until
// ctx is cancelled
func (kc *KafkaConsumer) Start(ctx context.Context, numWorkers int) {
	ctx, kc.cancel = context.WithCancel(ctx)

	kc.log.Info("📥 Starting notification consumers", "workers", numWorkers, "topics", kc.config.Topics)

	kc.wg.Add(1)
	go func() {
		defer kc.wg.Done()
		kc.handleErrors(ctx)
	}()

	for i := 0; i < numWorkers; i++ {
		kc.wg.Add(1)
		go func(workerID int) {
			defer kc.wg.Done()
			kc.runWorker(ctx, workerID)
		}(i)
	}
}

func (kc *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		workerID:   workerID,
		dispatcher: kc.dispatcher,
		log:        kc.log,
	}

	for {
		if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
			kc.log.Warn("📥 Error consuming messages", "worker", workerID, "error", err.Error())
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (kc *KafkaConsumer) handleErrors(ctx context.Context) {
	for {
		select {
		case err, ok := <-kc.consumerGroup.Errors():
			if !ok {
				return
			}
			kc.log.Warn("📥 Consumer group error", "error", err.Error())
		case <-ctx.Done():
			return
		}
	}
}

// Stop cancels the workers, waits for them and closes the group
func (kc *KafkaConsumer) Stop() error {
	if kc.cancel != nil {
		kc.cancel()
	}
	kc.wg.Wait()

	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	kc.log.Info("📥 Notification consumer stopped")
	return nil
}

type consumerGroupHandler struct {
	workerID   int
	dispatcher *Dispatcher
	log        *logger.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				h.log.Warn("📥 Error processing message", "worker", h.workerID, "error", err.Error())
			}
			// failed messages are not redelivered; the error is logged above
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var notification Notification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	return h.dispatcher.Dispatch(ctx, &notification)
}
