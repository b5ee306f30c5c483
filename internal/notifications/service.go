package notifications

import (
	"context"
	"fmt"
	"sync"
	"time"

	"branchdesk/internal/shared/config"
	"branchdesk/pkg/logger"
	"branchdesk/pkg/metrics"
)

// Publisher is the side of the service the booking and loan flows use
type Publisher interface {
	BookingConfirmed(ctx context.Context, b BookingConfirmed) error
	LoanDecided(ctx context.Context, d LoanDecision) error
}

type Service interface {
	Publisher
	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type service struct {
	producer Producer
	consumer *KafkaConsumer
	workers  int
	log      *logger.Logger

	mu        sync.Mutex
	isRunning bool
}

// NewService wires Kafka when enabled, otherwise delivers in-process
func NewService(cfg config.KafkaConfig, log *logger.Logger) (Service, error) {
	dispatcher := NewDispatcher(NewWhatsAppLogSender(log), 500*time.Millisecond, log)

	if !cfg.Enabled {
		log.Info("Kafka disabled, notifications are delivered in-process")
		return newService(NewLocalProducer(dispatcher), nil, 0, log), nil
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = cfg.Brokers
	producerConfig.NotificationTopic = cfg.NotificationTopic

	producer, err := NewKafkaProducer(producerConfig, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = cfg.Brokers
	consumerConfig.Topics = []string{cfg.NotificationTopic}
	consumerConfig.GroupID = cfg.GroupID

	consumer, err := NewKafkaConsumer(consumerConfig, dispatcher, log)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	return newService(producer, consumer, cfg.Workers, log), nil
}

func newService(producer Producer, consumer *KafkaConsumer, workers int, log *logger.Logger) *service {
	return &service{
		producer: producer,
		consumer: consumer,
		workers:  workers,
		log:      log,
	}
}

func (s *service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("notification service is already running")
	}
	if s.consumer != nil {
		s.consumer.Start(ctx, s.workers)
	}
	s.isRunning = true
	return nil
}

func (s *service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	var errs []error
	if s.consumer != nil {
		if err := s.consumer.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.producer.Close(); err != nil {
		errs = append(errs, err)
	}
	s.isRunning = false

	if len(errs) > 0 {
		return fmt.Errorf("errors stopping notification service: %v", errs)
	}
	return nil
}

func (s *service) BookingConfirmed(ctx context.Context, b BookingConfirmed) error {
	return s.publish(ctx, NewBookingConfirmedNotification(b))
}

func (s *service) LoanDecided(ctx context.Context, d LoanDecision) error {
	return s.publish(ctx, NewLoanDecisionNotification(d))
}

func (s *service) publish(ctx context.Context, n *Notification) error {
	if err := s.producer.Publish(ctx, n); err != nil {
		metrics.NotificationsPublished.WithLabelValues(string(n.Type), "failed").Inc()
		s.log.ErrorWithContext(ctx, "Failed to publish notification", err, map[string]interface{}{
			"notification_id": n.ID.String(),
			"type":            string(n.Type),
		})
		return err
	}
	metrics.NotificationsPublished.WithLabelValues(string(n.Type), "published").Inc()
	return nil
}

func (s *service) HealthCheck(ctx context.Context) error {
	s.mu.Lock()
	isRunning := s.isRunning
	s.mu.Unlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}
	return s.producer.HealthCheck(ctx)
}
