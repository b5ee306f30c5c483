package notifications

import (
	"context"
	"fmt"
	"time"

	"branchdesk/pkg/logger"
)

// Sender delivers a notification on one channel
type Sender interface {
	Send(ctx context.Context, notification *Notification) error
}

// WhatsAppLogSender stands in for a WhatsApp gateway: every message is
// written to the log instead of being sent.
type WhatsAppLogSender struct {
	log *logger.Logger
}

func NewWhatsAppLogSender(log *logger.Logger) *WhatsAppLogSender {
	return &WhatsAppLogSender{log: log}
}

func (s *WhatsAppLogSender) Send(ctx context.Context, notification *Notification) error {
	if notification.RecipientKey == "" {
		return fmt.Errorf("notification %s has no recipient", notification.ID)
	}

	args := []interface{}{
		"notification_id", notification.ID.String(),
		"type", notification.Type,
		"recipient", notification.RecipientKey,
		"message", notification.Message,
	}
	if qr, ok := notification.TemplateData["qr_payload"]; ok {
		args = append(args, "qr_payload", qr)
	}

	s.log.InfoContext(ctx, "📱 WhatsApp message sent", args...)
	return nil
}

// Dispatcher sends notifications with exponential backoff between attempts
type Dispatcher struct {
	sender  Sender
	backoff time.Duration
	log     *logger.Logger
}

func NewDispatcher(sender Sender, backoff time.Duration, log *logger.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, backoff: backoff, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, notification *Notification) error {
	notification.Status = NotificationStatusSending

	for attempt := 0; ; attempt++ {
		err := d.sender.Send(ctx, notification)
		if err == nil {
			notification.MarkSent()
			return nil
		}

		if attempt >= notification.MaxRetries {
			notification.MarkFailed(err)
			return fmt.Errorf("notification %s failed after %d attempts: %w", notification.ID, attempt+1, err)
		}

		notification.RetryCount++
		delay := d.backoff * time.Duration(1<<attempt)
		d.log.WarnContext(ctx, "Retrying notification",
			"notification_id", notification.ID.String(),
			"attempt", attempt+1,
			"delay", delay,
			"error", err.Error(),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			notification.MarkFailed(ctx.Err())
			return ctx.Err()
		}
	}
}
