package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeLoanDecision     NotificationType = "LOAN_DECISION"
)

// The booking page promised a WhatsApp message; that is the only channel
type NotificationChannel string

const (
	NotificationChannelWhatsApp NotificationChannel = "WHATSAPP"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "LOW"
	NotificationPriorityMedium NotificationPriority = "MEDIUM"
	NotificationPriorityHigh   NotificationPriority = "HIGH"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSending NotificationStatus = "SENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

type Notification struct {
	ID       uuid.UUID            `json:"id"`
	Type     NotificationType     `json:"type"`
	Channel  NotificationChannel  `json:"channel"`
	Priority NotificationPriority `json:"priority"`

	// RecipientKey identifies the client: a phone number when given,
	// otherwise the booking client or wizard session
	RecipientKey string `json:"recipient_key"`
	Language     string `json:"language,omitempty"`

	Message      string                 `json:"message"`
	TemplateData map[string]interface{} `json:"template_data,omitempty"`

	BookingRef *string `json:"booking_ref,omitempty"`
	SessionID  *string `json:"session_id,omitempty"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

type NotificationBuilder struct {
	notification *Notification
}

func NewNotificationBuilder() *NotificationBuilder {
	now := time.Now()
	return &NotificationBuilder{
		notification: &Notification{
			ID:           uuid.New(),
			Channel:      NotificationChannelWhatsApp,
			Status:       NotificationStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
			MaxRetries:   3,
			TemplateData: make(map[string]interface{}),
		},
	}
}

func (nb *NotificationBuilder) WithType(notType NotificationType) *NotificationBuilder {
	nb.notification.Type = notType
	nb.notification.Priority = GetDefaultPriority(notType)
	return nb
}

func (nb *NotificationBuilder) WithRecipient(key, language string) *NotificationBuilder {
	nb.notification.RecipientKey = key
	nb.notification.Language = language
	return nb
}

func (nb *NotificationBuilder) WithMessage(message string) *NotificationBuilder {
	nb.notification.Message = message
	return nb
}

func (nb *NotificationBuilder) WithTemplateData(data map[string]interface{}) *NotificationBuilder {
	nb.notification.TemplateData = data
	return nb
}

func (nb *NotificationBuilder) WithBookingContext(bookingRef string) *NotificationBuilder {
	nb.notification.BookingRef = &bookingRef
	return nb
}

func (nb *NotificationBuilder) WithSessionContext(sessionID string) *NotificationBuilder {
	nb.notification.SessionID = &sessionID
	return nb
}

func (nb *NotificationBuilder) WithMaxRetries(maxRetries int) *NotificationBuilder {
	nb.notification.MaxRetries = maxRetries
	return nb
}

func (nb *NotificationBuilder) Build() *Notification {
	return nb.notification
}

func GetDefaultPriority(notType NotificationType) NotificationPriority {
	switch notType {
	case NotificationTypeBookingConfirmed:
		return NotificationPriorityHigh
	case NotificationTypeLoanDecision:
		return NotificationPriorityMedium
	default:
		return NotificationPriorityLow
	}
}

// BookingConfirmed carries what the confirmation message shows
type BookingConfirmed struct {
	RecipientKey  string
	BookingRef    string
	TransactionID string
	MovieTitle    string
	Screen        string
	Tickets       int
	Total         int
	Currency      string
	ShowDate      string
}

// QRPayload is the text encoded into the ticket QR code
func (b BookingConfirmed) QRPayload() string {
	return fmt.Sprintf("BDK|%s|%s|%s|%d", b.BookingRef, b.ShowDate, b.Screen, b.Tickets)
}

// LoanDecision carries the outcome shown on the wizard status page
type LoanDecision struct {
	SessionID string
	Language  string
	LoanType  string
	Status    string
	Message   string
}

func NewBookingConfirmedNotification(b BookingConfirmed) *Notification {
	return NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(b.RecipientKey, "").
		WithMessage(fmt.Sprintf("Booking %s confirmed: %d ticket(s) for %s on %s, screen %s. Paid %s %d.",
			b.BookingRef, b.Tickets, b.MovieTitle, b.ShowDate, b.Screen, b.Currency, b.Total)).
		WithTemplateData(map[string]interface{}{
			"transaction_id": b.TransactionID,
			"movie_title":    b.MovieTitle,
			"screen":         b.Screen,
			"tickets":        b.Tickets,
			"total":          b.Total,
			"currency":       b.Currency,
			"show_date":      b.ShowDate,
			"qr_payload":     b.QRPayload(),
		}).
		WithBookingContext(b.BookingRef).
		Build()
}

func NewLoanDecisionNotification(d LoanDecision) *Notification {
	return NewNotificationBuilder().
		WithType(NotificationTypeLoanDecision).
		WithRecipient(d.SessionID, d.Language).
		WithMessage(d.Message).
		WithTemplateData(map[string]interface{}{
			"loan_type": d.LoanType,
			"status":    d.Status,
		}).
		WithSessionContext(d.SessionID).
		Build()
}

func (n *Notification) GetPartitionKey() string {
	return n.RecipientKey
}

func (n *Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Notification) MarkSent() {
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
	n.UpdatedAt = now
}

func (n *Notification) MarkFailed(err error) {
	n.Status = NotificationStatusFailed
	n.UpdatedAt = time.Now()

	errorStr := err.Error()
	n.LastError = &errorStr
}
