package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"branchdesk/internal/catalog"
	"branchdesk/internal/notifications"
	"branchdesk/internal/shared/config"
	"branchdesk/pkg/logger"
	"branchdesk/pkg/metrics"

	"github.com/google/uuid"
)

const (
	dateLayout         = "2006-01-02"
	confirmationMsg    = "Booking successful! A WhatsApp message with QR code will be sent shortly."
	bookingStatusFinal = "CONFIRMED"
)

var (
	ErrUnknownScreen      = catalog.ErrUnknownScreen
	ErrNoTickets          = errors.New("please select at least one ticket")
	ErrInvalidShowDate    = errors.New("show date must be in YYYY-MM-DD format")
	ErrShowDateOutOfRange = errors.New("show date is outside the booking window")
)

type Service interface {
	Quote(req QuoteRequest) (*QuoteResponse, error)
	Checkout(ctx context.Context, clientKey string, req CheckoutRequest) (*CheckoutResponse, error)
	Window() BookingWindow
}

type service struct {
	catalog   catalog.Service
	validator *PaymentValidator
	payments  *PaymentSimulator
	notifier  notifications.Publisher
	cfg       config.BookingConfig
	log       *logger.Logger
	now       func() time.Time
}

func NewService(catalogService catalog.Service, notifier notifications.Publisher, cfg config.BookingConfig, log *logger.Logger) Service {
	return &service{
		catalog:   catalogService,
		validator: NewPaymentValidator(),
		payments:  NewPaymentSimulator(cfg.PaymentDelay),
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

func (s *service) Quote(req QuoteRequest) (*QuoteResponse, error) {
	screen, err := s.catalog.GetScreen(req.Screen)
	if err != nil {
		return nil, err
	}

	tickets := req.Tickets.Count()
	metrics.BookingQuotes.WithLabelValues(screen.Code).Inc()

	return &QuoteResponse{
		Screen:   screen,
		Tickets:  tickets,
		Total:    Total(screen, tickets),
		Currency: s.cfg.Currency,
		Window:   s.Window(),
	}, nil
}

// Window is the range of bookable show dates, today through today plus
// the configured number of days
func (s *service) Window() BookingWindow {
	today := startOfDay(s.now())
	return BookingWindow{
		From: today.Format(dateLayout),
		To:   today.AddDate(0, 0, s.cfg.BookingWindowDays).Format(dateLayout),
	}
}

func (s *service) Checkout(ctx context.Context, clientKey string, req CheckoutRequest) (*CheckoutResponse, error) {
	movie, err := s.catalog.GetMovie(req.MovieID)
	if err != nil {
		metrics.BookingCheckouts.WithLabelValues("invalid").Inc()
		return nil, err
	}

	screen, err := s.catalog.GetScreen(req.Screen)
	if err != nil {
		metrics.BookingCheckouts.WithLabelValues("invalid").Inc()
		return nil, err
	}

	tickets := req.Tickets.Count()
	if tickets <= 0 {
		metrics.BookingCheckouts.WithLabelValues("invalid").Inc()
		return nil, ErrNoTickets
	}

	showDate, err := s.resolveShowDate(req.ShowDate)
	if err != nil {
		metrics.BookingCheckouts.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if err := s.validator.Validate(req.Payment); err != nil {
		metrics.BookingCheckouts.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if req.ClientID != "" {
		clientKey = req.ClientID
	}

	started := s.now()
	state, err := s.payments.Process(ctx, clientKey)
	if err != nil {
		if errors.Is(err, ErrPaymentInProgress) {
			metrics.BookingCheckouts.WithLabelValues("busy").Inc()
		} else {
			metrics.BookingCheckouts.WithLabelValues("cancelled").Inc()
		}
		return nil, err
	}
	processedAt := s.now()
	metrics.PaymentDuration.Observe(processedAt.Sub(started).Seconds())

	bookingRef, err := s.generateBookingReference()
	if err != nil {
		metrics.BookingCheckouts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	total := Total(screen, tickets)
	resp := &CheckoutResponse{
		BookingRef: bookingRef,
		Status:     bookingStatusFinal,
		Movie:      MovieSummary{ID: movie.ID, Title: movie.Title, Rating: movie.Rating},
		Screen:     screen.Code,
		Tickets:    tickets,
		Total:      total,
		Currency:   s.cfg.Currency,
		ShowDate:   showDate.Format(dateLayout),
		Payment: PaymentInfo{
			TransactionID: s.generateTransactionID(),
			Amount:        total,
			Currency:      s.cfg.Currency,
			Status:        state,
			ProcessedAt:   processedAt,
		},
		Message:   confirmationMsg,
		CreatedAt: processedAt,
	}

	metrics.BookingCheckouts.WithLabelValues("succeeded").Inc()
	s.log.LogBookingConfirmed(ctx, bookingRef, movie.ID, total)

	recipient := req.Phone
	if recipient == "" {
		recipient = clientKey
	}
	// the booking stands even when the message cannot be queued
	_ = s.notifier.BookingConfirmed(ctx, notifications.BookingConfirmed{
		RecipientKey:  recipient,
		BookingRef:    bookingRef,
		TransactionID: resp.Payment.TransactionID,
		MovieTitle:    movie.Title,
		Screen:        screen.Code,
		Tickets:       tickets,
		Total:         total,
		Currency:      s.cfg.Currency,
		ShowDate:      resp.ShowDate,
	})

	return resp, nil
}

func (s *service) resolveShowDate(raw string) (time.Time, error) {
	now := s.now()
	today := startOfDay(now)

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return today, nil
	}

	date, err := time.ParseInLocation(dateLayout, raw, now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidShowDate
	}

	last := today.AddDate(0, 0, s.cfg.BookingWindowDays)
	if date.Before(today) || date.After(last) {
		return time.Time{}, fmt.Errorf("%w: %s not in %s..%s", ErrShowDateOutOfRange,
			raw, today.Format(dateLayout), last.Format(dateLayout))
	}
	return date, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// generateBookingReference generates a unique booking reference
func (s *service) generateBookingReference() (string, error) {
	timestamp := s.now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("BDK-%s-%s", timestamp, string(randomPart)), nil
}

// generateTransactionID generates a mock transaction ID
func (s *service) generateTransactionID() string {
	shortUUID := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", s.now().Unix(), strings.ToUpper(shortUUID))
}
