package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"branchdesk/internal/catalog"
	"branchdesk/internal/notifications"
	"branchdesk/internal/shared/config"
	"branchdesk/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu       sync.Mutex
	bookings []notifications.BookingConfirmed
	err      error
}

func (f *fakeNotifier) BookingConfirmed(_ context.Context, b notifications.BookingConfirmed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, b)
	return f.err
}

func (f *fakeNotifier) LoanDecided(context.Context, notifications.LoanDecision) error {
	return nil
}

var fixedNow = time.Date(2026, time.October, 15, 18, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, notifier notifications.Publisher) *service {
	t.Helper()

	cat, err := catalog.NewService(context.Background(), catalog.NewEmbeddedRepository())
	require.NoError(t, err)

	svc := NewService(cat, notifier, config.BookingConfig{
		PaymentDelay:      0,
		BookingWindowDays: 7,
		Currency:          "INR",
	}, logger.Discard()).(*service)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func validCheckout() CheckoutRequest {
	return CheckoutRequest{
		MovieID:  5,
		Screen:   "B",
		Tickets:  "3",
		ShowDate: "2026-10-17",
		Payment:  validPayment(),
	}
}

func TestQuote(t *testing.T) {
	svc := newTestService(t, &fakeNotifier{})

	q, err := svc.Quote(QuoteRequest{Screen: "A", Tickets: "4"})
	require.NoError(t, err)
	assert.Equal(t, 2000, q.Total)
	assert.Equal(t, "INR", q.Currency)
	assert.Equal(t, BookingWindow{From: "2026-10-15", To: "2026-10-22"}, q.Window)

	q, err = svc.Quote(QuoteRequest{Screen: "c", Tickets: "abc"})
	require.NoError(t, err)
	assert.Equal(t, 0, q.Total)

	_, err = svc.Quote(QuoteRequest{Screen: "Z", Tickets: "1"})
	assert.ErrorIs(t, err, ErrUnknownScreen)
}

func TestCheckoutConfirmsAndNotifies(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(t, notifier)

	req := validCheckout()
	req.Phone = "+919876543210"

	resp, err := svc.Checkout(context.Background(), "10.0.0.1", req)
	require.NoError(t, err)

	assert.Regexp(t, `^BDK-20261015-[A-Z]{6}$`, resp.BookingRef)
	assert.Regexp(t, `^TXN_\d+_[0-9A-F]{8}$`, resp.Payment.TransactionID)
	assert.Equal(t, "CONFIRMED", resp.Status)
	assert.Equal(t, PaymentStateSucceeded, resp.Payment.Status)
	assert.Equal(t, 900, resp.Total)
	assert.Equal(t, 900, resp.Payment.Amount)
	assert.Equal(t, "Quantum Heist", resp.Movie.Title)
	assert.Equal(t, "2026-10-17", resp.ShowDate)
	assert.Contains(t, resp.Message, "WhatsApp")

	require.Len(t, notifier.bookings, 1)
	sent := notifier.bookings[0]
	assert.Equal(t, "+919876543210", sent.RecipientKey)
	assert.Equal(t, resp.BookingRef, sent.BookingRef)
	assert.Equal(t, 3, sent.Tickets)
}

func TestCheckoutDefaultsShowDateAndRecipient(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(t, notifier)

	req := validCheckout()
	req.ShowDate = ""

	resp, err := svc.Checkout(context.Background(), "10.0.0.1", req)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-15", resp.ShowDate)
	assert.Equal(t, "10.0.0.1", notifier.bookings[0].RecipientKey)
}

func TestCheckoutSurvivesNotifierFailure(t *testing.T) {
	svc := newTestService(t, &fakeNotifier{err: errors.New("broker down")})

	_, err := svc.Checkout(context.Background(), "10.0.0.1", validCheckout())
	assert.NoError(t, err)
}

func TestCheckoutRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CheckoutRequest)
		check  func(t *testing.T, err error)
	}{
		{"unknown movie", func(r *CheckoutRequest) { r.MovieID = 99 }, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, catalog.ErrMovieNotFound)
		}},
		{"unknown screen", func(r *CheckoutRequest) { r.Screen = "E" }, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnknownScreen)
		}},
		{"zero tickets", func(r *CheckoutRequest) { r.Tickets = "0" }, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNoTickets)
		}},
		{"bad date", func(r *CheckoutRequest) { r.ShowDate = "17/10/2026" }, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrInvalidShowDate)
		}},
		{"yesterday", func(r *CheckoutRequest) { r.ShowDate = "2026-10-14" }, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrShowDateOutOfRange)
		}},
		{"past window", func(r *CheckoutRequest) { r.ShowDate = "2026-10-23" }, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrShowDateOutOfRange)
		}},
		{"bad card", func(r *CheckoutRequest) { r.Payment.CVV = "1" }, func(t *testing.T, err error) {
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "cvv", verr.Fields[0].Field)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := &fakeNotifier{}
			svc := newTestService(t, notifier)

			req := validCheckout()
			tt.mutate(&req)

			resp, err := svc.Checkout(context.Background(), "10.0.0.1", req)
			assert.Nil(t, resp)
			tt.check(t, err)
			assert.Empty(t, notifier.bookings)
		})
	}
}

func TestCheckoutWindowEdgesAccepted(t *testing.T) {
	svc := newTestService(t, &fakeNotifier{})

	for _, date := range []string{"2026-10-15", "2026-10-22"} {
		req := validCheckout()
		req.ShowDate = date
		_, err := svc.Checkout(context.Background(), "10.0.0.1", req)
		assert.NoError(t, err, date)
	}
}
