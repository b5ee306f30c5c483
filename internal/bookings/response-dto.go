package bookings

import (
	"time"

	"branchdesk/internal/catalog"
)

type BookingWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type QuoteResponse struct {
	Screen   catalog.ScreenClass `json:"screen"`
	Tickets  int                 `json:"tickets"`
	Total    int                 `json:"total"`
	Currency string              `json:"currency"`
	Window   BookingWindow       `json:"booking_window"`
}

type CheckoutResponse struct {
	BookingRef string       `json:"booking_ref"`
	Status     string       `json:"status"`
	Movie      MovieSummary `json:"movie"`
	Screen     string       `json:"screen"`
	Tickets    int          `json:"tickets"`
	Total      int          `json:"total"`
	Currency   string       `json:"currency"`
	ShowDate   string       `json:"show_date"`
	Payment    PaymentInfo  `json:"payment"`
	Message    string       `json:"message"`
	CreatedAt  time.Time    `json:"created_at"`
}

type MovieSummary struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Rating string `json:"rating"`
}

type PaymentInfo struct {
	TransactionID string       `json:"transaction_id"`
	Amount        int          `json:"amount"`
	Currency      string       `json:"currency"`
	Status        PaymentState `json:"status"`
	ProcessedAt   time.Time    `json:"processed_at"`
}
