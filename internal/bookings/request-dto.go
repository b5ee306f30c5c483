package bookings

import (
	"bytes"
	"encoding/json"
)

// TicketInput is the ticket count exactly as typed. Clients may send it as
// a JSON string or number; either way it is parsed with ParseTickets.
type TicketInput string

func (t *TicketInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TicketInput(s)
		return nil
	}
	*t = TicketInput(data)
	return nil
}

func (t TicketInput) Count() int {
	return ParseTickets(string(t))
}

type QuoteRequest struct {
	Screen  string      `json:"screen" binding:"required"`
	Tickets TicketInput `json:"tickets"`
}

type CheckoutRequest struct {
	MovieID  int         `json:"movie_id" binding:"required"`
	Screen   string      `json:"screen" binding:"required"`
	Tickets  TicketInput `json:"tickets"`
	ShowDate string      `json:"show_date"` // YYYY-MM-DD, defaults to today
	Phone    string      `json:"phone" binding:"omitempty,e164"`
	// ClientID scopes the one-payment-at-a-time rule; defaults to the caller's IP
	ClientID string         `json:"client_id" binding:"omitempty,max=64"`
	Payment  PaymentDetails `json:"payment"`
}
