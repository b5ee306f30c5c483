package bookings

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type PaymentState string

const (
	PaymentStateIdle       PaymentState = "idle"
	PaymentStateProcessing PaymentState = "processing"
	PaymentStateSucceeded  PaymentState = "succeeded"
)

var ErrPaymentInProgress = errors.New("a payment is already processing for this client")

// PaymentSimulator fakes a gateway: every call waits a fixed delay and then
// succeeds. There is no decline path. Each client can have one payment in
// flight at a time, like the form's disabled submit button.
type PaymentSimulator struct {
	delay time.Duration
	wait  func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewPaymentSimulator(delay time.Duration) *PaymentSimulator {
	return &PaymentSimulator{
		delay:    delay,
		wait:     sleepContext,
		inFlight: make(map[string]struct{}),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State reports whether the client's payment is processing
func (p *PaymentSimulator) State(clientKey string) PaymentState {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.inFlight[clientKey]; ok {
		return PaymentStateProcessing
	}
	return PaymentStateIdle
}

// Process moves the client to processing for the configured delay and
// returns succeeded. The client is back to idle when Process returns,
// whatever the outcome. A cancelled ctx aborts the wait.
func (p *PaymentSimulator) Process(ctx context.Context, clientKey string) (PaymentState, error) {
	p.mu.Lock()
	if _, busy := p.inFlight[clientKey]; busy {
		p.mu.Unlock()
		return PaymentStateProcessing, ErrPaymentInProgress
	}
	p.inFlight[clientKey] = struct{}{}
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.inFlight, clientKey)
		p.mu.Unlock()
	}()

	if err := p.wait(ctx, p.delay); err != nil {
		return PaymentStateIdle, fmt.Errorf("payment cancelled: %w", err)
	}
	return PaymentStateSucceeded, nil
}
