package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPaymentSimulatorSucceedsAfterDelay(t *testing.T) {
	p := NewPaymentSimulator(10 * time.Millisecond)

	start := time.Now()
	state, err := p.Process(context.Background(), "client")
	require.NoError(t, err)

	assert.Equal(t, PaymentStateSucceeded, state)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, PaymentStateIdle, p.State("client"))
}

func TestPaymentSimulatorRejectsConcurrentSubmit(t *testing.T) {
	p := NewPaymentSimulator(time.Second)

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	p.wait = func(ctx context.Context, _ time.Duration) error {
		entered <- struct{}{}
		<-release
		return nil
	}

	type result struct {
		state PaymentState
		err   error
	}
	done := make(chan result, 1)
	go func() {
		state, err := p.Process(context.Background(), "client")
		done <- result{state, err}
	}()

	<-entered
	assert.Equal(t, PaymentStateProcessing, p.State("client"))

	_, err := p.Process(context.Background(), "client")
	assert.ErrorIs(t, err, ErrPaymentInProgress)

	close(release)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, PaymentStateSucceeded, res.state)
	assert.Equal(t, PaymentStateIdle, p.State("client"))

	// once idle the same client can pay again
	_, err = p.Process(context.Background(), "client")
	<-entered
	assert.NoError(t, err)
}

func TestPaymentSimulatorCancelled(t *testing.T) {
	p := NewPaymentSimulator(time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state, err := p.Process(ctx, "client")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, PaymentStateIdle, state)
	assert.Equal(t, PaymentStateIdle, p.State("client"))
}
