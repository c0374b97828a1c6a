// Package latency models the simulated backend round trip that precedes every
// store mutation. Delays live here instead of inside state transitions so a
// real backend, or no delay at all, can be swapped in.
package latency

import (
	"context"
	"time"

	"github.com/angelmondragon/dryfruit-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/dryfruit-backend/pkg/errors"
)

// Operation names a delayed store call.
type Operation string

const (
	OpPlaceOrder     Operation = "orders.place"
	OpCancelOrder    Operation = "orders.cancel"
	OpUpdateStatus   Operation = "orders.update_status"
	OpLogin          Operation = "users.login"
	OpVerifyOTP      Operation = "users.verify_otp"
	OpDeliveryMutate Operation = "delivery.mutate"
	OpAdminLogin     Operation = "admin.login"
)

// Simulator blocks for the configured delay of an operation.
type Simulator interface {
	Wait(ctx context.Context, op Operation) error
}

// Observer receives the time actually spent waiting.
type Observer interface {
	ObserveLatency(op string, d time.Duration)
}

// Fixed applies a constant delay per operation.
type Fixed struct {
	delays   map[Operation]time.Duration
	observer Observer
}

// NewFixed builds a simulator from explicit delays.
func NewFixed(delays map[Operation]time.Duration, observer Observer) *Fixed {
	copied := make(map[Operation]time.Duration, len(delays))
	for op, d := range delays {
		copied[op] = d
	}
	return &Fixed{delays: copied, observer: observer}
}

// FromConfig returns the configured simulator, or None when latency is disabled.
func FromConfig(cfg config.LatencyConfig, observer Observer) Simulator {
	if !cfg.Enabled {
		return None{}
	}
	return NewFixed(map[Operation]time.Duration{
		OpPlaceOrder:     cfg.PlaceOrder,
		OpCancelOrder:    cfg.CancelOrder,
		OpUpdateStatus:   cfg.UpdateStatus,
		OpLogin:          cfg.Login,
		OpVerifyOTP:      cfg.VerifyOTP,
		OpDeliveryMutate: cfg.DeliveryMutate,
		OpAdminLogin:     cfg.AdminLogin,
	}, observer)
}

// Delay returns the configured delay for op.
func (f *Fixed) Delay(op Operation) time.Duration {
	if f == nil {
		return 0
	}
	return f.delays[op]
}

// Wait sleeps for the operation's delay or until ctx is done.
func (f *Fixed) Wait(ctx context.Context, op Operation) error {
	d := f.Delay(op)
	if d <= 0 {
		return interrupted(ctx, op)
	}
	start := time.Now()
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return interrupted(ctx, op)
	case <-timer.C:
	}
	if f.observer != nil {
		f.observer.ObserveLatency(string(op), time.Since(start))
	}
	return nil
}

// None never delays. It still reports a cancelled context.
type None struct{}

func (None) Wait(ctx context.Context, op Operation) error {
	return interrupted(ctx, op)
}

// interrupted reports a finished context as a cancelled request. The
// context error stays in the chain.
func interrupted(ctx context.Context, op Operation) error {
	if err := ctx.Err(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeCanceled, err, string(op)+" interrupted")
	}
	return nil
}
