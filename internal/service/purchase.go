package service

import (
	"context"
	"time"

	"nft-storefront/internal/client"
	"nft-storefront/internal/config"
	"nft-storefront/internal/model"
)

// Observable purchase states. Backend pending and processing both
// display as processing; completed is terminal success; failed and
// cancelled are terminal failure.
type PurchaseState string

const (
	StateLoading    PurchaseState = "loading"
	StateProcessing PurchaseState = "processing"
	StateSuccess    PurchaseState = "success"
	StateFailed     PurchaseState = "failed"
)

const msgInvalidLink = "Invalid purchase link"

type StatusUpdate struct {
	State   PurchaseState        `json:"state"`
	Message string               `json:"message,omitempty"`
	Detail  *model.PaymentStatus `json:"detail,omitempty"`
}

// StatusWatcher polls the backend payment status for one transaction
// reference until it reaches a terminal state. Requests are
// serialized: the next poll is armed only after the previous response
// is mapped, so there is never more than one in flight.
type StatusWatcher struct {
	payments    client.PaymentClient
	interval    time.Duration
	maxAttempts int
}

func NewStatusWatcher(payments client.PaymentClient, paymentCfg *config.Payment) *StatusWatcher {
	return &StatusWatcher{
		payments:    payments,
		interval:    paymentCfg.PollInterval,
		maxAttempts: paymentCfg.MaxPollAttempts,
	}
}

// Check performs a single status fetch and maps it, for callers that
// drive their own retry (the manual "check payment status" action).
func (w *StatusWatcher) Check(ctx context.Context, transactionID string) StatusUpdate {
	if transactionID == "" {
		return StatusUpdate{State: StateFailed, Message: msgInvalidLink}
	}

	status, err := w.payments.Status(ctx, transactionID)
	if err != nil {
		// A transport failure renders the same as a business failure.
		return StatusUpdate{State: StateFailed, Message: err.Error()}
	}
	return mapStatus(status)
}

// Watch emits the state of the purchase until it is terminal, the
// attempt bound is exhausted, or ctx is cancelled. A missing
// transaction reference fails immediately without any network call.
// The channel closes when polling stops.
func (w *StatusWatcher) Watch(ctx context.Context, transactionID string) <-chan StatusUpdate {
	updates := make(chan StatusUpdate)

	go func() {
		defer close(updates)

		if transactionID == "" {
			send(ctx, updates, StatusUpdate{State: StateFailed, Message: msgInvalidLink})
			return
		}

		attempts := 0
		for {
			status, err := w.payments.Status(ctx, transactionID)
			attempts++
			if err != nil {
				send(ctx, updates, StatusUpdate{State: StateFailed, Message: err.Error()})
				return
			}

			update := mapStatus(status)
			if !send(ctx, updates, update) {
				return
			}
			if status.Terminal() {
				return
			}
			if status.Status != model.PaymentPending && status.Status != model.PaymentProcessing {
				// Unknown status: shown as processing, not polled again.
				return
			}
			if w.maxAttempts > 0 && attempts >= w.maxAttempts {
				send(ctx, updates, StatusUpdate{
					State:   StateFailed,
					Message: "Timed out waiting for payment confirmation",
					Detail:  status,
				})
				return
			}

			timer := time.NewTimer(w.interval)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return
			}
		}
	}()

	return updates
}

func mapStatus(status *model.PaymentStatus) StatusUpdate {
	switch status.Status {
	case model.PaymentCompleted:
		return StatusUpdate{State: StateSuccess, Detail: status}
	case model.PaymentFailed, model.PaymentCancelled:
		return StatusUpdate{State: StateFailed, Message: "Payment was unsuccessful", Detail: status}
	case model.PaymentPending, model.PaymentProcessing:
		return StatusUpdate{State: StateProcessing, Detail: status}
	default:
		// Unknown statuses display as processing but do not re-arm.
		return StatusUpdate{State: StateProcessing, Detail: status}
	}
}

func send(ctx context.Context, ch chan<- StatusUpdate, u StatusUpdate) bool {
	select {
	case ch <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
