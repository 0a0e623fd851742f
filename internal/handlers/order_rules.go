package handlers

import (
	"fmt"
	"time"

	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

// statusSequence is the forward-only lifecycle. Cancelled is not part of the
// sequence: it is a terminal exit reachable from any non-terminal state.
var statusSequence = []string{
	models.OrderStatusPending,
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
}

func statusIndex(status string) int {
	for i, s := range statusSequence {
		if s == status {
			return i
		}
	}
	return -1
}

func isValidOrderStatus(status string) bool {
	return status == models.OrderStatusCancelled || statusIndex(status) >= 0
}

func isValidPaymentStatus(status string) bool {
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusPaid, models.PaymentStatusFailed:
		return true
	}
	return false
}

type invalidTransitionError struct {
	Message string
}

func (e invalidTransitionError) Error() string { return e.Message }

// checkStatusTransition enforces the order state machine: delivered and
// cancelled absorb (no outgoing transitions, not even to themselves),
// cancellation is reachable from every other state, and any other target must
// not move backward in the lifecycle sequence.
func checkStatusTransition(current, requested string) error {
	switch current {
	case models.OrderStatusDelivered:
		return invalidTransitionError{Message: "Cannot change status of delivered orders"}
	case models.OrderStatusCancelled:
		return invalidTransitionError{Message: "Cannot change status of cancelled orders"}
	}

	if requested == models.OrderStatusCancelled {
		return nil
	}

	requestedIdx := statusIndex(requested)
	if requestedIdx < 0 {
		return invalidTransitionError{Message: fmt.Sprintf("Invalid order status: %s", requested)}
	}
	if requestedIdx < statusIndex(current) {
		return invalidTransitionError{Message: "Cannot reverse order status. Status can only move forward."}
	}
	return nil
}

// buildOrderNumber combines the order prefix, the low-order 8 digits of the
// creation timestamp in milliseconds, and the zero-padded order sequence.
// Generated once at creation; the sequence comes from an atomic counter.
func buildOrderNumber(prefix string, createdAt time.Time, seq int64) string {
	millis := fmt.Sprintf("%d", createdAt.UnixMilli())
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return fmt.Sprintf("%s%s%03d", prefix, millis, seq)
}

type productNotFoundError struct {
	ProductID string
}

func (e productNotFoundError) Error() string {
	return fmt.Sprintf("Product %s not found", e.ProductID)
}

type insufficientStockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e insufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s", e.Name)
}
