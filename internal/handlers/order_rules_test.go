package handlers

import (
	"testing"
	"time"

	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

func TestStatusTransitionForwardStepsSucceed(t *testing.T) {
	steps := [][2]string{
		{models.OrderStatusPending, models.OrderStatusProcessing},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
	}
	for _, step := range steps {
		if err := checkStatusTransition(step[0], step[1]); err != nil {
			t.Errorf("%s -> %s should succeed, got %v", step[0], step[1], err)
		}
	}
}

func TestStatusTransitionSameStatusAllowedWhenNotTerminal(t *testing.T) {
	if err := checkStatusTransition(models.OrderStatusProcessing, models.OrderStatusProcessing); err != nil {
		t.Fatalf("processing -> processing should succeed, got %v", err)
	}
}

func TestStatusTransitionReversalFails(t *testing.T) {
	reversals := [][2]string{
		{models.OrderStatusProcessing, models.OrderStatusPending},
		{models.OrderStatusShipped, models.OrderStatusProcessing},
		{models.OrderStatusShipped, models.OrderStatusPending},
	}
	for _, step := range reversals {
		if err := checkStatusTransition(step[0], step[1]); err == nil {
			t.Errorf("%s -> %s must fail", step[0], step[1])
		}
	}
}

func TestTerminalStatusesAbsorb(t *testing.T) {
	for _, terminal := range []string{models.OrderStatusDelivered, models.OrderStatusCancelled} {
		for _, requested := range []string{
			models.OrderStatusPending,
			models.OrderStatusProcessing,
			models.OrderStatusShipped,
			models.OrderStatusDelivered,
			models.OrderStatusCancelled,
		} {
			if err := checkStatusTransition(terminal, requested); err == nil {
				t.Errorf("%s -> %s must fail: terminal states have no outgoing transitions", terminal, requested)
			}
		}
	}
}

func TestCancelledReachableFromNonTerminalStates(t *testing.T) {
	for _, current := range []string{
		models.OrderStatusPending,
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
	} {
		if err := checkStatusTransition(current, models.OrderStatusCancelled); err != nil {
			t.Errorf("%s -> cancelled should succeed, got %v", current, err)
		}
	}
}

func TestStatusTransitionRejectsUnknownStatus(t *testing.T) {
	if err := checkStatusTransition(models.OrderStatusPending, "returned"); err == nil {
		t.Fatal("unknown status must fail")
	}
}

func TestBuildOrderNumberFormat(t *testing.T) {
	// unix millis 1712345678: the low-order 8 digits are 12345678
	createdAt := time.UnixMilli(1712345678)

	got := buildOrderNumber("CC", createdAt, 3)
	if got != "CC12345678003" {
		t.Fatalf("buildOrderNumber = %q, want CC12345678003", got)
	}
}

func TestBuildOrderNumberSequencePadding(t *testing.T) {
	createdAt := time.UnixMilli(1712345678)

	if got := buildOrderNumber("CC", createdAt, 42); got != "CC12345678042" {
		t.Fatalf("expected zero-padded sequence, got %q", got)
	}
	// beyond 999 the sequence keeps its full width
	if got := buildOrderNumber("CC", createdAt, 1234); got != "CC123456781234" {
		t.Fatalf("expected unpadded wide sequence, got %q", got)
	}
}

func TestIsValidPaymentStatus(t *testing.T) {
	for _, valid := range []string{"pending", "paid", "failed"} {
		if !isValidPaymentStatus(valid) {
			t.Errorf("%q should be valid", valid)
		}
	}
	if isValidPaymentStatus("refunded") {
		t.Error("refunded is not a payment status")
	}
}
