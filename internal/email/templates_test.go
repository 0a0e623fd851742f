package email

import (
	"strings"
	"testing"
	"time"

	"github.com/classiccarrry/classic-carrry-backend/internal/models"
)

func sampleOrder() models.Order {
	return models.Order{
		OrderNumber: "CC12345678001",
		Customer: models.OrderCustomer{
			Email:     "jane@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			Phone:     "+92 300 0000000",
			Address:   "House 1, Street 2",
			City:      "Lahore",
			Province:  "Punjab",
		},
		Items: []models.OrderItem{
			{ProductID: "cap-01", Name: "Classic Cap", Price: 1500, Quantity: 2, Image: "cap.jpg", Color: "Black"},
		},
		Pricing:   models.OrderPricing{Subtotal: 3000, DeliveryCharge: 0, Total: 3000},
		Status:    models.OrderStatusPending,
		CreatedAt: time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestFormatAmountGroupsThousands(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		300:      "300",
		1500:     "1,500",
		10000:    "10,000",
		1234567:  "1,234,567",
		2500.50:  "2,500.50",
		-1500:    "-1,500",
		999999.9: "999,999.90",
	}
	for amount, want := range cases {
		if got := FormatAmount(amount); got != want {
			t.Errorf("FormatAmount(%v) = %q, want %q", amount, got, want)
		}
	}
}

func TestOrderConfirmationModelSnapshotsItems(t *testing.T) {
	model := NewOrderConfirmationModel(sampleOrder())

	if model.CustomerName != "Jane Doe" {
		t.Fatalf("unexpected customer name %q", model.CustomerName)
	}
	if len(model.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(model.Items))
	}
	if model.Items[0].Variant != "Color: Black" {
		t.Fatalf("unexpected variant %q", model.Items[0].Variant)
	}
	if model.Items[0].LineTotal != "3,000" {
		t.Fatalf("unexpected line total %q", model.Items[0].LineTotal)
	}
	if !model.FreeDelivery {
		t.Fatal("expected free delivery for zero delivery charge")
	}
}

func TestRenderOrderConfirmationContainsOrderNumber(t *testing.T) {
	html, err := RenderOrderConfirmation(NewOrderConfirmationModel(sampleOrder()))
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(html, "CC12345678001") {
		t.Fatal("expected order number in rendered confirmation")
	}
	if !strings.Contains(html, "FREE") {
		t.Fatal("expected FREE delivery marker in rendered confirmation")
	}
}

func TestStatusUpdateModelKnownStatuses(t *testing.T) {
	order := sampleOrder()

	for _, status := range []string{
		models.OrderStatusProcessing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
	} {
		model, ok := NewStatusUpdateModel(order, status, "https://classiccarrry.com/")
		if !ok {
			t.Fatalf("expected template copy for status %q", status)
		}
		if model.Status != strings.ToUpper(status) {
			t.Fatalf("expected uppercased status, got %q", model.Status)
		}
		if model.ProfileURL != "https://classiccarrry.com/profile" {
			t.Fatalf("unexpected profile url %q", model.ProfileURL)
		}
	}
}

func TestStatusUpdateModelPendingHasNoCopy(t *testing.T) {
	if _, ok := NewStatusUpdateModel(sampleOrder(), models.OrderStatusPending, ""); ok {
		t.Fatal("pending must not produce a customer notification")
	}
}

func TestRenderStatusUpdateEscapesCustomerInput(t *testing.T) {
	order := sampleOrder()
	order.Customer.FirstName = "<script>alert(1)</script>"

	model, ok := NewStatusUpdateModel(order, models.OrderStatusShipped, "")
	if !ok {
		t.Fatal("expected shipped copy")
	}
	html, err := RenderStatusUpdate(model)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Fatal("customer input must be escaped in rendered html")
	}
}
