package orders

import (
	"errors"
	"testing"

	"bazaar/models"
)

func testCatalog() map[string]models.Product {
	return map[string]models.Product{
		"p1": {ProductID: "p1", Name: "Widget", Price: 9.99},
		"p2": {ProductID: "p2", Name: "Gadget", Price: 25},
	}
}

func TestPriceItems(t *testing.T) {
	items, total, err := PriceItems(testCatalog(), []ItemRequest{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("PriceItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Name != "Widget" || items[0].Price != 9.99 || items[0].Quantity != 2 {
		t.Errorf("first line = %+v", items[0])
	}
	if want := 2*9.99 + 25; total != want {
		t.Errorf("total = %v, want %v", total, want)
	}
}

func TestPriceItemsIgnoresClientPrice(t *testing.T) {
	// The request type carries no price field at all, so whatever the
	// client sent for a line is replaced by the stored product price.
	items, _, err := PriceItems(testCatalog(), []ItemRequest{{ProductID: "p2", Quantity: 3}})
	if err != nil {
		t.Fatalf("PriceItems: %v", err)
	}
	if items[0].Price != 25 {
		t.Errorf("price = %v, want catalog price 25", items[0].Price)
	}
}

func TestPriceItemsErrors(t *testing.T) {
	tests := []struct {
		name  string
		items []ItemRequest
		want  error
	}{
		{"empty order", nil, ErrNoItems},
		{"unknown product", []ItemRequest{{ProductID: "ghost", Quantity: 1}}, ErrUnknownProduct},
		{"zero quantity", []ItemRequest{{ProductID: "p1", Quantity: 0}}, ErrBadQuantity},
		{"negative quantity", []ItemRequest{{ProductID: "p1", Quantity: -2}}, ErrBadQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := PriceItems(testCatalog(), tt.items)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCanAccess(t *testing.T) {
	owner := &models.User{UserID: "u1", Role: models.RoleUser}
	stranger := &models.User{UserID: "u2", Role: models.RoleUser}
	admin := &models.User{UserID: "u3", Role: models.RoleAdmin}
	order := &models.Order{OrderID: "o1", UserID: "u1"}

	if !CanAccess(owner, order) {
		t.Error("owner denied access to own order")
	}
	if CanAccess(stranger, order) {
		t.Error("non-owner granted access")
	}
	if !CanAccess(admin, order) {
		t.Error("admin denied access")
	}
}

func TestValidStatusValues(t *testing.T) {
	for _, s := range []string{models.PaymentPending, models.PaymentCompleted, models.PaymentFailed} {
		if !models.ValidPaymentStatus(s) {
			t.Errorf("ValidPaymentStatus(%q) = false", s)
		}
	}
	if models.ValidPaymentStatus("refunded") {
		t.Error("unknown payment status accepted")
	}

	for _, s := range []string{models.OrderProcessing, models.OrderShipped, models.OrderDelivered, models.OrderCancelled} {
		if !models.ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = false", s)
		}
	}
	if models.ValidOrderStatus("lost") {
		t.Error("unknown order status accepted")
	}
}
