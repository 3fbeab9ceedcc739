package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderStatusTransitions(t *testing.T) {
	all := []OrderStatus{
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}

	allowed := map[OrderStatus]map[OrderStatus]bool{
		OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCancelled: true},
		OrderStatusShipped:    {OrderStatusDelivered: true, OrderStatusCancelled: true},
		OrderStatusDelivered:  {},
		OrderStatusCancelled:  {},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := from.CanTransitionTo(to); got != want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	if OrderStatusProcessing.Terminal() {
		t.Error("Processing should not be terminal")
	}
	if OrderStatusShipped.Terminal() {
		t.Error("Shipped should not be terminal")
	}
	if !OrderStatusDelivered.Terminal() {
		t.Error("Delivered should be terminal")
	}
	if !OrderStatusCancelled.Terminal() {
		t.Error("Cancelled should be terminal")
	}
}

func TestOrderStatusValid(t *testing.T) {
	if !OrderStatusProcessing.Valid() {
		t.Error("Processing should be valid")
	}
	if OrderStatus("Refunded").Valid() {
		t.Error("Refunded should not be valid")
	}
	if OrderStatus("").Valid() {
		t.Error("empty status should not be valid")
	}
}

func TestTotalsConsistent(t *testing.T) {
	order := &Order{
		Subtotal: decimal.NewFromInt(200),
		Shipping: decimal.NewFromInt(20),
		Tax:      decimal.Zero,
		Discount: decimal.Zero,
		Total:    decimal.NewFromInt(220),
	}
	if !order.TotalsConsistent() {
		t.Error("expected totals to be consistent")
	}

	order.Discount = decimal.NewFromInt(10)
	if order.TotalsConsistent() {
		t.Error("expected inconsistency after discount change")
	}

	order.Total = decimal.NewFromInt(210)
	if !order.TotalsConsistent() {
		t.Error("expected consistency with discount applied")
	}
}
