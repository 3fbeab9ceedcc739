package checkout

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MohamedInamulHasan/homly-api/internal/cart"
	"github.com/MohamedInamulHasan/homly-api/internal/domain"
)

func validAddress() domain.Address {
	return domain.Address{
		Name:    "Asha Nair",
		Street:  "12 Beach Road",
		City:    "Kochi",
		Zip:     "682001",
		Country: "IN",
		Mobile:  "9876543210",
	}
}

func cartWith(t *testing.T, lines ...cart.Line) *cart.Cart {
	t.Helper()
	c := cart.New("test", cart.NewMemoryStorage(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	for _, l := range lines {
		for q := 0; q < l.Quantity; q++ {
			c.Add(t.Context(), cart.Line{ProductID: l.ProductID, Title: l.Title, UnitPrice: l.UnitPrice})
		}
	}
	return c
}

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Address)
		wantErr string
	}{
		{"valid", func(a *domain.Address) {}, ""},
		{"missing name", func(a *domain.Address) { a.Name = "" }, "name"},
		{"missing street", func(a *domain.Address) { a.Street = "" }, "street"},
		{"missing city", func(a *domain.Address) { a.City = "" }, "city"},
		{"missing zip", func(a *domain.Address) { a.Zip = "" }, "zip"},
		{"missing mobile", func(a *domain.Address) { a.Mobile = "" }, "mobile"},
		{"short mobile", func(a *domain.Address) { a.Mobile = "12345" }, "mobile"},
		{"alpha mobile", func(a *domain.Address) { a.Mobile = "987654321x" }, "mobile"},
		{"short zip", func(a *domain.Address) { a.Zip = "6820" }, "zip"},
		{"alpha zip", func(a *domain.Address) { a.Zip = "68200a" }, "zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAddress()
			tt.mutate(&a)
			err := ValidateAddress(a)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantErr {
				t.Errorf("expected field %q, got %q", tt.wantErr, verr.Field)
			}
		})
	}
}

func TestDeliverySlots(t *testing.T) {
	t.Run("rounds up to next half hour", func(t *testing.T) {
		// 10:07 + 30min = 10:37 -> first slot 11:00
		now := time.Date(2026, 3, 14, 10, 7, 0, 0, time.UTC)
		slots := DeliverySlots(now)

		want := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
		if !slots[0].Equal(want) {
			t.Errorf("expected first slot %v, got %v", want, slots[0])
		}

		last := slots[len(slots)-1]
		wantLast := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
		if !last.Equal(wantLast) {
			t.Errorf("expected last slot %v, got %v", wantLast, last)
		}
	})

	t.Run("aligned time stays on the half hour", func(t *testing.T) {
		// 10:00 + 30min = 10:30 exactly
		now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
		slots := DeliverySlots(now)

		want := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
		if !slots[0].Equal(want) {
			t.Errorf("expected first slot %v, got %v", want, slots[0])
		}
	})

	t.Run("slots are 30 minutes apart", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
		slots := DeliverySlots(now)

		for i := 1; i < len(slots); i++ {
			if slots[i].Sub(slots[i-1]) != 30*time.Minute {
				t.Fatalf("slots %d and %d are %v apart", i-1, i, slots[i].Sub(slots[i-1]))
			}
		}
	})

	t.Run("rolls to 9am next day after window elapses", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 23, 15, 0, 0, time.UTC)
		slots := DeliverySlots(now)

		want := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
		if !slots[0].Equal(want) {
			t.Errorf("expected first slot %v, got %v", want, slots[0])
		}
		wantLast := time.Date(2026, 3, 15, 23, 30, 0, 0, time.UTC)
		if !slots[len(slots)-1].Equal(wantLast) {
			t.Errorf("expected last slot %v, got %v", wantLast, slots[len(slots)-1])
		}
	})

	t.Run("just before midnight rolls to 9am", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 23, 45, 0, 0, time.UTC)
		slots := DeliverySlots(now)

		want := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
		if !slots[0].Equal(want) {
			t.Errorf("expected first slot %v, got %v", want, slots[0])
		}
	})

	t.Run("23:00 still has the 23:30 slot", func(t *testing.T) {
		now := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
		slots := DeliverySlots(now)

		if len(slots) != 1 {
			t.Fatalf("expected exactly one slot, got %d", len(slots))
		}
		want := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
		if !slots[0].Equal(want) {
			t.Errorf("expected slot %v, got %v", want, slots[0])
		}
	})
}

func TestValidSlot(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	if !ValidSlot(time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC), now) {
		t.Error("expected 12:30 to be valid")
	}
	if ValidSlot(time.Date(2026, 3, 14, 12, 45, 0, 0, time.UTC), now) {
		t.Error("expected unaligned 12:45 to be invalid")
	}
	if ValidSlot(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC), now) {
		t.Error("expected a slot before now+30min to be invalid")
	}
	if ValidSlot(time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC), now) {
		t.Error("expected a next-day slot to be invalid while today's window is open")
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	slot := time.Date(2026, 3, 14, 12, 30, 0, 0, time.UTC)
	payment := domain.Payment{Type: "cod"}

	t.Run("computes total from subtotal plus shipping fee", func(t *testing.T) {
		c := cartWith(t, cart.Line{ProductID: "p1", Title: "Basmati Rice", UnitPrice: decimal.NewFromInt(100), Quantity: 2})

		order, err := Build(c, validAddress(), payment, slot, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if want := decimal.NewFromInt(200); !order.Subtotal.Equal(want) {
			t.Errorf("expected subtotal %s, got %s", want, order.Subtotal)
		}
		if want := decimal.NewFromInt(220); !order.Total.Equal(want) {
			t.Errorf("expected total %s, got %s", want, order.Total)
		}
		if !order.Tax.IsZero() || !order.Discount.IsZero() {
			t.Errorf("expected zero tax and discount, got %s and %s", order.Tax, order.Discount)
		}
		if order.Status != domain.OrderStatusProcessing {
			t.Errorf("expected status Processing, got %s", order.Status)
		}
		if !order.TotalsConsistent() {
			t.Error("expected factory order to satisfy the total invariant")
		}
		if order.ScheduledDelivery == nil || !order.ScheduledDelivery.Equal(slot) {
			t.Errorf("expected scheduled delivery %v, got %v", slot, order.ScheduledDelivery)
		}
		if len(order.Lines) != 1 || order.Lines[0].Quantity != 2 {
			t.Errorf("unexpected lines: %+v", order.Lines)
		}
	})

	t.Run("rejects empty cart", func(t *testing.T) {
		c := cartWith(t)
		if _, err := Build(c, validAddress(), payment, slot, now); !errors.Is(err, ErrEmptyCart) {
			t.Errorf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("rejects bad address", func(t *testing.T) {
		c := cartWith(t, cart.Line{ProductID: "p1", UnitPrice: decimal.NewFromInt(10), Quantity: 1})
		addr := validAddress()
		addr.Mobile = "123"

		var verr *ValidationError
		if _, err := Build(c, addr, payment, slot, now); !errors.As(err, &verr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})

	t.Run("rejects slot outside the window", func(t *testing.T) {
		c := cartWith(t, cart.Line{ProductID: "p1", UnitPrice: decimal.NewFromInt(10), Quantity: 1})
		stale := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

		if _, err := Build(c, validAddress(), payment, stale, now); !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("expected ErrInvalidSlot, got %v", err)
		}
	})
}
