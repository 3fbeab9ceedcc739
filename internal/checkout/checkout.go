package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MohamedInamulHasan/homly-api/internal/cart"
	"github.com/MohamedInamulHasan/homly-api/internal/domain"
)

// ShippingFee is the flat delivery charge applied to every order.
var ShippingFee = decimal.NewFromInt(20)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidSlot = errors.New("delivery slot is not available")
)

var (
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
	zipPattern    = regexp.MustCompile(`^[0-9]{6}$`)
)

// ValidationError reports a single bad or missing address field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateAddress checks the shipping address before anything touches the
// network. Mobile must be 10 digits and zip 6 digits.
func ValidateAddress(a domain.Address) error {
	required := []struct {
		field, value string
	}{
		{"name", a.Name},
		{"street", a.Street},
		{"city", a.City},
		{"zip", a.Zip},
		{"mobile", a.Mobile},
	}
	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field, Message: "is required"}
		}
	}

	if !mobilePattern.MatchString(a.Mobile) {
		return &ValidationError{Field: "mobile", Message: "must be a 10-digit number"}
	}
	if !zipPattern.MatchString(a.Zip) {
		return &ValidationError{Field: "zip", Message: "must be a 6-digit number"}
	}
	return nil
}

// Build converts a cart snapshot plus shipping address and payment choice into
// an order payload. Tax and discount default to zero, so the total is the cart
// subtotal plus the flat shipping fee. The caller clears the cart after the
// payload is accepted.
func Build(c *cart.Cart, address domain.Address, payment domain.Payment, slot time.Time, now time.Time) (*domain.Order, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}

	if err := ValidateAddress(address); err != nil {
		return nil, err
	}

	if !ValidSlot(slot, now) {
		return nil, ErrInvalidSlot
	}

	lines := make([]domain.OrderLine, 0, c.Len())
	for _, l := range c.Lines() {
		lines = append(lines, domain.OrderLine{
			ProductID: l.ProductID,
			Title:     l.Title,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Image:     l.Image,
			StoreID:   l.StoreID,
		})
	}

	subtotal := c.Subtotal()

	return &domain.Order{
		Lines:             lines,
		ShippingAddress:   address,
		Payment:           payment,
		Subtotal:          subtotal,
		Shipping:          ShippingFee,
		Tax:               decimal.Zero,
		Discount:          decimal.Zero,
		Total:             subtotal.Add(ShippingFee),
		Status:            domain.OrderStatusProcessing,
		ScheduledDelivery: &slot,
	}, nil
}
