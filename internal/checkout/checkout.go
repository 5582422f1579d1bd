// Package checkout turns a cart plus contact details into a submitted
// order. Validation runs before anything touches the network, and the
// cart is cleared only after the order backend has confirmed acceptance,
// so a failed submission always leaves the cart intact for a retry.
package checkout

import (
	"context"
	"fmt"

	"github.com/Koalla18/TakeSmart/internal/pricing"
)

// ItemSnapshot freezes a cart line at submission time. Later cart
// mutations cannot alter a submitted order.
type ItemSnapshot struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
}

type OrderPayload struct {
	Name            string                 `json:"name"`
	Phone           string                 `json:"phone"`
	Email           string                 `json:"email"`
	Comment         string                 `json:"comment"`
	Items           []ItemSnapshot         `json:"items"`
	TotalAmount     int64                  `json:"total_amount"`
	PaymentMethod   pricing.PaymentMethod  `json:"payment_method"`
	DeliveryMethod  pricing.DeliveryMethod `json:"delivery_method"`
	DeliveryAddress string                 `json:"delivery_address"`
}

type Confirmation struct {
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	TotalAmount int64  `json:"totalAmount"`
}

// OrderPlacer is the order backend the submission goes to. It must make
// success and failure distinguishable; PlaceOrder is called at most once
// per Submit.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, payload OrderPayload) (Confirmation, error)
}

// ValidationError marks a locally detected input problem. No network call
// was made; the user corrects the field and resubmits.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}
