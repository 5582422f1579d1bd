package checkout

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Koalla18/TakeSmart/internal/cart"
	"github.com/Koalla18/TakeSmart/internal/pricing"
)

// Request carries the contact form and the selected checkout options.
type Request struct {
	Name            string                 `json:"name"`
	Phone           string                 `json:"phone"`
	Email           string                 `json:"email"`
	Comment         string                 `json:"comment"`
	PaymentMethod   pricing.PaymentMethod  `json:"payment_method"`
	DeliveryMethod  pricing.DeliveryMethod `json:"delivery_method"`
	DeliveryAddress string                 `json:"delivery_address"`
}

type Service struct {
	placer OrderPlacer
	logger *log.Logger
}

func NewService(placer OrderPlacer, logger *log.Logger) *Service {
	return &Service{placer: placer, logger: logger}
}

// Submit validates the request, snapshots the cart into an OrderPayload,
// places the order, and clears the cart once the backend has accepted it.
// Validation failures are returned as *ValidationError before any call to
// the order backend.
func (s *Service) Submit(ctx context.Context, c *cart.Store, req Request) (Confirmation, error) {
	if err := validate(c, req); err != nil {
		return Confirmation{}, err
	}

	quote, err := pricing.MakeQuote(c.Subtotal(), req.PaymentMethod, req.DeliveryMethod)
	if err != nil {
		return Confirmation{}, &ValidationError{Field: "payment_method", Reason: err.Error()}
	}

	payload := OrderPayload{
		Name:            strings.TrimSpace(req.Name),
		Phone:           strings.TrimSpace(req.Phone),
		Email:           strings.TrimSpace(req.Email),
		Comment:         req.Comment,
		TotalAmount:     quote.Total,
		PaymentMethod:   req.PaymentMethod,
		DeliveryMethod:  req.DeliveryMethod,
		DeliveryAddress: pricing.ResolveAddress(req.DeliveryMethod, req.DeliveryAddress),
	}
	for _, it := range c.Items() {
		payload.Items = append(payload.Items, ItemSnapshot{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
			Image:     it.Product.Image,
		})
	}

	conf, err := s.placer.PlaceOrder(ctx, payload)
	if err != nil {
		// Cart stays intact so the user can resubmit
		return Confirmation{}, fmt.Errorf("place order: %w", err)
	}

	c.Clear(ctx)
	s.logger.Printf("order %s placed, total %d", conf.OrderID, conf.TotalAmount)
	return conf, nil
}

func validate(c *cart.Store, req Request) error {
	if c.ItemCount() == 0 {
		return &ValidationError{Field: "cart", Reason: "is empty"}
	}
	if strings.TrimSpace(req.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	if strings.TrimSpace(req.Phone) == "" {
		return &ValidationError{Field: "phone", Reason: "is required"}
	}
	if strings.TrimSpace(req.Email) == "" {
		return &ValidationError{Field: "email", Reason: "is required"}
	}
	if !req.PaymentMethod.Valid() {
		return &ValidationError{Field: "payment_method", Reason: "is unknown"}
	}
	if !req.DeliveryMethod.Valid() {
		return &ValidationError{Field: "delivery_method", Reason: "is unknown"}
	}
	if req.DeliveryMethod != pricing.DeliveryPickup && strings.TrimSpace(req.DeliveryAddress) == "" {
		return &ValidationError{Field: "delivery_address", Reason: "is required"}
	}
	return nil
}
