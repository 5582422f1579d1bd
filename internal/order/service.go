package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Koalla18/TakeSmart/internal/checkout"
)

// EventPublisher fans order lifecycle events out to the message broker.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, o *Order) error
	PublishOrderCompleted(ctx context.Context, orderID string) error
}

// Notifier tells a human a new order arrived (Telegram in production).
type Notifier interface {
	NotifyOrderCreated(ctx context.Context, o *Order) error
}

// ErrBadTransition is returned when a status change is not allowed from
// the order's current status.
var ErrBadTransition = errors.New("status transition not allowed")

// Service persists orders and drives their status lifecycle. It
// implements checkout.OrderPlacer: the storefront's checkout submits
// straight into it.
type Service struct {
	repo     Repository
	events   EventPublisher
	notifier Notifier
	logger   *log.Logger
}

func NewService(repo Repository, events EventPublisher, notifier Notifier, logger *log.Logger) *Service {
	return &Service{repo: repo, events: events, notifier: notifier, logger: logger}
}

// PlaceOrder durably stores the order, then publishes and notifies on a
// best-effort basis. Only the database write can fail the placement; the
// order is already accepted once it is in Postgres.
func (s *Service) PlaceOrder(ctx context.Context, payload checkout.OrderPayload) (checkout.Confirmation, error) {
	o := &Order{
		ID:              uuid.NewString(),
		Name:            payload.Name,
		Phone:           payload.Phone,
		Email:           payload.Email,
		Comment:         payload.Comment,
		Status:          StatusNew,
		PaymentMethod:   payload.PaymentMethod,
		DeliveryMethod:  payload.DeliveryMethod,
		DeliveryAddress: payload.DeliveryAddress,
		TotalAmount:     payload.TotalAmount,
		CreatedAt:       time.Now().UTC(),
	}
	for _, it := range payload.Items {
		o.Items = append(o.Items, Item{
			ProductID:     it.ProductID,
			Name:          it.Name,
			PriceSnapshot: it.Price,
			Quantity:      it.Quantity,
			Image:         it.Image,
		})
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return checkout.Confirmation{}, fmt.Errorf("create order: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishOrderCreated(ctx, o); err != nil {
			s.logger.Printf("publish order.created for %s: %v", o.ID, err)
		}
	}
	if s.notifier != nil {
		// Notification must not delay or fail the order
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.notifier.NotifyOrderCreated(nctx, o); err != nil {
				s.logger.Printf("notify order %s: %v", o.ID, err)
			}
		}()
	}

	return checkout.Confirmation{
		OrderID:     o.ID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
	}, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// UpdateStatus enforces the transition rules and publishes
// order.completed when the order reaches its final state.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next Status) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrBadTransition, o.Status, next)
	}

	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}
	o.Status = next

	if next == StatusCompleted && s.events != nil {
		if err := s.events.PublishOrderCompleted(ctx, orderID); err != nil {
			s.logger.Printf("publish order.completed for %s: %v", orderID, err)
		}
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, orderID string) error {
	return s.repo.Delete(ctx, orderID)
}
