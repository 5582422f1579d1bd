package order

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Koalla18/TakeSmart/internal/checkout"
	"github.com/Koalla18/TakeSmart/internal/pricing"
)

var testLogger = log.New(io.Discard, "", 0)

type fakeOrderRepo struct {
	createFn       func(ctx context.Context, o *Order) error
	getByIDFn      func(ctx context.Context, orderID string) (*Order, error)
	updateStatusFn func(ctx context.Context, orderID string, status Status) error

	created *Order
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *Order) error {
	f.created = o
	if f.createFn != nil {
		return f.createFn(ctx, o)
	}
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	return f.getByIDFn(ctx, orderID)
}

func (f *fakeOrderRepo) List(context.Context) ([]Order, error) { return nil, nil }

func (f *fakeOrderRepo) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, orderID, status)
	}
	return nil
}

func (f *fakeOrderRepo) Delete(context.Context, string) error { return nil }

type fakeEvents struct {
	mu           sync.Mutex
	createdIDs   []string
	completedIDs []string
	createdErr   error
}

func (f *fakeEvents) PublishOrderCreated(_ context.Context, o *Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdIDs = append(f.createdIDs, o.ID)
	return f.createdErr
}

func (f *fakeEvents) PublishOrderCompleted(_ context.Context, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completedIDs = append(f.completedIDs, orderID)
	return nil
}

type fakeNotifier struct {
	notified chan *Order
	err      error
}

func (f *fakeNotifier) NotifyOrderCreated(_ context.Context, o *Order) error {
	f.notified <- o
	return f.err
}

func payload() checkout.OrderPayload {
	return checkout.OrderPayload{
		Name:            "Ivan",
		Phone:           "+7 900 000-00-00",
		Email:           "ivan@example.com",
		TotalAmount:     12000,
		PaymentMethod:   pricing.PaymentCard,
		DeliveryMethod:  pricing.DeliveryCourier,
		DeliveryAddress: "ул. Ленина 1",
		Items: []checkout.ItemSnapshot{
			{ProductID: "p1", Name: "iPhone 16", Price: 124990, Quantity: 1, Image: "/img/p1.jpg"},
		},
	}
}

func TestPlaceOrder(t *testing.T) {
	repo := &fakeOrderRepo{}
	events := &fakeEvents{}
	notifier := &fakeNotifier{notified: make(chan *Order, 1)}
	svc := NewService(repo, events, notifier, testLogger)

	conf, err := svc.PlaceOrder(context.Background(), payload())
	require.NoError(t, err)

	assert.NotEmpty(t, conf.OrderID)
	assert.Equal(t, string(StatusNew), conf.Status)
	assert.Equal(t, int64(12000), conf.TotalAmount)

	require.NotNil(t, repo.created)
	assert.Equal(t, StatusNew, repo.created.Status)
	assert.False(t, repo.created.CreatedAt.IsZero())
	require.Len(t, repo.created.Items, 1)
	assert.Equal(t, int64(124990), repo.created.Items[0].PriceSnapshot)

	assert.Equal(t, []string{conf.OrderID}, events.createdIDs)

	select {
	case o := <-notifier.notified:
		assert.Equal(t, conf.OrderID, o.ID)
	case <-time.After(time.Second):
		t.Fatal("notifier was never called")
	}
}

func TestPlaceOrder_RepoFailureFailsPlacement(t *testing.T) {
	repo := &fakeOrderRepo{createFn: func(context.Context, *Order) error {
		return errors.New("db down")
	}}
	events := &fakeEvents{}
	svc := NewService(repo, events, nil, testLogger)

	_, err := svc.PlaceOrder(context.Background(), payload())
	require.Error(t, err)
	assert.Empty(t, events.createdIDs, "no event for an order that was not stored")
}

func TestPlaceOrder_PublishFailureDoesNotFailPlacement(t *testing.T) {
	repo := &fakeOrderRepo{}
	events := &fakeEvents{createdErr: errors.New("broker down")}
	svc := NewService(repo, events, nil, testLogger)

	conf, err := svc.PlaceOrder(context.Background(), payload())
	require.NoError(t, err)
	assert.NotEmpty(t, conf.OrderID)
}

func TestPlaceOrder_NotifyFailureDoesNotFailPlacement(t *testing.T) {
	repo := &fakeOrderRepo{}
	notifier := &fakeNotifier{notified: make(chan *Order, 1), err: errors.New("telegram down")}
	svc := NewService(repo, nil, notifier, testLogger)

	_, err := svc.PlaceOrder(context.Background(), payload())
	require.NoError(t, err)
	<-notifier.notified
}

func TestPlaceOrder_NilEventsAndNotifier(t *testing.T) {
	svc := NewService(&fakeOrderRepo{}, nil, nil, testLogger)

	conf, err := svc.PlaceOrder(context.Background(), payload())
	require.NoError(t, err)
	assert.NotEmpty(t, conf.OrderID)
}

func TestUpdateStatus_AllowedTransition(t *testing.T) {
	repo := &fakeOrderRepo{getByIDFn: func(context.Context, string) (*Order, error) {
		return &Order{ID: "ord-1", Status: StatusNew}, nil
	}}
	svc := NewService(repo, nil, nil, testLogger)

	o, err := svc.UpdateStatus(context.Background(), "ord-1", StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, o.Status)
}

func TestUpdateStatus_RejectedTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
	}{
		{"completed is final", StatusCompleted, StatusProcessing},
		{"cancelled is final", StatusCancelled, StatusNew},
		{"no skipping ahead", StatusNew, StatusCompleted},
		{"no going back", StatusShipped, StatusProcessing},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			updated := false
			repo := &fakeOrderRepo{
				getByIDFn: func(context.Context, string) (*Order, error) {
					return &Order{ID: "ord-1", Status: tc.from}, nil
				},
				updateStatusFn: func(context.Context, string, Status) error {
					updated = true
					return nil
				},
			}
			svc := NewService(repo, nil, nil, testLogger)

			_, err := svc.UpdateStatus(context.Background(), "ord-1", tc.to)
			assert.ErrorIs(t, err, ErrBadTransition)
			assert.False(t, updated, "rejected transition must not touch the database")
		})
	}
}

func TestUpdateStatus_CompletedPublishesEvent(t *testing.T) {
	repo := &fakeOrderRepo{getByIDFn: func(context.Context, string) (*Order, error) {
		return &Order{ID: "ord-1", Status: StatusShipped}, nil
	}}
	events := &fakeEvents{}
	svc := NewService(repo, events, nil, testLogger)

	_, err := svc.UpdateStatus(context.Background(), "ord-1", StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, []string{"ord-1"}, events.completedIDs)
}

func TestUpdateStatus_CancelDoesNotPublishCompleted(t *testing.T) {
	repo := &fakeOrderRepo{getByIDFn: func(context.Context, string) (*Order, error) {
		return &Order{ID: "ord-1", Status: StatusProcessing}, nil
	}}
	events := &fakeEvents{}
	svc := NewService(repo, events, nil, testLogger)

	_, err := svc.UpdateStatus(context.Background(), "ord-1", StatusCancelled)
	require.NoError(t, err)
	assert.Empty(t, events.completedIDs)
}

func TestUpdateStatus_NotFoundPropagates(t *testing.T) {
	repo := &fakeOrderRepo{getByIDFn: func(context.Context, string) (*Order, error) {
		return nil, ErrNotFound
	}}
	svc := NewService(repo, nil, nil, testLogger)

	_, err := svc.UpdateStatus(context.Background(), "missing", StatusProcessing)
	assert.ErrorIs(t, err, ErrNotFound)
}
