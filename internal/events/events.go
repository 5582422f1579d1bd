package events

import "time"

type OrderCreated struct {
	EventType      string           `json:"eventType"`
	OrderID        string           `json:"orderId"`
	Items          []OrderItemEvent `json:"items"`
	TotalAmount    int64            `json:"totalAmount"`
	PaymentMethod  string           `json:"paymentMethod"`
	DeliveryMethod string           `json:"deliveryMethod"`
	Timestamp      time.Time        `json:"timestamp"`
}

type OrderItemEvent struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

type OrderCompleted struct {
	EventType string    `json:"eventType"`
	OrderID   string    `json:"orderId"`
	Timestamp time.Time `json:"timestamp"`
}
