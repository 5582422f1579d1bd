package order

import (
	"time"

	"github.com/Koalla18/TakeSmart/internal/pricing"
)

type Order struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Phone           string                 `json:"phone"`
	Email           string                 `json:"email"`
	Comment         string                 `json:"comment,omitempty"`
	Status          Status                 `json:"status"`
	PaymentMethod   pricing.PaymentMethod  `json:"paymentMethod"`
	DeliveryMethod  pricing.DeliveryMethod `json:"deliveryMethod"`
	DeliveryAddress string                 `json:"deliveryAddress"`
	TotalAmount     int64                  `json:"totalAmount"`
	CreatedAt       time.Time              `json:"createdAt"`
	Items           []Item                 `json:"items"`
}

// Item keeps the name and price as they were at submission time.
type Item struct {
	ProductID     string `json:"productId"`
	Name          string `json:"name"`
	PriceSnapshot int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	Image         string `json:"image,omitempty"`
}
