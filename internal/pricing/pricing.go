// Package pricing derives checkout totals from a cart subtotal and the
// selected payment and delivery options. Everything here is pure; the
// checkout page recomputes a Quote on every option change.
package pricing

import (
	"fmt"
	"math"
	"strings"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

type DeliveryMethod string

const (
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPost    DeliveryMethod = "post"
)

// PickupAddress replaces whatever the customer typed when they chose
// self-pickup.
const PickupAddress = "Самовывоз"

// Card payments carry a surcharge; cash and online do not.
var markupRates = map[PaymentMethod]float64{
	PaymentCash:   0,
	PaymentCard:   0.15,
	PaymentOnline: 0,
}

// Fixed delivery fees in rubles.
var deliveryFees = map[DeliveryMethod]int64{
	DeliveryPickup:  0,
	DeliveryCourier: 500,
	DeliveryPost:    800,
}

var paymentLabels = map[PaymentMethod]string{
	PaymentCash:   "Наличными",
	PaymentCard:   "Картой",
	PaymentOnline: "Онлайн оплата",
}

var deliveryLabels = map[DeliveryMethod]string{
	DeliveryPickup:  "Самовывоз",
	DeliveryCourier: "Курьер",
	DeliveryPost:    "Почта",
}

type Quote struct {
	Subtotal    int64 `json:"subtotal"`
	Markup      int64 `json:"markup"`
	DeliveryFee int64 `json:"deliveryFee"`
	Total       int64 `json:"total"`
}

func (m PaymentMethod) Valid() bool {
	_, ok := markupRates[m]
	return ok
}

func (m PaymentMethod) Label() string {
	return paymentLabels[m]
}

func (m DeliveryMethod) Valid() bool {
	_, ok := deliveryFees[m]
	return ok
}

func (m DeliveryMethod) Label() string {
	return deliveryLabels[m]
}

// MakeQuote computes subtotal + round(subtotal × markup) + delivery fee.
// The markup is rounded to the nearest whole ruble before being added.
func MakeQuote(subtotal int64, payment PaymentMethod, delivery DeliveryMethod) (Quote, error) {
	rate, ok := markupRates[payment]
	if !ok {
		return Quote{}, fmt.Errorf("unknown payment method %q", payment)
	}
	fee, ok := deliveryFees[delivery]
	if !ok {
		return Quote{}, fmt.Errorf("unknown delivery method %q", delivery)
	}

	markup := int64(math.Round(float64(subtotal) * rate))
	return Quote{
		Subtotal:    subtotal,
		Markup:      markup,
		DeliveryFee: fee,
		Total:       subtotal + markup + fee,
	}, nil
}

// ResolveAddress normalizes the delivery address: pickup always yields the
// fixed sentinel, everything else keeps the trimmed user input.
func ResolveAddress(delivery DeliveryMethod, address string) string {
	if delivery == DeliveryPickup {
		return PickupAddress
	}
	return strings.TrimSpace(address)
}
