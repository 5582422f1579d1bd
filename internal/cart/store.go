package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/Koalla18/TakeSmart/internal/catalog"
	"github.com/Koalla18/TakeSmart/internal/kv"
)

// Store owns the line items of a single cart. It is not safe for
// concurrent use; the HTTP layer constructs one Store per request.
type Store struct {
	key    string
	kv     kv.Store
	logger *log.Logger
	items  []LineItem
}

func NewStore(store kv.Store, key string, logger *log.Logger) *Store {
	return &Store{key: key, kv: store, logger: logger}
}

// Load reads the persisted snapshot. A missing key or an undecodable
// snapshot yields an empty cart; Load never fails.
func (s *Store) Load(ctx context.Context) {
	s.items = nil

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Printf("cart load error key=%s: %v", s.key, err)
		}
		return
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Printf("cart snapshot unreadable key=%s, starting empty: %v", s.key, err)
		return
	}
	s.items = items
}

// AddItem merges by product id: an existing line gets its quantity
// incremented, otherwise a new line is appended. Quantities below one
// count as one.
func (s *Store) AddItem(ctx context.Context, product catalog.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	merged := false
	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, LineItem{Product: product, Quantity: quantity})
	}

	s.persist(ctx)
}

// RemoveItem deletes the matching line. Removing an absent product is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persist(ctx)
			return
		}
	}
}

// UpdateQuantity sets the line's quantity exactly. A quantity of zero or
// less removes the line. Unknown product ids are ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity = quantity
			s.persist(ctx)
			return
		}
	}
}

func (s *Store) Clear(ctx context.Context) {
	s.items = nil
	s.persist(ctx)
}

// Items returns a copy in insertion order.
func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// ItemCount is the sum of quantities across all lines.
func (s *Store) ItemCount() int {
	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

// Subtotal is the sum of unit price times quantity, in whole currency
// units.
func (s *Store) Subtotal() int64 {
	var total int64
	for _, it := range s.items {
		total += it.Product.Price * int64(it.Quantity)
	}
	return total
}

func (s *Store) IsInCart(productID string) bool {
	for _, it := range s.items {
		if it.Product.ID == productID {
			return true
		}
	}
	return false
}

// persist writes the full snapshot. Failures are logged and swallowed so
// a full or unreachable store never breaks the calling action.
func (s *Store) persist(ctx context.Context) {
	if len(s.items) == 0 {
		if err := s.kv.Delete(ctx, s.key); err != nil {
			s.logger.Printf("cart persist error key=%s: %v", s.key, err)
		}
		return
	}

	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Printf("cart marshal error key=%s: %v", s.key, err)
		return
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Printf("cart persist error key=%s: %v", s.key, err)
	}
}
