// Package cart is the single source of truth for "what is in the cart".
// One Store owns one cart, keyed by session, and writes a full snapshot
// to the key-value store after every mutation so the cart survives
// reloads. Reads and writes of the snapshot are fail-open: a missing or
// corrupt snapshot means an empty cart, and a failed write degrades to an
// in-memory cart for the rest of the session.
package cart

import (
	"github.com/Koalla18/TakeSmart/internal/catalog"
)

// KeyPrefix scopes cart snapshots in the key-value store.
const KeyPrefix = "cart:"

// LineItem is one (product, quantity) pair. The product record is
// snapshotted as it was when the line was created; prices are not
// reconciled against the live catalog afterwards.
type LineItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// StorageKey returns the snapshot key for a session.
func StorageKey(sessionID string) string {
	return KeyPrefix + sessionID
}
