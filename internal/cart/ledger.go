// Package cart keeps the buyer's session-scoped line items. The ledger is
// purely local state: it persists to the durable local store and is never
// synchronized to the remote backend.
package cart

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/localstore"
)

// StorageKey is the durable-store key holding the cart
const StorageKey = "cart"

type Ledger struct {
	store  *localstore.Store
	logger *zap.Logger

	mu    sync.Mutex
	items []domain.CartItem
}

// NewLedger restores the cart from the durable local store. A nil store
// keeps the ledger purely in memory.
func NewLedger(store *localstore.Store, logger *zap.Logger) *Ledger {
	l := &Ledger{store: store, logger: logger}
	l.restore()
	return l
}

// AddItem merges with an existing (productID, variantID) line by summing
// quantities. Quantities below 1 are clamped to 1; rejecting them outright
// is the caller's job.
func (l *Ledger) AddItem(productID, variantID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	l.mu.Lock()
	merged := false
	for i := range l.items {
		if l.items[i].ProductID == productID && l.items[i].VariantID == variantID {
			l.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		l.items = append(l.items, domain.CartItem{
			ProductID: productID,
			VariantID: variantID,
			Quantity:  quantity,
		})
	}
	l.mu.Unlock()

	l.persist()
}

// RemoveItem drops the matching line; absent lines are a no-op
func (l *Ledger) RemoveItem(productID, variantID string) {
	l.mu.Lock()
	kept := l.items[:0]
	for _, item := range l.items {
		if !(item.ProductID == productID && item.VariantID == variantID) {
			kept = append(kept, item)
		}
	}
	l.items = kept
	l.mu.Unlock()

	l.persist()
}

// SetQuantity replaces the quantity on the matching line. Zero or below
// deletes the line; the cart never holds a zero-quantity entry.
func (l *Ledger) SetQuantity(productID, variantID string, quantity int) {
	if quantity <= 0 {
		l.RemoveItem(productID, variantID)
		return
	}

	l.mu.Lock()
	for i := range l.items {
		if l.items[i].ProductID == productID && l.items[i].VariantID == variantID {
			l.items[i].Quantity = quantity
			break
		}
	}
	l.mu.Unlock()

	l.persist()
}

// Clear empties the ledger, called after a successful order handoff
func (l *Ledger) Clear() {
	l.mu.Lock()
	l.items = nil
	l.mu.Unlock()

	l.persist()
}

// Items returns a snapshot of the current lines
func (l *Ledger) Items() []domain.CartItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.CartItem, len(l.items))
	copy(out, l.items)
	return out
}

// ItemCount sums all quantities
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	total := 0
	for _, item := range l.items {
		total += item.Quantity
	}
	return total
}

// Subtotal prices the cart against the current catalog. Lines whose
// product no longer exists contribute zero; they stay in the cart.
func (l *Ledger) Subtotal(lookup domain.ProductLookup) float64 {
	items := l.Items()
	total := 0.0
	for _, item := range items {
		product, ok := lookup(item.ProductID)
		if !ok {
			continue
		}
		total += domain.LineTotal(product, item.VariantID, item.Quantity)
	}
	return total
}

// HandleStoreChange replaces the ledger wholesale when another context
// writes the shared cart key. Invalid payloads are ignored; there is no
// field-level merging, last writer wins.
func (l *Ledger) HandleStoreChange(key string, value []byte) {
	if key != StorageKey {
		return
	}
	var items []domain.CartItem
	if err := json.Unmarshal(value, &items); err != nil {
		l.logger.Debug("ignoring unparseable cart notification", zap.Error(err))
		return
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
}

func (l *Ledger) restore() {
	if l.store == nil {
		return
	}
	data, ok := l.store.Get(StorageKey)
	if !ok {
		return
	}
	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		l.logger.Warn("discarding corrupt cart state", zap.Error(err))
		return
	}
	l.items = items
}

func (l *Ledger) persist() {
	if l.store == nil {
		return
	}

	l.mu.Lock()
	items := l.items
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	l.mu.Unlock()

	if err != nil {
		l.logger.Warn("failed to encode cart", zap.Error(err))
		return
	}
	if err := l.store.Set(StorageKey, data); err != nil {
		l.logger.Warn("failed to persist cart", zap.Error(err))
	}
}
