package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/localstore"
)

func cartLookup() domain.ProductLookup {
	catalog := map[string]domain.Product{
		"p1": {
			ID:    "p1",
			Name:  "Kaos Sale",
			Price: 10000,
			Variants: []domain.Variant{
				{ID: "v1", Name: "L", PriceModifier: 2000},
			},
		},
		"p2": {ID: "p2", Name: "Topi", Price: 85000},
	}
	return func(id string) (domain.Product, bool) {
		p, ok := catalog[id]
		return p, ok
	}
}

func TestLedgerAddItem(t *testing.T) {
	t.Run("merges lines with the same product and variant", func(t *testing.T) {
		l := NewLedger(nil, zap.NewNop())
		l.AddItem("p1", "v1", 1)
		l.AddItem("p1", "v1", 2)

		items := l.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
	})

	t.Run("different variants stay separate lines", func(t *testing.T) {
		l := NewLedger(nil, zap.NewNop())
		l.AddItem("p1", "v1", 1)
		l.AddItem("p1", "", 1)

		assert.Len(t, l.Items(), 2)
		assert.Equal(t, 2, l.ItemCount())
	})

	t.Run("clamps quantities below one", func(t *testing.T) {
		l := NewLedger(nil, zap.NewNop())
		l.AddItem("p1", "", 0)
		l.AddItem("p2", "", -5)

		for _, item := range l.Items() {
			assert.Equal(t, 1, item.Quantity)
		}
	})
}

func TestLedgerSetQuantity(t *testing.T) {
	t.Run("replaces the quantity outright", func(t *testing.T) {
		l := NewLedger(nil, zap.NewNop())
		l.AddItem("p1", "v1", 2)
		l.SetQuantity("p1", "v1", 7)

		items := l.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 7, items[0].Quantity)
	})

	t.Run("zero or negative removes the line", func(t *testing.T) {
		l := NewLedger(nil, zap.NewNop())
		l.AddItem("p1", "v1", 2)
		l.AddItem("p2", "", 1)

		l.SetQuantity("p1", "v1", 0)
		assert.Len(t, l.Items(), 1)

		l.SetQuantity("p2", "", -1)
		assert.Empty(t, l.Items())
	})
}

func TestLedgerRemoveAndClear(t *testing.T) {
	l := NewLedger(nil, zap.NewNop())
	l.AddItem("p1", "v1", 1)
	l.AddItem("p2", "", 3)

	l.RemoveItem("p1", "v1")
	assert.Len(t, l.Items(), 1)

	// removing an absent line is a no-op
	l.RemoveItem("ghost", "")
	assert.Len(t, l.Items(), 1)

	l.Clear()
	assert.Empty(t, l.Items())
	assert.Equal(t, 0, l.ItemCount())
}

func TestLedgerSubtotal(t *testing.T) {
	t.Run("prices variants with their modifier", func(t *testing.T) {
		l := NewLedger(nil, zap.NewNop())
		l.AddItem("p1", "v1", 2)

		// 2 x (10000 + 2000)
		assert.Equal(t, 24000.0, l.Subtotal(cartLookup()))
	})

	t.Run("missing products contribute nothing but stay in the cart", func(t *testing.T) {
		l := NewLedger(nil, zap.NewNop())
		l.AddItem("p2", "", 1)
		l.AddItem("ghost", "", 4)

		assert.Equal(t, 85000.0, l.Subtotal(cartLookup()))
		assert.Len(t, l.Items(), 2)
	})
}

func TestLedgerPersistence(t *testing.T) {
	dir := t.TempDir()

	s, err := localstore.Open(dir, zap.NewNop())
	require.NoError(t, err)

	l := NewLedger(s, zap.NewNop())
	l.AddItem("p1", "v1", 2)
	require.NoError(t, s.Close())

	// a fresh ledger over the same directory restores the cart
	s2, err := localstore.Open(dir, zap.NewNop())
	require.NoError(t, err)
	defer s2.Close()

	l2 := NewLedger(s2, zap.NewNop())
	items := l2.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestLedgerHandleStoreChange(t *testing.T) {
	l := NewLedger(nil, zap.NewNop())
	l.AddItem("p1", "v1", 1)

	incoming := []domain.CartItem{{ProductID: "p2", Quantity: 5}}
	data, err := json.Marshal(incoming)
	require.NoError(t, err)

	// the whole cart is replaced, not merged
	l.HandleStoreChange(StorageKey, data)
	items := l.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	// other keys and garbage payloads are ignored
	l.HandleStoreChange("theme", []byte(`[]`))
	l.HandleStoreChange(StorageKey, []byte("{nope"))
	assert.Equal(t, items, l.Items())
}
