// Package local persists the catalog and settings through the durable
// local store. It is the offline backend: nothing leaves the machine, and
// a missing file is a legitimately empty catalog rather than a load error.
package local

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/localstore"
	"github.com/jafarshop/storefront/pkg/errors"
)

const productsKey = "products"

// ProductsKey is the durable-store key holding the catalog. Exposed so the
// composition layer can subscribe the catalog repository to external writes.
const ProductsKey = productsKey

type Adapter struct {
	store  *localstore.Store
	logger *zap.Logger
}

func NewAdapter(store *localstore.Store, logger *zap.Logger) *Adapter {
	return &Adapter{store: store, logger: logger}
}

func (a *Adapter) Name() string { return "local" }

// AssignsIDs is false: the local backend stores whatever id it is given
func (a *Adapter) AssignsIDs() bool { return false }

func (a *Adapter) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	return a.readProducts()
}

func (a *Adapter) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	products, err := a.readProducts()
	if err != nil {
		return domain.Product{}, err
	}
	products = append([]domain.Product{p}, products...)
	if err := a.writeProducts(products); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (a *Adapter) UpdateProduct(ctx context.Context, id string, p domain.Product) error {
	products, err := a.readProducts()
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == id {
			products[i] = p
			return a.writeProducts(products)
		}
	}
	return &errors.ErrNotFound{Resource: "product", ID: id}
}

func (a *Adapter) DeleteProduct(ctx context.Context, id string) error {
	products, err := a.readProducts()
	if err != nil {
		return err
	}
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return a.writeProducts(kept)
}

func (a *Adapter) ReplaceProducts(ctx context.Context, products []domain.Product) error {
	return a.writeProducts(products)
}

func (a *Adapter) LoadSetting(ctx context.Context, key string) ([]byte, error) {
	value, ok := a.store.Get("setting_" + key)
	if !ok {
		return nil, &errors.ErrNotFound{Resource: "setting", ID: key}
	}
	return value, nil
}

func (a *Adapter) UpsertSetting(ctx context.Context, key string, value []byte) error {
	return a.store.Set("setting_"+key, value)
}

func (a *Adapter) readProducts() ([]domain.Product, error) {
	data, ok := a.store.Get(productsKey)
	if !ok {
		return []domain.Product{}, nil
	}
	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (a *Adapter) writeProducts(products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return a.store.Set(productsKey, data)
}
