package catalog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/imagestore"
	"github.com/jafarshop/storefront/internal/store"
	"github.com/jafarshop/storefront/pkg/errors"
)

// Repository holds the authoritative in-memory product list for the
// running session and keeps it consistent with a store adapter.
//
// Every mutation follows the same optimistic protocol: snapshot the list,
// apply the change in memory so readers see it immediately, then call the
// adapter; if the adapter rejects the write, restore the snapshot. Each
// in-flight mutation owns the snapshot taken right before its own apply,
// so two interleaved edits roll back to their respective prior states.
type Repository struct {
	adapter store.Adapter
	images  imagestore.Storage
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	products []domain.Product
	loaded   bool
}

// NewRepository creates a new product repository
func NewRepository(adapter store.Adapter, images imagestore.Storage, timeout time.Duration, logger *zap.Logger) *Repository {
	if images == nil {
		images = imagestore.Noop{}
	}
	return &Repository{
		adapter: adapter,
		images:  images,
		timeout: timeout,
		logger:  logger,
	}
}

// Load fetches the full catalog from the store adapter. On failure the
// repository stays (or becomes) unloaded, which callers must treat as
// "catalog unavailable", never as an empty catalog.
func (r *Repository) Load(ctx context.Context) error {
	ctx, cancel := r.syncContext(ctx)
	defer cancel()

	products, err := r.adapter.LoadProducts(ctx)
	if err != nil {
		r.mu.Lock()
		r.products = nil
		r.loaded = false
		r.mu.Unlock()
		return &errors.LoadError{Source: "products", Err: err}
	}

	for i := range products {
		if products[i].CreatedAt.IsZero() {
			products[i].CreatedAt = time.Now()
		}
	}

	r.mu.Lock()
	r.products = products
	r.loaded = true
	r.mu.Unlock()

	r.logger.Info("catalog loaded",
		zap.String("backend", r.adapter.Name()),
		zap.Int("products", len(products)),
	)
	return nil
}

// Loaded distinguishes "nothing loaded because of a failure" from
// "legitimately empty catalog"
func (r *Repository) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Products returns a snapshot of the current list
func (r *Repository) Products() []domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.CloneProducts(r.products)
}

// GetByID is a synchronous in-memory lookup; it never touches the adapter
func (r *Repository) GetByID(id string) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return domain.Product{}, &errors.ErrNotFound{Resource: "product", ID: id}
}

// Lookup returns a ProductLookup bound to this repository, for cart totals
func (r *Repository) Lookup() domain.ProductLookup {
	return func(id string) (domain.Product, bool) {
		p, err := r.GetByID(id)
		return p, err == nil
	}
}

// Add optimistically prepends the product and persists it. The id is
// either assigned here or deferred to the adapter, depending on the
// adapter's capability; either way the optimistic entry is swapped for the
// canonical record the adapter returns, and a failed create leaves no
// provisional entry behind.
func (r *Repository) Add(ctx context.Context, p domain.Product) (domain.Product, error) {
	if err := domain.ValidateProduct(p); err != nil {
		return domain.Product{}, err
	}

	if p.ID == "" {
		// provisional when the adapter assigns, final otherwise
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	provisionalID := p.ID

	r.mu.Lock()
	snapshot := domain.CloneProducts(r.products)
	r.products = append([]domain.Product{p.Clone()}, r.products...)
	r.mu.Unlock()

	ctx, cancel := r.syncContext(ctx)
	defer cancel()

	canonical, err := r.adapter.CreateProduct(ctx, p)
	if err != nil {
		r.mu.Lock()
		r.products = snapshot
		r.mu.Unlock()
		return domain.Product{}, &errors.ActionError{Op: "create product", Err: err}
	}

	r.mu.Lock()
	for i := range r.products {
		if r.products[i].ID == provisionalID {
			r.products[i] = canonical.Clone()
			break
		}
	}
	r.mu.Unlock()

	return canonical, nil
}

// Update optimistically replaces the matching entry and persists it
func (r *Repository) Update(ctx context.Context, p domain.Product) error {
	if err := domain.ValidateProduct(p); err != nil {
		return err
	}

	r.mu.Lock()
	idx := -1
	for i := range r.products {
		if r.products[i].ID == p.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return &errors.ErrNotFound{Resource: "product", ID: p.ID}
	}
	snapshot := domain.CloneProducts(r.products)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = r.products[idx].CreatedAt
	}
	r.products[idx] = p.Clone()
	r.mu.Unlock()

	ctx, cancel := r.syncContext(ctx)
	defer cancel()

	if err := r.adapter.UpdateProduct(ctx, p.ID, p); err != nil {
		r.mu.Lock()
		r.products = snapshot
		r.mu.Unlock()
		return &errors.ActionError{Op: "update product", Err: err}
	}

	return nil
}

// Delete optimistically removes the entry and persists the removal. On
// success the product's image is released best-effort: a cleanup failure
// is logged, never surfaced, and never undoes the delete.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	idx := -1
	for i := range r.products {
		if r.products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return &errors.ErrNotFound{Resource: "product", ID: id}
	}
	snapshot := domain.CloneProducts(r.products)
	imageURL := r.products[idx].ImageURL
	r.products = append(r.products[:idx:idx], r.products[idx+1:]...)
	r.mu.Unlock()

	ctx, cancel := r.syncContext(ctx)
	defer cancel()

	if err := r.adapter.DeleteProduct(ctx, id); err != nil {
		r.mu.Lock()
		r.products = snapshot
		r.mu.Unlock()
		return &errors.ActionError{Op: "delete product", Err: err}
	}

	if imageURL != "" {
		if err := r.images.Release(ctx, imageURL); err != nil {
			r.logger.Warn("failed to release product image",
				zap.String("product_id", id),
				zap.String("image_url", imageURL),
				zap.Error(err),
			)
		}
	}

	return nil
}

// ImportAll replaces the whole catalog, optimistically and atomically
// from the caller's point of view
func (r *Repository) ImportAll(ctx context.Context, products []domain.Product) error {
	for i := range products {
		if err := domain.ValidateProduct(products[i]); err != nil {
			return err
		}
	}

	incoming := domain.CloneProducts(products)
	for i := range incoming {
		if incoming[i].ID == "" {
			incoming[i].ID = uuid.NewString()
		}
		if incoming[i].CreatedAt.IsZero() {
			incoming[i].CreatedAt = time.Now()
		}
	}

	r.mu.Lock()
	snapshot := domain.CloneProducts(r.products)
	wasLoaded := r.loaded
	r.products = incoming
	r.loaded = true
	r.mu.Unlock()

	ctx, cancel := r.syncContext(ctx)
	defer cancel()

	if err := r.adapter.ReplaceProducts(ctx, incoming); err != nil {
		r.mu.Lock()
		r.products = snapshot
		r.loaded = wasLoaded
		r.mu.Unlock()
		return &errors.ActionError{Op: "import products", Err: err}
	}

	return nil
}

// ReplaceAll swaps the in-memory snapshot wholesale. It backs the passive
// cross-context subscription: no adapter call, no merging.
func (r *Repository) ReplaceAll(products []domain.Product) {
	r.mu.Lock()
	r.products = domain.CloneProducts(products)
	r.loaded = true
	r.mu.Unlock()
}

// HandleStoreChange adapts ReplaceAll to a durable-local-store
// subscription carrying the raw catalog JSON. Payloads that don't parse
// are ignored.
func (r *Repository) HandleStoreChange(key string, value []byte) {
	var products []domain.Product
	if err := json.Unmarshal(value, &products); err != nil {
		r.logger.Debug("ignoring unparseable catalog notification", zap.Error(err))
		return
	}
	r.ReplaceAll(products)
}

func (r *Repository) syncContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}
