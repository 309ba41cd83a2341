package store

import (
	"context"

	"github.com/jafarshop/storefront/internal/domain"
)

// Setting keys used by the settings store. Adapters persist settings as
// opaque JSON values under these names.
const (
	SettingKeyTheme          = "theme"
	SettingKeyWhatsAppNumber = "whatsapp_number"
)

// Adapter is the persistence boundary for remote-backed state. The catalog
// repository and settings store only ever talk to this interface; which
// backend is active is a wiring decision in cmd/server.
type Adapter interface {
	// Name identifies the backend in logs
	Name() string

	// AssignsIDs reports whether CreateProduct assigns the identifier.
	// When false, the caller must supply a unique id up front.
	AssignsIDs() bool

	LoadProducts(ctx context.Context) ([]domain.Product, error)

	// CreateProduct persists a new product and returns the canonical
	// record, which may differ from the input (e.g. a backend-assigned id).
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)

	UpdateProduct(ctx context.Context, id string, p domain.Product) error

	DeleteProduct(ctx context.Context, id string) error

	// ReplaceProducts swaps the whole stored catalog, used by bulk import
	ReplaceProducts(ctx context.Context, products []domain.Product) error

	// LoadSetting returns the raw JSON stored under key, or ErrNotFound
	LoadSetting(ctx context.Context, key string) ([]byte, error)

	UpsertSetting(ctx context.Context, key string, value []byte) error
}
