package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

// Adapter is the relational store backend. Products live in a flat table
// with variants as a JSONB column; settings are a key/value table.
type Adapter struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAdapter creates a new postgres store adapter
func NewAdapter(db *sql.DB, logger *zap.Logger) *Adapter {
	return &Adapter{db: db, logger: logger}
}

func (a *Adapter) Name() string { return "postgres" }

// AssignsIDs is false: ids are assigned by the caller before insert
func (a *Adapter) AssignsIDs() bool { return false }

func (a *Adapter) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, description, price, original_price, sales_count, stock,
		       category, image_url, whatsapp_image_url, variants, created_at
		FROM products
		ORDER BY created_at DESC
	`

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		a.logger.Error("Failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			a.logger.Error("Failed to scan product", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

func (a *Adapter) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	variants, err := json.Marshal(p.Variants)
	if err != nil {
		return domain.Product{}, err
	}

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO products (id, name, description, price, original_price, sales_count,
		                      stock, category, image_url, whatsapp_image_url, variants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = a.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.SalesCount,
		p.Stock, p.Category, p.ImageURL, p.WhatsAppImageURL, variants, p.CreatedAt,
	)
	if err != nil {
		a.logger.Error("Failed to insert product", zap.Error(err))
		return domain.Product{}, err
	}

	return p, nil
}

func (a *Adapter) UpdateProduct(ctx context.Context, id string, p domain.Product) error {
	variants, err := json.Marshal(p.Variants)
	if err != nil {
		return err
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, original_price = $5,
		    sales_count = $6, stock = $7, category = $8, image_url = $9,
		    whatsapp_image_url = $10, variants = $11, updated_at = NOW()
		WHERE id = $1
	`

	result, err := a.db.ExecContext(ctx, query,
		id, p.Name, p.Description, p.Price, p.OriginalPrice,
		p.SalesCount, p.Stock, p.Category, p.ImageURL, p.WhatsAppImageURL, variants,
	)
	if err != nil {
		a.logger.Error("Failed to update product", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: id}
	}

	return nil
}

func (a *Adapter) DeleteProduct(ctx context.Context, id string) error {
	_, err := a.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		a.logger.Error("Failed to delete product", zap.Error(err))
	}
	return err
}

func (a *Adapter) ReplaceProducts(ctx context.Context, products []domain.Product) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, description, price, original_price, sales_count,
		                      stock, category, image_url, whatsapp_image_url, variants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	for _, p := range products {
		variants, err := json.Marshal(p.Variants)
		if err != nil {
			return err
		}
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		_, err = tx.ExecContext(ctx, query,
			p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.SalesCount,
			p.Stock, p.Category, p.ImageURL, p.WhatsAppImageURL, variants, createdAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (a *Adapter) LoadSetting(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := a.db.QueryRowContext(ctx,
		`SELECT value FROM store_settings WHERE key = $1`, key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "setting", ID: key}
	}
	if err != nil {
		a.logger.Error("Failed to load setting", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	return value, nil
}

func (a *Adapter) UpsertSetting(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO store_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()
	`
	_, err := a.db.ExecContext(ctx, query, key, value)
	if err != nil {
		a.logger.Error("Failed to upsert setting", zap.String("key", key), zap.Error(err))
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var description, whatsappImageURL sql.NullString
	var originalPrice sql.NullFloat64
	var salesCount sql.NullInt64
	var variants []byte

	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.Price,
		&originalPrice,
		&salesCount,
		&p.Stock,
		&p.Category,
		&p.ImageURL,
		&whatsappImageURL,
		&variants,
		&p.CreatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	if description.Valid {
		p.Description = description.String
	}
	if whatsappImageURL.Valid {
		p.WhatsAppImageURL = whatsappImageURL.String
	}
	if originalPrice.Valid {
		p.OriginalPrice = originalPrice.Float64
	}
	if salesCount.Valid {
		p.SalesCount = int(salesCount.Int64)
	}
	if len(variants) > 0 {
		if err := json.Unmarshal(variants, &p.Variants); err != nil {
			return domain.Product{}, err
		}
	}

	return p, nil
}
