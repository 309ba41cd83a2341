package mongodb

import (
	"context"
	goerrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/pkg/errors"
)

const (
	productsCollection = "products"
	settingsCollection = "settings"
)

// productDoc is the stored shape of a product. The document id is
// backend-assigned; the domain id is its hex form.
type productDoc struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
	Name             string             `bson:"name"`
	Description      string             `bson:"description,omitempty"`
	Price            float64            `bson:"price"`
	OriginalPrice    float64            `bson:"original_price,omitempty"`
	SalesCount       int                `bson:"sales_count,omitempty"`
	Stock            int                `bson:"stock"`
	Category         string             `bson:"category"`
	ImageURL         string             `bson:"image_url"`
	WhatsAppImageURL string             `bson:"whatsapp_image_url,omitempty"`
	Variants         []domain.Variant   `bson:"variants"`
}

type settingDoc struct {
	Key   string `bson:"_id"`
	Value []byte `bson:"value"`
}

// Adapter is the document store backend
type Adapter struct {
	db     *mongo.Database
	logger *zap.Logger
}

// NewAdapter creates a new mongodb store adapter
func NewAdapter(db *mongo.Database, logger *zap.Logger) *Adapter {
	return &Adapter{db: db, logger: logger}
}

func (a *Adapter) Name() string { return "mongodb" }

// AssignsIDs is true: the backend assigns ObjectIDs on insert and the
// caller's provisional id is replaced by the canonical record.
func (a *Adapter) AssignsIDs() bool { return true }

func (a *Adapter) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := a.products().Find(ctx, bson.M{}, opts)
	if err != nil {
		a.logger.Error("Failed to query products", zap.Error(err))
		return nil, err
	}

	var docs []productDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	products := make([]domain.Product, len(docs))
	for i, doc := range docs {
		products[i] = doc.toDomain()
	}
	return products, nil
}

func (a *Adapter) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	doc := fromDomain(p)
	doc.ID = primitive.NilObjectID
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	result, err := a.products().InsertOne(ctx, doc)
	if err != nil {
		a.logger.Error("Failed to insert product", zap.Error(err))
		return domain.Product{}, err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return domain.Product{}, goerrors.New("unexpected inserted id type")
	}

	doc.ID = oid
	return doc.toDomain(), nil
}

func (a *Adapter) UpdateProduct(ctx context.Context, id string, p domain.Product) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &errors.ErrNotFound{Resource: "product", ID: id}
	}

	doc := fromDomain(p)
	update := bson.M{"$set": bson.M{
		"name":               doc.Name,
		"description":        doc.Description,
		"price":              doc.Price,
		"original_price":     doc.OriginalPrice,
		"sales_count":        doc.SalesCount,
		"stock":              doc.Stock,
		"category":           doc.Category,
		"image_url":          doc.ImageURL,
		"whatsapp_image_url": doc.WhatsAppImageURL,
		"variants":           doc.Variants,
	}}

	result, err := a.products().UpdateByID(ctx, oid, update)
	if err != nil {
		a.logger.Error("Failed to update product", zap.Error(err))
		return err
	}
	if result.MatchedCount == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: id}
	}
	return nil
}

func (a *Adapter) DeleteProduct(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &errors.ErrNotFound{Resource: "product", ID: id}
	}

	_, err = a.products().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		a.logger.Error("Failed to delete product", zap.Error(err))
	}
	return err
}

func (a *Adapter) ReplaceProducts(ctx context.Context, products []domain.Product) error {
	if _, err := a.products().DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(products))
	for _, p := range products {
		doc := fromDomain(p)
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = time.Now()
		}
		docs = append(docs, doc)
	}

	_, err := a.products().InsertMany(ctx, docs)
	return err
}

func (a *Adapter) LoadSetting(ctx context.Context, key string) ([]byte, error) {
	var doc settingDoc
	err := a.settings().FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if goerrors.Is(err, mongo.ErrNoDocuments) {
		return nil, &errors.ErrNotFound{Resource: "setting", ID: key}
	}
	if err != nil {
		a.logger.Error("Failed to load setting", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return doc.Value, nil
}

func (a *Adapter) UpsertSetting(ctx context.Context, key string, value []byte) error {
	opts := options.Replace().SetUpsert(true)
	_, err := a.settings().ReplaceOne(ctx, bson.M{"_id": key}, settingDoc{Key: key, Value: value}, opts)
	if err != nil {
		a.logger.Error("Failed to upsert setting", zap.String("key", key), zap.Error(err))
	}
	return err
}

func (a *Adapter) products() *mongo.Collection {
	return a.db.Collection(productsCollection)
}

func (a *Adapter) settings() *mongo.Collection {
	return a.db.Collection(settingsCollection)
}

func (d productDoc) toDomain() domain.Product {
	return domain.Product{
		ID:               d.ID.Hex(),
		CreatedAt:        d.CreatedAt,
		Name:             d.Name,
		Description:      d.Description,
		Price:            d.Price,
		OriginalPrice:    d.OriginalPrice,
		SalesCount:       d.SalesCount,
		Stock:            d.Stock,
		Category:         d.Category,
		ImageURL:         d.ImageURL,
		WhatsAppImageURL: d.WhatsAppImageURL,
		Variants:         d.Variants,
	}
}

func fromDomain(p domain.Product) productDoc {
	doc := productDoc{
		CreatedAt:        p.CreatedAt,
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price,
		OriginalPrice:    p.OriginalPrice,
		SalesCount:       p.SalesCount,
		Stock:            p.Stock,
		Category:         p.Category,
		ImageURL:         p.ImageURL,
		WhatsAppImageURL: p.WhatsAppImageURL,
		Variants:         p.Variants,
	}
	if oid, err := primitive.ObjectIDFromHex(p.ID); err == nil {
		doc.ID = oid
	}
	return doc
}
