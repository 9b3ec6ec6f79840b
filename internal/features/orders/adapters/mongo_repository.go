package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/features/orders/domain"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository implements ports.OrderRepository on a MongoDB collection.
type MongoOrderRepository struct {
	coll *mongo.Collection
}

// NewMongoOrderRepository creates a repository over coll.
func NewMongoOrderRepository(coll *mongo.Collection) *MongoOrderRepository {
	return &MongoOrderRepository{coll: coll}
}

type itemDocument struct {
	ProductRef  string               `bson:"productRef"`
	ProductType string               `bson:"productType,omitempty"`
	Name        string               `bson:"name"`
	Quantity    int                  `bson:"quantity"`
	UnitPrice   primitive.Decimal128 `bson:"unitPrice"`
}

type orderDocument struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	UserID          string                 `bson:"userId"`
	Items           []itemDocument         `bson:"items"`
	ShippingDetails domain.ShippingDetails `bson:"shippingDetails"`
	PaymentMethod   string                 `bson:"paymentMethod"`
	TotalAmount     primitive.Decimal128   `bson:"totalAmount"`
	Status          string                 `bson:"status"`
	CreatedAt       time.Time              `bson:"createdAt"`
	UpdatedAt       time.Time              `bson:"updatedAt"`
	IdempotencyKey  string                 `bson:"idempotencyKey,omitempty"`
}

// EnsureIndexes creates the indexes used by the per-user and date range queries.
func (r *MongoOrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}
	return nil
}

// Create inserts the order and returns a copy carrying the generated id.
func (r *MongoOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	doc, err := toDocument(order)
	if err != nil {
		return nil, err
	}
	doc.ID = primitive.NilObjectID

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	created := *order
	created.ID = oid.Hex()
	return &created, nil
}

// GetByID loads a single order.
func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order %s: %w", id, err)
	}

	return fromDocument(doc)
}

// ListByUser returns the user's orders, newest first.
func (r *MongoOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// ListAll returns every order, newest first.
func (r *MongoOrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.find(ctx, bson.M{})
}

// ListCreatedSince returns orders created at or after from.
func (r *MongoOrderRepository) ListCreatedSince(ctx context.Context, from time.Time) ([]domain.Order, error) {
	return r.find(ctx, bson.M{"createdAt": bson.M{"$gte": from}})
}

// UpdateStatus is a conditional single-document write keyed on the expected current status.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updatedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order %s: %w", id, err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	// Nothing matched: either the order is gone or its status moved on.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrStatusConflict
}

// Delete removes the order permanently.
func (r *MongoOrderRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrOrderNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(docs))
	for _, doc := range docs {
		order, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func toDocument(o *domain.Order) (orderDocument, error) {
	total, err := toDecimal128(o.TotalAmount)
	if err != nil {
		return orderDocument{}, err
	}

	items := make([]itemDocument, len(o.Items))
	for i, item := range o.Items {
		price, err := toDecimal128(item.UnitPrice)
		if err != nil {
			return orderDocument{}, err
		}
		items[i] = itemDocument{
			ProductRef:  item.ProductRef,
			ProductType: item.ProductType,
			Name:        item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   price,
		}
	}

	return orderDocument{
		UserID:          o.UserID,
		Items:           items,
		ShippingDetails: o.ShippingDetails,
		PaymentMethod:   string(o.PaymentMethod),
		TotalAmount:     total,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		IdempotencyKey:  o.IdempotencyKey,
	}, nil
}

func fromDocument(doc orderDocument) (*domain.Order, error) {
	total, err := decimal.NewFromString(doc.TotalAmount.String())
	if err != nil {
		return nil, fmt.Errorf("order %s: bad total amount: %w", doc.ID.Hex(), err)
	}

	items := make([]domain.OrderItem, len(doc.Items))
	for i, item := range doc.Items {
		price, err := decimal.NewFromString(item.UnitPrice.String())
		if err != nil {
			return nil, fmt.Errorf("order %s: bad unit price: %w", doc.ID.Hex(), err)
		}
		items[i] = domain.OrderItem{
			ProductRef:  item.ProductRef,
			ProductType: item.ProductType,
			Name:        item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   price,
		}
	}

	return &domain.Order{
		ID:              doc.ID.Hex(),
		UserID:          doc.UserID,
		Items:           items,
		ShippingDetails: doc.ShippingDetails,
		PaymentMethod:   domain.PaymentMethod(doc.PaymentMethod),
		TotalAmount:     total,
		Status:          domain.OrderStatus(doc.Status),
		CreatedAt:       doc.CreatedAt.UTC(),
		UpdatedAt:       doc.UpdatedAt.UTC(),
		IdempotencyKey:  doc.IdempotencyKey,
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("cannot store amount %s: %w", d, err)
	}
	return v, nil
}
