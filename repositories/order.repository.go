package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-logistics/models"
)

// OrderRepository persists orders. Every status change is a single
// conditional update so concurrent requests cannot both win.
type OrderRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewOrderRepository(db *mongo.Database, timeout time.Duration) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection(ordersCollection),
		timeout:    timeout,
	}
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
}

// List returns orders newest first, optionally filtered by status.
func (r *OrderRepository) List(ctx context.Context, status models.OrderStatus, limit int64) ([]models.Order, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return r.find(ctx, filter, opts)
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) Assign(ctx context.Context, ids []primitive.ObjectID, allowed []models.OrderStatus) (int64, error) {
	return r.updateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": bson.M{"$in": allowed}, "assigned_already": bson.M{"$ne": true}},
		bson.M{"status": models.OrderShipped, "assigned_already": true},
	)
}

func (r *OrderRepository) Release(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	return r.updateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": bson.M{"$ne": models.OrderDelivered}},
		bson.M{"status": models.OrderPreparing, "assigned_already": false},
	)
}

func (r *OrderRepository) Cancel(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	return r.updateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": bson.M{"$ne": models.OrderDelivered}},
		bson.M{"status": models.OrderCancelled, "assigned_already": false},
	)
}

func (r *OrderRepository) MarkShipped(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	return r.updateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": bson.M{"$ne": models.OrderDelivered}},
		bson.M{"status": models.OrderShipped},
	)
}

func (r *OrderRepository) MarkDelivered(ctx context.Context, ids []primitive.ObjectID, at time.Time) (int64, error) {
	return r.updateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"status": models.OrderDelivered, "delivered_at": at},
	)
}

func (r *OrderRepository) SubmitProof(ctx context.Context, ids []primitive.ObjectID, proof string, allowed []models.OrderStatus) (int64, error) {
	return r.updateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "status": bson.M{"$in": allowed}},
		bson.M{"status": models.OrderDeliveredPending, "proof_of_delivery": proof},
	)
}

func (r *OrderRepository) PromoteDeliveredPending(ctx context.Context, cutoff, at time.Time) (int64, error) {
	return r.updateMany(ctx,
		bson.M{"status": models.OrderDeliveredPending, "created_at": bson.M{"$lt": cutoff}},
		bson.M{"status": models.OrderDelivered, "delivered_at": at},
	)
}

func (r *OrderRepository) updateMany(ctx context.Context, filter, set bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}
