package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-logistics/models"
	"go-logistics/services"
)

// SessionRepository persists delivery sessions. Writes that need an Ongoing
// session carry the status in their filter.
type SessionRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewSessionRepository(db *mongo.Database, timeout time.Duration) *SessionRepository {
	return &SessionRepository{collection: db.Collection(sessionsCollection), timeout: timeout}
}

func (r *SessionRepository) Insert(ctx context.Context, session *models.DeliverySession) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if session.ID.IsZero() {
		session.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *SessionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.DeliverySession, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var session models.DeliverySession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) UpdateOngoing(ctx context.Context, id, riderID, truckID primitive.ObjectID, orderIDs []primitive.ObjectID) (bool, error) {
	return r.updateOne(ctx,
		bson.M{"_id": id, "status": models.SessionOngoing},
		bson.M{"rider_id": riderID, "truck_id": truckID, "order_ids": orderIDs},
	)
}

func (r *SessionRepository) MarkStarted(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	return r.updateOne(ctx,
		bson.M{"_id": id, "status": models.SessionOngoing, "start_time": nil},
		bson.M{"start_time": at},
	)
}

func (r *SessionRepository) MarkCompleted(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	return r.updateOne(ctx,
		bson.M{"_id": id, "status": models.SessionOngoing},
		bson.M{"status": models.SessionCompleted, "end_time": at},
	)
}

func (r *SessionRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}

func (r *SessionRepository) updateOne(ctx context.Context, filter, set bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

type orderAggregate struct {
	models.Order `bson:",inline"`
	Products     []models.Product `bson:"products"`
}

type sessionAggregate struct {
	models.DeliverySession `bson:",inline"`
	Rider                  []models.Rider   `bson:"rider"`
	Truck                  []models.Truck   `bson:"truck"`
	Orders                 []orderAggregate `bson:"orders"`
}

// FindViews joins rider, truck, orders and their products. References that no
// longer resolve come back as nil or are left out.
func (r *SessionRepository) FindViews(ctx context.Context, filter services.SessionFilter) ([]models.SessionView, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Aggregate(ctx, viewPipeline(filter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var aggregates []sessionAggregate
	if err := cursor.All(ctx, &aggregates); err != nil {
		return nil, err
	}

	views := make([]models.SessionView, 0, len(aggregates))
	for _, agg := range aggregates {
		views = append(views, toView(agg))
	}
	return views, nil
}

func viewPipeline(filter services.SessionFilter) mongo.Pipeline {
	match := bson.M{}
	if filter.RiderID != nil {
		match["rider_id"] = *filter.RiderID
	}
	if len(filter.Statuses) > 0 {
		match["status"] = bson.M{"$in": filter.Statuses}
	}

	pipeline := mongo.Pipeline{}
	if len(match) > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	return append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         ridersCollection,
			"localField":   "rider_id",
			"foreignField": "_id",
			"as":           "rider",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         trucksCollection,
			"localField":   "truck_id",
			"foreignField": "_id",
			"as":           "truck",
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": ordersCollection,
			"let":  bson.M{"order_ids": bson.M{"$ifNull": bson.A{"$order_ids", bson.A{}}}},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$in": bson.A{"$_id", "$$order_ids"}}}},
				bson.M{"$lookup": bson.M{
					"from":         productsCollection,
					"localField":   "items.product_id",
					"foreignField": "_id",
					"as":           "products",
				}},
			},
			"as": "orders",
		}}},
	)
}

func toView(agg sessionAggregate) models.SessionView {
	view := models.SessionView{
		ID:        agg.ID,
		Status:    agg.Status,
		StartTime: agg.StartTime,
		EndTime:   agg.EndTime,
		CreatedAt: agg.CreatedAt,
		Orders:    make([]models.OrderView, 0, len(agg.Orders)),
	}
	if len(agg.Rider) > 0 {
		view.Rider = &agg.Rider[0]
	}
	if len(agg.Truck) > 0 {
		view.Truck = &agg.Truck[0]
	}

	// $lookup does not keep order_ids order
	byID := make(map[primitive.ObjectID]orderAggregate, len(agg.Orders))
	for _, order := range agg.Orders {
		byID[order.ID] = order
	}
	for _, id := range agg.OrderIDs {
		if order, ok := byID[id]; ok {
			view.Orders = append(view.Orders, models.NewOrderView(order.Order, order.Products))
		}
	}
	return view
}
