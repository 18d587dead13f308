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

// RiderRepository persists riders
type RiderRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewRiderRepository(db *mongo.Database, timeout time.Duration) *RiderRepository {
	return &RiderRepository{collection: db.Collection(ridersCollection), timeout: timeout}
}

func (r *RiderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Rider, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rider models.Rider
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rider)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rider, nil
}

func (r *RiderRepository) List(ctx context.Context) ([]models.Rider, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	riders := []models.Rider{}
	if err := cursor.All(ctx, &riders); err != nil {
		return nil, err
	}
	return riders, nil
}

func (r *RiderRepository) Insert(ctx context.Context, rider *models.Rider) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if rider.ID.IsZero() {
		rider.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, rider)
	return err
}

// Update replaces the editable fields. It reports false when the rider does not exist.
func (r *RiderRepository) Update(ctx context.Context, rider *models.Rider) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": rider.ID}, bson.M{
		"$set": bson.M{
			"name":           rider.Name,
			"email":          rider.Email,
			"phone":          rider.Phone,
			"license_number": rider.LicenseNumber,
		},
	})
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func (r *RiderRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}

// TruckRepository persists trucks
type TruckRepository struct {
	collection *mongo.Collection
	timeout    time.Duration
}

func NewTruckRepository(db *mongo.Database, timeout time.Duration) *TruckRepository {
	return &TruckRepository{collection: db.Collection(trucksCollection), timeout: timeout}
}

func (r *TruckRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Truck, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var truck models.Truck
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&truck)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &truck, nil
}

func (r *TruckRepository) List(ctx context.Context) ([]models.Truck, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "plate_number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	trucks := []models.Truck{}
	if err := cursor.All(ctx, &trucks); err != nil {
		return nil, err
	}
	return trucks, nil
}

func (r *TruckRepository) Insert(ctx context.Context, truck *models.Truck) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if truck.ID.IsZero() {
		truck.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, truck)
	return err
}

func (r *TruckRepository) Update(ctx context.Context, truck *models.Truck) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": truck.ID}, bson.M{
		"$set": bson.M{
			"plate_number": truck.PlateNumber,
			"model":        truck.Model,
			"capacity_kg":  truck.CapacityKg,
			"rider_id":     truck.RiderID,
		},
	})
	if err != nil {
		return false, err
	}
	return result.MatchedCount == 1, nil
}

func (r *TruckRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return result.DeletedCount == 1, nil
}
