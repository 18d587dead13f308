package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rider is a delivery driver
type Rider struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	Phone         string             `bson:"phone" json:"phone"`
	LicenseNumber string             `bson:"license_number" json:"license_number"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// Truck is a delivery vehicle, optionally tied to a rider
type Truck struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	PlateNumber string              `bson:"plate_number" json:"plate_number"`
	Model       string              `bson:"model" json:"model"`
	CapacityKg  float64             `bson:"capacity_kg" json:"capacity_kg"`
	RiderID     *primitive.ObjectID `bson:"rider_id,omitempty" json:"rider_id,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
}

// Product is only read here, to decorate order lines
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
}
