package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleRider = "rider"
)

// Address represents a customer's delivery address
type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipcode" json:"zipcode"`
}

// User is an account: admin, customer or rider
type User struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string              `bson:"name" json:"name"`
	Email     string              `bson:"email" json:"email"`
	Password  string              `bson:"password,omitempty" json:"-"`
	Address   Address             `bson:"address" json:"address"`
	Role      string              `bson:"role" json:"role"` // "admin", "user" or "rider"
	RiderID   *primitive.ObjectID `bson:"rider_id,omitempty" json:"rider_id,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}

// EventKind names an outbound notification
type EventKind string

const (
	EventSessionCreated   EventKind = "session.created"
	EventSessionAssigned  EventKind = "session.assigned"
	EventSessionCancelled EventKind = "session.cancelled"
	EventOrderShipped     EventKind = "order.shipped"
	EventOrderDelivered   EventKind = "order.delivered"
	EventOrderCancelled   EventKind = "order.cancelled"
	EventProofSubmitted   EventKind = "order.proof_submitted"
)

// Notification is a persisted outbound event
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Kind      EventKind           `bson:"kind" json:"kind"`
	SessionID *primitive.ObjectID `bson:"session_id,omitempty" json:"session_id,omitempty"`
	OrderID   *primitive.ObjectID `bson:"order_id,omitempty" json:"order_id,omitempty"`
	UserID    *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	RiderID   *primitive.ObjectID `bson:"rider_id,omitempty" json:"rider_id,omitempty"`
	OrderCode string              `bson:"order_code,omitempty" json:"order_code,omitempty"`
	Message   string              `bson:"message" json:"message"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
