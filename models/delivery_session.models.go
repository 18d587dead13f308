package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus is the state of a delivery session
type SessionStatus string

const (
	SessionOngoing   SessionStatus = "Ongoing"
	SessionCompleted SessionStatus = "Completed"
	SessionCancelled SessionStatus = "Cancelled"
)

// SessionStatuses lists every status in display order
var SessionStatuses = []SessionStatus{SessionOngoing, SessionCompleted, SessionCancelled}

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionOngoing, SessionCompleted, SessionCancelled:
		return true
	default:
		return false
	}
}

// DeliverySession binds one rider, one truck and a set of orders for one delivery run
type DeliverySession struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	RiderID   primitive.ObjectID   `bson:"rider_id" json:"rider_id"`
	TruckID   primitive.ObjectID   `bson:"truck_id" json:"truck_id"`
	OrderIDs  []primitive.ObjectID `bson:"order_ids" json:"order_ids"`
	Status    SessionStatus        `bson:"status" json:"status"`
	StartTime *time.Time           `bson:"start_time" json:"start_time"`
	EndTime   *time.Time           `bson:"end_time" json:"end_time"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// HasOrder reports whether the order belongs to the session
func (s *DeliverySession) HasOrder(id primitive.ObjectID) bool {
	for _, orderID := range s.OrderIDs {
		if orderID == id {
			return true
		}
	}
	return false
}

// SessionView is a session with its rider, truck, orders and products joined in.
// Rider and Truck are nil when the referenced record is gone.
type SessionView struct {
	ID        primitive.ObjectID `json:"id"`
	Status    SessionStatus      `json:"status"`
	Rider     *Rider             `json:"rider"`
	Truck     *Truck             `json:"truck"`
	Orders    []OrderView        `json:"orders"`
	StartTime *time.Time         `json:"start_time"`
	EndTime   *time.Time         `json:"end_time"`
	CreatedAt time.Time          `json:"created_at"`
}

// CompletionResult is returned when a session is completed
type CompletionResult struct {
	Session *DeliverySession `json:"session"`
	Count   int              `json:"count"`
	Orders  []Order          `json:"orders"`
}
