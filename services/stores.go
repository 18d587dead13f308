package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-logistics/models"
)

// Storage returns (nil, nil) from FindByID when the record does not exist.

type OrderStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Order, error)

	// Assign sets status Shipped and assigned_already on every order in ids whose
	// status is one of allowed and that no session holds (assigned_already unset),
	// in one conditional bulk write. It returns the matched count.
	Assign(ctx context.Context, ids []primitive.ObjectID, allowed []models.OrderStatus) (int64, error)

	// Release puts orders back to Preparing and clears assigned_already.
	Release(ctx context.Context, ids []primitive.ObjectID) (int64, error)

	// Cancel sets Cancelled and clears assigned_already on orders that are not Delivered.
	Cancel(ctx context.Context, ids []primitive.ObjectID) (int64, error)

	MarkShipped(ctx context.Context, ids []primitive.ObjectID) (int64, error)

	MarkDelivered(ctx context.Context, ids []primitive.ObjectID, at time.Time) (int64, error)

	// SubmitProof stores proof and moves orders whose status is one of allowed to Delivered Pending.
	SubmitProof(ctx context.Context, ids []primitive.ObjectID, proof string, allowed []models.OrderStatus) (int64, error)

	// PromoteDeliveredPending moves Delivered Pending orders created before cutoff to Delivered.
	PromoteDeliveredPending(ctx context.Context, cutoff, at time.Time) (int64, error)
}

type RiderStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Rider, error)
}

type TruckStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Truck, error)
}

// SessionFilter narrows FindViews. Zero values match everything.
type SessionFilter struct {
	RiderID  *primitive.ObjectID
	Statuses []models.SessionStatus
}

type SessionStore interface {
	Insert(ctx context.Context, session *models.DeliverySession) error

	FindByID(ctx context.Context, id primitive.ObjectID) (*models.DeliverySession, error)

	// UpdateOngoing rewrites rider, truck and orders of a session that is still Ongoing.
	UpdateOngoing(ctx context.Context, id, riderID, truckID primitive.ObjectID, orderIDs []primitive.ObjectID) (bool, error)

	// MarkStarted stamps start_time on an Ongoing session that has none yet.
	MarkStarted(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)

	// MarkCompleted moves an Ongoing session to Completed and stamps end_time.
	MarkCompleted(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)

	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)

	// FindViews returns sessions joined with rider, truck, orders and products, newest first.
	FindViews(ctx context.Context, filter SessionFilter) ([]models.SessionView, error)
}

// Transactor runs fn so that its writes commit or abort together.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher publishes an event once the state change behind it is committed.
// Delivery is best effort; implementations log failures.
type Dispatcher interface {
	Notify(ctx context.Context, kind models.EventKind, payload models.Notification)
}
