package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-logistics/logger"
	"go-logistics/models"
)

var (
	// orders a new session may take
	assignableStatuses = []models.OrderStatus{models.OrderPreparing, models.OrderCancelled}
	// orders an update may add; a Shipped order qualifies only once no session holds it
	reassignableStatuses = []models.OrderStatus{models.OrderPreparing, models.OrderCancelled, models.OrderShipped}
	// orders that can receive a proof of delivery
	proofStatuses = []models.OrderStatus{models.OrderShipped, models.OrderDeliveredPending}
)

//go:generate mockgen -destination=mocks/mock_delivery_session.go . DeliverySessionService
type DeliverySessionService interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.DeliverySession, error)

	Create(ctx context.Context, in CreateSessionInput) (*models.DeliverySession, error)

	Update(ctx context.Context, id primitive.ObjectID, in UpdateSessionInput) (*models.DeliverySession, error)

	Start(ctx context.Context, id primitive.ObjectID) (*models.DeliverySession, error)

	Complete(ctx context.Context, id primitive.ObjectID) (*models.CompletionResult, error)

	SubmitProof(ctx context.Context, id primitive.ObjectID, in ProofInput) (int64, error)

	CancelOrder(ctx context.Context, id, orderID primitive.ObjectID) (*models.DeliverySession, error)

	Delete(ctx context.Context, id primitive.ObjectID) (*models.DeliverySession, error)

	GroupedByStatus(ctx context.Context) (map[models.SessionStatus][]models.SessionView, error)

	OnGoing(ctx context.Context, riderID primitive.ObjectID) ([]models.SessionView, error)

	History(ctx context.Context, riderID primitive.ObjectID) ([]models.SessionView, error)
}

type CreateSessionInput struct {
	RiderID  primitive.ObjectID
	TruckID  primitive.ObjectID
	OrderIDs []primitive.ObjectID
}

// UpdateSessionInput leaves a field unchanged when it is nil.
type UpdateSessionInput struct {
	RiderID  *primitive.ObjectID
	TruckID  *primitive.ObjectID
	OrderIDs []primitive.ObjectID
}

type ProofInput struct {
	OrderIDs []primitive.ObjectID
	Proof    string
}

// SessionService keeps orders in step with the delivery sessions they belong to.
type SessionService struct {
	sessions   SessionStore
	orders     OrderStore
	riders     RiderStore
	trucks     TruckStore
	tx         Transactor
	dispatcher Dispatcher
	clock      Clock
}

func NewSessionService(sessions SessionStore, orders OrderStore, riders RiderStore, trucks TruckStore,
	tx Transactor, dispatcher Dispatcher, clock Clock) *SessionService {
	return &SessionService{
		sessions:   sessions,
		orders:     orders,
		riders:     riders,
		trucks:     trucks,
		tx:         tx,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Get returns the session or a NotFoundError.
func (s *SessionService) Get(ctx context.Context, id primitive.ObjectID) (*models.DeliverySession, error) {
	return s.session(ctx, id)
}

// Create assigns the orders to a new Ongoing session. Either every order is
// Preparing or Cancelled and all of them move to Shipped, or nothing changes.
func (s *SessionService) Create(ctx context.Context, in CreateSessionInput) (*models.DeliverySession, error) {
	orderIDs := uniqueIDs(in.OrderIDs)
	if len(orderIDs) == 0 {
		return nil, invalid("at least one order is required")
	}
	if err := s.checkRider(ctx, in.RiderID); err != nil {
		return nil, err
	}
	if err := s.checkTruck(ctx, in.TruckID); err != nil {
		return nil, err
	}

	session := &models.DeliverySession{
		ID:        primitive.NewObjectID(),
		RiderID:   in.RiderID,
		TruckID:   in.TruckID,
		OrderIDs:  orderIDs,
		Status:    models.SessionOngoing,
		CreatedAt: s.clock.Now(),
	}

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		matched, err := s.orders.Assign(ctx, orderIDs, assignableStatuses)
		if err != nil {
			return fmt.Errorf("failed to assign orders: %w", err)
		}
		if matched != int64(len(orderIDs)) {
			return invalid("%d of %d orders are not in Preparing or Cancelled status",
				len(orderIDs)-int(matched), len(orderIDs))
		}
		if err := s.sessions.Insert(ctx, session); err != nil {
			return fmt.Errorf("failed to create delivery session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("delivery session created",
		zap.String("session_id", session.ID.Hex()),
		zap.String("rider_id", session.RiderID.Hex()),
		zap.Int("orders", len(orderIDs)),
	)

	s.dispatcher.Notify(ctx, models.EventSessionAssigned, models.Notification{
		SessionID: &session.ID,
		RiderID:   &session.RiderID,
		Message:   fmt.Sprintf("You have been assigned a delivery run with %d orders.", len(orderIDs)),
	})
	s.dispatcher.Notify(ctx, models.EventSessionCreated, models.Notification{
		SessionID: &session.ID,
		RiderID:   &session.RiderID,
		Message:   fmt.Sprintf("Delivery session %s created with %d orders.", session.ID.Hex(), len(orderIDs)),
	})
	s.notifyCustomers(ctx, models.EventOrderShipped, session, orderIDs)

	return session, nil
}

// Update changes rider, truck and orders of an Ongoing session. Removed orders
// go back to Preparing; added orders must be Preparing, Cancelled or Shipped.
func (s *SessionService) Update(ctx context.Context, id primitive.ObjectID, in UpdateSessionInput) (*models.DeliverySession, error) {
	session, err := s.ongoingSession(ctx, id)
	if err != nil {
		return nil, err
	}

	riderID, truckID := session.RiderID, session.TruckID
	if in.RiderID != nil {
		if err := s.checkRider(ctx, *in.RiderID); err != nil {
			return nil, err
		}
		riderID = *in.RiderID
	}
	if in.TruckID != nil {
		if err := s.checkTruck(ctx, *in.TruckID); err != nil {
			return nil, err
		}
		truckID = *in.TruckID
	}

	orderIDs := session.OrderIDs
	var added, removed []primitive.ObjectID
	if in.OrderIDs != nil {
		orderIDs = uniqueIDs(in.OrderIDs)
		if len(orderIDs) == 0 {
			return nil, invalid("at least one order is required")
		}
		added = difference(orderIDs, session.OrderIDs)
		removed = difference(session.OrderIDs, orderIDs)
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if len(added) > 0 {
			matched, err := s.orders.Assign(ctx, added, reassignableStatuses)
			if err != nil {
				return fmt.Errorf("failed to assign orders: %w", err)
			}
			if matched != int64(len(added)) {
				return invalid("%d of %d added orders are held by another session or not in Preparing, Cancelled or Shipped status",
					len(added)-int(matched), len(added))
			}
		}
		if len(removed) > 0 {
			if _, err := s.orders.Release(ctx, removed); err != nil {
				return fmt.Errorf("failed to release orders: %w", err)
			}
		}
		ok, err := s.sessions.UpdateOngoing(ctx, id, riderID, truckID, orderIDs)
		if err != nil {
			return fmt.Errorf("failed to update delivery session: %w", err)
		}
		if !ok {
			return s.conflict(ctx, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	riderChanged := riderID != session.RiderID
	session.RiderID, session.TruckID, session.OrderIDs = riderID, truckID, orderIDs

	logger.Log.Info("delivery session updated",
		zap.String("session_id", id.Hex()),
		zap.Int("added", len(added)),
		zap.Int("removed", len(removed)),
	)

	if riderChanged {
		s.dispatcher.Notify(ctx, models.EventSessionAssigned, models.Notification{
			SessionID: &session.ID,
			RiderID:   &session.RiderID,
			Message:   fmt.Sprintf("You have been assigned a delivery run with %d orders.", len(orderIDs)),
		})
	}
	s.notifyCustomers(ctx, models.EventOrderShipped, session, added)

	return session, nil
}

// Start stamps the start time once and re-asserts Shipped on every order.
func (s *SessionService) Start(ctx context.Context, id primitive.ObjectID) (*models.DeliverySession, error) {
	if _, err := s.ongoingSession(ctx, id); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		// the session may have been completed or deleted since it was loaded
		current, err := s.ongoingSession(ctx, id)
		if err != nil {
			return err
		}
		if current.StartTime == nil {
			ok, err := s.sessions.MarkStarted(ctx, id, now)
			if err != nil {
				return fmt.Errorf("failed to start delivery session: %w", err)
			}
			if !ok {
				// stamped by a concurrent start; fails only if the session moved on
				if _, err := s.ongoingSession(ctx, id); err != nil {
					return err
				}
			}
		}
		if _, err := s.orders.MarkShipped(ctx, current.OrderIDs); err != nil {
			return fmt.Errorf("failed to mark orders shipped: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	started, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload delivery session: %w", err)
	}
	if started == nil {
		return nil, notFound("delivery session", id)
	}

	logger.Log.Info("delivery session started", zap.String("session_id", id.Hex()))
	s.notifyCustomers(ctx, models.EventOrderShipped, started, started.OrderIDs)

	return started, nil
}

// Complete closes an Ongoing session and delivers all of its orders.
func (s *SessionService) Complete(ctx context.Context, id primitive.ObjectID) (*models.CompletionResult, error) {
	session, err := s.ongoingSession(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var delivered int64
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.sessions.MarkCompleted(ctx, id, now)
		if err != nil {
			return fmt.Errorf("failed to complete delivery session: %w", err)
		}
		if !ok {
			return s.conflict(ctx, id)
		}
		delivered, err = s.orders.MarkDelivered(ctx, session.OrderIDs, now)
		if err != nil {
			return fmt.Errorf("failed to mark orders delivered: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	session.Status = models.SessionCompleted
	session.EndTime = &now

	orders, err := s.orders.FindByIDs(ctx, session.OrderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivered orders: %w", err)
	}

	logger.Log.Info("delivery session completed",
		zap.String("session_id", id.Hex()),
		zap.Int64("delivered", delivered),
	)
	for _, order := range orders {
		s.notifyCustomer(ctx, models.EventOrderDelivered, session, order)
	}

	return &models.CompletionResult{Session: session, Count: int(delivered), Orders: orders}, nil
}

// Delete removes the session and cancels the orders it held.
func (s *SessionService) Delete(ctx context.Context, id primitive.ObjectID) (*models.DeliverySession, error) {
	session, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	orderIDs := append([]primitive.ObjectID(nil), session.OrderIDs...)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.sessions.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to delete delivery session: %w", err)
		}
		if !ok {
			return notFound("delivery session", id)
		}
		if _, err := s.orders.Cancel(ctx, orderIDs); err != nil {
			return fmt.Errorf("failed to cancel orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("delivery session deleted",
		zap.String("session_id", id.Hex()),
		zap.Int("orders", len(orderIDs)),
	)

	s.dispatcher.Notify(ctx, models.EventSessionCancelled, models.Notification{
		SessionID: &session.ID,
		RiderID:   &session.RiderID,
		Message:   fmt.Sprintf("Delivery session %s was cancelled.", session.ID.Hex()),
	})
	s.notifyCustomers(ctx, models.EventOrderCancelled, session, orderIDs)

	return session, nil
}

// SubmitProof attaches a proof of delivery to orders of the session and
// moves them to Delivered Pending.
func (s *SessionService) SubmitProof(ctx context.Context, id primitive.ObjectID, in ProofInput) (int64, error) {
	if in.Proof == "" {
		return 0, invalid("proof of delivery is required")
	}
	orderIDs := uniqueIDs(in.OrderIDs)
	if len(orderIDs) == 0 {
		return 0, invalid("at least one order is required")
	}

	session, err := s.session(ctx, id)
	if err != nil {
		return 0, err
	}
	for _, orderID := range orderIDs {
		if !session.HasOrder(orderID) {
			return 0, invalid("order %s is not part of delivery session %s", orderID.Hex(), id.Hex())
		}
	}

	var matched int64
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		matched, err = s.orders.SubmitProof(ctx, orderIDs, in.Proof, proofStatuses)
		if err != nil {
			return fmt.Errorf("failed to submit proof of delivery: %w", err)
		}
		if matched != int64(len(orderIDs)) {
			return invalid("%d of %d orders are not awaiting delivery", len(orderIDs)-int(matched), len(orderIDs))
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Log.Info("proof of delivery submitted",
		zap.String("session_id", id.Hex()),
		zap.Int64("orders", matched),
	)

	orders, err := s.orders.FindByIDs(ctx, orderIDs)
	if err != nil {
		logger.Log.Warn("failed to load orders for notification", zap.Error(err))
		return matched, nil
	}
	for _, order := range orders {
		orderID := order.ID
		s.dispatcher.Notify(ctx, models.EventProofSubmitted, models.Notification{
			SessionID: &session.ID,
			OrderID:   &orderID,
			RiderID:   &session.RiderID,
			OrderCode: order.OrderCode,
			Message:   fmt.Sprintf("Proof of delivery submitted for order %s.", order.OrderCode),
		})
	}

	return matched, nil
}

// CancelOrder takes one order out of an Ongoing session and cancels it.
func (s *SessionService) CancelOrder(ctx context.Context, id, orderID primitive.ObjectID) (*models.DeliverySession, error) {
	session, err := s.ongoingSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.HasOrder(orderID) {
		return nil, invalid("order %s is not part of delivery session %s", orderID.Hex(), id.Hex())
	}
	remaining := difference(session.OrderIDs, []primitive.ObjectID{orderID})
	if len(remaining) == 0 {
		return nil, invalid("order %s is the last order of delivery session %s; delete the session instead",
			orderID.Hex(), id.Hex())
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.sessions.UpdateOngoing(ctx, id, session.RiderID, session.TruckID, remaining)
		if err != nil {
			return fmt.Errorf("failed to update delivery session: %w", err)
		}
		if !ok {
			return s.conflict(ctx, id)
		}
		if _, err := s.orders.Cancel(ctx, []primitive.ObjectID{orderID}); err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	session.OrderIDs = remaining
	logger.Log.Info("order cancelled from delivery session",
		zap.String("session_id", id.Hex()),
		zap.String("order_id", orderID.Hex()),
	)
	s.notifyCustomers(ctx, models.EventOrderCancelled, session, []primitive.ObjectID{orderID})

	return session, nil
}

// GroupedByStatus returns every session, joined, keyed by status. All statuses are present.
func (s *SessionService) GroupedByStatus(ctx context.Context) (map[models.SessionStatus][]models.SessionView, error) {
	views, err := s.sessions.FindViews(ctx, SessionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery sessions: %w", err)
	}

	grouped := make(map[models.SessionStatus][]models.SessionView, len(models.SessionStatuses))
	for _, status := range models.SessionStatuses {
		grouped[status] = []models.SessionView{}
	}
	for _, view := range views {
		grouped[view.Status] = append(grouped[view.Status], view)
	}
	return grouped, nil
}

// OnGoing returns the rider's Ongoing sessions.
func (s *SessionService) OnGoing(ctx context.Context, riderID primitive.ObjectID) ([]models.SessionView, error) {
	return s.riderSessions(ctx, riderID, models.SessionOngoing)
}

// History returns the rider's Completed sessions.
func (s *SessionService) History(ctx context.Context, riderID primitive.ObjectID) ([]models.SessionView, error) {
	return s.riderSessions(ctx, riderID, models.SessionCompleted)
}

func (s *SessionService) riderSessions(ctx context.Context, riderID primitive.ObjectID, status models.SessionStatus) ([]models.SessionView, error) {
	rider, err := s.riders.FindByID(ctx, riderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rider: %w", err)
	}
	if rider == nil {
		return nil, notFound("rider", riderID)
	}

	views, err := s.sessions.FindViews(ctx, SessionFilter{
		RiderID:  &riderID,
		Statuses: []models.SessionStatus{status},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery sessions: %w", err)
	}
	if views == nil {
		views = []models.SessionView{}
	}
	return views, nil
}

func (s *SessionService) session(ctx context.Context, id primitive.ObjectID) (*models.DeliverySession, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load delivery session: %w", err)
	}
	if session == nil {
		return nil, notFound("delivery session", id)
	}
	return session, nil
}

func (s *SessionService) ongoingSession(ctx context.Context, id primitive.ObjectID) (*models.DeliverySession, error) {
	session, err := s.session(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionOngoing {
		return nil, &InvalidStateError{SessionID: id.Hex(), Status: session.Status}
	}
	return session, nil
}

// conflict explains why a guarded session write matched nothing.
func (s *SessionService) conflict(ctx context.Context, id primitive.ObjectID) error {
	session, err := s.session(ctx, id)
	if err != nil {
		return err
	}
	return &InvalidStateError{SessionID: id.Hex(), Status: session.Status}
}

func (s *SessionService) checkRider(ctx context.Context, id primitive.ObjectID) error {
	rider, err := s.riders.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load rider: %w", err)
	}
	if rider == nil {
		return invalid("rider %s does not exist", id.Hex())
	}
	return nil
}

func (s *SessionService) checkTruck(ctx context.Context, id primitive.ObjectID) error {
	truck, err := s.trucks.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load truck: %w", err)
	}
	if truck == nil {
		return invalid("truck %s does not exist", id.Hex())
	}
	return nil
}

func (s *SessionService) notifyCustomers(ctx context.Context, kind models.EventKind, session *models.DeliverySession, orderIDs []primitive.ObjectID) {
	if len(orderIDs) == 0 {
		return
	}
	orders, err := s.orders.FindByIDs(ctx, orderIDs)
	if err != nil {
		logger.Log.Warn("failed to load orders for notification",
			zap.String("session_id", session.ID.Hex()),
			zap.Error(err),
		)
		return
	}
	for _, order := range orders {
		s.notifyCustomer(ctx, kind, session, order)
	}
}

func (s *SessionService) notifyCustomer(ctx context.Context, kind models.EventKind, session *models.DeliverySession, order models.Order) {
	orderID, userID := order.ID, order.UserID
	s.dispatcher.Notify(ctx, kind, models.Notification{
		SessionID: &session.ID,
		OrderID:   &orderID,
		UserID:    &userID,
		RiderID:   &session.RiderID,
		OrderCode: order.OrderCode,
		Message:   customerMessage(kind, order.OrderCode),
	})
}

func customerMessage(kind models.EventKind, code string) string {
	switch kind {
	case models.EventOrderShipped:
		return fmt.Sprintf("Your order %s is on its way.", code)
	case models.EventOrderDelivered:
		return fmt.Sprintf("Your order %s has been delivered.", code)
	case models.EventOrderCancelled:
		return fmt.Sprintf("Your order %s has been cancelled.", code)
	default:
		return fmt.Sprintf("Your order %s has been updated.", code)
	}
}

// uniqueIDs drops duplicates and keeps first-seen order.
func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// difference returns the ids of a that are not in b.
func difference(a, b []primitive.ObjectID) []primitive.ObjectID {
	exclude := make(map[primitive.ObjectID]struct{}, len(b))
	for _, id := range b {
		exclude[id] = struct{}{}
	}
	out := make([]primitive.ObjectID, 0, len(a))
	for _, id := range a {
		if _, ok := exclude[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
