package services

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-logistics/models"
)

// world is an in-memory database shared by the fake stores below.
type world struct {
	mu       sync.Mutex
	orders   map[primitive.ObjectID]models.Order
	sessions map[primitive.ObjectID]models.DeliverySession
	riders   map[primitive.ObjectID]models.Rider
	trucks   map[primitive.ObjectID]models.Truck
}

func newWorld() *world {
	return &world{
		orders:   map[primitive.ObjectID]models.Order{},
		sessions: map[primitive.ObjectID]models.DeliverySession{},
		riders:   map[primitive.ObjectID]models.Rider{},
		trucks:   map[primitive.ObjectID]models.Truck{},
	}
}

func hasStatus(status models.OrderStatus, allowed []models.OrderStatus) bool {
	for _, s := range allowed {
		if s == status {
			return true
		}
	}
	return false
}

type fakeOrders struct{ w *world }

func (f fakeOrders) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Order, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	out := []models.Order{}
	for _, id := range ids {
		if order, ok := f.w.orders[id]; ok {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f fakeOrders) update(ids []primitive.ObjectID, match func(models.Order) bool, set func(*models.Order)) int64 {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	var matched int64
	for _, id := range ids {
		order, ok := f.w.orders[id]
		if !ok || !match(order) {
			continue
		}
		set(&order)
		f.w.orders[id] = order
		matched++
	}
	return matched
}

func notDelivered(o models.Order) bool { return o.Status != models.OrderDelivered }

func (f fakeOrders) Assign(_ context.Context, ids []primitive.ObjectID, allowed []models.OrderStatus) (int64, error) {
	return f.update(ids, func(o models.Order) bool { return hasStatus(o.Status, allowed) && !o.AssignedAlready }, func(o *models.Order) {
		o.Status = models.OrderShipped
		o.AssignedAlready = true
	}), nil
}

func (f fakeOrders) Release(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	return f.update(ids, notDelivered, func(o *models.Order) {
		o.Status = models.OrderPreparing
		o.AssignedAlready = false
	}), nil
}

func (f fakeOrders) Cancel(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	return f.update(ids, notDelivered, func(o *models.Order) {
		o.Status = models.OrderCancelled
		o.AssignedAlready = false
	}), nil
}

func (f fakeOrders) MarkShipped(_ context.Context, ids []primitive.ObjectID) (int64, error) {
	return f.update(ids, notDelivered, func(o *models.Order) { o.Status = models.OrderShipped }), nil
}

func (f fakeOrders) MarkDelivered(_ context.Context, ids []primitive.ObjectID, at time.Time) (int64, error) {
	return f.update(ids, func(models.Order) bool { return true }, func(o *models.Order) {
		o.Status = models.OrderDelivered
		o.DeliveredAt = &at
	}), nil
}

func (f fakeOrders) SubmitProof(_ context.Context, ids []primitive.ObjectID, proof string, allowed []models.OrderStatus) (int64, error) {
	return f.update(ids, func(o models.Order) bool { return hasStatus(o.Status, allowed) }, func(o *models.Order) {
		o.Status = models.OrderDeliveredPending
		o.ProofOfDelivery = proof
	}), nil
}

func (f fakeOrders) PromoteDeliveredPending(_ context.Context, cutoff, at time.Time) (int64, error) {
	f.w.mu.Lock()
	ids := make([]primitive.ObjectID, 0, len(f.w.orders))
	for id := range f.w.orders {
		ids = append(ids, id)
	}
	f.w.mu.Unlock()

	return f.update(ids, func(o models.Order) bool {
		return o.Status == models.OrderDeliveredPending && o.CreatedAt.Before(cutoff)
	}, func(o *models.Order) {
		o.Status = models.OrderDelivered
		o.DeliveredAt = &at
	}), nil
}

type fakeSessions struct{ w *world }

func copySession(s models.DeliverySession) *models.DeliverySession {
	s.OrderIDs = append([]primitive.ObjectID(nil), s.OrderIDs...)
	return &s
}

func (f fakeSessions) Insert(_ context.Context, session *models.DeliverySession) error {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	f.w.sessions[session.ID] = *copySession(*session)
	return nil
}

func (f fakeSessions) FindByID(_ context.Context, id primitive.ObjectID) (*models.DeliverySession, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	session, ok := f.w.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(session), nil
}

func (f fakeSessions) updateOngoing(id primitive.ObjectID, set func(*models.DeliverySession) bool) bool {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	session, ok := f.w.sessions[id]
	if !ok || session.Status != models.SessionOngoing {
		return false
	}
	if !set(&session) {
		return false
	}
	f.w.sessions[id] = session
	return true
}

func (f fakeSessions) UpdateOngoing(_ context.Context, id, riderID, truckID primitive.ObjectID, orderIDs []primitive.ObjectID) (bool, error) {
	return f.updateOngoing(id, func(s *models.DeliverySession) bool {
		s.RiderID, s.TruckID = riderID, truckID
		s.OrderIDs = append([]primitive.ObjectID(nil), orderIDs...)
		return true
	}), nil
}

func (f fakeSessions) MarkStarted(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	return f.updateOngoing(id, func(s *models.DeliverySession) bool {
		if s.StartTime != nil {
			return false
		}
		s.StartTime = &at
		return true
	}), nil
}

func (f fakeSessions) MarkCompleted(_ context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	return f.updateOngoing(id, func(s *models.DeliverySession) bool {
		s.Status = models.SessionCompleted
		s.EndTime = &at
		return true
	}), nil
}

func (f fakeSessions) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	if _, ok := f.w.sessions[id]; !ok {
		return false, nil
	}
	delete(f.w.sessions, id)
	return true, nil
}

func (f fakeSessions) FindViews(_ context.Context, filter SessionFilter) ([]models.SessionView, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()

	var views []models.SessionView
	for _, s := range f.w.sessions {
		if filter.RiderID != nil && s.RiderID != *filter.RiderID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsSessionStatus(filter.Statuses, s.Status) {
			continue
		}
		view := models.SessionView{
			ID:        s.ID,
			Status:    s.Status,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			CreatedAt: s.CreatedAt,
			Orders:    []models.OrderView{},
		}
		if rider, ok := f.w.riders[s.RiderID]; ok {
			view.Rider = &rider
		}
		if truck, ok := f.w.trucks[s.TruckID]; ok {
			view.Truck = &truck
		}
		for _, id := range s.OrderIDs {
			if order, ok := f.w.orders[id]; ok {
				view.Orders = append(view.Orders, models.NewOrderView(order, nil))
			}
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.After(views[j].CreatedAt) })
	return views, nil
}

func containsSessionStatus(statuses []models.SessionStatus, status models.SessionStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeRiders struct{ w *world }

func (f fakeRiders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Rider, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	rider, ok := f.w.riders[id]
	if !ok {
		return nil, nil
	}
	return &rider, nil
}

type fakeTrucks struct{ w *world }

func (f fakeTrucks) FindByID(_ context.Context, id primitive.ObjectID) (*models.Truck, error) {
	f.w.mu.Lock()
	defer f.w.mu.Unlock()
	truck, ok := f.w.trucks[id]
	if !ok {
		return nil, nil
	}
	return &truck, nil
}

// fakeTx restores the orders and sessions it saw when fn fails.
type fakeTx struct{ w *world }

func (f fakeTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.w.mu.Lock()
	orders, sessions := maps.Clone(f.w.orders), maps.Clone(f.w.sessions)
	f.w.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.w.mu.Lock()
		f.w.orders, f.w.sessions = orders, sessions
		f.w.mu.Unlock()
		return err
	}
	return nil
}

type event struct {
	kind    models.EventKind
	payload models.Notification
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) Notify(_ context.Context, kind models.EventKind, payload models.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{kind: kind, payload: payload})
}

func (r *recorder) kinds() []models.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]models.EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.kind)
	}
	return kinds
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type timer struct {
	d time.Duration
	c chan time.Time
}

// fakeClock reports a settable time. When timers is set every After call is
// published on it so the test can fire it.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers chan timer
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	if c.timers != nil {
		c.timers <- timer{d: d, c: ch}
	}
	return ch
}
