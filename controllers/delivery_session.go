package controllers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-logistics/middleware"
	"go-logistics/models"
	"go-logistics/services"
)

// DeliverySessionController handles delivery-session requests
type DeliverySessionController struct {
	Service services.DeliverySessionService
}

func NewDeliverySessionController(service services.DeliverySessionService) *DeliverySessionController {
	return &DeliverySessionController{Service: service}
}

type createSessionRequest struct {
	RiderID  string   `json:"rider_id"`
	TruckID  string   `json:"truck_id"`
	OrderIDs []string `json:"order_ids"`
}

// Fields left out of the body are not changed.
type updateSessionRequest struct {
	RiderID  *string   `json:"rider_id"`
	TruckID  *string   `json:"truck_id"`
	OrderIDs *[]string `json:"order_ids"`
}

type proofRequest struct {
	OrderIDs        []string `json:"order_ids"`
	ProofOfDelivery string   `json:"proof_of_delivery"`
}

// CreateSession assigns orders to a rider and truck
func (dc *DeliverySessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decode(w, r, &req) {
		return
	}

	riderID, err := primitive.ObjectIDFromHex(req.RiderID)
	if err != nil {
		http.Error(w, "Invalid rider ID", http.StatusBadRequest)
		return
	}
	truckID, err := primitive.ObjectIDFromHex(req.TruckID)
	if err != nil {
		http.Error(w, "Invalid truck ID", http.StatusBadRequest)
		return
	}
	orderIDs, err := parseIDs(req.OrderIDs)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := dc.Service.Create(ctx, services.CreateSessionInput{
		RiderID:  riderID,
		TruckID:  truckID,
		OrderIDs: orderIDs,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to create delivery session")
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// UpdateSession changes rider, truck or orders of an ongoing session
func (dc *DeliverySessionController) UpdateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "delivery session")
	if !ok {
		return
	}
	var req updateSessionRequest
	if !decode(w, r, &req) {
		return
	}

	var in services.UpdateSessionInput
	if req.RiderID != nil {
		riderID, err := primitive.ObjectIDFromHex(*req.RiderID)
		if err != nil {
			http.Error(w, "Invalid rider ID", http.StatusBadRequest)
			return
		}
		in.RiderID = &riderID
	}
	if req.TruckID != nil {
		truckID, err := primitive.ObjectIDFromHex(*req.TruckID)
		if err != nil {
			http.Error(w, "Invalid truck ID", http.StatusBadRequest)
			return
		}
		in.TruckID = &truckID
	}
	if req.OrderIDs != nil {
		orderIDs, err := parseIDs(*req.OrderIDs)
		if err != nil {
			http.Error(w, "Invalid order ID", http.StatusBadRequest)
			return
		}
		in.OrderIDs = orderIDs
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := dc.Service.Update(ctx, id, in)
	if err != nil {
		writeServiceError(w, err, "Failed to update delivery session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// StartedWork marks the session as started
func (dc *DeliverySessionController) StartedWork(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "delivery session")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if !dc.riderOwns(ctx, w, r, id) {
		return
	}
	session, err := dc.Service.Start(ctx, id)
	if err != nil {
		writeServiceError(w, err, "Failed to start delivery session")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CompletedWork completes the session and delivers its orders
func (dc *DeliverySessionController) CompletedWork(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "delivery session")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if !dc.riderOwns(ctx, w, r, id) {
		return
	}
	result, err := dc.Service.Complete(ctx, id)
	if err != nil {
		writeServiceError(w, err, "Failed to complete delivery session")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SubmitProof attaches a proof of delivery to orders of the session
func (dc *DeliverySessionController) SubmitProof(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "delivery session")
	if !ok {
		return
	}
	var req proofRequest
	if !decode(w, r, &req) {
		return
	}
	orderIDs, err := parseIDs(req.OrderIDs)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if !dc.riderOwns(ctx, w, r, id) {
		return
	}
	updated, err := dc.Service.SubmitProof(ctx, id, services.ProofInput{
		OrderIDs: orderIDs,
		Proof:    req.ProofOfDelivery,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to submit proof of delivery")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Proof of delivery submitted",
		"updated": updated,
	})
}

// CancelOrder removes one order from the session and cancels it
func (dc *DeliverySessionController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "delivery session")
	if !ok {
		return
	}
	orderID, ok := pathID(w, r, "orderId", "order")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := dc.Service.CancelOrder(ctx, id, orderID)
	if err != nil {
		writeServiceError(w, err, "Failed to cancel order")
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// DeleteSession deletes the session and cancels its orders
func (dc *DeliverySessionController) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "delivery session")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	session, err := dc.Service.Delete(ctx, id)
	if err != nil {
		writeServiceError(w, err, "Failed to delete delivery session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Delivery session deleted",
		"order_ids": session.OrderIDs,
	})
}

// GetByStatus lists sessions grouped by status
func (dc *DeliverySessionController) GetByStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	grouped, err := dc.Service.GroupedByStatus(ctx)
	if err != nil {
		writeServiceError(w, err, "Failed to retrieve delivery sessions")
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

// GetOnGoing lists a rider's ongoing sessions
func (dc *DeliverySessionController) GetOnGoing(w http.ResponseWriter, r *http.Request) {
	dc.riderSessions(w, r, dc.Service.OnGoing)
}

// GetHistory lists a rider's completed sessions
func (dc *DeliverySessionController) GetHistory(w http.ResponseWriter, r *http.Request) {
	dc.riderSessions(w, r, dc.Service.History)
}

// riderOwns lets admins through and a rider only into their own session.
func (dc *DeliverySessionController) riderOwns(ctx context.Context, w http.ResponseWriter, r *http.Request, id primitive.ObjectID) bool {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok || claims.Role != models.RoleRider {
		return true
	}
	session, err := dc.Service.Get(ctx, id)
	if err != nil {
		writeServiceError(w, err, "Failed to retrieve delivery session")
		return false
	}
	if session.RiderID.Hex() != claims.RiderID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func (dc *DeliverySessionController) riderSessions(w http.ResponseWriter, r *http.Request,
	load func(context.Context, primitive.ObjectID) ([]models.SessionView, error)) {
	riderID, ok := pathID(w, r, "riderId", "rider")
	if !ok {
		return
	}
	// riders only see their own runs
	if claims, ok := middleware.ClaimsFrom(r); ok && claims.Role == models.RoleRider && claims.RiderID != riderID.Hex() {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sessions, err := load(ctx, riderID)
	if err != nil {
		writeServiceError(w, err, "Failed to retrieve delivery sessions")
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}
