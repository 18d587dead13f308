package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-logistics/logger"
	"go-logistics/models"
)

type RiderStore interface {
	List(ctx context.Context) ([]models.Rider, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Rider, error)
	Insert(ctx context.Context, rider *models.Rider) error
	Update(ctx context.Context, rider *models.Rider) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type TruckStore interface {
	List(ctx context.Context) ([]models.Truck, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Truck, error)
	Insert(ctx context.Context, truck *models.Truck) error
	Update(ctx context.Context, truck *models.Truck) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// FleetController manages riders and trucks
type FleetController struct {
	Riders RiderStore
	Trucks TruckStore
}

func NewFleetController(riders RiderStore, trucks TruckStore) *FleetController {
	return &FleetController{Riders: riders, Trucks: trucks}
}

// GetRiders lists all riders
func (fc *FleetController) GetRiders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	riders, err := fc.Riders.List(ctx)
	if err != nil {
		logger.Log.Error("failed to list riders", zap.Error(err))
		http.Error(w, "Failed to retrieve riders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, riders)
}

// GetRiderByID returns one rider
func (fc *FleetController) GetRiderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "rider")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rider, err := fc.Riders.FindByID(ctx, id)
	if err != nil {
		logger.Log.Error("failed to load rider", zap.Error(err))
		http.Error(w, "Failed to retrieve rider", http.StatusInternalServerError)
		return
	}
	if rider == nil {
		http.Error(w, "Rider not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rider)
}

// CreateRider adds a rider
func (fc *FleetController) CreateRider(w http.ResponseWriter, r *http.Request) {
	var rider models.Rider
	if !decode(w, r, &rider) {
		return
	}
	if strings.TrimSpace(rider.Name) == "" {
		http.Error(w, "Rider name is required", http.StatusBadRequest)
		return
	}
	rider.ID = primitive.NilObjectID
	rider.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := fc.Riders.Insert(ctx, &rider); err != nil {
		logger.Log.Error("failed to create rider", zap.Error(err))
		http.Error(w, "Failed to create rider", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, rider)
}

// UpdateRider replaces a rider's details
func (fc *FleetController) UpdateRider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "rider")
	if !ok {
		return
	}
	var rider models.Rider
	if !decode(w, r, &rider) {
		return
	}
	rider.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	found, err := fc.Riders.Update(ctx, &rider)
	if err != nil {
		logger.Log.Error("failed to update rider", zap.Error(err))
		http.Error(w, "Failed to update rider", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Rider not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Rider updated successfully"})
}

// DeleteRider removes a rider. Sessions that reference it keep the dangling id.
func (fc *FleetController) DeleteRider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "rider")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	found, err := fc.Riders.Delete(ctx, id)
	if err != nil {
		logger.Log.Error("failed to delete rider", zap.Error(err))
		http.Error(w, "Failed to delete rider", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Rider not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Rider deleted successfully"})
}

// GetTrucks lists all trucks
func (fc *FleetController) GetTrucks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	trucks, err := fc.Trucks.List(ctx)
	if err != nil {
		logger.Log.Error("failed to list trucks", zap.Error(err))
		http.Error(w, "Failed to retrieve trucks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, trucks)
}

// GetTruckByID returns one truck
func (fc *FleetController) GetTruckByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "truck")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	truck, err := fc.Trucks.FindByID(ctx, id)
	if err != nil {
		logger.Log.Error("failed to load truck", zap.Error(err))
		http.Error(w, "Failed to retrieve truck", http.StatusInternalServerError)
		return
	}
	if truck == nil {
		http.Error(w, "Truck not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, truck)
}

// CreateTruck adds a truck, optionally assigned to an existing rider
func (fc *FleetController) CreateTruck(w http.ResponseWriter, r *http.Request) {
	var truck models.Truck
	if !decode(w, r, &truck) {
		return
	}
	if strings.TrimSpace(truck.PlateNumber) == "" {
		http.Error(w, "Plate number is required", http.StatusBadRequest)
		return
	}
	truck.ID = primitive.NilObjectID
	truck.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if !fc.checkTruckRider(ctx, w, truck.RiderID) {
		return
	}
	if err := fc.Trucks.Insert(ctx, &truck); err != nil {
		logger.Log.Error("failed to create truck", zap.Error(err))
		http.Error(w, "Failed to create truck", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, truck)
}

// UpdateTruck replaces a truck's details
func (fc *FleetController) UpdateTruck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "truck")
	if !ok {
		return
	}
	var truck models.Truck
	if !decode(w, r, &truck) {
		return
	}
	truck.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if !fc.checkTruckRider(ctx, w, truck.RiderID) {
		return
	}
	found, err := fc.Trucks.Update(ctx, &truck)
	if err != nil {
		logger.Log.Error("failed to update truck", zap.Error(err))
		http.Error(w, "Failed to update truck", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Truck not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Truck updated successfully"})
}

// DeleteTruck removes a truck
func (fc *FleetController) DeleteTruck(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", "truck")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	found, err := fc.Trucks.Delete(ctx, id)
	if err != nil {
		logger.Log.Error("failed to delete truck", zap.Error(err))
		http.Error(w, "Failed to delete truck", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Truck not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Truck deleted successfully"})
}

func (fc *FleetController) checkTruckRider(ctx context.Context, w http.ResponseWriter, riderID *primitive.ObjectID) bool {
	if riderID == nil {
		return true
	}
	rider, err := fc.Riders.FindByID(ctx, *riderID)
	if err != nil {
		logger.Log.Error("failed to load rider", zap.Error(err))
		http.Error(w, "Failed to retrieve rider", http.StatusInternalServerError)
		return false
	}
	if rider == nil {
		http.Error(w, "Rider not found", http.StatusBadRequest)
		return false
	}
	return true
}
