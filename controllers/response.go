package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-logistics/logger"
	"go-logistics/services"
)

const requestTimeout = 10 * time.Second

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warn("failed to encode response", zap.Error(err))
	}
}

// writeServiceError maps service errors to status codes. Anything unexpected
// is logged and answered with fallback.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	var notFound *services.NotFoundError
	var validation *services.ValidationError
	var invalidState *services.InvalidStateError

	switch {
	case errors.As(err, &notFound):
		http.Error(w, notFound.Error(), http.StatusNotFound)
	case errors.As(err, &validation):
		http.Error(w, validation.Error(), http.StatusBadRequest)
	case errors.As(err, &invalidState):
		http.Error(w, invalidState.Error(), http.StatusConflict)
	default:
		logger.Log.Error(fallback, zap.Error(err))
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

// pathID parses the named mux variable as an ObjectID, answering 400 on failure
func pathID(w http.ResponseWriter, r *http.Request, name, label string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid %s ID", label), http.StatusBadRequest)
		return primitive.NilObjectID, false
	}
	return id, true
}

func parseIDs(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q", s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}
