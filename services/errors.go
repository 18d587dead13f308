package services

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-logistics/models"
)

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ValidationError is returned for bad input, including orders in the wrong status.
// Nothing has been written when it is returned.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// InvalidStateError is returned when a session is not in the status an operation requires.
type InvalidStateError struct {
	SessionID string
	Status    models.SessionStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("delivery session %s is %s", e.SessionID, e.Status)
}

func notFound(entity string, id primitive.ObjectID) error {
	return &NotFoundError{Entity: entity, ID: id.Hex()}
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
