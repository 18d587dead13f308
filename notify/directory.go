package notify

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-logistics/models"
)

type RiderFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Rider, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	EmailsByRole(ctx context.Context, role string) ([]string, error)
}

// RepositoryDirectory looks recipients up in the rider and user collections.
// Missing records resolve to no recipient.
type RepositoryDirectory struct {
	Riders RiderFinder
	Users  UserFinder
}

func (d RepositoryDirectory) RiderEmail(ctx context.Context, riderID primitive.ObjectID) (string, error) {
	rider, err := d.Riders.FindByID(ctx, riderID)
	if err != nil || rider == nil {
		return "", err
	}
	return rider.Email, nil
}

func (d RepositoryDirectory) UserEmail(ctx context.Context, userID primitive.ObjectID) (string, error) {
	user, err := d.Users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return "", err
	}
	return user.Email, nil
}

func (d RepositoryDirectory) AdminEmails(ctx context.Context) ([]string, error) {
	return d.Users.EmailsByRole(ctx, models.RoleAdmin)
}
