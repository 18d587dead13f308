package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	ordersCollection        = "orders"
	ridersCollection        = "riders"
	trucksCollection        = "trucks"
	sessionsCollection      = "delivery_sessions"
	productsCollection      = "products"
	usersCollection         = "users"
	notificationsCollection = "notifications"
)

// MongoTransactor runs a function inside a multi-document transaction.
// The deployment must be a replica set or sharded cluster.
type MongoTransactor struct {
	client *mongo.Client
}

func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	return &MongoTransactor{client: client}
}

func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongodb session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
