package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"go-logistics/models"
	"go-logistics/services"
)

func statusesIn(t *testing.T, raw bson.Raw, path ...string) []string {
	t.Helper()
	values, err := raw.Lookup(path...).Array().Values()
	require.NoError(t, err)
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.StringValue())
	}
	return out
}

func TestOrderRepositoryConditionalUpdates(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	mt.Run("assign counts matched orders", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		matched, err := repo.Assign(context.Background(), ids, []models.OrderStatus{models.OrderPreparing, models.OrderCancelled})
		require.NoError(mt, err)
		assert.EqualValues(mt, 1, matched)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
		assert.True(mt, started.Command.Lookup("updates", "0", "multi").Boolean())
		assert.Equal(mt, []string{"Preparing", "Cancelled"}, statusesIn(mt.T, started.Command, "updates", "0", "q", "status", "$in"))
		// orders held by another session never match
		assert.True(mt, started.Command.Lookup("updates", "0", "q", "assigned_already", "$ne").Boolean())
		assert.Equal(mt, "Shipped", started.Command.Lookup("updates", "0", "u", "$set", "status").StringValue())
		assert.True(mt, started.Command.Lookup("updates", "0", "u", "$set", "assigned_already").Boolean())
	})

	mt.Run("cancel skips delivered orders", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}))

		matched, err := repo.Cancel(context.Background(), ids)
		require.NoError(mt, err)
		assert.EqualValues(mt, 2, matched)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "Delivered", started.Command.Lookup("updates", "0", "q", "status", "$ne").StringValue())
		assert.Equal(mt, "Cancelled", started.Command.Lookup("updates", "0", "u", "$set", "status").StringValue())
	})

	mt.Run("promote only touches Delivered Pending", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}, bson.E{Key: "nModified", Value: 3}))

		now := time.Now().UTC()
		promoted, err := repo.PromoteDeliveredPending(context.Background(), now.Add(-72*time.Hour), now)
		require.NoError(mt, err)
		assert.EqualValues(mt, 3, promoted)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "Delivered Pending", started.Command.Lookup("updates", "0", "q", "status").StringValue())
		assert.Equal(mt, "Delivered", started.Command.Lookup("updates", "0", "u", "$set", "status").StringValue())
	})

	mt.Run("write errors surface", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "bad value",
		}))

		_, err := repo.MarkShipped(context.Background(), ids)
		assert.Error(mt, err)
	})
}

func TestOrderRepositoryFind(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "logistics." + ordersCollection

	mt.Run("missing order is nil", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		order, err := repo.FindByID(context.Background(), primitive.NewObjectID())
		require.NoError(mt, err)
		assert.Nil(mt, order)
	})

	mt.Run("find by ids decodes orders", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "order_code", Value: "A1"}, {Key: "status", Value: "Shipped"}},
			bson.D{{Key: "_id", Value: second}, {Key: "order_code", Value: "B2"}, {Key: "status", Value: "Delivered Pending"}},
		))

		orders, err := repo.FindByIDs(context.Background(), []primitive.ObjectID{first, second})
		require.NoError(mt, err)
		require.Len(mt, orders, 2)
		assert.Equal(mt, first, orders[0].ID)
		assert.Equal(mt, models.OrderShipped, orders[0].Status)
		assert.Equal(mt, models.OrderDeliveredPending, orders[1].Status)
	})

	mt.Run("empty list is not nil", func(mt *mtest.T) {
		repo := NewOrderRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		orders, err := repo.List(context.Background(), models.OrderPreparing, 10)
		require.NoError(mt, err)
		assert.NotNil(mt, orders)
		assert.Empty(mt, orders)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "Preparing", started.Command.Lookup("filter", "status").StringValue())
	})
}

func TestSessionRepositoryGuardedWrites(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("complete requires an ongoing session", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		ok, err := repo.MarkCompleted(context.Background(), id, time.Now())
		require.NoError(mt, err)
		assert.False(mt, ok)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "Ongoing", started.Command.Lookup("updates", "0", "q", "status").StringValue())
		assert.Equal(mt, "Completed", started.Command.Lookup("updates", "0", "u", "$set", "status").StringValue())
	})

	mt.Run("start stamps once", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		ok, err := repo.MarkStarted(context.Background(), id, time.Now())
		require.NoError(mt, err)
		assert.True(mt, ok)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, bson.TypeNull, started.Command.Lookup("updates", "0", "q", "start_time").Type)
	})

	mt.Run("delete reports missing sessions", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		ok, err := repo.Delete(context.Background(), id)
		require.NoError(mt, err)
		assert.False(mt, ok)
	})

	mt.Run("insert assigns an id", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		session := &models.DeliverySession{Status: models.SessionOngoing}
		require.NoError(mt, repo.Insert(context.Background(), session))
		assert.False(mt, session.ID.IsZero())
	})
}

func TestSessionRepositoryFindViews(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "logistics." + sessionsCollection

	mt.Run("joins and keeps order sequence", func(mt *mtest.T) {
		repo := NewSessionRepository(mt.DB, time.Second)

		sessionID, riderID, truckID := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		first, second, gone := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		productID := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: sessionID},
			{Key: "rider_id", Value: riderID},
			{Key: "truck_id", Value: truckID},
			{Key: "order_ids", Value: bson.A{second, first, gone}},
			{Key: "status", Value: "Ongoing"},
			{Key: "start_time", Value: nil},
			{Key: "end_time", Value: nil},
			{Key: "created_at", Value: time.Now()},
			{Key: "rider", Value: bson.A{bson.D{{Key: "_id", Value: riderID}, {Key: "name", Value: "Ana"}}}},
			{Key: "truck", Value: bson.A{}},
			{Key: "orders", Value: bson.A{
				bson.D{
					{Key: "_id", Value: first},
					{Key: "order_code", Value: "A1"},
					{Key: "status", Value: "Shipped"},
					{Key: "items", Value: bson.A{bson.D{
						{Key: "product_id", Value: productID},
						{Key: "quantity", Value: 2},
						{Key: "price", Value: 12.5},
					}}},
					{Key: "products", Value: bson.A{bson.D{{Key: "_id", Value: productID}, {Key: "name", Value: "Rice"}}}},
				},
				bson.D{
					{Key: "_id", Value: second},
					{Key: "order_code", Value: "B2"},
					{Key: "status", Value: "Shipped"},
				},
			}},
		}))

		views, err := repo.FindViews(context.Background(), services.SessionFilter{
			RiderID:  &riderID,
			Statuses: []models.SessionStatus{models.SessionOngoing},
		})
		require.NoError(mt, err)
		require.Len(mt, views, 1)

		view := views[0]
		assert.Equal(mt, sessionID, view.ID)
		assert.Equal(mt, models.SessionOngoing, view.Status)
		assert.Nil(mt, view.StartTime)
		require.NotNil(mt, view.Rider)
		assert.Equal(mt, "Ana", view.Rider.Name)
		assert.Nil(mt, view.Truck)

		require.Len(mt, view.Orders, 2)
		assert.Equal(mt, "B2", view.Orders[0].OrderCode)
		assert.Equal(mt, "A1", view.Orders[1].OrderCode)
		require.Len(mt, view.Orders[1].Items, 1)
		require.NotNil(mt, view.Orders[1].Items[0].Product)
		assert.Equal(mt, "Rice", view.Orders[1].Items[0].Product.Name)
		assert.Equal(mt, 2, view.Orders[1].Items[0].Quantity)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "aggregate", started.CommandName)
		assert.Equal(mt, riderID, started.Command.Lookup("pipeline", "0", "$match", "rider_id").ObjectID())
	})
}

func TestViewPipeline(t *testing.T) {
	all := viewPipeline(services.SessionFilter{})
	require.Len(t, all, 4)
	assert.Equal(t, "$sort", all[0][0].Key)

	riderID := primitive.NewObjectID()
	scoped := viewPipeline(services.SessionFilter{
		RiderID:  &riderID,
		Statuses: []models.SessionStatus{models.SessionCompleted},
	})
	require.Len(t, scoped, 5)
	require.Equal(t, "$match", scoped[0][0].Key)
	match := scoped[0][0].Value.(bson.M)
	assert.Equal(t, riderID, match["rider_id"])
	assert.Equal(t, bson.M{"$in": []models.SessionStatus{models.SessionCompleted}}, match["status"])

	last := scoped[len(scoped)-1][0]
	assert.Equal(t, "$lookup", last.Key)
	assert.Equal(t, ordersCollection, last.Value.(bson.M)["from"])
}
