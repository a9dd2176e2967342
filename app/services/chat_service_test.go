package services

import (
	"context"
	"testing"

	"skillswap/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMarkReadIsIdempotent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("second pass modifies nothing", func(mt *mtest.T) {
		svc := NewChatService(mt.DB.Collection("matches"), mt.DB.Collection("messages"))

		ns := "skillswap.matches"
		matchDoc := mockMatchDoc("m1", "alice", "bob", models.MatchStatusActive)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, matchDoc),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, matchDoc),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
		)

		count, _, err := svc.MarkRead(context.Background(), "m1", "alice")
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), count)

		// Everything is already read, so the count that gates the
		// read-receipt broadcast drops to zero
		count, _, err = svc.MarkRead(context.Background(), "m1", "alice")
		require.NoError(mt, err)
		assert.Equal(mt, int64(0), count)

		// The update only ever touches unread messages the caller did
		// not author
		var updates []bson.Raw
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "update" {
				updates = append(updates, evt.Command)
			}
		}
		require.Len(mt, updates, 2)

		filter := updates[0].Lookup("updates", "0", "q").Document()
		assert.Equal(mt, "m1", filter.Lookup("matchId").StringValue())
		assert.False(mt, filter.Lookup("isRead").Boolean())
		assert.Equal(mt, "alice", filter.Lookup("sender", "$ne").StringValue())
	})
}
