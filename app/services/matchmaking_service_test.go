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

func mockUserDoc(id, name string, offered, wanted []string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "offeredSkills", Value: offered},
		{Key: "wantedSkills", Value: wanted},
		{Key: "isActive", Value: true},
	}
}

func mockSkillDoc(id, userID, name, category, level, skillType string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "user", Value: userID},
		{Key: "name", Value: name},
		{Key: "category", Value: category},
		{Key: "level", Value: level},
		{Key: "type", Value: skillType},
		{Key: "isActive", Value: true},
	}
}

func mockMatchDoc(id, user1, user2, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "user1", Value: user1},
		{Key: "user2", Value: user2},
		{Key: "status", Value: status},
	}
}

func TestSortUserPairIsOrderIndependent(t *testing.T) {
	lo1, hi1 := models.SortUserPair("abc", "xyz")
	lo2, hi2 := models.SortUserPair("xyz", "abc")

	assert.Equal(t, lo1, lo2)
	assert.Equal(t, hi1, hi2)
	assert.Equal(t, "abc", lo1)
	assert.Equal(t, "xyz", hi1)
}

func TestFlipCommonSkillsMirrorsSides(t *testing.T) {
	original := []models.CommonSkill{
		{
			User1Offered: models.SkillRef{Name: "Guitar"},
			User2Wanted:  models.SkillRef{Name: "Guitar"},
			User2Offered: models.SkillRef{Name: "Spanish"},
			User1Wanted:  models.SkillRef{Name: "Spanish"},
		},
	}

	flipped := flipCommonSkills(original)
	require.Len(t, flipped, 1)
	assert.Equal(t, "Spanish", flipped[0].User1Offered.Name)
	assert.Equal(t, "Spanish", flipped[0].User2Wanted.Name)
	assert.Equal(t, "Guitar", flipped[0].User2Offered.Name)
	assert.Equal(t, "Guitar", flipped[0].User1Wanted.Name)

	// Flipping twice restores the original orientation
	assert.Equal(t, original, flipCommonSkills(flipped))
}

func TestFindCandidatesPersistsAllRetained(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("limit bounds the response, not the upserts", func(mt *mtest.T) {
		svc := NewMatchmakingService(
			mt.DB.Collection("users"),
			mt.DB.Collection("skills"),
			mt.DB.Collection("matches"),
		)

		ns := "skillswap.test"
		mt.AddMockResponses(
			// requester profile
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				mockUserDoc("r1", "Rita", []string{"sk1"}, []string{"sk2"})),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				mockSkillDoc("sk1", "r1", "Guitar", "Music", models.LevelExpert, models.SkillTypeOffered),
				mockSkillDoc("sk2", "r1", "Spanish", "Language", models.LevelBeginner, models.SkillTypeWanted)),
			// candidate scan: two reciprocal candidates
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				mockUserDoc("u1", "Una", []string{"sk3"}, []string{"sk4"}),
				mockUserDoc("u2", "Uwe", []string{"sk5"}, []string{"sk6"})),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				mockSkillDoc("sk3", "u1", "Spanish", "Language", models.LevelExpert, models.SkillTypeOffered),
				mockSkillDoc("sk4", "u1", "Guitar", "Music", models.LevelBeginner, models.SkillTypeWanted)),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				mockSkillDoc("sk5", "u2", "Spanish", "Language", models.LevelExpert, models.SkillTypeOffered),
				mockSkillDoc("sk6", "u2", "Guitar", "Music", models.LevelBeginner, models.SkillTypeWanted)),
			// upsert for pair (r1, u1)
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				mockMatchDoc("m1", "r1", "u1", models.MatchStatusPending)),
			// upsert for pair (r1, u2)
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				mockMatchDoc("m2", "r1", "u2", models.MatchStatusPending)),
		)

		candidates, err := svc.FindCandidates(context.Background(), "r1", 0, 1)
		require.NoError(mt, err)

		require.Len(mt, candidates, 1)
		assert.Equal(mt, "u1", candidates[0].UserID)
		assert.Equal(mt, "m1", candidates[0].MatchID)
		assert.Equal(mt, "new", candidates[0].Status)

		// Both retained pairs reached the store even though only the top
		// candidate is in the response
		upserts := 0
		for _, evt := range mt.GetAllStartedEvents() {
			if evt.CommandName == "update" {
				upserts++
			}
		}
		assert.Equal(mt, 2, upserts)
	})
}

func TestUpsertMatchUpdatesExistingRowInPlace(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("existing pair keeps its row and status", func(mt *mtest.T) {
		svc := NewMatchmakingService(
			mt.DB.Collection("users"),
			mt.DB.Collection("skills"),
			mt.DB.Collection("matches"),
		)

		ns := "skillswap.matches"
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				mockMatchDoc("m9", "amy", "zed", models.MatchStatusActive)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
				mockMatchDoc("m9", "amy", "zed", models.MatchStatusActive)),
		)

		match, status, err := svc.upsertMatch(context.Background(), "zed", "amy", 42, nil)
		require.NoError(mt, err)
		assert.Equal(mt, "m9", match.ID)
		assert.Equal(mt, models.MatchStatusActive, status)

		// The pair row is updated, never re-inserted
		for _, evt := range mt.GetAllStartedEvents() {
			assert.NotEqual(mt, "insert", evt.CommandName)
		}
	})
}
