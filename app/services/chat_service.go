package services

import (
	"context"
	"fmt"
	"time"

	"skillswap/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Chat validation errors surfaced to the originating connection only
var (
	ErrMatchNotFound   = fmt.Errorf("match not found")
	ErrNotParticipant  = fmt.Errorf("not a participant of this match")
	ErrMessageNotFound = fmt.Errorf("message not found")
	ErrNotSender       = fmt.Errorf("only the sender can delete a message")
)

// ChatService handles chat message persistence and read-state bookkeeping
type ChatService struct {
	matchesCollection  *mongo.Collection
	messagesCollection *mongo.Collection
}

// NewChatService creates a new chat service instance
func NewChatService(matchesCollection, messagesCollection *mongo.Collection) *ChatService {
	return &ChatService{
		matchesCollection:  matchesCollection,
		messagesCollection: messagesCollection,
	}
}

// GetMatchForParticipant loads the match and verifies the caller is one
// of the pair. Returns ErrMatchNotFound / ErrNotParticipant accordingly.
func (c *ChatService) GetMatchForParticipant(ctx context.Context, matchID, userID string) (*models.Match, error) {
	var match models.Match
	err := c.matchesCollection.FindOne(ctx, bson.M{"_id": matchID}).Decode(&match)
	if err == mongo.ErrNoDocuments {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %v", err)
	}
	if !match.HasParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return &match, nil
}

// SendMessage persists a message for the match and bumps the match's
// last-interaction timestamp. It returns the saved message, the match and
// the number of messages that existed in the match before this one, which
// drives the first-message email gate.
func (c *ChatService) SendMessage(ctx context.Context, matchID, senderID, text string) (*models.Message, *models.Match, int64, error) {
	match, err := c.GetMatchForParticipant(ctx, matchID, senderID)
	if err != nil {
		return nil, nil, 0, err
	}

	priorCount, err := c.messagesCollection.CountDocuments(ctx, bson.M{"matchId": matchID})
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to count messages: %v", err)
	}

	now := time.Now()
	message := models.Message{
		ID:        primitive.NewObjectID().Hex(),
		MatchID:   matchID,
		Sender:    senderID,
		Message:   text,
		IsRead:    false,
		IsDeleted: false,
		CreatedAt: now,
	}

	if _, err := c.messagesCollection.InsertOne(ctx, message); err != nil {
		return nil, nil, 0, fmt.Errorf("failed to save message: %v", err)
	}

	_, err = c.matchesCollection.UpdateOne(ctx, bson.M{"_id": matchID}, bson.M{
		"$set": bson.M{"lastInteraction": now, "updatedAt": now},
	})
	if err != nil {
		// The message is already durable; ordering metadata is best effort.
		return &message, match, priorCount, nil
	}

	return &message, match, priorCount, nil
}

// DeleteMessage soft-deletes a message. Only the original sender may
// delete, and the row is kept for moderation.
func (c *ChatService) DeleteMessage(ctx context.Context, messageID, callerID string) (*models.Message, error) {
	var message models.Message
	err := c.messagesCollection.FindOne(ctx, bson.M{"_id": messageID}).Decode(&message)
	if err == mongo.ErrNoDocuments {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load message: %v", err)
	}

	if message.Sender != callerID {
		return nil, ErrNotSender
	}

	_, err = c.messagesCollection.UpdateOne(ctx, bson.M{"_id": messageID}, bson.M{
		"$set": bson.M{"isDeleted": true, "deletedBy": callerID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete message: %v", err)
	}

	message.IsDeleted = true
	message.DeletedBy = callerID
	return &message, nil
}

// MarkRead flips every unread message in the match that was not authored
// by the caller. Returns the number of rows changed; zero means no
// read-receipt broadcast is due.
func (c *ChatService) MarkRead(ctx context.Context, matchID, callerID string) (int64, time.Time, error) {
	if _, err := c.GetMatchForParticipant(ctx, matchID, callerID); err != nil {
		return 0, time.Time{}, err
	}

	readAt := time.Now()
	result, err := c.messagesCollection.UpdateMany(ctx, bson.M{
		"matchId": matchID,
		"sender":  bson.M{"$ne": callerID},
		"isRead":  false,
	}, bson.M{
		"$set": bson.M{"isRead": true, "readAt": readAt},
	})
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to mark messages read: %v", err)
	}

	return result.ModifiedCount, readAt, nil
}

// GetMessages returns the non-deleted messages of a match in send order
func (c *ChatService) GetMessages(ctx context.Context, matchID, callerID string, limit int64) ([]models.Message, error) {
	if _, err := c.GetMatchForParticipant(ctx, matchID, callerID); err != nil {
		return nil, err
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := c.messagesCollection.Find(ctx, bson.M{
		"matchId":   matchID,
		"isDeleted": false,
	}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %v", err)
	}

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %v", err)
	}
	return messages, nil
}

// GetUnreadCounts aggregates the caller's unread message count per match
func (c *ChatService) GetUnreadCounts(ctx context.Context, callerID string) ([]models.UnreadCount, error) {
	matchCursor, err := c.matchesCollection.Find(ctx, bson.M{
		"$or": []bson.M{{"user1": callerID}, {"user2": callerID}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %v", err)
	}

	var matches []models.Match
	if err := matchCursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %v", err)
	}

	matchIDs := make([]string, 0, len(matches))
	for _, match := range matches {
		matchIDs = append(matchIDs, match.ID)
	}
	if len(matchIDs) == 0 {
		return []models.UnreadCount{}, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"matchId":   bson.M{"$in": matchIDs},
			"sender":    bson.M{"$ne": callerID},
			"isRead":    false,
			"isDeleted": false,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$matchId",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := c.messagesCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate unread counts: %v", err)
	}

	var counts []models.UnreadCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode unread counts: %v", err)
	}
	return counts, nil
}
