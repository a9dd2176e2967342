package services

import (
	"context"
	"fmt"
	"time"

	"skillswap/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Request validation errors
var (
	ErrRequestNotFound = fmt.Errorf("request not found")
	ErrRequestPending  = fmt.Errorf("a pending request already exists for this match")
	ErrRequestClosed   = fmt.Errorf("request is no longer pending")
	ErrNotReceiver     = fmt.Errorf("only the receiver can respond to this request")
)

// RealtimeNotifier is the side channel into the socket layer. Request
// acceptance uses it to force every live connection of both participants
// into the freshly activated conversation group.
type RealtimeNotifier interface {
	ForceJoinMatch(userID, matchID string)
	EmitToUser(userID, event string, data interface{})
}

// RequestService handles the connection-request lifecycle around matches
type RequestService struct {
	matchesCollection  *mongo.Collection
	requestsCollection *mongo.Collection
	realtime           RealtimeNotifier
}

// NewRequestService creates a new request service instance
func NewRequestService(matchesCollection, requestsCollection *mongo.Collection) *RequestService {
	return &RequestService{
		matchesCollection:  matchesCollection,
		requestsCollection: requestsCollection,
	}
}

// SetRealtime wires in the socket layer once it exists. The service works
// without it; acceptance then activates the match without live fanout.
func (r *RequestService) SetRealtime(realtime RealtimeNotifier) {
	r.realtime = realtime
}

// CreateRequest sends a connection request for a match. The pending
// duplicate check is applicative only, a narrow race between two
// simultaneous sends can slip through it.
func (r *RequestService) CreateRequest(ctx context.Context, matchID, senderID, message string) (*models.Request, error) {
	var match models.Match
	err := r.matchesCollection.FindOne(ctx, bson.M{"_id": matchID}).Decode(&match)
	if err == mongo.ErrNoDocuments {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %v", err)
	}
	if !match.HasParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	var pending models.Request
	err = r.requestsCollection.FindOne(ctx, bson.M{
		"match":  matchID,
		"status": models.RequestStatusPending,
	}).Decode(&pending)
	if err == nil {
		return nil, ErrRequestPending
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("failed to check pending requests: %v", err)
	}

	now := time.Now()
	request := models.Request{
		ID:        primitive.NewObjectID().Hex(),
		MatchID:   matchID,
		Sender:    senderID,
		Receiver:  match.OtherParticipant(senderID),
		Status:    models.RequestStatusPending,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.requestsCollection.InsertOne(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	return &request, nil
}

// AcceptRequest accepts a pending request, activates the match and
// force-joins both participants' live connections into the conversation
// group so the chat is live without a reconnect.
func (r *RequestService) AcceptRequest(ctx context.Context, requestID, callerID string) (*models.Match, error) {
	request, err := r.loadPendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Receiver != callerID {
		return nil, ErrNotReceiver
	}

	now := time.Now()
	_, err = r.requestsCollection.UpdateOne(ctx, bson.M{"_id": requestID}, bson.M{
		"$set": bson.M{"status": models.RequestStatusAccepted, "updatedAt": now},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to accept request: %v", err)
	}

	_, err = r.matchesCollection.UpdateOne(ctx, bson.M{"_id": request.MatchID}, bson.M{
		"$set": bson.M{"status": models.MatchStatusActive, "lastInteraction": now, "updatedAt": now},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate match: %v", err)
	}

	var match models.Match
	if err := r.matchesCollection.FindOne(ctx, bson.M{"_id": request.MatchID}).Decode(&match); err != nil {
		return nil, fmt.Errorf("failed to reload match: %v", err)
	}

	if r.realtime != nil {
		event := models.MatchActivatedEvent{Match: &match}
		for _, userID := range []string{match.User1, match.User2} {
			r.realtime.ForceJoinMatch(userID, match.ID)
			r.realtime.EmitToUser(userID, "match_activated", event)
		}
	}

	return &match, nil
}

// DeclineRequest declines a pending request. Declined is terminal.
func (r *RequestService) DeclineRequest(ctx context.Context, requestID, callerID string) (*models.Request, error) {
	request, err := r.loadPendingRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Receiver != callerID {
		return nil, ErrNotReceiver
	}

	now := time.Now()
	_, err = r.requestsCollection.UpdateOne(ctx, bson.M{"_id": requestID}, bson.M{
		"$set": bson.M{"status": models.RequestStatusDeclined, "updatedAt": now},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to decline request: %v", err)
	}

	request.Status = models.RequestStatusDeclined
	request.UpdatedAt = now
	return request, nil
}

// CancelRequest deletes a still-pending request. Only the sender may
// cancel, and only while no decision has been made.
func (r *RequestService) CancelRequest(ctx context.Context, requestID, callerID string) error {
	request, err := r.loadPendingRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if request.Sender != callerID {
		return fmt.Errorf("only the sender can cancel a request")
	}

	_, err = r.requestsCollection.DeleteOne(ctx, bson.M{"_id": requestID})
	if err != nil {
		return fmt.Errorf("failed to cancel request: %v", err)
	}
	return nil
}

// GetRequestsForUser returns the requests a user sent or received
func (r *RequestService) GetRequestsForUser(ctx context.Context, userID string) ([]models.Request, error) {
	cursor, err := r.requestsCollection.Find(ctx, bson.M{
		"$or": []bson.M{{"sender": userID}, {"receiver": userID}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %v", err)
	}

	var requests []models.Request
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode requests: %v", err)
	}
	return requests, nil
}

func (r *RequestService) loadPendingRequest(ctx context.Context, requestID string) (*models.Request, error) {
	var request models.Request
	err := r.requestsCollection.FindOne(ctx, bson.M{"_id": requestID}).Decode(&request)
	if err == mongo.ErrNoDocuments {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request: %v", err)
	}
	if request.Status != models.RequestStatusPending {
		return nil, ErrRequestClosed
	}
	return &request, nil
}
