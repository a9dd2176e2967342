package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"skillswap/app/models"
	"skillswap/app/services"
	"skillswap/app/utils"
	"skillswap/redis"

	socketio "github.com/doquangtan/socket.io/v4"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SocketIoHandler is the realtime presence and messaging router. Every
// authenticated connection is registered in the presence registry, joined
// to its private per-user group and to the conversation group of each
// active match.
type SocketIoHandler struct {
	io *socketio.Io

	presence            *services.PresenceRegistry
	chatService         *services.ChatService
	matchmakingService  *services.MatchmakingService
	notificationService *services.NotificationService
	usersCollection     *mongo.Collection
	redisService        *redis.Service

	mu          sync.RWMutex
	sockets     map[string]*socketio.Socket
	socketUsers map[string]string
}

// NewSocketHandler creates a new Socket.IO handler instance
func NewSocketHandler(
	presence *services.PresenceRegistry,
	chatService *services.ChatService,
	matchmakingService *services.MatchmakingService,
	notificationService *services.NotificationService,
	usersCollection *mongo.Collection,
	redisService *redis.Service,
) *SocketIoHandler {
	io := socketio.New()

	handler := &SocketIoHandler{
		io:                  io,
		presence:            presence,
		chatService:         chatService,
		matchmakingService:  matchmakingService,
		notificationService: notificationService,
		usersCollection:     usersCollection,
		redisService:        redisService,
		sockets:             make(map[string]*socketio.Socket),
		socketUsers:         make(map[string]string),
	}

	handler.setupSocketHandlers()
	return handler
}

func matchRoom(matchID string) string {
	return "match:" + matchID
}

func userRoom(userID string) string {
	return "user:" + userID
}

// decodePayload converts the first event payload entry into the given struct
func decodePayload(event *socketio.EventPayload, dest interface{}) error {
	if len(event.Data) == 0 {
		return fmt.Errorf("no payload provided")
	}

	raw, ok := event.Data[0].(map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid payload format")
	}

	rawJSON, _ := json.Marshal(raw)
	if err := json.Unmarshal(rawJSON, dest); err != nil {
		return fmt.Errorf("failed to parse payload")
	}
	return nil
}

// emitError sends a scoped error event back to the requesting connection
// only. Errors are never broadcast.
func emitError(socket *socketio.Socket, message, tempID string) {
	socket.Emit("error", models.SocketError{Message: message, TempID: tempID})
}

// userFor resolves the authenticated user bound to a connection
func (h *SocketIoHandler) userFor(socketID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	userID, ok := h.socketUsers[socketID]
	return userID, ok
}

// bindUser attaches a verified identity to a connection and registers it
// in the presence registry. A connection keeps its first identity for its
// whole lifetime: re-binding to a different user is rejected, otherwise
// the old identity's presence entry would outlive the disconnect
// bookkeeping and the user would appear online forever. Re-binding the
// same user is a no-op refresh. Returns whether this is the user's first
// live connection.
func (h *SocketIoHandler) bindUser(socketID, userID string) (bool, error) {
	h.mu.Lock()
	if existing, ok := h.socketUsers[socketID]; ok && existing != userID {
		h.mu.Unlock()
		return false, fmt.Errorf("connection is already authenticated as another user")
	}
	h.socketUsers[socketID] = userID
	h.mu.Unlock()

	return h.presence.Add(userID, socketID), nil
}

// setupSocketHandlers configures all Socket.IO event handlers
func (h *SocketIoHandler) setupSocketHandlers() {
	// Handshake gate: connections without a verifiable token never reach
	// the connection handler.
	h.io.OnAuthorization(func(params map[string]string) bool {
		token, ok := params["token"]
		if !ok || token == "" {
			log.Printf("❌ Connection rejected: missing token")
			return false
		}
		if _, err := utils.ValidateToken(token); err != nil {
			log.Printf("❌ Connection rejected: %v", err)
			return false
		}
		return true
	})

	h.io.OnConnection(func(socket *socketio.Socket) {
		log.Printf("✅ Socket connected: %s (namespace: %s)", socket.Id, socket.Nps)

		// Identity binding. The token is re-verified here because the
		// authorization gate cannot attach the resolved identity to the
		// socket.
		socket.On("authenticate", func(event *socketio.EventPayload) {
			var req models.AuthenticateRequest
			if err := decodePayload(event, &req); err != nil {
				emitError(socket, err.Error(), "")
				return
			}
			h.handleAuthenticate(socket, req.Token)
		})

		socket.On("join_match", func(event *socketio.EventPayload) {
			var req models.JoinMatchRequest
			if err := decodePayload(event, &req); err != nil {
				emitError(socket, err.Error(), "")
				return
			}
			h.handleJoinMatch(socket, req.MatchID)
		})

		socket.On("leave_match", func(event *socketio.EventPayload) {
			var req models.LeaveMatchRequest
			if err := decodePayload(event, &req); err != nil {
				emitError(socket, err.Error(), "")
				return
			}
			// Leaving needs no validation beyond connection identity.
			socket.Leave(matchRoom(req.MatchID))
		})

		socket.On("send_message", func(event *socketio.EventPayload) {
			var req models.SendMessageRequest
			if err := decodePayload(event, &req); err != nil {
				emitError(socket, err.Error(), "")
				return
			}
			h.handleSendMessage(socket, req)
		})

		socket.On("delete_message", func(event *socketio.EventPayload) {
			var req models.DeleteMessageRequest
			if err := decodePayload(event, &req); err != nil {
				emitError(socket, err.Error(), "")
				return
			}
			h.handleDeleteMessage(socket, req.MessageID)
		})

		socket.On("typing", func(event *socketio.EventPayload) {
			var req models.TypingRequest
			if err := decodePayload(event, &req); err != nil {
				emitError(socket, err.Error(), "")
				return
			}
			h.handleTyping(socket, req)
		})

		socket.On("mark_read", func(event *socketio.EventPayload) {
			var req models.MarkReadRequest
			if err := decodePayload(event, &req); err != nil {
				emitError(socket, err.Error(), "")
				return
			}
			h.handleMarkRead(socket, req.MatchID)
		})

		socket.On("disconnect", func(event *socketio.EventPayload) {
			log.Printf("🔌 Socket disconnected: %s (namespace: %s)", socket.Id, socket.Nps)
			h.handleDisconnect(socket)
		})
	})
}

// handleAuthenticate binds a verified identity to the connection, joins
// its broadcast groups and announces presence.
func (h *SocketIoHandler) handleAuthenticate(socket *socketio.Socket, token string) {
	claims, err := utils.ValidateToken(token)
	if err != nil {
		emitError(socket, "Authentication failed", "")
		socket.Disconnect()
		return
	}

	ctx := context.Background()
	var user models.User
	err = h.usersCollection.FindOne(ctx, bson.M{"_id": claims.UserID}).Decode(&user)
	if err != nil {
		emitError(socket, "User not found", "")
		socket.Disconnect()
		return
	}
	if user.IsBanned || !user.IsActive {
		emitError(socket, "Account is not allowed to connect", "")
		socket.Disconnect()
		return
	}

	firstConnection, err := h.bindUser(socket.Id, user.ID)
	if err != nil {
		emitError(socket, "Connection is already authenticated", "")
		return
	}

	h.mu.Lock()
	h.sockets[socket.Id] = socket
	h.mu.Unlock()

	matches, err := h.matchmakingService.GetActiveMatchesForUser(ctx, user.ID)
	if err != nil {
		log.Printf("⚠️ Failed to load active matches for %s: %v", user.ID, err)
		matches = []models.Match{}
	}

	socket.Join(userRoom(user.ID))

	matchIDs := make([]string, 0, len(matches))
	counterparts := make([]string, 0, len(matches))
	for _, match := range matches {
		socket.Join(matchRoom(match.ID))
		matchIDs = append(matchIDs, match.ID)
		counterparts = append(counterparts, match.OtherParticipant(user.ID))
	}

	// The online transition fires only for the user's first connection.
	if firstConnection {
		status := models.UserStatusEvent{
			UserID:    user.ID,
			Status:    "online",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		for _, match := range matches {
			h.io.To(matchRoom(match.ID)).Emit("user_status", status)
		}
	}

	socket.Emit("joined_matches", models.JoinedMatchesEvent{
		Count:       len(matches),
		MatchIDs:    matchIDs,
		OnlineUsers: h.presence.FilterOnline(counterparts),
	})

	log.Printf("🔑 Socket %s authenticated as user %s (%d active matches)", socket.Id, user.ID, len(matches))
}

func (h *SocketIoHandler) handleJoinMatch(socket *socketio.Socket, matchID string) {
	userID, ok := h.userFor(socket.Id)
	if !ok {
		emitError(socket, "Not authenticated", "")
		return
	}

	_, err := h.chatService.GetMatchForParticipant(context.Background(), matchID, userID)
	if err != nil {
		emitError(socket, chatErrorMessage(err), "")
		return
	}

	socket.Join(matchRoom(matchID))
	socket.Emit("match_joined", fiber.Map{"matchId": matchID})
}

func (h *SocketIoHandler) handleSendMessage(socket *socketio.Socket, req models.SendMessageRequest) {
	userID, ok := h.userFor(socket.Id)
	if !ok {
		emitError(socket, "Not authenticated", req.TempID)
		return
	}
	if req.Message == "" {
		emitError(socket, "Message cannot be empty", req.TempID)
		return
	}

	message, match, priorCount, err := h.chatService.SendMessage(context.Background(), req.MatchID, userID, req.Message)
	if err != nil {
		emitError(socket, chatErrorMessage(err), req.TempID)
		return
	}

	// The message is durable at this point; everything below is fanout
	// and best-effort side effects.
	h.io.To(matchRoom(match.ID)).Emit("new_message", models.NewMessageEvent{
		Message: *message,
		TempID:  req.TempID,
	})

	recipient := match.OtherParticipant(userID)
	h.io.To(userRoom(recipient)).Emit("new_message_notification", models.NewMessageNotificationEvent{
		MatchID: match.ID,
		Message: *message,
	})

	if services.ShouldSendOfflineEmail(h.presence.IsOnline(recipient), priorCount) {
		go h.notificationService.NotifyFirstMessage(recipient, userID, message.Message)
	}
}

func (h *SocketIoHandler) handleDeleteMessage(socket *socketio.Socket, messageID string) {
	userID, ok := h.userFor(socket.Id)
	if !ok {
		emitError(socket, "Not authenticated", "")
		return
	}

	message, err := h.chatService.DeleteMessage(context.Background(), messageID, userID)
	if err != nil {
		emitError(socket, chatErrorMessage(err), "")
		return
	}

	h.io.To(matchRoom(message.MatchID)).Emit("message_deleted", models.MessageDeletedEvent{
		MessageID: message.ID,
		MatchID:   message.MatchID,
	})
}

func (h *SocketIoHandler) handleTyping(socket *socketio.Socket, req models.TypingRequest) {
	userID, ok := h.userFor(socket.Id)
	if !ok {
		emitError(socket, "Not authenticated", "")
		return
	}

	match, err := h.chatService.GetMatchForParticipant(context.Background(), req.MatchID, userID)
	if err != nil {
		emitError(socket, chatErrorMessage(err), "")
		return
	}

	// Transient, most-recent-wins. Nothing is persisted and no stop
	// signal is guaranteed on disconnect, so consumers treat typing
	// state as advisory.
	event := models.UserTypingEvent{
		MatchID:  req.MatchID,
		UserID:   userID,
		IsTyping: req.IsTyping,
	}
	h.io.To(matchRoom(req.MatchID)).Emit("user_typing", event)
	h.io.To(userRoom(match.OtherParticipant(userID))).Emit("user_typing", event)
}

func (h *SocketIoHandler) handleMarkRead(socket *socketio.Socket, matchID string) {
	userID, ok := h.userFor(socket.Id)
	if !ok {
		emitError(socket, "Not authenticated", "")
		return
	}

	ctx := context.Background()
	match, err := h.chatService.GetMatchForParticipant(ctx, matchID, userID)
	if err != nil {
		emitError(socket, chatErrorMessage(err), "")
		return
	}

	count, readAt, err := h.chatService.MarkRead(ctx, matchID, userID)
	if err != nil {
		emitError(socket, chatErrorMessage(err), "")
		return
	}
	if count == 0 {
		return
	}

	event := models.MessagesReadEvent{
		MatchID: matchID,
		ReadBy:  userID,
		ReadAt:  readAt.UTC().Format(time.RFC3339),
		Count:   count,
	}
	h.io.To(userRoom(match.OtherParticipant(userID))).Emit("messages_read", event)
	h.io.To(matchRoom(matchID)).Emit("messages_read", event)
}

// handleDisconnect removes the connection from the presence registry and,
// when it was the user's last one, announces the offline transition and
// persists the last-active timestamp best effort.
func (h *SocketIoHandler) handleDisconnect(socket *socketio.Socket) {
	h.mu.Lock()
	userID, authenticated := h.socketUsers[socket.Id]
	delete(h.socketUsers, socket.Id)
	delete(h.sockets, socket.Id)
	h.mu.Unlock()

	if !authenticated {
		return
	}

	lastConnection := h.presence.Remove(userID, socket.Id)
	if !lastConnection {
		return
	}

	ctx := context.Background()
	now := time.Now()

	matches, err := h.matchmakingService.GetActiveMatchesForUser(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Failed to load matches for offline broadcast of %s: %v", userID, err)
		matches = []models.Match{}
	}

	status := models.UserStatusEvent{
		UserID:    userID,
		Status:    "offline",
		Timestamp: now.UTC().Format(time.RFC3339),
	}
	for _, match := range matches {
		h.io.To(matchRoom(match.ID)).Emit("user_status", status)
	}

	if _, err := h.usersCollection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{"lastActive": now},
	}); err != nil {
		log.Printf("⚠️ Failed to persist lastActive for %s: %v", userID, err)
	}
	if err := h.redisService.SetLastActive(userID, now); err != nil {
		log.Printf("⚠️ Failed to mirror lastActive for %s: %v", userID, err)
	}
}

// chatErrorMessage maps service errors to the client-facing message
func chatErrorMessage(err error) string {
	switch err {
	case services.ErrMatchNotFound:
		return "Match not found"
	case services.ErrNotParticipant:
		return "Not authorized for this match"
	case services.ErrMessageNotFound:
		return "Message not found"
	case services.ErrNotSender:
		return "Only the sender can delete a message"
	}
	return "Operation failed"
}

// ForceJoinMatch joins every live connection of the given user into the
// match's conversation group. Used by the request-acceptance flow so a
// freshly activated match receives live messages without a reconnect.
func (h *SocketIoHandler) ForceJoinMatch(userID, matchID string) {
	for _, socketID := range h.presence.Connections(userID) {
		h.mu.RLock()
		socket, ok := h.sockets[socketID]
		h.mu.RUnlock()
		if ok {
			socket.Join(matchRoom(matchID))
		}
	}
}

// EmitToUser sends an event to all of a user's live connections via their
// private group
func (h *SocketIoHandler) EmitToUser(userID, event string, data interface{}) {
	h.io.To(userRoom(userID)).Emit(event, data)
}

// GetIo returns the Socket.IO instance
func (h *SocketIoHandler) GetIo() *socketio.Io {
	return h.io
}

// SetupSocketRoutes configures Socket.IO routes for the Fiber app
func (h *SocketIoHandler) SetupSocketRoutes(app *fiber.App) {
	app.Use("/", h.io.Middleware)
	app.Route("/socket.io", h.io.FiberRoute)
}
