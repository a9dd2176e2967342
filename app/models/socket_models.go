package models

// AuthenticateRequest carries the bearer credential presented at handshake
type AuthenticateRequest struct {
	Token string `json:"token"`
}

// JoinMatchRequest asks to join a conversation group
type JoinMatchRequest struct {
	MatchID string `json:"matchId"`
}

// LeaveMatchRequest asks to leave a conversation group
type LeaveMatchRequest struct {
	MatchID string `json:"matchId"`
}

// SendMessageRequest carries an outgoing chat message. TempID is a
// client-supplied correlation token echoed back in the broadcast so the
// sender can reconcile its optimistic UI state.
type SendMessageRequest struct {
	MatchID string `json:"matchId"`
	Message string `json:"message"`
	TempID  string `json:"tempId,omitempty"`
}

// DeleteMessageRequest asks to soft-delete a previously sent message
type DeleteMessageRequest struct {
	MessageID string `json:"messageId"`
}

// TypingRequest carries a transient typing-state change
type TypingRequest struct {
	MatchID  string `json:"matchId"`
	IsTyping bool   `json:"isTyping"`
}

// MarkReadRequest asks to flip all unread counterpart messages to read
type MarkReadRequest struct {
	MatchID string `json:"matchId"`
}

// JoinedMatchesEvent is the join acknowledgment sent after authentication
type JoinedMatchesEvent struct {
	Count       int      `json:"count"`
	MatchIDs    []string `json:"matchIds"`
	OnlineUsers []string `json:"onlineUsers"`
}

// UserStatusEvent announces an online/offline presence transition
type UserStatusEvent struct {
	UserID    string `json:"userId"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// UserTypingEvent propagates a typing-state change
type UserTypingEvent struct {
	MatchID  string `json:"matchId"`
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// NewMessageEvent is the conversation-group broadcast for a saved message
type NewMessageEvent struct {
	Message
	TempID string `json:"tempId,omitempty"`
}

// NewMessageNotificationEvent is the lighter private-group notification,
// delivered even when the recipient is not inside the conversation view
type NewMessageNotificationEvent struct {
	MatchID string  `json:"matchId"`
	Message Message `json:"message"`
}

// MessageDeletedEvent announces a soft-deleted message
type MessageDeletedEvent struct {
	MessageID string `json:"messageId"`
	MatchID   string `json:"matchId"`
}

// MessagesReadEvent is the read-receipt fanout
type MessagesReadEvent struct {
	MatchID string `json:"matchId"`
	ReadBy  string `json:"readBy"`
	ReadAt  string `json:"readAt"`
	Count   int64  `json:"count"`
}

// MatchActivatedEvent announces that a connection request was accepted
type MatchActivatedEvent struct {
	Match *Match `json:"match"`
}

// SocketError is the scoped error event sent back to a single connection.
// TempID is set when the failed operation carried a correlation token.
type SocketError struct {
	Message string `json:"message"`
	TempID  string `json:"tempId,omitempty"`
}
