package models

import "time"

// Message represents a single chat message belonging to a match
type Message struct {
	ID        string     `bson:"_id,omitempty" json:"id"`
	MatchID   string     `bson:"matchId" json:"matchId"`
	Sender    string     `bson:"sender" json:"sender"`
	Message   string     `bson:"message" json:"message"`
	IsRead    bool       `bson:"isRead" json:"isRead"`
	ReadAt    *time.Time `bson:"readAt,omitempty" json:"readAt,omitempty"`
	IsDeleted bool       `bson:"isDeleted" json:"isDeleted"`
	DeletedBy string     `bson:"deletedBy,omitempty" json:"deletedBy,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
}

// UnreadCount is the per-match unread message count for a user
type UnreadCount struct {
	MatchID string `bson:"_id" json:"matchId"`
	Count   int64  `bson:"count" json:"count"`
}
