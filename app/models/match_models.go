package models

import "time"

// Match status constants
const (
	MatchStatusPending = "pending"
	MatchStatusActive  = "active"
	MatchStatusBlocked = "blocked"
)

// Request status constants
const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"
	RequestStatusDeclined = "declined"
)

// SkillRef is a denormalized reference to a skill inside a common-skill tuple
type SkillRef struct {
	SkillID  string `bson:"skillId" json:"skillId"`
	Name     string `bson:"name" json:"name"`
	Category string `bson:"category" json:"category"`
	Level    string `bson:"level" json:"level"`
}

// CommonSkill is one reciprocal trading opportunity between the two match
// participants: the forward leg (user1 offers what user2 wants) and the
// reciprocal leg (user2 offers what user1 wants).
type CommonSkill struct {
	User1Offered SkillRef `bson:"user1Offered" json:"user1Offered"`
	User2Wanted  SkillRef `bson:"user2Wanted" json:"user2Wanted"`
	User2Offered SkillRef `bson:"user2Offered" json:"user2Offered"`
	User1Wanted  SkillRef `bson:"user1Wanted" json:"user1Wanted"`
}

// ScoreFactor is one entry of the score breakdown returned to callers
type ScoreFactor struct {
	Name  string `bson:"name" json:"name"`
	Score int    `bson:"score" json:"score"`
	Max   int    `bson:"max" json:"max"`
}

// MatchScore is the result of scoring a user pair
type MatchScore struct {
	Total   int           `json:"total"`
	Factors []ScoreFactor `json:"factors"`
}

// Match represents a persisted, uniquely-keyed unordered pairing of two
// users. User1 always holds the lexicographically smaller user id so the
// pair key is stable regardless of which side initiated discovery.
type Match struct {
	ID              string        `bson:"_id,omitempty" json:"id"`
	User1           string        `bson:"user1" json:"user1"`
	User2           string        `bson:"user2" json:"user2"`
	MatchScore      int           `bson:"matchScore" json:"matchScore"`
	CommonSkills    []CommonSkill `bson:"commonSkills" json:"commonSkills"`
	Status          string        `bson:"status" json:"status"`
	LastInteraction time.Time     `bson:"lastInteraction" json:"lastInteraction"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// HasParticipant reports whether the given user is one of the pair
func (m *Match) HasParticipant(userID string) bool {
	return m.User1 == userID || m.User2 == userID
}

// OtherParticipant returns the counterpart of the given user in the pair.
// Returns an empty string when the user is not a participant.
func (m *Match) OtherParticipant(userID string) string {
	switch userID {
	case m.User1:
		return m.User2
	case m.User2:
		return m.User1
	}
	return ""
}

// SortUserPair orders two user ids into the canonical (user1, user2) form
func SortUserPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Request is a directional offer to connect, referencing a Match
type Request struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	MatchID   string    `bson:"match" json:"matchId"`
	Sender    string    `bson:"sender" json:"sender"`
	Receiver  string    `bson:"receiver" json:"receiver"`
	Status    string    `bson:"status" json:"status"`
	Message   string    `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MatchCandidate is one scored candidate returned by batch discovery
type MatchCandidate struct {
	UserID       string        `json:"userId"`
	Name         string        `json:"name"`
	Score        int           `json:"score"`
	Factors      []ScoreFactor `json:"factors"`
	CommonSkills []CommonSkill `json:"commonSkills"`
	MatchID      string        `json:"matchId"`
	Status       string        `json:"status"`
}
