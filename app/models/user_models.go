package models

import "time"

// Skill type constants (direction of the trade)
const (
	SkillTypeOffered = "offered"
	SkillTypeWanted  = "wanted"
)

// Skill proficiency levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelExpert       = "expert"
)

// Exchange mode preferences
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeBoth    = "both"
)

// SkillLevelRank maps a proficiency level to its ordinal value
var SkillLevelRank = map[string]int{
	LevelBeginner:     1,
	LevelIntermediate: 2,
	LevelExpert:       3,
}

// Skill represents a single skill a user offers or wants
type Skill struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	UserID      string    `bson:"user" json:"userId"`
	Name        string    `bson:"name" json:"name"`
	Category    string    `bson:"category" json:"category"`
	Level       string    `bson:"level" json:"level"`
	Type        string    `bson:"type" json:"type"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string  `bson:"tags,omitempty" json:"tags,omitempty"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Location represents where a user is based
type Location struct {
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
}

// User represents a user as consumed by the matching and messaging core.
// Skill lists hold references resolved through the skills collection.
type User struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email" json:"email"`
	OfferedSkills []string  `bson:"offeredSkills,omitempty" json:"offeredSkills,omitempty"`
	WantedSkills  []string  `bson:"wantedSkills,omitempty" json:"wantedSkills,omitempty"`
	Location      Location  `bson:"location,omitempty" json:"location,omitempty"`
	PreferredMode string    `bson:"preferredMode,omitempty" json:"preferredMode,omitempty"`
	TrustScore    float64   `bson:"trustScore" json:"trustScore"`
	AverageRating float64   `bson:"averageRating" json:"averageRating"`
	IsActive      bool      `bson:"isActive" json:"isActive"`
	IsBanned      bool      `bson:"isBanned" json:"isBanned"`
	LastActive    time.Time `bson:"lastActive,omitempty" json:"lastActive,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MatchProfile bundles a user with their resolved skill lists.
// This is the read-only input consumed by the match engine.
type MatchProfile struct {
	User    *User
	Offered []Skill
	Wanted  []Skill
}
