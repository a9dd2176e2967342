package services

import (
	"testing"

	"skillswap/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSkill(name, category, level, skillType string) models.Skill {
	return models.Skill{
		ID:       name + ":" + skillType,
		Name:     name,
		Category: category,
		Level:    level,
		Type:     skillType,
		IsActive: true,
	}
}

func makeProfile(id string, offered, wanted []models.Skill) *models.MatchProfile {
	return &models.MatchProfile{
		User: &models.User{
			ID:       id,
			IsActive: true,
		},
		Offered: offered,
		Wanted:  wanted,
	}
}

func TestFindMutualMatchesEmptySkills(t *testing.T) {
	engine := NewMatchEngine()

	empty := makeProfile("u1", nil, nil)
	full := makeProfile("u2",
		[]models.Skill{makeSkill("Python", "Programming", models.LevelExpert, models.SkillTypeOffered)},
		[]models.Skill{makeSkill("React", "Programming", models.LevelBeginner, models.SkillTypeWanted)},
	)

	assert.Empty(t, engine.FindMutualMatches(empty, empty))
	assert.Empty(t, engine.FindMutualMatches(empty, full))
	assert.Empty(t, engine.FindMutualMatches(full, empty))
}

func TestFindMutualMatchesReciprocalPair(t *testing.T) {
	engine := NewMatchEngine()

	userA := makeProfile("a",
		[]models.Skill{makeSkill("Python", "Programming", models.LevelExpert, models.SkillTypeOffered)},
		[]models.Skill{makeSkill("React", "Programming", models.LevelBeginner, models.SkillTypeWanted)},
	)
	userB := makeProfile("b",
		[]models.Skill{makeSkill("React", "Programming", models.LevelIntermediate, models.SkillTypeOffered)},
		[]models.Skill{makeSkill("Python", "Programming", models.LevelBeginner, models.SkillTypeWanted)},
	)

	common := engine.FindMutualMatches(userA, userB)
	require.Len(t, common, 1)
	assert.Equal(t, "Python", common[0].User1Offered.Name)
	assert.Equal(t, "Python", common[0].User2Wanted.Name)
	assert.Equal(t, "React", common[0].User2Offered.Name)
	assert.Equal(t, "React", common[0].User1Wanted.Name)

	// Swapping the sides yields the mirrored result
	mirrored := engine.FindMutualMatches(userB, userA)
	require.Len(t, mirrored, 1)
	assert.Equal(t, common[0].User1Offered.Name, mirrored[0].User2Wanted.Name)
	assert.Equal(t, common[0].User2Offered.Name, mirrored[0].User1Wanted.Name)
}

func TestFindMutualMatchesCaseInsensitiveName(t *testing.T) {
	engine := NewMatchEngine()

	userA := makeProfile("a",
		[]models.Skill{makeSkill("python", "Programming", models.LevelExpert, models.SkillTypeOffered)},
		[]models.Skill{makeSkill("REACT", "Programming", models.LevelBeginner, models.SkillTypeWanted)},
	)
	userB := makeProfile("b",
		[]models.Skill{makeSkill("React", "Programming", models.LevelIntermediate, models.SkillTypeOffered)},
		[]models.Skill{makeSkill("Python", "Programming", models.LevelBeginner, models.SkillTypeWanted)},
	)

	assert.Len(t, engine.FindMutualMatches(userA, userB), 1)
}

func TestFindMutualMatchesCategoryMustMatch(t *testing.T) {
	engine := NewMatchEngine()

	userA := makeProfile("a",
		[]models.Skill{makeSkill("Python", "Programming", models.LevelExpert, models.SkillTypeOffered)},
		[]models.Skill{makeSkill("React", "Programming", models.LevelBeginner, models.SkillTypeWanted)},
	)
	userB := makeProfile("b",
		[]models.Skill{makeSkill("React", "Programming", models.LevelIntermediate, models.SkillTypeOffered)},
		[]models.Skill{makeSkill("Python", "Data Science", models.LevelBeginner, models.SkillTypeWanted)},
	)

	assert.Empty(t, engine.FindMutualMatches(userA, userB))
}

// The user1Wanted reference on the reciprocal leg is resolved by name
// only. A same-named wanted skill in a different category that appears
// earlier in the list wins, mirroring the shipped matcher.
func TestFindMutualMatchesWantedLookupByNameOnly(t *testing.T) {
	engine := NewMatchEngine()

	userA := makeProfile("a",
		[]models.Skill{makeSkill("Guitar", "Music", models.LevelExpert, models.SkillTypeOffered)},
		[]models.Skill{
			makeSkill("Spanish", "Travel", models.LevelBeginner, models.SkillTypeWanted),
			makeSkill("Spanish", "Language", models.LevelExpert, models.SkillTypeWanted),
		},
	)
	userB := makeProfile("b",
		[]models.Skill{makeSkill("Spanish", "Language", models.LevelIntermediate, models.SkillTypeOffered)},
		[]models.Skill{makeSkill("Guitar", "Music", models.LevelBeginner, models.SkillTypeWanted)},
	)

	common := engine.FindMutualMatches(userA, userB)
	require.Len(t, common, 1)
	assert.Equal(t, "Language", common[0].User2Offered.Category)
	assert.Equal(t, "Travel", common[0].User1Wanted.Category)
}

func TestCalculateMatchScoreTotalNeverExceedsHundred(t *testing.T) {
	engine := NewMatchEngine()

	userA := makeProfile("a", nil, nil)
	userB := makeProfile("b", nil, nil)
	userA.User.TrustScore = 100000
	userB.User.TrustScore = 100000
	userA.User.AverageRating = 5000
	userB.User.AverageRating = 5000
	userA.User.Location = models.Location{City: "Berlin", Country: "DE"}
	userB.User.Location = models.Location{City: "Berlin", Country: "DE"}

	commonSkills := make([]models.CommonSkill, 1000)
	for i := range commonSkills {
		commonSkills[i] = models.CommonSkill{
			User1Offered: models.SkillRef{Name: "X", Level: models.LevelExpert},
			User2Wanted:  models.SkillRef{Name: "X", Level: models.LevelBeginner},
			User2Offered: models.SkillRef{Name: "Y", Level: models.LevelExpert},
			User1Wanted:  models.SkillRef{Name: "Y", Level: models.LevelBeginner},
		}
	}

	score := engine.CalculateMatchScore(userA, userB, commonSkills)
	assert.LessOrEqual(t, score.Total, 100)
	assert.GreaterOrEqual(t, score.Total, 0)

	for _, factor := range score.Factors {
		assert.LessOrEqual(t, factor.Score, factor.Max, "factor %s over cap", factor.Name)
	}
}

func TestLocationFactor(t *testing.T) {
	engine := NewMatchEngine()

	cases := []struct {
		name     string
		loc1     models.Location
		loc2     models.Location
		expected int
	}{
		{"same city and country", models.Location{City: "Lisbon", Country: "PT"}, models.Location{City: "Lisbon", Country: "PT"}, 15},
		{"same country only", models.Location{City: "Lisbon", Country: "PT"}, models.Location{City: "Porto", Country: "PT"}, 10},
		{"different country", models.Location{City: "Lisbon", Country: "PT"}, models.Location{City: "Madrid", Country: "ES"}, 5},
		{"no location on either side", models.Location{}, models.Location{}, 5},
		{"one side missing", models.Location{City: "Lisbon", Country: "PT"}, models.Location{}, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			userA := makeProfile("a", nil, nil)
			userB := makeProfile("b", nil, nil)
			userA.User.Location = tc.loc1
			userB.User.Location = tc.loc2

			assert.Equal(t, tc.expected, engine.locationScore(userA.User, userB.User))
		})
	}
}

func TestModeFactor(t *testing.T) {
	engine := NewMatchEngine()

	userA := makeProfile("a", nil, nil)
	userB := makeProfile("b", nil, nil)

	userA.User.PreferredMode = models.ModeOnline
	userB.User.PreferredMode = models.ModeOffline
	assert.Equal(t, 3, engine.modeScore(userA.User, userB.User))

	userB.User.PreferredMode = models.ModeOnline
	assert.Equal(t, 10, engine.modeScore(userA.User, userB.User))

	userB.User.PreferredMode = models.ModeBoth
	assert.Equal(t, 10, engine.modeScore(userA.User, userB.User))

	// No preference never hard-mismatches
	userA.User.PreferredMode = ""
	userB.User.PreferredMode = models.ModeOffline
	assert.Equal(t, 10, engine.modeScore(userA.User, userB.User))
}

func TestLevelLegScoring(t *testing.T) {
	assert.Equal(t, 5, legLevelScore(models.LevelExpert, models.LevelBeginner))
	assert.Equal(t, 5, legLevelScore(models.LevelIntermediate, models.LevelIntermediate))
	assert.Equal(t, 3, legLevelScore(models.LevelBeginner, models.LevelIntermediate))
	assert.Equal(t, 3, legLevelScore(models.LevelIntermediate, models.LevelExpert))
	assert.Equal(t, 0, legLevelScore(models.LevelBeginner, models.LevelExpert))
}

func TestCalculateMatchScoreEndToEnd(t *testing.T) {
	engine := NewMatchEngine()

	userA := makeProfile("a",
		[]models.Skill{makeSkill("Guitar", "Music", models.LevelExpert, models.SkillTypeOffered)},
		[]models.Skill{makeSkill("Spanish", "Language", models.LevelBeginner, models.SkillTypeWanted)},
	)
	userB := makeProfile("b",
		[]models.Skill{makeSkill("Spanish", "Language", models.LevelIntermediate, models.SkillTypeOffered)},
		[]models.Skill{makeSkill("Guitar", "Music", models.LevelBeginner, models.SkillTypeWanted)},
	)

	userA.User.Location = models.Location{City: "Lisbon", Country: "PT"}
	userB.User.Location = models.Location{City: "Lisbon", Country: "PT"}
	userA.User.TrustScore = 80
	userB.User.TrustScore = 80
	userA.User.AverageRating = 4
	userB.User.AverageRating = 4

	common := engine.FindMutualMatches(userA, userB)
	require.Len(t, common, 1)

	score := engine.CalculateMatchScore(userA, userB, common)
	assert.Equal(t, 57, score.Total)

	byName := map[string]int{}
	for _, factor := range score.Factors {
		byName[factor.Name] = factor.Score
	}
	assert.Equal(t, 10, byName["skill_matches"])
	assert.Equal(t, 10, byName["level_compatibility"])
	assert.Equal(t, 15, byName["location"])
	assert.Equal(t, 10, byName["mode_preference"])
	assert.Equal(t, 8, byName["trust_score"])
	assert.Equal(t, 4, byName["rating_bonus"])
}
