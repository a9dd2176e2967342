package services

import (
	"math"
	"strings"

	"skillswap/app/models"
)

// MatchEngine computes reciprocal skill overlaps and compatibility scores
// between two user profiles. All methods are pure: no I/O, no side effects.
type MatchEngine struct{}

// NewMatchEngine creates a new match engine instance
func NewMatchEngine() *MatchEngine {
	return &MatchEngine{}
}

// Score factor caps
const (
	maxSkillMatchScore = 40
	maxLevelScore      = 20
	maxLocationScore   = 15
	maxModeScore       = 10
	maxTrustScore      = 10
	maxRatingScore     = 5
	maxTotalScore      = 100
)

// skillsEqual is the forward-leg equality test: name matches
// case-insensitively, category must match exactly.
func skillsEqual(offered, wanted *models.Skill) bool {
	return strings.EqualFold(offered.Name, wanted.Name) && offered.Category == wanted.Category
}

func skillRef(s *models.Skill) models.SkillRef {
	return models.SkillRef{
		SkillID:  s.ID,
		Name:     s.Name,
		Category: s.Category,
		Level:    s.Level,
	}
}

// FindMutualMatches returns the reciprocal trading opportunities between
// two users. Both users must have at least one offered and one wanted
// skill, otherwise no matching is attempted.
//
// A tuple is emitted when user1 offers something user2 wants AND user2
// offers something user1 wants. The forward leg requires name (case
// insensitive) and category equality; the user1Wanted reference on the
// reciprocal leg is resolved by name only. That asymmetry matches the
// shipped behavior of the matcher and is kept on purpose.
func (e *MatchEngine) FindMutualMatches(user1, user2 *models.MatchProfile) []models.CommonSkill {
	if len(user1.Offered) == 0 || len(user1.Wanted) == 0 ||
		len(user2.Offered) == 0 || len(user2.Wanted) == 0 {
		return []models.CommonSkill{}
	}

	common := []models.CommonSkill{}

	for i := range user1.Offered {
		offered := &user1.Offered[i]

		for j := range user2.Wanted {
			wanted := &user2.Wanted[j]
			if !skillsEqual(offered, wanted) {
				continue
			}

			// Forward leg holds; look for the reciprocal leg.
			reciprocal := e.findReciprocal(user2.Offered, user1.Wanted)
			if reciprocal == nil {
				continue
			}

			user1Wanted := findByName(user1.Wanted, reciprocal.Name)
			if user1Wanted == nil {
				continue
			}

			common = append(common, models.CommonSkill{
				User1Offered: skillRef(offered),
				User2Wanted:  skillRef(wanted),
				User2Offered: skillRef(reciprocal),
				User1Wanted:  skillRef(user1Wanted),
			})
		}
	}

	return common
}

// findReciprocal returns the first of user2's offered skills that
// satisfies the equality test against any of user1's wanted skills
func (e *MatchEngine) findReciprocal(offered []models.Skill, wanted []models.Skill) *models.Skill {
	for i := range offered {
		for j := range wanted {
			if skillsEqual(&offered[i], &wanted[j]) {
				return &offered[i]
			}
		}
	}
	return nil
}

// findByName returns the first skill matching the given name, ignoring case
func findByName(skills []models.Skill, name string) *models.Skill {
	for i := range skills {
		if strings.EqualFold(skills[i].Name, name) {
			return &skills[i]
		}
	}
	return nil
}

// CalculateMatchScore computes the weighted compatibility score for a
// user pair given their common skills. Each factor is capped
// independently and the total is clamped to [0,100].
func (e *MatchEngine) CalculateMatchScore(user1, user2 *models.MatchProfile, commonSkills []models.CommonSkill) models.MatchScore {
	factors := []models.ScoreFactor{
		{Name: "skill_matches", Score: e.skillMatchScore(commonSkills), Max: maxSkillMatchScore},
		{Name: "level_compatibility", Score: e.levelScore(commonSkills), Max: maxLevelScore},
		{Name: "location", Score: e.locationScore(user1.User, user2.User), Max: maxLocationScore},
		{Name: "mode_preference", Score: e.modeScore(user1.User, user2.User), Max: maxModeScore},
		{Name: "trust_score", Score: e.trustScore(user1.User, user2.User), Max: maxTrustScore},
		{Name: "rating_bonus", Score: e.ratingScore(user1.User, user2.User), Max: maxRatingScore},
	}

	total := 0
	for _, f := range factors {
		total += f.Score
	}
	if total > maxTotalScore {
		total = maxTotalScore
	}
	if total < 0 {
		total = 0
	}

	return models.MatchScore{Total: total, Factors: factors}
}

func (e *MatchEngine) skillMatchScore(commonSkills []models.CommonSkill) int {
	score := len(commonSkills) * 10
	if score > maxSkillMatchScore {
		score = maxSkillMatchScore
	}
	return score
}

// levelScore awards, per tuple and per leg, 5 points when the offering
// side meets the requested level and 3 when it is exactly one level below
func (e *MatchEngine) levelScore(commonSkills []models.CommonSkill) int {
	score := 0
	for _, cs := range commonSkills {
		score += legLevelScore(cs.User1Offered.Level, cs.User2Wanted.Level)
		score += legLevelScore(cs.User2Offered.Level, cs.User1Wanted.Level)
	}
	if score > maxLevelScore {
		score = maxLevelScore
	}
	return score
}

func legLevelScore(offeredLevel, wantedLevel string) int {
	offered := models.SkillLevelRank[offeredLevel]
	wanted := models.SkillLevelRank[wantedLevel]

	switch {
	case offered >= wanted:
		return 5
	case wanted-offered == 1:
		return 3
	}
	return 0
}

func (e *MatchEngine) locationScore(user1, user2 *models.User) int {
	if user1.Location.Country == "" || user2.Location.Country == "" {
		return 5
	}
	if user1.Location.Country != user2.Location.Country {
		return 5
	}
	if user1.Location.City != "" && user1.Location.City == user2.Location.City {
		return maxLocationScore
	}
	return 10
}

// modeScore never treats a preference mismatch as a hard disqualifier
func (e *MatchEngine) modeScore(user1, user2 *models.User) int {
	mode1 := normalizeMode(user1.PreferredMode)
	mode2 := normalizeMode(user2.PreferredMode)

	if mode1 == models.ModeBoth || mode2 == models.ModeBoth || mode1 == mode2 {
		return maxModeScore
	}
	return 3
}

func normalizeMode(mode string) string {
	if mode == "" {
		return models.ModeBoth
	}
	return mode
}

func (e *MatchEngine) trustScore(user1, user2 *models.User) int {
	avg := (user1.TrustScore + user2.TrustScore) / 2
	score := int(math.Round(avg / 10))
	if score > maxTrustScore {
		score = maxTrustScore
	}
	if score < 0 {
		score = 0
	}
	return score
}

func (e *MatchEngine) ratingScore(user1, user2 *models.User) int {
	avg := (user1.AverageRating + user2.AverageRating) / 2
	score := int(math.Round(avg))
	if score > maxRatingScore {
		score = maxRatingScore
	}
	if score < 0 {
		score = 0
	}
	return score
}
