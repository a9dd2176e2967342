package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"skillswap/app/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// candidateScanLimit bounds how many users one discovery run scores
const candidateScanLimit = 100

// MatchmakingService runs the candidate discovery and rescoring batches
// on top of the pure match engine
type MatchmakingService struct {
	usersCollection   *mongo.Collection
	skillsCollection  *mongo.Collection
	matchesCollection *mongo.Collection
	engine            *MatchEngine
}

// NewMatchmakingService creates a new matchmaking service instance
func NewMatchmakingService(usersCollection, skillsCollection, matchesCollection *mongo.Collection) *MatchmakingService {
	return &MatchmakingService{
		usersCollection:   usersCollection,
		skillsCollection:  skillsCollection,
		matchesCollection: matchesCollection,
		engine:            NewMatchEngine(),
	}
}

// LoadProfile fetches a user together with their resolved skill lists
func (m *MatchmakingService) LoadProfile(ctx context.Context, userID string) (*models.MatchProfile, error) {
	var user models.User
	err := m.usersCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}
	return m.resolveProfile(ctx, &user)
}

// resolveProfile loads the user's active skills and partitions them by
// direction, preserving the order of the reference lists
func (m *MatchmakingService) resolveProfile(ctx context.Context, user *models.User) (*models.MatchProfile, error) {
	ids := append([]string{}, user.OfferedSkills...)
	ids = append(ids, user.WantedSkills...)

	byID := make(map[string]models.Skill)
	if len(ids) > 0 {
		cursor, err := m.skillsCollection.Find(ctx, bson.M{
			"_id":      bson.M{"$in": ids},
			"isActive": true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load skills: %v", err)
		}
		var skills []models.Skill
		if err := cursor.All(ctx, &skills); err != nil {
			return nil, fmt.Errorf("failed to decode skills: %v", err)
		}
		for _, s := range skills {
			byID[s.ID] = s
		}
	}

	profile := &models.MatchProfile{User: user}
	for _, id := range user.OfferedSkills {
		if s, ok := byID[id]; ok {
			profile.Offered = append(profile.Offered, s)
		}
	}
	for _, id := range user.WantedSkills {
		if s, ok := byID[id]; ok {
			profile.Wanted = append(profile.Wanted, s)
		}
	}
	return profile, nil
}

// FindCandidates scans active users for reciprocal matches with the
// requesting user, persists a Match row per retained candidate (upsert
// on the unordered pair) and returns the top-N ordered by score.
func (m *MatchmakingService) FindCandidates(ctx context.Context, userID string, minScore, limit int) ([]models.MatchCandidate, error) {
	if limit <= 0 {
		limit = 10
	}

	requester, err := m.LoadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	cursor, err := m.usersCollection.Find(ctx, bson.M{
		"_id":             bson.M{"$ne": userID},
		"isActive":        true,
		"isBanned":        false,
		"offeredSkills.0": bson.M{"$exists": true},
		"wantedSkills.0":  bson.M{"$exists": true},
	}, options.Find().SetLimit(candidateScanLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %v", err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode candidates: %v", err)
	}

	candidates := []models.MatchCandidate{}
	for i := range users {
		candidate, err := m.resolveProfile(ctx, &users[i])
		if err != nil {
			log.Printf("⚠️ Skipping candidate %s: %v", users[i].ID, err)
			continue
		}

		commonSkills := m.engine.FindMutualMatches(requester, candidate)
		if len(commonSkills) == 0 {
			continue
		}

		score := m.engine.CalculateMatchScore(requester, candidate, commonSkills)
		if score.Total < minScore {
			continue
		}

		candidates = append(candidates, models.MatchCandidate{
			UserID:       users[i].ID,
			Name:         users[i].Name,
			Score:        score.Total,
			Factors:      score.Factors,
			CommonSkills: commonSkills,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	// Persist every retained candidate, not just the ones returned. The
	// upsert is keyed on the unordered pair, so repeated discovery runs
	// update in place.
	for i := range candidates {
		match, status, err := m.upsertMatch(ctx, userID, candidates[i].UserID, candidates[i].Score, candidates[i].CommonSkills)
		if err != nil {
			log.Printf("⚠️ Failed to upsert match for pair (%s, %s): %v", userID, candidates[i].UserID, err)
			continue
		}
		candidates[i].MatchID = match.ID
		candidates[i].Status = status
	}

	// The limit bounds the response only
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

// upsertMatch creates or updates the Match row for a user pair and
// returns it with the caller-facing status: "new" for a freshly created
// row, otherwise whatever status the existing row holds.
func (m *MatchmakingService) upsertMatch(ctx context.Context, userA, userB string, score int, commonSkills []models.CommonSkill) (*models.Match, string, error) {
	user1, user2 := models.SortUserPair(userA, userB)

	// The common-skill tuples are oriented from the requester's point of
	// view; flip them when the canonical pair order swaps the sides.
	if user1 != userA {
		commonSkills = flipCommonSkills(commonSkills)
	}

	now := time.Now()
	filter := bson.M{"user1": user1, "user2": user2}

	var existing models.Match
	err := m.matchesCollection.FindOne(ctx, filter).Decode(&existing)
	status := "new"
	if err == nil {
		status = existing.Status
	} else if err != mongo.ErrNoDocuments {
		return nil, "", fmt.Errorf("failed to look up match: %v", err)
	}

	update := bson.M{
		"$set": bson.M{
			"matchScore":      score,
			"commonSkills":    commonSkills,
			"lastInteraction": now,
			"updatedAt":       now,
		},
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"user1":     user1,
			"user2":     user2,
			"status":    models.MatchStatusPending,
			"createdAt": now,
		},
	}

	_, err = m.matchesCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to upsert match: %v", err)
	}

	var match models.Match
	if err := m.matchesCollection.FindOne(ctx, filter).Decode(&match); err != nil {
		return nil, "", fmt.Errorf("failed to reload match: %v", err)
	}

	return &match, status, nil
}

// flipCommonSkills mirrors the tuples so user1/user2 references follow
// the canonical pair order
func flipCommonSkills(commonSkills []models.CommonSkill) []models.CommonSkill {
	flipped := make([]models.CommonSkill, len(commonSkills))
	for i, cs := range commonSkills {
		flipped[i] = models.CommonSkill{
			User1Offered: cs.User2Offered,
			User2Wanted:  cs.User1Wanted,
			User2Offered: cs.User1Offered,
			User1Wanted:  cs.User2Wanted,
		}
	}
	return flipped
}

// GetMatch loads a match by id
func (m *MatchmakingService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	var match models.Match
	err := m.matchesCollection.FindOne(ctx, bson.M{"_id": matchID}).Decode(&match)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match: %v", err)
	}
	return &match, nil
}

// GetMatchesForUser returns a user's matches ordered by latest interaction
func (m *MatchmakingService) GetMatchesForUser(ctx context.Context, userID string) ([]models.Match, error) {
	cursor, err := m.matchesCollection.Find(ctx, bson.M{
		"$or": []bson.M{{"user1": userID}, {"user2": userID}},
	}, options.Find().SetSort(bson.D{{Key: "lastInteraction", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %v", err)
	}

	var matches []models.Match
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %v", err)
	}
	return matches, nil
}

// GetActiveMatchesForUser returns a user's currently active matches
func (m *MatchmakingService) GetActiveMatchesForUser(ctx context.Context, userID string) ([]models.Match, error) {
	cursor, err := m.matchesCollection.Find(ctx, bson.M{
		"status": models.MatchStatusActive,
		"$or":    []bson.M{{"user1": userID}, {"user2": userID}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query active matches: %v", err)
	}

	var matches []models.Match
	if err := cursor.All(ctx, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode active matches: %v", err)
	}
	return matches, nil
}

// RescoreAll re-runs scoring for every non-blocked match against current
// user and skill state. Individual failures are logged and skipped so a
// bad row never aborts the batch.
func (m *MatchmakingService) RescoreAll(ctx context.Context) (int, error) {
	cursor, err := m.matchesCollection.Find(ctx, bson.M{
		"status": bson.M{"$ne": models.MatchStatusBlocked},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to query matches for rescoring: %v", err)
	}

	var matches []models.Match
	if err := cursor.All(ctx, &matches); err != nil {
		return 0, fmt.Errorf("failed to decode matches for rescoring: %v", err)
	}

	rescored := 0
	for _, match := range matches {
		if err := m.rescoreMatch(ctx, &match); err != nil {
			log.Printf("⚠️ Failed to rescore match %s: %v", match.ID, err)
			continue
		}
		rescored++
	}

	log.Printf("🔄 Rescored %d/%d matches", rescored, len(matches))
	return rescored, nil
}

func (m *MatchmakingService) rescoreMatch(ctx context.Context, match *models.Match) error {
	profile1, err := m.LoadProfile(ctx, match.User1)
	if err != nil {
		return err
	}
	profile2, err := m.LoadProfile(ctx, match.User2)
	if err != nil {
		return err
	}

	commonSkills := m.engine.FindMutualMatches(profile1, profile2)
	score := m.engine.CalculateMatchScore(profile1, profile2, commonSkills)

	now := time.Now()
	_, err = m.matchesCollection.UpdateOne(ctx, bson.M{"_id": match.ID}, bson.M{
		"$set": bson.M{
			"matchScore":      score.Total,
			"commonSkills":    commonSkills,
			"lastInteraction": now,
			"updatedAt":       now,
		},
	})
	return err
}

// TouchMatch bumps the last-interaction timestamp used for conversation
// list ordering
func (m *MatchmakingService) TouchMatch(ctx context.Context, matchID string) error {
	now := time.Now()
	_, err := m.matchesCollection.UpdateOne(ctx, bson.M{"_id": matchID}, bson.M{
		"$set": bson.M{"lastInteraction": now, "updatedAt": now},
	})
	return err
}
