package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"blindmatch_server/models"

	"github.com/google/uuid"
)

// MatcherService produces new blind pairings. It never takes a lock: the
// per-pair conditional commit in the match store is what keeps concurrent
// passes (or a pass racing an on-demand request) from double-booking a pair.
type MatcherService struct {
	Matches     MatchStore
	Preferences PreferenceStore
	Blocks      BlockStore
	Notifier    Notifier
}

// RunMatchingPass pairs up every eligible opted-in user it can. Failures are
// isolated per pair: one bad commit never aborts the rest of the pass.
func (s *MatcherService) RunMatchingPass(ctx context.Context) ([]models.BlindMatch, error) {
	prefs, err := s.Preferences.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}

	var pool []models.MatchingPreferences
	for _, p := range prefs {
		if !p.AutoMatch {
			continue
		}
		count, err := s.Matches.CountActive(ctx, p.UserID)
		if err != nil {
			log.Printf("❌ Skipping %s this pass, could not count active matches: %v", p.UserID, err)
			continue
		}
		if count < p.MaxActiveMatches {
			pool = append(pool, p)
		}
	}
	if len(pool) < 2 {
		return nil, nil
	}

	sortEligible(pool)

	paired := map[string]bool{}
	var created []models.BlindMatch
	for i := range pool {
		u := pool[i]
		if paired[u.UserID] {
			continue
		}
		for j := i + 1; j < len(pool); j++ {
			v := pool[j]
			if paired[v.UserID] {
				continue
			}
			match, err := s.tryPair(ctx, u, v)
			if err != nil {
				log.Printf("❌ Pairing %s with %s failed: %v", u.UserID, v.UserID, err)
				continue
			}
			if match == nil {
				continue
			}
			created = append(created, *match)
			paired[u.UserID] = true
			paired[v.UserID] = true
			break
		}
	}

	if len(created) > 0 {
		log.Printf("✅ Matching pass created %d new matches", len(created))
	}
	return created, nil
}

// FindMatchNow runs the same candidate selection for one requesting user.
// Returns nil when nobody eligible is available right now.
func (s *MatcherService) FindMatchNow(ctx context.Context, userID string) (*models.BlindMatch, error) {
	prefs, err := s.Preferences.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil || !prefs.Enabled {
		return nil, ErrMatchingDisabled
	}

	count, err := s.Matches.CountActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if count >= prefs.MaxActiveMatches {
		return nil, nil
	}

	candidates, err := s.Preferences.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	sortEligible(candidates)

	for _, v := range candidates {
		if v.UserID == userID {
			continue
		}
		match, err := s.tryPair(ctx, *prefs, v)
		if err != nil {
			log.Printf("❌ Pairing %s with %s failed: %v", userID, v.UserID, err)
			continue
		}
		if match != nil {
			return match, nil
		}
	}
	return nil, nil
}

// tryPair applies the shared eligibility predicate to the candidate and, if
// it holds, commits the pairing. Returns (nil, nil) when the candidate is
// simply not available — only infrastructure failures surface as errors.
func (s *MatcherService) tryPair(ctx context.Context, u, v models.MatchingPreferences) (*models.BlindMatch, error) {
	ok, err := s.eligiblePartner(ctx, u.UserID, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)
	match := models.BlindMatch{
		MatchID:         uuid.New().String(),
		ParticipantA:    u.UserID,
		ParticipantB:    v.UserID,
		PairKey:         models.PairKey(u.UserID, v.UserID),
		Status:          models.StatusActive,
		MessageCount:    0,
		RevealThreshold: snapshotThreshold(u),
		CreatedAt:       now,
	}

	if err := s.Matches.Create(ctx, match); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			// another pass claimed this pair first; normal outcome
			return nil, nil
		}
		return nil, err
	}

	log.Printf("🎭 Blind match %s created between %s and %s", match.MatchID, u.UserID, v.UserID)

	for _, p := range []models.MatchingPreferences{u, v} {
		if err := s.Preferences.TouchLastMatched(ctx, p.UserID, now); err != nil {
			log.Printf("⚠️ Could not update lastMatchedAt for %s: %v", p.UserID, err)
		}
		if p.NotificationsEnabled {
			s.Notifier.Notify(p.UserID, models.EventNewMatch, map[string]interface{}{
				"matchId":         match.MatchID,
				"revealThreshold": match.RevealThreshold,
			})
		}
	}
	return &match, nil
}

// eligiblePartner is the single eligibility predicate shared by the batch
// pass and FindMatchNow: enabled, under their own cap, not blocked in either
// direction, and no current claim on the pair.
func (s *MatcherService) eligiblePartner(ctx context.Context, userID string, v models.MatchingPreferences) (bool, error) {
	if !v.Enabled || v.UserID == userID {
		return false, nil
	}

	count, err := s.Matches.CountActive(ctx, v.UserID)
	if err != nil {
		return false, err
	}
	if count >= v.MaxActiveMatches {
		return false, nil
	}

	blocked, err := s.Blocks.IsBlocked(ctx, userID, v.UserID)
	if err != nil {
		return false, err
	}
	if blocked {
		return false, nil
	}

	claimed, err := s.Matches.PairClaimed(ctx, userID, v.UserID)
	if err != nil {
		return false, err
	}
	return !claimed, nil
}

// sortEligible orders candidates by longest time since their last match,
// users never matched first, then by user id. Deterministic so passes are
// reproducible in tests.
func sortEligible(pool []models.MatchingPreferences) {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].LastMatchedAt != pool[j].LastMatchedAt {
			return pool[i].LastMatchedAt < pool[j].LastMatchedAt
		}
		return pool[i].UserID < pool[j].UserID
	})
}

func snapshotThreshold(p models.MatchingPreferences) int {
	clamped := p
	clamped.Clamp()
	return clamped.RevealThreshold
}
