package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"blindmatch_server/models"
)

// LifecycleService drives the blind-match state machine:
// active → revealed (both sides consent) or active → ended (either side quits).
// Every transition is a conditional update keyed on the current state, so two
// participants acting at the same moment resolve to whichever commit lands
// first instead of overwriting each other.
type LifecycleService struct {
	Matches  MatchStore
	Notifier Notifier
}

// RevealOutcome reports the result of a reveal request.
type RevealOutcome struct {
	Revealed          bool   `json:"revealed"`
	Reason            string `json:"reason"`
	RemainingMessages int    `json:"remainingMessages,omitempty"`
}

// RecordMessage counts one inbound chat message against the match. Counting
// only happens while the match is active; a revealed match accepts messages
// without counting, an ended match rejects them.
func (s *LifecycleService) RecordMessage(ctx context.Context, matchID string) (int, error) {
	match, err := s.Matches.IncrementMessageCount(ctx, matchID)
	if err == nil {
		return match.MessageCount, nil
	}
	if !errors.Is(err, ErrConditionFailed) {
		return 0, err
	}

	current, getErr := s.Matches.Get(ctx, matchID)
	if getErr != nil {
		return 0, getErr
	}
	switch current.Status {
	case models.StatusRevealed:
		return current.MessageCount, nil
	case models.StatusEnded:
		return 0, ErrMatchEnded
	default:
		return 0, fmt.Errorf("message count update rejected for match %s: %w", matchID, err)
	}
}

// RequestReveal records one participant's consent to reveal. It is rejected
// with a typed error while the match is below its reveal threshold; once both
// participants have consented the match transitions to revealed.
func (s *LifecycleService) RequestReveal(ctx context.Context, matchID, userID string) (*RevealOutcome, error) {
	match, err := s.Matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	side, ok := match.Participant(userID)
	if !ok {
		return nil, ErrNotParticipant
	}

	switch match.Status {
	case models.StatusRevealed:
		return &RevealOutcome{Revealed: true, Reason: "already revealed"}, nil
	case models.StatusEnded:
		return nil, ErrMatchEnded
	}

	if match.MessageCount < match.RevealThreshold {
		return nil, &RevealNotEligibleError{Remaining: match.RevealThreshold - match.MessageCount}
	}

	updated, err := s.Matches.MarkRevealRequested(ctx, matchID, side)
	if errors.Is(err, ErrConditionFailed) {
		// state moved under us; re-read and re-decide
		return s.resolveRevealRace(ctx, matchID)
	}
	if err != nil {
		return nil, err
	}

	if updated.RevealRequestedA && updated.RevealRequestedB {
		return s.completeReveal(ctx, updated, userID)
	}

	log.Printf("💌 Reveal requested by %s on match %s, waiting for partner", userID, matchID)
	s.Notifier.Notify(match.PartnerOf(userID), models.EventRevealAvailable, map[string]interface{}{
		"matchId":  matchID,
		"revealed": false,
	})
	return &RevealOutcome{Revealed: false, Reason: "waiting for partner"}, nil
}

func (s *LifecycleService) completeReveal(ctx context.Context, match *models.BlindMatch, requesterID string) (*RevealOutcome, error) {
	revealedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.Matches.CompleteReveal(ctx, match.MatchID, revealedAt); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return s.resolveRevealRace(ctx, match.MatchID)
		}
		return nil, err
	}

	log.Printf("🎉 Match %s revealed", match.MatchID)
	s.Notifier.Notify(match.PartnerOf(requesterID), models.EventRevealAvailable, map[string]interface{}{
		"matchId":  match.MatchID,
		"revealed": true,
	})
	return &RevealOutcome{Revealed: true, Reason: "both participants agreed"}, nil
}

// resolveRevealRace re-reads a match after a rejected conditional update. A
// reveal completed by the other side resolves to success; an end that won the
// race resolves to the ended rejection.
func (s *LifecycleService) resolveRevealRace(ctx context.Context, matchID string) (*RevealOutcome, error) {
	current, err := s.Matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	switch current.Status {
	case models.StatusRevealed:
		return &RevealOutcome{Revealed: true, Reason: "already revealed"}, nil
	case models.StatusEnded:
		return nil, ErrMatchEnded
	}
	if current.MessageCount < current.RevealThreshold {
		return nil, &RevealNotEligibleError{Remaining: current.RevealThreshold - current.MessageCount}
	}
	return nil, fmt.Errorf("reveal request rejected for match %s: %w", matchID, ErrConditionFailed)
}

// EndMatch terminates an active match. Either participant may end at any
// message count; ending an already-ended match is a no-op.
func (s *LifecycleService) EndMatch(ctx context.Context, matchID, userID, reason string) error {
	match, err := s.Matches.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if _, ok := match.Participant(userID); !ok {
		return ErrNotParticipant
	}

	switch match.Status {
	case models.StatusEnded:
		return nil
	case models.StatusRevealed:
		return ErrAlreadyRevealed
	}

	endedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.Matches.End(ctx, matchID, endedAt, reason); err != nil {
		if errors.Is(err, ErrConditionFailed) {
			current, getErr := s.Matches.Get(ctx, matchID)
			if getErr != nil {
				return getErr
			}
			if current.Status == models.StatusEnded {
				return nil
			}
			return ErrAlreadyRevealed
		}
		return err
	}

	log.Printf("👋 Match %s ended by %s", matchID, userID)
	s.Notifier.Notify(match.PartnerOf(userID), models.EventMatchEnded, map[string]interface{}{
		"matchId": matchID,
	})
	return nil
}

// ListActiveMatches returns the caller's side of each current match. The
// partner's identity stays masked until the match is revealed; the
// presentation layer keys off status to decide what to show.
func (s *LifecycleService) ListActiveMatches(ctx context.Context, userID string) ([]models.MatchView, error) {
	matches, err := s.Matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.MatchView, 0, len(matches))
	for _, m := range matches {
		if _, ok := m.Participant(userID); !ok {
			continue
		}
		view := models.MatchView{
			MatchID:               m.MatchID,
			Status:                m.Status,
			MessageCount:          m.MessageCount,
			RevealThreshold:       m.RevealThreshold,
			RevealRequestedByMe:   m.RevealRequestedBy(userID),
			RevealRequestedByThem: m.RevealRequestedBy(m.PartnerOf(userID)),
			PartnerAlias:          models.PartnerAlias,
			CreatedAt:             m.CreatedAt,
			RevealedAt:            m.RevealedAt,
		}
		if remaining := m.RevealThreshold - m.MessageCount; remaining > 0 {
			view.MessagesUntilRevealable = remaining
		}
		if m.Status == models.StatusRevealed {
			view.PartnerID = m.PartnerOf(userID)
		}
		views = append(views, view)
	}
	return views, nil
}
