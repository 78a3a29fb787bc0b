package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"blindmatch_server/models"

	"github.com/google/uuid"
)

// EventNewMessage notifies the recipient that a message was delivered to one
// of their matches.
const EventNewMessage = "newMessage"

// BlindChatService is the send path for in-match chat: every outbound message
// passes the identity filter before it is persisted, counted toward the reveal
// threshold, and pushed to the partner.
type BlindChatService struct {
	Messages  MessageStore
	Matches   MatchStore
	Lifecycle *LifecycleService
	Filter    *FilterService
	Notifier  Notifier
}

// SendMessage filters, persists and delivers one message. A blocked message is
// not an error: the caller receives the filter result and nothing is stored or
// delivered. Filtering happens before the message count moves, so blocked
// sends never advance a match toward reveal.
func (s *BlindChatService) SendMessage(ctx context.Context, matchID, senderID, content string) (*models.Message, models.FilterResult, error) {
	match, err := s.Matches.Get(ctx, matchID)
	if err != nil {
		return nil, models.FilterResult{}, err
	}
	if _, ok := match.Participant(senderID); !ok {
		return nil, models.FilterResult{}, ErrNotParticipant
	}
	if match.Status == models.StatusEnded {
		return nil, models.FilterResult{}, ErrMatchEnded
	}

	result := s.Filter.FilterForDelivery(ctx, matchID, senderID, content)
	if result.Blocked {
		log.Printf("🚫 Message blocked in match %s (tier %s, categories %v)", matchID, result.Tier, result.Categories())
		return nil, result, nil
	}

	// Weak findings below the block thresholds still get redacted: the stored
	// and delivered content is the sanitized text, never the raw submission.
	message := models.Message{
		MatchID:   matchID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		MessageID: uuid.NewString(),
		SenderID:  senderID,
		Content:   result.SanitizedText,
		IsUnread:  true,
	}
	if err := s.Messages.Put(ctx, message); err != nil {
		return nil, result, fmt.Errorf("failed to save message: %w", err)
	}

	count, err := s.Lifecycle.RecordMessage(ctx, matchID)
	if err != nil {
		// The message is already delivered to storage; a failed count update
		// only delays reveal eligibility, so log and carry on.
		log.Printf("⚠️ Failed to update message count for match %s: %v", matchID, err)
	} else if count == match.RevealThreshold {
		log.Printf("🎉 Match %s reached its reveal threshold (%d messages)", matchID, count)
		for _, userID := range []string{match.ParticipantA, match.ParticipantB} {
			s.Notifier.Notify(userID, models.EventRevealAvailable, map[string]interface{}{
				"matchId":  matchID,
				"eligible": true,
			})
		}
	}

	s.Notifier.Notify(match.PartnerOf(senderID), EventNewMessage, map[string]interface{}{
		"matchId":   matchID,
		"messageId": message.MessageID,
		"createdAt": message.CreatedAt,
		"content":   message.Content,
	})

	return &message, result, nil
}

// PreviewFilter runs the filter chain without touching the match, for clients
// that warn the sender before submission.
func (s *BlindChatService) PreviewFilter(ctx context.Context, content string) models.FilterResult {
	return s.Filter.FilterMessage(ctx, content)
}

// GetMessages returns the most recent messages for a match, newest first,
// restricted to its participants.
func (s *BlindChatService) GetMessages(ctx context.Context, matchID, userID string, limit int) ([]models.Message, error) {
	match, err := s.Matches.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if _, ok := match.Participant(userID); !ok {
		return nil, ErrNotParticipant
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Messages.ListByMatch(ctx, matchID, limit)
}

// MarkMessagesRead marks the partner's messages in a match as read.
func (s *BlindChatService) MarkMessagesRead(ctx context.Context, matchID, readerID string) error {
	match, err := s.Matches.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if _, ok := match.Participant(readerID); !ok {
		return ErrNotParticipant
	}
	return s.Messages.MarkRead(ctx, matchID, readerID)
}
