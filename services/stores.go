package services

import (
	"context"

	"blindmatch_server/models"
)

// Store interfaces sit between the domain services and DynamoDB so the state
// machine and matcher can be exercised against in-memory fakes. Conditional
// mutations report a lost race as ErrConditionFailed.

// MatchStore persists blind matches and the per-pair claims that guarantee at
// most one current match per unordered user pair.
type MatchStore interface {
	// Create commits a new match atomically: the pair claim is taken with a
	// conditional put, so two concurrent passes cannot double-book a pair.
	Create(ctx context.Context, match models.BlindMatch) error
	Get(ctx context.Context, matchID string) (*models.BlindMatch, error)
	// ListForUser returns the user's active and revealed matches.
	ListForUser(ctx context.Context, userID string) ([]models.BlindMatch, error)
	CountActive(ctx context.Context, userID string) (int, error)
	// PairClaimed reports whether an active or revealed match currently holds
	// the unordered pair (a, b).
	PairClaimed(ctx context.Context, a, b string) (bool, error)

	// IncrementMessageCount adds one to messageCount while the match is
	// active, returning the updated record.
	IncrementMessageCount(ctx context.Context, matchID string) (*models.BlindMatch, error)
	// MarkRevealRequested sets one side's reveal flag, guarded on the match
	// being active and past its reveal threshold.
	MarkRevealRequested(ctx context.Context, matchID, side string) (*models.BlindMatch, error)
	// CompleteReveal transitions active → revealed, guarded on both flags.
	CompleteReveal(ctx context.Context, matchID, at string) (*models.BlindMatch, error)
	// End transitions active → ended and releases the pair claim.
	End(ctx context.Context, matchID, at, reason string) (*models.BlindMatch, error)
}

// PreferenceStore persists per-user matching preferences.
type PreferenceStore interface {
	// Get returns nil (no error) for a user with no stored preferences.
	Get(ctx context.Context, userID string) (*models.MatchingPreferences, error)
	Put(ctx context.Context, prefs models.MatchingPreferences) error
	SetEnabled(ctx context.Context, userID string, enabled bool) error
	ListEnabled(ctx context.Context) ([]models.MatchingPreferences, error)
	TouchLastMatched(ctx context.Context, userID, at string) error
}

// BlockStore answers the block-relationship check consulted by the matcher.
type BlockStore interface {
	// IsBlocked reports a block in either direction.
	IsBlocked(ctx context.Context, a, b string) (bool, error)
	Block(ctx context.Context, userID, blockedUserID string) error
	Unblock(ctx context.Context, userID, blockedUserID string) error
}

// AuditStore is the append-only log of blocked sends.
type AuditStore interface {
	AppendBlocked(ctx context.Context, record models.BlockedMessageAudit) error
}

// MessageStore persists delivered (already filtered) chat messages.
type MessageStore interface {
	Put(ctx context.Context, message models.Message) error
	ListByMatch(ctx context.Context, matchID string, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, matchID, readerID string) error
}

// Notifier dispatches a notification event to one user. Implementations are
// fire-and-forget; delivery mechanics live outside the core.
type Notifier interface {
	Notify(userID, event string, payload map[string]interface{})
}

// NopNotifier drops all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, string, map[string]interface{}) {}
