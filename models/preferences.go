package models

// MatchingPreferences is the per-user matching configuration. It is owned and
// mutated by the user; the matcher only ever reads it.
type MatchingPreferences struct {
	UserID               string `dynamodbav:"userId" json:"userId"`
	Enabled              bool   `dynamodbav:"enabled" json:"enabled"`
	MaxActiveMatches     int    `dynamodbav:"maxActiveMatches" json:"maxActiveMatches"`
	RevealThreshold      int    `dynamodbav:"revealThreshold" json:"revealThreshold"`
	AutoMatch            bool   `dynamodbav:"autoMatch" json:"autoMatch"`
	NotificationsEnabled bool   `dynamodbav:"notificationsEnabled" json:"notificationsEnabled"`
	LastMatchedAt        string `dynamodbav:"lastMatchedAt,omitempty" json:"lastMatchedAt,omitempty"`
	UpdatedAt            string `dynamodbav:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// MatchingPreferencesTable is the DynamoDB table name for matching preferences
const MatchingPreferencesTable = "MatchingPreferences"

// DefaultPreferences returns the settings a user starts with when they enable matching.
func DefaultPreferences(userID string) MatchingPreferences {
	return MatchingPreferences{
		UserID:               userID,
		Enabled:              true,
		MaxActiveMatches:     1,
		RevealThreshold:      30,
		AutoMatch:            true,
		NotificationsEnabled: true,
	}
}

// Clamp forces the numeric preference fields into their allowed ranges.
func (p *MatchingPreferences) Clamp() {
	if p.MaxActiveMatches < MinActiveMatches {
		p.MaxActiveMatches = MinActiveMatches
	}
	if p.MaxActiveMatches > MaxActiveMatchesCap {
		p.MaxActiveMatches = MaxActiveMatchesCap
	}
	if p.RevealThreshold < MinRevealThreshold {
		p.RevealThreshold = MinRevealThreshold
	}
	if p.RevealThreshold > MaxRevealThreshold {
		p.RevealThreshold = MaxRevealThreshold
	}
}

// Block is one direction of a block relationship. The matcher checks both directions.
type Block struct {
	UserID        string `dynamodbav:"userId" json:"userId"`
	BlockedUserID string `dynamodbav:"blockedUserId" json:"blockedUserId"`
	CreatedAt     string `dynamodbav:"createdAt" json:"createdAt"`
}

// BlocksTable is the DynamoDB table name for block relationships
const BlocksTable = "Blocks"
