package models

import "strings"

// BlindMatch represents one anonymous pairing pending mutual reveal.
type BlindMatch struct {
	MatchID          string `dynamodbav:"matchId" json:"matchId"`
	ParticipantA     string `dynamodbav:"participantA" json:"participantA"`
	ParticipantB     string `dynamodbav:"participantB" json:"participantB"`
	PairKey          string `dynamodbav:"pairKey" json:"pairKey"`
	Status           string `dynamodbav:"status" json:"status"` // active, revealed, ended
	MessageCount     int    `dynamodbav:"messageCount" json:"messageCount"`
	RevealThreshold  int    `dynamodbav:"revealThreshold" json:"revealThreshold"`
	RevealRequestedA bool   `dynamodbav:"revealRequestedA" json:"revealRequestedA"`
	RevealRequestedB bool   `dynamodbav:"revealRequestedB" json:"revealRequestedB"`
	CreatedAt        string `dynamodbav:"createdAt" json:"createdAt"`
	RevealedAt       string `dynamodbav:"revealedAt,omitempty" json:"revealedAt,omitempty"`
	EndedAt          string `dynamodbav:"endedAt,omitempty" json:"endedAt,omitempty"`
	EndReason        string `dynamodbav:"endReason,omitempty" json:"endReason,omitempty"`
}

// BlindMatchesTable is the DynamoDB table name for blind matches
const BlindMatchesTable = "BlindMatches"

// GSIs used to list a user's matches regardless of which side they landed on
const (
	ParticipantAIndex = "participantA-index"
	ParticipantBIndex = "participantB-index"
)

// ActivePair is the unique claim on an unordered user pair. Creating it with a
// conditional put is what makes the matcher's per-pair commit atomic.
type ActivePair struct {
	PairKey   string `dynamodbav:"pairKey" json:"pairKey"`
	MatchID   string `dynamodbav:"matchId" json:"matchId"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// ActivePairsTable is the DynamoDB table name for pair claims
const ActivePairsTable = "ActivePairs"

// PairKey builds the canonical key for an unordered user pair.
func PairKey(a, b string) string {
	if strings.Compare(a, b) > 0 {
		a, b = b, a
	}
	return a + "|" + b
}

// Participant reports whether userID is a participant and which side they hold.
func (m *BlindMatch) Participant(userID string) (side string, ok bool) {
	switch userID {
	case m.ParticipantA:
		return "A", true
	case m.ParticipantB:
		return "B", true
	}
	return "", false
}

// PartnerOf returns the other participant's user id.
func (m *BlindMatch) PartnerOf(userID string) string {
	if userID == m.ParticipantA {
		return m.ParticipantB
	}
	return m.ParticipantA
}

// RevealRequestedBy reports whether the given participant already asked to reveal.
func (m *BlindMatch) RevealRequestedBy(userID string) bool {
	if userID == m.ParticipantA {
		return m.RevealRequestedA
	}
	return m.RevealRequestedB
}

// MatchView is the per-side projection of a match. While the match is active the
// partner's real id is withheld; it is only filled in once status is "revealed".
type MatchView struct {
	MatchID                 string `json:"matchId"`
	Status                  string `json:"status"`
	MessageCount            int    `json:"messageCount"`
	RevealThreshold         int    `json:"revealThreshold"`
	RevealRequestedByMe     bool   `json:"revealRequestedByMe"`
	RevealRequestedByThem   bool   `json:"revealRequestedByThem"`
	PartnerAlias            string `json:"partnerAlias"`
	PartnerID               string `json:"partnerId,omitempty"`
	CreatedAt               string `json:"createdAt"`
	RevealedAt              string `json:"revealedAt,omitempty"`
	MessagesUntilRevealable int    `json:"messagesUntilRevealable"`
}
