package models

// ✅ Blind match statuses
const (
	StatusActive   = "active"
	StatusRevealed = "revealed"
	StatusEnded    = "ended"
)

// ✅ Notification event types pushed to participants
const (
	EventNewMatch        = "newMatch"
	EventRevealAvailable = "revealAvailable"
	EventMatchEnded      = "matchEnded"
)

// ✅ Bounds applied to user-supplied preference values
const (
	MinRevealThreshold  = 10
	MaxRevealThreshold  = 100
	MinActiveMatches    = 1
	MaxActiveMatchesCap = 5
)

// PartnerAlias is shown in place of the partner's identity while a match is blind.
const PartnerAlias = "Mystery Match"
