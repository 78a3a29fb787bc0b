package models

// PII finding categories
const (
	PIICategoryPhone     = "phone"
	PIICategoryEmail     = "email"
	PIICategoryHandle    = "handle"
	PIICategoryName      = "name"
	PIICategoryAddress   = "address"
	PIICategoryWorkplace = "workplace"
	PIICategorySchool    = "school"
	PIICategoryURL       = "url"
	PIICategoryOther     = "other"
)

// PIIFinding is one detected span of identity-revealing content. Offsets are
// byte offsets into the original message text.
type PIIFinding struct {
	Category    string  `json:"category"`
	Text        string  `json:"text"`
	StartOffset int     `json:"startOffset"`
	EndOffset   int     `json:"endOffset"`
	Confidence  float64 `json:"confidence"`
}

// FilterResult is the aggregate decision for one message.
type FilterResult struct {
	Blocked           bool         `json:"blocked"`
	Findings          []PIIFinding `json:"findings"`
	OverallConfidence float64      `json:"overallConfidence"`
	SanitizedText     string       `json:"sanitizedText"`
	Tier              string       `json:"tier"` // which tier decided
}

// Categories lists the distinct finding categories, for reporting a block back
// to the sender without echoing the flagged text.
func (r *FilterResult) Categories() []string {
	seen := map[string]bool{}
	var categories []string
	for _, f := range r.Findings {
		if !seen[f.Category] {
			seen[f.Category] = true
			categories = append(categories, f.Category)
		}
	}
	return categories
}

// ClassifierVerdict is the response shape of the remote text classifier.
type ClassifierVerdict struct {
	Flagged     bool     `json:"flagged"`
	Confidence  float64  `json:"confidence"`
	Categories  []string `json:"categories"`
	Explanation string   `json:"explanation"`
}

// BlockedMessageAudit is one append-only audit record for a blocked send.
// The raw message text is intentionally never stored.
type BlockedMessageAudit struct {
	MatchID           string   `dynamodbav:"matchId" json:"matchId"`
	BlockedAt         string   `dynamodbav:"blockedAt" json:"blockedAt"`
	SenderID          string   `dynamodbav:"senderId" json:"senderId"`
	Categories        []string `dynamodbav:"categories" json:"categories"`
	OverallConfidence float64  `dynamodbav:"overallConfidence" json:"overallConfidence"`
	Tier              string   `dynamodbav:"tier" json:"tier"`
}

// BlockedMessagesAuditTable is the DynamoDB table name for the blocked-message audit log
const BlockedMessagesAuditTable = "BlockedMessagesAudit"
