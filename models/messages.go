package models

// Message is one delivered chat message. Content is stored post-sanitization;
// blocked messages never reach this table.
type Message struct {
	MatchID   string `dynamodbav:"matchId" json:"matchId"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
	Content   string `dynamodbav:"content" json:"content"`
	IsUnread  bool   `dynamodbav:"isUnread" json:"isUnread"`
	MessageID string `dynamodbav:"messageId" json:"messageId"`
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
}

// MessagesTable is the DynamoDB table name for chat messages
const MessagesTable = "Messages"
