package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"blindmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoMessageStore is the DynamoDB-backed MessageStore.
type DynamoMessageStore struct {
	Dynamo *DynamoService
}

func (s *DynamoMessageStore) Put(ctx context.Context, message models.Message) error {
	return s.Dynamo.PutItem(ctx, models.MessagesTable, message)
}

// ListByMatch fetches messages for a match sorted newest first.
func (s *DynamoMessageStore) ListByMatch(ctx context.Context, matchID string, limit int) ([]models.Message, error) {
	keyCondition := "#matchId = :matchId"
	expressionValues := map[string]types.AttributeValue{
		":matchId": &types.AttributeValueMemberS{Value: matchID},
	}
	expressionNames := map[string]string{
		"#matchId": "matchId",
	}

	items, err := s.Dynamo.QueryItems(ctx, models.MessagesTable, keyCondition, expressionValues, expressionNames, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt > messages[j].CreatedAt
	})
	return messages, nil
}

// MarkRead marks the messages the reader received (not sent) as read.
func (s *DynamoMessageStore) MarkRead(ctx context.Context, matchID, readerID string) error {
	messages, err := s.ListByMatch(ctx, matchID, 100)
	if err != nil {
		return err
	}

	for _, msg := range messages {
		if msg.SenderID == readerID || !msg.IsUnread {
			continue
		}
		key := map[string]types.AttributeValue{
			"matchId":   &types.AttributeValueMemberS{Value: matchID},
			"createdAt": &types.AttributeValueMemberS{Value: msg.CreatedAt},
		}
		_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MessagesTable, key,
			"SET isUnread = :false",
			"attribute_exists(matchId)",
			map[string]types.AttributeValue{
				":false": &types.AttributeValueMemberBOOL{Value: false},
			},
			nil,
		)
		if err != nil {
			log.Printf("❌ Failed to mark message %s as read: %v", msg.MessageID, err)
		}
	}
	return nil
}
