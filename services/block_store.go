package services

import (
	"context"
	"time"

	"blindmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoBlockStore is the DynamoDB-backed BlockStore.
type DynamoBlockStore struct {
	Dynamo *DynamoService
}

func blockKey(userID, blockedUserID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId":        &types.AttributeValueMemberS{Value: userID},
		"blockedUserId": &types.AttributeValueMemberS{Value: blockedUserID},
	}
}

// IsBlocked checks the relation in both directions: a block by either side
// removes the pair from matching.
func (s *DynamoBlockStore) IsBlocked(ctx context.Context, a, b string) (bool, error) {
	item, err := s.Dynamo.GetItem(ctx, models.BlocksTable, blockKey(a, b))
	if err != nil {
		return false, err
	}
	if item != nil {
		return true, nil
	}

	item, err = s.Dynamo.GetItem(ctx, models.BlocksTable, blockKey(b, a))
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

func (s *DynamoBlockStore) Block(ctx context.Context, userID, blockedUserID string) error {
	return s.Dynamo.PutItem(ctx, models.BlocksTable, models.Block{
		UserID:        userID,
		BlockedUserID: blockedUserID,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *DynamoBlockStore) Unblock(ctx context.Context, userID, blockedUserID string) error {
	return s.Dynamo.DeleteItem(ctx, models.BlocksTable, blockKey(userID, blockedUserID))
}

// DynamoAuditStore appends blocked-send records to the audit table.
type DynamoAuditStore struct {
	Dynamo *DynamoService
}

func (s *DynamoAuditStore) AppendBlocked(ctx context.Context, record models.BlockedMessageAudit) error {
	// write-once: the (matchId, blockedAt) key is never overwritten
	return s.Dynamo.PutItemWithCondition(ctx, models.BlockedMessagesAuditTable, record,
		"attribute_not_exists(matchId) AND attribute_not_exists(blockedAt)", nil, nil)
}
