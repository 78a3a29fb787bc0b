package services

import (
	"context"
	"fmt"

	"blindmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoPreferenceStore is the DynamoDB-backed PreferenceStore.
type DynamoPreferenceStore struct {
	Dynamo *DynamoService
}

func prefKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}

func (s *DynamoPreferenceStore) Get(ctx context.Context, userID string) (*models.MatchingPreferences, error) {
	item, err := s.Dynamo.GetItem(ctx, models.MatchingPreferencesTable, prefKey(userID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	var prefs models.MatchingPreferences
	if err := attributevalue.UnmarshalMap(item, &prefs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences for %s: %w", userID, err)
	}
	return &prefs, nil
}

func (s *DynamoPreferenceStore) Put(ctx context.Context, prefs models.MatchingPreferences) error {
	return s.Dynamo.PutItem(ctx, models.MatchingPreferencesTable, prefs)
}

func (s *DynamoPreferenceStore) SetEnabled(ctx context.Context, userID string, enabled bool) error {
	_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MatchingPreferencesTable,
		prefKey(userID),
		"SET enabled = :enabled",
		"attribute_exists(userId)",
		map[string]types.AttributeValue{
			":enabled": &types.AttributeValueMemberBOOL{Value: enabled},
		},
		nil,
	)
	return err
}

// ListEnabled scans for every user with matching switched on. The matcher runs
// a handful of times a day, so a paginated scan is acceptable here.
func (s *DynamoPreferenceStore) ListEnabled(ctx context.Context) ([]models.MatchingPreferences, error) {
	var prefs []models.MatchingPreferences
	err := s.Dynamo.ScanWithFilter(ctx, models.MatchingPreferencesTable,
		func(item map[string]types.AttributeValue) bool {
			enabled, ok := item["enabled"].(*types.AttributeValueMemberBOOL)
			return ok && enabled.Value
		}, &prefs)
	if err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *DynamoPreferenceStore) TouchLastMatched(ctx context.Context, userID, at string) error {
	_, err := s.Dynamo.UpdateItemWithCondition(ctx, models.MatchingPreferencesTable,
		prefKey(userID),
		"SET lastMatchedAt = :at",
		"attribute_exists(userId)",
		map[string]types.AttributeValue{
			":at": &types.AttributeValueMemberS{Value: at},
		},
		nil,
	)
	return err
}
