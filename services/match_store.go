package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"blindmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoMatchStore is the DynamoDB-backed MatchStore.
type DynamoMatchStore struct {
	Dynamo *DynamoService
}

func matchKey(matchID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	}
}

// Create claims the pair with a conditional put, then writes the match record.
// The claim is keyed on the unordered pair, so whichever pass commits first
// wins; the loser sees ErrConditionFailed and moves on.
func (s *DynamoMatchStore) Create(ctx context.Context, match models.BlindMatch) error {
	pair := models.ActivePair{
		PairKey:   match.PairKey,
		MatchID:   match.MatchID,
		CreatedAt: match.CreatedAt,
	}
	err := s.Dynamo.PutItemWithCondition(ctx, models.ActivePairsTable, pair,
		"attribute_not_exists(pairKey)", nil, nil)
	if err != nil {
		return err
	}

	if err := s.Dynamo.PutItem(ctx, models.BlindMatchesTable, match); err != nil {
		// release the claim so the pair is not stuck without a match record
		if delErr := s.Dynamo.DeleteItem(ctx, models.ActivePairsTable, map[string]types.AttributeValue{
			"pairKey": &types.AttributeValueMemberS{Value: match.PairKey},
		}); delErr != nil {
			log.Printf("❌ Failed to release pair claim %s after match write failure: %v", match.PairKey, delErr)
		}
		return err
	}
	return nil
}

func (s *DynamoMatchStore) Get(ctx context.Context, matchID string) (*models.BlindMatch, error) {
	item, err := s.Dynamo.GetItem(ctx, models.BlindMatchesTable, matchKey(matchID))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrMatchNotFound
	}

	var match models.BlindMatch
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match %s: %w", matchID, err)
	}
	return &match, nil
}

// ListForUser unions both participant GSIs and drops ended matches.
func (s *DynamoMatchStore) ListForUser(ctx context.Context, userID string) ([]models.BlindMatch, error) {
	var matches []models.BlindMatch
	for _, index := range []struct {
		name string
		attr string
	}{
		{models.ParticipantAIndex, "participantA"},
		{models.ParticipantBIndex, "participantB"},
	} {
		items, err := s.Dynamo.QueryItemsWithIndex(ctx, models.BlindMatchesTable, index.name,
			"#p = :userId",
			map[string]types.AttributeValue{
				":userId": &types.AttributeValueMemberS{Value: userID},
			},
			map[string]string{"#p": index.attr},
			100,
		)
		if err != nil {
			return nil, err
		}

		var side []models.BlindMatch
		if err := attributevalue.UnmarshalListOfMaps(items, &side); err != nil {
			return nil, fmt.Errorf("failed to unmarshal matches for %s: %w", userID, err)
		}
		for _, m := range side {
			if m.Status != models.StatusEnded {
				matches = append(matches, m)
			}
		}
	}
	return matches, nil
}

func (s *DynamoMatchStore) CountActive(ctx context.Context, userID string) (int, error) {
	matches, err := s.ListForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, m := range matches {
		if m.Status == models.StatusActive {
			count++
		}
	}
	return count, nil
}

func (s *DynamoMatchStore) PairClaimed(ctx context.Context, a, b string) (bool, error) {
	item, err := s.Dynamo.GetItem(ctx, models.ActivePairsTable, map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: models.PairKey(a, b)},
	})
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

func (s *DynamoMatchStore) IncrementMessageCount(ctx context.Context, matchID string) (*models.BlindMatch, error) {
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.BlindMatchesTable,
		matchKey(matchID),
		"ADD messageCount :one",
		"#status = :active",
		map[string]types.AttributeValue{
			":one":    &types.AttributeValueMemberN{Value: "1"},
			":active": &types.AttributeValueMemberS{Value: models.StatusActive},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return nil, err
	}
	return unmarshalMatch(attrs)
}

func (s *DynamoMatchStore) MarkRevealRequested(ctx context.Context, matchID, side string) (*models.BlindMatch, error) {
	flag := "revealRequestedA"
	if side == "B" {
		flag = "revealRequestedB"
	}
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.BlindMatchesTable,
		matchKey(matchID),
		fmt.Sprintf("SET %s = :true", flag),
		"#status = :active AND messageCount >= revealThreshold",
		map[string]types.AttributeValue{
			":true":   &types.AttributeValueMemberBOOL{Value: true},
			":active": &types.AttributeValueMemberS{Value: models.StatusActive},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return nil, err
	}
	return unmarshalMatch(attrs)
}

func (s *DynamoMatchStore) CompleteReveal(ctx context.Context, matchID, at string) (*models.BlindMatch, error) {
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.BlindMatchesTable,
		matchKey(matchID),
		"SET #status = :revealed, revealedAt = :at",
		"#status = :active AND revealRequestedA = :true AND revealRequestedB = :true",
		map[string]types.AttributeValue{
			":revealed": &types.AttributeValueMemberS{Value: models.StatusRevealed},
			":active":   &types.AttributeValueMemberS{Value: models.StatusActive},
			":true":     &types.AttributeValueMemberBOOL{Value: true},
			":at":       &types.AttributeValueMemberS{Value: at},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return nil, err
	}
	return unmarshalMatch(attrs)
}

func (s *DynamoMatchStore) End(ctx context.Context, matchID, at, reason string) (*models.BlindMatch, error) {
	attrs, err := s.Dynamo.UpdateItemWithCondition(ctx, models.BlindMatchesTable,
		matchKey(matchID),
		"SET #status = :ended, endedAt = :at, endReason = :reason",
		"#status = :active",
		map[string]types.AttributeValue{
			":ended":  &types.AttributeValueMemberS{Value: models.StatusEnded},
			":active": &types.AttributeValueMemberS{Value: models.StatusActive},
			":at":     &types.AttributeValueMemberS{Value: at},
			":reason": &types.AttributeValueMemberS{Value: reason},
		},
		map[string]string{"#status": "status"},
	)
	if err != nil {
		return nil, err
	}

	match, err := unmarshalMatch(attrs)
	if err != nil {
		return nil, err
	}

	// ended pairs may re-match later, so the claim is released
	if err := s.Dynamo.DeleteItem(ctx, models.ActivePairsTable, map[string]types.AttributeValue{
		"pairKey": &types.AttributeValueMemberS{Value: match.PairKey},
	}); err != nil && !errors.Is(err, ErrConditionFailed) {
		log.Printf("⚠️ Match %s ended but pair claim %s was not released: %v", matchID, match.PairKey, err)
	}
	return match, nil
}

func unmarshalMatch(attrs map[string]types.AttributeValue) (*models.BlindMatch, error) {
	var match models.BlindMatch
	if err := attributevalue.UnmarshalMap(attrs, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated match: %w", err)
	}
	return &match, nil
}
