package services

import (
	"context"
	"log"
	"time"

	"blindmatch_server/models"
)

// PreferenceService owns user-facing mutation of matching preferences and
// block relationships. The matcher only ever reads what this writes.
type PreferenceService struct {
	Preferences PreferenceStore
	Blocks      BlockStore
}

func (s *PreferenceService) GetPreferences(ctx context.Context, userID string) (*models.MatchingPreferences, error) {
	prefs, err := s.Preferences.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		defaults := models.DefaultPreferences(userID)
		defaults.Enabled = false
		return &defaults, nil
	}
	return prefs, nil
}

// Enable opts a user into matching, creating default preferences on first use.
func (s *PreferenceService) Enable(ctx context.Context, userID string) (*models.MatchingPreferences, error) {
	existing, err := s.Preferences.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		prefs := models.DefaultPreferences(userID)
		prefs.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		if err := s.Preferences.Put(ctx, prefs); err != nil {
			return nil, err
		}
		log.Printf("✨ Matching enabled for new user %s", userID)
		return &prefs, nil
	}

	if err := s.Preferences.SetEnabled(ctx, userID, true); err != nil {
		return nil, err
	}
	existing.Enabled = true
	return existing, nil
}

// Disable opts a user out of future matching passes. Existing matches are
// untouched; ending those is an explicit per-match action.
func (s *PreferenceService) Disable(ctx context.Context, userID string) error {
	existing, err := s.Preferences.Get(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		prefs := models.DefaultPreferences(userID)
		prefs.Enabled = false
		prefs.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		return s.Preferences.Put(ctx, prefs)
	}
	return s.Preferences.SetEnabled(ctx, userID, false)
}

// UpdatePreferences replaces the user's settings, clamping numeric fields
// into their allowed ranges and preserving matcher-owned bookkeeping.
func (s *PreferenceService) UpdatePreferences(ctx context.Context, prefs models.MatchingPreferences) (*models.MatchingPreferences, error) {
	prefs.Clamp()
	prefs.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	existing, err := s.Preferences.Get(ctx, prefs.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		prefs.LastMatchedAt = existing.LastMatchedAt
	}

	if err := s.Preferences.Put(ctx, prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (s *PreferenceService) BlockUser(ctx context.Context, userID, targetID string) error {
	return s.Blocks.Block(ctx, userID, targetID)
}

func (s *PreferenceService) UnblockUser(ctx context.Context, userID, targetID string) error {
	return s.Blocks.Unblock(ctx, userID, targetID)
}
