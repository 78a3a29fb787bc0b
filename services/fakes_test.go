package services

import (
	"context"
	"sort"
	"sync"

	"blindmatch_server/models"
)

// In-memory store fakes mirroring the conditional-update semantics of the
// DynamoDB implementations: every guarded mutation fails with
// ErrConditionFailed exactly when the real ConditionExpression would.

type memMatchStore struct {
	mu      sync.Mutex
	matches map[string]*models.BlindMatch
	pairs   map[string]string
}

func newMemMatchStore() *memMatchStore {
	return &memMatchStore{
		matches: map[string]*models.BlindMatch{},
		pairs:   map[string]string{},
	}
}

func (s *memMatchStore) Create(_ context.Context, match models.BlindMatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.pairs[match.PairKey]; taken {
		return ErrConditionFailed
	}
	s.pairs[match.PairKey] = match.MatchID
	copied := match
	s.matches[match.MatchID] = &copied
	return nil
}

func (s *memMatchStore) Get(_ context.Context, matchID string) (*models.BlindMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *memMatchStore) ListForUser(_ context.Context, userID string) ([]models.BlindMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.BlindMatch
	for _, m := range s.matches {
		if _, ok := m.Participant(userID); !ok || m.Status == models.StatusEnded {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchID < out[j].MatchID })
	return out, nil
}

func (s *memMatchStore) CountActive(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, m := range s.matches {
		if _, ok := m.Participant(userID); ok && m.Status == models.StatusActive {
			count++
		}
	}
	return count, nil
}

func (s *memMatchStore) PairClaimed(_ context.Context, a, b string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, claimed := s.pairs[models.PairKey(a, b)]
	return claimed, nil
}

func (s *memMatchStore) IncrementMessageCount(_ context.Context, matchID string) (*models.BlindMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok || m.Status != models.StatusActive {
		return nil, ErrConditionFailed
	}
	m.MessageCount++
	copied := *m
	return &copied, nil
}

func (s *memMatchStore) MarkRevealRequested(_ context.Context, matchID, side string) (*models.BlindMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok || m.Status != models.StatusActive || m.MessageCount < m.RevealThreshold {
		return nil, ErrConditionFailed
	}
	if side == "A" {
		m.RevealRequestedA = true
	} else {
		m.RevealRequestedB = true
	}
	copied := *m
	return &copied, nil
}

func (s *memMatchStore) CompleteReveal(_ context.Context, matchID, at string) (*models.BlindMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok || m.Status != models.StatusActive || !m.RevealRequestedA || !m.RevealRequestedB {
		return nil, ErrConditionFailed
	}
	m.Status = models.StatusRevealed
	m.RevealedAt = at
	copied := *m
	return &copied, nil
}

func (s *memMatchStore) End(_ context.Context, matchID, at, reason string) (*models.BlindMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok || m.Status != models.StatusActive {
		return nil, ErrConditionFailed
	}
	m.Status = models.StatusEnded
	m.EndedAt = at
	m.EndReason = reason
	delete(s.pairs, m.PairKey)
	copied := *m
	return &copied, nil
}

type memPreferenceStore struct {
	mu    sync.Mutex
	prefs map[string]models.MatchingPreferences
}

func newMemPreferenceStore() *memPreferenceStore {
	return &memPreferenceStore{prefs: map[string]models.MatchingPreferences{}}
}

func (s *memPreferenceStore) Get(_ context.Context, userID string) (*models.MatchingPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *memPreferenceStore) Put(_ context.Context, prefs models.MatchingPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[prefs.UserID] = prefs
	return nil
}

func (s *memPreferenceStore) SetEnabled(_ context.Context, userID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return ErrConditionFailed
	}
	p.Enabled = enabled
	s.prefs[userID] = p
	return nil
}

func (s *memPreferenceStore) ListEnabled(_ context.Context) ([]models.MatchingPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MatchingPreferences
	for _, p := range s.prefs {
		if p.Enabled {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (s *memPreferenceStore) TouchLastMatched(_ context.Context, userID, at string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return ErrConditionFailed
	}
	p.LastMatchedAt = at
	s.prefs[userID] = p
	return nil
}

type memBlockStore struct {
	mu     sync.Mutex
	blocks map[string]bool
}

func newMemBlockStore() *memBlockStore {
	return &memBlockStore{blocks: map[string]bool{}}
}

func (s *memBlockStore) IsBlocked(_ context.Context, a, b string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks[a+"|"+b] || s.blocks[b+"|"+a], nil
}

func (s *memBlockStore) Block(_ context.Context, userID, blockedUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[userID+"|"+blockedUserID] = true
	return nil
}

func (s *memBlockStore) Unblock(_ context.Context, userID, blockedUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocks, userID+"|"+blockedUserID)
	return nil
}

type memAuditStore struct {
	mu      sync.Mutex
	records []models.BlockedMessageAudit
}

func (s *memAuditStore) AppendBlocked(_ context.Context, record models.BlockedMessageAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *memAuditStore) Records() []models.BlockedMessageAudit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.BlockedMessageAudit(nil), s.records...)
}

type memMessageStore struct {
	mu       sync.Mutex
	messages map[string][]models.Message
}

func newMemMessageStore() *memMessageStore {
	return &memMessageStore{messages: map[string][]models.Message{}}
}

func (s *memMessageStore) Put(_ context.Context, message models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[message.MatchID] = append(s.messages[message.MatchID], message)
	return nil
}

func (s *memMessageStore) ListByMatch(_ context.Context, matchID string, limit int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := append([]models.Message(nil), s.messages[matchID]...)
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].CreatedAt > msgs[j].CreatedAt })
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (s *memMessageStore) MarkRead(_ context.Context, matchID, readerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[matchID]
	for i := range msgs {
		if msgs[i].SenderID != readerID {
			msgs[i].IsUnread = false
		}
	}
	return nil
}

type sentEvent struct {
	UserID  string
	Event   string
	Payload map[string]interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (n *recordingNotifier) Notify(userID, event string, payload map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, sentEvent{UserID: userID, Event: event, Payload: payload})
}

func (n *recordingNotifier) Events() []sentEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentEvent(nil), n.events...)
}

func (n *recordingNotifier) EventsFor(userID, event string) []sentEvent {
	var out []sentEvent
	for _, e := range n.Events() {
		if e.UserID == userID && e.Event == event {
			out = append(out, e)
		}
	}
	return out
}
