package services

import (
	"context"
	"testing"
	"time"

	"blindmatch_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newChatFixture(t *testing.T) (*BlindChatService, *memMatchStore, *memMessageStore, *memAuditStore, *recordingNotifier) {
	t.Helper()
	matches := newMemMatchStore()
	messages := newMemMessageStore()
	audit := &memAuditStore{}
	notifier := &recordingNotifier{}
	svc := &BlindChatService{
		Messages:  messages,
		Matches:   matches,
		Lifecycle: &LifecycleService{Matches: matches, Notifier: notifier},
		Filter:    NewFilterService(compiledRules(t), nil, 50*time.Millisecond, audit, zap.NewNop()),
		Notifier:  notifier,
	}
	return svc, matches, messages, audit, notifier
}

func TestSendMessageDeliversAndCounts(t *testing.T) {
	svc, matches, messages, _, notifier := newChatFixture(t)
	seedMatch(t, matches, models.BlindMatch{ParticipantA: "alice", ParticipantB: "bob", RevealThreshold: 30})

	msg, result, err := svc.SendMessage(context.Background(), "match-1", "alice", "what do you like to do")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.False(t, result.Blocked)
	assert.Equal(t, "alice", msg.SenderID)

	stored, err := messages.ListByMatch(context.Background(), "match-1", 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	current, err := matches.Get(context.Background(), "match-1")
	require.NoError(t, err)
	assert.Equal(t, 1, current.MessageCount)

	require.Len(t, notifier.EventsFor("bob", EventNewMessage), 1)
}

func TestSendMessageBlockedNotStoredNotCounted(t *testing.T) {
	svc, matches, messages, audit, notifier := newChatFixture(t)
	seedMatch(t, matches, models.BlindMatch{ParticipantA: "alice", ParticipantB: "bob", RevealThreshold: 30})

	msg, result, err := svc.SendMessage(context.Background(), "match-1", "alice", "my number is 555 867 5309")
	require.NoError(t, err, "a blocked message is an outcome, not an error")
	assert.Nil(t, msg)
	assert.True(t, result.Blocked)

	stored, err := messages.ListByMatch(context.Background(), "match-1", 10)
	require.NoError(t, err)
	assert.Empty(t, stored, "blocked text is never persisted")

	current, err := matches.Get(context.Background(), "match-1")
	require.NoError(t, err)
	assert.Zero(t, current.MessageCount, "blocked sends do not advance the reveal counter")

	assert.Empty(t, notifier.EventsFor("bob", EventNewMessage))
	require.Len(t, audit.Records(), 1)
}

func TestSendMessageStoresSanitizedContent(t *testing.T) {
	svc, matches, messages, _, notifier := newChatFixture(t)
	seedMatch(t, matches, models.BlindMatch{ParticipantA: "alice", ParticipantB: "bob", RevealThreshold: 30})

	// a bare platform mention is weak signal: delivered, but redacted first
	msg, result, err := svc.SendMessage(context.Background(), "match-1", "alice", "i deleted my instagram last year")
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.False(t, result.Blocked)
	assert.Equal(t, "i deleted my [redacted] last year", msg.Content)

	stored, err := messages.ListByMatch(context.Background(), "match-1", 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, msg.Content, stored[0].Content, "raw submission must never be persisted")

	events := notifier.EventsFor("bob", EventNewMessage)
	require.Len(t, events, 1)
	assert.Equal(t, msg.Content, events[0].Payload["content"])
}

func TestSendMessageAtThresholdNotifiesBothSides(t *testing.T) {
	svc, matches, _, _, notifier := newChatFixture(t)
	seedMatch(t, matches, models.BlindMatch{
		ParticipantA: "alice", ParticipantB: "bob",
		MessageCount: 29, RevealThreshold: 30,
	})

	_, _, err := svc.SendMessage(context.Background(), "match-1", "bob", "ok this is fun")
	require.NoError(t, err)

	assert.Len(t, notifier.EventsFor("alice", models.EventRevealAvailable), 1)
	assert.Len(t, notifier.EventsFor("bob", models.EventRevealAvailable), 1)
}

func TestSendMessageEndedMatchRejected(t *testing.T) {
	svc, matches, _, _, _ := newChatFixture(t)
	seedMatch(t, matches, models.BlindMatch{
		ParticipantA: "alice", ParticipantB: "bob",
		Status: models.StatusEnded, RevealThreshold: 30,
	})

	_, _, err := svc.SendMessage(context.Background(), "match-1", "alice", "hello?")
	assert.ErrorIs(t, err, ErrMatchEnded)
}

func TestSendMessageOutsiderRejected(t *testing.T) {
	svc, matches, _, _, _ := newChatFixture(t)
	seedMatch(t, matches, models.BlindMatch{ParticipantA: "alice", ParticipantB: "bob", RevealThreshold: 30})

	_, _, err := svc.SendMessage(context.Background(), "match-1", "mallory", "hi")
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestGetMessagesRestrictedToParticipants(t *testing.T) {
	svc, matches, _, _, _ := newChatFixture(t)
	seedMatch(t, matches, models.BlindMatch{ParticipantA: "alice", ParticipantB: "bob", RevealThreshold: 30})

	_, _, err := svc.SendMessage(context.Background(), "match-1", "alice", "good morning")
	require.NoError(t, err)

	msgs, err := svc.GetMessages(context.Background(), "match-1", "bob", 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)

	_, err = svc.GetMessages(context.Background(), "match-1", "mallory", 0)
	assert.ErrorIs(t, err, ErrNotParticipant)
}

func TestMarkMessagesRead(t *testing.T) {
	svc, matches, messages, _, _ := newChatFixture(t)
	seedMatch(t, matches, models.BlindMatch{ParticipantA: "alice", ParticipantB: "bob", RevealThreshold: 30})

	_, _, err := svc.SendMessage(context.Background(), "match-1", "alice", "good morning")
	require.NoError(t, err)

	require.NoError(t, svc.MarkMessagesRead(context.Background(), "match-1", "bob"))

	stored, err := messages.ListByMatch(context.Background(), "match-1", 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].IsUnread)
}
