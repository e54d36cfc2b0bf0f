package service

import (
	"testing"
	"time"

	"emberly/internal/domain"
	"emberly/internal/models"
	"emberly/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessageUnreadBookkeeping(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	match := env.mutualMatch(t, env.matchService(), alice.ID, bob.ID)
	svc := env.conversationService()

	_, err := svc.SendMessage(alice.ID, match.ID, "hey", "")
	require.NoError(t, err)
	_, err = svc.SendMessage(alice.ID, match.ID, "you there?", "")
	require.NoError(t, err)

	reloaded, err := env.matches.GetByID(match.ID)
	require.NoError(t, err)
	assert.Equal(t, "you there?", reloaded.LastMessage)
	require.NotNil(t, reloaded.LastMessageSenderID)
	assert.Equal(t, alice.ID, *reloaded.LastMessageSenderID)
	assert.Equal(t, 2, reloaded.UnreadCounts[bob.ID])
	assert.Equal(t, 0, reloaded.UnreadCounts[alice.ID])
}

func TestFirstMessageOnlyNotifies(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	match := env.mutualMatch(t, env.matchService(), alice.ID, bob.ID)
	svc := env.conversationService()

	for _, text := range []string{"one", "two", "three"} {
		_, err := svc.SendMessage(alice.ID, match.ID, text, "")
		require.NoError(t, err)
	}
	msgNotifs := env.notifier.byType(domain.NotifMessage)
	require.Len(t, msgNotifs, 1, "only the opener notifies")
	assert.Equal(t, bob.ID, msgNotifs[0].UserID)
	assert.Equal(t, "one", msgNotifs[0].Body)

	// bob's first reply notifies alice once
	_, err := svc.SendMessage(bob.ID, match.ID, "hi", "")
	require.NoError(t, err)
	_, err = svc.SendMessage(bob.ID, match.ID, "sorry, was away", "")
	require.NoError(t, err)
	assert.Len(t, env.notifier.byType(domain.NotifMessage), 2)

	// every message still reaches the match topic
	assert.Len(t, env.publisher.events[realtime.MatchTopic(match.ID)], 5)
}

func TestSendMessageGuards(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	eve := seedUser(t, env.db, "Eve")
	matchSvc := env.matchService()
	match := env.mutualMatch(t, matchSvc, alice.ID, bob.ID)
	svc := env.conversationService()

	_, err := svc.SendMessage(alice.ID, match.ID, "   ", "")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.SendMessage(eve.ID, match.ID, "hi", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.SendMessage(alice.ID, 9999, "hi", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// media-only messages are fine, previewed as a photo
	_, err = svc.SendMessage(alice.ID, match.ID, "", "https://cdn.example/pic.jpg")
	require.NoError(t, err)
	reloaded, err := env.matches.GetByID(match.ID)
	require.NoError(t, err)
	assert.Equal(t, "Photo", reloaded.LastMessage)

	// a deactivated match rejects new messages
	require.NoError(t, matchSvc.Unmatch(alice.ID, match.ID))
	_, err = svc.SendMessage(alice.ID, match.ID, "hi", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetMessagesMarksRead(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	match := env.mutualMatch(t, env.matchService(), alice.ID, bob.ID)
	svc := env.conversationService()

	_, err := svc.SendMessage(alice.ID, match.ID, "hey", "")
	require.NoError(t, err)
	_, err = svc.SendMessage(bob.ID, match.ID, "hi back", "")
	require.NoError(t, err)

	msgs, err := svc.GetMessages(bob.ID, match.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hey", msgs[0].Content)
	assert.True(t, msgs[0].Read, "the sender's message is read once the recipient fetches")
	assert.False(t, msgs[1].Read, "bob's own message stays unread until alice fetches")

	reloaded, err := env.matches.GetByID(match.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.UnreadCounts[bob.ID])
	assert.Equal(t, 1, reloaded.UnreadCounts[alice.ID])

	_, err = svc.GetMessages(9999, match.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteConversationIsPerUser(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	match := env.mutualMatch(t, env.matchService(), alice.ID, bob.ID)
	svc := env.conversationService()

	_, err := svc.SendMessage(alice.ID, match.ID, "hey", "")
	require.NoError(t, err)
	_, err = svc.SendMessage(bob.ID, match.ID, "hi", "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(alice.ID, match.ID))

	aliceView, err := svc.GetMessages(alice.ID, match.ID)
	require.NoError(t, err)
	assert.Empty(t, aliceView)

	bobView, err := svc.GetMessages(bob.ID, match.ID)
	require.NoError(t, err)
	assert.Len(t, bobView, 2, "the other participant's view is untouched")

	// messages sent after the delete reappear for alice
	_, err = svc.SendMessage(bob.ID, match.ID, "still there?", "")
	require.NoError(t, err)
	aliceView, err = svc.GetMessages(alice.ID, match.ID)
	require.NoError(t, err)
	require.Len(t, aliceView, 1)
	assert.Equal(t, "still there?", aliceView[0].Content)
}

func TestListConversationsOrderingAndPreview(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	carol := seedUser(t, env.db, "Carol")
	dave := seedUser(t, env.db, "Dave")
	matchSvc := env.matchService()
	withBob := env.mutualMatch(t, matchSvc, alice.ID, bob.ID)
	withCarol := env.mutualMatch(t, matchSvc, alice.ID, carol.ID)
	withDave := env.mutualMatch(t, matchSvc, alice.ID, dave.ID)
	svc := env.conversationService()

	_, err := svc.SendMessage(bob.ID, withBob.ID, "oldest", "")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	for _, text := range []string{"m1", "m2", "m3", "m4"} {
		_, err := svc.SendMessage(carol.ID, withCarol.ID, text, "")
		require.NoError(t, err)
	}

	list, err := svc.ListConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, withCarol.ID, list[0].Match.ID, "latest activity first")
	assert.Equal(t, withBob.ID, list[1].Match.ID)
	assert.Equal(t, withDave.ID, list[2].Match.ID, "messageless conversations sort last")

	assert.Equal(t, 4, list[0].UnreadCount)
	require.Len(t, list[0].Preview, previewMessageCount)
	assert.Equal(t, "m4", list[0].Preview[0].Content, "preview is newest-first")
	require.NotNil(t, list[0].OtherUser)
	assert.Equal(t, carol.ID, list[0].OtherUser.ID)
}

func TestConversationUpdateEvent(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	match := env.mutualMatch(t, env.matchService(), alice.ID, bob.ID)
	svc := env.conversationService()

	_, err := svc.SendMessage(alice.ID, match.ID, "ping", "")
	require.NoError(t, err)

	var updates []realtime.Event
	for _, ev := range env.publisher.events[realtime.UserTopic(bob.ID)] {
		if ev.Type == realtime.EventConversationUpdate {
			updates = append(updates, ev)
		}
	}
	require.Len(t, updates, 1)
	payload, ok := updates[0].Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ping", payload["last_message"])
}

func TestSendMessageSurvivesSideChannelFailure(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.fail = true
	env.publisher.fail = true
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")

	// build the match before flipping failure on, via a healthy service
	env.notifier.fail = false
	match := env.mutualMatch(t, env.matchService(), alice.ID, bob.ID)
	env.notifier.fail = true

	svc := env.conversationService()
	msg, err := svc.SendMessage(alice.ID, match.ID, "hey", "")
	require.NoError(t, err)
	require.NotZero(t, msg.ID)

	var count int64
	require.NoError(t, env.db.Model(&models.Message{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
