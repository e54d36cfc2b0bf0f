package service

import (
	"testing"

	"emberly/internal/domain"
	"emberly/internal/models"
	"emberly/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeOneSided(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")

	res, err := svc.Like(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Nil(t, res.Match)
	require.NotNil(t, res.Interaction)
	assert.Equal(t, domain.KindLike, res.Interaction.Kind)

	// the target gets one gated like notification, nothing else
	likes := env.notifier.byType(domain.NotifLike)
	require.Len(t, likes, 1)
	assert.Equal(t, bob.ID, likes[0].UserID)
	assert.Empty(t, env.notifier.byType(domain.NotifMatch))
}

func TestMutualLikeCreatesExactlyOneMatch(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")

	match := env.mutualMatch(t, svc, alice.ID, bob.ID)
	assert.True(t, match.IsActive)
	require.NotNil(t, match.PairKey)
	assert.Equal(t, models.PairKeyFor(alice.ID, bob.ID), *match.PairKey)

	var count int64
	require.NoError(t, env.db.Model(&models.Match{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// one match notification per participant
	matchNotifs := env.notifier.byType(domain.NotifMatch)
	require.Len(t, matchNotifs, 2)
	recipients := map[uint]bool{matchNotifs[0].UserID: true, matchNotifs[1].UserID: true}
	assert.True(t, recipients[alice.ID])
	assert.True(t, recipients[bob.ID])

	// the superseded like notifications are retired for both directions
	assert.Contains(t, env.notifier.dismissed, [2]uint{alice.ID, bob.ID})
	assert.Contains(t, env.notifier.dismissed, [2]uint{bob.ID, alice.ID})

	// new-match event on both user topics
	for _, id := range []uint{alice.ID, bob.ID} {
		events := env.publisher.events[realtime.UserTopic(id)]
		found := false
		for _, ev := range events {
			if ev.Type == realtime.EventNewMatch {
				found = true
			}
		}
		assert.True(t, found, "user %d missing new-match event", id)
	}
}

func TestMatchDismissesPendingLikeNotification(t *testing.T) {
	env := newTestEnv(t)
	// real gateway wired in so the like notification is actually persisted
	gateway := NewNotificationService(env.notifications, env.users, nil, env.publisher)
	svc := NewMatchService(env.interactions, env.matches, env.users, env.archive, gateway, env.publisher)
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")

	_, err := svc.Like(alice.ID, bob.ID)
	require.NoError(t, err)
	var pending int64
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("type = ? AND read_at IS NULL", domain.NotifLike).Count(&pending).Error)
	require.EqualValues(t, 1, pending, "the one-sided like notifies the target")

	res, err := svc.Like(bob.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, res.Matched)

	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("type = ? AND read_at IS NULL", domain.NotifLike).Count(&pending).Error)
	assert.EqualValues(t, 0, pending, "the match supersedes the pending like")

	// the match notifications themselves are untouched
	var matchNotifs int64
	require.NoError(t, env.db.Model(&models.Notification{}).
		Where("type = ?", domain.NotifMatch).Count(&matchNotifs).Error)
	assert.EqualValues(t, 2, matchNotifs)
}

func TestSuperlikeBacksMatch(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")

	_, err := svc.Superlike(alice.ID, bob.ID)
	require.NoError(t, err)
	res, err := svc.Like(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, res.Matched)
}

func TestPassNeverMatches(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")

	_, err := svc.Pass(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, env.notifier.notifications, "a pass is silent")

	// reciprocal like against a pass stays one-sided
	res, err := svc.Like(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, res.Matched)

	var count int64
	require.NoError(t, env.db.Model(&models.Match{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestReactGuards(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")

	_, err := svc.Like(alice.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Like(alice.ID, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Like(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Like(alice.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	// changing the kind does not bypass the pair guard
	_, err = svc.Pass(alice.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUnlikeDeactivatesMatchAndFreesPairKey(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	match := env.mutualMatch(t, svc, alice.ID, bob.ID)

	var aliceLike models.Interaction
	require.NoError(t, env.db.Where("from_user_id = ? AND to_user_id = ?", alice.ID, bob.ID).First(&aliceLike).Error)
	require.NoError(t, svc.Unlike(alice.ID, aliceLike.ID))

	reloaded, err := env.matches.GetByID(match.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)
	assert.Nil(t, reloaded.PairKey, "retired match must release the pair key")

	// alice can like again; bob's like still stands, so a fresh match forms
	res, err := svc.Like(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.NotEqual(t, match.ID, res.Match.ID)

	var active int64
	require.NoError(t, env.db.Model(&models.Match{}).Where("is_active = ?", true).Count(&active).Error)
	assert.EqualValues(t, 1, active)
}

func TestListInteractions(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	carol := seedUser(t, env.db, "Carol")

	_, err := svc.Like(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.Pass(alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = svc.Like(bob.ID, alice.ID)
	require.NoError(t, err)

	mine, err := svc.ListInteractions(alice.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, mine, 2, "only the actor's outgoing interactions")
	for _, i := range mine {
		assert.Equal(t, alice.ID, i.FromUserID)
	}
}

func TestUnlikeOwnership(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")

	res, err := svc.Like(alice.ID, bob.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Unlike(bob.ID, res.Interaction.ID), domain.ErrForbidden)
	assert.ErrorIs(t, svc.Unlike(alice.ID, 9999), domain.ErrNotFound)
}

func TestUnmatchDeletesBothInteractions(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	match := env.mutualMatch(t, svc, alice.ID, bob.ID)

	require.NoError(t, svc.Unmatch(bob.ID, match.ID))

	reloaded, err := env.matches.GetByID(match.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive, "unmatch keeps the row as history")

	var interactions int64
	require.NoError(t, env.db.Model(&models.Interaction{}).Count(&interactions).Error)
	assert.EqualValues(t, 0, interactions, "both directions removed so either side can re-interact")

	// a full fresh cycle is possible
	env.mutualMatch(t, svc, alice.ID, bob.ID)
}

func TestUnmatchRequiresParty(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	eve := seedUser(t, env.db, "Eve")
	match := env.mutualMatch(t, svc, alice.ID, bob.ID)

	assert.ErrorIs(t, svc.Unmatch(eve.ID, match.ID), domain.ErrForbidden)
	assert.ErrorIs(t, svc.Unmatch(alice.ID, 9999), domain.ErrNotFound)
}

func TestMatchSurvivesSideChannelFailure(t *testing.T) {
	env := newTestEnv(t)
	env.notifier.fail = true
	env.publisher.fail = true
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")

	_, err := svc.Like(alice.ID, bob.ID)
	require.NoError(t, err)
	res, err := svc.Like(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, res.Matched, "notification and realtime failures never abort the match")
}

func TestActionsAreArchived(t *testing.T) {
	env := newTestEnv(t)
	svc := env.matchService()
	alice := seedUser(t, env.db, "Alice")
	bob := seedUser(t, env.db, "Bob")
	match := env.mutualMatch(t, svc, alice.ID, bob.ID)
	require.NoError(t, svc.Unmatch(alice.ID, match.ID))

	var entries []models.ActionHistory
	require.NoError(t, env.db.Order("id").Find(&entries).Error)
	var types []string
	for _, e := range entries {
		types = append(types, e.ActionType)
	}
	assert.Equal(t, []string{
		domain.ActionLike,
		domain.ActionLike,
		domain.ActionMatch,
		domain.ActionUnmatch,
	}, types)
	// the unmatch snapshot keeps enough to reconstruct what was lost
	assert.Contains(t, entries[3].OriginalData, "match_id")
}
