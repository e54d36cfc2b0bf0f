package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"emberly/internal/domain"
	"emberly/internal/models"
	"emberly/internal/realtime"
	"emberly/internal/repository"

	"gorm.io/gorm"
)

// MatchService owns the interaction/match lifecycle: one-directional
// like/superlike/pass actions, mutual-match detection, and the unwind paths
// (unlike, unmatch).
type MatchService struct {
	interactions *repository.InteractionRepository
	matches      *repository.MatchRepository
	users        *repository.UserRepository
	archive      *repository.ActionHistoryRepository
	notifier     Notifier
	publisher    realtime.Publisher
}

func NewMatchService(
	interactions *repository.InteractionRepository,
	matches *repository.MatchRepository,
	users *repository.UserRepository,
	archive *repository.ActionHistoryRepository,
	notifier Notifier,
	publisher realtime.Publisher,
) *MatchService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	return &MatchService{
		interactions: interactions,
		matches:      matches,
		users:        users,
		archive:      archive,
		notifier:     notifier,
		publisher:    publisher,
	}
}

// InteractionResult reports the outcome of a like-family action, including
// whether a mutual match resulted.
type InteractionResult struct {
	Interaction *models.Interaction `json:"interaction"`
	Matched     bool                `json:"matched"`
	Match       *models.Match       `json:"match,omitempty"`
	TargetUser  *models.User        `json:"target_user,omitempty"`
}

func (s *MatchService) Like(actorID, targetID uint) (*InteractionResult, error) {
	return s.react(actorID, targetID, domain.KindLike)
}

func (s *MatchService) Superlike(actorID, targetID uint) (*InteractionResult, error) {
	return s.react(actorID, targetID, domain.KindSuperlike)
}

// Pass records one-directional disinterest. Same conflict guard as like, no
// match detection.
func (s *MatchService) Pass(actorID, targetID uint) (*InteractionResult, error) {
	return s.react(actorID, targetID, domain.KindPass)
}

func (s *MatchService) react(actorID, targetID uint, kind string) (*InteractionResult, error) {
	if actorID == targetID {
		return nil, fmt.Errorf("%w: cannot interact with yourself", domain.ErrValidation)
	}
	target, err := s.users.GetByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, targetID)
		}
		return nil, err
	}

	// Idempotency guard: one interaction per ordered pair. A user must
	// retract (unlike/unblock) before re-interacting.
	existing, err := s.interactions.GetByPair(actorID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: interaction already exists", domain.ErrConflict)
	}

	interaction := &models.Interaction{FromUserID: actorID, ToUserID: targetID, Kind: kind}
	if err := s.interactions.Create(interaction); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: interaction already exists", domain.ErrConflict)
		}
		return nil, err
	}
	s.archiveAction(kind, actorID, &targetID, interaction, "")

	result := &InteractionResult{Interaction: interaction, TargetUser: target}
	if kind == domain.KindPass {
		return result, nil
	}

	reciprocal, err := s.interactions.GetByPair(targetID, actorID)
	if err != nil {
		return nil, err
	}
	if reciprocal == nil || !domain.IsPositive(reciprocal.Kind) {
		// One-sided interest so far: a single gated like notification to the
		// target only.
		actor, aerr := s.users.GetByID(actorID)
		if aerr == nil {
			s.notify(&models.Notification{
				UserID:        targetID,
				Type:          domain.NotifLike,
				Title:         "Someone likes you",
				Body:          actor.DisplayName() + " liked your profile",
				Avatar:        actor.AvatarURL,
				RelatedUserID: &actorID,
			})
		}
		return result, nil
	}

	match, created, err := s.createMatch(actorID, targetID)
	if err != nil {
		return nil, err
	}
	result.Matched = true
	result.Match = match
	if created {
		s.announceMatch(match)
	}
	return result, nil
}

// createMatch inserts the match guarded by the unique pair key. When two
// near-simultaneous likes race past the pre-check, the loser's insert hits a
// duplicate key and is treated as a no-op success, never an error.
func (s *MatchService) createMatch(a, b uint) (*models.Match, bool, error) {
	pairKey := models.PairKeyFor(a, b)
	if existing, err := s.matches.GetActiveByPairKey(pairKey); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	match := &models.Match{
		UserAID:      a,
		UserBID:      b,
		PairKey:      &pairKey,
		MatchedAt:    time.Now(),
		UnreadCounts: models.UnreadCounts{},
		IsActive:     true,
	}
	if err := s.matches.Create(match); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lerr := s.matches.GetActiveByPairKey(pairKey)
			if lerr != nil || existing == nil {
				return nil, false, fmt.Errorf("match collision for pair %s: %w", pairKey, err)
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	s.archiveAction(domain.ActionMatch, a, &b, match, "")
	return match, true, nil
}

// announceMatch emits the gated match notifications (one per participant)
// and the realtime events. All best-effort.
func (s *MatchService) announceMatch(match *models.Match) {
	userA, errA := s.users.GetByID(match.UserAID)
	userB, errB := s.users.GetByID(match.UserBID)
	if errA != nil || errB != nil {
		log.Printf("[match] profile lookup failed for match %d: %v %v", match.ID, errA, errB)
		return
	}
	pairs := []struct {
		recipient *models.User
		other     *models.User
	}{
		{userA, userB},
		{userB, userA},
	}
	for _, p := range pairs {
		otherID := p.other.ID
		s.dismissLikes(p.recipient.ID, otherID)
		s.notify(&models.Notification{
			UserID:         p.recipient.ID,
			Type:           domain.NotifMatch,
			Title:          "It's a match!",
			Body:           "You and " + p.other.DisplayName() + " liked each other",
			Avatar:         p.other.AvatarURL,
			RelatedUserID:  &otherID,
			RelatedMatchID: &match.ID,
		})
		event := realtime.NewEvent(realtime.EventNewMatch, map[string]interface{}{
			"match_id":   match.ID,
			"matched_at": match.MatchedAt,
			"other_user": p.other,
		})
		if err := s.publisher.Publish(realtime.UserTopic(p.recipient.ID), event); err != nil {
			log.Printf("[match] realtime publish failed for user %d: %v", p.recipient.ID, err)
		}
	}
}

// ListInteractions returns the actor's outgoing interactions, newest first.
func (s *MatchService) ListInteractions(actorID uint, limit, offset int) ([]models.Interaction, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.interactions.ListByFromUser(actorID, limit, offset)
}

// Unlike retracts an interaction the actor created. A match, once formed, is
// a durable social fact; retracting the interest backing it deactivates the
// match to read-only history rather than erasing it.
func (s *MatchService) Unlike(actorID, interactionID uint) error {
	interaction, err := s.interactions.GetByID(interactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: interaction %d", domain.ErrNotFound, interactionID)
		}
		return err
	}
	if interaction.FromUserID != actorID {
		return fmt.Errorf("%w: not your interaction", domain.ErrForbidden)
	}
	if err := s.interactions.Delete(interaction.ID); err != nil {
		return err
	}
	s.archiveAction(domain.ActionUnlike, actorID, &interaction.ToUserID, interaction, "")

	pairKey := models.PairKeyFor(interaction.FromUserID, interaction.ToUserID)
	match, err := s.matches.GetActiveByPairKey(pairKey)
	if err != nil {
		return err
	}
	if match != nil {
		if err := s.matches.Deactivate(match); err != nil {
			return err
		}
	}
	return nil
}

// Unmatch deactivates the match and deletes both interaction directions so
// either party may independently re-interact later.
func (s *MatchService) Unmatch(actorID, matchID uint) error {
	match, err := s.matches.GetByID(matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: match %d", domain.ErrNotFound, matchID)
		}
		return err
	}
	if !match.HasUser(actorID) {
		return fmt.Errorf("%w: not a party to this match", domain.ErrForbidden)
	}
	targetID := match.OtherUser(actorID)
	s.archiveAction(domain.ActionUnmatch, actorID, &targetID, map[string]interface{}{
		"match_id":        match.ID,
		"matched_at":      match.MatchedAt,
		"last_message":    match.LastMessage,
		"last_message_at": match.LastMessageAt,
	}, "")
	if match.IsActive {
		if err := s.matches.Deactivate(match); err != nil {
			return err
		}
	}
	return s.interactions.DeletePair(match.UserAID, match.UserBID)
}

// dismissLikes retires the like notification the match supersedes. Best
// effort like every other side channel.
func (s *MatchService) dismissLikes(recipientID, fromUserID uint) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.DismissLikes(recipientID, fromUserID); err != nil {
		log.Printf("[match] like dismissal failed for user %d: %v", recipientID, err)
	}
}

func (s *MatchService) notify(n *models.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(n); err != nil {
		log.Printf("[match] notification failed for user %d: %v", n.UserID, err)
	}
}

func (s *MatchService) archiveAction(actionType string, userID uint, targetID *uint, snapshot interface{}, reason string) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Append(actionType, userID, targetID, snapshot, reason); err != nil {
		log.Printf("[archive] %s by user %d failed: %v", actionType, userID, err)
	}
}
