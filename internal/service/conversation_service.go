package service

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"emberly/internal/domain"
	"emberly/internal/models"
	"emberly/internal/realtime"
	"emberly/internal/repository"

	"gorm.io/gorm"
)

const previewMessageCount = 3

// ConversationService owns per-match messaging: ordered delivery, per-user
// soft delete, read-state transitions and unread bookkeeping.
type ConversationService struct {
	matches   *repository.MatchRepository
	messages  *repository.MessageRepository
	users     *repository.UserRepository
	notifier  Notifier
	publisher realtime.Publisher
}

func NewConversationService(
	matches *repository.MatchRepository,
	messages *repository.MessageRepository,
	users *repository.UserRepository,
	notifier Notifier,
	publisher realtime.Publisher,
) *ConversationService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	return &ConversationService{
		matches:   matches,
		messages:  messages,
		users:     users,
		notifier:  notifier,
		publisher: publisher,
	}
}

// SendMessage appends a message to an active match the actor belongs to,
// bumps the recipient's unread counter and the match's last-message fields,
// and publishes to the match topic unconditionally - notification gating
// only controls the separate notification record.
func (s *ConversationService) SendMessage(actorID, matchID uint, content, mediaURL string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" && mediaURL == "" {
		return nil, fmt.Errorf("%w: message content is empty", domain.ErrValidation)
	}
	match, err := s.matches.GetByID(matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: match %d", domain.ErrNotFound, matchID)
		}
		return nil, err
	}
	if !match.HasUser(actorID) || !match.IsActive {
		return nil, fmt.Errorf("%w: no active match", domain.ErrNotFound)
	}

	// Count before insert: only the first message from this sender in this
	// match emits a notification, so an active back-and-forth is not spammed.
	priorFromSender, err := s.messages.CountBySender(matchID, actorID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		MatchID:   matchID,
		SenderID:  actorID,
		Content:   content,
		MediaURL:  mediaURL,
		DeletedBy: models.UserIDSet{},
	}
	if err := s.messages.Create(msg); err != nil {
		return nil, err
	}

	recipientID := match.OtherUser(actorID)
	now := time.Now()
	preview := content
	if preview == "" {
		preview = "Photo"
	}
	match.LastMessage = preview
	match.LastMessageAt = &now
	match.LastMessageSenderID = &actorID
	if match.UnreadCounts == nil {
		match.UnreadCounts = models.UnreadCounts{}
	}
	match.UnreadCounts[recipientID]++
	if err := s.matches.Save(match); err != nil {
		return nil, err
	}

	if priorFromSender == 0 {
		if sender, serr := s.users.GetByID(actorID); serr == nil {
			s.notify(&models.Notification{
				UserID:         recipientID,
				Type:           domain.NotifMessage,
				Title:          sender.DisplayName(),
				Body:           preview,
				Avatar:         sender.AvatarURL,
				RelatedUserID:  &actorID,
				RelatedMatchID: &matchID,
			})
		}
	}

	if err := s.publisher.Publish(realtime.MatchTopic(matchID), realtime.NewEvent(realtime.EventNewMessage, msg)); err != nil {
		log.Printf("[chat] realtime publish failed for match %d: %v", matchID, err)
	}
	update := realtime.NewEvent(realtime.EventConversationUpdate, map[string]interface{}{
		"match_id":        matchID,
		"last_message":    preview,
		"last_message_at": now,
		"unread_count":    match.UnreadCounts[recipientID],
	})
	if err := s.publisher.Publish(realtime.UserTopic(recipientID), update); err != nil {
		log.Printf("[chat] conversation update publish failed for user %d: %v", recipientID, err)
	}
	return msg, nil
}

// GetMessages returns the actor's view of a conversation in creation order.
// Reading is itself the read-state transition: messages from the other
// participant are marked read and the actor's unread counter resets to zero.
func (s *ConversationService) GetMessages(actorID, matchID uint) ([]models.Message, error) {
	match, err := s.matches.GetByID(matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: match %d", domain.ErrNotFound, matchID)
		}
		return nil, err
	}
	if !match.HasUser(actorID) {
		return nil, fmt.Errorf("%w: not a party to this match", domain.ErrForbidden)
	}

	if err := s.messages.MarkReadForRecipient(matchID, actorID); err != nil {
		return nil, err
	}
	if match.UnreadCounts[actorID] != 0 {
		match.UnreadCounts[actorID] = 0
		if err := s.matches.Save(match); err != nil {
			return nil, err
		}
	}

	all, err := s.messages.ListByMatch(matchID)
	if err != nil {
		return nil, err
	}
	visible := make([]models.Message, 0, len(all))
	for _, m := range all {
		if m.DeletedBy.Contains(actorID) {
			continue
		}
		visible = append(visible, m)
	}
	return visible, nil
}

// DeleteConversation soft-deletes the conversation for the actor only: every
// message gains the actor's id in deleted_by. The other participant's view
// and the match itself are untouched.
func (s *ConversationService) DeleteConversation(actorID, matchID uint) error {
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
	all, err := s.messages.ListByMatch(matchID)
	if err != nil {
		return err
	}
	for i := range all {
		if all[i].DeletedBy.Contains(actorID) {
			continue
		}
		all[i].DeletedBy = all[i].DeletedBy.Add(actorID)
		if err := s.messages.Save(&all[i]); err != nil {
			return err
		}
	}
	return nil
}

// ConversationSummary is one row of the conversation list.
type ConversationSummary struct {
	Match       models.Match     `json:"match"`
	OtherUser   *models.User     `json:"other_user,omitempty"`
	UnreadCount int              `json:"unread_count"`
	Preview     []models.Message `json:"preview"`
}

// ListConversations returns one row per match containing the actor, active
// or not, with the newest non-deleted messages as preview. Conversations
// with at least one message sort first by last activity; empty matches sort
// last by match recency.
func (s *ConversationService) ListConversations(actorID uint) ([]ConversationSummary, error) {
	matches, err := s.matches.ListByUser(actorID)
	if err != nil {
		return nil, err
	}
	summaries := make([]ConversationSummary, 0, len(matches))
	for _, match := range matches {
		// per-user deletion only ever covers a prefix of the conversation,
		// so filtering the newest rows is exact
		recent, err := s.messages.ListRecentByMatch(match.ID, previewMessageCount)
		if err != nil {
			return nil, err
		}
		preview := make([]models.Message, 0, len(recent))
		for _, m := range recent {
			if m.DeletedBy.Contains(actorID) {
				continue
			}
			preview = append(preview, m)
		}
		other, err := s.users.GetByID(match.OtherUser(actorID))
		if err != nil {
			other = nil
		}
		summaries = append(summaries, ConversationSummary{
			Match:       match,
			OtherUser:   other,
			UnreadCount: match.UnreadCounts[actorID],
			Preview:     preview,
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].Match, summaries[j].Match
		switch {
		case a.LastMessageAt != nil && b.LastMessageAt != nil:
			return a.LastMessageAt.After(*b.LastMessageAt)
		case a.LastMessageAt != nil:
			return true
		case b.LastMessageAt != nil:
			return false
		default:
			return a.MatchedAt.After(b.MatchedAt)
		}
	})
	return summaries, nil
}

func (s *ConversationService) notify(n *models.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(n); err != nil {
		log.Printf("[chat] notification failed for user %d: %v", n.UserID, err)
	}
}
