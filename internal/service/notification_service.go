package service

import (
	"context"
	"log"

	"emberly/internal/domain"
	"emberly/internal/models"
	"emberly/internal/realtime"
	"emberly/internal/repository"
)

// Notifier is the capability the engine services use to emit user-facing
// notifications. It is advisory, not load-bearing: implementations gate on
// recipient preferences and a failure must never abort the caller's primary
// action, so call sites discard the returned error after logging.
type Notifier interface {
	Notify(n *models.Notification) error
	// DismissLikes retires pending like notifications from one user, called
	// when the like is superseded by a match.
	DismissLikes(recipientID, fromUserID uint) error
}

type NotificationService struct {
	repo      *repository.NotificationRepository
	userRepo  *repository.UserRepository
	fcm       *FCMService
	publisher realtime.Publisher
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, fcm *FCMService, publisher realtime.Publisher) *NotificationService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	return &NotificationService{repo: repo, userRepo: userRepo, fcm: fcm, publisher: publisher}
}

// ShouldNotify consults the recipient's preference record. No record or a
// lookup error both mean "enabled" - fail-open, since missing preferences
// must not silently suppress all communication. System notifications are
// never user-suppressible.
func (s *NotificationService) ShouldNotify(userID uint, notifType string) bool {
	if notifType == domain.NotifSystem {
		return true
	}
	prefs, err := s.repo.GetPreferences(userID)
	if err != nil {
		return true
	}
	switch notifType {
	case domain.NotifMatch:
		return prefs.Matches
	case domain.NotifMessage:
		return prefs.Messages
	case domain.NotifLike:
		return prefs.Likes
	case domain.NotifEvent:
		return prefs.Events
	case domain.NotifNews:
		return prefs.AdminNews
	}
	return true
}

// Notify creates the notification record if the recipient's preferences
// allow it, then fans out a realtime event and an FCM push. Suppression by
// preference is a silent success.
func (s *NotificationService) Notify(n *models.Notification) error {
	if !s.ShouldNotify(n.UserID, n.Type) {
		return nil
	}
	if err := s.repo.Create(n); err != nil {
		log.Printf("[notify] create failed for user %d: %v", n.UserID, err)
		return err
	}
	if err := s.publisher.Publish(realtime.UserTopic(n.UserID), realtime.NewEvent(realtime.EventNotification, n)); err != nil {
		log.Printf("[notify] realtime publish failed for user %d: %v", n.UserID, err)
	}
	s.sendPush(n)
	return nil
}

// DismissLikes marks the recipient's unread like notifications from one user
// as read. Once a mutual match exists the match notification supersedes the
// like, so no like must remain pending between the pair.
func (s *NotificationService) DismissLikes(recipientID, fromUserID uint) error {
	likes, err := s.repo.ListByUserAndType(recipientID, domain.NotifLike)
	if err != nil {
		return err
	}
	for _, n := range likes {
		if n.ReadAt != nil || n.RelatedUserID == nil || *n.RelatedUserID != fromUserID {
			continue
		}
		if err := s.repo.MarkRead(n.ID, recipientID); err != nil {
			return err
		}
	}
	return nil
}

func (s *NotificationService) sendPush(n *models.Notification) {
	if s.fcm == nil || s.userRepo == nil {
		return
	}
	u, err := s.userRepo.GetByID(n.UserID)
	if err != nil || u.FCMToken == "" {
		return
	}
	data := map[string]string{"type": n.Type}
	if n.RelatedMatchID != nil {
		data["match_id"] = uintString(*n.RelatedMatchID)
	}
	if n.RelatedUserID != nil {
		data["user_id"] = uintString(*n.RelatedUserID)
	}
	_ = s.fcm.Send(context.Background(), u.FCMToken, n.Title, n.Body, data)
}
