package service

import (
	"errors"
	"testing"

	"emberly/internal/models"
	"emberly/internal/realtime"
	"emberly/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the same error
// translation the production MySQL connection uses, so duplicate-key
// handling behaves identically.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// in-memory sqlite is per-connection
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Interaction{},
		&models.Match{},
		&models.Message{},
		&models.Notification{},
		&models.NotificationPreference{},
		&models.Block{},
		&models.Report{},
		&models.ActionHistory{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name}
	require.NoError(t, db.Create(u).Error)
	return u
}

// recordingNotifier captures notifications instead of delivering them.
type recordingNotifier struct {
	notifications []*models.Notification
	dismissed     [][2]uint // recipient, liker
	fail          bool
}

func (r *recordingNotifier) Notify(n *models.Notification) error {
	if r.fail {
		return errors.New("notifier down")
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *recordingNotifier) DismissLikes(recipientID, fromUserID uint) error {
	if r.fail {
		return errors.New("notifier down")
	}
	r.dismissed = append(r.dismissed, [2]uint{recipientID, fromUserID})
	return nil
}

func (r *recordingNotifier) byType(notifType string) []*models.Notification {
	var out []*models.Notification
	for _, n := range r.notifications {
		if n.Type == notifType {
			out = append(out, n)
		}
	}
	return out
}

// recordingPublisher captures realtime events per topic.
type recordingPublisher struct {
	events map[string][]realtime.Event
	fail   bool
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{events: make(map[string][]realtime.Event)}
}

func (r *recordingPublisher) Publish(topic string, event realtime.Event) error {
	if r.fail {
		return errors.New("publisher down")
	}
	r.events[topic] = append(r.events[topic], event)
	return nil
}

type testEnv struct {
	db            *gorm.DB
	users         *repository.UserRepository
	interactions  *repository.InteractionRepository
	matches       *repository.MatchRepository
	messages      *repository.MessageRepository
	notifications *repository.NotificationRepository
	blocks        *repository.BlockRepository
	reports       *repository.ReportRepository
	archive       *repository.ActionHistoryRepository
	notifier      *recordingNotifier
	publisher     *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	return &testEnv{
		db:            db,
		users:         repository.NewUserRepository(db),
		interactions:  repository.NewInteractionRepository(db),
		matches:       repository.NewMatchRepository(db),
		messages:      repository.NewMessageRepository(db),
		notifications: repository.NewNotificationRepository(db),
		blocks:        repository.NewBlockRepository(db),
		reports:       repository.NewReportRepository(db),
		archive:       repository.NewActionHistoryRepository(db),
		notifier:      &recordingNotifier{},
		publisher:     newRecordingPublisher(),
	}
}

func (e *testEnv) matchService() *MatchService {
	return NewMatchService(e.interactions, e.matches, e.users, e.archive, e.notifier, e.publisher)
}

func (e *testEnv) conversationService() *ConversationService {
	return NewConversationService(e.matches, e.messages, e.users, e.notifier, e.publisher)
}

func (e *testEnv) safetyService() *SafetyService {
	return NewSafetyService(e.blocks, e.reports, e.interactions, e.matches, e.archive)
}

// mutualMatch likes in both directions and returns the resulting match.
func (e *testEnv) mutualMatch(t *testing.T, svc *MatchService, a, b uint) *models.Match {
	t.Helper()
	_, err := svc.Like(a, b)
	require.NoError(t, err)
	res, err := svc.Like(b, a)
	require.NoError(t, err)
	require.True(t, res.Matched)
	require.NotNil(t, res.Match)
	return res.Match
}
