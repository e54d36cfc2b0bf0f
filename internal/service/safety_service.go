package service

import (
	"errors"
	"fmt"
	"log"

	"emberly/internal/domain"
	"emberly/internal/models"
	"emberly/internal/repository"

	"gorm.io/gorm"
)

// SafetyService is the trust boundary: blocking and reporting, plus the
// cascade that erases the relationship state between two users. The cascade
// runs without a distributed transaction; every sub-step is a no-op when its
// target is already gone, so a retry after partial failure is safe.
type SafetyService struct {
	blocks       *repository.BlockRepository
	reports      *repository.ReportRepository
	interactions *repository.InteractionRepository
	matches      *repository.MatchRepository
	archive      *repository.ActionHistoryRepository
}

func NewSafetyService(
	blocks *repository.BlockRepository,
	reports *repository.ReportRepository,
	interactions *repository.InteractionRepository,
	matches *repository.MatchRepository,
	archive *repository.ActionHistoryRepository,
) *SafetyService {
	return &SafetyService{
		blocks:       blocks,
		reports:      reports,
		interactions: interactions,
		matches:      matches,
		archive:      archive,
	}
}

// Block records the block then cascades: every match between the pair is
// archived and hard-deleted (a block expresses a stronger revocation intent
// than voluntary unmatch, which only deactivates), and both interaction
// directions are removed.
func (s *SafetyService) Block(actorID, targetID uint) error {
	if actorID == targetID {
		return fmt.Errorf("%w: cannot block yourself", domain.ErrValidation)
	}
	blocked, err := s.blocks.IsBlocked(actorID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return fmt.Errorf("%w: already blocked", domain.ErrConflict)
	}
	if err := s.blocks.Create(&models.Block{BlockerID: actorID, BlockedID: targetID}); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: already blocked", domain.ErrConflict)
		}
		return err
	}
	s.archiveAction(domain.ActionBlock, actorID, &targetID, nil, "")

	matches, err := s.matches.ListByUsers(actorID, targetID)
	if err != nil {
		return err
	}
	for _, match := range matches {
		s.archiveAction(domain.ActionUnmatch, actorID, &targetID, map[string]interface{}{
			"match_id":        match.ID,
			"matched_at":      match.MatchedAt,
			"last_message":    match.LastMessage,
			"last_message_at": match.LastMessageAt,
		}, "blocked")
		if err := s.matches.HardDelete(match.ID); err != nil {
			return err
		}
	}
	return s.interactions.DeletePair(actorID, targetID)
}

// Unblock removes the block. Prior interactions and matches stay gone.
func (s *SafetyService) Unblock(actorID, targetID uint) error {
	rows, err := s.blocks.Delete(actorID, targetID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: not blocked", domain.ErrNotFound)
	}
	s.archiveAction(domain.ActionUnblock, actorID, &targetID, nil, "")
	return nil
}

// Report files a pending report for moderation review. No cascading side
// effects: reporting and blocking are independent actions the client may
// combine.
func (s *SafetyService) Report(actorID, targetID uint, reason, details string) (*models.Report, error) {
	if actorID == targetID {
		return nil, fmt.Errorf("%w: cannot report yourself", domain.ErrValidation)
	}
	report := &models.Report{
		ReporterID: actorID,
		ReportedID: targetID,
		Reason:     reason,
		Details:    details,
		Status:     domain.ReportStatusPending,
	}
	if err := s.reports.Create(report); err != nil {
		return nil, err
	}
	s.archiveAction(domain.ActionReport, actorID, &targetID, map[string]interface{}{
		"report_id": report.ID,
		"reason":    reason,
	}, reason)
	return report, nil
}

func (s *SafetyService) ListBlocked(actorID uint) ([]models.User, error) {
	return s.blocks.ListBlocked(actorID)
}

func (s *SafetyService) archiveAction(actionType string, userID uint, targetID *uint, snapshot interface{}, reason string) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Append(actionType, userID, targetID, snapshot, reason); err != nil {
		log.Printf("[archive] %s by user %d failed: %v", actionType, userID, err)
	}
}
