package services

import (
	"log"

	"github.com/reportmitra/admin-hub/internal/models"
	"github.com/reportmitra/admin-hub/internal/repositories"
)

// ActivityLogService records audit events and serves the root-only audit
// view. Recording is fire-and-forget: a broken audit store must never block
// an account action or an issue workflow, so Record logs failures instead of
// returning them.
type ActivityLogService interface {
	Record(performedBy, target, action, details, ipAddress string)
	ListLogs(limit int) ([]models.ActivityLog, error)
}

type activityLogService struct {
	repo repositories.ActivityLogRepository
}

// NewActivityLogService creates a new activityLogService instance.
func NewActivityLogService(repo repositories.ActivityLogRepository) ActivityLogService {
	return &activityLogService{repo: repo}
}

// Record appends an audit entry, swallowing (but logging) storage failures.
func (s *activityLogService) Record(performedBy, target, action, details, ipAddress string) {
	entry := &models.ActivityLog{
		PerformedBy: performedBy,
		Target:      target,
		Action:      action,
		Details:     details,
		IPAddress:   ipAddress,
	}
	if err := s.repo.Create(entry); err != nil {
		log.Printf("activity log write failed (action=%s target=%s by=%s): %v", action, target, performedBy, err)
	}
}

// ListLogs returns recent audit entries, newest first.
func (s *activityLogService) ListLogs(limit int) ([]models.ActivityLog, error) {
	return s.repo.List(limit)
}
