package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/reportmitra/admin-hub/internal/models"
)

// ErrRecordNotFound is returned when a lookup matches no row.
var ErrRecordNotFound = gorm.ErrRecordNotFound

// ErrStaleIssueStatus is returned when a compare-and-set update finds that
// the issue's status changed between read and write.
var ErrStaleIssueStatus = errors.New("issue status changed concurrently")

// IssueRepository defines the interface for issue database operations.
// Issues are created by the citizen intake system, so there is no Create.
type IssueRepository interface {
	FindByTrackingID(trackingID string) (*models.Issue, error)
	// List returns the department's issues with any of the given statuses,
	// newest report first.
	List(department string, statuses []models.IssueStatus) ([]models.Issue, error)
	// UpdateFromStatus writes the given columns only if the row's status
	// still equals expectedStatus, returning ErrStaleIssueStatus otherwise.
	// Two racing transitions validated against the same stale status would
	// both pass the state machine; the second one must lose here.
	UpdateFromStatus(issueID int64, expectedStatus models.IssueStatus, updates map[string]interface{}) error
}

// gormIssueRepository is the GORM implementation of IssueRepository.
type gormIssueRepository struct {
	db *gorm.DB
}

// NewGormIssueRepository creates a new gormIssueRepository instance.
func NewGormIssueRepository(db *gorm.DB) IssueRepository {
	return &gormIssueRepository{db: db}
}

// FindByTrackingID retrieves a single issue by its external tracking id.
func (r *gormIssueRepository) FindByTrackingID(trackingID string) (*models.Issue, error) {
	var issue models.Issue
	if err := r.db.Where("tracking_id = ?", trackingID).First(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// List retrieves the department's issues filtered by status, ordered by
// report date descending.
func (r *gormIssueRepository) List(department string, statuses []models.IssueStatus) ([]models.Issue, error) {
	var issues []models.Issue
	query := r.db.Where("department = ?", department)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Order("issue_date DESC").Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// UpdateFromStatus performs the optimistic status-guarded update.
func (r *gormIssueRepository) UpdateFromStatus(issueID int64, expectedStatus models.IssueStatus, updates map[string]interface{}) error {
	tx := r.db.Model(&models.Issue{}).
		Where("id = ? AND status = ?", issueID, expectedStatus).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrStaleIssueStatus
	}
	return nil
}
