package repositories

import (
	"gorm.io/gorm"

	"github.com/reportmitra/admin-hub/internal/models"
)

// ActivityLogRepository defines the interface for the append-only audit
// trail. Entries are never updated or deleted.
type ActivityLogRepository interface {
	Create(entry *models.ActivityLog) error
	// List returns up to limit entries, newest first.
	List(limit int) ([]models.ActivityLog, error)
}

// gormActivityLogRepository is the GORM implementation of ActivityLogRepository.
type gormActivityLogRepository struct {
	db *gorm.DB
}

// NewGormActivityLogRepository creates a new gormActivityLogRepository instance.
func NewGormActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &gormActivityLogRepository{db: db}
}

// Create appends an audit entry.
func (r *gormActivityLogRepository) Create(entry *models.ActivityLog) error {
	return r.db.Create(entry).Error
}

// List retrieves recent audit entries, newest first.
func (r *gormActivityLogRepository) List(limit int) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	query := r.db.Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
