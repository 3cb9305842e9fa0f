package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/reportmitra/admin-hub/internal/models"
)

// ErrUserIDExists is returned when creating an account with a userid that is
// already taken.
var ErrUserIDExists = errors.New("an account with this userid already exists")

// UserRepository defines the interface for staff account database operations.
type UserRepository interface {
	Create(user *models.User) (*models.User, error)
	FindByUserID(userID string) (*models.User, error)
	List() ([]models.User, error)
	// Delete soft-deletes the account.
	Delete(userID string) error
	SetActive(userID string, active bool) error
}

// gormUserRepository is the GORM implementation of UserRepository.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new gormUserRepository instance.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create inserts a new staff account.
func (r *gormUserRepository) Create(user *models.User) (*models.User, error) {
	var existing models.User
	if err := r.db.Where("userid = ?", user.UserID).First(&existing).Error; err == nil {
		return nil, ErrUserIDExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.Create(user).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate key") {
			return nil, ErrUserIDExists
		}
		return nil, err
	}
	return user, nil
}

// FindByUserID retrieves an account by its login identifier.
func (r *gormUserRepository) FindByUserID(userID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("userid = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all accounts, newest first.
func (r *gormUserRepository) List() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Delete soft-deletes the account with the given userid.
func (r *gormUserRepository) Delete(userID string) error {
	tx := r.db.Where("userid = ?", userID).Delete(&models.User{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetActive flips the account's active flag.
func (r *gormUserRepository) SetActive(userID string, active bool) error {
	tx := r.db.Model(&models.User{}).Where("userid = ?", userID).Update("is_active", active)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
