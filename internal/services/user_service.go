package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/reportmitra/admin-hub/internal/models"
	"github.com/reportmitra/admin-hub/internal/repositories"
	"github.com/reportmitra/admin-hub/pkg/utils"
)

var (
	// ErrUserNotFound means the userid matched no account.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials deliberately does not distinguish a missing
	// account from a wrong password.
	ErrInvalidCredentials = errors.New("invalid userid or password")
	// ErrAccountDeactivated blocks login for accounts a root admin disabled.
	ErrAccountDeactivated = errors.New("your account has been deactivated by the root administrator, please contact your system administrator")
	// ErrCannotModifyRoot protects root accounts from delete/deactivate.
	ErrCannotModifyRoot = errors.New("root accounts cannot be modified")
	// ErrPasswordTooShort is the minimal password policy.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

const minPasswordLength = 8

// CreateUserInput carries the fields for a new staff account.
type CreateUserInput struct {
	UserID     string
	Password   string
	FullName   string
	Email      string
	Department string
	IsRoot     bool
}

// UserService manages staff accounts and credential checks. All mutating
// operations are root-only; that guard lives in the transport layer
// (auth.RequireRoot), mirroring how issue guards live in the issue service.
type UserService interface {
	// Authenticate verifies credentials and the active flag, returning the
	// account on success.
	Authenticate(userID, password string) (*models.User, error)
	CreateUser(input CreateUserInput, actor models.Principal, clientIP string) (*models.User, error)
	ListUsers() ([]models.User, error)
	DeleteUser(userID string, actor models.Principal, clientIP string) error
	// ToggleUserActive flips the active flag and returns the new state.
	ToggleUserActive(userID string, actor models.Principal, clientIP string) (bool, error)
}

type userService struct {
	repo     repositories.UserRepository
	activity ActivityLogService
}

// NewUserService creates a new userService instance.
func NewUserService(repo repositories.UserRepository, activity ActivityLogService) UserService {
	return &userService{repo: repo, activity: activity}
}

func (s *userService) Authenticate(userID, password string) (*models.User, error) {
	user, err := s.repo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}
	return user, nil
}

func (s *userService) CreateUser(input CreateUserInput, actor models.Principal, clientIP string) (*models.User, error) {
	if err := utils.ValidateUserID(input.UserID); err != nil {
		return nil, err
	}
	if !utils.ValidateEmailFormat(input.Email) {
		return nil, utils.ErrInvalidEmailFormat
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:       input.UserID,
		FullName:     input.FullName,
		Email:        input.Email,
		Department:   input.Department,
		PasswordHash: string(hash),
		IsRoot:       input.IsRoot,
		IsActive:     true,
	}

	created, err := s.repo.Create(user)
	if err != nil {
		return nil, err
	}

	s.activity.Record(actor.UserID, created.UserID, models.ActionCreate,
		"account created for department "+created.Department, clientIP)
	return created, nil
}

func (s *userService) ListUsers() ([]models.User, error) {
	return s.repo.List()
}

func (s *userService) DeleteUser(userID string, actor models.Principal, clientIP string) error {
	user, err := s.repo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsRoot {
		return ErrCannotModifyRoot
	}

	if err := s.repo.Delete(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.activity.Record(actor.UserID, userID, models.ActionDelete, "account deleted", clientIP)
	return nil
}

func (s *userService) ToggleUserActive(userID string, actor models.Principal, clientIP string) (bool, error) {
	user, err := s.repo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	if user.IsRoot {
		return false, ErrCannotModifyRoot
	}

	newState := !user.IsActive
	if err := s.repo.SetActive(userID, newState); err != nil {
		return false, err
	}

	action := models.ActionDeactivate
	if newState {
		action = models.ActionActivate
	}
	s.activity.Record(actor.UserID, userID, action, "", clientIP)
	return newState, nil
}
