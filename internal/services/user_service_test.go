package services

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/reportmitra/admin-hub/internal/models"
	"github.com/reportmitra/admin-hub/pkg/utils"
)

type fakeUserRepo struct {
	users map[string]*models.User

	created   *models.User
	createErr error

	deleted   []string
	setActive map[string]bool
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*models.User{}, setActive: map[string]bool{}}
	for _, u := range users {
		repo.users[u.UserID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(user *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = user
	return user, nil
}

func (f *fakeUserRepo) FindByUserID(userID string) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) List() ([]models.User, error) { return nil, nil }

func (f *fakeUserRepo) Delete(userID string) error {
	if _, ok := f.users[userID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.deleted = append(f.deleted, userID)
	return nil
}

func (f *fakeUserRepo) SetActive(userID string, active bool) error {
	f.setActive[userID] = active
	return nil
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeUserRepo(
		&models.User{UserID: "100001", PasswordHash: hashFor(t, "correct-horse"), Department: "roads", IsActive: true},
		&models.User{UserID: "100002", PasswordHash: hashFor(t, "secret-pass"), Department: "water", IsActive: false},
	)
	svc := NewUserService(repo, &spyActivity{})

	t.Run("valid credentials", func(t *testing.T) {
		user, err := svc.Authenticate("100001", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate() error: %v", err)
		}
		if user.Department != "roads" {
			t.Errorf("department = %q, want roads", user.Department)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("100001", "wrong")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown userid", func(t *testing.T) {
		_, err := svc.Authenticate("999999", "whatever")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("deactivated account with valid password", func(t *testing.T) {
		_, err := svc.Authenticate("100002", "secret-pass")
		if !errors.Is(err, ErrAccountDeactivated) {
			t.Errorf("error = %v, want ErrAccountDeactivated", err)
		}
	})
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), &spyActivity{})
	actor := models.Principal{UserID: "000001", IsRoot: true}

	tests := []struct {
		name    string
		input   CreateUserInput
		wantErr error
	}{
		{"bad userid", CreateUserInput{UserID: "abc", Password: "longenough", Department: "roads"}, utils.ErrInvalidUserIDFormat},
		{"bad email", CreateUserInput{UserID: "100003", Password: "longenough", Email: "not-an-email", Department: "roads"}, utils.ErrInvalidEmailFormat},
		{"short password", CreateUserInput{UserID: "100003", Password: "short", Department: "roads"}, ErrPasswordTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(tt.input, actor, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateUser() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	activity := &spyActivity{}
	svc := NewUserService(repo, activity)
	actor := models.Principal{UserID: "000001", IsRoot: true}

	user, err := svc.CreateUser(CreateUserInput{
		UserID:     "100003",
		Password:   "longenough",
		FullName:   "Asha Verma",
		Email:      "asha@reportmitra.in",
		Department: "sanitation",
	}, actor, "10.0.0.1")
	if err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	if user.PasswordHash == "longenough" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if !user.IsActive {
		t.Error("new accounts should start active")
	}
	if len(activity.actions) != 1 || activity.actions[0] != models.ActionCreate {
		t.Errorf("activity actions = %v", activity.actions)
	}
}

func TestDeleteUserProtectsRoot(t *testing.T) {
	repo := newFakeUserRepo(
		&models.User{UserID: "000001", IsRoot: true, IsActive: true},
		&models.User{UserID: "100001", IsActive: true},
	)
	svc := NewUserService(repo, &spyActivity{})
	actor := models.Principal{UserID: "000001", IsRoot: true}

	if err := svc.DeleteUser("000001", actor, ""); !errors.Is(err, ErrCannotModifyRoot) {
		t.Errorf("DeleteUser(root) error = %v, want ErrCannotModifyRoot", err)
	}
	if err := svc.DeleteUser("100001", actor, ""); err != nil {
		t.Errorf("DeleteUser() error: %v", err)
	}
	if err := svc.DeleteUser("999999", actor, ""); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("DeleteUser(missing) error = %v, want ErrUserNotFound", err)
	}
}

func TestToggleUserActive(t *testing.T) {
	repo := newFakeUserRepo(
		&models.User{UserID: "000001", IsRoot: true, IsActive: true},
		&models.User{UserID: "100001", IsActive: true},
		&models.User{UserID: "100002", IsActive: false},
	)
	activity := &spyActivity{}
	svc := NewUserService(repo, activity)
	actor := models.Principal{UserID: "000001", IsRoot: true}

	if _, err := svc.ToggleUserActive("000001", actor, ""); !errors.Is(err, ErrCannotModifyRoot) {
		t.Errorf("ToggleUserActive(root) error = %v, want ErrCannotModifyRoot", err)
	}

	active, err := svc.ToggleUserActive("100001", actor, "")
	if err != nil {
		t.Fatalf("ToggleUserActive() error: %v", err)
	}
	if active {
		t.Error("active account should toggle to inactive")
	}
	if got := repo.setActive["100001"]; got {
		t.Error("repo not asked to deactivate")
	}

	active, err = svc.ToggleUserActive("100002", actor, "")
	if err != nil {
		t.Fatalf("ToggleUserActive() error: %v", err)
	}
	if !active {
		t.Error("inactive account should toggle to active")
	}
	if got := activity.actions; len(got) != 2 || got[0] != models.ActionDeactivate || got[1] != models.ActionActivate {
		t.Errorf("activity actions = %v", got)
	}
}
