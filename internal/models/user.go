package models

import (
	"time"

	"gorm.io/gorm"
)

// User maps the users table. UserID is the 6-digit login identifier staff
// use to sign in, distinct from the numeric primary key.
type User struct {
	ID           int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       string         `json:"userId" gorm:"column:userid;unique;not null;size:6"`
	FullName     string         `json:"fullName" gorm:"column:full_name;size:150"`
	Email        string         `json:"email" gorm:"column:email;size:255"`
	Department   string         `json:"department" gorm:"column:department;size:100"`
	PasswordHash string         `json:"-" gorm:"column:password_hash;not null;size:255"` // never exposed through JSON
	IsRoot       bool           `json:"isRoot" gorm:"column:is_root;not null;default:false"`
	IsActive     bool           `json:"isActive" gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time      `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt    time.Time      `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index" swaggertype:"string" format:"date-time"`
}

// TableName specifies the database table for User.
func (User) TableName() string {
	return "users"
}
