package models

import (
	"time"
)

// IssueStatus is the lifecycle status of a reported issue.
type IssueStatus string

const (
	StatusPending    IssueStatus = "pending"
	StatusInProgress IssueStatus = "in_progress"
	StatusEscalated  IssueStatus = "escalated"
	StatusResolved   IssueStatus = "resolved"
)

// IsValidIssueStatus reports whether s is one of the known lifecycle statuses.
func IsValidIssueStatus(s string) bool {
	switch IssueStatus(s) {
	case StatusPending, StatusInProgress, StatusEscalated, StatusResolved:
		return true
	}
	return false
}

// Issue maps the issue_reports table. Rows are created by the citizen-facing
// intake system; this backend only reads and mutates them, it never creates
// or deletes issues.
//
// ImageURL and CompletionURL hold either a raw S3 object key (internal
// writes) or a full bucket URL (legacy/external writes). They must only be
// interpreted through the storage signer's NormalizeKey.
type Issue struct {
	ID              int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	TrackingID      string      `json:"trackingId" gorm:"column:tracking_id;unique;size:32"`
	Title           string      `json:"title" gorm:"column:issue_title;not null;size:255"`
	Description     string      `json:"description" gorm:"column:issue_description;type:text"`
	Location        string      `json:"location" gorm:"column:location;size:255"`
	Department      string      `json:"department" gorm:"column:department;size:255;index"`
	Status          IssueStatus `json:"status" gorm:"column:status;not null;default:'pending';size:50"`
	AllocatedTo     *string     `json:"allocatedTo,omitempty" gorm:"column:allocated_to;size:255"` // userid of the staff member working the issue
	ImageURL        *string     `json:"imageUrl,omitempty" gorm:"column:image_url;size:1000"`
	CompletionURL   *string     `json:"completionUrl,omitempty" gorm:"column:completion_url;size:1000"`
	ConfidenceScore *int        `json:"confidenceScore,omitempty" gorm:"column:confidence_score"`
	IssueDate       time.Time   `json:"issueDate" gorm:"column:issue_date;not null"`
	UpdatedAt       time.Time   `json:"updatedAt" gorm:"column:updated_at;not null"`
}

// TableName specifies the database table for Issue.
func (Issue) TableName() string {
	return "issue_reports"
}

// Principal is the authenticated actor executing an operation, as extracted
// from the JWT by the auth middleware. Immutable for the duration of one
// request.
type Principal struct {
	UserID     string
	Department string
	IsRoot     bool
}
