package models

import (
	"time"
)

// Audit actions recorded in the activity log. Account actions come from the
// account-management endpoints, login/logout from the auth endpoints, and
// status_change/resolve from the issue workflow.
const (
	ActionCreate       = "create"
	ActionDelete       = "delete"
	ActionActivate     = "activate"
	ActionDeactivate   = "deactivate"
	ActionLogin        = "login"
	ActionLogout       = "logout"
	ActionStatusChange = "status_change"
	ActionResolve      = "resolve"
)

// ActivityLog maps the activity_logs table, an append-only audit trail.
// PerformedBy is the acting user's userid; Target is the userid or issue
// tracking id the action applied to.
type ActivityLog struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PerformedBy string    `json:"performedBy" gorm:"column:performed_by;size:6;index"`
	Target      string    `json:"target" gorm:"column:target;size:32"`
	Action      string    `json:"action" gorm:"column:action;not null;size:20"`
	Details     string    `json:"details,omitempty" gorm:"column:details;type:text"`
	IPAddress   string    `json:"ipAddress,omitempty" gorm:"column:ip_address;size:45"`
	Timestamp   time.Time `json:"timestamp" gorm:"column:timestamp;not null;autoCreateTime;index"`
}

// TableName specifies the database table for ActivityLog.
func (ActivityLog) TableName() string {
	return "activity_logs"
}
