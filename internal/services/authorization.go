package services

import (
	"errors"

	"github.com/reportmitra/admin-hub/internal/models"
)

// ErrAccessDenied means the principal may not see or touch the issue.
// Department mismatch on reads is reported as access denied rather than
// masked as not-found: this backend serves trusted internal staff, and a
// clear "wrong department" beats a misleading 404.
var ErrAccessDenied = errors.New("access denied")

// CanViewIssue reports whether the principal may read the issue.
// Reads are strictly department-scoped; even root does not browse other
// departments' queues through the regular views.
func CanViewIssue(p models.Principal, issue *models.Issue) bool {
	return p.Department == issue.Department
}

// CanMutateIssue reports whether the principal may change the issue.
// Mutations are department-scoped, with root allowed to act across
// departments.
func CanMutateIssue(p models.Principal, issue *models.Issue) bool {
	return p.Department == issue.Department || p.IsRoot
}
