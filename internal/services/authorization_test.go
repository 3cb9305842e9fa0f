package services

import (
	"testing"

	"github.com/reportmitra/admin-hub/internal/models"
)

func TestCanViewIssue(t *testing.T) {
	issue := newTestIssue(models.StatusPending)
	issue.Department = "roads"

	tests := []struct {
		name      string
		principal models.Principal
		want      bool
	}{
		{"same department", models.Principal{UserID: "100001", Department: "roads"}, true},
		{"other department", models.Principal{UserID: "100002", Department: "water"}, false},
		{"root outside department", models.Principal{UserID: "000001", Department: "administration", IsRoot: true}, false},
		{"root inside department", models.Principal{UserID: "000002", Department: "roads", IsRoot: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewIssue(tt.principal, issue); got != tt.want {
				t.Errorf("CanViewIssue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanMutateIssue(t *testing.T) {
	issue := newTestIssue(models.StatusPending)
	issue.Department = "roads"

	tests := []struct {
		name      string
		principal models.Principal
		want      bool
	}{
		{"same department", models.Principal{UserID: "100001", Department: "roads"}, true},
		{"other department", models.Principal{UserID: "100002", Department: "water"}, false},
		{"root outside department", models.Principal{UserID: "000001", Department: "administration", IsRoot: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMutateIssue(tt.principal, issue); got != tt.want {
				t.Errorf("CanMutateIssue() = %v, want %v", got, tt.want)
			}
		})
	}
}
