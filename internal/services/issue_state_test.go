package services

import (
	"errors"
	"testing"
	"time"

	"github.com/reportmitra/admin-hub/internal/models"
	"github.com/reportmitra/admin-hub/pkg/storage"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestIssue(status models.IssueStatus) *models.Issue {
	return &models.Issue{
		ID:         1,
		TrackingID: "RM-2025-0001",
		Title:      "Broken streetlight",
		Department: "electricity",
		Status:     status,
		IssueDate:  testNow.Add(-48 * time.Hour),
	}
}

func TestApplyTransitionTable(t *testing.T) {
	actor := models.Principal{UserID: "100001", Department: "electricity"}

	tests := []struct {
		name      string
		from      models.IssueStatus
		requested string
		wantErr   error
	}{
		{"pending to in_progress", models.StatusPending, "in_progress", nil},
		{"pending to escalated", models.StatusPending, "escalated", ErrIllegalTransition},
		{"pending to resolved", models.StatusPending, "resolved", ErrIllegalTransition},
		{"pending to pending", models.StatusPending, "pending", ErrIllegalTransition},
		{"in_progress to escalated", models.StatusInProgress, "escalated", nil},
		{"in_progress to resolved", models.StatusInProgress, "resolved", nil},
		{"in_progress to pending", models.StatusInProgress, "pending", ErrIllegalTransition},
		{"in_progress to in_progress", models.StatusInProgress, "in_progress", ErrIllegalTransition},
		{"escalated to in_progress", models.StatusEscalated, "in_progress", ErrIllegalTransition},
		{"escalated to resolved", models.StatusEscalated, "resolved", ErrIllegalTransition},
		{"resolved to pending", models.StatusResolved, "pending", ErrIllegalTransition},
		{"resolved to in_progress", models.StatusResolved, "in_progress", ErrIllegalTransition},
		{"unknown status", models.StatusPending, "closed", ErrInvalidStatus},
		{"empty status", models.StatusPending, "", ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := newTestIssue(tt.from)
			err := ApplyTransition(issue, tt.requested, actor, testNow)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ApplyTransition() error = %v, want %v", err, tt.wantErr)
				}
				if issue.Status != tt.from {
					t.Errorf("status changed to %s on rejected transition", issue.Status)
				}
				return
			}

			if err != nil {
				t.Fatalf("ApplyTransition() unexpected error: %v", err)
			}
			if issue.Status != models.IssueStatus(tt.requested) {
				t.Errorf("status = %s, want %s", issue.Status, tt.requested)
			}
			if !issue.UpdatedAt.Equal(testNow) {
				t.Errorf("updated_at = %v, want %v", issue.UpdatedAt, testNow)
			}
		})
	}
}

func TestApplyTransitionAllocatesOnStart(t *testing.T) {
	actor := models.Principal{UserID: "100001", Department: "electricity"}
	issue := newTestIssue(models.StatusPending)

	if err := ApplyTransition(issue, "in_progress", actor, testNow); err != nil {
		t.Fatalf("ApplyTransition() error: %v", err)
	}
	if issue.AllocatedTo == nil || *issue.AllocatedTo != "100001" {
		t.Errorf("AllocatedTo = %v, want 100001", issue.AllocatedTo)
	}
}

func TestApplyTransitionKeepsAllocation(t *testing.T) {
	// Escalating must not touch the existing allocation.
	actor := models.Principal{UserID: "100002", Department: "electricity"}
	worker := "100001"
	issue := newTestIssue(models.StatusInProgress)
	issue.AllocatedTo = &worker

	if err := ApplyTransition(issue, "escalated", actor, testNow); err != nil {
		t.Fatalf("ApplyTransition() error: %v", err)
	}
	if issue.AllocatedTo == nil || *issue.AllocatedTo != "100001" {
		t.Errorf("AllocatedTo = %v, want 100001", issue.AllocatedTo)
	}
}

func TestResolveWithEvidence(t *testing.T) {
	tests := []struct {
		name    string
		from    models.IssueStatus
		key     string
		bucket  bool
		wantErr error
	}{
		{"from pending", models.StatusPending, "reports/6/after.jpg", true, nil},
		{"from in_progress", models.StatusInProgress, "reports/6/after.jpg", true, nil},
		{"from escalated", models.StatusEscalated, "reports/6/after.jpg", true, nil},
		{"already resolved", models.StatusResolved, "reports/6/after.jpg", true, ErrAlreadyResolved},
		{"already resolved without key", models.StatusResolved, "", true, ErrAlreadyResolved},
		{"missing key", models.StatusInProgress, "", true, ErrCompletionKeyRequired},
		{"blank key", models.StatusInProgress, "   ", true, ErrCompletionKeyRequired},
		{"bucket not configured", models.StatusInProgress, "reports/6/after.jpg", false, storage.ErrNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := newTestIssue(tt.from)
			err := ResolveWithEvidence(issue, tt.key, tt.bucket, testNow)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveWithEvidence() error = %v, want %v", err, tt.wantErr)
				}
				if issue.Status != tt.from {
					t.Errorf("status changed to %s on rejected resolve", issue.Status)
				}
				if tt.from != models.StatusResolved && issue.CompletionURL != nil {
					t.Errorf("completion reference written on rejected resolve")
				}
				return
			}

			if err != nil {
				t.Fatalf("ResolveWithEvidence() unexpected error: %v", err)
			}
			if issue.Status != models.StatusResolved {
				t.Errorf("status = %s, want resolved", issue.Status)
			}
			if issue.CompletionURL == nil || *issue.CompletionURL != tt.key {
				t.Errorf("CompletionURL = %v, want %q stored verbatim", issue.CompletionURL, tt.key)
			}
			if !issue.UpdatedAt.Equal(testNow) {
				t.Errorf("updated_at = %v, want %v", issue.UpdatedAt, testNow)
			}
		})
	}
}
