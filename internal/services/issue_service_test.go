package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/reportmitra/admin-hub/internal/models"
	"github.com/reportmitra/admin-hub/internal/repositories"
)

type fakeIssueRepo struct {
	issue   *models.Issue
	findErr error

	listDepartment string
	listStatuses   []models.IssueStatus
	listResult     []models.Issue

	updateErr      error
	updateExpected models.IssueStatus
	updateColumns  map[string]interface{}
}

func (f *fakeIssueRepo) FindByTrackingID(trackingID string) (*models.Issue, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	// Hand out a copy so the service's in-memory mutations do not leak back
	// into the "database".
	issue := *f.issue
	return &issue, nil
}

func (f *fakeIssueRepo) List(department string, statuses []models.IssueStatus) ([]models.Issue, error) {
	f.listDepartment = department
	f.listStatuses = statuses
	return f.listResult, nil
}

func (f *fakeIssueRepo) UpdateFromStatus(issueID int64, expectedStatus models.IssueStatus, updates map[string]interface{}) error {
	f.updateExpected = expectedStatus
	f.updateColumns = updates
	return f.updateErr
}

type fakeSigner struct {
	configured bool
	signErr    error
}

func (f *fakeSigner) Configured() bool { return f.configured }

func (f *fakeSigner) PresignGet(_ context.Context, value string, _ time.Duration) (string, error) {
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://signed.example/" + value, nil
}

type spyActivity struct {
	actions []string
	details []string
}

func (s *spyActivity) Record(performedBy, target, action, details, ipAddress string) {
	s.actions = append(s.actions, action)
	s.details = append(s.details, details)
}

func (s *spyActivity) ListLogs(limit int) ([]models.ActivityLog, error) { return nil, nil }

func newTestService(repo *fakeIssueRepo, signer *fakeSigner, activity *spyActivity) *issueService {
	return &issueService{
		repo:     repo,
		signer:   signer,
		activity: activity,
		now:      func() time.Time { return testNow },
	}
}

func TestListIssuesDefaultsToActive(t *testing.T) {
	repo := &fakeIssueRepo{}
	svc := newTestService(repo, &fakeSigner{configured: true}, &spyActivity{})
	principal := models.Principal{UserID: "100001", Department: "roads"}

	if _, err := svc.ListIssues(context.Background(), principal, ""); err != nil {
		t.Fatalf("ListIssues() error: %v", err)
	}
	if repo.listDepartment != "roads" {
		t.Errorf("listed department %q, want roads", repo.listDepartment)
	}
	want := []models.IssueStatus{models.StatusPending, models.StatusInProgress}
	if len(repo.listStatuses) != len(want) {
		t.Fatalf("listed statuses %v, want %v", repo.listStatuses, want)
	}
	for i := range want {
		if repo.listStatuses[i] != want[i] {
			t.Errorf("listed statuses %v, want %v", repo.listStatuses, want)
		}
	}
}

func TestListIssuesExplicitFilter(t *testing.T) {
	repo := &fakeIssueRepo{}
	svc := newTestService(repo, &fakeSigner{configured: true}, &spyActivity{})
	principal := models.Principal{UserID: "100001", Department: "roads"}

	if _, err := svc.ListIssues(context.Background(), principal, "resolved"); err != nil {
		t.Fatalf("ListIssues() error: %v", err)
	}
	if len(repo.listStatuses) != 1 || repo.listStatuses[0] != models.StatusResolved {
		t.Errorf("listed statuses %v, want [resolved]", repo.listStatuses)
	}
}

func TestListIssuesRejectsUnknownFilter(t *testing.T) {
	svc := newTestService(&fakeIssueRepo{}, &fakeSigner{configured: true}, &spyActivity{})
	principal := models.Principal{UserID: "100001", Department: "roads"}

	_, err := svc.ListIssues(context.Background(), principal, "closed")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("ListIssues() error = %v, want ErrInvalidStatus", err)
	}
}

func TestGetIssuePresignsReferences(t *testing.T) {
	image := "reports/roads/before.jpg"
	completion := "https://bucket.s3.amazonaws.com/reports/roads/after.jpg"
	issue := newTestIssue(models.StatusResolved)
	issue.Department = "roads"
	issue.ImageURL = &image
	issue.CompletionURL = &completion

	repo := &fakeIssueRepo{issue: issue}
	svc := newTestService(repo, &fakeSigner{configured: true}, &spyActivity{})
	principal := models.Principal{UserID: "100001", Department: "roads"}

	detail, err := svc.GetIssue(context.Background(), principal, issue.TrackingID)
	if err != nil {
		t.Fatalf("GetIssue() error: %v", err)
	}
	if detail.ImagePresignedURL != "https://signed.example/"+image {
		t.Errorf("ImagePresignedURL = %q", detail.ImagePresignedURL)
	}
	if detail.CompletionPresignedURL != "https://signed.example/"+completion {
		t.Errorf("CompletionPresignedURL = %q", detail.CompletionPresignedURL)
	}
}

func TestGetIssueDeniedAcrossDepartments(t *testing.T) {
	issue := newTestIssue(models.StatusPending)
	issue.Department = "roads"
	repo := &fakeIssueRepo{issue: issue}
	svc := newTestService(repo, &fakeSigner{configured: true}, &spyActivity{})

	// Root is not exempt from the read scope.
	for _, principal := range []models.Principal{
		{UserID: "100002", Department: "water"},
		{UserID: "000001", Department: "administration", IsRoot: true},
	} {
		_, err := svc.GetIssue(context.Background(), principal, issue.TrackingID)
		if !errors.Is(err, ErrAccessDenied) {
			t.Errorf("GetIssue() as %s: error = %v, want ErrAccessDenied", principal.UserID, err)
		}
	}
}

func TestGetIssueNotFound(t *testing.T) {
	repo := &fakeIssueRepo{findErr: repositories.ErrRecordNotFound}
	svc := newTestService(repo, &fakeSigner{configured: true}, &spyActivity{})
	principal := models.Principal{UserID: "100001", Department: "roads"}

	_, err := svc.GetIssue(context.Background(), principal, "RM-2025-9999")
	if !errors.Is(err, ErrIssueNotFound) {
		t.Errorf("GetIssue() error = %v, want ErrIssueNotFound", err)
	}
}

func TestUpdateStatusHappyPath(t *testing.T) {
	issue := newTestIssue(models.StatusPending)
	issue.Department = "roads"
	repo := &fakeIssueRepo{issue: issue}
	activity := &spyActivity{}
	svc := newTestService(repo, &fakeSigner{configured: true}, activity)
	principal := models.Principal{UserID: "100001", Department: "roads"}

	updated, err := svc.UpdateStatus(context.Background(), principal, issue.TrackingID, "in_progress", "10.0.0.1")
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Errorf("status = %s, want in_progress", updated.Status)
	}
	if repo.updateExpected != models.StatusPending {
		t.Errorf("guarded against %s, want pending", repo.updateExpected)
	}
	if _, ok := repo.updateColumns["allocated_to"]; !ok {
		t.Error("allocated_to not written on pending to in_progress")
	}
	if len(activity.actions) != 1 || activity.actions[0] != models.ActionStatusChange {
		t.Errorf("activity actions = %v, want [%s]", activity.actions, models.ActionStatusChange)
	}
}

func TestUpdateStatusDoesNotWriteAllocationOnEscalate(t *testing.T) {
	worker := "100001"
	issue := newTestIssue(models.StatusInProgress)
	issue.Department = "roads"
	issue.AllocatedTo = &worker
	repo := &fakeIssueRepo{issue: issue}
	svc := newTestService(repo, &fakeSigner{configured: true}, &spyActivity{})
	principal := models.Principal{UserID: "100002", Department: "roads"}

	if _, err := svc.UpdateStatus(context.Background(), principal, issue.TrackingID, "escalated", ""); err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if _, ok := repo.updateColumns["allocated_to"]; ok {
		t.Error("allocated_to written on in_progress to escalated")
	}
}

func TestUpdateStatusConflict(t *testing.T) {
	issue := newTestIssue(models.StatusPending)
	issue.Department = "roads"
	repo := &fakeIssueRepo{issue: issue, updateErr: repositories.ErrStaleIssueStatus}
	activity := &spyActivity{}
	svc := newTestService(repo, &fakeSigner{configured: true}, activity)
	principal := models.Principal{UserID: "100001", Department: "roads"}

	_, err := svc.UpdateStatus(context.Background(), principal, issue.TrackingID, "in_progress", "")
	if !errors.Is(err, ErrStatusConflict) {
		t.Fatalf("UpdateStatus() error = %v, want ErrStatusConflict", err)
	}
	if len(activity.actions) != 0 {
		t.Errorf("audit recorded on conflicting update: %v", activity.actions)
	}
}

func TestUpdateStatusDeniedAcrossDepartments(t *testing.T) {
	issue := newTestIssue(models.StatusPending)
	issue.Department = "roads"
	repo := &fakeIssueRepo{issue: issue}
	svc := newTestService(repo, &fakeSigner{configured: true}, &spyActivity{})
	principal := models.Principal{UserID: "100002", Department: "water"}

	_, err := svc.UpdateStatus(context.Background(), principal, issue.TrackingID, "in_progress", "")
	if !errors.Is(err, ErrAccessDenied) {
		t.Errorf("UpdateStatus() error = %v, want ErrAccessDenied", err)
	}
}

func TestUpdateStatusRootCrossDepartment(t *testing.T) {
	issue := newTestIssue(models.StatusPending)
	issue.Department = "roads"
	repo := &fakeIssueRepo{issue: issue}
	svc := newTestService(repo, &fakeSigner{configured: true}, &spyActivity{})
	root := models.Principal{UserID: "000001", Department: "administration", IsRoot: true}

	updated, err := svc.UpdateStatus(context.Background(), root, issue.TrackingID, "in_progress", "")
	if err != nil {
		t.Fatalf("UpdateStatus() as root error: %v", err)
	}
	if updated.AllocatedTo == nil || *updated.AllocatedTo != "000001" {
		t.Errorf("AllocatedTo = %v, want the acting root", updated.AllocatedTo)
	}
}

func TestResolveIssue(t *testing.T) {
	issue := newTestIssue(models.StatusEscalated)
	issue.Department = "roads"
	repo := &fakeIssueRepo{issue: issue}
	activity := &spyActivity{}
	svc := newTestService(repo, &fakeSigner{configured: true}, activity)
	principal := models.Principal{UserID: "100001", Department: "roads"}

	resolved, err := svc.ResolveIssue(context.Background(), principal, issue.TrackingID, "reports/roads/after.jpg", "10.0.0.1")
	if err != nil {
		t.Fatalf("ResolveIssue() error: %v", err)
	}
	if resolved.Status != models.StatusResolved {
		t.Errorf("status = %s, want resolved", resolved.Status)
	}
	if repo.updateExpected != models.StatusEscalated {
		t.Errorf("guarded against %s, want escalated", repo.updateExpected)
	}
	if got := repo.updateColumns["completion_url"]; got == nil {
		t.Error("completion_url not written")
	}
	if len(activity.actions) != 1 || activity.actions[0] != models.ActionResolve {
		t.Errorf("activity actions = %v, want [%s]", activity.actions, models.ActionResolve)
	}
	if activity.details[0] != "resolved from escalated" {
		t.Errorf("activity details = %q", activity.details[0])
	}
}

func TestResolveIssueWithoutBucket(t *testing.T) {
	issue := newTestIssue(models.StatusInProgress)
	issue.Department = "roads"
	repo := &fakeIssueRepo{issue: issue}
	svc := newTestService(repo, &fakeSigner{configured: false}, &spyActivity{})
	principal := models.Principal{UserID: "100001", Department: "roads"}

	_, err := svc.ResolveIssue(context.Background(), principal, issue.TrackingID, "reports/roads/after.jpg", "")
	if err == nil {
		t.Fatal("ResolveIssue() succeeded without a configured bucket")
	}
}

func TestResolveIssueConflict(t *testing.T) {
	issue := newTestIssue(models.StatusInProgress)
	issue.Department = "roads"
	repo := &fakeIssueRepo{issue: issue, updateErr: repositories.ErrStaleIssueStatus}
	svc := newTestService(repo, &fakeSigner{configured: true}, &spyActivity{})
	principal := models.Principal{UserID: "100001", Department: "roads"}

	_, err := svc.ResolveIssue(context.Background(), principal, issue.TrackingID, "reports/roads/after.jpg", "")
	if !errors.Is(err, ErrStatusConflict) {
		t.Errorf("ResolveIssue() error = %v, want ErrStatusConflict", err)
	}
}
