package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reportmitra/admin-hub/internal/models"
	"github.com/reportmitra/admin-hub/internal/repositories"
)

// ErrIssueNotFound means the tracking id matched no issue.
var ErrIssueNotFound = errors.New("issue not found")

// ErrStatusConflict means a concurrent update changed the issue's status
// between validation and write; the caller should re-read and retry.
var ErrStatusConflict = errors.New("issue was updated concurrently")

// StorageSigner is the slice of the storage signer the issue service needs.
// *storage.Signer satisfies it.
type StorageSigner interface {
	Configured() bool
	PresignGet(ctx context.Context, value string, ttl time.Duration) (string, error)
}

// IssueDetail is an issue with its evidence references resolved to
// presigned GET URLs for the response.
type IssueDetail struct {
	models.Issue
	ImagePresignedURL      string `json:"imagePresignedUrl,omitempty"`
	CompletionPresignedURL string `json:"completionPresignedUrl,omitempty"`
}

// IssueService orchestrates the issue workflow: department-scoped listing
// and detail, status transitions, and resolution with evidence.
type IssueService interface {
	// ListIssues returns the principal's department queue. An empty
	// statusFilter shows only the active statuses (pending, in_progress);
	// escalated and resolved issues are visible through an explicit filter.
	ListIssues(ctx context.Context, principal models.Principal, statusFilter string) ([]models.Issue, error)
	GetIssue(ctx context.Context, principal models.Principal, trackingID string) (*IssueDetail, error)
	UpdateStatus(ctx context.Context, principal models.Principal, trackingID, requestedStatus, clientIP string) (*models.Issue, error)
	ResolveIssue(ctx context.Context, principal models.Principal, trackingID, completionKey, clientIP string) (*models.Issue, error)
}

type issueService struct {
	repo     repositories.IssueRepository
	signer   StorageSigner
	activity ActivityLogService
	now      func() time.Time
}

// NewIssueService creates a new issueService instance.
func NewIssueService(repo repositories.IssueRepository, signer StorageSigner, activity ActivityLogService) IssueService {
	return &issueService{repo: repo, signer: signer, activity: activity, now: time.Now}
}

// activeStatuses is the default list view: work that still needs attention.
// Hiding escalated/resolved by default is a product decision, not an
// oversight.
var activeStatuses = []models.IssueStatus{models.StatusPending, models.StatusInProgress}

func (s *issueService) ListIssues(_ context.Context, principal models.Principal, statusFilter string) ([]models.Issue, error) {
	statuses := activeStatuses
	if statusFilter != "" {
		if !models.IsValidIssueStatus(statusFilter) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, statusFilter)
		}
		statuses = []models.IssueStatus{models.IssueStatus(statusFilter)}
	}
	return s.repo.List(principal.Department, statuses)
}

func (s *issueService) GetIssue(ctx context.Context, principal models.Principal, trackingID string) (*IssueDetail, error) {
	issue, err := s.findIssue(trackingID)
	if err != nil {
		return nil, err
	}
	if !CanViewIssue(principal, issue) {
		return nil, ErrAccessDenied
	}

	detail := &IssueDetail{Issue: *issue}
	if issue.ImageURL != nil {
		url, err := s.signer.PresignGet(ctx, *issue.ImageURL, 0)
		if err != nil {
			return nil, err
		}
		detail.ImagePresignedURL = url
	}
	if issue.CompletionURL != nil {
		url, err := s.signer.PresignGet(ctx, *issue.CompletionURL, 0)
		if err != nil {
			return nil, err
		}
		detail.CompletionPresignedURL = url
	}
	return detail, nil
}

func (s *issueService) UpdateStatus(_ context.Context, principal models.Principal, trackingID, requestedStatus, clientIP string) (*models.Issue, error) {
	issue, err := s.findIssue(trackingID)
	if err != nil {
		return nil, err
	}
	if !CanMutateIssue(principal, issue) {
		return nil, ErrAccessDenied
	}

	// The status the transition is validated against; the write below only
	// succeeds if the row still carries it.
	expected := issue.Status

	if err := ApplyTransition(issue, requestedStatus, principal, s.now()); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":     issue.Status,
		"updated_at": issue.UpdatedAt,
	}
	if expected == models.StatusPending && issue.Status == models.StatusInProgress {
		updates["allocated_to"] = issue.AllocatedTo
	}

	if err := s.repo.UpdateFromStatus(issue.ID, expected, updates); err != nil {
		if errors.Is(err, repositories.ErrStaleIssueStatus) {
			return nil, ErrStatusConflict
		}
		return nil, err
	}

	s.activity.Record(principal.UserID, issue.TrackingID, models.ActionStatusChange,
		fmt.Sprintf("%s → %s", expected, issue.Status), clientIP)
	return issue, nil
}

func (s *issueService) ResolveIssue(_ context.Context, principal models.Principal, trackingID, completionKey, clientIP string) (*models.Issue, error) {
	issue, err := s.findIssue(trackingID)
	if err != nil {
		return nil, err
	}
	if !CanMutateIssue(principal, issue) {
		return nil, ErrAccessDenied
	}

	expected := issue.Status

	if err := ResolveWithEvidence(issue, completionKey, s.signer.Configured(), s.now()); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":         issue.Status,
		"completion_url": issue.CompletionURL,
		"updated_at":     issue.UpdatedAt,
	}
	if err := s.repo.UpdateFromStatus(issue.ID, expected, updates); err != nil {
		if errors.Is(err, repositories.ErrStaleIssueStatus) {
			return nil, ErrStatusConflict
		}
		return nil, err
	}

	s.activity.Record(principal.UserID, issue.TrackingID, models.ActionResolve,
		fmt.Sprintf("resolved from %s", expected), clientIP)
	return issue, nil
}

func (s *issueService) findIssue(trackingID string) (*models.Issue, error) {
	issue, err := s.repo.FindByTrackingID(trackingID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrIssueNotFound
		}
		return nil, err
	}
	return issue, nil
}
