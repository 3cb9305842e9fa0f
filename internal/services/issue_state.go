package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reportmitra/admin-hub/internal/models"
	"github.com/reportmitra/admin-hub/pkg/storage"
)

var (
	// ErrInvalidStatus means the requested status is not a known lifecycle value.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrIllegalTransition means the (current, requested) pair is outside the
	// transition table.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrAlreadyResolved means the issue is in its terminal state.
	ErrAlreadyResolved = errors.New("issue already resolved")
	// ErrCompletionKeyRequired means resolve was called without evidence.
	ErrCompletionKeyRequired = errors.New("completion_key is required")
)

// transitionHook runs the side effect attached to a specific transition,
// before status and updated_at are written.
type transitionHook func(issue *models.Issue, actor models.Principal)

// allocateToActor records the acting staff member as the issue's worker.
// Allocation happens exactly once, on pending → in_progress, and is never
// cleared afterwards.
func allocateToActor(issue *models.Issue, actor models.Principal) {
	userID := actor.UserID
	issue.AllocatedTo = &userID
}

// statusTransitions is the explicit (current → requested) table for the
// generic status-update event. escalated and resolved have no outgoing
// transitions; resolution is a separate event with its own rules, see
// ResolveWithEvidence.
var statusTransitions = map[models.IssueStatus]map[models.IssueStatus]transitionHook{
	models.StatusPending: {
		models.StatusInProgress: allocateToActor,
	},
	models.StatusInProgress: {
		models.StatusEscalated: nil,
		models.StatusResolved:  nil,
	},
	models.StatusEscalated: {},
	models.StatusResolved:  {},
}

// ApplyTransition validates and applies a generic status change on the issue
// in memory. It does not persist; the caller persists after success. now
// becomes the issue's updated_at on success.
func ApplyTransition(issue *models.Issue, requestedStatus string, actor models.Principal, now time.Time) error {
	if !models.IsValidIssueStatus(requestedStatus) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, requestedStatus)
	}
	requested := models.IssueStatus(requestedStatus)

	hook, allowed := statusTransitions[issue.Status][requested]
	if !allowed {
		return fmt.Errorf("%w: %s → %s", ErrIllegalTransition, issue.Status, requested)
	}

	if hook != nil {
		hook(issue, actor)
	}
	issue.Status = requested
	issue.UpdatedAt = now
	return nil
}

// ResolveWithEvidence applies the resolve event on the issue in memory.
//
// Resolution is permitted from any state except resolved: field staff
// sometimes close an issue straight from pending or escalated, so this event
// deliberately bypasses the strict table that governs generic status
// updates. The completion reference is stored as the raw key handed in;
// reads normalize it through the storage signer.
func ResolveWithEvidence(issue *models.Issue, completionKey string, bucketConfigured bool, now time.Time) error {
	if issue.Status == models.StatusResolved {
		return ErrAlreadyResolved
	}
	if strings.TrimSpace(completionKey) == "" {
		return ErrCompletionKeyRequired
	}
	if !bucketConfigured {
		return storage.ErrNotConfigured
	}

	key := completionKey
	issue.CompletionURL = &key
	issue.Status = models.StatusResolved
	issue.UpdatedAt = now
	return nil
}
