// Package documents provides shared types for workflow documents.
package documents

import "gudang/internal/core/apperror"

// ApprovalStatus is the lifecycle status of approval-gated documents
// (procurement, disposal).
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Valid reports whether the status is a known value.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanApprove returns nil when a transition to approved is allowed.
// Only pending documents can be approved.
func (s ApprovalStatus) CanApprove() error {
	if s != StatusPending {
		return apperror.NewConflict("document already " + string(s))
	}
	return nil
}

// CanReject returns nil when a transition to rejected is allowed.
// Pending and approved documents can be rejected; rejecting twice conflicts.
func (s ApprovalStatus) CanReject() error {
	if s == StatusRejected {
		return apperror.NewConflict("document already rejected")
	}
	return nil
}
