/*
store.go - Persistence interfaces for the request ledger

PURPOSE:
  Defines the boundary between domain logic and the database. The ledger
  is append-only for request records: a logical change is always a NEW
  record; the only in-place mutation the workflow performs on a request
  row is its Status transition when its approval path terminates.

APPEND-ONLY CONTRACT:
  - InsertLeaveRequest / InsertOvertimeRequest: the only record writes.
  - SetLeaveRequestStatus / SetOvertimeRequestStatus: status transition
    driven by the approval workflow, nothing else changes.
  - Approval lines are created pending and decided exactly once via the
    compare-and-swap DecideLine.

ATOMICITY:
  WithTx wraps multi-row writes (request + its approval lines, adjustment
  rows + counter update) so the ledger never holds a request without an
  approval path.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite
  - store/memory: in-memory for tests and dev
*/
package leave

import (
	"context"
	"time"
)

// =============================================================================
// REQUEST STORE - append-only ledger records
// =============================================================================

type RequestStore interface {
	InsertLeaveRequest(ctx context.Context, r LeaveRequest) error
	GetLeaveRequest(ctx context.Context, id RequestID) (*LeaveRequest, error)
	// ListLeaveRequestsByOwner returns ALL records for the owner, no date
	// filtering: lineage resolution needs chain roots outside any window.
	ListLeaveRequestsByOwner(ctx context.Context, owner UserID) ([]LeaveRequest, error)
	ListLeaveRequests(ctx context.Context) ([]LeaveRequest, error)
	SetLeaveRequestStatus(ctx context.Context, id RequestID, status Status) error

	InsertOvertimeRequest(ctx context.Context, r OvertimeRequest) error
	GetOvertimeRequest(ctx context.Context, id RequestID) (*OvertimeRequest, error)
	ListOvertimeRequestsByOwner(ctx context.Context, owner UserID) ([]OvertimeRequest, error)
	ListOvertimeRequests(ctx context.Context) ([]OvertimeRequest, error)
	SetOvertimeRequestStatus(ctx context.Context, id RequestID, status Status) error
}

// =============================================================================
// APPROVAL STORE
// =============================================================================

type ApprovalStore interface {
	InsertApprovalLine(ctx context.Context, l ApprovalLine) error
	GetApprovalLine(ctx context.Context, id LineID) (*ApprovalLine, error)
	// ListApprovalLines returns the lines of one request ordered by
	// step_order ascending.
	ListApprovalLines(ctx context.Context, request RequestID) ([]ApprovalLine, error)
	ListPendingLinesByApprover(ctx context.Context, approver UserID) ([]ApprovalLine, error)

	// DecideLine atomically transitions a line from pending to the given
	// terminal status. Returns false without error when the line was no
	// longer pending - the caller lost the race.
	DecideLine(ctx context.Context, id LineID, status LineStatus, comment string, decidedAt time.Time) (bool, error)
}

// =============================================================================
// COLLABORATOR STORES
// =============================================================================

type ProfileStore interface {
	GetProfile(ctx context.Context, user UserID) (*Profile, error)
	SaveProfile(ctx context.Context, p Profile) error
	ListProfiles(ctx context.Context) ([]Profile, error)
}

type AllocationStore interface {
	GetAllocation(ctx context.Context, user UserID, year int) (*AnnualLeaveAllocation, error)
	// SetAllocation upserts; at most one row exists per (user, year).
	SetAllocation(ctx context.Context, a AnnualLeaveAllocation) error
	ListAllocationsByYear(ctx context.Context, year int) ([]AnnualLeaveAllocation, error)
}

type HolidayStore interface {
	ListHolidays(ctx context.Context, from, to Date) ([]Holiday, error)
	IsHoliday(ctx context.Context, d Date) (bool, error)
	SaveHoliday(ctx context.Context, h Holiday) error
	DeleteHoliday(ctx context.Context, d Date) error
}

// =============================================================================
// COMPOSITE / TRANSACTIONAL STORE
// =============================================================================

// Store is the full persistence surface consumed by the services.
type Store interface {
	RequestStore
	ApprovalStore
	ProfileStore
	AllocationStore
	HolidayStore
}

// TxStore adds transaction support. fn runs against a Store view whose
// writes commit together or not at all.
type TxStore interface {
	Store

	WithTx(ctx context.Context, fn func(Store) error) error
}
