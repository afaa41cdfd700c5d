/*
adjustment.go - Admin balance edits as synthetic ledger entries

PURPOSE:
  When an administrator edits a user's stored balance counters directly,
  the ledger must not diverge from the counters: every balance-affecting
  change originates from the ledger. This file translates the delta
  between old and new counter values into retroactive ledger rows, each
  with a single pre-approved approval line attributed to the
  administrator, and commits them in the SAME transaction as the counter
  update.

BUCKETS:
  used_leave_days        -> admin_adjustment leave record
  extra_used_leave_days  -> admin_adjustment leave record (compensatory)
  extra_leave_days       -> synthetic approved overtime record carrying
                            the recognized value (delta * 8 hours)

  A zero delta produces no row.
*/
package approval

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/leave-engine/leave"
)

// AdjustmentLogger synthesizes ledger entries for direct counter edits.
type AdjustmentLogger struct {
	Store  leave.TxStore
	Logger *zap.Logger
	Now    func() time.Time
	NewID  func() string
}

func NewAdjustmentLogger(store leave.TxStore, logger *zap.Logger) *AdjustmentLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdjustmentLogger{
		Store:  store,
		Logger: logger,
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

// Adjustment is an administrator's edit of one user's counters. The
// values are the NEW counter states, not deltas.
type Adjustment struct {
	AdminID leave.UserID
	UserID  leave.UserID

	UsedLeaveDays      decimal.Decimal
	ExtraLeaveDays     decimal.Decimal
	ExtraUsedLeaveDays decimal.Decimal
}

// AdjustmentResult reports what the edit produced.
type AdjustmentResult struct {
	LeaveRecords    []leave.RequestID
	OvertimeRecords []leave.RequestID
	Profile         leave.Profile
}

// Apply validates the edit, computes per-bucket deltas, and writes the
// synthetic records plus the counter update atomically. The target
// profile is read inside the transaction: deltas must come from the
// counters the commit will replace, or two concurrent edits of the same
// user would both diff against the same stale state and leave the
// ledger rows out of sum with the counters.
func (a *AdjustmentLogger) Apply(ctx context.Context, adj Adjustment) (*AdjustmentResult, error) {
	admin, err := a.Store.GetProfile(ctx, adj.AdminID)
	if err != nil {
		return nil, &leave.PersistenceError{Op: "get admin profile", Cause: err}
	}
	if admin == nil || !admin.IsAdmin() {
		return nil, &leave.AuthorizationError{Actor: adj.AdminID, Action: "adjust balances"}
	}

	now := a.Now()
	today := leave.Today(now)
	result := &AdjustmentResult{}
	var usedDelta, extraDelta, extraUsedDelta decimal.Decimal

	err = a.Store.WithTx(ctx, func(s leave.Store) error {
		target, err := s.GetProfile(ctx, adj.UserID)
		if err != nil {
			return &leave.PersistenceError{Op: "get target profile", Cause: err}
		}
		if target == nil {
			return leave.ErrNotFound
		}

		usedDelta = adj.UsedLeaveDays.Sub(target.UsedLeaveDays)
		extraDelta = adj.ExtraLeaveDays.Sub(target.ExtraLeaveDays)
		extraUsedDelta = adj.ExtraUsedLeaveDays.Sub(target.ExtraUsedLeaveDays)

		if !usedDelta.IsZero() {
			id, err := a.insertLeaveAdjustment(ctx, s, adj, usedDelta, today, now,
				fmt.Sprintf("balance adjustment: used_leave_days %s -> %s",
					target.UsedLeaveDays, adj.UsedLeaveDays))
			if err != nil {
				return err
			}
			result.LeaveRecords = append(result.LeaveRecords, id)
		}
		if !extraUsedDelta.IsZero() {
			id, err := a.insertLeaveAdjustment(ctx, s, adj, extraUsedDelta, today, now,
				fmt.Sprintf("balance adjustment: extra_used_leave_days %s -> %s",
					target.ExtraUsedLeaveDays, adj.ExtraUsedLeaveDays))
			if err != nil {
				return err
			}
			result.LeaveRecords = append(result.LeaveRecords, id)
		}
		if !extraDelta.IsZero() {
			id, err := a.insertOvertimeAdjustment(ctx, s, adj, extraDelta, today, now)
			if err != nil {
				return err
			}
			result.OvertimeRecords = append(result.OvertimeRecords, id)
		}

		updated := *target
		updated.UsedLeaveDays = adj.UsedLeaveDays
		updated.ExtraLeaveDays = adj.ExtraLeaveDays
		updated.ExtraUsedLeaveDays = adj.ExtraUsedLeaveDays
		if err := s.SaveProfile(ctx, updated); err != nil {
			return &leave.PersistenceError{Op: "save profile", Cause: err}
		}
		result.Profile = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.Logger.Info("admin adjustment applied",
		zap.String("admin", string(adj.AdminID)),
		zap.String("user", string(adj.UserID)),
		zap.String("used_delta", usedDelta.String()),
		zap.String("extra_delta", extraDelta.String()),
		zap.String("extra_used_delta", extraUsedDelta.String()))
	return result, nil
}

func (a *AdjustmentLogger) insertLeaveAdjustment(ctx context.Context, s leave.Store, adj Adjustment, delta decimal.Decimal, today leave.Date, now time.Time, reason string) (leave.RequestID, error) {
	rec := leave.LeaveRequest{
		ID:          leave.RequestID(a.NewID()),
		OwnerID:     adj.UserID,
		LeaveType:   leave.LeaveAdminAdjustment,
		RequestType: leave.RequestCreate,
		StartDate:   today,
		EndDate:     today,
		TotalDays:   delta,
		Status:      leave.StatusApproved,
		Reason:      reason,
		CreatedAt:   now,
	}
	if err := s.InsertLeaveRequest(ctx, rec); err != nil {
		return "", &leave.PersistenceError{Op: "insert adjustment record", Cause: err}
	}
	if err := a.insertApprovedLine(ctx, s, &rec.ID, nil, adj.AdminID, now); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (a *AdjustmentLogger) insertOvertimeAdjustment(ctx context.Context, s leave.Store, adj Adjustment, deltaDays decimal.Decimal, today leave.Date, now time.Time) (leave.RequestID, error) {
	rec := leave.OvertimeRequest{
		ID:              leave.RequestID(a.NewID()),
		OwnerID:         adj.UserID,
		RequestType:     leave.RequestCreate,
		WorkDate:        today,
		RecognizedHours: deltaDays.Mul(decimal.NewFromInt(8)),
		RecognizedDays:  deltaDays,
		Title:           "balance adjustment",
		Reason:          fmt.Sprintf("balance adjustment: extra_leave_days delta %s", deltaDays),
		Status:          leave.StatusApproved,
		CreatedAt:       now,
	}
	if err := s.InsertOvertimeRequest(ctx, rec); err != nil {
		return "", &leave.PersistenceError{Op: "insert adjustment record", Cause: err}
	}
	if err := a.insertApprovedLine(ctx, s, nil, &rec.ID, adj.AdminID, now); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// insertApprovedLine creates the single-step, pre-approved line that
// attributes the synthetic record to the administrator.
func (a *AdjustmentLogger) insertApprovedLine(ctx context.Context, s leave.Store, leaveID, otID *leave.RequestID, admin leave.UserID, now time.Time) error {
	line := leave.ApprovalLine{
		ID:                leave.LineID(a.NewID()),
		LeaveRequestID:    leaveID,
		OvertimeRequestID: otID,
		ApproverID:        admin,
		StepOrder:         1,
		Status:            leave.LineApproved,
		DecidedAt:         &now,
		CreatedAt:         now,
	}
	if err := s.InsertApprovalLine(ctx, line); err != nil {
		return &leave.PersistenceError{Op: "insert approval line", Cause: err}
	}
	return nil
}
