/*
Package approval implements the request approval workflow and the admin
balance adjustment path.

PURPOSE:
  Governs every mutation of the request ledger:

  1. Submission: a request row plus its pending approval lines are written
     in one transaction. A committed request can never exist without an
     approval path.
  2. Decision: one approver acts on one line. The pending -> terminal
     transition is a compare-and-swap; two approvers racing on the same
     line cannot both succeed, the loser gets a ConflictError.
  3. Termination: a rejected line terminally rejects the request; the
     final approved line flips the request to approved, which is the
     point it becomes eligible for balance aggregation.

STATE MACHINE (per line):
  pending -> approved   (terminal)
  pending -> rejected   (terminal)

  Lines are gated strictly by step order: step N must be approved before
  step N+1 can be acted on. Administrator-originated requests bypass the
  sequence with a single line created already approved at step 1.

SEE ALSO:
  - adjustment.go: admin counter edits synthesized into ledger rows
  - leave/store.go: DecideLine compare-and-swap contract
*/
package approval

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/overtime"
)

// Decision is an approver's verdict on a line.
type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

// Workflow orchestrates submission and decision processing.
type Workflow struct {
	Store  leave.TxStore
	Logger *zap.Logger
	Now    func() time.Time
	NewID  func() string
}

func NewWorkflow(store leave.TxStore, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		Store:  store,
		Logger: logger,
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

// =============================================================================
// SUBMISSION
// =============================================================================

// SubmitLeave validates and persists a leave request with one pending
// approval line per approver, ascending step order from 1. The request
// row and its lines commit together.
func (w *Workflow) SubmitLeave(ctx context.Context, req leave.LeaveRequest, approvers []leave.UserID) (*leave.LeaveRequest, error) {
	req.ID = leave.RequestID(w.NewID())
	req.Status = leave.StatusPending
	req.CreatedAt = w.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(approvers) == 0 {
		return nil, &leave.ValidationError{Field: "approvers", Reason: "at least one approver required"}
	}
	if err := w.checkLeaveLineage(ctx, req); err != nil {
		return nil, err
	}

	err := w.Store.WithTx(ctx, func(s leave.Store) error {
		if err := s.InsertLeaveRequest(ctx, req); err != nil {
			return &leave.PersistenceError{Op: "insert leave request", Cause: err}
		}
		return w.insertPendingLines(ctx, s, &req.ID, nil, approvers)
	})
	if err != nil {
		return nil, err
	}

	w.Logger.Info("leave request submitted",
		zap.String("request_id", string(req.ID)),
		zap.String("owner", string(req.OwnerID)),
		zap.String("leave_type", string(req.LeaveType)),
		zap.Int("approvers", len(approvers)))
	return &req, nil
}

// SubmitOvertime validates and persists an overtime request. The
// recognized compensatory value is computed here from the worked interval
// and the holiday calendar, and stored on the record.
func (w *Workflow) SubmitOvertime(ctx context.Context, req leave.OvertimeRequest, approvers []leave.UserID) (*leave.OvertimeRequest, error) {
	req.ID = leave.RequestID(w.NewID())
	req.Status = leave.StatusPending
	req.CreatedAt = w.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(approvers) == 0 {
		return nil, &leave.ValidationError{Field: "approvers", Reason: "at least one approver required"}
	}
	if err := w.checkOvertimeLineage(ctx, req); err != nil {
		return nil, err
	}

	holiday, err := w.Store.IsHoliday(ctx, req.WorkDate)
	if err != nil {
		return nil, &leave.PersistenceError{Op: "holiday lookup", Cause: err}
	}
	req.IsHoliday = req.IsHoliday || holiday

	conv := overtime.Convert(req.StartTime, req.EndTime, req.WorkDate, req.IsHoliday)
	req.TotalHours = conv.WorkedHours
	req.RecognizedHours = conv.RecognizedHours
	req.RecognizedDays = conv.RecognizedDays

	err = w.Store.WithTx(ctx, func(s leave.Store) error {
		if err := s.InsertOvertimeRequest(ctx, req); err != nil {
			return &leave.PersistenceError{Op: "insert overtime request", Cause: err}
		}
		return w.insertPendingLines(ctx, s, nil, &req.ID, approvers)
	})
	if err != nil {
		return nil, err
	}

	w.Logger.Info("overtime request submitted",
		zap.String("request_id", string(req.ID)),
		zap.String("owner", string(req.OwnerID)),
		zap.String("recognized_hours", req.RecognizedHours.String()))
	return &req, nil
}

func (w *Workflow) insertPendingLines(ctx context.Context, s leave.Store, leaveID, otID *leave.RequestID, approvers []leave.UserID) error {
	for i, approver := range approvers {
		line := leave.ApprovalLine{
			ID:                leave.LineID(w.NewID()),
			LeaveRequestID:    leaveID,
			OvertimeRequestID: otID,
			ApproverID:        approver,
			StepOrder:         i + 1,
			Status:            leave.LinePending,
			CreatedAt:         w.Now(),
		}
		if err := line.Validate(); err != nil {
			return err
		}
		if err := s.InsertApprovalLine(ctx, line); err != nil {
			return &leave.PersistenceError{Op: "insert approval line", Cause: err}
		}
	}
	return nil
}

func (w *Workflow) checkLeaveLineage(ctx context.Context, req leave.LeaveRequest) error {
	if req.OriginalID != nil {
		parent, err := w.Store.GetLeaveRequest(ctx, *req.OriginalID)
		if err != nil {
			return &leave.PersistenceError{Op: "get original leave request", Cause: err}
		}
		if parent == nil {
			return &leave.ValidationError{Field: "original_leave_request_id", Reason: "referenced record does not exist"}
		}
		if parent.OwnerID != req.OwnerID {
			return &leave.ValidationError{Field: "original_leave_request_id", Reason: "referenced record belongs to another user"}
		}
	}
	if req.OvertimeID != nil {
		source, err := w.Store.GetOvertimeRequest(ctx, *req.OvertimeID)
		if err != nil {
			return &leave.PersistenceError{Op: "get overtime source", Cause: err}
		}
		if source == nil {
			return &leave.ValidationError{Field: "overtime_request_id", Reason: "referenced overtime request does not exist"}
		}
		if source.OwnerID != req.OwnerID {
			return &leave.ValidationError{Field: "overtime_request_id", Reason: "referenced overtime belongs to another user"}
		}
	}
	return nil
}

func (w *Workflow) checkOvertimeLineage(ctx context.Context, req leave.OvertimeRequest) error {
	if req.OriginalID == nil {
		return nil
	}
	parent, err := w.Store.GetOvertimeRequest(ctx, *req.OriginalID)
	if err != nil {
		return &leave.PersistenceError{Op: "get original overtime request", Cause: err}
	}
	if parent == nil {
		return &leave.ValidationError{Field: "original_overtime_request_id", Reason: "referenced record does not exist"}
	}
	if parent.OwnerID != req.OwnerID {
		return &leave.ValidationError{Field: "original_overtime_request_id", Reason: "referenced record belongs to another user"}
	}
	return nil
}

// =============================================================================
// DECISION PROCESSING
// =============================================================================

// Decide processes one approver's verdict on one line. The whole
// operation runs in a single transaction; the pending check and the
// status write are one atomic compare-and-swap, so a second concurrent
// decision on the same line fails with ConflictError instead of silently
// overwriting. Resubmitting an identical decision is therefore a benign
// conflict, never a double-processed balance change.
func (w *Workflow) Decide(ctx context.Context, lineID leave.LineID, actor leave.UserID, decision Decision, comment string) (*leave.ApprovalLine, error) {
	if decision != Approve && decision != Reject {
		return nil, &leave.ValidationError{Field: "decision", Reason: "must be approve or reject"}
	}

	var decided leave.ApprovalLine
	err := w.Store.WithTx(ctx, func(s leave.Store) error {
		line, err := s.GetApprovalLine(ctx, lineID)
		if err != nil {
			return &leave.PersistenceError{Op: "get approval line", Cause: err}
		}
		if line == nil {
			return leave.ErrNotFound
		}
		if line.ApproverID != actor {
			return &leave.AuthorizationError{Actor: actor, Action: "decide approval line " + string(lineID)}
		}
		if line.Status != leave.LinePending {
			return &leave.ConflictError{LineID: lineID, Status: line.Status}
		}

		requestID, isLeave := line.RequestRef()
		siblings, err := s.ListApprovalLines(ctx, requestID)
		if err != nil {
			return &leave.PersistenceError{Op: "list approval lines", Cause: err}
		}
		if !leave.StepReady(siblings, *line) {
			return leave.ErrStepNotReady
		}

		status := leave.LineApproved
		if decision == Reject {
			status = leave.LineRejected
		}
		now := w.Now()

		ok, err := s.DecideLine(ctx, lineID, status, comment, now)
		if err != nil {
			return &leave.PersistenceError{Op: "decide approval line", Cause: err}
		}
		if !ok {
			// Lost the race between the read above and the swap.
			return &leave.ConflictError{LineID: lineID}
		}

		decided = *line
		decided.Status = status
		decided.Comment = comment
		decided.DecidedAt = &now

		switch {
		case status == leave.LineRejected:
			// Terminal for the whole request; remaining lines stay pending
			// but can never become actionable.
			return w.setRequestStatus(ctx, s, requestID, isLeave, leave.StatusRejected)
		case lastStepApproved(siblings, lineID):
			return w.setRequestStatus(ctx, s, requestID, isLeave, leave.StatusApproved)
		default:
			// Later steps remain; request stays pending.
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	w.Logger.Info("approval line decided",
		zap.String("line_id", string(lineID)),
		zap.String("approver", string(actor)),
		zap.String("decision", string(decision)))
	return &decided, nil
}

func (w *Workflow) setRequestStatus(ctx context.Context, s leave.Store, id leave.RequestID, isLeave bool, status leave.Status) error {
	var err error
	if isLeave {
		err = s.SetLeaveRequestStatus(ctx, id, status)
	} else {
		err = s.SetOvertimeRequestStatus(ctx, id, status)
	}
	if err != nil {
		return &leave.PersistenceError{Op: "set request status", Cause: err}
	}
	return nil
}

// lastStepApproved reports whether, with decidedID now approved, no
// pending line remains on the request.
func lastStepApproved(siblings []leave.ApprovalLine, decidedID leave.LineID) bool {
	for _, l := range siblings {
		if l.ID == decidedID {
			continue
		}
		if l.Status == leave.LinePending {
			return false
		}
	}
	return true
}
