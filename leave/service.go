/*
service.go - Read-side operations over the ledger

PURPOSE:
  Loads records, runs them through the one shared LineageResolver, and
  feeds the BalanceEngine. Every read path in the system (dashboard,
  per-employee schedule, calendar, org-wide table) goes through this
  service so they cannot drift apart.

  All operations here are pure reads: they never mutate state and tolerate
  an eventual view of the ledger.
*/
package leave

import (
	"context"
	"time"
)

// Service is the read-side facade. Now is injectable for tests; it
// determines the "current year" used by the legacy entitlement fallback.
type Service struct {
	Store Store
	Now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

// =============================================================================
// LIVE REQUESTS
// =============================================================================

// LiveSet is the resolved live view for one owner.
type LiveSet struct {
	Leave    []LeaveRequest
	Overtime []OvertimeRequest
}

// LiveRequests returns the live leave and overtime records for a user.
// year 0 means all years; otherwise leave records are filtered by
// start_date year and overtime records by work_date year.
func (s *Service) LiveRequests(ctx context.Context, user UserID, year int) (*LiveSet, error) {
	leaveRecs, err := s.Store.ListLeaveRequestsByOwner(ctx, user)
	if err != nil {
		return nil, &PersistenceError{Op: "list leave requests", Cause: err}
	}
	otRecs, err := s.Store.ListOvertimeRequestsByOwner(ctx, user)
	if err != nil {
		return nil, &PersistenceError{Op: "list overtime requests", Cause: err}
	}

	set := &LiveSet{}
	for _, r := range ResolveLive(leaveRecs) {
		if year == 0 || r.StartDate.Year() == year {
			set.Leave = append(set.Leave, r)
		}
	}
	for _, r := range ResolveLive(otRecs) {
		if year == 0 || r.WorkDate.Year() == year {
			set.Overtime = append(set.Overtime, r)
		}
	}
	return set, nil
}

// ChainHistory returns the full lineage of the chain containing id,
// oldest record first, for audit display. Cancelled and rejected members
// are included; this is the one view that shows them. The id may belong
// to either ledger; exactly one slice of the returned set is populated.
func (s *Service) ChainHistory(ctx context.Context, id RequestID) (*LiveSet, error) {
	record, err := s.Store.GetLeaveRequest(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "get leave request", Cause: err}
	}
	if record != nil {
		all, err := s.Store.ListLeaveRequestsByOwner(ctx, record.OwnerID)
		if err != nil {
			return nil, &PersistenceError{Op: "list leave requests", Cause: err}
		}
		return &LiveSet{Leave: ChainOf(all, id)}, nil
	}

	ot, err := s.Store.GetOvertimeRequest(ctx, id)
	if err != nil {
		return nil, &PersistenceError{Op: "get overtime request", Cause: err}
	}
	if ot == nil {
		return nil, ErrNotFound
	}
	all, err := s.Store.ListOvertimeRequestsByOwner(ctx, ot.OwnerID)
	if err != nil {
		return nil, &PersistenceError{Op: "list overtime requests", Cause: err}
	}
	return &LiveSet{Overtime: ChainOf(all, id)}, nil
}

// =============================================================================
// BALANCES
// =============================================================================

// Balance computes the balance snapshot for one user and year.
func (s *Service) Balance(ctx context.Context, user UserID, year int) (*BalanceSnapshot, error) {
	profile, err := s.Store.GetProfile(ctx, user)
	if err != nil {
		return nil, &PersistenceError{Op: "get profile", Cause: err}
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	return s.balanceFor(ctx, *profile, year)
}

// LifetimeComp returns the running compensatory view from profile
// counters. Distinct from the year-scoped compensatory buckets in
// BalanceSnapshot; callers pick the view they need.
func (s *Service) LifetimeComp(ctx context.Context, user UserID) (*LifetimeComp, error) {
	profile, err := s.Store.GetProfile(ctx, user)
	if err != nil {
		return nil, &PersistenceError{Op: "get profile", Cause: err}
	}
	if profile == nil {
		return nil, ErrNotFound
	}
	lc := ComputeLifetimeComp(*profile)
	return &lc, nil
}

// OrgBalances computes the balance table for every active profile.
func (s *Service) OrgBalances(ctx context.Context, year int) ([]BalanceSnapshot, error) {
	profiles, err := s.Store.ListProfiles(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list profiles", Cause: err}
	}

	table := make([]BalanceSnapshot, 0, len(profiles))
	for _, p := range profiles {
		if !p.IsActive() {
			continue
		}
		snap, err := s.balanceFor(ctx, p, year)
		if err != nil {
			return nil, err
		}
		table = append(table, *snap)
	}
	return table, nil
}

func (s *Service) balanceFor(ctx context.Context, profile Profile, year int) (*BalanceSnapshot, error) {
	alloc, err := s.Store.GetAllocation(ctx, profile.UserID, year)
	if err != nil {
		return nil, &PersistenceError{Op: "get allocation", Cause: err}
	}
	leaveRecs, err := s.Store.ListLeaveRequestsByOwner(ctx, profile.UserID)
	if err != nil {
		return nil, &PersistenceError{Op: "list leave requests", Cause: err}
	}
	otRecs, err := s.Store.ListOvertimeRequestsByOwner(ctx, profile.UserID)
	if err != nil {
		return nil, &PersistenceError{Op: "list overtime requests", Cause: err}
	}

	snap := ComputeBalance(BalanceInput{
		UserID:       profile.UserID,
		Year:         year,
		CurrentYear:  s.Now().Year(),
		Allocation:   alloc,
		Profile:      &profile,
		LiveLeave:    ResolveLive(leaveRecs),
		LiveOvertime: ResolveLive(otRecs),
	})
	return &snap, nil
}

// =============================================================================
// CALENDAR
// =============================================================================

// CalendarEntry is one live record placed on the calendar.
type CalendarEntry struct {
	Date      Date
	UserID    UserID
	Kind      string // "leave" or "overtime"
	LeaveType LeaveType
	Status    Status
	Days      string // display amount for leave entries
	Hours     string // recognized hours for overtime entries
}

// Calendar returns live entries within a month. user empty means the
// whole organization (org-wide schedule); a multi-day leave yields one
// entry per day inside the month window.
func (s *Service) Calendar(ctx context.Context, user UserID, year int, month time.Month) ([]CalendarEntry, error) {
	var (
		leaveRecs []LeaveRequest
		otRecs    []OvertimeRequest
		err       error
	)
	if user != "" {
		leaveRecs, err = s.Store.ListLeaveRequestsByOwner(ctx, user)
		if err == nil {
			otRecs, err = s.Store.ListOvertimeRequestsByOwner(ctx, user)
		}
	} else {
		leaveRecs, err = s.Store.ListLeaveRequests(ctx)
		if err == nil {
			otRecs, err = s.Store.ListOvertimeRequests(ctx)
		}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "list requests", Cause: err}
	}

	monthStart := NewDate(year, month, 1)
	monthEnd := monthStart.AddDays(daysIn(year, month) - 1)

	var entries []CalendarEntry
	for _, r := range ResolveLive(leaveRecs) {
		if r.EndDate.Before(monthStart) || r.StartDate.After(monthEnd) {
			continue
		}
		for d := maxDate(r.StartDate, monthStart); !d.After(minDate(r.EndDate, monthEnd)); d = d.AddDays(1) {
			entries = append(entries, CalendarEntry{
				Date:      d,
				UserID:    r.OwnerID,
				Kind:      "leave",
				LeaveType: r.LeaveType,
				Status:    r.Status,
				Days:      r.TotalDays.String(),
			})
		}
	}
	for _, r := range ResolveLive(otRecs) {
		if r.WorkDate.Before(monthStart) || r.WorkDate.After(monthEnd) {
			continue
		}
		entries = append(entries, CalendarEntry{
			Date:   r.WorkDate,
			UserID: r.OwnerID,
			Kind:   "overtime",
			Status: r.Status,
			Hours:  r.RecognizedHours.String(),
		})
	}
	return entries, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func maxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

func minDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

// =============================================================================
// APPROVAL INBOX
// =============================================================================

// PendingApprovals returns the lines awaiting a given approver that are
// actually actionable: every line with a lower step order on the same
// request is already approved. Pending lines blocked behind earlier steps
// are not part of the inbox.
func (s *Service) PendingApprovals(ctx context.Context, approver UserID) ([]ApprovalLine, error) {
	lines, err := s.Store.ListPendingLinesByApprover(ctx, approver)
	if err != nil {
		return nil, &PersistenceError{Op: "list pending lines", Cause: err}
	}

	var actionable []ApprovalLine
	for _, l := range lines {
		req, _ := l.RequestRef()
		siblings, err := s.Store.ListApprovalLines(ctx, req)
		if err != nil {
			return nil, &PersistenceError{Op: "list approval lines", Cause: err}
		}
		if StepReady(siblings, l) {
			actionable = append(actionable, l)
		}
	}
	return actionable, nil
}

// StepReady reports whether every line before l in the step order has
// been approved.
func StepReady(siblings []ApprovalLine, l ApprovalLine) bool {
	for _, o := range siblings {
		if o.StepOrder < l.StepOrder && o.Status != LineApproved {
			return false
		}
	}
	return true
}
