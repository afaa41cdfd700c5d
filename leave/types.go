/*
Package leave contains the core data model and read-side engine for the
leave and overtime request system.

PURPOSE:
  This package defines the ledger record types (LeaveRequest,
  OvertimeRequest, ApprovalLine) and the two read-side algorithms that make
  the system consistent everywhere:

  - LineageResolver (lineage.go): every logical request is a chain of
    immutable records linked by OriginalID. The resolver reduces a flat
    record set to the single authoritative "live" record per chain.
  - BalanceEngine (balance.go): turns live records plus per-year allocation
    overrides into annual and compensatory leave balances.

KEY CONCEPTS IN THIS FILE (types.go):
  - Date / TimeOfDay: calendar-level time values (the ledger stores dates,
    not instants; CreatedAt is the only wall-clock field)
  - LeaveRequest / OvertimeRequest: append-only ledger records
  - ApprovalLine: one approver's slot in a request's sequential path
  - Profile / AnnualLeaveAllocation: collaborator entities consumed by the
    balance engine

DESIGN PRINCIPLES:
  1. Immutability: ledger records are never edited; a change is a new
     record with RequestType update/cancel pointing at its predecessor.
  2. Precision: decimal.Decimal for day and hour amounts, never float math.
  3. Closed vocabularies: LeaveType, RequestType, Status are validated at
     the boundary; unknown values are rejected, not passed through.

SEE ALSO:
  - lineage.go: chain resolution
  - balance.go: balance computation
  - errors.go: error taxonomy
  - store.go: persistence interfaces
*/
package leave

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type RequestID string
type LineID string

// =============================================================================
// DATE / TIME OF DAY - calendar-level time values
// =============================================================================

// Date is a calendar date (UTC, day granularity). Ledger periods and work
// dates are dates, not instants.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func Today(now time.Time) Date {
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) Year() int              { return d.Time.Year() }
func (d Date) Month() time.Month      { return d.Time.Month() }
func (d Date) Day() int               { return d.Time.Day() }
func (d Date) Weekday() time.Weekday  { return d.Time.Weekday() }
func (d Date) IsZero() bool           { return d.Time.IsZero() }
func (d Date) Before(o Date) bool     { return d.normalize().Before(o.normalize()) }
func (d Date) After(o Date) bool      { return d.normalize().After(o.normalize()) }
func (d Date) Equal(o Date) bool      { return d.normalize().Equal(o.normalize()) }
func (d Date) String() string         { return d.Time.Format("2006-01-02") }
func (d Date) AddDays(n int) Date     { return Date{Time: d.Time.AddDate(0, 0, n)} }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// TimeOfDay is a wall-clock time within a day, minute granularity.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func NewTimeOfDay(hour, minute int) TimeOfDay { return TimeOfDay{Hour: hour, Minute: minute} }

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) Minutes() int   { return t.Hour*60 + t.Minute }
func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute) }

// =============================================================================
// CLOSED VOCABULARIES
// =============================================================================

// LeaveType is the closed set of leave categories. Unknown values are
// rejected at the boundary.
type LeaveType string

const (
	LeaveAnnual          LeaveType = "annual"
	LeaveHalfDayAM       LeaveType = "half_day_am"
	LeaveHalfDayPM       LeaveType = "half_day_pm"
	LeaveCompFull        LeaveType = "comp_replacement_full"
	LeaveCompHalf        LeaveType = "comp_replacement_half"
	LeaveSick            LeaveType = "sick"
	LeaveBereavement     LeaveType = "bereavement"
	LeaveAdminAdjustment LeaveType = "admin_adjustment"
	LeaveOther           LeaveType = "other"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveAnnual, LeaveHalfDayAM, LeaveHalfDayPM, LeaveCompFull, LeaveCompHalf,
		LeaveSick, LeaveBereavement, LeaveAdminAdjustment, LeaveOther:
		return true
	}
	return false
}

// IsCompensatory reports whether the leave consumes recognized overtime.
func (t LeaveType) IsCompensatory() bool {
	return t == LeaveCompFull || t == LeaveCompHalf
}

// RequestType marks a record's role in a lineage chain.
type RequestType string

const (
	RequestCreate RequestType = "create"
	RequestUpdate RequestType = "update"
	RequestCancel RequestType = "cancel"
)

func (t RequestType) Valid() bool {
	return t == RequestCreate || t == RequestUpdate || t == RequestCancel
}

// Status is the approval outcome of a ledger record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// LineStatus is the state of a single approval line. Terminal once decided.
type LineStatus string

const (
	LinePending  LineStatus = "pending"
	LineApproved LineStatus = "approved"
	LineRejected LineStatus = "rejected"
)

func (s LineStatus) Valid() bool {
	return s == LinePending || s == LineApproved || s == LineRejected
}

// =============================================================================
// LEAVE REQUEST - append-only ledger record
// =============================================================================

// SubstituteSlot records a compensatory-replacement substitute work slot.
// Informational only; balance math never reads it.
type SubstituteSlot struct {
	Date  Date      `json:"date"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

type LeaveRequest struct {
	ID      RequestID
	OwnerID UserID

	LeaveType   LeaveType
	RequestType RequestType

	// OriginalID points at the record this one supersedes.
	// Nil only for the first record of a chain.
	OriginalID *RequestID

	StartDate Date
	EndDate   Date
	// Set only for partial-day leave.
	StartTime *TimeOfDay
	EndTime   *TimeOfDay

	// TotalDays is the amount deducted (1.0, 0.5, 0.25, ...).
	TotalDays decimal.Decimal

	// OvertimeID references the overtime this compensatory leave consumes.
	// Required for compensatory types, nil otherwise.
	OvertimeID *RequestID

	// Up to two substitute-work slots for compensatory-replacement leave.
	Substitutes []SubstituteSlot

	Status Status
	Reason string

	// CreatedAt is the chain recency key. Immutable.
	CreatedAt time.Time
}

// DeductedHours is the display value derived from TotalDays.
func (r LeaveRequest) DeductedHours() decimal.Decimal {
	return r.TotalDays.Mul(decimal.NewFromInt(8))
}

// Validate enforces the record invariants before any write.
func (r LeaveRequest) Validate() error {
	if r.OwnerID == "" {
		return &ValidationError{Field: "owner_id", Reason: "required"}
	}
	if !r.LeaveType.Valid() {
		return &ValidationError{Field: "leave_type", Reason: fmt.Sprintf("unknown value %q", r.LeaveType)}
	}
	if !r.RequestType.Valid() {
		return &ValidationError{Field: "request_type", Reason: fmt.Sprintf("unknown value %q", r.RequestType)}
	}
	if r.RequestType == RequestCreate && r.OriginalID != nil {
		return &ValidationError{Field: "original_leave_request_id", Reason: "must be empty on a create record"}
	}
	if r.RequestType != RequestCreate && r.OriginalID == nil {
		return &ValidationError{Field: "original_leave_request_id", Reason: "required on update/cancel records"}
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return &ValidationError{Field: "period", Reason: "start_date and end_date are required"}
	}
	if r.EndDate.Before(r.StartDate) {
		return &ValidationError{Field: "period", Reason: "end_date before start_date"}
	}
	if r.LeaveType.IsCompensatory() && r.OvertimeID == nil {
		return &ValidationError{Field: "overtime_request_id", Reason: "required for compensatory leave"}
	}
	if len(r.Substitutes) > 2 {
		return &ValidationError{Field: "substitutes", Reason: "at most two substitute slots"}
	}
	if r.TotalDays.IsNegative() && r.LeaveType != LeaveAdminAdjustment {
		return &ValidationError{Field: "total_leave_days", Reason: "must not be negative"}
	}
	return nil
}

// =============================================================================
// OVERTIME REQUEST - mirrors the leave lineage shape
// =============================================================================

// WorkInterval is one planned work segment within an overtime request.
type WorkInterval struct {
	Start       TimeOfDay `json:"start"`
	End         TimeOfDay `json:"end"`
	Description string    `json:"description"`
}

type OvertimeRequest struct {
	ID      RequestID
	OwnerID UserID

	RequestType RequestType
	OriginalID  *RequestID

	WorkDate  Date
	StartTime TimeOfDay
	EndTime   TimeOfDay

	// TotalHours is raw worked time; RecognizedHours/Days is the converted
	// compensatory value (overtime.Convert output, stored at submission).
	TotalHours      decimal.Decimal
	RecognizedHours decimal.Decimal
	RecognizedDays  decimal.Decimal

	IsHoliday bool

	Title    string
	Location string
	Reason   string

	PlannedWork []WorkInterval

	Status    Status
	CreatedAt time.Time
}

func (r OvertimeRequest) Validate() error {
	if r.OwnerID == "" {
		return &ValidationError{Field: "owner_id", Reason: "required"}
	}
	if !r.RequestType.Valid() {
		return &ValidationError{Field: "request_type", Reason: fmt.Sprintf("unknown value %q", r.RequestType)}
	}
	if r.RequestType == RequestCreate && r.OriginalID != nil {
		return &ValidationError{Field: "original_overtime_request_id", Reason: "must be empty on a create record"}
	}
	if r.RequestType != RequestCreate && r.OriginalID == nil {
		return &ValidationError{Field: "original_overtime_request_id", Reason: "required on update/cancel records"}
	}
	if r.WorkDate.IsZero() {
		return &ValidationError{Field: "work_date", Reason: "required"}
	}
	return nil
}

// =============================================================================
// APPROVAL LINE - one approver's slot in the sequential path
// =============================================================================

type ApprovalLine struct {
	ID LineID

	// Exactly one of the two references is set.
	LeaveRequestID    *RequestID
	OvertimeRequestID *RequestID

	ApproverID UserID
	StepOrder  int // 1-based; step N gates step N+1
	Status     LineStatus
	Comment    string
	DecidedAt  *time.Time
	CreatedAt  time.Time
}

// RequestRef returns the referenced request ID and whether it is a leave
// request (true) or an overtime request (false).
func (l ApprovalLine) RequestRef() (RequestID, bool) {
	if l.LeaveRequestID != nil {
		return *l.LeaveRequestID, true
	}
	if l.OvertimeRequestID != nil {
		return *l.OvertimeRequestID, false
	}
	return "", false
}

func (l ApprovalLine) Validate() error {
	if (l.LeaveRequestID == nil) == (l.OvertimeRequestID == nil) {
		return &ValidationError{Field: "request_id", Reason: "exactly one of leave_request_id / overtime_request_id must be set"}
	}
	if l.ApproverID == "" {
		return &ValidationError{Field: "approver_id", Reason: "required"}
	}
	if l.StepOrder < 1 {
		return &ValidationError{Field: "step_order", Reason: "must be >= 1"}
	}
	if !l.Status.Valid() {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown value %q", l.Status)}
	}
	return nil
}

// =============================================================================
// COLLABORATOR ENTITIES
// =============================================================================

// Profile is the external profile record consumed by the balance engine.
// The legacy TotalLeaveDays default applies to the current year only; the
// Extra* counters are lifetime compensatory totals kept in sync by the
// admin adjustment logger.
type Profile struct {
	UserID     UserID
	Name       string
	Department string
	Position   string
	Role       string

	TotalLeaveDays     decimal.Decimal
	UsedLeaveDays      decimal.Decimal
	ExtraLeaveDays     decimal.Decimal
	ExtraUsedLeaveDays decimal.Decimal

	JoinDate   Date
	ResignedAt *Date
}

func (p Profile) IsAdmin() bool  { return p.Role == "admin" }
func (p Profile) IsActive() bool { return p.ResignedAt == nil }

// AnnualLeaveAllocation overrides the base entitlement for one (user, year).
type AnnualLeaveAllocation struct {
	UserID    UserID
	Year      int
	TotalDays decimal.Decimal
}

// Holiday is a calendar holiday consumed by the overtime converter.
type Holiday struct {
	Date  Date
	Title string
}
