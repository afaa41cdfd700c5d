/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request bodies carry go-playground/validator struct tags; handlers run
  the shared validator before touching domain logic. Domain invariants
  (lineage, step ordering, balances) are still enforced by the domain
  packages; the tags only reject malformed input early.

SEE ALSO:
  - handlers.go: Uses these types
  - leave/types.go: Domain model these map to
*/
package api

import (
	"time"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// SubmitLeaveRequest is the request body for submitting a leave request.
type SubmitLeaveRequest struct {
	OwnerID     string `json:"owner_id" validate:"required"`
	LeaveType   string `json:"leave_type" validate:"required"`
	RequestType string `json:"request_type" validate:"required,oneof=create update cancel"`
	OriginalID  string `json:"original_id,omitempty"`

	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	TotalDays string `json:"total_days" validate:"required"`

	OvertimeRequestID string               `json:"overtime_request_id,omitempty"`
	Substitutes       []SubstituteSlotDTO  `json:"substitutes,omitempty" validate:"max=2,dive"`
	Reason            string               `json:"reason,omitempty"`
	Approvers         []string             `json:"approvers" validate:"required,min=1,dive,required"`
}

// SubstituteSlotDTO is one substitute-work slot on a leave request.
type SubstituteSlotDTO struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// SubmitOvertimeRequest is the request body for submitting overtime.
type SubmitOvertimeRequest struct {
	OwnerID     string `json:"owner_id" validate:"required"`
	RequestType string `json:"request_type" validate:"required,oneof=create update cancel"`
	OriginalID  string `json:"original_id,omitempty"`

	WorkDate  string `json:"work_date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
	IsHoliday bool   `json:"is_holiday"`

	Title       string            `json:"title,omitempty"`
	Location    string            `json:"location,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	PlannedWork []WorkIntervalDTO `json:"planned_work,omitempty" validate:"dive"`

	Approvers []string `json:"approvers" validate:"required,min=1,dive,required"`
}

// WorkIntervalDTO is one planned work interval on an overtime request.
type WorkIntervalDTO struct {
	Start       string `json:"start" validate:"required"`
	End         string `json:"end" validate:"required"`
	Description string `json:"description,omitempty"`
}

// DecideRequest is the request body for an approval decision.
type DecideRequest struct {
	ActorID  string `json:"actor_id" validate:"required"`
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
	Comment  string `json:"comment,omitempty"`
}

// AdjustmentRequest is an administrator's counter edit. Values are the
// new counter states, not deltas.
type AdjustmentRequest struct {
	AdminID string `json:"admin_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`

	UsedLeaveDays      string `json:"used_leave_days" validate:"required"`
	ExtraLeaveDays     string `json:"extra_leave_days" validate:"required"`
	ExtraUsedLeaveDays string `json:"extra_used_leave_days" validate:"required"`
}

// SetAllocationRequest sets the annual entitlement for one (user, year).
type SetAllocationRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	Year      int    `json:"year" validate:"required,min=2000,max=2200"`
	TotalDays string `json:"total_days" validate:"required"`
}

// SaveHolidayRequest creates or renames a holiday.
type SaveHolidayRequest struct {
	Date  string `json:"date" validate:"required,datetime=2006-01-02"`
	Title string `json:"title" validate:"required"`
}

// SaveProfileRequest creates or updates a collaborator profile.
type SaveProfileRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=admin member"`

	TotalLeaveDays string `json:"total_leave_days,omitempty"`
	JoinDate       string `json:"join_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ResignedAt     string `json:"resigned_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// LeaveRequestDTO represents a leave request in API responses.
type LeaveRequestDTO struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	LeaveType   string `json:"leave_type"`
	RequestType string `json:"request_type"`
	OriginalID  string `json:"original_id,omitempty"`

	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`

	TotalDays     string `json:"total_days"`
	DeductedHours string `json:"deducted_hours"`

	OvertimeRequestID string              `json:"overtime_request_id,omitempty"`
	Substitutes       []SubstituteSlotDTO `json:"substitutes,omitempty"`

	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"created_at"`
}

// OvertimeRequestDTO represents an overtime request in API responses.
type OvertimeRequestDTO struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	RequestType string `json:"request_type"`
	OriginalID  string `json:"original_id,omitempty"`

	WorkDate  string `json:"work_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsHoliday bool   `json:"is_holiday"`

	TotalHours      string `json:"total_hours"`
	RecognizedHours string `json:"recognized_hours"`
	RecognizedDays  string `json:"recognized_days"`

	Title       string            `json:"title,omitempty"`
	Location    string            `json:"location,omitempty"`
	Reason      string            `json:"reason,omitempty"`
	PlannedWork []WorkIntervalDTO `json:"planned_work,omitempty"`

	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// LiveRequestsDTO is the resolved live view for one user.
type LiveRequestsDTO struct {
	Leave    []LeaveRequestDTO    `json:"leave"`
	Overtime []OvertimeRequestDTO `json:"overtime"`
}

// ApprovalLineDTO represents an approval line in API responses.
type ApprovalLineDTO struct {
	ID                string `json:"id"`
	LeaveRequestID    string `json:"leave_request_id,omitempty"`
	OvertimeRequestID string `json:"overtime_request_id,omitempty"`
	ApproverID        string `json:"approver_id"`
	StepOrder         int    `json:"step_order"`
	Status            string `json:"status"`
	Comment           string `json:"comment,omitempty"`
	DecidedAt         string `json:"decided_at,omitempty"`
	CreatedAt         string `json:"created_at"`
}

// BalanceDTO is one user's balance snapshot for a year.
type BalanceDTO struct {
	UserID string `json:"user_id"`
	Year   int    `json:"year"`

	AnnualTotal     string `json:"annual_total"`
	AnnualUsed      string `json:"annual_used"`
	AnnualRemaining string `json:"annual_remaining"`
	AnnualUsageRate string `json:"annual_usage_rate"`

	CompGenerated string `json:"comp_generated"`
	CompUsed      string `json:"comp_used"`
	CompRemaining string `json:"comp_remaining"`
	CompUsageRate string `json:"comp_usage_rate"`
}

// LifetimeCompDTO is the running compensatory balance from profile counters.
type LifetimeCompDTO struct {
	UserID    string `json:"user_id"`
	Generated string `json:"generated"`
	Used      string `json:"used"`
	Remaining string `json:"remaining"`
}

// CalendarEntryDTO is one live record placed on a calendar day.
type CalendarEntryDTO struct {
	Date      string `json:"date"`
	UserID    string `json:"user_id"`
	Kind      string `json:"kind"`
	LeaveType string `json:"leave_type,omitempty"`
	Status    string `json:"status"`
	Days      string `json:"days,omitempty"`
	Hours     string `json:"hours,omitempty"`
}

// ProfileDTO represents a collaborator profile in API responses.
type ProfileDTO struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Role       string `json:"role,omitempty"`

	TotalLeaveDays     string `json:"total_leave_days"`
	UsedLeaveDays      string `json:"used_leave_days"`
	ExtraLeaveDays     string `json:"extra_leave_days"`
	ExtraUsedLeaveDays string `json:"extra_used_leave_days"`

	JoinDate   string `json:"join_date,omitempty"`
	ResignedAt string `json:"resigned_at,omitempty"`
}

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	Date  string `json:"date"`
	Title string `json:"title"`
}

// AdjustmentResultDTO reports what an adjustment produced.
type AdjustmentResultDTO struct {
	LeaveRecords    []string   `json:"leave_records"`
	OvertimeRecords []string   `json:"overtime_records"`
	Profile         ProfileDTO `json:"profile"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// DOMAIN -> DTO MAPPING
// =============================================================================

func toLeaveRequestDTO(r leave.LeaveRequest) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:            string(r.ID),
		OwnerID:       string(r.OwnerID),
		LeaveType:     string(r.LeaveType),
		RequestType:   string(r.RequestType),
		StartDate:     r.StartDate.String(),
		EndDate:       r.EndDate.String(),
		TotalDays:     r.TotalDays.String(),
		DeductedHours: r.DeductedHours().String(),
		Status:        string(r.Status),
		Reason:        r.Reason,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.OriginalID != nil {
		dto.OriginalID = string(*r.OriginalID)
	}
	if r.OvertimeID != nil {
		dto.OvertimeRequestID = string(*r.OvertimeID)
	}
	if r.StartTime != nil {
		dto.StartTime = r.StartTime.String()
	}
	if r.EndTime != nil {
		dto.EndTime = r.EndTime.String()
	}
	for _, s := range r.Substitutes {
		dto.Substitutes = append(dto.Substitutes, SubstituteSlotDTO{
			Date:  s.Date.String(),
			Start: s.Start.String(),
			End:   s.End.String(),
		})
	}
	return dto
}

func toLeaveRequestDTOs(records []leave.LeaveRequest) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, len(records))
	for i, r := range records {
		dtos[i] = toLeaveRequestDTO(r)
	}
	return dtos
}

func toOvertimeRequestDTO(r leave.OvertimeRequest) OvertimeRequestDTO {
	dto := OvertimeRequestDTO{
		ID:              string(r.ID),
		OwnerID:         string(r.OwnerID),
		RequestType:     string(r.RequestType),
		WorkDate:        r.WorkDate.String(),
		StartTime:       r.StartTime.String(),
		EndTime:         r.EndTime.String(),
		IsHoliday:       r.IsHoliday,
		TotalHours:      r.TotalHours.String(),
		RecognizedHours: r.RecognizedHours.String(),
		RecognizedDays:  r.RecognizedDays.String(),
		Title:           r.Title,
		Location:        r.Location,
		Reason:          r.Reason,
		Status:          string(r.Status),
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.OriginalID != nil {
		dto.OriginalID = string(*r.OriginalID)
	}
	for _, w := range r.PlannedWork {
		dto.PlannedWork = append(dto.PlannedWork, WorkIntervalDTO{
			Start:       w.Start.String(),
			End:         w.End.String(),
			Description: w.Description,
		})
	}
	return dto
}

func toOvertimeRequestDTOs(records []leave.OvertimeRequest) []OvertimeRequestDTO {
	dtos := make([]OvertimeRequestDTO, len(records))
	for i, r := range records {
		dtos[i] = toOvertimeRequestDTO(r)
	}
	return dtos
}

func toApprovalLineDTO(l leave.ApprovalLine) ApprovalLineDTO {
	dto := ApprovalLineDTO{
		ID:         string(l.ID),
		ApproverID: string(l.ApproverID),
		StepOrder:  l.StepOrder,
		Status:     string(l.Status),
		Comment:    l.Comment,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
	if l.LeaveRequestID != nil {
		dto.LeaveRequestID = string(*l.LeaveRequestID)
	}
	if l.OvertimeRequestID != nil {
		dto.OvertimeRequestID = string(*l.OvertimeRequestID)
	}
	if l.DecidedAt != nil {
		dto.DecidedAt = l.DecidedAt.Format(time.RFC3339)
	}
	return dto
}

func toBalanceDTO(b leave.BalanceSnapshot) BalanceDTO {
	return BalanceDTO{
		UserID:          string(b.UserID),
		Year:            b.Year,
		AnnualTotal:     b.AnnualTotal.String(),
		AnnualUsed:      b.AnnualUsed.String(),
		AnnualRemaining: b.AnnualRemaining.String(),
		AnnualUsageRate: b.AnnualUsageRate.String(),
		CompGenerated:   b.CompGenerated.String(),
		CompUsed:        b.CompUsed.String(),
		CompRemaining:   b.CompRemaining.String(),
		CompUsageRate:   b.CompUsageRate.String(),
	}
}

func toProfileDTO(p leave.Profile) ProfileDTO {
	dto := ProfileDTO{
		UserID:             string(p.UserID),
		Name:               p.Name,
		Department:         p.Department,
		Position:           p.Position,
		Role:               p.Role,
		TotalLeaveDays:     p.TotalLeaveDays.String(),
		UsedLeaveDays:      p.UsedLeaveDays.String(),
		ExtraLeaveDays:     p.ExtraLeaveDays.String(),
		ExtraUsedLeaveDays: p.ExtraUsedLeaveDays.String(),
	}
	if !p.JoinDate.IsZero() {
		dto.JoinDate = p.JoinDate.String()
	}
	if p.ResignedAt != nil {
		dto.ResignedAt = p.ResignedAt.String()
	}
	return dto
}
