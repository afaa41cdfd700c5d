/*
handlers.go - HTTP API handlers for the leave engine

PURPOSE:
  Exposes the leave and overtime engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Requests:
    GET    /api/users/{id}/requests       Live (resolved) requests
    GET    /api/users/{id}/balance        Balance snapshot for a year
    GET    /api/users/{id}/comp           Lifetime compensatory balance
    GET    /api/requests/{id}/history     Full supersession chain
    POST   /api/requests/leave            Submit leave (create/update/cancel)
    POST   /api/requests/overtime         Submit overtime (create/update/cancel)

  Approvals:
    GET    /api/approvals/pending         Actionable inbox for an approver
    POST   /api/approvals/{id}/decide     Approve or reject one line

  Views:
    GET    /api/balances                  Org-wide balance table
    GET    /api/calendar                  Monthly calendar (user or org)

  Admin:
    POST   /api/admin/adjustments         Counter adjustment with audit records
    POST   /api/admin/allocations         Set annual entitlement

  Reference data:
    GET/POST/DELETE /api/holidays         Holiday calendar
    GET/PUT         /api/profiles         Collaborator profiles

ERROR HANDLING:
  Domain errors map onto HTTP status via the shared taxonomy:
  - 400: validation errors, malformed input
  - 403: authorization errors
  - 404: unknown records
  - 409: lost decision races, steps not ready
  - 500: persistence and unexpected errors

SECURITY NOTE:
  Actor identity comes from request bodies and query parameters; there is
  no authentication middleware. Deploy behind a gateway that injects
  trusted identities.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/leave-engine/approval"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service     *leave.Service
	Workflow    *approval.Workflow
	Adjustments *approval.AdjustmentLogger
	Store       leave.TxStore
	Logger      *zap.Logger

	validate *validator.Validate
}

// NewHandler creates a new handler wired to the given store.
func NewHandler(store leave.TxStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Service:     leave.NewService(store),
		Workflow:    approval.NewWorkflow(store, logger),
		Adjustments: approval.NewAdjustmentLogger(store, logger),
		Store:       store,
		Logger:      logger,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// =============================================================================
// REQUEST VIEWS
// =============================================================================

// GetLiveRequests returns the resolved live requests for a user.
// GET /api/users/{id}/requests?year=2026
func (h *Handler) GetLiveRequests(w http.ResponseWriter, r *http.Request) {
	user := leave.UserID(chi.URLParam(r, "id"))
	year, ok := optionalYear(w, r)
	if !ok {
		return
	}

	set, err := h.Service.LiveRequests(r.Context(), user, year)
	if err != nil {
		writeDomainError(w, "Failed to resolve live requests", err)
		return
	}

	writeJSON(w, http.StatusOK, LiveRequestsDTO{
		Leave:    toLeaveRequestDTOs(set.Leave),
		Overtime: toOvertimeRequestDTOs(set.Overtime),
	})
}

// GetChainHistory returns every record in the chain containing the given
// request, oldest first, including cancelled and rejected members. The
// array shape follows the request kind the id belongs to.
// GET /api/requests/{id}/history
func (h *Handler) GetChainHistory(w http.ResponseWriter, r *http.Request) {
	id := leave.RequestID(chi.URLParam(r, "id"))

	set, err := h.Service.ChainHistory(r.Context(), id)
	if err != nil {
		writeDomainError(w, "Failed to load chain history", err)
		return
	}
	if len(set.Overtime) > 0 {
		writeJSON(w, http.StatusOK, toOvertimeRequestDTOs(set.Overtime))
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTOs(set.Leave))
}

// GetBalance returns a user's balance snapshot for a year.
// GET /api/users/{id}/balance?year=2026
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	user := leave.UserID(chi.URLParam(r, "id"))
	year, ok := requiredYear(w, r)
	if !ok {
		return
	}

	snap, err := h.Service.Balance(r.Context(), user, year)
	if err != nil {
		writeDomainError(w, "Failed to compute balance", err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(*snap))
}

// GetLifetimeComp returns the running compensatory balance held on the
// profile counters, not scoped to a year.
// GET /api/users/{id}/comp
func (h *Handler) GetLifetimeComp(w http.ResponseWriter, r *http.Request) {
	user := leave.UserID(chi.URLParam(r, "id"))

	comp, err := h.Service.LifetimeComp(r.Context(), user)
	if err != nil {
		writeDomainError(w, "Failed to compute compensatory balance", err)
		return
	}
	writeJSON(w, http.StatusOK, LifetimeCompDTO{
		UserID:    string(comp.UserID),
		Generated: comp.Generated.String(),
		Used:      comp.Used.String(),
		Remaining: comp.Remaining.String(),
	})
}

// GetOrgBalances returns balance snapshots for every active profile.
// GET /api/balances?year=2026
func (h *Handler) GetOrgBalances(w http.ResponseWriter, r *http.Request) {
	year, ok := requiredYear(w, r)
	if !ok {
		return
	}

	snaps, err := h.Service.OrgBalances(r.Context(), year)
	if err != nil {
		writeDomainError(w, "Failed to compute balances", err)
		return
	}

	dtos := make([]BalanceDTO, len(snaps))
	for i, s := range snaps {
		dtos[i] = toBalanceDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCalendar returns live entries for a month, per user or org-wide.
// GET /api/calendar?year=2026&month=9&user=u1
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	year, ok := requiredYear(w, r)
	if !ok {
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1-12", err)
		return
	}
	user := leave.UserID(r.URL.Query().Get("user"))

	entries, err := h.Service.Calendar(r.Context(), user, year, time.Month(month))
	if err != nil {
		writeDomainError(w, "Failed to build calendar", err)
		return
	}

	dtos := make([]CalendarEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = CalendarEntryDTO{
			Date:      e.Date.String(),
			UserID:    string(e.UserID),
			Kind:      e.Kind,
			LeaveType: string(e.LeaveType),
			Status:    string(e.Status),
			Days:      e.Days,
			Hours:     e.Hours,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// SUBMISSION
// =============================================================================

// SubmitLeave submits a leave request (create, update, or cancel) with
// its approver sequence.
// POST /api/requests/leave
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeaveRequest
	if !h.decode(w, r, &req) {
		return
	}

	record, err := h.buildLeaveRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave request", err)
		return
	}

	created, err := h.Workflow.SubmitLeave(r.Context(), *record, toUserIDs(req.Approvers))
	if err != nil {
		writeDomainError(w, "Failed to submit leave request", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(*created))
}

// SubmitOvertime submits an overtime request. Recognized hours and days
// are computed server-side from the work interval and day class.
// POST /api/requests/overtime
func (h *Handler) SubmitOvertime(w http.ResponseWriter, r *http.Request) {
	var req SubmitOvertimeRequest
	if !h.decode(w, r, &req) {
		return
	}

	record, err := h.buildOvertimeRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid overtime request", err)
		return
	}

	created, err := h.Workflow.SubmitOvertime(r.Context(), *record, toUserIDs(req.Approvers))
	if err != nil {
		writeDomainError(w, "Failed to submit overtime request", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOvertimeRequestDTO(*created))
}

func (h *Handler) buildLeaveRequest(req SubmitLeaveRequest) (*leave.LeaveRequest, error) {
	startDate, err := leave.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	endDate, err := leave.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}
	totalDays, err := decimal.NewFromString(req.TotalDays)
	if err != nil {
		return nil, fmt.Errorf("total_days: %w", err)
	}
	startTime, err := optionalTimeOfDay(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	endTime, err := optionalTimeOfDay(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("end_time: %w", err)
	}

	record := leave.LeaveRequest{
		OwnerID:     leave.UserID(req.OwnerID),
		LeaveType:   leave.LeaveType(req.LeaveType),
		RequestType: leave.RequestType(req.RequestType),
		OriginalID:  optionalRequestID(req.OriginalID),
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   startTime,
		EndTime:     endTime,
		TotalDays:   totalDays,
		OvertimeID:  optionalRequestID(req.OvertimeRequestID),
		Reason:      req.Reason,
	}
	for _, s := range req.Substitutes {
		date, err := leave.ParseDate(s.Date)
		if err != nil {
			return nil, fmt.Errorf("substitute date: %w", err)
		}
		start, err := leave.ParseTimeOfDay(s.Start)
		if err != nil {
			return nil, fmt.Errorf("substitute start: %w", err)
		}
		end, err := leave.ParseTimeOfDay(s.End)
		if err != nil {
			return nil, fmt.Errorf("substitute end: %w", err)
		}
		record.Substitutes = append(record.Substitutes, leave.SubstituteSlot{
			Date:  date,
			Start: start,
			End:   end,
		})
	}
	return &record, nil
}

func (h *Handler) buildOvertimeRequest(req SubmitOvertimeRequest) (*leave.OvertimeRequest, error) {
	workDate, err := leave.ParseDate(req.WorkDate)
	if err != nil {
		return nil, fmt.Errorf("work_date: %w", err)
	}
	startTime, err := leave.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	endTime, err := leave.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("end_time: %w", err)
	}

	record := leave.OvertimeRequest{
		OwnerID:     leave.UserID(req.OwnerID),
		RequestType: leave.RequestType(req.RequestType),
		OriginalID:  optionalRequestID(req.OriginalID),
		WorkDate:    workDate,
		StartTime:   startTime,
		EndTime:     endTime,
		IsHoliday:   req.IsHoliday,
		Title:       req.Title,
		Location:    req.Location,
		Reason:      req.Reason,
	}
	for _, iv := range req.PlannedWork {
		start, err := leave.ParseTimeOfDay(iv.Start)
		if err != nil {
			return nil, fmt.Errorf("planned work start: %w", err)
		}
		end, err := leave.ParseTimeOfDay(iv.End)
		if err != nil {
			return nil, fmt.Errorf("planned work end: %w", err)
		}
		record.PlannedWork = append(record.PlannedWork, leave.WorkInterval{
			Start:       start,
			End:         end,
			Description: iv.Description,
		})
	}
	return &record, nil
}

// =============================================================================
// APPROVALS
// =============================================================================

// GetPendingApprovals returns the actionable inbox for an approver:
// pending lines whose earlier steps have all been approved.
// GET /api/approvals/pending?approver=u2
func (h *Handler) GetPendingApprovals(w http.ResponseWriter, r *http.Request) {
	approver := leave.UserID(r.URL.Query().Get("approver"))
	if approver == "" {
		writeError(w, http.StatusBadRequest, "approver query parameter is required", nil)
		return
	}

	lines, err := h.Service.PendingApprovals(r.Context(), approver)
	if err != nil {
		writeDomainError(w, "Failed to list pending approvals", err)
		return
	}

	dtos := make([]ApprovalLineDTO, len(lines))
	for i, l := range lines {
		dtos[i] = toApprovalLineDTO(l)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DecideLine records one approver's decision on one line.
// POST /api/approvals/{id}/decide
func (h *Handler) DecideLine(w http.ResponseWriter, r *http.Request) {
	lineID := leave.LineID(chi.URLParam(r, "id"))

	var req DecideRequest
	if !h.decode(w, r, &req) {
		return
	}

	line, err := h.Workflow.Decide(r.Context(), lineID,
		leave.UserID(req.ActorID), approval.Decision(req.Decision), req.Comment)
	if err != nil {
		writeDomainError(w, "Failed to record decision", err)
		return
	}
	writeJSON(w, http.StatusOK, toApprovalLineDTO(*line))
}

// =============================================================================
// ADMIN
// =============================================================================

// CreateAdjustment applies an administrator's counter edit, writing the
// synthetic audit records alongside the new counters.
// POST /api/admin/adjustments
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequest
	if !h.decode(w, r, &req) {
		return
	}

	used, err := decimal.NewFromString(req.UsedLeaveDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "used_leave_days must be a decimal", err)
		return
	}
	extra, err := decimal.NewFromString(req.ExtraLeaveDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "extra_leave_days must be a decimal", err)
		return
	}
	extraUsed, err := decimal.NewFromString(req.ExtraUsedLeaveDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "extra_used_leave_days must be a decimal", err)
		return
	}

	result, err := h.Adjustments.Apply(r.Context(), approval.Adjustment{
		AdminID:            leave.UserID(req.AdminID),
		UserID:             leave.UserID(req.UserID),
		UsedLeaveDays:      used,
		ExtraLeaveDays:     extra,
		ExtraUsedLeaveDays: extraUsed,
	})
	if err != nil {
		writeDomainError(w, "Failed to apply adjustment", err)
		return
	}

	dto := AdjustmentResultDTO{
		LeaveRecords:    make([]string, 0, len(result.LeaveRecords)),
		OvertimeRecords: make([]string, 0, len(result.OvertimeRecords)),
		Profile:         toProfileDTO(result.Profile),
	}
	for _, id := range result.LeaveRecords {
		dto.LeaveRecords = append(dto.LeaveRecords, string(id))
	}
	for _, id := range result.OvertimeRecords {
		dto.OvertimeRecords = append(dto.OvertimeRecords, string(id))
	}
	writeJSON(w, http.StatusOK, dto)
}

// SetAllocation sets the annual entitlement for one (user, year).
// POST /api/admin/allocations
func (h *Handler) SetAllocation(w http.ResponseWriter, r *http.Request) {
	var req SetAllocationRequest
	if !h.decode(w, r, &req) {
		return
	}

	totalDays, err := decimal.NewFromString(req.TotalDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "total_days must be a decimal", err)
		return
	}

	err = h.Store.SetAllocation(r.Context(), leave.AnnualLeaveAllocation{
		UserID:    leave.UserID(req.UserID),
		Year:      req.Year,
		TotalDays: totalDays,
	})
	if err != nil {
		writeDomainError(w, "Failed to set allocation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// ListHolidays returns holidays within a date range (defaults to the
// whole current year).
// GET /api/holidays?from=2026-01-01&to=2026-12-31
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := leave.NewDate(now.Year(), time.January, 1)
	to := leave.NewDate(now.Year(), time.December, 31)

	if s := r.URL.Query().Get("from"); s != "" {
		d, err := leave.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
		from = d
	}
	if s := r.URL.Query().Get("to"); s != "" {
		d, err := leave.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
		to = d
	}

	holidays, err := h.Store.ListHolidays(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hd := range holidays {
		dtos[i] = HolidayDTO{Date: hd.Date.String(), Title: hd.Title}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveHoliday creates or renames a holiday.
// POST /api/holidays
func (h *Handler) SaveHoliday(w http.ResponseWriter, r *http.Request) {
	var req SaveHolidayRequest
	if !h.decode(w, r, &req) {
		return
	}

	date, err := leave.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.SaveHoliday(r.Context(), leave.Holiday{Date: date, Title: req.Title}); err != nil {
		writeDomainError(w, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{Date: date.String(), Title: req.Title})
}

// DeleteHoliday removes a holiday by date.
// DELETE /api/holidays/{date}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := leave.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.DeleteHoliday(r.Context(), date); err != nil {
		writeDomainError(w, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROFILES
// =============================================================================

// ListProfiles returns all collaborator profiles.
// GET /api/profiles
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Store.ListProfiles(r.Context())
	if err != nil {
		writeDomainError(w, "Failed to list profiles", err)
		return
	}

	dtos := make([]ProfileDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = toProfileDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetProfile returns one collaborator profile.
// GET /api/profiles/{id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := leave.UserID(chi.URLParam(r, "id"))

	profile, err := h.Store.GetProfile(r.Context(), user)
	if err != nil {
		writeDomainError(w, "Failed to get profile", err)
		return
	}
	if profile == nil {
		writeError(w, http.StatusNotFound, "Profile not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(*profile))
}

// SaveProfile creates or updates a collaborator profile. Usage counters
// are never written here; they move only through the approval workflow
// and admin adjustments.
// PUT /api/profiles/{id}
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	user := leave.UserID(chi.URLParam(r, "id"))

	var req SaveProfileRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.UserID != string(user) {
		writeError(w, http.StatusBadRequest, "user_id must match the URL", nil)
		return
	}

	existing, err := h.Store.GetProfile(r.Context(), user)
	if err != nil {
		writeDomainError(w, "Failed to load profile", err)
		return
	}

	profile := leave.Profile{UserID: user}
	if existing != nil {
		profile = *existing
	}
	profile.Name = req.Name
	profile.Department = req.Department
	profile.Position = req.Position
	profile.Role = req.Role

	if req.TotalLeaveDays != "" {
		total, err := decimal.NewFromString(req.TotalLeaveDays)
		if err != nil {
			writeError(w, http.StatusBadRequest, "total_leave_days must be a decimal", err)
			return
		}
		profile.TotalLeaveDays = total
	}
	if req.JoinDate != "" {
		d, err := leave.ParseDate(req.JoinDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid join_date (use YYYY-MM-DD)", err)
			return
		}
		profile.JoinDate = d
	}
	if req.ResignedAt != "" {
		d, err := leave.ParseDate(req.ResignedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid resigned_at (use YYYY-MM-DD)", err)
			return
		}
		profile.ResignedAt = &d
	} else {
		profile.ResignedAt = nil
	}

	if err := h.Store.SaveProfile(r.Context(), profile); err != nil {
		writeDomainError(w, "Failed to save profile", err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileDTO(profile))
}

// =============================================================================
// HELPERS
// =============================================================================

// decode parses and validates a JSON request body, writing a 400 response
// on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func requiredYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "year query parameter is required", err)
		return 0, false
	}
	return year, true
}

func optionalYear(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return 0, true
	}
	year, err := strconv.Atoi(s)
	if err != nil || year <= 0 {
		writeError(w, http.StatusBadRequest, "year must be a positive integer", err)
		return 0, false
	}
	return year, true
}

func optionalRequestID(s string) *leave.RequestID {
	if s == "" {
		return nil
	}
	id := leave.RequestID(s)
	return &id
}

func optionalTimeOfDay(s string) (*leave.TimeOfDay, error) {
	if s == "" {
		return nil, nil
	}
	t, err := leave.ParseTimeOfDay(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toUserIDs(ids []string) []leave.UserID {
	users := make([]leave.UserID, len(ids))
	for i, id := range ids {
		users[i] = leave.UserID(id)
	}
	return users
}

// writeDomainError maps the domain error taxonomy onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case leave.IsAuthorization(err):
		writeError(w, http.StatusForbidden, message, err)
	case leave.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case leave.IsConflict(err):
		writeError(w, http.StatusConflict, message, err)
	case leave.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
