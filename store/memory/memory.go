/*
Package memory provides an in-memory implementation of the leave engine
storage interfaces, for testing and development.

TRANSACTIONS:
  WithTx snapshots every map before running fn and restores the snapshot
  if fn fails. A second mutex serializes transactions so a rollback never
  clobbers a concurrent writer.

SEE ALSO:
  - leave/store.go: interface definitions and contracts
  - store/sqlite: the SQLite implementation used by the server
*/
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/leave-engine/leave"
)

// Memory implements leave.TxStore with plain maps.
type Memory struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	leaveRequests    map[leave.RequestID]leave.LeaveRequest
	overtimeRequests map[leave.RequestID]leave.OvertimeRequest
	approvalLines    map[leave.LineID]leave.ApprovalLine
	profiles         map[leave.UserID]leave.Profile
	allocations      map[allocationKey]leave.AnnualLeaveAllocation
	holidays         map[string]leave.Holiday
}

type allocationKey struct {
	UserID leave.UserID
	Year   int
}

func New() *Memory {
	return &Memory{
		leaveRequests:    make(map[leave.RequestID]leave.LeaveRequest),
		overtimeRequests: make(map[leave.RequestID]leave.OvertimeRequest),
		approvalLines:    make(map[leave.LineID]leave.ApprovalLine),
		profiles:         make(map[leave.UserID]leave.Profile),
		allocations:      make(map[allocationKey]leave.AnnualLeaveAllocation),
		holidays:         make(map[string]leave.Holiday),
	}
}

// WithTx runs fn against the store, restoring the pre-fn state if fn
// returns an error.
func (m *Memory) WithTx(_ context.Context, fn func(leave.Store) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type state struct {
	leaveRequests    map[leave.RequestID]leave.LeaveRequest
	overtimeRequests map[leave.RequestID]leave.OvertimeRequest
	approvalLines    map[leave.LineID]leave.ApprovalLine
	profiles         map[leave.UserID]leave.Profile
	allocations      map[allocationKey]leave.AnnualLeaveAllocation
	holidays         map[string]leave.Holiday
}

func (m *Memory) snapshot() state {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return state{
		leaveRequests:    copyMap(m.leaveRequests),
		overtimeRequests: copyMap(m.overtimeRequests),
		approvalLines:    copyMap(m.approvalLines),
		profiles:         copyMap(m.profiles),
		allocations:      copyMap(m.allocations),
		holidays:         copyMap(m.holidays),
	}
}

func (m *Memory) restore(s state) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveRequests = s.leaveRequests
	m.overtimeRequests = s.overtimeRequests
	m.approvalLines = s.approvalLines
	m.profiles = s.profiles
	m.allocations = s.allocations
	m.holidays = s.holidays
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func (m *Memory) InsertLeaveRequest(_ context.Context, r leave.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveRequests[r.ID] = r
	return nil
}

func (m *Memory) GetLeaveRequest(_ context.Context, id leave.RequestID) (*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.leaveRequests[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) ListLeaveRequestsByOwner(_ context.Context, owner leave.UserID) ([]leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []leave.LeaveRequest
	for _, r := range m.leaveRequests {
		if r.OwnerID == owner {
			records = append(records, r)
		}
	}
	sortLeaveRequests(records)
	return records, nil
}

func (m *Memory) ListLeaveRequests(_ context.Context) ([]leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]leave.LeaveRequest, 0, len(m.leaveRequests))
	for _, r := range m.leaveRequests {
		records = append(records, r)
	}
	sortLeaveRequests(records)
	return records, nil
}

func (m *Memory) SetLeaveRequestStatus(_ context.Context, id leave.RequestID, status leave.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.leaveRequests[id]
	if !ok {
		return leave.ErrNotFound
	}
	r.Status = status
	m.leaveRequests[id] = r
	return nil
}

func sortLeaveRequests(records []leave.LeaveRequest) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
}

// =============================================================================
// OVERTIME REQUESTS
// =============================================================================

func (m *Memory) InsertOvertimeRequest(_ context.Context, r leave.OvertimeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overtimeRequests[r.ID] = r
	return nil
}

func (m *Memory) GetOvertimeRequest(_ context.Context, id leave.RequestID) (*leave.OvertimeRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.overtimeRequests[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *Memory) ListOvertimeRequestsByOwner(_ context.Context, owner leave.UserID) ([]leave.OvertimeRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []leave.OvertimeRequest
	for _, r := range m.overtimeRequests {
		if r.OwnerID == owner {
			records = append(records, r)
		}
	}
	sortOvertimeRequests(records)
	return records, nil
}

func (m *Memory) ListOvertimeRequests(_ context.Context) ([]leave.OvertimeRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]leave.OvertimeRequest, 0, len(m.overtimeRequests))
	for _, r := range m.overtimeRequests {
		records = append(records, r)
	}
	sortOvertimeRequests(records)
	return records, nil
}

func (m *Memory) SetOvertimeRequestStatus(_ context.Context, id leave.RequestID, status leave.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.overtimeRequests[id]
	if !ok {
		return leave.ErrNotFound
	}
	r.Status = status
	m.overtimeRequests[id] = r
	return nil
}

func sortOvertimeRequests(records []leave.OvertimeRequest) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
}

// =============================================================================
// APPROVAL LINES
// =============================================================================

func (m *Memory) InsertApprovalLine(_ context.Context, l leave.ApprovalLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approvalLines[l.ID] = l
	return nil
}

func (m *Memory) GetApprovalLine(_ context.Context, id leave.LineID) (*leave.ApprovalLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.approvalLines[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *Memory) ListApprovalLines(_ context.Context, request leave.RequestID) ([]leave.ApprovalLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lines []leave.ApprovalLine
	for _, l := range m.approvalLines {
		if ref, _ := l.RequestRef(); ref == request {
			lines = append(lines, l)
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].StepOrder < lines[j].StepOrder
	})
	return lines, nil
}

func (m *Memory) ListPendingLinesByApprover(_ context.Context, approver leave.UserID) ([]leave.ApprovalLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lines []leave.ApprovalLine
	for _, l := range m.approvalLines {
		if l.ApproverID == approver && l.Status == leave.LinePending {
			lines = append(lines, l)
		}
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].CreatedAt.Equal(lines[j].CreatedAt) {
			return lines[i].CreatedAt.Before(lines[j].CreatedAt)
		}
		return lines[i].StepOrder < lines[j].StepOrder
	})
	return lines, nil
}

// DecideLine only flips pending lines; the bool result reports whether
// this call won the swap, matching the SQLite implementation.
func (m *Memory) DecideLine(_ context.Context, id leave.LineID, status leave.LineStatus, comment string, decidedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.approvalLines[id]
	if !ok || l.Status != leave.LinePending {
		return false, nil
	}
	l.Status = status
	l.Comment = comment
	t := decidedAt
	l.DecidedAt = &t
	m.approvalLines[id] = l
	return true, nil
}

// =============================================================================
// PROFILES
// =============================================================================

func (m *Memory) GetProfile(_ context.Context, user leave.UserID) (*leave.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[user]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) SaveProfile(_ context.Context, p leave.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.UserID] = p
	return nil
}

func (m *Memory) ListProfiles(_ context.Context) ([]leave.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]leave.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].UserID < profiles[j].UserID
	})
	return profiles, nil
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

func (m *Memory) GetAllocation(_ context.Context, user leave.UserID, year int) (*leave.AnnualLeaveAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.allocations[allocationKey{UserID: user, Year: year}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *Memory) SetAllocation(_ context.Context, a leave.AnnualLeaveAllocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.allocations[allocationKey{UserID: a.UserID, Year: a.Year}] = a
	return nil
}

func (m *Memory) ListAllocationsByYear(_ context.Context, year int) ([]leave.AnnualLeaveAllocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var allocations []leave.AnnualLeaveAllocation
	for k, a := range m.allocations {
		if k.Year == year {
			allocations = append(allocations, a)
		}
	}
	sort.Slice(allocations, func(i, j int) bool {
		return allocations[i].UserID < allocations[j].UserID
	})
	return allocations, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) ListHolidays(_ context.Context, from, to leave.Date) ([]leave.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var holidays []leave.Holiday
	for _, h := range m.holidays {
		if h.Date.Before(from) || h.Date.After(to) {
			continue
		}
		holidays = append(holidays, h)
	}
	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays, nil
}

func (m *Memory) IsHoliday(_ context.Context, d leave.Date) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.holidays[d.String()]
	return ok, nil
}

func (m *Memory) SaveHoliday(_ context.Context, h leave.Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.Date.String()] = h
	return nil
}

func (m *Memory) DeleteHoliday(_ context.Context, d leave.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holidays, d.String())
	return nil
}
