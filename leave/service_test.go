package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*leave.Service, *memory.Memory) {
	t.Helper()
	store := memory.New()
	svc := leave.NewService(store)
	svc.Now = func() time.Time { return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func insertLeave(t *testing.T, store *memory.Memory, r leave.LeaveRequest) {
	t.Helper()
	require.NoError(t, store.InsertLeaveRequest(context.Background(), r))
}

// =============================================================================
// LIVE REQUESTS
// =============================================================================

func TestLiveRequests_ChainResolutionAndYearFilter(t *testing.T) {
	// GIVEN: A chain a -> b (b moves the leave into 2025) plus a separate
	//        2026 request
	// WHEN: Listing live requests per year
	// THEN: Each year sees only its live records; a never appears

	svc, store := newTestService(t)
	ctx := context.Background()

	a := approvedLeave("a", leave.LeaveAnnual, 2026, "1")
	insertLeave(t, store, a)

	b := approvedLeave("b", leave.LeaveAnnual, 2025, "1")
	b.RequestType = leave.RequestUpdate
	b.OriginalID = &a.ID
	b.CreatedAt = a.CreatedAt.Add(time.Hour)
	insertLeave(t, store, b)

	insertLeave(t, store, approvedLeave("x", leave.LeaveAnnual, 2026, "2"))

	in2025, err := svc.LiveRequests(ctx, "u1", 2025)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, liveIDs(in2025.Leave))

	in2026, err := svc.LiveRequests(ctx, "u1", 2026)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, liveIDs(in2026.Leave))

	all, err := svc.LiveRequests(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, all.Leave, 2)
}

func TestChainHistory_IncludesCancelledMembers(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	a := approvedLeave("a", leave.LeaveAnnual, 2026, "1")
	insertLeave(t, store, a)

	c := approvedLeave("c", leave.LeaveAnnual, 2026, "1")
	c.RequestType = leave.RequestCancel
	c.OriginalID = &a.ID
	c.CreatedAt = a.CreatedAt.Add(time.Hour)
	insertLeave(t, store, c)

	history, err := svc.ChainHistory(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, liveIDs(history.Leave))
	assert.Empty(t, history.Overtime)

	_, err = svc.ChainHistory(ctx, "missing")
	assert.ErrorIs(t, err, leave.ErrNotFound)
}

func TestChainHistory_OvertimeChain(t *testing.T) {
	// GIVEN: An overtime chain ot-a -> ot-b
	// THEN: History from either member returns the overtime lineage,
	//       oldest first

	svc, store := newTestService(t)
	ctx := context.Background()

	a := liveOvertime("ot-a", 2026, "6")
	require.NoError(t, store.InsertOvertimeRequest(ctx, a))

	b := liveOvertime("ot-b", 2026, "8")
	b.RequestType = leave.RequestUpdate
	b.OriginalID = &a.ID
	b.CreatedAt = a.CreatedAt.Add(time.Hour)
	require.NoError(t, store.InsertOvertimeRequest(ctx, b))

	history, err := svc.ChainHistory(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, history.Leave)
	require.Len(t, history.Overtime, 2)
	assert.Equal(t, leave.RequestID("ot-a"), history.Overtime[0].ID)
	assert.Equal(t, leave.RequestID("ot-b"), history.Overtime[1].ID)
}

// =============================================================================
// BALANCES THROUGH THE SERVICE
// =============================================================================

func TestBalance_AllocationFallback(t *testing.T) {
	// GIVEN: A profile default of 15 and an allocation row of 20 for 2025
	// THEN: 2025 uses the allocation, 2026 (current year) falls back to
	//       the profile default

	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, *testProfile("15")))
	require.NoError(t, store.SetAllocation(ctx, leave.AnnualLeaveAllocation{
		UserID: "u1", Year: 2025, TotalDays: decimal.NewFromInt(20),
	}))

	past, err := svc.Balance(ctx, "u1", 2025)
	require.NoError(t, err)
	assert.Equal(t, "20", past.AnnualTotal.String())

	current, err := svc.Balance(ctx, "u1", 2026)
	require.NoError(t, err)
	assert.Equal(t, "15", current.AnnualTotal.String())
}

func TestBalance_UnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Balance(context.Background(), "ghost", 2026)
	assert.ErrorIs(t, err, leave.ErrNotFound)
}

func TestOrgBalances_SkipsResignedProfiles(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	require.NoError(t, store.SaveProfile(ctx, *testProfile("15")))

	resigned := leave.Profile{
		UserID:         "u2",
		Name:           "Former",
		TotalLeaveDays: decimal.NewFromInt(15),
	}
	left := leave.NewDate(2025, time.December, 31)
	resigned.ResignedAt = &left
	require.NoError(t, store.SaveProfile(ctx, resigned))

	table, err := svc.OrgBalances(ctx, 2026)
	require.NoError(t, err)

	require.Len(t, table, 1)
	assert.Equal(t, leave.UserID("u1"), table[0].UserID)
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestCalendar_MultiDayLeaveClippedToMonth(t *testing.T) {
	// A leave spanning May 30 - June 2 contributes exactly two June entries.
	svc, store := newTestService(t)
	ctx := context.Background()

	r := approvedLeave("a", leave.LeaveAnnual, 2026, "4")
	r.StartDate = leave.NewDate(2026, time.May, 30)
	r.EndDate = leave.NewDate(2026, time.June, 2)
	insertLeave(t, store, r)

	entries, err := svc.Calendar(ctx, "u1", 2026, time.June)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "2026-06-01", entries[0].Date.String())
	assert.Equal(t, "2026-06-02", entries[1].Date.String())
	assert.Equal(t, "leave", entries[0].Kind)
}

func TestCalendar_OrgWideIncludesAllUsers(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	insertLeave(t, store, approvedLeave("a", leave.LeaveAnnual, 2026, "1"))

	other := approvedLeave("b", leave.LeaveAnnual, 2026, "1")
	other.OwnerID = "u2"
	insertLeave(t, store, other)

	ot := liveOvertime("o1", 2026, "6")
	require.NoError(t, store.InsertOvertimeRequest(ctx, ot))

	entries, err := svc.Calendar(ctx, "", 2026, time.June)
	require.NoError(t, err)

	users := map[leave.UserID]bool{}
	kinds := map[string]int{}
	for _, e := range entries {
		users[e.UserID] = true
		kinds[e.Kind]++
	}
	assert.True(t, users["u1"] && users["u2"])
	assert.Equal(t, 2, kinds["leave"])
	assert.Equal(t, 1, kinds["overtime"])
}

// =============================================================================
// APPROVAL INBOX
// =============================================================================

func TestStepReady(t *testing.T) {
	lines := []leave.ApprovalLine{
		{ID: "l1", StepOrder: 1, Status: leave.LinePending},
		{ID: "l2", StepOrder: 2, Status: leave.LinePending},
	}

	assert.True(t, leave.StepReady(lines, lines[0]), "first step is always ready")
	assert.False(t, leave.StepReady(lines, lines[1]), "second step waits for the first")

	lines[0].Status = leave.LineApproved
	assert.True(t, leave.StepReady(lines, lines[1]))

	lines[0].Status = leave.LineRejected
	assert.False(t, leave.StepReady(lines, lines[1]), "rejected steps never unblock later ones")
}

func TestPendingApprovals_OnlyActionableLines(t *testing.T) {
	// GIVEN: The approver sits at step 1 of one request and step 2 of
	//        another whose step 1 is still pending
	// THEN: Only the step-1 line shows up in the inbox

	svc, store := newTestService(t)
	ctx := context.Background()

	reqA := leave.RequestID("req-a")
	reqB := leave.RequestID("req-b")
	now := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)

	for _, l := range []leave.ApprovalLine{
		{ID: "a1", LeaveRequestID: &reqA, ApproverID: "mgr", StepOrder: 1, Status: leave.LinePending, CreatedAt: now},
		{ID: "b1", LeaveRequestID: &reqB, ApproverID: "other", StepOrder: 1, Status: leave.LinePending, CreatedAt: now},
		{ID: "b2", LeaveRequestID: &reqB, ApproverID: "mgr", StepOrder: 2, Status: leave.LinePending, CreatedAt: now},
	} {
		require.NoError(t, store.InsertApprovalLine(ctx, l))
	}

	inbox, err := svc.PendingApprovals(ctx, "mgr")
	require.NoError(t, err)

	require.Len(t, inbox, 1)
	assert.Equal(t, leave.LineID("a1"), inbox[0].ID)
}
