package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var baseTime = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func leaveRec(id string, parent string, reqType leave.RequestType, status leave.Status, createdOffset time.Duration) leave.LeaveRequest {
	r := leave.LeaveRequest{
		ID:          leave.RequestID(id),
		OwnerID:     "u1",
		LeaveType:   leave.LeaveAnnual,
		RequestType: reqType,
		StartDate:   leave.NewDate(2026, time.March, 10),
		EndDate:     leave.NewDate(2026, time.March, 10),
		TotalDays:   decimal.NewFromInt(1),
		Status:      status,
		CreatedAt:   baseTime.Add(createdOffset),
	}
	if parent != "" {
		pid := leave.RequestID(parent)
		r.OriginalID = &pid
	}
	return r
}

func liveIDs(records []leave.LeaveRequest) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = string(r.ID)
	}
	return ids
}

// =============================================================================
// CHAIN RESOLUTION
// =============================================================================

func TestResolveLive_SingleCreate(t *testing.T) {
	records := []leave.LeaveRequest{
		leaveRec("a", "", leave.RequestCreate, leave.StatusApproved, 0),
	}

	live := leave.ResolveLive(records)

	assert.Equal(t, []string{"a"}, liveIDs(live))
}

func TestResolveLive_UpdateChain_LatestWins(t *testing.T) {
	// GIVEN: A create superseded twice (a -> b -> c)
	// WHEN: Resolving the live set
	// THEN: Only c survives, with its own status

	records := []leave.LeaveRequest{
		leaveRec("a", "", leave.RequestCreate, leave.StatusApproved, 0),
		leaveRec("b", "a", leave.RequestUpdate, leave.StatusApproved, time.Hour),
		leaveRec("c", "b", leave.RequestUpdate, leave.StatusPending, 2*time.Hour),
	}

	live := leave.ResolveLive(records)

	require.Len(t, live, 1)
	assert.Equal(t, "c", string(live[0].ID))
	assert.Equal(t, leave.StatusPending, live[0].Status)
}

func TestResolveLive_CancelRemovesChain(t *testing.T) {
	// A cancel record as current state removes the chain from every view,
	// even while the cancel itself is still pending.
	records := []leave.LeaveRequest{
		leaveRec("a", "", leave.RequestCreate, leave.StatusApproved, 0),
		leaveRec("b", "a", leave.RequestCancel, leave.StatusPending, time.Hour),
	}

	live := leave.ResolveLive(records)

	assert.Empty(t, live)
}

func TestResolveLive_RejectedCurrentRemovesChain(t *testing.T) {
	records := []leave.LeaveRequest{
		leaveRec("a", "", leave.RequestCreate, leave.StatusRejected, 0),
	}

	assert.Empty(t, leave.ResolveLive(records))
}

func TestResolveLive_RejectedUpdateStillHidesChain(t *testing.T) {
	// GIVEN: An approved create whose later update was rejected
	// THEN: The chain's current state is the rejected update, so the chain
	//       contributes nothing. The original does NOT resurface.

	records := []leave.LeaveRequest{
		leaveRec("a", "", leave.RequestCreate, leave.StatusApproved, 0),
		leaveRec("b", "a", leave.RequestUpdate, leave.StatusRejected, time.Hour),
	}

	assert.Empty(t, leave.ResolveLive(records))
}

func TestResolveLive_IndependentChains(t *testing.T) {
	records := []leave.LeaveRequest{
		leaveRec("a", "", leave.RequestCreate, leave.StatusApproved, 0),
		leaveRec("b", "a", leave.RequestCancel, leave.StatusApproved, time.Hour),
		leaveRec("x", "", leave.RequestCreate, leave.StatusApproved, 0),
		leaveRec("y", "x", leave.RequestUpdate, leave.StatusApproved, time.Hour),
	}

	live := leave.ResolveLive(records)

	assert.Equal(t, []string{"y"}, liveIDs(live))
}

func TestResolveLive_TimestampTie_IDDescendingWins(t *testing.T) {
	// Identical CreatedAt inside one chain: the higher ID is treated as
	// current so resolution stays deterministic.
	records := []leave.LeaveRequest{
		leaveRec("a", "", leave.RequestCreate, leave.StatusApproved, 0),
		leaveRec("b", "a", leave.RequestUpdate, leave.StatusApproved, 0),
	}

	live := leave.ResolveLive(records)

	require.Len(t, live, 1)
	assert.Equal(t, "b", string(live[0].ID))
}

func TestResolveLive_OrphanedParentPointer(t *testing.T) {
	// A record whose parent is missing from the set acts as its own root
	// instead of being dropped.
	records := []leave.LeaveRequest{
		leaveRec("b", "purged", leave.RequestUpdate, leave.StatusApproved, time.Hour),
	}

	live := leave.ResolveLive(records)

	assert.Equal(t, []string{"b"}, liveIDs(live))
}

func TestResolveCurrent_KeepsCancelledChains(t *testing.T) {
	// ResolveCurrent is the audit variant: it reports the cancel record as
	// the chain's current state instead of hiding the chain.
	records := []leave.LeaveRequest{
		leaveRec("a", "", leave.RequestCreate, leave.StatusApproved, 0),
		leaveRec("b", "a", leave.RequestCancel, leave.StatusApproved, time.Hour),
	}

	current := leave.ResolveCurrent(records)

	require.Len(t, current, 1)
	assert.Equal(t, "b", string(current[0].ID))
}

// =============================================================================
// CHAIN HISTORY
// =============================================================================

func TestChainOf_OldestFirst(t *testing.T) {
	records := []leave.LeaveRequest{
		leaveRec("c", "b", leave.RequestUpdate, leave.StatusPending, 2*time.Hour),
		leaveRec("a", "", leave.RequestCreate, leave.StatusApproved, 0),
		leaveRec("b", "a", leave.RequestUpdate, leave.StatusApproved, time.Hour),
		leaveRec("x", "", leave.RequestCreate, leave.StatusApproved, 0),
	}

	// Any member of the chain resolves to the same full history.
	for _, id := range []string{"a", "b", "c"} {
		chain := leave.ChainOf(records, leave.RequestID(id))
		assert.Equal(t, []string{"a", "b", "c"}, liveIDs(chain), "lookup via %s", id)
	}
}

func TestChainOf_UnknownID(t *testing.T) {
	records := []leave.LeaveRequest{
		leaveRec("a", "", leave.RequestCreate, leave.StatusApproved, 0),
	}

	assert.Nil(t, leave.ChainOf(records, "missing"))
}

// =============================================================================
// EXCLUSION RULE
// =============================================================================

func TestExcluded(t *testing.T) {
	cases := []struct {
		name     string
		record   leave.LeaveRequest
		excluded bool
	}{
		{"approved create", leaveRec("a", "", leave.RequestCreate, leave.StatusApproved, 0), false},
		{"pending update", leaveRec("b", "a", leave.RequestUpdate, leave.StatusPending, 0), false},
		{"cancel record", leaveRec("c", "a", leave.RequestCancel, leave.StatusPending, 0), true},
		{"rejected record", leaveRec("d", "", leave.RequestCreate, leave.StatusRejected, 0), true},
		{"cancelled status", leaveRec("e", "", leave.RequestCreate, leave.StatusCancelled, 0), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.excluded, leave.Excluded(tc.record))
		})
	}
}
