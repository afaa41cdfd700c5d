package leave_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func approvedLeave(id string, lt leave.LeaveType, year int, days string) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:          leave.RequestID(id),
		OwnerID:     "u1",
		LeaveType:   lt,
		RequestType: leave.RequestCreate,
		StartDate:   leave.NewDate(year, time.June, 1),
		EndDate:     leave.NewDate(year, time.June, 1),
		TotalDays:   decimal.RequireFromString(days),
		Status:      leave.StatusApproved,
		CreatedAt:   baseTime,
	}
}

func liveOvertime(id string, year int, recognizedHours string) leave.OvertimeRequest {
	return leave.OvertimeRequest{
		ID:              leave.RequestID(id),
		OwnerID:         "u1",
		RequestType:     leave.RequestCreate,
		WorkDate:        leave.NewDate(year, time.June, 6),
		StartTime:       leave.TimeOfDay{Hour: 9},
		EndTime:         leave.TimeOfDay{Hour: 13},
		RecognizedHours: decimal.RequireFromString(recognizedHours),
		Status:          leave.StatusApproved,
		CreatedAt:       baseTime,
	}
}

func testProfile(totalDays string) *leave.Profile {
	return &leave.Profile{
		UserID:         "u1",
		Name:           "Test User",
		TotalLeaveDays: decimal.RequireFromString(totalDays),
	}
}

// =============================================================================
// ANNUAL TOTAL PRECEDENCE
// =============================================================================

func TestComputeBalance_AllocationOverridesProfile(t *testing.T) {
	// GIVEN: Both an allocation row (20) and a profile default (15)
	// THEN: The allocation row wins

	snap := leave.ComputeBalance(leave.BalanceInput{
		UserID:      "u1",
		Year:        2026,
		CurrentYear: 2026,
		Allocation: &leave.AnnualLeaveAllocation{
			UserID: "u1", Year: 2026, TotalDays: decimal.NewFromInt(20),
		},
		Profile: testProfile("15"),
	})

	assert.Equal(t, "20", snap.AnnualTotal.String())
}

func TestComputeBalance_ProfileDefault_CurrentYearOnly(t *testing.T) {
	// Without an allocation row the profile default applies, but only when
	// the queried year is the current year.

	current := leave.ComputeBalance(leave.BalanceInput{
		UserID: "u1", Year: 2026, CurrentYear: 2026,
		Profile: testProfile("15"),
	})
	assert.Equal(t, "15", current.AnnualTotal.String())

	past := leave.ComputeBalance(leave.BalanceInput{
		UserID: "u1", Year: 2025, CurrentYear: 2026,
		Profile: testProfile("15"),
	})
	assert.True(t, past.AnnualTotal.IsZero(), "past year without allocation has no entitlement")
}

func TestComputeBalance_NoAllocationNoProfile(t *testing.T) {
	snap := leave.ComputeBalance(leave.BalanceInput{
		UserID: "u1", Year: 2026, CurrentYear: 2026,
	})

	assert.True(t, snap.AnnualTotal.IsZero())
	assert.True(t, snap.AnnualUsageRate.IsZero())
}

// =============================================================================
// USAGE BUCKETS
// =============================================================================

func TestComputeBalance_UsageBuckets(t *testing.T) {
	// GIVEN: Approved annual leave, approved compensatory leave, and a
	//        pending annual request
	// THEN: Only approved records count, each into its own bucket

	snap := leave.ComputeBalance(leave.BalanceInput{
		UserID: "u1", Year: 2026, CurrentYear: 2026,
		Profile: testProfile("15"),
		LiveLeave: []leave.LeaveRequest{
			approvedLeave("a", leave.LeaveAnnual, 2026, "2"),
			approvedLeave("b", leave.LeaveAnnual, 2026, "0.5"),
			approvedLeave("c", leave.LeaveCompFull, 2026, "1"),
			func() leave.LeaveRequest {
				r := approvedLeave("d", leave.LeaveAnnual, 2026, "3")
				r.Status = leave.StatusPending
				return r
			}(),
		},
		LiveOvertime: []leave.OvertimeRequest{
			liveOvertime("o1", 2026, "16"),
		},
	})

	assert.Equal(t, "2.5", snap.AnnualUsed.String())
	assert.Equal(t, "12.5", snap.AnnualRemaining.String())
	assert.Equal(t, "1", snap.CompUsed.String())
	assert.Equal(t, "2", snap.CompGenerated.String())
	assert.Equal(t, "1", snap.CompRemaining.String())
}

func TestComputeBalance_YearScoping(t *testing.T) {
	// Records from other years never leak into the snapshot.
	snap := leave.ComputeBalance(leave.BalanceInput{
		UserID: "u1", Year: 2026, CurrentYear: 2026,
		Profile: testProfile("15"),
		LiveLeave: []leave.LeaveRequest{
			approvedLeave("a", leave.LeaveAnnual, 2025, "5"),
		},
		LiveOvertime: []leave.OvertimeRequest{
			liveOvertime("o1", 2025, "8"),
		},
	})

	assert.True(t, snap.AnnualUsed.IsZero())
	assert.True(t, snap.CompGenerated.IsZero())
}

// =============================================================================
// USAGE RATE CLAMPING
// =============================================================================

func TestComputeBalance_UsageRateClamped(t *testing.T) {
	// Overdrawn balances read as 100%, never more.
	snap := leave.ComputeBalance(leave.BalanceInput{
		UserID: "u1", Year: 2026, CurrentYear: 2026,
		Profile: testProfile("10"),
		LiveLeave: []leave.LeaveRequest{
			approvedLeave("a", leave.LeaveAnnual, 2026, "12"),
		},
	})

	assert.Equal(t, "100", snap.AnnualUsageRate.String())
	assert.Equal(t, "-2", snap.AnnualRemaining.String())
}

func TestComputeBalance_UsageRateZeroTotal(t *testing.T) {
	snap := leave.ComputeBalance(leave.BalanceInput{
		UserID: "u1", Year: 2026, CurrentYear: 2026,
		LiveLeave: []leave.LeaveRequest{
			approvedLeave("a", leave.LeaveAnnual, 2026, "3"),
		},
	})

	assert.True(t, snap.AnnualUsageRate.IsZero(), "rate is 0 when total is not positive")
}

// =============================================================================
// LIFETIME COMPENSATORY
// =============================================================================

func TestComputeLifetimeComp(t *testing.T) {
	comp := leave.ComputeLifetimeComp(leave.Profile{
		UserID:             "u1",
		ExtraLeaveDays:     decimal.RequireFromString("4.5"),
		ExtraUsedLeaveDays: decimal.RequireFromString("1.5"),
	})

	assert.Equal(t, "4.5", comp.Generated.String())
	assert.Equal(t, "1.5", comp.Used.String())
	assert.Equal(t, "3", comp.Remaining.String())
}
