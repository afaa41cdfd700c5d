/*
balance.go - Balance computation from resolved live records

PURPOSE:
  Computes, per user and year, total/used/remaining annual leave and
  compensatory balances. This is the central calculation that answers
  "how many days does this employee have left?" and it is the SAME
  calculation for the dashboard, the calendar and the org-wide table.

INPUTS:
  The engine is pure: it consumes records that already went through
  ResolveLive plus the (user, year) allocation override and the profile.
  Loading is the read service's job (service.go).

ENTITLEMENT PRECEDENCE:
  1. AnnualLeaveAllocation row for (user, year) - explicit override
  2. Profile.TotalLeaveDays - legacy default, current year only
  3. zero - a year without allocation has no implicit entitlement

BUCKETS:
  AnnualUsed:    live + approved + leave_type=annual + start in year
  CompGenerated: live overtime with work_date in year, recognized_hours/8
  CompUsed:      live + approved + compensatory type + start in year

  Usage rate = used/total*100 clamped to [0,100]; total <= 0 means rate 0.
  Remaining = total - used, exact, and may go negative.

LIFETIME VIEW:
  Compensatory leave does not reset annually. LifetimeComp exposes the
  running profile counters; callers must be explicit about which view
  (year-scoped vs lifetime) they want.

SEE ALSO:
  - lineage.go: produces the live sets consumed here
  - service.go: loads records and invokes the engine
*/
package leave

import "github.com/shopspring/decimal"

var (
	hundred    = decimal.NewFromInt(100)
	hoursInDay = decimal.NewFromInt(8)
)

// =============================================================================
// BALANCE SNAPSHOT - computed per (user, year)
// =============================================================================

type BalanceSnapshot struct {
	UserID UserID
	Year   int

	AnnualTotal     decimal.Decimal
	AnnualUsed      decimal.Decimal
	AnnualRemaining decimal.Decimal
	AnnualUsageRate decimal.Decimal // percent, clamped to [0,100]

	CompGenerated decimal.Decimal // days recognized from overtime this year
	CompUsed      decimal.Decimal
	CompRemaining decimal.Decimal
	CompUsageRate decimal.Decimal
}

// LifetimeComp is the running compensatory balance from profile counters,
// not scoped to a year.
type LifetimeComp struct {
	UserID    UserID
	Generated decimal.Decimal
	Used      decimal.Decimal
	Remaining decimal.Decimal
}

// =============================================================================
// BALANCE INPUT / ENGINE
// =============================================================================

// BalanceInput carries everything ComputeBalance needs. LiveLeave and
// LiveOvertime must already be resolved with ResolveLive.
type BalanceInput struct {
	UserID      UserID
	Year        int
	CurrentYear int

	Allocation *AnnualLeaveAllocation // nil when no override exists
	Profile    *Profile               // nil tolerated; legacy default then 0

	LiveLeave    []LeaveRequest
	LiveOvertime []OvertimeRequest
}

// ComputeBalance derives the balance snapshot for one user and year.
func ComputeBalance(in BalanceInput) BalanceSnapshot {
	total := annualTotal(in)

	var annualUsed, compUsed decimal.Decimal
	for _, r := range in.LiveLeave {
		if r.Status != StatusApproved || r.StartDate.Year() != in.Year {
			continue
		}
		switch {
		case r.LeaveType == LeaveAnnual:
			annualUsed = annualUsed.Add(r.TotalDays)
		case r.LeaveType.IsCompensatory():
			compUsed = compUsed.Add(r.TotalDays)
		}
	}

	var recognizedHours decimal.Decimal
	for _, r := range in.LiveOvertime {
		if r.WorkDate.Year() != in.Year {
			continue
		}
		recognizedHours = recognizedHours.Add(r.RecognizedHours)
	}
	compGenerated := recognizedHours.Div(hoursInDay)

	return BalanceSnapshot{
		UserID: in.UserID,
		Year:   in.Year,

		AnnualTotal:     total,
		AnnualUsed:      annualUsed,
		AnnualRemaining: total.Sub(annualUsed),
		AnnualUsageRate: usageRate(annualUsed, total),

		CompGenerated: compGenerated,
		CompUsed:      compUsed,
		CompRemaining: compGenerated.Sub(compUsed),
		CompUsageRate: usageRate(compUsed, compGenerated),
	}
}

// ComputeLifetimeComp exposes the profile's running compensatory counters.
func ComputeLifetimeComp(p Profile) LifetimeComp {
	return LifetimeComp{
		UserID:    p.UserID,
		Generated: p.ExtraLeaveDays,
		Used:      p.ExtraUsedLeaveDays,
		Remaining: p.ExtraLeaveDays.Sub(p.ExtraUsedLeaveDays),
	}
}

func annualTotal(in BalanceInput) decimal.Decimal {
	if in.Allocation != nil {
		return in.Allocation.TotalDays
	}
	if in.Profile != nil && in.Year == in.CurrentYear {
		return in.Profile.TotalLeaveDays
	}
	return decimal.Zero
}

// usageRate returns used/total*100 clamped to [0,100]; rate is 0 whenever
// total is not positive, regardless of used.
func usageRate(used, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	rate := used.Div(total).Mul(hundred)
	if rate.IsNegative() {
		return decimal.Zero
	}
	if rate.GreaterThan(hundred) {
		return hundred
	}
	return rate
}
