/*
Package overtime converts worked time into recognized compensatory value.

PURPOSE:
  A pure, deterministic conversion from (start, end, work date, holiday
  flag) to recognized compensatory hours and days. It is invoked at
  submission time to populate the stored fields and must be reproducible
  later for audit, so it has no side effects and no clock access.

RULES:
  Day class        Multiplier  Daily cap
  Sunday/holiday   2.0         16h
  Saturday         1.5         12h
  Weekday          1.5         none

  worked   = end - start (overnight wrap adds 24h when end < start)
  weighted = worked * multiplier
  hours    = floor(weighted / 2) * 2, clamped to the cap
  days     = hours / 8

  Zero or negative worked time recognizes nothing. Recognized hours are
  always a non-negative even integer.
*/
package overtime

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// DAY CLASS
// =============================================================================

type DayClass int

const (
	ClassWeekday DayClass = iota
	ClassSaturday
	ClassSundayOrHoliday
)

func (c DayClass) String() string {
	switch c {
	case ClassSaturday:
		return "saturday"
	case ClassSundayOrHoliday:
		return "sunday_or_holiday"
	default:
		return "weekday"
	}
}

// Classify determines the day class for a work date. The holiday flag
// wins over the weekday.
func Classify(workDate leave.Date, isHoliday bool) DayClass {
	if isHoliday || workDate.Weekday() == time.Sunday {
		return ClassSundayOrHoliday
	}
	if workDate.Weekday() == time.Saturday {
		return ClassSaturday
	}
	return ClassWeekday
}

// Multiplier returns the recognition multiplier for the class.
func (c DayClass) Multiplier() decimal.Decimal {
	if c == ClassSundayOrHoliday {
		return decimal.NewFromInt(2)
	}
	return decimal.RequireFromString("1.5")
}

// Cap returns the daily recognition cap in hours. ok is false when the
// class is uncapped.
func (c DayClass) Cap() (hours int64, ok bool) {
	switch c {
	case ClassSundayOrHoliday:
		return 16, true
	case ClassSaturday:
		return 12, true
	default:
		return 0, false
	}
}

// =============================================================================
// CONVERSION
// =============================================================================

// Conversion is the full result of recognizing one worked interval.
type Conversion struct {
	Class           DayClass
	WorkedHours     decimal.Decimal
	RecognizedHours decimal.Decimal
	RecognizedDays  decimal.Decimal
}

// Convert recognizes a worked interval. Pure; same inputs always yield
// the same outputs.
func Convert(start, end leave.TimeOfDay, workDate leave.Date, isHoliday bool) Conversion {
	class := Classify(workDate, isHoliday)

	minutes := end.Minutes() - start.Minutes()
	if minutes < 0 {
		// Overnight shift: end on the following day.
		minutes += 24 * 60
	}
	worked := decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60))

	if !worked.IsPositive() {
		return Conversion{Class: class, WorkedHours: decimal.Zero,
			RecognizedHours: decimal.Zero, RecognizedDays: decimal.Zero}
	}

	weighted := worked.Mul(class.Multiplier())

	// Round down to even-hour granularity.
	two := decimal.NewFromInt(2)
	recognized := weighted.Div(two).Floor().Mul(two)

	if capHours, capped := class.Cap(); capped {
		limit := decimal.NewFromInt(capHours)
		if recognized.GreaterThan(limit) {
			recognized = limit
		}
	}

	return Conversion{
		Class:           class,
		WorkedHours:     worked,
		RecognizedHours: recognized,
		RecognizedDays:  recognized.Div(decimal.NewFromInt(8)),
	}
}
