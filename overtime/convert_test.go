package overtime_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/overtime"
)

// March 2025: the 8th is a Saturday, the 9th a Sunday, the 10th a Monday.
var (
	saturday = leave.NewDate(2025, time.March, 8)
	sunday   = leave.NewDate(2025, time.March, 9)
	monday   = leave.NewDate(2025, time.March, 10)
)

func at(hour, minute int) leave.TimeOfDay {
	return leave.TimeOfDay{Hour: hour, Minute: minute}
}

// =============================================================================
// DAY CLASSIFICATION
// =============================================================================

func TestClassify(t *testing.T) {
	assert.Equal(t, overtime.ClassWeekday, overtime.Classify(monday, false))
	assert.Equal(t, overtime.ClassSaturday, overtime.Classify(saturday, false))
	assert.Equal(t, overtime.ClassSundayOrHoliday, overtime.Classify(sunday, false))

	// Holiday flag wins over the weekday
	assert.Equal(t, overtime.ClassSundayOrHoliday, overtime.Classify(monday, true))
	assert.Equal(t, overtime.ClassSundayOrHoliday, overtime.Classify(saturday, true))
}

// =============================================================================
// CONVERSION
// =============================================================================

func TestConvert_Saturday_FourHours(t *testing.T) {
	// GIVEN: 4 hours worked on a Saturday (09:00-13:00)
	// WHEN: Converting at the 1.5x Saturday rate
	// THEN: 6 recognized hours, 0.75 recognized days

	conv := overtime.Convert(at(9, 0), at(13, 0), saturday, false)

	assert.Equal(t, overtime.ClassSaturday, conv.Class)
	assert.Equal(t, "4", conv.WorkedHours.String())
	assert.Equal(t, "6", conv.RecognizedHours.String())
	assert.Equal(t, "0.75", conv.RecognizedDays.String())
}

func TestConvert_Sunday_CappedAtSixteen(t *testing.T) {
	// GIVEN: 12 hours worked on a Sunday (08:00-20:00)
	// WHEN: Converting at the 2x rate (weighted 24h)
	// THEN: Recognition caps at 16 hours = 2 days

	conv := overtime.Convert(at(8, 0), at(20, 0), sunday, false)

	assert.Equal(t, overtime.ClassSundayOrHoliday, conv.Class)
	assert.Equal(t, "12", conv.WorkedHours.String())
	assert.Equal(t, "16", conv.RecognizedHours.String())
	assert.Equal(t, "2", conv.RecognizedDays.String())
}

func TestConvert_Saturday_CappedAtTwelve(t *testing.T) {
	// GIVEN: 10 hours worked on a Saturday (weighted 15h, floored to 14h)
	// THEN: Recognition caps at 12 hours = 1.5 days

	conv := overtime.Convert(at(8, 0), at(18, 0), saturday, false)

	assert.Equal(t, "12", conv.RecognizedHours.String())
	assert.Equal(t, "1.5", conv.RecognizedDays.String())
}

func TestConvert_Weekday_EvenHourFloor(t *testing.T) {
	// GIVEN: 3 hours of weekday evening overtime (18:00-21:00)
	// WHEN: Weighted at 1.5x = 4.5 hours
	// THEN: Floored to the even hour below: 4 hours = 0.5 days

	conv := overtime.Convert(at(18, 0), at(21, 0), monday, false)

	assert.Equal(t, overtime.ClassWeekday, conv.Class)
	assert.Equal(t, "3", conv.WorkedHours.String())
	assert.Equal(t, "4", conv.RecognizedHours.String())
	assert.Equal(t, "0.5", conv.RecognizedDays.String())
}

func TestConvert_Weekday_Uncapped(t *testing.T) {
	// Weekday overtime has no cap: 14 worked hours recognize at 21 -> 20
	// even-floored hours.
	conv := overtime.Convert(at(8, 0), at(22, 0), monday, false)

	assert.Equal(t, "20", conv.RecognizedHours.String())
	assert.Equal(t, "2.5", conv.RecognizedDays.String())
}

func TestConvert_HolidayFlag_DoublesWeekday(t *testing.T) {
	// A flagged holiday on a Monday converts at the Sunday rate.
	conv := overtime.Convert(at(9, 0), at(13, 0), monday, true)

	assert.Equal(t, overtime.ClassSundayOrHoliday, conv.Class)
	assert.Equal(t, "8", conv.RecognizedHours.String())
	assert.Equal(t, "1", conv.RecognizedDays.String())
}

func TestConvert_OvernightWrap(t *testing.T) {
	// GIVEN: A shift ending past midnight (22:00-02:00)
	// THEN: End time wraps by 24h: 4 worked hours, not -20

	conv := overtime.Convert(at(22, 0), at(2, 0), monday, false)

	assert.Equal(t, "4", conv.WorkedHours.String())
	assert.Equal(t, "6", conv.RecognizedHours.String())
}

func TestConvert_ZeroInterval(t *testing.T) {
	conv := overtime.Convert(at(9, 0), at(9, 0), monday, false)

	assert.True(t, conv.WorkedHours.IsZero())
	assert.True(t, conv.RecognizedHours.IsZero())
	assert.True(t, conv.RecognizedDays.IsZero())
}

func TestConvert_Deterministic(t *testing.T) {
	a := overtime.Convert(at(9, 30), at(14, 15), saturday, false)
	b := overtime.Convert(at(9, 30), at(14, 15), saturday, false)

	assert.Equal(t, a, b)
}
