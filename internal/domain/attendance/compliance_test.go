package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tempohq/attendance-backend-go/internal/domain/shift"
)

func dayAt(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.UTC)
}

func testShift() shift.Shift {
	return shift.Shift{
		EmployeeID: "emp-1",
		StartTime:  shift.TimeOfDay{Hour: 9},
		EndTime:    shift.TimeOfDay{Hour: 17},
		Weekdays:   []int{1, 2, 3, 4, 5},
	}
}

func TestLatenessVerdict(t *testing.T) {
	tests := []struct {
		name        string
		checkIn     time.Time
		wantLate    bool
		wantMinutes int
	}{
		{"on time", dayAt(9, 0), false, 0},
		{"early", dayAt(8, 55), false, 0},
		{"within grace", dayAt(9, 10), false, 0},
		{"at grace boundary", dayAt(9, 15), false, 0},
		{"one past grace", dayAt(9, 16), true, 16},
		{"well past grace", dayAt(10, 30), true, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := LatenessVerdict(testShift(), tt.checkIn)
			assert.Equal(t, tt.wantLate, v.IsLate)
			assert.Equal(t, tt.wantMinutes, v.MinutesLate)
		})
	}
}

func TestOvertimeVerdict(t *testing.T) {
	tests := []struct {
		name         string
		checkOut     time.Time
		wantOvertime bool
		wantHours    float64
	}{
		{"at shift end", dayAt(17, 0), false, 0},
		{"before shift end", dayAt(16, 30), false, 0},
		{"within grace", dayAt(17, 20), false, 0},
		{"at grace boundary", dayAt(17, 30), false, 0},
		{"one past grace", dayAt(17, 31), true, 0.52},
		{"two hours over", dayAt(19, 0), true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := OvertimeVerdict(testShift(), tt.checkOut)
			assert.Equal(t, tt.wantOvertime, v.IsOvertime)
			assert.InDelta(t, tt.wantHours, v.OvertimeHours, 0.001)
		})
	}
}

func TestWorkedHours(t *testing.T) {
	assert.InDelta(t, 8.5, WorkedHours(dayAt(9, 0), dayAt(17, 30)), 0.001)
	assert.InDelta(t, 0.25, WorkedHours(dayAt(9, 0), dayAt(9, 15)), 0.001)
	// sub-minute precision rounds to 2 decimals
	in := dayAt(9, 0)
	out := in.Add(7*time.Hour + 59*time.Minute + 30*time.Second)
	assert.InDelta(t, 7.99, WorkedHours(in, out), 0.001)
}

func TestClassifyNeverFlagsEarly(t *testing.T) {
	exceeded, minutes := Classify(shift.TimeOfDay{Hour: 9}, dayAt(7, 0), LateGraceMinutes)
	assert.False(t, exceeded)
	assert.Zero(t, minutes)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Present", StatusPresent.Label())
	assert.Equal(t, "Late", StatusLate.Label())
	assert.Equal(t, "Checked Out", StatusCheckedOut.Label())
	assert.Equal(t, "Absent", StatusAbsent.Label())
	assert.Equal(t, "Not Checked In", StatusNone.Label())
	assert.Equal(t, "Not Checked In", Status("bogus").Label())
}

func TestRecordOpen(t *testing.T) {
	in := dayAt(9, 0)
	out := dayAt(17, 0)

	assert.False(t, Record{}.Open())
	assert.True(t, Record{CheckInAt: &in}.Open())
	assert.False(t, Record{CheckInAt: &in, CheckOutAt: &out}.Open())
}
