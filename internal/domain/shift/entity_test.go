package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 30}, tod)
	assert.Equal(t, "09:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("9am")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("")
	assert.Error(t, err)
}

func TestTimeOfDayOn(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	ref := time.Date(2026, 3, 10, 14, 45, 12, 0, loc)
	anchored := TimeOfDay{Hour: 9, Minute: 15}.On(ref)

	assert.Equal(t, time.Date(2026, 3, 10, 9, 15, 0, 0, loc), anchored)
	assert.Equal(t, loc, anchored.Location())
}

func TestShiftActiveOn(t *testing.T) {
	s := Shift{Weekdays: []int{1, 2, 3, 4, 5}}

	monday := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.True(t, s.ActiveOn(monday))
	assert.False(t, s.ActiveOn(saturday))
	assert.False(t, s.ActiveOn(sunday))

	weekend := Shift{Weekdays: []int{6, 7}}
	assert.True(t, weekend.ActiveOn(saturday))
	assert.True(t, weekend.ActiveOn(sunday))
	assert.False(t, weekend.ActiveOn(monday))
}

func TestDefaultShift(t *testing.T) {
	s := DefaultShift("emp-1")

	assert.Equal(t, "emp-1", s.EmployeeID)
	assert.Equal(t, "09:00", s.StartTime.String())
	assert.Equal(t, "17:00", s.EndTime.String())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, s.Weekdays)
}

func TestUpsertShiftRequestValidate(t *testing.T) {
	valid := UpsertShiftRequest{
		EmployeeID: "emp-1",
		StartTime:  "08:00",
		EndTime:    "16:00",
		Weekdays:   []int{1, 2, 3},
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*UpsertShiftRequest)
	}{
		{"missing employee", func(r *UpsertShiftRequest) { r.EmployeeID = "" }},
		{"bad start time", func(r *UpsertShiftRequest) { r.StartTime = "8am" }},
		{"bad end time", func(r *UpsertShiftRequest) { r.EndTime = "26:00" }},
		{"end before start", func(r *UpsertShiftRequest) { r.StartTime = "17:00"; r.EndTime = "09:00" }},
		{"end equals start", func(r *UpsertShiftRequest) { r.EndTime = r.StartTime }},
		{"no weekdays", func(r *UpsertShiftRequest) { r.Weekdays = nil }},
		{"weekday out of range", func(r *UpsertShiftRequest) { r.Weekdays = []int{0, 1} }},
		{"duplicate weekday", func(r *UpsertShiftRequest) { r.Weekdays = []int{2, 2} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.Weekdays = append([]int(nil), valid.Weekdays...)
			tt.mutate(&req)
			assert.Error(t, req.Validate())
		})
	}
}
