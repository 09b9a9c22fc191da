package attendance

import (
	"math"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/domain/shift"
)

// Grace windows, in minutes. Global constants, not per-shift configuration.
const (
	LateGraceMinutes     = 15
	OvertimeGraceMinutes = 30
)

// Verdict is the ephemeral compliance classification for one transition.
// It is consumed immediately by the dispatcher and never stored as its own
// entity; its effect lands in the record's status and overtime fields.
type Verdict struct {
	IsLate        bool
	MinutesLate   int
	IsOvertime    bool
	OvertimeHours float64
}

// Classify compares an actual instant against a shift time-of-day anchored on
// the same calendar day, in actual's location. The deviation is the signed
// minute difference; Exceeded is true only when it is strictly greater than
// the grace window. An instant before the reference never flags.
func Classify(ref shift.TimeOfDay, actual time.Time, graceMinutes int) (exceeded bool, minutesOver int) {
	anchored := ref.On(actual)
	diff := actual.Sub(anchored).Minutes()
	if diff <= 0 {
		return false, 0
	}
	minutesOver = int(math.Floor(diff))
	return minutesOver > graceMinutes, minutesOver
}

// LatenessVerdict classifies a check-in instant against the shift start.
func LatenessVerdict(s shift.Shift, checkIn time.Time) Verdict {
	late, minutes := Classify(s.StartTime, checkIn, LateGraceMinutes)
	v := Verdict{IsLate: late}
	if late {
		v.MinutesLate = minutes
	}
	return v
}

// OvertimeVerdict classifies a check-out instant against the shift end.
// OvertimeHours is zero below the grace window.
func OvertimeVerdict(s shift.Shift, checkOut time.Time) Verdict {
	over, minutes := Classify(s.EndTime, checkOut, OvertimeGraceMinutes)
	v := Verdict{IsOvertime: over}
	if over {
		v.OvertimeHours = RoundHours(float64(minutes) / 60.0)
	}
	return v
}

// WorkedHours computes the worked span in hours, rounded to 2 decimals.
func WorkedHours(checkIn, checkOut time.Time) float64 {
	return RoundHours(checkOut.Sub(checkIn).Hours())
}

// RoundHours rounds an hour quantity to 2 decimal places.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
