package employee

import (
	"time"

	"github.com/tempohq/attendance-backend-go/internal/domain/user"
)

type Employee struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Role         user.Role
	ManagerID    *string
	BaseSalary   float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Payroll rate assumptions. The hourly rate divides base salary by a fixed
// 22-working-day, 8-hour-day month regardless of the employee's actual shift
// length or the calendar month. Carried-over behavior; do not change without
// product confirmation.
const (
	WorkingDaysPerMonth = 22
	WorkHoursPerDay     = 8
)

// HourlyRate returns the derived hourly pay rate for adjustments.
func (e Employee) HourlyRate() float64 {
	return e.BaseSalary / (WorkingDaysPerMonth * WorkHoursPerDay)
}
