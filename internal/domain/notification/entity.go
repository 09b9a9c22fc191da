package notification

import "time"

// Category classifies a notification.
type Category string

const (
	CategoryAttendanceAlert Category = "attendance_alert"
	CategoryOvertime        Category = "overtime"
	CategoryPayAdjustment   Category = "pay_adjustment"
	CategorySystem          Category = "system"
)

var CategoryValues = []string{
	string(CategoryAttendanceAlert),
	string(CategoryOvertime),
	string(CategoryPayAdjustment),
	string(CategorySystem),
}

// Notification is created only by the side-effect dispatcher or an
// administrative action. Immutable except for the read flag.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    *string // nil means system-generated
	Title       string
	Message     string
	Category    Category
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}
