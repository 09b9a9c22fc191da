package payroll

import (
	"context"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/pkg/validator"
)

// Service reads the adjustment ledger. Writes happen only through the
// dispatcher.
type Service interface {
	List(ctx context.Context, scope user.Scope, req ListAdjustmentsRequest) (ListAdjustmentsResponse, error)
}

type ListAdjustmentsRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
}

func (r *ListAdjustmentsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate != "" {
		if _, ok := validator.IsValidDate(r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.EndDate != "" {
		if _, ok := validator.IsValidDate(r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdjustmentResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Reason     string  `json:"reason"`
	Kind       string  `json:"kind"`
	CreatedAt  string  `json:"created_at"`
}

type ListAdjustmentsResponse struct {
	Adjustments []AdjustmentResponse `json:"adjustments"`
	NetTotal    float64              `json:"net_total"`
}

func ToResponse(adj PayAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID:         adj.ID,
		EmployeeID: adj.EmployeeID,
		Date:       adj.Date.Format("2006-01-02"),
		Amount:     adj.Amount,
		Reason:     adj.Reason,
		Kind:       string(adj.Kind),
		CreatedAt:  adj.CreatedAt.Format(time.RFC3339),
	}
}
