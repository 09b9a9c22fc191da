package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/tempohq/attendance-backend-go/internal/domain/payroll"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/service/scope"
)

type PayrollServiceImpl struct {
	payrollRepo payroll.Repository
	guard       *scope.Guard
	loc         *time.Location
}

func NewPayrollService(payrollRepo payroll.Repository, guard *scope.Guard, loc *time.Location) *PayrollServiceImpl {
	return &PayrollServiceImpl{
		payrollRepo: payrollRepo,
		guard:       guard,
		loc:         loc,
	}
}

// List implements payroll.Service. Without an explicit range the current
// calendar month is used.
func (s *PayrollServiceImpl) List(ctx context.Context, sc user.Scope, req payroll.ListAdjustmentsRequest) (payroll.ListAdjustmentsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ListAdjustmentsResponse{}, err
	}

	from, to := s.rangeFor(req)

	var (
		adjustments []payroll.PayAdjustment
		err         error
	)

	if req.EmployeeID != "" {
		if scopeErr := s.guard.Allows(ctx, sc, req.EmployeeID); scopeErr != nil {
			return payroll.ListAdjustmentsResponse{}, scopeErr
		}
		adjustments, err = s.payrollRepo.ListByEmployee(ctx, req.EmployeeID, from, to)
	} else {
		var ids []string
		ids, err = s.guard.VisibleIDs(ctx, sc)
		if err == nil {
			adjustments, err = s.payrollRepo.ListByDateRange(ctx, ids, from, to)
		}
	}
	if err != nil {
		return payroll.ListAdjustmentsResponse{}, fmt.Errorf("failed to list pay adjustments: %w", err)
	}

	resp := payroll.ListAdjustmentsResponse{
		Adjustments: make([]payroll.AdjustmentResponse, 0, len(adjustments)),
	}
	// Amounts are signed, so the net total is a plain sum.
	for _, adj := range adjustments {
		resp.Adjustments = append(resp.Adjustments, payroll.ToResponse(adj))
		resp.NetTotal += adj.Amount
	}
	return resp, nil
}

func (s *PayrollServiceImpl) rangeFor(req payroll.ListAdjustmentsRequest) (time.Time, time.Time) {
	now := time.Now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, -1)

	if req.StartDate != "" {
		from, _ = time.ParseInLocation("2006-01-02", req.StartDate, s.loc)
	}
	if req.EndDate != "" {
		to, _ = time.ParseInLocation("2006-01-02", req.EndDate, s.loc)
	}
	return from, to
}

var _ payroll.Service = (*PayrollServiceImpl)(nil)
