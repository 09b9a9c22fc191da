package http

import (
	"net/http"

	domainauth "github.com/tempohq/attendance-backend-go/internal/domain/auth"
	"github.com/tempohq/attendance-backend-go/internal/domain/payroll"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/middleware"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.Service
}

func NewPayrollHandler(payrollService payroll.Service) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// List implements PayrollHandler.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	callerID, role, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, domainauth.ErrInvalidToken)
		return
	}

	q := r.URL.Query()
	req := payroll.ListAdjustmentsRequest{
		EmployeeID: q.Get("employee_id"),
		StartDate:  q.Get("start_date"),
		EndDate:    q.Get("end_date"),
	}

	sc, err := user.ResolveScope(user.Role(role), callerID, req.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.payrollService.List(r.Context(), sc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
