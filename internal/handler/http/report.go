package http

import (
	"fmt"
	"net/http"
	"strconv"

	domainauth "github.com/tempohq/attendance-backend-go/internal/domain/auth"
	"github.com/tempohq/attendance-backend-go/internal/domain/report"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/middleware"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	MonthlyAttendance(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// MonthlyAttendance implements ReportHandler. format=pdf returns the rendered
// document, anything else the JSON summary. Manager or admin only, enforced
// in the router.
func (h *reportHandlerImpl) MonthlyAttendance(w http.ResponseWriter, r *http.Request) {
	callerID, role, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, domainauth.ErrInvalidToken)
		return
	}

	q := r.URL.Query()
	req := report.MonthlyAttendanceRequest{}
	req.Month, _ = strconv.Atoi(q.Get("month"))
	req.Year, _ = strconv.Atoi(q.Get("year"))

	sc, err := user.ResolveScope(user.Role(role), callerID, "")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if q.Get("format") == "pdf" {
		pdf, err := h.reportService.MonthlyAttendancePDF(r.Context(), sc, req)
		if err != nil {
			response.HandleError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="attendance-%04d-%02d.pdf"`, req.Year, req.Month))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(pdf)
		return
	}

	result, err := h.reportService.MonthlyAttendance(r.Context(), sc, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
