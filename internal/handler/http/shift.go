package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	domainauth "github.com/tempohq/attendance-backend-go/internal/domain/auth"
	"github.com/tempohq/attendance-backend-go/internal/domain/shift"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/middleware"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/response"
)

type ShiftHandler interface {
	GetMine(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Upsert(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// GetMine implements ShiftHandler.
func (h *shiftHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	employeeID, role, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, domainauth.ErrInvalidToken)
		return
	}

	sc, err := user.ResolveScope(user.Role(role), employeeID, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.GetForEmployee(r.Context(), sc, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements ShiftHandler.
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	callerID, role, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, domainauth.ErrInvalidToken)
		return
	}

	target := chi.URLParam(r, "employeeID")
	sc, err := user.ResolveScope(user.Role(role), callerID, target)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.shiftService.GetForEmployee(r.Context(), sc, target)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Upsert implements ShiftHandler. Manager or admin only, enforced in the
// router.
func (h *shiftHandlerImpl) Upsert(w http.ResponseWriter, r *http.Request) {
	var req shift.UpsertShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "employeeID")

	result, err := h.shiftService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift saved", result)
}

// Delete implements ShiftHandler. Manager or admin only, enforced in the
// router.
func (h *shiftHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")

	if err := h.shiftService.Delete(r.Context(), employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift removed, default applies", nil)
}

// List implements ShiftHandler. Manager or admin only, enforced in the
// router.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
