package http

import (
	"encoding/json"
	"net/http"

	"github.com/tempohq/attendance-backend-go/internal/domain/auth"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/middleware"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	SSEToken(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) AuthHandler {
	return &authHandlerImpl{
		authService: authService,
	}
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SSEToken implements AuthHandler. It mints the short-lived token the stream
// endpoint accepts as a query parameter.
func (h *authHandlerImpl) SSEToken(w http.ResponseWriter, r *http.Request) {
	employeeID, _, err := middleware.Identity(r)
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	result, err := h.authService.IssueSSEToken(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
