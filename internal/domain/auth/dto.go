package auth

import (
	"context"

	"github.com/tempohq/attendance-backend-go/internal/pkg/validator"
)

// Service is the thin login boundary. Session mechanics beyond the roles they
// gate are out of core scope; this exists to mint the claims the rest of the
// system keys on.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	IssueSSEToken(ctx context.Context, employeeID string) (SSETokenResponse, error)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "a valid email is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	EmployeeID  string `json:"employee_id"`
	Role        string `json:"role"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
