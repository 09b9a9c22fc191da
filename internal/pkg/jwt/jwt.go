package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/tempohq/attendance-backend-go/internal/domain/user"
)

type Service interface {
	GenerateAccessToken(employeeID string, email string, role user.Role) (token string, expiresAt int64, err error)
	GenerateSSEToken(employeeID string, role user.Role) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (employeeID string, role user.Role, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	sseTokenExpirationTime    string
	tokenAuth                 *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, sseTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		sseTokenExpirationTime:    sseTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(employeeID string, email string, role user.Role) (string, int64, error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt := time.Now().Add(expDuration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"email":       email,
		"role":        string(role),
		"type":        "access",
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateSSEToken mints a short-lived token carried as a query parameter by
// the event stream, since EventSource cannot set headers.
func (j *JWTService) GenerateSSEToken(employeeID string, role user.Role) (string, int, error) {
	expDuration, err := time.ParseDuration(j.sseTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"role":        string(role),
		"type":        "sse",
		"exp":         time.Now().Add(expDuration).Unix(),
	})
	return tokenString, int(expDuration.Seconds()), err
}

func (j *JWTService) ValidateSSEToken(tokenString string) (string, user.Role, error) {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return "", "", fmt.Errorf("decode sse token: %w", err)
	}
	if err := jwt.Validate(token); err != nil {
		return "", "", fmt.Errorf("validate sse token: %w", err)
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return "", "", fmt.Errorf("read sse token claims: %w", err)
	}
	if tokenType, _ := claims["type"].(string); tokenType != "sse" {
		return "", "", fmt.Errorf("token is not an sse token")
	}

	employeeID, _ := claims["employee_id"].(string)
	if employeeID == "" {
		return "", "", fmt.Errorf("employee_id claim is missing")
	}
	roleStr, _ := claims["role"].(string)
	role := user.Role(roleStr)
	if !role.Valid() {
		return "", "", fmt.Errorf("role claim is missing or invalid")
	}

	return employeeID, role, nil
}
