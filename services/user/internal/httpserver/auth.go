package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog/pkg/logging"
	"github.com/Skotchmaster/blog/pkg/response"
	"github.com/Skotchmaster/blog/services/user/internal/service"
	"github.com/Skotchmaster/blog/services/user/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return response.Write(c, http.StatusBadRequest, "Invalid request body", nil)
	}

	pair, err := h.Svc.Register(ctx, service.RegisterInput{
		Username: req.Name(),
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	switch {
	case err == nil:
		return response.Write(c, http.StatusCreated, "Sign up successful", pair)
	case errors.Is(err, service.ErrInvalidEmail):
		return response.Write(c, http.StatusBadRequest, "Invalid email format", nil)
	case errors.Is(err, service.ErrDuplicateEmail):
		return response.Write(c, http.StatusBadRequest, "A user with this email already exists.", nil)
	case errors.Is(err, service.ErrInvalidRole):
		return response.Write(c, http.StatusBadRequest, "Invalid role: "+req.Role, nil)
	default:
		return response.Write(c, http.StatusInternalServerError, "An error occurred", nil)
	}
}

func (h *AuthHTTP) Authenticate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_authenticate")

	var req transport.AuthenticationRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("authenticate_error", "status", 400, "error", err)
		return response.Write(c, http.StatusBadRequest, "Invalid request body", nil)
	}

	pair, err := h.Svc.Authenticate(ctx, req.Email, req.Password)
	switch {
	case err == nil:
		return response.Write(c, http.StatusOK, "Authentication successful", pair)
	case errors.Is(err, service.ErrUserNotFound):
		return response.Write(c, http.StatusNotFound, "User not found", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		return response.Write(c, http.StatusUnauthorized, "Invalid credentials", nil)
	default:
		return response.Write(c, http.StatusInternalServerError, "An error occurred", nil)
	}
}

// RefreshToken writes a bare token pair on success and an empty 200 on every soft failure.
// An unknown user goes to echo's error handler as a 500.
func (h *AuthHTTP) RefreshToken(c echo.Context) error {
	pair, err := h.Svc.Refresh(c.Request().Context(), c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return err
	}
	if pair == nil {
		return c.NoContent(http.StatusOK)
	}
	return c.JSON(http.StatusOK, pair)
}

// TokenStatus answers the gateway's revocation check. The bearer middleware
// has already rejected anything inactive.
func (h *AuthHTTP) TokenStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"active": true})
}
