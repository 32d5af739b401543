package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/blog/pkg/response"
	authmw "github.com/Skotchmaster/blog/pkg/middleware/auth"
	"github.com/Skotchmaster/blog/services/user/internal/service"
	"github.com/Skotchmaster/blog/services/user/internal/transport"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) List(c echo.Context) error {
	users, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return response.Write(c, http.StatusInternalServerError, "An error occurred while fetching users.", nil)
	}
	if len(users) == 0 {
		return response.Write(c, http.StatusNotFound, "No users found.", nil)
	}

	out := make([]transport.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, transport.NewUserResponse(&users[i]))
	}
	return response.Write(c, http.StatusOK, "Users fetched successfully.", out)
}

func (h *UserHTTP) Profile(c echo.Context) error {
	claims, ok := authmw.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}

	user, err := h.Svc.Profile(c.Request().Context(), claims.Subject)
	switch {
	case err == nil:
		return response.Write(c, http.StatusOK, "User profile fetched successfully.", transport.NewUserResponse(user))
	case errors.Is(err, service.ErrUserNotFound):
		return response.Write(c, http.StatusNotFound, "User not found.", nil)
	default:
		return response.Write(c, http.StatusInternalServerError, "An error occurred while fetching user profile.", nil)
	}
}
