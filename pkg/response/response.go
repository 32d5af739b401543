package response

import "github.com/labstack/echo/v4"

// Envelope is the body shape of the auth and user endpoints.
type Envelope struct {
	Message    string `json:"message"`
	Data       any    `json:"data"`
	StatusCode int    `json:"statusCode"`
}

func New(status int, message string, data any) Envelope {
	return Envelope{Message: message, Data: data, StatusCode: status}
}

func Write(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, New(status, message, data))
}
