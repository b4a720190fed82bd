package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"backoffice.GO/core/apperr"
)

// WriteError maps an operation error onto the response envelope: validation
// failures become 400, unknown ids/SKUs 404, anything else 500.
func WriteError(c echo.Context, err error, message string) error {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		status = http.StatusBadRequest
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	}
	return c.JSON(status, echo.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
