package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/eliteglam/internal/common"
	"github.com/dmitrijs2005/eliteglam/internal/logging"
	"github.com/dmitrijs2005/eliteglam/internal/server/services"
	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// toResponse maps a domain error onto a status and body. Upstream error text
// only reaches the body for errors that carry a user-facing message.
func toResponse(err error) (int, ErrorResponse) {
	var he *echo.HTTPError
	var ve *common.ValidationError
	var nf *common.NotFoundError

	switch {
	case errors.As(err, &he):
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return he.Code, ErrorResponse{Error: http.StatusText(he.Code), Message: msg}
	case errors.As(err, &ve):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Message: strings.Join(ve.Violations, "; "),
			Details: ve.Violations,
		}
	case errors.Is(err, common.ErrInvalidStatus):
		return http.StatusBadRequest, ErrorResponse{Error: "Bad Request", Message: err.Error()}
	case errors.Is(err, common.ErrPartialRegistration):
		return http.StatusInternalServerError, ErrorResponse{
			Error:   "Registration incomplete",
			Message: "registration could not be completed, please try again",
		}
	case errors.Is(err, common.ErrInvalidTransition):
		return http.StatusConflict, ErrorResponse{Error: "Conflict", Message: err.Error()}
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, ErrorResponse{Error: "Conflict", Message: "Email already exists"}
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: "Invalid credentials"}
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Message: "Invalid token"}
	case errors.As(err, &nf):
		return http.StatusNotFound, ErrorResponse{Error: "Not Found", Message: nf.Error()}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, ErrorResponse{Error: "Not Found", Message: "not found"}
	case errors.Is(err, common.ErrAuthGateway):
		return http.StatusBadGateway, ErrorResponse{Error: "Bad Gateway", Message: "authentication provider error"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error", Message: "internal error"}
	}
}

func errorHandler(logger logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := toResponse(err)
		if code >= http.StatusInternalServerError {
			logger.Error(c.Request().Context(), "request failed", "status", code, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.Error(c.Request().Context(), "write error response", "error", err)
		}
	}
}
