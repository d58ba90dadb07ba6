package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/eliteglam/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrInvalidLogin = errors.New("login response carried no usable token")
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Kind    string
	Message string
	Details []string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.Status)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusBadRequest:
		return target == common.ErrValidation
	case http.StatusUnauthorized:
		return target == common.ErrorUnauthorized
	case http.StatusNotFound:
		return target == common.ErrorNotFound
	case http.StatusConflict:
		return target == common.ErrConflict
	}
	return false
}
