package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/citypeople-service/internal/api"
	"github.com/psds-microservice/citypeople-service/internal/errs"
)

// statusFor maps domain errors to HTTP codes.
func statusFor(err error) int {
	var se *api.StatusError
	switch {
	case errors.Is(err, errs.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrCameraUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrUploadInFlight),
		errors.Is(err, errs.ErrPlayerNotOpen):
		return http.StatusConflict
	case errors.Is(err, errs.ErrNameEmpty),
		errors.Is(err, errs.ErrGroupNameEmpty),
		errors.Is(err, errs.ErrPhoneEmpty),
		errors.Is(err, errs.ErrForeignFile):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNoRecording),
		errors.Is(err, errs.ErrOwnerNotFound),
		errors.Is(err, errs.ErrContactNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrDecode), errors.As(err, &se):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes {"error": ...} with the mapped status.
func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "message": err.Error()})
}
