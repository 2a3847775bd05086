package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evrenos-dev/vaxtrack/internal/app/models/dto"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/apperrors"
	"github.com/evrenos-dev/vaxtrack/internal/pkg/logger"
)

// HandleAPIError maps application errors to HTTP responses. Every
// controller funnels its error paths through here so the wire format
// stays uniform.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &custom) && custom.Message != "" {
		message = custom.Message
	}

	switch {
	// Not found
	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrDriveNotFound),
		errors.Is(err, apperrors.ErrRecordNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message)

	// Scheduling rules
	case errors.Is(err, apperrors.ErrDriveLeadTime):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeLeadTimeViolated, message)
	case errors.Is(err, apperrors.ErrDriveInPast):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeDriveInPast, message)

	// Ledger rules
	case errors.Is(err, apperrors.ErrNoDosesAvailable):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeNoDosesLeft, message)
	case errors.Is(err, apperrors.ErrClassNotApplicable):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeClassNotEligible, message)

	// Conflicts
	case errors.Is(err, apperrors.ErrStudentIDAlreadyExists),
		errors.Is(err, apperrors.ErrStudentAlreadyVaccinated),
		errors.Is(err, apperrors.ErrDriveDateTaken):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message)
	case errors.Is(err, apperrors.ErrStudentHasRecords),
		errors.Is(err, apperrors.ErrDriveHasRecords),
		errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeConflict, message)

	// Validation
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message)

	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, message)
	case errors.Is(err, apperrors.ErrAccountDisabled):
		respondError(c, http.StatusForbidden, dto.ErrorCodeUnauthorized, message)
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, message)
	case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrInvalidFormat):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, message)
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, message)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeUnauthorized, message)

	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(dto.NewErrorDetail(code, message)))
}
