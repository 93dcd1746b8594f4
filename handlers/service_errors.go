package handlers

import (
	"net/http"

	"github.com/tatanenfresh/backend/services"
	"github.com/tatanenfresh/backend/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses. Clients only ever
// see the domain message; the raw cause is logged.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	details := services.GetErrorDetails(err)
	message := services.GetErrorMessage(err, "")

	var status int
	switch {
	case services.IsNotFoundError(err):
		status = http.StatusNotFound
	case services.IsValidationError(err):
		status = http.StatusBadRequest
	case services.IsUnauthorizedError(err):
		status = http.StatusUnauthorized
		details = nil
	case services.IsForbiddenError(err):
		status = http.StatusForbidden
		details = nil
	case services.IsRateLimitError(err):
		status = http.StatusTooManyRequests
	case services.IsConflictError(err):
		status = http.StatusConflict
	case services.IsExternalError(err):
		// upstream failures are reported as server errors
		logger.Warn("external service error", zap.Error(err))
		status = http.StatusInternalServerError
		details = nil
	case services.IsInternalError(err):
		logger.Error("internal server error", zap.Error(err))
		status = http.StatusInternalServerError
		message = "An internal error occurred"
		details = nil
	default:
		logger.Error("unhandled error type", zap.Error(err))
		status = http.StatusInternalServerError
		message = "An unexpected error occurred"
		details = nil
	}

	if werr := utils.WriteError(w, status, message, details); werr != nil {
		logger.Error("failed to write error response", zap.Error(werr), zap.Int("status", status))
	}
}

// HandleValidationError handles errors from request decoding and validation
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		if werr := utils.WriteBadRequest(w, "Validation failed", utils.FieldDetails(err)); werr != nil {
			logger.Error("failed to write validation error response", zap.Error(werr))
		}
		return
	}

	if werr := utils.WriteBadRequest(w, err.Error(), nil); werr != nil {
		logger.Error("failed to write validation error response", zap.Error(werr))
	}
}

// decodeAndValidate reads the JSON body into dst and runs struct validation
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := utils.DecodeJSON(r, dst); err != nil {
		return err
	}
	return utils.ValidateStruct(dst)
}
