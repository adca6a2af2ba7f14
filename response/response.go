// Package response writes the JSON envelopes used by every API handler.
package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Babu-advocates/justforrfunj-79973-sub001/apperrors"
	"github.com/Babu-advocates/justforrfunj-79973-sub001/logger"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Details   map[string]interface{} `json:"details,omitempty"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Retryable bool                   `json:"retryable,omitempty"`
}

type SuccessResponse struct {
	Data interface{}            `json:"data"`
	Meta map[string]interface{} `json:"meta,omitempty"`
}

func errorToHTTPStatus(def apperrors.Definition) int {
	switch def.Code {
	case "INVALID_REQUEST", "INVALID_DATE", "INVALID_MONTH", "INVALID_ROLE", "EMPLOYEE_NOT_LINKED", "WEAK_PASSWORD":
		return http.StatusBadRequest // 400
	case "INVALID_CREDENTIALS", "UNAUTHORIZED":
		return http.StatusUnauthorized // 401
	case "FORBIDDEN", "PASSWORD_CHANGE_REQUIRED":
		return http.StatusForbidden // 403
	case "NOT_FOUND":
		return http.StatusNotFound // 404
	case "USERNAME_TAKEN", "PAYROLL_IN_PROGRESS":
		return http.StatusConflict // 409
	case "ATTENDANCE_FETCH_FAILED", "EXCLUSION_FETCH_FAILED", "ATTENDANCE_WRITE_FAILED", "EXCLUSION_WRITE_FAILED":
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}

// Error writes err as an error envelope. Errors without a Definition in their
// chain are logged and reported as INTERNAL_ERROR without leaking the cause.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	ErrorWithDetails(w, r, err, nil)
}

func ErrorWithDetails(w http.ResponseWriter, r *http.Request, err error, details map[string]interface{}) {
	def, ok := apperrors.As(err)
	if !ok {
		def = apperrors.Internal
	}

	status := errorToHTTPStatus(def)
	if status >= http.StatusInternalServerError {
		logger.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("code", def.Code),
			zap.Error(err),
		)
	}

	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:      def.Code,
			Message:   def.Message,
			Retryable: def.Retryable,
			Details:   details,
		},
	})
}

func Success(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func SuccessWithMeta(w http.ResponseWriter, data interface{}, meta map[string]interface{}) {
	writeJSON(w, http.StatusOK, SuccessResponse{Data: data, Meta: meta})
}

func Created(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

// BindError reports a request body that could not be decoded.
func BindError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    apperrors.InvalidRequest.Code,
			Message: err.Error(),
		},
	})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Logger.Warn("write response", zap.Error(err))
	}
}
