package transport

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/pkg/logger"
	"github.com/go-chi/chi"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.Logger.Error("http error", "status", status, "message", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResp := map[string]interface{}{
		"code":    status,
		"message": message,
	}

	if err := json.NewEncoder(w).Encode(errorResp); err != nil {
		h.Logger.Error("failed to encode error response", "error", err)
	}
}

// WriteAppError renders err as {"error": AppError}. Anything that is not an
// AppError is reported as an internal error without its text.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		appErr = errors.NewInternalError("Internal server error", err)
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "type", appErr.Type, "code", appErr.Code, "error", appErr.Cause)
	} else {
		h.Logger.Warn("request rejected", "type", appErr.Type, "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}

	status, body := appErr.ToHTTPResponse()
	h.WriteJSON(w, status, body)
}

// MaxRequestBody caps every JSON request body the API reads.
const MaxRequestBody = 16 << 10

// ErrBodyTooLarge is returned for bodies over MaxRequestBody.
var ErrBodyTooLarge = &errors.AppError{
	Type:       errors.ErrorTypeValidation,
	Code:       errors.ErrCodeBodyTooLarge,
	Message:    "request body too large",
	StatusCode: http.StatusRequestEntityTooLarge,
}

// DecodeJSON decodes at most MaxRequestBody bytes of the request body into
// dst, reporting malformed JSON as a validation error.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return errors.NewValidationError("invalid request body", errors.ErrCodeMalformedBody)
	}
	return nil
}

// PathID parses the {name} URL parameter as a positive id. A malformed id
// can never match a row, so it is reported as notFound.
func (h *BaseHandler) PathID(r *http.Request, name string, notFound error) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ""
	}

	return authHeader[7:]
}
