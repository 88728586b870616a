package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SuccessResponse представляет успешный ответ API
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// ErrorResponse представляет ответ API с ошибкой
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail содержит детали ошибки
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success отправляет успешный JSON ответ
func Success(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := SuccessResponse{
		Success: true,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		// Заголовки уже отправлены, ошибку можно только залогировать
		log.Error().Err(err).Msg("Failed to encode success response")
	}
}

// Error отправляет JSON ответ с ошибкой
func Error(w http.ResponseWriter, statusCode int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Str("code", code).Msg("Failed to encode error response")
	}
}

// Коды ошибок, возвращаемые этим сервисом
const (
	// Ошибки входных данных генерации
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeInfeasible       = "INFEASIBLE"
	ErrCodeTimeLimit        = "TIME_LIMIT"

	// Ошибки ресурсов
	ErrCodeNotFound = "NOT_FOUND"

	// Ошибки сервера
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// BadRequest отправляет ответ 400 Bad Request
func BadRequest(w http.ResponseWriter, code string, message string) {
	Error(w, http.StatusBadRequest, code, message)
}

// NotFound отправляет ответ 404 Not Found
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// InternalError отправляет ответ 500 Internal Server Error
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// OK отправляет ответ 200 OK
func OK(w http.ResponseWriter, data interface{}) {
	Success(w, http.StatusOK, data)
}

// TooManyRequests отправляет ответ 429 Too Many Requests
func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, http.StatusTooManyRequests, ErrCodeRateLimitExceeded, message)
}

// ServiceUnavailable отправляет ответ 503 Service Unavailable
func ServiceUnavailable(w http.ResponseWriter, message string) {
	Error(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}
