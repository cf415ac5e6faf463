package models

import (
	"fmt"
	"net/http"
)

// ErrorResponse описывает ошибку с кодом, сообщением и деталями.
type ErrorResponse struct {
	StatusCode int      `json:"-"`
	Message    string   `json:"message"`
	Details    []string `json:"errors,omitempty"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// NewValidationError создает ошибку валидации с перечнем всех нарушений.
func NewValidationError(details []string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    "validation failed",
		Details:    details,
	}
}

// NewNotFoundError создает ошибку отсутствия сущности.
func NewNotFoundError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusNotFound, Message: message}
}

// NewAuthorizationError создает ошибку доступа для аутентифицированного пользователя.
func NewAuthorizationError(message string) *ErrorResponse {
	return &ErrorResponse{StatusCode: http.StatusForbidden, Message: message}
}

// NewNoRateFoundError - для маршрута и веса не нашлось активного тарифа.
// Это штатный бизнес-отказ, а не сбой.
func NewNoRateFoundError() *ErrorResponse {
	return &ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    "no matching rate found for this route and weight",
	}
}

// NewRateExpiredError - дата отправки позже конца действия тарифа.
func NewRateExpiredError(validTo string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    fmt.Sprintf("shipment date exceeds rate validity, rate is valid until %s", validTo),
	}
}

// NewRateNotYetValidError - дата отправки раньше начала действия тарифа.
func NewRateNotYetValidError(validFrom string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    fmt.Sprintf("shipment date is before rate validity, rate is valid from %s", validFrom),
	}
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
