package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/freightworks/quotation-service/internal/models"
)

// Response - общий конверт успешного ответа.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

// SendJSON отправляет произвольный ответ в формате JSON.
func SendJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println(err)
	}
}

// SendSuccess отправляет успешный ответ с данными.
func SendSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	SendJSON(w, statusCode, Response{Success: true, Message: message, Data: data})
}

// SendList отправляет успешный ответ со списком и его размером.
func SendList(w http.ResponseWriter, data interface{}, count int) {
	SendJSON(w, http.StatusOK, Response{Success: true, Data: data, Count: &count})
}

// SendErrorResponse отправляет ошибку в формате JSON.
func SendErrorResponse(w http.ResponseWriter, statusCode int, message string, details ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	payload := struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Errors  []string `json:"errors,omitempty"`
	}{
		Success: false,
		Message: message,
		Errors:  details,
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println(err)
	}
}

// SendError транслирует ошибку сервиса в HTTP-ответ: типизированные ошибки
// уходят со своим кодом и деталями, все остальное - как 500 с общим текстом.
func SendError(w http.ResponseWriter, err error) {
	if errorResponse, ok := err.(*models.ErrorResponse); ok {
		SendErrorResponse(w, errorResponse.StatusCode, errorResponse.Message, errorResponse.Details...)
		return
	}
	SendErrorResponse(w, http.StatusInternalServerError, "internal server error")
}
