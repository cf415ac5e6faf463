package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/freightworks/quotation-service/internal/auth"
	"github.com/freightworks/quotation-service/internal/models"
	"github.com/freightworks/quotation-service/internal/services"
	"github.com/freightworks/quotation-service/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RateHandler - структура для обработки HTTP-запросов тарифной таблицы.
type RateHandler struct {
	Service *services.RateService
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewRateHandler создаёт новый экземпляр RateHandler.
func NewRateHandler(service *services.RateService, logger *zap.Logger, timeout time.Duration) *RateHandler {
	return &RateHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetRates возвращает тарифы с фильтрами ?is_active= и ?mode=.
func (h *RateHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	isActive := r.URL.Query().Get("is_active")
	modes := r.URL.Query()["mode"]

	rates, err := h.Service.FetchRates(ctx, isActive, modes)
	if err != nil {
		handleError(w, h.Logger, err, "failed to fetch rates")
		return
	}

	utils.SendList(w, rates, len(rates))
}

// GetRateByID возвращает один тариф.
func (h *RateHandler) GetRateByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rate, err := h.Service.GetRateByID(ctx, chi.URLParam(r, "rateId"))
	if err != nil {
		handleError(w, h.Logger, err, "failed to fetch rate")
		return
	}

	utils.SendSuccess(w, http.StatusOK, "", rate)
}

// CreateRate создает тариф (только администратор).
func (h *RateHandler) CreateRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var rateReq models.RateRequest
	if err := json.NewDecoder(r.Body).Decode(&rateReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var createdBy *string
	if identity, ok := auth.FromContext(r.Context()); ok {
		createdBy = &identity.UserID
	}

	rate, err := h.Service.CreateRate(ctx, rateReq, createdBy)
	if err != nil {
		handleError(w, h.Logger, err, "failed to create rate")
		return
	}

	utils.SendSuccess(w, http.StatusCreated, "rate created successfully", rate)
}

// UpdateRate полностью обновляет тариф (только администратор).
func (h *RateHandler) UpdateRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var rateReq models.RateRequest
	if err := json.NewDecoder(r.Body).Decode(&rateReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rate, err := h.Service.UpdateRate(ctx, chi.URLParam(r, "rateId"), rateReq)
	if err != nil {
		handleError(w, h.Logger, err, "failed to update rate")
		return
	}

	utils.SendSuccess(w, http.StatusOK, "rate updated successfully", rate)
}

// DeleteRate удаляет тариф (только администратор).
func (h *RateHandler) DeleteRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.DeleteRate(ctx, chi.URLParam(r, "rateId")); err != nil {
		handleError(w, h.Logger, err, "failed to delete rate")
		return
	}

	utils.SendSuccess(w, http.StatusOK, "rate deleted successfully", nil)
}

// ToggleRate переключает активность тарифа (только администратор).
func (h *RateHandler) ToggleRate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	rate, err := h.Service.ToggleRate(ctx, chi.URLParam(r, "rateId"))
	if err != nil {
		handleError(w, h.Logger, err, "failed to toggle rate status")
		return
	}

	message := "rate deactivated successfully"
	if rate.IsActive {
		message = "rate activated successfully"
	}
	utils.SendSuccess(w, http.StatusOK, message, rate)
}
