package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/freightworks/quotation-service/internal/auth"
	"github.com/freightworks/quotation-service/internal/models"
	"github.com/freightworks/quotation-service/internal/services"
	"github.com/freightworks/quotation-service/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// QuoteHandler - структура для обработки HTTP-запросов котировок.
type QuoteHandler struct {
	Service *services.QuotationService
	Logger  *zap.Logger
	Timeout time.Duration
}

// NewQuoteHandler создаёт новый экземпляр QuoteHandler.
func NewQuoteHandler(service *services.QuotationService, logger *zap.Logger, timeout time.Duration) *QuoteHandler {
	return &QuoteHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// handleError логирует ошибку и отправляет её клиенту: типизированные - со
// своим кодом, остальные - как 500 с общим текстом.
func handleError(w http.ResponseWriter, logger *zap.Logger, err error, message string) {
	if _, ok := err.(*models.ErrorResponse); ok {
		logger.Info(message, zap.Error(err))
	} else {
		logger.Error(message, zap.Error(err))
	}
	utils.SendError(w, err)
}

// CreateQuote обрабатывает запросы на расчет котировки. Авторизация
// необязательна: анонимный запрос создает котировку без владельца.
func (h *QuoteHandler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var quoteReq models.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&quoteReq); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var userId *string
	if identity, ok := auth.FromContext(r.Context()); ok {
		userId = &identity.UserID
	}

	quote, err := h.Service.GenerateQuote(ctx, quoteReq, userId)
	if err != nil {
		handleError(w, h.Logger, err, "failed to generate quote")
		return
	}

	utils.SendSuccess(w, http.StatusCreated, "quote generated successfully", quote)
}

// GetMyQuotes возвращает котировки текущего пользователя, новые первыми.
func (h *QuoteHandler) GetMyQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	identity, _ := auth.FromContext(r.Context())

	quotes, err := h.Service.GetUserQuotes(ctx, identity.UserID)
	if err != nil {
		handleError(w, h.Logger, err, "failed to fetch quotes")
		return
	}

	utils.SendList(w, quotes, len(quotes))
}

// GetAllQuotes возвращает все котировки с данными заказчика.
func (h *QuoteHandler) GetAllQuotes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	quotes, err := h.Service.GetAllQuotes(ctx)
	if err != nil {
		handleError(w, h.Logger, err, "failed to fetch quotes")
		return
	}

	utils.SendList(w, quotes, len(quotes))
}

// GetQuoteByID возвращает одну котировку с проверкой владения.
func (h *QuoteHandler) GetQuoteByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	identity, _ := auth.FromContext(r.Context())
	quoteId := chi.URLParam(r, "quoteId")

	quote, err := h.Service.GetQuoteByID(ctx, quoteId, identity.UserID, identity.IsAdmin())
	if err != nil {
		handleError(w, h.Logger, err, "failed to fetch quote")
		return
	}

	utils.SendSuccess(w, http.StatusOK, "", quote)
}

// UpdateQuoteStatus выставляет статус котировки (только администратор).
func (h *QuoteHandler) UpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var body struct {
		Status models.QuoteStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quote, err := h.Service.UpdateQuoteStatus(ctx, chi.URLParam(r, "quoteId"), body.Status)
	if err != nil {
		handleError(w, h.Logger, err, "failed to update quote status")
		return
	}

	utils.SendSuccess(w, http.StatusOK, "quote status updated successfully", quote)
}

// DeleteQuote удаляет котировку (только администратор).
func (h *QuoteHandler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.DeleteQuote(ctx, chi.URLParam(r, "quoteId")); err != nil {
		handleError(w, h.Logger, err, "failed to delete quote")
		return
	}

	utils.SendSuccess(w, http.StatusOK, "quote deleted successfully", nil)
}

// DownloadQuotePdf отдает PDF котировки, при отсутствии файла генерируя его
// на месте.
func (h *QuoteHandler) DownloadQuotePdf(w http.ResponseWriter, r *http.Request) {
	// Генерация на месте может не уложиться в обычный таймаут запроса.
	ctx, cancel := context.WithTimeout(r.Context(), 2*h.Timeout)
	defer cancel()

	identity, _ := auth.FromContext(r.Context())
	quoteId := chi.URLParam(r, "quoteId")

	filePath, err := h.Service.PrepareQuotePdf(ctx, quoteId, identity.UserID, identity.IsAdmin())
	if err != nil {
		handleError(w, h.Logger, err, "failed to prepare quote pdf")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quote_%s.pdf"`, quoteId))
	http.ServeFile(w, r, filePath)
}
