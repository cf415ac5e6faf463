package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/freightworks/quotation-service/internal/models"
	"github.com/freightworks/quotation-service/internal/repository"

	"go.uber.org/zap"
)

// PdfScheduler ставит фоновую генерацию PDF по ID котировки. Возвращает
// false, если задача не принята (очередь переполнена или закрыта).
type PdfScheduler interface {
	Enqueue(quoteId string) bool
}

// PdfRenderer отрисовывает PDF котировки и отдает относительный URL артефакта.
type PdfRenderer interface {
	Render(ctx context.Context, quote *models.Quote, user *models.User) (string, error)
	FilePath(pdfURL string) string
}

// QuoteCache - read-through кэш котировок поверх репозитория.
type QuoteCache interface {
	GetQuote(ctx context.Context, quoteId string) (*models.Quote, bool)
	SetQuote(ctx context.Context, quote *models.Quote)
	InvalidateQuote(ctx context.Context, quoteId string)
}

// QuotationService - оркестратор конвейера котировок:
// валидация -> подбор тарифа -> расчет цены -> сохранение -> фоновый PDF.
type QuotationService struct {
	Quotes     repository.QuoteRepository
	Users      repository.UserRepository
	Validator  *QuoteValidator
	Matcher    *RateMatcher
	Calculator *PriceCalculator
	PdfQueue   PdfScheduler
	Renderer   PdfRenderer
	Cache      QuoteCache
	Logger     *zap.Logger
}

// NewQuotationService создаёт новый экземпляр QuotationService.
func NewQuotationService(
	quotes repository.QuoteRepository,
	users repository.UserRepository,
	validator *QuoteValidator,
	matcher *RateMatcher,
	calculator *PriceCalculator,
	pdfQueue PdfScheduler,
	renderer PdfRenderer,
	cache QuoteCache,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		Quotes:     quotes,
		Users:      users,
		Validator:  validator,
		Matcher:    matcher,
		Calculator: calculator,
		PdfQueue:   pdfQueue,
		Renderer:   renderer,
		Cache:      cache,
		Logger:     logger,
	}
}

// GenerateQuote проводит запрос через весь конвейер и возвращает сохраненную
// котировку. Генерация PDF ставится в фоновую очередь уже после сохранения:
// её отказ логируется и не влияет на результат вызова.
func (s *QuotationService) GenerateQuote(ctx context.Context, req models.QuoteRequest, userId *string) (*models.Quote, error) {
	validated, err := s.Validator.Validate(req)
	if err != nil {
		return nil, err
	}

	rate, err := s.Matcher.FindMatchingRate(ctx, validated, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to match rate: %w", err)
	}
	if rate == nil {
		return nil, models.NewNoRateFoundError()
	}

	// Матчер проверял окно действия по текущей дате; здесь отдельно
	// проверяем саму дату отправки.
	if validated.ShipmentDate.After(rate.ValidTo) {
		return nil, models.NewRateExpiredError(rate.ValidTo.Format(time.DateOnly))
	}
	if validated.ShipmentDate.Before(rate.ValidFrom) {
		return nil, models.NewRateNotYetValidError(rate.ValidFrom.Format(time.DateOnly))
	}

	pricing := s.Calculator.Calculate(validated.Weight, validated.Request.DeliveryType, validated.Request.SpecialServices, rate)

	currency := rate.Currency
	if currency == "" {
		currency = "USD"
	}

	quote := models.Quote{
		UserID:             userId,
		OriginCountry:      validated.Request.OriginCountry,
		OriginCity:         validated.Request.OriginCity,
		DestinationCountry: validated.Request.DestinationCountry,
		DestinationCity:    validated.Request.DestinationCity,
		ShipmentDate:       validated.ShipmentDate,
		ModeOfTransport:    validated.Request.ModeOfTransport,
		Weight:             validated.Weight,
		Volume:             validated.Request.Volume,
		DeliveryType:       validated.Request.DeliveryType,
		SpecialServices:    validated.Request.SpecialServices,
		BaseRateApplied:    rate.RatePerKg,
		BaseCost:           pricing.BaseCost,
		Surcharges:         pricing.Surcharges,
		TotalPrice:         pricing.TotalPrice,
		Currency:           currency,
		QuoteStatus:        models.PendingQuote,
	}

	saved, err := s.Quotes.CreateQuote(ctx, quote)
	if err != nil {
		return nil, fmt.Errorf("failed to persist quote: %w", err)
	}

	s.schedulePdf(saved.ID)
	return saved, nil
}

// GetQuoteByID возвращает котировку. Не-администратор видит только свои
// котировки; анонимные котировки доступны только администратору.
func (s *QuotationService) GetQuoteByID(ctx context.Context, quoteId, requesterId string, isAdmin bool) (*models.Quote, error) {
	quote, err := s.fetchQuote(ctx, quoteId)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, models.NewNotFoundError("quote not found")
	}
	if !isAdmin && (quote.UserID == nil || *quote.UserID != requesterId) {
		return nil, models.NewAuthorizationError("you are not authorized to view this quote")
	}
	return quote, nil
}

// GetUserQuotes возвращает котировки пользователя, новые первыми.
func (s *QuotationService) GetUserQuotes(ctx context.Context, userId string) ([]models.Quote, error) {
	return s.Quotes.GetUserQuotes(ctx, userId)
}

// GetAllQuotes возвращает все котировки с данными заказчика.
func (s *QuotationService) GetAllQuotes(ctx context.Context) ([]models.Quote, error) {
	return s.Quotes.GetAllQuotes(ctx)
}

// UpdateQuoteStatus безусловно выставляет статус котировки и ставит
// перегенерацию PDF, чтобы артефакт отражал новый статус. Повторное решение
// по уже решенной котировке не блокируется.
func (s *QuotationService) UpdateQuoteStatus(ctx context.Context, quoteId string, status models.QuoteStatus) (*models.Quote, error) {
	if !models.QuoteStatuses[status] {
		return nil, models.NewErrorResponse(400, "invalid status, must be: pending, approved, or rejected")
	}

	updated, err := s.Quotes.UpdateQuoteStatus(ctx, quoteId, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update quote status: %w", err)
	}
	if updated == nil {
		return nil, models.NewNotFoundError("quote not found")
	}

	if s.Cache != nil {
		s.Cache.InvalidateQuote(ctx, quoteId)
	}
	s.schedulePdf(quoteId)
	return updated, nil
}

// DeleteQuote безусловно удаляет котировку. Ранее сгенерированный PDF
// остается на диске: его уборка - отдельная офлайн-задача.
func (s *QuotationService) DeleteQuote(ctx context.Context, quoteId string) error {
	err := s.Quotes.DeleteQuote(ctx, quoteId)
	if err != nil {
		if isNoRows(err) {
			return models.NewNotFoundError("quote not found")
		}
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	if s.Cache != nil {
		s.Cache.InvalidateQuote(ctx, quoteId)
	}
	return nil
}

// PrepareQuotePdf возвращает путь к PDF котировки, при необходимости
// генерируя его на месте: фоновая задача могла не успеть или упасть, а файл
// мог быть удален с диска извне.
func (s *QuotationService) PrepareQuotePdf(ctx context.Context, quoteId, requesterId string, isAdmin bool) (string, error) {
	quote, err := s.GetQuoteByID(ctx, quoteId, requesterId, isAdmin)
	if err != nil {
		return "", err
	}

	if quote.PdfURL != nil {
		path := s.Renderer.FilePath(*quote.PdfURL)
		if _, statErr := os.Stat(path); statErr == nil {
			return path, nil
		}
		s.Logger.Info("pdf artifact missing on disk, regenerating", zap.String("quote_id", quoteId))
	}

	var user *models.User
	if quote.UserID != nil {
		user, err = s.Users.GetUserByID(ctx, *quote.UserID)
		if err != nil {
			return "", fmt.Errorf("failed to load quote owner: %w", err)
		}
	}

	pdfURL, err := s.Renderer.Render(ctx, quote, user)
	if err != nil {
		s.Logger.Error("on-demand pdf generation failed", zap.String("quote_id", quoteId), zap.Error(err))
		return "", models.NewErrorResponse(500, "failed to generate pdf")
	}

	if err := s.Quotes.UpdatePdfURL(ctx, quoteId, pdfURL); err != nil {
		return "", fmt.Errorf("failed to store pdf url: %w", err)
	}
	if s.Cache != nil {
		s.Cache.InvalidateQuote(ctx, quoteId)
	}
	return s.Renderer.FilePath(pdfURL), nil
}

func (s *QuotationService) fetchQuote(ctx context.Context, quoteId string) (*models.Quote, error) {
	if s.Cache != nil {
		if quote, ok := s.Cache.GetQuote(ctx, quoteId); ok {
			return quote, nil
		}
	}

	quote, err := s.Quotes.GetQuoteByID(ctx, quoteId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote: %w", err)
	}
	if quote != nil && s.Cache != nil {
		s.Cache.SetQuote(ctx, quote)
	}
	return quote, nil
}

func (s *QuotationService) schedulePdf(quoteId string) {
	if s.PdfQueue == nil {
		return
	}
	if !s.PdfQueue.Enqueue(quoteId) {
		s.Logger.Warn("pdf render queue rejected job", zap.String("quote_id", quoteId))
	}
}
