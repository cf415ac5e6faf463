package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/freightworks/quotation-service/internal/models"
	"github.com/freightworks/quotation-service/internal/repository"

	"github.com/jackc/pgx/v5"
)

// RateService реализует администрирование тарифной таблицы.
type RateService struct {
	Repo repository.RateRepository
}

// NewRateService создаёт новый экземпляр RateService.
func NewRateService(repo repository.RateRepository) *RateService {
	return &RateService{Repo: repo}
}

// FetchRates возвращает тарифы с необязательными фильтрами по активности
// и способам перевозки.
func (s *RateService) FetchRates(ctx context.Context, isActiveStr string, modes []string) ([]models.RateRecord, error) {
	var isActive *bool
	if isActiveStr != "" {
		value := isActiveStr == "true"
		if isActiveStr != "true" && isActiveStr != "false" {
			return nil, models.NewErrorResponse(400, "invalid is_active parameter, must be true or false")
		}
		isActive = &value
	}

	for _, mode := range modes {
		if !models.TransportModes[models.TransportMode(mode)] {
			return nil, models.NewErrorResponse(400, fmt.Sprintf("unsupported transport mode: %s", mode))
		}
	}
	return s.Repo.GetRates(ctx, isActive, modes)
}

// GetRateByID возвращает тариф по ID.
func (s *RateService) GetRateByID(ctx context.Context, rateId string) (*models.RateRecord, error) {
	rate, err := s.Repo.GetRateByID(ctx, rateId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rate: %w", err)
	}
	if rate == nil {
		return nil, models.NewNotFoundError("rate not found")
	}
	return rate, nil
}

// CreateRate проверяет и сохраняет новый тариф.
func (s *RateService) CreateRate(ctx context.Context, req models.RateRequest, createdBy *string) (*models.RateRecord, error) {
	rate, err := buildRate(req)
	if err != nil {
		return nil, err
	}
	rate.CreatedBy = createdBy

	created, err := s.Repo.CreateRate(ctx, *rate)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate: %w", err)
	}
	return created, nil
}

// UpdateRate проверяет и полностью обновляет тариф. created_by не меняется.
func (s *RateService) UpdateRate(ctx context.Context, rateId string, req models.RateRequest) (*models.RateRecord, error) {
	rate, err := buildRate(req)
	if err != nil {
		return nil, err
	}
	rate.ID = rateId

	updated, err := s.Repo.UpdateRate(ctx, *rate)
	if err != nil {
		return nil, fmt.Errorf("failed to update rate: %w", err)
	}
	if updated == nil {
		return nil, models.NewNotFoundError("rate not found")
	}
	return updated, nil
}

// DeleteRate удаляет тариф.
func (s *RateService) DeleteRate(ctx context.Context, rateId string) error {
	err := s.Repo.DeleteRate(ctx, rateId)
	if err != nil {
		if isNoRows(err) {
			return models.NewNotFoundError("rate not found")
		}
		return fmt.Errorf("failed to delete rate: %w", err)
	}
	return nil
}

// ToggleRate переключает флаг активности тарифа.
func (s *RateService) ToggleRate(ctx context.Context, rateId string) (*models.RateRecord, error) {
	rate, err := s.Repo.ToggleRate(ctx, rateId)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle rate: %w", err)
	}
	if rate == nil {
		return nil, models.NewNotFoundError("rate not found")
	}
	return rate, nil
}

// buildRate проверяет запрос тарифа и собирает запись. Как и в валидации
// котировок, возвращаются сразу все нарушения.
func buildRate(req models.RateRequest) (*models.RateRecord, error) {
	req.OriginZone = strings.TrimSpace(req.OriginZone)
	req.DestinationZone = strings.TrimSpace(req.DestinationZone)

	var details []string

	if req.OriginZone == "" {
		details = append(details, "origin_zone is required")
	}
	if req.DestinationZone == "" {
		details = append(details, "destination_zone is required")
	}

	if req.ModeOfTransport == "" {
		details = append(details, "mode_of_transport is required")
	} else if !models.TransportModes[req.ModeOfTransport] {
		details = append(details, "mode_of_transport must be: road, air, sea, or rail")
	}

	if req.WeightMin == nil {
		details = append(details, "weight_min is required")
	} else if *req.WeightMin < 0 {
		details = append(details, "weight_min must be >= 0")
	}
	if req.WeightMax == nil {
		details = append(details, "weight_max is required")
	} else if req.WeightMin != nil && *req.WeightMax < *req.WeightMin {
		details = append(details, "weight_max must be >= weight_min")
	}

	if req.RatePerKg == nil {
		details = append(details, "rate_per_kg is required")
	} else if *req.RatePerKg <= 0 {
		details = append(details, "rate_per_kg must be a positive number")
	}

	if req.FuelSurchargePct != nil && *req.FuelSurchargePct < 0 {
		details = append(details, "fuel_surcharge_pct must be >= 0")
	}

	var validFrom, validTo time.Time
	if req.ValidFrom == "" {
		details = append(details, "valid_from is required")
	} else if parsed, _, err := parseShipmentDate(req.ValidFrom); err != nil {
		details = append(details, "valid_from is not a valid date")
	} else {
		validFrom = parsed
	}
	if req.ValidTo == "" {
		details = append(details, "valid_to is required")
	} else if parsed, _, err := parseShipmentDate(req.ValidTo); err != nil {
		details = append(details, "valid_to is not a valid date")
	} else {
		validTo = parsed
	}
	if !validFrom.IsZero() && !validTo.IsZero() && validTo.Before(validFrom) {
		details = append(details, "valid_to must be after valid_from")
	}

	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	rate := models.RateRecord{
		OriginZone:      req.OriginZone,
		DestinationZone: req.DestinationZone,
		ModeOfTransport: req.ModeOfTransport,
		WeightMin:       *req.WeightMin,
		WeightMax:       *req.WeightMax,
		RatePerKg:       *req.RatePerKg,
		ValidFrom:       validFrom,
		ValidTo:         validTo,
		Currency:        strings.TrimSpace(req.Currency),
		IsActive:        true,
	}
	if rate.Currency == "" {
		rate.Currency = "USD"
	}
	if req.FuelSurchargePct != nil {
		rate.FuelSurchargePct = *req.FuelSurchargePct
	}
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}
	return &rate, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
