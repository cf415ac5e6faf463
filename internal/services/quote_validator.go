package services

import (
	"strings"
	"time"

	"github.com/freightworks/quotation-service/internal/models"
)

// QuoteValidator проверяет запрос на расчет котировки. Побочных эффектов нет:
// при успехе возвращается нормализованный запрос, при отказе - ошибка
// валидации со списком всех нарушений, а не только первого.
type QuoteValidator struct{}

// NewQuoteValidator создаёт новый экземпляр QuoteValidator.
func NewQuoteValidator() *QuoteValidator {
	return &QuoteValidator{}
}

// Validate проверяет запрос и возвращает его нормализованную форму:
// обрезанные строки, число вместо json.Number, распарсенная дата отправки.
func (v *QuoteValidator) Validate(req models.QuoteRequest) (*models.ValidatedRequest, error) {
	req.OriginCountry = strings.TrimSpace(req.OriginCountry)
	req.OriginCity = strings.TrimSpace(req.OriginCity)
	req.DestinationCountry = strings.TrimSpace(req.DestinationCountry)
	req.DestinationCity = strings.TrimSpace(req.DestinationCity)
	req.ShipmentDate = strings.TrimSpace(req.ShipmentDate)
	req.SpecialServices = strings.TrimSpace(req.SpecialServices)

	var details []string

	if req.OriginCountry == "" {
		details = append(details, "origin_country is required")
	}
	if req.OriginCity == "" {
		details = append(details, "origin_city is required")
	}
	if req.DestinationCountry == "" {
		details = append(details, "destination_country is required")
	}
	if req.DestinationCity == "" {
		details = append(details, "destination_city is required")
	}

	var weight float64
	if req.Weight.String() == "" {
		details = append(details, "weight is required")
	} else {
		parsed, err := req.Weight.Float64()
		if err != nil || parsed <= 0 {
			details = append(details, "weight must be a positive number")
		} else {
			weight = parsed
		}
	}

	if req.ModeOfTransport == "" {
		details = append(details, "mode_of_transport is required")
	} else if !models.TransportModes[req.ModeOfTransport] {
		details = append(details, "mode_of_transport must be: road, air, sea, or rail")
	}

	if req.DeliveryType == "" {
		details = append(details, "delivery_type is required")
	} else if req.DeliveryType != models.StandardDelivery && req.DeliveryType != models.UrgentDelivery {
		details = append(details, "delivery_type must be: urgent or standard")
	}

	var shipmentDate time.Time
	if req.ShipmentDate == "" {
		details = append(details, "shipment_date is required")
	} else {
		parsed, dateOnly, err := parseShipmentDate(req.ShipmentDate)
		if err != nil {
			details = append(details, "shipment_date is not a valid date")
		} else if isPast(parsed, dateOnly, time.Now().UTC()) {
			details = append(details, "shipment_date must be in the future")
		} else {
			shipmentDate = parsed
		}
	}

	if len(details) > 0 {
		return nil, models.NewValidationError(details)
	}

	return &models.ValidatedRequest{
		Request:      req,
		Weight:       weight,
		ShipmentDate: shipmentDate,
	}, nil
}

// parseShipmentDate принимает дату в формате YYYY-MM-DD или RFC 3339.
// Дата без времени трактуется как полночь UTC.
func parseShipmentDate(value string) (parsed time.Time, dateOnly bool, err error) {
	if parsed, err = time.Parse(time.DateOnly, value); err == nil {
		return parsed, true, nil
	}
	if parsed, err = time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), false, nil
	}
	return time.Time{}, false, err
}

// isPast сравнивает дату отправки с моментом оценки. Дата без времени
// сравнивается по дням, чтобы отправка "сегодня" не считалась прошлым.
func isPast(shipment time.Time, dateOnly bool, now time.Time) bool {
	if dateOnly {
		return shipment.Before(now.Truncate(24 * time.Hour))
	}
	return shipment.Before(now)
}
