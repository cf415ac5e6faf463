package services

import (
	"context"
	"time"

	"github.com/freightworks/quotation-service/internal/models"
	"github.com/freightworks/quotation-service/internal/repository"
)

// RateMatcher подбирает применимый тариф для проверенного запроса.
// Репозиторий отдает активных кандидатов по маршруту и способу перевозки,
// здесь дополнительно проверяются вес и окно действия. При нескольких
// совпадениях выбирается самый дешевый для клиента тариф. Тарифную таблицу
// матчер никогда не изменяет.
type RateMatcher struct {
	Repo repository.RateRepository
}

// NewRateMatcher создаёт новый экземпляр RateMatcher.
func NewRateMatcher(repo repository.RateRepository) *RateMatcher {
	return &RateMatcher{Repo: repo}
}

// FindMatchingRate возвращает тариф с наименьшей ценой за килограмм среди
// подходящих, либо (nil, nil), если совпадений нет - отсутствие тарифа
// является штатным исходом, а не ошибкой.
func (m *RateMatcher) FindMatchingRate(ctx context.Context, req *models.ValidatedRequest, at time.Time) (*models.RateRecord, error) {
	candidates, err := m.Repo.ActiveRatesForRoute(
		ctx,
		req.Request.OriginCountry,
		req.Request.DestinationCountry,
		req.Request.ModeOfTransport,
	)
	if err != nil {
		return nil, err
	}

	var best *models.RateRecord
	for i := range candidates {
		rate := &candidates[i]
		if !rate.IsActive {
			continue
		}
		if req.Weight < rate.WeightMin || req.Weight > rate.WeightMax {
			continue
		}
		if at.Before(rate.ValidFrom) || at.After(rate.ValidTo) {
			continue
		}
		if best == nil || rate.RatePerKg < best.RatePerKg {
			best = rate
		}
	}
	if best == nil {
		return nil, nil
	}

	matched := *best
	return &matched, nil
}
