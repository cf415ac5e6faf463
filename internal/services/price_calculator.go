package services

import (
	"strings"

	"github.com/freightworks/quotation-service/internal/models"

	"github.com/shopspring/decimal"
)

// Надбавка за срочную доставку - 20% от базовой стоимости.
var urgencyFactor = decimal.NewFromFloat(0.20)

// specialServiceFees - тарификация дополнительных услуг по ключевым словам
// в свободном тексте. Совпадения суммируются и не исключают друг друга:
// текст с "fragile" и "express" дает обе надбавки сразу, это ожидаемое
// поведение, а не случайность.
var specialServiceFees = []struct {
	keywords []string
	fee      decimal.Decimal
}{
	{[]string{"insurance"}, decimal.NewFromInt(50)},
	{[]string{"temperature controlled", "refrigerated"}, decimal.NewFromInt(150)},
	{[]string{"fragile"}, decimal.NewFromInt(75)},
	{[]string{"express"}, decimal.NewFromInt(100)},
	{[]string{"tracking"}, decimal.NewFromInt(25)},
}

// PriceCalculator - чистая детерминированная функция расчета цены, без I/O.
// Внутри считаем с полной точностью, к границе (хранение, выдача) каждая
// составляющая округляется до двух знаков. Итог - сумма уже округленных
// составляющих, поэтому сохраненная разбивка всегда сходится до цента.
type PriceCalculator struct{}

// NewPriceCalculator создаёт новый экземпляр PriceCalculator.
func NewPriceCalculator() *PriceCalculator {
	return &PriceCalculator{}
}

// Calculate возвращает разбивку цены для веса и подобранного тарифа.
func (c *PriceCalculator) Calculate(weight float64, deliveryType models.DeliveryType, specialServices string, rate *models.RateRecord) models.PriceBreakdown {
	baseCost := decimal.NewFromFloat(weight).Mul(decimal.NewFromFloat(rate.RatePerKg))
	fuelSurcharge := baseCost.Mul(decimal.NewFromFloat(rate.FuelSurchargePct)).Div(decimal.NewFromInt(100))

	urgencySurcharge := decimal.Zero
	if deliveryType == models.UrgentDelivery {
		urgencySurcharge = baseCost.Mul(urgencyFactor)
	}

	specialSurcharge := specialServicesFee(specialServices)

	base := baseCost.Round(2)
	fuel := fuelSurcharge.Round(2)
	urgency := urgencySurcharge.Round(2)
	special := specialSurcharge.Round(2)
	total := base.Add(fuel).Add(urgency).Add(special)

	return models.PriceBreakdown{
		BaseCost: base.InexactFloat64(),
		Surcharges: models.Surcharges{
			Fuel:            fuel.InexactFloat64(),
			Urgency:         urgency.InexactFloat64(),
			SpecialServices: special.InexactFloat64(),
		},
		TotalPrice: total.InexactFloat64(),
	}
}

// specialServicesFee суммирует надбавки за ключевые слова в тексте услуг.
func specialServicesFee(services string) decimal.Decimal {
	fee := decimal.Zero
	services = strings.ToLower(strings.TrimSpace(services))
	if services == "" {
		return fee
	}

	for _, entry := range specialServiceFees {
		for _, keyword := range entry.keywords {
			if strings.Contains(services, keyword) {
				fee = fee.Add(entry.fee)
				break
			}
		}
	}
	return fee
}
