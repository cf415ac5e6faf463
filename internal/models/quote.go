package models

import (
	"encoding/json"
	"time"
)

type (
	DeliveryType string // Срочность доставки
	QuoteStatus  string // Статус котировки
)

const (
	StandardDelivery DeliveryType = "standard"
	UrgentDelivery   DeliveryType = "urgent"

	PendingQuote  QuoteStatus = "pending"  // Котировка ожидает решения
	ApprovedQuote QuoteStatus = "approved" // Котировка одобрена администратором
	RejectedQuote QuoteStatus = "rejected" // Котировка отклонена администратором
)

// QuoteStatuses перечисляет допустимые статусы котировки.
var QuoteStatuses = map[QuoteStatus]bool{
	PendingQuote:  true,
	ApprovedQuote: true,
	RejectedQuote: true,
}

// QuoteRequest представляет структуру запроса на расчет котировки.
// Вес принимается как json.Number, чтобы допускать и числа, и строки.
type QuoteRequest struct {
	OriginCountry      string      `json:"origin_country"`
	OriginCity         string      `json:"origin_city"`
	DestinationCountry string      `json:"destination_country"`
	DestinationCity    string      `json:"destination_city"`
	ShipmentDate       string      `json:"shipment_date"`
	ModeOfTransport    TransportMode `json:"mode_of_transport"`
	Weight             json.Number `json:"weight"`
	Volume             *float64    `json:"volume,omitempty"`
	DeliveryType       DeliveryType `json:"delivery_type"`
	SpecialServices    string      `json:"special_services,omitempty"`
}

// ValidatedRequest - нормализованный запрос после успешной валидации.
type ValidatedRequest struct {
	Request      QuoteRequest
	Weight       float64
	ShipmentDate time.Time
}

// Surcharges - надбавки к базовой стоимости. Имена полей JSON повторяют
// формат, в котором котировки уже выдавались клиентам.
type Surcharges struct {
	Fuel            float64 `json:"fuel"`
	Urgency         float64 `json:"urgency"`
	SpecialServices float64 `json:"specialServices"`
}

// PriceBreakdown - результат расчета цены, все значения округлены до центов.
type PriceBreakdown struct {
	BaseCost   float64    `json:"baseCost"`
	Surcharges Surcharges `json:"surcharges"`
	TotalPrice float64    `json:"totalPrice"`
}

// Quote представляет сохраненную котировку. Поле BaseRateApplied - снимок
// тарифа на момент расчета: последующие правки тарифа котировку не меняют.
type Quote struct {
	ID                 string        `json:"id"`
	UserID             *string       `json:"user_id,omitempty"`
	OriginCountry      string        `json:"origin_country"`
	OriginCity         string        `json:"origin_city"`
	DestinationCountry string        `json:"destination_country"`
	DestinationCity    string        `json:"destination_city"`
	ShipmentDate       time.Time     `json:"shipment_date"`
	ModeOfTransport    TransportMode `json:"mode_of_transport"`
	Weight             float64       `json:"weight"`
	Volume             *float64      `json:"volume,omitempty"`
	DeliveryType       DeliveryType  `json:"delivery_type"`
	SpecialServices    string        `json:"special_services"`
	BaseRateApplied    float64       `json:"base_rate_applied"`
	BaseCost           float64       `json:"base_cost"`
	Surcharges         Surcharges    `json:"surcharges"`
	TotalPrice         float64       `json:"total_price"`
	Currency           string        `json:"currency"`
	QuoteStatus        QuoteStatus   `json:"quote_status"`
	PdfURL             *string       `json:"pdf_url,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
	UserName           string        `json:"user_name,omitempty"`
	UserEmail          string        `json:"user_email,omitempty"`
	UserCompany        string        `json:"user_company,omitempty"`
}
