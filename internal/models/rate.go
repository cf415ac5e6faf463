package models

import "time"

type TransportMode string // Способ перевозки груза

const (
	RoadTransport TransportMode = "road"
	AirTransport  TransportMode = "air"
	SeaTransport  TransportMode = "sea"
	RailTransport TransportMode = "rail"
)

// TransportModes перечисляет допустимые способы перевозки.
var TransportModes = map[TransportMode]bool{
	RoadTransport: true,
	AirTransport:  true,
	SeaTransport:  true,
	RailTransport: true,
}

// RateRecord представляет строку тарифной таблицы: цена за килограмм для
// маршрута, способа перевозки и весового диапазона в пределах окна действия.
// Справочные данные: генерация котировки никогда их не изменяет.
type RateRecord struct {
	ID               string        `json:"id"`
	OriginZone       string        `json:"origin_zone"`
	DestinationZone  string        `json:"destination_zone"`
	ModeOfTransport  TransportMode `json:"mode_of_transport"`
	WeightMin        float64       `json:"weight_min"`
	WeightMax        float64       `json:"weight_max"`
	RatePerKg        float64       `json:"rate_per_kg"`
	FuelSurchargePct float64       `json:"fuel_surcharge_pct"`
	ValidFrom        time.Time     `json:"valid_from"`
	ValidTo          time.Time     `json:"valid_to"`
	Currency         string        `json:"currency"`
	IsActive         bool          `json:"is_active"`
	CreatedBy        *string       `json:"created_by,omitempty"`
	CreatedByName    string        `json:"created_by_name,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// RateRequest представляет структуру запроса для создания или обновления тарифа.
type RateRequest struct {
	OriginZone       string        `json:"origin_zone"`
	DestinationZone  string        `json:"destination_zone"`
	ModeOfTransport  TransportMode `json:"mode_of_transport"`
	WeightMin        *float64      `json:"weight_min"`
	WeightMax        *float64      `json:"weight_max"`
	RatePerKg        *float64      `json:"rate_per_kg"`
	FuelSurchargePct *float64      `json:"fuel_surcharge_pct"`
	ValidFrom        string        `json:"valid_from"`
	ValidTo          string        `json:"valid_to"`
	Currency         string        `json:"currency"`
	IsActive         *bool         `json:"is_active"`
}
