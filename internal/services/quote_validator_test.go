package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/freightworks/quotation-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuoteRequest() models.QuoteRequest {
	return models.QuoteRequest{
		OriginCountry:      "Germany",
		OriginCity:         "Hamburg",
		DestinationCountry: "Spain",
		DestinationCity:    "Valencia",
		ShipmentDate:       time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339),
		ModeOfTransport:    models.RoadTransport,
		Weight:             json.Number("100"),
		DeliveryType:       models.StandardDelivery,
	}
}

func TestQuoteValidator_Valid(t *testing.T) {
	validator := NewQuoteValidator()

	validated, err := validator.Validate(validQuoteRequest())
	require.NoError(t, err)

	assert.Equal(t, 100.0, validated.Weight)
	assert.False(t, validated.ShipmentDate.IsZero())
}

func TestQuoteValidator_NormalizesFields(t *testing.T) {
	validator := NewQuoteValidator()

	req := validQuoteRequest()
	req.OriginCountry = "  Germany  "
	req.SpecialServices = " insurance "
	req.Weight = json.Number("12.5")

	validated, err := validator.Validate(req)
	require.NoError(t, err)

	assert.Equal(t, "Germany", validated.Request.OriginCountry)
	assert.Equal(t, "insurance", validated.Request.SpecialServices)
	assert.Equal(t, 12.5, validated.Weight)
}

func TestQuoteValidator_ReportsEveryViolation(t *testing.T) {
	validator := NewQuoteValidator()

	_, err := validator.Validate(models.QuoteRequest{})

	var errorResponse *models.ErrorResponse
	require.ErrorAs(t, err, &errorResponse)
	assert.Equal(t, 400, errorResponse.StatusCode)
	assert.Len(t, errorResponse.Details, 8)
	assert.Contains(t, errorResponse.Details, "origin_country is required")
	assert.Contains(t, errorResponse.Details, "weight is required")
	assert.Contains(t, errorResponse.Details, "shipment_date is required")
}

func TestQuoteValidator_InvalidValues(t *testing.T) {
	validator := NewQuoteValidator()

	tests := []struct {
		name   string
		mutate func(req *models.QuoteRequest)
		detail string
	}{
		{
			"zero weight",
			func(req *models.QuoteRequest) { req.Weight = json.Number("0") },
			"weight must be a positive number",
		},
		{
			"negative weight",
			func(req *models.QuoteRequest) { req.Weight = json.Number("-10") },
			"weight must be a positive number",
		},
		{
			"non-numeric weight",
			func(req *models.QuoteRequest) { req.Weight = json.Number("heavy") },
			"weight must be a positive number",
		},
		{
			"unknown transport mode",
			func(req *models.QuoteRequest) { req.ModeOfTransport = "teleport" },
			"mode_of_transport must be: road, air, sea, or rail",
		},
		{
			"unknown delivery type",
			func(req *models.QuoteRequest) { req.DeliveryType = "sometime" },
			"delivery_type must be: urgent or standard",
		},
		{
			"unparseable date",
			func(req *models.QuoteRequest) { req.ShipmentDate = "next tuesday" },
			"shipment_date is not a valid date",
		},
		{
			"past date",
			func(req *models.QuoteRequest) { req.ShipmentDate = "2020-01-01" },
			"shipment_date must be in the future",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validQuoteRequest()
			tt.mutate(&req)

			_, err := validator.Validate(req)

			var errorResponse *models.ErrorResponse
			require.ErrorAs(t, err, &errorResponse)
			assert.Contains(t, errorResponse.Details, tt.detail)
		})
	}
}

func TestQuoteValidator_TodayDateOnlyIsAccepted(t *testing.T) {
	validator := NewQuoteValidator()

	req := validQuoteRequest()
	req.ShipmentDate = time.Now().UTC().Format(time.DateOnly)

	_, err := validator.Validate(req)
	assert.NoError(t, err)
}
