package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/freightworks/quotation-service/internal/auth"
	"github.com/freightworks/quotation-service/internal/handlers"
	"github.com/freightworks/quotation-service/internal/models"
	"github.com/freightworks/quotation-service/internal/router"
	"github.com/freightworks/quotation-service/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "handlers-test-secret"

type fakeQuoteRepo struct {
	mu     sync.Mutex
	quotes map[string]*models.Quote
}

func newFakeQuoteRepo() *fakeQuoteRepo {
	return &fakeQuoteRepo{quotes: make(map[string]*models.Quote)}
}

func (r *fakeQuoteRepo) CreateQuote(_ context.Context, quote models.Quote) (*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quote.ID = uuid.New().String()
	now := time.Now().UTC()
	quote.CreatedAt = now
	quote.UpdatedAt = now
	stored := quote
	r.quotes[quote.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeQuoteRepo) GetQuoteByID(_ context.Context, quoteId string) (*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quote, ok := r.quotes[quoteId]
	if !ok {
		return nil, nil
	}
	copied := *quote
	return &copied, nil
}

func (r *fakeQuoteRepo) GetUserQuotes(_ context.Context, userId string) ([]models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Quote
	for _, quote := range r.quotes {
		if quote.UserID != nil && *quote.UserID == userId {
			result = append(result, *quote)
		}
	}
	return result, nil
}

func (r *fakeQuoteRepo) GetAllQuotes(_ context.Context) ([]models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.Quote
	for _, quote := range r.quotes {
		result = append(result, *quote)
	}
	return result, nil
}

func (r *fakeQuoteRepo) UpdateQuoteStatus(_ context.Context, quoteId string, status models.QuoteStatus) (*models.Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quote, ok := r.quotes[quoteId]
	if !ok {
		return nil, nil
	}
	quote.QuoteStatus = status
	quote.UpdatedAt = time.Now().UTC()
	copied := *quote
	return &copied, nil
}

func (r *fakeQuoteRepo) UpdatePdfURL(_ context.Context, quoteId, pdfURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	quote, ok := r.quotes[quoteId]
	if !ok {
		return pgx.ErrNoRows
	}
	quote.PdfURL = &pdfURL
	return nil
}

func (r *fakeQuoteRepo) DeleteQuote(_ context.Context, quoteId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.quotes[quoteId]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.quotes, quoteId)
	return nil
}

type fakeRateRepo struct {
	mu    sync.Mutex
	rates map[string]*models.RateRecord
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{rates: make(map[string]*models.RateRecord)}
}

func (r *fakeRateRepo) GetRates(_ context.Context, isActive *bool, modes []string) ([]models.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.RateRecord
	for _, rate := range r.rates {
		if isActive != nil && rate.IsActive != *isActive {
			continue
		}
		if len(modes) > 0 {
			found := false
			for _, mode := range modes {
				if string(rate.ModeOfTransport) == mode {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		result = append(result, *rate)
	}
	return result, nil
}

func (r *fakeRateRepo) GetRateByID(_ context.Context, rateId string) (*models.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rate, ok := r.rates[rateId]
	if !ok {
		return nil, nil
	}
	copied := *rate
	return &copied, nil
}

func (r *fakeRateRepo) CreateRate(_ context.Context, rate models.RateRecord) (*models.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rate.ID = uuid.New().String()
	now := time.Now().UTC()
	rate.CreatedAt = now
	rate.UpdatedAt = now
	stored := rate
	r.rates[rate.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeRateRepo) UpdateRate(_ context.Context, rate models.RateRecord) (*models.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.rates[rate.ID]
	if !ok {
		return nil, nil
	}
	rate.CreatedBy = existing.CreatedBy
	rate.CreatedAt = existing.CreatedAt
	rate.UpdatedAt = time.Now().UTC()
	stored := rate
	r.rates[rate.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeRateRepo) DeleteRate(_ context.Context, rateId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rates[rateId]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rates, rateId)
	return nil
}

func (r *fakeRateRepo) ToggleRate(_ context.Context, rateId string) (*models.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rate, ok := r.rates[rateId]
	if !ok {
		return nil, nil
	}
	rate.IsActive = !rate.IsActive
	rate.UpdatedAt = time.Now().UTC()
	copied := *rate
	return &copied, nil
}

func (r *fakeRateRepo) ActiveRatesForRoute(_ context.Context, originCountry, destinationCountry string, mode models.TransportMode) ([]models.RateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.RateRecord
	for _, rate := range r.rates {
		if !rate.IsActive || rate.ModeOfTransport != mode {
			continue
		}
		if !zoneMatches(rate.OriginZone, originCountry) || !zoneMatches(rate.DestinationZone, destinationCountry) {
			continue
		}
		result = append(result, *rate)
	}
	return result, nil
}

func zoneMatches(zone, country string) bool {
	return strings.Contains(strings.ToLower(zone), strings.ToLower(country))
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, userId string) (*models.User, error) {
	return r.users[userId], nil
}

type fakePdfRenderer struct {
	dir string
}

func (f *fakePdfRenderer) Render(_ context.Context, quote *models.Quote, _ *models.User) (string, error) {
	name := fmt.Sprintf("quote_%s_%d.pdf", quote.ID, time.Now().UnixNano())
	if err := os.WriteFile(filepath.Join(f.dir, name), []byte("%PDF-1.4 test"), 0o644); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func (f *fakePdfRenderer) FilePath(pdfURL string) string {
	return filepath.Join(f.dir, filepath.Base(pdfURL))
}

type noopScheduler struct{}

func (noopScheduler) Enqueue(string) bool { return true }

type apiFixture struct {
	server   *httptest.Server
	quotes   *fakeQuoteRepo
	rates    *fakeRateRepo
	renderer *fakePdfRenderer
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	uploadDir := t.TempDir()
	quotes := newFakeQuoteRepo()
	rates := newFakeRateRepo()
	users := &fakeUserRepo{users: map[string]*models.User{
		"user-1": {ID: "user-1", Name: "Anna Schmidt", Email: "anna@example.com", Role: models.RegularUser},
		"admin-1": {ID: "admin-1", Name: "Boris Petrov", Email: "boris@example.com", Role: models.AdminUser},
	}}
	renderer := &fakePdfRenderer{dir: uploadDir}
	logger := zap.NewNop()

	quotationService := services.NewQuotationService(
		quotes,
		users,
		services.NewQuoteValidator(),
		services.NewRateMatcher(rates),
		services.NewPriceCalculator(),
		noopScheduler{},
		renderer,
		nil,
		logger,
	)
	rateService := services.NewRateService(rates)

	handler := router.InitRoutes(
		handlers.NewQuoteHandler(quotationService, logger, 5*time.Second),
		handlers.NewRateHandler(rateService, logger, 5*time.Second),
		auth.NewMiddleware(testSecret),
		uploadDir,
		[]string{"*"},
	)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &apiFixture{server: server, quotes: quotes, rates: rates, renderer: renderer}
}

func (f *apiFixture) seedRate(t *testing.T) *models.RateRecord {
	t.Helper()
	rate, err := f.rates.CreateRate(context.Background(), models.RateRecord{
		OriginZone:       "Germany",
		DestinationZone:  "Spain",
		ModeOfTransport:  models.RoadTransport,
		WeightMin:        0,
		WeightMax:        1000,
		RatePerKg:        5,
		FuelSurchargePct: 10,
		ValidFrom:        time.Now().UTC().Add(-24 * time.Hour),
		ValidTo:          time.Now().UTC().Add(365 * 24 * time.Hour),
		Currency:         "USD",
		IsActive:         true,
	})
	require.NoError(t, err)
	return rate
}

func tokenFor(t *testing.T, subject string, role models.UserRole) string {
	t.Helper()
	claims := auth.Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   *int            `json:"count"`
	Errors  []string        `json:"errors"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func quoteBody() map[string]interface{} {
	return map[string]interface{}{
		"origin_country":      "Germany",
		"origin_city":         "Hamburg",
		"destination_country": "Spain",
		"destination_city":    "Valencia",
		"shipment_date":       time.Now().UTC().Add(72 * time.Hour).Format(time.DateOnly),
		"mode_of_transport":   "road",
		"weight":              100,
		"delivery_type":       "standard",
	}
}

func TestAPI_Ping(t *testing.T) {
	fixture := newAPIFixture(t)

	resp := fixture.do(t, http.MethodGet, "/api/ping", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_CreateQuote_Anonymous(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedRate(t)

	resp := fixture.do(t, http.MethodPost, "/api/quotes", "", quoteBody())

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.True(t, body.Success)
	assert.Equal(t, "quote generated successfully", body.Message)

	var quote models.Quote
	require.NoError(t, json.Unmarshal(body.Data, &quote))
	assert.Nil(t, quote.UserID)
	assert.Equal(t, 500.0, quote.BaseCost)
	assert.Equal(t, 50.0, quote.Surcharges.Fuel)
	assert.Equal(t, 550.0, quote.TotalPrice)
	assert.Equal(t, models.PendingQuote, quote.QuoteStatus)
}

func TestAPI_CreateQuote_StringWeightIsAccepted(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedRate(t)

	body := quoteBody()
	body["weight"] = "100"

	resp := fixture.do(t, http.MethodPost, "/api/quotes", "", body)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var quote models.Quote
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &quote))
	assert.Equal(t, 100.0, quote.Weight)
}

func TestAPI_CreateQuote_Authenticated(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedRate(t)

	resp := fixture.do(t, http.MethodPost, "/api/quotes", tokenFor(t, "user-1", models.RegularUser), quoteBody())

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var quote models.Quote
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &quote))
	require.NotNil(t, quote.UserID)
	assert.Equal(t, "user-1", *quote.UserID)
}

func TestAPI_CreateQuote_ValidationErrors(t *testing.T) {
	fixture := newAPIFixture(t)

	resp := fixture.do(t, http.MethodPost, "/api/quotes", "", map[string]interface{}{
		"origin_country": "Germany",
		"weight":         -5,
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.False(t, body.Success)
	assert.Equal(t, "validation failed", body.Message)
	assert.Contains(t, body.Errors, "weight must be a positive number")
	assert.Contains(t, body.Errors, "destination_country is required")
}

func TestAPI_CreateQuote_NoMatchingRate(t *testing.T) {
	fixture := newAPIFixture(t)

	resp := fixture.do(t, http.MethodPost, "/api/quotes", "", quoteBody())

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.Equal(t, "no matching rate found for this route and weight", body.Message)
}

func TestAPI_GetQuote_Ownership(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedRate(t)

	resp := fixture.do(t, http.MethodPost, "/api/quotes", tokenFor(t, "user-1", models.RegularUser), quoteBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var quote models.Quote
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &quote))

	t.Run("owner can read", func(t *testing.T) {
		resp := fixture.do(t, http.MethodGet, "/api/quotes/"+quote.ID, tokenFor(t, "user-1", models.RegularUser), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		resp := fixture.do(t, http.MethodGet, "/api/quotes/"+quote.ID, tokenFor(t, "user-2", models.RegularUser), nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin can read", func(t *testing.T) {
		resp := fixture.do(t, http.MethodGet, "/api/quotes/"+quote.ID, tokenFor(t, "admin-1", models.AdminUser), nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("anonymous is rejected", func(t *testing.T) {
		resp := fixture.do(t, http.MethodGet, "/api/quotes/"+quote.ID, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAPI_GetMyQuotes(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedRate(t)

	for i := 0; i < 2; i++ {
		resp := fixture.do(t, http.MethodPost, "/api/quotes", tokenFor(t, "user-1", models.RegularUser), quoteBody())
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := fixture.do(t, http.MethodPost, "/api/quotes", tokenFor(t, "user-2", models.RegularUser), quoteBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = fixture.do(t, http.MethodGet, "/api/quotes/my-quotes", tokenFor(t, "user-1", models.RegularUser), nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	require.NotNil(t, body.Count)
	assert.Equal(t, 2, *body.Count)
}

func TestAPI_GetAllQuotes_AdminOnly(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedRate(t)

	resp := fixture.do(t, http.MethodPost, "/api/quotes", "", quoteBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = fixture.do(t, http.MethodGet, "/api/quotes/all", tokenFor(t, "user-1", models.RegularUser), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = fixture.do(t, http.MethodGet, "/api/quotes/all", tokenFor(t, "admin-1", models.AdminUser), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	require.NotNil(t, body.Count)
	assert.Equal(t, 1, *body.Count)
}

func TestAPI_UpdateQuoteStatus(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedRate(t)

	resp := fixture.do(t, http.MethodPost, "/api/quotes", "", quoteBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var quote models.Quote
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &quote))

	adminToken := tokenFor(t, "admin-1", models.AdminUser)

	t.Run("regular user is rejected", func(t *testing.T) {
		resp := fixture.do(t, http.MethodPatch, "/api/quotes/"+quote.ID+"/status",
			tokenFor(t, "user-1", models.RegularUser), map[string]string{"status": "approved"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("invalid status", func(t *testing.T) {
		resp := fixture.do(t, http.MethodPatch, "/api/quotes/"+quote.ID+"/status",
			adminToken, map[string]string{"status": "shipped"})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, decodeEnvelope(t, resp).Message, "invalid status")
	})

	t.Run("approve", func(t *testing.T) {
		resp := fixture.do(t, http.MethodPatch, "/api/quotes/"+quote.ID+"/status",
			adminToken, map[string]string{"status": "approved"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var updated models.Quote
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &updated))
		assert.Equal(t, models.ApprovedQuote, updated.QuoteStatus)
	})

	t.Run("missing quote", func(t *testing.T) {
		resp := fixture.do(t, http.MethodPatch, "/api/quotes/"+uuid.New().String()+"/status",
			adminToken, map[string]string{"status": "approved"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAPI_DeleteQuote(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedRate(t)

	resp := fixture.do(t, http.MethodPost, "/api/quotes", "", quoteBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var quote models.Quote
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &quote))

	adminToken := tokenFor(t, "admin-1", models.AdminUser)

	resp = fixture.do(t, http.MethodDelete, "/api/quotes/"+quote.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = fixture.do(t, http.MethodGet, "/api/quotes/"+quote.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = fixture.do(t, http.MethodDelete, "/api/quotes/"+quote.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_DownloadQuotePdf(t *testing.T) {
	fixture := newAPIFixture(t)
	fixture.seedRate(t)

	resp := fixture.do(t, http.MethodPost, "/api/quotes", tokenFor(t, "user-1", models.RegularUser), quoteBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var quote models.Quote
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &quote))

	userToken := tokenFor(t, "user-1", models.RegularUser)

	resp = fixture.do(t, http.MethodGet, "/api/quotes/"+quote.ID+"/download", userToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "quote_"+quote.ID+".pdf")

	t.Run("regenerates after file removal", func(t *testing.T) {
		stored, err := fixture.quotes.GetQuoteByID(context.Background(), quote.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.PdfURL)
		require.NoError(t, os.Remove(fixture.renderer.FilePath(*stored.PdfURL)))

		resp := fixture.do(t, http.MethodGet, "/api/quotes/"+quote.ID+"/download", userToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		resp := fixture.do(t, http.MethodGet, "/api/quotes/"+quote.ID+"/download",
			tokenFor(t, "user-2", models.RegularUser), nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func rateBody() map[string]interface{} {
	return map[string]interface{}{
		"origin_zone":        "France",
		"destination_zone":   "Italy",
		"mode_of_transport":  "rail",
		"weight_min":         0,
		"weight_max":         2000,
		"rate_per_kg":        3.25,
		"fuel_surcharge_pct": 8,
		"valid_from":         "2026-01-01",
		"valid_to":           "2026-12-31",
	}
}

func TestAPI_Rates_CRUD(t *testing.T) {
	fixture := newAPIFixture(t)
	adminToken := tokenFor(t, "admin-1", models.AdminUser)
	userToken := tokenFor(t, "user-1", models.RegularUser)

	resp := fixture.do(t, http.MethodPost, "/api/rates", adminToken, rateBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rate models.RateRecord
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &rate))
	assert.Equal(t, "USD", rate.Currency)
	require.NotNil(t, rate.CreatedBy)
	assert.Equal(t, "admin-1", *rate.CreatedBy)

	t.Run("listing requires a token", func(t *testing.T) {
		resp := fixture.do(t, http.MethodGet, "/api/rates", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("regular user can list", func(t *testing.T) {
		resp := fixture.do(t, http.MethodGet, "/api/rates", userToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeEnvelope(t, resp)
		require.NotNil(t, body.Count)
		assert.Equal(t, 1, *body.Count)
	})

	t.Run("regular user cannot create", func(t *testing.T) {
		resp := fixture.do(t, http.MethodPost, "/api/rates", userToken, rateBody())
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("invalid filter", func(t *testing.T) {
		resp := fixture.do(t, http.MethodGet, "/api/rates?is_active=maybe", userToken, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("update", func(t *testing.T) {
		body := rateBody()
		body["rate_per_kg"] = 4.75
		resp := fixture.do(t, http.MethodPut, "/api/rates/"+rate.ID, adminToken, body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var updated models.RateRecord
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &updated))
		assert.Equal(t, 4.75, updated.RatePerKg)
	})

	t.Run("toggle", func(t *testing.T) {
		resp := fixture.do(t, http.MethodPatch, "/api/rates/"+rate.ID+"/toggle", adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeEnvelope(t, resp)
		assert.Equal(t, "rate deactivated successfully", body.Message)
	})

	t.Run("delete", func(t *testing.T) {
		resp := fixture.do(t, http.MethodDelete, "/api/rates/"+rate.ID, adminToken, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = fixture.do(t, http.MethodGet, "/api/rates/"+rate.ID, adminToken, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestAPI_CreateRate_ValidationErrors(t *testing.T) {
	fixture := newAPIFixture(t)

	resp := fixture.do(t, http.MethodPost, "/api/rates", tokenFor(t, "admin-1", models.AdminUser),
		map[string]interface{}{"origin_zone": "France"})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeEnvelope(t, resp)
	assert.False(t, body.Success)
	assert.Contains(t, body.Errors, "destination_zone is required")
	assert.Contains(t, body.Errors, "rate_per_kg is required")
}

func TestAPI_DeactivatedRateStopsMatching(t *testing.T) {
	fixture := newAPIFixture(t)
	rate := fixture.seedRate(t)
	adminToken := tokenFor(t, "admin-1", models.AdminUser)

	resp := fixture.do(t, http.MethodPost, "/api/quotes", "", quoteBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = fixture.do(t, http.MethodPatch, "/api/rates/"+rate.ID+"/toggle", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = fixture.do(t, http.MethodPost, "/api/quotes", "", quoteBody())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
