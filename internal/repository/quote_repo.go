package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freightworks/quotation-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuoteRepository - интерфейс для работы с котировками.
type QuoteRepository interface {
	CreateQuote(ctx context.Context, quote models.Quote) (*models.Quote, error)
	GetQuoteByID(ctx context.Context, quoteId string) (*models.Quote, error)
	GetUserQuotes(ctx context.Context, userId string) ([]models.Quote, error)
	GetAllQuotes(ctx context.Context) ([]models.Quote, error)
	UpdateQuoteStatus(ctx context.Context, quoteId string, status models.QuoteStatus) (*models.Quote, error)
	UpdatePdfURL(ctx context.Context, quoteId, pdfURL string) error
	DeleteQuote(ctx context.Context, quoteId string) error
}

// PostgresQuoteRepository - реализация QuoteRepository для базы данных.
type PostgresQuoteRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresQuoteRepository создаёт новый экземпляр PostgresQuoteRepository.
func NewPostgresQuoteRepository(db *pgxpool.Pool) *PostgresQuoteRepository {
	return &PostgresQuoteRepository{DB: db}
}

const quoteColumns = `q.id, q.user_id, q.origin_country, q.origin_city, q.destination_country, q.destination_city,
       q.shipment_date, q.mode_of_transport, q.weight, q.volume, q.delivery_type, q.special_services,
       q.base_rate_applied, q.base_cost, q.fuel_surcharge, q.urgency_surcharge, q.special_services_surcharge,
       q.total_price, q.currency, q.quote_status, q.pdf_url, q.created_at, q.updated_at,
       COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.company_name, '')`

func scanQuote(row pgx.Row) (*models.Quote, error) {
	var quote models.Quote
	err := row.Scan(
		&quote.ID,
		&quote.UserID,
		&quote.OriginCountry,
		&quote.OriginCity,
		&quote.DestinationCountry,
		&quote.DestinationCity,
		&quote.ShipmentDate,
		&quote.ModeOfTransport,
		&quote.Weight,
		&quote.Volume,
		&quote.DeliveryType,
		&quote.SpecialServices,
		&quote.BaseRateApplied,
		&quote.BaseCost,
		&quote.Surcharges.Fuel,
		&quote.Surcharges.Urgency,
		&quote.Surcharges.SpecialServices,
		&quote.TotalPrice,
		&quote.Currency,
		&quote.QuoteStatus,
		&quote.PdfURL,
		&quote.CreatedAt,
		&quote.UpdatedAt,
		&quote.UserName,
		&quote.UserEmail,
		&quote.UserCompany,
	)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// CreateQuote сохраняет новую котировку и возвращает её с присвоенным ID.
func (r *PostgresQuoteRepository) CreateQuote(ctx context.Context, quote models.Quote) (*models.Quote, error) {
	quote.ID = uuid.New().String()
	quote.CreatedAt = time.Now().UTC()
	quote.UpdatedAt = quote.CreatedAt

	_, err := r.DB.Exec(ctx, `
       INSERT INTO quotes (id, user_id, origin_country, origin_city, destination_country, destination_city,
                           shipment_date, mode_of_transport, weight, volume, delivery_type, special_services,
                           base_rate_applied, base_cost, fuel_surcharge, urgency_surcharge,
                           special_services_surcharge, total_price, currency, quote_status,
                           created_at, updated_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
   `,
		quote.ID,
		quote.UserID,
		quote.OriginCountry,
		quote.OriginCity,
		quote.DestinationCountry,
		quote.DestinationCity,
		quote.ShipmentDate,
		quote.ModeOfTransport,
		quote.Weight,
		quote.Volume,
		quote.DeliveryType,
		quote.SpecialServices,
		quote.BaseRateApplied,
		quote.BaseCost,
		quote.Surcharges.Fuel,
		quote.Surcharges.Urgency,
		quote.Surcharges.SpecialServices,
		quote.TotalPrice,
		quote.Currency,
		quote.QuoteStatus,
		quote.CreatedAt,
		quote.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quote: %w", err)
	}
	return &quote, nil
}

// GetQuoteByID возвращает котировку по ID или nil, если она не найдена.
func (r *PostgresQuoteRepository) GetQuoteByID(ctx context.Context, quoteId string) (*models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes q LEFT JOIN users u ON u.id = q.user_id WHERE q.id = $1`
	quote, err := scanQuote(r.DB.QueryRow(ctx, query, quoteId))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// GetUserQuotes возвращает котировки пользователя, новые первыми.
func (r *PostgresQuoteRepository) GetUserQuotes(ctx context.Context, userId string) ([]models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes q LEFT JOIN users u ON u.id = q.user_id
	          WHERE q.user_id = $1 ORDER BY q.created_at DESC`
	return r.queryQuotes(ctx, query, userId)
}

// GetAllQuotes возвращает все котировки с данными заказчика, новые первыми.
func (r *PostgresQuoteRepository) GetAllQuotes(ctx context.Context) ([]models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes q LEFT JOIN users u ON u.id = q.user_id
	          ORDER BY q.created_at DESC`
	return r.queryQuotes(ctx, query)
}

func (r *PostgresQuoteRepository) queryQuotes(ctx context.Context, query string, args ...interface{}) ([]models.Quote, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *quote)
	}
	return quotes, rows.Err()
}

// UpdateQuoteStatus безусловно выставляет статус котировки. Конкурентные
// обновления не сериализуются: побеждает последняя запись.
func (r *PostgresQuoteRepository) UpdateQuoteStatus(ctx context.Context, quoteId string, status models.QuoteStatus) (*models.Quote, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE quotes SET quote_status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), quoteId)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetQuoteByID(ctx, quoteId)
}

// UpdatePdfURL записывает относительный путь к сгенерированному PDF.
func (r *PostgresQuoteRepository) UpdatePdfURL(ctx context.Context, quoteId, pdfURL string) error {
	_, err := r.DB.Exec(ctx, `UPDATE quotes SET pdf_url = $1, updated_at = $2 WHERE id = $3`,
		pdfURL, time.Now().UTC(), quoteId)
	return err
}

// DeleteQuote безусловно удаляет котировку. PDF-артефакт на диске не трогаем.
func (r *PostgresQuoteRepository) DeleteQuote(ctx context.Context, quoteId string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, quoteId)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
