package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/freightworks/quotation-service/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// RateRepository - интерфейс для работы с тарифной таблицей.
type RateRepository interface {
	GetRates(ctx context.Context, isActive *bool, modes []string) ([]models.RateRecord, error)
	GetRateByID(ctx context.Context, rateId string) (*models.RateRecord, error)
	CreateRate(ctx context.Context, rate models.RateRecord) (*models.RateRecord, error)
	UpdateRate(ctx context.Context, rate models.RateRecord) (*models.RateRecord, error)
	DeleteRate(ctx context.Context, rateId string) error
	ToggleRate(ctx context.Context, rateId string) (*models.RateRecord, error)
	ActiveRatesForRoute(ctx context.Context, originCountry, destinationCountry string, mode models.TransportMode) ([]models.RateRecord, error)
}

// PostgresRateRepository - реализация RateRepository для базы данных.
type PostgresRateRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresRateRepository создаёт новый экземпляр PostgresRateRepository.
func NewPostgresRateRepository(db *pgxpool.Pool) *PostgresRateRepository {
	return &PostgresRateRepository{DB: db}
}

const rateColumns = `r.id, r.origin_zone, r.destination_zone, r.mode_of_transport, r.weight_min, r.weight_max,
       r.rate_per_kg, r.fuel_surcharge_pct, r.valid_from, r.valid_to, r.currency, r.is_active,
       r.created_by, COALESCE(u.name, ''), r.created_at, r.updated_at`

func scanRate(row pgx.Row) (*models.RateRecord, error) {
	var rate models.RateRecord
	err := row.Scan(
		&rate.ID,
		&rate.OriginZone,
		&rate.DestinationZone,
		&rate.ModeOfTransport,
		&rate.WeightMin,
		&rate.WeightMax,
		&rate.RatePerKg,
		&rate.FuelSurchargePct,
		&rate.ValidFrom,
		&rate.ValidTo,
		&rate.Currency,
		&rate.IsActive,
		&rate.CreatedBy,
		&rate.CreatedByName,
		&rate.CreatedAt,
		&rate.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// GetRates возвращает список тарифов, новые первыми.
func (r *PostgresRateRepository) GetRates(ctx context.Context, isActive *bool, modes []string) ([]models.RateRecord, error) {
	query := `SELECT ` + rateColumns + ` FROM rates r LEFT JOIN users u ON u.id = r.created_by`
	var filters []string
	var args []interface{}
	argIndex := 1

	if isActive != nil {
		filters = append(filters, fmt.Sprintf("r.is_active = $%d", argIndex))
		args = append(args, *isActive)
		argIndex++
	}
	if len(modes) > 0 {
		filters = append(filters, fmt.Sprintf("r.mode_of_transport = ANY($%d)", argIndex))
		args = append(args, pq.Array(modes))
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}
	query += " ORDER BY r.created_at DESC"

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []models.RateRecord
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, *rate)
	}
	return rates, rows.Err()
}

// GetRateByID возвращает тариф по ID или nil, если тариф не найден.
func (r *PostgresRateRepository) GetRateByID(ctx context.Context, rateId string) (*models.RateRecord, error) {
	query := `SELECT ` + rateColumns + ` FROM rates r LEFT JOIN users u ON u.id = r.created_by WHERE r.id = $1`
	rate, err := scanRate(r.DB.QueryRow(ctx, query, rateId))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// CreateRate создает новый тариф.
func (r *PostgresRateRepository) CreateRate(ctx context.Context, rate models.RateRecord) (*models.RateRecord, error) {
	rate.ID = uuid.New().String()
	rate.CreatedAt = time.Now().UTC()
	rate.UpdatedAt = rate.CreatedAt

	_, err := r.DB.Exec(ctx, `
       INSERT INTO rates (id, origin_zone, destination_zone, mode_of_transport, weight_min, weight_max,
                          rate_per_kg, fuel_surcharge_pct, valid_from, valid_to, currency, is_active,
                          created_by, created_at, updated_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
   `,
		rate.ID,
		rate.OriginZone,
		rate.DestinationZone,
		rate.ModeOfTransport,
		rate.WeightMin,
		rate.WeightMax,
		rate.RatePerKg,
		rate.FuelSurchargePct,
		rate.ValidFrom,
		rate.ValidTo,
		rate.Currency,
		rate.IsActive,
		rate.CreatedBy,
		rate.CreatedAt,
		rate.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rate: %w", err)
	}
	return &rate, nil
}

// UpdateRate полностью обновляет тариф. Поле created_by не перезаписывается.
func (r *PostgresRateRepository) UpdateRate(ctx context.Context, rate models.RateRecord) (*models.RateRecord, error) {
	query := `UPDATE rates SET origin_zone = $1, destination_zone = $2, mode_of_transport = $3,
	          weight_min = $4, weight_max = $5, rate_per_kg = $6, fuel_surcharge_pct = $7,
	          valid_from = $8, valid_to = $9, currency = $10, is_active = $11, updated_at = $12
	          WHERE id = $13`
	tag, err := r.DB.Exec(ctx, query,
		rate.OriginZone,
		rate.DestinationZone,
		rate.ModeOfTransport,
		rate.WeightMin,
		rate.WeightMax,
		rate.RatePerKg,
		rate.FuelSurchargePct,
		rate.ValidFrom,
		rate.ValidTo,
		rate.Currency,
		rate.IsActive,
		time.Now().UTC(),
		rate.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update rate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetRateByID(ctx, rate.ID)
}

// DeleteRate удаляет тариф. Возвращает pgx.ErrNoRows, если тарифа нет.
func (r *PostgresRateRepository) DeleteRate(ctx context.Context, rateId string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM rates WHERE id = $1`, rateId)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ToggleRate переключает флаг активности тарифа.
func (r *PostgresRateRepository) ToggleRate(ctx context.Context, rateId string) (*models.RateRecord, error) {
	tag, err := r.DB.Exec(ctx, `UPDATE rates SET is_active = NOT is_active, updated_at = $1 WHERE id = $2`,
		time.Now().UTC(), rateId)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return r.GetRateByID(ctx, rateId)
}

// ActiveRatesForRoute возвращает активные тарифы-кандидаты для маршрута.
// Политика сопоставления зон: регистронезависимое вхождение страны запроса
// в зону тарифа (ILIKE '%...%'). Фильтры по весу и окну действия применяет
// RateMatcher.
func (r *PostgresRateRepository) ActiveRatesForRoute(ctx context.Context, originCountry, destinationCountry string, mode models.TransportMode) ([]models.RateRecord, error) {
	query := `SELECT ` + rateColumns + `
	          FROM rates r LEFT JOIN users u ON u.id = r.created_by
	          WHERE r.is_active = TRUE
	            AND r.origin_zone ILIKE '%' || $1 || '%'
	            AND r.destination_zone ILIKE '%' || $2 || '%'
	            AND r.mode_of_transport = $3
	          ORDER BY r.rate_per_kg ASC`

	rows, err := r.DB.Query(ctx, query, originCountry, destinationCountry, mode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []models.RateRecord
	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		rates = append(rates, *rate)
	}
	return rates, rows.Err()
}
