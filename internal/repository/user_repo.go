package repository

import (
	"context"
	"errors"

	"github.com/freightworks/quotation-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository - интерфейс для чтения пользователей. Учетные записи
// создаются внешним сервисом авторизации.
type UserRepository interface {
	GetUserByID(ctx context.Context, userId string) (*models.User, error)
}

// PostgresUserRepository - реализация UserRepository для базы данных.
type PostgresUserRepository struct {
	DB *pgxpool.Pool
}

// NewPostgresUserRepository создаёт новый экземпляр PostgresUserRepository.
func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetUserByID возвращает пользователя по ID или nil, если он не найден.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, userId string) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, email, COALESCE(company_name, ''), role, created_at FROM users WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, userId).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.CompanyName,
		&user.Role,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
