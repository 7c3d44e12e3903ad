package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/orderdesk/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAdminNotFound = errors.New("admin not found")
	ErrEmailExists   = errors.New("email already exists")
)

// AdminStorage определяет интерфейс для работы с администраторами.
type AdminStorage interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
}

// PostgresAdminStorage реализует AdminStorage для PostgreSQL.
type PostgresAdminStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresAdminStorage создаёт новый экземпляр PostgresAdminStorage.
func NewPostgresAdminStorage(pool *pgxpool.Pool) *PostgresAdminStorage {
	return &PostgresAdminStorage{pool: pool}
}

// Create создаёт нового администратора.
func (s *PostgresAdminStorage) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, name, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if admin.ID == uuid.Nil {
		admin.ID = uuid.New()
	}
	if admin.Role == "" {
		admin.Role = "staff"
	}

	err := s.pool.QueryRow(ctx, query,
		admin.ID,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// GetByEmail ищет администратора по email.
func (s *PostgresAdminStorage) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM admins
		WHERE email = $1
	`
	return scanAdmin(s.pool.QueryRow(ctx, query, email))
}

// GetByID возвращает администратора по идентификатору.
func (s *PostgresAdminStorage) GetByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	query := `
		SELECT id, name, email, password_hash, role, created_at, updated_at
		FROM admins
		WHERE id = $1
	`
	return scanAdmin(s.pool.QueryRow(ctx, query, id))
}

func scanAdmin(row pgx.Row) (*models.Admin, error) {
	var admin models.Admin
	err := row.Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to scan admin: %w", err)
	}
	return &admin, nil
}
