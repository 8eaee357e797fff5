package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"nr6/internal/domain"
	"nr6/internal/port"
)

type adminUserRepo struct {
	db *sqlx.DB
}

// NewAdminUserRepo creates a new PostgreSQL-backed AdminUserRepository.
func NewAdminUserRepo(db *sqlx.DB) port.AdminUserRepository {
	return &adminUserRepo{db: db}
}

func (r *adminUserRepo) Create(ctx context.Context, user *domain.AdminUser) error {
	user.ID = uuid.New()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query := `INSERT INTO admin_users (id, email, password_hash, full_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("adminUserRepo.Create: %w", err)
	}
	return nil
}

func (r *adminUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error) {
	var user domain.AdminUser
	err := r.db.GetContext(ctx, &user, "SELECT * FROM admin_users WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("adminUserRepo.GetByID: %w", err)
	}
	return &user, nil
}

func (r *adminUserRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	var user domain.AdminUser
	err := r.db.GetContext(ctx, &user,
		"SELECT * FROM admin_users WHERE email = $1", strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("adminUserRepo.GetByEmail: %w", err)
	}
	return &user, nil
}
