package repository

import (
	"context"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
)

func (r *Repository) GetManagerByID(ctx context.Context, id int64) (*domain.Manager, error) {
	query := `
		SELECT name, email, password_hash, department, created_at, updated_at
		FROM managers WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	manager := &domain.Manager{
		ID: id,
	}

	dst := []any{&manager.Name, &manager.Email, &manager.PasswordHash, &manager.Department, &manager.CreatedAt, &manager.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return manager, nil
}

func (r *Repository) GetManagerByEmail(ctx context.Context, email string) (*domain.Manager, error) {
	query := `
		SELECT id, name, email, password_hash, department, created_at, updated_at
		FROM managers WHERE LOWER(email) = LOWER($1)
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	manager := &domain.Manager{}

	dst := []any{&manager.ID, &manager.Name, &manager.Email, &manager.PasswordHash, &manager.Department, &manager.CreatedAt, &manager.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(dst...); err != nil {
		return nil, err
	}

	return manager, nil
}

func (r *Repository) CreateManager(ctx context.Context, manager *domain.Manager) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO managers (name, email, password_hash, department)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	args := []any{manager.Name, manager.Email, manager.PasswordHash, manager.Department}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&manager.ID, &manager.CreatedAt, &manager.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) CheckEmailIfExists(ctx context.Context, email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM managers WHERE LOWER(email) = LOWER($1))
	`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) CountManagers(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var count int
	if err := r.dbpool.QueryRowContext(ctx, `SELECT COUNT(*) FROM managers`).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
