package repository

import (
	"context"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
)

func (r *Repository) GetActiveGoalTemplates(ctx context.Context) ([]*domain.GoalTemplate, error) {
	query := `
		SELECT id, title, description, category, active, created_at, updated_at, version
		FROM goal_templates
		WHERE active
		ORDER BY category, title
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []*domain.GoalTemplate{}
	for rows.Next() {
		template := &domain.GoalTemplate{}
		dst := []any{
			&template.ID, &template.Title, &template.Description, &template.Category, &template.Active,
			&template.CreatedAt, &template.UpdatedAt, &template.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

// GetGoalTemplate renvoie le modèle même désactivé.
func (r *Repository) GetGoalTemplate(ctx context.Context, id int64) (*domain.GoalTemplate, error) {
	query := `
		SELECT title, description, category, active, created_at, updated_at, version
		FROM goal_templates WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	template := &domain.GoalTemplate{
		ID: id,
	}

	dst := []any{
		&template.Title, &template.Description, &template.Category, &template.Active,
		&template.CreatedAt, &template.UpdatedAt, &template.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return template, nil
}

func (r *Repository) CreateGoalTemplate(ctx context.Context, template *domain.GoalTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO goal_templates (title, description, category)
		VALUES ($1, $2, $3)
		RETURNING id, active, created_at, updated_at, version
	`

	args := []any{template.Title, template.Description, template.Category}
	dst := []any{&template.ID, &template.Active, &template.CreatedAt, &template.UpdatedAt, &template.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateGoalTemplate(ctx context.Context, template *domain.GoalTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE goal_templates
		SET title = $1, description = $2, category = $3, active = $4, updated_at = NOW(), version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING updated_at, version
	`

	args := []any{template.Title, template.Description, template.Category, template.Active, template.ID, template.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&template.UpdatedAt, &template.Version); err != nil {
		return err
	}

	return nil
}

// DeactivateGoalTemplate masque le modèle sans toucher aux objectifs déjà assignés.
func (r *Repository) DeactivateGoalTemplate(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE goal_templates
		SET active = FALSE, updated_at = NOW(), version = version + 1
		WHERE id = $1
	`
	res, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return ensureAffected(res)
}
