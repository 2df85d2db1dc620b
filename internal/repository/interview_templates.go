package repository

import (
	"context"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
)

func (r *Repository) GetInterviewTemplates(ctx context.Context) ([]*domain.InterviewTemplate, error) {
	query := `
		SELECT id, name, type, structure, created_at, updated_at
		FROM interview_templates
		ORDER BY type, name
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []*domain.InterviewTemplate{}
	for rows.Next() {
		template := &domain.InterviewTemplate{}
		dst := []any{&template.ID, &template.Name, &template.Type, &template.Structure, &template.CreatedAt, &template.UpdatedAt}
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

func (r *Repository) GetInterviewTemplate(ctx context.Context, id int64) (*domain.InterviewTemplate, error) {
	query := `
		SELECT name, type, structure, created_at, updated_at
		FROM interview_templates WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	template := &domain.InterviewTemplate{
		ID: id,
	}

	dst := []any{&template.Name, &template.Type, &template.Structure, &template.CreatedAt, &template.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return template, nil
}

func (r *Repository) CreateInterviewTemplate(ctx context.Context, template *domain.InterviewTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO interview_templates (name, type, structure)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	args := []any{template.Name, template.Type, template.Structure}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&template.ID, &template.CreatedAt, &template.UpdatedAt); err != nil {
		return err
	}

	return nil
}
