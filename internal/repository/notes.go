package repository

import (
	"context"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
)

func (r *Repository) GetNotes(ctx context.Context, interviewID int64) ([]*domain.Note, error) {
	query := `
		SELECT id, section, content, phase, created_at, updated_at
		FROM notes
		WHERE interview_id = $1
		ORDER BY created_at ASC, id ASC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		note := &domain.Note{
			InterviewID: interviewID,
		}
		dst := []any{&note.ID, &note.Section, &note.Content, &note.Phase, &note.CreatedAt, &note.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

// GetNote ne renvoie la note que si son entretien appartient au manager.
func (r *Repository) GetNote(ctx context.Context, managerID int64, id int64) (*domain.Note, error) {
	query := `
		SELECT n.interview_id, n.section, n.content, n.phase, n.created_at, n.updated_at
		FROM notes n
		JOIN interviews i ON i.id = n.interview_id
		WHERE n.id = $1 AND i.manager_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	note := &domain.Note{
		ID: id,
	}

	dst := []any{&note.InterviewID, &note.Section, &note.Content, &note.Phase, &note.CreatedAt, &note.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id, managerID).Scan(dst...); err != nil {
		return nil, err
	}

	return note, nil
}

func (r *Repository) CreateNote(ctx context.Context, note *domain.Note) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO notes (interview_id, section, content, phase)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	args := []any{note.InterviewID, note.Section, note.Content, note.Phase}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateNote(ctx context.Context, note *domain.Note) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE notes
		SET section = $1, content = $2, phase = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	args := []any{note.Section, note.Content, note.Phase, note.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&note.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteNote(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return ensureAffected(res)
}
