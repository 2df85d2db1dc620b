package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
)

const interviewColumns = `
	i.id, i.employee_id, i.manager_id, i.template_id, i.type, i.scheduled_at, i.completed_at,
	i.status, i.title, i.objectives, i.created_at, i.updated_at, i.version,
	e.id, e.name, e.email, e.position,
	t.id, t.name, t.type, t.structure
`

const interviewJoins = `
	FROM interviews i
	JOIN employees e ON e.id = i.employee_id
	LEFT JOIN interview_templates t ON t.id = i.template_id
`

func scanInterview(row scanner) (*domain.Interview, error) {
	interview := &domain.Interview{
		Employee: &domain.EmployeeSummary{},
	}

	var (
		templateID   sql.NullInt64
		templateName sql.NullString
		templateType sql.NullString
		structure    []byte
	)

	dst := []any{
		&interview.ID, &interview.EmployeeID, &interview.ManagerID, &interview.TemplateID, &interview.Type,
		&interview.ScheduledAt, &interview.CompletedAt, &interview.Status, &interview.Title, &interview.Objectives,
		&interview.CreatedAt, &interview.UpdatedAt, &interview.Version,
		&interview.Employee.ID, &interview.Employee.Name, &interview.Employee.Email, &interview.Employee.Position,
		&templateID, &templateName, &templateType, &structure,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if templateID.Valid {
		interview.Template = &domain.InterviewTemplateSummary{
			ID:   templateID.Int64,
			Name: templateName.String,
			Type: domain.InterviewType(templateType.String),
		}
		if err := interview.Template.Structure.Scan(structure); err != nil {
			return nil, err
		}
	}

	return interview, nil
}

func (r *Repository) GetInterviews(ctx context.Context, managerID int64) ([]*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + interviewJoins + `
		WHERE i.manager_id = $1
		ORDER BY i.scheduled_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interviews := []*domain.Interview{}
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		interviews = append(interviews, interview)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return interviews, nil
}

func (r *Repository) GetInterview(ctx context.Context, managerID int64, id int64) (*domain.Interview, error) {
	query := `SELECT ` + interviewColumns + interviewJoins + `
		WHERE i.id = $1 AND i.manager_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanInterview(r.dbpool.QueryRowContext(ctx, query, id, managerID))
}

func (r *Repository) CreateInterview(ctx context.Context, interview *domain.Interview) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO interviews (employee_id, manager_id, template_id, type, scheduled_at, completed_at, status, title, objectives)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at, version
	`

	args := []any{
		interview.EmployeeID, interview.ManagerID, interview.TemplateID, interview.Type, interview.ScheduledAt,
		interview.CompletedAt, interview.Status, interview.Title, interview.Objectives,
	}
	dst := []any{&interview.ID, &interview.CreatedAt, &interview.UpdatedAt, &interview.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateInterview(ctx context.Context, interview *domain.Interview) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE interviews
		SET template_id = $1, type = $2, scheduled_at = $3, completed_at = $4, status = $5,
			title = $6, objectives = $7, updated_at = NOW(), version = version + 1
		WHERE id = $8 AND manager_id = $9 AND version = $10
		RETURNING updated_at, version
	`

	args := []any{
		interview.TemplateID, interview.Type, interview.ScheduledAt, interview.CompletedAt, interview.Status,
		interview.Title, interview.Objectives, interview.ID, interview.ManagerID, interview.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&interview.UpdatedAt, &interview.Version); err != nil {
		return err
	}

	return nil
}

// DeleteInterview supprime l'entretien et ses notes, les objectifs liés sont détachés.
func (r *Repository) DeleteInterview(ctx context.Context, managerID int64, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE interview_id = $1`, id); err != nil {
		return err
	}

	query := `UPDATE goal_assignments SET interview_id = NULL, updated_at = NOW() WHERE interview_id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM interviews WHERE id = $1 AND manager_id = $2`, id, managerID)
	if err != nil {
		return err
	}
	if err := ensureAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

// GetInterviewReminders liste les entretiens à venir prévus dans [from, to).
func (r *Repository) GetInterviewReminders(ctx context.Context, from time.Time, to time.Time) ([]*domain.InterviewReminder, error) {
	query := `
		SELECT i.id, i.title, i.scheduled_at, m.name, m.email, e.name
		FROM interviews i
		JOIN managers m ON m.id = i.manager_id
		JOIN employees e ON e.id = i.employee_id
		WHERE i.status IN ('planifie', 'en_preparation') AND i.scheduled_at >= $1 AND i.scheduled_at < $2
		ORDER BY i.scheduled_at ASC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []*domain.InterviewReminder{}
	for rows.Next() {
		reminder := &domain.InterviewReminder{}
		dst := []any{
			&reminder.InterviewID, &reminder.Title, &reminder.ScheduledAt,
			&reminder.ManagerName, &reminder.ManagerEmail, &reminder.EmployeeName,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reminders, nil
}
