package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
)

const goalAssignmentColumns = `
	ga.id, ga.goal_template_id, ga.employee_id, ga.interview_id, ga.priority, ga.assigned_at, ga.due_date,
	ga.status, ga.progress, ga.notes, ga.created_at, ga.updated_at, ga.version,
	g.id, g.title, g.description, g.category, g.active, g.created_at, g.updated_at,
	e.id, e.name, e.email, e.position,
	i.id, i.title, i.scheduled_at, i.type
`

const goalAssignmentJoins = `
	FROM goal_assignments ga
	JOIN goal_templates g ON g.id = ga.goal_template_id
	JOIN employees e ON e.id = ga.employee_id
	LEFT JOIN interviews i ON i.id = ga.interview_id
`

func scanGoalAssignment(row scanner) (*domain.GoalAssignment, error) {
	assignment := &domain.GoalAssignment{
		GoalTemplate: &domain.GoalTemplate{},
		Employee:     &domain.EmployeeSummary{},
	}

	var (
		interviewID          sql.NullInt64
		interviewTitle       sql.NullString
		interviewScheduledAt sql.NullTime
		interviewType        sql.NullString
	)

	dst := []any{
		&assignment.ID, &assignment.GoalTemplateID, &assignment.EmployeeID, &assignment.InterviewID,
		&assignment.Priority, &assignment.AssignedAt, &assignment.DueDate, &assignment.Status,
		&assignment.Progress, &assignment.Notes, &assignment.CreatedAt, &assignment.UpdatedAt, &assignment.Version,
		&assignment.GoalTemplate.ID, &assignment.GoalTemplate.Title, &assignment.GoalTemplate.Description,
		&assignment.GoalTemplate.Category, &assignment.GoalTemplate.Active,
		&assignment.GoalTemplate.CreatedAt, &assignment.GoalTemplate.UpdatedAt,
		&assignment.Employee.ID, &assignment.Employee.Name, &assignment.Employee.Email, &assignment.Employee.Position,
		&interviewID, &interviewTitle, &interviewScheduledAt, &interviewType,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}

	if interviewID.Valid {
		assignment.Interview = &domain.InterviewSummary{
			ID:          interviewID.Int64,
			Title:       interviewTitle.String,
			ScheduledAt: interviewScheduledAt.Time,
			Type:        domain.InterviewType(interviewType.String),
		}
	}

	return assignment, nil
}

func (r *Repository) queryGoalAssignments(ctx context.Context, where string, args ...any) ([]*domain.GoalAssignment, error) {
	query := `SELECT ` + goalAssignmentColumns + goalAssignmentJoins + where + `
		ORDER BY ga.assigned_at DESC, ga.id DESC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []*domain.GoalAssignment{}
	for rows.Next() {
		assignment, err := scanGoalAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *Repository) GetGoalAssignments(ctx context.Context, managerID int64) ([]*domain.GoalAssignment, error) {
	return r.queryGoalAssignments(ctx, `WHERE e.manager_id = $1`, managerID)
}

func (r *Repository) GetGoalAssignmentsByEmployee(ctx context.Context, managerID int64, employeeID int64) ([]*domain.GoalAssignment, error) {
	return r.queryGoalAssignments(ctx, `WHERE e.manager_id = $1 AND ga.employee_id = $2`, managerID, employeeID)
}

func (r *Repository) GetGoalAssignmentsByInterview(ctx context.Context, managerID int64, interviewID int64) ([]*domain.GoalAssignment, error) {
	return r.queryGoalAssignments(ctx, `WHERE e.manager_id = $1 AND ga.interview_id = $2`, managerID, interviewID)
}

// GetGoalAssignment ne renvoie l'objectif que si son employé appartient au manager.
func (r *Repository) GetGoalAssignment(ctx context.Context, managerID int64, id int64) (*domain.GoalAssignment, error) {
	query := `SELECT ` + goalAssignmentColumns + goalAssignmentJoins + `
		WHERE ga.id = $1 AND e.manager_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanGoalAssignment(r.dbpool.QueryRowContext(ctx, query, id, managerID))
}

func (r *Repository) CreateGoalAssignment(ctx context.Context, assignment *domain.GoalAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO goal_assignments
			(goal_template_id, employee_id, interview_id, priority, assigned_at, due_date, status, progress, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at, version
	`

	args := []any{
		assignment.GoalTemplateID, assignment.EmployeeID, assignment.InterviewID, assignment.Priority,
		assignment.AssignedAt, assignment.DueDate, assignment.Status, assignment.Progress, assignment.Notes,
	}
	dst := []any{&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt, &assignment.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateGoalAssignment(ctx context.Context, assignment *domain.GoalAssignment) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE goal_assignments
		SET priority = $1, due_date = $2, status = $3, progress = $4, notes = $5,
			updated_at = NOW(), version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING updated_at, version
	`

	args := []any{
		assignment.Priority, assignment.DueDate, assignment.Status, assignment.Progress, assignment.Notes,
		assignment.ID, assignment.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&assignment.UpdatedAt, &assignment.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteGoalAssignment(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, `DELETE FROM goal_assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return ensureAffected(res)
}
