package repository

import (
	"context"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
)

func (r *Repository) GetEmployees(ctx context.Context, managerID int64) ([]*domain.Employee, error) {
	query := `
		SELECT id, name, email, position, hire_date, manager_id, created_at, updated_at, version
		FROM employees
		WHERE manager_id = $1
		ORDER BY name ASC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []*domain.Employee{}
	for rows.Next() {
		employee := &domain.Employee{}
		dst := []any{
			&employee.ID, &employee.Name, &employee.Email, &employee.Position, &employee.HireDate,
			&employee.ManagerID, &employee.CreatedAt, &employee.UpdatedAt, &employee.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) GetEmployee(ctx context.Context, managerID int64, id int64) (*domain.Employee, error) {
	query := `
		SELECT name, email, position, hire_date, created_at, updated_at, version
		FROM employees
		WHERE id = $1 AND manager_id = $2
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employee := &domain.Employee{
		ID:        id,
		ManagerID: managerID,
	}

	dst := []any{
		&employee.Name, &employee.Email, &employee.Position, &employee.HireDate,
		&employee.CreatedAt, &employee.UpdatedAt, &employee.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id, managerID).Scan(dst...); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO employees (name, email, position, hire_date, manager_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at, version
	`

	args := []any{employee.Name, employee.Email, employee.Position, employee.HireDate, employee.ManagerID}
	dst := []any{&employee.ID, &employee.CreatedAt, &employee.UpdatedAt, &employee.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE employees
		SET name = $1, email = $2, position = $3, hire_date = $4, updated_at = NOW(), version = version + 1
		WHERE id = $5 AND manager_id = $6 AND version = $7
		RETURNING updated_at, version
	`

	args := []any{
		employee.Name, employee.Email, employee.Position, employee.HireDate,
		employee.ID, employee.ManagerID, employee.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.UpdatedAt, &employee.Version); err != nil {
		return err
	}

	return nil
}

// DeleteEmployee supprime l'employé avec ses objectifs assignés, ses entretiens et leurs notes.
func (r *Repository) DeleteEmployee(ctx context.Context, managerID int64, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmts := []string{
		`DELETE FROM goal_assignments WHERE employee_id = $1`,
		`UPDATE goal_assignments SET interview_id = NULL, updated_at = NOW()
			WHERE interview_id IN (SELECT id FROM interviews WHERE employee_id = $1)`,
		`DELETE FROM notes WHERE interview_id IN (SELECT id FROM interviews WHERE employee_id = $1)`,
		`DELETE FROM interviews WHERE employee_id = $1`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = $1 AND manager_id = $2`, id, managerID)
	if err != nil {
		return err
	}
	if err := ensureAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}
