package repository

import (
	"context"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
)

func (r *Repository) GetDashboardStats(ctx context.Context, managerID int64, now time.Time) (*domain.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			(SELECT COUNT(*) FROM employees WHERE manager_id = $1),
			(SELECT COUNT(*) FROM interviews WHERE manager_id = $1 AND status = 'realise'),
			(SELECT COUNT(*) FROM interviews
				WHERE manager_id = $1 AND status IN ('planifie', 'en_preparation') AND scheduled_at >= $2),
			(SELECT COUNT(*) FROM employees e
				WHERE e.manager_id = $1 AND NOT EXISTS (
					SELECT 1 FROM interviews i
					WHERE i.employee_id = e.id AND i.status IN ('planifie', 'en_preparation')
				))
	`

	stats := &domain.DashboardStats{
		GoalsByStatus: make(map[domain.GoalStatus]int, len(domain.GoalStatuses)),
	}
	for _, status := range domain.GoalStatuses {
		stats.GoalsByStatus[status] = 0
	}

	dst := []any{&stats.TotalEmployees, &stats.CompletedInterviews, &stats.UpcomingInterviews, &stats.EmployeesToSchedule}
	if err := r.dbpool.QueryRowContext(ctx, query, managerID, now).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		SELECT ga.status, COUNT(*)
		FROM goal_assignments ga
		JOIN employees e ON e.id = ga.employee_id
		WHERE e.manager_id = $1
		GROUP BY ga.status
	`

	rows, err := r.dbpool.QueryContext(ctx, query, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status domain.GoalStatus
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.GoalsByStatus[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
