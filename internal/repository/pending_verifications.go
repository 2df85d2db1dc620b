package repository

import (
	"context"
	"time"

	"github.com/gestion-entretiens/backend/internal/domain"
)

// ReplacePendingVerification supprime les demandes non vérifiées de l'email puis enregistre la nouvelle.
func (r *Repository) ReplacePendingVerification(ctx context.Context, pv *domain.PendingVerification) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM pending_verifications WHERE LOWER(email) = LOWER($1) AND NOT verified`
	if _, err := tx.ExecContext(ctx, query, pv.Email); err != nil {
		return err
	}

	query = `
		INSERT INTO pending_verifications (email, code, name, password_hash, department, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, verified, created_at
	`
	args := []any{pv.Email, pv.Code, pv.Name, pv.PasswordHash, pv.Department, pv.ExpiresAt}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&pv.ID, &pv.Verified, &pv.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *Repository) GetPendingVerification(ctx context.Context, email string, code string) (*domain.PendingVerification, error) {
	query := `
		SELECT id, email, name, password_hash, department, expires_at, verified, created_at
		FROM pending_verifications
		WHERE LOWER(email) = LOWER($1) AND code = $2 AND NOT verified
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	pv := &domain.PendingVerification{
		Code: code,
	}

	dst := []any{&pv.ID, &pv.Email, &pv.Name, &pv.PasswordHash, &pv.Department, &pv.ExpiresAt, &pv.Verified, &pv.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, email, code).Scan(dst...); err != nil {
		return nil, err
	}

	return pv, nil
}

func (r *Repository) DeletePendingVerification(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, `DELETE FROM pending_verifications WHERE id = $1`, id)
	return err
}

// CompleteSignup crée le manager et consomme la demande dans une seule transaction.
func (r *Repository) CompleteSignup(ctx context.Context, pv *domain.PendingVerification) (*domain.Manager, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	manager := &domain.Manager{
		Name:         pv.Name,
		Email:        pv.Email,
		PasswordHash: pv.PasswordHash,
		Department:   pv.Department,
	}

	query := `
		INSERT INTO managers (name, email, password_hash, department)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	args := []any{manager.Name, manager.Email, manager.PasswordHash, manager.Department}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&manager.ID, &manager.CreatedAt, &manager.UpdatedAt); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE pending_verifications SET verified = TRUE WHERE id = $1`, pv.ID); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pending_verifications WHERE id = $1`, pv.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	pv.Verified = true
	return manager, nil
}

// PurgeExpiredPendingVerifications supprime les demandes expirées avant before et renvoie leur nombre.
func (r *Repository) PurgeExpiredPendingVerifications(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	res, err := r.dbpool.ExecContext(ctx, `DELETE FROM pending_verifications WHERE expires_at < $1`, before)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
