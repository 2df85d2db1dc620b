package domain

import "time"

type Manager struct {
	ID           int64     `json:"id"`
	Name         string    `json:"nom"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Department   *string   `json:"departement"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PendingVerification porte une demande d'inscription en attente de confirmation par code.
type PendingVerification struct {
	ID           int64
	Email        string
	Code         string
	Name         string
	PasswordHash string
	Department   *string
	ExpiresAt    time.Time
	Verified     bool
	CreatedAt    time.Time
}

func (pv *PendingVerification) IsExpired(now time.Time) bool {
	return now.After(pv.ExpiresAt)
}
