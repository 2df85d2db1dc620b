package domain

import "time"

type Employee struct {
	ID        int64     `json:"id"`
	Name      string    `json:"nom"`
	Email     string    `json:"email"`
	Position  string    `json:"poste"`
	HireDate  time.Time `json:"date_embauche"`
	ManagerID int64     `json:"manager_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int32     `json:"-"`
}

// EmployeeSummary est la forme réduite embarquée dans les entretiens et les objectifs.
type EmployeeSummary struct {
	ID       int64  `json:"id"`
	Name     string `json:"nom"`
	Email    string `json:"email"`
	Position string `json:"poste"`
}
