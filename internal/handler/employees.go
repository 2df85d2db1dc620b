package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gestion-entretiens/backend/internal/domain"
	"github.com/gestion-entretiens/backend/internal/utils"
)

func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.store.GetEmployees(r.Context(), managerID(r))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, employees)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"nom" validate:"required,max=100"`
		Email    string `json:"email" validate:"required,email,max=100"`
		Position string `json:"poste" validate:"required,max=100"`
		HireDate string `json:"date_embauche" validate:"required,date"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hireDate, err := utils.ParseDate(req.HireDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := &domain.Employee{
		Name:      req.Name,
		Email:     req.Email,
		Position:  req.Position,
		HireDate:  hireDate,
		ManagerID: managerID(r),
	}

	if err := h.store.CreateEmployee(r.Context(), employee); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, employee)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)
	h.writeJSON(w, r, http.StatusOK, employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	var req struct {
		Name     *string `json:"nom" validate:"omitempty,min=1,max=100"`
		Email    *string `json:"email" validate:"omitempty,email,max=100"`
		Position *string `json:"poste" validate:"omitempty,min=1,max=100"`
		HireDate *string `json:"date_embauche" validate:"omitempty,date"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Email != nil {
		email := utils.NormalizeEmail(*req.Email)
		req.Email = &email
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil {
		employee.Email = *req.Email
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.HireDate != nil {
		hireDate, err := utils.ParseDate(*req.HireDate)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		employee.HireDate = hireDate
	}

	if err := h.store.UpdateEmployee(r.Context(), employee); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "L'employé a été modifié entre-temps, veuillez réessayer")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.writeJSON(w, r, http.StatusOK, employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.store.DeleteEmployee(r.Context(), managerID(r), employee.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "Employé non trouvé")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.messageResponse(w, r, "Employé supprimé avec succès")
}
