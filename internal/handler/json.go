package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gestion-entretiens/backend/internal/apperror"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

func (h *Handler) requestLogger(r *http.Request) *logrus.Entry {
	entry := h.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	})
	if id, ok := r.Context().Value(RequestIDCtxKey).(string); ok {
		entry = entry.WithField("request_id", id)
	}
	return entry
}

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	h.requestLogger(r).WithError(err).Error("Erreur interne du serveur")
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
	}
}

type ErrorResponse struct {
	Error string        `json:"error"`
	Code  apperror.Code `json:"code"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func statusFor(code apperror.Code) int {
	switch code {
	case apperror.CodeValidation, apperror.CodeConflict, apperror.CodeInvalidOrUsedCode, apperror.CodeCodeExpired:
		return http.StatusBadRequest
	case apperror.CodeInvalidCredentials, apperror.CodeMissingToken:
		return http.StatusUnauthorized
	case apperror.CodeInvalidToken:
		return http.StatusForbidden
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeTooManyAttempts:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	code := apperror.GetCode(err)
	if code == apperror.CodeInternal {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, statusFor(code), ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.errorResponse(w, r, apperror.New(apperror.CodeValidation, validationErrors[0].Translate(h.translator)))
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		h.errorResponse(w, r, apperror.New(apperror.CodeValidation, "Corps de requête JSON invalide"))
	case errors.As(err, &typeErr):
		h.errorResponse(w, r, apperror.New(apperror.CodeValidation, "Type invalide pour le champ "+typeErr.Field))
	default:
		h.errorResponse(w, r, apperror.New(apperror.CodeValidation, err.Error()))
	}
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, apperror.New(apperror.CodeNotFound, msg))
}

func (h *Handler) conflict(w http.ResponseWriter, r *http.Request, msg string) {
	h.errorResponse(w, r, apperror.New(apperror.CodeConflict, msg))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{
		Error: "Erreur serveur",
		Code:  apperror.CodeInternal,
	})
}

func (h *Handler) messageResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, MessageResponse{
		Message: msg,
	})
}
