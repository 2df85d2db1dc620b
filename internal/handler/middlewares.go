package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gestion-entretiens/backend/internal/apperror"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), RequestIDCtxKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		h.requestLogger(r).WithFields(logrus.Fields{
			"status":   rw.StatusCode,
			"ip":       r.RemoteAddr,
			"duration": duration,
		}).Info("Requête traitée")
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.requestLogger(r).WithField("stack", string(debug.Stack())).Error("Panique interceptée")
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// le token est attendu sous la forme "Authorization: Bearer <token>"
		tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		tokenString = strings.TrimSpace(tokenString)
		if !ok || tokenString == "" {
			h.errorResponse(w, r, apperror.New(apperror.CodeMissingToken, "Token d'accès requis"))
			return
		}

		claims := &AuthClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(h.now))
		if err != nil || claims.ID <= 0 {
			h.errorResponse(w, r, apperror.New(apperror.CodeInvalidToken, "Token invalide ou expiré"))
			return
		}

		ctx := context.WithValue(r.Context(), ManagerIDCtxKey, claims.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func managerID(r *http.Request) int64 {
	return r.Context().Value(ManagerIDCtxKey).(int64)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) employee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		employeeID, err := idParam(r)
		if err != nil {
			h.notFound(w, r, "Employé non trouvé")
			return
		}

		employee, err := h.store.GetEmployee(r.Context(), managerID(r), employeeID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "Employé non trouvé")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), EmployeeCtx, employee)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) interview(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		interviewID, err := idParam(r)
		if err != nil {
			h.notFound(w, r, "Entretien non trouvé")
			return
		}

		interview, err := h.store.GetInterview(r.Context(), managerID(r), interviewID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "Entretien non trouvé")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), InterviewCtx, interview)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) note(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		noteID, err := idParam(r)
		if err != nil {
			h.notFound(w, r, "Note non trouvée")
			return
		}

		note, err := h.store.GetNote(r.Context(), managerID(r), noteID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "Note non trouvée")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), NoteCtx, note)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) goalTemplate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		templateID, err := idParam(r)
		if err != nil {
			h.notFound(w, r, "Template d'objectif non trouvé")
			return
		}

		template, err := h.store.GetGoalTemplate(r.Context(), templateID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "Template d'objectif non trouvé")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), GoalTemplateCtx, template)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) goalAssignment(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assignmentID, err := idParam(r)
		if err != nil {
			h.notFound(w, r, "Objectif assigné non trouvé")
			return
		}

		assignment, err := h.store.GetGoalAssignment(r.Context(), managerID(r), assignmentID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "Objectif assigné non trouvé")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), GoalAssignmentCtx, assignment)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
