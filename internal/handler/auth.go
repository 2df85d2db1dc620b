package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gestion-entretiens/backend/internal/apperror"
	"github.com/gestion-entretiens/backend/internal/domain"
	"github.com/gestion-entretiens/backend/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

type AuthClaims struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"nom"`
	jwt.RegisteredClaims
}

type ManagerPayload struct {
	ID         int64   `json:"id"`
	Name       string  `json:"nom"`
	Email      string  `json:"email"`
	Department *string `json:"departement"`
}

func newManagerPayload(m *domain.Manager) ManagerPayload {
	return ManagerPayload{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Department: m.Department,
	}
}

func (h *Handler) issueToken(m *domain.Manager) (string, error) {
	now := h.now()
	expiration := now.Add(time.Duration(h.config.JWT.Expiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		ID:    m.ID,
		Email: m.Email,
		Name:  m.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(m.ID, 10),
		},
	})

	return token.SignedString([]byte(h.config.JWT.Secret))
}

// allowAttempt laisse passer la requête si Redis est indisponible.
func (h *Handler) allowAttempt(r *http.Request, key string) bool {
	ok, err := h.limiter.Allow(r.Context(), key)
	if err != nil {
		h.requestLogger(r).WithError(err).Warn("Limiteur de tentatives indisponible")
		return true
	}
	return ok
}

func (h *Handler) recordFailedAttempt(r *http.Request, key string) {
	if err := h.limiter.Hit(r.Context(), key); err != nil {
		h.requestLogger(r).WithError(err).Warn("Impossible de comptabiliser la tentative")
	}
}

func (h *Handler) resetAttempts(r *http.Request, key string) {
	if err := h.limiter.Reset(r.Context(), key); err != nil {
		h.requestLogger(r).WithError(err).Warn("Impossible de réinitialiser les tentatives")
	}
}

var errTooManyAttempts = apperror.New(apperror.CodeTooManyAttempts, "Trop de tentatives, veuillez réessayer plus tard")

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"mot_de_passe" validate:"required"`
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

	attemptKey := "login_" + req.Email
	if !h.allowAttempt(r, attemptKey) {
		h.errorResponse(w, r, errTooManyAttempts)
		return
	}

	invalidCredentials := apperror.New(apperror.CodeInvalidCredentials, "Identifiants incorrects")

	manager, err := h.store.GetManagerByEmail(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.recordFailedAttempt(r, attemptKey)
			h.errorResponse(w, r, invalidCredentials)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.recordFailedAttempt(r, attemptKey)
			h.errorResponse(w, r, invalidCredentials)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.resetAttempts(r, attemptKey)

	token, err := h.issueToken(manager)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, struct {
		Token   string         `json:"token"`
		Manager ManagerPayload `json:"manager"`
	}{
		Token:   token,
		Manager: newManagerPayload(manager),
	})
}

func (h *Handler) RequestCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string  `json:"nom" validate:"required,max=100"`
		Email      string  `json:"email" validate:"required,email,max=100"`
		Password   string  `json:"mot_de_passe" validate:"required,min=8"`
		Department *string `json:"departement" validate:"omitempty,max=100"`
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

	isExists, err := h.store.CheckEmailIfExists(r.Context(), req.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if isExists {
		h.conflict(w, r, "Un compte existe déjà avec cet email")
		return
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	pv := &domain.PendingVerification{
		Email:        req.Email,
		Code:         code,
		Name:         req.Name,
		PasswordHash: string(passwordHash),
		Department:   req.Department,
		ExpiresAt:    h.now().Add(time.Duration(h.config.Verification.Expiration) * time.Second),
	}

	// une nouvelle demande remplace la précédente, l'ancien code devient inutilisable
	if err := h.store.ReplacePendingVerification(r.Context(), pv); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "pending_verifications_email_unverified_key":
			h.conflict(w, r, "Une demande est déjà en cours pour cet email, veuillez réessayer")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.mailQueue.Publish(r.Context(), domain.MailMessage{
		Type: domain.MailTypeVerificationCode,
		To:   req.Email,
		Data: domain.VerificationCodeMailData{
			Code:       code,
			Expiration: h.config.Verification.Expiration / 60, // en minutes dans le mail, en secondes dans la config
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, struct {
		Message string `json:"message"`
		Email   string `json:"email"`
	}{
		Message: "Code de vérification envoyé par email",
		Email:   req.Email,
	})
}

func (h *Handler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required"`
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

	attemptKey := "verify_" + req.Email
	if !h.allowAttempt(r, attemptKey) {
		h.errorResponse(w, r, errTooManyAttempts)
		return
	}

	pv, err := h.store.GetPendingVerification(r.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.recordFailedAttempt(r, attemptKey)
			h.errorResponse(w, r, apperror.New(apperror.CodeInvalidOrUsedCode, "Code invalide ou déjà utilisé"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if pv.IsExpired(h.now()) {
		if err := h.store.DeletePendingVerification(r.Context(), pv.ID); err != nil {
			h.internalServerError(w, r, err)
			return
		}
		h.errorResponse(w, r, apperror.New(apperror.CodeCodeExpired, "Code expiré, veuillez en demander un nouveau"))
		return
	}

	manager, err := h.store.CompleteSignup(r.Context(), pv)
	if err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "managers_email_key":
			h.conflict(w, r, "Un compte existe déjà avec cet email")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.resetAttempts(r, attemptKey)

	token, err := h.issueToken(manager)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// le compte existe déjà, un échec d'envoi du mail de bienvenue n'est que journalisé
	if err := h.mailQueue.Publish(context.WithoutCancel(r.Context()), domain.MailMessage{
		Type: domain.MailTypeWelcome,
		To:   manager.Email,
		Data: domain.WelcomeMailData{
			Name:        manager.Name,
			FrontendURL: h.config.Email.FrontendURL,
		},
	}); err != nil {
		h.requestLogger(r).WithError(err).Warn("Échec de l'envoi du mail de bienvenue")
	}

	h.writeJSON(w, r, http.StatusCreated, struct {
		Message string         `json:"message"`
		Token   string         `json:"token"`
		Manager ManagerPayload `json:"manager"`
	}{
		Message: "Compte créé avec succès",
		Token:   token,
		Manager: newManagerPayload(manager),
	})
}
