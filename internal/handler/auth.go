package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/paytrack/paytrack-backend/internal/auth"
	"github.com/paytrack/paytrack-backend/internal/domain"
	"github.com/paytrack/paytrack-backend/internal/logging"
)

type ownerRepo interface {
	Create(ctx context.Context, owner *domain.Owner) error
	GetByUsername(ctx context.Context, username string) (*domain.Owner, error)
}

type AuthHandler struct {
	owners    ownerRepo
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthHandler(owners ownerRepo, jwtSecret string, jwtExpiry time.Duration) *AuthHandler {
	return &AuthHandler{
		owners:    owners,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

const minPasswordLen = 8

func (r credentialsRequest) Validate() []FieldError {
	var errs []FieldError
	if r.Username == "" {
		errs = append(errs, FieldError{Field: "username", Message: "required"})
	}
	if len(r.Password) < minPasswordLen {
		errs = append(errs, FieldError{Field: "password", Message: "must be at least 8 characters"})
	}
	return errs
}

type authResponse struct {
	OwnerID  uuid.UUID `json:"owner_id"`
	Username string    `json:"username"`
	Token    string    `json:"token"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to hash password", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	owner := &domain.Owner{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.owners.Create(r.Context(), owner); err != nil {
		logging.FromContext(r.Context()).Error("failed to create owner", "error", err)
		RespondDomainError(w, err)
		return
	}

	token, err := auth.GenerateToken(owner.ID, owner.Username, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to generate token", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, http.StatusCreated, authResponse{
		OwnerID:  owner.ID,
		Username: owner.Username,
		Token:    token,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	owner, err := h.owners.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			RespondAppError(w, ErrInvalidCredentials, nil)
			return
		}
		logging.FromContext(r.Context()).Error("failed to look up owner", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.Password)); err != nil {
		RespondAppError(w, ErrInvalidCredentials, nil)
		return
	}

	token, err := auth.GenerateToken(owner.ID, owner.Username, h.jwtSecret, h.jwtExpiry)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to generate token", "error", err)
		RespondAppError(w, ErrInternalError, nil)
		return
	}

	RespondSuccess(w, http.StatusOK, authResponse{
		OwnerID:  owner.ID,
		Username: owner.Username,
		Token:    token,
	})
}

// ownerFromContext returns the authenticated owner, set by the auth
// middleware.
func ownerFromContext(r *http.Request) (uuid.UUID, *AppError) {
	ownerID, ok := auth.OwnerIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, ErrMissingToken
	}
	return ownerID, nil
}
