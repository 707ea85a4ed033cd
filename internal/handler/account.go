package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/verano-labs/registration-api/internal/usecase"
)

// User-visible messages stay generic wherever a precise diagnostic would
// reveal whether an account or code exists.
const (
	msgCouldNotVerify  = "Could not verify user"
	msgForgotPassword  = "If an account with that email is registered you will receive a password reset email"
	msgCouldNotReset   = "Could not reset password"
	msgInternalError   = "something went wrong"
	msgDeliveryFailed  = "Account created but the verification email could not be delivered"
	msgResetMailFailed = "Could not deliver the password reset email"
	msgAccountCreated  = "User successfully created"
	msgAccountVerified = "User successfully verified"
	msgPasswordUpdated = "Successfully updated password"
	msgAlreadyExists   = "Account already exists"
)

// AccountHandler exposes the account lifecycle operations over HTTP.
type AccountHandler struct {
	accountUsecase usecase.AccountUsecase
	validate       *validator.Validate
	logger         *zerolog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUsecase usecase.AccountUsecase, logger *zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUsecase: accountUsecase,
		validate:       validator.New(),
		logger:         logger,
	}
}

// Routes mounts the account lifecycle endpoints.
func (h *AccountHandler) Routes(r chi.Router) {
	r.Post("/api/users", h.Register)
	r.Post("/api/users/verify/{id}/{verificationCode}", h.Verify)
	r.Post("/api/users/forgotpassword", h.ForgotPassword)
	r.Post("/api/users/resetpassword/{id}/{passwordResetCode}", h.ResetPassword)
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.accountUsecase.Register(r.Context(), usecase.RegisterParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAccountAlreadyExists):
			respondMessage(w, http.StatusConflict, msgAlreadyExists)
		case errors.Is(err, usecase.ErrNotificationFailed):
			// The account is persisted; only the email delivery failed.
			respondJSON(w, http.StatusCreated, registerResponse{
				Message: msgDeliveryFailed,
				Account: newAccountResponse(user),
			})
		default:
			h.logger.Error().Err(err).Msg("failed to register user")
			respondMessage(w, http.StatusInternalServerError, msgInternalError)
		}

		return
	}

	respondJSON(w, http.StatusCreated, registerResponse{
		Message: msgAccountCreated,
		Account: newAccountResponse(user),
	})
}

func (h *AccountHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	code := chi.URLParam(r, "verificationCode")

	err := h.accountUsecase.Verify(r.Context(), id, code)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAccountNotFound),
			errors.Is(err, usecase.ErrInvalidVerificationCode):
			// One message for both, so callers cannot tell a missing
			// account from a wrong code.
			respondMessage(w, http.StatusBadRequest, msgCouldNotVerify)
		default:
			h.logger.Error().Err(err).Msg("failed to verify user")
			respondMessage(w, http.StatusInternalServerError, msgInternalError)
		}

		return
	}

	respondMessage(w, http.StatusOK, msgAccountVerified)
}

func (h *AccountHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.accountUsecase.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAccountNotVerified):
			// Unverified accounts get the same generic reply as unknown
			// emails; the distinction lives only in the logs.
			h.logger.Debug().Str("email", req.Email).Msg("password reset requested for unverified account")
		case errors.Is(err, usecase.ErrNotificationFailed):
			respondMessage(w, http.StatusInternalServerError, msgResetMailFailed)
			return
		default:
			h.logger.Error().Err(err).Msg("failed to request password reset")
			respondMessage(w, http.StatusInternalServerError, msgInternalError)
			return
		}
	}

	respondMessage(w, http.StatusOK, msgForgotPassword)
}

func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	code := chi.URLParam(r, "passwordResetCode")

	var req ResetPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.accountUsecase.CompletePasswordReset(r.Context(), id, code, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidPasswordReset):
			respondMessage(w, http.StatusBadRequest, msgCouldNotReset)
		default:
			h.logger.Error().Err(err).Msg("failed to reset password")
			respondMessage(w, http.StatusInternalServerError, msgInternalError)
		}

		return
	}

	respondMessage(w, http.StatusOK, msgPasswordUpdated)
}

func (h *AccountHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := h.validate.Struct(req); err != nil {
		respondMessage(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}
