package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/cashtrackr/cashtrackr-be/internal/api/respond"
	"github.com/cashtrackr/cashtrackr-be/internal/auth"
	"github.com/cashtrackr/cashtrackr-be/internal/mailer"
	"github.com/cashtrackr/cashtrackr-be/internal/services"
	"github.com/cashtrackr/cashtrackr-be/internal/validation"
)

// AuthHandler handles registration, account confirmation and the
// password flows.
type AuthHandler struct {
	users  services.UserServiceProvider
	tokens *auth.TokenManager
	mail   mailer.Mailer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, tokens *auth.TokenManager, mail mailer.Mailer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, mail: mail}
}

// Register handles new user registration. The account starts unconfirmed;
// the confirmation code goes out by email, best-effort.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.Validate(
		validation.Field{Name: "name", Value: payload.Name, Rules: []validation.Rule{
			validation.Required("Name is required"),
		}},
		validation.Field{Name: "email", Value: payload.Email, Rules: []validation.Rule{
			validation.Required("Email is required"),
			validation.Email("Invalid email"),
		}},
		validation.Field{Name: "password", Value: payload.Password, Rules: []validation.Rule{
			validation.Required("Password is required"),
			validation.MinLength(8, "Password must be at least 8 characters"),
		}},
	); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	token := auth.GenerateToken()
	user, err := h.users.CreateUser(payload.Name, payload.Email, payload.Password, token)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			respond.Error(w, http.StatusConflict, "User already exists")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respond.Internal(w)
		return
	}

	// The account is committed; a mail failure must not undo that.
	if err := h.mail.SendConfirmation(mailer.EmailData{
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to send confirmation email")
	}

	respond.Success(w, http.StatusCreated, "User created successfully")
}

// ConfirmAccount consumes a confirmation code and activates the account.
func (h *AuthHandler) ConfirmAccount(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.Validate(
		validation.Field{Name: "token", Value: payload.Token, Rules: []validation.Rule{
			validation.Length(auth.TokenLength, "Invalid token"),
		}},
	); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	if err := h.users.ConfirmAccount(payload.Token); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			respond.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		log.Error().Err(err).Msg("Failed to confirm account")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusOK, "Account confirmed successfully")
}

// Login authenticates credentials and issues a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.Validate(
		validation.Field{Name: "email", Value: payload.Email, Rules: []validation.Rule{
			validation.Required("Email is required"),
			validation.Email("Invalid email"),
		}},
		validation.Field{Name: "password", Value: payload.Password, Rules: []validation.Rule{
			validation.Required("Password is required"),
		}},
	); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	user, err := h.users.Authenticate(payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			respond.Error(w, http.StatusNotFound, "User not found")
		case errors.Is(err, services.ErrUnconfirmed):
			respond.Error(w, http.StatusForbidden, "Unconfirmed account")
		case errors.Is(err, services.ErrInvalidPassword):
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respond.Error(w, http.StatusUnauthorized, "Invalid password")
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Login failed")
			respond.Internal(w)
		}
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to issue session token")
		respond.Internal(w)
		return
	}

	respond.JSON(w, http.StatusOK, respond.Envelope{
		Status:  "success",
		Message: "Login successfully",
		Token:   token,
	})
}

// ForgotPassword issues a fresh reset code and emails it. The account
// does not need to be confirmed.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.Validate(
		validation.Field{Name: "email", Value: payload.Email, Rules: []validation.Rule{
			validation.Required("Email is required"),
			validation.Email("Invalid email"),
		}},
	); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	user, err := h.users.GetUserByEmail(payload.Email)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respond.Error(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to look up user")
		respond.Internal(w)
		return
	}

	token := auth.GenerateToken()
	if err := h.users.SetToken(user.ID, token); err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to store reset token")
		respond.Internal(w)
		return
	}

	if err := h.mail.SendPasswordReset(mailer.EmailData{
		Name:  user.Name,
		Email: user.Email,
		Token: token,
	}); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("Failed to send reset email")
	}

	respond.Success(w, http.StatusOK, "Email sent successfully")
}

// ValidateToken checks that a reset code exists. Pure existence check,
// no mutation.
func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.Validate(
		validation.Field{Name: "token", Value: payload.Token, Rules: []validation.Rule{
			validation.Required("Invalid token"),
			validation.Length(auth.TokenLength, "Invalid token"),
		}},
	); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	if _, err := h.users.GetUserByToken(payload.Token); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			respond.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		log.Error().Err(err).Msg("Failed to validate token")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusOK, "Token is valid. Assign a new password")
}

// ResetPassword consumes a reset code and replaces the password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var payload struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.Validate(
		validation.Field{Name: "token", Value: token, Rules: []validation.Rule{
			validation.Required("Invalid token"),
			validation.Length(auth.TokenLength, "Invalid token"),
		}},
		validation.Field{Name: "password", Value: payload.Password, Rules: []validation.Rule{
			validation.Required("Password is required"),
			validation.MinLength(8, "Password must be at least 8 characters"),
		}},
	); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	if err := h.users.ResetPassword(token, payload.Password); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			respond.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		log.Error().Err(err).Msg("Failed to reset password")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusOK, "Reset password successfully")
}

// UpdatePassword changes the authenticated user's password after
// verifying the current one. The confirmation token is untouched.
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized User")
		return
	}

	var payload struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.Validate(
		validation.Field{Name: "current_password", Value: payload.CurrentPassword, Rules: []validation.Rule{
			validation.Required("Current Password is required"),
		}},
		validation.Field{Name: "new_password", Value: payload.NewPassword, Rules: []validation.Rule{
			validation.Required("New Password is required"),
			validation.MinLength(8, "New Password must be at least 8 characters"),
		}},
	); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	if err := h.users.UpdatePassword(user.ID, payload.CurrentPassword, payload.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidPassword) {
			respond.Error(w, http.StatusUnauthorized, "Invalid Current Password")
			return
		}
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to change password")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusOK, "Password updated successfully")
}

// CheckPassword verifies the caller's own password without changing
// anything.
func (h *AuthHandler) CheckPassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized User")
		return
	}

	var payload struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.Validate(
		validation.Field{Name: "password", Value: payload.Password, Rules: []validation.Rule{
			validation.Required("Current Password is required"),
		}},
	); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	if err := h.users.CheckPassword(user.ID, payload.Password); err != nil {
		if errors.Is(err, services.ErrInvalidPassword) {
			respond.Error(w, http.StatusUnauthorized, "Invalid Password")
			return
		}
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to check password")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusOK, "Password is correct")
}

// GetUser returns the authenticated user's public projection.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized User")
		return
	}

	respond.JSON(w, http.StatusOK, respond.Envelope{Status: "success", User: user})
}

// UpdateUser updates the authenticated user's name and email.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized User")
		return
	}

	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.Validate(
		validation.Field{Name: "name", Value: payload.Name, Rules: []validation.Rule{
			validation.Required("Name is required"),
		}},
		validation.Field{Name: "email", Value: payload.Email, Rules: []validation.Rule{
			validation.Required("Email is required"),
			validation.Email("Invalid email"),
		}},
	); errs != nil {
		respond.ValidationFailed(w, errs)
		return
	}

	if err := h.users.UpdateProfile(user.ID, payload.Name, payload.Email); err != nil {
		if errors.Is(err, services.ErrUserExists) {
			respond.Error(w, http.StatusConflict, "Email already in use")
			return
		}
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to update profile")
		respond.Internal(w)
		return
	}

	respond.Success(w, http.StatusOK, "Profile updated successfully")
}
