package handler

import (
	"errors"
	"net/http"

	"medcenter-booking/internal/delivery/dto"
	"medcenter-booking/internal/delivery/http/middleware"
	"medcenter-booking/internal/usecase"
	"medcenter-booking/pkg/jwt"
	"medcenter-booking/pkg/response"
	"medcenter-booking/pkg/validator"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuthHandler serves patient site accounts. Bookings do not require an
// account; a signed in patient only gets the booking linked to it.
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
	log         *logrus.Logger
	jwtService  *jwt.JWTService
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, log *logrus.Logger, jwtService *jwt.JWTService) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		log:         log,
		jwtService:  jwtService,
	}
}

// decodeAccountRequest writes the 400 response itself and reports whether
// the handler may continue.
func (h *AuthHandler) decodeAccountRequest(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request body")
		return false
	}
	if err := h.validator.Validate(dst); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return false
	}
	return true
}

// Register creates a patient account
// @Summary Create a patient account
// @Tags Account
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account details"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !h.decodeAccountRequest(w, r, &req) {
		return
	}

	account, err := h.authUsecase.Register(r.Context(), &req)
	switch {
	case err == nil:
		response.Success(w, http.StatusCreated, "Patient account created", account)
	case errors.Is(err, usecase.ErrEmailAlreadyExists):
		response.Conflict(w, "An account with this email already exists")
	default:
		h.log.WithField("email", req.Email).Errorf("Failed to create account: %+v", err)
		response.InternalServerError(w, "Failed to create account")
	}
}

// Login exchanges email and password for an access and refresh token pair
// @Summary Sign in
// @Tags Account
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !h.decodeAccountRequest(w, r, &req) {
		return
	}

	tokens, err := h.authUsecase.Login(r.Context(), &req)
	switch {
	case err == nil:
		response.Success(w, http.StatusOK, "Signed in", tokens)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		response.Unauthorized(w, "Email or password is incorrect")
	case errors.Is(err, usecase.ErrUserInactive):
		response.Forbidden(w, "This account has been disabled by the clinic")
	default:
		h.log.Errorf("Failed to sign in: %+v", err)
		response.InternalServerError(w, "Failed to sign in")
	}
}

// RefreshToken rotates the token pair
// @Summary Renew session
// @Tags Account
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !h.decodeAccountRequest(w, r, &req) {
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	switch {
	case err == nil:
		response.Success(w, http.StatusOK, "Session renewed", tokens)
	case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrTokenRevoked):
		response.Unauthorized(w, "Session expired, please sign in again")
	default:
		h.log.Errorf("Failed to renew session: %+v", err)
		response.InternalServerError(w, "Failed to renew session")
	}
}

// Logout revokes the access token of the request and, when the body carries
// one, the matching refresh token.
// @Summary Sign out
// @Tags Account
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, okUser := middleware.GetUserIDFromContext(r.Context())
	tokenID, okToken := middleware.GetTokenIDFromContext(r.Context())
	if !okUser || !okToken {
		response.Unauthorized(w, "Not signed in")
		return
	}

	var req dto.RefreshTokenRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.authUsecase.Logout(r.Context(), userID, tokenID, h.refreshTokenID(userID, req.RefreshToken)); err != nil {
		h.log.WithField("user_id", userID).Errorf("Failed to sign out: %+v", err)
		response.InternalServerError(w, "Failed to sign out")
		return
	}

	response.Success(w, http.StatusOK, "Signed out", nil)
}

// refreshTokenID returns the id of raw when it is a refresh token issued to
// userID, otherwise "".
func (h *AuthHandler) refreshTokenID(userID uuid.UUID, raw string) string {
	if raw == "" {
		return ""
	}
	claims, err := h.jwtService.ValidateToken(raw)
	if err != nil || claims.UserID != userID || claims.TokenType != jwt.RefreshToken {
		return ""
	}
	return claims.TokenID
}

// Me returns the signed in patient account
// @Summary Current account
// @Tags Account
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Not signed in")
		return
	}

	account, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	switch {
	case err == nil:
		response.Success(w, http.StatusOK, "Account retrieved", account)
	case errors.Is(err, usecase.ErrUserNotFound):
		response.NotFound(w, "Account not found")
	default:
		h.log.WithField("user_id", userID).Errorf("Failed to load account: %+v", err)
		response.InternalServerError(w, "Failed to load account")
	}
}
