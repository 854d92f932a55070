package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelbook/story-api/internal/core/domain"
	"github.com/travelbook/story-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Error       bool           `json:"error"`
	User        domain.Profile `json:"user"`
	AccessToken string         `json:"accessToken"`
	Message     string         `json:"message"`
}

type userResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

// Register creates a new account and returns a 48h access token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /create-account [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Register(c.Request().Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, authResponse{
		User:        res.User.Profile(),
		AccessToken: res.Token,
		Message:     "Registration Successful",
	})
}

// Login authenticates a user and returns a 7 day access token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return respondMessage(c, http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Every login failure is a 400, including an unknown email.
		if errors.Is(err, domain.ErrUserNotFound) {
			return respondMessage(c, http.StatusBadRequest, "User not found")
		}
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, authResponse{
		User:        res.User.Profile(),
		AccessToken: res.Token,
		Message:     "Login Successful",
	})
}

// GetUser returns the account of the session user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401
// @Router       /get-user [get]
func (h *AuthHandler) GetUser(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.NoContent(http.StatusUnauthorized)
		}
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, userResponse{User: user, Message: ""})
}
