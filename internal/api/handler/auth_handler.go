package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/ports"
	"github.com/socialconnect/social-api/internal/core/view"
)

// AuthHandler handles sign-up, login and logout.
type AuthHandler struct {
	service        ports.UserService
	maxUploadBytes int64
}

func NewAuthHandler(service ports.UserService, maxUploadBytes int64) *AuthHandler {
	return &AuthHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Signup handles POST /api/auth/signup.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Param        name            formData  string  true   "Display name"
// @Param        email           formData  string  true   "Email"
// @Param        password        formData  string  true   "Password"
// @Param        bio             formData  string  false  "Biography"
// @Param        profilePicture  formData  file    false  "Profile image"
// @Success      200  {object}  view.Profile
// @Failure      400  {object}  errorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	img, err := readUpload(c, "profilePicture", h.maxUploadBytes)
	if err != nil {
		return err
	}

	user, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Bio:          req.Bio,
		ProfileImage: img,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view.NewProfile(user))
}

// Login handles POST /api/auth/login. Every credential failure is a 401.
//
// @Summary      Verify credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  view.Profile
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	user, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, view.NewProfile(user))
}

// Logout handles POST /api/auth/logout. There is no session to end.
//
// @Summary      Acknowledge logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}
