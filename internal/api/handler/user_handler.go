package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/ports"
	"github.com/socialconnect/social-api/internal/core/view"
)

// UserHandler serves profiles.
type UserHandler struct {
	service        ports.UserService
	maxUploadBytes int64
}

func NewUserHandler(service ports.UserService, maxUploadBytes int64) *UserHandler {
	return &UserHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a profile
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  view.Profile
// @Failure      404  {object}  errorResponse
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.service.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, view.NewProfile(user))
}

// Update handles PUT /api/users/:id. Omitted fields are left unchanged.
//
// @Summary      Update a profile
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Param        id              path      int     true   "User ID"
// @Param        name            formData  string  false  "Display name; empty keeps the current one"
// @Param        bio             formData  string  false  "Biography; empty clears it"
// @Param        profilePicture  formData  file    false  "Profile image"
// @Success      200  {object}  view.Profile
// @Failure      400  {object}  errorResponse
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	name, err := optionalFormValue(c, "name")
	if err != nil {
		return err
	}
	bio, err := optionalFormValue(c, "bio")
	if err != nil {
		return err
	}
	img, err := readUpload(c, "profilePicture", h.maxUploadBytes)
	if err != nil {
		return err
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), ports.UpdateProfileInput{
		UserID:       id,
		Name:         name,
		Bio:          bio,
		ProfileImage: img,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, view.NewProfile(user))
}
