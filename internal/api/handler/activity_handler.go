package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialconnect/social-api/internal/core/ports"
)

// ActivityHandler exposes the per-user activity trail.
type ActivityHandler struct {
	service ports.ActivityService
}

func NewActivityHandler(service ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// ListByUser handles GET /api/users/:id/activity.
//
// @Summary      Latest activity of a user
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {array}   domain.Activity
// @Failure      400  {object}  errorResponse
// @Router       /api/users/{id}/activity [get]
func (h *ActivityHandler) ListByUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.service.ListUserActivity(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
