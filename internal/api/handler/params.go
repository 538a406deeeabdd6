package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// pathID parses a positive int64 path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// viewerID reads the optional ?userId= query parameter. Absent means no
// viewer (0).
func viewerID(c echo.Context) (int64, error) {
	raw := c.QueryParam("userId")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
	}
	return id, nil
}

// requiredUserID reads a mandatory userId from the query string or form.
func requiredUserID(c echo.Context) (int64, error) {
	raw := c.QueryParam("userId")
	if raw == "" {
		raw = c.FormValue("userId")
	}
	if raw == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "userId is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid userId")
	}
	return id, nil
}
