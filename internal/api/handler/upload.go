package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/socialconnect/social-api/internal/core/domain"
	"github.com/socialconnect/social-api/internal/core/ports"
)

// readUpload loads the optional multipart file in field. A missing field
// yields nil; a file larger than maxBytes is rejected.
func readUpload(c echo.Context, field string, maxBytes int64) (*ports.ImageUpload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	if fh.Size > maxBytes {
		return nil, domain.Invalid("%s exceeds %d bytes", field, maxBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.Invalid("%s exceeds %d bytes", field, maxBytes)
	}

	return &ports.ImageUpload{
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

// optionalFormValue distinguishes an absent form field from an empty one.
func optionalFormValue(c echo.Context, name string) (*string, error) {
	params, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	vals, ok := params[name]
	if !ok || len(vals) == 0 {
		return nil, nil
	}
	return &vals[0], nil
}
