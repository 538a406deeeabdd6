package service

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/socialconnect/social-api/internal/core/ports"
)

const genericContentType = "application/octet-stream"

// encodeDataURI renders an uploaded image as data:<mime>;base64,<payload>.
// A missing or empty upload yields "". When the client sent no useful content
// type it is detected from the bytes.
func encodeDataURI(img *ports.ImageUpload) string {
	if img == nil || len(img.Data) == 0 {
		return ""
	}

	ct := strings.TrimSpace(img.ContentType)
	if ct == "" || ct == genericContentType {
		ct = mimetype.Detect(img.Data).String()
	}
	// media type parameters (charset etc.) are dropped
	ct, _, _ = strings.Cut(ct, ";")

	return "data:" + strings.TrimSpace(ct) + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
