// components/profile/respond.go
//
// JSON helpers.  Every API error body is {"code": "...", "message": "..."}
// so the editor can switch on code and show message.
package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/media"
	core "github.com/yanizio/linkcard/internal/profile"
)

// maxJSONBody caps save and slug request bodies.  Sandbox code alone may
// be 100 kB, Base64 adds a third.
const maxJSONBody = 1 << 20

// APIError is the error body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("json write", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, APIError{Code: code, Message: msg})
}

// denyJSON is the acl.DenyFunc for API routes.
func denyJSON(w http.ResponseWriter, _ *http.Request, status int) {
	switch status {
	case http.StatusUnauthorized:
		writeError(w, status, "unauthorized", "Sign in to edit this profile.")
	case http.StatusForbidden:
		writeError(w, status, "forbidden", "You do not have permission to do that.")
	default:
		writeError(w, status, "internal", "Something went wrong.")
	}
}

// decodeJSON reads one JSON value from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", "Request body is too large.")
			return false
		}
		writeError(w, http.StatusBadRequest, "bad_request", "Request body is not valid JSON.")
		return false
	}
	return true
}

// slugError maps admin slug rejections.
func slugError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrEmptySlug):
		writeError(w, http.StatusBadRequest, "empty_slug", "Admin slug cannot be empty.")
	case errors.Is(err, core.ErrReservedSlug):
		writeError(w, http.StatusBadRequest, "reserved_slug", "That admin slug is reserved.")
	default:
		writeError(w, http.StatusBadRequest, "invalid_slug", "Admin slug must contain a letter or digit.")
	}
}

// uploadError maps media rejections.
func uploadError(w http.ResponseWriter, err error, maxBytes int64) {
	switch {
	case errors.Is(err, media.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large",
			fmt.Sprintf("Images must be %d MB or smaller.", maxBytes>>20))
	case errors.Is(err, media.ErrSVGNotAllowed):
		writeError(w, http.StatusUnsupportedMediaType, "svg_not_allowed", "SVG images are not allowed.")
	case errors.Is(err, media.ErrUnsupportedType):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_type", "Upload a JPEG, PNG, GIF, or WebP image.")
	case errors.Is(err, media.ErrEmpty):
		writeError(w, http.StatusBadRequest, "empty_file", "The uploaded file is empty.")
	default:
		zap.L().Error("upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "Upload failed.")
	}
}
