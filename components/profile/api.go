// components/profile/api.go
//
// REST handlers under /api/profile.
package profile

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/media"
	core "github.com/yanizio/linkcard/internal/profile"
	"github.com/yanizio/linkcard/internal/view"
)

// uploader is satisfied by *media.Library.
type uploader interface {
	Upload(ctx context.Context, r io.Reader) (media.Item, error)
	MaxBytes() int64
}

type handler struct {
	svc         *core.Service
	uploads     uploader
	views       *view.Engine
	theme       string
	themeHome   func(w http.ResponseWriter, r *http.Request) bool
	adminScript string
}

// UploadResponse is the upload-image reply.
type UploadResponse struct {
	OK  bool   `json:"ok"`
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

type slugRequest struct {
	Slug string `json:"slug"`
}

func (h *handler) public(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Public(r.Context())
	if err != nil {
		h.internal(w, "public view", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) admin(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.Admin(r.Context())
	if err != nil {
		h.internal(w, "admin view", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *handler) save(w http.ResponseWriter, r *http.Request) {
	var req core.SaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	warnings, err := h.svc.Save(r.Context(), req)
	if err != nil {
		// Service already logged and counted the failure.
		writeError(w, http.StatusInternalServerError, "internal", "Settings could not be saved.")
		return
	}
	msg := "Settings saved."
	if len(warnings) > 0 {
		msg = "Settings saved with warnings."
	}
	writeJSON(w, http.StatusOK, core.SaveResponse{OK: true, Message: msg, Warnings: warnings})
}

func (h *handler) adminSlug(w http.ResponseWriter, r *http.Request) {
	var req slugRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	slug, err := h.svc.UpdateAdminSlug(r.Context(), req.Slug)
	if core.IsSlugError(err) {
		slugError(w, err)
		return
	}
	if err != nil {
		h.internal(w, "admin slug", err)
		return
	}
	writeJSON(w, http.StatusOK, core.SlugResponse{
		OK:      true,
		Slug:    slug,
		URL:     h.svc.Site().AdminURL(slug),
		Message: "Admin URL updated.",
	})
}

func (h *handler) upload(w http.ResponseWriter, r *http.Request) {
	limit := h.uploads.MaxBytes()
	// Room for the multipart envelope on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			uploadError(w, media.ErrTooLarge, limit)
			return
		}
		writeError(w, http.StatusBadRequest, "missing_file", "Choose an image to upload.")
		return
	}
	defer file.Close()

	item, err := h.uploads.Upload(r.Context(), file)
	if err != nil {
		uploadError(w, err, limit)
		return
	}
	writeJSON(w, http.StatusOK, UploadResponse{OK: true, ID: item.ID, URL: item.URL})
}

func (h *handler) internal(w http.ResponseWriter, what string, err error) {
	zap.L().Error("profile "+what, zap.String("site", h.svc.Site().BaseURL), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal", "Something went wrong.")
}
