// internal/profile/service.go
//
// Service ties the aggregate to its store, the media library, and the
// tenant alias table.
//
// Context
// -------
// One Service exists per tenant; the profile component builds it lazily
// from the tenant's DB pool.  Every call reads the stored document fresh
// (no caching layer), so concurrent saves resolve as last write wins.
//
// Notes
// -----
//   - A stored document that fails to decode is logged and replaced by the
//     defaults on read.  Store I/O errors are returned.
//   - Media URLs are resolved on read.  A lookup failure leaves the URL
//     empty rather than failing the view.
package profile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/background"
	"github.com/yanizio/linkcard/internal/metrics"
	"github.com/yanizio/linkcard/internal/routing"
	"github.com/yanizio/linkcard/internal/sanitize"
)

// MediaLibrary checks and resolves media IDs.
type MediaLibrary interface {
	MediaChecker
	URL(ctx context.Context, id int64) (string, error)
}

// AliasWriter rewrites the friendly paths that lead to a target.
type AliasWriter interface {
	ReplaceTarget(ctx context.Context, target string, aliases ...string) error
}

// AdminTarget is the component path the admin slug aliases to.
const AdminTarget = "/admin"

// Service is the profile API for one tenant.
type Service struct {
	store   Store
	media   MediaLibrary
	aliases AliasWriter
	site    Site
	opts    Options
}

// NewService wires a Service.  media and aliases may be nil in tests.
func NewService(store Store, media MediaLibrary, aliases AliasWriter, site Site,
	opts Options) *Service {

	return &Service{
		store:   store,
		media:   media,
		aliases: aliases,
		site:    site,
		opts:    opts.withDefaults(),
	}
}

// Site returns the tenant identity the service was built with.
func (s *Service) Site() Site { return s.site }

// Load returns the stored aggregate with defaults filled and media URLs
// resolved.
func (s *Service) Load(ctx context.Context) (Settings, error) {
	def := Defaults(s.opts, s.site.Title)

	raw, err := s.store.Get(ctx, SettingKey)
	if err != nil {
		return def, fmt.Errorf("load profile: %w", err)
	}
	st, err := decode(raw, def)
	if err != nil {
		zap.L().Warn("profile document unreadable, using defaults",
			zap.String("site", s.site.BaseURL), zap.Error(err))
		st = def
	}

	st.Avatar.URL = s.resolve(ctx, st.Avatar.ID)
	if img, ok := st.PageBackground.(background.Image); ok {
		img.URL = s.resolve(ctx, img.MediaID)
		st.PageBackground = img
	}
	return st, nil
}

func (s *Service) resolve(ctx context.Context, id int64) string {
	if id <= 0 || s.media == nil {
		return ""
	}
	u, err := s.media.URL(ctx, id)
	if err != nil {
		zap.L().Debug("media url unresolved", zap.Int64("id", id), zap.Error(err))
		return ""
	}
	return u
}

// Save merges req into the stored aggregate and writes it back.  Warnings
// describe rows that were kept but will not render.
func (s *Service) Save(ctx context.Context, req SaveRequest) ([]Warning, error) {
	warnings, err := s.save(ctx, req)
	if err != nil {
		metrics.ProfileSaves.WithLabelValues("error").Inc()
		zap.L().Error("profile save failed", zap.String("site", s.site.BaseURL), zap.Error(err))
		return nil, err
	}
	metrics.ProfileSaves.WithLabelValues("ok").Inc()
	return warnings, nil
}

func (s *Service) save(ctx context.Context, req SaveRequest) ([]Warning, error) {
	prev, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, res, err := apply(ctx, prev, req, s.media, s.opts)
	if err != nil {
		return nil, err
	}
	raw, err := encode(next)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	if err := s.store.Put(ctx, SettingKey, raw); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}

	for _, rw := range res.rewrites {
		metrics.BackgroundCodeRewritten.WithLabelValues(string(rw.Kind)).Inc()
	}
	zap.L().Info("profile saved",
		zap.String("site", s.site.BaseURL),
		zap.Int("socials", len(next.Socials)),
		zap.Int("buttons", len(next.Buttons)),
		zap.Int("warnings", len(res.warnings)),
		zap.Int("code_rewrites", len(res.rewrites)))

	if res.warnings == nil {
		return []Warning{}, nil
	}
	return res.warnings, nil
}

// Public returns the view served to anonymous visitors.
func (s *Service) Public(ctx context.Context) (PublicView, error) {
	st, err := s.Load(ctx)
	if err != nil {
		return PublicView{}, err
	}
	return BuildPublicView(st, s.site), nil
}

// Admin returns the editor view.
func (s *Service) Admin(ctx context.Context) (AdminView, error) {
	st, err := s.Load(ctx)
	if err != nil {
		return AdminView{}, err
	}
	return BuildAdminView(st, s.site), nil
}

// ValidateSlug returns the slug form of raw or ErrEmptySlug,
// ErrInvalidSlug, or ErrReservedSlug.
func (s *Service) ValidateSlug(raw string) (string, error) {
	text := strings.TrimSpace(sanitize.Text(raw))
	if text == "" {
		return "", ErrEmptySlug
	}
	slug := routing.Slugify(text)
	if slug == "" {
		return "", ErrInvalidSlug
	}
	if slices.Contains(s.opts.ReservedSlugs, slug) {
		return "", ErrReservedSlug
	}
	return slug, nil
}

// UpdateAdminSlug stores a new friendly admin path and points it at the
// dashboard.  The returned slug is normalised.
func (s *Service) UpdateAdminSlug(ctx context.Context, raw string) (string, error) {
	slug, err := s.ValidateSlug(raw)
	if err != nil {
		return "", err
	}

	st, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	st.AdminSlug = slug
	doc, err := encode(st)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	if err := s.store.Put(ctx, SettingKey, doc); err != nil {
		return "", fmt.Errorf("store admin slug: %w", err)
	}

	if s.aliases != nil {
		if err := s.aliases.ReplaceTarget(ctx, AdminTarget, "/"+slug, "/"+slug+"/"); err != nil {
			return "", fmt.Errorf("update admin alias: %w", err)
		}
	}
	zap.L().Info("admin slug updated", zap.String("site", s.site.BaseURL), zap.String("slug", slug))
	return slug, nil
}

// IsSlugError reports whether err is a user-facing slug rejection.
func IsSlugError(err error) bool {
	return errors.Is(err, ErrEmptySlug) || errors.Is(err, ErrInvalidSlug) ||
		errors.Is(err, ErrReservedSlug)
}
