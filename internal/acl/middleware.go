// internal/acl/middleware.go
//
// Chi guards over the ACL tables.  Each guard is bound to the tenant pool
// at mount time.  Outcomes: no session user → 401, no grant → 403, query
// failure → 500.  DenyFunc shapes the rejection (the profile API answers
// JSON); nil means plain-text http.Error.
package acl

import (
	"context"
	"net/http"
	"slices"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/linkcard/internal/auth"
)

// DenyFunc writes a rejection with the given status.
type DenyFunc func(w http.ResponseWriter, r *http.Request, status int)

func plainDeny(w http.ResponseWriter, _ *http.Request, status int) {
	http.Error(w, http.StatusText(status), status)
}

// check decides whether uid may pass.
type check func(ctx context.Context, uid int64) (bool, error)

func guard(name string, deny DenyFunc, allowed check) func(http.Handler) http.Handler {
	if deny == nil {
		deny = plainDeny
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := auth.UserID(r.Context())
			if !ok {
				deny(w, r, http.StatusUnauthorized)
				return
			}
			pass, err := allowed(r.Context(), uid)
			if err != nil {
				zap.L().Error("acl lookup", zap.String("guard", name), zap.Int64("user_id", uid), zap.Error(err))
				deny(w, r, http.StatusInternalServerError)
				return
			}
			if !pass {
				zap.L().Debug("acl denied", zap.String("guard", name), zap.Int64("user_id", uid))
				deny(w, r, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission admits users whose roles grant component/action.
func RequirePermission(db *sqlx.DB, component, action string, deny DenyFunc) func(http.Handler) http.Handler {
	return guard(component+"/"+action, deny, func(ctx context.Context, uid int64) (bool, error) {
		return Permitted(ctx, db, uid, component, action)
	})
}

// RequireRole admits users holding any of roles.  It panics when roles is
// empty, since such a guard could never pass.
func RequireRole(db *sqlx.DB, deny DenyFunc, roles ...string) func(http.Handler) http.Handler {
	if len(roles) == 0 {
		panic("acl.RequireRole: no roles given")
	}
	return guard("role", deny, func(ctx context.Context, uid int64) (bool, error) {
		have, err := UserRoles(ctx, db, uid)
		if err != nil {
			return false, err
		}
		return slices.ContainsFunc(have, func(r string) bool { return slices.Contains(roles, r) }), nil
	})
}
