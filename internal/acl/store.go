// internal/acl/store.go
//
// Role-based access queries against the tenant database.
//
// Context
// -------
// The ACL model lives inside each tenant database:
//
//	role        (id PK, name, enabled)
//	role_acl    (role_id, component, action, permitted)
//	user_role   (user_id, role_id)
//
// The profile component guards its editor endpoints with profile/edit and
// uploads with profile/upload.  Permitted answers that in one round trip;
// UserRoles backs the coarser RequireRole guard.
//
// Notes
// -----
// • Disabled roles grant nothing.
// • Oxford commas, two spaces after periods.
package acl

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Schema creates the ACL tables when absent.  Applied by the tenant loader.
var Schema = []string{
	"CREATE TABLE IF NOT EXISTS role (" +
		"id INT UNSIGNED PRIMARY KEY AUTO_INCREMENT, " +
		"name VARCHAR(64) NOT NULL UNIQUE, " +
		"enabled TINYINT(1) NOT NULL DEFAULT 1)",
	"CREATE TABLE IF NOT EXISTS role_acl (" +
		"role_id INT UNSIGNED NOT NULL, " +
		"component VARCHAR(64) NOT NULL, " +
		"action VARCHAR(64) NOT NULL, " +
		"permitted TINYINT(1) NOT NULL DEFAULT 1, " +
		"PRIMARY KEY (role_id, component, action))",
	"CREATE TABLE IF NOT EXISTS user_role (" +
		"user_id BIGINT NOT NULL, " +
		"role_id INT UNSIGNED NOT NULL, " +
		"PRIMARY KEY (user_id, role_id))",
}

const permittedQuery = `SELECT 1
  FROM user_role ur
  JOIN role r      ON r.id = ur.role_id AND r.enabled = 1
  JOIN role_acl ra ON ra.role_id = r.id
 WHERE ur.user_id = ? AND ra.component = ? AND ra.action = ? AND ra.permitted = 1
 LIMIT 1`

// Permitted reports whether any enabled role of userID allows
// component/action.
func Permitted(ctx context.Context, db *sqlx.DB, userID int64, component, action string) (bool, error) {
	var one int
	err := db.GetContext(ctx, &one, permittedQuery, userID, component, action)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// UserRoles returns the names of userID's enabled roles.
func UserRoles(ctx context.Context, db *sqlx.DB, userID int64) ([]string, error) {
	var roles []string
	err := db.SelectContext(ctx, &roles, `SELECT r.name
  FROM user_role ur
  JOIN role r ON r.id = ur.role_id
 WHERE ur.user_id = ? AND r.enabled = 1
 ORDER BY r.name`, userID)
	return roles, err
}
