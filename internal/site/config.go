// internal/site/config.go
//
// Per-site settings from the `site_config` key-value table.  The loader
// reads them once per cold load and the tenant keeps the map for its
// lifetime.
//
//	CREATE TABLE site_config (
//	    site_id INT UNSIGNED NOT NULL,
//	    `key`   VARCHAR(64)  NOT NULL,
//	    value   TEXT         NOT NULL,
//	    PRIMARY KEY (site_id, `key`)
//	);
package site

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Settings maps site_config keys to raw values.  Keys are case-sensitive.
type Settings map[string]string

// String returns the trimmed value for key, or def when unset or blank.
func (s Settings) String(key, def string) string {
	if v := strings.TrimSpace(s[key]); v != "" {
		return v
	}
	return def
}

// Bool parses the value for key with strconv.ParseBool, falling back to
// def when unset or unparsable.
func (s Settings) Bool(key string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s[key]))
	if err != nil {
		return def
	}
	return b
}

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// LoadSettings reads every site_config row for siteID.
func LoadSettings(ctx context.Context, db *sqlx.DB, siteID uint64) (Settings, error) {
	var rows []settingRow
	err := db.SelectContext(ctx, &rows,
		"SELECT `key`, value FROM site_config WHERE site_id = ?", siteID)
	if err != nil {
		return nil, err
	}
	s := make(Settings, len(rows))
	for _, r := range rows {
		s[r.Key] = r.Value
	}
	return s, nil
}
