//
//  internal/theme/helper.go
//
//  Template functions shared by theme pages and component templates.
//  Request helpers take the *requestinfo.RequestInfo attached by
//  requestinfo.Enrich so HTML authors avoid poking through nested structs.
//

package theme

import (
	"html/template"

	"github.com/yanizio/linkcard/internal/requestinfo"
)

// FuncMap returns the global template function map.  asset resolves a
// theme-relative asset path to a URL.
func FuncMap(asset func(string) string) template.FuncMap {
	return template.FuncMap{
		"asset": asset,
		"dict":  Dict,

		// Geo helpers
		"clientIP": func(i *requestinfo.RequestInfo) string {
			if i == nil || i.Geo.IP == nil {
				return ""
			}
			return i.Geo.IP.String()
		},
		"country": func(i *requestinfo.RequestInfo) string {
			if i == nil {
				return ""
			}
			return i.Geo.CountryISO
		},
		"city": func(i *requestinfo.RequestInfo) string {
			if i == nil {
				return ""
			}
			return i.Geo.City
		},
		"lang": func(i *requestinfo.RequestInfo) string {
			if i == nil {
				return ""
			}
			return i.UA.PrimaryLang
		},
	}
}

// Dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func Dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
