// internal/view/uahelpers.go
//
// User‑Agent‑related template helpers keyed off *tenant.Context, e.g.
// {{ if isBot .Ctx }}…{{ end }}.  A Context without RequestInfo yields
// zero values.
package view

import (
	"html/template"

	"github.com/yanizio/linkcard/internal/requestinfo"
	"github.com/yanizio/linkcard/internal/tenant"
)

func uaOf(c *tenant.Context) requestinfo.UA {
	if c == nil || c.Info == nil {
		return requestinfo.UA{}
	}
	return c.Info.UA
}

// uaFuncMap returns helpers keyed off *tenant.Context.
func uaFuncMap() template.FuncMap {
	return template.FuncMap{
		"browser":        func(c *tenant.Context) string { return uaOf(c).Browser },
		"browserVersion": func(c *tenant.Context) string { return uaOf(c).Version },
		"os":             func(c *tenant.Context) string { return uaOf(c).OS },
		"osVersion":      func(c *tenant.Context) string { return uaOf(c).OSVersion },
		"device":         func(c *tenant.Context) string { return uaOf(c).Device },
		"platform":       func(c *tenant.Context) string { return uaOf(c).Platform },
		"isBot":          func(c *tenant.Context) bool { return uaOf(c).IsBot },
		"deviceClass": func(c *tenant.Context) string {
			if c == nil {
				return requestinfo.DeviceClass(nil)
			}
			return requestinfo.DeviceClass(c.Info)
		},
	}
}
