package profile

import (
	"embed"
	"io/fs"
	"net/http"
)

// templates holds the default page markup; sites and themes override it
// under components/profile/templates.
//
//go:embed templates/*.html
var templates embed.FS

//go:embed static/*.js
var static embed.FS

// assetPrefix is where the editor bundle is served.
const assetPrefix = "/profile/assets/"

func staticHandler() http.Handler {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err) // embedded directory is fixed at build time
	}
	return http.StripPrefix(assetPrefix, http.FileServer(http.FS(sub)))
}
