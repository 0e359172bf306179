package api

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
)

//go:embed static
var staticFS embed.FS

// assetsFS returns dir as a file system, or the embedded assets when dir is
// empty.
func assetsFS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return staticFS
	}
	return sub
}

func indexHandler(assets fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, assets, "index.html")
	}
}

func staticHandler(assets fs.FS) http.Handler {
	return http.StripPrefix("/static/", http.FileServerFS(assets))
}
