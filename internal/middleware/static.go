package middleware

import (
	"net/http"
	"os"
	"path/filepath"
)

const cardBackSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 140 190"><rect width="140" height="190" rx="12" fill="#1d4ed8"/><rect x="10" y="10" width="120" height="170" rx="8" fill="none" stroke="#93c5fd" stroke-width="2"/><circle cx="70" cy="95" r="28" fill="none" stroke="#93c5fd" stroke-width="2"/><text x="70" y="101" text-anchor="middle" font-family="Arial" font-size="18" fill="#93c5fd">P</text></svg>`

// StaticFileServer serves card artwork and table assets, falling back to a
// generic card back when a file is missing.
func StaticFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean(r.URL.Path))

		if _, err := os.Stat(path); err == nil {
			w.Header().Set("Cache-Control", "public, max-age=2592000")
			http.ServeFile(w, r, path)
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.Write([]byte(cardBackSVG))
	})
}
