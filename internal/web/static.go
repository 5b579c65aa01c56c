package web

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// newStaticHandler serves files below dir. Missing files and directories
// without an index.html are handed to notFound.
func newStaticHandler(dir string, notFound http.HandlerFunc) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		info, err := os.Stat(name)
		if err == nil && info.IsDir() {
			info, err = os.Stat(filepath.Join(name, "index.html"))
		}
		if err != nil || info.IsDir() {
			notFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
