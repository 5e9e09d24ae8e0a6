package web

import (
	"bytes"
	"io/fs"
	"net/http"
	"path"
	"time"
)

// Asset serves one file from fsys. The content type is inferred from the
// file extension.
func Asset(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.ServeContent(w, r, path.Base(name), time.Time{}, bytes.NewReader(data))
	}
}

// Assets registers GET handlers for each file in dir at /<prefix>/<file>.
func Assets(r *Router, fsys fs.FS, dir, prefix string, files ...string) {
	for _, f := range files {
		r.HandleFunc("GET "+path.Join("/", prefix, f), Asset(fsys, path.Join(dir, f)))
	}
}
