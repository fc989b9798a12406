// Package site serves the embedded single-page study tool.
package site

import (
	"context"
	"net/http"
)

// Register attaches the page and its assets at the root of mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler serves index.html and its assets.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// HandleRoot handles GET requests for the page and its assets.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	// Always revalidate so a redeploy is picked up on reload.
	w.Header().Set("Cache-Control", "no-cache")
	h.files.ServeHTTP(w, r)
}
