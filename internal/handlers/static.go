package handlers

import (
	"net/http"
	"strings"
)

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	// Extract the file path after /static/
	filepath := strings.TrimPrefix(r.URL.Path, "/static/")
	if filepath == "" {
		http.NotFound(w, r)
		return
	}

	// Prevent directory traversal attacks
	if strings.Contains(filepath, "..") {
		http.Error(w, "Invalid file path", http.StatusBadRequest)
		return
	}

	// Set appropriate content type based on file extension
	switch {
	case strings.HasSuffix(filepath, ".css"):
		w.Header().Set("Content-Type", "text/css")
	case strings.HasSuffix(filepath, ".js"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(filepath, ".svg"):
		w.Header().Set("Content-Type", "image/svg+xml")
	}

	http.ServeFileFS(w, r, h.static, filepath)
}
