package web

import (
	"encoding/json"
	"net/http"
)

// MatrixServer serves /.well-known/matrix/server for federation delegation.
func (h *Handler) MatrixServer(w http.ResponseWriter, r *http.Request) {
	if h.wellKnown.MatrixServer == "" {
		h.NotFound(w, r)
		return
	}
	writeWellKnown(w, map[string]string{"m.server": h.wellKnown.MatrixServer})
}

// MatrixClient serves /.well-known/matrix/client for client discovery.
func (h *Handler) MatrixClient(w http.ResponseWriter, r *http.Request) {
	if h.wellKnown.MatrixHomeserver == "" {
		h.NotFound(w, r)
		return
	}
	body := map[string]any{
		"m.homeserver": map[string]string{"base_url": h.wellKnown.MatrixHomeserver},
	}
	if h.wellKnown.MatrixSlidingSync != "" {
		body["org.matrix.msc3575.proxy"] = map[string]string{"url": h.wellKnown.MatrixSlidingSync}
	}
	writeWellKnown(w, body)
}

func writeWellKnown(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_ = json.NewEncoder(w).Encode(body)
}
