package http

import (
	"io"
	"net/http"
	"path/filepath"

	"equiprent/internal/gateway"
	"equiprent/internal/service"

	"github.com/gorilla/mux"
)

// storageHandler serves equipment images: authenticated uploads and public
// downloads.
type storageHandler struct {
	imageSvc service.ImageService
}

// upload handles PUT /storage/v1/object/equipment/{name}. The stored object
// gets a fresh key; the client's file name only contributes its extension.
func (h *storageHandler) upload(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	key, url, err := h.imageSvc.Upload(r.Context(), userID(r.Context()), name, r.Header.Get("Content-Type"), r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gateway.UploadResponse{Key: key, URL: url})
}

// download handles GET /storage/v1/object/{key}.
func (h *storageHandler) download(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	file, err := h.imageSvc.Open(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	// Determine content type from file extension
	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	case ".webp":
		contentType = "image/webp"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, file)
}
