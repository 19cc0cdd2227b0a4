package handler

import (
	"errors"
	"net/http"

	"github.com/parisxmas/OxiDB/OxiAdmin/internal/service"
)

type UploadHandler struct {
	*Base
}

func NewUploadHandler(base *Base) *UploadHandler {
	return &UploadHandler{Base: base}
}

// Upload accepts a multipart form with the image in the "image" part.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	svc := workspace(r).Uploads
	r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBytes()+1<<20)
	if err := r.ParseMultipartForm(svc.MaxBytes()); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.fail(w, r, service.ErrUploadTooBig)
			return
		}
		writeError(w, http.StatusBadRequest, "multipart form expected")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image is required")
		return
	}
	defer file.Close()

	url, err := svc.Upload(r.Context(), header.Filename, file)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, map[string]string{"url": url})
}
