package httpapi

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/quantnexusai/ai-groceries/internal/upload"
)

type UploadHandler struct {
	svc    *upload.Service
	logger *log.Logger
}

func NewUploadHandler(svc *upload.Service, logger *log.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, logger: logger}
}

// Upload accepts a single multipart image file and returns its public
// URL.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+4096)

	file, header, err := r.FormFile("file")
	if err != nil {
		// A body past the reader cap surfaces here, not as ErrTooLarge.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, "file size exceeds the 5MB limit")
			return
		}
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	url, err := h.svc.Store(r.Context(), header.Filename, contentType, data)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrNoFile):
			writeError(w, http.StatusBadRequest, "no file provided")
		case errors.Is(err, upload.ErrNotImage):
			writeError(w, http.StatusBadRequest, "only image files are allowed")
		case errors.Is(err, upload.ErrTooLarge):
			writeError(w, http.StatusBadRequest, "file size exceeds the 5MB limit")
		default:
			h.logger.Printf("upload: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to process upload")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
