package handlers

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/staranysa/TheHappyHaul/internal/storage"
	"github.com/staranysa/TheHappyHaul/pkg/middleware"
)

// multipartOverhead leaves room for form boundaries and headers.
const multipartOverhead = 1 << 20

// TitleExtractor derives a product title from a page URL.
type TitleExtractor interface {
	ExtractTitle(ctx context.Context, pageURL string) string
}

// MediaHandler serves image uploads and product title lookups.
type MediaHandler struct {
	Store  storage.ImageStore
	Titles TitleExtractor
}

func NewMediaHandler(store storage.ImageStore, titles TitleExtractor) *MediaHandler {
	return &MediaHandler{Store: store, Titles: titles}
}

// UploadImageHandler stores the multipart "image" field and returns its URL.
func (h *MediaHandler) UploadImageHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, storage.MaxImageSize+multipartOverhead)
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusBadRequest, "Image must be 5MB or smaller")
			return
		}
		writeError(w, http.StatusBadRequest, "No image file provided")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := storage.ValidateImage(header.Filename, contentType, header.Size); err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			writeError(w, http.StatusBadRequest, "Image must be 5MB or smaller")
			return
		}
		writeError(w, http.StatusBadRequest, "Only image files are allowed (jpeg, jpg, png, gif, webp)")
		return
	}

	url, err := h.Store.Save(r.Context(), header.Filename, contentType, file)
	if err != nil {
		log.WithError(err).Error("UploadImage failed")
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	log.WithFields(log.Fields{
		"userID":   middleware.UserIDFromContext(r.Context()),
		"imageUrl": url,
	}).Info("Image uploaded")
	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": url})
}

type extractTitleRequest struct {
	URL string `json:"url"`
}

type extractTitleResponse struct {
	Title *string `json:"title"`
}

// ExtractTitleHandler looks up a product title for the given URL. A title
// that cannot be derived is reported as null.
func (h *MediaHandler) ExtractTitleHandler(w http.ResponseWriter, r *http.Request) {
	var req extractTitleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	var resp extractTitleResponse
	if title := h.Titles.ExtractTitle(r.Context(), req.URL); title != "" {
		resp.Title = &title
	}
	writeJSON(w, http.StatusOK, resp)
}
