package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload, in bytes.
const MaxImageSize = 5 << 20

var (
	ErrNotImage = errors.New("only jpeg, jpg, png, gif and webp images are allowed")
	ErrTooLarge = errors.New("image exceeds the upload size limit")

	allowedImage = regexp.MustCompile(`jpeg|jpg|png|gif|webp`)
)

// ImageStore persists an uploaded image and returns the URL it is served at.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// ValidateImage checks the extension and the declared content type of an
// upload. Both must name one of the accepted image formats.
func ValidateImage(filename, contentType string, size int64) error {
	if size > MaxImageSize {
		return ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImage.MatchString(ext) || !allowedImage.MatchString(strings.ToLower(contentType)) {
		return ErrNotImage
	}
	return nil
}

// objectName gives every upload a unique name that keeps its extension.
func objectName(filename string) string {
	return "item-" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}
