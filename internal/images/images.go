package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

const MaxUploadSize = 5 << 20 // 5MB

var (
	ErrNotImage = errors.New("only image files are allowed")
	ErrTooLarge = errors.New("image must be 5MB or smaller")
)

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// Store persists an uploaded image and returns its public URL.
type Store interface {
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
}

// Validate checks the declared size, content type and extension of an upload.
func Validate(h *multipart.FileHeader) error {
	if h.Size > MaxUploadSize {
		return ErrTooLarge
	}
	if !strings.HasPrefix(h.Header.Get("Content-Type"), "image/") {
		return ErrNotImage
	}
	if !allowedExt[strings.ToLower(filepath.Ext(h.Filename))] {
		return ErrNotImage
	}
	return nil
}

// Sniff checks the leading bytes of the upload are an image and rewinds r.
func Sniff(r io.ReadSeeker) error {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read upload: %w", err)
	}
	if !strings.HasPrefix(http.DetectContentType(buf[:n]), "image/") {
		return ErrNotImage
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind upload: %w", err)
	}
	return nil
}

// NewFilename builds place-<unix millis>-<random><ext>.
func NewFilename(original string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("place-%d-%d%s", now.UnixMilli(), rand.IntN(1_000_000_000), ext)
}
