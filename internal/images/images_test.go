package images

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func header(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		header  *multipart.FileHeader
		wantErr error
	}{
		{name: "png", header: header("cafe.PNG", "image/png", 1024)},
		{name: "too large", header: header("cafe.jpg", "image/jpeg", MaxUploadSize+1), wantErr: ErrTooLarge},
		{name: "pdf", header: header("menu.pdf", "application/pdf", 10), wantErr: ErrNotImage},
		{name: "lying extension", header: header("script.sh", "image/png", 10), wantErr: ErrNotImage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.header)
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSniff(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	r := bytes.NewReader(png)
	require.NoError(t, Sniff(r))
	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, png, rest, "reader is rewound")

	assert.ErrorIs(t, Sniff(strings.NewReader("#!/bin/sh\nrm -rf /")), ErrNotImage)
	assert.ErrorIs(t, Sniff(bytes.NewReader(nil)), ErrNotImage)
	assert.ErrorIs(t, Sniff(bytes.NewReader(append([]byte("%PDF-1.7\n"), make([]byte, 600)...))), ErrNotImage)
}

func TestNewFilename(t *testing.T) {
	name := NewFilename("Photo.JPG", time.UnixMilli(1700000000000))
	assert.Regexp(t, regexp.MustCompile(`^place-1700000000000-\d+\.jpg$`), name)
}

func TestDiskStore_Save(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDiskStore(filepath.Join(dir, "uploads"), "http://localhost:5000/")
	require.NoError(t, err)

	url, err := s.Save(context.Background(), "place-1-2.png", strings.NewReader("pngdata"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000/uploads/place-1-2.png", url)

	b, err := os.ReadFile(filepath.Join(dir, "uploads", "place-1-2.png"))
	require.NoError(t, err)
	assert.Equal(t, "pngdata", string(b))

	_, err = s.Save(context.Background(), "place-1-2.png", strings.NewReader("again"))
	assert.Error(t, err, "existing files are never overwritten")

	_, err = s.Save(context.Background(), "big.png", bytes.NewReader(make([]byte, MaxUploadSize+10)))
	assert.ErrorIs(t, err, ErrTooLarge)
	_, statErr := os.Stat(filepath.Join(dir, "uploads", "big.png"))
	assert.True(t, os.IsNotExist(statErr))
}
