// internal/app/system/uploads/uploads.go
package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// MaxImageBytes is the per-file size limit for uploaded images.
const MaxImageBytes = 5 << 20

var (
	ErrTooLarge = errors.New("file exceeds the 5MB limit")
	ErrNotImage = errors.New("only image files are allowed (jpeg, jpg, png, gif, webp)")
)

var allowedExt = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true,
}

var allowedType = map[string]bool{
	"image/jpeg": true, "image/png": true, "image/gif": true, "image/webp": true,
}

// Saved describes a stored upload.
type Saved struct {
	Path        string
	FileName    string
	Size        int64
	ContentType string
}

// Uploader validates images and writes them to a storage backend.
type Uploader struct {
	Store storage.Store
	Now   func() time.Time
}

// NewUploader wraps store.
func NewUploader(store storage.Store) *Uploader {
	return &Uploader{Store: store, Now: time.Now}
}

// SaveImage checks fh against the image allow-list (by extension and by
// sniffed content) and stores it as
//
//	<dir>/YYYY/MM/<prefix>-<uuid8>-<sanitized name>
func (u *Uploader) SaveImage(ctx context.Context, dir, prefix string, fh *multipart.FileHeader) (Saved, error) {
	if fh.Size > MaxImageBytes {
		return Saved{}, ErrTooLarge
	}
	if !allowedExt[strings.ToLower(filepath.Ext(fh.Filename))] {
		return Saved{}, ErrNotImage
	}

	f, err := fh.Open()
	if err != nil {
		return Saved{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Saved{}, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]
	ctype := http.DetectContentType(head)
	if !allowedType[ctype] {
		return Saved{}, ErrNotImage
	}

	now := u.Now().UTC()
	p := path.Join(dir, fmt.Sprintf("%04d/%02d", now.Year(), now.Month()),
		fmt.Sprintf("%s-%s-%s", prefix, uuid.New().String()[:8], SanitizeFilename(fh.Filename)))

	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(f, MaxImageBytes-int64(n)+1))
	if err := u.Store.Put(ctx, p, body, &storage.PutOptions{ContentType: ctype}); err != nil {
		return Saved{}, fmt.Errorf("store upload: %w", err)
	}

	return Saved{
		Path:        p,
		FileName:    fh.Filename,
		Size:        fh.Size,
		ContentType: ctype,
	}, nil
}

// Delete removes a stored upload. A path that is already gone is not an error.
func (u *Uploader) Delete(ctx context.Context, p string) error {
	if p == "" {
		return nil
	}
	if err := u.Store.Delete(ctx, p); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("delete upload %s: %w", p, err)
	}
	return nil
}

// IsClientError reports whether err was caused by the uploaded file itself
// rather than by storage.
func IsClientError(err error) bool {
	return errors.Is(err, ErrTooLarge) || errors.Is(err, ErrNotImage)
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 || string(result) == "." || string(result) == ".." {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}
	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
