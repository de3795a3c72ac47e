package service

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"github.com/iliyamo/planetarium-reservation/internal/apperr"
)

// MaxImageBytes bounds an uploaded show image.
const MaxImageBytes = 10 << 20

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// MediaStore writes uploaded files below a root directory. Returned paths
// are relative to the root and use forward slashes so they can be served
// under /media/.
type MediaStore struct {
	root string
}

func NewMediaStore(root string) *MediaStore { return &MediaStore{root: root} }

// SaveShowImage sniffs the content, refuses anything that is not an image
// and stores it as astronomy_shows/{slug(title)}-{uuid}{ext}.
func (m *MediaStore) SaveShowImage(title string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", apperr.Invalid("image", "the submitted file is empty")
	}
	if len(data) > MaxImageBytes {
		return "", apperr.Invalid("image", "image may not exceed %d bytes", MaxImageBytes)
	}
	ext, ok := imageExt[http.DetectContentType(data)]
	if !ok {
		return "", apperr.Invalid("image", "upload a valid image; the file you uploaded was either not an image or a corrupted image")
	}

	rel := path.Join("astronomy_shows", fmt.Sprintf("%s-%s%s", Slugify(title), uuid.NewString(), ext))
	dst := filepath.Join(m.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", err
	}
	return rel, nil
}

// Remove deletes a file previously returned by SaveShowImage.
func (m *MediaStore) Remove(rel string) error {
	if rel == "" || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(m.root, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Slugify lower-cases s and joins its letter and digit runs with dashes.
func Slugify(s string) string {
	var b bytes.Buffer
	dash := false
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "show"
	}
	return out
}
