package domain

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

// MaxPhotoBytes is the largest image accepted for upload.
const MaxPhotoBytes = 5 * 1024 * 1024

// Photo is an image file read into memory and checked for upload.
type Photo struct {
	Name string
	MIME string
	Data []byte
}

// Size returns the photo size in bytes.
func (p Photo) Size() int {
	return len(p.Data)
}

// NewPhoto sniffs the content type of data and checks it against the
// upload rules: the detected type must be an image and the payload must not
// exceed MaxPhotoBytes.
func NewPhoto(name string, data []byte) (Photo, error) {
	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return Photo{}, liberrors.NewValidationError("photo", fmt.Sprintf("%s is not an image file (%s)", name, mime.String()), nil)
	}
	if len(data) > MaxPhotoBytes {
		return Photo{}, liberrors.NewValidationError("photo", fmt.Sprintf("%s must be smaller than 5MB", name), nil)
	}
	return Photo{Name: name, MIME: contentType(mime), Data: data}, nil
}

// ReadPhoto loads and validates the image at path.
func ReadPhoto(path string) (Photo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Photo{}, err
	}
	if info.IsDir() {
		return Photo{}, liberrors.NewValidationError("photo", fmt.Sprintf("%s is a directory", path), nil)
	}
	if info.Size() > MaxPhotoBytes {
		return Photo{}, liberrors.NewValidationError("photo", fmt.Sprintf("%s must be smaller than 5MB", filepath.Base(path)), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Photo{}, err
	}
	return NewPhoto(filepath.Base(path), data)
}

// contentType strips parameters such as charset from the detected type.
func contentType(m *mimetype.MIME) string {
	value := m.String()
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = value[:idx]
	}
	return value
}
