package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/lehigh-university-libraries/anatomymentor/internal/models"
	"github.com/samber/lo"
)

// MaxUploadSize is the largest accepted upload (10MB)
const MaxUploadSize = 10 * 1024 * 1024

// SupportedFormats are the decoders registered above
var SupportedFormats = []string{"jpeg", "png", "gif"}

var (
	ErrTooLarge          = errors.New("file too large (max 10MB)")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Decode reads an uploaded image into memory and decodes it for display
func Decode(r io.Reader, filename string) (*models.UploadedImage, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}

	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	bitmap, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
		}
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}

	if !lo.Contains(SupportedFormats, format) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	bounds := bitmap.Bounds()
	return &models.UploadedImage{
		Filename: filename,
		Format:   format,
		Data:     data,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}
