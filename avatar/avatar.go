package avatar

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Size is the width and height avatars are resized to
const Size = 250

// Resize decodes src and scales it to Size x Size
func Resize(src io.Reader) (image.Image, error) {
	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}
	return imaging.Resize(img, Size, Size, imaging.Lanczos), nil
}

// FileName returns the stored file name for an upload, "<id>_<name>"
func FileName(accountID uuid.UUID, original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "avatar.png"
	}
	return accountID.String() + "_" + base
}

// formatFor returns the encoding format for name, defaulting to PNG
func formatFor(name string) (imaging.Format, string) {
	format, err := imaging.FormatFromFilename(name)
	if err != nil {
		return imaging.PNG, name + ".png"
	}
	return format, name
}
