package avatar

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/goliatone/go-accounts"
	"github.com/google/uuid"
)

// Local stores avatars on disk. Returned references are relative to the
// public directory, e.g. "avatars/<id>_<name>".
type Local struct {
	dir       string
	urlPrefix string
}

var _ accounts.AvatarPipeline = (*Local)(nil)

// NewLocal returns a Local pipeline writing into dir. urlPrefix is joined
// with the file name to build the stored reference.
func NewLocal(dir, urlPrefix string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("avatar dir: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "avatars"
	}
	return &Local{dir: dir, urlPrefix: urlPrefix}, nil
}

// Process implements accounts.AvatarPipeline
func (l *Local) Process(ctx context.Context, accountID uuid.UUID, filename string, src io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := Resize(src)
	if err != nil {
		return "", accounts.ValidationError(err)
	}

	format, name := formatFor(FileName(accountID, filename))

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("avatar temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := imaging.Encode(tmp, img, format); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode avatar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close avatar: %w", err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(l.dir, name)); err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}

	return path.Join(l.urlPrefix, name), nil
}
