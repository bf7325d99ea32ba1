package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UploadInput describes an object handed to a MediaStore. Folder groups
// objects by purpose, e.g. "profiles" or "posts".
type UploadInput struct {
	Folder      string
	Name        string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Asset is a stored object: its public URL and the handle used to delete it.
type Asset struct {
	URL     string `json:"url"`
	AssetID string `json:"assetId"`
}

type MediaStore interface {
	Upload(ctx context.Context, input UploadInput) (Asset, error)
	Delete(ctx context.Context, assetID string) error
}

// objectKey builds a collision-free key like "profiles/2026/10/<uuid>.jpg".
func objectKey(folder string, name string, now time.Time) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		folder = "misc"
	}
	ext := strings.ToLower(path.Ext(name))
	return fmt.Sprintf("%s/%d/%02d/%s%s", folder, now.Year(), int(now.Month()), uuid.NewString(), ext)
}

func joinURL(base string, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
