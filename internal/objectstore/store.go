package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/techmine/techmine/internal/common/config"
)

// Store uploads attachment binaries. The apiserver never sees file bytes;
// only the returned URL is recorded as attachment metadata.
type Store interface {
	// Put uploads r under key and returns the public URL of the object
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// PresignGet returns a time-limited download URL
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// New builds the store selected by cfg.Type
func New(ctx context.Context, cfg config.ObjectStoreConfig) (Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object store bucket is required")
	}
	switch cfg.Type {
	case "minio":
		return NewMinioStore(cfg)
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported object store type: %q", cfg.Type)
	}
}

// Key derives a collision free object key from a local file name
func Key(fileName string) string {
	base := filepath.Base(fileName)
	base = strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r == '\\' {
			return '-'
		}
		return r
	}, base)
	return path.Join("attachments", uuid.NewString()+"-"+base)
}

// publicURL joins base and key, escaping each key segment
func publicURL(base, key string) string {
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(segs, "/")
}
