package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// MediaStorage hands out presigned URLs so clients move exercise demo videos
// directly to and from the bucket.
type MediaStorage interface {
	// PresignUpload returns a URL accepting a single PUT of objectKey. The
	// client must send the same Content-Type header.
	PresignUpload(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error)
	PresignDownload(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

var contentTypeExtensions = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
	"image/gif":       ".gif",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
}

// AllowedContentType reports whether media of this type may be uploaded.
func AllowedContentType(contentType string) bool {
	_, ok := contentTypeExtensions[strings.ToLower(contentType)]
	return ok
}

// ExerciseMediaKey builds a fresh object key for an exercise's media, e.g.
// "exercises/12/6f1c...e2.mp4".
func ExerciseMediaKey(exerciseID int64, contentType string) string {
	ext := contentTypeExtensions[strings.ToLower(contentType)]
	return path.Join("exercises", fmt.Sprint(exerciseID), uuid.NewString()+ext)
}
