// Package assets stores uploaded media bytes.
//
// A Sink is chosen once at startup: LocalSink writes into a directory that
// the router serves statically, S3Sink pushes objects to an S3 compatible
// host such as MinIO. Both return the URL the asset can be fetched from.
package assets

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sink persists an uploaded object and returns its public URL.
// Implementations must be safe for concurrent use.
type Sink interface {
	Put(ctx context.Context, obj Object) (string, error)
}

// Object is a single upload handed to a Sink.
type Object struct {
	Key         string
	ContentType string
	// Size is the byte length of Body, or -1 when unknown.
	Size int64
	Body io.Reader
}

// NewObjectKey builds a collision-free storage key from the upload time and
// keeps the original file extension.
func NewObjectKey(filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	return fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString()[:8], ext)
}
