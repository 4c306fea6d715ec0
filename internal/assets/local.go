package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
)

// LocalSink writes uploads into a directory served under URLPrefix
type LocalSink struct {
	dir       string
	urlPrefix string
}

// NewLocalSink creates the upload directory if needed
func NewLocalSink(dir, urlPrefix string) (*LocalSink, error) {
	if dir == "" {
		return nil, errors.New("upload directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalSink{dir: dir, urlPrefix: urlPrefix}, nil
}

// Dir returns the directory files are written to
func (s *LocalSink) Dir() string { return s.dir }

// URLPrefix returns the path prefix the directory is served under
func (s *LocalSink) URLPrefix() string { return s.urlPrefix }

// Put writes obj.Body to <dir>/<key>. An existing file is never overwritten.
func (s *LocalSink) Put(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := filepath.Base(obj.Key)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(f, obj.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	return url.JoinPath(s.urlPrefix, name)
}
