package session

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
)

// FilePersister writes the session record to any afs URL. Plain paths are
// treated as local files.
type FilePersister struct {
	fs  afs.Service
	URL string
}

func (f *FilePersister) Load(ctx context.Context) (*Session, error) {
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !ok {
		return nil, err
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return nil, err
	}
	return decode(data)
}

func (f *FilePersister) Save(ctx context.Context, session *Session) error {
	data, err := encode(session)
	if err != nil {
		return err
	}
	return f.fs.Upload(ctx, f.URL, 0o600, bytes.NewReader(data))
}

func (f *FilePersister) Delete(ctx context.Context) error {
	ok, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !ok {
		return err
	}
	return f.fs.Delete(ctx, f.URL)
}

// NewFilePersister creates a persister for the supplied location.
func NewFilePersister(location string) *FilePersister {
	return &FilePersister{fs: afs.New(), URL: normalizeURL(location)}
}

func normalizeURL(location string) string {
	if strings.Contains(location, "://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		location = abs
	}
	return "file://" + filepath.ToSlash(location)
}
