package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Storage is a single-bucket object store for product images.
type Storage interface {
	Upload(ctx context.Context, objectPath string, r io.Reader) error
	PublicURL(objectPath string) string
	Remove(ctx context.Context, objectPaths ...string) error
	// ObjectPath extracts the object path from a URL returned by PublicURL.
	ObjectPath(publicURL string) (string, bool)
}

// BucketStorage keeps objects under {root}/{bucket} on an afero filesystem
// and serves them at {urlPrefix}/storage/{bucket}/.
type BucketStorage struct {
	fs        afero.Fs
	bucket    string
	urlPrefix string
}

// NewBucketStorage uses the OS filesystem rooted at root.
func NewBucketStorage(root, bucket, urlPrefix string) (*BucketStorage, error) {
	if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create bucket dir: %w", err)
	}
	return NewBucketStorageFs(afero.NewBasePathFs(afero.NewOsFs(), root), bucket, urlPrefix), nil
}

func NewBucketStorageFs(fs afero.Fs, bucket, urlPrefix string) *BucketStorage {
	return &BucketStorage{fs: fs, bucket: bucket, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *BucketStorage) Bucket() string { return s.bucket }

// Fs exposes the bucket directory.
func (s *BucketStorage) Fs() afero.Fs { return afero.NewBasePathFs(s.fs, s.bucket) }

// HTTPFileSystem serves the bucket's objects. Directories are reported as
// missing so the bucket cannot be listed.
func (s *BucketStorage) HTTPFileSystem() http.FileSystem {
	return soloArchivos{afero.NewHttpFs(s.Fs())}
}

type soloArchivos struct{ fs http.FileSystem }

func (a soloArchivos) Open(name string) (http.File, error) {
	f, err := a.fs.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}

func (s *BucketStorage) Upload(_ context.Context, objectPath string, r io.Reader) error {
	clean, err := limpiarRuta(objectPath)
	if err != nil {
		return err
	}
	full := path.Join(s.bucket, clean)
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir: %w", err)
	}
	f, err := s.fs.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("storage: create %s: %w", clean, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = s.fs.Remove(full)
		return fmt.Errorf("storage: write %s: %w", clean, err)
	}
	return f.Close()
}

func (s *BucketStorage) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/%s/%s", s.urlPrefix, s.bucket, strings.TrimLeft(objectPath, "/"))
}

func (s *BucketStorage) ObjectPath(publicURL string) (string, bool) {
	marker := "/storage/" + s.bucket + "/"
	i := strings.Index(publicURL, marker)
	if i < 0 {
		return "", false
	}
	p := publicURL[i+len(marker):]
	return p, p != ""
}

// Remove deletes every object it can and reports the failures joined.
// Missing objects are not an error.
func (s *BucketStorage) Remove(_ context.Context, objectPaths ...string) error {
	var errs []error
	for _, p := range objectPaths {
		clean, err := limpiarRuta(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := s.fs.Remove(path.Join(s.bucket, clean)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("storage: remove %s: %w", clean, err))
		}
	}
	return errors.Join(errs...)
}

func limpiarRuta(p string) (string, error) {
	clean := path.Clean("/" + p)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("storage: ruta invalida %q", p)
	}
	return clean, nil
}
