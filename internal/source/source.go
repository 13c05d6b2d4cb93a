// Package source opens program and tensor files from the local filesystem
// or from Google Cloud Storage (gs://bucket/object).
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"k8s.io/klog/v2"
)

const gcsPrefix = "gs://"

// Location is a parsed file reference.
type Location struct {
	// Bucket and Object are set for gs:// locations.
	Bucket string
	Object string

	// Path is set for local files.
	Path string
}

// Parse parses a local path or a gs://bucket/object URL.
func Parse(s string) (Location, error) {
	if s == "" {
		return Location{}, fmt.Errorf("empty location")
	}
	if !strings.HasPrefix(s, gcsPrefix) {
		return Location{Path: s}, nil
	}

	bucket, object, ok := strings.Cut(strings.TrimPrefix(s, gcsPrefix), "/")
	if !ok || bucket == "" || object == "" {
		return Location{}, fmt.Errorf("invalid GCS location %q, expected gs://bucket/object", s)
	}
	return Location{Bucket: bucket, Object: object}, nil
}

// IsGCS reports whether l refers to a GCS object.
func (l Location) IsGCS() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.IsGCS() {
		return gcsPrefix + l.Bucket + "/" + l.Object
	}
	return l.Path
}

// Resolve interprets ref relative to the directory containing l.
// Absolute paths and gs:// URLs are returned unchanged.
func (l Location) Resolve(ref string) (Location, error) {
	if strings.HasPrefix(ref, gcsPrefix) || filepath.IsAbs(ref) {
		return Parse(ref)
	}
	if l.IsGCS() {
		return Location{Bucket: l.Bucket, Object: path.Join(path.Dir(l.Object), ref)}, nil
	}
	return Location{Path: filepath.Join(filepath.Dir(l.Path), ref)}, nil
}

// Open opens l for reading. The caller must close the returned reader.
func Open(ctx context.Context, l Location) (io.ReadCloser, error) {
	log := klog.FromContext(ctx)

	if !l.IsGCS() {
		log.V(2).Info("opening local file", "path", l.Path)
		//nolint:gosec // G304: paths come from the command line and program files
		f, err := os.Open(l.Path)
		if err != nil {
			return nil, fmt.Errorf("opening %q: %w", l.Path, err)
		}
		return f, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS storage client: %w", err)
	}

	log.Info("reading object from GCS", "url", l.String())

	r, err := client.Bucket(l.Bucket).Object(l.Object).NewReader(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("opening object from GCS %q: %w", l.String(), err)
	}
	return &gcsReader{Reader: r, client: client}, nil
}

// ReadAll reads the whole of l.
func ReadAll(ctx context.Context, l Location) ([]byte, error) {
	startedAt := time.Now()

	r, err := Open(ctx, l)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", l.String(), err)
	}

	klog.FromContext(ctx).V(2).Info("read source", "location", l.String(), "bytes", len(b), "duration", time.Since(startedAt))
	return b, nil
}

// Writer is a destination opened by Create. Close commits the written data;
// Abort discards it and leaves any existing destination untouched.
type Writer interface {
	io.WriteCloser
	Abort() error
}

// Create opens l for writing. Local files are written to a temporary file
// next to the destination and renamed into place on Close. GCS objects are
// committed on Close and cancelled on Abort.
func Create(ctx context.Context, l Location) (Writer, error) {
	log := klog.FromContext(ctx)

	if !l.IsGCS() {
		tempFile, err := os.CreateTemp(filepath.Dir(l.Path), "."+filepath.Base(l.Path)+".tmp")
		if err != nil {
			return nil, fmt.Errorf("creating temp file for %q: %w", l.Path, err)
		}
		if err := tempFile.Chmod(0o644); err != nil {
			_ = tempFile.Close()
			_ = os.Remove(tempFile.Name())
			return nil, fmt.Errorf("creating temp file for %q: %w", l.Path, err)
		}
		log.V(2).Info("writing local file", "path", l.Path, "temp", tempFile.Name())
		return &localWriter{File: tempFile, path: l.Path}, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS storage client: %w", err)
	}

	log.Info("writing object to GCS", "url", l.String())

	ctx, cancel := context.WithCancel(ctx)
	w := client.Bucket(l.Bucket).Object(l.Object).NewWriter(ctx)
	return &gcsWriter{Writer: w, client: client, cancel: cancel}, nil
}

type localWriter struct {
	*os.File
	path string
}

func (w *localWriter) Close() error {
	if err := w.File.Close(); err != nil {
		_ = os.Remove(w.File.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(w.File.Name(), w.path); err != nil {
		_ = os.Remove(w.File.Name())
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (w *localWriter) Abort() error {
	_ = w.File.Close()
	if err := os.Remove(w.File.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing temp file: %w", err)
	}
	return nil
}

type gcsReader struct {
	*storage.Reader
	client *storage.Client
}

func (r *gcsReader) Close() error {
	err := r.Reader.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}

type gcsWriter struct {
	*storage.Writer
	client *storage.Client
	cancel context.CancelFunc
}

func (w *gcsWriter) Close() error {
	defer w.cancel()

	err := w.Writer.Close()
	if err != nil {
		err = fmt.Errorf("closing GCS writer: %w", err)
	}
	if cerr := w.client.Close(); err == nil {
		err = cerr
	}
	return err
}

// Abort cancels the upload; the object is not created.
func (w *gcsWriter) Abort() error {
	w.cancel()
	_ = w.Writer.Close()
	return w.client.Close()
}
