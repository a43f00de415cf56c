package blobstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no blob has the requested name.
var ErrNotFound = errors.New("blob not found")

// Store keeps uploaded files in one local directory under generated
// unique names.
type Store struct {
	dir string
	now func() time.Time
}

// Blob describes a stored upload.
type Blob struct {
	Name         string // generated unique name, the download key
	OriginalName string
	Path         string // stored path, recorded as the archive filePath
	Size         int64
}

// BlobInfo is a directory entry returned by List.
type BlobInfo struct {
	Name    string
	Path    string
	ModTime time.Time
}

// New ensures dir exists and returns a store rooted there.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: ensure upload dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Dir is the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Save copies r into a new blob named after originalName.
func (s *Store) Save(originalName string, r io.Reader) (*Blob, error) {
	original := sanitizeName(originalName)
	name := fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), uuid.NewString()[:8], original)
	path := s.Path(name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("blobstore: create %s: %w", name, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("blobstore: write %s: %w", name, err)
	}

	return &Blob{Name: name, OriginalName: original, Path: path, Size: n}, nil
}

// Path is where a blob named name lives.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Open returns the blob with exactly this name. Names that are not plain
// base names are reported as not found.
func (s *Store) Open(name string) (*os.File, fs.FileInfo, error) {
	if !validName(name) {
		return nil, nil, ErrNotFound
	}
	f, err := os.Open(s.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("blobstore: open %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("blobstore: stat %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotFound
	}
	return f, info, nil
}

// Remove deletes a blob. Removing a missing blob is not an error.
func (s *Store) Remove(name string) error {
	if !validName(name) {
		return ErrNotFound
	}
	if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("blobstore: remove %s: %w", name, err)
	}
	return nil
}

// List returns every regular file in the store.
func (s *Store) List() ([]BlobInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("blobstore: list: %w", err)
	}
	blobs := make([]BlobInfo, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		blobs = append(blobs, BlobInfo{Name: e.Name(), Path: s.Path(e.Name()), ModTime: info.ModTime()})
	}
	return blobs, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "upload"
	}
	return name
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
