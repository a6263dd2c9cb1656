// Package upload stores multipart image uploads on local disk and hands the
// resulting public paths to the catalog services. Services only ever see
// paths; all file I/O lives here.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrNotAnImage   = errors.New("images only (jpeg, jpg, png, gif)")
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
	ErrTooManyFiles = errors.New("too many files uploaded")
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// Store saves image uploads to a directory and exposes their public paths.
type Store struct {
	dir         string
	publicBase  string
	maxFileSize int64
	maxFiles    int
}

// NewStore creates a Store writing into dir. Stored files are addressed as
// publicBase + "/" + generated name (e.g. /uploads/images-1712345678901.png).
func NewStore(dir, publicBase string, maxFileSize int64, maxFiles int) *Store {
	return &Store{
		dir:         dir,
		publicBase:  strings.TrimSuffix(publicBase, "/"),
		maxFileSize: maxFileSize,
		maxFiles:    maxFiles,
	}
}

// Dir returns the directory uploads are written to.
func (s *Store) Dir() string {
	return s.dir
}

// SaveOne stores a single upload and returns its public path.
func (s *Store) SaveOne(fieldName string, header *multipart.FileHeader) (string, error) {
	if err := s.check(header); err != nil {
		return "", err
	}

	name := generateName(fieldName, header.Filename)
	if err := s.write(header, name); err != nil {
		return "", err
	}

	return s.publicBase + "/" + name, nil
}

// SaveAll stores every upload in headers and returns their public paths in
// order. The whole batch is validated before anything is written, so a bad
// file aborts with no partial storage.
func (s *Store) SaveAll(fieldName string, headers []*multipart.FileHeader) ([]string, error) {
	if s.maxFiles > 0 && len(headers) > s.maxFiles {
		return nil, fmt.Errorf("%w: limit is %d", ErrTooManyFiles, s.maxFiles)
	}
	for _, header := range headers {
		if err := s.check(header); err != nil {
			return nil, err
		}
	}

	paths := make([]string, 0, len(headers))
	for _, header := range headers {
		name := generateName(fieldName, header.Filename)
		if err := s.write(header, name); err != nil {
			return nil, err
		}
		paths = append(paths, s.publicBase+"/"+name)
	}

	return paths, nil
}

func (s *Store) check(header *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %s", ErrNotAnImage, header.Filename)
	}
	if contentType := header.Header.Get("Content-Type"); contentType != "" &&
		!strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("%w: %s", ErrNotAnImage, header.Filename)
	}
	if s.maxFileSize > 0 && header.Size > s.maxFileSize {
		return fmt.Errorf("%w: %s", ErrFileTooLarge, header.Filename)
	}
	return nil
}

func (s *Store) write(header *multipart.FileHeader, name string) error {
	src, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to store upload: %w", err)
	}

	return nil
}

// generateName builds a collision-resistant stored name from the form field
// and a timestamp, keeping only the original extension.
func generateName(fieldName, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s-%d%s", fieldName, time.Now().UnixNano(), ext)
}
