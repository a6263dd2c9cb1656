package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildMultipartRequest assembles a multipart form with the given files under
// fieldName and returns the parsed file headers, the way a handler sees them.
func buildFileHeaders(t *testing.T, fieldName string, files map[string][]byte) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile(fieldName, name)
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("writing part failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing writer failed: %v", err)
	}

	req := httptest.NewRequest("POST", "/test", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("ParseMultipartForm failed: %v", err)
	}

	return req.MultipartForm.File[fieldName]
}

func TestSaveAll_StoresFilesAndReturnsPublicPaths(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "/uploads", 5*1024*1024, 5)

	headers := buildFileHeaders(t, "images", map[string][]byte{
		"photo.png":  []byte("png-bytes"),
		"photo.jpeg": []byte("jpeg-bytes"),
	})

	paths, err := store.SaveAll("images", headers)
	if err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Expected 2 paths, got %d", len(paths))
	}

	for _, p := range paths {
		if !strings.HasPrefix(p, "/uploads/images-") {
			t.Errorf("Path should start with public base and field name, got %q", p)
		}

		stored := filepath.Join(dir, strings.TrimPrefix(p, "/uploads/"))
		if _, err := os.Stat(stored); err != nil {
			t.Errorf("Stored file missing at %s: %v", stored, err)
		}
	}
}

func TestSaveAll_RejectsNonImageExtensions(t *testing.T) {
	store := NewStore(t.TempDir(), "/uploads", 5*1024*1024, 5)

	headers := buildFileHeaders(t, "images", map[string][]byte{
		"notes.txt": []byte("not an image"),
	})

	if _, err := store.SaveAll("images", headers); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("Expected ErrNotAnImage, got %v", err)
	}
}

func TestSaveAll_BadFileAbortsWholeBatch(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "/uploads", 5*1024*1024, 5)

	headers := buildFileHeaders(t, "images", map[string][]byte{
		"good.png": []byte("png-bytes"),
		"bad.exe":  []byte("binary"),
	})

	if _, err := store.SaveAll("images", headers); !errors.Is(err, ErrNotAnImage) {
		t.Fatalf("Expected ErrNotAnImage, got %v", err)
	}

	// Nothing was written, including the valid file
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no stored files after failed batch, found %d", len(entries))
	}
}

func TestSaveAll_EnforcesFileCountLimit(t *testing.T) {
	store := NewStore(t.TempDir(), "/uploads", 5*1024*1024, 2)

	headers := buildFileHeaders(t, "images", map[string][]byte{
		"a.png": []byte("a"),
		"b.png": []byte("b"),
		"c.png": []byte("c"),
	})

	if _, err := store.SaveAll("images", headers); !errors.Is(err, ErrTooManyFiles) {
		t.Errorf("Expected ErrTooManyFiles, got %v", err)
	}
}

func TestSaveOne_EnforcesSizeLimit(t *testing.T) {
	store := NewStore(t.TempDir(), "/uploads", 4, 5)

	headers := buildFileHeaders(t, "image", map[string][]byte{
		"big.png": []byte("more than four bytes"),
	})

	if _, err := store.SaveOne("image", headers[0]); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge, got %v", err)
	}
}

func TestSaveOne_KeepsOnlyExtensionOfOriginalName(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, "/uploads", 5*1024*1024, 5)

	headers := buildFileHeaders(t, "image", map[string][]byte{
		"my vacation photo.PNG": []byte("png-bytes"),
	})

	path, err := store.SaveOne("image", headers[0])
	if err != nil {
		t.Fatalf("SaveOne failed: %v", err)
	}

	name := strings.TrimPrefix(path, "/uploads/")
	if strings.Contains(name, " ") || strings.Contains(name, "vacation") {
		t.Errorf("Original file name should not leak into the stored name: %q", name)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("Extension should be preserved lowercased, got %q", name)
	}
}
