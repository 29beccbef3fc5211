package upload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// buildFileHeader assembles a real multipart.FileHeader the way an HTTP
// request would, with an explicit Content-Type part header.
func buildFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("creating form part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("writing form part: %v", err)
	}
	writer.Close()

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("parsing multipart form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	return form.File["file"][0]
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 255, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return store
}

func TestSaveValidJPEG(t *testing.T) {
	store := newTestStore(t)
	fh := buildFileHeader(t, "photo.jpg", "image/jpeg", testJPEG(t, 50, 50))

	name, err := store.Save(fh)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(name, "photo-") || !strings.HasSuffix(name, ".jpg") {
		t.Errorf("unexpected generated name: %s", name)
	}
	if _, err := os.Stat(filepath.Join(store.Dir, name)); err != nil {
		t.Errorf("expected stored file on disk: %v", err)
	}
}

func TestSaveRejectsExtension(t *testing.T) {
	store := newTestStore(t)
	fh := buildFileHeader(t, "malware.exe", "image/jpeg", []byte("MZ"))

	_, err := store.Save(fh)
	if !errors.Is(err, ErrFileType) {
		t.Errorf("expected ErrFileType, got %v", err)
	}
}

func TestSaveRejectsDeclaredMIME(t *testing.T) {
	store := newTestStore(t)
	fh := buildFileHeader(t, "photo.jpg", "application/pdf", testJPEG(t, 10, 10))

	_, err := store.Save(fh)
	if !errors.Is(err, ErrFileType) {
		t.Errorf("expected ErrFileType, got %v", err)
	}
}

func TestSaveRejectsOversized(t *testing.T) {
	store := newTestStore(t)
	big := make([]byte, MaxFileSize+1)
	fh := buildFileHeader(t, "big.png", "image/png", big)

	_, err := store.Save(fh)
	if !errors.Is(err, ErrFileSize) {
		t.Errorf("expected ErrFileSize, got %v", err)
	}
}

func TestSaveRejectsCorruptImage(t *testing.T) {
	store := newTestStore(t)
	// PNG magic bytes with garbage after, so the decode path is reached
	// and fails.
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("not a real png")...)
	fh := buildFileHeader(t, "broken.png", "image/png", data)

	_, err := store.Save(fh)
	if !errors.Is(err, ErrFileType) {
		t.Errorf("expected ErrFileType for corrupt image, got %v", err)
	}
}

func TestSaveGIFStoredVerbatim(t *testing.T) {
	store := newTestStore(t)
	// Minimal single-pixel GIF, stored without re-encoding.
	gif := []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff!\xf9\x04\x00\x00\x00\x00\x00,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")
	fh := buildFileHeader(t, "anim.gif", "image/gif", gif)

	name, err := store.Save(fh)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	stored, err := os.ReadFile(filepath.Join(store.Dir, name))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if !bytes.Equal(stored, gif) {
		t.Error("expected GIF stored byte for byte")
	}
}

func TestSaveAllLimitAndCleanup(t *testing.T) {
	store := newTestStore(t)

	var files []*multipart.FileHeader
	for i := 0; i < 6; i++ {
		files = append(files, buildFileHeader(t, "a.jpg", "image/jpeg", testJPEG(t, 10, 10)))
	}

	_, err := store.SaveAll(files, 5)
	if !errors.Is(err, ErrTooManyFiles) {
		t.Errorf("expected ErrTooManyFiles, got %v", err)
	}

	// A bad file in the middle of a batch removes the earlier writes.
	batch := []*multipart.FileHeader{
		buildFileHeader(t, "ok.jpg", "image/jpeg", testJPEG(t, 10, 10)),
		buildFileHeader(t, "bad.exe", "", []byte("MZ")),
	}
	_, err = store.SaveAll(batch, 5)
	if !errors.Is(err, ErrFileType) {
		t.Fatalf("expected ErrFileType, got %v", err)
	}
	entries, _ := os.ReadDir(store.Dir)
	if len(entries) != 0 {
		t.Errorf("expected no leaked files after failed batch, got %d", len(entries))
	}
}

func TestGenerateFilename(t *testing.T) {
	name := GenerateFilename("../../etc/passwd sneaky.PNG")
	if strings.Contains(name, "/") || strings.Contains(name, "..") {
		t.Errorf("expected path components stripped, got %s", name)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("expected lowercased extension, got %s", name)
	}

	name = GenerateFilename("???.jpg")
	if !strings.HasPrefix(name, "___-") {
		t.Errorf("expected unsafe characters replaced, got %s", name)
	}

	// Two names from the same original never collide.
	a := GenerateFilename("photo.jpg")
	b := GenerateFilename("photo.jpg")
	if a == b {
		t.Error("expected distinct generated names")
	}
}
