package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jkovac/inventar/internal/imaging"
)

// MaxFileSize is the per-file upload limit.
const MaxFileSize = 5 << 20 // 5 MiB

// Validation errors surfaced to callers as 400 responses.
var (
	ErrFileType     = errors.New("only image files are allowed (jpg, jpeg, png, gif, webp, bmp)")
	ErrFileSize     = errors.New("file exceeds the 5 MiB size limit")
	ErrTooManyFiles = errors.New("too many files")
)

// allowedExt is the extension allow-list for uploads.
var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
}

// allowedMIME is the declared content-type allow-list for uploads.
var allowedMIME = map[string]bool{
	"image/jpg":  true,
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

var unsafeChars = regexp.MustCompile(`[^\w-]`)

// Store writes uploaded files to a local directory.
type Store struct {
	Dir string
}

// New creates the upload directory if needed and returns a Store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Save validates a single uploaded file and writes it to disk, returning the
// generated filename (relative to the upload directory). JPEG and PNG
// uploads are downscaled before writing; other allowed formats are stored
// verbatim. The file is fully on disk when Save returns, so callers can
// safely persist the returned path.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", ErrFileType
	}
	if mime := fh.Header.Get("Content-Type"); mime != "" && !allowedMIME[mime] {
		return "", ErrFileType
	}
	if fh.Size > MaxFileSize {
		return "", ErrFileSize
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening uploaded file: %w", err)
	}
	defer file.Close()

	// Declared size is client-controlled, so cap the read as well.
	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("reading uploaded file: %w", err)
	}
	if len(data) > MaxFileSize {
		return "", ErrFileSize
	}

	if imaging.CanProcess(data) {
		processed, err := imaging.Process(data)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrFileType, err)
		}
		data = processed
	}

	name := GenerateFilename(fh.Filename)
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("writing uploaded file: %w", err)
	}
	return name, nil
}

// SaveAll validates and stores up to max files. On any failure the files
// written so far are removed, so a partial batch never leaks to disk.
func (s *Store) SaveAll(files []*multipart.FileHeader, max int) ([]string, error) {
	if len(files) > max {
		return nil, fmt.Errorf("%w: got %d, maximum is %d", ErrTooManyFiles, len(files), max)
	}

	var saved []string
	for _, fh := range files {
		name, err := s.Save(fh)
		if err != nil {
			for _, n := range saved {
				os.Remove(filepath.Join(s.Dir, n))
			}
			return nil, err
		}
		saved = append(saved, name)
	}
	return saved, nil
}

// GenerateFilename builds a collision-resistant name from the original:
// sanitized base + timestamp + random suffix + original extension.
// filepath.Base strips any client-supplied directory components.
func GenerateFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = unsafeChars.ReplaceAllString(base, "_")
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixMilli(), uuid.NewString()[:8], ext)
}
