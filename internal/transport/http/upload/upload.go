package upload

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrTooLarge    = errors.New("Ukuran file terlalu besar. Maksimal 5MB")
	ErrInvalidType = errors.New("Hanya file gambar yang diizinkan (jpeg, jpg, png, gif, webp)")
)

var allowedExt = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".webp": true,
}

var allowedMime = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true,
	"image/gif": true, "image/webp": true,
}

// Store writes uploaded report photos under a fixed directory. Files are
// served back via the /uploads/laporan static prefix.
type Store struct {
	Dir     string
	MaxSize int64
}

func NewStore(dir string, maxSizeMB int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{Dir: dir, MaxSize: int64(maxSizeMB) << 20}, nil
}

// Save validates size and type and writes the file under a generated
// name: laporan_<timestamp>-<random>.<ext>.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.MaxSize {
		return "", ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] {
		return "", ErrInvalidType
	}
	if ct := fh.Header.Get("Content-Type"); ct != "" && !allowedMime[ct] {
		return "", ErrInvalidType
	}

	name := fmt.Sprintf("laporan_%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return name, nil
}

// Remove deletes a stored file, ignoring names that are already gone.
func (s *Store) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(name)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
