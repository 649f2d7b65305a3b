package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Buckets for uploaded product imagery.
const (
	ProductPhotoBucket   = "product_photos"
	PromotionPhotoBucket = "promotion_photos"
)

var (
	// ErrUnsupportedType is returned when an uploaded file is not a jpg or png.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrFileTooLarge is returned when an uploaded file exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
)

var allowedExtensions = map[string]bool{
	".jpg": true,
	".png": true,
}

// DiskStore persists uploaded files under a base directory, one subdirectory
// per bucket. Paths returned are relative to the base directory so they can be
// stored in the database and resolved by whatever serves the files.
type DiskStore struct {
	baseDir    string
	maxPhotoKB int64
}

// NewDiskStore creates a disk-backed store rooted at baseDir.
func NewDiskStore(baseDir string, maxPhotoKB int64) *DiskStore {
	return &DiskStore{
		baseDir:    baseDir,
		maxPhotoKB: maxPhotoKB,
	}
}

// CheckPhoto validates an uploaded photo against the type and size limits
// without persisting it.
func (s *DiskStore) CheckPhoto(file *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return ErrUnsupportedType
	}
	if file.Size > s.maxPhotoKB*1024 {
		return ErrFileTooLarge
	}
	return nil
}

// Store persists an uploaded file into the given bucket under a generated
// name and returns the bucket-relative path. The original filename only
// contributes its extension; the name itself is never reused.
func (s *DiskStore) Store(bucket string, file *multipart.FileHeader) (string, error) {
	if err := s.CheckPhoto(file); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	name := uuid.New().String() + ext
	relPath := filepath.ToSlash(filepath.Join(bucket, name))

	dir := filepath.Join(s.baseDir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create bucket directory: %w", err)
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return relPath, nil
}
