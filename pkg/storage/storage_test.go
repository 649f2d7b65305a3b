package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadedFile builds a *multipart.FileHeader the way an HTTP handler would
// receive it.
func uploadedFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	_, header, err := req.FormFile("photo")
	require.NoError(t, err)
	return header
}

func TestStoreWritesFileAndReturnsBucketPath(t *testing.T) {
	baseDir := t.TempDir()
	store := NewDiskStore(baseDir, 2048)

	path, err := store.Store(ProductPhotoBucket, uploadedFile(t, "menu.jpg", []byte("jpg-bytes")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, ProductPhotoBucket+"/"))
	assert.True(t, strings.HasSuffix(path, ".jpg"))
	assert.NotContains(t, path, "menu")

	content, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpg-bytes"), content)
}

func TestStoreGeneratesUniqueNames(t *testing.T) {
	store := NewDiskStore(t.TempDir(), 2048)

	first, err := store.Store(PromotionPhotoBucket, uploadedFile(t, "promo.png", []byte("a")))
	require.NoError(t, err)
	second, err := store.Store(PromotionPhotoBucket, uploadedFile(t, "promo.png", []byte("b")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckPhotoRejectsUnsupportedExtension(t *testing.T) {
	store := NewDiskStore(t.TempDir(), 2048)

	for _, filename := range []string{"anim.gif", "doc.pdf", "noext"} {
		err := store.CheckPhoto(uploadedFile(t, filename, []byte("data")))
		assert.ErrorIs(t, err, ErrUnsupportedType, filename)
	}
}

func TestCheckPhotoAcceptsUppercaseExtension(t *testing.T) {
	store := NewDiskStore(t.TempDir(), 2048)

	err := store.CheckPhoto(uploadedFile(t, "MENU.JPG", []byte("data")))
	assert.NoError(t, err)
}

func TestCheckPhotoRejectsOversizedFile(t *testing.T) {
	store := NewDiskStore(t.TempDir(), 1)

	err := store.CheckPhoto(uploadedFile(t, "menu.jpg", bytes.Repeat([]byte{0xFF}, 2048)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestStoreRejectsInvalidFile(t *testing.T) {
	baseDir := t.TempDir()
	store := NewDiskStore(baseDir, 2048)

	_, err := store.Store(ProductPhotoBucket, uploadedFile(t, "anim.gif", []byte("data")))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// Nothing written for a rejected file
	_, statErr := os.Stat(filepath.Join(baseDir, ProductPhotoBucket))
	assert.True(t, os.IsNotExist(statErr))
}
