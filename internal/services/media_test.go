package services

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// smallGIF is a valid 2x1 GIF.
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func uploadFile(t *testing.T, filename, contentType string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	partHeader := make(map[string][]string)
	partHeader["Content-Disposition"] = []string{`form-data; name="image"; filename="` + filename + `"`}
	partHeader["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(partHeader)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	writer.Close()

	req := httptest.NewRequest("POST", "/new/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("image")
	assert.NoError(t, err)
	return file, header
}

func TestSaveImageStoresDecodableUpload(t *testing.T) {
	t.Setenv("MEDIA_ROOT", t.TempDir())

	file, header := uploadFile(t, "small.gif", "image/gif", smallGIF)
	defer file.Close()

	relPath, err := SaveImage(file, header)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, filepath.Join("posts")+string(filepath.Separator)))
	assert.True(t, strings.HasSuffix(relPath, ".gif"))

	stored, err := os.ReadFile(filepath.Join(MediaRoot(), relPath))
	assert.NoError(t, err)
	assert.Equal(t, smallGIF, stored)
}

func TestSaveImageRejectsNonImageContentType(t *testing.T) {
	t.Setenv("MEDIA_ROOT", t.TempDir())

	file, header := uploadFile(t, "notes.txt", "text/plain", []byte("not an image"))
	defer file.Close()

	_, err := SaveImage(file, header)
	assert.Error(t, err)
}

func TestSaveImageRejectsUndecodableBytes(t *testing.T) {
	t.Setenv("MEDIA_ROOT", t.TempDir())

	file, header := uploadFile(t, "fake.gif", "image/gif", []byte("GIF89a but not really"))
	defer file.Close()

	_, err := SaveImage(file, header)
	assert.Error(t, err)
}
