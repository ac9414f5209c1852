package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize caps post image uploads at 10MB.
const MaxImageSize = 10 * 1024 * 1024

// MediaRoot returns the directory uploaded files live under. Served
// statically at /media.
func MediaRoot() string {
	root := os.Getenv("MEDIA_ROOT")
	if root == "" {
		root = "./media"
	}
	return root
}

// SaveImage validates an uploaded post image and stores it under
// MediaRoot()/posts/. The returned path is media-relative and is what gets
// persisted on the Post record.
func SaveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("not an image upload: %s", contentType)
	}
	if header.Size > MaxImageSize {
		return "", fmt.Errorf("image exceeds %d bytes", MaxImageSize)
	}

	data, err := io.ReadAll(io.LimitReader(file, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", fmt.Errorf("image exceeds %d bytes", MaxImageSize)
	}

	// The bytes must actually decode as an image, not just claim to. A full
	// decode catches payloads whose header parses but whose body is garbage.
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("undecodable image: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	relPath := filepath.Join("posts", uuid.NewString()+ext)

	dir := filepath.Join(MediaRoot(), "posts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(MediaRoot(), relPath), data, 0o644); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	return relPath, nil
}
