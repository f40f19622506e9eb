package services

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"gather/internal/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// UploadDir returns the public static root uploads are written under.
func UploadDir() string {
	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "./public/images"
	}
	return dir
}

// SaveUploadedImage writes an uploaded image under the public static root with
// a random name and returns its serving path. Only image MIME types are
// accepted; a failed write leaves no partial file behind.
func SaveUploadedImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", apperr.New(apperr.Validation, "file", "Only accept image-type file.")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		switch contentType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		case "image/webp":
			ext = ".webp"
		default:
			ext = ".jpg"
		}
	}

	dir := UploadDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperr.New(apperr.Transaction, "file", "Uploading image failed.")
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(dir, name)

	out, err := os.Create(dst)
	if err != nil {
		return "", apperr.New(apperr.Transaction, "file", "Uploading image failed.")
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(dst)
		log.Error().Err(err).Str("path", dst).Msg("Failed to write uploaded image")
		return "", apperr.New(apperr.Transaction, "file", "Uploading image failed.")
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", apperr.New(apperr.Transaction, "file", "Uploading image failed.")
	}

	return "/images/" + name, nil
}
