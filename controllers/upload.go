package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadsDir returns where uploaded catalog images live.
func UploadsDir() string {
	dir := os.Getenv("UPLOADS_DIR")
	if dir == "" {
		dir = "public/uploads"
	}
	return dir
}

// saveUploadedImage stores the file from the named form field and returns
// the stored filename. A request without that file is not an error, the
// caller keeps whatever reference it already had.
func saveUploadedImage(c *gin.Context, field string) (*string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return nil, errors.New("only image files are allowed")
	}

	dir := UploadsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	filename := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(dir, filename)); err != nil {
		return nil, err
	}

	return &filename, nil
}
