package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"valomarket/internal/usecase"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
)

const maxUploadSize = 5 * 1024 * 1024

// formImages reads up to maxFiles images from the multipart field. Files are
// buffered so the multipart temp files can be released before the upload.
func formImages(c echo.Context, field string, maxFiles int) ([]usecase.ImageUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.BadRequest("Expected a multipart form", err)
	}

	files := form.File[field]
	if len(files) == 0 {
		return nil, errors.BadRequest(fmt.Sprintf("Missing %s file", field), nil)
	}
	if len(files) > maxFiles {
		return nil, errors.Validation(fmt.Sprintf("At most %d files can be uploaded", maxFiles))
	}

	uploads := make([]usecase.ImageUpload, 0, len(files))
	for _, fh := range files {
		upload, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func readUpload(fh *multipart.FileHeader) (usecase.ImageUpload, error) {
	if fh.Size > maxUploadSize {
		logger.Warn("File too large: %d bytes (max: %d)", fh.Size, maxUploadSize)
		return usecase.ImageUpload{}, errors.Validation(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", maxUploadSize/(1024*1024)))
	}

	src, err := fh.Open()
	if err != nil {
		return usecase.ImageUpload{}, errors.BadRequest("Could not read uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return usecase.ImageUpload{}, errors.BadRequest("Could not read uploaded file", err)
	}
	if len(data) > maxUploadSize {
		return usecase.ImageUpload{}, errors.Validation(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", maxUploadSize/(1024*1024)))
	}

	// The declared type is trusted only when it matches the content.
	contentType := http.DetectContentType(data)
	if declared := fh.Header.Get("Content-Type"); declared != contentType {
		logger.Debug("Upload %s declared %s, detected %s", fh.Filename, declared, contentType)
	}

	return usecase.ImageUpload{File: bytes.NewReader(data), ContentType: contentType}, nil
}
