// internal/services/upload_service.go
package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/models"
)

const (
	UploadVariantImages = "variant_images"
	UploadMeasureImages = "measure_images"
	UploadIcons         = "icons"
)

// UploadService turns form files into immutable FileUpload values. Nothing is stored;
// the bytes travel to the backend inside the submit payload.
type UploadService struct {
	config *config.Config
}

type UploadOptions struct {
	MaxSize      int64 // in bytes
	AllowedTypes []string
}

// RejectedUpload explains why one file of a batch was skipped.
type RejectedUpload struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Reason string `json:"reason"`
}

// formats imaging can decode for the dimension probe
var probeableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/tiff": true,
}

func NewUploadService(config *config.Config) *UploadService {
	return &UploadService{config: config}
}

func (s *UploadService) GetDefaultUploadOptions(category string) UploadOptions {
	switch category {
	case UploadVariantImages:
		return UploadOptions{
			MaxSize:      s.config.Uploads.MaxVariantImageSize,
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		}
	case UploadMeasureImages:
		return UploadOptions{
			MaxSize:      s.config.Uploads.MaxMeasureImageSize,
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".webp"},
		}
	case UploadIcons:
		return UploadOptions{
			MaxSize:      s.config.Uploads.MaxIconSize,
			AllowedTypes: []string{".png", ".jpg", ".jpeg", ".svg", ".webp"},
		}
	default:
		return UploadOptions{
			MaxSize:      5 * 1024 * 1024, // 5MB
			AllowedTypes: []string{".jpg", ".jpeg", ".png"},
		}
	}
}

// Ingest validates one form file and reads it into a FileUpload.
func (s *UploadService) Ingest(header *multipart.FileHeader, options UploadOptions) (models.FileUpload, error) {
	// Validate file size
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return models.FileUpload{}, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, options.MaxSize)
	}

	// Validate file type
	if len(options.AllowedTypes) > 0 {
		fileExt := strings.ToLower(filepath.Ext(header.Filename))
		allowed := false
		for _, allowedType := range options.AllowedTypes {
			if fileExt == allowedType {
				allowed = true
				break
			}
		}
		if !allowed {
			return models.FileUpload{}, fmt.Errorf("file type %s is not allowed", fileExt)
		}
	}

	file, err := header.Open()
	if err != nil {
		return models.FileUpload{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.FileUpload{}, fmt.Errorf("failed to read file: %w", err)
	}
	if options.MaxSize > 0 && int64(len(data)) > options.MaxSize {
		return models.FileUpload{}, fmt.Errorf("file size %d bytes exceeds maximum allowed size %d bytes", len(data), options.MaxSize)
	}

	return s.ingestBytes(header.Filename, data)
}

func (s *UploadService) ingestBytes(name string, data []byte) (models.FileUpload, error) {
	mtype := mimetype.Detect(data)
	contentType := mtype.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	if !strings.HasPrefix(contentType, "image/") {
		return models.FileUpload{}, fmt.Errorf("invalid image file: detected %s", contentType)
	}

	upload := models.NewFileUpload(filepath.Base(name), contentType, data)
	if probeableTypes[contentType] {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return models.FileUpload{}, fmt.Errorf("failed to decode image: %w", err)
		}
		bounds := img.Bounds()
		upload.Width = bounds.Dx()
		upload.Height = bounds.Dy()
	}
	return upload, nil
}

// IngestAll ingests a batch, skipping files that fail validation.
func (s *UploadService) IngestAll(headers []*multipart.FileHeader, options UploadOptions) ([]models.FileUpload, []RejectedUpload) {
	accepted := make([]models.FileUpload, 0, len(headers))
	rejected := []RejectedUpload{}
	for _, header := range headers {
		upload, err := s.Ingest(header, options)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"file": header.Filename,
				"size": header.Size,
			}).WithError(err).Warn("Rejected upload")
			rejected = append(rejected, RejectedUpload{Name: header.Filename, Size: header.Size, Reason: err.Error()})
			continue
		}
		accepted = append(accepted, upload)
	}
	return accepted, rejected
}
