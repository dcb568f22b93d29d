package service

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/wanderpets/admin-api/pkg/errors"
	"github.com/wanderpets/admin-api/pkg/storage"
)

// DefaultMediaFolder receives uploads that name no folder.
const DefaultMediaFolder = "uploads"

var defaultAllowedMIMEs = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// MediaConfig limits accepted uploads.
type MediaConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// MediaUpload is a received file.
type MediaUpload struct {
	Folder   string
	Filename string
	Data     []byte
}

// MediaResult describes a stored upload.
type MediaResult struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

// MediaService validates uploads and hands them to the blob store.
type MediaService struct {
	blobs   storage.BlobStore
	cfg     MediaConfig
	allowed map[string]struct{}
	logger  *zap.Logger
	now     Clock
}

// NewMediaService constructs a MediaService.
func NewMediaService(blobs storage.BlobStore, cfg MediaConfig, logger *zap.Logger) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 10 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = defaultAllowedMIMEs
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mime := range cfg.AllowedMIMEs {
		allowed[strings.ToLower(strings.TrimSpace(mime))] = struct{}{}
	}
	return &MediaService{blobs: blobs, cfg: cfg, allowed: allowed, logger: logger, now: utcNow}
}

// Upload checks size and sniffed content type, then stores the file as
// <unix millis>_<sanitized name> under the folder.
func (s *MediaService) Upload(ctx context.Context, in MediaUpload) (*MediaResult, error) {
	if len(in.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	if int64(len(in.Data)) > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes", s.cfg.MaxFileSizeBytes))
	}
	contentType := http.DetectContentType(in.Data)
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	if _, ok := s.allowed[contentType]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("content type %s is not allowed", contentType))
	}

	folder := strings.TrimSpace(in.Folder)
	if folder == "" {
		folder = DefaultMediaFolder
	}
	filename := fmt.Sprintf("%d_%s", s.now().UnixMilli(), SanitizeFilename(in.Filename))

	url, err := s.blobs.Upload(ctx, folder, filename, in.Data, contentType)
	if err != nil {
		s.logger.Error("media upload failed", zap.String("folder", folder), zap.String("file", filename), zap.Error(err))
		return nil, appErrors.As(appErrors.ErrWriteFailed, err, "failed to store file")
	}
	return &MediaResult{URL: url, Filename: filename, ContentType: contentType, Size: len(in.Data)}, nil
}

// SanitizeFilename keeps the base name with only safe characters.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	return name
}
