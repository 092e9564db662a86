package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/storage"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const (
	DefaultUploadMaxBytes = 10 << 20

	sniffLen       = 3072
	maxBaseNameLen = 50
	sweepBatchSize = 100
)

var acceptedTypes = map[entity.UploadKind][]string{
	entity.UploadKindNote:   {"application/pdf"},
	entity.UploadKindAvatar: {"image/jpeg", "image/png", "image/gif", "image/webp"},
}

var errUploadTooLarge = errors.New("upload exceeds size limit")

type UploadInput struct {
	Body         io.Reader
	FileName     string
	DeclaredType string
	Size         int64
	Kind         entity.UploadKind
	UploaderID   string
}

type UploadResult struct {
	FileName     string `json:"fileName"`
	FileURL      string `json:"fileUrl"`
	FileSize     int64  `json:"fileSize"`
	OriginalName string `json:"originalName"`
}

type UploadUseCase interface {
	Accept(ctx context.Context, in UploadInput) (*UploadResult, error)
	SweepOrphans(ctx context.Context, now time.Time) (int, error)
}

type uploadUseCase struct {
	uploadRepo persistent.UploadRepository
	store      storage.FileStore
	maxBytes   int64
	orphanTTL  time.Duration
	logger     *logger.Logger
	now        func() time.Time
}

func NewUploadUseCase(
	uploadRepo persistent.UploadRepository,
	store storage.FileStore,
	maxBytes int64,
	orphanTTL time.Duration,
	logger *logger.Logger,
) UploadUseCase {
	if maxBytes <= 0 {
		maxBytes = DefaultUploadMaxBytes
	}
	if orphanTTL <= 0 {
		orphanTTL = 24 * time.Hour
	}
	return &uploadUseCase{
		uploadRepo: uploadRepo,
		store:      store,
		maxBytes:   maxBytes,
		orphanTTL:  orphanTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Accept validates the declared and sniffed type and the size before the
// store sees a single byte. The store writes atomically, so a body that turns
// out to be oversized mid-stream leaves nothing behind.
func (uc *uploadUseCase) Accept(ctx context.Context, in UploadInput) (*UploadResult, error) {
	if in.Kind == "" {
		in.Kind = entity.UploadKindNote
	}
	allowed, ok := acceptedTypes[in.Kind]
	if !ok {
		return nil, apperror.Validation("kind must be one of: note, avatar",
			apperror.FieldError{Field: "kind", Error: "must be one of: note, avatar"})
	}
	if in.Body == nil {
		return nil, apperror.Validation("file is required", apperror.FieldError{Field: "file", Error: "is required"})
	}

	declared := normalizeMediaType(in.DeclaredType)
	if !containsString(allowed, declared) {
		return nil, apperror.UnsupportedType(fmt.Sprintf("file type %q is not allowed; accepted: %s",
			in.DeclaredType, strings.Join(allowed, ", ")))
	}
	if in.Size > uc.maxBytes {
		return nil, apperror.TooLarge(fmt.Sprintf("file exceeds the %d byte limit", uc.maxBytes))
	}

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(in.Body, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperror.Internal("failed to read upload", err)
	}
	header = header[:n]
	if n == 0 {
		return nil, apperror.Validation("file is empty", apperror.FieldError{Field: "file", Error: "is empty"})
	}

	detected := mimetype.Detect(header)
	if !detected.Is(declared) {
		return nil, apperror.UnsupportedType(fmt.Sprintf("file content is %s, not %s", detected.String(), declared))
	}

	now := uc.now()
	storedName := StoredFileName(now, in.FileName, declared, detected.Extension())
	body := &limitedReader{r: io.MultiReader(bytes.NewReader(header), in.Body), remaining: uc.maxBytes}

	url, err := uc.store.Save(ctx, storedName, body, declared)
	if err != nil {
		if errors.Is(err, errUploadTooLarge) {
			return nil, apperror.TooLarge(fmt.Sprintf("file exceeds the %d byte limit", uc.maxBytes))
		}
		return nil, apperror.Internal("failed to store upload", err)
	}

	upload := &entity.Upload{
		Kind:         in.Kind,
		StoredName:   storedName,
		URL:          url,
		OriginalName: truncate(filepath.Base(in.FileName), 255),
		Size:         body.read,
		MimeType:     declared,
		UploaderID:   in.UploaderID,
		ExpiresAt:    now.Add(uc.orphanTTL),
		CreatedAt:    now,
	}
	if err := uc.uploadRepo.Create(ctx, upload); err != nil {
		if delErr := uc.store.Delete(ctx, storedName); delErr != nil {
			uc.logger.Error("Failed to remove unrecorded upload %s: %v", storedName, delErr)
		}
		return nil, err
	}

	uc.logger.Info("Stored %s upload %s (%d bytes) for user %s", in.Kind, storedName, upload.Size, in.UploaderID)
	return &UploadResult{
		FileName:     upload.StoredName,
		FileURL:      upload.URL,
		FileSize:     upload.Size,
		OriginalName: upload.OriginalName,
	}, nil
}

// SweepOrphans removes uploads nobody claimed before they expired. The stored
// object goes first; a record whose object could not be removed is kept for
// the next sweep.
func (uc *uploadUseCase) SweepOrphans(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	for {
		uploads, err := uc.uploadRepo.ListExpired(ctx, now, sweepBatchSize)
		if err != nil {
			return removed, err
		}

		progressed := false
		for _, upload := range uploads {
			if err := uc.store.Delete(ctx, upload.StoredName); err != nil {
				uc.logger.Warn("Failed to delete orphaned upload %s: %v", upload.StoredName, err)
				continue
			}
			if err := uc.uploadRepo.Delete(ctx, upload.ID); err != nil {
				return removed, err
			}
			removed++
			progressed = true
		}

		if len(uploads) < sweepBatchSize || !progressed {
			break
		}
	}

	if removed > 0 {
		uc.logger.Info("Swept %d orphaned uploads", removed)
	}
	return removed, nil
}

// claimableUpload resolves url to an unclaimed upload of the given kind owned
// by userID. Failures are reported against field.
func claimableUpload(
	ctx context.Context,
	uploadRepo persistent.UploadRepository,
	url, userID string,
	kind entity.UploadKind,
	field string,
) (*entity.Upload, error) {
	invalid := func(msg string) error {
		return apperror.Validation(field+" "+msg, apperror.FieldError{Field: field, Error: msg})
	}

	upload, err := uploadRepo.GetByURL(ctx, url)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, invalid("must reference an uploaded file")
		}
		return nil, err
	}
	if upload.Kind != kind || upload.UploaderID != userID {
		return nil, invalid(fmt.Sprintf("must reference a %s file you uploaded", kind))
	}
	if upload.Claimed() {
		return nil, invalid("is already in use")
	}
	return upload, nil
}

// removeUpload deletes the stored object and then its record. Failures are
// logged; an object whose owner is gone is harmless.
func removeUpload(
	ctx context.Context,
	uploadRepo persistent.UploadRepository,
	store storage.FileStore,
	log *logger.Logger,
	upload *entity.Upload,
) {
	if err := store.Delete(ctx, upload.StoredName); err != nil {
		log.Warn("Failed to delete stored file %s: %v", upload.StoredName, err)
		return
	}
	if err := uploadRepo.Delete(ctx, upload.ID); err != nil {
		log.Warn("Failed to delete upload record %s: %v", upload.ID, err)
	}
}

// releaseUpload undoes a claim whose owning write failed, so the upload
// expires through the sweeper again.
func releaseUpload(
	ctx context.Context,
	uploadRepo persistent.UploadRepository,
	log *logger.Logger,
	upload *entity.Upload,
	claimant string,
) {
	if err := uploadRepo.Release(ctx, upload.ID, claimant); err != nil {
		log.Error("Failed to release upload %s claimed by %s: %v", upload.ID, claimant, err)
	}
}

// StoredFileName builds <unixMillis>-<uuid>-<base><ext> from the client's
// file name. Only [A-Za-z0-9_] runs survive in the base, and the extension is
// kept only when it maps to the accepted content type.
func StoredFileName(now time.Time, original, contentType, fallbackExt string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if ext == "" || normalizeMediaType(mime.TypeByExtension(ext)) != contentType {
		ext = fallbackExt
	}

	return fmt.Sprintf("%d-%s-%s%s", now.UnixMilli(), uuid.New().String(), sanitizeBaseName(base), ext)
}

func sanitizeBaseName(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}

	sanitized := strings.Trim(b.String(), "-")
	if len(sanitized) > maxBaseNameLen {
		sanitized = strings.TrimRight(sanitized[:maxBaseNameLen], "-")
	}
	if sanitized == "" {
		return "file"
	}
	return sanitized
}

func normalizeMediaType(declared string) string {
	mediaType, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(declared))
	}
	return mediaType
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// limitedReader fails with errUploadTooLarge once more than remaining bytes
// have been read.
type limitedReader struct {
	r         io.Reader
	remaining int64
	read      int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if int64(len(p)) > l.remaining+1 {
		p = p[:l.remaining+1]
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	if int64(n) > l.remaining {
		l.remaining = -1
		return n, errUploadTooLarge
	}
	l.remaining -= int64(n)
	return n, err
}
