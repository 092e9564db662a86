package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/storage"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/validation"

	"github.com/redis/go-redis/v9"
)

const noteViewTTL = 24 * time.Hour

type NoteInput struct {
	Title       string         `json:"title" validate:"required,max=100"`
	Description string         `json:"description" validate:"max=500"`
	Subject     entity.Subject `json:"subject" validate:"required,subject"`
	Grade       entity.Grade   `json:"grade" validate:"required,grade"`
	Tags        []string       `json:"tags" validate:"max=10,dive,required,max=30"`
	FileURL     string         `json:"fileUrl" validate:"required"`
	FileName    string         `json:"fileName" validate:"max=255"`
	FileSize    int64          `json:"fileSize"`
}

// NoteUpdate carries the fields a client sent; nil means unchanged.
type NoteUpdate struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Subject     *entity.Subject `json:"subject"`
	Grade       *entity.Grade   `json:"grade"`
	Tags        *[]string       `json:"tags"`
	FileURL     *string         `json:"fileUrl"`
	FileName    *string         `json:"fileName"`
}

type NoteUseCase interface {
	List(ctx context.Context, filter entity.NoteFilter) ([]*entity.Note, error)
	ListMine(ctx context.Context, authorID string, filter entity.NoteFilter) ([]*entity.Note, error)
	Get(ctx context.Context, id string) (*entity.Note, error)
	Create(ctx context.Context, authorID string, in NoteInput) (*entity.Note, error)
	Update(ctx context.Context, id string, requester Requester, in NoteUpdate) (*entity.Note, error)
	Delete(ctx context.Context, id string, requester Requester) error
	Download(ctx context.Context, id string) (*entity.Note, error)
	View(ctx context.Context, id, viewerID string) (*entity.Note, error)
	Rate(ctx context.Context, id, userID string, value int) (*entity.Note, error)
}

type noteUseCase struct {
	noteRepo    persistent.NoteRepository
	uploadRepo  persistent.UploadRepository
	store       storage.FileStore
	redisClient *redis.Client
	publisher   ActivityPublisher
	validator   *validation.Validator
	logger      *logger.Logger
	now         func() time.Time
}

func NewNoteUseCase(
	noteRepo persistent.NoteRepository,
	uploadRepo persistent.UploadRepository,
	store storage.FileStore,
	redisClient *redis.Client,
	publisher ActivityPublisher,
	validator *validation.Validator,
	logger *logger.Logger,
) NoteUseCase {
	return &noteUseCase{
		noteRepo:    noteRepo,
		uploadRepo:  uploadRepo,
		store:       store,
		redisClient: redisClient,
		publisher:   publisher,
		validator:   validator,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *noteUseCase) List(ctx context.Context, filter entity.NoteFilter) ([]*entity.Note, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperror.Validation("limit and offset must not be negative")
	}
	return uc.noteRepo.List(ctx, filter)
}

func (uc *noteUseCase) ListMine(ctx context.Context, authorID string, filter entity.NoteFilter) ([]*entity.Note, error) {
	filter.AuthorID = authorID
	return uc.List(ctx, filter)
}

func (uc *noteUseCase) Get(ctx context.Context, id string) (*entity.Note, error) {
	return uc.noteRepo.GetByID(ctx, id)
}

func (uc *noteUseCase) Create(ctx context.Context, authorID string, in NoteInput) (*entity.Note, error) {
	in = normalizeNoteInput(in)
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	upload, err := claimableUpload(ctx, uc.uploadRepo, in.FileURL, authorID, entity.UploadKindNote, "fileUrl")
	if err != nil {
		return nil, err
	}

	fileName := in.FileName
	if fileName == "" {
		fileName = upload.OriginalName
	}
	now := uc.now()
	note := &entity.Note{
		Title:       in.Title,
		Description: in.Description,
		Subject:     in.Subject,
		Grade:       in.Grade,
		Tags:        in.Tags,
		FileURL:     upload.URL,
		FileName:    fileName,
		FileSize:    upload.Size,
		AuthorID:    authorID,
		IsApproved:  false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	if err := uc.uploadRepo.Claim(ctx, upload.ID, note.ID); err != nil {
		if delErr := uc.noteRepo.Delete(ctx, note.ID); delErr != nil {
			uc.logger.Error("Failed to roll back note %s: %v", note.ID, delErr)
		}
		return nil, err
	}

	uc.logger.Info("Note created: %s by %s", note.ID, authorID)
	publishActivity(ctx, uc.publisher, uc.logger, entity.Activity{
		Type:       entity.ActivityNoteCreated,
		UserID:     authorID,
		ResourceID: note.ID,
		OccurredAt: now,
	})
	return note, nil
}

func (uc *noteUseCase) Update(ctx context.Context, id string, requester Requester, in NoteUpdate) (*entity.Note, error) {
	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.CanModify(note.AuthorID) {
		return nil, apperror.Forbidden("only the author or an admin can edit this note")
	}

	merged := NoteInput{
		Title:       note.Title,
		Description: note.Description,
		Subject:     note.Subject,
		Grade:       note.Grade,
		Tags:        note.Tags,
		FileURL:     note.FileURL,
		FileName:    note.FileName,
		FileSize:    note.FileSize,
	}
	if in.Title != nil {
		merged.Title = *in.Title
	}
	if in.Description != nil {
		merged.Description = *in.Description
	}
	if in.Subject != nil {
		merged.Subject = *in.Subject
	}
	if in.Grade != nil {
		merged.Grade = *in.Grade
	}
	if in.Tags != nil {
		merged.Tags = *in.Tags
	}
	if in.FileURL != nil {
		merged.FileURL = *in.FileURL
	}
	if in.FileName != nil {
		merged.FileName = *in.FileName
	}
	merged = normalizeNoteInput(merged)
	if err := uc.validator.Struct(merged); err != nil {
		return nil, err
	}

	var replaced, replacement *entity.Upload
	if merged.FileURL != note.FileURL {
		replacement, err = claimableUpload(ctx, uc.uploadRepo, merged.FileURL, note.AuthorID, entity.UploadKindNote, "fileUrl")
		if err != nil {
			return nil, err
		}
		if err := uc.uploadRepo.Claim(ctx, replacement.ID, note.ID); err != nil {
			return nil, err
		}
		if previous, err := uc.uploadRepo.GetByURL(ctx, note.FileURL); err == nil {
			replaced = previous
		}
		merged.FileSize = replacement.Size
		if in.FileName == nil {
			merged.FileName = replacement.OriginalName
		}
	}

	updatedAt := uc.now()
	if !updatedAt.After(note.CreatedAt) {
		updatedAt = note.CreatedAt.Add(time.Millisecond)
	}

	note.Title = merged.Title
	note.Description = merged.Description
	note.Subject = merged.Subject
	note.Grade = merged.Grade
	note.Tags = merged.Tags
	note.FileURL = merged.FileURL
	note.FileName = merged.FileName
	note.FileSize = merged.FileSize
	note.UpdatedAt = updatedAt
	if err := uc.noteRepo.Update(ctx, note); err != nil {
		if replacement != nil {
			releaseUpload(ctx, uc.uploadRepo, uc.logger, replacement, note.ID)
		}
		return nil, err
	}

	if replaced != nil {
		removeUpload(ctx, uc.uploadRepo, uc.store, uc.logger, replaced)
	}
	return uc.noteRepo.GetByID(ctx, id)
}

func (uc *noteUseCase) Delete(ctx context.Context, id string, requester Requester) error {
	note, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !requester.CanModify(note.AuthorID) {
		return apperror.Forbidden("only the author or an admin can delete this note")
	}

	if err := uc.noteRepo.Delete(ctx, id); err != nil {
		return err
	}

	if upload, err := uc.uploadRepo.GetByURL(ctx, note.FileURL); err == nil {
		removeUpload(ctx, uc.uploadRepo, uc.store, uc.logger, upload)
	} else if !apperror.Is(err, apperror.KindNotFound) {
		uc.logger.Warn("Failed to look up upload of deleted note %s: %v", id, err)
	}

	uc.logger.Info("Note deleted: %s by %s", id, requester.UserID)
	return nil
}

func (uc *noteUseCase) Download(ctx context.Context, id string) (*entity.Note, error) {
	if err := uc.noteRepo.IncrementDownloads(ctx, id); err != nil {
		return nil, err
	}
	return uc.noteRepo.GetByID(ctx, id)
}

// View counts one view per viewer and day when redis is available, and every
// request otherwise.
func (uc *noteUseCase) View(ctx context.Context, id, viewerID string) (*entity.Note, error) {
	count := true
	if uc.redisClient != nil && viewerID != "" {
		viewKey := fmt.Sprintf("note_viewed:%s:%s", id, viewerID)
		set, err := uc.redisClient.SetNX(ctx, viewKey, "1", noteViewTTL).Result()
		if err != nil {
			uc.logger.Warn("Failed to set view key in Redis: %v", err)
		} else {
			count = set
		}
	}

	if count {
		if err := uc.noteRepo.IncrementViews(ctx, id); err != nil {
			return nil, err
		}
	}
	return uc.noteRepo.GetByID(ctx, id)
}

func (uc *noteUseCase) Rate(ctx context.Context, id, userID string, value int) (*entity.Note, error) {
	if err := uc.validator.Var("rating", value, "min=1,max=5"); err != nil {
		return nil, err
	}
	return uc.noteRepo.Rate(ctx, id, userID, value)
}

func normalizeNoteInput(in NoteInput) NoteInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.FileURL = strings.TrimSpace(in.FileURL)
	in.FileName = strings.TrimSpace(in.FileName)

	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		tags = append(tags, strings.TrimSpace(tag))
	}
	in.Tags = tags
	return in
}
