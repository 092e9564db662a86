package usecase

import (
	"context"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/validation"
)

type AdminUseCase interface {
	PendingNotes(ctx context.Context, limit, offset int) ([]*entity.Note, error)
	ApproveNote(ctx context.Context, id string, approved bool) (*entity.Note, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, error)
	SetUserActive(ctx context.Context, admin Requester, id string, active bool) (*entity.User, error)
	SetUserRole(ctx context.Context, admin Requester, id string, role entity.UserRole) (*entity.User, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type adminUseCase struct {
	userRepo      persistent.UserRepository
	noteRepo      persistent.NoteRepository
	communityRepo persistent.CommunityRepository
	questionRepo  persistent.QuestionRepository
	categoryRepo  persistent.CategoryRepository
	publisher     ActivityPublisher
	validator     *validation.Validator
	logger        *logger.Logger
}

func NewAdminUseCase(
	userRepo persistent.UserRepository,
	noteRepo persistent.NoteRepository,
	communityRepo persistent.CommunityRepository,
	questionRepo persistent.QuestionRepository,
	categoryRepo persistent.CategoryRepository,
	publisher ActivityPublisher,
	validator *validation.Validator,
	logger *logger.Logger,
) AdminUseCase {
	return &adminUseCase{
		userRepo:      userRepo,
		noteRepo:      noteRepo,
		communityRepo: communityRepo,
		questionRepo:  questionRepo,
		categoryRepo:  categoryRepo,
		publisher:     publisher,
		validator:     validator,
		logger:        logger,
	}
}

func (uc *adminUseCase) PendingNotes(ctx context.Context, limit, offset int) ([]*entity.Note, error) {
	approved := false
	return uc.noteRepo.List(ctx, entity.NoteFilter{Approved: &approved, Limit: limit, Offset: offset})
}

// ApproveNote awards the author only on the transition to approved.
func (uc *adminUseCase) ApproveNote(ctx context.Context, id string, approved bool) (*entity.Note, error) {
	before, err := uc.noteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	note, err := uc.noteRepo.SetApproved(ctx, id, approved)
	if err != nil {
		return nil, err
	}

	if approved && !before.IsApproved {
		uc.logger.Info("Note approved: %s", id)
		publishActivity(ctx, uc.publisher, uc.logger, entity.Activity{
			Type:       entity.ActivityNoteApproved,
			UserID:     note.AuthorID,
			ResourceID: note.ID,
			OccurredAt: time.Now(),
		})
	}
	return note, nil
}

func (uc *adminUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return uc.userRepo.List(ctx, limit, offset)
}

func (uc *adminUseCase) SetUserActive(ctx context.Context, admin Requester, id string, active bool) (*entity.User, error) {
	if admin.UserID == id {
		return nil, apperror.Forbidden("admins cannot change their own account status")
	}
	if err := uc.userRepo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}

	if !active {
		revoked, err := uc.userRepo.DeleteSessions(ctx, id, "")
		if err != nil {
			return nil, err
		}
		uc.logger.Info("User %s deactivated by %s; revoked %d sessions", id, admin.UserID, revoked)
	}
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *adminUseCase) SetUserRole(ctx context.Context, admin Requester, id string, role entity.UserRole) (*entity.User, error) {
	if err := uc.validator.Var("role", string(role), "required,role"); err != nil {
		return nil, err
	}
	if admin.UserID == id {
		return nil, apperror.Forbidden("admins cannot change their own role")
	}
	if err := uc.userRepo.SetRole(ctx, id, role); err != nil {
		return nil, err
	}

	uc.logger.Info("User %s role set to %s by %s", id, role, admin.UserID)
	return uc.userRepo.GetByID(ctx, id)
}

func (uc *adminUseCase) Stats(ctx context.Context) (*entity.Stats, error) {
	var (
		stats entity.Stats
		err   error
	)
	pending := false

	if stats.Users, err = uc.userRepo.Count(ctx, false); err != nil {
		return nil, err
	}
	if stats.ActiveUsers, err = uc.userRepo.Count(ctx, true); err != nil {
		return nil, err
	}
	if stats.Notes, err = uc.noteRepo.Count(ctx, nil); err != nil {
		return nil, err
	}
	if stats.PendingNotes, err = uc.noteRepo.Count(ctx, &pending); err != nil {
		return nil, err
	}
	if stats.Downloads, err = uc.noteRepo.SumDownloads(ctx); err != nil {
		return nil, err
	}
	if stats.Posts, err = uc.communityRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Questions, err = uc.questionRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.Categories, err = uc.categoryRepo.Count(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
