package usecase

import (
	"context"
	"strings"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/storage"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/validation"

	"golang.org/x/crypto/bcrypt"
)

// ProfileInput carries the profile fields a client sent; nil means unchanged.
type ProfileInput struct {
	Name       *string   `json:"name"`
	Department *string   `json:"department"`
	Year       *string   `json:"year"`
	Bio        *string   `json:"bio"`
	Interests  *[]string `json:"interests"`
}

type profileFields struct {
	Name       string   `json:"name" validate:"required,max=50"`
	Department string   `json:"department" validate:"max=100"`
	Year       string   `json:"year" validate:"max=20"`
	Bio        string   `json:"bio" validate:"max=500"`
	Interests  []string `json:"interests" validate:"max=10,dive,required,max=30"`
}

type PasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

type ProfileUseCase interface {
	GetProfile(ctx context.Context, id string, viewer Requester) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*entity.User, error)
	UpdatePrivacy(ctx context.Context, userID string, privacy entity.PrivacySettings) (*entity.User, error)
	ChangePassword(ctx context.Context, userID, sessionID string, in PasswordInput) error
	SetAvatar(ctx context.Context, userID, avatarURL string) (*entity.User, error)
}

type profileUseCase struct {
	userRepo   persistent.UserRepository
	uploadRepo persistent.UploadRepository
	store      storage.FileStore
	validator  *validation.Validator
	bcryptCost int
	logger     *logger.Logger
}

func NewProfileUseCase(
	userRepo persistent.UserRepository,
	uploadRepo persistent.UploadRepository,
	store storage.FileStore,
	validator *validation.Validator,
	bcryptCost int,
	logger *logger.Logger,
) ProfileUseCase {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &profileUseCase{
		userRepo:   userRepo,
		uploadRepo: uploadRepo,
		store:      store,
		validator:  validator,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// GetProfile applies the owner's privacy settings unless the viewer is the
// owner or an admin.
func (uc *profileUseCase) GetProfile(ctx context.Context, id string, viewer Requester) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewer.CanModify(user.ID) {
		return user, nil
	}

	if !user.Privacy.ShowEmail {
		user.Email = ""
	}
	if !user.Privacy.ShowProfile {
		user.Department = ""
		user.Year = ""
		user.Bio = ""
		user.Interests = []string{}
	}
	if !user.Privacy.ShowActivity {
		user.LastLogin = nil
	}
	return user, nil
}

func (uc *profileUseCase) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := profileFields{
		Name:       user.Name,
		Department: user.Department,
		Year:       user.Year,
		Bio:        user.Bio,
		Interests:  user.Interests,
	}
	if in.Name != nil {
		fields.Name = strings.TrimSpace(*in.Name)
	}
	if in.Department != nil {
		fields.Department = strings.TrimSpace(*in.Department)
	}
	if in.Year != nil {
		fields.Year = strings.TrimSpace(*in.Year)
	}
	if in.Bio != nil {
		fields.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Interests != nil {
		interests := make([]string, 0, len(*in.Interests))
		for _, interest := range *in.Interests {
			interests = append(interests, strings.TrimSpace(interest))
		}
		fields.Interests = interests
	}
	if err := uc.validator.Struct(fields); err != nil {
		return nil, err
	}

	user.Name = fields.Name
	user.Department = fields.Department
	user.Year = fields.Year
	user.Bio = fields.Bio
	user.Interests = fields.Interests
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *profileUseCase) UpdatePrivacy(ctx context.Context, userID string, privacy entity.PrivacySettings) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Privacy = privacy
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword keeps the calling session and revokes every other one.
func (uc *profileUseCase) ChangePassword(ctx context.Context, userID, sessionID string, in PasswordInput) error {
	if err := uc.validator.Struct(in); err != nil {
		return err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return apperror.Validation("currentPassword is incorrect",
			apperror.FieldError{Field: "currentPassword", Error: "is incorrect"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), uc.bcryptCost)
	if err != nil {
		return apperror.Internal("failed to process password", err)
	}
	if err := uc.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return err
	}

	revoked, err := uc.userRepo.DeleteSessions(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	uc.logger.Info("Password changed for user %s; revoked %d other sessions", userID, revoked)
	return nil
}

func (uc *profileUseCase) SetAvatar(ctx context.Context, userID, avatarURL string) (*entity.User, error) {
	avatarURL = strings.TrimSpace(avatarURL)
	if avatarURL == "" {
		return nil, apperror.Validation("avatar is required", apperror.FieldError{Field: "avatar", Error: "is required"})
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Avatar == avatarURL {
		return user, nil
	}

	upload, err := claimableUpload(ctx, uc.uploadRepo, avatarURL, userID, entity.UploadKindAvatar, "avatar")
	if err != nil {
		return nil, err
	}
	if err := uc.uploadRepo.Claim(ctx, upload.ID, userID); err != nil {
		return nil, err
	}

	previous := user.Avatar
	user.Avatar = upload.URL
	if err := uc.userRepo.Update(ctx, user); err != nil {
		releaseUpload(ctx, uc.uploadRepo, uc.logger, upload, userID)
		return nil, err
	}

	if previous != "" {
		if old, err := uc.uploadRepo.GetByURL(ctx, previous); err == nil {
			removeUpload(ctx, uc.uploadRepo, uc.store, uc.logger, old)
		}
	}
	return user, nil
}
