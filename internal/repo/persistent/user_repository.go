package persistent

import (
	"context"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/model"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	SetRole(ctx context.Context, id string, role entity.UserRole) error
	UpdatePassword(ctx context.Context, id, hash string) error
	AddPoints(ctx context.Context, id string, delta int) (*entity.User, error)
	SetProgress(ctx context.Context, id string, level int, badges []string) error
	Count(ctx context.Context, activeOnly bool) (int64, error)

	CreateSession(ctx context.Context, session *entity.Session) error
	RecordLogin(ctx context.Context, session *entity.Session, at time.Time) error
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	TouchSession(ctx context.Context, id string, at time.Time) error
	ListSessions(ctx context.Context, userID string) ([]*entity.Session, error)
	DeleteSession(ctx context.Context, userID, sessionID string) (bool, error)
	DeleteSessions(ctx context.Context, userID, exceptID string) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(userModel).Error; err != nil {
		if translated := translate(err, "user"); apperror.Is(translated, apperror.KindConflict) {
			return apperror.Conflict("email already registered")
		}
		return err
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, translate(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error; err != nil {
		return nil, translate(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

// Update writes the profile columns. Password, role, points and activity
// state have dedicated methods so a profile edit never clobbers them.
func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)
	result := r.db.WithContext(ctx).Model(&model.UserModel{ID: user.ID}).
		Select("name", "avatar", "department", "year", "bio", "interests", "privacy").
		Updates(userModel)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user")
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	var userModels []model.UserModel
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if err := paginate(query, limit, offset).Find(&userModels).Error; err != nil {
		return nil, err
	}

	users := make([]*entity.User, len(userModels))
	for i := range userModels {
		users[i] = ToUserEntity(&userModels[i])
	}
	return users, nil
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) error {
	return r.updateColumn(ctx, id, "is_active", active)
}

func (r *userRepository) SetRole(ctx context.Context, id string, role entity.UserRole) error {
	return r.updateColumn(ctx, id, "role", string(role))
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.updateColumn(ctx, id, "password", hash)
}

func (r *userRepository) updateColumn(ctx context.Context, id, column string, value interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).
		Updates(map[string]interface{}{column: value, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user")
	}
	return nil
}

// AddPoints increments the point balance in place and returns the user as
// stored after the increment.
func (r *userRepository) AddPoints(ctx context.Context, id string, delta int) (*entity.User, error) {
	var userModel model.UserModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.UserModel{}).Where("id = ?", id).
			UpdateColumn("points", clause.Expr{SQL: "points + ?", Vars: []interface{}{delta}})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&userModel).Error
	})
	if err != nil {
		return nil, translate(err, "user")
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) SetProgress(ctx context.Context, id string, level int, badges []string) error {
	return r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"level":  level,
			"badges": datatypes.JSONSlice[string](nonNil(badges)),
		}).Error
}

func (r *userRepository) Count(ctx context.Context, activeOnly bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.UserModel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *userRepository) CreateSession(ctx context.Context, session *entity.Session) error {
	sessionModel := ToSessionModel(session)
	if err := r.db.WithContext(ctx).Create(sessionModel).Error; err != nil {
		return translate(err, "session")
	}
	*session = *ToSessionEntity(sessionModel)
	return nil
}

// RecordLogin appends the session and stamps lastLogin in one transaction.
func (r *userRepository) RecordLogin(ctx context.Context, session *entity.Session, at time.Time) error {
	sessionModel := ToSessionModel(session)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sessionModel).Error; err != nil {
			return err
		}
		return tx.Model(&model.UserModel{}).Where("id = ?", session.UserID).
			UpdateColumn("last_login", at).Error
	})
	if err != nil {
		return translate(err, "session")
	}
	*session = *ToSessionEntity(sessionModel)
	return nil
}

func (r *userRepository) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	var sessionModel model.SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&sessionModel).Error; err != nil {
		return nil, translate(err, "session")
	}
	return ToSessionEntity(&sessionModel), nil
}

func (r *userRepository) TouchSession(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.SessionModel{}).Where("id = ?", id).
		UpdateColumn("last_used_at", at).Error
}

func (r *userRepository) ListSessions(ctx context.Context, userID string) ([]*entity.Session, error) {
	var sessionModels []model.SessionModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions := make([]*entity.Session, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = ToSessionEntity(&sessionModels[i])
	}
	return sessions, nil
}

func (r *userRepository) DeleteSession(ctx context.Context, userID, sessionID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", sessionID, userID).
		Delete(&model.SessionModel{})
	return result.RowsAffected > 0, result.Error
}

// DeleteSessions revokes every session of the user except exceptID, which
// may be empty to revoke all of them.
func (r *userRepository) DeleteSessions(ctx context.Context, userID, exceptID string) (int64, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if exceptID != "" {
		query = query.Where("id <> ?", exceptID)
	}
	result := query.Delete(&model.SessionModel{})
	return result.RowsAffected, result.Error
}

func (r *userRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&model.SessionModel{})
	return result.RowsAffected, result.Error
}
