package persistent

import (
	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/model"

	"gorm.io/datatypes"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	privacy := m.Privacy.Data()
	user := &entity.User{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		Password:   m.Password,
		Role:       entity.UserRole(m.Role),
		Avatar:     m.Avatar,
		Department: m.Department,
		Year:       m.Year,
		Bio:        m.Bio,
		Interests:  nonNil(m.Interests),
		Privacy: entity.PrivacySettings{
			ShowEmail:    privacy.ShowEmail,
			ShowProfile:  privacy.ShowProfile,
			ShowActivity: privacy.ShowActivity,
		},
		Badges:    nonNil(m.Badges),
		Level:     m.Level,
		Points:    m.Points,
		IsActive:  m.IsActive,
		LastLogin: m.LastLogin,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if len(m.Sessions) > 0 {
		user.Sessions = make([]entity.Session, len(m.Sessions))
		for i := range m.Sessions {
			user.Sessions[i] = *ToSessionEntity(&m.Sessions[i])
		}
	}

	return user
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Password:   e.Password,
		Role:       string(e.Role),
		Avatar:     e.Avatar,
		Department: e.Department,
		Year:       e.Year,
		Bio:        e.Bio,
		Interests:  datatypes.JSONSlice[string](nonNil(e.Interests)),
		Privacy: datatypes.NewJSONType(model.PrivacyModel{
			ShowEmail:    e.Privacy.ShowEmail,
			ShowProfile:  e.Privacy.ShowProfile,
			ShowActivity: e.Privacy.ShowActivity,
		}),
		Badges:    datatypes.JSONSlice[string](nonNil(e.Badges)),
		Level:     e.Level,
		Points:    e.Points,
		IsActive:  e.IsActive,
		LastLogin: e.LastLogin,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToSessionEntity(m *model.SessionModel) *entity.Session {
	if m == nil {
		return nil
	}

	return &entity.Session{
		ID:         m.ID,
		UserID:     m.UserID,
		TokenHash:  m.TokenHash,
		Device:     m.Device,
		IP:         m.IP,
		CreatedAt:  m.CreatedAt,
		LastUsedAt: m.LastUsedAt,
		ExpiresAt:  m.ExpiresAt,
	}
}

func ToSessionModel(e *entity.Session) *model.SessionModel {
	if e == nil {
		return nil
	}

	return &model.SessionModel{
		ID:         e.ID,
		UserID:     e.UserID,
		TokenHash:  e.TokenHash,
		Device:     e.Device,
		IP:         e.IP,
		CreatedAt:  e.CreatedAt,
		LastUsedAt: e.LastUsedAt,
		ExpiresAt:  e.ExpiresAt,
	}
}

func ToNoteEntity(m *model.NoteModel) *entity.Note {
	if m == nil {
		return nil
	}

	note := &entity.Note{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Subject:     entity.Subject(m.Subject),
		Grade:       entity.Grade(m.Grade),
		Tags:        nonNil(m.Tags),
		FileURL:     m.FileURL,
		FileName:    m.FileName,
		FileSize:    m.FileSize,
		AuthorID:    m.AuthorID,
		Downloads:   m.Downloads,
		ViewCount:   m.ViewCount,
		RatingTotal: m.RatingTotal,
		RatingCount: m.RatingCount,
		IsApproved:  m.IsApproved,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	note.Rating = note.AverageRating()
	return note
}

func ToNoteModel(e *entity.Note) *model.NoteModel {
	if e == nil {
		return nil
	}

	return &model.NoteModel{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Subject:     string(e.Subject),
		Grade:       string(e.Grade),
		Tags:        datatypes.JSONSlice[string](nonNil(e.Tags)),
		FileURL:     e.FileURL,
		FileName:    e.FileName,
		FileSize:    e.FileSize,
		AuthorID:    e.AuthorID,
		Downloads:   e.Downloads,
		ViewCount:   e.ViewCount,
		RatingTotal: e.RatingTotal,
		RatingCount: e.RatingCount,
		IsApproved:  e.IsApproved,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToCategoryEntity(m *model.CategoryModel) *entity.Category {
	if m == nil {
		return nil
	}

	return &entity.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Subject:     entity.Subject(m.Subject),
		Grade:       entity.Grade(m.Grade),
		IsActive:    m.IsActive,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToCategoryModel(e *entity.Category) *model.CategoryModel {
	if e == nil {
		return nil
	}

	return &model.CategoryModel{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Subject:     string(e.Subject),
		Grade:       string(e.Grade),
		IsActive:    e.IsActive,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToPostEntity(m *model.CommunityPostModel) *entity.CommunityPost {
	if m == nil {
		return nil
	}

	post := &entity.CommunityPost{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Type:      entity.PostType(m.Type),
		Category:  m.Category,
		Tags:      nonNil(m.Tags),
		AuthorID:  m.AuthorID,
		Likes:     []string{},
		Comments:  make([]entity.Comment, len(m.Comments)),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	for i := range m.Comments {
		post.Comments[i] = *ToCommentEntity(&m.Comments[i])
	}
	return post
}

func ToPostModel(e *entity.CommunityPost) *model.CommunityPostModel {
	if e == nil {
		return nil
	}

	return &model.CommunityPostModel{
		ID:        e.ID,
		Title:     e.Title,
		Content:   e.Content,
		Type:      string(e.Type),
		Category:  e.Category,
		Tags:      datatypes.JSONSlice[string](nonNil(e.Tags)),
		AuthorID:  e.AuthorID,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToCommentEntity(m *model.CommentModel) *entity.Comment {
	if m == nil {
		return nil
	}

	return &entity.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		AuthorID:  m.AuthorID,
		Content:   m.Content,
		Likes:     []string{},
		CreatedAt: m.CreatedAt,
	}
}

func ToCommentModel(e *entity.Comment) *model.CommentModel {
	if e == nil {
		return nil
	}

	return &model.CommentModel{
		ID:        e.ID,
		PostID:    e.PostID,
		AuthorID:  e.AuthorID,
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}

func ToQuestionEntity(m *model.DailyQuestionModel) *entity.DailyQuestion {
	if m == nil {
		return nil
	}

	question := &entity.DailyQuestion{
		ID:          m.ID,
		Question:    m.Question,
		Description: m.Description,
		Category:    m.Category,
		Difficulty:  entity.Difficulty(m.Difficulty),
		Points:      m.Points,
		Answers:     make([]entity.Answer, len(m.Answers)),
		Likes:       []string{},
		IsActive:    m.IsActive,
		Date:        m.Date,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for i := range m.Answers {
		question.Answers[i] = *ToAnswerEntity(&m.Answers[i])
	}
	return question
}

func ToQuestionModel(e *entity.DailyQuestion) *model.DailyQuestionModel {
	if e == nil {
		return nil
	}

	return &model.DailyQuestionModel{
		ID:          e.ID,
		Question:    e.Question,
		Description: e.Description,
		Category:    e.Category,
		Difficulty:  string(e.Difficulty),
		Points:      e.Points,
		IsActive:    e.IsActive,
		Date:        e.Date,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToAnswerEntity(m *model.AnswerModel) *entity.Answer {
	if m == nil {
		return nil
	}

	return &entity.Answer{
		ID:         m.ID,
		QuestionID: m.QuestionID,
		AuthorID:   m.AuthorID,
		Content:    m.Content,
		Likes:      []string{},
		IsAccepted: m.IsAccepted,
		CreatedAt:  m.CreatedAt,
	}
}

func ToAnswerModel(e *entity.Answer) *model.AnswerModel {
	if e == nil {
		return nil
	}

	return &model.AnswerModel{
		ID:         e.ID,
		QuestionID: e.QuestionID,
		AuthorID:   e.AuthorID,
		Content:    e.Content,
		IsAccepted: e.IsAccepted,
		CreatedAt:  e.CreatedAt,
	}
}

func ToUploadEntity(m *model.UploadModel) *entity.Upload {
	if m == nil {
		return nil
	}

	return &entity.Upload{
		ID:           m.ID,
		Kind:         entity.UploadKind(m.Kind),
		StoredName:   m.StoredName,
		URL:          m.URL,
		OriginalName: m.OriginalName,
		Size:         m.Size,
		MimeType:     m.MimeType,
		UploaderID:   m.UploaderID,
		ClaimedBy:    m.ClaimedBy,
		ExpiresAt:    m.ExpiresAt,
		CreatedAt:    m.CreatedAt,
	}
}

func ToUploadModel(e *entity.Upload) *model.UploadModel {
	if e == nil {
		return nil
	}

	return &model.UploadModel{
		ID:           e.ID,
		Kind:         string(e.Kind),
		StoredName:   e.StoredName,
		URL:          e.URL,
		OriginalName: e.OriginalName,
		Size:         e.Size,
		MimeType:     e.MimeType,
		UploaderID:   e.UploaderID,
		ClaimedBy:    e.ClaimedBy,
		ExpiresAt:    e.ExpiresAt,
		CreatedAt:    e.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
