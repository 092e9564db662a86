package persistent

import (
	"context"
	"errors"
	"strings"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/model"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	GetByID(ctx context.Context, id string) (*entity.Note, error)
	List(ctx context.Context, filter entity.NoteFilter) ([]*entity.Note, error)
	Update(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, id string) error
	SetApproved(ctx context.Context, id string, approved bool) (*entity.Note, error)
	IncrementDownloads(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	Rate(ctx context.Context, noteID, userID string, value int) (*entity.Note, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	Count(ctx context.Context, approved *bool) (int64, error)
	SumDownloads(ctx context.Context) (int64, error)
}

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *entity.Note) error {
	noteModel := ToNoteModel(note)
	if err := r.db.WithContext(ctx).Create(noteModel).Error; err != nil {
		return translate(err, "note")
	}
	*note = *ToNoteEntity(noteModel)
	return nil
}

func (r *noteRepository) GetByID(ctx context.Context, id string) (*entity.Note, error) {
	var noteModel model.NoteModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&noteModel).Error; err != nil {
		return nil, translate(err, "note")
	}
	return ToNoteEntity(&noteModel), nil
}

// List returns notes newest first. The id tiebreak keeps the order strict
// when two notes share a creation timestamp.
func (r *noteRepository) List(ctx context.Context, filter entity.NoteFilter) ([]*entity.Note, error) {
	var noteModels []model.NoteModel
	query := r.db.WithContext(ctx).Order("created_at DESC, id DESC")

	if filter.Subject != "" {
		query = query.Where("subject = ?", string(filter.Subject))
	}
	if filter.Grade != "" {
		query = query.Where("grade = ?", string(filter.Grade))
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Approved != nil {
		query = query.Where("is_approved = ?", *filter.Approved)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	if err := paginate(query, filter.Limit, filter.Offset).Find(&noteModels).Error; err != nil {
		return nil, err
	}

	notes := make([]*entity.Note, len(noteModels))
	for i := range noteModels {
		notes[i] = ToNoteEntity(&noteModels[i])
	}
	return notes, nil
}

// Update writes the editable metadata with the caller's updatedAt. Counters
// and the approval flag are only changed through their own atomic methods.
func (r *noteRepository) Update(ctx context.Context, note *entity.Note) error {
	noteModel := ToNoteModel(note)
	result := r.db.WithContext(ctx).Model(&model.NoteModel{}).Where("id = ?", note.ID).
		Updates(map[string]interface{}{
			"title":       noteModel.Title,
			"description": noteModel.Description,
			"subject":     noteModel.Subject,
			"grade":       noteModel.Grade,
			"tags":        noteModel.Tags,
			"file_url":    noteModel.FileURL,
			"file_name":   noteModel.FileName,
			"file_size":   noteModel.FileSize,
			"updated_at":  noteModel.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("note")
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", id).Delete(&model.NoteRatingModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.NoteModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("note")
		}
		return nil
	})
}

func (r *noteRepository) SetApproved(ctx context.Context, id string, approved bool) (*entity.Note, error) {
	var noteModel model.NoteModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&noteModel).Error; err != nil {
			return err
		}
		noteModel.IsApproved = approved
		return tx.Model(&noteModel).Update("is_approved", approved).Error
	})
	if err != nil {
		return nil, translate(err, "note")
	}
	return ToNoteEntity(&noteModel), nil
}

func (r *noteRepository) IncrementDownloads(ctx context.Context, id string) error {
	return r.increment(ctx, id, "downloads")
}

func (r *noteRepository) IncrementViews(ctx context.Context, id string) error {
	return r.increment(ctx, id, "view_count")
}

func (r *noteRepository) increment(ctx context.Context, id, column string) error {
	result := r.db.WithContext(ctx).Model(&model.NoteModel{}).Where("id = ?", id).
		UpdateColumn(column, clause.Expr{SQL: column + " + ?", Vars: []interface{}{1}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("note")
	}
	return nil
}

// Rate records the user's rating and folds it into the note accumulator. A
// repeat rating replaces the earlier value instead of counting twice.
func (r *noteRepository) Rate(ctx context.Context, noteID, userID string, value int) (*entity.Note, error) {
	var noteModel model.NoteModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Where("id = ?", noteID).First(&model.NoteModel{}).Error; err != nil {
			return err
		}

		var existing model.NoteRatingModel
		err := tx.Where("note_id = ? AND user_id = ?", noteID, userID).First(&existing).Error
		switch {
		case err == nil:
			delta := value - existing.Value
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.NoteModel{}).Where("id = ?", noteID).
				UpdateColumn("rating_total", clause.Expr{SQL: "rating_total + ?", Vars: []interface{}{delta}}).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&model.NoteRatingModel{NoteID: noteID, UserID: userID, Value: value}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.NoteModel{}).Where("id = ?", noteID).
				UpdateColumns(map[string]interface{}{
					"rating_total": clause.Expr{SQL: "rating_total + ?", Vars: []interface{}{value}},
					"rating_count": clause.Expr{SQL: "rating_count + ?", Vars: []interface{}{1}},
				}).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Where("id = ?", noteID).First(&noteModel).Error
	})
	if err != nil {
		return nil, translate(err, "note")
	}
	return ToNoteEntity(&noteModel), nil
}

func (r *noteRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.NoteModel{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *noteRepository) Count(ctx context.Context, approved *bool) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.NoteModel{})
	if approved != nil {
		query = query.Where("is_approved = ?", *approved)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *noteRepository) SumDownloads(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.NoteModel{}).
		Select("COALESCE(SUM(downloads), 0)").Scan(&total).Error
	return total, err
}
