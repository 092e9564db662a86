package persistent

import (
	"context"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/model"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, question *entity.DailyQuestion) error
	GetByID(ctx context.Context, id string) (*entity.DailyQuestion, error)
	GetActiveByDate(ctx context.Context, date string) (*entity.DailyQuestion, error)
	List(ctx context.Context, limit, offset int) ([]*entity.DailyQuestion, error)
	Update(ctx context.Context, question *entity.DailyQuestion) error
	CreateAnswer(ctx context.Context, answer *entity.Answer) error
	GetAnswer(ctx context.Context, questionID, answerID string) (*entity.Answer, error)
	AcceptAnswer(ctx context.Context, questionID, answerID string) error
	Count(ctx context.Context) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func preloadAnswers(db *gorm.DB) *gorm.DB {
	return db.Order("question_answers.created_at ASC, question_answers.id ASC")
}

func (r *questionRepository) Create(ctx context.Context, question *entity.DailyQuestion) error {
	questionModel := ToQuestionModel(question)
	if err := r.db.WithContext(ctx).Omit("Answers").Create(questionModel).Error; err != nil {
		return translate(err, "question")
	}
	*question = *ToQuestionEntity(questionModel)
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*entity.DailyQuestion, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *questionRepository) GetActiveByDate(ctx context.Context, date string) (*entity.DailyQuestion, error) {
	return r.first(ctx, "date = ? AND is_active = ?", date, true)
}

func (r *questionRepository) first(ctx context.Context, where string, args ...interface{}) (*entity.DailyQuestion, error) {
	var questionModel model.DailyQuestionModel
	db := r.db.WithContext(ctx)
	if err := db.Preload("Answers", preloadAnswers).Where(where, args...).
		Order("created_at DESC").First(&questionModel).Error; err != nil {
		return nil, translate(err, "question")
	}

	questions := []*entity.DailyQuestion{ToQuestionEntity(&questionModel)}
	if err := attachQuestionLikes(db, questions); err != nil {
		return nil, err
	}
	return questions[0], nil
}

func (r *questionRepository) List(ctx context.Context, limit, offset int) ([]*entity.DailyQuestion, error) {
	var questionModels []model.DailyQuestionModel
	db := r.db.WithContext(ctx)
	query := db.Preload("Answers", preloadAnswers).Order("date DESC, created_at DESC, id DESC")
	if err := paginate(query, limit, offset).Find(&questionModels).Error; err != nil {
		return nil, err
	}

	questions := make([]*entity.DailyQuestion, len(questionModels))
	for i := range questionModels {
		questions[i] = ToQuestionEntity(&questionModels[i])
	}
	if err := attachQuestionLikes(db, questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func attachQuestionLikes(db *gorm.DB, questions []*entity.DailyQuestion) error {
	questionIDs := make([]string, 0, len(questions))
	var answerIDs []string
	for _, question := range questions {
		questionIDs = append(questionIDs, question.ID)
		for _, answer := range question.Answers {
			answerIDs = append(answerIDs, answer.ID)
		}
	}

	questionLikes, err := likeUserIDs(db, entity.LikeTargetQuestion, questionIDs)
	if err != nil {
		return err
	}
	answerLikes, err := likeUserIDs(db, entity.LikeTargetAnswer, answerIDs)
	if err != nil {
		return err
	}

	for _, question := range questions {
		if likes, ok := questionLikes[question.ID]; ok {
			question.Likes = likes
		}
		for i := range question.Answers {
			if likes, ok := answerLikes[question.Answers[i].ID]; ok {
				question.Answers[i].Likes = likes
			}
		}
	}
	return nil
}

func (r *questionRepository) Update(ctx context.Context, question *entity.DailyQuestion) error {
	questionModel := ToQuestionModel(question)
	result := r.db.WithContext(ctx).Model(&model.DailyQuestionModel{}).Where("id = ?", question.ID).
		Updates(map[string]interface{}{
			"question":    questionModel.Question,
			"description": questionModel.Description,
			"category":    questionModel.Category,
			"difficulty":  questionModel.Difficulty,
			"points":      questionModel.Points,
			"is_active":   questionModel.IsActive,
			"date":        questionModel.Date,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("question")
	}
	return nil
}

func (r *questionRepository) CreateAnswer(ctx context.Context, answer *entity.Answer) error {
	answerModel := ToAnswerModel(answer)
	if err := r.db.WithContext(ctx).Create(answerModel).Error; err != nil {
		if translated := translate(err, "answer"); apperror.Is(translated, apperror.KindConflict) {
			return apperror.Conflict("you have already answered this question")
		}
		return err
	}
	*answer = *ToAnswerEntity(answerModel)
	return nil
}

func (r *questionRepository) GetAnswer(ctx context.Context, questionID, answerID string) (*entity.Answer, error) {
	var answerModel model.AnswerModel
	if err := r.db.WithContext(ctx).Where("id = ? AND question_id = ?", answerID, questionID).
		First(&answerModel).Error; err != nil {
		return nil, translate(err, "answer")
	}
	return ToAnswerEntity(&answerModel), nil
}

// AcceptAnswer marks one answer accepted. A question holds at most one
// accepted answer, so a second acceptance is a conflict.
func (r *questionRepository) AcceptAnswer(ctx context.Context, questionID, answerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var accepted int64
		if err := tx.Model(&model.AnswerModel{}).
			Where("question_id = ? AND is_accepted = ?", questionID, true).
			Count(&accepted).Error; err != nil {
			return err
		}
		if accepted > 0 {
			return apperror.Conflict("question already has an accepted answer")
		}

		result := tx.Model(&model.AnswerModel{}).
			Where("id = ? AND question_id = ?", answerID, questionID).
			Update("is_accepted", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperror.NotFound("answer")
		}
		return nil
	})
}

func (r *questionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.DailyQuestionModel{}).Count(&count).Error
	return count, err
}
