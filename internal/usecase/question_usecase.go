package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/validation"
)

type QuestionInput struct {
	Question    string            `json:"question" validate:"required,max=500"`
	Description string            `json:"description" validate:"max=2000"`
	Category    string            `json:"category" validate:"max=100"`
	Difficulty  entity.Difficulty `json:"difficulty" validate:"difficulty"`
	Points      int               `json:"points" validate:"min=0,max=100"`
	Date        string            `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type AnswerInput struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type QuestionUseCase interface {
	Today(ctx context.Context) (*entity.DailyQuestion, error)
	List(ctx context.Context, limit, offset int) ([]*entity.DailyQuestion, error)
	Get(ctx context.Context, id string) (*entity.DailyQuestion, error)
	Create(ctx context.Context, creatorID string, in QuestionInput) (*entity.DailyQuestion, error)
	Update(ctx context.Context, id string, in QuestionInput) (*entity.DailyQuestion, error)
	Deactivate(ctx context.Context, id string) error
	Answer(ctx context.Context, questionID, authorID string, in AnswerInput) (*entity.Answer, error)
	ToggleLike(ctx context.Context, questionID, userID string) (*LikeResult, error)
	ToggleAnswerLike(ctx context.Context, questionID, answerID, userID string) (*LikeResult, error)
	AcceptAnswer(ctx context.Context, questionID, answerID string) (*entity.DailyQuestion, error)
}

type questionUseCase struct {
	questionRepo persistent.QuestionRepository
	likeRepo     persistent.LikeRepository
	publisher    ActivityPublisher
	validator    *validation.Validator
	logger       *logger.Logger
	now          func() time.Time
}

func NewQuestionUseCase(
	questionRepo persistent.QuestionRepository,
	likeRepo persistent.LikeRepository,
	publisher ActivityPublisher,
	validator *validation.Validator,
	logger *logger.Logger,
) QuestionUseCase {
	return &questionUseCase{
		questionRepo: questionRepo,
		likeRepo:     likeRepo,
		publisher:    publisher,
		validator:    validator,
		logger:       logger,
		now:          time.Now,
	}
}

func (uc *questionUseCase) today() string {
	return uc.now().Format(entity.DateLayout)
}

func (uc *questionUseCase) Today(ctx context.Context) (*entity.DailyQuestion, error) {
	return uc.questionRepo.GetActiveByDate(ctx, uc.today())
}

func (uc *questionUseCase) List(ctx context.Context, limit, offset int) ([]*entity.DailyQuestion, error) {
	return uc.questionRepo.List(ctx, limit, offset)
}

func (uc *questionUseCase) Get(ctx context.Context, id string) (*entity.DailyQuestion, error) {
	return uc.questionRepo.GetByID(ctx, id)
}

func (uc *questionUseCase) normalize(in QuestionInput) QuestionInput {
	in.Question = strings.TrimSpace(in.Question)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Date = strings.TrimSpace(in.Date)
	if in.Difficulty == "" {
		in.Difficulty = entity.DifficultyMedium
	}
	if in.Points == 0 {
		in.Points = entity.DefaultQuestionPoints
	}
	if in.Date == "" {
		in.Date = uc.today()
	}
	return in
}

// ensureDateFree enforces one active question per calendar day.
func (uc *questionUseCase) ensureDateFree(ctx context.Context, date, exceptID string) error {
	existing, err := uc.questionRepo.GetActiveByDate(ctx, date)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == exceptID {
		return nil
	}
	return apperror.Conflict("an active question already exists for " + date)
}

func (uc *questionUseCase) Create(ctx context.Context, creatorID string, in QuestionInput) (*entity.DailyQuestion, error) {
	in = uc.normalize(in)
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := uc.ensureDateFree(ctx, in.Date, ""); err != nil {
		return nil, err
	}

	now := uc.now()
	question := &entity.DailyQuestion{
		Question:    in.Question,
		Description: in.Description,
		Category:    in.Category,
		Difficulty:  in.Difficulty,
		Points:      in.Points,
		IsActive:    true,
		Date:        in.Date,
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}

	uc.logger.Info("Daily question created for %s: %s", question.Date, question.ID)
	return question, nil
}

func (uc *questionUseCase) Update(ctx context.Context, id string, in QuestionInput) (*entity.DailyQuestion, error) {
	question, err := uc.questionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in = uc.normalize(in)
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}
	if question.IsActive && in.Date != question.Date {
		if err := uc.ensureDateFree(ctx, in.Date, id); err != nil {
			return nil, err
		}
	}

	question.Question = in.Question
	question.Description = in.Description
	question.Category = in.Category
	question.Difficulty = in.Difficulty
	question.Points = in.Points
	question.Date = in.Date
	if err := uc.questionRepo.Update(ctx, question); err != nil {
		return nil, err
	}
	return uc.questionRepo.GetByID(ctx, id)
}

func (uc *questionUseCase) Deactivate(ctx context.Context, id string) error {
	question, err := uc.questionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	question.IsActive = false
	return uc.questionRepo.Update(ctx, question)
}

func (uc *questionUseCase) Answer(ctx context.Context, questionID, authorID string, in AnswerInput) (*entity.Answer, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := uc.validator.Struct(in); err != nil {
		return nil, err
	}

	question, err := uc.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !question.IsActive {
		return nil, apperror.Validation("question is no longer accepting answers")
	}

	now := uc.now()
	answer := &entity.Answer{
		QuestionID: questionID,
		AuthorID:   authorID,
		Content:    in.Content,
		CreatedAt:  now,
	}
	if err := uc.questionRepo.CreateAnswer(ctx, answer); err != nil {
		return nil, err
	}

	publishActivity(ctx, uc.publisher, uc.logger, entity.Activity{
		Type:       entity.ActivityQuestionAnswered,
		UserID:     authorID,
		ResourceID: questionID,
		Points:     question.Points,
		OccurredAt: now,
	})
	return answer, nil
}

func (uc *questionUseCase) ToggleLike(ctx context.Context, questionID, userID string) (*LikeResult, error) {
	if _, err := uc.questionRepo.GetByID(ctx, questionID); err != nil {
		return nil, err
	}
	return toggleLike(ctx, uc.likeRepo, entity.LikeTargetQuestion, questionID, userID)
}

func (uc *questionUseCase) ToggleAnswerLike(ctx context.Context, questionID, answerID, userID string) (*LikeResult, error) {
	if _, err := uc.questionRepo.GetAnswer(ctx, questionID, answerID); err != nil {
		return nil, err
	}
	return toggleLike(ctx, uc.likeRepo, entity.LikeTargetAnswer, answerID, userID)
}

func (uc *questionUseCase) AcceptAnswer(ctx context.Context, questionID, answerID string) (*entity.DailyQuestion, error) {
	answer, err := uc.questionRepo.GetAnswer(ctx, questionID, answerID)
	if err != nil {
		return nil, err
	}
	if err := uc.questionRepo.AcceptAnswer(ctx, questionID, answerID); err != nil {
		return nil, err
	}

	publishActivity(ctx, uc.publisher, uc.logger, entity.Activity{
		Type:       entity.ActivityAnswerAccepted,
		UserID:     answer.AuthorID,
		ResourceID: answerID,
		OccurredAt: uc.now(),
	})
	return uc.questionRepo.GetByID(ctx, questionID)
}
