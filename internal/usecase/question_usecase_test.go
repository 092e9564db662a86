package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_CreateDefaultsAndToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "Admin", "admin@example.com").User

	_, err := f.questions.Today(ctx)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	question, err := f.questions.Create(ctx, admin.ID, QuestionInput{Question: "2+2 kaçtır?"})
	require.NoError(t, err)
	assert.Equal(t, time.Now().Format(entity.DateLayout), question.Date)
	assert.Equal(t, entity.DifficultyMedium, question.Difficulty)
	assert.Equal(t, entity.DefaultQuestionPoints, question.Points)
	assert.True(t, question.IsActive)

	today, err := f.questions.Today(ctx)
	require.NoError(t, err)
	assert.Equal(t, question.ID, today.ID)

	_, err = f.questions.Create(ctx, admin.ID, QuestionInput{Question: "Another"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	require.NoError(t, f.questions.Deactivate(ctx, question.ID))
	_, err = f.questions.Today(ctx)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = f.questions.Create(ctx, admin.ID, QuestionInput{Question: "Replacement"})
	assert.NoError(t, err)
}

func TestQuestion_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.questions.Create(ctx, "admin", QuestionInput{Question: "q", Points: 101})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.questions.Create(ctx, "admin", QuestionInput{Question: "q", Difficulty: "brutal"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.questions.Create(ctx, "admin", QuestionInput{Question: "q", Date: "15/10/2026"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestQuestion_AnswerAndAccept(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.register(t, "Admin", "admin@example.com").User
	student := f.register(t, "Cem", "cem@example.com").User

	question, err := f.questions.Create(ctx, admin.ID, QuestionInput{Question: "Türevin tanımı?", Points: 30, Date: "2026-01-02"})
	require.NoError(t, err)

	answer, err := f.questions.Answer(ctx, question.ID, student.ID, AnswerInput{Content: "Limit ile"})
	require.NoError(t, err)

	_, err = f.questions.Answer(ctx, question.ID, student.ID, AnswerInput{Content: "again"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	liked, err := f.questions.ToggleAnswerLike(ctx, question.ID, answer.ID, admin.ID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	liked, err = f.questions.ToggleLike(ctx, question.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, liked.Count)

	accepted, err := f.questions.AcceptAnswer(ctx, question.ID, answer.ID)
	require.NoError(t, err)
	require.Len(t, accepted.Answers, 1)
	assert.True(t, accepted.Answers[0].IsAccepted)
	assert.Equal(t, []string{admin.ID}, accepted.Answers[0].Likes)
	assert.Equal(t, []string{student.ID}, accepted.Likes)

	_, err = f.questions.AcceptAnswer(ctx, question.ID, answer.ID)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	stored, err := f.userRepo.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 30+15, stored.Points)
}

func TestQuestion_InactiveRejectsAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	question, err := f.questions.Create(ctx, "admin", QuestionInput{Question: "Eski soru", Date: "2025-05-05"})
	require.NoError(t, err)
	require.NoError(t, f.questions.Deactivate(ctx, question.ID))

	_, err = f.questions.Answer(ctx, question.ID, "student", AnswerInput{Content: "late"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestQuestion_ListNewestDateFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, date := range []string{"2026-03-01", "2026-03-03", "2026-03-02"} {
		_, err := f.questions.Create(ctx, "admin", QuestionInput{Question: "q " + date, Date: date})
		require.NoError(t, err)
	}

	questions, err := f.questions.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "2026-03-03", questions[0].Date)
	assert.Equal(t, "2026-03-01", questions[2].Date)

	_, err = f.questions.Update(ctx, questions[2].ID, QuestionInput{Question: "moved", Date: "2026-03-03"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}
