package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsFor(t *testing.T) {
	cases := []struct {
		activity entity.Activity
		want     int
	}{
		{entity.Activity{Type: entity.ActivityNoteCreated}, 10},
		{entity.Activity{Type: entity.ActivityNoteApproved}, 20},
		{entity.Activity{Type: entity.ActivityPostCreated}, 5},
		{entity.Activity{Type: entity.ActivityCommentCreated}, 2},
		{entity.Activity{Type: entity.ActivityQuestionAnswered, Points: 30}, 30},
		{entity.Activity{Type: entity.ActivityQuestionAnswered}, entity.DefaultQuestionPoints},
		{entity.Activity{Type: entity.ActivityAnswerAccepted}, 15},
		{entity.Activity{Type: "unknown"}, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PointsFor(tc.activity), string(tc.activity.Type))
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, 1, LevelFor(0))
	assert.Equal(t, 1, LevelFor(99))
	assert.Equal(t, 2, LevelFor(100))
	assert.Equal(t, 6, LevelFor(512))
	assert.Equal(t, 1, LevelFor(-5))
}

func TestGamification_LevelsAndBadges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.register(t, "Selin", "selin@example.com").User

	for i := 0; i < 5; i++ {
		_, err := f.gamification.Apply(ctx, entity.Activity{Type: entity.ActivityNoteApproved, UserID: user.ID})
		require.NoError(t, err)
	}
	stored, err := f.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Points)
	assert.Equal(t, 2, stored.Level)
	assert.Equal(t, []string{BadgeActiveMember}, stored.Badges)

	_, err = f.gamification.Apply(ctx, entity.Activity{Type: entity.ActivityQuestionAnswered, UserID: user.ID, Points: 100})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.gamification.Apply(ctx, entity.Activity{Type: entity.ActivityQuestionAnswered, UserID: user.ID, Points: 100})
		require.NoError(t, err)
	}
	stored, err = f.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 500, stored.Points)
	assert.Equal(t, 6, stored.Level)
	assert.Equal(t, []string{BadgeActiveMember, BadgeExpert}, stored.Badges)
}

func TestActivityHandler(t *testing.T) {
	f := newFixture(t)
	user := f.register(t, "Tuna", "tuna@example.com").User
	handler := ActivityHandler(f.gamification, f.logger)

	body, err := json.Marshal(entity.Activity{Type: entity.ActivityPostCreated, UserID: user.ID, OccurredAt: time.Now()})
	require.NoError(t, err)
	require.NoError(t, handler(body))

	stored, err := f.userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Points)

	err = handler([]byte("{not json"))
	assert.True(t, errors.Is(err, queue.ErrMalformed))

	assert.NoError(t, handler([]byte(`{"type":"post.created","user_id":"missing"}`)))
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, entity.Activity) error {
	return errors.New("broker unavailable")
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture(t)
	community := NewCommunityUseCase(
		persistent.NewCommunityRepository(f.db), persistent.NewLikeRepository(f.db), failingPublisher{}, f.validator, f.logger)
	author := f.register(t, "Umut", "umut@example.com").User

	post, err := community.CreatePost(context.Background(), author.ID, PostInput{
		Title:   "Sınav taktikleri",
		Content: "Paylaşalım",
		Type:    entity.PostTypeDiscussion,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)
}
