package usecase

import (
	"context"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/internal/repo/persistent"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
)

const (
	BadgeFirstNote    = "first_note"
	BadgeActiveMember = "active_member"
	BadgeExpert       = "expert"

	pointsPerLevel = 100
)

var activityPoints = map[entity.ActivityType]int{
	entity.ActivityNoteCreated:    10,
	entity.ActivityNoteApproved:   20,
	entity.ActivityPostCreated:    5,
	entity.ActivityCommentCreated: 2,
	entity.ActivityAnswerAccepted: 15,
}

type GamificationUseCase interface {
	Apply(ctx context.Context, activity entity.Activity) (*entity.User, error)
}

type gamificationUseCase struct {
	userRepo persistent.UserRepository
	logger   *logger.Logger
}

func NewGamificationUseCase(userRepo persistent.UserRepository, logger *logger.Logger) GamificationUseCase {
	return &gamificationUseCase{
		userRepo: userRepo,
		logger:   logger,
	}
}

// PointsFor returns the award for an event. Answers carry the question's
// own point value.
func PointsFor(activity entity.Activity) int {
	if activity.Type == entity.ActivityQuestionAnswered {
		if activity.Points > 0 {
			return activity.Points
		}
		return entity.DefaultQuestionPoints
	}
	return activityPoints[activity.Type]
}

func LevelFor(points int) int {
	if points < 0 {
		return 1
	}
	return points/pointsPerLevel + 1
}

func (uc *gamificationUseCase) Apply(ctx context.Context, activity entity.Activity) (*entity.User, error) {
	points := PointsFor(activity)
	if points == 0 {
		return uc.userRepo.GetByID(ctx, activity.UserID)
	}

	user, err := uc.userRepo.AddPoints(ctx, activity.UserID, points)
	if err != nil {
		return nil, err
	}

	level := LevelFor(user.Points)
	badges := earnedBadges(user, activity)
	if level != user.Level || len(badges) != len(user.Badges) {
		if err := uc.userRepo.SetProgress(ctx, user.ID, level, badges); err != nil {
			return nil, err
		}
		user.Level = level
		user.Badges = badges
	}

	uc.logger.Info("Awarded %d points to user %s for %s", points, user.ID, activity.Type)
	return user, nil
}

func earnedBadges(user *entity.User, activity entity.Activity) []string {
	badges := append([]string{}, user.Badges...)
	add := func(badge string) {
		for _, b := range badges {
			if b == badge {
				return
			}
		}
		badges = append(badges, badge)
	}

	if activity.Type == entity.ActivityNoteCreated {
		add(BadgeFirstNote)
	}
	if user.Points >= 100 {
		add(BadgeActiveMember)
	}
	if user.Points >= 500 {
		add(BadgeExpert)
	}
	return badges
}
