package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jascfer/allonetoplulugu-sub001/internal/entity"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/apperror"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/logger"
	"github.com/Jascfer/allonetoplulugu-sub001/pkg/queue"
)

// ActivityPublisher hands gamification events to whatever applies them.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity entity.Activity) error
}

// SyncPublisher applies events in the caller's goroutine. It is used when no
// broker is configured.
type SyncPublisher struct {
	gamification GamificationUseCase
}

func NewSyncPublisher(gamification GamificationUseCase) *SyncPublisher {
	return &SyncPublisher{gamification: gamification}
}

func (p *SyncPublisher) Publish(ctx context.Context, activity entity.Activity) error {
	_, err := p.gamification.Apply(ctx, activity)
	return err
}

// QueuePublisher sends events to the activity exchange; the activity worker
// applies them.
type QueuePublisher struct {
	client *queue.Client
}

func NewQueuePublisher(client *queue.Client) *QueuePublisher {
	return &QueuePublisher{client: client}
}

func (p *QueuePublisher) Publish(ctx context.Context, activity entity.Activity) error {
	return p.client.Publish(ctx, activity)
}

// ActivityHandler decodes queued events and applies them. Undecodable bodies
// are reported as queue.ErrMalformed so they are dropped, not requeued, and
// events for users that no longer exist are acknowledged and discarded.
func ActivityHandler(gamification GamificationUseCase, log *logger.Logger) func(body []byte) error {
	return func(body []byte) error {
		var activity entity.Activity
		if err := json.Unmarshal(body, &activity); err != nil || activity.UserID == "" || activity.Type == "" {
			log.Warn("Dropping malformed activity message: %s", string(body))
			return fmt.Errorf("decode activity: %w", queue.ErrMalformed)
		}
		if _, err := gamification.Apply(context.Background(), activity); err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				log.Warn("Dropping %s activity for unknown user %s", activity.Type, activity.UserID)
				return nil
			}
			return err
		}
		return nil
	}
}

// publishActivity never fails the write that produced the event; a lost
// award is logged instead.
func publishActivity(ctx context.Context, publisher ActivityPublisher, log *logger.Logger, activity entity.Activity) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, activity); err != nil {
		log.Warn("Failed to publish %s activity for user %s: %v", activity.Type, activity.UserID, err)
	}
}
