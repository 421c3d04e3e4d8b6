package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"discord-strada/internal/model"
	"discord-strada/internal/repository"
)

// activityNamespace seeds deterministic idempotency keys so redelivered
// webhooks collapse onto one row in the store.
var activityNamespace = uuid.MustParse("7d3b7b46-9a41-4d0e-8f2f-47b25e5d9a11")

// ActivityService validates inbound activity webhooks and hands them to
// the batch worker.
type ActivityService interface {
	BuildActivity(req model.ActivityRequest) (model.Activity, error)
	ProcessActivity(ctx context.Context, activity model.Activity) (model.ActivityResult, error)
}

type activityService struct {
	repo            repository.ActivityRepository
	worker          ActivityWorker
	now             func() time.Time
	futureTolerance time.Duration
}

// NewActivityService constructs an activityService.
func NewActivityService(repo repository.ActivityRepository, worker ActivityWorker, futureTolerance time.Duration) ActivityService {
	return &activityService{
		repo:            repo,
		worker:          worker,
		now:             time.Now,
		futureTolerance: futureTolerance,
	}
}

// BuildActivity validates and constructs an Activity from an incoming
// webhook payload.
func (s *activityService) BuildActivity(req model.ActivityRequest) (model.Activity, error) {
	if req.ActivityID == "" {
		return model.Activity{}, model.NewUserError("activity_id is required")
	}
	if req.TeamID == "" {
		return model.Activity{}, model.NewUserError("team_id is required")
	}
	if req.UserID == "" {
		return model.Activity{}, model.NewUserError("user_id is required")
	}
	if req.ChannelID == "" {
		return model.Activity{}, model.NewUserError("channel_id is required")
	}
	if req.Type == "" {
		return model.Activity{}, model.NewUserError("type is required")
	}
	if req.StartDate == 0 {
		return model.Activity{}, model.NewUserError("start_date is required")
	}

	start := time.Unix(req.StartDate, 0).UTC()
	if s.futureTolerance > 0 && start.After(s.now().Add(s.futureTolerance)) {
		return model.Activity{}, model.NewUserError("start_date cannot be in the future")
	}

	key := uuid.NewSHA1(activityNamespace, []byte(fmt.Sprintf("%s/%s", req.TeamID, req.ActivityID))).String()

	return model.Activity{
		IdempotencyKey:     key,
		ActivityID:         req.ActivityID,
		TeamID:             req.TeamID,
		UserID:             req.UserID,
		ChannelID:          req.ChannelID,
		Type:               req.Type,
		Name:               req.Name,
		Distance:           req.Distance,
		MovingTime:         req.MovingTime,
		ElapsedTime:        req.ElapsedTime,
		TotalElevationGain: req.TotalElevationGain,
		PRCount:            req.PRCount,
		Calories:           req.Calories,
		Private:            req.Private,
		Visibility:         req.Visibility,
		StartDate:          start,
	}, nil
}

// ProcessActivity enqueues a validated activity for batched insertion.
func (s *activityService) ProcessActivity(ctx context.Context, activity model.Activity) (model.ActivityResult, error) {
	s.worker.Enqueue(activity)
	return model.ActivityResult{Status: "accepted"}, nil
}
