package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/omarshaarawi/ffdash/internal/models"
)

// sessionID is the session the scheduled refreshes are counted against.
const sessionID = "scheduler"

// Service is satisfied by *service.DashboardService.
type Service interface {
	Refresh(ctx context.Context, sessionID string) (models.Session, error)
	Tables(ctx context.Context) (*models.LeagueTables, error)
	Digest(ctx context.Context) (string, error)
}

type Scheduler struct {
	s           gocron.Scheduler
	svc         Service
	sendMessage func(string) error
	timeout     time.Duration
}

// NewScheduler builds the weekly jobs in the named location. sendMessage may
// be nil, in which case the digest is only logged.
func NewScheduler(svc Service, locationName string, sendMessage func(string) error) (*Scheduler, error) {
	location, err := time.LoadLocation(locationName)
	if err != nil {
		slog.Error("Failed to load location, falling back to UTC", "location", locationName, "error", err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		svc:         svc,
		sendMessage: sendMessage,
		timeout:     2 * time.Minute,
	}, nil
}

func (s *Scheduler) Start() error {
	var err error

	// Weekly refresh and digest - Tuesday 7:00, after Monday night settles
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Tuesday), gocron.NewAtTimes(gocron.NewAtTime(7, 0, 0))),
		gocron.NewTask(s.refreshAndDigest),
		gocron.WithName("weekly-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create weekly refresh job: %w", err)
	}

	// Thursday night scores - Friday 7:00
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Friday), gocron.NewAtTimes(gocron.NewAtTime(7, 0, 0))),
		gocron.NewTask(s.refresh),
		gocron.WithName("thursday-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create thursday refresh job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// refresh invalidates the cache and warms it so the first visitor after the
// job does not pay for the full season fetch.
func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.refreshCtx(ctx); err != nil {
		slog.Error("Scheduled refresh failed", "error", err)
	}
}

func (s *Scheduler) refreshCtx(ctx context.Context) error {
	sess, err := s.svc.Refresh(ctx, sessionID)
	if err != nil {
		return err
	}
	tables, err := s.svc.Tables(ctx)
	if err != nil {
		return err
	}
	slog.Info("Scheduled refresh complete", "epoch", sess.Epoch, "team_rows", len(tables.Teams))
	return nil
}

func (s *Scheduler) refreshAndDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.refreshCtx(ctx); err != nil {
		slog.Error("Scheduled refresh failed", "error", err)
		return
	}

	digest, err := s.svc.Digest(ctx)
	if err != nil {
		slog.Error("Failed to build digest", "error", err)
		return
	}
	if s.sendMessage == nil {
		slog.Info("Weekly digest", "text", digest)
		return
	}
	if err := s.sendMessage(digest); err != nil {
		slog.Error("Failed to send digest", "error", err)
	}
}
