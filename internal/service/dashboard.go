package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/omarshaarawi/ffdash/internal/flatten"
	"github.com/omarshaarawi/ffdash/internal/models"
	"github.com/omarshaarawi/ffdash/internal/present"
)

var ErrInvalidSelection = errors.New("invalid selection")

// Fetcher is satisfied by *fantasy.API.
type Fetcher interface {
	FetchSeason(ctx context.Context) ([]models.WeekBoxScores, error)
	TotalWeeks() int
}

// TableStore holds the tables built for each cache epoch. A refresh bumps the
// epoch; tables are never patched in place.
type TableStore interface {
	Epoch(ctx context.Context) (uint64, error)
	BumpEpoch(ctx context.Context) (uint64, error)
	GetTables(ctx context.Context, epoch uint64) (*models.LeagueTables, bool, error)
	SaveTables(ctx context.Context, epoch uint64, tables *models.LeagueTables) error
}

type SessionStore interface {
	GetSession(id string) (models.Session, bool)
	SaveSession(s models.Session)
}

type DashboardService struct {
	api      Fetcher
	store    TableStore
	sessions SessionStore
	validate *validator.Validate
	flight   singleflight.Group
	now      func() time.Time

	loadTimeout time.Duration
}

// DefaultLoadTimeout bounds one full season fetch.
const DefaultLoadTimeout = 2 * time.Minute

func NewDashboardService(api Fetcher, store TableStore, sessions SessionStore) *DashboardService {
	return &DashboardService{
		api:      api,
		store:    store,
		sessions: sessions,
		validate: validator.New(),
		now:      time.Now,

		loadTimeout: DefaultLoadTimeout,
	}
}

func (s *DashboardService) TotalWeeks() int {
	return s.api.TotalWeeks()
}

// Tables returns the tables of the current epoch, fetching and flattening the
// whole season on a miss. Concurrent misses share one load.
func (s *DashboardService) Tables(ctx context.Context) (*models.LeagueTables, error) {
	epoch, err := s.store.Epoch(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading cache epoch: %w", err)
	}

	if tables, ok, err := s.store.GetTables(ctx, epoch); err != nil {
		slog.Warn("Failed to read cached tables", "epoch", epoch, "error", err)
	} else if ok {
		return tables, nil
	}

	ch := s.flight.DoChan(strconv.FormatUint(epoch, 10), func() (any, error) {
		// The load is shared, so it must outlive the caller that started it.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		if tables, ok, err := s.store.GetTables(loadCtx, epoch); err == nil && ok {
			return tables, nil
		}

		start := s.now()
		weeks, err := s.api.FetchSeason(loadCtx)
		if err != nil {
			return nil, fmt.Errorf("error fetching season: %w", err)
		}
		tables := flatten.Build(weeks, epoch, s.now())
		slog.Info("Loaded league tables",
			"epoch", epoch,
			"team_rows", len(tables.Teams),
			"player_rows", len(tables.Players),
			"duration", s.now().Sub(start))

		if err := s.store.SaveTables(loadCtx, epoch, tables); err != nil {
			slog.Warn("Failed to cache tables", "epoch", epoch, "error", err)
		}
		return tables, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.LeagueTables), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Session returns the stored session for id, or a fresh one.
func (s *DashboardService) Session(id string) models.Session {
	if sess, ok := s.sessions.GetSession(id); ok {
		return sess
	}
	return models.Session{ID: id}
}

// Refresh invalidates every cached table and counts the refresh against the
// session. The next Tables call refetches the season.
func (s *DashboardService) Refresh(ctx context.Context, sessionID string) (models.Session, error) {
	epoch, err := s.store.BumpEpoch(ctx)
	if err != nil {
		return models.Session{}, fmt.Errorf("error invalidating cache: %w", err)
	}

	sess := s.Session(sessionID)
	sess.Refreshes++
	sess.Epoch = epoch
	s.sessions.SaveSession(sess)

	slog.Info("Cache invalidated", "epoch", epoch, "session", sessionID, "refreshes", sess.Refreshes)
	return sess, nil
}

// Dashboard renders sel for the given session and returns the session updated
// with the epoch the views were built from. Sessions are only persisted by
// Refresh.
func (s *DashboardService) Dashboard(ctx context.Context, sess models.Session, sel models.Selection) (present.Dashboard, models.Session, error) {
	if err := s.ValidateSelection(sel); err != nil {
		return present.Dashboard{}, sess, err
	}

	tables, err := s.Tables(ctx)
	if err != nil {
		return present.Dashboard{}, sess, err
	}

	sess.Epoch = tables.Epoch
	return present.Build(tables, sel), sess, nil
}

// DefaultSelection is the selection shown before the user touches any filter.
func (s *DashboardService) DefaultSelection(ctx context.Context) (models.Selection, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return models.Selection{}, err
	}
	sel := present.DefaultSelection(tables)
	if sel.EndWeek > s.TotalWeeks() {
		sel.EndWeek = s.TotalWeeks()
	}
	return sel, nil
}

func (s *DashboardService) ValidateSelection(sel models.Selection) error {
	if err := s.validate.Struct(sel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	total := s.TotalWeeks()
	if sel.EndWeek > total {
		return fmt.Errorf("%w: end week %d exceeds season length %d", ErrInvalidSelection, sel.EndWeek, total)
	}
	switch sel.Scope.Kind {
	case models.ScopeAll, models.ScopeRange:
	case models.ScopeWeek:
		if sel.Scope.Week < 1 || sel.Scope.Week > total {
			return fmt.Errorf("%w: ranking week %d not in [1, %d]", ErrInvalidSelection, sel.Scope.Week, total)
		}
	default:
		return fmt.Errorf("%w: unknown week scope %d", ErrInvalidSelection, sel.Scope.Kind)
	}
	return nil
}
