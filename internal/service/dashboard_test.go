package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/ffdash/internal/models"
	"github.com/omarshaarawi/ffdash/internal/repository/memory"
)

type fakeFetcher struct {
	calls atomic.Int32
	delay time.Duration
	err   error
	weeks []models.WeekBoxScores
}

func (f *fakeFetcher) FetchSeason(context.Context) ([]models.WeekBoxScores, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.weeks, nil
}

func (f *fakeFetcher) TotalWeeks() int { return 12 }

func ptr[T any](v T) *T { return &v }

func seasonFixture() []models.WeekBoxScores {
	qb := func(name string, pts, proj float64) models.LineupPlayer {
		return models.LineupPlayer{Name: name, Position: ptr("QB"), Points: ptr(pts), ProjectedPoints: ptr(proj)}
	}
	return []models.WeekBoxScores{
		{Week: 1, BoxScores: []models.BoxScore{
			{Week: 1, HomeTeam: "Coach Dad", AwayTeam: "UGF Pandas", HomeScore: 110, AwayScore: 90,
				HomeLineup: []models.LineupPlayer{qb("Josh Allen", 30, 20)},
				AwayLineup: []models.LineupPlayer{qb("Lamar Jackson", 20, 25)}},
			{Week: 1, HomeTeam: "Beyond Cursed", AwayTeam: "Stairway to Evans", HomeScore: 87, AwayScore: 121,
				HomeLineup: []models.LineupPlayer{qb("Jalen Hurts", 18, 22)},
				AwayLineup: []models.LineupPlayer{qb("Joe Burrow", 26, 21)}},
		}},
		{Week: 2, BoxScores: []models.BoxScore{
			{Week: 2, HomeTeam: "Coach Dad", AwayTeam: "Beyond Cursed",
				HomeLineup: []models.LineupPlayer{qb("Josh Allen", 0, 21)},
				AwayLineup: []models.LineupPlayer{qb("Jalen Hurts", 0, 23)}},
		}},
	}
}

func newService(f Fetcher) (*DashboardService, *memory.Repository) {
	repo := memory.NewRepository()
	return NewDashboardService(f, repo, repo), repo
}

func TestTables_MemoizedUntilRefresh(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{weeks: seasonFixture()}
	svc, _ := newService(f)

	first, err := svc.Tables(ctx)
	require.NoError(t, err)
	second, err := svc.Tables(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), f.calls.Load())

	sess, err := svc.Refresh(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Refreshes)
	assert.Equal(t, uint64(1), sess.Epoch)

	third, err := svc.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.calls.Load())
	assert.Equal(t, uint64(1), third.Epoch)
	assert.Equal(t, first.Teams, third.Teams)
}

func TestTables_ConcurrentMissesShareOneLoad(t *testing.T) {
	f := &fakeFetcher{weeks: seasonFixture(), delay: 20 * time.Millisecond}
	svc, _ := newService(f)

	const workers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Tables(context.Background())
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
}

type blockingFetcher struct {
	calls   atomic.Int32
	release chan struct{}
}

func (f *blockingFetcher) FetchSeason(ctx context.Context) ([]models.WeekBoxScores, error) {
	f.calls.Add(1)
	select {
	case <-f.release:
		return seasonFixture(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *blockingFetcher) TotalWeeks() int { return 12 }

func TestTables_CancelledCallerDoesNotFailOthers(t *testing.T) {
	f := &blockingFetcher{release: make(chan struct{})}
	svc, _ := newService(f)

	ctx1, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := svc.Tables(ctx1)
		first <- err
	}()
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() {
		_, err := svc.Tables(context.Background())
		second <- err
	}()

	cancel()
	require.ErrorIs(t, <-first, context.Canceled)

	close(f.release)
	require.NoError(t, <-second)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestTables_FetchErrorPropagates(t *testing.T) {
	boom := errors.New("espn down")
	svc, _ := newService(&fakeFetcher{err: boom})

	_, err := svc.Tables(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestRefresh_CountsPerSession(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(&fakeFetcher{weeks: seasonFixture()})

	_, err := svc.Refresh(ctx, "a")
	require.NoError(t, err)
	sess, err := svc.Refresh(ctx, "a")
	require.NoError(t, err)
	other, err := svc.Refresh(ctx, "b")
	require.NoError(t, err)

	assert.Equal(t, 2, sess.Refreshes)
	assert.Equal(t, 1, other.Refreshes)
	assert.Equal(t, uint64(3), other.Epoch)
	assert.Equal(t, 2, svc.Session("a").Refreshes)
}

func TestDashboard_EndToEndFourTeams(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(&fakeFetcher{weeks: seasonFixture()})

	sel := models.Selection{
		Teams:     []string{"Coach Dad", "UGF Pandas", "Beyond Cursed", "Stairway to Evans"},
		StartWeek: 1,
		EndWeek:   1,
		Position:  "QB",
		Scope:     models.AllWeeks(),
	}
	d, sess, err := svc.Dashboard(ctx, svc.Session("s"), sel)
	require.NoError(t, err)

	assert.Len(t, d.Rows, 4)
	assert.Len(t, d.Bars.Bars, 4)
	assert.Empty(t, d.Heatmap.Notice)
	assert.Equal(t, "Josh Allen", d.Ranking.Players[0].PlayerName)
	assert.Equal(t, uint64(0), sess.Epoch)
}

func TestDashboard_InvalidSelection(t *testing.T) {
	ctx := context.Background()
	f := &fakeFetcher{weeks: seasonFixture()}
	svc, _ := newService(f)

	bad := []models.Selection{
		{StartWeek: 0, EndWeek: 1},
		{StartWeek: 3, EndWeek: 2},
		{StartWeek: 1, EndWeek: 13},
		{StartWeek: 1, EndWeek: 2, Scope: models.SingleWeek(13)},
		{StartWeek: 1, EndWeek: 2, Scope: models.WeekScope{Kind: 9}},
	}
	for _, sel := range bad {
		_, _, err := svc.Dashboard(ctx, models.Session{}, sel)
		require.ErrorIs(t, err, ErrInvalidSelection, "%+v", sel)
	}
	assert.Equal(t, int32(0), f.calls.Load(), "validation happens before loading")
}

func TestDefaultSelection(t *testing.T) {
	svc, _ := newService(&fakeFetcher{weeks: seasonFixture()})

	sel, err := svc.DefaultSelection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Coach Dad", "UGF Pandas", "Beyond Cursed", "Stairway to Evans"}, sel.Teams)
	assert.Equal(t, 1, sel.StartWeek)
	assert.Equal(t, 2, sel.EndWeek)
	assert.Equal(t, "QB", sel.Position)
}

func TestDigest(t *testing.T) {
	svc, _ := newService(&fakeFetcher{weeks: seasonFixture()})

	digest, err := svc.Digest(context.Background())
	require.NoError(t, err)
	assert.Contains(t, digest, "Week 1 Digest")
	assert.Contains(t, digest, "*Stairway to Evans* (+100.00)")
	assert.Contains(t, digest, "Missed projection by most: *UGF Pandas* (+65.00)")
	assert.Contains(t, digest, "Top scorer: *Josh Allen*")
}

func TestDigest_NoCompletedWeeks(t *testing.T) {
	svc, _ := newService(&fakeFetcher{})

	digest, err := svc.Digest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "📊 No completed weeks yet.", digest)
}

func TestTopPlayers(t *testing.T) {
	svc, _ := newService(&fakeFetcher{weeks: seasonFixture()})

	out, err := svc.TopPlayers(context.Background(), "qb", models.SingleWeek(1), 0, 0)
	require.NoError(t, err)
	assert.Contains(t, out, "Top 10 QB for Week 1")
	assert.Contains(t, out, "1. Josh Allen - 30.00 pts")
	assert.Contains(t, out, "4. Jalen Hurts - 18.00 pts")

	out, err = svc.TopPlayers(context.Background(), "K", models.AllWeeks(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "No data available for K in all weeks.", out)
}

func TestTopPlayers_Range(t *testing.T) {
	svc, _ := newService(&fakeFetcher{weeks: seasonFixture()})

	out, err := svc.TopPlayers(context.Background(), "QB", models.SelectedRange(), 2, 2)
	require.NoError(t, err)
	assert.Contains(t, out, "Top 10 QB for Week 2")
	assert.Contains(t, out, "1. Josh Allen - 0.00 pts")
	assert.NotContains(t, out, "Joe Burrow")

	_, err = svc.TopPlayers(context.Background(), "QB", models.SelectedRange(), 3, 2)
	require.ErrorIs(t, err, ErrInvalidSelection)
}

func TestDashboard_DoesNotPersistSession(t *testing.T) {
	svc, repo := newService(&fakeFetcher{weeks: seasonFixture()})

	sel, err := svc.DefaultSelection(context.Background())
	require.NoError(t, err)
	_, _, err = svc.Dashboard(context.Background(), svc.Session("curl"), sel)
	require.NoError(t, err)

	_, ok := repo.GetSession("curl")
	assert.False(t, ok)
}

func TestWeekSummary(t *testing.T) {
	svc, _ := newService(&fakeFetcher{weeks: seasonFixture()})

	out, err := svc.WeekSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, out, "🟢 *Coach Dad* 110.00 (proj 20.00, +90.00)")

	_, err = svc.WeekSummary(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidSelection)

	out, err = svc.WeekSummary(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "No data available for Week 5.", out)
}
