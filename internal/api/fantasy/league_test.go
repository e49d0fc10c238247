package fantasy

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/ffdash/internal/models"
)

type fakeSource struct {
	names     map[int]string
	requested []int
	failWeek  int
	nameCalls int
}

func (f *fakeSource) GetTeamNames(context.Context) (map[int]string, error) {
	f.nameCalls++
	return f.names, nil
}

func (f *fakeSource) GetBoxScores(_ context.Context, week int, names map[int]string) ([]models.BoxScore, error) {
	f.requested = append(f.requested, week)
	if week == f.failWeek {
		return nil, errors.New("boom")
	}
	return []models.BoxScore{{Week: week, HomeTeam: names[1], AwayTeam: names[2]}}, nil
}

func TestBoxScores_RejectsOutOfRangeWithoutCallingProvider(t *testing.T) {
	src := &fakeSource{}
	api := NewAPI(src, 12)

	for _, week := range []int{-1, 0, 13, 100} {
		_, err := api.BoxScores(context.Background(), week, nil)
		require.ErrorIs(t, err, ErrWeekOutOfRange, "week %d", week)
	}
	assert.Empty(t, src.requested)

	_, err := api.BoxScores(context.Background(), 12, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{12}, src.requested)
}

func TestFetchSeason_RequestsEachWeekInOrder(t *testing.T) {
	src := &fakeSource{names: map[int]string{1: "Coach Dad", 2: "UGF Pandas"}}
	api := NewAPI(src, 0)

	weeks, err := api.FetchSeason(context.Background())
	require.NoError(t, err)

	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	assert.Equal(t, want, src.requested)
	assert.Equal(t, 1, src.nameCalls)
	require.Len(t, weeks, 12)
	for i, w := range weeks {
		assert.Equal(t, i+1, w.Week)
		assert.Equal(t, "Coach Dad", w.BoxScores[0].HomeTeam)
	}
}

func TestFetchSeason_PropagatesProviderError(t *testing.T) {
	src := &fakeSource{failWeek: 4}
	api := NewAPI(src, 12)

	_, err := api.FetchSeason(context.Background())
	require.Error(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, src.requested)
}
