package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/ffdash/internal/models"
)

type fakeService struct {
	refreshErr error
	refreshes  []string
	loads      int
	digests    int
}

func (f *fakeService) Refresh(_ context.Context, id string) (models.Session, error) {
	if f.refreshErr != nil {
		return models.Session{}, f.refreshErr
	}
	f.refreshes = append(f.refreshes, id)
	return models.Session{ID: id, Epoch: uint64(len(f.refreshes)), Refreshes: len(f.refreshes)}, nil
}

func (f *fakeService) Tables(context.Context) (*models.LeagueTables, error) {
	f.loads++
	return &models.LeagueTables{}, nil
}

func (f *fakeService) Digest(context.Context) (string, error) {
	f.digests++
	return "📊 *Week 3 Digest*", nil
}

func TestRefreshAndDigest_SendsDigest(t *testing.T) {
	svc := &fakeService{}
	var sent []string
	s, err := NewScheduler(svc, "America/Chicago", func(text string) error {
		sent = append(sent, text)
		return nil
	})
	require.NoError(t, err)

	s.refreshAndDigest()

	assert.Equal(t, []string{sessionID}, svc.refreshes)
	assert.Equal(t, 1, svc.loads)
	assert.Equal(t, []string{"📊 *Week 3 Digest*"}, sent)
}

func TestRefreshAndDigest_NoNotifier(t *testing.T) {
	svc := &fakeService{}
	s, err := NewScheduler(svc, "America/Chicago", nil)
	require.NoError(t, err)

	s.refreshAndDigest()
	assert.Equal(t, 1, svc.digests)
}

func TestRefreshAndDigest_RefreshFailureSkipsDigest(t *testing.T) {
	svc := &fakeService{refreshErr: errors.New("redis down")}
	s, err := NewScheduler(svc, "America/Chicago", func(string) error {
		t.Fatal("digest must not be sent")
		return nil
	})
	require.NoError(t, err)

	s.refreshAndDigest()
	assert.Zero(t, svc.digests)
	assert.Zero(t, svc.loads)
}

func TestStart_RegistersWeeklyJobs(t *testing.T) {
	s, err := NewScheduler(&fakeService{}, "Not/AZone", nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	t.Cleanup(func() { _ = s.Stop() })

	names := make([]string, 0)
	for _, j := range s.s.Jobs() {
		names = append(names, j.Name())
	}
	assert.ElementsMatch(t, []string{"weekly-refresh", "thursday-refresh"}, names)
}
