package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockReloader struct {
	calls     atomic.Int32
	reloadErr error
}

func (m *mockReloader) Reload(ctx context.Context) error {
	m.calls.Add(1)
	return m.reloadErr
}

func TestCatalogRefresher_ReloadsOnInterval(t *testing.T) {
	t.Parallel()

	reloader := &mockReloader{}
	p := NewCatalogRefresher(reloader, 10*time.Millisecond)

	p.Start()
	assert.True(t, p.IsRunning())

	assert.Eventually(t, func() bool {
		return reloader.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)

	p.Stop()
	assert.False(t, p.IsRunning())

	after := reloader.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, reloader.calls.Load())
}

func TestCatalogRefresher_StartStopIdempotent(t *testing.T) {
	t.Parallel()

	p := NewCatalogRefresher(&mockReloader{}, time.Hour)
	p.Start()
	p.Start()
	p.Stop()
	p.Stop()
	assert.False(t, p.IsRunning())
}

func TestCatalogRefresher_ErrorsKeepRunning(t *testing.T) {
	t.Parallel()

	reloader := &mockReloader{reloadErr: errors.New("store down")}
	p := NewCatalogRefresher(reloader, 10*time.Millisecond)
	p.Start()
	defer p.Stop()

	assert.Eventually(t, func() bool {
		return reloader.calls.Load() >= 3
	}, time.Second, 5*time.Millisecond)
	assert.True(t, p.IsRunning())
}

func TestCatalogRefresher_RunOnce(t *testing.T) {
	t.Parallel()

	reloader := &mockReloader{reloadErr: errors.New("boom")}
	p := NewCatalogRefresher(reloader, 0)

	assert.Equal(t, 5*time.Minute, p.interval)
	assert.Error(t, p.RunOnce(context.Background()))
	assert.Equal(t, int32(1), reloader.calls.Load())
}
