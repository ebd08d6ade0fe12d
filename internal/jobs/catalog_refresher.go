package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// CatalogReloader rebuilds the in-memory strategy catalog from the store
type CatalogReloader interface {
	Reload(ctx context.Context) error
}

// CatalogRefresher periodically reloads the strategy catalog so strategies
// added by another instance or by the CLI become visible to matching
type CatalogRefresher struct {
	catalog  CatalogReloader
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewCatalogRefresher creates a new catalog refresher job
func NewCatalogRefresher(catalog CatalogReloader, interval time.Duration) *CatalogRefresher {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	return &CatalogRefresher{
		catalog:  catalog,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the refresher loop. The catalog is loaded once at startup by
// the caller, so the first reload waits a full interval.
func (p *CatalogRefresher) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go p.run()
	slog.Info("catalog refresher started", slog.Duration("interval", p.interval))
}

// Stop gracefully stops the refresher and waits for an in-flight reload
func (p *CatalogRefresher) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.mu.Unlock()

	close(p.stopCh)
	p.wg.Wait()
	slog.Info("catalog refresher stopped")
}

func (p *CatalogRefresher) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.refresh()
		case <-p.stopCh:
			return
		}
	}
}

func (p *CatalogRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.RunOnce(ctx); err != nil {
		slog.Error("catalog reload failed", slog.String("error", err.Error()))
	}
}

// RunOnce reloads the catalog once (for testing or manual trigger).
// On failure the previous catalog stays in place.
func (p *CatalogRefresher) RunOnce(ctx context.Context) error {
	return p.catalog.Reload(ctx)
}

// IsRunning returns whether the refresher is running
func (p *CatalogRefresher) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
