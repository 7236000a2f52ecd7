package cache

import (
	"container/heap"
	"context"
	"log"
	"sync"
	"time"
)

// WarmupJob re-primes one cache key. Loader is called on every warmup
// cycle so the cache is refreshed from the store, not from a stale
// snapshot captured at registration time.
type WarmupJob struct {
	Key      string
	Loader   func() (interface{}, error)
	TTL      time.Duration
	Priority int
}

type WarmupStrategy struct {
	ConcurrentJobs int
	WarmupInterval time.Duration
}

func DefaultWarmupStrategy() *WarmupStrategy {
	return &WarmupStrategy{
		ConcurrentJobs: 3,
		WarmupInterval: 5 * time.Minute,
	}
}

// CacheWarmer keeps a registered set of jobs warm. Each cycle orders
// the jobs by priority and runs them on a small worker pool.
type CacheWarmer struct {
	cache    Cache
	strategy *WarmupStrategy

	mu      sync.RWMutex
	jobs    []WarmupJob
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	warmed int64
	failed int64
}

func NewCacheWarmer(cache Cache, strategy *WarmupStrategy) *CacheWarmer {
	if strategy == nil {
		strategy = DefaultWarmupStrategy()
	}
	if strategy.ConcurrentJobs < 1 {
		strategy.ConcurrentJobs = 1
	}
	return &CacheWarmer{
		cache:    cache,
		strategy: strategy,
	}
}

func (cw *CacheWarmer) AddWarmupJob(job WarmupJob) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.jobs = append(cw.jobs, job)
}

func (cw *CacheWarmer) Start(ctx context.Context) {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = true
	cw.stopCh = make(chan struct{})
	cw.mu.Unlock()

	cw.wg.Add(1)
	go func() {
		defer cw.wg.Done()

		cw.runCycle(ctx)

		ticker := time.NewTicker(cw.strategy.WarmupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cw.runCycle(ctx)
			case <-cw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (cw *CacheWarmer) Stop() {
	cw.mu.Lock()
	if !cw.running {
		cw.mu.Unlock()
		return
	}
	cw.running = false
	close(cw.stopCh)
	cw.mu.Unlock()

	cw.wg.Wait()
}

// WarmNow runs one warmup cycle synchronously.
func (cw *CacheWarmer) WarmNow(ctx context.Context) {
	cw.runCycle(ctx)
}

func (cw *CacheWarmer) runCycle(ctx context.Context) {
	cw.mu.RLock()
	pending := make(jobHeap, len(cw.jobs))
	copy(pending, cw.jobs)
	concurrency := cw.strategy.ConcurrentJobs
	cw.mu.RUnlock()

	if len(pending) == 0 {
		return
	}
	heap.Init(&pending)

	work := make(chan WarmupJob)
	var workers sync.WaitGroup

	for i := 0; i < concurrency; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for job := range work {
				cw.runJob(job)
			}
		}()
	}

	for pending.Len() > 0 {
		job := heap.Pop(&pending).(WarmupJob)
		select {
		case work <- job:
		case <-ctx.Done():
			close(work)
			workers.Wait()
			return
		}
	}
	close(work)
	workers.Wait()
}

func (cw *CacheWarmer) runJob(job WarmupJob) {
	if job.Loader == nil {
		return
	}

	data, err := job.Loader()
	if err != nil {
		log.Printf("cache warmup load failed for %s: %v", job.Key, err)
		cw.mu.Lock()
		cw.failed++
		cw.mu.Unlock()
		return
	}

	if err := cw.cache.Set(job.Key, data, job.TTL); err != nil {
		log.Printf("cache warmup set failed for %s: %v", job.Key, err)
		cw.mu.Lock()
		cw.failed++
		cw.mu.Unlock()
		return
	}

	cw.mu.Lock()
	cw.warmed++
	cw.mu.Unlock()
}

func (cw *CacheWarmer) Stats() map[string]interface{} {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return map[string]interface{}{
		"jobs":            len(cw.jobs),
		"warmed":          cw.warmed,
		"failed":          cw.failed,
		"running":         cw.running,
		"concurrent_jobs": cw.strategy.ConcurrentJobs,
	}
}

// jobHeap orders warmup jobs by descending priority.
type jobHeap []WarmupJob

func (h jobHeap) Len() int            { return len(h) }
func (h jobHeap) Less(i, j int) bool  { return h[i].Priority > h[j].Priority }
func (h jobHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *jobHeap) Push(x interface{}) { *h = append(*h, x.(WarmupJob)) }
func (h *jobHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
