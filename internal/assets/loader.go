package assets

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/Faultbox/tekalign/internal/engine/mesh"
	"github.com/Faultbox/tekalign/internal/logger"
)

// Ticket identifies one request to the Loader.
type Ticket = uint64

// Result is the outcome of one asynchronous mesh load. Mesh is nil when Err
// is set.
type Result struct {
	Ticket Ticket
	Path   string
	Mesh   *mesh.Mesh
	Err    error
}

// Loader decodes meshes on background goroutines and posts results on a
// channel that the UI loop drains. Loads are fire-and-forget: there is no
// per-request cancellation beyond the request context.
type Loader struct {
	m       *Manager
	sem     *semaphore.Weighted
	results chan Result
	wg      sync.WaitGroup
	log     *zap.Logger
}

// NewLoader creates a loader running at most maxParallel decodes at once.
func NewLoader(m *Manager, maxParallel int) *Loader {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Loader{
		m:       m,
		sem:     semaphore.NewWeighted(int64(maxParallel)),
		results: make(chan Result, 64),
		log:     logger.Named("loader"),
	}
}

// Request starts loading path. The result is delivered on Results with the
// given ticket, including failures.
func (l *Loader) Request(ctx context.Context, path string, ticket Ticket) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		res := Result{Ticket: ticket, Path: path}
		if err := l.sem.Acquire(ctx, 1); err != nil {
			res.Err = err
			l.post(ctx, res)
			return
		}
		res.Mesh, res.Err = l.m.LoadMesh(path)
		l.sem.Release(1)

		if res.Err != nil {
			l.log.Warn("load failed", zap.String("path", path), zap.Error(res.Err))
		} else {
			l.log.Debug("loaded", zap.String("path", path), zap.Int("triangles", res.Mesh.TriangleCount()))
		}
		l.post(ctx, res)
	}()
}

func (l *Loader) post(ctx context.Context, res Result) {
	select {
	case l.results <- res:
	case <-ctx.Done():
	}
}

// Results returns the channel of completed loads.
func (l *Loader) Results() <-chan Result {
	return l.results
}

// Drain passes every result available right now to fn without blocking and
// returns how many were handled.
func (l *Loader) Drain(fn func(Result)) int {
	n := 0
	for {
		select {
		case res := <-l.results:
			fn(res)
			n++
		default:
			return n
		}
	}
}

// Wait blocks until every requested load has posted its result or given up.
func (l *Loader) Wait() {
	l.wg.Wait()
}
