package share

import (
	"context"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"

	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/workspace"
)

const (
	DefaultTTL = 60 * time.Minute
)

// Registry holds one workspace per client id. Idle workspaces are closed by Sweep; the
// cache keeps entries twice as long so a sweep always sees them first.
type Registry struct {
	mu     sync.Mutex
	cache  *ttlworker.Cache[string, *workspace.Workspace]
	ttl    time.Duration
	store  *preview.Store
	maxMB  int
	closed bool
}

func NewRegistry(store *preview.Store, maxMB int, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry{
		cache: ttlworker.NewCache[string, *workspace.Workspace](2 * ttl),
		ttl:   ttl,
		store: store,
		maxMB: maxMB,
	}
}

// Get returns the workspace of clientID, creating it on first use.
func (r *Registry) Get(clientID string) *workspace.Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws := r.cache.Get(clientID)
	if ws != nil {
		ws.Touch()
		r.cache.Set(clientID, ws)
		return ws
	}
	ws = workspace.New(clientID, r.store, r.maxMB)
	r.cache.Set(clientID, ws)
	tool.DefaultLogger.Debugf("[Share] new workspace for %s", clientID)
	return ws
}

// Lookup returns the workspace of clientID without creating one.
func (r *Registry) Lookup(clientID string) (*workspace.Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws := r.cache.Get(clientID)
	return ws, ws != nil
}

// Remove closes and forgets the workspace of clientID.
func (r *Registry) Remove(clientID string) {
	r.mu.Lock()
	ws := r.cache.Get(clientID)
	r.cache.Delete(clientID)
	r.mu.Unlock()
	if ws != nil {
		ws.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	_ = r.cache.Range(func(_ string, ws *workspace.Workspace) error {
		if ws != nil {
			n++
		}
		return nil
	})
	return n
}

// Sweep closes workspaces unused since now-ttl and returns how many were closed.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var expired []string
	_ = r.cache.Range(func(id string, ws *workspace.Workspace) error {
		if ws != nil && now.Sub(ws.LastUsed()) > r.ttl {
			expired = append(expired, id)
		}
		return nil
	})
	r.mu.Unlock()

	for _, id := range expired {
		r.Remove(id)
		tool.DefaultLogger.Infof("[Share] closed idle workspace %s", id)
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done, then closes every workspace.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case now := <-ticker.C:
			r.Sweep(now)
		}
	}
}

// Close tears every workspace down.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	var ids []string
	_ = r.cache.Range(func(id string, ws *workspace.Workspace) error {
		ids = append(ids, id)
		return nil
	})
	r.mu.Unlock()
	for _, id := range ids {
		r.Remove(id)
	}
}
