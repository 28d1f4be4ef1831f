package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/akaun/internal/store"
)

// Backend names accepted by Open.
const (
	BackendLocal    = "local"
	BackendHTTP     = "http"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	URL     string
	Timeout time.Duration
	Limit   int
}

// Open builds the configured backend. The local store always backs the
// http backend as its fallback. The returned close func releases any
// network client.
func Open(ctx context.Context, opts Options, st *store.Store) (Service, func(), error) {
	local := NewLocal(st.ScoreRepo(), opts.Limit)
	noop := func() {}

	switch opts.Backend {
	case "", BackendLocal:
		return local, noop, nil
	case BackendHTTP:
		if opts.URL == "" {
			return nil, noop, fmt.Errorf("leaderboard backend %q needs a URL", opts.Backend)
		}
		return NewRemote(opts.URL, nil, opts.Timeout, local), noop, nil
	case BackendRedis:
		r, err := NewRedis(ctx, opts.URL, opts.Limit)
		if err != nil {
			return nil, noop, err
		}
		return r, func() { r.Close() }, nil
	case BackendPostgres:
		p, err := NewPostgres(ctx, opts.URL, opts.Limit)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown leaderboard backend %q", opts.Backend)
	}
}
