package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rectgroup/pkg/cache"
	errs "github.com/matzehuels/rectgroup/pkg/errors"
	"github.com/matzehuels/rectgroup/pkg/group"
	"github.com/matzehuels/rectgroup/pkg/observability"
	"github.com/matzehuels/rectgroup/pkg/render/sink"
	"github.com/matzehuels/rectgroup/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one as
// long as each works on its own group.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute builds a scene, mounts a group on it, applies opts.Ops and renders
// the resulting frame.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	s := scene.New(opts.Width, opts.Height)
	g := group.New(s, s.Root(), group.WithConfig(opts.Group))
	g.Attach()

	result := &Result{Scene: s, Group: g}

	applyStart := time.Now()
	if err := r.Apply(ctx, g, opts.Ops); err != nil {
		return nil, err
	}
	result.Stats.OpCount = len(opts.Ops)
	result.Stats.RectCount = g.Count()
	result.Stats.ApplyTime = time.Since(applyStart)

	frame, err := s.Snapshot()
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "snapshot scene")
	}
	result.Frame = frame

	renderStart := time.Now()
	artifacts, hash, hit, err := r.render(ctx, frame, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.FrameHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"rects", g.Count(),
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Apply validates every op and then runs them in order. Nothing is applied
// when validation fails. Cancellation is checked between ops.
func (r *Runner) Apply(ctx context.Context, g *group.Group, ops []Op) (err error) {
	for i, op := range ops {
		if err := op.Validate(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidInput, err, "op %d", i)
		}
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnApplyStart(ctx, len(ops))
	defer func() {
		hooks.OnApplyComplete(ctx, len(ops), g.Count(), time.Since(start), err)
	}()

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		op.Apply(g)
		r.Logger.Debug("applied", "op", op.String(), "count", g.Count(), "angle", g.Rotation().AngleDeg)
	}
	return nil
}

// Render generates artifacts for a frame, consulting the cache first.
func (r *Runner) Render(ctx context.Context, f scene.Frame, opts Options) (map[string][]byte, error) {
	artifacts, _, _, err := r.render(ctx, f, opts)
	return artifacts, err
}

// RenderWithCacheInfo is Render that also reports whether every artifact
// came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f scene.Frame, opts Options) (map[string][]byte, bool, error) {
	artifacts, _, hit, err := r.render(ctx, f, opts)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, f scene.Frame, opts Options) (artifacts map[string][]byte, hash string, hit bool, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	frameData, err := sink.RenderJSON(f)
	if err != nil {
		return nil, "", false, errs.Wrap(errs.ErrCodeInternal, err, "serialize frame for cache key")
	}
	hash = cache.Hash(frameData)

	if !opts.Refresh {
		if cached, ok := r.fromCache(ctx, hash, opts); ok {
			return cached, hash, true, nil
		}
	}

	rendered, err := Render(f, opts)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, hash, false, nil
}

func (r *Runner) fromCache(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
