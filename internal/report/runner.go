package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"datanotes/internal/render"
)

// Runner executes posts one at a time. A site build either fully succeeds
// or fails outright; there is no partial-success mode.
type Runner struct {
	env      *Env
	registry *Registry
}

// NewRunner creates a runner over the given environment and registry.
func NewRunner(env *Env, registry *Registry) *Runner {
	return &Runner{env: env, registry: registry}
}

// Run generates one post and writes its artifacts.
func (r *Runner) Run(ctx context.Context, slug string) error {
	post, ok := r.registry.Get(slug)
	if !ok {
		return fmt.Errorf("unknown post %q (registered: %v)", slug, r.registry.Slugs())
	}
	return r.run(ctx, post)
}

// RunAll generates every registered post in slug order, stopping at the
// first failure.
func (r *Runner) RunAll(ctx context.Context) error {
	for _, slug := range r.registry.Slugs() {
		post, _ := r.registry.Get(slug)
		if err := r.run(ctx, post); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) run(ctx context.Context, post Post) error {
	runID := uuid.New().String()
	logger := r.env.Logger.With("run_id", runID, "post", post.Slug)
	env := *r.env
	env.Logger = logger

	logger.InfoContext(ctx, "generating post", "title", post.Title)
	start := time.Now()

	doc, err := post.Build(ctx, &env)
	if err != nil {
		logger.ErrorContext(ctx, "post build failed", "error", err)
		return fmt.Errorf("build post %s: %w", post.Slug, err)
	}

	doc.Slug = post.Slug
	if doc.Title == "" {
		doc.Title = post.Title
	}
	if doc.Generated.IsZero() {
		doc.Generated = time.Now().UTC()
	}

	if err := render.WriteDocument(r.env.Paths.PostDir(post.Slug), doc, logger); err != nil {
		logger.ErrorContext(ctx, "artifact write failed", "error", err)
		return fmt.Errorf("write post %s: %w", post.Slug, err)
	}

	logger.InfoContext(ctx, "post generated",
		"duration", time.Since(start).Round(time.Millisecond).String(),
		"sections", len(doc.Sections))
	return nil
}
