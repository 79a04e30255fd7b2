// Package report runs the site's analysis posts. Each post is a pure
// build step: it loads its dataset, derives tables through the tidy
// pipeline, and returns a document. The runner owns everything around
// that — run identity, timing, logging, and artifact writing.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"datanotes/internal/config"
	"datanotes/internal/fetch"
	"datanotes/internal/render"
)

// Env carries the shared dependencies a post may use. Posts receive it
// explicitly; nothing is reached through globals.
type Env struct {
	Config  *config.Config
	Paths   *config.Paths
	Fetcher *fetch.Client
	Theme   render.Theme
	Logger  *slog.Logger
}

// Post is one registered analysis post.
type Post struct {
	Slug  string
	Title string
	Build func(ctx context.Context, env *Env) (*render.Document, error)
}

// Registry holds the posts known to the build.
type Registry struct {
	posts  []Post
	bySlug map[string]Post
}

// NewRegistry creates an empty post registry.
func NewRegistry() *Registry {
	return &Registry{bySlug: make(map[string]Post)}
}

// Register adds a post. Duplicate slugs are a programming error surfaced
// immediately rather than silently overwriting a post.
func (r *Registry) Register(post Post) error {
	if post.Slug == "" {
		return fmt.Errorf("post has an empty slug")
	}
	if post.Build == nil {
		return fmt.Errorf("post %q has no build function", post.Slug)
	}
	if _, exists := r.bySlug[post.Slug]; exists {
		return fmt.Errorf("post %q registered twice", post.Slug)
	}

	r.bySlug[post.Slug] = post
	r.posts = append(r.posts, post)
	return nil
}

// Get returns the post with the given slug.
func (r *Registry) Get(slug string) (Post, bool) {
	post, ok := r.bySlug[slug]
	return post, ok
}

// Slugs returns the registered slugs in sorted order.
func (r *Registry) Slugs() []string {
	slugs := make([]string, 0, len(r.posts))
	for _, post := range r.posts {
		slugs = append(slugs, post.Slug)
	}
	sort.Strings(slugs)
	return slugs
}
