// Package posts assembles the site's post registry.
package posts

import (
	"datanotes/internal/posts/claims"
	"datanotes/internal/posts/rollout"
	"datanotes/internal/report"
)

// DefaultRegistry returns the registry holding every published post.
func DefaultRegistry() (*report.Registry, error) {
	registry := report.NewRegistry()

	for _, post := range []report.Post{
		claims.New(),
		rollout.New(),
	} {
		if err := registry.Register(post); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
