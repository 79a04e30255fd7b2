package report

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datanotes/internal/config"
	"datanotes/internal/render"
)

func buildOK(ctx context.Context, env *Env) (*render.Document, error) {
	return &render.Document{
		Sections: []render.Section{{Prose: []string{"hello"}}},
	}, nil
}

func TestRegistry_Register(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register(Post{Slug: "claims", Title: "Claims", Build: buildOK}))
	require.NoError(t, registry.Register(Post{Slug: "rollout", Title: "Rollout", Build: buildOK}))

	tests := []struct {
		name string
		post Post
	}{
		{"duplicate slug", Post{Slug: "claims", Build: buildOK}},
		{"empty slug", Post{Build: buildOK}},
		{"nil build", Post{Slug: "other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, registry.Register(tt.post))
		})
	}

	assert.Equal(t, []string{"claims", "rollout"}, registry.Slugs())

	post, ok := registry.Get("claims")
	require.True(t, ok)
	assert.Equal(t, "Claims", post.Title)

	_, ok = registry.Get("missing")
	assert.False(t, ok)
}

func testEnv(t *testing.T) *Env {
	t.Helper()
	dir := t.TempDir()
	return &Env{
		Config: &config.Config{},
		Paths:  &config.Paths{ContentDir: filepath.Join(dir, "content"), DataDir: dir},
		Theme:  render.DefaultTheme(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunner_Run(t *testing.T) {
	env := testEnv(t)
	registry := NewRegistry()
	require.NoError(t, registry.Register(Post{Slug: "claims", Title: "Claims", Build: buildOK}))

	runner := NewRunner(env, registry)
	require.NoError(t, runner.Run(context.Background(), "claims"))

	md, err := os.ReadFile(filepath.Join(env.Paths.PostDir("claims"), "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "hello")
	assert.Contains(t, string(md), `title: "Claims"`)
}

func TestRunner_UnknownPost(t *testing.T) {
	runner := NewRunner(testEnv(t), NewRegistry())
	err := runner.Run(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown post")
}

func TestRunner_BuildFailureAborts(t *testing.T) {
	env := testEnv(t)
	registry := NewRegistry()

	boom := errors.New("dataset unavailable")
	require.NoError(t, registry.Register(Post{
		Slug: "bad", Title: "Bad",
		Build: func(ctx context.Context, env *Env) (*render.Document, error) {
			return nil, boom
		},
	}))
	require.NoError(t, registry.Register(Post{Slug: "good", Title: "Good", Build: buildOK}))

	runner := NewRunner(env, registry)
	err := runner.RunAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	// "bad" sorts first, so nothing after it may have been generated.
	assert.NoFileExists(t, filepath.Join(env.Paths.PostDir("good"), "index.md"))
}

func TestRunner_RunAll(t *testing.T) {
	env := testEnv(t)
	registry := NewRegistry()
	require.NoError(t, registry.Register(Post{Slug: "a", Title: "A", Build: buildOK}))
	require.NoError(t, registry.Register(Post{Slug: "b", Title: "B", Build: buildOK}))

	require.NoError(t, NewRunner(env, registry).RunAll(context.Background()))

	assert.FileExists(t, filepath.Join(env.Paths.PostDir("a"), "index.md"))
	assert.FileExists(t, filepath.Join(env.Paths.PostDir("b"), "index.md"))
}
