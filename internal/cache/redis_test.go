package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verkefnalisti/internal/models"
)

// Needs a live Redis; skipped unless TEST_REDIS_URL is set. The env var is
// copied into REDIS_URL before the config is first read, so it must run in
// its own test process (which per-package test binaries guarantee).
func TestCacheRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	t.Setenv("REDIS_URL", url)

	ctx := context.Background()
	require.NotNil(t, Client(ctx))
	InvalidateTodos(ctx)

	_, ok := GetTodos(ctx)
	assert.False(t, ok, "expected a miss after invalidation")

	todos := []models.Todo{{ID: 1, Title: "Kaupa mjólk", Created: time.Now().UTC()}}
	SetTodos(ctx, todos)

	got, ok := GetTodos(ctx)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, todos[0].ID, got[0].ID)
	assert.Equal(t, todos[0].Title, got[0].Title)

	InvalidateTodos(ctx)
	_, ok = GetTodos(ctx)
	assert.False(t, ok)
}
