package kv

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	getHeaders := func() *Storage {
		return New().
			Set("Content-Type", "text/plain").
			Set("Content-Length", "2").
			Set("X-Foo", "bar")
	}

	t.Run("insertion order", func(t *testing.T) {
		require.Equal(t, []string{"Content-Type", "Content-Length", "X-Foo"}, slices.Collect(getHeaders().Keys()))
	})

	t.Run("set overrides in place", func(t *testing.T) {
		kv := getHeaders().Set("content-type", "application/octet-stream")
		require.Equal(t, 3, kv.Len())
		require.Equal(t, []string{"content-type", "Content-Length", "X-Foo"}, slices.Collect(kv.Keys()))
		require.Equal(t, "application/octet-stream", kv.Value("Content-Type"))
	})

	t.Run("set default", func(t *testing.T) {
		kv := getHeaders().
			SetDefault("X-Foo", "baz").
			SetDefault("Allow", "GET")
		require.Equal(t, "bar", kv.Value("X-Foo"))
		require.Equal(t, "GET", kv.Value("Allow"))
	})

	t.Run("delete", func(t *testing.T) {
		kv := getHeaders().Delete("CONTENT-LENGTH")
		require.False(t, kv.Has("Content-Length"))
		require.Equal(t, []string{"Content-Type", "X-Foo"}, slices.Collect(kv.Keys()))
	})

	t.Run("pairs", func(t *testing.T) {
		var got []Pair
		for key, value := range getHeaders().Pairs() {
			got = append(got, Pair{key, value})
		}

		require.Equal(t, []Pair{
			{"Content-Type", "text/plain"},
			{"Content-Length", "2"},
			{"X-Foo", "bar"},
		}, got)
	})

	t.Run("clone is independent", func(t *testing.T) {
		original := getHeaders()
		clone := original.Clone().Set("X-Foo", "changed")
		require.Equal(t, "bar", original.Value("X-Foo"))
		require.Equal(t, "changed", clone.Value("X-Foo"))
	})

	t.Run("empty", func(t *testing.T) {
		kv := New()
		require.True(t, kv.Empty())
		_, found := kv.Get("anything")
		require.False(t, found)
	})
}
