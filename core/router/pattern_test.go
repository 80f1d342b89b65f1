package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/router"
)

func TestParsePattern(t *testing.T) {
	t.Parallel()

	p, err := router.ParsePattern("/users/:id/files/{path...}")
	require.NoError(t, err)
	assert.Equal(t, "/users/:id/files/{path...}", p.String())
	assert.Equal(t, []string{"id", "path"}, p.Params())
	assert.Equal(t, []router.Segment{
		{Kind: router.SegmentStatic, Value: "users"},
		{Kind: router.SegmentParam, Value: "id"},
		{Kind: router.SegmentStatic, Value: "files"},
		{Kind: router.SegmentWildcard, Value: "path"},
	}, p.Segments())

	root, err := router.ParsePattern("/")
	require.NoError(t, err)
	assert.Empty(t, root.Segments())
}

func TestParsePatternErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    error
	}{
		{"", router.ErrInvalidPattern},
		{"users", router.ErrInvalidPattern},
		{"/users/:", router.ErrInvalidPattern},
		{"/users/{id", router.ErrInvalidPattern},
		{"/users/{}", router.ErrInvalidPattern},
		{"/files/*path/more", router.ErrWildcardPosition},
		{"/a/:id/b/:id", router.ErrDuplicateParam},
		{"/a/:id/*id", router.ErrDuplicateParam},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := router.ParsePattern(tt.pattern)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMustParsePatternPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { router.MustParsePattern("nope") })
	assert.NotPanics(t, func() { router.MustParsePattern("/ok") })
}
