package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/router"
)

func TestContextImplementsHandlerContext(t *testing.T) {
	t.Parallel()

	var _ handler.Context = (*router.Context)(nil)
	var _ context.Context = (*router.Context)(nil)
	var _ handler.RequestReplacer = (*router.Context)(nil)
}

func TestContextParams(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := router.NewContext(httptest.NewRecorder(), req, map[string]string{"id": "1"})

	assert.Equal(t, "1", c.Param("id"))
	assert.Empty(t, c.Param("missing"))
	assert.Equal(t, map[string]string{"id": "1"}, c.Params())

	empty := router.NewContext(httptest.NewRecorder(), req, nil)
	assert.Empty(t, empty.Param("id"))
}

func TestContextDelegatesToRequestContext(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), time.Minute)
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(parent)
	c := router.NewContext(httptest.NewRecorder(), req, nil)

	deadline, ok := c.Deadline()
	assert.True(t, ok)
	assert.False(t, deadline.IsZero())
	assert.NoError(t, c.Err())

	cancel()
	<-c.Done()
	assert.ErrorIs(t, c.Err(), context.Canceled)
}

func TestContextSetValue(t *testing.T) {
	t.Parallel()

	type key struct{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := router.NewContext(httptest.NewRecorder(), req, nil)

	c.SetValue(key{}, 42)
	assert.Equal(t, 42, c.Value(key{}))
	assert.Equal(t, 42, c.Request().Context().Value(key{}))
	assert.Nil(t, req.Context().Value(key{}))
}

func TestContextSetRequest(t *testing.T) {
	t.Parallel()

	type key struct{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := router.NewContext(httptest.NewRecorder(), req, nil)

	next := req.WithContext(context.WithValue(req.Context(), key{}, "v"))
	c.SetRequest(next)
	assert.Same(t, next, c.Request())
	assert.Equal(t, "v", c.Value(key{}))

	c.SetRequest(nil)
	assert.Same(t, next, c.Request())
}
