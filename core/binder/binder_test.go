package binder_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/binder"
	"github.com/dmitrymomot/dispatch/core/handler"
	"github.com/dmitrymomot/dispatch/core/router"
)

type ctx = *router.Context

func newCtx(r *http.Request, params map[string]string) ctx {
	return router.NewContext(httptest.NewRecorder(), r, params)
}

func requireExtractionError(t *testing.T, err error, source string) *handler.ExtractionError {
	t.Helper()
	var ee *handler.ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, source, ee.Source)
	assert.Equal(t, http.StatusBadRequest, ee.StatusCode())
	return ee
}

type createUser struct {
	Name  string   `json:"name"`
	Age   int      `json:"age"`
	Tags  []string `json:"tags"`
	Admin *bool    `json:"admin,omitempty"`
}

func TestJSON(t *testing.T) {
	t.Parallel()

	extract := binder.JSON[ctx, createUser]()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"alice","age":30,"tags":["a","b"]}`))
		r.Header.Set("Content-Type", "application/json; charset=utf-8")

		got, err := extract(newCtx(r, nil))
		require.NoError(t, err)
		assert.Equal(t, createUser{Name: "alice", Age: 30, Tags: []string{"a", "b"}}, got)
	})

	tests := []struct {
		name        string
		contentType string
		body        string
		want        error
	}{
		{"missing content type", "", `{}`, binder.ErrMissingContentType},
		{"wrong media type", "text/plain", `{}`, binder.ErrUnsupportedMediaType},
		{"empty body", "application/json", ``, binder.ErrInvalidJSON},
		{"malformed", "application/json", `{"name":`, binder.ErrInvalidJSON},
		{"unknown field", "application/json", `{"nope":1}`, binder.ErrInvalidJSON},
		{"type mismatch", "application/json", `{"age":"old"}`, binder.ErrInvalidJSON},
		{"trailing data", "application/json", `{"name":"a"}{"name":"b"}`, binder.ErrInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			_, err := extract(newCtx(r, nil))
			requireExtractionError(t, err, binder.SourceBody)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

type listQuery struct {
	Page    int      `query:"page"`
	Sort    string   `query:"sort"`
	IDs     []uint   `query:"id"`
	Active  bool     `query:"active"`
	Limit   *int     `query:"limit"`
	Ignored string   `query:"-"`
	Search  string   // binds as "search"
	Score   float64  `query:"score"`
	Labels  []string `query:"label"`
}

func TestQuery(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet,
		"/?page=2&sort=name&id=1&id=2,3&active=on&limit=10&ignored=x&search=go&score=1.5&label=a,b", nil)
	got, err := binder.Query[ctx, listQuery]()(newCtx(r, nil))
	require.NoError(t, err)

	require.NotNil(t, got.Limit)
	assert.Equal(t, 10, *got.Limit)
	got.Limit = nil
	assert.Equal(t, listQuery{
		Page:   2,
		Sort:   "name",
		IDs:    []uint{1, 2, 3},
		Active: true,
		Search: "go",
		Score:  1.5,
		Labels: []string{"a", "b"},
	}, got)
}

func TestQueryInvalidValue(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?page=two", nil)
	_, err := binder.Query[ctx, listQuery]()(newCtx(r, nil))
	ee := requireExtractionError(t, err, binder.SourceQuery)
	assert.Equal(t, "page", ee.Name)
	assert.ErrorIs(t, err, binder.ErrInvalidValue)
}

func TestQueryRejectsNonStruct(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/?x=1", nil)
	_, err := binder.Query[ctx, int]()(newCtx(r, nil))
	assert.ErrorIs(t, err, binder.ErrInvalidTarget)
}

func TestPath(t *testing.T) {
	t.Parallel()

	type userPath struct {
		ID   int64  `param:"id"`
		Slug string `param:"slug"`
		Rest string `param:"*"`
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	got, err := binder.Path[ctx, userPath]()(newCtx(r, map[string]string{"id": "42", "slug": "hello", "*": "a/b"}))
	require.NoError(t, err)
	assert.Equal(t, userPath{ID: 42, Slug: "hello", Rest: "a/b"}, got)

	_, err = binder.Path[ctx, userPath]()(newCtx(r, map[string]string{"id": "x"}))
	ee := requireExtractionError(t, err, binder.SourceParam)
	assert.Equal(t, "id", ee.Name)
}

type signup struct {
	Email    string                  `form:"email"`
	Agree    bool                    `form:"agree"`
	Untagged string                  // forms bind tagged fields only
	Avatar   *multipart.FileHeader   `file:"avatar"`
	Docs     []*multipart.FileHeader `file:"docs"`
}

func TestFormURLEncoded(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("email=a%40b.c&agree=yes&untagged=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	got, err := binder.Form[ctx, signup]()(newCtx(r, nil))
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", got.Email)
	assert.True(t, got.Agree)
	assert.Empty(t, got.Untagged)
}

func TestFormMultipart(t *testing.T) {
	t.Parallel()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("email", "a@b.c\x00"))
	fw, err := mw.CreateFormFile("avatar", `C:\Users\me\face.png`)
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png"))
	for _, name := range []string{"one.txt", "../two.txt"} {
		fw, err := mw.CreateFormFile("docs", name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte(name))
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	got, err := binder.Form[ctx, signup]()(newCtx(r, nil))
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", got.Email)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, "face.png", got.Avatar.Filename)
	require.Len(t, got.Docs, 2)
	assert.Equal(t, "two.txt", got.Docs[1].Filename)
}

func TestFormErrors(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	r.Header.Set("Content-Type", "application/json")
	_, err := binder.Form[ctx, signup]()(newCtx(r, nil))
	requireExtractionError(t, err, binder.SourceForm)
	assert.ErrorIs(t, err, binder.ErrUnsupportedMediaType)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("x"))
	r.Header.Set("Content-Type", "multipart/form-data")
	_, err = binder.Form[ctx, signup]()(newCtx(r, nil))
	assert.ErrorIs(t, err, binder.ErrInvalidForm)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("agree=maybe"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	_, err = binder.Form[ctx, signup]()(newCtx(r, nil))
	ee := requireExtractionError(t, err, binder.SourceForm)
	assert.Equal(t, "agree", ee.Name)
}

func TestBindingThroughRouter(t *testing.T) {
	t.Parallel()

	r := router.New[ctx]()
	r.Post("/users/:id", handler.Handle(binder.JSON[ctx, createUser](), func(c ctx, in createUser) handler.Response {
		return func(w http.ResponseWriter, _ *http.Request) error {
			_, err := w.Write([]byte(c.Param("id") + ":" + in.Name))
			return err
		}
	}))

	req := httptest.NewRequest(http.MethodPost, "/users/7", strings.NewReader(`{"name":"bob"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7:bob", rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/users/7", strings.NewReader(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
